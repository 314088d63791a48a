package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renohub/internal/ai"
	"renohub/internal/gateway/config"
	"renohub/internal/gateway/repository/rendering"
)

func fakeConfig() *config.Config {
	return &config.Config{
		Port:              ":0",
		AIProvider:        ai.ProviderFake,
		ChatStreamTimeout: time.Second,
		ImageTimeout:      time.Second,
		Rendering:         config.RenderingConfig{MemoryEntries: 4},
	}
}

func TestBuild_FakeProvider(t *testing.T) {
	a, err := build(context.Background(), fakeConfig(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "FakeAI", a.backends.Chat.Name())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, a.Shutdown(ctx))
}

func TestBuild_UnknownProvider(t *testing.T) {
	cfg := fakeConfig()
	cfg.AIProvider = "claude"
	_, err := build(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, ai.ErrUnknownProvider)
}

func TestInitRenderingStore(t *testing.T) {
	store, err := initRenderingStore(config.RenderingConfig{MemoryEntries: 2}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &rendering.MemoryStore{}, store)

	store, err = initRenderingStore(config.RenderingConfig{
		Endpoint:  "localhost:9000",
		Bucket:    "renders",
		AccessKey: "minio",
		SecretKey: "minio123",
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &rendering.CachedStore{}, store)
}
