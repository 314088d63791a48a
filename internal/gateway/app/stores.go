package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"renohub/internal/estimate"
	"renohub/internal/fixtures"
	"renohub/internal/gateway/config"
	"renohub/internal/gateway/repository/projectstore"
	"renohub/internal/gateway/repository/rendering"
)

type gatewayStores struct {
	projects  projectstore.Store
	estimates *estimate.Book
	rendering rendering.Store
}

// initStores seeds the in-memory project and estimate state and picks the
// rendering backend.
func initStores(cfg *config.Config, log zerolog.Logger) (*gatewayStores, error) {
	renderings, err := initRenderingStore(cfg.Rendering, log)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		projects:  projectstore.NewMemoryStore(fixtures.Projects(), time.Now),
		estimates: estimate.NewBook(fixtures.Estimates()),
		rendering: renderings,
	}, nil
}

func initRenderingStore(cfg config.RenderingConfig, log zerolog.Logger) (rendering.Store, error) {
	if !cfg.S3Enabled() {
		store, err := rendering.NewMemoryStore(cfg.MemoryEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rendering memory store: %w", err)
		}
		log.Info().Int("max_entries", cfg.MemoryEntries).Msg("rendering store: in-memory")
		return store, nil
	}

	s3Cfg := rendering.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	}
	s3Store, err := rendering.NewS3Store(s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rendering s3 store: %w", err)
	}
	log.Info().Str("bucket", s3Cfg.Bucket).Str("endpoint", s3Cfg.Endpoint).Msg("rendering store: s3")
	return rendering.NewCachedStore(s3Store, rendering.CacheConfig{
		MaxEntries: cfg.MemoryEntries,
		TTL:        cfg.CacheTTL,
	}), nil
}
