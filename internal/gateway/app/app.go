package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"renohub/internal/ai"
	"renohub/internal/chat"
	"renohub/internal/fixtures"
	"renohub/internal/gateway/config"
	"renohub/internal/gateway/handler"
	"renohub/internal/gateway/handler/rpc"
	"renohub/internal/gateway/metrics"
	"renohub/internal/gateway/middleware"
	"renohub/internal/gateway/repository/rendering"
	"renohub/internal/gateway/server"
	"renohub/internal/imagegen"
	"renohub/internal/scan"
)

type App struct {
	server   *server.Server
	backends ai.Backends
	limiter  *ai.Limiter
	log      zerolog.Logger
}

// New validates cfg and wires the gateway onto it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return build(ctx, cfg, log)
}

func build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	backends, err := ai.Open(ctx, cfg.Provider())
	if err != nil {
		return nil, fmt.Errorf("failed to open ai provider: %w", err)
	}
	log.Info().
		Str("provider", cfg.AIProvider).
		Str("chat_model", backends.Chat.Name()).
		Str("image_model", backends.Image.Name()).
		Msg("ai backends ready")

	limiter := ai.NewLimiter(cfg.LLMRPS, cfg.LLMBurst)
	chatModel := ai.WrapChat(backends.Chat, ai.ChatRateLimit(limiter), ai.ChatLogging(log))
	imageModel := ai.WrapImage(backends.Image, ai.ImageRateLimit(limiter), ai.ImageLogging(log))

	stores, err := initStores(cfg, log)
	if err != nil {
		limiter.Stop()
		closeBackends(backends, log)
		return nil, err
	}

	m := metrics.New()
	if cached, ok := stores.rendering.(*rendering.CachedStore); ok {
		m.WatchRenderingCache(func() (uint64, uint64, uint64) {
			st := cached.Stats()
			return st.Hits, st.Misses, st.OriginReads
		})
	}
	dir := chat.NewDirectory(fixtures.ChannelGroups())
	transcripts := chat.NewTranscript(fixtures.Transcripts())
	images := imagegen.NewService(imageModel,
		imagegen.WithTimeout(cfg.ImageTimeout),
		imagegen.WithLogger(log),
		imagegen.WithMetrics(m),
	)

	mux := server.NewMux(server.Handlers{
		Project:  rpc.NewProjectHandler(stores.projects, m, log),
		Estimate: rpc.NewEstimateHandler(stores.estimates, stores.projects, m, log),
		Image:    rpc.NewImageHandler(images, stores.rendering, time.Now, log),
		Chat:     rpc.NewChatHandler(dir, transcripts, stores.estimates),
		Scan:     rpc.NewScanHandler(scan.New(), stores.projects),
		ChatWS: rpc.NewChatStreamHandler(chatModel, dir, transcripts, m, log,
			chat.WithStreamTimeout(cfg.ChatStreamTimeout),
			chat.WithMetrics(m),
		).WithOriginCheck(middleware.OriginAllowed(cfg.CORSOrigins)),
		Rendering: handler.NewRenderingHandler(stores.rendering, log),
		Trace:     handler.NewTraceHandler(log),
		Metrics:   m.Handler(),
	}, cfg.CORSOrigins)

	return &App{
		server:   server.New(cfg.Port, mux, log),
		backends: backends,
		limiter:  limiter,
		log:      log,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.limiter.Stop()
	closeBackends(a.backends, a.log)
	return err
}

func closeBackends(b ai.Backends, log zerolog.Logger) {
	if err := b.Chat.Close(); err != nil {
		log.Warn().Err(err).Msg("close chat backend")
	}
	if any(b.Image) != any(b.Chat) {
		if err := b.Image.Close(); err != nil {
			log.Warn().Err(err).Msg("close image backend")
		}
	}
}
