package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ChatMiddleware decorates a ChatModel; ImageMiddleware an ImageModel.
type (
	ChatMiddleware  func(ChatModel) ChatModel
	ImageMiddleware func(ImageModel) ImageModel
)

// WrapChat applies middlewares in left-to-right order:
// WrapChat(inner, A, B) => A(B(inner)).
func WrapChat(inner ChatModel, mws ...ChatMiddleware) ChatModel {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

func WrapImage(inner ImageModel, mws ...ImageMiddleware) ImageModel {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate limiting --------

// ChatRateLimit makes every streamed turn take one token.
func ChatRateLimit(l *Limiter) ChatMiddleware {
	return func(next ChatModel) ChatModel {
		return &rateLimitedChat{next: next, l: l}
	}
}

type rateLimitedChat struct {
	next ChatModel
	l    *Limiter
}

func (c *rateLimitedChat) Name() string { return c.next.Name() }
func (c *rateLimitedChat) Close() error { return c.next.Close() }
func (c *rateLimitedChat) StartChat(ctx context.Context, sys string) (ChatSession, error) {
	s, err := c.next.StartChat(ctx, sys)
	if err != nil {
		return nil, err
	}
	return &rateLimitedSession{next: s, l: c.l}, nil
}

type rateLimitedSession struct {
	next ChatSession
	l    *Limiter
}

func (s *rateLimitedSession) SendStream(ctx context.Context, text string, onChunk func(string)) error {
	if err := s.l.Acquire(ctx); err != nil {
		return err
	}
	return s.next.SendStream(ctx, text, onChunk)
}

func ImageRateLimit(l *Limiter) ImageMiddleware {
	return func(next ImageModel) ImageModel {
		return &rateLimitedImage{next: next, l: l}
	}
}

type rateLimitedImage struct {
	next ImageModel
	l    *Limiter
}

func (c *rateLimitedImage) Name() string { return c.next.Name() }
func (c *rateLimitedImage) Close() error { return c.next.Close() }
func (c *rateLimitedImage) GenerateImage(ctx context.Context, req ImageRequest) (*InlineImage, error) {
	if err := c.l.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateImage(ctx, req)
}

// -------- Logging --------

// ChatLogging logs turn sizes, chunk counts and errors.
func ChatLogging(logger zerolog.Logger) ChatMiddleware {
	return func(next ChatModel) ChatModel {
		return &loggingChat{next: next, log: logger.With().Str("model", next.Name()).Logger()}
	}
}

type loggingChat struct {
	next ChatModel
	log  zerolog.Logger
}

func (l *loggingChat) Name() string { return l.next.Name() }
func (l *loggingChat) Close() error { return l.next.Close() }
func (l *loggingChat) StartChat(ctx context.Context, sys string) (ChatSession, error) {
	s, err := l.next.StartChat(ctx, sys)
	if err != nil {
		l.log.Error().Err(err).Msg("start chat failed")
		return nil, err
	}
	return &loggingSession{next: s, log: l.log}, nil
}

type loggingSession struct {
	next ChatSession
	log  zerolog.Logger
}

func (s *loggingSession) SendStream(ctx context.Context, text string, onChunk func(string)) error {
	start := time.Now()
	chunks, size := 0, 0
	err := s.next.SendStream(ctx, text, func(c string) {
		chunks++
		size += len(c)
		onChunk(c)
	})
	ev := s.log.Debug()
	if err != nil {
		ev = s.log.Warn().Err(err)
	}
	ev.Int("prompt_bytes", len(text)).
		Int("chunks", chunks).
		Int("reply_bytes", size).
		Dur("elapsed", time.Since(start)).
		Msg("chat turn")
	return err
}

func ImageLogging(logger zerolog.Logger) ImageMiddleware {
	return func(next ImageModel) ImageModel {
		return &loggingImage{next: next, log: logger.With().Str("model", next.Name()).Logger()}
	}
}

type loggingImage struct {
	next ImageModel
	log  zerolog.Logger
}

func (l *loggingImage) Name() string { return l.next.Name() }
func (l *loggingImage) Close() error { return l.next.Close() }
func (l *loggingImage) GenerateImage(ctx context.Context, req ImageRequest) (*InlineImage, error) {
	start := time.Now()
	img, err := l.next.GenerateImage(ctx, req)
	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Warn().Err(err)
	}
	ev.Bool("edit", req.Source != nil).
		Str("size", req.Size).
		Str("aspect", req.AspectRatio).
		Bool("has_image", img != nil).
		Dur("elapsed", time.Since(start)).
		Msg("image request")
	return img, err
}
