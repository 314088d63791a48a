// Package imagegen turns rendering prompts into images through the image
// model: fresh 16:9 generations and 1:1 edits of an existing image.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"renohub/internal/ai"
	"renohub/internal/domain"
)

var (
	ErrEmptyPrompt = errors.New("imagegen: prompt is empty")
	ErrInvalidSize = errors.New("imagegen: invalid image size")
	// ErrRequestFailure matches every *GenerationError.
	ErrRequestFailure = errors.New("imagegen: request failed")
)

const (
	OpGenerate = "generate"
	OpEdit     = "edit"

	generateAspectRatio = "16:9"
	editAspectRatio     = "1:1"
	fallbackMIMEType    = "image/png"

	DefaultTimeout = 120 * time.Second
)

// GenerationError wraps a failed call to the image model.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("imagegen: %s failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrRequestFailure }

type Image struct {
	MIMEType string
	Data     []byte
}

func (i *Image) DataURL() string { return EncodeDataURL(i.MIMEType, i.Data) }

// Metrics observes each request that reached the model.
type Metrics interface {
	ImageRequest(op, status string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ImageRequest(string, string, time.Duration) {}

type Service struct {
	model   ai.ImageModel
	timeout time.Duration
	log     zerolog.Logger
	metrics Metrics
}

type Option func(*Service)

func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }
func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }
func WithMetrics(m Metrics) Option       { return func(s *Service) { s.metrics = m } }

func NewService(model ai.ImageModel, opts ...Option) *Service {
	s := &Service{model: model, timeout: DefaultTimeout, log: zerolog.Nop(), metrics: nopMetrics{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate renders prompt at the given size. A nil image with a nil error
// means the model answered without an image.
func (s *Service) Generate(ctx context.Context, prompt string, size domain.ImageSize) (*Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}
	return s.do(ctx, OpGenerate, ai.ImageRequest{
		Prompt:      prompt,
		Size:        string(size),
		AspectRatio: generateAspectRatio,
	})
}

// Edit applies instruction to the image encoded in sourceDataURL. The
// source media type is taken from the data URL header.
func (s *Service) Edit(ctx context.Context, sourceDataURL, instruction string) (*Image, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, ErrEmptyPrompt
	}
	mimeType, data, err := ParseDataURL(sourceDataURL)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, OpEdit, ai.ImageRequest{
		Prompt:      instruction,
		Source:      &ai.InlineImage{MIMEType: mimeType, Data: data},
		Size:        string(domain.ImageSize1K),
		AspectRatio: editAspectRatio,
	})
}

func (s *Service) do(ctx context.Context, op string, req ai.ImageRequest) (*Image, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	img, err := s.model.GenerateImage(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ImageRequest(op, "error", elapsed)
		s.log.Error().Err(err).Str("op", op).Msg("image request failed")
		return nil, &GenerationError{Op: op, Err: err}
	}
	if img == nil || len(img.Data) == 0 {
		s.metrics.ImageRequest(op, "empty", elapsed)
		s.log.Info().Str("op", op).Msg("image response had no image part")
		return nil, nil
	}
	s.metrics.ImageRequest(op, "ok", elapsed)

	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = fallbackMIMEType
	}
	return &Image{MIMEType: mimeType, Data: img.Data}, nil
}
