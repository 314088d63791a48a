// Package ai holds the clients for the hosted generative-AI service: a
// streaming chat model that speaks as a vendor, and an image model used for
// renderings. Cross-cutting concerns (rate limiting, logging) are applied
// as middleware.
package ai

import (
	"context"
	"errors"
)

var (
	ErrMissingCredential = errors.New("ai: missing API credential")
	ErrUnknownProvider   = errors.New("ai: unknown provider")
)

// ChatModel opens conversation sessions against the chat endpoint.
type ChatModel interface {
	Name() string
	// StartChat creates a session whose every turn is answered under the
	// given system instruction.
	StartChat(ctx context.Context, systemInstruction string) (ChatSession, error)
	Close() error
}

// ChatSession is one logical conversation. Turns must not overlap.
type ChatSession interface {
	// SendStream sends text and calls onChunk with each non-empty text
	// fragment, in arrival order. It returns when the stream is exhausted.
	SendStream(ctx context.Context, text string, onChunk func(chunk string)) error
}

// InlineImage is raster data plus its media type.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

type ImageRequest struct {
	Prompt      string
	Source      *InlineImage
	Size        string
	AspectRatio string
}

// ImageModel issues single-shot image generation requests. A nil image with
// a nil error means the response carried no image part.
type ImageModel interface {
	Name() string
	GenerateImage(ctx context.Context, req ImageRequest) (*InlineImage, error)
	Close() error
}
