package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
)

// onePixelPNG is a valid 1x1 transparent PNG.
var onePixelPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

// FakeClient returns deterministic replies for offline runs and tests. Chat
// replies echo the prompt in fixed-size chunks; images are a 1x1 PNG.
type FakeClient struct {
	chunkSize int
}

func NewFakeClient(chunkSize int) *FakeClient {
	if chunkSize <= 0 {
		chunkSize = 8
	}
	return &FakeClient{chunkSize: chunkSize}
}

func (f *FakeClient) Name() string { return "FakeAI" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) StartChat(_ context.Context, sys string) (ChatSession, error) {
	return &fakeChat{sys: sys, chunkSize: f.chunkSize}, nil
}

type fakeChat struct {
	sys       string
	chunkSize int

	mu    sync.Mutex
	turns int
}

// FakeReply is the full reply the fake chat streams for a given turn.
func FakeReply(turn int, text string) string {
	return fmt.Sprintf("承知しました（%d）：%s", turn, strings.TrimSpace(text))
}

func (c *fakeChat) SendStream(ctx context.Context, text string, onChunk func(string)) error {
	c.mu.Lock()
	c.turns++
	turn := c.turns
	c.mu.Unlock()

	reply := []rune(FakeReply(turn, text))
	for i := 0; i < len(reply); i += c.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(i+c.chunkSize, len(reply))
		onChunk(string(reply[i:end]))
	}
	return nil
}

func (f *FakeClient) GenerateImage(ctx context.Context, req ImageRequest) (*InlineImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := make([]byte, len(onePixelPNG))
	copy(data, onePixelPNG)
	return &InlineImage{MIMEType: "image/png", Data: data}, nil
}
