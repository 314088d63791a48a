package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderFake   = "fake"
)

type ProviderConfig struct {
	Provider string
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
}

// Backends are the raw (undecorated) models for a provider choice. The
// OpenAI-compatible backend only serves chat; images still go to Gemini.
type Backends struct {
	Chat  ChatModel
	Image ImageModel
}

func Open(ctx context.Context, cfg ProviderConfig) (Backends, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		g, err := NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			return Backends{}, fmt.Errorf("gemini: %w", err)
		}
		return Backends{Chat: g, Image: g}, nil
	case ProviderOpenAI:
		o, err := NewOpenAIClient(cfg.OpenAI)
		if err != nil {
			return Backends{}, fmt.Errorf("openai: %w", err)
		}
		g, err := NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			return Backends{}, fmt.Errorf("gemini image backend: %w", err)
		}
		return Backends{Chat: o, Image: g}, nil
	case ProviderFake:
		f := NewFakeClient(0)
		return Backends{Chat: f, Image: f}, nil
	default:
		return Backends{}, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
