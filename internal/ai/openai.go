package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient serves the chat side from any OpenAI-compatible endpoint.
// It keeps the conversation history itself since the API is stateless.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingCredential
	}
	clientConfig := openai.DefaultConfig(key)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientConfig.BaseURL = base
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(clientConfig), model: model}, nil
}

func (o *OpenAIClient) Name() string { return "OpenAI:" + o.model }
func (o *OpenAIClient) Close() error { return nil }

func (o *OpenAIClient) StartChat(_ context.Context, systemInstruction string) (ChatSession, error) {
	s := &openAIChat{client: o.client, model: o.model}
	if sys := strings.TrimSpace(systemInstruction); sys != "" {
		s.history = append(s.history, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: sys})
	}
	return s, nil
}

type openAIChat struct {
	client *openai.Client
	model  string

	mu      sync.Mutex
	history []openai.ChatCompletionMessage
}

func (s *openAIChat) SendStream(ctx context.Context, text string, onChunk func(string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append(append([]openai.ChatCompletionMessage(nil), s.history...),
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text})

	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("create stream: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			full.WriteString(delta)
			onChunk(delta)
		}
	}
	// History only records completed turns.
	s.history = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: full.String()})
	return nil
}
