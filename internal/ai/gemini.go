package ai

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API calls; limits and logging come from middleware.
type GeminiClient struct {
	cli        *genai.Client
	chatModel  string
	imageModel string
}

type GeminiConfig struct {
	APIKey string
	// BaseURL overrides the Gemini API endpoint, e.g. for a proxy.
	BaseURL    string
	ChatModel  string
	ImageModel string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingCredential
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      key,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimSpace(cfg.BaseURL)},
	})
	if err != nil {
		return nil, err
	}
	chatModel := strings.TrimSpace(cfg.ChatModel)
	if chatModel == "" {
		chatModel = "gemini-3-flash-preview"
	}
	imageModel := strings.TrimSpace(cfg.ImageModel)
	if imageModel == "" {
		imageModel = "gemini-3-pro-image-preview"
	}
	return &GeminiClient{cli: cli, chatModel: chatModel, imageModel: imageModel}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.chatModel + "," + g.imageModel }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) StartChat(ctx context.Context, systemInstruction string) (ChatSession, error) {
	cfg := &genai.GenerateContentConfig{}
	if s := strings.TrimSpace(systemInstruction); s != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	chat, err := g.cli.Chats.Create(ctx, g.chatModel, cfg, nil)
	if err != nil {
		return nil, err
	}
	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) SendStream(ctx context.Context, text string, onChunk func(string)) error {
	for resp, err := range c.chat.SendStream(ctx, genai.NewPartFromText(text)) {
		if err != nil {
			return err
		}
		if t := responseText(resp); t != "" {
			onChunk(t)
		}
	}
	return nil
}

func (g *GeminiClient) GenerateImage(ctx context.Context, req ImageRequest) (*InlineImage, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Source != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Source.Data, req.Source.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	resp, err := g.cli.Models.GenerateContent(ctx, g.imageModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: req.AspectRatio,
				ImageSize:   req.Size,
			},
		},
	)
	if err != nil {
		return nil, err
	}
	return firstInlineImage(resp), nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) *InlineImage {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		return &InlineImage{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
	}
	return nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
