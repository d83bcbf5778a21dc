package llm

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

// Model names per tier.
const (
	geminiLite  = "gemini-2.5-flash-lite"
	geminiFlash = "gemini-2.5-flash"
	geminiPro   = "gemini-2.5-pro"
)

// GeminiClient is a thin wrapper around the official genai client. It
// only focuses on the API call itself; retries and logging are applied
// via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &PermanentError{Err: ErrEmptyResponse}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateStream delivers the response through onChunk and returns the
// full text. The upstream call is a single completion; chunking beyond
// that is up to the provider client.
func (g *GeminiClient) GenerateStream(ctx context.Context, prompt string, onChunk func(chunk string)) (string, error) {
	text, err := g.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if onChunk != nil {
		onChunk(text)
	}
	return text, nil
}
