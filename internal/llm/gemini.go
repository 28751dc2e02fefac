package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vodscribe/internal/config"
	"vodscribe/internal/services"
)

// Gemini implements Provider against the Google Generative AI API.
type Gemini struct {
	client *genai.Client
	retry  retrier
}

// NewGemini builds the provider from config.
func NewGemini(ctx context.Context, cfg config.LLM) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "gemini", "api key required", nil)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "gemini", "create client", err)
	}
	return &Gemini{client: client, retry: newRetrier(cfg.MaxRetries)}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Close releases the underlying API connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Complete issues a generation request with retry on transient errors.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(req.Model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSONOnly {
		model.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	var content string
	err := g.retry.do(ctx, "gemini complete", func() error {
		resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
		if err != nil {
			return services.Wrap(services.ErrTransient, "", "gemini complete", "generate content", err)
		}
		content = flattenGeminiResponse(resp)
		if content == "" {
			return services.Wrap(services.ErrTransient, "", "gemini complete", "empty candidates", nil)
		}
		return nil
	})
	return content, err
}

func flattenGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
