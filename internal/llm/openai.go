package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"vodscribe/internal/article"
	"vodscribe/internal/config"
	"vodscribe/internal/services"
)

// OpenAI implements Provider and SpeechTranscriber against the OpenAI
// API. It is the only vendor with a speech endpoint, so the audio
// fallback always goes through it.
type OpenAI struct {
	client       *openai.Client
	whisperModel string
	retry        retrier
}

// OpenAIOption configures the provider.
type OpenAIOption func(*OpenAI)

// WithOpenAIClient replaces the underlying client, for tests and
// proxies.
func WithOpenAIClient(client *openai.Client) OpenAIOption {
	return func(o *OpenAI) {
		if client != nil {
			o.client = client
		}
	}
}

// WithOpenAISleeper replaces the retry sleep, for tests.
func WithOpenAISleeper(sleep func(context.Context, time.Duration) error) OpenAIOption {
	return func(o *OpenAI) {
		if sleep != nil {
			o.retry.sleep = sleep
		}
	}
}

// NewOpenAI builds the provider from config.
func NewOpenAI(cfg config.LLM, opts ...OpenAIOption) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "openai", "api key required", nil)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.TimeoutSeconds > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	provider := &OpenAI{
		client:       openai.NewClientWithConfig(clientCfg),
		whisperModel: openai.Whisper1,
		retry:        newRetrier(cfg.MaxRetries),
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider, nil
}

func (o *OpenAI) Name() string { return "openai" }

// Complete issues a chat completion with retry on transient API errors.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONOnly {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	err := o.retry.do(ctx, "openai complete", func() error {
		resp, err := o.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return classifyOpenAIError("complete", err)
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return services.Wrap(services.ErrTransient, "", "openai complete", "empty choices", nil)
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	return content, err
}

// TranscribeAudio runs the audio file through the speech endpoint and
// returns timestamped segments plus the detected language.
func (o *OpenAI) TranscribeAudio(ctx context.Context, audioPath, language string) ([]article.TranscriptSegment, string, error) {
	req := openai.AudioRequest{
		Model:    o.whisperModel,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	}

	var segments []article.TranscriptSegment
	detected := language
	err := o.retry.do(ctx, "openai transcribe", func() error {
		resp, err := o.client.CreateTranscription(ctx, req)
		if err != nil {
			return classifyOpenAIError("transcribe", err)
		}
		segments = segments[:0]
		for _, seg := range resp.Segments {
			text := strings.TrimSpace(seg.Text)
			if text == "" {
				continue
			}
			segments = append(segments, article.TranscriptSegment{
				Start: seg.Start,
				End:   seg.End,
				Text:  text,
			})
		}
		if len(segments) == 0 && strings.TrimSpace(resp.Text) != "" {
			segments = append(segments, article.TranscriptSegment{Text: strings.TrimSpace(resp.Text)})
		}
		if resp.Language != "" {
			detected = resp.Language
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return segments, detected, nil
}

// classifyOpenAIError folds API status codes into the failure taxonomy
// so the retrier only retries what is worth retrying.
func classifyOpenAIError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "", "openai "+op, "api key rejected", err)
		case apiErr.HTTPStatusCode == http.StatusBadRequest || apiErr.HTTPStatusCode == http.StatusNotFound:
			return services.Wrap(services.ErrValidation, "", "openai "+op, "request rejected", err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500:
			return services.Wrap(services.ErrTransient, "", "openai "+op, "api unavailable", err)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrCancelled, "", "openai "+op, "request interrupted", err)
	}
	return services.Wrap(services.ErrTransient, "", "openai "+op, "request failed", err)
}
