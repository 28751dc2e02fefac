package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vodscribe/internal/article"
	"vodscribe/internal/config"
	"vodscribe/internal/services"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = time.Second
	defaultRetryMaxDelay  = 10 * time.Second
)

// Request is one completion request. JSONOnly asks the model for a
// single JSON object as its entire output.
type Request struct {
	Model       string
	System      string
	Prompt      string
	JSONOnly    bool
	Temperature float32
	MaxTokens   int
}

// Provider generates text completions.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// SpeechTranscriber converts an audio file into timestamped text.
type SpeechTranscriber interface {
	TranscribeAudio(ctx context.Context, audioPath, language string) ([]article.TranscriptSegment, string, error)
}

// NewProvider builds the configured vendor's provider.
func NewProvider(ctx context.Context, cfg config.LLM) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg)
	case "gemini":
		return NewGemini(ctx, cfg)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "", "llm provider", "unknown provider "+cfg.Provider, nil)
	}
}

// DecodeJSON parses a model response into out, tolerating markdown code
// fences and prose around the JSON object.
func DecodeJSON(content string, out any) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.New("empty model response")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}
	if err := json.Unmarshal([]byte(content), out); err == nil {
		return nil
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model response")
	}
	return json.Unmarshal([]byte(content[start:end+1]), out)
}

type retrier struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
	sleep     func(context.Context, time.Duration) error
}

func newRetrier(attempts int) retrier {
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	return retrier{
		attempts:  attempts,
		baseDelay: defaultRetryBaseDelay,
		maxDelay:  defaultRetryMaxDelay,
		sleep:     sleepContext,
	}
}

// do runs fn with capped exponential backoff between attempts.
func (r retrier) do(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !services.Retryable(lastErr) || attempt == r.attempts {
			break
		}
		delay := r.baseDelay << (attempt - 1)
		if delay > r.maxDelay {
			delay = r.maxDelay
		}
		if err := r.sleep(ctx, delay); err != nil {
			return services.Wrap(services.ErrCancelled, "", op, "retry interrupted", err)
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
