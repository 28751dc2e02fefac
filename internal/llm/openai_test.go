package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"vodscribe/internal/config"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	clientCfg := openai.DefaultConfig("test-key")
	clientCfg.BaseURL = server.URL + "/v1"
	provider, err := NewOpenAI(
		config.LLM{APIKey: "test-key", MaxRetries: 2},
		WithOpenAIClient(openai.NewClientWithConfig(clientCfg)),
		WithOpenAISleeper(func(context.Context, time.Duration) error { return nil }),
	)
	if err != nil {
		t.Fatal(err)
	}
	return provider
}

func TestOpenAICompleteParsesChoice(t *testing.T) {
	provider := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req["model"] != "gpt-4o" {
			t.Errorf("model = %v", req["model"])
		}
		if _, ok := req["response_format"]; !ok {
			t.Error("json mode not requested")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"topic\":\"go\"}"}}]}`))
	})

	content, err := provider.Complete(context.Background(), Request{
		Model:    "gpt-4o",
		System:   "You are an analyst.",
		Prompt:   "Analyze this.",
		JSONOnly: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if content != `{"topic":"go"}` {
		t.Errorf("content = %q", content)
	}
}

func TestOpenAICompleteRetriesServerErrors(t *testing.T) {
	attempts := 0
	provider := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"upstream hiccup"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})

	content, err := provider.Complete(context.Background(), Request{Model: "gpt-4o", Prompt: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if content != "ok" {
		t.Errorf("content = %q", content)
	}
}

func TestOpenAICompleteFailsFastOnAuthError(t *testing.T) {
	attempts := 0
	provider := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	_, err := provider.Complete(context.Background(), Request{Model: "gpt-4o", Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on auth failure)", attempts)
	}
}
