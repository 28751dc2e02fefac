package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"vodscribe/internal/services"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Topic string `json:"topic"`
	}
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", `{"topic":"go"}`, "go", false},
		{"fenced", "```json\n{\"topic\":\"go\"}\n```", "go", false},
		{"bare fence", "```\n{\"topic\":\"go\"}\n```", "go", false},
		{"prose wrapped", "Here you go:\n{\"topic\":\"go\"}\nHope that helps.", "go", false},
		{"empty", "", "", true},
		{"no object", "sorry, I cannot", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out payload
			err := DecodeJSON(tc.input, &out)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", out)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if out.Topic != tc.want {
				t.Errorf("topic = %q, want %q", out.Topic, tc.want)
			}
		})
	}
}

func TestRetrierStopsOnNonRetryable(t *testing.T) {
	r := newRetrier(5)
	r.sleep = func(context.Context, time.Duration) error { return nil }
	calls := 0
	err := r.do(context.Background(), "op", func() error {
		calls++
		return services.Wrap(services.ErrConfiguration, "", "op", "bad key", nil)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("err = %v", err)
	}
}

func TestRetrierRetriesTransient(t *testing.T) {
	r := newRetrier(3)
	var delays []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	calls := 0
	err := r.do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return services.Wrap(services.ErrTransient, "", "op", "flaky", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(delays) != 2 || delays[1] != 2*delays[0] {
		t.Errorf("backoff delays = %v", delays)
	}
}

func TestRetrierExhaustsBudget(t *testing.T) {
	r := newRetrier(2)
	r.sleep = func(context.Context, time.Duration) error { return nil }
	calls := 0
	err := r.do(context.Background(), "op", func() error {
		calls++
		return services.Wrap(services.ErrTransient, "", "op", "down", nil)
	})
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
}
