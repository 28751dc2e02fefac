package acquire

import (
	"context"
	"errors"
	"testing"
	"time"

	"vodscribe/internal/article"
	"vodscribe/internal/services"
)

type stubCaptions struct {
	segments []article.TranscriptSegment
	err      error
	calls    int
}

func (s *stubCaptions) FetchCaptions(_ context.Context, _ string, _ []string) ([]article.TranscriptSegment, error) {
	s.calls++
	return s.segments, s.err
}

type stubFetcher struct {
	results map[string]error
	path    string
	calls   []string
}

func (s *stubFetcher) Download(_ context.Context, _ string, strategy Strategy, _ string) (string, error) {
	s.calls = append(s.calls, strategy.String())
	if err, ok := s.results[strategy.String()]; ok && err != nil {
		return "", err
	}
	return s.path, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func testEngine(captions CaptionSource, fetcher Fetcher, matrix []Strategy, opts ...Option) *Engine {
	base := []Option{WithSleeper(noSleep), WithRandInt(func(int64) int64 { return 0 })}
	return NewEngine(captions, fetcher, matrix, append(base, opts...)...)
}

func TestMatrixOrder(t *testing.T) {
	matrix := Matrix([]string{"chrome", "none"}, []string{"android", "web"})
	want := []Strategy{
		{"chrome", "android"},
		{"chrome", "web"},
		{"none", "android"},
		{"none", "web"},
	}
	if len(matrix) != len(want) {
		t.Fatalf("matrix size = %d, want %d", len(matrix), len(want))
	}
	for i := range want {
		if matrix[i] != want[i] {
			t.Errorf("matrix[%d] = %v, want %v", i, matrix[i], want[i])
		}
	}
}

func TestCaptionPathWins(t *testing.T) {
	captions := &stubCaptions{segments: []article.TranscriptSegment{{Text: "hello"}}}
	fetcher := &stubFetcher{path: "/tmp/a.mp3"}
	engine := testEngine(captions, fetcher, Matrix([]string{"none"}, []string{"android"}))

	result, err := engine.Acquire(context.Background(), "vid123", t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.FromCaptions() {
		t.Fatal("expected caption result")
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times on caption success", len(fetcher.calls))
	}
}

func TestFirstSuccessWinsWithFailureLog(t *testing.T) {
	captions := &stubCaptions{err: services.Wrap(services.ErrUnavailable, "acquisition", "captions", "no tracks", nil)}
	matrix := []Strategy{
		{"chrome", "android"},
		{"firefox", "android"},
		{"none", "android"},
	}
	fetcher := &stubFetcher{
		path: "/tmp/vid.mp3",
		results: map[string]error{
			"chrome/android":  services.Wrap(services.ErrCredentials, "acquisition", "download", "store locked", nil),
			"firefox/android": services.Wrap(services.ErrBlocked, "acquisition", "download", "403", nil),
		},
	}
	engine := testEngine(captions, fetcher, matrix)

	result, err := engine.Acquire(context.Background(), "vid123", t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.AudioPath != "/tmp/vid.mp3" {
		t.Errorf("audio path = %q", result.AudioPath)
	}
	if result.Strategy == nil || result.Strategy.String() != "none/android" {
		t.Errorf("winning strategy = %v", result.Strategy)
	}
	// strategy failures short-circuit retries, so exactly one call each
	if len(fetcher.calls) != 3 {
		t.Errorf("fetcher calls = %v", fetcher.calls)
	}
}

func TestExhaustionAggregatesAllStrategies(t *testing.T) {
	matrix := []Strategy{
		{"chrome", "android"},
		{"none", "android"},
	}
	fetcher := &stubFetcher{
		results: map[string]error{
			"chrome/android": services.Wrap(services.ErrCredentials, "acquisition", "download", "store locked", nil),
			"none/android":   services.Wrap(services.ErrBlocked, "acquisition", "download", "429", nil),
		},
	}
	engine := testEngine(nil, fetcher, matrix)

	_, err := engine.Acquire(context.Background(), "vid123", t.TempDir(), nil)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %T %v, want *ExhaustedError", err, err)
	}
	if len(exhausted.Failures) != len(matrix) {
		t.Fatalf("failure entries = %d, want %d", len(exhausted.Failures), len(matrix))
	}
	if exhausted.Failures[0].Strategy.CookieSource != "chrome" {
		t.Error("failures not in attempt order")
	}
	if !errors.Is(err, services.ErrCredentials) || !errors.Is(err, services.ErrBlocked) {
		t.Error("aggregated error must expose per-strategy causes")
	}
}

func TestTransientFailuresConsumeRetryBudget(t *testing.T) {
	matrix := []Strategy{{"none", "android"}}
	fetcher := &stubFetcher{
		results: map[string]error{
			"none/android": services.Wrap(services.ErrTransient, "acquisition", "download", "timeout", nil),
		},
	}
	engine := testEngine(nil, fetcher, matrix, WithMaxRetries(3))

	_, err := engine.Acquire(context.Background(), "vid123", t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected exhaustion")
	}
	if len(fetcher.calls) != 3 {
		t.Errorf("attempts = %d, want 3", len(fetcher.calls))
	}
}

type flagCanceller struct{ flag bool }

func (f *flagCanceller) IsCancelled() bool { return f.flag }

func TestCancellationCheckpointStopsEngine(t *testing.T) {
	fetcher := &stubFetcher{path: "/tmp/vid.mp3"}
	engine := testEngine(nil, fetcher, Matrix([]string{"none"}, []string{"android"}),
		WithCanceller(&flagCanceller{flag: true}))

	_, err := engine.Acquire(context.Background(), "vid123", t.TempDir(), nil)
	if !services.IsCancellation(err) {
		t.Fatalf("err = %v, want cancellation", err)
	}
	if len(fetcher.calls) != 0 {
		t.Error("no request may be issued after cancellation")
	}
}

func TestInterRequestPauseIsUnconditional(t *testing.T) {
	matrix := []Strategy{{"none", "android"}}
	fetcher := &stubFetcher{
		results: map[string]error{
			"none/android": services.Wrap(services.ErrTransient, "acquisition", "download", "timeout", nil),
		},
	}
	var pauses int
	engine := NewEngine(nil, fetcher, matrix,
		WithMaxRetries(3),
		WithRandInt(func(int64) int64 { return 0 }),
		WithSleeper(func(context.Context, time.Duration) error {
			pauses++
			return nil
		}))

	_, _ = engine.Acquire(context.Background(), "vid123", t.TempDir(), nil)
	// three requests, pause before every one but the first
	if pauses != 2 {
		t.Errorf("pauses = %d, want 2", pauses)
	}
}

func TestPauseDurationWithinBounds(t *testing.T) {
	engine := NewEngine(nil, nil, nil, WithDelayBounds(time.Second, 3*time.Second))
	for range 50 {
		d := engine.pauseDuration()
		if d < time.Second || d >= 3*time.Second {
			t.Fatalf("pause %v outside [1s, 3s)", d)
		}
	}
}
