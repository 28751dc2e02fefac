package acquire

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"vodscribe/internal/article"
	"vodscribe/internal/logging"
	"vodscribe/internal/services"
)

// CaptionSource serves the low-risk path: publicly exposed caption data
// fetched with no credentials and a single realistic request profile.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, videoID string, languages []string) ([]article.TranscriptSegment, error)
}

// Fetcher downloads the audio stream for a video under one strategy.
// It returns the path of the downloaded file.
type Fetcher interface {
	Download(ctx context.Context, videoID string, strategy Strategy, destDir string) (string, error)
}

// Canceller is polled before every network request.
type Canceller interface {
	IsCancelled() bool
}

// Result is the acquired source material. Either Captions or AudioPath
// is set; Strategy names the matrix entry that succeeded, nil when the
// caption path won.
type Result struct {
	VideoID   string
	Captions  []article.TranscriptSegment
	AudioPath string
	Strategy  *Strategy
}

// FromCaptions reports whether the low-risk caption path produced the
// result.
func (r *Result) FromCaptions() bool {
	return len(r.Captions) > 0 && r.AudioPath == ""
}

// Engine drives the strategy matrix. First success wins; total
// exhaustion yields an ExhaustedError.
type Engine struct {
	captions CaptionSource
	fetcher  Fetcher
	matrix   []Strategy

	maxRetries     int
	attemptTimeout time.Duration
	minDelay       time.Duration
	maxDelay       time.Duration

	sleep     func(context.Context, time.Duration) error
	randInt   func(n int64) int64
	canceller Canceller
	logger    *slog.Logger
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithMaxRetries bounds per-strategy transient retries.
func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRetries = n
		}
	}
}

// WithAttemptTimeout caps the wall time of a single download attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.attemptTimeout = d
		}
	}
}

// WithDelayBounds sets the interval the randomized inter-request pause
// is sampled from.
func WithDelayBounds(min, max time.Duration) Option {
	return func(e *Engine) {
		if min >= 0 && max >= min {
			e.minDelay = min
			e.maxDelay = max
		}
	}
}

// WithCanceller installs the cancellation flag polled at checkpoints.
func WithCanceller(c Canceller) Option {
	return func(e *Engine) { e.canceller = c }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSleeper replaces the delay primitive, for tests.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(e *Engine) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// WithRandInt replaces the delay sampler, for tests.
func WithRandInt(fn func(n int64) int64) Option {
	return func(e *Engine) {
		if fn != nil {
			e.randInt = fn
		}
	}
}

// NewEngine builds an engine over the given matrix.
func NewEngine(captions CaptionSource, fetcher Fetcher, matrix []Strategy, opts ...Option) *Engine {
	e := &Engine{
		captions:       captions,
		fetcher:        fetcher,
		matrix:         matrix,
		maxRetries:     5,
		attemptTimeout: 2 * time.Minute,
		minDelay:       time.Second,
		maxDelay:       3 * time.Second,
		sleep:          sleepContext,
		randInt:        rand.Int63n,
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Acquire obtains caption text or an audio file for videoID. Audio
// downloads land in destDir.
func (e *Engine) Acquire(ctx context.Context, videoID, destDir string, languages []string) (*Result, error) {
	requests := 0
	if err := e.checkpoint(ctx, &requests); err != nil {
		return nil, err
	}
	if e.captions != nil {
		segments, err := e.captions.FetchCaptions(ctx, videoID, languages)
		if err == nil && len(segments) > 0 {
			e.logger.Info("captions acquired",
				logging.String("video_id", videoID),
				logging.Int("segments", len(segments)))
			return &Result{VideoID: videoID, Captions: segments}, nil
		}
		if err != nil {
			if services.IsCancellation(err) {
				return nil, err
			}
			e.logger.Info("caption path failed, falling back to download matrix",
				logging.String("video_id", videoID),
				logging.Error(err))
		}
	}

	exhausted := &ExhaustedError{VideoID: videoID}
	for _, strategy := range e.matrix {
		path, err := e.tryStrategy(ctx, videoID, strategy, destDir, &requests)
		if err == nil {
			s := strategy
			e.logger.Info("audio acquired",
				logging.String("video_id", videoID),
				logging.String("strategy", s.String()))
			return &Result{VideoID: videoID, AudioPath: path, Strategy: &s}, nil
		}
		if services.IsCancellation(err) {
			return nil, err
		}
		e.logger.Warn("strategy failed",
			logging.String("video_id", videoID),
			logging.String("strategy", strategy.String()),
			logging.Error(err))
		exhausted.Failures = append(exhausted.Failures, StrategyFailure{Strategy: strategy, Err: err})
	}
	return nil, exhausted
}

// tryStrategy runs one strategy with bounded retries. Transient errors
// consume the retry budget; anything else abandons the strategy at once.
func (e *Engine) tryStrategy(ctx context.Context, videoID string, strategy Strategy, destDir string, requests *int) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		if err := e.checkpoint(ctx, requests); err != nil {
			return "", err
		}
		attemptCtx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
		path, err := e.fetcher.Download(attemptCtx, videoID, strategy, destDir)
		cancel()
		if err == nil {
			return path, nil
		}
		lastErr = err
		if !services.Retryable(err) {
			return "", err
		}
		e.logger.Debug("transient download failure",
			logging.String("strategy", strategy.String()),
			logging.Int("attempt", attempt),
			logging.Error(err))
	}
	return "", lastErr
}

// checkpoint polls cancellation and, from the second request onward,
// inserts the randomized inter-request pause. The pause is never skipped
// on retries.
func (e *Engine) checkpoint(ctx context.Context, requests *int) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrCancelled, "acquisition", "checkpoint", "context done", err)
	}
	if e.canceller != nil && e.canceller.IsCancelled() {
		return services.Wrap(services.ErrCancelled, "acquisition", "checkpoint", "cancellation requested", nil)
	}
	if *requests > 0 {
		if err := e.sleep(ctx, e.pauseDuration()); err != nil {
			return services.Wrap(services.ErrCancelled, "acquisition", "pause", "context done", err)
		}
	}
	*requests++
	return nil
}

func (e *Engine) pauseDuration() time.Duration {
	if e.maxDelay <= e.minDelay {
		return e.minDelay
	}
	span := int64(e.maxDelay - e.minDelay)
	return e.minDelay + time.Duration(e.randInt(span))
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
