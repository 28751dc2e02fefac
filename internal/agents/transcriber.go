package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"vodscribe/internal/acquire"
	"vodscribe/internal/article"
	"vodscribe/internal/logging"
	"vodscribe/internal/services"
)

// MetadataSource resolves video metadata.
type MetadataSource interface {
	FetchMetadata(ctx context.Context, videoID string) (*article.VideoMetadata, error)
}

// Speech converts downloaded audio into timestamped text.
type Speech interface {
	TranscribeAudio(ctx context.Context, audioPath, language string) ([]article.TranscriptSegment, string, error)
}

// Transcriber produces the transcript for a video: captions when the
// video exposes them, otherwise downloaded audio run through speech
// recognition. Results are cached as JSON per video ID.
type Transcriber struct {
	engine   *acquire.Engine
	metadata MetadataSource
	speech   Speech

	cacheDir  string
	workDir   string
	languages []string
	logger    *slog.Logger
}

// NewTranscriber wires the transcription stage.
func NewTranscriber(engine *acquire.Engine, metadata MetadataSource, speech Speech, cacheDir, workDir string, languages []string, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transcriber{
		engine:    engine,
		metadata:  metadata,
		speech:    speech,
		cacheDir:  cacheDir,
		workDir:   workDir,
		languages: languages,
		logger:    logger,
	}
}

// Run transcribes the video, preferring the cache, then captions, then
// the audio fallback.
func (t *Transcriber) Run(ctx context.Context, videoID string) (*article.TranscriptResult, error) {
	if cached := t.loadCache(videoID); cached != nil {
		t.logger.Info("transcript loaded from cache", logging.String("video_id", videoID))
		return cached, nil
	}

	meta, err := t.metadata.FetchMetadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	acquired, err := t.engine.Acquire(ctx, videoID, t.workDir, t.languages)
	if err != nil {
		return nil, err
	}

	result := &article.TranscriptResult{
		VideoID:         videoID,
		Title:           meta.Title,
		Channel:         meta.Channel,
		DurationSeconds: meta.DurationSeconds,
		ThumbnailURL:    meta.ThumbnailURL,
		UploadDate:      meta.UploadDate,
		Language:        firstLanguage(t.languages),
	}

	if acquired.FromCaptions() {
		result.Segments = acquired.Captions
		result.Source = article.SourceCaptions
	} else {
		segments, language, err := t.transcribeAudio(ctx, acquired.AudioPath)
		if err != nil {
			return nil, err
		}
		result.Segments = segments
		result.Source = article.SourceWhisper
		if language != "" {
			result.Language = language
		}
	}
	result.Transcript = article.JoinSegments(result.Segments)
	if result.Transcript == "" {
		return nil, services.Wrap(services.ErrUnavailable, "transcription", "transcribe", "empty transcript for "+videoID, nil)
	}

	t.saveCache(videoID, result)
	t.logger.Info("transcription complete",
		logging.String("video_id", videoID),
		logging.Int("segments", len(result.Segments)),
		logging.String("source", string(result.Source)))
	return result, nil
}

// transcribeAudio locks the work directory for the duration of the
// speech call so concurrent runs do not trample each other's files,
// then removes the audio file.
func (t *Transcriber) transcribeAudio(ctx context.Context, audioPath string) ([]article.TranscriptSegment, string, error) {
	if t.speech == nil {
		return nil, "", services.Wrap(services.ErrConfiguration, "transcription", "transcribe", "no speech backend configured for the audio fallback", nil)
	}
	lock := flock.New(filepath.Join(t.workDir, ".transcribe.lock"))
	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 250*time.Millisecond)
	if err != nil || !locked {
		return nil, "", services.Wrap(services.ErrTransient, "transcription", "lock", "work directory busy", err)
	}
	defer lock.Unlock()
	defer os.Remove(audioPath)

	segments, language, err := t.speech.TranscribeAudio(ctx, audioPath, firstLanguage(t.languages))
	if err != nil {
		return nil, "", err
	}
	return segments, language, nil
}

func (t *Transcriber) cachePath(videoID string) string {
	return filepath.Join(t.cacheDir, fmt.Sprintf("%s_transcript.json", videoID))
}

func (t *Transcriber) loadCache(videoID string) *article.TranscriptResult {
	data, err := os.ReadFile(t.cachePath(videoID))
	if err != nil {
		return nil
	}
	var result article.TranscriptResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.logger.Warn("discarding unreadable transcript cache",
			logging.String("video_id", videoID), logging.Error(err))
		return nil
	}
	return &result
}

func (t *Transcriber) saveCache(videoID string, result *article.TranscriptResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(t.cachePath(videoID), data, 0o644); err != nil {
		t.logger.Warn("failed to cache transcript",
			logging.String("video_id", videoID), logging.Error(err))
	}
}

// ClearCache removes the cached transcript for videoID, or every cached
// transcript when videoID is empty.
func (t *Transcriber) ClearCache(videoID string) error {
	if videoID != "" {
		err := os.Remove(t.cachePath(videoID))
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	matches, err := filepath.Glob(filepath.Join(t.cacheDir, "*_transcript.json"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return err
		}
	}
	return nil
}

func firstLanguage(languages []string) string {
	if len(languages) > 0 {
		return languages[0]
	}
	return "en"
}
