package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vodscribe/internal/article"
	"vodscribe/internal/config"
	"vodscribe/internal/logging"
	"vodscribe/internal/services"
	"vodscribe/internal/textutil"
)

// Renderer produces one output format from pipeline output.
type Renderer interface {
	// Extension returns the file extension without the leading dot.
	Extension() string
	// Render serializes the output into the format's byte representation.
	Render(output *article.FinalOutput) ([]byte, error)
}

// ForFormat returns the renderer registered for a format name.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "html":
		return &HTMLRenderer{}, nil
	case "csv":
		return &CSVRenderer{}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "export", "format", fmt.Sprintf("unknown export format %q", format), nil)
	}
}

// Service writes pipeline output in every configured format.
type Service struct {
	outputDir         string
	formats           []string
	includeTranscript bool
	logger            *slog.Logger
}

// NewService builds an export service from configuration.
func NewService(cfg config.Export, outputDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		outputDir:         outputDir,
		formats:           cfg.Formats,
		includeTranscript: cfg.IncludeTranscript,
		logger:            logger,
	}
}

// Export writes the output in each configured format and returns the
// written file paths.
func (s *Service) Export(output *article.FinalOutput) ([]string, error) {
	if output == nil {
		return nil, services.Wrap(services.ErrValidation, "export", "write", "output is nil", nil)
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "write", "create output directory", err)
	}

	toWrite := output
	if !s.includeTranscript && output.Transcript != nil {
		trimmed := *output
		trimmed.Transcript = nil
		toWrite = &trimmed
	}

	base := DefaultFilename(toWrite)
	var paths []string
	for _, format := range s.formats {
		renderer, err := ForFormat(format)
		if err != nil {
			return paths, err
		}
		data, err := renderer.Render(toWrite)
		if err != nil {
			return paths, services.Wrap(services.ErrTransient, "export", "render", fmt.Sprintf("render %s", format), err)
		}
		path := filepath.Join(s.outputDir, base+"."+renderer.Extension())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, services.Wrap(services.ErrTransient, "export", "write", fmt.Sprintf("write %s", path), err)
		}
		s.logger.Info("article exported",
			logging.String("format", renderer.Extension()),
			logging.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// DefaultFilename derives the output basename from the article slug,
// falling back to the video ID. The slug comes back from a model, so it
// is sanitized before touching the filesystem.
func DefaultFilename(output *article.FinalOutput) string {
	if output.SEO != nil && output.SEO.Slug != "" {
		if name := textutil.SanitizeFileName(output.SEO.Slug); name != "" {
			return name
		}
	}
	return output.SourceVideo.VideoID
}
