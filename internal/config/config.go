package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	CacheDir  string `toml:"cache_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
}

// LLM contains shared language-model connection settings used by the
// analysis, writing, and SEO stages.
type LLM struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	AnalyzerModel  string `toml:"analyzer_model"`
	WriterModel    string `toml:"writer_model"`
	SEOModel       string `toml:"seo_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// Whisper contains settings for the audio-transcription fallback.
type Whisper struct {
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Acquisition contains settings for the transcript/audio acquisition engine.
type Acquisition struct {
	// MaxRetries bounds download attempts per strategy for transient failures.
	MaxRetries int `toml:"max_retries"`
	// AttemptTimeoutSeconds is the fixed per-attempt timeout.
	AttemptTimeoutSeconds int `toml:"attempt_timeout_seconds"`
	// MinRequestDelayMS/MaxRequestDelayMS bound the randomized pause inserted
	// between any two network requests.
	MinRequestDelayMS int `toml:"min_request_delay_ms"`
	MaxRequestDelayMS int `toml:"max_request_delay_ms"`
	// CookieBrowsers lists browser cookie stores tried as credential sources,
	// most authenticated first. "none" means anonymous.
	CookieBrowsers []string `toml:"cookie_browsers"`
	// ClientProfiles lists simulated client identities paired with each
	// credential source.
	ClientProfiles []string `toml:"client_profiles"`
	// CaptionLanguages are preferred caption languages for the low-risk path.
	CaptionLanguages []string `toml:"caption_languages"`
}

// Export contains configuration for article output files.
type Export struct {
	Formats           []string `toml:"formats"`
	IncludeTranscript bool     `toml:"include_transcript"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Runs           bool   `toml:"runs"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vodscribe.
//
// Configuration sections by subsystem:
//   - Paths: output, cache, work, and log directories
//   - LLM: provider and per-stage model selection
//   - Whisper: audio transcription fallback settings
//   - Acquisition: retry budgets, request pacing, strategy matrix inputs
//   - Export: output formats for generated articles
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	LLM           LLM           `toml:"llm"`
	Whisper       Whisper       `toml:"whisper"`
	Acquisition   Acquisition   `toml:"acquisition"`
	Export        Export        `toml:"export"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vodscribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vodscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.CacheDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the annotated sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists: %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
