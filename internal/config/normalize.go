package config

import (
	"fmt"
	"os"
	"strings"

	"vodscribe/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeAcquisition()
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "gemini":
			if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
				c.LLM.APIKey = value
			}
		default:
			if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
				c.LLM.APIKey = value
			}
		}
	}
	if strings.TrimSpace(c.LLM.AnalyzerModel) == "" {
		c.LLM.AnalyzerModel = defaultAnalyzerModel
	}
	if strings.TrimSpace(c.LLM.WriterModel) == "" {
		c.LLM.WriterModel = defaultWriterModel
	}
	if strings.TrimSpace(c.LLM.SEOModel) == "" {
		c.LLM.SEOModel = defaultSEOModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
	if c.LLM.MaxRetries <= 0 {
		c.LLM.MaxRetries = defaultLLMMaxRetries
	}
	if strings.TrimSpace(c.Whisper.Model) == "" {
		c.Whisper.Model = defaultWhisperModel
	}
}

func (c *Config) normalizeAcquisition() {
	if c.Acquisition.MaxRetries <= 0 {
		c.Acquisition.MaxRetries = defaultAcquireRetries
	}
	if c.Acquisition.AttemptTimeoutSeconds <= 0 {
		c.Acquisition.AttemptTimeoutSeconds = defaultAttemptTimeoutSeconds
	}
	if c.Acquisition.MinRequestDelayMS <= 0 {
		c.Acquisition.MinRequestDelayMS = defaultMinRequestDelayMS
	}
	if c.Acquisition.MaxRequestDelayMS <= 0 {
		c.Acquisition.MaxRequestDelayMS = defaultMaxRequestDelayMS
	}
	if len(c.Acquisition.CookieBrowsers) == 0 {
		c.Acquisition.CookieBrowsers = []string{"chrome", "firefox", "none"}
	}
	if len(c.Acquisition.ClientProfiles) == 0 {
		c.Acquisition.ClientProfiles = []string{"android", "ios", "web"}
	}
	c.Acquisition.CaptionLanguages = language.NormalizeList(c.Acquisition.CaptionLanguages)
	if len(c.Acquisition.CaptionLanguages) == 0 {
		c.Acquisition.CaptionLanguages = []string{"en"}
	}
	for i, browser := range c.Acquisition.CookieBrowsers {
		c.Acquisition.CookieBrowsers[i] = strings.ToLower(strings.TrimSpace(browser))
	}
	for i, profile := range c.Acquisition.ClientProfiles {
		c.Acquisition.ClientProfiles[i] = strings.ToLower(strings.TrimSpace(profile))
	}
}

func (c *Config) normalizeExport() {
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"markdown", "json"}
	}
	for i, format := range c.Export.Formats {
		c.Export.Formats[i] = strings.ToLower(strings.TrimSpace(format))
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}
