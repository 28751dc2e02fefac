package config

const (
	defaultOutputDir = "~/.local/share/vodscribe/output"
	defaultCacheDir  = "~/.local/share/vodscribe/cache"
	defaultWorkDir   = "~/.local/share/vodscribe/work"
	defaultLogDir    = "~/.local/share/vodscribe/logs"

	defaultLLMProvider    = "openai"
	defaultAnalyzerModel  = "gpt-4o"
	defaultWriterModel    = "gpt-4o"
	defaultSEOModel       = "gpt-4o-mini"
	defaultLLMTimeout     = 120
	defaultLLMMaxRetries  = 3
	defaultWhisperModel   = "whisper-1"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNotifyTimeout  = 10
	defaultAcquireRetries = 5

	defaultAttemptTimeoutSeconds = 120
	defaultMinRequestDelayMS     = 1000
	defaultMaxRequestDelayMS     = 3000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			AnalyzerModel:  defaultAnalyzerModel,
			WriterModel:    defaultWriterModel,
			SEOModel:       defaultSEOModel,
			TimeoutSeconds: defaultLLMTimeout,
			MaxRetries:     defaultLLMMaxRetries,
		},
		Whisper: Whisper{
			Model: defaultWhisperModel,
		},
		Acquisition: Acquisition{
			MaxRetries:            defaultAcquireRetries,
			AttemptTimeoutSeconds: defaultAttemptTimeoutSeconds,
			MinRequestDelayMS:     defaultMinRequestDelayMS,
			MaxRequestDelayMS:     defaultMaxRequestDelayMS,
			CookieBrowsers:        []string{"chrome", "firefox", "none"},
			ClientProfiles:        []string{"android", "ios", "web"},
			CaptionLanguages:      []string{"en"},
		},
		Export: Export{
			Formats:           []string{"markdown", "json"},
			IncludeTranscript: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Runs:           true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
