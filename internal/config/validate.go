package config

import (
	"errors"
	"fmt"
)

var validExportFormats = map[string]struct{}{
	"markdown": {},
	"json":     {},
	"html":     {},
	"csv":      {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateAcquisition(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("llm.provider must be one of openai, gemini (got %q)", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/vodscribe/config.toml"
		}
		return fmt.Errorf("llm.api_key is required. Set OPENAI_API_KEY or GEMINI_API_KEY env var or edit %s (create with 'vodscribe config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateAcquisition() error {
	if c.Acquisition.MinRequestDelayMS > c.Acquisition.MaxRequestDelayMS {
		return errors.New("acquisition.min_request_delay_ms must not exceed acquisition.max_request_delay_ms")
	}
	for _, browser := range c.Acquisition.CookieBrowsers {
		switch browser {
		case "chrome", "chromium", "firefox", "edge", "brave", "safari", "none":
		default:
			return fmt.Errorf("acquisition.cookie_browsers: unknown browser %q", browser)
		}
	}
	for _, profile := range c.Acquisition.ClientProfiles {
		switch profile {
		case "android", "ios", "web", "tv":
		default:
			return fmt.Errorf("acquisition.client_profiles: unknown profile %q", profile)
		}
	}
	return nil
}

func (c *Config) validateExport() error {
	for _, format := range c.Export.Formats {
		if _, ok := validExportFormats[format]; !ok {
			return fmt.Errorf("export.formats: unsupported format %q", format)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	return nil
}
