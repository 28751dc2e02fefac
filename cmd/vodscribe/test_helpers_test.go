package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vodscribe/internal/config"
)

// setupCLIConfig writes a config file rooted in a temp dir and returns
// its path plus the loaded configuration.
func setupCLIConfig(t *testing.T) (string, *config.Config) {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
output_dir = %q
cache_dir = %q
work_dir = %q
log_dir = %q

[llm]
api_key = "test"

[logging]
format = "json"
level = "error"
`,
		filepath.Join(base, "output"),
		filepath.Join(base, "cache"),
		filepath.Join(base, "work"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return configPath, cfg
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("output %q does not contain %q", output, substr)
	}
}
