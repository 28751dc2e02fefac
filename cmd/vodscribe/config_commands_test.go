package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	configPath, _ := setupCLIConfig(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestConfigInitRefusesExistingFile(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	_, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error for existing config file")
	}
	requireContains(t, err.Error(), "already exists")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	configPath, _ := setupCLIConfig(t)

	out, _, err := runCLI(t, []string{"config", "show"}, configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "llm.provider")
	// The test key is four characters, so the mask replaces it entirely.
	requireContains(t, out, "****")
	if strings.Contains(out, "test") && strings.Contains(out, "llm.api_key") {
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, "llm.api_key") && strings.Contains(line, "test") {
				t.Errorf("api key leaked into output: %q", line)
			}
		}
	}
}

func TestConfigShowSample(t *testing.T) {
	out, _, err := runCLI(t, []string{"config", "show", "--sample"}, "")
	if err != nil {
		t.Fatalf("config show --sample: %v", err)
	}
	requireContains(t, out, "[paths]")
	requireContains(t, out, "[llm]")
}
