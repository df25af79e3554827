package redact

import (
	"os"
	"path/filepath"
	"testing"
)

func chtmp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestLoadScrubConfig(t *testing.T) {
	dir := chtmp(t)

	doc := `
files:
  - ".env"
scrubbing:
  scrub_globs:
    - "*_PIN"
  whitelist_globs:
    - "*_VALUE"
`
	if err := os.WriteFile(filepath.Join(dir, "env-config.yml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := loadScrubConfig()
	if cfg == nil {
		t.Fatal("loadScrubConfig returned nil")
	}
	if len(cfg.Scrubbing.ScrubGlobs) != 1 || cfg.Scrubbing.ScrubGlobs[0] != "*_PIN" {
		t.Errorf("scrub globs = %v", cfg.Scrubbing.ScrubGlobs)
	}
	if len(cfg.Scrubbing.WhitelistGlobs) != 1 || cfg.Scrubbing.WhitelistGlobs[0] != "*_VALUE" {
		t.Errorf("whitelist globs = %v", cfg.Scrubbing.WhitelistGlobs)
	}
}

func TestLoadScrubConfig_Absent(t *testing.T) {
	chtmp(t)

	if cfg := loadScrubConfig(); cfg != nil {
		t.Errorf("loadScrubConfig = %v, want nil for absent file", cfg)
	}
}

func TestLoadScrubConfig_Malformed(t *testing.T) {
	dir := chtmp(t)

	if err := os.WriteFile(filepath.Join(dir, "env-config.yml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if cfg := loadScrubConfig(); cfg != nil {
		t.Errorf("loadScrubConfig = %v, want nil for malformed file", cfg)
	}
}

func TestLoadScrubConfig_YamlExtension(t *testing.T) {
	dir := chtmp(t)

	doc := "scrubbing:\n  scrub_globs: [\"*_DSN\"]\n"
	if err := os.WriteFile(filepath.Join(dir, "env-config.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := loadScrubConfig()
	if cfg == nil || len(cfg.Scrubbing.ScrubGlobs) != 1 {
		t.Fatalf("loadScrubConfig = %+v", cfg)
	}
}
