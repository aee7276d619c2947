package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "resident_radius: 3\nloads_per_second: 20\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ResidentRadius != 3 || cfg.Workers != Default().Workers {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Limiter() == nil {
		t.Fatalf("throttled config built no limiter")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []string{
		"workers: 0\n",
		"resident_radius: 0\n",
		"loads_per_second: -1\n",
		"loads_per_second: 5\nload_burst: 0\n",
		"log_level: loud\n",
		"log_categories: [stream, render]\n",
		"workers: [\n",
	}
	for _, body := range tests {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("accepted %q", body)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestDefaultIsUnthrottled(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default invalid: %v", err)
	}
	if Default().Limiter() != nil {
		t.Fatalf("default config throttles inserts")
	}
}

func TestLoadLogCategories(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: debug\nlog_categories: [stream, mesh]\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.LogCategories) != 2 || cfg.LogCategories[1] != "mesh" {
		t.Fatalf("categories %v", cfg.LogCategories)
	}
	if err := cfg.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := Default().Apply(); err != nil {
		t.Fatalf("apply default: %v", err)
	}
}
