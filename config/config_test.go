package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `compile:
  big_m_margin_minutes: 1440
  objective: "crew-size"
solver:
  tolerance: 0.000001
logging:
  level: "debug"
  format: "console"
progress:
  sinks:
    - type: "nop"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"big_m_margin", cfg.Compile.BigMMarginMinutes, 1440},
		{"objective", cfg.Compile.Objective, "crew-size"},
		{"epsilon_default", cfg.Compile.Epsilon, 0.1},
		{"tolerance", cfg.Solver.Tolerance, 1e-6},
		{"log_level", cfg.Logging.Level, "debug"},
		{"log_format", cfg.Logging.Format, "console"},
		{"progress_sink", len(cfg.Progress.Sinks) == 1 && cfg.Progress.Sinks[0].Type == "nop", true},
		{"prom_addr_default", cfg.Progress.PromAddr, ":9090"},
		{"export_format_default", cfg.Export.Format, "json"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `compile:
  objective: "banana"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown objective")
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
