// Package config loads and validates the application configuration from a
// YAML or JSON file, with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/yardworks/shunter/core/compile"
	"github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/infra/logger"
	"github.com/yardworks/shunter/infra/simplex"
)

type Config struct {
	Compile  compile.Config `json:"compile"`
	Solver   simplex.Config `json:"solver"`
	Logging  logger.Config  `json:"logging"`
	Progress ProgressConfig `json:"progress"`
	Export   ExportConfig   `json:"export"`
}

// ProgressConfig selects the observer backends fed with compile and solve
// events.
type ProgressConfig struct {
	Sinks []progress.SinkConfig `json:"sinks"`
	// PromAddr is the listen address of the metrics endpoint, used only
	// when a prometheus sink is configured.
	PromAddr string `json:"prom_addr"`
}

// SetDefaults applies sane defaults.
func (c *ProgressConfig) SetDefaults() {
	if c.PromAddr == "" {
		c.PromAddr = ":9090"
	}
}

// ExportConfig sets the default destination of solved schedules. Command
// line flags take precedence.
type ExportConfig struct {
	// Path receives the rendered schedule; stdout when empty.
	Path string `json:"path"`
	// Format is "json" or "csv".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *ExportConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks the format name.
func (c ExportConfig) Validate() error {
	switch c.Format {
	case "json", "csv":
		return nil
	default:
		return fmt.Errorf("unknown export format %s", c.Format)
	}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Compile.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Progress.SetDefaults()
	cfg.Export.SetDefaults()
	if err := cfg.Compile.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Export.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
