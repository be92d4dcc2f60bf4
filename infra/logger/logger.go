package logger

import corelogger "github.com/yardworks/shunter/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// Config selects the log level and output format.
type Config struct {
	// Level is the minimum level emitted: debug, info, warn or error.
	Level string `json:"level"`
	// Format is "json" or "console". APP_ENV=dev forces console.
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks the level and format names.
func (c Config) Validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	switch c.Format {
	case "json", "console":
		return nil
	default:
		return errUnknownFormat(c.Format)
	}
}

// New returns a Logger for the given component with defaulted settings.
func New(component string) Logger {
	var cfg Config
	cfg.SetDefaults()
	return NewZerolog(component, cfg)
}
