package stroketess

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and Load for out-of-range
// settings.
var ErrInvalidConfig = errors.New("stroketess: invalid config")

// TessellationConfig controls strategy selection and batching.
type TessellationConfig struct {
	// DisableHardware forces the indirect strategy even on devices with
	// a tessellation stage.
	DisableHardware bool `yaml:"disable_hardware"`
	// Workers is the pre-preparation pool size. 0 means GOMAXPROCS.
	Workers          int `yaml:"workers"`
	ProgramCacheSize int `yaml:"program_cache_size"`
	// MaxCombineLookback bounds how many recorded ops a new op is
	// offered to.
	MaxCombineLookback int `yaml:"max_combine_lookback"`
}

// BuffersConfig bounds per-frame GPU buffer usage.
type BuffersConfig struct {
	MaxVertexBytes int `yaml:"max_vertex_bytes"`
}

// LoggingConfig selects the handler built by NewLogger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
	Source bool   `yaml:"source"`
	File   string `yaml:"file"` // rotated with lumberjack when set
}

// Config is the library configuration. A zero Config is not usable;
// start from DefaultConfig or Load.
type Config struct {
	ConfigVersion int                `yaml:"config_version"`
	Tessellation  TessellationConfig `yaml:"tessellation"`
	Buffers       BuffersConfig      `yaml:"buffers"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// Defaults used by DefaultConfig.
const (
	DefaultProgramCacheSize   = 64
	DefaultMaxCombineLookback = 10
	DefaultMaxVertexBytes     = 16 << 20
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: 1,
		Tessellation: TessellationConfig{
			ProgramCacheSize:   DefaultProgramCacheSize,
			MaxCombineLookback: DefaultMaxCombineLookback,
		},
		Buffers: BuffersConfig{MaxVertexBytes: DefaultMaxVertexBytes},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Environment variables applied on top of the file by Load.
const (
	EnvDisableHWTess = "STROKETESS_DISABLE_HW_TESS"
	EnvWorkers       = "STROKETESS_WORKERS"
	EnvLogLevel      = "STROKETESS_LOG_LEVEL"
	EnvLogFormat     = "STROKETESS_LOG_FORMAT"
	EnvLogFile       = "STROKETESS_LOG_FILE"
)

// Load returns DefaultConfig merged with the YAML file at path and then
// with environment overrides. An empty path skips the file. The result
// is validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("stroketess: read config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse merges YAML data into cfg. Keys absent from data keep their
// current value.
func Parse(data []byte, cfg *Config) error {
	next := *cfg
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("stroketess: parse config: %w", err)
	}
	next.Logging.Level = strings.ToLower(strings.TrimSpace(next.Logging.Level))
	next.Logging.Format = strings.ToLower(strings.TrimSpace(next.Logging.Format))
	next.Logging.File = strings.TrimSpace(next.Logging.File)
	*cfg = next
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDisableHWTess)); v != "" {
		cfg.Tessellation.DisableHardware = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tessellation.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Validate reports the first out-of-range setting wrapped in
// ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Tessellation.Workers < 0:
		return fmt.Errorf("%w: tessellation.workers %d < 0", ErrInvalidConfig, c.Tessellation.Workers)
	case c.Tessellation.ProgramCacheSize < 0:
		return fmt.Errorf("%w: tessellation.program_cache_size %d < 0", ErrInvalidConfig, c.Tessellation.ProgramCacheSize)
	case c.Tessellation.MaxCombineLookback < 0:
		return fmt.Errorf("%w: tessellation.max_combine_lookback %d < 0", ErrInvalidConfig, c.Tessellation.MaxCombineLookback)
	case c.Buffers.MaxVertexBytes < 0:
		return fmt.Errorf("%w: buffers.max_vertex_bytes %d < 0", ErrInvalidConfig, c.Buffers.MaxVertexBytes)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
