package store

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/hivekit/hive/alloc"
)

// EnvPrefix prefixes the environment variables read by LoadConfig, for
// example HIVEKIT_PAGES_FIRST or HIVEKIT_HEAP_RAW_PAGES.
const EnvPrefix = "HIVEKIT"

// Config controls the pools a Store creates.
type Config struct {
	// Pages is the capacity schedule of every pool's pages.
	Pages alloc.PageConfig `yaml:"pages" envconfig:"PAGES"`

	// HeapRawPages keeps raw pool pages on the Go heap instead of mapping
	// them.
	HeapRawPages bool `yaml:"heap_raw_pages" envconfig:"HEAP_RAW_PAGES"`

	// LogLevel is the level for pool lifecycle logging: debug, info, warn,
	// error. Empty disables logging.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{Pages: alloc.ConfigDefault}
}

// Validate checks the page schedule.
func (c Config) Validate() error {
	return c.Pages.Validate()
}

// LoadConfig starts from DefaultConfig, applies the YAML file at path if path
// is non-empty, then applies HIVEKIT_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("store: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("store: couldn't unmarshal config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("store: failed to process config env vars: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
