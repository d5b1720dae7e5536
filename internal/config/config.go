package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration. Every value can come from
// a YAML file or from environment variables; command line flags override both.
type Config struct {
	// Environment selects the log format (development or production).
	Environment string `env:"TYPEWRITER_ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Permutation contains the permutation engine settings.
	Permutation struct {
		// Depth is the recursion depth of the permutation engine. Values below 1
		// produce no candidates.
		Depth int `env:"TYPEWRITER_DEPTH" env-default:"1" yaml:"depth"`
		// Spread is the numeric mutation magnitude. A negative value reuses Depth.
		Spread int `env:"TYPEWRITER_SPREAD" env-default:"-1" yaml:"spread"`
		// Overflow is the policy for digit runs that do not fit an int64 (fail or skip).
		Overflow string `env:"TYPEWRITER_OVERFLOW" env-default:"fail" yaml:"overflow"`
		// PadZeros keeps leading zeros of mutated digit runs.
		PadZeros bool `env:"TYPEWRITER_PAD_ZEROS" env-default:"false" yaml:"padZeros"`
	} `yaml:"permutation"`

	// Input contains settings for wordlist and domain list readers.
	Input struct {
		// MaxLineBytes is the longest accepted input line.
		MaxLineBytes int `env:"TYPEWRITER_MAX_LINE_BYTES" env-default:"1048576" yaml:"maxLineBytes"`
	} `yaml:"input"`

	// Output contains settings for the candidate writer.
	Output struct {
		// Format is either plain or json.
		Format string `env:"TYPEWRITER_OUTPUT_FORMAT" env-default:"plain" yaml:"format"`
		// BufferSize is the size of the buffered writer in front of the output.
		BufferSize int `env:"TYPEWRITER_OUTPUT_BUFFER_SIZE" env-default:"65536" yaml:"bufferSize"`
	} `yaml:"output"`

	// Metrics contains settings for the run metrics export.
	Metrics struct {
		// File is a Prometheus textfile written at the end of a run. Empty disables it.
		File string `env:"TYPEWRITER_METRICS_FILE" yaml:"file"`
	} `yaml:"metrics"`

	// Tracing contains settings for the span export.
	Tracing struct {
		// File receives one JSON document per finished span. Empty disables tracing.
		File string `env:"TYPEWRITER_TRACE_FILE" yaml:"file"`
	} `yaml:"tracing"`
}

// NumericSpread returns the numeric mutation magnitude, falling back to the
// recursion depth when no explicit spread is configured.
func (c *Config) NumericSpread() int {
	if c.Permutation.Spread < 0 {
		return max(c.Permutation.Depth, 0)
	}

	return c.Permutation.Spread
}

// Validate checks value ranges that cleanenv cannot express.
func (c *Config) Validate() error {
	if c.Input.MaxLineBytes <= 0 {
		return fmt.Errorf("input maxLineBytes must be positive, got %d", c.Input.MaxLineBytes)
	}
	if c.Output.BufferSize < 0 {
		return fmt.Errorf("output bufferSize must not be negative, got %d", c.Output.BufferSize)
	}

	return nil
}

// Load receives the path for a yaml config file and returns a filled Config.
// When configPath is empty, or points to a file that does not exist, only
// environment variables and defaults are used.
func Load(configPath string) (*Config, error) {
	var cfg Config

	var err error
	if configPath != "" && fileExists(configPath) {
		err = cleanenv.ReadConfig(configPath, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}
