package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/plzero/plc/internal/compiler/emitter"
	"github.com/plzero/plc/internal/logging"
)

// FileName is the project config that plc init writes and the CLI reads
// from the working directory.
const FileName = "plc.yml"

type Config struct {
	LogLevel     string `yaml:"log_level"`
	LenientPairs bool   `yaml:"lenient_pairs"`
	MaxCode      int    `yaml:"max_code"`
	OutDir       string `yaml:"out_dir"`
	StepLimit    int    `yaml:"step_limit"`
}

func Default() *Config {
	return &Config{
		LogLevel:  logging.LevelName(logging.LevelWarning),
		MaxCode:   emitter.DefaultCapacity,
		OutDir:    "out",
		StepLimit: 1_000_000,
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxCode <= 0 {
		return fmt.Errorf("max_code must be positive, got %d", c.MaxCode)
	}
	if c.StepLimit < 0 {
		return fmt.Errorf("step_limit must not be negative, got %d", c.StepLimit)
	}
	return nil
}

// Level is the parsed LogLevel. Validate has already rejected bad names.
func (c *Config) Level() int {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.LevelWarning
	}
	return level
}

// ApplyFlags overrides fields with the flags the user actually set.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "log-level":
			c.LogLevel = f.Value.String()
		case "lenient-pairs":
			c.LenientPairs, err = flags.GetBool(f.Name)
		case "max-code":
			c.MaxCode, err = flags.GetInt(f.Name)
		case "step-limit":
			c.StepLimit, err = flags.GetInt(f.Name)
		case "out-dir":
			c.OutDir, err = flags.GetString(f.Name)
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}
