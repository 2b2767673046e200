package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"github.com/lumipallolabs/dupedive/internal/core"
	"github.com/lumipallolabs/dupedive/internal/hasher"
	"github.com/lumipallolabs/dupedive/internal/remover"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "DUPEDIVE"
	appName      = "dupedive"
)

// Config holds the tunables shared by the TUI and report modes.
// Precedence: defaults, then the YAML file, then DUPEDIVE_* variables, then flags.
type Config struct {
	Algorithm   string   `envconfig:"ALGO"         yaml:"algorithm"`
	Workers     int      `envconfig:"WORKERS"      yaml:"workers"`
	HashWorkers int      `envconfig:"HASH_WORKERS" yaml:"hashWorkers"`
	MinSize     ByteSize `envconfig:"MIN_SIZE"     yaml:"minSize"`
	MaxSize     ByteSize `envconfig:"MAX_SIZE"     yaml:"maxSize"`
	Keep        string   `envconfig:"KEEP"         yaml:"keep"`
	RateLimit   float64  `envconfig:"RATE"         yaml:"rate"`
	DryRun      bool     `envconfig:"DRY_RUN"      yaml:"dryRun"`
	StateDir    string   `envconfig:"STATE_DIR"    yaml:"stateDir"`
}

// Default returns the built-in configuration
func Default() Config {
	hashWorkers := runtime.NumCPU()
	if hashWorkers > 8 {
		hashWorkers = 8
	}
	return Config{
		Algorithm:   hasher.DefaultAlgorithm,
		Workers:     8,
		HashWorkers: hashWorkers,
		Keep:        string(remover.KeepFirst),
	}
}

// DefaultFile returns the config path used when none is given
func DefaultFile() string {
	if p := os.Getenv(envVarPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return appName + ".yaml"
	}
	return filepath.Join(dir, appName+".yaml")
}

// Load reads configuration. An explicitly named file must exist; the default
// file is optional.
func Load(file string) (*Config, error) {
	c := Default()

	explicit := file != ""
	if !explicit {
		file = DefaultFile()
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file %s: %w", file, err)
		}
	case !os.IsNotExist(err) || explicit:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if _, err := hasher.New(c.Algorithm); err != nil {
		return fmt.Errorf("algorithm: %w", err)
	}
	if _, err := remover.ParsePolicy(c.Keep); err != nil {
		return fmt.Errorf("keep: %w", err)
	}
	if y, e := func() (string, string) {
		if c.Workers < 1 {
			return "workers", "WORKERS"
		}
		if c.HashWorkers < 1 {
			return "hashWorkers", "HASH_WORKERS"
		}
		if c.MinSize < 0 {
			return "minSize", "MIN_SIZE"
		}
		if c.MaxSize < 0 || (c.MaxSize > 0 && c.MaxSize < c.MinSize) {
			return "maxSize", "MAX_SIZE"
		}
		if c.RateLimit < 0 {
			return "rate", "RATE"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"invalid configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}
	return nil
}

// KeepPolicy returns the parsed keep policy
func (c *Config) KeepPolicy() remover.Policy {
	p, err := remover.ParsePolicy(c.Keep)
	if err != nil {
		return remover.KeepFirst
	}
	return p
}

// CoreOptions converts the config for the controller
func (c *Config) CoreOptions() core.Options {
	return core.Options{
		Algorithm:   c.Algorithm,
		Workers:     c.Workers,
		HashWorkers: c.HashWorkers,
		MinSize:     int64(c.MinSize),
		MaxSize:     int64(c.MaxSize),
		RateLimit:   c.RateLimit,
		DryRun:      c.DryRun,
		StateDir:    c.StateDir,
	}
}
