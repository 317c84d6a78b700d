// Package config parses the optional vallang.yaml runtime configuration:
// tuning knobs for the canonicalization sweeper and the value layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seanpm2001/vallang/pkg/canonical"
	"github.com/seanpm2001/vallang/pkg/values"
)

// Config is the top-level vallang.yaml configuration.
type Config struct {
	Canonical CanonicalConfig `yaml:"canonical"`
	Values    ValuesConfig    `yaml:"values"`
}

// CanonicalConfig tunes the shared canonical-table sweeper.
type CanonicalConfig struct {
	// SweepInterval is how often cleared weak entries are pruned from the
	// canonical tables (e.g. "1s", "500ms").
	SweepInterval Duration `yaml:"sweep_interval,omitempty"`
}

// ValuesConfig tunes the value layer.
type ValuesConfig struct {
	// IntegerCacheSize is how many small non-negative integers share
	// preallocated instances. Effective only before the first integer is
	// constructed.
	IntegerCacheSize int `yaml:"integer_cache_size,omitempty"`
}

// Duration is a time.Duration that unmarshals from the usual "1s"/"500ms"
// notation.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Canonical: CanonicalConfig{SweepInterval: Duration(time.Second)},
		Values:    ValuesConfig{IntegerCacheSize: 256},
	}
}

// Load reads and parses a vallang.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses vallang.yaml content from bytes. The path argument is used
// only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	if c.Canonical.SweepInterval < 0 {
		return fmt.Errorf("%s: canonical.sweep_interval must not be negative", path)
	}
	if c.Values.IntegerCacheSize < 0 {
		return fmt.Errorf("%s: values.integer_cache_size must not be negative", path)
	}
	return nil
}

// Apply installs the configuration into the runtime.
func (c *Config) Apply() {
	if c.Canonical.SweepInterval > 0 {
		canonical.SetSweepInterval(time.Duration(c.Canonical.SweepInterval))
	}
	values.SetIntegerCacheSize(c.Values.IntegerCacheSize)
}
