// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads demonstration parameters from YAML.
//
// Every field has a default matching the classic demonstration shapes, so
// an absent or empty file is valid. A file only needs the keys it changes:
//
//	race:
//	  workers: 200
//	  trials: 5
//	registry:
//	  interval: 500ms
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v2"
)

// Workload is the shape of one counter demonstration.
type Workload struct {
	Workers int `yaml:"workers"`
	Ops     int `yaml:"ops"`
	// Trials repeats the run; only the race demonstration uses it.
	Trials int `yaml:"trials"`
}

// Registry configures the reader-writer demonstration.
type Registry struct {
	Seed     []string      `yaml:"seed"`
	Interval time.Duration `yaml:"interval"`
}

// Sum configures the chunked fork-join sum.
type Sum struct {
	Items int `yaml:"items"`
	Chunk int `yaml:"chunk"`
}

// Config holds all demonstration parameters.
type Config struct {
	LogLevel    string   `yaml:"log_level"`
	MetricsAddr string   `yaml:"metrics_addr"`
	Race        Workload `yaml:"race"`
	Atomic      Workload `yaml:"atomic"`
	Mutex       Workload `yaml:"mutex"`
	Registry    Registry `yaml:"registry"`
	Sum         Sum      `yaml:"sum"`
}

// Default returns the classic parameters: 1000×1000 for the race and
// atomic counters, 10×1 for the mutex collection, a registry seeded with
// MS and MJ polled every 3s, and the sum of 0..4999 in chunks of 8.
func Default() Config {
	return Config{
		LogLevel: "info",
		Race:     Workload{Workers: 1000, Ops: 1000, Trials: 1},
		Atomic:   Workload{Workers: 1000, Ops: 1000, Trials: 1},
		Mutex:    Workload{Workers: 10, Ops: 1, Trials: 1},
		Registry: Registry{
			Seed:     []string{"MS", "MJ"},
			Interval: 3 * time.Second,
		},
		Sum: Sum{Items: 5000, Chunk: 8},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML data over cfg and validates the result.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	if len(data) > 0 {
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg.Validate()
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	for _, w := range []struct {
		name string
		w    Workload
	}{
		{"race", c.Race},
		{"atomic", c.Atomic},
		{"mutex", c.Mutex},
	} {
		if w.w.Workers < 0 {
			errs = append(errs, fmt.Errorf("%s.workers: %d < 0", w.name, w.w.Workers))
		}
		if w.w.Ops < 0 {
			errs = append(errs, fmt.Errorf("%s.ops: %d < 0", w.name, w.w.Ops))
		}
		if w.w.Trials < 1 {
			errs = append(errs, fmt.Errorf("%s.trials: %d < 1", w.name, w.w.Trials))
		}
	}
	if c.Registry.Interval <= 0 {
		errs = append(errs, fmt.Errorf("registry.interval: %v <= 0", c.Registry.Interval))
	}
	if c.Sum.Items < 0 {
		errs = append(errs, fmt.Errorf("sum.items: %d < 0", c.Sum.Items))
	}
	if c.Sum.Chunk < 1 {
		errs = append(errs, fmt.Errorf("sum.chunk: %d < 1", c.Sum.Chunk))
	}
	if !slices.Contains(levels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

var levels = []string{"debug", "info", "warn", "error"}
