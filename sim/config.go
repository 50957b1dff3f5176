package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the simulator's tunable parameters, loadable from a YAML
// file. Zero values are filled in by DefaultConfig; the simulator rejects a
// config that fails Validate.
type Config struct {
	// Quantum is the maximum run slice, in ticks, before a preemptive
	// policy forces a context switch.
	Quantum int64 `yaml:"quantum"`
	// Cores is the number of simulated CPUs: up to Cores distinct threads
	// are dispatched per step.
	Cores int `yaml:"cores"`
	// Policy selects the scheduling policy: "round-robin" (default),
	// "fcfs", or "priority".
	Policy string `yaml:"policy"`
	// Seed drives workload generation; it never affects scheduling, which
	// is deterministic by construction.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the stock configuration: round-robin, quantum 4,
// one core.
func DefaultConfig() Config {
	return Config{
		Quantum: 4,
		Cores:   1,
		Policy:  "round-robin",
		Seed:    42,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be positive, got %d", ErrInvalidArgument, c.Quantum)
	}
	if c.Cores <= 0 {
		return fmt.Errorf("%w: cores must be positive, got %d", ErrInvalidArgument, c.Cores)
	}
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidArgument, c.Policy)
	}
	return nil
}

// LoadConfig reads and parses a YAML configuration file. Fields absent from
// the file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
