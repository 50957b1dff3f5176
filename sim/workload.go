// Workload specs and generation. A workload is just an ordered list of
// process submissions; it can be loaded from a YAML file or generated from
// a seeded distribution for repeatable load experiments.

package sim

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// ThreadSpec describes one thread to create under a new process.
type ThreadSpec struct {
	// Burst is the thread's total simulated work in ticks. Must be positive.
	Burst int64 `yaml:"burst"`
	// IOEvery makes the thread issue a blocking request each time it
	// completes this many work units. Zero means pure CPU.
	IOEvery int64 `yaml:"io_every"`
	// IOLatency is the simulated latency of each blocking request.
	IOLatency int64 `yaml:"io_latency"`
}

// ProcessSpec describes one process submission.
type ProcessSpec struct {
	Priority  int          `yaml:"priority"`
	Threads   []ThreadSpec `yaml:"threads"`
	Resources []string     `yaml:"resources"`
}

// Validate checks a submission before any entity is created, so a rejected
// spec leaves the simulation untouched.
func (ps ProcessSpec) Validate() error {
	if len(ps.Threads) == 0 {
		return fmt.Errorf("%w: process needs at least one thread", ErrInvalidArgument)
	}
	for i, ts := range ps.Threads {
		if ts.Burst <= 0 {
			return fmt.Errorf("%w: thread %d burst must be positive, got %d", ErrInvalidArgument, i, ts.Burst)
		}
		if ts.IOEvery < 0 {
			return fmt.Errorf("%w: thread %d io_every must be non-negative, got %d", ErrInvalidArgument, i, ts.IOEvery)
		}
		if ts.IOLatency < 0 {
			return fmt.Errorf("%w: thread %d io_latency must be non-negative, got %d", ErrInvalidArgument, i, ts.IOLatency)
		}
	}
	return nil
}

// WorkloadSpec is an ordered list of process submissions.
type WorkloadSpec struct {
	Processes []ProcessSpec `yaml:"processes"`
}

// LoadWorkloadSpec reads and parses a YAML workload file.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}
	var spec WorkloadSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing workload: %w", err)
	}
	for i, ps := range spec.Processes {
		if err := ps.Validate(); err != nil {
			return nil, fmt.Errorf("workload process %d: %w", i, err)
		}
	}
	return &spec, nil
}

// WorkloadConfig holds distribution parameters for generated workloads.
// Burst lengths are drawn from a clamped normal distribution.
type WorkloadConfig struct {
	Processes      int `yaml:"processes"`
	ThreadsPerProc int `yaml:"threads_per_proc"`
	BurstMean      int `yaml:"burst_mean"`
	BurstStdDev    int `yaml:"burst_stddev"`
	BurstMin       int `yaml:"burst_min"`
	BurstMax       int `yaml:"burst_max"`
	MaxPriority    int `yaml:"max_priority"`
}

// GenerateWorkload produces a reproducible workload from cfg and a seed.
// The same (cfg, seed) pair always yields the same spec.
func GenerateWorkload(cfg WorkloadConfig, seed int64) *WorkloadSpec {
	rng := rand.New(rand.NewSource(seed))
	spec := &WorkloadSpec{}
	for p := 0; p < cfg.Processes; p++ {
		ps := ProcessSpec{}
		if cfg.MaxPriority > 0 {
			ps.Priority = rng.Intn(cfg.MaxPriority + 1)
		}
		for t := 0; t < cfg.ThreadsPerProc; t++ {
			burst := int64(float64(cfg.BurstMean) + rng.NormFloat64()*float64(cfg.BurstStdDev))
			if burst < int64(cfg.BurstMin) {
				burst = int64(cfg.BurstMin)
			}
			if burst > int64(cfg.BurstMax) {
				burst = int64(cfg.BurstMax)
			}
			if burst < 1 {
				burst = 1
			}
			ps.Threads = append(ps.Threads, ThreadSpec{Burst: burst})
		}
		spec.Processes = append(spec.Processes, ps)
	}
	return spec
}
