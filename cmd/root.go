package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/procsim/procsim/sim"
)

var (
	// CLI flags for the simulator core
	configPath string // Optional YAML config file
	quantum    int64  // Run slice bound for preemptive policies (in ticks)
	cores      int    // Number of simulated CPUs
	policy     string // Scheduling policy name
	seed       int64  // Seed for workload generation
	maxSteps   int    // Upper bound on scheduling decisions
	logLevel   string // Log verbosity level

	// CLI flags for the workload
	workloadPath   string // Optional YAML workload file
	numProcesses   int    // Number of generated processes
	threadsPerProc int    // Threads per generated process
	burstMean      int    // Average burst length
	burstStdev     int    // Stdev burst length
	burstMin       int    // Min burst length
	burstMax       int    // Max burst length
	maxPriority    int    // Upper bound for generated priority classes
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Discrete-event process and thread scheduling simulator",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			cfg, err = sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load config: %v", err)
			}
		}
		// Flags override the file
		if cmd.Flags().Changed("quantum") {
			cfg.Quantum = quantum
		}
		if cmd.Flags().Changed("cores") {
			cfg.Cores = cores
		}
		if cmd.Flags().Changed("policy") {
			cfg.Policy = policy
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}

		var workload *sim.WorkloadSpec
		if workloadPath != "" {
			workload, err = sim.LoadWorkloadSpec(workloadPath)
			if err != nil {
				logrus.Fatalf("Failed to load workload: %v", err)
			}
		} else {
			workload = sim.GenerateWorkload(sim.WorkloadConfig{
				Processes:      numProcesses,
				ThreadsPerProc: threadsPerProc,
				BurstMean:      burstMean,
				BurstStdDev:    burstStdev,
				BurstMin:       burstMin,
				BurstMax:       burstMax,
				MaxPriority:    maxPriority,
			}, cfg.Seed)
		}

		logrus.Infof("Starting simulation: policy=%s quantum=%d cores=%d processes=%d",
			cfg.Policy, cfg.Quantum, cfg.Cores, len(workload.Processes))

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		for i, spec := range workload.Processes {
			if _, err := s.Submit(spec); err != nil {
				logrus.Fatalf("Failed to submit process %d: %v", i, err)
			}
		}

		s.RunUntilQuiesced(maxSteps)

		out, err := s.Snapshot().YAML()
		if err != nil {
			logrus.Fatalf("Failed to serialize snapshot: %v", err)
		}
		fmt.Print(string(out))
		s.Metrics.Print(s.Now())

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML simulator config")
	runCmd.Flags().Int64Var(&quantum, "quantum", 4, "Run slice bound before preemption (in ticks)")
	runCmd.Flags().IntVar(&cores, "cores", 1, "Number of simulated CPUs")
	runCmd.Flags().StringVar(&policy, "policy", "round-robin", "Scheduling policy (round-robin, fcfs, priority)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random workload generation")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 1000000, "Upper bound on scheduling decisions")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&workloadPath, "workload", "", "Path to YAML workload spec")
	runCmd.Flags().IntVar(&numProcesses, "processes", 8, "Number of generated processes")
	runCmd.Flags().IntVar(&threadsPerProc, "threads-per-proc", 2, "Threads per generated process")
	runCmd.Flags().IntVar(&burstMean, "burst-mean", 20, "Average generated burst length")
	runCmd.Flags().IntVar(&burstStdev, "burst-stddev", 8, "Stdev of generated burst length")
	runCmd.Flags().IntVar(&burstMin, "burst-min", 1, "Min generated burst length")
	runCmd.Flags().IntVar(&burstMax, "burst-max", 100, "Max generated burst length")
	runCmd.Flags().IntVar(&maxPriority, "max-priority", 0, "Upper bound for generated priority classes")

	rootCmd.AddCommand(runCmd)
}
