package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"gopkg.in/yaml.v3"

	"github.com/erqsim/erqsim/sim/results"
	"github.com/erqsim/erqsim/sim/workload"
)

// runOptions holds the values of the run command flags.
type runOptions struct {
	seed         int64    // Master seed of all random streams
	horizon      float64  // Simulated time the run advances to
	servers      int      // Servers in the shared resource
	arrivalMean  float64  // Mean gap between arrivals
	serviceMean  float64  // Mean service duration
	arrivalDist  string   // Inter-arrival distribution
	serviceDist  string   // Service distribution
	classes      []string // Priority classes as name=weight, highest priority first
	maxArrivals  int      // Stop generating after this many arrivals (0 = unlimited)
	trace        bool     // Record per-entity lifecycle trace
	workloadPath string   // YAML workload file
	saveWorkload string   // Write the effective workload to this file
	replications int      // Independent runs with consecutive seeds
	resultsDB    string   // SQLite file receiving the results
}

var (
	logLevel string // Log verbosity level
	opts     runOptions
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "erqsim",
	Short: "Discrete-event simulator for priority queueing systems",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvDefaults(cmd, ".env"); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// runCmd executes the simulation using parameters from CLI flags and an
// optional workload file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the queueing simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSimulation(opts, cmd.Flags().Changed, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// validateCmd checks workload files without running them
var validateCmd = &cobra.Command{
	Use:   "validate WORKLOAD...",
	Short: "Validate workload files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			spec, err := workload.LoadWorkloadSpec(path)
			if err != nil {
				return err
			}
			if err := spec.Validate(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
		return nil
	},
}

// runSimulation builds the workload, executes every replication and writes
// the raw results as YAML to out.
func runSimulation(o runOptions, changed func(string) bool, out io.Writer) error {
	spec, err := buildWorkload(o, changed)
	if err != nil {
		return err
	}
	if o.saveWorkload != "" {
		if err := spec.Save(o.saveWorkload); err != nil {
			return err
		}
		logrus.Infof("Effective workload written to %s", o.saveWorkload)
	}

	reps, err := runReplications(spec.ToRunConfig(), o.replications)
	if err != nil {
		return err
	}

	if o.resultsDB != "" {
		store, err := results.Open(o.resultsDB)
		if err != nil {
			return err
		}
		atexit.Register(func() { _ = store.Close() })
		defer store.Close()
		for _, r := range reps {
			if err := store.SaveRun(r.ID, r.config, r.Result, r.lifecycle); err != nil {
				return err
			}
		}
	}

	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(reps)
}

// Execute runs the CLI root command
func Execute() {
	routeFatalThroughAtexit(logrus.StandardLogger())
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
}

// routeFatalThroughAtexit makes Fatal on logger run the atexit handlers
// (closing the results store) before the process exits.
func routeFatalThroughAtexit(logger *logrus.Logger) {
	logger.ExitFunc = atexit.Exit
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic); env ERQSIM_LOG")

	runCmd.Flags().Int64Var(&opts.seed, "seed", 42, "Master seed of all random streams")
	runCmd.Flags().Float64Var(&opts.horizon, "horizon", 60, "Simulated time the run advances to")
	runCmd.Flags().IntVar(&opts.servers, "servers", 2, "Number of servers in the shared resource")
	runCmd.Flags().Float64Var(&opts.arrivalMean, "arrival-mean", 5, "Mean time between arrivals")
	runCmd.Flags().Float64Var(&opts.serviceMean, "service-mean", 8, "Mean service duration")
	runCmd.Flags().StringVar(&opts.arrivalDist, "arrival-dist", "exponential", "Inter-arrival distribution (exponential, constant)")
	runCmd.Flags().StringVar(&opts.serviceDist, "service-dist", "exponential", "Service distribution (exponential, constant)")
	runCmd.Flags().StringSliceVar(&opts.classes, "classes", nil, "Priority classes as name=weight, highest priority first (default: one class)")
	runCmd.Flags().IntVar(&opts.maxArrivals, "max-arrivals", 0, "Stop generating after this many arrivals (0 = unlimited)")
	runCmd.Flags().BoolVar(&opts.trace, "trace", false, "Record the lifecycle of every entity")

	runCmd.Flags().StringVar(&opts.workloadPath, "workload", "", "YAML workload file; explicitly set flags override its fields")
	runCmd.Flags().StringVar(&opts.saveWorkload, "save-workload", "", "Write the effective workload to this YAML file")
	runCmd.Flags().IntVar(&opts.replications, "replications", 1, "Independent runs with seeds seed, seed+1, ...")
	runCmd.Flags().StringVar(&opts.resultsDB, "results-db", "", "SQLite file receiving the results; env ERQSIM_RESULTS_DB")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
