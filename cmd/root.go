package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/circuit-sim/circuit-sim/sim"
	"github.com/circuit-sim/circuit-sim/sim/trace"
)

var (
	// CLI flags for a headless run
	ttyFormats []string // Console outputs: table, speed, tty, halt, statistics
	loadPath   string   // Memory image loaded into every RAM before the first tick
	logLevel   string   // Log verbosity level
	tickRate   float64  // Clock ticks per second, 0 for unthrottled
	traceLevel string   // Run trace verbosity
	configPath string   // Optional YAML file with run defaults
)

// exit is replaced in tests.
var exit = os.Exit

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "circuit-sim",
	Short: "Headless driver for digital logic circuits",
}

// runCmd simulates a circuit on the console until its halt pin is asserted
// or it oscillates.
var runCmd = &cobra.Command{
	Use:   "run <circuit>",
	Short: "Run a circuit headlessly",
	Long: `Run a circuit without an editor. The clock ticks until the output pin
labeled "halt" reads 1 (exit 0) or propagation oscillates (exit 1).
Load and configuration failures exit with 255. Without any --tty output
the circuit is loaded but not simulated, and the exit code is 0.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveRunConfig(cmd, args[0], nil)
		if err != nil {
			cmd.PrintErrln("circuit-sim:", err)
			exit(ExitFailure)
			return
		}
		if code := execute(cmd, cfg); code != 0 {
			exit(code)
		}
	},
}

// statsCmd prints component counts without simulating.
var statsCmd = &cobra.Command{
	Use:   "stats <circuit>",
	Short: "Print component statistics for a circuit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveRunConfig(cmd, args[0], []string{"statistics"})
		if err != nil {
			cmd.PrintErrln("circuit-sim:", err)
			exit(ExitFailure)
			return
		}
		if code := execute(cmd, cfg); code != 0 {
			exit(code)
		}
	},
}

// execute sets up logging and signal handling around runCircuit.
func execute(cmd *cobra.Command, cfg runConfig) int {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		cmd.PrintErrf("circuit-sim: invalid log level: %s\n", cfg.LogLevel)
		return ExitFailure
	}
	logrus.SetLevel(level)
	log := logrus.WithField("run", uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runCircuit(ctx, cfg, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), log)
}

// resolveRunConfig merges the defaults file (if any) under the flags that
// were set explicitly. A non-nil forced replaces the requested formats.
func resolveRunConfig(cmd *cobra.Command, circuit string, forced []string) (runConfig, error) {
	cfg := runConfig{
		Circuit:   circuit,
		Formats:   append([]string(nil), ttyFormats...),
		ImagePath: loadPath,
		LogLevel:  logLevel,
		TickRate:  tickRate,
		Trace:     traceLevel,
	}
	if configPath != "" {
		defaults, err := loadRunDefaults(configPath)
		if err != nil {
			return cfg, err
		}
		defaults.apply(&cfg, cmd.Flags().Changed)
	}
	if forced != nil {
		cfg.Formats = forced
	}
	if !trace.IsValidTraceLevel(cfg.Trace) {
		return cfg, &sim.ConfigError{Msg: "unknown trace level " + `"` + cfg.Trace + `"` + "; valid: none, ticks"}
	}
	if cfg.TickRate < 0 {
		return cfg, &sim.ConfigError{Msg: "tick rate must be non-negative"}
	}
	return cfg, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exit(ExitFailure)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with run defaults; explicit flags take precedence")
}

// init sets up CLI flags and subcommands
func init() {
	addCommonFlags(runCmd)
	runCmd.Flags().StringSliceVar(&ttyFormats, "tty", nil, "Comma-separated console outputs: table, speed, tty, halt, statistics")
	runCmd.Flags().StringVar(&loadPath, "load", "", "Memory image (v2.0 raw) loaded into every RAM before the first tick")
	runCmd.Flags().Float64Var(&tickRate, "tick-rate", 0, "Maximum clock ticks per second (0 = unthrottled)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Run trace level (none, ticks)")

	addCommonFlags(statsCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
}
