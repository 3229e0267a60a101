// Command locohub validates phase-indexed locomotion datasets against
// per-task validation range specifications.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/config"
	"github.com/jmontp/LocoHub-sub002/engine"
	"github.com/jmontp/LocoHub-sub002/spec"
)

var (
	// Global flags
	verbose    bool
	configPath string
	specDir    string
	workers    int
	points     int
	strict     bool
	format     string

	// Logger
	logger *zap.Logger

	// Loaded configuration
	cfg config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "locohub",
	Short: "locohub - phase-indexed locomotion dataset validator",
	Long: `locohub validates standardized locomotion datasets.

Datasets are parquet files of gait cycles resampled to a fixed number of
points per cycle, with subject/task/step/phase_percent meta columns and
biomechanical feature columns named <joint>_<motion>_<measurement>_<side>_<unit>.

Validation ranges are authored as Markdown documents, one per task, each
carrying a fenced YAML block of per-variable min/max ranges at checkpoint
phases of the gait cycle.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// Flags override file and environment
		if specDir != "" {
			cfg.SpecDir = specDir
		}
		if cmd.Flags().Changed("workers") {
			cfg.WorkerCount = workers
		}
		if cmd.Flags().Changed("points") {
			cfg.PointsPerCycle = points
		}
		if strict {
			cfg.Strict = true
		}
		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a locohub YAML config file")
	rootCmd.PersistentFlags().StringVar(&specDir, "spec-dir", "", "Directory of <task>.md validation range specs")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 4, "Worker count for batch validation")
	rootCmd.PersistentFlags().IntVar(&points, "points", 150, "Expected samples per gait cycle")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Output format: text, json or markdown")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tuneCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(specCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newSpecManager builds the spec manager from the effective configuration.
func newSpecManager() *spec.Manager {
	var opts []spec.ManagerOption
	if cfg.SpecDir != "" {
		opts = append(opts, spec.WithDir(cfg.SpecDir))
	}
	return spec.NewManager(opts...)
}

// newValidator builds a validator from the effective configuration.
func newValidator(cmd *cobra.Command) (*engine.Validator, error) {
	opts := []lv.Option{
		lv.WithPointsPerCycle(cfg.PointsPerCycle),
		lv.WithWorkerCount(cfg.WorkerCount),
		lv.WithMaxNaNShare(cfg.MaxNaNShare),
		lv.WithStrictMode(cfg.Strict),
	}

	v, err := engine.New(cmd.Context(), lv.V1, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating validator: %w", err)
	}
	v.SetSpecResolver(newSpecManager())
	v.SetLogger(logger)
	return v, nil
}
