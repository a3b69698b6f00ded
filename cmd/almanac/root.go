package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/praetorian-inc/almanac/pkg/config"
)

var (
	verbose    bool
	quiet      bool
	configPath string
)

// logger is replaced in PersistentPreRunE; commands invoked directly in
// tests keep the no-op logger.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "almanac",
	Short: "Almanac - seed-to-location interval remapper",
	Long: `Almanac pushes seeds through an ordered chain of mapping stages and
reports the lowest resulting location.

Seeds are read either as single values (part 1) or as start/length ranges
(part 2). Ranges are remapped as whole intervals, so inputs with billions
of seeds are solved without enumerating them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	// Add subcommands
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupRoot(cmd *cobra.Command, args []string) error {
	level := zapcore.WarnLevel
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := applyConfig(cmd, cfg); err != nil {
			return err
		}
		// Validate already checked the level.
		level, _ = cfg.Level()
	}

	l, err := newLogger(resolveLevel(level))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = l
	return nil
}

// resolveLevel lets --verbose and --quiet override the configured level.
func resolveLevel(level zapcore.Level) zapcore.Level {
	switch {
	case verbose:
		return zapcore.DebugLevel
	case quiet:
		return zapcore.ErrorLevel
	default:
		return level
	}
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// applyConfig copies config file values into the flags of cmd that the
// user did not set on the command line.
func applyConfig(cmd *cobra.Command, cfg *config.Config) error {
	values := map[string]string{
		"datastore":    cfg.Datastore,
		"workers":      strconv.Itoa(cfg.Workers),
		"color":        cfg.Color,
		"store-inputs": strconv.FormatBool(cfg.StoreInputs),
	}
	for name, value := range values {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(value); err != nil {
			return fmt.Errorf("applying config %s: %w", name, err)
		}
	}
	return nil
}
