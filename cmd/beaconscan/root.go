package main

import (
	"fmt"
	"strconv"

	"github.com/praetorian-inc/beaconscan"
	"github.com/praetorian-inc/beaconscan/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	envFile    string
	inputPath  string

	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "beaconscan",
	Short: "Beaconscan - find where a hidden beacon cannot be",
	Long: `Beaconscan reads sensor reports (a sensor position and the nearest beacon it
detected) and works out which positions provably cannot hold another beacon.

It can count the excluded positions on a single row, print a row's coverage,
or search a square region for the one position no sensor rules out.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to dotenv file with BEACONSCAN_* settings")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Sensor report file (text or .yaml)")

	// Add subcommands
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// prepare configures logging and fills every flag the user did not set from
// the config file and environment.
func prepare(cmd *cobra.Command, args []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	switch {
	case quiet:
		logger.SetLevel(logrus.ErrorLevel)
	case verbose:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	flags := cmd.Flags()
	setDefault := func(name, value string) error {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			return nil
		}
		if err := f.Value.Set(value); err != nil {
			return fmt.Errorf("applying config to --%s: %w", name, err)
		}
		return nil
	}

	if cfg.Input != "" {
		if err := setDefault("input", cfg.Input); err != nil {
			return err
		}
	}
	if err := setDefault("row", strconv.FormatInt(cfg.Row, 10)); err != nil {
		return err
	}
	if err := setDefault("bound", strconv.FormatInt(cfg.Bound, 10)); err != nil {
		return err
	}
	return setDefault("workers", strconv.Itoa(cfg.Workers))
}

// loadAnalyzer reads the sensor reports named by --input.
func loadAnalyzer(opts ...beaconscan.Option) (*beaconscan.Analyzer, error) {
	if inputPath == "" {
		return nil, fmt.Errorf("no input file: use --input or set %s", config.EnvInput)
	}

	reports, err := beaconscan.LoadReportsFromFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("loading sensor reports: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"input":   inputPath,
		"sensors": len(reports),
	}).Debug("loaded sensor reports")

	opts = append([]beaconscan.Option{beaconscan.WithLogger(logger)}, opts...)
	return beaconscan.New(reports, opts...), nil
}
