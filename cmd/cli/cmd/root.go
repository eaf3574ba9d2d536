// Package cmd provides the CLI commands for tour-quote.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tour-quote/adapters/ratefile"
	"tour-quote/core/rates"
	"tour-quote/internal/config"
	qerrors "tour-quote/internal/errors"
	"tour-quote/internal/logging"
)

// Version is the CLI version, overridden at link time
var Version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	ratesPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tour-quote",
	Short: "Price multi-day tours of Jordan",
	Long: `tour-quote prices multi-day group tours.

It combines hotel stays, transport, guides, entrance fees, jeep tours, meals
and extras into a per-person price matrix across group sizes and
accommodation options. Missing rates never fail a quotation; they are priced
at zero and listed as diagnostics.

Examples:
  tour-quote quote tour.yaml
  tour-quote quote --format markdown --margin 0.15 tour.json
  tour-quote season --city Petra --stars 4 --arrival 2026-04-10
  tour-quote rates validate rates.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tour-quote/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&ratesPath, "rates", "", "rate table file (.json, .yaml, .hcl); overrides the config")

	// Add subcommands
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(collapseCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tour-quote", "config.json")
}

// loadRates loads the rate tables named by --rates or the config
func loadRates() (*rates.Repository, []rates.Issue, error) {
	path := ratesPath
	if path == "" {
		path = config.Get().Rates.Path
	}
	return ratefile.LoadRepository(path)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tour-quote version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath()
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return qerrors.Inputf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return qerrors.Wrap(qerrors.TypeConfig, "failed to write config", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), config.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}
