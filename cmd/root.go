// =============================================================================
// APT Notes Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (apt-notes)
//   ├── convertCmd (apt-notes convert)
//   ├── sheetsCmd  (apt-notes sheets)
//   └── versionCmd (apt-notes version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   that need them call loadConfig and newLogger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/apt-notes/internal/config"
	"github.com/ginjaninja78/apt-notes/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// Empty means apt-notes.yaml in the current directory, if present.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "apt-notes",
	Short: "APT Notes Converter - Turn an APT groups workbook into Markdown notes",
	Long: `APT Notes Converter reads a workbook describing threat-actor groups and
writes one Markdown note per group, in one folder per origin sheet.

Each note gets a small front matter block with its origin, a title link,
and one section per filled-in column. Two-word group names ending in a
known code-name label (Bear, Panda, Kitten, ...) become links, and short
names in the toolset/malware list become links too.

Example Usage:
  apt-notes convert                                  # Use the default workbook
  apt-notes convert -f ./groups.xlsx --out ./vault   # Custom input and output
  apt-notes convert --sheets China,Russia --dry-run  # Preview two sheets
  apt-notes sheets -f ./groups.xlsx                  # Inspect a workbook`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (default is apt-notes.yaml, if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration named by --config and applies
// --verbose.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg, writing its console copy to
// out.
func newLogger(cfg *config.Config, out io.Writer) (*zap.Logger, func() error, error) {
	logger, closeFn, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Console: out,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closeFn, nil
}
