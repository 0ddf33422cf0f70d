// =============================================================================
// APT Notes Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which runs the whole conversion:
// workbook in, one Markdown note per group out.
//
// COMMAND USAGE:
//   apt-notes convert [flags]
//
// FLAGS:
//   -f, --file    : Path to the workbook (default: the workbook next to the
//                   executable)
//   --out         : Root directory for the sheet folders
//   --sheets      : Comma-separated sheets to convert (overrides the config)
//   --dry-run     : Build every note without writing anything
//   --summary     : Also write the run summary as YAML to this path
//
// EXIT BEHAVIOUR:
//   A missing or unreadable workbook is logged and the command still exits
//   normally, as do skipped rows and failed writes. Only configuration and
//   logging setup errors make the command fail.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/apt-notes/internal/config"
	"github.com/ginjaninja78/apt-notes/internal/converter"
	"github.com/ginjaninja78/apt-notes/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// workbookFile is the path to the input workbook.
var workbookFile string

// outputDir overrides the configured output root.
var outputDir string

// sheetList overrides the configured sheet allow-list.
var sheetList []string

// dryRun builds notes without writing them.
var dryRun bool

// summaryFile is where the YAML run summary is written, if set.
var summaryFile string

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the workbook into one Markdown note per group",
	Long: `The convert command reads every allowed sheet of the workbook and writes
one note per data row to <out>/<sheet>/<name>.md, replacing existing notes.

Rows without a usable name (empty, blank or "?") are skipped with a warning.
Sheets missing from the workbook are skipped with a warning. A note that
cannot be written is logged as an error and the remaining rows are still
converted.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(
		&workbookFile,
		"file",
		"f",
		"",
		fmt.Sprintf("Path to the workbook (default is %q next to the executable)", config.DefaultWorkbookName),
	)

	convertCmd.Flags().StringVar(
		&outputDir,
		"out",
		"",
		"Root directory for the sheet folders (default is the configured output_dir)",
	)

	convertCmd.Flags().StringSliceVar(
		&sheetList,
		"sheets",
		nil,
		"Comma-separated list of sheets to convert (default is the configured sheets)",
	)

	convertCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Build every note and log what would be written, without writing",
	)

	convertCmd.Flags().StringVar(
		&summaryFile,
		"summary",
		"",
		"Write the run summary as YAML to this path",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runConvert(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyConvertFlags(cfg)

	out := cmd.OutOrStdout()
	logger, closeLog, err := newLogger(cfg, out)
	if err != nil {
		return err
	}
	defer closeLog()

	workbook := resolveWorkbook(workbookFile, cfg)

	conv := converter.New(cfg, logger, converter.WithDryRun(dryRun))
	result, err := conv.Convert(workbook, cfg.Sheets)
	if err != nil {
		// Already logged by the converter; a bad workbook is not a CLI error.
		return nil
	}

	if err := utils.WriteSummary(out, result); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	if summaryFile != "" {
		if err := utils.WriteSummaryReport(result, summaryFile); err != nil {
			logger.Error("Failed to write summary report", zap.String("path", summaryFile), zap.Error(err))
		} else {
			logger.Info("Wrote summary report", zap.String("path", summaryFile))
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// applyConvertFlags copies command-line overrides into cfg.
func applyConvertFlags(cfg *config.Config) {
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	var sheets []string
	for _, s := range sheetList {
		if s = strings.TrimSpace(s); s != "" {
			sheets = append(sheets, s)
		}
	}
	if len(sheets) > 0 {
		cfg.Sheets = sheets
	}
}

// resolveWorkbook picks the workbook path: the flag, then the configured
// workbook, then the default name next to the executable.
func resolveWorkbook(flag string, cfg *config.Config) string {
	switch {
	case flag != "":
		return flag
	case cfg.Workbook != "":
		return cfg.Workbook
	default:
		return utils.DefaultWorkbookPath(config.DefaultWorkbookName)
	}
}
