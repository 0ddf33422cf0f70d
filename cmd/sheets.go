// =============================================================================
// APT Notes Converter - Sheets Command
// =============================================================================
//
// This file defines the 'sheets' command, which lists the sheets of a
// workbook and shows which of them the convert command would process.
//
// COMMAND USAGE:
//   apt-notes sheets [-f PATH]
//
// OUTPUT:
//   Workbook: APT Groups and Operations.xlsx
//     [x] China
//     [x] Russia
//     [ ] Overview
//   Allowed but missing: NATO
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/apt-notes/internal/xlsxparser"
	"github.com/spf13/cobra"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the workbook's sheets against the allow-list",
	Long: `List every sheet of the workbook, marking the ones in the configured
allow-list, followed by allowed sheets the workbook does not have.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := resolveWorkbook(workbookFile, cfg)
		wb, err := xlsxparser.Open(path)
		if err != nil {
			return err
		}
		defer wb.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Workbook: %s\n", wb.Path())
		for _, name := range wb.SheetNames() {
			mark := " "
			if cfg.IsAllowedSheet(name) {
				mark = "x"
			}
			fmt.Fprintf(out, "  [%s] %s\n", mark, name)
		}

		var missing []string
		for _, name := range cfg.Sheets {
			if !wb.HasSheet(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			fmt.Fprintf(out, "Allowed but missing: %s\n", strings.Join(missing, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)

	sheetsCmd.Flags().StringVarP(
		&workbookFile,
		"file",
		"f",
		"",
		"Path to the workbook (default is the workbook next to the executable)",
	)
}
