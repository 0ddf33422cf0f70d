// =============================================================================
// APT Notes Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the APT Notes Converter CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   apt-notes convert       - Convert the workbook into one note per group
//   apt-notes sheets        - List the workbook's sheets against the allow-list
//   apt-notes version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core conversion logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/apt-notes/cmd"
)

func main() {
	cmd.Execute()
}
