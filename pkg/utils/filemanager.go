// =============================================================================
// APT Notes Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter, including:
//   - Sheet output directory management
//   - Default workbook resolution (next to the executable)
//   - Run identifiers
//   - Run summary reports (plain text for the terminal, YAML on disk)
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/apt-notes/internal/types"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles output directories for the converter.
type FileManager struct {
	// OutputDir is the root under which one directory per sheet is created.
	OutputDir string

	// DryRun disables every filesystem change.
	DryRun bool
}

// NewFileManager creates a new FileManager rooted at outputDir.
func NewFileManager(outputDir string, dryRun bool) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		DryRun:    dryRun,
	}
}

// SheetDir returns the output directory of a sheet.
func (fm *FileManager) SheetDir(sheet string) string {
	return filepath.Join(fm.OutputDir, sheet)
}

// EnsureSheetDir creates the output directory of a sheet if it does not
// already exist. In dry-run mode it only returns the path.
//
// RETURNS:
//   - The directory path.
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureSheetDir(sheet string) (string, error) {
	dir := fm.SheetDir(sheet)
	if fm.DryRun {
		return dir, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dir, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// =============================================================================
// WORKBOOK RESOLUTION
// =============================================================================

// DefaultWorkbookPath returns name joined to the directory of the running
// executable. If that directory cannot be determined, name is returned
// unchanged so it resolves against the working directory.
func DefaultWorkbookPath(name string) string {
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), name)
}

// =============================================================================
// RUN IDENTIFIERS
// =============================================================================

// NewRunID returns a fresh identifier for a conversion run.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// WriteSummary prints a human-readable summary of a run.
func WriteSummary(w io.Writer, result *types.RunResult) error {
	bw := bufio.NewWriter(w)

	written, skipped, failed := result.Totals()
	label := "Written"
	if result.DryRun {
		label = "Would write"
	}

	fmt.Fprintln(bw, "\n=== Conversion Complete ===")
	fmt.Fprintf(bw, "Run ID:          %s\n", result.RunID)
	fmt.Fprintf(bw, "Workbook:        %s\n", result.Workbook)
	fmt.Fprintf(bw, "Sheets:          %d\n", len(result.Sheets))
	fmt.Fprintf(bw, "%-17s%d\n", label+":", written)
	fmt.Fprintf(bw, "Skipped rows:    %d\n", skipped)
	fmt.Fprintf(bw, "Failed files:    %d\n", failed)
	if !result.EndTime.IsZero() {
		fmt.Fprintf(bw, "Time elapsed:    %s\n", result.EndTime.Sub(result.StartTime))
	}

	if len(result.Sheets) > 0 {
		fmt.Fprintln(bw, "\nPer sheet:")
		for _, s := range result.Sheets {
			line := fmt.Sprintf("  %-14s written=%d skipped=%d failed=%d", s.Sheet, s.Written, s.Skipped, s.Failed)
			if s.Error != "" {
				line += " error=" + s.Error
			}
			fmt.Fprintln(bw, line)
		}
	}
	if len(result.MissingSheets) > 0 {
		fmt.Fprintf(bw, "\nNot in workbook: %s\n", strings.Join(result.MissingSheets, ", "))
	}

	return bw.Flush()
}

// WriteSummaryReport writes the run result as YAML to path, creating parent
// directories as needed.
//
// RETURNS:
//   - An error if the report cannot be encoded or written.
func WriteSummaryReport(result *types.RunResult, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
