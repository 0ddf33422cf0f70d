package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/apt-notes/internal/types"
	"github.com/ginjaninja78/apt-notes/internal/xlsxparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// resetFlags clears the package-level flag targets between command runs.
func resetFlags() {
	cfgFile, verbose = "", false
	workbookFile, outputDir, summaryFile = "", "", ""
	sheetList, dryRun = nil, false
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// writeConfig writes a config limited to China and NATO that logs inside dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "apt-notes.yaml")
	content := fmt.Sprintf("sheets: [China, NATO]\nlog_file: %q\n", filepath.Join(dir, "conversion.log"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeGroupsWorkbook saves a workbook with a China sheet holding one group
// and an Overview sheet outside the allow-list.
func writeGroupsWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "China"))
	rows := [][]any{
		{"APT groups of China"},
		{"Common Name", "Other Names", "Toolset / Malware"},
		{"Comment Panda", "APT1", "Mimikatz, PsExec"},
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("China", cell, &row))
	}
	_, err := f.NewSheet("Overview")
	require.NoError(t, err)

	path := filepath.Join(dir, "groups.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	wb := writeGroupsWorkbook(t, dir)
	out := filepath.Join(dir, "vault")

	output, err := runCLI(t, "convert", "--config", cfg, "-f", wb, "--out", out)
	require.NoError(t, err)

	assert.Contains(t, output, "Created file")
	assert.Contains(t, output, "=== Conversion Complete ===")
	assert.Contains(t, output, "Written:         1")
	assert.Contains(t, output, "Not in workbook: NATO")

	note, err := os.ReadFile(filepath.Join(out, "China", "Comment Panda.md"))
	require.NoError(t, err)
	assert.Contains(t, string(note), "[[MIMIKATZ]], [[PSEXEC]]")

	logData, err := os.ReadFile(filepath.Join(dir, "conversion.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "WARN - Sheet NATO not found in the workbook")
}

func TestConvertCommand_MissingWorkbook(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	out := filepath.Join(dir, "vault")

	output, err := runCLI(t, "convert", "--config", cfg, "-f", filepath.Join(dir, "missing.xlsx"), "--out", out)
	require.NoError(t, err)

	assert.Contains(t, output, "ERROR - File not found")
	assert.NotContains(t, output, "Conversion Complete")
	assert.NoDirExists(t, out)
}

func TestConvertCommand_DryRunWithSummary(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	wb := writeGroupsWorkbook(t, dir)
	out := filepath.Join(dir, "vault")
	report := filepath.Join(dir, "reports", "run.yaml")

	output, err := runCLI(t, "convert", "--config", cfg, "-f", wb, "--out", out, "--dry-run", "--summary", report)
	require.NoError(t, err)

	assert.Contains(t, output, "Would create file")
	assert.Contains(t, output, "Would write:     1")
	assert.Contains(t, output, "Wrote summary report")
	assert.NoDirExists(t, out)

	data, err := os.ReadFile(report)
	require.NoError(t, err)

	var result types.RunResult
	require.NoError(t, yaml.Unmarshal(data, &result))
	assert.True(t, result.DryRun)
	assert.Equal(t, wb, result.Workbook)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"NATO"}, result.MissingSheets)
	require.Len(t, result.Sheets, 1)
	assert.Equal(t, "China", result.Sheets[0].Sheet)
	assert.Equal(t, 1, result.Sheets[0].Written)
}

func TestConvertCommand_BadConfig(t *testing.T) {
	_, err := runCLI(t, "convert", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSheetsCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	wb := writeGroupsWorkbook(t, dir)

	output, err := runCLI(t, "sheets", "--config", cfg, "-f", wb)
	require.NoError(t, err)

	assert.Contains(t, output, "Workbook: "+wb)
	assert.Contains(t, output, "  [x] China\n")
	assert.Contains(t, output, "  [ ] Overview\n")
	assert.Contains(t, output, "Allowed but missing: NATO")
}

func TestSheetsCommand_MissingWorkbook(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := runCLI(t, "sheets", "--config", cfg, "-f", filepath.Join(dir, "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, xlsxparser.ErrNotFound))
}
