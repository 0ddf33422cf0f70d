// =============================================================================
// APT Notes Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser (Sheet, Row)
//   - converter  (Document, RunResult)
//   - mdwriter   (Document)
//   - utils      (RunResult)
//
// =============================================================================

package types

import "time"

// =============================================================================
// WORKBOOK TYPES
// =============================================================================

// Sheet is one allowed worksheet read from the workbook.
type Sheet struct {
	// Name is the worksheet name. It becomes the origin of every document
	// and the name of the output directory.
	Name string

	// Headers are the labels of the header row, aligned by column.
	// Trailing empty cells are dropped; inner empty cells stay as "".
	Headers []string

	// Rows are the data rows in sheet order.
	Rows []Row
}

// Row is a single data row.
type Row struct {
	// Number is the 1-indexed row number in the worksheet, for logging.
	Number int

	// Cells holds the formatted cell values. Column 0 is the group name.
	Cells []string
}

// Cell returns the value in column i, or "" past the end of the row.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Key returns the raw primary name in column 0.
func (r Row) Key() string {
	return r.Cell(0)
}

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// Section is one "## heading" block of a document.
type Section struct {
	Heading string
	Body    string
}

// Document is the note derived from a single row. It is built, rendered,
// rewritten and written; it is never kept across rows.
type Document struct {
	// Origin is the sheet name, recorded in the front matter.
	Origin string

	// Title is the raw row key.
	Title string

	// Sections holds one entry per non-empty value after column 0.
	Sections []Section
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// SheetResult counts what happened to the rows of one sheet.
type SheetResult struct {
	Sheet   string   `yaml:"sheet"`
	Written int      `yaml:"written"`
	Skipped int      `yaml:"skipped"`
	Failed  int      `yaml:"failed"`
	Files   []string `yaml:"files,omitempty"`

	// Error is set when the whole sheet could not be processed.
	Error string `yaml:"error,omitempty"`
}

// RunResult summarizes one conversion run.
type RunResult struct {
	RunID         string        `yaml:"run_id"`
	Workbook      string        `yaml:"workbook"`
	DryRun        bool          `yaml:"dry_run"`
	StartTime     time.Time     `yaml:"start_time"`
	EndTime       time.Time     `yaml:"end_time"`
	Sheets        []SheetResult `yaml:"sheets"`
	MissingSheets []string      `yaml:"missing_sheets,omitempty"`
}

// Totals returns the written, skipped and failed counts across all sheets.
func (r *RunResult) Totals() (written, skipped, failed int) {
	for _, s := range r.Sheets {
		written += s.Written
		skipped += s.Skipped
		failed += s.Failed
	}
	return written, skipped, failed
}
