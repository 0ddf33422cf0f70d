// =============================================================================
// APT Notes Converter - XLSX Workbook Reader
// =============================================================================
//
// This module wraps excelize to give the converter the three operations it
// needs on the input workbook: open it, list its sheets, and read one sheet
// as a header row plus data rows.
//
// WORKBOOK STRUCTURE (default layout):
//
//   | Row | Column A       | Column B     | Column C          | ...
//   |-----|----------------|--------------|-------------------|----
//   |  1  | (title, ignored)                                  |
//   |  2  | Name           | Aliases      | Toolset / Malware | ...   <- header row
//   |  3  | Cobalt Bear    | APT-X, ...   | Mimikatz, PsExec  | ...   <- first data row
//
// Row positions are configurable via the Layout struct.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ginjaninja78/apt-notes/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound indicates the workbook file does not exist.
var ErrNotFound = errors.New("workbook not found")

// ErrOpen indicates the workbook exists but could not be opened as xlsx.
var ErrOpen = errors.New("failed to open workbook")

// ErrSheetNotFound indicates a requested sheet is not in the workbook.
var ErrSheetNotFound = errors.New("sheet not found in the workbook")

// SheetError represents an error while reading a single sheet.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// =============================================================================
// LAYOUT CONFIGURATION
// =============================================================================

// Layout defines where the header and the data live in each sheet.
// Row numbers are 1-indexed, as shown in a spreadsheet application.
type Layout struct {
	// HeaderRow is the row containing field names.
	// Default: 2
	HeaderRow int

	// DataStartRow is the first row of group data.
	// Default: 3
	DataStartRow int
}

// DefaultLayout returns the default row layout.
func DefaultLayout() Layout {
	return Layout{
		HeaderRow:    2,
		DataStartRow: 3,
	}
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open, read-only workbook.
type Workbook struct {
	path string
	file *excelize.File
}

// Open opens the workbook at path.
//
// RETURNS:
//   - The open workbook. The caller must Close it.
//   - An error wrapping ErrNotFound if the file does not exist, or ErrOpen
//     if it is not a readable xlsx workbook.
func Open(path string) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: the file %s does not exist", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrOpen, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}

	return &Workbook{path: path, file: f}, nil
}

// Path returns the path the workbook was opened from.
func (w *Workbook) Path() string {
	return w.path
}

// Close releases the underlying excelize file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns the workbook's sheet names in tab order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether the workbook has a sheet with exactly this name.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// ReadSheet reads the header row and all data rows of one sheet.
//
// PARAMETERS:
//   - name: The sheet name. It must match exactly.
//   - layout: Where the header and the data rows live.
//
// RETURNS:
//   - The sheet contents.
//   - A *SheetError wrapping ErrSheetNotFound if the sheet is absent, or the
//     underlying excelize error if the rows cannot be read.
func (w *Workbook) ReadSheet(name string, layout Layout) (*types.Sheet, error) {
	if !w.HasSheet(name) {
		return nil, &SheetError{Sheet: name, Err: ErrSheetNotFound}
	}
	if layout.HeaderRow < 1 || layout.DataStartRow <= layout.HeaderRow {
		return nil, &SheetError{Sheet: name, Err: fmt.Errorf("invalid layout: header row %d, data start row %d", layout.HeaderRow, layout.DataStartRow)}
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, &SheetError{Sheet: name, Err: fmt.Errorf("failed to read rows: %w", err)}
	}

	sheet := &types.Sheet{Name: name}

	if len(rows) >= layout.HeaderRow {
		sheet.Headers = trimTrailingEmpty(rows[layout.HeaderRow-1])
	}

	for i := layout.DataStartRow - 1; i < len(rows); i++ {
		sheet.Rows = append(sheet.Rows, types.Row{
			Number: i + 1,
			Cells:  rows[i],
		})
	}

	return sheet, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// trimTrailingEmpty drops trailing blank cells from a header row.
func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	copy(out, row[:end])
	return out
}
