package xlsxparser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook with one sheet per entry in sheets. Each
// sheet's rows start at A1.
func writeWorkbook(t *testing.T, sheets map[string][][]any, order ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "groups.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrOpen))
}

func TestOpen_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpen))
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.True(t, errors.Is(err, ErrOpen))
}

func TestReadSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"China": {
			{"APT groups of China"},
			{"Common Name", "Other Names", "", "Toolset / Malware", ""},
			{"Comment Panda", "APT1", "ignored", "Mimikatz"},
			{},
			{"Wicked Panda", "APT41"},
		},
		"Russia": {},
	}, "China", "Russia")

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, path, wb.Path())
	assert.Equal(t, []string{"China", "Russia"}, wb.SheetNames())
	assert.True(t, wb.HasSheet("China"))
	assert.False(t, wb.HasSheet("china"))

	sheet, err := wb.ReadSheet("China", DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, "China", sheet.Name)
	assert.Equal(t, []string{"Common Name", "Other Names", "", "Toolset / Malware"}, sheet.Headers)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, 3, sheet.Rows[0].Number)
	assert.Equal(t, "Comment Panda", sheet.Rows[0].Key())
	assert.Equal(t, "Mimikatz", sheet.Rows[0].Cell(3))
	assert.Equal(t, "", sheet.Rows[0].Cell(9))

	assert.Equal(t, 4, sheet.Rows[1].Number)
	assert.Equal(t, "", sheet.Rows[1].Key())

	assert.Equal(t, 5, sheet.Rows[2].Number)
	assert.Equal(t, "Wicked Panda", sheet.Rows[2].Key())
}

func TestReadSheet_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Iran": {}}, "Iran")
	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	sheet, err := wb.ReadSheet("Iran", DefaultLayout())
	require.NoError(t, err)
	assert.Empty(t, sheet.Headers)
	assert.Empty(t, sheet.Rows)
}

func TestReadSheet_Missing(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Iran": {}}, "Iran")
	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.ReadSheet("NATO", DefaultLayout())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))

	var sheetErr *SheetError
	require.True(t, errors.As(err, &sheetErr))
	assert.Equal(t, "NATO", sheetErr.Sheet)
}

func TestReadSheet_InvalidLayout(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Iran": {}}, "Iran")
	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.ReadSheet("Iran", Layout{HeaderRow: 2, DataStartRow: 2})
	assert.Error(t, err)
}

func TestTrimTrailingEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, trimTrailingEmpty([]string{"a", "", "b", " ", ""}))
	assert.Equal(t, []string{}, trimTrailingEmpty([]string{"", ""}))
}
