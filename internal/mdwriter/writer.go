// =============================================================================
// APT Notes Converter - Markdown Writer Module
// =============================================================================
//
// This module renders a Document into note text and writes it to disk.
//
// NOTE STRUCTURE:
//
//   ---
//   origin: China               <- YAML front matter
//   ---
//
//   [[Comment Panda]]           <- title link
//
//   ## Other Names              <- one block per non-empty column
//   APT1, Byzantine Candor
//
//   ## Toolset / Malware
//   Mimikatz, PsExec
//
// The rendered text is what the rewrite passes receive; this module does not
// change case or add links beyond the title.
//
// =============================================================================

package mdwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/apt-notes/internal/types"
	"gopkg.in/yaml.v3"
)

// Extension is the file extension of every note.
const Extension = ".md"

// frontMatter is the metadata block at the top of each note.
type frontMatter struct {
	Origin string `yaml:"origin"`
}

// =============================================================================
// RENDERING
// =============================================================================

// Render returns the note text for doc.
func Render(doc types.Document) (string, error) {
	fm, err := yaml.Marshal(frontMatter{Origin: doc.Origin})
	if err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")

	b.WriteString("[[")
	b.WriteString(doc.Title)
	b.WriteString("]]\n\n")

	for _, s := range doc.Sections {
		b.WriteString("## ")
		b.WriteString(s.Heading)
		b.WriteString("\n")
		b.WriteString(s.Body)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}

// BuildDocument assembles the document for one row. Values are paired with
// the header in the same column; columns past the header row and columns
// with an empty header or an empty value are left out.
func BuildDocument(origin string, headers []string, row types.Row) types.Document {
	doc := types.Document{
		Origin: origin,
		Title:  row.Key(),
	}
	for col := 1; col < len(headers) && col < len(row.Cells); col++ {
		heading, value := headers[col], row.Cells[col]
		if heading == "" || value == "" {
			continue
		}
		doc.Sections = append(doc.Sections, types.Section{Heading: heading, Body: value})
	}
	return doc
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteError represents a failure to write one note.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("error writing file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer writes notes below a root directory, one directory per sheet.
type Writer struct {
	// Root is the output root. Sheet directories are created under it.
	Root string

	// DryRun resolves paths without touching the filesystem.
	DryRun bool
}

// NewWriter creates a Writer rooted at root.
func NewWriter(root string, dryRun bool) *Writer {
	return &Writer{Root: root, DryRun: dryRun}
}

// Path returns the note path for a sheet and sanitized file stem.
func (w *Writer) Path(sheet, stem string) string {
	return filepath.Join(w.Root, sheet, stem+Extension)
}

// Write writes content to the note for sheet/stem, replacing any existing
// file. The sheet directory must already exist.
//
// RETURNS:
//   - The path written (or that would be written, in dry-run mode).
//   - A *WriteError if the file cannot be written.
func (w *Writer) Write(sheet, stem, content string) (string, error) {
	path := w.Path(sheet, stem)
	if w.DryRun {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return path, &WriteError{Path: path, Err: err}
	}
	return path, nil
}
