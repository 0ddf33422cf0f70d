package mdwriter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/apt-notes/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc := types.Document{
		Origin: "North Korea",
		Title:  "Labyrinth Chollima",
		Sections: []types.Section{
			{Heading: "Other Names", Body: "Lazarus Group"},
			{Heading: "Toolset / Malware", Body: "WannaCry, Manuscrypt"},
		},
	}

	got, err := Render(doc)
	require.NoError(t, err)

	want := "---\n" +
		"origin: North Korea\n" +
		"---\n\n" +
		"[[Labyrinth Chollima]]\n\n" +
		"## Other Names\nLazarus Group\n\n" +
		"## Toolset / Malware\nWannaCry, Manuscrypt\n\n"
	assert.Equal(t, want, got)
}

func TestRender_NoSections(t *testing.T) {
	got, err := Render(types.Document{Origin: "Iran", Title: "Charming Kitten"})
	require.NoError(t, err)
	assert.Equal(t, "---\norigin: Iran\n---\n\n[[Charming Kitten]]\n\n", got)
}

func TestBuildDocument(t *testing.T) {
	headers := []string{"Common Name", "Other Names", "", "First Seen", "Toolset / Malware"}
	row := types.Row{
		Number: 3,
		Cells:  []string{"Fancy Bear", "APT28", "stray", "", "X-Agent", "past headers"},
	}

	doc := BuildDocument("Russia", headers, row)

	assert.Equal(t, "Russia", doc.Origin)
	assert.Equal(t, "Fancy Bear", doc.Title)
	assert.Equal(t, []types.Section{
		{Heading: "Other Names", Body: "APT28"},
		{Heading: "Toolset / Malware", Body: "X-Agent"},
	}, doc.Sections)
}

func TestRender_QuotesAmbiguousOrigins(t *testing.T) {
	tests := []struct {
		origin string
		line   string
	}{
		{"Middle East", "origin: Middle East"},
		{"2023", `origin: "2023"`},
		{"Yes", `origin: "Yes"`},
		{"Others: misc", `origin: 'Others: misc'`},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			got, err := Render(types.Document{Origin: tt.origin, Title: "X"})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, "---\n"+tt.line+"\n---\n"), got)
		})
	}
}

func TestBuildDocument_EmptyInnerHeaderKeepsAlignment(t *testing.T) {
	headers := []string{"Common Name", "", "Other Names", "Toolset / Malware"}
	row := types.Row{Cells: []string{"Wicked Panda", "unlabelled", "APT41", "ShadowPad"}}

	doc := BuildDocument("China", headers, row)

	// Each value stays under the header of its own column; the unlabelled
	// column is dropped rather than shifting later values left.
	assert.Equal(t, []types.Section{
		{Heading: "Other Names", Body: "APT41"},
		{Heading: "Toolset / Malware", Body: "ShadowPad"},
	}, doc.Sections)
}

func TestBuildDocument_ShortRow(t *testing.T) {
	doc := BuildDocument("Iran", []string{"Name", "Aliases", "Tools"}, types.Row{Cells: []string{"Static Kitten"}})
	assert.Empty(t, doc.Sections)
}

func TestWriter_Write(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "China"), 0o755))
	w := NewWriter(root, false)

	path, err := w.Write("China", "Comment Panda", "first")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "China", "Comment Panda.md"), path)

	_, err = w.Write("China", "Comment Panda", "second")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriter_WriteMissingDirectory(t *testing.T) {
	w := NewWriter(t.TempDir(), false)

	_, err := w.Write("Atlantis", "Deep Crab", "content")
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Contains(t, writeErr.Path, "Deep Crab.md")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriter_DryRun(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, true)

	path, err := w.Write("Atlantis", "Deep Crab", "content")
	require.NoError(t, err)
	assert.NoFileExists(t, path)
}
