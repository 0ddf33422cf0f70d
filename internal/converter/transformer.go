// =============================================================================
// APT Notes Converter - Rewrite Passes
// =============================================================================
//
// Two text rewrites run over every rendered note, in this order:
//
//   PASS A - line classification (ClassifyLines)
//     A line of exactly two words whose second word is a category label
//     ("Cobalt Bear") becomes a link: [[COBALT BEAR]]. Every other line is
//     upper-cased as-is. The match is deliberately literal: any two-word
//     line anywhere in the note qualifies, not only the title.
//
//   PASS B - toolset/malware rewrite (RewriteToolset)
//     The first non-blank line after the toolset marker heading is read as
//     a comma-separated tool list. Tool names of at most two words become
//     links; longer names are left as plain text. Only that one line is
//     rewritten.
//
// Pass B sees Pass A's output, so the marker is compared in upper case.
//
// =============================================================================

package converter

import (
	"strings"
)

// Transformer applies the two rewrite passes.
type Transformer struct {
	labels map[string]struct{}
	marker string
}

// NewTransformer creates a Transformer.
//
// PARAMETERS:
//   - labels: Category labels that qualify a two-word line for Pass A.
//   - marker: Heading prefix that starts the tool list for Pass B.
func NewTransformer(labels []string, marker string) *Transformer {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return &Transformer{
		labels: set,
		marker: strings.ToUpper(marker),
	}
}

// Apply runs Pass A then Pass B over content.
func (t *Transformer) Apply(content string) string {
	return t.RewriteToolset(t.ClassifyLines(content))
}

// IsLabel reports whether word is one of the category labels.
func (t *Transformer) IsLabel(word string) bool {
	_, ok := t.labels[word]
	return ok
}

// =============================================================================
// PASS A
// =============================================================================

// ClassifyLines is Pass A.
func (t *Transformer) ClassifyLines(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = t.classifyLine(line)
	}
	return strings.Join(lines, "\n")
}

func (t *Transformer) classifyLine(line string) string {
	words := strings.Fields(line)
	if len(words) == 2 && t.IsLabel(words[1]) {
		return wikiLink(strings.ToUpper(strings.Join(words, " ")))
	}
	return strings.ToUpper(line)
}

// =============================================================================
// PASS B
// =============================================================================

// RewriteToolset is Pass B.
func (t *Transformer) RewriteToolset(content string) string {
	lines := strings.Split(content, "\n")
	inToolset := false

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, t.marker):
			inToolset = true
		case inToolset && strings.TrimSpace(line) != "":
			lines[i] = linkTools(line)
			inToolset = false
		}
	}

	return strings.Join(lines, "\n")
}

// linkTools rewrites a comma-separated tool list, linking short names.
func linkTools(line string) string {
	tools := strings.Split(line, ",")
	for i, tool := range tools {
		tool = strings.TrimSpace(tool)
		if len(strings.Fields(tool)) <= 2 {
			tool = wikiLink(tool)
		}
		tools[i] = tool
	}
	return strings.Join(tools, ", ")
}

func wikiLink(s string) string {
	return "[[" + s + "]]"
}
