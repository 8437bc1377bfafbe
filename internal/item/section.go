package item

import (
	"slices"
	"strings"
)

// SectionSeparator is the line the game client prints between item sections.
const SectionSeparator = "--------"

// Section is one dash-delimited block of the clipboard text.
// A Section is identified by its pointer; parsers must hand back the exact
// value they consumed.
type Section struct {
	// Lines are the trimmed non-empty lines of the block.
	Lines []string
	// Content is Lines joined with "\n".
	Content string
}

// NewSection builds a section from raw lines, dropping blank ones.
func NewSection(lines []string) *Section {
	var kept []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			kept = append(kept, l)
		}
	}
	return &Section{Lines: kept, Content: strings.Join(kept, "\n")}
}

// ExportedItem holds the sections not yet claimed by a parser.
type ExportedItem struct {
	Sections []*Section
}

// Split divides clipboard text into sections. Empty blocks are dropped.
func Split(text string) *ExportedItem {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	exported := &ExportedItem{}
	var block []string
	flush := func() {
		if s := NewSection(block); len(s.Lines) > 0 {
			exported.Sections = append(exported.Sections, s)
		}
		block = block[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == SectionSeparator {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()
	return exported
}

// Remove drops the given sections, comparing by identity.
func (e *ExportedItem) Remove(consumed ...*Section) {
	if len(consumed) == 0 {
		return
	}
	e.Sections = slices.DeleteFunc(e.Sections, func(s *Section) bool {
		return slices.Contains(consumed, s)
	})
}

// Find returns the first section satisfying fn.
func (e *ExportedItem) Find(fn func(*Section) bool) *Section {
	for _, s := range e.Sections {
		if fn(s) {
			return s
		}
	}
	return nil
}
