package stats

import "strings"

// Entry is one input text still open for matching.
type Entry struct {
	// Index is the position of the text in the original input.
	Index int
	// Text is what is left after earlier matches were cut out.
	Text string
	// Original is the text as it was given, with CRLF line endings
	// turned into LF.
	Original string

	// offsets maps each byte of Text to its position in Original.
	// nil while nothing has been cut out.
	offsets []int
}

// Offset returns the position in Original of byte pos of Text.
func (e Entry) Offset(pos int) int {
	if e.offsets == nil {
		return pos
	}
	if pos < len(e.offsets) {
		return e.offsets[pos]
	}
	return len(e.Original)
}

// Worklist is the pool of texts a search consumes.
type Worklist []Entry

// NewWorklist wraps texts, dropping whitespace-only ones.
func NewWorklist(texts []string) Worklist {
	wl := make(Worklist, 0, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		t = strings.ReplaceAll(t, "\r\n", "\n")
		wl = append(wl, Entry{Index: i, Text: t, Original: t})
	}
	return wl
}

// Consume returns a new worklist where entry i lost text[start:end] and
// the newline following it. An entry left with only whitespace is dropped.
// wl itself is not modified.
func Consume(wl Worklist, i, start, end int) Worklist {
	text := wl[i].Text
	if end < len(text) && text[end] == '\n' {
		end++
	}
	rest := text[:start] + text[end:]

	out := make(Worklist, 0, len(wl))
	out = append(out, wl[:i]...)
	if strings.TrimSpace(rest) != "" {
		e := wl[i]
		offsets := e.offsets
		if offsets == nil {
			offsets = make([]int, len(text))
			for p := range offsets {
				offsets[p] = p
			}
		}
		e.Text = rest
		e.offsets = append(offsets[:start:start], offsets[end:]...)
		out = append(out, e)
	}
	return append(out, wl[i+1:]...)
}

// Texts returns the remaining texts in order.
func (wl Worklist) Texts() []string {
	out := make([]string, len(wl))
	for i, e := range wl {
		out[i] = e.Text
	}
	return out
}
