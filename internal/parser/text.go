package parser

import "strings"

// Text is a document split into lines, plus the terminator of every line so
// it can be joined back byte-for-byte.
type Text struct {
	Lines []string
	// Endings[i] terminates Lines[i]: "\n", "\r\n", or "" for a last line
	// without a final newline.
	Endings []string
	// LineEnding is taken from the first line break. New lines that have no
	// neighbour to copy from use it.
	LineEnding      string
	TrailingNewline bool
}

// Splice records that Removed lines at Start were replaced by Inserted
// lines. The zero value means no line moved.
type Splice struct {
	Start    int
	Removed  int
	Inserted int
}

// SplitLines splits content on "\n". A "\r" before the break is moved from
// the line into its ending.
func SplitLines(content string) *Text {
	t := &Text{LineEnding: "\n"}
	if content == "" {
		return t
	}

	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		t.LineEnding = "\r\n"
	}

	parts := strings.Split(content, "\n")
	if parts[len(parts)-1] == "" {
		t.TrailingNewline = true
		parts = parts[:len(parts)-1]
	}

	t.Endings = make([]string, len(parts))
	for i, p := range parts {
		ending := "\n"
		if i == len(parts)-1 && !t.TrailingNewline {
			ending = ""
		}
		if strings.HasSuffix(p, "\r") {
			p = p[:len(p)-1]
			ending = "\r" + ending
		}
		parts[i] = p
		t.Endings[i] = ending
	}
	t.Lines = parts
	return t
}

// Join renders lines, which are t.Lines changed by sp. Unchanged lines keep
// their own ending; inserted lines copy the ending of the line they replace.
func (t *Text) Join(lines []string, sp Splice) string {
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		b.WriteString(t.endingFor(i, len(lines), sp))
	}
	return b.String()
}

// String renders t's own lines.
func (t *Text) String() string {
	return t.Join(t.Lines, Splice{})
}

func (t *Text) endingFor(i, n int, sp Splice) string {
	switch {
	case i < sp.Start:
		return t.original(i, i == n-1)
	case i >= sp.Start+sp.Inserted:
		return t.original(i-sp.Inserted+sp.Removed, i == n-1)
	}

	var src int
	switch {
	case sp.Removed == 0:
		src = sp.Start - 1
	case i == sp.Start+sp.Inserted-1:
		src = sp.Start + sp.Removed - 1
	default:
		src = sp.Start + min(i-sp.Start, sp.Removed-1)
	}
	ending := t.original(src, i == n-1)
	if i < n-1 && !strings.HasSuffix(ending, "\n") {
		ending = t.LineEnding
	}
	return ending
}

// original returns the ending of input line i, or the document default when
// i does not exist.
func (t *Text) original(i int, last bool) string {
	if i >= 0 && i < len(t.Endings) {
		return t.Endings[i]
	}
	if last && !t.TrailingNewline {
		return ""
	}
	return t.LineEnding
}
