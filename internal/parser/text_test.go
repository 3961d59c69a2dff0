package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		lines    []string
		endings  []string
		ending   string
		trailing bool
	}{
		{name: "lf with final newline", content: "a\nb\n", lines: []string{"a", "b"}, endings: []string{"\n", "\n"}, ending: "\n", trailing: true},
		{name: "lf without final newline", content: "a\nb", lines: []string{"a", "b"}, endings: []string{"\n", ""}, ending: "\n"},
		{name: "crlf", content: "a\r\nb\r\n", lines: []string{"a", "b"}, endings: []string{"\r\n", "\r\n"}, ending: "\r\n", trailing: true},
		{name: "mixed", content: "a\nb\r\nc\n", lines: []string{"a", "b", "c"}, endings: []string{"\n", "\r\n", "\n"}, ending: "\n", trailing: true},
		{name: "blank lines kept", content: "a\n\nb\n", lines: []string{"a", "", "b"}, endings: []string{"\n", "\n", "\n"}, ending: "\n", trailing: true},
		{name: "stray cr at end", content: "a\nb\r", lines: []string{"a", "b"}, endings: []string{"\n", "\r"}, ending: "\n"},
		{name: "empty", content: "", lines: nil, endings: nil, ending: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := SplitLines(tt.content)
			assert.Equal(t, tt.lines, text.Lines)
			assert.Equal(t, tt.endings, text.Endings)
			assert.Equal(t, tt.ending, text.LineEnding)
			assert.Equal(t, tt.trailing, text.TrailingNewline)
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, content := range []string{"a\nb\n", "a\nb", "a\r\nb\r\n", "x\n\n", "a\nb\r\nc", "a\r\nb\n\r\n", "a\nb\r"} {
		assert.Equal(t, content, SplitLines(content).String())
	}
}

func TestTextJoin(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lines   []string
		splice  Splice
		want    string
	}{
		{
			name:    "in-place edit keeps mixed endings",
			content: "a\nb\r\nc\n",
			lines:   []string{"a", "B", "c"},
			want:    "a\nB\r\nc\n",
		},
		{
			name:    "grown block copies replaced endings",
			content: "a\n  x\r\nz\n",
			lines:   []string{"a", "  x", "  y", "z"},
			splice:  Splice{Start: 1, Removed: 1, Inserted: 2},
			want:    "a\n  x\r\n  y\r\nz\n",
		},
		{
			name:    "shrunk block keeps lines after it",
			content: "a\r\n  x\n  y\r\n  w\n z\r\n",
			lines:   []string{"a", "  v", " z"},
			splice:  Splice{Start: 1, Removed: 3, Inserted: 1},
			want:    "a\r\n  v\n z\r\n",
		},
		{
			name:    "block at end without final newline",
			content: "a\n  x",
			lines:   []string{"a", "  x", "  y"},
			splice:  Splice{Start: 1, Removed: 1, Inserted: 2},
			want:    "a\n  x\n  y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.content).Join(tt.lines, tt.splice))
		})
	}
}
