package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableAlignsColumns(t *testing.T) {
	table := NewTable(2)
	table.AddRow("checked", "3")
	table.AddRow("fixable", "12")

	assert.Equal(t, "checked  3\nfixable  12\n", table.String())
	assert.Equal(t, "", NewTable(1).String())
}

func TestTally(t *testing.T) {
	got := Tally(TallyItem{2, "fixable"}, TallyItem{0, "skipped"}, TallyItem{1, "unsupported"})
	assert.Equal(t, "(2 fixable, 1 unsupported)", got)
	assert.Equal(t, "", Tally(TallyItem{0, "fixable"}))
}

func TestLocation(t *testing.T) {
	orig := ColorEnabled()
	t.Cleanup(func() { SetColor(orig) })
	SetColor(false)

	assert.Equal(t, "a.prefab:7", Location("a.prefab", 7))
	assert.Equal(t, "a.prefab", Location("a.prefab", 0))
}

func TestDisplayFit(t *testing.T) {
	d := NewDisplayContextWithWidth(20)
	long := strings.Repeat("x", 40)

	fitted := d.Fit(long, 2)
	assert.LessOrEqual(t, len([]rune(fitted)), 18)
	assert.True(t, strings.HasSuffix(fitted, "…"))
	assert.Equal(t, "short", d.Fit("short", 2))

	pipe := &DisplayContext{TermWidth: 20}
	assert.Equal(t, long, pipe.Fit(long, 2))
}
