package ui

import (
	"fmt"
	"strings"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolSkip    = "–"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol
func Error(msg string) string {
	return fmt.Sprintf("%s %s", SymbolError, msg)
}

// Errorf returns a formatted error message with X symbol
func Errorf(format string, args ...interface{}) string {
	return Error(fmt.Sprintf(format, args...))
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

// Warningf returns a formatted warning message with warning symbol
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Skipped returns a muted message for documents that were not checked.
func Skipped(msg string) string {
	return render(Muted, fmt.Sprintf("%s %s", SymbolSkip, msg))
}

// Info returns an info message with info symbol
func Info(msg string) string {
	return fmt.Sprintf("%s %s", SymbolInfo, msg)
}

// Header returns a styled section header
func Header(msg string) string {
	return render(Bold, msg)
}

// FilePath returns an accent-styled file path
func FilePath(path string) string {
	return render(Accent, path)
}

// Location returns "path:line" with the line muted. Lines below 1 are
// omitted.
func Location(path string, line int) string {
	if line < 1 {
		return FilePath(path)
	}
	return FilePath(path) + render(Muted, ":") + LineNum(line)
}

// Kind returns an accent-styled anomaly or error kind.
func Kind(kind string) string {
	return render(AccentBold, kind)
}

// LineNum returns a muted line number
func LineNum(n int) string {
	return render(Muted, fmt.Sprintf("%d", n))
}

// Hint returns muted hint text
func Hint(msg string) string {
	return render(Muted, msg)
}

// Count returns a styled count badge (e.g., "(3 files)")
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}

// Tally joins non-zero counts, e.g. "(2 fixable, 1 unsupported)". Names
// are used as given; zero counts are dropped.
func Tally(counts ...TallyItem) string {
	var parts []string
	for _, c := range counts {
		if c.N > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.N, c.Name))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TallyItem is one entry of Tally.
type TallyItem struct {
	N    int
	Name string
}

// Plural returns singular or plural form based on count
func Plural(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
