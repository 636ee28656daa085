package console

import (
	"os"
	"strings"
	"time"

	"github.com/xeonx/timeago"
)

// FormatTime renders t relative to now, e.g. "3 days ago".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return timeago.English.Format(t)
}

// Rule returns a horizontal line as wide as the terminal on stdout, capped at 120 columns.
// Output that is not a terminal gets 40 columns.
func Rule() string {
	width := Width(os.Stdout)
	switch {
	case width == 0:
		width = 40
	case width > 120:
		width = 120
	}
	return strings.Repeat("─", width)
}
