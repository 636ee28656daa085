package console

import (
	"os"

	"github.com/moby/term"
)

// Width returns the column count of the terminal behind f, or 0 when f is not a terminal.
func Width(f *os.File) int {
	fd := f.Fd()
	if !term.IsTerminal(fd) {
		return 0
	}
	ws, err := term.GetWinsize(fd)
	if err != nil {
		return 0
	}
	return int(ws.Width)
}
