package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal draws the panel as text. On an interactive terminal it repaints a
// three-row box in place; otherwise it writes one log-style line per change.
type Terminal struct {
	w     io.Writer
	panel *Panel
	ansi  bool
	drawn uint64
}

// NewTerminal creates a terminal renderer writing to w. ANSI repainting is
// used only when w is a terminal.
func NewTerminal(w io.Writer) *Terminal {
	ansi := false
	if f, ok := w.(*os.File); ok {
		ansi = term.IsTerminal(int(f.Fd()))
	}
	return &Terminal{
		w:     w,
		panel: NewPanel(DefaultDigitCols, DefaultMessageCols),
		ansi:  ansi,
	}
}

// SetDigits updates the digit row.
func (t *Terminal) SetDigits(text string) {
	t.panel.SetDigits(text)
	t.flush()
}

// SetMessage updates one message row.
func (t *Terminal) SetMessage(text string, line Line) {
	t.panel.SetMessage(text, line)
	t.flush()
}

// Frame returns what the terminal currently shows.
func (t *Terminal) Frame() Frame {
	return t.panel.Snapshot()
}

func (t *Terminal) flush() {
	f := t.panel.Snapshot()
	if f.Revision == t.drawn {
		return
	}
	t.drawn = f.Revision

	top := printable(f.Top)
	bottom := printable(f.Bottom)

	if !t.ansi {
		fmt.Fprintf(t.w, "display: [%s] [%s] [%s]\n",
			f.Digits, strings.TrimRight(top, " "), strings.TrimRight(bottom, " "))
		return
	}

	// Cursor home, clear screen, then the box.
	width := DefaultMessageCols
	if len(f.Digits) > width {
		width = len(f.Digits)
	}
	rule := "+" + strings.Repeat("-", width+2) + "+"
	row := func(s string) string {
		return fmt.Sprintf("| %-*s |", width, s)
	}
	fmt.Fprintf(t.w, "\x1b[H\x1b[2J%s\r\n%s\r\n%s\r\n%s\r\n%s\r\n",
		rule, row(top), row(f.Digits), row(bottom), rule)
}

// printable replaces the arrow glyph with a caret for plain-text output.
func printable(s string) string {
	return strings.ReplaceAll(s, "\x7f", "^")
}
