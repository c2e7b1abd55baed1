package display

import (
	"strings"
	"sync"
)

// Default panel geometry. The digit row fits a full "YYYY-MM-DD HH:MM:SS".
const (
	DefaultDigitCols   = 19
	DefaultMessageCols = 20
)

// Glyph ranges. The message font covers printable ASCII plus DEL, which is
// drawn as an up/down arrow.
const (
	asciiSpace = 0x20
	asciiDel   = 0x7f
)

// Frame is a point-in-time copy of the panel contents.
type Frame struct {
	Digits   string
	Top      string
	Bottom   string
	Revision uint64 // incremented on every visible change
}

// Panel is an in-memory model of the display. Text is mapped to the glyph
// sets and padded to the fixed column counts; setting the same text again
// is a no-op. Safe for concurrent readers.
type Panel struct {
	mu          sync.RWMutex
	digitCols   int
	messageCols int
	frame       Frame
}

// NewPanel creates a blank panel. Non-positive sizes use the defaults.
func NewPanel(digitCols, messageCols int) *Panel {
	if digitCols <= 0 {
		digitCols = DefaultDigitCols
	}
	if messageCols <= 0 {
		messageCols = DefaultMessageCols
	}
	return &Panel{
		digitCols:   digitCols,
		messageCols: messageCols,
		frame: Frame{
			Digits: strings.Repeat(" ", digitCols),
			Top:    strings.Repeat(" ", messageCols),
			Bottom: strings.Repeat(" ", messageCols),
		},
	}
}

// SetDigits shows text on the digit display. Characters outside
// "0123456789:-" are drawn blank.
func (p *Panel) SetDigits(text string) {
	g := fit(text, p.digitCols, digitGlyph)

	p.mu.Lock()
	defer p.mu.Unlock()
	if g == p.frame.Digits {
		return
	}
	p.frame.Digits = g
	p.frame.Revision++
}

// SetMessage shows text on one message line. Bytes outside 0x20..0x7f are
// replaced with '?'.
func (p *Panel) SetMessage(text string, line Line) {
	g := fit(text, p.messageCols, messageGlyph)

	p.mu.Lock()
	defer p.mu.Unlock()
	dst := &p.frame.Top
	if line == LineBottom {
		dst = &p.frame.Bottom
	}
	if g == *dst {
		return
	}
	*dst = g
	p.frame.Revision++
}

// Snapshot returns the current contents.
func (p *Panel) Snapshot() Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame
}

// fit maps each byte of text through glyph, truncates to cols and pads with
// spaces on the right.
func fit(text string, cols int, glyph func(byte) byte) string {
	b := make([]byte, cols)
	for i := range b {
		if i < len(text) {
			b[i] = glyph(text[i])
		} else {
			b[i] = ' '
		}
	}
	return string(b)
}

func digitGlyph(c byte) byte {
	if (c >= '0' && c <= '9') || c == ':' || c == '-' {
		return c
	}
	return ' '
}

func messageGlyph(c byte) byte {
	if c < asciiSpace || c > asciiDel {
		return '?'
	}
	return c
}
