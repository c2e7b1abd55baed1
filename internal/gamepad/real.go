//go:build linux

package gamepad

import (
	"fmt"
	"sort"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// RealPad reads buttons wired to GPIO lines, active low with pull-ups.
type RealPad struct {
	chipName string
	buttons  []logic.Buttons
	offsets  []int
	values   []int
	lines    *gpiocdev.Lines
}

// NewRealPad creates a pad on the named chip. Nothing is opened until Connect.
func NewRealPad(chipName string, pins PinMap) *RealPad {
	p := &RealPad{chipName: chipName}
	for b := range pins {
		p.buttons = append(p.buttons, b)
	}
	sort.Slice(p.buttons, func(i, j int) bool { return p.buttons[i] < p.buttons[j] })
	for _, b := range p.buttons {
		p.offsets = append(p.offsets, pins[b])
	}
	p.values = make([]int, len(p.offsets))
	return p
}

// Connect requests all button lines as inputs.
func (p *RealPad) Connect() error {
	if p.lines != nil {
		return nil
	}

	lines, err := gpiocdev.RequestLines(p.chipName, p.offsets,
		gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow,
		gpiocdev.WithConsumer("gamepad-clock"))
	if err != nil {
		return fmt.Errorf("request button lines on %s: %w", p.chipName, err)
	}
	p.lines = lines
	return nil
}

// Poll returns the pressed set. Any line error drops the request and is
// reported as ErrDisconnected.
func (p *RealPad) Poll() (logic.Buttons, error) {
	if p.lines == nil {
		return 0, ErrDisconnected
	}

	if err := p.lines.Values(p.values); err != nil {
		p.lines.Close()
		p.lines = nil
		return 0, fmt.Errorf("%w: read lines: %v", ErrDisconnected, err)
	}

	// Lines are active low, so 1 already means pressed.
	var pressed logic.Buttons
	for i, v := range p.values {
		if v == 1 {
			pressed |= p.buttons[i]
		}
	}
	return pressed, nil
}

// Close releases the lines. Pull-ups are left configured so idle buttons
// read released until the next request.
func (p *RealPad) Close() error {
	if p.lines == nil {
		return nil
	}
	err := p.lines.Close()
	p.lines = nil
	if err != nil {
		return fmt.Errorf("close button lines: %w", err)
	}
	return nil
}
