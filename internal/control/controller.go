// Package control runs the cooperative clock loop: poll the gamepad, turn
// button snapshots into machine input, apply edits to the RTC and keep the
// display in sync with the current state.
package control

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/gamepad-clock/internal/display"
	"github.com/sweeney/gamepad-clock/internal/gamepad"
	"github.com/sweeney/gamepad-clock/internal/logic"
	"github.com/sweeney/gamepad-clock/internal/rtc"
)

// Default loop timing in milliseconds.
const (
	DefaultRTCInterval   = 100
	DefaultRetryInterval = 1000
)

// EventSink receives clock events (state changes and edits).
type EventSink interface {
	Publish(event logic.Event) error
}

// Config holds loop timing, all in milliseconds. Zero values use defaults.
type Config struct {
	HoldDelay      uint32
	RepeatInterval uint32
	RTCInterval    uint32 // minimum time between routine RTC reads
	RetryInterval  uint32 // time between gamepad reconnect attempts
}

func (c Config) withDefaults() Config {
	if c.HoldDelay == 0 {
		c.HoldDelay = logic.DefaultHoldDelay
	}
	if c.RepeatInterval == 0 {
		c.RepeatInterval = logic.DefaultRepeatInterval
	}
	if c.RTCInterval == 0 {
		c.RTCInterval = DefaultRTCInterval
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	return c
}

// Counts tracks controller activity since startup.
type Counts struct {
	Presses    int
	Repeats    int
	Edits      int
	Discarded  int // edits rejected by the editor
	Reconnects int
}

// Controller owns the machine and input timer and drives the collaborators.
// It is not safe for concurrent use; Step is called from one loop.
type Controller struct {
	pad      gamepad.Pad
	clock    rtc.Clock
	renderer display.Renderer
	sink     EventSink
	now      func() time.Time
	cfg      Config

	timer   *logic.InputTimer
	machine *logic.Machine

	started   bool
	lastTick  uint32
	connected bool
	everUp    bool
	sinceTry  uint32
	sinceRead uint32
	dirty     bool
	wall      logic.WallClock
	counts    Counts
}

// New creates a Controller. The pad is assumed disconnected until the first
// Step connects it. sink may be nil; now is used only for event timestamps.
func New(pad gamepad.Pad, clock rtc.Clock, r display.Renderer, sink EventSink, cfg Config, now func() time.Time) *Controller {
	cfg = cfg.withDefaults()
	if now == nil {
		now = time.Now
	}
	return &Controller{
		pad:      pad,
		clock:    clock,
		renderer: r,
		sink:     sink,
		now:      now,
		cfg:      cfg,
		timer:    logic.NewInputTimer(cfg.HoldDelay, cfg.RepeatInterval),
		machine:  logic.NewMachine(),
	}
}

// Step runs one loop iteration at the given millisecond tick. The tick may
// wrap; only differences between successive ticks are used. A returned error
// means the RTC failed and the loop should stop.
func (c *Controller) Step(tick uint32) error {
	var elapsed uint32
	if c.started {
		elapsed = logic.Elapsed(tick, c.lastTick)
	} else {
		c.started = true
		c.dirty = true
		// Try the pad straight away on the first step.
		c.sinceTry = c.cfg.RetryInterval
	}
	c.lastTick = tick
	c.sinceRead = addSat(c.sinceRead, elapsed)

	if !c.connected {
		c.sinceTry = addSat(c.sinceTry, elapsed)
		if c.sinceTry >= c.cfg.RetryInterval {
			c.sinceTry = 0
			c.connect()
		}
	} else if err := c.poll(elapsed); err != nil {
		return err
	}

	if c.dirty || c.sinceRead >= c.cfg.RTCInterval {
		if err := c.read(); err != nil {
			return err
		}
		display.Apply(c.renderer, c.machine.Project(c.wall))
	}
	return nil
}

func (c *Controller) connect() {
	if err := c.pad.Connect(); err != nil {
		log.Printf("gamepad: connect: %v", err)
		return
	}
	c.connected = true
	if c.everUp {
		c.counts.Reconnects++
	}
	c.everUp = true
	c.timer.Reset()
	log.Printf("gamepad: connected")
}

func (c *Controller) poll(elapsed uint32) error {
	buttons, err := c.pad.Poll()
	if errors.Is(err, gamepad.ErrDisconnected) {
		log.Printf("gamepad: %v", err)
		c.connected = false
		c.sinceTry = 0
		c.timer.Reset()
		if err := c.pad.Close(); err != nil {
			log.Printf("gamepad: close: %v", err)
		}
		return nil
	}
	if err != nil {
		log.Printf("gamepad: poll: %v", err)
		return nil
	}

	for _, ev := range c.timer.Update(buttons, elapsed) {
		switch ev.Kind {
		case logic.EventPress:
			c.counts.Presses++
		case logic.EventRepeat:
			c.counts.Repeats++
		default:
			continue
		}
		if err := c.handle(ev.Input()); err != nil {
			return err
		}
	}
	return nil
}

// handle feeds one input to the machine. Edits get a fresh RTC reading;
// everything else works from the throttled one.
func (c *Controller) handle(in logic.Input) error {
	switch logic.Lookup(c.machine.State(), in.Symbol).Kind {
	case logic.ActionAdjust, logic.ActionRoundToMinute:
		if err := c.read(); err != nil {
			return err
		}
	}

	out := c.machine.Handle(in, c.wall)
	if out.Err != nil {
		c.counts.Discarded++
		log.Printf("control: %s in %s: edit discarded: %v", in.Symbol, c.machine.State(), out.Err)
		return nil
	}

	if out.Write != nil {
		if err := c.clock.Set(*out.Write); err != nil {
			return fmt.Errorf("write rtc: %w", err)
		}
		c.wall = *out.Write
		c.dirty = true
		c.counts.Edits++
		c.publish(logic.Event{
			Type:  logic.EventEdit,
			State: c.machine.State(),
			Field: out.Response.Field,
			Value: *out.Write,
		})
	}

	if out.StateChanged {
		c.publish(logic.Event{
			Type:  logic.EventStateChange,
			State: c.machine.State(),
			Value: c.wall,
		})
	}

	if out.Render != nil {
		display.Apply(c.renderer, *out.Render)
	}
	return nil
}

func (c *Controller) read() error {
	wc, err := c.clock.Get()
	if err != nil {
		return fmt.Errorf("read rtc: %w", err)
	}
	c.wall = wc
	c.sinceRead = 0
	c.dirty = false
	return nil
}

func (c *Controller) publish(ev logic.Event) {
	if c.sink == nil {
		return
	}
	ev.Timestamp = c.now()
	if err := c.sink.Publish(ev); err != nil {
		log.Printf("control: publish %s event: %v", ev.Type, err)
	}
}

// State returns the machine state.
func (c *Controller) State() logic.State {
	return c.machine.State()
}

// Wall returns the most recent RTC reading.
func (c *Controller) Wall() logic.WallClock {
	return c.wall
}

// Connected reports whether the gamepad is connected.
func (c *Controller) Connected() bool {
	return c.connected
}

// Counts returns activity counters.
func (c *Controller) Counts() Counts {
	return c.counts
}

func addSat(a, b uint32) uint32 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint32(0)
}
