// Package status provides a thread-safe status tracker for the gamepad-clock daemon.
// It is read by the HTTP handlers and by the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/gamepad-clock/internal/control"
	"github.com/sweeney/gamepad-clock/internal/display"
	"github.com/sweeney/gamepad-clock/internal/logic"
)

// NetworkInfo contains network state as reported by the host helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HoldMs      int64
	RepeatMs    int64
	RTCMs       int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Pad         string // "gpio" or "keyboard"
	Clock       string // "pcf8523" or "system"
	Display     string // renderers in use, e.g. "oled+terminal"
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	Wall          logic.WallClock
	Frame         display.Frame
	PadConnected  bool
	Counts        control.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the clock state. Called from runLoop on every tick.
func (t *Tracker) Update(state logic.State, wall logic.WallClock, padConnected bool, counts control.Counts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Wall = wall
	t.snap.PadConnected = padConnected
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetFrame records what the display currently shows.
func (t *Tracker) SetFrame(f display.Frame) {
	t.mu.Lock()
	t.snap.Frame = f
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
