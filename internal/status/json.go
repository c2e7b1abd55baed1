package status

import (
	"encoding/json"
	"strings"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	State         string       `json:"state"`
	Clock         string       `json:"clock"`
	ClockValid    bool         `json:"clock_valid"`
	Display       DisplayJSON  `json:"display"`
	Gamepad       GamepadJSON  `json:"gamepad"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// DisplayJSON is the text currently shown, right padding trimmed.
type DisplayJSON struct {
	Digits string `json:"digits"`
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
}

// GamepadJSON reports the input device.
type GamepadJSON struct {
	Connected bool   `json:"connected"`
	Source    string `json:"source"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of controller counters.
type CountsJSON struct {
	Presses    int `json:"presses"`
	Repeats    int `json:"repeats"`
	Edits      int `json:"edits"`
	Discarded  int `json:"discarded_edits"`
	Reconnects int `json:"reconnects"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HoldMs      int64  `json:"hold_ms"`
	RepeatMs    int64  `json:"repeat_ms"`
	RTCMs       int64  `json:"rtc_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Clock       string `json:"clock"`
	Display     string `json:"display"`
}

func buildInner(snap Snapshot) StatusInner {
	// 0x7F is the arrow glyph on the panel; JSON consumers get a caret.
	text := func(s string) string {
		return strings.ReplaceAll(strings.TrimRight(s, " "), "\x7f", "^")
	}

	inner := StatusInner{
		State:      snap.State.String(),
		Clock:      snap.Wall.String(),
		ClockValid: snap.Wall.Valid(),
		Display: DisplayJSON{
			Digits: text(snap.Frame.Digits),
			Top:    text(snap.Frame.Top),
			Bottom: text(snap.Frame.Bottom),
		},
		Gamepad:       GamepadJSON{Connected: snap.PadConnected, Source: snap.Config.Pad},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Presses:    snap.Counts.Presses,
			Repeats:    snap.Counts.Repeats,
			Edits:      snap.Counts.Edits,
			Discarded:  snap.Counts.Discarded,
			Reconnects: snap.Counts.Reconnects,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HoldMs:      snap.Config.HoldMs,
			RepeatMs:    snap.Config.RepeatMs,
			RTCMs:       snap.Config.RTCMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Clock:       snap.Config.Clock,
			Display:     snap.Config.Display,
		},
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
