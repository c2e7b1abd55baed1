package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/gamepad-clock/internal/control"
	"github.com/sweeney/gamepad-clock/internal/display"
	"github.com/sweeney/gamepad-clock/internal/logic"
	"github.com/sweeney/gamepad-clock/internal/status"
)

var noon = logic.WallClock{Year: 2026, Month: 1, Day: 1, Hour: 12, Minute: 0, Second: 0}

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:      2,
		HoldMs:      900,
		RepeatMs:    300,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":80",
		Pad:         "gpio",
		Clock:       "pcf8523",
		Display:     "oled",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateDateTime, noon, true, control.Counts{Presses: 5, Edits: 2})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.State != "DATETIME" {
		t.Errorf("State: got %q, want DATETIME", sj.Status.State)
	}
	if sj.Status.Clock != "2026-01-01 12:00:00" {
		t.Errorf("Clock: got %q", sj.Status.Clock)
	}
	if !sj.Status.Gamepad.Connected {
		t.Error("expected Gamepad.Connected=true")
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.Presses != 5 || sj.Status.Counts.Edits != 2 {
		t.Errorf("Counts: got %+v", sj.Status.Counts)
	}
	if sj.Status.Config.HoldMs != 900 {
		t.Errorf("Config.HoldMs: got %d, want 900", sj.Status.Config.HoldMs)
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{
		Type:   "wifi",
		IP:     "192.168.1.42",
		Status: "connected",
		SSID:   "MyNet",
	})

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateEditMinute, noon, true, control.Counts{})
	tr.SetFrame(display.Frame{
		Digits: "12:00:00",
		Top:    "   SET    MINUTES",
		Bottom: logic.HelpAdjust,
	})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	for _, want := range []string{"12:00:00", "SET    MINUTES", "↕:", "B:Exit", "SET_MINUTE", "pcf8523"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "\x7f") {
		t.Error("page contains raw DEL glyph")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	sj1 := getJSON(t, ts.URL+"/index.json")
	if sj1.Status.Gamepad.Connected {
		t.Error("expected gamepad disconnected initially")
	}
	if sj1.Status.State != "TIME" {
		t.Errorf("State: got %q, want TIME", sj1.Status.State)
	}

	tr.Update(logic.StateDemo, noon, true, control.Counts{Presses: 1})
	tr.SetFrame(display.Frame{Digits: "88:88:88", Top: "      DEMO", Bottom: "B:Exit"})
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL+"/index.json")
	if sj2.Status.State != "DEMO" {
		t.Errorf("State: got %q, want DEMO", sj2.Status.State)
	}
	if sj2.Status.Display.Digits != "88:88:88" {
		t.Errorf("Display.Digits: got %q", sj2.Status.Display.Digits)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
