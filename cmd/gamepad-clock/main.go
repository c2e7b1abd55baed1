// Command gamepad-clock runs a digital clock set from a gamepad: buttons on
// GPIO lines drive a menu of views and editors, the time lives in a PCF8523
// RTC, and the display is an SSD1306 OLED and/or the terminal. Clock events
// and lifecycle events are published to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sweeney/gamepad-clock/internal/control"
	"github.com/sweeney/gamepad-clock/internal/display"
	"github.com/sweeney/gamepad-clock/internal/gamepad"
	"github.com/sweeney/gamepad-clock/internal/logic"
	"github.com/sweeney/gamepad-clock/internal/mqtt"
	"github.com/sweeney/gamepad-clock/internal/rtc"
	"github.com/sweeney/gamepad-clock/internal/sim"
	"github.com/sweeney/gamepad-clock/internal/status"
	"github.com/sweeney/gamepad-clock/internal/web"
)

// envPrefix is prepended to flag names for environment overrides, e.g.
// GAMEPAD_CLOCK_BROKER.
const envPrefix = "GAMEPAD_CLOCK"

// wallLayout is the accepted format for set-time.
const wallLayout = "2006-01-02 15:04:05"

type config struct {
	poll        time.Duration
	hold        time.Duration
	repeat      time.Duration
	rtcInterval time.Duration
	retry       time.Duration
	heartbeat   time.Duration
	broker      string
	clientID    string
	httpAddr    string
	pad         string
	gpioChip    string
	clock       string
	i2cBus      string
	displays    string
	window      bool
}

func main() {
	var cfg config
	if err := newRootCommand(&cfg, os.Stdout).ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("fatal: %v", err)
	}
}

func newRootCommand(cfg *config, stdout io.Writer) *ffcli.Command {
	fs := flag.NewFlagSet("gamepad-clock", flag.ContinueOnError)
	fs.DurationVar(&cfg.poll, "poll", 2*time.Millisecond, "Gamepad polling interval")
	fs.DurationVar(&cfg.hold, "hold", logic.DefaultHoldDelay*time.Millisecond, "Hold time before UP/DOWN start repeating")
	fs.DurationVar(&cfg.repeat, "repeat", logic.DefaultRepeatInterval*time.Millisecond, "Interval between hold repeats")
	fs.DurationVar(&cfg.rtcInterval, "rtc-interval", control.DefaultRTCInterval*time.Millisecond, "Minimum interval between routine RTC reads")
	fs.DurationVar(&cfg.retry, "retry", control.DefaultRetryInterval*time.Millisecond, "Gamepad reconnect interval")
	fs.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	fs.StringVar(&cfg.broker, "broker", "tcp://localhost:1883", "MQTT broker address (empty to disable)")
	fs.StringVar(&cfg.clientID, "client-id", "gamepad-clock", "MQTT client ID")
	fs.StringVar(&cfg.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	fs.StringVar(&cfg.pad, "pad", "gpio", `Button source: "gpio" or "keyboard"`)
	fs.StringVar(&cfg.gpioChip, "gpio-chip", gamepad.DefaultChip, "GPIO chip the buttons are wired to")
	fs.StringVar(&cfg.clock, "clock", "pcf8523", `Time source: "pcf8523" or "system"`)
	fs.StringVar(&cfg.i2cBus, "i2c-bus", "", "I2C bus for the RTC and OLED (empty for the first bus)")
	fs.StringVar(&cfg.displays, "display", "oled,terminal", `Comma-separated renderers: "oled", "terminal", "none"`)
	fs.BoolVar(&cfg.window, "window", false, "Run the desktop simulator (keyboard pad, system clock, window display)")
	fs.String("config", "", "Config file (one \"flag value\" per line)")

	return &ffcli.Command{
		Name:       "gamepad-clock",
		ShortUsage: "gamepad-clock [flags] [<subcommand>]",
		ShortHelp:  "Run the gamepad clock",
		LongHelp:   "Flags may also be set as " + envPrefix + "_<FLAG> environment variables or in the --config file.\n\n" + keyHelp(),
		FlagSet:    fs,
		Options: []ff.Option{
			ff.WithEnvVarPrefix(envPrefix),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
			ff.WithAllowMissingConfigFile(true),
		},
		Subcommands: []*ffcli.Command{newTimeCommand(stdout), newSetTimeCommand()},
		Exec: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			cfg.applyWindow()
			return run(*cfg)
		},
	}
}

// applyWindow swaps the hardware collaborators for their desktop stand-ins.
func (c *config) applyWindow() {
	if !c.window {
		return
	}
	c.pad = "keyboard"
	c.clock = "system"
	c.displays = "none"
}

// clockFlags registers the flags that select the RTC.
func clockFlags(fs *flag.FlagSet) (name, bus *string) {
	name = fs.String("clock", "pcf8523", `Time source: "pcf8523" or "system"`)
	bus = fs.String("i2c-bus", "", "I2C bus for the RTC (empty for the first bus)")
	return name, bus
}

func newTimeCommand(w io.Writer) *ffcli.Command {
	fs := flag.NewFlagSet("gamepad-clock time", flag.ContinueOnError)
	name, bus := clockFlags(fs)
	return &ffcli.Command{
		Name:       "time",
		ShortUsage: "gamepad-clock time [flags]",
		ShortHelp:  "Print the RTC time and exit",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(_ context.Context, _ []string) error {
			clock, closeClock, err := openClock(*name, *bus)
			if err != nil {
				return err
			}
			defer closeClock()
			return printTime(clock, w)
		},
	}
}

func newSetTimeCommand() *ffcli.Command {
	fs := flag.NewFlagSet("gamepad-clock set-time", flag.ContinueOnError)
	name, bus := clockFlags(fs)
	return &ffcli.Command{
		Name:       "set-time",
		ShortUsage: `gamepad-clock set-time [flags] "YYYY-MM-DD HH:MM:SS" | now`,
		ShortHelp:  "Set the RTC (UTC) and exit",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("set-time takes exactly one argument")
			}
			if *name == "system" {
				return errors.New("set-time: the system clock offset does not persist; use --clock pcf8523")
			}
			wc, err := parseWallClock(args[0], time.Now)
			if err != nil {
				return err
			}
			clock, closeClock, err := openClock(*name, *bus)
			if err != nil {
				return err
			}
			defer closeClock()
			if err := clock.Set(wc); err != nil {
				return err
			}
			log.Printf("rtc set to %s", wc)
			return nil
		},
	}
}

// parseWallClock accepts wallLayout (UTC) or "now".
func parseWallClock(s string, now func() time.Time) (logic.WallClock, error) {
	var wc logic.WallClock
	if s == "now" {
		wc = logic.FromTime(now().UTC())
	} else {
		t, err := time.Parse(wallLayout, s)
		if err != nil {
			return wc, fmt.Errorf("parse time %q: %w", s, err)
		}
		wc = logic.FromTime(t)
	}
	if !wc.Valid() {
		return wc, fmt.Errorf("time %s: %w", wc, logic.ErrOutOfRange)
	}
	return wc, nil
}

func printTime(clock rtc.Clock, w io.Writer) error {
	wc, err := clock.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", wc, wc.Weekday())
	return nil
}

func openClock(name, bus string) (rtc.Clock, func() error, error) {
	switch name {
	case "pcf8523":
		c, err := rtc.OpenPCF8523(bus)
		if err != nil {
			return nil, nil, fmt.Errorf("init rtc: %w", err)
		}
		return c, c.Close, nil
	case "system":
		return rtc.NewSystemClock(nil), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown clock %q", name)
}

func keyHelp() string {
	var b strings.Builder
	b.WriteString("Simulator keys (--window):\n")
	for _, kb := range sim.KeyBinding {
		fmt.Fprintf(&b, "  %-6s %s\n", kb.Key, logic.SymbolFor(kb.Button))
	}
	b.WriteString("  Z+X    AB\n  Esc    quit")
	return b.String()
}

func run(cfg config) error {
	clock, closeClock, err := openClock(cfg.clock, cfg.i2cBus)
	if err != nil {
		return err
	}
	defer closeClock()

	// The panel is always present: it feeds the status page and the window.
	panel := display.NewPanel(0, 0)
	renderers := display.Multi{panel}
	var names []string
	for _, name := range strings.Split(cfg.displays, ",") {
		switch name = strings.TrimSpace(name); name {
		case "", "none":
			continue
		case "oled":
			oled, err := display.OpenOLED(cfg.i2cBus)
			if err != nil {
				return fmt.Errorf("init oled: %w", err)
			}
			defer oled.Close()
			renderers = append(renderers, oled)
		case "terminal":
			renderers = append(renderers, display.NewTerminal(os.Stdout))
		default:
			return fmt.Errorf("unknown display %q", name)
		}
		names = append(names, name)
	}
	if cfg.window {
		names = append(names, "window")
	}

	var pad gamepad.Pad
	var keys *sim.KeyboardPad
	switch cfg.pad {
	case "gpio":
		pad = gamepad.NewRealPad(cfg.gpioChip, gamepad.DefaultPins)
	case "keyboard":
		keys = sim.NewKeyboardPad()
		pad = keys
	default:
		return fmt.Errorf("unknown pad %q", cfg.pad)
	}
	defer pad.Close()

	var publisher mqtt.Publisher = discardPublisher{}
	var mqttStatus mqtt.ConnectionStatus
	if cfg.broker != "" {
		p := mqtt.NewRealPublisher(cfg.broker, cfg.clientID)
		defer p.Close()
		publisher = p
		mqttStatus = p
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	startTime := time.Now()
	tracker := status.NewTracker(startTime, status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		HoldMs:      cfg.hold.Milliseconds(),
		RepeatMs:    cfg.repeat.Milliseconds(),
		RTCMs:       cfg.rtcInterval.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		Pad:         cfg.pad,
		Clock:       cfg.clock,
		Display:     strings.Join(names, "+"),
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	ctrl := control.New(pad, clock, renderers, publisher, control.Config{
		HoldDelay:      uint32(cfg.hold.Milliseconds()),
		RepeatInterval: uint32(cfg.repeat.Milliseconds()),
		RTCInterval:    uint32(cfg.rtcInterval.Milliseconds()),
		RetryInterval:  uint32(cfg.retry.Milliseconds()),
	}, time.Now)

	d := newDaemon(ctrl, panel, publisher, mqttStatus, tracker, cfg.heartbeat, time.Now)

	log.Printf("started: poll=%v hold=%v repeat=%v clock=%s pad=%s display=%s broker=%q heartbeat=%v",
		cfg.poll, cfg.hold, cfg.repeat, cfg.clock, cfg.pad, strings.Join(names, "+"), cfg.broker, cfg.heartbeat)

	if cfg.window {
		err := sim.RunWindow(keys, panel, d.step)
		reason := "WINDOW_CLOSED"
		if err != nil {
			reason = "ERROR"
		}
		d.shutdown(reason)
		return err
	}

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(d, startTime, ticker.C, sigCh)
}

// daemon ties one controller step to the status tracker and lifecycle events.
type daemon struct {
	ctrl       *control.Controller
	panel      *display.Panel
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  *logic.Heartbeat
	interval   time.Duration
	now        func() time.Time
}

func newDaemon(ctrl *control.Controller, panel *display.Panel, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time) *daemon {
	return &daemon{
		ctrl:       ctrl,
		panel:      panel,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		heartbeat:  logic.NewHeartbeat(now()),
		interval:   heartbeat,
		now:        now,
	}
}

func (d *daemon) refresh() {
	d.tracker.Update(d.ctrl.State(), d.ctrl.Wall(), d.ctrl.Connected(), d.ctrl.Counts())
	d.tracker.SetFrame(d.panel.Snapshot())
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
}

// step runs one controller iteration and any heartbeat that is due.
func (d *daemon) step(tick uint32) error {
	if err := d.ctrl.Step(tick); err != nil {
		return err
	}
	d.refresh()

	hb := d.heartbeat.Check(d.now(), d.interval)
	if hb == nil {
		return nil
	}

	counts := d.ctrl.Counts()
	log.Printf("heartbeat: uptime=%v state=%s rtc=%s presses=%d edits=%d reconnects=%d",
		hb.Uptime, d.ctrl.State(), d.ctrl.Wall(), counts.Presses, counts.Edits, counts.Reconnects)

	// Refresh network info for heartbeat
	if net := readNetworkInfo(); net != nil {
		d.tracker.SetNetwork(net)
	}
	snap := d.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  hb.Timestamp,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := d.publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
	return nil
}

func (d *daemon) shutdown(reason string) {
	d.refresh()
	snap := d.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  d.now(),
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := d.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// runLoop steps the daemon on every tick until a signal arrives or the RTC
// fails. Ticks are converted to wrapping milliseconds since start.
func runLoop(d *daemon, start time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			d.shutdown(signalName(s))
			return nil

		case t := <-tick:
			ms := logic.WrapTick(uint64(t.Sub(start).Milliseconds()))
			if err := d.step(ms); err != nil {
				d.shutdown("ERROR")
				return err
			}
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// discardPublisher is used when no broker is configured.
type discardPublisher struct{}

func (discardPublisher) Publish(logic.Event) error           { return nil }
func (discardPublisher) PublishSystem(mqtt.SystemEvent) error { return nil }
func (discardPublisher) Close() error                         { return nil }

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
