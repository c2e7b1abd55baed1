package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sweeney/gamepad-clock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	// glyphs makes panel text printable: the DEL arrow becomes an up/down arrow.
	"glyphs": func(s string) string {
		return strings.ReplaceAll(s, "\x7f", "↕")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Gamepad Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.panel { background: #111; color: #7cf; padding: 0.8em 1em; border-radius: 6px; white-space: pre; }
.panel .msg { color: #ccc; }
.panel .digits { font-size: 2em; color: #f84; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Gamepad Clock</h1>

<div class="panel"><div class="msg" id="top">{{glyphs .Frame.Top}}</div><div class="digits" id="digits">{{.Frame.Digits}}</div><div class="msg" id="bottom">{{glyphs .Frame.Bottom}}</div></div>

<h2>Clock</h2>
<table>
<tr><th>State</th><td id="state">{{.State}}</td></tr>
<tr><th>RTC</th><td id="clock">{{.Wall}}</td></tr>
<tr><th>Source</th><td>{{.Config.Clock}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Gamepad</th><td class="{{if .PadConnected}}connected{{else}}disconnected{{end}}">{{if .PadConnected}}connected{{else}}disconnected{{end}} ({{.Config.Pad}})</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Activity</h2>
<table>
<tr><th>Presses</th><td>{{.Counts.Presses}}</td></tr>
<tr><th>Repeats</th><td>{{.Counts.Repeats}}</td></tr>
<tr><th>Edits</th><td>{{.Counts.Edits}}</td></tr>
<tr><th>Discarded edits</th><td>{{.Counts.Discarded}}</td></tr>
<tr><th>Reconnects</th><td>{{.Counts.Reconnects}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Hold / repeat</th><td>{{.Config.HoldMs}}ms / {{.Config.RepeatMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Display</th><td>{{.Config.Display}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var ids = ["top", "digits", "bottom", "state", "clock"];
  var els = {};
  ids.forEach(function(id) { els[id] = document.getElementById(id); });

  function refresh() {
    fetch("/index.json").then(function(r) { return r.json(); }).then(function(j) {
      var s = j.status;
      els.top.textContent = s.display.top.replace(/\^/g, "↕");
      els.digits.textContent = s.display.digits;
      els.bottom.textContent = s.display.bottom.replace(/\^/g, "↕");
      els.state.textContent = s.state;
      els.clock.textContent = s.clock;
    }).catch(function() {});
  }
  setInterval(refresh, 1000);
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
