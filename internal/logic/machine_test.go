package logic

import (
	"errors"
	"testing"
)

var noon = wc(2024, 9, 12, 12, 0, 1)

func press(s Symbol) Input { return Input{Symbol: s} }
func repeat(s Symbol) Input { return Input{Symbol: s, Repeat: true} }

func TestNewMachineStartsInTimeView(t *testing.T) {
	m := NewMachine()
	if m.State() != StateTime {
		t.Errorf("initial state: got %s, want %s", m.State(), StateTime)
	}
}

func TestTableIsTotal(t *testing.T) {
	for _, s := range States {
		for _, sym := range Symbols {
			r := Lookup(s, sym)
			switch r.Kind {
			case ActionNOP:
			case ActionGoto:
				if r.Next < 0 || r.Next >= numStates {
					t.Errorf("(%s, %s): goto invalid state %d", s, sym, r.Next)
				}
			case ActionAdjust:
				if !s.IsEdit() {
					t.Errorf("(%s, %s): adjust outside an edit state", s, sym)
				}
				if r.Field != s.EditField() {
					t.Errorf("(%s, %s): adjusts %s, state edits %s", s, sym, r.Field, s.EditField())
				}
				if r.Direction != 1 && r.Direction != -1 {
					t.Errorf("(%s, %s): direction %d", s, sym, r.Direction)
				}
			case ActionRoundToMinute:
				if s != StateEditSecond {
					t.Errorf("(%s, %s): round-to-minute outside edit-second", s, sym)
				}
			default:
				t.Errorf("(%s, %s): undefined response kind %d", s, sym, r.Kind)
			}
		}
	}
}

func TestEveryStateReachable(t *testing.T) {
	seen := map[State]bool{StateTime: true}
	queue := []State{StateTime}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, sym := range Symbols {
			r := Lookup(s, sym)
			if r.Kind == ActionGoto && !seen[r.Next] {
				seen[r.Next] = true
				queue = append(queue, r.Next)
			}
		}
	}
	for _, s := range States {
		if !seen[s] {
			t.Errorf("state %s is unreachable", s)
		}
	}
}

func TestNOPIsIdempotent(t *testing.T) {
	m := NewMachine()
	for i := 0; i < 5; i++ {
		out := m.Handle(press(SymbolUp), noon)
		if !out.NOP() {
			t.Fatalf("press %d: expected NOP outcome, got %+v", i, out)
		}
		if out.Render != nil {
			t.Fatalf("press %d: NOP must not render", i)
		}
		if m.State() != StateTime {
			t.Fatalf("press %d: state changed to %s", i, m.State())
		}
	}
}

func TestLiveViewCycle(t *testing.T) {
	m := NewMachine()
	want := []State{StateDateTime, StateYear, StateMonth, StateDay, StateTime}
	for _, w := range want {
		out := m.Handle(press(SymbolRight), noon)
		if m.State() != w {
			t.Fatalf("RIGHT: got %s, want %s", m.State(), w)
		}
		if !out.StateChanged || out.Render == nil {
			t.Errorf("RIGHT into %s: expected state change with render", w)
		}
	}

	m.Handle(press(SymbolLeft), noon)
	if m.State() != StateDay {
		t.Errorf("LEFT from TIME: got %s, want %s", m.State(), StateDay)
	}
}

func TestEnterEditFromLiveViews(t *testing.T) {
	tests := []struct {
		from State
		sym  Symbol
		want State
	}{
		{StateTime, SymbolA, StateEditHour},
		{StateTime, SymbolSelect, StateEditHour},
		{StateDateTime, SymbolA, StateEditYear},
		{StateYear, SymbolA, StateEditYear},
		{StateMonth, SymbolSelect, StateEditMonth},
		{StateDay, SymbolA, StateEditDay},
		{StateYear, SymbolStart, StateEditMinute},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.sym.String(), func(t *testing.T) {
			m := &Machine{state: tt.from}
			out := m.Handle(press(tt.sym), noon)
			if m.State() != tt.want {
				t.Fatalf("got %s, want %s", m.State(), tt.want)
			}
			if out.Render == nil || out.Render.Top == "" || out.Render.Bottom == "" {
				t.Errorf("entering edit must show helper text, got %+v", out.Render)
			}
		})
	}
}

func TestEditChainWithA(t *testing.T) {
	m := &Machine{state: StateEditYear}
	want := []State{StateEditMonth, StateEditDay, StateEditHour, StateEditMinute, StateEditSecond, StateEditYear}
	for _, w := range want {
		m.Handle(press(SymbolA), noon)
		if m.State() != w {
			t.Fatalf("A: got %s, want %s", m.State(), w)
		}
	}

	m.Handle(press(SymbolLeft), noon)
	if m.State() != StateEditSecond {
		t.Errorf("LEFT from SET_YEAR: got %s, want %s", m.State(), StateEditSecond)
	}
}

func TestExitEditClearsHelperText(t *testing.T) {
	for _, exit := range []Symbol{SymbolB, SymbolStart} {
		m := &Machine{state: StateEditDay}
		out := m.Handle(press(exit), noon)
		if m.State() != StateTime {
			t.Fatalf("%s: got %s, want %s", exit, m.State(), StateTime)
		}
		if out.Render == nil {
			t.Fatalf("%s: expected render", exit)
		}
		if out.Render.Top != "" || out.Render.Bottom != "" {
			t.Errorf("%s: helper text not cleared: %+v", exit, out.Render)
		}
		if out.Render.Digits != "12:00" {
			t.Errorf("%s: digits %q, want %q", exit, out.Render.Digits, "12:00")
		}
	}
}

func TestDemoScenario(t *testing.T) {
	m := NewMachine()

	out := m.Handle(press(SymbolAB), noon)
	if m.State() != StateDemo {
		t.Fatalf("A+B: got %s, want %s", m.State(), StateDemo)
	}
	if out.Render == nil || out.Render.Top == "" {
		t.Errorf("demo should render its banner, got %+v", out.Render)
	}

	// Everything except B is ignored in demo
	for _, sym := range Symbols {
		if sym == SymbolB {
			continue
		}
		if out := m.Handle(press(sym), noon); !out.NOP() {
			t.Errorf("%s in demo: expected NOP, got %+v", sym, out)
		}
	}

	out = m.Handle(press(SymbolB), noon)
	if m.State() != StateTime {
		t.Fatalf("B: got %s, want %s", m.State(), StateTime)
	}
	if out.Render == nil || out.Render.Top != "" || out.Render.Bottom != "" {
		t.Errorf("returning from demo must clear helper text, got %+v", out.Render)
	}
}

func TestDemoReachableFromEveryState(t *testing.T) {
	for _, s := range States {
		if s == StateDemo {
			continue
		}
		m := &Machine{state: s}
		m.Handle(press(SymbolAB), noon)
		if m.State() != StateDemo {
			t.Errorf("A+B from %s: got %s", s, m.State())
		}
	}
}

func TestEditMinuteClampScenario(t *testing.T) {
	m := &Machine{state: StateEditMinute}
	now := wc(2024, 9, 12, 23, 59, 10)

	out := m.Handle(press(SymbolUp), now)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Write != nil {
		t.Errorf("clamped edit must not write, got %s", out.Write)
	}
	if out.Render != nil {
		t.Error("clamped edit must not render")
	}
	if m.State() != StateEditMinute {
		t.Errorf("state changed to %s", m.State())
	}
}

func TestFieldAdjustWritesRTC(t *testing.T) {
	tests := []struct {
		state State
		in    Input
		now   WallClock
		want  WallClock
	}{
		{StateEditYear, press(SymbolUp), noon, wc(2025, 9, 12, 12, 0, 1)},
		{StateEditYear, repeat(SymbolDown), noon, wc(2019, 9, 12, 12, 0, 1)},
		{StateEditMonth, press(SymbolUp), noon, wc(2024, 10, 12, 12, 0, 1)},
		{StateEditMonth, repeat(SymbolUp), noon, wc(2024, 12, 12, 12, 0, 1)},
		{StateEditDay, repeat(SymbolUp), noon, wc(2024, 9, 22, 12, 0, 1)},
		{StateEditHour, repeat(SymbolUp), noon, wc(2024, 9, 12, 16, 0, 1)},
		{StateEditMinute, press(SymbolDown), wc(2024, 9, 12, 12, 30, 0), wc(2024, 9, 12, 12, 29, 0)},
		{StateEditMinute, repeat(SymbolUp), wc(2024, 9, 12, 12, 30, 0), wc(2024, 9, 12, 12, 40, 0)},
		{StateEditSecond, press(SymbolUp), wc(2024, 9, 12, 12, 30, 29), wc(2024, 9, 12, 12, 30, 0)},
		{StateEditSecond, press(SymbolDown), wc(2024, 9, 12, 12, 30, 31), wc(2024, 9, 12, 12, 31, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			m := &Machine{state: tt.state}
			out := m.Handle(tt.in, tt.now)
			if out.Err != nil {
				t.Fatalf("unexpected error: %v", out.Err)
			}
			if out.Write == nil {
				t.Fatal("expected a write")
			}
			if *out.Write != tt.want {
				t.Errorf("write: got %s, want %s", out.Write, tt.want)
			}
			if out.StateChanged || m.State() != tt.state {
				t.Errorf("edit must not change state, now %s", m.State())
			}
			want := Project(tt.state, tt.want)
			if out.Render == nil || *out.Render != want {
				t.Errorf("render: got %+v, want %+v", out.Render, want)
			}
		})
	}
}

func TestRepeatOnlyDrivesAdjustments(t *testing.T) {
	// Repeated navigation would be unusable; only field edits repeat.
	m := NewMachine()
	if out := m.Handle(repeat(SymbolRight), noon); !out.NOP() {
		t.Errorf("repeat RIGHT: expected NOP, got %+v", out)
	}
	if m.State() != StateTime {
		t.Errorf("state changed to %s", m.State())
	}

	m = &Machine{state: StateEditSecond}
	if out := m.Handle(repeat(SymbolUp), wc(2024, 1, 1, 0, 0, 40)); out.Write != nil {
		t.Error("repeat in SET_SECOND must not round again")
	}
}

func TestUnknownSymbolIsIgnored(t *testing.T) {
	m := NewMachine()
	for _, sym := range []Symbol{SymbolNone, Symbol(-1), numSymbols, Symbol(99)} {
		out := m.Handle(press(sym), noon)
		if !errors.Is(out.Err, ErrUnknownSymbol) {
			t.Errorf("symbol %d: expected ErrUnknownSymbol, got %v", sym, out.Err)
		}
		if !out.NOP() {
			t.Errorf("symbol %d: expected no effect", sym)
		}
	}
	if m.State() != StateTime {
		t.Errorf("state changed to %s", m.State())
	}
}

func TestEditorErrorIsDiscarded(t *testing.T) {
	m := &Machine{state: StateEditDay}
	bad := WallClock{Year: 1970, Month: 1, Day: 1}

	out := m.Handle(press(SymbolUp), bad)
	if !errors.Is(out.Err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", out.Err)
	}
	if out.Write != nil || out.Render != nil {
		t.Errorf("failed edit must not write or render: %+v", out)
	}
	if m.State() != StateEditDay {
		t.Errorf("state changed to %s", m.State())
	}
}

func TestProject(t *testing.T) {
	now := wc(2024, 9, 12, 7, 5, 3) // a Thursday
	tests := []struct {
		state State
		want  Directive
	}{
		{StateTime, Directive{Digits: "07:05"}},
		{StateDateTime, Directive{Digits: "2024-09-12 07:05:03"}},
		{StateYear, Directive{Digits: " 2024"}},
		{StateMonth, Directive{Digits: " 09-12"}},
		{StateDay, Directive{Digits: "   12", Top: "THURSDAY"}},
		{StateEditYear, Directive{Digits: "   2024", Top: "   SET       YEAR", Bottom: HelpAdjust}},
		{StateEditMonth, Directive{Digits: "  09-12", Top: "   SET      MONTH", Bottom: HelpAdjust}},
		{StateEditDay, Directive{Digits: "  09-12", Top: "   SET        DAY", Bottom: HelpAdjust}},
		{StateEditHour, Directive{Digits: "07:05:03", Top: "   SET      HOURS", Bottom: HelpAdjust}},
		{StateEditMinute, Directive{Digits: "07:05:03", Top: "   SET    MINUTES", Bottom: HelpAdjust}},
		{StateEditSecond, Directive{Digits: "07:05:03", Top: "   SET    SECONDS", Bottom: HelpRound}},
		{StateDemo, Directive{Digits: "88:88:88", Top: "      DEMO", Bottom: "B:Exit"}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := Project(tt.state, now); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProjectUsesCurrentTimestamp(t *testing.T) {
	m := NewMachine()
	a := m.Project(wc(2024, 1, 1, 10, 0, 0))
	b := m.Project(wc(2024, 1, 1, 10, 1, 0))
	if a == b {
		t.Error("projection must follow the timestamp passed in")
	}
}

func TestStateClassification(t *testing.T) {
	for _, s := range States {
		live, edit := s.IsLive(), s.IsEdit()
		if live && edit {
			t.Errorf("%s is both live and edit", s)
		}
		if edit != (s.EditField() != FieldNone) {
			t.Errorf("%s: IsEdit=%v but EditField=%s", s, edit, s.EditField())
		}
	}
	if StateDemo.IsLive() || StateDemo.IsEdit() {
		t.Error("demo is neither live nor edit")
	}
}
