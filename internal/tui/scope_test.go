package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/icco/lofi/internal/compose"
	"github.com/icco/lofi/internal/config"
	"github.com/icco/lofi/internal/engine"
)

type fakePlayer struct {
	running bool
	starts  int
	stops   int
	sample  float64
	ok      bool
	status  engine.Status
	lead    float64
	err     error
}

func (p *fakePlayer) Start(ctx context.Context) {
	p.starts++
	p.running = true
}

func (p *fakePlayer) Stop() {
	p.stops++
	p.running = false
}

func (p *fakePlayer) Running() bool                 { return p.running }
func (p *fakePlayer) LatestSample() (float64, bool) { return p.sample, p.ok }
func (p *fakePlayer) Status() engine.Status         { return p.status }
func (p *fakePlayer) Lead() float64                 { return p.lead }
func (p *fakePlayer) Err() error                    { return p.err }

func testConfig() config.VisualizerConfig {
	return config.VisualizerConfig{FPS: 30, Width: 16, Height: 5}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNoSampleYet(t *testing.T) {
	p := &fakePlayer{}
	m := NewModel(context.Background(), p, testConfig())

	next, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Error("Expected tick to schedule another tick")
	}
	m = next.(Model)

	for i, v := range m.samples {
		if v != 0 {
			t.Errorf("Expected empty scope, sample %d = %v", i, v)
		}
	}
	if m.level != 0 {
		t.Errorf("Expected level 0, got %v", m.level)
	}
	if !strings.Contains(m.View(), "LOFI Generator") {
		t.Error("Expected title in view")
	}
}

func TestTickPollsSample(t *testing.T) {
	p := &fakePlayer{sample: 0.4, ok: true, running: true, status: engine.Status{Time: 1.6 * compose.Beat, Chord: 1, Note: "A4", Voices: 5}, lead: 0.25}
	m := NewModel(context.Background(), p, testConfig())

	for i := 0; i < 10; i++ {
		next, _ := m.Update(tickMsg{})
		m = next.(Model)
	}

	got := m.orderedSamples()
	if got[len(got)-1] != 0.4 {
		t.Errorf("Expected newest sample 0.4, got %v", got[len(got)-1])
	}
	if got[0] != 0 {
		t.Errorf("Expected oldest slot still empty, got %v", got[0])
	}
	if m.level <= 0 {
		t.Errorf("Expected level to rise toward the sample, got %v", m.level)
	}
	if m.status.Note != "A4" {
		t.Errorf("Expected status to be polled, got %+v", m.status)
	}

	view := m.View()
	for _, want := range []string{"A4", "1/4", "Playing", "•", "0.25s"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}

func TestRingWraps(t *testing.T) {
	p := &fakePlayer{ok: true}
	m := NewModel(context.Background(), p, testConfig())

	for i := 0; i < len(m.samples)+3; i++ {
		p.sample = float64(i) / 100
		next, _ := m.Update(tickMsg{})
		m = next.(Model)
	}

	got := m.orderedSamples()
	if len(got) != 16 {
		t.Fatalf("Expected 16 samples, got %d", len(got))
	}
	if got[0] != 0.03 || got[15] != 0.18 {
		t.Errorf("Expected oldest 0.03 and newest 0.18, got %v and %v", got[0], got[15])
	}
}

func TestPlayToggle(t *testing.T) {
	p := &fakePlayer{}
	m := NewModel(context.Background(), p, testConfig())

	next, _ := m.Update(key("p"))
	m = next.(Model)
	if !p.running || p.starts != 1 {
		t.Errorf("Expected p to start playback, starts=%d", p.starts)
	}

	next, _ = m.Update(key(" "))
	m = next.(Model)
	if p.running || p.stops != 1 {
		t.Errorf("Expected space to stop playback, stops=%d", p.stops)
	}
	if m.message != "Stopped" {
		t.Errorf("Expected message Stopped, got %q", m.message)
	}
}

func TestQuitStopsEngine(t *testing.T) {
	p := &fakePlayer{running: true}
	m := NewModel(context.Background(), p, testConfig())

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if p.running {
		t.Error("Expected engine to be stopped on quit")
	}
}

func TestErrorShown(t *testing.T) {
	p := &fakePlayer{err: errors.New("device gone")}
	m := NewModel(context.Background(), p, testConfig())

	next, _ := m.Update(tickMsg{})
	m = next.(Model)

	if !strings.Contains(m.View(), "device gone") {
		t.Error("Expected sink error in view")
	}
}

func TestRenderScopeRows(t *testing.T) {
	out := renderScope([]float64{compose.Ceiling, -compose.Ceiling, 0, 5}, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 3 rows plus axis and legend, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "•") || !strings.Contains(lines[2], "•") {
		t.Error("Expected peaks on the top and bottom rows")
	}
	if strings.Count(lines[0], "•") != 2 {
		t.Errorf("Expected the clamped sample on the top row too, got %q", lines[0])
	}
}

func TestClockBar(t *testing.T) {
	bar := renderClockBar(1.6*compose.Beat, true)
	if !strings.Contains(bar, "▶") {
		t.Error("Expected playhead in clock bar")
	}
	if got := strings.Count(bar, "█"); got != 3 {
		t.Errorf("Expected 3 passed half beats, got %d", got)
	}

	stopped := renderClockBar(1.6*compose.Beat, false)
	if strings.Contains(stopped, "▶") || !strings.Contains(stopped, "Stopped") {
		t.Error("Expected idle clock bar when stopped")
	}
}

func TestInitStartsThroughCommand(t *testing.T) {
	p := &fakePlayer{}
	m := NewModel(context.Background(), p, testConfig())

	if cmd := m.Init(); cmd == nil {
		t.Fatal("Expected Init to return a command")
	}
	if p.starts != 0 {
		t.Errorf("Expected Init not to start the player itself, starts=%d", p.starts)
	}

	if msg := m.start()(); msg != nil {
		t.Errorf("Expected no message from start, got %v", msg)
	}
	if p.starts != 1 || !p.running {
		t.Errorf("Expected start command to start the player, starts=%d", p.starts)
	}
}

func TestChordLabel(t *testing.T) {
	tests := []struct {
		name   string
		status engine.Status
		want   string
	}{
		{"before first chord", engine.Status{Chord: 0, Voices: 0}, "-"},
		{"first chord sounding", engine.Status{Chord: 1, Voices: 5}, "1/4"},
		{"last chord sounding", engine.Status{Chord: 0, Voices: 5}, "4/4"},
	}

	for _, tt := range tests {
		if got := chordLabel(tt.status); got != tt.want {
			t.Errorf("%s: Expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestNoChordBeforeFirstTrigger(t *testing.T) {
	p := &fakePlayer{running: true, status: engine.Status{Note: "A4"}}
	m := NewModel(context.Background(), p, testConfig())

	next, _ := m.Update(tickMsg{})
	m = next.(Model)

	view := m.View()
	if strings.Contains(view, "4/4") {
		t.Error("Expected no chord number before the first chord")
	}
	if !strings.Contains(view, "Chord: -") {
		t.Error("Expected placeholder chord label")
	}
}

func TestNegativeLeadShownAsZero(t *testing.T) {
	p := &fakePlayer{lead: -0.5}
	m := NewModel(context.Background(), p, testConfig())

	next, _ := m.Update(tickMsg{})
	m = next.(Model)

	if m.lead != 0 {
		t.Errorf("Expected lead clamped to 0, got %v", m.lead)
	}
}
