// Package tui is the terminal front end: it polls the engine's latest sample
// at a fixed frame rate and draws a scrolling scope, a level meter and a
// bar clock.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/icco/lofi/internal/compose"
	"github.com/icco/lofi/internal/config"
	"github.com/icco/lofi/internal/engine"
)

const (
	halfBeatsPerBar = 8
	meterWidth      = 32
)

// Player is the part of the engine the UI drives.
type Player interface {
	Start(ctx context.Context)
	Stop()
	Running() bool
	LatestSample() (float64, bool)
	Status() engine.Status
	Lead() float64
	Err() error
}

// tickMsg is used for redraw timing
type tickMsg time.Time

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	traceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	levelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// Model is the visualizer state.
type Model struct {
	ctx    context.Context
	player Player
	fps    int
	height int

	samples []float64 // ring of polled samples
	index   int

	spring   harmonica.Spring
	level    float64
	velocity float64

	status  engine.Status
	lead    float64
	message string
}

// NewModel builds a visualizer for p. Samples are polled once per frame.
func NewModel(ctx context.Context, p Player, cfg config.VisualizerConfig) Model {
	fps := max(cfg.FPS, 1)
	return Model{
		ctx:     ctx,
		player:  p,
		fps:     fps,
		height:  max(cfg.Height, 3),
		samples: make([]float64, max(cfg.Width, 8)),
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.6),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// start launches generation as soon as the program runs.
func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		m.player.Start(m.ctx)
		return nil
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.poll()
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.player.Stop()
			return m, tea.Quit
		case "p", " ":
			if m.player.Running() {
				m.player.Stop()
				m.message = "Stopped"
			} else {
				m.player.Start(m.ctx)
				m.message = "Playing"
			}
		}
	}

	return m, nil
}

func (m *Model) poll() {
	if v, ok := m.player.LatestSample(); ok {
		m.samples[m.index] = v
		m.index = (m.index + 1) % len(m.samples)
		m.level, m.velocity = m.spring.Update(m.level, m.velocity, math.Abs(v)/compose.Ceiling)
	}
	m.status = m.player.Status()
	m.lead = max(0, m.player.Lead())
	if err := m.player.Err(); err != nil {
		m.message = fmt.Sprintf("Audio stopped: %v", err)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("LOFI Generator") + "\n\n")

	state := "Stopped"
	if m.player.Running() {
		state = "Playing"
	}
	b.WriteString(subtitleStyle.Render("State: ") + state + "\n")
	b.WriteString(subtitleStyle.Render("Tempo: ") + fmt.Sprintf("%d BPM  ", compose.BPM) +
		subtitleStyle.Render("Queued: ") + fmt.Sprintf("%.2fs", m.lead) + "\n")
	b.WriteString(subtitleStyle.Render("Chord: ") + chordLabel(m.status) + "  " +
		subtitleStyle.Render("Melody: ") + m.status.Note + "\n\n")

	b.WriteString(renderScope(m.orderedSamples(), m.height) + "\n")
	b.WriteString(renderLevel(m.level) + "\n\n")
	b.WriteString(renderClockBar(m.status.Time, m.player.Running()) + "\n")

	if m.message != "" {
		b.WriteString("\n" + errorStyle.Render(m.message) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("p/space: play/stop • q: quit"))

	return b.String()
}

// chordLabel shows the sounding chord, or "-" before the first one fires.
func chordLabel(st engine.Status) string {
	if st.Voices == 0 {
		return "-"
	}
	n := len(compose.Progression)
	// Chord is the index of the next chord
	return fmt.Sprintf("%d/%d", (st.Chord+n-1)%n+1, n)
}

// orderedSamples returns the ring oldest first.
func (m Model) orderedSamples() []float64 {
	out := make([]float64, 0, len(m.samples))
	out = append(out, m.samples[m.index:]...)
	return append(out, m.samples[:m.index]...)
}

// renderScope plots samples in [-Ceiling, Ceiling] on a grid of height rows.
func renderScope(samples []float64, height int) string {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(samples)))
	}
	mid := height / 2
	for c := range samples {
		grid[mid][c] = '─'
	}
	for c, v := range samples {
		norm := max(-1, min(1, v/compose.Ceiling))
		row := int(math.Round((1 - norm) / 2 * float64(height-1)))
		grid[row][c] = '•'
	}

	var b strings.Builder
	border := axisStyle.Render("│")
	for r, line := range grid {
		b.WriteString(border)
		for _, ch := range line {
			if ch == '•' {
				b.WriteString(traceStyle.Render(string(ch)))
			} else {
				b.WriteString(axisStyle.Render(string(ch)))
			}
		}
		b.WriteString(border)
		if r < len(grid)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + axisStyle.Render("└"+strings.Repeat("─", len(samples))+"┘"))
	b.WriteString("\n" + subtitleStyle.Render("past"+strings.Repeat(" ", max(0, len(samples)-5))+"now"))
	return b.String()
}

func renderLevel(level float64) string {
	filled := int(math.Round(max(0, min(1, level)) * meterWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("·", meterWidth-filled)
	return subtitleStyle.Render("Level ") + levelStyle.Render(bar)
}

func renderClockBar(t float64, isPlaying bool) string {
	// Colors for the clock bar - gradient from cyan to magenta
	colors := []string{
		"#00FFFF", "#00CCFF", "#0099FF", "#0066FF",
		"#3333FF", "#6600FF", "#9900FF", "#FF00FF",
	}

	meter := compose.Meter{Beat: compose.Beat}
	current := int(meter.Phase(t)/(compose.Beat/2)) % halfBeatsPerBar

	bar := strings.Builder{}
	bar.WriteString("Clock ")

	for i := 0; i < halfBeatsPerBar; i++ {
		var cell string
		var cellStyle lipgloss.Style

		if isPlaying && i == current {
			cell = " ▶ "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(colors[i])).
				Bold(true)
		} else if isPlaying && i < current {
			cell = " █ "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colors[i]))
		} else {
			cell = " · "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#444444"))
		}

		bar.WriteString(cellStyle.Render(cell))
	}

	status := " Stopped"
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	if isPlaying {
		status = " Playing"
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	}
	bar.WriteString(statusStyle.Render(status))

	return bar.String()
}
