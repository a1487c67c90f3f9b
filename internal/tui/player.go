// Package tui shows the bound tracks of a playing pattern with a moving
// playhead.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/icco/rudiments/internal/pattern"
	"github.com/icco/rudiments/internal/timing"
	"github.com/icco/rudiments/internal/track"
)

// refreshInterval is how often the playhead is redrawn.
const refreshInterval = 30 * time.Millisecond

const labelWidth = 16

// tickMsg is used for playback animation timing
type tickMsg time.Time

type row struct {
	name      string
	steps     pattern.Steps
	amplitude pattern.Amplitude
}

// Model is the bubbletea model of the player view.
type Model struct {
	title       string
	tempo       timing.Tempo
	pad         time.Duration
	repeat      bool
	rows        []row
	aggregate   pattern.Steps
	start       time.Time
	currentStep int
	finished    bool
	now         func() time.Time
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Width(labelWidth).
			Align(lipgloss.Left)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// New returns a view of tracks. pad is the loop pad used in repeat mode.
func New(title string, tracks track.Tracks, aggregate pattern.Steps, tempo timing.Tempo, pad time.Duration, repeat bool) Model {
	m := Model{
		title:       title,
		tempo:       tempo,
		pad:         pad,
		repeat:      repeat,
		aggregate:   aggregate,
		currentStep: -1,
		now:         time.Now,
	}
	for _, sf := range tracks.SampleFiles() {
		t := tracks[sf]
		m.rows = append(m.rows, row{name: string(sf), steps: t.Steps, amplitude: t.Amplitude})
	}
	return m
}

// Init starts the playhead clock.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.start.IsZero() {
			m.start = m.now()
		}
		m.currentStep = m.stepAt(m.now().Sub(m.start))
		if m.finished {
			return m, tea.Quit
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// stepAt maps elapsed playback time to the sounding step. In repeat mode
// each measure window starts with the pad, so the window position is shifted
// back by the pad and wrapped.
func (m *Model) stepAt(elapsed time.Duration) int {
	measure := timing.MeasureDuration(m.tempo)
	if !m.repeat {
		if elapsed >= measure {
			m.finished = true
			return -1
		}
		return timing.StepAt(m.tempo, elapsed)
	}
	pos := (elapsed%measure - m.pad) % measure
	if pos < 0 {
		pos += measure
	}
	return timing.StepAt(m.tempo, pos)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RUDIMENTS") + " " + dimStyle.Render(m.title) + "\n\n")
	mode := "once"
	if m.repeat {
		mode = "repeat"
	}
	b.WriteString(fmt.Sprintf("BPM: %s  Mode: %s  Step: %s\n\n",
		m.tempo, mode, timing.StepDuration(m.tempo)))

	b.WriteString(renderClockBar(m.currentStep) + "\n\n")

	b.WriteString(labelStyle.Render("Sample"))
	b.WriteString(fmt.Sprintf("%-5s ", "Amp"))
	hexDigits := "0123456789ABCDEF"
	for i := 0; i < pattern.StepsPerMeasure; i++ {
		b.WriteString(fmt.Sprintf(" %c ", hexDigits[i]))
	}
	b.WriteString("\n")

	for _, r := range m.rows {
		name := truncate(r.name, labelWidth-1)
		if r.steps.IsSilent() {
			name = dimStyle.Render(name)
		}
		b.WriteString(labelStyle.Render(name))
		b.WriteString(fmt.Sprintf("%-5.2f ", r.amplitude.Value()))
		b.WriteString(renderSteps(r.steps, m.currentStep))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render(dimStyle.Render("all")))
	b.WriteString("      ")
	b.WriteString(renderSteps(m.aggregate, m.currentStep))
	b.WriteString("\n")

	b.WriteString("\n" + helpStyle.Render("q: quit"))
	return b.String()
}

func renderSteps(steps pattern.Steps, current int) string {
	var b strings.Builder
	for step, on := range steps {
		cell := " · "
		if on {
			cell = " ● "
		}

		cellStyle := lipgloss.NewStyle().Width(3)
		if step == current {
			cellStyle = cellStyle.Background(lipgloss.Color("#7D56F4"))
		}
		// Active step gets color
		if on {
			cellStyle = cellStyle.Foreground(lipgloss.Color("#FFD700"))
		} else {
			cellStyle = cellStyle.Foreground(lipgloss.Color("#666666"))
		}
		b.WriteString(cellStyle.Render(cell))
	}
	return b.String()
}

func renderClockBar(currentStep int) string {
	// Colors for the clock bar - gradient from cyan to magenta
	colors := []string{
		"#00FFFF", "#00E5FF", "#00CCFF", "#00B2FF",
		"#0099FF", "#0080FF", "#0066FF", "#1A4DFF",
		"#3333FF", "#4D1AFF", "#6600FF", "#8000FF",
		"#9900FF", "#B300FF", "#CC00FF", "#FF00FF",
	}

	bar := strings.Builder{}
	bar.WriteString(labelStyle.Render("Clock") + "      ")

	playing := currentStep >= 0
	for i := 0; i < pattern.StepsPerMeasure; i++ {
		var cell string
		var cellStyle lipgloss.Style

		switch {
		case playing && i == currentStep:
			cell = " ▶ "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(colors[i])).
				Bold(true)
		case playing && i < currentStep:
			cell = " █ "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colors[i]))
		default:
			cell = " · "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#444444"))
		}

		bar.WriteString(cellStyle.Render(cell))
	}

	status := " Stopped"
	statusStyle := dimStyle
	if playing {
		status = " Playing"
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	}
	bar.WriteString(statusStyle.Render(status))

	return bar.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
