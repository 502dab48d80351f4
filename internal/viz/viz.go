package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Trace accumulates per-step samples for one tracked body.
type Trace struct {
	Name    string
	Heights []float64
	Speeds  []float64
}

// Recorder collects traces and event counts across a simulation run.
type Recorder struct {
	Traces  []*Trace
	Started int
	Stopped int
	Steps   int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) AddTrace(name string) *Trace {
	t := &Trace{Name: name}
	r.Traces = append(r.Traces, t)
	return t
}

func (t *Trace) Sample(height, speed float64) {
	t.Heights = append(t.Heights, height)
	t.Speeds = append(t.Speeds, speed)
}

func (r *Recorder) CountEvents(started, stopped int) {
	r.Started += started
	r.Stopped += stopped
	r.Steps++
}

// Render draws a height-over-time graph per trace plus a run summary.
func (r *Recorder) Render(width, height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("simulation run"))
	b.WriteString("\n")
	for _, t := range r.Traces {
		if len(t.Heights) < 2 {
			continue
		}
		graph := asciigraph.Plot(t.Heights,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("%s height", t.Name)),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}
	b.WriteString(r.Summary())
	return b.String()
}

// Summary is a one-screen digest of the run.
func (r *Recorder) Summary() string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	line("steps", fmt.Sprintf("%d", r.Steps))
	b.WriteString(eventStyle.Render(fmt.Sprintf("%-16sstarted %d, stopped %d\n", "contacts", r.Started, r.Stopped)))
	for _, t := range r.Traces {
		if len(t.Heights) == 0 {
			continue
		}
		line(t.Name, fmt.Sprintf("final height %.3f, final speed %.3f",
			t.Heights[len(t.Heights)-1], t.Speeds[len(t.Speeds)-1]))
	}
	return b.String()
}
