// Package ui renders bumpdecider run summaries for CI logs.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/bumpdecider/bumpdecider/internal/pkg/bump"
)

// Manager defines the interface for run output.
type Manager interface {
	ShowDecision(decision bump.Decision, configFile string)
	ShowSuccess(message string)
	ShowWarning(message string)
}

// DefaultManager implements Manager with lipgloss styles.
type DefaultManager struct {
	out          io.Writer
	errOut       io.Writer
	colorEnabled bool
	styles       *styles
}

// styles holds the lipgloss styles for output rendering.
type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	push    lipgloss.Style
	noPush  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
}

// ColorAllowed returns false when NO_COLOR is set, otherwise enabled.
func ColorAllowed(enabled bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return enabled
}

// NewManagerWithWriters creates a DefaultManager with explicit writers.
func NewManagerWithWriters(out, errOut io.Writer, colorEnabled bool) *DefaultManager {
	m := &DefaultManager{
		out:          out,
		errOut:       errOut,
		colorEnabled: colorEnabled,
	}
	m.initStyles()
	return m
}

// initStyles initializes the lipgloss styles.
func (m *DefaultManager) initStyles() {
	if !m.colorEnabled {
		plain := lipgloss.NewStyle()
		m.styles = &styles{
			title:   plain,
			label:   plain,
			value:   plain,
			push:    plain,
			noPush:  plain,
			success: plain,
			warning: plain,
		}
		return
	}

	r := lipgloss.NewRenderer(m.out)
	m.styles = &styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		label: r.NewStyle().
			Foreground(lipgloss.Color("245")),
		value: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		push: r.NewStyle().
			Foreground(lipgloss.Color("42")),
		noPush: r.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		success: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
	}
}

// ShowDecision prints the resolved bump type and push decision.
func (m *DefaultManager) ShowDecision(decision bump.Decision, configFile string) {
	push := m.styles.noPush.Render("no")
	if decision.Push {
		push = m.styles.push.Render("yes")
	}

	fmt.Fprintln(m.out, m.styles.title.Render("Version bump"))
	fmt.Fprintf(m.out, "  %s %s (%s)\n", m.styles.label.Render("type:  "), m.styles.value.Render(decision.Type.String()), decision.Source)
	fmt.Fprintf(m.out, "  %s %s\n", m.styles.label.Render("config:"), configFile)
	fmt.Fprintf(m.out, "  %s %s\n", m.styles.label.Render("push:  "), push)
}

// ShowSuccess displays a success message.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render("[OK] "+message))
}

// ShowWarning displays a warning message.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.errOut, m.styles.warning.Render("[WARN] "+message))
}

// Ensure DefaultManager implements Manager
var _ Manager = (*DefaultManager)(nil)
