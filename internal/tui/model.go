// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/gpubatch/internal/progress"
	"github.com/matt-FFFFFF/gpubatch/internal/runbatch"
)

const durationRounding = 100 * time.Millisecond

// EventMsg carries a progress event into the program.
type EventMsg struct {
	Event progress.Event
}

// DoneMsg is sent when the runnable has finished.
type DoneMsg struct {
	Results runbatch.Results
}

// Styles holds the lipgloss styles used by the model.
type Styles struct {
	Title   lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Skipped lipgloss.Style
	JobID   lipgloss.Style
	Error   lipgloss.Style
	Branch  lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles returns the default styles.
func NewStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		JobID:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Italic(true),
		Branch:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1),
	}
}

// Model is the bubbletea model for the submission tree.
// It is only touched from the bubbletea event loop.
type Model struct {
	title    string
	root     *Node
	nodes    map[string]*Node
	spinner  spinner.Model
	styles   *Styles
	width    int
	done     bool
	quitting bool
	results  runbatch.Results
	now      func() time.Time
}

// NewModel creates a model with the given title.
func NewModel(title string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		title:   title,
		root:    NewNode(nil),
		nodes:   make(map[string]*Node),
		spinner: s,
		styles:  NewStyles(),
		now:     time.Now,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case EventMsg:
		m.apply(msg.Event)

	case DoneMsg:
		m.done = true
		m.results = msg.Results

		return m, tea.Quit
	}

	return m, nil
}

// Quitting reports whether the user asked to quit.
func (m *Model) Quitting() bool {
	return m.quitting
}

// Node returns the node at path, or nil.
func (m *Model) Node(path ...string) *Node {
	return m.nodes[pathKey(path)]
}

func (m *Model) apply(e progress.Event) {
	if len(e.Path) == 0 {
		return
	}

	n := m.node(e.Path)
	at := e.Timestamp
	if at.IsZero() {
		at = m.now()
	}

	switch e.Type {
	case progress.EventStarted:
		n.SetStatus(StatusRunning, at)
	case progress.EventCompleted:
		n.SetStatus(StatusSuccess, at)
	case progress.EventFailed:
		n.SetStatus(StatusFailed, at)
	case progress.EventSkipped:
		n.SetStatus(StatusSkipped, at)
	}

	if e.JobID != "" {
		n.JobID = e.JobID
	}

	if e.Err != nil && e.Type != progress.EventCompleted {
		n.ErrorMsg = e.Err.Error()
	}
}

// node returns the node at path, creating it and any missing parents.
func (m *Model) node(path []string) *Node {
	if n, ok := m.nodes[pathKey(path)]; ok {
		return n
	}

	parent := m.root
	if len(path) > 1 {
		parent = m.node(path[:len(path)-1])
	}

	n := NewNode(path)
	m.nodes[pathKey(path)] = n
	parent.Children = append(parent.Children, n)

	return n
}

// counts returns the number of leaf nodes in each state.
func (m *Model) counts() map[Status]int {
	c := make(map[Status]int)

	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsLeaf() && n != m.root {
			c[n.Status]++
		}

		for _, ch := range n.Children {
			walk(ch)
		}
	}

	walk(m.root)

	return c
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")

	for i, ch := range m.root.Children {
		m.renderNode(&b, ch, "", i == len(m.root.Children)-1)
	}

	c := m.counts()
	summary := fmt.Sprintf("%d submitted, %d failed, %d skipped", c[StatusSuccess], c[StatusFailed], c[StatusSkipped])

	if n := c[StatusRunning]; n > 0 {
		summary += fmt.Sprintf(", %d in progress", n)
	}

	b.WriteString("\n")
	b.WriteString(summary)
	b.WriteString("\n")

	switch {
	case m.done:
	case m.quitting:
		b.WriteString(m.styles.Help.Render("Stopping, waiting for running submissions..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.styles.Help.Render("q to stop submitting"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderNode(b *strings.Builder, n *Node, prefix string, last bool) {
	connector := "├── "
	childPrefix := prefix + "│   "

	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}

	b.WriteString(m.styles.Branch.Render(prefix + connector))
	b.WriteString(m.renderLine(n))
	b.WriteString("\n")

	for i, ch := range n.Children {
		m.renderNode(b, ch, childPrefix, i == len(n.Children)-1)
	}
}

func (m *Model) renderLine(n *Node) string {
	var icon, name string

	switch n.Status {
	case StatusRunning:
		icon, name = m.spinner.View(), m.styles.Running.Render(n.Name)
	case StatusSuccess:
		icon, name = "✓", m.styles.Success.Render(n.Name)
	case StatusFailed:
		icon, name = "✗", m.styles.Failed.Render(n.Name)
	case StatusSkipped:
		icon, name = "~", m.styles.Skipped.Render(n.Name)
	default:
		icon, name = "·", m.styles.Pending.Render(n.Name)
	}

	line := icon + " " + name

	if n.JobID != "" {
		line += " " + m.styles.JobID.Render("job "+n.JobID)
	}

	if d := n.Elapsed(m.now()); d > 0 && !n.IsLeaf() {
		line += m.styles.Pending.Render(fmt.Sprintf(" (%v)", d.Round(durationRounding)))
	}

	if n.ErrorMsg != "" && n.Status == StatusFailed && n.IsLeaf() {
		line += " " + m.styles.Error.Render(n.ErrorMsg)
	}

	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}

	return line
}
