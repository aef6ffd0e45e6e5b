package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/blobspace/plan"
	"github.com/wippyai/blobspace/workspace"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	netStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <plan.yaml>",
	Short: "Browse and run a plan's nets interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runInteractive(args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type modelState int

const (
	stateSelectNet modelState = iota
	stateSizes
	stateLookup
)

type interactiveModel struct {
	err      error
	ws       *workspace.Workspace
	plan     *plan.Def
	filename string
	result   string
	sizes    table.Model
	lookup   textinput.Model
	selected int
	state    modelState
	busy     bool
}

type loadedMsg struct {
	err  error
	plan *plan.Def
}

type runResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(filename string) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		state:    stateSelectNet,
		ws:       newWorkspace(),
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadPlan
}

func (m *interactiveModel) loadPlan() tea.Msg {
	p, err := plan.LoadFile(m.filename)
	return loadedMsg{plan: p, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateLookup {
			return m.updateLookup(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectNet && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "j":
			if m.state == stateSelectNet && m.plan != nil && m.selected < len(m.plan.Nets)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			if m.state == stateSelectNet && m.plan != nil && len(m.plan.Nets) > 0 && !m.busy {
				m.busy = true
				return m, m.runNet(m.plan.Nets[m.selected].Name)
			}

		case "p":
			if m.state == stateSelectNet && m.plan != nil && !m.busy {
				m.busy = true
				return m, m.runPlan
			}

		case "s":
			if m.state == stateSelectNet && !m.busy {
				m.sizes = newSizeTable(m.ws.BlobSizes())
				m.state = stateSizes
				return m, nil
			}

		case "/":
			if m.state == stateSelectNet && !m.busy {
				m.lookup = newLookupInput()
				m.state = stateLookup
				return m, textinput.Blink
			}

		case "esc":
			m.state = stateSelectNet
			return m, nil
		}

	case loadedMsg:
		m.err = msg.err
		m.plan = msg.plan
		return m, nil

	case runResultMsg:
		m.busy = false
		m.err = msg.err
		m.result = msg.result
		return m, nil
	}

	if m.state == stateSizes {
		var cmd tea.Cmd
		m.sizes, cmd = m.sizes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) updateLookup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectNet
		return m, nil
	case "enter":
		m.result, m.err = describeBlob(m.ws, strings.TrimSpace(m.lookup.Value()))
		m.state = stateSelectNet
		return m, nil
	}
	var cmd tea.Cmd
	m.lookup, cmd = m.lookup.Update(msg)
	return m, cmd
}

func (m *interactiveModel) runNet(name string) tea.Cmd {
	return func() tea.Msg {
		def, _ := m.plan.Net(name)
		ok, err := m.ws.RunNetOnce(context.Background(), def)
		if err != nil {
			return runResultMsg{err: err}
		}
		if !ok {
			return runResultMsg{err: fmt.Errorf("net %q failed", name)}
		}
		return runResultMsg{result: fmt.Sprintf("net %s ok", name)}
	}
}

func (m *interactiveModel) runPlan() tea.Msg {
	if !m.ws.RunPlan(context.Background(), *m.plan, nil) {
		return runResultMsg{err: fmt.Errorf("plan %q failed", m.plan.Name)}
	}
	return runResultMsg{result: fmt.Sprintf("plan %s ok", m.plan.Name)}
}

func describeBlob(ws *workspace.Workspace, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if !ws.HasBlob(name) {
		return "", fmt.Errorf("no blob %q", name)
	}
	b, _ := ws.GetBlob(name)
	desc := name + ": " + b.TypeName()
	if shape, ok := b.Shape(); ok {
		desc += " " + formatDims(shape.Dims) + " " + strconv.FormatUint(shape.Capacity, 10) + " bytes"
		if shape.SharesData {
			desc += " (shared)"
		}
	}
	return desc, nil
}

func newLookupInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "blob name"
	ti.Prompt = "blob: "
	ti.Width = 40
	ti.Focus()
	return ti
}

func newSizeTable(r workspace.SizeReport) table.Model {
	columns := []table.Column{
		{Title: "blob", Width: 24},
		{Title: "shape", Width: 16},
		{Title: "bytes", Width: 12},
		{Title: "share", Width: 8},
	}
	var rows []table.Row
	for _, row := range sizeRows(r) {
		rows = append(rows, table.Row(row))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)
	t.SetStyles(table.DefaultStyles())
	return t
}

func (m *interactiveModel) View() string {
	if m.plan == nil {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
		}
		return "Loading plan..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("blobrun"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectNet:
		fmt.Fprintf(&b, "Plan %s, %d steps. Select a net to run once:\n\n", netStyle.Render(m.plan.Name), len(m.plan.Steps))
		for i, n := range m.plan.Nets {
			line := formatNet(n.Name, n.Type, len(n.Ops))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		switch {
		case m.busy:
			b.WriteString("running...")
		case m.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		case m.result != "":
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run net • p run plan • s sizes • / blob • q quit"))

	case stateSizes:
		b.WriteString("Workspace blobs:\n\n")
		b.WriteString(m.sizes.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))

	case stateLookup:
		b.WriteString(m.lookup.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter describe • esc back"))
	}

	return b.String()
}

func formatNet(name, typ string, ops int) string {
	if typ == "" {
		typ = "simple"
	}
	return netStyle.Render(name) + " " + typeStyle.Render(typ) + fmt.Sprintf(" (%d ops)", ops)
}

func runInteractive(filename string) error {
	m := newInteractiveModel(filename)
	defer closeWorkspace(m.ws)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
