// Command cellml-inspect is a read-only TUI browser over a processed
// model: components, classified variables, and diagnostics, tab-switched
// with Tab/Shift+Tab. The tables are built once at startup; there is no
// refresh loop. Model/Update/View shape and table styling are grounded on
// dd0wney-graphdb's cmd/tui
// (bubbletea + bubbles/table + lipgloss), narrowed from that repo's
// dashboard/query/graph tabs to this tool's Components/Variables/
// Diagnostics surface over the Query interface (spec §6).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edp1096/cellml-codegen/analyze"
	"github.com/edp1096/cellml-codegen/cellml"
	"github.com/edp1096/cellml-codegen/classify"
	"github.com/edp1096/cellml-codegen/diag"
	"github.com/edp1096/cellml-codegen/equivalence"
	"github.com/edp1096/cellml-codegen/examples/fixtures"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type tab int

const (
	tabComponents tab = iota
	tabVariables
	tabDiagnostics
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabComponents:
		return "Components"
	case tabVariables:
		return "Variables"
	case tabDiagnostics:
		return "Diagnostics"
	default:
		return "?"
	}
}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type model struct {
	current tab

	componentsTable  table.Model
	variablesTable   table.Model
	diagnosticsTable table.Model

	modelName string
	modelType string
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#5F5FD7")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func newModel(cellmlModel *cellml.Model, sys *analyze.System, ch *diag.Channel) model {
	componentCols := []table.Column{
		{Title: "Component", Width: 24},
		{Title: "Variables", Width: 10},
		{Title: "Parent", Width: 24},
	}
	var componentRows []table.Row
	for _, c := range cellmlModel.Components {
		parent := "-"
		if parentID, ok := cellmlModel.Encapsulation.Parent(c.ID); ok {
			if pc, ok := cellmlModel.ComponentByID(parentID); ok {
				parent = pc.Name
			}
		}
		componentRows = append(componentRows, table.Row{c.Name, fmt.Sprintf("%d", len(c.Variables)), parent})
	}

	varCols := []table.Column{
		{Title: "Variable", Width: 16},
		{Title: "Component", Width: 20},
		{Title: "Units", Width: 16},
		{Title: "Role", Width: 18},
	}
	var varRows []table.Row
	for _, cv := range allClassified(sys) {
		varRows = append(varRows, table.Row{
			cv.Class.Representative.VariableName,
			cv.Class.Representative.ComponentName,
			cv.Class.Units,
			cv.Role.String(),
		})
	}

	diagCols := []table.Column{
		{Title: "Severity", Width: 12},
		{Title: "Kind", Width: 14},
		{Title: "Where", Width: 24},
		{Title: "Description", Width: 50},
	}
	var diagRows []table.Row
	for _, issue := range ch.All() {
		where := issue.Component
		if issue.Variable != "" {
			where += "." + issue.Variable
		}
		diagRows = append(diagRows, table.Row{severityName(issue.Severity), string(issue.Kind), where, issue.Description})
	}

	return model{
		componentsTable:  newTable(componentCols, componentRows),
		variablesTable:   newTable(varCols, varRows),
		diagnosticsTable: newTable(diagCols, diagRows),
		modelName:        cellmlModel.Name,
		modelType:        sys.Type.String(),
	}
}

// allClassified returns the classified variables in this order: the VoI,
// then states, then constants, then computed constants and
// per-step algebraic variables in their evaluation order — the same
// ordering the Query surface (spec §6) exposes.
func allClassified(sys *analyze.System) []*analyze.ClassifiedVariable {
	var out []*analyze.ClassifiedVariable
	if sys.VoI != nil {
		if cv, ok := sys.ClassifiedOf(sys.VoI); ok {
			out = append(out, cv)
		}
	}
	out = append(out, sys.States...)
	out = append(out, sys.Constants...)
	out = append(out, sys.Variables...)
	return out
}

func severityName(s diag.Severity) string {
	switch s {
	case diag.SeverityAdvisory:
		return "ADVISORY"
	case diag.SeverityConstraint:
		return "CONSTRAINT"
	case diag.SeverityFatal:
		return "FATAL"
	default:
		return "?"
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Tab):
			m.current = (m.current + 1) % tabCount
		case key.Matches(msg, keys.ShiftTab):
			m.current = (m.current - 1 + tabCount) % tabCount
		}
	}

	var cmd tea.Cmd
	switch m.current {
	case tabComponents:
		m.componentsTable, cmd = m.componentsTable.Update(msg)
	case tabVariables:
		m.variablesTable, cmd = m.variablesTable.Update(msg)
	case tabDiagnostics:
		m.diagnosticsTable, cmd = m.diagnosticsTable.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s — %s", m.modelName, m.modelType))

	var tabs string
	for t := tab(0); t < tabCount; t++ {
		if t == m.current {
			tabs += activeTabStyle.Render(t.String())
		} else {
			tabs += inactiveTabStyle.Render(t.String())
		}
	}

	var content string
	switch m.current {
	case tabComponents:
		content = m.componentsTable.View()
	case tabVariables:
		content = m.variablesTable.View()
	case tabDiagnostics:
		content = m.diagnosticsTable.View()
	}

	help := helpStyle.Render("tab/shift+tab: switch view  •  q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, tabs, content, help)
}

var fixtureByName = map[string]func() *cellml.Model{
	"empty":                 fixtures.Empty,
	"dependent_eqns":        fixtures.DependentEquations,
	"underconstrained":      fixtures.Underconstrained,
	"overconstrained":       fixtures.Overconstrained,
	"double_initialization": fixtures.DoubleInitialization,
	"hodgkin_huxley_1952":   fixtures.HodgkinHuxley1952,
}

func main() {
	fixtureName := flag.String("fixture", "hodgkin_huxley_1952", "built-in fixture model to browse")
	flag.Parse()

	newCellmlModel, ok := fixtureByName[*fixtureName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown fixture %q\n", *fixtureName)
		os.Exit(1)
	}
	cellmlModel := newCellmlModel()

	ch := diag.New()
	eqres := equivalence.Build(cellmlModel, ch)
	equations := classify.Classify(cellmlModel, ch)
	sys := analyze.Analyze(eqres, equations, ch)
	ch.Sort()

	m := newModel(cellmlModel, sys, ch)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
