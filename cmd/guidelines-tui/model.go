package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-guidelines/pkg/convert"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/triples"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	summaryView view = iota
	triplesView
	ontologyView
	identifiersView
	viewCount
)

var tabNames = []string{"Summary", "Triples", "Ontology", "Identifiers"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Reload   key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload file"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Reload},
		{k.Up, k.Down},
		{k.Quit},
	}
}

// snapshot is one interpretation of the graph file.
type snapshot struct {
	graph   *guideline.Graph
	result  *triples.Result
	turtle  string
	elapsed time.Duration
}

// loadedMsg carries a finished load.
type loadedMsg struct {
	snap *snapshot
	err  error
}

type model struct {
	svc         *convert.Service
	path        string
	snap        *snapshot
	currentView view
	tripleTable table.Model
	idTable     table.Model
	ontology    viewport.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
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
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(svc *convert.Service, path string) model {
	return model{
		svc:  svc,
		path: path,
		tripleTable: newTable([]table.Column{
			{Title: "Subject", Width: 30},
			{Title: "Predicate", Width: 22},
			{Title: "Object", Width: 30},
		}),
		idTable: newTable([]table.Column{
			{Title: "Node", Width: 20},
			{Title: "Identifier", Width: 60},
		}),
		ontology: viewport.New(80, 20),
		help:     help.New(),
		keys:     keys,
	}
}

// loadCmd reads and interprets the graph file.
func loadCmd(svc *convert.Service, path string) tea.Cmd {
	return func() tea.Msg {
		snap, err := load(svc, path)
		return loadedMsg{snap: snap, err: err}
	}
}

func load(svc *convert.Service, path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g guideline.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid graph document: %w", err)
	}

	ctx := context.Background()
	start := time.Now()
	res, err := svc.Triples(ctx, &g)
	if err != nil {
		return nil, err
	}
	turtle, err := svc.Turtle(ctx, &g)
	if err != nil {
		return nil, err
	}
	return &snapshot{graph: &g, result: res, turtle: turtle, elapsed: time.Since(start)}, nil
}

func (m model) Init() tea.Cmd {
	return loadCmd(m.svc, m.path)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ontology.Width = max(msg.Width-6, 20)
		m.ontology.Height = max(msg.Height-12, 5)

	case loadedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Load failed: %v", msg.err)
			m.messageErr = true
			return m, nil
		}
		m.setSnapshot(msg.snap)
		m.message = fmt.Sprintf("Loaded %s: %d triples in %s", m.path, len(msg.snap.result.Triples), msg.snap.elapsed.Round(time.Microsecond))
		m.messageErr = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.message = "Reloading..."
			m.messageErr = false
			return m, loadCmd(m.svc, m.path)
		}
	}

	// Update focused component
	switch m.currentView {
	case triplesView:
		m.tripleTable, cmd = m.tripleTable.Update(msg)
		cmds = append(cmds, cmd)
	case identifiersView:
		m.idTable, cmd = m.idTable.Update(msg)
		cmds = append(cmds, cmd)
	case ontologyView:
		m.ontology, cmd = m.ontology.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setSnapshot(snap *snapshot) {
	m.snap = snap

	rows := make([]table.Row, 0, len(snap.result.Triples))
	for _, t := range snap.result.Triples {
		rows = append(rows, table.Row{t.Subject, t.Predicate, t.Object})
	}
	m.tripleTable.SetRows(rows)

	// Identifiers follow the node order of the file.
	ids := make([]table.Row, 0, len(snap.result.IRIs))
	for _, n := range snap.graph.Nodes {
		if iri, ok := snap.result.IRIs[n.ID]; ok {
			ids = append(ids, table.Row{n.ID, iri})
		}
	}
	m.idTable.SetRows(ids)

	m.ontology.SetContent(snap.turtle)
	m.ontology.GotoTop()
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Guideline Converter"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case summaryView:
		s.WriteString(m.renderSummary())
	case triplesView:
		s.WriteString(m.renderTable("Triples", m.tripleTable))
	case ontologyView:
		s.WriteString(m.renderOntology())
	case identifiersView:
		s.WriteString(m.renderTable("Stable Identifiers", m.idTable))
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	rendered := make([]string, 0, len(tabNames))
	for i, tab := range tabNames {
		if view(i) == m.currentView {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderSummary() string {
	if m.snap == nil {
		return contentStyle.Render("No graph loaded")
	}
	res := m.snap.result
	doc := m.snap.graph.Doc

	anchor := func(id string) string {
		if id == "" {
			return "-"
		}
		return id
	}
	expr := "-"
	if res.Expr != nil {
		expr = res.Expr.String()
	}

	docContent := fmt.Sprintf(`Document
━━━━━━━━━━━━━━━
ID:        %s
Page:      %s
Nodes:     %d
Links:     %d`,
		anchor(doc.ID),
		anchor(doc.Page),
		len(m.snap.graph.Nodes),
		len(m.snap.graph.Links),
	)

	resultContent := fmt.Sprintf(`Interpretation
━━━━━━━━━━━━━━━
Root:      %s
Methods:   %s
Criteria:  %s
Triples:   %d
Degraded:  %v
Predicates: %s

Criteria expression:
%s`,
		anchor(res.Anchors.Root),
		anchor(res.Anchors.Methods),
		anchor(res.Anchors.Criteria),
		len(res.Triples),
		res.Degraded,
		strings.Join(predicates(res), ", "),
		expr,
	)

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(docContent),
		statsBoxStyle.Render(resultContent),
	))
}

// predicates lists the distinct predicates of res in first-use order.
func predicates(res *triples.Result) []string {
	var out []string
	for _, t := range res.Triples {
		if !slices.Contains(out, t.Predicate) {
			out = append(out, t.Predicate)
		}
	}
	return out
}

func (m model) renderTable(title string, t table.Model) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n\n")
	s.WriteString(t.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓ • Press 'r' to reload"))
	return contentStyle.Render(s.String())
}

func (m model) renderOntology() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Ontology (Turtle)"))
	s.WriteString("\n\n")
	s.WriteString(m.ontology.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%%", m.ontology.ScrollPercent()*100)))
	return contentStyle.Render(s.String())
}
