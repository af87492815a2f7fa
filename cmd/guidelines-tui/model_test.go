package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-guidelines/pkg/convert"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline/guidelinetest"
)

func writeGraph(t *testing.T, g *guideline.Graph) string {
	t.Helper()
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// loaded runs the initial load synchronously.
func loaded(t *testing.T, path string) model {
	t.Helper()
	m := initialModel(convert.New(nil), path)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	msg := m.Init()()
	next, _ = next.Update(msg)
	return next.(model)
}

func TestLoad(t *testing.T) {
	m := loaded(t, writeGraph(t, guidelinetest.Pneumonia()))

	if m.messageErr {
		t.Fatalf("unexpected error message %q", m.message)
	}
	if m.snap == nil || len(m.snap.result.Triples) != 6 {
		t.Fatalf("expected 6 triples, got %+v", m.snap)
	}
	if rows := m.tripleTable.Rows(); len(rows) != 6 || rows[0][1] != "диагноз" {
		t.Errorf("unexpected triple rows %v", rows)
	}
	if rows := m.idTable.Rows(); len(rows) != 5 || rows[0][0] != "root" {
		t.Errorf("identifier rows should follow node order, got %v", rows)
	}
}

func TestLoad_Errors(t *testing.T) {
	m := loaded(t, writeGraph(t, guidelinetest.Cyclic()))
	if !m.messageErr || !strings.Contains(m.message, "cyclic criteria structure") {
		t.Errorf("expected cycle error, got %q", m.message)
	}

	m = loaded(t, filepath.Join(t.TempDir(), "absent.json"))
	if !m.messageErr {
		t.Error("expected error for a missing file")
	}
	if !strings.Contains(m.View(), "No graph loaded") {
		t.Error("summary should report that nothing is loaded")
	}
}

func TestTabNavigation(t *testing.T) {
	m := loaded(t, writeGraph(t, guidelinetest.Pneumonia()))

	tab := tea.KeyMsg{Type: tea.KeyTab}
	shiftTab := tea.KeyMsg{Type: tea.KeyShiftTab}

	for _, want := range []view{triplesView, ontologyView, identifiersView, summaryView} {
		next, _ := m.Update(tab)
		m = next.(model)
		if m.currentView != want {
			t.Fatalf("currentView = %d, want %d", m.currentView, want)
		}
	}

	next, _ := m.Update(shiftTab)
	if got := next.(model).currentView; got != identifiersView {
		t.Errorf("shift+tab from summary = %d, want %d", got, identifiersView)
	}
}

func TestViews(t *testing.T) {
	m := loaded(t, writeGraph(t, guidelinetest.Pneumonia()))

	summary := m.View()
	for _, want := range []string{"doc-1", "Root:", "Degraded:  false", "рекомендуется"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}

	m.currentView = ontologyView
	if !strings.Contains(m.View(), "@prefix ex:") {
		t.Error("ontology view should show the Turtle text")
	}

	m.currentView = triplesView
	if !strings.Contains(m.View(), "Antibiotics") {
		t.Error("triples view should list the method")
	}
}

func TestReloadAndQuit(t *testing.T) {
	m := loaded(t, writeGraph(t, guidelinetest.Pneumonia()))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("reload should return a load command")
	}
	if _, ok := cmd().(loadedMsg); !ok {
		t.Error("reload command should produce a loadedMsg")
	}
	if next.(model).message != "Reloading..." {
		t.Errorf("message = %q", next.(model).message)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
