// Command guidelines-tui is a terminal browser for the triples, ontology
// and identifiers of a guideline graph file.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-guidelines/pkg/convert"
	"github.com/dd0wney/cluso-guidelines/pkg/logging"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: guidelines-tui <graph.json> [vocabulary.yaml]")
		os.Exit(2)
	}

	vocabPath := ""
	if len(os.Args) > 2 {
		vocabPath = os.Args[2]
	}
	vocab, err := vocabulary.Load(vocabPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load vocabulary: %v\n", err)
		os.Exit(1)
	}

	svc := convert.New(vocab, convert.WithLogger(logging.NewNopLogger()))
	p := tea.NewProgram(initialModel(svc, os.Args[1]), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
