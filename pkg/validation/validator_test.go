package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline/guidelinetest"
)

func TestValidateGraph(t *testing.T) {
	manyNodes := make([]guideline.Node, 10001)
	for i := range manyNodes {
		manyNodes[i] = guideline.Node{ID: "n"}
	}

	tests := []struct {
		name       string
		graph      *guideline.Graph
		wantErr    bool
		errorField string
	}{
		{name: "reference scenario", graph: guidelinetest.Pneumonia()},
		{name: "empty graph", graph: &guideline.Graph{}},
		{name: "nil graph", graph: nil, wantErr: true},
		{
			name:       "node without id",
			graph:      &guideline.Graph{Nodes: []guideline.Node{{ID: "a"}, {Label: "x"}}},
			wantErr:    true,
			errorField: "Graph.Nodes[1].ID",
		},
		{
			name:       "link without target",
			graph:      &guideline.Graph{Links: []guideline.Link{{Source: "a"}}},
			wantErr:    true,
			errorField: "Graph.Links[0].Target",
		},
		{
			name:       "too many nodes",
			graph:      &guideline.Graph{Nodes: manyNodes},
			wantErr:    true,
			errorField: "Graph.Nodes",
		},
		{
			name:       "oversized label",
			graph:      &guideline.Graph{Nodes: []guideline.Node{{ID: "a", Label: strings.Repeat("x", 4097)}}},
			wantErr:    true,
			errorField: "Graph.Nodes[0].Label",
		},
		{
			name:       "oversized value",
			graph:      &guideline.Graph{Nodes: []guideline.Node{{ID: "a", Value: guideline.StringPtr(strings.Repeat("x", 4097))}}},
			wantErr:    true,
			errorField: "Graph.Nodes[0].Value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraph(tt.graph)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidGraph) {
				t.Fatalf("Expected ErrInvalidGraph, got %v", err)
			}
			if tt.errorField != "" && !strings.Contains(err.Error(), tt.errorField) {
				t.Errorf("Expected error to mention %s, got %v", tt.errorField, err)
			}
		})
	}
}
