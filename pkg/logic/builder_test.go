package logic

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline/guidelinetest"
)

func TestBuild_Pneumonia(t *testing.T) {
	idx := guideline.NewIndex(guidelinetest.Pneumonia())

	expr, err := Build(idx, "g1")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := expr.String(); got != "AND(c1, c2)" {
		t.Errorf("Build() = %s, want AND(c1, c2)", got)
	}
	if expr.LogicID != "g1" {
		t.Errorf("LogicID = %q, want g1", expr.LogicID)
	}
}

func TestBuild_NestedAndPruned(t *testing.T) {
	idx := guideline.NewIndex(guidelinetest.Layered())

	expr, err := Build(idx, "or")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := expr.String(); got != "OR(NOT(AND(c1, c2)))" {
		t.Errorf("Build() = %s", got)
	}
}

func TestBuild_NonLogicAnchor(t *testing.T) {
	idx := guideline.NewIndex(guidelinetest.Pneumonia())

	for _, id := range []string{"root", "m1", "ghost"} {
		expr, err := Build(idx, id)
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", id, err)
		}
		if expr != nil {
			t.Errorf("Build(%s) = %s, want nil", id, expr)
		}
	}

	leaf, err := Build(idx, "c1")
	if err != nil || leaf == nil || !leaf.IsLeaf() {
		t.Errorf("Build(c1) = %v, %v; want leaf", leaf, err)
	}
}

func TestBuild_Cycle(t *testing.T) {
	idx := guideline.NewIndex(guidelinetest.Cyclic())

	_, err := Build(idx, "a")
	if !errors.Is(err, ErrCyclicStructure) {
		t.Fatalf("Expected ErrCyclicStructure, got %v", err)
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Expected *CycleError, got %T", err)
	}
	want := []string{"a", "b", "a"}
	if len(cycleErr.Path) != len(want) {
		t.Fatalf("Path = %v, want %v", cycleErr.Path, want)
	}
	for i := range want {
		if cycleErr.Path[i] != want[i] {
			t.Errorf("Path = %v, want %v", cycleErr.Path, want)
		}
	}
}

func TestBuild_SelfLoop(t *testing.T) {
	g := &guideline.Graph{
		Nodes: []guideline.Node{{ID: "g", Label: "OR", Type: guideline.TypeLogic}},
		Links: []guideline.Link{{Source: "g", Target: "g"}},
	}

	if _, err := Build(guideline.NewIndex(g), "g"); !errors.Is(err, ErrCyclicStructure) {
		t.Errorf("Expected ErrCyclicStructure, got %v", err)
	}
}

func TestBuild_DiamondIsNotCycle(t *testing.T) {
	g := &guideline.Graph{
		Nodes: []guideline.Node{
			{ID: "top", Label: "AND", Type: guideline.TypeLogic},
			{ID: "l", Label: "OR", Type: guideline.TypeLogic},
			{ID: "r", Label: "OR", Type: guideline.TypeLogic},
			{ID: "shared", Label: "NOT", Type: guideline.TypeLogic},
			{ID: "c", Type: guideline.TypeCriteria},
		},
		Links: []guideline.Link{
			{Source: "top", Target: "l"},
			{Source: "top", Target: "r"},
			{Source: "l", Target: "shared"},
			{Source: "r", Target: "shared"},
			{Source: "shared", Target: "c"},
		},
	}

	expr, err := Build(guideline.NewIndex(g), "top")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := expr.String(); got != "AND(OR(NOT(c)), OR(NOT(c)))" {
		t.Errorf("Build() = %s", got)
	}
}
