package algorithms

import "testing"

type adjacency map[string][]string

func (a adjacency) Successors(id string) []string { return a[id] }

func TestDistances_LinearChain(t *testing.T) {
	// A -> B -> C -> D
	g := adjacency{"A": {"B"}, "B": {"C"}, "C": {"D"}}

	dist := Distances(g, "A")

	expected := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
	if len(dist) != len(expected) {
		t.Fatalf("Expected %d reached nodes, got %d: %v", len(expected), len(dist), dist)
	}
	for id, want := range expected {
		if got := dist[id]; got != want {
			t.Errorf("dist[%s] = %d, want %d", id, got, want)
		}
	}
}

func TestDistances_ShortestWins(t *testing.T) {
	// A -> B -> C and A -> C
	g := adjacency{"A": {"B", "C"}, "B": {"C"}}

	dist := Distances(g, "A")
	if dist["C"] != 1 {
		t.Errorf("dist[C] = %d, want 1", dist["C"])
	}
}

func TestDistances_CycleTerminates(t *testing.T) {
	g := adjacency{"A": {"B"}, "B": {"C"}, "C": {"A"}}

	dist := Distances(g, "A")
	if len(dist) != 3 {
		t.Errorf("Expected 3 reached nodes, got %d", len(dist))
	}
	if dist["A"] != 0 {
		t.Errorf("start node distance = %d, want 0", dist["A"])
	}
}

func TestDistances_UnknownTargetsFollowed(t *testing.T) {
	g := adjacency{"A": {"ghost"}}

	dist := Distances(g, "A")
	if _, ok := dist["ghost"]; !ok {
		t.Error("Expected dangling target to be reached")
	}
}

func TestDescendants(t *testing.T) {
	tests := []struct {
		name  string
		graph adjacency
		start string
		want  []string
	}{
		{name: "isolated", graph: adjacency{}, start: "A", want: nil},
		{name: "tree", graph: adjacency{"A": {"B", "C"}, "C": {"D"}}, start: "A", want: []string{"B", "C", "D"}},
		{name: "self loop includes start", graph: adjacency{"A": {"A"}}, start: "A", want: []string{"A"}},
		{name: "cycle", graph: adjacency{"A": {"B"}, "B": {"A"}}, start: "A", want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Descendants(tt.graph, tt.start)
			if len(got) != len(tt.want) {
				t.Fatalf("Descendants() = %v, want %v", got, tt.want)
			}
			for _, id := range tt.want {
				if _, ok := got[id]; !ok {
					t.Errorf("Descendants() missing %s", id)
				}
			}
		})
	}
}

func TestIntersects(t *testing.T) {
	a := map[string]struct{}{"x": {}, "y": {}}
	b := map[string]struct{}{"y": {}}
	c := map[string]struct{}{"z": {}}

	if !Intersects(a, b) {
		t.Error("Expected a and b to intersect")
	}
	if Intersects(a, c) {
		t.Error("Expected a and c to be disjoint")
	}
	if Intersects(nil, a) {
		t.Error("Expected empty set to intersect nothing")
	}
}
