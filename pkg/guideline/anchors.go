package guideline

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-guidelines/pkg/algorithms"
)

// unreachable ranks candidates the root cannot reach behind every
// reachable one.
const unreachable = math.MaxInt32

// Anchors are the entry points of the semantic subtrees of a graph. Empty
// strings mean "none".
type Anchors struct {
	Root     string `json:"root"`
	Methods  string `json:"methods"`
	Criteria string `json:"criteria"`
}

// HasRoot reports whether a root node was found.
func (a Anchors) HasRoot() bool { return a.Root != "" }

// HasCriteria reports whether a criteria subtree was found.
func (a Anchors) HasCriteria() bool { return a.Criteria != "" }

// FindRoot returns the id of the first node of type root in input order.
func (idx *Index) FindRoot() (string, bool) {
	for _, id := range idx.order {
		if idx.nodes[id].Type == TypeRoot {
			return id, true
		}
	}
	return "", false
}

// DistanceBFS returns the hop distance from start to every reachable id.
func (idx *Index) DistanceBFS(start string) map[string]int {
	return algorithms.Distances(idx, start)
}

// Descendants returns the ids reachable from start. start is only part of
// the result when it lies on a cycle.
func (idx *Index) Descendants(start string) map[string]struct{} {
	return algorithms.Descendants(idx, start)
}

// FindMethodsAnchor picks the logic node closest to root whose subtree
// contains a method. It falls back to root.
func (idx *Index) FindMethodsAnchor(root string) string {
	methods := idx.IDSet(TypeMethod)
	dist := idx.DistanceBFS(root)

	var candidates []string
	for _, id := range idx.IDsOfType(TypeLogic) {
		if algorithms.Intersects(idx.Descendants(id), methods) {
			candidates = append(candidates, id)
		}
	}
	if best, ok := nearest(candidates, dist); ok {
		return best
	}
	return root
}

// FindCriteriaAnchor picks the logic node nearest to the methods anchor
// whose subtree contains criteria. The anchor itself qualifies at distance
// zero. It returns false when no criteria hang below the methods anchor
// and the methods anchor when no logic node qualifies.
func (idx *Index) FindCriteriaAnchor(methodsAnchor string) (string, bool) {
	criteria := idx.IDSet(TypeCriteria)
	if !algorithms.Intersects(idx.Descendants(methodsAnchor), criteria) {
		return "", false
	}

	dist := idx.DistanceBFS(methodsAnchor)
	var candidates []string
	for _, id := range idx.IDsOfType(TypeLogic) {
		if _, reachable := dist[id]; !reachable {
			continue
		}
		if algorithms.Intersects(idx.Descendants(id), criteria) {
			candidates = append(candidates, id)
		}
	}
	if best, ok := nearest(candidates, dist); ok {
		return best, true
	}
	return methodsAnchor, true
}

// ResolveAnchors runs root, methods and criteria resolution in sequence.
func (idx *Index) ResolveAnchors() Anchors {
	root, ok := idx.FindRoot()
	if !ok {
		return Anchors{}
	}
	a := Anchors{Root: root, Methods: idx.FindMethodsAnchor(root)}
	if c, ok := idx.FindCriteriaAnchor(a.Methods); ok {
		a.Criteria = c
	}
	return a
}

// nearest returns the candidate with the smallest distance; ties keep the
// input order of candidates.
func nearest(candidates []string, dist map[string]int) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	rank := func(id string) int {
		if d, ok := dist[id]; ok {
			return d
		}
		return unreachable
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return rank(candidates[i]) < rank(candidates[j])
	})
	return candidates[0], true
}
