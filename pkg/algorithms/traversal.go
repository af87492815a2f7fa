package algorithms

import "container/list"

// Successors exposes the outgoing neighbours of a node by id. Neighbours
// may reference ids that have no node record; traversal still follows them.
type Successors interface {
	Successors(id string) []string
}

// Distances performs an unweighted BFS from startID over outgoing edges and
// returns the hop count of every reached node, including startID at 0.
// Each node is enqueued at most once, so cycles terminate.
func Distances(g Successors, startID string) map[string]int {
	dist := map[string]int{startID: 0}
	queue := list.New()
	queue.PushBack(startID)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(string)
		for _, neighborID := range g.Successors(currentID) {
			if _, seen := dist[neighborID]; seen {
				continue
			}
			dist[neighborID] = dist[currentID] + 1
			queue.PushBack(neighborID)
		}
	}

	return dist
}

// Descendants returns every id reachable from startID through at least one
// edge. startID itself is only included when it lies on a cycle.
func Descendants(g Successors, startID string) map[string]struct{} {
	seen := make(map[string]struct{})
	queue := list.New()
	queue.PushBack(startID)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(string)
		for _, neighborID := range g.Successors(currentID) {
			if _, ok := seen[neighborID]; ok {
				continue
			}
			seen[neighborID] = struct{}{}
			queue.PushBack(neighborID)
		}
	}

	return seen
}

// Intersects reports whether any id of set is contained in other.
func Intersects(set, other map[string]struct{}) bool {
	if len(other) < len(set) {
		set, other = other, set
	}
	for id := range set {
		if _, ok := other[id]; ok {
			return true
		}
	}
	return false
}
