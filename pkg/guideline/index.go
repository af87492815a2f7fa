package guideline

// Index is the adjacency view of a Graph. Duplicate node ids keep the
// position of their first occurrence while the last record wins. Links
// whose endpoints are unknown still take part in adjacency.
type Index struct {
	nodes    map[string]*Node
	order    []string
	outgoing map[string][]Link
	incoming map[string][]Link
	links    []Link
}

// NewIndex builds the index for g. The graph is not modified.
func NewIndex(g *Graph) *Index {
	idx := &Index{
		nodes:    make(map[string]*Node, len(g.Nodes)),
		order:    make([]string, 0, len(g.Nodes)),
		outgoing: make(map[string][]Link),
		incoming: make(map[string][]Link),
		links:    g.Links,
	}

	for i := range g.Nodes {
		n := g.Nodes[i]
		if _, seen := idx.nodes[n.ID]; !seen {
			idx.order = append(idx.order, n.ID)
		}
		idx.nodes[n.ID] = &n
	}

	for _, l := range g.Links {
		idx.outgoing[l.Source] = append(idx.outgoing[l.Source], l)
		idx.incoming[l.Target] = append(idx.incoming[l.Target], l)
	}

	return idx
}

// Node returns the node with the given id.
func (idx *Index) Node(id string) (*Node, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// Nodes returns every distinct node in input order.
func (idx *Index) Nodes() []*Node {
	out := make([]*Node, len(idx.order))
	for i, id := range idx.order {
		out[i] = idx.nodes[id]
	}
	return out
}

// Links returns the links in input order.
func (idx *Index) Links() []Link {
	return idx.links
}

// Outgoing returns the links leaving id, in input order.
func (idx *Index) Outgoing(id string) []Link {
	return idx.outgoing[id]
}

// Incoming returns the links entering id, in input order.
func (idx *Index) Incoming(id string) []Link {
	return idx.incoming[id]
}

// Successors implements algorithms.Successors.
func (idx *Index) Successors(id string) []string {
	links := idx.outgoing[id]
	if len(links) == 0 {
		return nil
	}
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Target
	}
	return out
}

// TypeOf returns the type of id, or "" when the node is unknown.
func (idx *Index) TypeOf(id string) string {
	if n, ok := idx.nodes[id]; ok {
		return n.Type
	}
	return ""
}

// IDsOfType returns the ids of every node of type t, in input order.
func (idx *Index) IDsOfType(t string) []string {
	var out []string
	for _, id := range idx.order {
		if idx.nodes[id].Type == t {
			out = append(out, id)
		}
	}
	return out
}

// IDSet returns the ids of every node of type t as a set.
func (idx *Index) IDSet(t string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, id := range idx.IDsOfType(t) {
		set[id] = struct{}{}
	}
	return set
}

// Label returns the display label of id, falling back to the id itself.
func (idx *Index) Label(id string) string {
	if n, ok := idx.nodes[id]; ok {
		return n.DisplayLabel()
	}
	return id
}
