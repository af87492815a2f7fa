package logic

import "github.com/dd0wney/cluso-guidelines/pkg/guideline"

// Source is the read access the builder needs over a graph.
type Source interface {
	Node(id string) (*guideline.Node, bool)
	Successors(id string) []string
}

// Build constructs the expression rooted at anchor. Criteria nodes become
// leaves, logic nodes become operators over their logic and criteria
// successors, and anything else is pruned. It returns nil when anchor
// itself yields no expression.
//
// Sub-expressions shared by two paths are built once per path. Reaching a
// logic node that is already on the current path fails with a *CycleError.
func Build(src Source, anchor string) (*Expr, error) {
	b := &builder{src: src, onPath: make(map[string]bool)}
	return b.build(anchor)
}

type builder struct {
	src    Source
	onPath map[string]bool
	path   []string
}

func (b *builder) build(id string) (*Expr, error) {
	n, ok := b.src.Node(id)
	if !ok {
		return nil, nil
	}
	switch n.Type {
	case guideline.TypeCriteria:
		return Leaf(id), nil
	case guideline.TypeLogic:
	default:
		return nil, nil
	}

	if b.onPath[id] {
		cycle := append(append([]string(nil), b.path...), id)
		return nil, &CycleError{Path: cycle}
	}
	b.onPath[id] = true
	b.path = append(b.path, id)
	defer func() {
		delete(b.onPath, id)
		b.path = b.path[:len(b.path)-1]
	}()

	op := NewOp(ParseOperator(n.Label), id)
	for _, childID := range b.src.Successors(id) {
		child, ok := b.src.Node(childID)
		if !ok || (child.Type != guideline.TypeLogic && child.Type != guideline.TypeCriteria) {
			continue
		}
		arg, err := b.build(childID)
		if err != nil {
			return nil, err
		}
		if arg != nil {
			op.Args = append(op.Args, arg)
		}
	}
	return op, nil
}
