// Package triples emits the flat subject-predicate-object view of a
// decision graph: the diagnosis, its recommended methods, the criteria
// they use and the logical structure combining those criteria.
package triples

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/identity"
	"github.com/dd0wney/cluso-guidelines/pkg/logic"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

// Result is the outcome of interpreting one graph.
type Result struct {
	Triples []guideline.Triple
	// IRIs maps node ids onto prefixed identifiers (ex:...).
	IRIs    map[string]string
	Anchors guideline.Anchors
	// Expr is the criteria expression in negation normal form, nil when
	// the graph has no criteria branch.
	Expr *logic.Expr
	// Degraded is set when no criteria branch was found and only the
	// diagnosis, methods and criteria literals were emitted.
	Degraded bool

	index *guideline.Index
}

// Index returns the adjacency index the result was computed from.
func (r *Result) Index() *guideline.Index { return r.index }

// Generate interprets g. A graph without a root yields an empty result.
// The only error is a cyclic criteria structure, which wraps
// logic.ErrCyclicStructure.
func Generate(g *guideline.Graph, v *vocabulary.Vocabulary) (*Result, error) {
	idx := guideline.NewIndex(g)
	res := &Result{
		Triples: []guideline.Triple{},
		IRIs:    map[string]string{},
		index:   idx,
	}

	anchors := idx.ResolveAnchors()
	if !anchors.HasRoot() {
		return res, nil
	}
	res.Anchors = anchors
	res.IRIs = NodeIRIs(idx, g.Doc.ID)

	e := &emitter{idx: idx, vocab: v}
	rootLabel := diagnosisLabel(idx, anchors.Root, v)
	methods := methodsUnder(idx, anchors.Methods)

	e.add(v.Patients.Label, v.Predicates.Diagnosis, rootLabel)
	for _, m := range methods {
		e.add(rootLabel, v.Predicates.Recommended, m.DisplayLabel())
	}

	if !anchors.HasCriteria() {
		e.criteriaLiterals()
		res.Triples = Dedupe(e.out)
		res.Degraded = true
		return res, nil
	}

	expr, err := logic.Build(idx, anchors.Criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to build criteria expression: %w", err)
	}
	expr = logic.NNF(expr)
	res.Expr = expr

	anchorLabel := idx.Label(anchors.Criteria)
	for _, m := range methods {
		e.add(m.DisplayLabel(), v.Predicates.Used, anchorLabel)
	}
	e.roleEdges()
	e.criteriaLiterals()
	if expr != nil && !expr.IsLeaf() {
		e.structure(expr)
	}

	res.Triples = Dedupe(e.out)
	return res, nil
}

// diagnosisLabel names the diagnosis. An unlabelled root is called by its class
// name rather than its id.
func diagnosisLabel(idx *guideline.Index, root string, v *vocabulary.Vocabulary) string {
	if n, ok := idx.Node(root); ok && n.Label != "" {
		return n.Label
	}
	return v.Classes.Root
}

// NodeIRIs derives the identifier of every node of idx within docID.
func NodeIRIs(idx *guideline.Index, docID string) map[string]string {
	iris := make(map[string]string)
	for _, n := range idx.Nodes() {
		iris[n.ID] = "ex:" + identity.Derive(docID, n.Type, n.DisplayLabel(), n.ValueText(), n.NoteText())
	}
	return iris
}

// methodsUnder lists the method nodes reachable from anchor, or the anchor
// itself, in input order. With none found it falls back to every method.
func methodsUnder(idx *guideline.Index, anchor string) []*guideline.Node {
	scope := idx.Descendants(anchor)
	scope[anchor] = struct{}{}

	var methods, all []*guideline.Node
	for _, n := range idx.Nodes() {
		if n.Type != guideline.TypeMethod {
			continue
		}
		all = append(all, n)
		if _, ok := scope[n.ID]; ok {
			methods = append(methods, n)
		}
	}
	if len(methods) == 0 {
		return all
	}
	return methods
}

type emitter struct {
	idx   *guideline.Index
	vocab *vocabulary.Vocabulary
	out   []guideline.Triple
}

func (e *emitter) add(subject, predicate, object string) {
	e.out = append(e.out, guideline.Triple{Subject: subject, Predicate: predicate, Object: object})
}

func (e *emitter) criteriaLiterals() {
	for _, n := range e.idx.Nodes() {
		if n.Type != guideline.TypeCriteria {
			continue
		}
		if v := n.ValueText(); v != "" {
			e.add(n.DisplayLabel(), e.vocab.Predicates.Value, v)
		}
		if note := n.NoteText(); note != "" {
			e.add(n.DisplayLabel(), e.vocab.Predicates.Note, note)
		}
	}
}

// roleEdges emits the categorising role of every logic -> criteria link.
func (e *emitter) roleEdges() {
	for _, l := range e.idx.Links() {
		if !e.vocab.IsRole(l.Predicate) {
			continue
		}
		src, ok := e.idx.Node(l.Source)
		if !ok || src.Type != guideline.TypeLogic {
			continue
		}
		dst, ok := e.idx.Node(l.Target)
		if !ok || dst.Type != guideline.TypeCriteria {
			continue
		}
		e.add(src.DisplayLabel(), strings.TrimSpace(l.Predicate), dst.DisplayLabel())
	}
}

// structure emits one connective triple per operand, depth-first.
func (e *emitter) structure(op *logic.Expr) {
	group := e.idx.Label(op.LogicID)
	pred := e.vocab.Connective(op.Op.String())
	for _, arg := range op.Args {
		if arg.IsLeaf() {
			e.add(group, pred, e.idx.Label(arg.CriteriaID))
			continue
		}
		e.add(group, pred, e.idx.Label(arg.LogicID))
		e.structure(arg)
	}
}
