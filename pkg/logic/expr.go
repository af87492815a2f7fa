package logic

import "strings"

// Kind discriminates the two shapes of an expression.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindOp
)

// Expr is a node of the criteria expression tree. A KindLeaf carries the
// id of a criteria node; a KindOp carries a connective, its ordered
// arguments and the id of the logic node it originated from. Rewritten
// operators keep the originating id so they can still be labelled.
type Expr struct {
	Kind       Kind
	CriteriaID string
	Op         Operator
	Args       []*Expr
	LogicID    string
}

// Leaf returns a leaf referencing a criteria node.
func Leaf(criteriaID string) *Expr {
	return &Expr{Kind: KindLeaf, CriteriaID: criteriaID}
}

// NewOp returns an operator node.
func NewOp(op Operator, logicID string, args ...*Expr) *Expr {
	return &Expr{Kind: KindOp, Op: op, LogicID: logicID, Args: args}
}

// IsLeaf reports whether e is a leaf.
func (e *Expr) IsLeaf() bool { return e.Kind == KindLeaf }

// Walk visits e and its descendants depth-first, parents before children.
func (e *Expr) Walk(fn func(*Expr)) {
	fn(e)
	for _, a := range e.Args {
		a.Walk(fn)
	}
}

// String renders e in prefix notation, e.g. AND(c1, NOT(c2)).
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	if e.Kind == KindLeaf {
		sb.WriteString(e.CriteriaID)
		return
	}
	sb.WriteString(e.Op.String())
	sb.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		a.write(sb)
	}
	sb.WriteByte(')')
}
