package logic

// NNF rewrites e so that negation only ever applies to leaves. Operators
// introduced by the rewrite carry the originating id of the negation they
// replace. A negation without arguments is kept as is. NNF is idempotent
// and never mutates e.
func NNF(e *Expr) *Expr {
	if e == nil || e.Kind == KindLeaf {
		return e
	}

	args := make([]*Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = NNF(a)
	}
	if e.Op != Not {
		return NewOp(e.Op, e.LogicID, args...)
	}

	switch {
	case len(args) == 0:
		return NewOp(Not, e.LogicID)
	case len(args) > 1:
		return NNF(NewOp(Not, e.LogicID, NewOp(And, e.LogicID, args...)))
	}

	x := args[0]
	if x.Kind == KindLeaf {
		return NewOp(Not, e.LogicID, x)
	}

	switch x.Op {
	case Not:
		if len(x.Args) == 0 {
			return NewOp(Not, e.LogicID)
		}
		// x is already normalized, so its argument is a leaf.
		return x.Args[0]
	case And:
		return NewOp(Or, e.LogicID, negateEach(x.Args, e.LogicID)...)
	default:
		return NewOp(And, e.LogicID, negateEach(x.Args, e.LogicID)...)
	}
}

func negateEach(args []*Expr, logicID string) []*Expr {
	out := make([]*Expr, len(args))
	for i, a := range args {
		out[i] = NNF(NewOp(Not, logicID, a))
	}
	return out
}

// IsNNF reports whether no negation in e has a compound argument.
func IsNNF(e *Expr) bool {
	if e == nil {
		return true
	}
	ok := true
	e.Walk(func(x *Expr) {
		if x.Kind == KindOp && x.Op == Not {
			for _, a := range x.Args {
				if a.Kind != KindLeaf {
					ok = false
				}
			}
			if len(x.Args) > 1 {
				ok = false
			}
		}
	})
	return ok
}
