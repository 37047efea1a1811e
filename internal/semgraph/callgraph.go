package semgraph

import (
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/tast"
)

// CallGraph is the inter-procedural call graph: an edge Caller->Callee
// per call site, direction matching "caller depends on callee" (the
// same direction the driver's topological sort walks for codegen
// ordering and the optimizer's inliner walks for bottom-up inlining).
type CallGraph struct {
	Edges map[ids.SymbolId][]ids.SymbolId
}

// BuildCallGraph walks every function and method body in f, recording
// one edge per ECall whose callee resolved to a known symbol (indirect
// calls through a closure value have no Sym and are omitted — the
// safety analyses fall back to conservative escape treatment for those,
// per §4.5's Unknown classification).
func BuildCallGraph(f *tast.File) *CallGraph {
	g := &CallGraph{Edges: make(map[ids.SymbolId][]ids.SymbolId)}
	for _, fn := range f.Functions {
		walkCalls(g, fn.Sym, fn.Body)
	}
	for _, cls := range f.Classes {
		for _, m := range cls.Methods {
			walkCalls(g, m.Sym, m.Body)
		}
	}
	return g
}

func walkCalls(g *CallGraph, caller ids.SymbolId, e *tast.Expr) {
	if e == nil {
		return
	}
	if e.Kind == tast.ECall && e.Sym != 0 {
		g.Edges[caller] = append(g.Edges[caller], e.Sym)
	}
	for _, child := range e.Children {
		walkCalls(g, caller, child)
	}
}

// Callees returns the set of functions caller directly calls.
func (g *CallGraph) Callees(caller ids.SymbolId) []ids.SymbolId { return g.Edges[caller] }
