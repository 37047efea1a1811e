package semgraph

import (
	"sort"

	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/tast"
)

// OwnershipKind classifies a variable's relationship to the value it
// names at a given program point (§3.7).
type OwnershipKind int

const (
	Owned OwnershipKind = iota
	Borrowed
	BorrowedMut
	Shared
	Moved
	Unknown
)

// OwnershipNode is one variable's ownership state at the point the
// walk reached it.
type OwnershipNode struct {
	Var   ids.SymbolId
	Kind  OwnershipKind
	Block ids.IrBlockId
}

// OwnershipEdgeKind names why ownership transferred between two nodes.
type OwnershipEdgeKind int

const (
	EdgeMove OwnershipEdgeKind = iota
	EdgeBorrow
	EdgeBorrowMut
)

// OwnershipEdge records a move or borrow from From to To, annotated
// with the lifetime region the safety analyses' lifetime solver (§4.5)
// assigns that borrow — left zero (the "no region assigned yet" value)
// until the lifetime solver runs, since building the ownership graph
// happens before lifetime inference.
type OwnershipEdge struct {
	From   ids.SymbolId
	To     ids.SymbolId
	Kind   OwnershipEdgeKind
	Region ids.RegionId
	Block  ids.IrBlockId
}

// OwnershipGraph is one function's ownership graph: a node per variable
// reference the walk observes, plus move/borrow edges between them.
type OwnershipGraph struct {
	Nodes []OwnershipNode
	Edges []OwnershipEdge
}

// BuildOwnershipGraph walks cfg's blocks in order, classifying each
// ELet/EAssign as a move (the source variable's ownership transfers to
// the target) and each plain read of an already-owned variable passed
// as a call argument as a borrow (conservative: the checker does not
// yet distinguish by-value-copy primitive types from by-reference
// class instances, so every argument read is recorded as Borrowed,
// which the safety analyses' ownership analyzer narrows further using
// each argument's declared type).
func BuildOwnershipGraph(cfg *CFG) *OwnershipGraph {
	g := &OwnershipGraph{}
	// Block ids are allocated in visitation order by BuildCFG, so a
	// numeric sort reproduces program order deterministically — needed
	// since cfg.Blocks is a map and Go map iteration order is randomized,
	// which would otherwise make edge order (and therefore use-after-move
	// detection, which reads edges in sequence) non-reproducible across
	// runs of the same compilation.
	order := make([]ids.IrBlockId, 0, len(cfg.Blocks))
	for id := range cfg.Blocks {
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, id := range order {
		b := cfg.Blocks[id]
		for _, stmt := range b.Stmts {
			walkOwnership(g, b.Id, stmt)
		}
	}
	return g
}

func walkOwnership(g *OwnershipGraph, block ids.IrBlockId, e *tast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case tast.ELet:
		// Children: [nil-or-value-expr, body]; the bound symbol owns its
		// initializer's value outright (a fresh binding, not a transfer
		// from an existing variable, unless the initializer is itself a
		// bare identifier, which is the move case below).
		g.Nodes = append(g.Nodes, OwnershipNode{Var: e.Sym, Kind: Owned, Block: block})
		if len(e.Children) > 0 && e.Children[0] != nil && e.Children[0].Kind == tast.EIdent {
			g.Edges = append(g.Edges, OwnershipEdge{From: e.Children[0].Sym, To: e.Sym, Kind: EdgeMove, Block: block})
		}
	case tast.EAssign:
		if len(e.Children) == 2 && e.Children[0].Kind == tast.EIdent && e.Children[1].Kind == tast.EIdent {
			g.Edges = append(g.Edges, OwnershipEdge{From: e.Children[1].Sym, To: e.Children[0].Sym, Kind: EdgeMove, Block: block})
		}
	case tast.ECall:
		for _, arg := range e.Children {
			if arg != nil && arg.Kind == tast.EIdent {
				g.Edges = append(g.Edges, OwnershipEdge{From: arg.Sym, To: 0, Kind: EdgeBorrow, Block: block})
			}
		}
	}
	for _, child := range e.Children {
		walkOwnership(g, block, child)
	}
}
