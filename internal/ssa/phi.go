package ssa

import "github.com/darmie/rayzor/internal/ids"

// VarId names a source-level variable (a symtab.SymbolId in practice,
// kept opaque here so this package doesn't depend on symtab) being
// promoted to SSA form.
type VarId = ids.SymbolId

// Defs records, per block, which variables that block assigns — the
// input the minimal SSA construction needs to place phi nodes. Callers
// build this from their own IR (HIR's statement list, or an analysis
// CFG) before calling PlacePhis.
type Defs map[ids.IrBlockId][]VarId

// PhiPlacement is the result of the iterated-dominance-frontier phi
// insertion: for each block, the set of variables that need a phi node
// there, in no particular order (callers assign operand order from
// Block.Predecessors once the phi node itself is materialized).
type PhiPlacement map[ids.IrBlockId][]VarId

// PlacePhis computes where phi nodes must be inserted so that every
// variable has exactly one definition reaching each use (the minimal
// SSA property): a block needs a phi for v if v is defined in two or
// more of its predecessors' dominance regions, i.e. the block lies on
// v's iterated dominance frontier.
func PlacePhis(g Graph, dom *DomTree, defs Defs) PhiPlacement {
	frontier := dom.DominanceFrontier(g)

	// Invert Defs into defSites[v] = blocks that assign v.
	defSites := make(map[VarId][]ids.IrBlockId)
	for block, vars := range defs {
		for _, v := range vars {
			defSites[v] = append(defSites[v], block)
		}
	}

	placed := make(PhiPlacement)
	hasPhi := make(map[VarId]map[ids.IrBlockId]bool)

	for v, sites := range defSites {
		hasPhi[v] = make(map[ids.IrBlockId]bool)
		worklist := append([]ids.IrBlockId(nil), sites...)
		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, df := range frontier[b] {
				if hasPhi[v][df] {
					continue
				}
				hasPhi[v][df] = true
				placed[df] = append(placed[df], v)
				worklist = append(worklist, df)
			}
		}
	}
	return placed
}
