package ssa

import "github.com/darmie/rayzor/internal/ids"

// Renamer drives the classical dominator-tree-order renaming pass: it
// walks blocks in dominance order, maintaining one value-stack per
// variable, and calls back into the caller's IR builder at each step.
// Kept generic (callback-based, no MIR/HIR dependency) so both C4's
// analysis SSA and C7's MIR construction SSA share the same sealing
// order instead of each re-deriving it.
type Renamer struct {
	Dom      *DomTree
	Children map[ids.IrBlockId][]ids.IrBlockId // dominator-tree children, built from Dom

	// CurrentDef returns the value currently reaching v at the point the
	// renamer has walked to; the renamer never calls this itself — it's
	// exposed for caller convenience when resolving uses alongside Rename.
	stacks map[VarId][]ids.IrId
}

// NewRenamer builds the dominator tree's children adjacency from dom,
// which Build doesn't materialize (it only stores idom, the minimum
// needed for Dominates/DominanceFrontier).
func NewRenamer(dom *DomTree) *Renamer {
	children := make(map[ids.IrBlockId][]ids.IrBlockId)
	for _, b := range dom.rpo {
		idom, ok := dom.IDom(b)
		if !ok || idom == b {
			continue
		}
		children[idom] = append(children[idom], b)
	}
	return &Renamer{Dom: dom, Children: children, stacks: make(map[VarId][]ids.IrId)}
}

// Push records that the SSA value id is now the current definition of v,
// to be visible to uses until the matching Pop (issued when the renamer
// leaves v's defining block's dominator subtree).
func (r *Renamer) Push(v VarId, id ids.IrId) { r.stacks[v] = append(r.stacks[v], id) }

// Pop removes the most recent definition of v, restoring whatever
// definition was visible before Push was called.
func (r *Renamer) Pop(v VarId) {
	if s := r.stacks[v]; len(s) > 0 {
		r.stacks[v] = s[:len(s)-1]
	}
}

// Current returns the SSA value presently reaching v, or false if v has
// no live definition at this point (a use before any def — the caller's
// responsibility to report as an error, since a well-typed program
// never reaches this for a use it accepted).
func (r *Renamer) Current(v VarId) (ids.IrId, bool) {
	s := r.stacks[v]
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Walk performs the dominator-tree depth-first walk, calling enter(b)
// before descending into b's dominator-tree children and exit(b) after
// all of them (and b itself) have been processed — the point at which
// any Push calls enter made must be Popped, by convention left to enter
// and exit's own bookkeeping (they receive the same block both times).
func (r *Renamer) Walk(enter, exit func(ids.IrBlockId)) {
	var visit func(ids.IrBlockId)
	visit = func(b ids.IrBlockId) {
		enter(b)
		for _, c := range r.Children[b] {
			visit(c)
		}
		exit(b)
	}
	visit(r.Dom.rpo[0])
}
