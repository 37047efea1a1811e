// Package ssa implements the dominance computation and phi-placement
// algorithm shared by the semantic graph builder's analysis-only SSA
// (C4) and MIR's construction SSA (C7), so both consumers agree on one
// notion of dominance instead of maintaining two.
//
// The algorithm is the engineering iterative dataflow form from Cooper,
// Harvey, and Kennedy, "A Simple, Fast Dominance Algorithm" — reverse
// postorder traversal, intersect-until-fixpoint immediate dominators,
// which avoids the O(n^2) Lengauer-Tarjan bookkeeping for the graph
// sizes a single function body produces.
package ssa

import "github.com/darmie/rayzor/internal/ids"

// Graph is the minimal view over a block-structured CFG that dominance
// and phi placement need: every block's id, its successors, and its
// entry point. MIR's *mir.Function and any other block graph (e.g. the
// semantic graph builder's own CFG) can satisfy this without depending
// on the mir package.
type Graph interface {
	Entry() ids.IrBlockId
	Blocks() []ids.IrBlockId
	Successors(ids.IrBlockId) []ids.IrBlockId
}

// DomTree holds the immediate dominator of every reachable block and
// the reverse-postorder numbering used to compute it.
type DomTree struct {
	idom  map[ids.IrBlockId]ids.IrBlockId
	order map[ids.IrBlockId]int // reverse postorder index, entry = 0
	rpo   []ids.IrBlockId
}

// Build computes the dominator tree of g. Unreachable blocks (no path
// from Entry) are omitted; callers that need to know about them should
// diff g.Blocks() against the tree's Contains set first.
func Build(g Graph) *DomTree {
	rpo := reversePostorder(g)
	order := make(map[ids.IrBlockId]int, len(rpo))
	for i, b := range rpo {
		order[b] = i
	}

	preds := predecessorMap(g, rpo)

	idom := make(map[ids.IrBlockId]ids.IrBlockId, len(rpo))
	entry := g.Entry()
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range rpo[1:] { // skip entry
			var newIdom ids.IrBlockId
			haveNewIdom := false
			for _, p := range preds[b] {
				if _, ok := idom[p]; !ok {
					continue // not yet processed this round
				}
				if !haveNewIdom {
					newIdom, haveNewIdom = p, true
					continue
				}
				newIdom = intersect(idom, order, newIdom, p)
			}
			if haveNewIdom && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	return &DomTree{idom: idom, order: order, rpo: rpo}
}

func intersect(idom map[ids.IrBlockId]ids.IrBlockId, order map[ids.IrBlockId]int, a, b ids.IrBlockId) ids.IrBlockId {
	for a != b {
		for order[a] > order[b] {
			a = idom[a]
		}
		for order[b] > order[a] {
			b = idom[b]
		}
	}
	return a
}

func reversePostorder(g Graph) []ids.IrBlockId {
	visited := make(map[ids.IrBlockId]bool)
	var post []ids.IrBlockId
	var visit func(ids.IrBlockId)
	visit = func(b ids.IrBlockId) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range g.Successors(b) {
			visit(s)
		}
		post = append(post, b)
	}
	visit(g.Entry())
	rpo := make([]ids.IrBlockId, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

func predecessorMap(g Graph, reachable []ids.IrBlockId) map[ids.IrBlockId][]ids.IrBlockId {
	reach := make(map[ids.IrBlockId]bool, len(reachable))
	for _, b := range reachable {
		reach[b] = true
	}
	preds := make(map[ids.IrBlockId][]ids.IrBlockId)
	for _, b := range reachable {
		for _, s := range g.Successors(b) {
			if reach[s] {
				preds[s] = append(preds[s], b)
			}
		}
	}
	return preds
}

// IDom returns b's immediate dominator and whether b is reachable.
func (t *DomTree) IDom(b ids.IrBlockId) (ids.IrBlockId, bool) {
	id, ok := t.idom[b]
	return id, ok
}

// Dominates reports whether a dominates b (every path from the entry to
// b passes through a), including the reflexive case a == b.
func (t *DomTree) Dominates(a, b ids.IrBlockId) bool {
	if _, ok := t.order[b]; !ok {
		return false
	}
	for {
		if a == b {
			return true
		}
		parent, ok := t.idom[b]
		if !ok || parent == b {
			return a == b
		}
		b = parent
	}
}

// ReversePostorder returns the traversal order Build used, exposed so
// callers can iterate reachable blocks in a dominance-respecting order
// (a block's idom always precedes it).
func (t *DomTree) ReversePostorder() []ids.IrBlockId { return t.rpo }

// DominanceFrontier computes, for every reachable block, the set of
// blocks at which its dominance "runs out" (Cytron et al.'s algorithm):
// for each block with 2+ predecessors, walk up each predecessor's
// dominator chain up to but excluding the block's own idom, marking
// every block visited as having this join block in its frontier.
func (t *DomTree) DominanceFrontier(g Graph) map[ids.IrBlockId][]ids.IrBlockId {
	preds := predecessorMap(g, t.rpo)
	frontier := make(map[ids.IrBlockId]map[ids.IrBlockId]bool)

	for _, b := range t.rpo {
		ps := preds[b]
		if len(ps) < 2 {
			continue
		}
		idomB := t.idom[b]
		for _, p := range ps {
			runner := p
			for runner != idomB {
				if frontier[runner] == nil {
					frontier[runner] = make(map[ids.IrBlockId]bool)
				}
				frontier[runner][b] = true
				parent, ok := t.idom[runner]
				if !ok || parent == runner {
					break
				}
				runner = parent
			}
		}
	}

	out := make(map[ids.IrBlockId][]ids.IrBlockId, len(frontier))
	for b, set := range frontier {
		for df := range set {
			out[b] = append(out[b], df)
		}
	}
	return out
}
