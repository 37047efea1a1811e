package ssa

import (
	"testing"

	"github.com/darmie/rayzor/internal/ids"
	"github.com/stretchr/testify/require"
)

// fakeGraph is a hand-built block graph for testing, independent of
// mir.Function, so dominance/phi placement can be exercised without a
// full HIR-to-MIR lowering.
type fakeGraph struct {
	entry ids.IrBlockId
	succs map[ids.IrBlockId][]ids.IrBlockId
}

func (g *fakeGraph) Entry() ids.IrBlockId { return g.entry }
func (g *fakeGraph) Blocks() []ids.IrBlockId {
	seen := map[ids.IrBlockId]bool{g.entry: true}
	var out []ids.IrBlockId
	out = append(out, g.entry)
	for b, ss := range g.succs {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
		for _, s := range ss {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
func (g *fakeGraph) Successors(b ids.IrBlockId) []ids.IrBlockId { return g.succs[b] }

// diamond builds: 0 -> {1,2} -> 3, the textbook if/else-join shape.
func diamond() *fakeGraph {
	return &fakeGraph{
		entry: 0,
		succs: map[ids.IrBlockId][]ids.IrBlockId{
			0: {1, 2},
			1: {3},
			2: {3},
			3: {},
		},
	}
}

func TestDominanceDiamond(t *testing.T) {
	g := diamond()
	dom := Build(g)

	idom1, ok := dom.IDom(1)
	require.True(t, ok)
	require.Equal(t, ids.IrBlockId(0), idom1)

	idom3, ok := dom.IDom(3)
	require.True(t, ok)
	require.Equal(t, ids.IrBlockId(0), idom3, "join block's idom is the branch, not either arm")

	require.True(t, dom.Dominates(0, 3))
	require.False(t, dom.Dominates(1, 3), "block 1 does not dominate the join since block 2 can reach it too")
}

func TestDominanceFrontierDiamond(t *testing.T) {
	g := diamond()
	dom := Build(g)
	frontier := dom.DominanceFrontier(g)

	require.ElementsMatch(t, []ids.IrBlockId{3}, frontier[1])
	require.ElementsMatch(t, []ids.IrBlockId{3}, frontier[2])
	require.Empty(t, frontier[0])
}

func TestPlacePhisAtJoinBlock(t *testing.T) {
	g := diamond()
	dom := Build(g)
	v := ids.SymbolId(7)
	defs := Defs{1: {v}, 2: {v}}

	placed := PlacePhis(g, dom, defs)
	require.ElementsMatch(t, []VarId{v}, placed[3], "variable assigned on both arms needs a phi at the join")
	require.Empty(t, placed[0])
}

func TestRenamerWalksInDominatorOrder(t *testing.T) {
	g := diamond()
	dom := Build(g)
	r := NewRenamer(dom)

	var visited []ids.IrBlockId
	r.Walk(func(b ids.IrBlockId) { visited = append(visited, b) }, func(ids.IrBlockId) {})

	require.Equal(t, ids.IrBlockId(0), visited[0], "entry is always visited first")
	require.Len(t, visited, 4)
}

func TestRenamerPushPopStack(t *testing.T) {
	dom := Build(diamond())
	r := NewRenamer(dom)
	v := ids.SymbolId(1)

	_, ok := r.Current(v)
	require.False(t, ok)

	r.Push(v, 42)
	cur, ok := r.Current(v)
	require.True(t, ok)
	require.Equal(t, ids.IrId(42), cur)

	r.Pop(v)
	_, ok = r.Current(v)
	require.False(t, ok)
}
