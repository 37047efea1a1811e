// Package semgraph builds the semantic graphs (§3.7) consumed by the
// safety analyses: per-function CFGs and SSA-form DFGs (via the shared
// internal/ssa dominance/phi machinery), the inter-procedural call
// graph, and the per-function ownership graph. Grounded on the typed
// AST (internal/tast) the checker (internal/typecheck) produces — this
// package never looks at MIR, since MIR builds its own SSA during
// lowering (C7) independently.
package semgraph

import (
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/ssa"
	"github.com/darmie/rayzor/internal/tast"
)

// Block is one basic block: a straight-line run of statements ending in
// a terminator that names its successors. Single-entry, single-exit
// except at the terminator, matching §4.4's partitioning contract.
type Block struct {
	Id           ids.IrBlockId
	Stmts        []*tast.Expr
	Succs        []ids.IrBlockId
	Preds        []ids.IrBlockId
	IsLoopHeader bool // has an incoming back-edge; sealing must wait (§4.4)
}

// CFG is one function's control-flow graph.
type CFG struct {
	Entry  ids.IrBlockId
	Blocks map[ids.IrBlockId]*Block
	arena  ids.Arena
}

func (c *CFG) newBlock() *Block {
	id := ids.IrBlockId(c.arena.Alloc())
	b := &Block{Id: id}
	c.Blocks[id] = b
	return b
}

func (c *CFG) link(from, to ids.IrBlockId) {
	fb, to2 := c.Blocks[from], c.Blocks[to]
	for _, s := range fb.Succs {
		if s == to {
			return
		}
	}
	fb.Succs = append(fb.Succs, to)
	to2.Preds = append(to2.Preds, from)
}

// Graph view, so a CFG can feed internal/ssa's dominance computation
// directly.
type cfgGraph struct{ c *CFG }

func (g cfgGraph) Entry() ids.IrBlockId { return g.c.Entry }
func (g cfgGraph) Blocks() []ids.IrBlockId {
	out := make([]ids.IrBlockId, 0, len(g.c.Blocks))
	for id := range g.c.Blocks {
		out = append(out, id)
	}
	return out
}
func (g cfgGraph) Successors(b ids.IrBlockId) []ids.IrBlockId {
	if blk, ok := g.c.Blocks[b]; ok {
		return blk.Succs
	}
	return nil
}

// AsGraph exposes c as an ssa.Graph for dominance/phi-placement.
func (c *CFG) AsGraph() ssa.Graph { return cfgGraph{c} }

// BuildCFG partitions fn's body into basic blocks. EIf produces a
// two-way branch that rejoins at a fresh join block; EMatch produces an
// N-way branch, one successor per case, rejoining the same way; EForIn
// produces a loop header block marked IsLoopHeader (§4.4's back-edge
// sealing requirement: callers performing SSA renaming over this graph
// must not seal a loop header until both the preheader and the back
// edge have been linked, which BuildCFG always does before returning).
// Everything else is sequential and stays in the current block.
func BuildCFG(fn *tast.Function) *CFG {
	c := &CFG{Blocks: make(map[ids.IrBlockId]*Block)}
	entry := c.newBlock()
	c.Entry = entry.Id
	if fn.Body != nil {
		end := buildExpr(c, entry, fn.Body)
		_ = end
	}
	return c
}

// buildExpr threads e's control flow starting at cur, returning the
// block control falls through to afterward (nil if e always diverges,
// e.g. every arm of an EIf returns/throws — not tracked precisely here
// since statement-level return/throw detection is a checker concern;
// callers that need divergence info consult CanThrow/fn return
// analysis instead).
func buildExpr(c *CFG, cur *Block, e *tast.Expr) *Block {
	switch e.Kind {
	case tast.EBlock:
		for _, child := range e.Children {
			if cur == nil {
				break
			}
			cur.Stmts = append(cur.Stmts, child)
			cur = buildExpr(c, cur, child)
		}
		return cur

	case tast.EIf:
		cond, thenB, elseB := e.Children[0], e.Children[1], (*tast.Expr)(nil)
		if len(e.Children) > 2 {
			elseB = e.Children[2]
		}
		cur.Stmts = append(cur.Stmts, cond)
		thenBlock, elseBlock, join := c.newBlock(), c.newBlock(), c.newBlock()
		c.link(cur.Id, thenBlock.Id)
		c.link(cur.Id, elseBlock.Id)
		thenEnd := buildExpr(c, thenBlock, thenB)
		if thenEnd != nil {
			c.link(thenEnd.Id, join.Id)
		}
		if elseB != nil {
			elseEnd := buildExpr(c, elseBlock, elseB)
			if elseEnd != nil {
				c.link(elseEnd.Id, join.Id)
			}
		} else {
			c.link(elseBlock.Id, join.Id)
		}
		return join

	case tast.EMatch:
		cur.Stmts = append(cur.Stmts, e.Children[0])
		join := c.newBlock()
		for _, caseExpr := range e.Children[1:] {
			caseBlock := c.newBlock()
			c.link(cur.Id, caseBlock.Id)
			caseEnd := buildExpr(c, caseBlock, caseExpr)
			if caseEnd != nil {
				c.link(caseEnd.Id, join.Id)
			}
		}
		return join

	case tast.EForIn:
		cur.Stmts = append(cur.Stmts, e)
		header := c.newBlock()
		header.IsLoopHeader = true
		c.link(cur.Id, header.Id)
		body := c.newBlock()
		c.link(header.Id, body.Id)
		bodyEnd := buildExpr(c, body, e.Children[len(e.Children)-1])
		if bodyEnd != nil {
			c.link(bodyEnd.Id, header.Id) // back edge, registered before any seal
		}
		after := c.newBlock()
		c.link(header.Id, after.Id)
		return after

	case tast.EThrow:
		cur.Stmts = append(cur.Stmts, e)
		return nil // control leaves the function; no fallthrough successor

	default:
		cur.Stmts = append(cur.Stmts, e)
		return cur
	}
}
