package mir

import (
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/ssa"
)

// cfgView adapts *Function to ssa.Graph so the shared dominance and
// phi-placement algorithm (C4/C7's common machinery) can operate
// directly on a MIR function's blocks.
type cfgView struct{ f *Function }

// CFG returns f as an ssa.Graph, for dominance computation and
// dominance-frontier-based optimizations (LICM, GVN, bounds-check
// elimination) that need to reason about block ordering.
func (f *Function) CFG() ssa.Graph { return cfgView{f} }

func (v cfgView) Entry() ids.IrBlockId { return v.f.Entry }

func (v cfgView) Blocks() []ids.IrBlockId {
	out := make([]ids.IrBlockId, 0, len(v.f.Blocks))
	for id := range v.f.Blocks {
		out = append(out, id)
	}
	return out
}

func (v cfgView) Successors(b ids.IrBlockId) []ids.IrBlockId {
	blk, ok := v.f.Blocks[b]
	if !ok {
		return nil
	}
	return blk.Terminator.Successors()
}
