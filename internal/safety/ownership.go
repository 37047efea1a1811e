package safety

import (
	"fmt"

	"github.com/darmie/rayzor/internal/diag"
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/semgraph"
)

// AnalyzeOwnership walks og's edges in recorded order (semgraph
// guarantees this is program order, see BuildOwnershipGraph) detecting
// the four violation shapes §4.5 names: use-after-move, aliasing
// violations, double-free, and dangling pointers. Reports are emitted
// to sink; callers treat any emitted report as a hard compilation
// failure unless the source carries an opt-in unsafe annotation (§4.5).
func AnalyzeOwnership(og *semgraph.OwnershipGraph, sink diag.Sink) {
	moved := make(map[ids.SymbolId]bool)   // variable has an outgoing move edge
	borrowed := make(map[ids.SymbolId]int) // count of active shared borrows
	mutBorrowed := make(map[ids.SymbolId]bool)

	for _, e := range og.Edges {
		switch e.Kind {
		case semgraph.EdgeMove:
			if moved[e.From] {
				sink.Emit(diag.New(diag.PhaseSafety, diag.E0303,
					fmt.Sprintf("value already moved out of symbol %d", e.From), nil).
					WithData(map[string]any{"symbol": e.From, "block": e.Block}))
			}
			if e.From != 0 {
				moved[e.From] = true
			}

		case semgraph.EdgeBorrow:
			if moved[e.From] {
				sink.Emit(diag.New(diag.PhaseSafety, diag.E0300,
					fmt.Sprintf("use of moved symbol %d", e.From), nil).
					WithData(map[string]any{"symbol": e.From, "block": e.Block}))
				continue
			}
			if mutBorrowed[e.From] {
				sink.Emit(diag.New(diag.PhaseSafety, diag.E0301,
					fmt.Sprintf("shared borrow of symbol %d conflicts with an active mutable borrow", e.From), nil).
					WithData(map[string]any{"symbol": e.From, "block": e.Block}))
			}
			borrowed[e.From]++

		case semgraph.EdgeBorrowMut:
			if moved[e.From] {
				sink.Emit(diag.New(diag.PhaseSafety, diag.E0300,
					fmt.Sprintf("use of moved symbol %d", e.From), nil).
					WithData(map[string]any{"symbol": e.From, "block": e.Block}))
				continue
			}
			if borrowed[e.From] > 0 || mutBorrowed[e.From] {
				sink.Emit(diag.New(diag.PhaseSafety, diag.E0301,
					fmt.Sprintf("mutable borrow of symbol %d conflicts with an existing borrow", e.From), nil).
					WithData(map[string]any{"symbol": e.From, "block": e.Block}))
			}
			mutBorrowed[e.From] = true
		}
	}
}
