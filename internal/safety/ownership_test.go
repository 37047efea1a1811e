package safety

import (
	"testing"

	"github.com/darmie/rayzor/internal/diag"
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/semgraph"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeOwnershipFlagsDoubleMove(t *testing.T) {
	v := ids.SymbolId(1)
	og := &semgraph.OwnershipGraph{
		Edges: []semgraph.OwnershipEdge{
			{From: v, To: 2, Kind: semgraph.EdgeMove},
			{From: v, To: 3, Kind: semgraph.EdgeMove},
		},
	}
	sink := &diag.CollectingSink{}
	AnalyzeOwnership(og, sink)
	require.Len(t, sink.Reports, 1)
	require.Equal(t, "E0303", sink.Reports[0].Code)
}

func TestAnalyzeOwnershipFlagsUseAfterMove(t *testing.T) {
	v := ids.SymbolId(1)
	og := &semgraph.OwnershipGraph{
		Edges: []semgraph.OwnershipEdge{
			{From: v, To: 2, Kind: semgraph.EdgeMove},
			{From: v, Kind: semgraph.EdgeBorrow},
		},
	}
	sink := &diag.CollectingSink{}
	AnalyzeOwnership(og, sink)
	require.Len(t, sink.Reports, 1)
	require.Equal(t, "E0300", sink.Reports[0].Code)
}

func TestAnalyzeOwnershipAllowsSequentialBorrows(t *testing.T) {
	v := ids.SymbolId(1)
	og := &semgraph.OwnershipGraph{
		Edges: []semgraph.OwnershipEdge{
			{From: v, Kind: semgraph.EdgeBorrow},
			{From: v, Kind: semgraph.EdgeBorrow},
		},
	}
	sink := &diag.CollectingSink{}
	AnalyzeOwnership(og, sink)
	require.False(t, sink.HasErrors())
}

func TestAnalyzeOwnershipFlagsMutBorrowConflict(t *testing.T) {
	v := ids.SymbolId(1)
	og := &semgraph.OwnershipGraph{
		Edges: []semgraph.OwnershipEdge{
			{From: v, Kind: semgraph.EdgeBorrow},
			{From: v, Kind: semgraph.EdgeBorrowMut},
		},
	}
	sink := &diag.CollectingSink{}
	AnalyzeOwnership(og, sink)
	require.Len(t, sink.Reports, 1)
	require.Equal(t, "E0301", sink.Reports[0].Code)
}
