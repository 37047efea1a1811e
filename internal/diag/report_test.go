package diag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportRoundTripsThroughErrorsAs(t *testing.T) {
	r := New(PhaseSafety, E0300, "use of moved value `x`", nil)
	err := Wrap(r)

	wrapped := fmt.Errorf("typecheck failed: %w", err)
	got, ok := AsReport(wrapped)
	require.True(t, ok)
	require.Equal(t, E0300, got.Code)
}

func TestReportCarriesCanonicalFix(t *testing.T) {
	r := New(PhaseSafety, E0300, "use of moved value", nil)
	require.NotNil(t, r.Fix)
	require.Contains(t, r.Fix.Suggestion, "clone")
}

func TestCollectingSinkAccumulates(t *testing.T) {
	sink := &CollectingSink{}
	require.False(t, sink.HasErrors())
	sink.Emit(New(PhaseType, E0200, "mismatch", nil))
	sink.Emit(New(PhaseResolve, E0100, "undefined", nil))
	require.True(t, sink.HasErrors())
	require.Len(t, sink.Reports, 2)
}

func TestToJSONDeterministic(t *testing.T) {
	r := New(PhaseMir, E0400, "invalid ssa", nil)
	a, err := r.ToJSON(true)
	require.NoError(t, err)
	b, err := r.ToJSON(true)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
