package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	require.Equal(t, a, b)
	require.Equal(t, 1, in.Len())
}

func TestInternerNFCNormalizes(t *testing.T) {
	in := NewInterner()
	// "é" (e + combining acute) vs "é" (precomposed é)
	a := in.Intern("é")
	b := in.Intern("é")
	require.Equal(t, a, b, "NFC-equivalent identifiers must intern to the same id")
}

func TestInternerLookupRoundTrip(t *testing.T) {
	in := NewInterner()
	id := in.Intern("bar")
	s, ok := in.Lookup(id)
	require.True(t, ok)
	require.Equal(t, "bar", s)
}

func TestInternerLookupMiss(t *testing.T) {
	in := NewInterner()
	_, ok := in.Lookup(InternedString(42))
	require.False(t, ok)
}

func TestArenasAreMonotoneAndNeverReused(t *testing.T) {
	var symbols SymbolArena
	ids := make(map[SymbolId]bool)
	for i := 0; i < 100; i++ {
		id := symbols.Alloc()
		require.False(t, ids[id], "id %d reused", id)
		ids[id] = true
	}
	require.EqualValues(t, 100, symbols.Len())
}

func TestArenaKindsDoNotCollide(t *testing.T) {
	var syms SymbolArena
	var types TypeArena
	s := syms.Alloc()
	ty := types.Alloc()
	// Same underlying counter start (0) is fine: they are different id
	// kinds and the Go type system prevents cross-use at compile time.
	require.EqualValues(t, 0, s)
	require.EqualValues(t, 0, ty)
}
