package safety

import (
	"testing"

	"github.com/darmie/rayzor/internal/ids"
	"github.com/stretchr/testify/require"
)

func TestSolveOrdersOutlivesTopologically(t *testing.T) {
	s := NewSolver()
	a, b, c := ids.LifetimeId(1), ids.LifetimeId(2), ids.LifetimeId(3)
	sol, cyclic, ok := s.Solve([]Constraint{
		{Kind: Outlives, A: a, B: b},
		{Kind: Outlives, A: b, B: c},
	})
	require.True(t, ok)
	require.Nil(t, cyclic)
	indexOf := func(l ids.LifetimeId) int {
		for i, o := range sol.Order {
			if o == l {
				return i
			}
		}
		return -1
	}
	require.Less(t, indexOf(a), indexOf(b))
	require.Less(t, indexOf(b), indexOf(c))
}

func TestSolveDetectsOutlivesCycle(t *testing.T) {
	s := NewSolver()
	a, b := ids.LifetimeId(1), ids.LifetimeId(2)
	_, cyclic, ok := s.Solve([]Constraint{
		{Kind: Outlives, A: a, B: b},
		{Kind: Outlives, A: b, B: a},
	})
	require.False(t, ok)
	require.ElementsMatch(t, []ids.LifetimeId{a, b}, cyclic)
}

func TestSolveMergesEqualLifetimes(t *testing.T) {
	s := NewSolver()
	a, b := ids.LifetimeId(1), ids.LifetimeId(2)
	sol, _, ok := s.Solve([]Constraint{{Kind: Equal, A: a, B: b}})
	require.True(t, ok)
	require.Equal(t, sol.Canonical[a], sol.Canonical[b])
}

func TestSolveCachesByConstraintSetHash(t *testing.T) {
	s := NewSolver()
	a, b := ids.LifetimeId(1), ids.LifetimeId(2)
	cs := []Constraint{{Kind: Outlives, A: a, B: b}}
	sol1, _, ok := s.Solve(cs)
	require.True(t, ok)
	sol2, _, ok := s.Solve(cs)
	require.True(t, ok)
	require.Same(t, sol1, sol2, "identical constraint sets hit the cache")
}
