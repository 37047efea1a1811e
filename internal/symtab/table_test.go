package symtab

import (
	"testing"

	"github.com/darmie/rayzor/internal/ids"
	"github.com/stretchr/testify/require"
)

func TestDeclareAndLookup(t *testing.T) {
	tab := NewTable()
	root := tab.Scopes.Root()
	id, err := tab.Declare(root, "x", SymVariable, IntId)
	require.NoError(t, err)

	got, ok := tab.Lookup(root, "x")
	require.True(t, ok)
	require.Equal(t, id, got)
}

func TestDeclareDuplicateSameClassFails(t *testing.T) {
	tab := NewTable()
	root := tab.Scopes.Root()
	_, err := tab.Declare(root, "x", SymVariable, IntId)
	require.NoError(t, err)

	_, err = tab.Declare(root, "x", SymFunction, IntId)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
}

func TestDeclareDifferentClassesCoexist(t *testing.T) {
	tab := NewTable()
	root := tab.Scopes.Root()
	_, err := tab.Declare(root, "Point", SymVariable, IntId)
	require.NoError(t, err)
	// A class named "Point" does not collide with a variable named
	// "Point": they're in different symbol classes.
	_, err = tab.Declare(root, "Point", SymClass, IntId)
	require.NoError(t, err)
}

func TestShadowingByNestedScope(t *testing.T) {
	tab := NewTable()
	root := tab.Scopes.Root()
	outer, err := tab.Declare(root, "x", SymVariable, IntId)
	require.NoError(t, err)

	inner := tab.Scopes.NewChild(root, ScopeBlock)
	innerX, err := tab.Declare(inner, "x", SymVariable, IntId)
	require.NoError(t, err)
	require.NotEqual(t, outer, innerX)

	got, ok := tab.Lookup(inner, "x")
	require.True(t, ok)
	require.Equal(t, innerX, got, "inner scope lookup must find the shadowing declaration")
}

func TestLookupWalksParentChain(t *testing.T) {
	tab := NewTable()
	root := tab.Scopes.Root()
	outer, err := tab.Declare(root, "y", SymVariable, IntId)
	require.NoError(t, err)

	inner := tab.Scopes.NewChild(root, ScopeBlock)
	got, ok := tab.Lookup(inner, "y")
	require.True(t, ok)
	require.Equal(t, outer, got)
}

func TestLookupMissReturnsFalse(t *testing.T) {
	tab := NewTable()
	_, ok := tab.Lookup(tab.Scopes.Root(), "nope")
	require.False(t, ok)
}

func TestInternTypeStructuralDedup(t *testing.T) {
	tt := NewTypeTable()
	a := tt.Intern(TypeKind{Tag: TArray, Inner: IntId})
	b := tt.Intern(TypeKind{Tag: TArray, Inner: IntId})
	require.Equal(t, a, b)
}

func TestGenericInstanceCached(t *testing.T) {
	tt := NewTypeTable()
	base := tt.Intern(TypeKind{Tag: TClass, Symbol: 7})
	a := tt.GetOrCreateGenericInstance(base, []ids.TypeId{IntId})
	b := tt.GetOrCreateGenericInstance(base, []ids.TypeId{IntId})
	require.Equal(t, a, b)

	c := tt.GetOrCreateGenericInstance(base, []ids.TypeId{StringId})
	require.NotEqual(t, a, c)
}

func TestScopeTreeAcyclic(t *testing.T) {
	tree := NewScopeTree()
	root := tree.Root()
	child := tree.NewChild(root, ScopeBlock)
	grandchild := tree.NewChild(child, ScopeBlock)
	require.Equal(t, 2, tree.Depth(grandchild))
}
