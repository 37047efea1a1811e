package symtab

import "github.com/darmie/rayzor/internal/ids"

// ScopeKind classifies a scope-tree node.
type ScopeKind int

const (
	ScopeBlock ScopeKind = iota
	ScopeFunction
	ScopeClass
	ScopeModule
)

// Scope is a node in the lexical scope tree. The tree is acyclic by
// construction: every scope but the root is created with an existing
// parent id, so no id can become its own ancestor.
type Scope struct {
	Id     ids.ScopeId
	Parent ids.ScopeId
	HasParent bool
	Kind   ScopeKind
}

// ScopeTree owns every Scope in a compilation unit.
type ScopeTree struct {
	arena  ids.ScopeArena
	scopes []Scope
}

// NewScopeTree creates a tree with a single root module scope.
func NewScopeTree() *ScopeTree {
	t := &ScopeTree{}
	root := t.alloc(ScopeModule)
	_ = root
	return t
}

func (t *ScopeTree) alloc(kind ScopeKind) ids.ScopeId {
	id := t.arena.Alloc()
	t.scopes = append(t.scopes, Scope{Id: id, Kind: kind})
	return id
}

// Root returns the tree's root scope id (always 0).
func (t *ScopeTree) Root() ids.ScopeId { return ids.ScopeId(0) }

// NewChild creates a new scope nested under parent.
func (t *ScopeTree) NewChild(parent ids.ScopeId, kind ScopeKind) ids.ScopeId {
	id := t.alloc(kind)
	t.scopes[id].Parent = parent
	t.scopes[id].HasParent = true
	return id
}

// Get returns the Scope for id.
func (t *ScopeTree) Get(id ids.ScopeId) (Scope, bool) {
	if int(id) >= len(t.scopes) {
		return Scope{}, false
	}
	return t.scopes[id], true
}

// Parent returns id's parent scope, or false if id is the root.
func (t *ScopeTree) Parent(id ids.ScopeId) (ids.ScopeId, bool) {
	s, ok := t.Get(id)
	if !ok || !s.HasParent {
		return 0, false
	}
	return s.Parent, true
}

// Depth returns the number of ancestors of id (root has depth 0). Used to
// bound resolve_path to O(depth).
func (t *ScopeTree) Depth(id ids.ScopeId) int {
	d := 0
	cur := id
	for {
		p, ok := t.Parent(cur)
		if !ok {
			return d
		}
		d++
		cur = p
	}
}
