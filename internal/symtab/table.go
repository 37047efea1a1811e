package symtab

import (
	"fmt"

	"github.com/darmie/rayzor/internal/ids"
)

// symKey classifies symbols the way declare_symbol's duplicate check
// does: two declarations of the same name in the same scope collide only
// if they are in the same symbol class (e.g. a type and a variable of
// the same name may coexist).
type symKey int

const (
	classValue symKey = iota
	classType
)

func classOf(kind SymbolKind) symKey {
	switch kind {
	case SymClass, SymInterface, SymEnum, SymTypeAlias, SymAbstract:
		return classType
	default:
		return classValue
	}
}

// DuplicateError is returned by Declare when (scope, name, class)
// already has an entry.
type DuplicateError struct {
	Name  string
	Scope ids.ScopeId
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate symbol %q in scope %d", e.Name, e.Scope)
}

type scopeKey struct {
	scope ids.ScopeId
	name  ids.InternedString
	class symKey
}

// Table is the symbol table keyed by SymbolId (C2).
type Table struct {
	Interner *ids.Interner
	Scopes   *ScopeTree
	Types    *TypeTable

	arena   ids.SymbolArena
	symbols []Symbol
	byScope map[scopeKey]ids.SymbolId
}

// NewTable creates an empty symbol table bound to a fresh interner,
// scope tree, and type table.
func NewTable() *Table {
	return &Table{
		Interner: ids.NewInterner(),
		Scopes:   NewScopeTree(),
		Types:    NewTypeTable(),
		byScope:  make(map[scopeKey]ids.SymbolId),
	}
}

// Declare creates a Symbol in scope, failing with *DuplicateError if
// (scope, name) already has an entry in the same symbol class.
func (t *Table) Declare(scope ids.ScopeId, name string, kind SymbolKind, ty ids.TypeId) (ids.SymbolId, error) {
	nameId := t.Interner.Intern(name)
	key := scopeKey{scope: scope, name: nameId, class: classOf(kind)}
	if _, exists := t.byScope[key]; exists {
		return 0, &DuplicateError{Name: name, Scope: scope}
	}
	id := t.arena.Alloc()
	t.symbols = append(t.symbols, Symbol{
		Id:   id,
		Name: nameId,
		Kind: kind,
		Type: ty,
		Scope: scope,
	})
	t.byScope[key] = id
	return id, nil
}

// Get returns the Symbol for id.
func (t *Table) Get(id ids.SymbolId) (Symbol, bool) {
	if int(id) >= len(t.symbols) {
		return Symbol{}, false
	}
	return t.symbols[id], true
}

// SetFlags updates the Flags of an already-declared symbol. Construction
// is the only time symbols mutate; once lowering finishes, callers must
// treat the table as read-only.
func (t *Table) SetFlags(id ids.SymbolId, f Flags) {
	if int(id) < len(t.symbols) {
		t.symbols[id].Flags = f
	}
}

// SetType updates the Type of an already-declared symbol, used once a
// function's signature is known after its body has been checked.
func (t *Table) SetType(id ids.SymbolId, ty ids.TypeId) {
	if int(id) < len(t.symbols) {
		t.symbols[id].Type = ty
	}
}

// SetQualifiedPath records the fully-qualified package+class+name path.
func (t *Table) SetQualifiedPath(id ids.SymbolId, path string) {
	if int(id) < len(t.symbols) {
		t.symbols[id].QualifiedPath = path
	}
}

// Lookup walks scope and its ancestors (both symbol classes) for name,
// returning the nearest (innermost-scope) match. Shadowing is by nested
// scope: an inner Declare of the same name does not error against an
// outer one because the duplicate check is keyed by scope id.
func (t *Table) Lookup(scope ids.ScopeId, name string) (ids.SymbolId, bool) {
	// Intern is idempotent: if name was ever declared, this returns the
	// same id declare_symbol used; if not, the byScope probes below all
	// miss and we report not-found without polluting the symbol table.
	nameId := t.Interner.Intern(name)
	cur := scope
	for {
		for _, class := range []symKey{classValue, classType} {
			if id, ok := t.byScope[scopeKey{scope: cur, name: nameId, class: class}]; ok {
				return id, true
			}
		}
		parent, hasParent := t.Scopes.Parent(cur)
		if !hasParent {
			return 0, false
		}
		cur = parent
	}
}

// QualifiedPath names a package+class+name chain for resolve_path.
type QualifiedPath struct {
	Segments []string
}

// ResolvePath resolves a qualified path deterministically, walking from
// root through each segment's nested scope. Cost is O(depth) because each
// segment does one Lookup in the scope the previous segment introduced.
func (t *Table) ResolvePath(root ids.ScopeId, path QualifiedPath) (ids.SymbolId, bool) {
	if len(path.Segments) == 0 {
		return 0, false
	}
	scope := root
	var last ids.SymbolId
	var found bool
	for _, seg := range path.Segments {
		id, ok := t.Lookup(scope, seg)
		if !ok {
			return 0, false
		}
		last, found = id, true
		sym, _ := t.Get(id)
		scope = sym.Scope
	}
	return last, found
}
