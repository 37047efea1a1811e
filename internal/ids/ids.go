// Package ids provides the interner and monotone id arenas shared by every
// later compiler stage (C1). All identifiers used across the pipeline are
// compact integer handles into these arenas rather than pointers, so
// compilation units stay serializable and comparable by value.
package ids

import (
	"golang.org/x/text/unicode/norm"
)

// InternedString is a deduplicated string handle. Equal strings, after
// Unicode NFC normalization, always intern to the same id.
type InternedString uint32

// SymbolId references an entry in the symbol table.
type SymbolId uint32

// TypeId references an entry in the type table.
type TypeId uint32

// ScopeId references a node in the scope tree.
type ScopeId uint32

// PackageId references a package/module.
type PackageId uint32

// LifetimeId and RegionId name the safety analyses' lifetime domain.
type LifetimeId uint32
type RegionId uint32

// IrId is both an SSA value and a virtual register, monotone within an
// IrFunction.
type IrId uint32

// IrBlockId names a basic block, monotone within an IrFunction.
type IrBlockId uint32

// IrFunctionId names a function, monotone within an IrModule.
type IrFunctionId uint32

// InvalidId is returned by lookups that fail; every arena's valid ids
// start at 0, so callers must use the ok-returning form to distinguish
// "id 0" from "not found" where that matters.
const InvalidId = ^uint32(0)

// Interner deduplicates strings into InternedString handles, preserving
// first-insertion order for deterministic compilation across runs.
type Interner struct {
	index   map[string]InternedString
	strings []string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{index: make(map[string]InternedString)}
}

// Intern deduplicates s, normalizing to NFC first so that source files
// written with different Unicode normalizations of the same identifier
// share one id.
func (in *Interner) Intern(s string) InternedString {
	normalized := norm.NFC.String(s)
	if id, ok := in.index[normalized]; ok {
		return id
	}
	id := InternedString(len(in.strings))
	in.strings = append(in.strings, normalized)
	in.index[normalized] = id
	return id
}

// Lookup returns the string for id, or "" and false if id was never
// interned by this Interner.
func (in *Interner) Lookup(id InternedString) (string, bool) {
	if int(id) < 0 || int(id) >= len(in.strings) {
		return "", false
	}
	return in.strings[id], true
}

// MustLookup panics if id is not present; used where the caller holds an
// id it is certain to have interned itself.
func (in *Interner) MustLookup(id InternedString) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("ids: interned string not found")
	}
	return s
}

// Len returns the number of distinct interned strings.
func (in *Interner) Len() int { return len(in.strings) }

// Arena is a monotone id allocator for a single id kind T. Ids are never
// reused within the arena's lifetime; an Arena never crosses id kinds
// with another Arena since each is parameterized over its own integer
// type at the call site.
type Arena struct {
	next uint32
}

// Alloc returns the next id and advances the counter.
func (a *Arena) Alloc() uint32 {
	id := a.next
	a.next++
	return id
}

// Len reports how many ids have been allocated.
func (a *Arena) Len() uint32 { return a.next }
