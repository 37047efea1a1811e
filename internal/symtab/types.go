package symtab

import (
	"fmt"
	"strings"

	"github.com/darmie/rayzor/internal/ids"
)

// TypeTag discriminates TypeKind variants (§3.3).
type TypeTag int

const (
	TVoid TypeTag = iota
	TBool
	TInt
	TFloat
	TString
	TDynamic
	TNull
	TArray
	TFunction
	TClass
	TInterface
	TEnum
	TAbstract
	TTypeParameter
	TGenericInstance
	TAnonymous
	TUnresolved
	TError
)

// AnonField is one field of an Anonymous structural type.
type AnonField struct {
	Name string
	Type ids.TypeId
}

// TypeKind is the sum-of-variants type representation (§3.3). Only the
// fields relevant to Tag are meaningful; this mirrors how the teacher's
// AST nodes carry unused-but-zero fields for variants that don't need
// them, favoring one flat struct over an interface hierarchy (per the
// "closed sum type, not deep hierarchies" guidance for pass dispatch,
// applied here to types).
type TypeKind struct {
	Tag TypeTag

	// TNull, TArray
	Inner ids.TypeId

	// TFunction
	Params []ids.TypeId
	Ret    ids.TypeId

	// TClass, TInterface, TEnum, TAbstract, TTypeParameter
	Symbol ids.SymbolId
	Args   []ids.TypeId // type arguments, for generic symbols

	// TEnum
	Variants []string

	// TAbstract
	Underlying ids.TypeId

	// TTypeParameter
	Constraints []ids.TypeId

	// TGenericInstance
	Base ids.TypeId

	// TAnonymous
	Fields []AnonField
}

// key returns a deterministic structural key so structurally identical
// types share one TypeId.
func (k TypeKind) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", k.Tag)
	switch k.Tag {
	case TNull, TArray:
		fmt.Fprintf(&b, "%d", k.Inner)
	case TFunction:
		for _, p := range k.Params {
			fmt.Fprintf(&b, "%d,", p)
		}
		fmt.Fprintf(&b, "|%d", k.Ret)
	case TClass, TInterface, TEnum, TAbstract, TTypeParameter:
		fmt.Fprintf(&b, "%d:", k.Symbol)
		for _, a := range k.Args {
			fmt.Fprintf(&b, "%d,", a)
		}
		if k.Tag == TAbstract {
			fmt.Fprintf(&b, "|u%d", k.Underlying)
		}
		if k.Tag == TTypeParameter {
			for _, c := range k.Constraints {
				fmt.Fprintf(&b, "|c%d", c)
			}
		}
		if k.Tag == TEnum {
			fmt.Fprintf(&b, "|v%s", strings.Join(k.Variants, ","))
		}
	case TGenericInstance:
		fmt.Fprintf(&b, "%d<", k.Base)
		for _, a := range k.Args {
			fmt.Fprintf(&b, "%d,", a)
		}
	case TAnonymous:
		for _, f := range k.Fields {
			fmt.Fprintf(&b, "%s:%d,", f.Name, f.Type)
		}
	}
	return b.String()
}

// TypeTable interns TypeKind values by structural key, so the same shape
// always resolves to the same TypeId, and caches generic-instance
// construction by (base, args).
type TypeTable struct {
	arena    ids.TypeArena
	kinds    []TypeKind
	byKey    map[string]ids.TypeId
	generics map[string]ids.TypeId
}

// NewTypeTable creates an empty table pre-populated with the primitive
// singleton types.
func NewTypeTable() *TypeTable {
	t := &TypeTable{
		byKey:    make(map[string]ids.TypeId),
		generics: make(map[string]ids.TypeId),
	}
	for _, tag := range []TypeTag{TVoid, TBool, TInt, TFloat, TString, TDynamic, TUnresolved, TError} {
		t.Intern(TypeKind{Tag: tag})
	}
	return t
}

// Intern deduplicates a TypeKind by structural key.
func (t *TypeTable) Intern(k TypeKind) ids.TypeId {
	key := k.key()
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := t.arena.Alloc()
	t.kinds = append(t.kinds, k)
	t.byKey[key] = id
	return id
}

// Get returns the TypeKind for id.
func (t *TypeTable) Get(id ids.TypeId) (TypeKind, bool) {
	if int(id) >= len(t.kinds) {
		return TypeKind{}, false
	}
	return t.kinds[id], true
}

// GetOrCreateGenericInstance returns the TypeId for GenericInstance{base,
// args}, caching by the (base, args) key so repeated calls with the same
// arguments return the same id (§4.2, §8.2 idempotence law).
func (t *TypeTable) GetOrCreateGenericInstance(base ids.TypeId, args []ids.TypeId) ids.TypeId {
	var b strings.Builder
	fmt.Fprintf(&b, "%d<", base)
	for _, a := range args {
		fmt.Fprintf(&b, "%d,", a)
	}
	key := b.String()
	if id, ok := t.generics[key]; ok {
		return id
	}
	id := t.Intern(TypeKind{Tag: TGenericInstance, Base: base, Args: append([]ids.TypeId(nil), args...)})
	t.generics[key] = id
	return id
}

// Primitive ids: stable because NewTypeTable interns them first, in this
// order, into a fresh table.
const (
	VoidId       ids.TypeId = 0
	BoolId       ids.TypeId = 1
	IntId        ids.TypeId = 2
	FloatId      ids.TypeId = 3
	StringId     ids.TypeId = 4
	DynamicId    ids.TypeId = 5
	UnresolvedId ids.TypeId = 6
	ErrorId      ids.TypeId = 7
)
