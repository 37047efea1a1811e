package typecheck

import (
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/symtab"
)

// Unifier solves generic constraints with union-find, generalized from
// the teacher's substitution-map Unifier (internal/types/unification.go)
// to operate over interned ids.TypeId values instead of named type
// variables: TTypeParameter ids are the "variables" here, and Find
// chases a parent map instead of looking names up in a Substitution.
type Unifier struct {
	parent map[ids.TypeId]ids.TypeId
}

// NewUnifier creates an empty union-find forest.
func NewUnifier() *Unifier {
	return &Unifier{parent: make(map[ids.TypeId]ids.TypeId)}
}

// Find returns the representative type for t, resolving through any
// chain of prior unifications.
func (u *Unifier) Find(t ids.TypeId) ids.TypeId {
	for {
		p, ok := u.parent[t]
		if !ok || p == t {
			return t
		}
		t = p
	}
}

// Unify attempts to unify t1 and t2 against types, reporting a type
// mismatch through errs on failure. A TTypeParameter on either side
// binds to the other (occurs-check is unnecessary here because TypeIds
// are acyclic by construction: a TypeParameter can never structurally
// contain itself, unlike a named type variable under a row/function
// substitution).
func (u *Unifier) Unify(types *symtab.TypeTable, t1, t2 ids.TypeId) bool {
	t1, t2 = u.Find(t1), u.Find(t2)
	if t1 == t2 {
		return true
	}
	if t1 == symtab.DynamicId || t2 == symtab.DynamicId {
		return true
	}
	k1, ok1 := types.Get(t1)
	k2, ok2 := types.Get(t2)
	if !ok1 || !ok2 {
		return false
	}
	if k1.Tag == symtab.TTypeParameter {
		u.parent[t1] = t2
		return true
	}
	if k2.Tag == symtab.TTypeParameter {
		u.parent[t2] = t1
		return true
	}
	if k1.Tag != k2.Tag {
		return false
	}
	switch k1.Tag {
	case symtab.TArray, symtab.TNull:
		return u.Unify(types, k1.Inner, k2.Inner)
	case symtab.TFunction:
		if len(k1.Params) != len(k2.Params) {
			return false
		}
		for i := range k1.Params {
			if !u.Unify(types, k1.Params[i], k2.Params[i]) {
				return false
			}
		}
		return u.Unify(types, k1.Ret, k2.Ret)
	case symtab.TClass, symtab.TInterface, symtab.TEnum, symtab.TAbstract:
		return k1.Symbol == k2.Symbol
	case symtab.TGenericInstance:
		if k1.Base != k2.Base || len(k1.Args) != len(k2.Args) {
			return false
		}
		for i := range k1.Args {
			if !u.Unify(types, k1.Args[i], k2.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Resolve applies every binding Unify recorded to t, returning the fully
// substituted type.
func (u *Unifier) Resolve(t ids.TypeId) ids.TypeId {
	return u.Find(t)
}
