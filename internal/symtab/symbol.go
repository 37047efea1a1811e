// Package symtab implements the symbol table, type table, and scope tree
// shared by every later stage (C2). Declarations are immutable once AST
// lowering finishes; only the construction phase mutates these tables.
package symtab

import "github.com/darmie/rayzor/internal/ids"

// SymbolKind classifies what a Symbol names.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymFunction
	SymClass
	SymInterface
	SymEnum
	SymTypeAlias
	SymAbstract
	SymModule
	SymConstructor
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "Variable"
	case SymFunction:
		return "Function"
	case SymClass:
		return "Class"
	case SymInterface:
		return "Interface"
	case SymEnum:
		return "Enum"
	case SymTypeAlias:
		return "TypeAlias"
	case SymAbstract:
		return "Abstract"
	case SymModule:
		return "Module"
	case SymConstructor:
		return "Constructor"
	}
	return "Unknown"
}

// Flags captures the boolean/attribute metadata a Symbol carries.
type Flags struct {
	Public     bool
	Static     bool
	Inline     bool
	Generic    bool
	Extern     bool
	NativeName string // @:native override, "" if absent
	Metadata   []string
}

// Symbol is an entry in the symbol table: name, qualified path, kind,
// type, owning scope and package, and declaration flags.
type Symbol struct {
	Id            ids.SymbolId
	Name          ids.InternedString
	QualifiedPath string // package + class + name, for diagnostics and FFI
	Kind          SymbolKind
	Type          ids.TypeId
	Scope         ids.ScopeId
	Package       ids.PackageId
	Flags         Flags
}
