// Package tast defines the Typed AST (§3.4): the AST lowering/type
// checker's output. Every expression carries a TypeId and source
// location; statements form blocks with lexical scope references.
package tast

import (
	"github.com/darmie/rayzor/internal/ast"
	"github.com/darmie/rayzor/internal/ids"
)

// Expr is a typed expression node.
type Expr struct {
	Kind  ExprKind
	Type  ids.TypeId
	Pos   ast.Pos
	Scope ids.ScopeId

	// Payload fields, meaningful per Kind.
	Sym      ids.SymbolId // Ident, FieldAccess target symbol, Call callee
	Str      string       // literal string value / field name / operator
	Int      int64
	Float    float64
	Bool     bool
	Children []*Expr // operands, args, block statements, branches
	Casts    []ids.TypeId // implicit casts inserted around Children[0] et al.

	// Null-narrowing: if non-nil, this expression's static type within
	// the current flow-sensitive branch differs from Type (e.g. a
	// Null(T) narrowed to T after a null check).
	NarrowedType *ids.TypeId
}

// ExprKind discriminates TAST expression shapes.
type ExprKind int

const (
	EIdent ExprKind = iota
	ELiteralInt
	ELiteralFloat
	ELiteralString
	ELiteralBool
	EBinOp
	EUnOp
	EIf
	EBlock
	ELet
	ECall
	EFieldAccess // includes implicit-this rewrites
	ENew
	EThrow
	ETry
	EForIn
	EMatch
	ELambda
	EAssign
	EIndex
)

// Stmt is a typed top-level or block statement.
type Stmt struct {
	Expr *Expr // Expression statements wrap an Expr
}

// Param is a typed function parameter.
type Param struct {
	Name ids.InternedString
	Sym  ids.SymbolId
	Type ids.TypeId
}

// Function is a typed function or method declaration.
type Function struct {
	Sym        ids.SymbolId
	Name       string
	TypeParams []ids.TypeId
	Params     []Param
	ReturnType ids.TypeId
	Body       *Expr
	Scope      ids.ScopeId
	CanThrow   bool
	IsStatic   bool
}

// Field is a typed class/interface field.
type Field struct {
	Sym      ids.SymbolId
	Name     string
	Type     ids.TypeId
	Default  *Expr
	IsStatic bool
	IsInline bool
}

// Class is a typed class declaration.
type Class struct {
	Sym        ids.SymbolId
	Name       string
	Super      ids.SymbolId // 0 / HasSuper=false if none
	HasSuper   bool
	Interfaces []ids.SymbolId
	Fields     []Field
	Methods    []Function
	Scope      ids.ScopeId
}

// Interface is a typed interface declaration: methods only, used to
// build the vtable layout for fat-pointer dispatch (§3.6).
type Interface struct {
	Sym     ids.SymbolId
	Name    string
	Methods []Function
}

// EnumVariant is one variant of a typed enum.
type EnumVariant struct {
	Name       string
	Tag        int32
	ParamTypes []ids.TypeId
}

// Enum is a typed enum declaration.
type Enum struct {
	Sym      ids.SymbolId
	Name     string
	Variants []EnumVariant
}

// Abstract is a typed abstract-type declaration.
type Abstract struct {
	Sym        ids.SymbolId
	Name       string
	Underlying ids.TypeId
}

// File is one compiled source file's typed output.
type File struct {
	Path       string
	Classes    []Class
	Interfaces []Interface
	Enums      []Enum
	Abstracts  []Abstract
	Functions  []Function
}
