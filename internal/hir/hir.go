// Package hir implements the desugared high-level IR (§3.5): no for-in,
// no pattern-matching, no range expressions, no string interpolation;
// generics are monomorphized where specialization applies, with a
// type-erasure fallback otherwise. HIR sits between the Typed AST (C3/
// tast package) and MIR (C7/mir package) and is produced by desugaring
// + monomorphization (C6), grounded on the teacher's Core (ANF) IR in
// internal/core, generalized from a functional-language Core to a
// class-based HIR with explicit closures.
package hir

import "github.com/darmie/rayzor/internal/ids"

// ExprKind discriminates HIR expression shapes. Notably absent, relative
// to tast.ExprKind: EForIn, EMatch, string interpolation — all replaced
// by the forms below during lowering.
type ExprKind int

const (
	HIdent ExprKind = iota
	HConstInt
	HConstFloat
	HConstString
	HConstBool
	HBinOp
	HUnOp
	HIf
	HBlock
	HLet
	HCall
	HFieldAccess
	HNew
	HThrow
	HTryCatch
	HLambda
	HAssign
	HIndexLoop  // desugared for-in over a range: integer counter loop
	HIndexArray // desugared for-in over an array: index-based loop with bounds check
	HConcat     // desugared string interpolation: concatenation chain
	HDiscCheck  // desugared pattern match: enum-discriminant test
	HBreak
	HContinue
	HIndex // bounds-checked array element access
)

// Expr is a single HIR expression node.
type Expr struct {
	Kind     ExprKind
	Type     ids.TypeId
	Sym      ids.SymbolId
	Str      string
	Int      int64
	Float    float64
	Bool     bool
	Op       string
	Children []*Expr
}

// Capture describes one variable a Lambda closes over.
type CaptureMode int

const (
	CaptureByValue CaptureMode = iota
	CaptureByRef
)

type HirCapture struct {
	Symbol ids.SymbolId
	Mode   CaptureMode
	Type   ids.TypeId
}

// Lambda is a desugared closure: explicit parameter list and capture
// list (§3.5 "Closures are represented with explicit HirCapture lists").
type Lambda struct {
	Params   []ids.SymbolId
	Captures []HirCapture
	Body     *Expr
	ReturnType ids.TypeId
}

// Function is a top-level or specialized/erased generic function.
type Function struct {
	Name       string
	Sym        ids.SymbolId
	Params     []ids.SymbolId
	ParamTypes []ids.TypeId
	ReturnType ids.TypeId
	Body       *Expr
	CanThrow   bool

	// Monomorphization provenance: Specialized functions are keyed by
	// (GenericOf, TypeArgs); non-generic and erased functions leave
	// GenericOf unset.
	GenericOf ids.SymbolId
	HasGenericOf bool
	TypeArgs  []ids.TypeId
}

// Module is the desugared, monomorphized program ready for MIR lowering.
type Module struct {
	Functions []*Function
	Lambdas   []*Lambda
}
