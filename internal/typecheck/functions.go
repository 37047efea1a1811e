package typecheck

import (
	"fmt"

	"github.com/darmie/rayzor/internal/ast"
	"github.com/darmie/rayzor/internal/diag"
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/symtab"
	"github.com/darmie/rayzor/internal/tast"
)

func (c *Checker) checkFunction(fd *ast.FuncDecl, sym ids.SymbolId, parentScope ids.ScopeId, isMethod bool) tast.Function {
	return c.checkFunctionIn(fd, sym, parentScope, isMethod, symtab.DynamicId)
}

func (c *Checker) checkFunctionIn(fd *ast.FuncDecl, sym ids.SymbolId, parentScope ids.ScopeId, isMethod bool, receiverType ids.TypeId) tast.Function {
	scope := c.Symbols.Scopes.NewChild(parentScope, symtab.ScopeFunction)
	if isMethod {
		// Implicit `this`: every method gets an invisible receiver binding
		// in scope so bare field references resolve without a written
		// `this.` prefix (§4.3 implicit-this insertion).
		c.Symbols.Declare(scope, "this", symtab.SymVariable, receiverType)
	}

	out := tast.Function{Sym: sym, Name: fd.Name, Scope: scope, IsStatic: !isMethod}
	var paramTypes []ids.TypeId
	for _, p := range fd.Params {
		ty := c.resolveType(scope, p.Type)
		psym, err := c.declareOrReport(scope, p.Name, symtab.SymVariable, ty, p.Pos)
		if err != nil {
			continue
		}
		out.Params = append(out.Params, tast.Param{Name: c.Symbols.Interner.Intern(p.Name), Sym: psym, Type: ty})
		paramTypes = append(paramTypes, ty)
	}
	out.ReturnType = c.resolveType(scope, fd.ReturnType)
	for _, tp := range fd.TypeParams {
		out.TypeParams = append(out.TypeParams, c.resolveType(scope, &ast.TypeVar{Name: tp, Pos: fd.Pos}))
	}

	if fd.Body != nil {
		out.Body = c.checkExpr(fd.Body, scope, out.ReturnType)
		out.CanThrow = containsThrow(fd.Body)
	}

	sig := c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TFunction, Params: paramTypes, Ret: out.ReturnType})
	c.Symbols.SetType(sym, sig)
	return out
}

// containsThrow reports whether body can raise (§4.3 CanThrow), walking
// into nested blocks/ifs/lets but not into nested function literals,
// which have their own independent CanThrow.
func containsThrow(e ast.Expr) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *ast.ThrowExpr:
		return true
	case *ast.TryCatch:
		// A try/catch that handles every throw from its body does not
		// itself propagate one, unless the catch bodies throw in turn.
		for _, cc := range n.Catches {
			if containsThrow(cc.Body) {
				return true
			}
		}
		return false
	case *ast.Block:
		for _, s := range n.Exprs {
			if containsThrow(s) {
				return true
			}
		}
		return false
	case *ast.If:
		return containsThrow(n.Condition) || containsThrow(n.Then) || containsThrow(n.Else)
	case *ast.Let:
		return containsThrow(n.Value) || containsThrow(n.Body)
	case *ast.LetRec:
		return containsThrow(n.Value) || containsThrow(n.Body)
	case *ast.FuncCall:
		if containsThrow(n.Func) {
			return true
		}
		for _, a := range n.Args {
			if containsThrow(a) {
				return true
			}
		}
		return false
	case *ast.BinaryOp:
		return containsThrow(n.Left) || containsThrow(n.Right)
	case *ast.Match:
		if containsThrow(n.Expr) {
			return true
		}
		for _, cs := range n.Cases {
			if containsThrow(cs.Body) {
				return true
			}
		}
		return false
	case *ast.ForIn:
		return containsThrow(n.Body)
	}
	return false
}

// checkExpr infers e's type and, when expected is not Dynamic, unifies
// the inferred type against it, recording an implicit cast (or a
// mismatch diagnostic) on failure. This is the bidirectional core: most
// forms infer bottom-up, but Let/If/Block thread the expectation down to
// their result-producing sub-expressions.
func (c *Checker) checkExpr(e ast.Expr, scope ids.ScopeId, expected ids.TypeId) *tast.Expr {
	if e == nil {
		return nil
	}
	out := c.inferExpr(e, scope)
	if out == nil {
		return nil
	}
	if expected != symtab.DynamicId && expected != symtab.ErrorId {
		if !c.unify.Unify(c.Symbols.Types, out.Type, expected) {
			c.Sink.Emit(diag.New(diag.PhaseType, diag.E0200,
				fmt.Sprintf("type mismatch at %s", e.Position()), spanAt(e.Position())))
		} else if c.unify.Resolve(out.Type) != c.unify.Resolve(expected) {
			out.Casts = append(out.Casts, expected)
		}
	}
	return out
}

func (c *Checker) inferExpr(e ast.Expr, scope ids.ScopeId) *tast.Expr {
	pos := e.Position()
	switch n := e.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.IntLit:
			v, _ := n.Value.(int64)
			return &tast.Expr{Kind: tast.ELiteralInt, Type: symtab.IntId, Int: v, Pos: pos, Scope: scope}
		case ast.FloatLit:
			v, _ := n.Value.(float64)
			return &tast.Expr{Kind: tast.ELiteralFloat, Type: symtab.FloatId, Float: v, Pos: pos, Scope: scope}
		case ast.StringLit:
			v, _ := n.Value.(string)
			return &tast.Expr{Kind: tast.ELiteralString, Type: symtab.StringId, Str: v, Pos: pos, Scope: scope}
		case ast.BoolLit:
			v, _ := n.Value.(bool)
			return &tast.Expr{Kind: tast.ELiteralBool, Type: symtab.BoolId, Bool: v, Pos: pos, Scope: scope}
		default:
			return &tast.Expr{Kind: tast.ELiteralInt, Type: symtab.VoidId, Pos: pos, Scope: scope}
		}
	case *ast.Identifier:
		sym, ok := c.Symbols.Lookup(scope, n.Name)
		if !ok {
			c.Sink.Emit(diag.New(diag.PhaseResolve, diag.E0100, fmt.Sprintf("undefined symbol %q", n.Name), spanAt(pos)))
			return &tast.Expr{Kind: tast.EIdent, Type: symtab.ErrorId, Pos: pos, Scope: scope}
		}
		s := mustGet(c.Symbols, sym)
		// Implicit-this insertion (§4.3): a bare name that resolved to a
		// field declared in the enclosing class (rather than a local or
		// parameter) rewrites to an explicit this.<name> field access, so
		// later stages never need to special-case unqualified field
		// reads.
		if declScope, ok := c.Symbols.Scopes.Get(s.Scope); ok && declScope.Kind == symtab.ScopeClass {
			if thisSym, ok := c.Symbols.Lookup(scope, "this"); ok {
				thisExpr := &tast.Expr{Kind: tast.EIdent, Type: mustGet(c.Symbols, thisSym).Type, Sym: thisSym, Pos: pos, Scope: scope}
				return &tast.Expr{Kind: tast.EFieldAccess, Type: s.Type, Sym: sym, Str: n.Name, Pos: pos, Scope: scope, Children: []*tast.Expr{thisExpr}}
			}
		}
		return &tast.Expr{Kind: tast.EIdent, Type: s.Type, Sym: sym, Pos: pos, Scope: scope}
	case *ast.BinaryOp:
		left := c.checkExpr(n.Left, scope, symtab.DynamicId)
		right := c.checkExpr(n.Right, scope, symtab.DynamicId)
		return &tast.Expr{Kind: tast.EBinOp, Type: binOpResultType(n.Op, left, right), Str: n.Op, Pos: pos, Scope: scope, Children: []*tast.Expr{left, right}}
	case *ast.UnaryOp:
		operand := c.checkExpr(n.Expr, scope, symtab.DynamicId)
		ty := symtab.BoolId
		if n.Op != "!" {
			ty = operand.Type
		}
		return &tast.Expr{Kind: tast.EUnOp, Type: ty, Str: n.Op, Pos: pos, Scope: scope, Children: []*tast.Expr{operand}}
	case *ast.If:
		cond := c.checkExpr(n.Condition, scope, symtab.BoolId)
		then := c.inferExpr(n.Then, scope)
		var els *tast.Expr
		ty := then.Type
		if n.Else != nil {
			els = c.checkExpr(n.Else, scope, then.Type)
		} else {
			ty = symtab.VoidId
		}
		return &tast.Expr{Kind: tast.EIf, Type: ty, Pos: pos, Scope: scope, Children: []*tast.Expr{cond, then, els}}
	case *ast.Block:
		blockScope := c.Symbols.Scopes.NewChild(scope, symtab.ScopeBlock)
		var children []*tast.Expr
		var last ids.TypeId = symtab.VoidId
		for _, sub := range n.Exprs {
			te := c.inferExpr(sub, blockScope)
			children = append(children, te)
			if te != nil {
				last = te.Type
			}
		}
		return &tast.Expr{Kind: tast.EBlock, Type: last, Pos: pos, Scope: blockScope, Children: children}
	case *ast.Let:
		value := c.checkExpr(n.Value, scope, c.resolveType(scope, n.Type))
		sym, err := c.declareOrReport(scope, n.Name, symtab.SymVariable, value.Type, pos)
		if err != nil {
			return value
		}
		body := c.inferExpr(n.Body, scope)
		ty := symtab.VoidId
		if body != nil {
			ty = body.Type
		}
		return &tast.Expr{Kind: tast.ELet, Type: ty, Sym: sym, Pos: pos, Scope: scope, Children: []*tast.Expr{value, body}}
	case *ast.LetRec:
		sym, err := c.declareOrReport(scope, n.Name, symtab.SymVariable, c.resolveType(scope, n.Type), pos)
		if err != nil {
			return c.inferExpr(n.Body, scope)
		}
		value := c.checkExpr(n.Value, scope, mustGet(c.Symbols, sym).Type)
		body := c.inferExpr(n.Body, scope)
		ty := symtab.VoidId
		if body != nil {
			ty = body.Type
		}
		return &tast.Expr{Kind: tast.ELet, Type: ty, Sym: sym, Pos: pos, Scope: scope, Children: []*tast.Expr{value, body}}
	case *ast.FuncCall:
		return c.checkCall(n, scope)
	case *ast.RecordAccess:
		record := c.inferExpr(n.Record, scope)
		fieldType := c.fieldType(record.Type, n.Field)
		return &tast.Expr{Kind: tast.EFieldAccess, Type: fieldType, Str: n.Field, Pos: pos, Scope: scope, Children: []*tast.Expr{record}}
	case *ast.Index:
		arr := c.inferExpr(n.Array, scope)
		idx := c.checkExpr(n.Idx, scope, symtab.IntId)
		elemType := symtab.DynamicId
		if k, ok := c.Symbols.Types.Get(c.unify.Resolve(arr.Type)); ok && k.Tag == symtab.TArray {
			elemType = k.Inner
		}
		return &tast.Expr{Kind: tast.EIndex, Type: elemType, Pos: pos, Scope: scope, Children: []*tast.Expr{arr, idx}}
	case *ast.Assign:
		target := c.inferExpr(n.Target, scope)
		value := c.checkExpr(n.Value, scope, target.Type)
		return &tast.Expr{Kind: tast.EAssign, Type: symtab.VoidId, Pos: pos, Scope: scope, Children: []*tast.Expr{target, value}}
	case *ast.New:
		return c.checkNew(n, scope)
	case *ast.ThrowExpr:
		val := c.checkExpr(n.Value, scope, symtab.DynamicId)
		return &tast.Expr{Kind: tast.EThrow, Type: symtab.VoidId, Pos: pos, Scope: scope, Children: []*tast.Expr{val}}
	case *ast.TryCatch:
		return c.checkTry(n, scope)
	case *ast.ForIn:
		return c.checkForIn(n, scope)
	case *ast.Match:
		return c.checkMatch(n, scope)
	case *ast.StringInterp:
		return c.checkStringInterp(n, scope)
	case *ast.Lambda:
		return c.checkLambda(n.Params, n.Body, nil, scope, pos)
	case *ast.FuncLit:
		return c.checkLambda(n.Params, n.Body, n.ReturnType, scope, pos)
	case *ast.BreakStmt:
		return &tast.Expr{Kind: tast.EBlock, Type: symtab.VoidId, Pos: pos, Scope: scope}
	case *ast.ContinueStmt:
		return &tast.Expr{Kind: tast.EBlock, Type: symtab.VoidId, Pos: pos, Scope: scope}
	default:
		c.Sink.Emit(diag.New(diag.PhaseType, diag.E0201, fmt.Sprintf("unsupported expression form %T", e), spanAt(pos)))
		return &tast.Expr{Kind: tast.EBlock, Type: symtab.ErrorId, Pos: pos, Scope: scope}
	}
}

// binOpResultType implements §4.7's widening rule: comparisons/logical
// ops always yield Bool, arithmetic widens mismatched operands to I64.
func binOpResultType(op string, left, right *tast.Expr) ids.TypeId {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return symtab.BoolId
	}
	if left == nil || right == nil {
		return symtab.DynamicId
	}
	if left.Type == right.Type {
		return left.Type
	}
	if left.Type == symtab.FloatId || right.Type == symtab.FloatId {
		return symtab.FloatId
	}
	return symtab.IntId
}

func (c *Checker) fieldType(recordType ids.TypeId, field string) ids.TypeId {
	k, ok := c.Symbols.Types.Get(c.unify.Resolve(recordType))
	if !ok {
		return symtab.DynamicId
	}
	switch k.Tag {
	case symtab.TAnonymous:
		for _, f := range k.Fields {
			if f.Name == field {
				return f.Type
			}
		}
	case symtab.TClass:
		if classScope, ok := c.classScopes[k.Symbol]; ok {
			if fieldSym, ok := c.Symbols.Lookup(classScope, field); ok {
				return mustGet(c.Symbols, fieldSym).Type
			}
		}
	}
	return symtab.DynamicId
}
