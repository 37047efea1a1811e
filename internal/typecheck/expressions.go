package typecheck

import (
	"fmt"

	"github.com/darmie/rayzor/internal/ast"
	"github.com/darmie/rayzor/internal/diag"
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/symtab"
	"github.com/darmie/rayzor/internal/tast"
)

// checkCall resolves the callee (a named function or an arbitrary
// expression producing a closure value), checks arguments against the
// known parameter types when available, and records generic call-site
// type arguments on Casts for C6's monomorphizer to pick up.
func (c *Checker) checkCall(n *ast.FuncCall, scope ids.ScopeId) *tast.Expr {
	pos := n.Position()
	var calleeSym ids.SymbolId
	haveCalleeSym := false
	calleeType := ids.TypeId(symtab.DynamicId)
	var indirect *tast.Expr

	if ident, ok := n.Func.(*ast.Identifier); ok {
		if sym, ok := c.Symbols.Lookup(scope, ident.Name); ok {
			calleeSym, haveCalleeSym = sym, true
			calleeType = mustGet(c.Symbols, sym).Type
		} else {
			c.Sink.Emit(diag.New(diag.PhaseResolve, diag.E0100, fmt.Sprintf("undefined function %q", ident.Name), spanAt(pos)))
		}
	} else {
		indirect = c.inferExpr(n.Func, scope)
		if indirect != nil {
			calleeType = indirect.Type
		}
	}

	var paramTypes []ids.TypeId
	retType := ids.TypeId(symtab.DynamicId)
	if k, ok := c.Symbols.Types.Get(c.unify.Resolve(calleeType)); ok && k.Tag == symtab.TFunction {
		paramTypes, retType = k.Params, k.Ret
	}

	isGeneric := haveCalleeSym && mustGet(c.Symbols, calleeSym).Flags.Generic

	var children []*tast.Expr
	var typeArgs []ids.TypeId
	for i, a := range n.Args {
		expected := ids.TypeId(symtab.DynamicId)
		if i < len(paramTypes) {
			expected = paramTypes[i]
		}
		arg := c.checkExpr(a, scope, expected)
		children = append(children, arg)
		if isGeneric {
			typeArgs = append(typeArgs, arg.Type)
		}
	}
	if len(n.Args) != len(paramTypes) && len(paramTypes) > 0 {
		c.Sink.Emit(diag.New(diag.PhaseType, diag.E0200, fmt.Sprintf("expected %d arguments, got %d", len(paramTypes), len(n.Args)), spanAt(pos)))
	}

	out := &tast.Expr{Kind: tast.ECall, Type: retType, Sym: calleeSym, Pos: pos, Scope: scope, Children: children, Casts: typeArgs}
	if indirect != nil {
		// An indirect call's callee value becomes Children[0], ahead of
		// the argument list, matching MIR's CallIndirect operand order.
		out.Children = append([]*tast.Expr{indirect}, out.Children...)
	}
	return out
}

// checkNew resolves `new Class(args)` against the class's constructor
// (its "new" method, if declared) or, absent one, checks args
// positionally against the class's own field types in declaration order
// (a default memberwise constructor).
func (c *Checker) checkNew(n *ast.New, scope ids.ScopeId) *tast.Expr {
	pos := n.Position()
	classSym, ok := c.Symbols.Lookup(scope, n.ClassName)
	if !ok {
		c.Sink.Emit(diag.New(diag.PhaseResolve, diag.E0101, fmt.Sprintf("undefined class %q", n.ClassName), spanAt(pos)))
		var args []*tast.Expr
		for _, a := range n.Args {
			args = append(args, c.checkExpr(a, scope, symtab.DynamicId))
		}
		return &tast.Expr{Kind: tast.ENew, Type: symtab.ErrorId, Pos: pos, Scope: scope, Children: args}
	}

	classType := c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TClass, Symbol: classSym})
	var ctorParamTypes []ids.TypeId
	if classScope, ok := c.classScopes[classSym]; ok {
		if ctorSym, ok := c.Symbols.Lookup(classScope, "new"); ok {
			if k, ok := c.Symbols.Types.Get(mustGet(c.Symbols, ctorSym).Type); ok && k.Tag == symtab.TFunction {
				ctorParamTypes = k.Params
			}
		}
	}
	var args []*tast.Expr
	for i, a := range n.Args {
		expected := ids.TypeId(symtab.DynamicId)
		if i < len(ctorParamTypes) {
			expected = ctorParamTypes[i]
		}
		args = append(args, c.checkExpr(a, scope, expected))
	}
	return &tast.Expr{Kind: tast.ENew, Type: classType, Sym: classSym, Pos: pos, Scope: scope, Children: args}
}

// checkTry lowers try/catch into a single ETry node whose children are
// [body, catch0body, catch1body, ...]; exception type binding for each
// catch clause declares the caught name in that clause's own block
// scope (§4.3 exception lowering feeds PushHandler/PopHandler in C7).
func (c *Checker) checkTry(n *ast.TryCatch, scope ids.ScopeId) *tast.Expr {
	pos := n.Position()
	body := c.inferExpr(n.Body, scope)
	children := []*tast.Expr{body}
	for _, cc := range n.Catches {
		catchScope := c.Symbols.Scopes.NewChild(scope, symtab.ScopeBlock)
		ty := c.resolveType(catchScope, cc.Type)
		sym, err := c.declareOrReport(catchScope, cc.Name, symtab.SymVariable, ty, cc.Pos)
		catchBody := c.inferExpr(cc.Body, catchScope)
		if err == nil {
			children = append(children, &tast.Expr{Kind: tast.ELet, Type: catchBody.Type, Sym: sym, Pos: cc.Pos, Scope: catchScope, Children: []*tast.Expr{nil, catchBody}})
		} else {
			children = append(children, catchBody)
		}
	}
	return &tast.Expr{Kind: tast.ETry, Type: body.Type, Pos: pos, Scope: scope, Children: children}
}

// checkForIn distinguishes the range form (i in a...b) from iteration
// over an array, recording the distinction on Bool for C6's lowerForIn
// to desugar into the right loop shape.
func (c *Checker) checkForIn(n *ast.ForIn, scope ids.ScopeId) *tast.Expr {
	pos := n.Position()
	loopScope := c.Symbols.Scopes.NewChild(scope, symtab.ScopeBlock)
	var iterable *tast.Expr
	elemType := ids.TypeId(symtab.IntId)
	if rng, ok := n.Iterable.(*ast.RangeExpr); ok {
		low := c.checkExpr(rng.Low, loopScope, symtab.IntId)
		high := c.checkExpr(rng.High, loopScope, symtab.IntId)
		iterable = &tast.Expr{Kind: tast.EBinOp, Type: symtab.IntId, Str: "...", Pos: rng.Position(), Scope: loopScope, Children: []*tast.Expr{low, high}}
	} else {
		iterable = c.inferExpr(n.Iterable, loopScope)
		if k, ok := c.Symbols.Types.Get(c.unify.Resolve(iterable.Type)); ok && k.Tag == symtab.TArray {
			elemType = k.Inner
		}
	}
	sym, _ := c.Symbols.Declare(loopScope, n.Name, symtab.SymVariable, elemType)
	body := c.inferExpr(n.Body, loopScope)
	return &tast.Expr{
		Kind: tast.EForIn, Type: symtab.VoidId, Sym: sym, Bool: n.IsRange,
		Pos: pos, Scope: loopScope, Children: []*tast.Expr{iterable, body},
	}
}

// checkMatch checks the scrutinee once and each case body against a
// common result type (the first case's inferred type), producing one
// EMatch whose Children are [scrutinee, case0, case1, ...]; each case's
// discriminant tag is recorded on that case Expr's Int field for C6's
// decision-tree builder.
func (c *Checker) checkMatch(n *ast.Match, scope ids.ScopeId) *tast.Expr {
	pos := n.Position()
	scrutinee := c.inferExpr(n.Expr, scope)
	children := []*tast.Expr{scrutinee}
	var resultType ids.TypeId
	for i, cs := range n.Cases {
		caseScope := c.Symbols.Scopes.NewChild(scope, symtab.ScopeBlock)
		tag := c.bindPattern(cs.Pattern, scrutinee.Type, caseScope)
		body := c.inferExpr(cs.Body, caseScope)
		if i == 0 {
			resultType = body.Type
		}
		children = append(children, &tast.Expr{Kind: tast.EBlock, Type: body.Type, Int: int64(tag), Pos: cs.Pos, Scope: caseScope, Children: []*tast.Expr{body}})
	}
	return &tast.Expr{Kind: tast.EMatch, Type: resultType, Pos: pos, Scope: scope, Children: children}
}

// bindPattern declares the names a pattern introduces and returns the
// discriminant tag to test the scrutinee against (0 for an irrefutable
// binding or wildcard, so a catch-all case compiles to an unconditional
// fallthrough in the decision tree).
func (c *Checker) bindPattern(p ast.Pattern, scrutineeType ids.TypeId, scope ids.ScopeId) int32 {
	switch n := p.(type) {
	case *ast.WildcardPattern:
		return 0
	case *ast.Identifier:
		c.Symbols.Declare(scope, n.Name, symtab.SymVariable, scrutineeType)
		return 0
	case *ast.ConstructorPattern:
		if k, ok := c.Symbols.Types.Get(c.unify.Resolve(scrutineeType)); ok && k.Tag == symtab.TEnum {
			for i, v := range k.Variants {
				if v == n.Name {
					for _, arg := range n.Patterns {
						c.bindPattern(arg, symtab.DynamicId, scope)
					}
					return int32(i)
				}
			}
		}
	}
	return 0
}

// checkStringInterp desugars a string interpolation literal into an
// EBlock whose Children alternate: a ELiteralString for each literal
// chunk and the typed sub-expression for each `${...}` part, in source
// order. HIR's HConcat lowering folds this chain into concatenation
// calls.
func (c *Checker) checkStringInterp(n *ast.StringInterp, scope ids.ScopeId) *tast.Expr {
	pos := n.Position()
	var children []*tast.Expr
	for _, part := range n.Parts {
		if part.Expr != nil {
			children = append(children, c.checkExpr(part.Expr, scope, symtab.DynamicId))
		} else {
			children = append(children, &tast.Expr{Kind: tast.ELiteralString, Type: symtab.StringId, Str: part.Literal, Pos: pos, Scope: scope})
		}
	}
	return &tast.Expr{Kind: tast.EBlock, Type: symtab.StringId, Str: "$interp", Pos: pos, Scope: scope, Children: children}
}

// checkLambda checks a closure literal's body in a fresh function scope
// and produces an ELambda node; params with no declared element type
// resolve to Dynamic, left for inference to narrow via call-site
// argument types (monomorphization in C6 handles the generic case).
func (c *Checker) checkLambda(params []*ast.Param, body ast.Expr, returnType ast.Type, scope ids.ScopeId, pos ast.Pos) *tast.Expr {
	lamScope := c.Symbols.Scopes.NewChild(scope, symtab.ScopeFunction)
	var paramTypes []ids.TypeId
	var children []*tast.Expr
	for _, p := range params {
		ty := c.resolveType(lamScope, p.Type)
		sym, err := c.declareOrReport(lamScope, p.Name, symtab.SymVariable, ty, p.Pos)
		if err != nil {
			continue
		}
		children = append(children, &tast.Expr{Kind: tast.EIdent, Type: ty, Sym: sym, Pos: p.Pos, Scope: lamScope})
		paramTypes = append(paramTypes, ty)
	}
	expected := ids.TypeId(symtab.DynamicId)
	if returnType != nil {
		expected = c.resolveType(lamScope, returnType)
	}
	bodyExpr := c.checkExpr(body, lamScope, expected)
	children = append(children, bodyExpr)
	fnType := c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TFunction, Params: paramTypes, Ret: bodyExpr.Type})
	return &tast.Expr{Kind: tast.ELambda, Type: fnType, Pos: pos, Scope: lamScope, Children: children}
}
