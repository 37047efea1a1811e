package parser

import (
	"github.com/darmie/rayzor/internal/ast"
	"github.com/darmie/rayzor/internal/lexer"
)

// This file holds the Haxe-style OOP surface grammar: classes, interfaces,
// enums, abstracts, and the statement/expression forms that go with them
// (new, throw, try/catch, for-in, return, break, continue, var, indexing,
// assignment). It follows the same cursor discipline as parser_decl.go and
// parser_expr.go: every parse* method is entered with curToken on its first
// token and returns with curToken on its last consumed token.

// parseMetaEntry parses a Haxe-style annotation: @:name or @:name(arg, ...).
// Entered with curToken == AT, returns with curToken on the closing paren
// (or on the name itself when there are no arguments).
func (p *Parser) parseMetaEntry() *ast.MetaEntry {
	pos := p.curPos()
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	m := &ast.MetaEntry{Name: p.curToken.Literal, Pos: pos}

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken() // move to LPAREN
		p.nextToken() // move past LPAREN
		for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
			m.Args = append(m.Args, p.curToken.Literal)
			p.nextToken()
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
			}
		}
	}
	return m
}

// parseLeadingMeta consumes zero or more @:meta entries preceding a
// declaration or member, leaving curToken on the token after the last one.
func (p *Parser) parseLeadingMeta() []*ast.MetaEntry {
	var meta []*ast.MetaEntry
	for p.curTokenIs(lexer.AT) {
		if m := p.parseMetaEntry(); m != nil {
			meta = append(meta, m)
		}
		p.nextToken()
	}
	return meta
}

// parseAnnotatedTopLevelDecl handles a top-level declaration preceded by
// one or more @:meta annotations, e.g. `@:coreType abstract Foo(Int) {}`.
func (p *Parser) parseAnnotatedTopLevelDecl() ast.Node {
	meta := p.parseLeadingMeta()

	switch p.curToken.Type {
	case lexer.CLASS:
		decl := p.parseClassDeclaration()
		if cd, ok := decl.(*ast.ClassDecl); ok {
			cd.Metadata = append(cd.Metadata, meta...)
			for _, m := range meta {
				if m.Name == "extern" {
					cd.IsExtern = true
				}
			}
		}
		return decl
	case lexer.ABSTRACT:
		decl := p.parseAbstractDeclaration()
		if ad, ok := decl.(*ast.AbstractDecl); ok {
			for _, m := range meta {
				if m.Name == "coreType" {
					ad.IsCoreType = true
				}
			}
		}
		return decl
	case lexer.INTERFACE:
		return p.parseInterfaceDeclaration()
	case lexer.ENUM:
		return p.parseEnumDeclaration()
	case lexer.FUNC, lexer.PURE:
		return p.parseFunctionDeclaration(false, false)
	default:
		p.report("PAR_META_TARGET_EXPECTED", "expected a declaration after metadata annotation", "Place @:meta directly before class/abstract/interface/enum/func")
		return nil
	}
}

// parseModifiers consumes a run of public/private/static/inline keywords,
// returning the accumulated flags. Entered and left with curToken on the
// first non-modifier token.
func (p *Parser) parseModifiers() (isStatic, isPublic, isInline bool) {
	for {
		switch p.curToken.Type {
		case lexer.STATIC:
			isStatic = true
		case lexer.PUBLIC:
			isPublic = true
		case lexer.PRIVATE:
			isPublic = false
		case lexer.INLINE:
			isInline = true
		default:
			return
		}
		p.nextToken()
	}
}

// parseFieldDecl parses a class field: var name[: Type][= default][;].
// Entered with curToken == VAR.
func (p *Parser) parseFieldDecl(isStatic, isPublic, isInline bool, meta []*ast.MetaEntry) *ast.FieldDecl {
	pos := p.curPos()
	f := &ast.FieldDecl{
		IsStatic: isStatic,
		IsPublic: isPublic,
		IsInline: isInline,
		Metadata: meta,
		Pos:      pos,
	}
	if !p.expectPeek(lexer.IDENT) {
		return f
	}
	f.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		f.Type = p.parseType()
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		f.Default = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return f
}

// parseMethodSignature parses a bodiless method signature used in
// interface bodies: func name[T](params)[: RetType];
func (p *Parser) parseMethodSignature() *ast.FuncDecl {
	pos := p.curPos()
	fn := &ast.FuncDecl{Pos: pos, Origin: "interface_method"}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	fn.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		fn.TypeParams = p.parseTypeParams()
	}
	if !p.expectPeek(lexer.LPAREN) {
		return fn
	}
	fn.Params = p.parseParams()

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return fn
}

// parseClassDeclaration parses a Haxe-style class:
//
//	class Name[T] extends Super implements IFoo, IBar { members }
func (p *Parser) parseClassDeclaration() ast.Node {
	startPos := p.curPos()
	cd := &ast.ClassDecl{Pos: startPos}

	if !p.expectPeek(lexer.IDENT) {
		return cd
	}
	cd.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		cd.TypeParams = p.parseTypeParams()
	}
	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return cd
		}
		cd.Super = p.curToken.Literal
	}
	if p.peekTokenIs(lexer.IMPLEMENTS) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return cd
		}
		cd.Interfaces = append(cd.Interfaces, p.curToken.Literal)
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return cd
			}
			cd.Interfaces = append(cd.Interfaces, p.curToken.Literal)
		}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return cd
	}
	p.nextToken() // move inside body

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		meta := p.parseLeadingMeta()
		isStatic, isPublic, isInline := p.parseModifiers()

		switch p.curToken.Type {
		case lexer.VAR:
			cd.Fields = append(cd.Fields, p.parseFieldDecl(isStatic, isPublic, isInline, meta))
		case lexer.FUNC:
			if m := p.parseFunctionDeclaration(false, false); m != nil {
				cd.Methods = append(cd.Methods, m)
			}
		default:
			p.report("PAR_CLASS_MEMBER_EXPECTED", "expected a field ('var') or method ('func') in class body", "Remove the stray token or add 'var'/'func'")
		}
		p.nextToken()
	}

	endPos := p.curPos()
	cd.Pos = startPos
	_ = endPos
	return cd
}

// parseInterfaceDeclaration parses:
//
//	interface Name[T] extends IFoo, IBar { func sig(...); ... }
func (p *Parser) parseInterfaceDeclaration() ast.Node {
	startPos := p.curPos()
	id := &ast.InterfaceDecl{Pos: startPos}

	if !p.expectPeek(lexer.IDENT) {
		return id
	}
	id.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		id.TypeParams = p.parseTypeParams()
	}
	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return id
		}
		id.Supers = append(id.Supers, p.curToken.Literal)
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return id
			}
			id.Supers = append(id.Supers, p.curToken.Literal)
		}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return id
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.FUNC) {
			if sig := p.parseMethodSignature(); sig != nil {
				id.Methods = append(id.Methods, sig)
			}
		} else {
			p.report("PAR_INTERFACE_MEMBER_EXPECTED", "expected method signature in interface body", "Use 'func name(...): Type;'")
		}
		p.nextToken()
	}
	return id
}

// parseEnumDeclaration parses:
//
//	enum Name[T] { Variant1; Variant2(Type1, Type2); ... }
func (p *Parser) parseEnumDeclaration() ast.Node {
	startPos := p.curPos()
	ed := &ast.EnumDecl{Pos: startPos}

	if !p.expectPeek(lexer.IDENT) {
		return ed
	}
	ed.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		ed.TypeParams = p.parseTypeParams()
	}
	if !p.expectPeek(lexer.LBRACE) {
		return ed
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.report("PAR_ENUM_VARIANT_EXPECTED", "expected enum variant name", "Add a variant name, e.g. 'Red;' or 'Custom(Int, Int)'")
			p.nextToken()
			continue
		}
		v := &ast.EnumVariant{Name: p.curToken.Literal, Pos: p.curPos()}
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			v.Params = p.parseParams()
		}
		ed.Variants = append(ed.Variants, v)

		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
	}
	return ed
}

// parseAbstractDeclaration parses:
//
//	abstract Name[T](Underlying) { @:op(A + B) func add(rhs) { ... } }
func (p *Parser) parseAbstractDeclaration() ast.Node {
	startPos := p.curPos()
	ad := &ast.AbstractDecl{Pos: startPos}

	if !p.expectPeek(lexer.IDENT) {
		return ad
	}
	ad.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		ad.TypeParams = p.parseTypeParams()
	}
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		ad.Underlying = p.parseType()
		if !p.expectPeek(lexer.RPAREN) {
			return ad
		}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return ad
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		meta := p.parseLeadingMeta()
		_, _, _ = p.parseModifiers()

		var opToken string
		isOperator := false
		for _, m := range meta {
			if m.Name == "op" && len(m.Args) > 0 {
				isOperator = true
				opToken = m.Args[0]
			}
		}

		if p.curTokenIs(lexer.FUNC) {
			m := p.parseFunctionDeclaration(false, false)
			if m != nil && isOperator {
				ad.Operators = append(ad.Operators, &ast.OperatorOverload{Op: opToken, Method: m.Name, Pos: m.Pos})
			}
		} else {
			p.report("PAR_ABSTRACT_MEMBER_EXPECTED", "expected 'func' in abstract body", "Abstract bodies only contain method definitions")
		}
		p.nextToken()
	}
	return ad
}

// --- Expression-level OOP grammar ---

// parseNewExpression parses `new Class[TypeArgs](args)`.
func (p *Parser) parseNewExpression() ast.Expr {
	pos := p.curPos()
	if !p.expectPeek(lexer.IDENT) {
		return &ast.Error{Pos: pos, Msg: "expected class name after 'new'"}
	}
	n := &ast.New{ClassName: p.curToken.Literal, Pos: pos}

	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		p.nextToken()
		n.TypeArgs = append(n.TypeArgs, p.parseType())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			n.TypeArgs = append(n.TypeArgs, p.parseType())
		}
		if !p.expectPeek(lexer.RBRACKET) {
			return n
		}
	}
	if !p.expectPeek(lexer.LPAREN) {
		return n
	}
	n.Args = p.parseCallArguments()
	return n
}

// parseThrowExpression parses `throw expr`.
func (p *Parser) parseThrowExpression() ast.Expr {
	pos := p.curPos()
	p.nextToken()
	return &ast.ThrowExpr{Value: p.parseExpression(LOWEST), Pos: pos}
}

// parseTryCatchExpression parses `try { body } catch (name: Type) { body } ...`.
func (p *Parser) parseTryCatchExpression() ast.Expr {
	pos := p.curPos()
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.Error{Pos: pos, Msg: "expected '{' after 'try'"}
	}
	tc := &ast.TryCatch{Pos: pos, Body: p.parseBlockOrExpression()}

	for p.peekTokenIs(lexer.CATCH) {
		p.nextToken()
		catchPos := p.curPos()
		if !p.expectPeek(lexer.LPAREN) {
			break
		}
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		name := p.curToken.Literal

		var typ ast.Type
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			typ = p.parseType()
		}
		if !p.expectPeek(lexer.RPAREN) {
			break
		}
		if !p.expectPeek(lexer.LBRACE) {
			break
		}
		body := p.parseBlockOrExpression()
		tc.Catches = append(tc.Catches, &ast.CatchClause{Name: name, Type: typ, Body: body, Pos: catchPos})
	}
	return tc
}

// parseForInExpression parses `for (name in iterable) body`, where iterable
// may be a range expression (`lo...hi`).
func (p *Parser) parseForInExpression() ast.Expr {
	pos := p.curPos()
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.Error{Pos: pos, Msg: "expected '(' after 'for'"}
	}
	if !p.expectPeek(lexer.IDENT) {
		return &ast.Error{Pos: pos, Msg: "expected loop variable name"}
	}
	name := p.curToken.Literal
	if !p.expectPeek(lexer.IN) {
		return &ast.Error{Pos: pos, Msg: "expected 'in' in for loop"}
	}
	p.nextToken()
	iterable := p.parseExpression(LOWEST)
	_, isRange := iterable.(*ast.RangeExpr)

	if !p.expectPeek(lexer.RPAREN) {
		return &ast.Error{Pos: pos, Msg: "expected ')' after for-loop iterable"}
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	return &ast.ForIn{Name: name, Iterable: iterable, IsRange: isRange, Body: body, Pos: pos}
}

// parseRangeExpression parses the infix `low...high` form consumed by for-in.
func (p *Parser) parseRangeExpression(low ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	high := p.parseExpression(SUM)
	return &ast.RangeExpr{Low: low, High: high, Pos: pos}
}

// parseThisExpression parses the `this` reference inside a method body.
func (p *Parser) parseThisExpression() ast.Expr {
	return &ast.Identifier{Name: "this", Pos: p.curPos()}
}

// parseSuperExpression parses the `super` reference; `super(args)` (a
// superclass constructor call) and `super.method(args)` both fall out of
// the normal call/access infix parsing once `super` resolves to an
// identifier.
func (p *Parser) parseSuperExpression() ast.Expr {
	return &ast.Identifier{Name: "super", Pos: p.curPos()}
}

// parseReturnExpression parses `return [expr]`. Since the surface language
// is expression-oriented (a block's value is its last expression), a return
// in tail position is just the returned expression; an empty return yields
// unit. Early returns from the middle of a block are not distinguished from
// the enclosing block's tail value at this layer.
func (p *Parser) parseReturnExpression() ast.Expr {
	pos := p.curPos()
	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) {
		return &ast.Literal{Kind: ast.UnitLit, Pos: pos}
	}
	p.nextToken()
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseBreakExpression() ast.Expr {
	return &ast.BreakStmt{Pos: p.curPos()}
}

func (p *Parser) parseContinueExpression() ast.Expr {
	return &ast.ContinueStmt{Pos: p.curPos()}
}

// parseVarExpression parses a local `var name[: Type] = value` binding. It
// reuses ast.Let so hir lowering threads the rest of the enclosing block as
// the binding's continuation exactly as it already does for 'let' without
// 'in'.
func (p *Parser) parseVarExpression() ast.Expr {
	pos := p.curPos()
	let := &ast.Let{Pos: pos}
	if !p.expectPeek(lexer.IDENT) {
		return let
	}
	let.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		let.Type = p.parseType()
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return let
	}
	p.nextToken()
	let.Value = p.parseExpression(LOWEST)
	return let
}

// parseNullLiteral parses the `null` literal, represented as a unit value
// with no further runtime distinction at this layer.
func (p *Parser) parseNullLiteral() ast.Expr {
	return &ast.Literal{Kind: ast.UnitLit, Value: nil, Pos: p.curPos()}
}

// parseIndexExpression parses the infix `array[index]` form.
func (p *Parser) parseIndexExpression(arr ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return &ast.Error{Pos: pos, Msg: "expected ']' after index expression"}
	}
	return &ast.Index{Array: arr, Idx: idx, Pos: pos}
}

// parseAssignExpression parses the infix `target = value` mutation form.
func (p *Parser) parseAssignExpression(target ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	value := p.parseExpression(ASSIGNMENT)
	return &ast.Assign{Target: target, Value: value, Pos: pos}
}
