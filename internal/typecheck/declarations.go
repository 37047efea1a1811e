package typecheck

import (
	"fmt"

	"github.com/darmie/rayzor/internal/ast"
	"github.com/darmie/rayzor/internal/diag"
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/symtab"
	"github.com/darmie/rayzor/internal/tast"
)

func (c *Checker) checkClass(cd *ast.ClassDecl, sym ids.SymbolId, parentScope ids.ScopeId) tast.Class {
	scope := c.Symbols.Scopes.NewChild(parentScope, symtab.ScopeClass)
	c.Symbols.SetQualifiedPath(sym, cd.Name)
	c.classScopes[sym] = scope

	out := tast.Class{Sym: sym, Name: cd.Name, Scope: scope}
	if cd.Super != "" {
		if superSym, ok := c.Symbols.Lookup(parentScope, cd.Super); ok {
			out.Super, out.HasSuper = superSym, true
		} else {
			c.Sink.Emit(diag.New(diag.PhaseResolve, diag.E0100, fmt.Sprintf("undefined superclass %q", cd.Super), spanAt(cd.Pos)))
		}
	}
	for _, ifaceName := range cd.Interfaces {
		if ifaceSym, ok := c.Symbols.Lookup(parentScope, ifaceName); ok {
			out.Interfaces = append(out.Interfaces, ifaceSym)
		} else {
			c.Sink.Emit(diag.New(diag.PhaseResolve, diag.E0100, fmt.Sprintf("undefined interface %q", ifaceName), spanAt(cd.Pos)))
		}
	}

	// Fields are declared first so method bodies can reference siblings
	// declared later in source order (implicit-this field access below).
	fieldSyms := make(map[*ast.FieldDecl]ids.SymbolId, len(cd.Fields))
	for _, fd := range cd.Fields {
		ty := c.resolveType(scope, fd.Type)
		kind := symtab.SymVariable
		fsym, err := c.declareOrReport(scope, fd.Name, kind, ty, fd.Pos)
		if err != nil {
			continue
		}
		flags := mustGet(c.Symbols, fsym).Flags
		flags.Public, flags.Static, flags.Inline = fd.IsPublic, fd.IsStatic, fd.IsInline
		c.Symbols.SetFlags(fsym, flags)
		fieldSyms[fd] = fsym
	}
	for _, fd := range cd.Fields {
		fsym, ok := fieldSyms[fd]
		if !ok {
			continue
		}
		field := tast.Field{Sym: fsym, Name: fd.Name, Type: mustGet(c.Symbols, fsym).Type, IsStatic: fd.IsStatic, IsInline: fd.IsInline}
		if fd.Default != nil {
			field.Default = c.checkExpr(fd.Default, scope, field.Type)
		}
		out.Fields = append(out.Fields, field)
	}

	classType := c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TClass, Symbol: sym})
	for _, md := range cd.Methods {
		msym, err := c.declareOrReport(scope, md.Name, symtab.SymFunction, symtab.DynamicId, md.Pos)
		if err != nil {
			continue
		}
		out.Methods = append(out.Methods, c.checkFunctionIn(md, msym, scope, true, classType))
	}
	return out
}

func (c *Checker) checkInterface(id *ast.InterfaceDecl, sym ids.SymbolId, parentScope ids.ScopeId) tast.Interface {
	scope := c.Symbols.Scopes.NewChild(parentScope, symtab.ScopeClass)
	c.Symbols.SetQualifiedPath(sym, id.Name)
	out := tast.Interface{Sym: sym, Name: id.Name}
	for _, md := range id.Methods {
		// Interface methods have no body; declare the signature only, as
		// a method stub for vtable-layout purposes (§3.6 fat-pointer
		// dispatch).
		msym, err := c.declareOrReport(scope, md.Name, symtab.SymFunction, symtab.DynamicId, md.Pos)
		if err != nil {
			continue
		}
		fn := tast.Function{Sym: msym, Name: md.Name, Scope: scope}
		for _, p := range md.Params {
			ty := c.resolveType(scope, p.Type)
			psym, _ := c.Symbols.Declare(scope, p.Name, symtab.SymVariable, ty)
			fn.Params = append(fn.Params, tast.Param{Sym: psym, Type: ty})
		}
		fn.ReturnType = c.resolveType(scope, md.ReturnType)
		out.Methods = append(out.Methods, fn)
	}
	return out
}

func (c *Checker) checkEnum(ed *ast.EnumDecl, sym ids.SymbolId) tast.Enum {
	c.Symbols.SetQualifiedPath(sym, ed.Name)
	out := tast.Enum{Sym: sym, Name: ed.Name}
	var variantNames []string
	for i, v := range ed.Variants {
		variant := tast.EnumVariant{Name: v.Name, Tag: int32(i)}
		for _, p := range v.Params {
			variant.ParamTypes = append(variant.ParamTypes, c.resolveType(c.Symbols.Scopes.Root(), p.Type))
		}
		out.Variants = append(out.Variants, variant)
		variantNames = append(variantNames, v.Name)
	}
	// Re-intern the enum's TypeKind now that variant names are known, so
	// TEnum carries its discriminant list for exhaustiveness and layout
	// decisions downstream (simple vs. boxed variant, §3.6).
	c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TEnum, Symbol: sym, Variants: variantNames})
	return out
}

func (c *Checker) checkAbstract(ad *ast.AbstractDecl, sym ids.SymbolId, scope ids.ScopeId) tast.Abstract {
	c.Symbols.SetQualifiedPath(sym, ad.Name)
	underlying := c.resolveType(scope, ad.Underlying)
	c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TAbstract, Symbol: sym, Underlying: underlying})
	return tast.Abstract{Sym: sym, Name: ad.Name, Underlying: underlying}
}

func spanAt(p ast.Pos) *ast.Span {
	return &ast.Span{Start: p, End: p}
}
