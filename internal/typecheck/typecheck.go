// Package typecheck implements AST lowering and type checking (C3): it
// walks internal/ast nodes, builds the scope tree and symbol table (C2),
// runs bidirectional type inference with a union-find unifier grounded on
// the teacher's internal/types/unification.go, and produces internal/tast
// values for C6 to consume. Errors accumulate non-fatally via internal/diag
// so one file can report every problem in a single pass, the way the
// teacher's internal/types.Typechecker collects diagnostics instead of
// aborting at the first one.
package typecheck

import (
	"fmt"

	"github.com/darmie/rayzor/internal/ast"
	"github.com/darmie/rayzor/internal/diag"
	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/symtab"
	"github.com/darmie/rayzor/internal/tast"
)

// Checker carries the tables and diagnostic sink for one compilation
// unit. Symbols and Types persist across files in a unit so cross-file
// resolution (ResolvePath) works; the Unifier's substitution is scoped
// per-function and reset between functions.
type Checker struct {
	Symbols *symtab.Table
	Sink    *diag.CollectingSink

	unify *Unifier
	// classScopes maps a class's symbol to the scope its fields and
	// methods were declared in, so field lookups from outside the class
	// (checkExpr's RecordAccess case) can find them the same way a
	// method body does.
	classScopes map[ids.SymbolId]ids.ScopeId
}

// NewChecker creates a Checker bound to a fresh symbol table.
func NewChecker() *Checker {
	return &Checker{
		Symbols:     symtab.NewTable(),
		Sink:        &diag.CollectingSink{},
		unify:       NewUnifier(),
		classScopes: make(map[ids.SymbolId]ids.ScopeId),
	}
}

// CheckFile lowers one parsed file into a tast.File, declaring every
// top-level name before checking any body so forward references and
// mutual recursion resolve (mirrors the teacher's two-pass module
// elaboration in internal/elaborate/file.go).
func (c *Checker) CheckFile(path string, f *ast.File) *tast.File {
	out := &tast.File{Path: path}
	root := c.Symbols.Scopes.Root()

	var classes []*ast.ClassDecl
	var ifaces []*ast.InterfaceDecl
	var enums []*ast.EnumDecl
	var abstracts []*ast.AbstractDecl
	var funcs []*ast.FuncDecl

	seenFunc := make(map[*ast.FuncDecl]bool)
	for _, d := range f.Decls {
		switch n := d.(type) {
		case *ast.ClassDecl:
			classes = append(classes, n)
		case *ast.InterfaceDecl:
			ifaces = append(ifaces, n)
		case *ast.EnumDecl:
			enums = append(enums, n)
		case *ast.AbstractDecl:
			abstracts = append(abstracts, n)
		case *ast.FuncDecl:
			if !seenFunc[n] {
				seenFunc[n] = true
				funcs = append(funcs, n)
			}
		}
	}
	for _, fd := range f.Funcs {
		if !seenFunc[fd] {
			seenFunc[fd] = true
			funcs = append(funcs, fd)
		}
	}

	// Pass 1: declare every top-level name so bodies can reference
	// anything else in the file regardless of declaration order.
	classSyms := make(map[*ast.ClassDecl]ids.SymbolId, len(classes))
	for _, cd := range classes {
		sym, err := c.declareOrReport(root, cd.Name, symtab.SymClass, symtab.DynamicId, cd.Pos)
		if err == nil {
			classSyms[cd] = sym
		}
	}
	ifaceSyms := make(map[*ast.InterfaceDecl]ids.SymbolId, len(ifaces))
	for _, id := range ifaces {
		sym, err := c.declareOrReport(root, id.Name, symtab.SymInterface, symtab.DynamicId, id.Pos)
		if err == nil {
			ifaceSyms[id] = sym
		}
	}
	enumSyms := make(map[*ast.EnumDecl]ids.SymbolId, len(enums))
	for _, ed := range enums {
		sym, err := c.declareOrReport(root, ed.Name, symtab.SymEnum, symtab.DynamicId, ed.Pos)
		if err == nil {
			enumSyms[ed] = sym
		}
	}
	abstractSyms := make(map[*ast.AbstractDecl]ids.SymbolId, len(abstracts))
	for _, ad := range abstracts {
		sym, err := c.declareOrReport(root, ad.Name, symtab.SymAbstract, symtab.DynamicId, ad.Pos)
		if err == nil {
			abstractSyms[ad] = sym
		}
	}
	funcSyms := make(map[*ast.FuncDecl]ids.SymbolId, len(funcs))
	for _, fd := range funcs {
		sym, err := c.declareOrReport(root, fd.Name, symtab.SymFunction, symtab.DynamicId, fd.Pos)
		if err == nil {
			funcSyms[fd] = sym
			if len(fd.TypeParams) > 0 {
				flags := mustGet(c.Symbols, sym).Flags
				flags.Generic = true
				c.Symbols.SetFlags(sym, flags)
			}
		}
	}

	// Pass 2: check bodies now that every name is resolvable.
	for _, cd := range classes {
		if sym, ok := classSyms[cd]; ok {
			out.Classes = append(out.Classes, c.checkClass(cd, sym, root))
		}
	}
	for _, id := range ifaces {
		if sym, ok := ifaceSyms[id]; ok {
			out.Interfaces = append(out.Interfaces, c.checkInterface(id, sym, root))
		}
	}
	for _, ed := range enums {
		if sym, ok := enumSyms[ed]; ok {
			out.Enums = append(out.Enums, c.checkEnum(ed, sym))
		}
	}
	for _, ad := range abstracts {
		if sym, ok := abstractSyms[ad]; ok {
			out.Abstracts = append(out.Abstracts, c.checkAbstract(ad, sym, root))
		}
	}
	for _, fd := range funcs {
		if sym, ok := funcSyms[fd]; ok {
			out.Functions = append(out.Functions, c.checkFunction(fd, sym, root, false))
		}
	}
	return out
}

func (c *Checker) declareOrReport(scope ids.ScopeId, name string, kind symtab.SymbolKind, ty ids.TypeId, pos ast.Pos) (ids.SymbolId, error) {
	sym, err := c.Symbols.Declare(scope, name, kind, ty)
	if err != nil {
		span := &ast.Span{Start: pos, End: pos}
		c.Sink.Emit(diag.New(diag.PhaseResolve, diag.E0103, fmt.Sprintf("duplicate declaration of %q", name), span))
	}
	return sym, err
}

func mustGet(t *symtab.Table, id ids.SymbolId) symtab.Symbol {
	s, _ := t.Get(id)
	return s
}

// resolveType maps an ast.Type to a ids.TypeId, interning structural
// shapes (arrays, functions) and resolving named types against scope.
func (c *Checker) resolveType(scope ids.ScopeId, t ast.Type) ids.TypeId {
	if t == nil {
		return symtab.DynamicId
	}
	switch n := t.(type) {
	case *ast.SimpleType:
		switch n.Name {
		case "Int":
			return symtab.IntId
		case "Float":
			return symtab.FloatId
		case "String":
			return symtab.StringId
		case "Bool":
			return symtab.BoolId
		case "Void":
			return symtab.VoidId
		case "Dynamic":
			return symtab.DynamicId
		}
		sym, ok := c.Symbols.Lookup(scope, n.Name)
		if !ok {
			span := &ast.Span{Start: n.Pos, End: n.Pos}
			c.Sink.Emit(diag.New(diag.PhaseResolve, diag.E0101, fmt.Sprintf("undefined type %q", n.Name), span))
			return symtab.ErrorId
		}
		s := mustGet(c.Symbols, sym)
		tag := symtab.TClass
		switch s.Kind {
		case symtab.SymInterface:
			tag = symtab.TInterface
		case symtab.SymEnum:
			tag = symtab.TEnum
		case symtab.SymAbstract:
			tag = symtab.TAbstract
		}
		return c.Symbols.Types.Intern(symtab.TypeKind{Tag: tag, Symbol: sym})
	case *ast.TypeVar:
		// An unbound generic parameter resolves to a fresh TTypeParameter,
		// keyed by the enclosing function symbol so two uses of the same
		// name in one signature share a TypeId; looked up first so
		// repeated mentions (e.g. `T` in both a param and the return
		// type) unify to one id via the symbol table.
		sym, ok := c.Symbols.Lookup(scope, n.Name)
		if !ok {
			sym, _ = c.Symbols.Declare(scope, n.Name, SymTypeParam, symtab.DynamicId)
		}
		return c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TTypeParameter, Symbol: sym})
	case *ast.ListType:
		return c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TArray, Inner: c.resolveType(scope, n.Element)})
	case *ast.FuncType:
		var params []ids.TypeId
		for _, p := range n.Params {
			params = append(params, c.resolveType(scope, p))
		}
		return c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TFunction, Params: params, Ret: c.resolveType(scope, n.Return)})
	case *ast.TupleType:
		var fields []symtab.AnonField
		for i, el := range n.Elements {
			fields = append(fields, symtab.AnonField{Name: fmt.Sprintf("_%d", i), Type: c.resolveType(scope, el)})
		}
		return c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TAnonymous, Fields: fields})
	case *ast.RecordType:
		var fields []symtab.AnonField
		for _, rf := range n.Fields {
			fields = append(fields, symtab.AnonField{Name: rf.Name, Type: c.resolveType(scope, rf.Type)})
		}
		return c.Symbols.Types.Intern(symtab.TypeKind{Tag: symtab.TAnonymous, Fields: fields})
	}
	return symtab.DynamicId
}

// SymTypeParam classifies a symbol standing in for a generic type
// parameter; declared transiently by resolveType, it is never emitted
// into tast output directly, only referenced through its TypeId.
const SymTypeParam symtab.SymbolKind = 100
