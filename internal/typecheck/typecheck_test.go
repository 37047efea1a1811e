package typecheck

import (
	"testing"

	"github.com/darmie/rayzor/internal/ast"
	"github.com/darmie/rayzor/internal/symtab"
	"github.com/darmie/rayzor/internal/tast"
	"github.com/stretchr/testify/require"
)

func TestCheckFileInfersArithmeticFunction(t *testing.T) {
	f := &ast.File{
		Funcs: []*ast.FuncDecl{
			{
				Name:       "add",
				Params:     []*ast.Param{{Name: "a", Type: &ast.SimpleType{Name: "Int"}}, {Name: "b", Type: &ast.SimpleType{Name: "Int"}}},
				ReturnType: &ast.SimpleType{Name: "Int"},
				Body:       &ast.BinaryOp{Op: "+", Left: &ast.Identifier{Name: "a"}, Right: &ast.Identifier{Name: "b"}},
			},
		},
	}
	c := NewChecker()
	out := c.CheckFile("test.hx", f)
	require.False(t, c.Sink.HasErrors(), "%v", c.Sink.Reports)
	require.Len(t, out.Functions, 1)
	require.Equal(t, symtab.IntId, out.Functions[0].ReturnType)
	require.Equal(t, symtab.IntId, out.Functions[0].Body.Type)
}

func TestCheckFileReportsUndefinedSymbol(t *testing.T) {
	f := &ast.File{
		Funcs: []*ast.FuncDecl{
			{Name: "bad", ReturnType: &ast.SimpleType{Name: "Int"}, Body: &ast.Identifier{Name: "missing"}},
		},
	}
	c := NewChecker()
	c.CheckFile("test.hx", f)
	require.True(t, c.Sink.HasErrors())
	require.Equal(t, "E0100", c.Sink.Reports[0].Code)
}

func TestCheckClassFieldWithImplicitThis(t *testing.T) {
	f := &ast.File{
		Decls: []ast.Node{
			&ast.ClassDecl{
				Name: "Counter",
				Fields: []*ast.FieldDecl{
					{Name: "count", Type: &ast.SimpleType{Name: "Int"}, IsPublic: true},
				},
				Methods: []*ast.FuncDecl{
					{Name: "get", ReturnType: &ast.SimpleType{Name: "Int"}, Body: &ast.Identifier{Name: "count"}},
				},
			},
		},
	}
	c := NewChecker()
	out := c.CheckFile("test.hx", f)
	require.Len(t, out.Classes, 1)
	require.Len(t, out.Classes[0].Methods, 1)
	method := out.Classes[0].Methods[0]
	require.Equal(t, tast.EFieldAccess, method.Body.Kind, "bare field reference rewrites to implicit this.count")
	require.Equal(t, "count", method.Body.Str)
}

func TestCheckEnumVariantsGetSequentialDiscriminants(t *testing.T) {
	f := &ast.File{
		Decls: []ast.Node{
			&ast.EnumDecl{
				Name: "Color",
				Variants: []*ast.EnumVariant{
					{Name: "Red"}, {Name: "Green"}, {Name: "Blue"},
				},
			},
		},
	}
	c := NewChecker()
	out := c.CheckFile("test.hx", f)
	require.Len(t, out.Enums, 1)
	require.Equal(t, int32(0), out.Enums[0].Variants[0].Tag)
	require.Equal(t, int32(1), out.Enums[0].Variants[1].Tag)
	require.Equal(t, int32(2), out.Enums[0].Variants[2].Tag)
}

func TestUnifyBindsTypeParameterToConcreteType(t *testing.T) {
	tab := symtab.NewTable()
	sym, err := tab.Declare(tab.Scopes.Root(), "T", symtab.SymVariable, symtab.DynamicId)
	require.NoError(t, err)
	tp := tab.Types.Intern(symtab.TypeKind{Tag: symtab.TTypeParameter, Symbol: sym})

	u := NewUnifier()
	require.True(t, u.Unify(tab.Types, tp, symtab.IntId))
	require.Equal(t, symtab.IntId, u.Resolve(tp))
}

func TestUnifyRejectsIncompatiblePrimitives(t *testing.T) {
	tab := symtab.NewTable()
	u := NewUnifier()
	require.False(t, u.Unify(tab.Types, symtab.IntId, symtab.StringId))
}
