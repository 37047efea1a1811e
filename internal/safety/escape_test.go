package safety

import (
	"testing"

	"github.com/darmie/rayzor/internal/ids"
	"github.com/darmie/rayzor/internal/tast"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEscapesNoEscapeForLocalOnly(t *testing.T) {
	fn := &tast.Function{
		Body: &tast.Expr{
			Kind: tast.EBlock,
			Children: []*tast.Expr{
				{Kind: tast.ELet, Sym: ids.SymbolId(1), Children: []*tast.Expr{
					{Kind: tast.ENew},
					nil,
				}},
				{Kind: tast.ELiteralInt, Int: 0},
			},
		},
	}
	sites := AnalyzeEscapes(fn)
	require.Len(t, sites, 1)
	require.Equal(t, NoEscape, sites[0].Kind)
}

func TestAnalyzeEscapesViaReturn(t *testing.T) {
	v := ids.SymbolId(1)
	fn := &tast.Function{
		Body: &tast.Expr{
			Kind: tast.EBlock,
			Children: []*tast.Expr{
				{Kind: tast.ELet, Sym: v, Children: []*tast.Expr{
					{Kind: tast.ENew},
					nil,
				}},
				{Kind: tast.EIdent, Sym: v},
			},
		},
	}
	sites := AnalyzeEscapes(fn)
	require.Len(t, sites, 1)
	require.Equal(t, EscapesViaReturn, sites[0].Kind)
}

func TestAnalyzeEscapesViaCall(t *testing.T) {
	v := ids.SymbolId(1)
	fn := &tast.Function{
		Body: &tast.Expr{
			Kind: tast.EBlock,
			Children: []*tast.Expr{
				{Kind: tast.ELet, Sym: v, Children: []*tast.Expr{
					{Kind: tast.ENew},
					nil,
				}},
				{Kind: tast.ECall, Children: []*tast.Expr{
					{Kind: tast.EIdent, Sym: v},
				}},
			},
		},
	}
	sites := AnalyzeEscapes(fn)
	require.Len(t, sites, 1)
	require.Equal(t, EscapesViaCall, sites[0].Kind)
}

func TestAnalyzeEscapesViaContainer(t *testing.T) {
	v := ids.SymbolId(1)
	thisSym := ids.SymbolId(2)
	fn := &tast.Function{
		Body: &tast.Expr{
			Kind: tast.EBlock,
			Children: []*tast.Expr{
				{Kind: tast.ELet, Sym: v, Children: []*tast.Expr{
					{Kind: tast.ENew},
					nil,
				}},
				{Kind: tast.EAssign, Children: []*tast.Expr{
					{Kind: tast.EFieldAccess, Str: "cache", Children: []*tast.Expr{{Kind: tast.EIdent, Sym: thisSym}}},
					{Kind: tast.EIdent, Sym: v},
				}},
			},
		},
	}
	sites := AnalyzeEscapes(fn)
	require.Len(t, sites, 1)
	require.Equal(t, EscapesViaContainer, sites[0].Kind)
}
