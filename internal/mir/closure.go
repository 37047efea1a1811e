package mir

import "github.com/darmie/rayzor/internal/ids"

// EnvironmentField describes one capture slot in a closure's heap
// environment (§4.7). Every capture is stored at an 8-byte stride
// regardless of its natural width, so loading it always emits a fixed
// GEP->Load<I64> pair before any value-specific cast.
type EnvironmentField struct {
	Index      int
	Symbol     ids.SymbolId
	FinalType  Type
	StorageType Type // always TyI64
	ByteOffset int64
	NeedsCast  bool
}

// EnvironmentLayout is the heap struct layout for one closure's captures.
type EnvironmentLayout struct {
	Fields []EnvironmentField
}

// Capture names one value a closure body reads from its enclosing scope.
type Capture struct {
	Symbol    ids.SymbolId
	FinalType Type
}

// NewEnvironmentLayout builds a layout for captures, in the order given.
func NewEnvironmentLayout(captures []Capture) EnvironmentLayout {
	layout := EnvironmentLayout{}
	for i, c := range captures {
		needsCast := c.FinalType != TyI64
		layout.Fields = append(layout.Fields, EnvironmentField{
			Index:       i,
			Symbol:      c.Symbol,
			FinalType:   c.FinalType,
			StorageType: TyI64,
			ByteOffset:  int64(i) * 8,
			NeedsCast:   needsCast,
		})
	}
	return layout
}

// EmitLoadCapture emits the GEP -> Load<I64> -> optional Cast/BitCast
// sequence for loading field from env.
func (bd *Builder) EmitLoadCapture(env ids.IrId, field EnvironmentField) ids.IrId {
	offsetReg := bd.ConstInt(TyI64, field.ByteOffset/8)
	ptr := bd.GEP(env, []ids.IrId{offsetReg})
	raw := bd.Load(ptr, TyI64)
	if !field.NeedsCast {
		return raw
	}
	if field.FinalType == TyF64 {
		return bd.BitCast(raw, TyF64)
	}
	return bd.Cast(raw, TyI64, field.FinalType)
}
