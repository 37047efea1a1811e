package mir

import (
	"testing"

	"github.com/darmie/rayzor/internal/ids"
	"github.com/stretchr/testify/require"
)

func TestEmptyFunctionHasSingleBlockWithVoidReturn(t *testing.T) {
	m := NewModule("main")
	fn := m.NewFunction("main", Signature{Return: TyVoid})
	entry := fn.Blocks[fn.Entry]
	b := NewBuilder(fn, entry)
	b.SetReturn(0, false)

	require.Len(t, fn.Blocks, 1)
	require.Equal(t, TReturn, entry.Terminator.Kind)
	require.False(t, entry.Terminator.HasValue)
}

func TestBinOpWidensMismatchedOperandsToI64(t *testing.T) {
	m := NewModule("m")
	fn := m.NewFunction("f", Signature{Return: TyI64})
	b := NewBuilder(fn, fn.Blocks[fn.Entry])

	i32Val := b.ConstInt(TyI32, 1)
	i64Val := b.ConstInt(TyI64, 2)
	result := b.BinOp(OpAdd, i32Val, i64Val)

	require.Equal(t, TyI64, fn.Locals[result].Type)
}

func TestBinOpPreservesMatchingOperandType(t *testing.T) {
	m := NewModule("m")
	fn := m.NewFunction("f", Signature{Return: TyI32})
	b := NewBuilder(fn, fn.Blocks[fn.Entry])

	a := b.ConstInt(TyI32, 1)
	c := b.ConstInt(TyI32, 2)
	result := b.BinOp(OpAdd, a, c)

	require.Equal(t, TyI32, fn.Locals[result].Type)
}

func TestComparisonAlwaysProducesBool(t *testing.T) {
	m := NewModule("m")
	fn := m.NewFunction("f", Signature{Return: TyBool})
	b := NewBuilder(fn, fn.Blocks[fn.Entry])

	a := b.ConstInt(TyI64, 1)
	c := b.ConstInt(TyI64, 2)
	result := b.BinOp(OpLt, a, c)

	require.Equal(t, TyBool, fn.Locals[result].Type)
}

func TestEveryRegisterProducingInstructionRegistersItsLocal(t *testing.T) {
	m := NewModule("m")
	fn := m.NewFunction("f", Signature{Return: TyI64})
	b := NewBuilder(fn, fn.Blocks[fn.Entry])

	reg := b.ConstInt(TyI64, 42)
	_, ok := fn.Locals[reg]
	require.True(t, ok, "Const must register a local type immediately")

	ptr := b.Alloc(TyI64, 0, false)
	loaded := b.Load(ptr, TyI64)
	_, ok = fn.Locals[loaded]
	require.True(t, ok, "Load must register a local type immediately")
}

func TestClosureWithZeroCapturesHasNoEnvironment(t *testing.T) {
	m := NewModule("m")
	fn := m.NewFunction("lambda0", Signature{Params: []Param{{Id: 0, Type: TyI64}}, Return: TyI64})
	b := NewBuilder(fn, fn.Blocks[fn.Entry])

	target := m.NewFunction("target", Signature{Return: TyI64})
	closure := b.MakeClosure(target.Id, nil)

	var found Instruction
	for _, instr := range fn.Blocks[fn.Entry].Instructions {
		if instr.Kind == IMakeClosure && instr.Dest == closure {
			found = instr
		}
	}
	require.Empty(t, found.Captures)
	require.False(t, found.SideEffect, "a capture-free closure construction has no heap environment to write")
}

func TestTerminatorSuccessorsCondBranch(t *testing.T) {
	m := NewModule("m")
	fn := m.NewFunction("f", Signature{Return: TyVoid})
	entry := fn.Blocks[fn.Entry]
	thenB := fn.NewBlock()
	elseB := fn.NewBlock()

	b := NewBuilder(fn, entry)
	cond := b.ConstBool(true)
	b.SetCondBranch(cond, thenB, nil, elseB, nil)

	succ := entry.Terminator.Successors()
	require.ElementsMatch(t, []ids.IrBlockId{thenB.Id, elseB.Id}, succ)
	require.Contains(t, thenB.Predecessors, entry.Id)
	require.Contains(t, elseB.Predecessors, entry.Id)
}
