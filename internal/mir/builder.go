package mir

import "github.com/darmie/rayzor/internal/ids"

// Builder emits instructions into a function's current block, always
// registering a register-producing instruction's result type in the
// function's local table before returning its id. §4.7 calls this out
// explicitly as "do not leave this to the caller — it has been a
// recurring source of bugs" for loads, casts, and binops; this builder
// makes it structurally impossible to skip for any instruction kind.
type Builder struct {
	Fn    *Function
	Block *Block
}

// NewBuilder starts building into b within fn.
func NewBuilder(fn *Function, b *Block) *Builder {
	return &Builder{Fn: fn, Block: b}
}

// SetBlock redirects subsequent Emit* calls to b.
func (bd *Builder) SetBlock(b *Block) { bd.Block = b }

func (bd *Builder) emit(instr Instruction) {
	bd.Block.Instructions = append(bd.Block.Instructions, instr)
}

func (bd *Builder) newReg(ty Type) ids.IrId {
	id := bd.Fn.NewReg()
	bd.Fn.SetLocal(id, Local{Type: ty})
	return id
}

// ConstInt emits an integer constant.
func (bd *Builder) ConstInt(ty Type, v int64) ids.IrId {
	dest := bd.newReg(ty)
	bd.emit(Instruction{Kind: IConst, Dest: dest, HasDest: true, ConstType: ty, IntVal: v})
	return dest
}

// ConstFloat emits a float constant.
func (bd *Builder) ConstFloat(v float64) ids.IrId {
	dest := bd.newReg(TyF64)
	bd.emit(Instruction{Kind: IConst, Dest: dest, HasDest: true, ConstType: TyF64, FloatVal: v})
	return dest
}

// ConstBool emits a boolean constant.
func (bd *Builder) ConstBool(v bool) ids.IrId {
	dest := bd.newReg(TyBool)
	bd.emit(Instruction{Kind: IConst, Dest: dest, HasDest: true, ConstType: TyBool, BoolVal: v})
	return dest
}

// isComparison reports whether op produces a Bool result (§4.7:
// "Comparisons, logical ops: result type = Bool").
func isComparison(op Op) bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// BinOp emits a binary operation. Per §4.7: comparisons produce Bool;
// arithmetic produces the operand type if both operands agree, else
// widens to I64.
func (bd *Builder) BinOp(op Op, l, r ids.IrId) ids.IrId {
	var resultTy Type
	if isComparison(op) {
		resultTy = TyBool
	} else {
		lt := bd.Fn.Locals[l].Type
		rt := bd.Fn.Locals[r].Type
		if lt == rt {
			resultTy = lt
		} else {
			resultTy = TyI64
		}
	}
	dest := bd.newReg(resultTy)
	bd.emit(Instruction{Kind: IBinOp, Dest: dest, HasDest: true, Op: op, Args: []ids.IrId{l, r}})
	return dest
}

// UnOp emits a unary operation; result type matches the operand.
func (bd *Builder) UnOp(op Op, v ids.IrId) ids.IrId {
	ty := bd.Fn.Locals[v].Type
	if op == OpNot {
		ty = TyBool
	}
	dest := bd.newReg(ty)
	bd.emit(Instruction{Kind: IUnOp, Dest: dest, HasDest: true, Op: op, Args: []ids.IrId{v}})
	return dest
}

// Copy emits a Copy of v (non-destructive duplication of a value).
func (bd *Builder) Copy(v ids.IrId) ids.IrId {
	ty := bd.Fn.Locals[v].Type
	dest := bd.newReg(ty)
	bd.emit(Instruction{Kind: ICopy, Dest: dest, HasDest: true, Args: []ids.IrId{v}})
	return dest
}

// Move emits a Move of v, the ownership-transferring counterpart to Copy.
func (bd *Builder) Move(v ids.IrId) ids.IrId {
	ty := bd.Fn.Locals[v].Type
	dest := bd.newReg(ty)
	bd.emit(Instruction{Kind: IMove, Dest: dest, HasDest: true, Args: []ids.IrId{v}})
	return dest
}

// Load emits a typed load through ptr. Result type is always ty, per
// §4.7's "Loads ... are ... places where type tracking must be
// automatic".
func (bd *Builder) Load(ptr ids.IrId, ty Type) ids.IrId {
	dest := bd.newReg(ty)
	bd.emit(Instruction{Kind: ILoad, Dest: dest, HasDest: true, Ptr: ptr, Ty: ty, SideEffect: false})
	return dest
}

// Store emits a store of val through ptr. Stores have no result and are
// always side-effecting.
func (bd *Builder) Store(ptr, val ids.IrId) {
	bd.emit(Instruction{Kind: IStore, Ptr: ptr, Args: []ids.IrId{val}, SideEffect: true})
}

// Alloc emits a fixed-size or dynamic-count allocation of ty. Alloc is
// always side-effecting (§4.8: "Alloc has side effects for LICM
// purposes").
func (bd *Builder) Alloc(ty Type, count ids.IrId, hasCount bool) ids.IrId {
	dest := bd.newReg(TyPtr)
	bd.emit(Instruction{Kind: IAlloc, Dest: dest, HasDest: true, Ty: ty, Count: count, HasCount: hasCount, SideEffect: true})
	return dest
}

// Free emits a free of ptr.
func (bd *Builder) Free(ptr ids.IrId) {
	bd.emit(Instruction{Kind: IFree, Ptr: ptr, SideEffect: true})
}

// GEP emits a get-element-pointer computation.
func (bd *Builder) GEP(ptr ids.IrId, indices []ids.IrId) ids.IrId {
	dest := bd.newReg(TyPtr)
	bd.emit(Instruction{Kind: IGEP, Dest: dest, HasDest: true, Ptr: ptr, Indices: indices})
	return dest
}

// PtrAdd emits pointer arithmetic.
func (bd *Builder) PtrAdd(ptr, offset ids.IrId) ids.IrId {
	dest := bd.newReg(TyPtr)
	bd.emit(Instruction{Kind: IPtrAdd, Dest: dest, HasDest: true, Ptr: ptr, Args: []ids.IrId{offset}})
	return dest
}

// Cast emits a (possibly narrowing/widening) conversion from `from` to
// `to`; result type is always `to` (§4.7 automatic type tracking).
func (bd *Builder) Cast(v ids.IrId, from, to Type) ids.IrId {
	dest := bd.newReg(to)
	bd.emit(Instruction{Kind: ICast, Dest: dest, HasDest: true, Args: []ids.IrId{v}, From: from, To: to})
	return dest
}

// BitCast reinterprets v's bits as type to, with no conversion.
func (bd *Builder) BitCast(v ids.IrId, to Type) ids.IrId {
	dest := bd.newReg(to)
	bd.emit(Instruction{Kind: IBitCast, Dest: dest, HasDest: true, Args: []ids.IrId{v}, To: to})
	return dest
}

// CallDirect emits a direct call to callee, with resultTy as the typed
// return value.
func (bd *Builder) CallDirect(callee ids.IrFunctionId, args []ids.IrId, typeArgs []Type, resultTy Type) ids.IrId {
	dest := bd.newReg(resultTy)
	bd.emit(Instruction{Kind: ICallDirect, Dest: dest, HasDest: true, Callee: callee, Args: args, TypeArgs: typeArgs, ResultTy: resultTy, SideEffect: true})
	return dest
}

// CallIndirect emits a call through a function-pointer value matching
// sig, honoring §6.1's "signature-matched function-pointer call".
func (bd *Builder) CallIndirect(fnPtr ids.IrId, args []ids.IrId, resultTy Type) ids.IrId {
	dest := bd.newReg(resultTy)
	bd.emit(Instruction{Kind: ICallIndirect, Dest: dest, HasDest: true, FnPtr: fnPtr, Args: args, ResultTy: resultTy, SideEffect: true})
	return dest
}

// MakeClosure builds the 16-byte {fn_ptr, env_ptr} closure value (§3.6).
func (bd *Builder) MakeClosure(fn ids.IrFunctionId, captures []ids.IrId) ids.IrId {
	dest := bd.newReg(TyPtr)
	bd.emit(Instruction{Kind: IMakeClosure, Dest: dest, HasDest: true, Callee: fn, Captures: captures, SideEffect: len(captures) > 0})
	return dest
}

// ClosureFunc extracts the fn_ptr field of a closure value.
func (bd *Builder) ClosureFunc(closure ids.IrId) ids.IrId {
	dest := bd.newReg(TyPtr)
	bd.emit(Instruction{Kind: IClosureFunc, Dest: dest, HasDest: true, Args: []ids.IrId{closure}})
	return dest
}

// ClosureEnv extracts the env_ptr field of a closure value; it is null
// when the closure has zero captures (§8.3).
func (bd *Builder) ClosureEnv(closure ids.IrId) ids.IrId {
	dest := bd.newReg(TyPtr)
	bd.emit(Instruction{Kind: IClosureEnv, Dest: dest, HasDest: true, Args: []ids.IrId{closure}})
	return dest
}

// Borrow emits a borrow of v (shared if mutable is false).
func (bd *Builder) Borrow(v ids.IrId, mutable bool) ids.IrId {
	ty := bd.Fn.Locals[v].Type
	dest := bd.newReg(ty)
	bd.emit(Instruction{Kind: IBorrow, Dest: dest, HasDest: true, Args: []ids.IrId{v}, Mutable: mutable})
	return dest
}

// EndBorrow ends a previously-taken borrow.
func (bd *Builder) EndBorrow(borrow ids.IrId) {
	bd.emit(Instruction{Kind: IEndBorrow, Args: []ids.IrId{borrow}, SideEffect: true})
}

// PushHandler / PopHandler lower try/catch (§4.7 "Exception lowering").
func (bd *Builder) PushHandler(target ids.IrBlockId) {
	bd.emit(Instruction{Kind: IPushHandler, SideEffect: true})
	_ = target // target recorded by the caller's terminator, not here
}

func (bd *Builder) PopHandler() {
	bd.emit(Instruction{Kind: IPopHandler, SideEffect: true})
}

// SetReturn terminates the block with Return{val}.
func (bd *Builder) SetReturn(val ids.IrId, has bool) {
	bd.Block.Terminator = Terminator{Kind: TReturn, Value: val, HasValue: has}
}

// SetJump terminates the block with Jump{target, args} and records the
// predecessor edge on the target.
func (bd *Builder) SetJump(target *Block, args []ids.IrId) {
	bd.Block.Terminator = Terminator{Kind: TJump, Target: target.Id, Args: args}
	target.AddPred(bd.Block.Id)
}

// SetCondBranch terminates the block with CondBranch and records both
// predecessor edges.
func (bd *Builder) SetCondBranch(cond ids.IrId, trueB *Block, trueArgs []ids.IrId, falseB *Block, falseArgs []ids.IrId) {
	bd.Block.Terminator = Terminator{
		Kind: TCondBranch, Cond: cond,
		TrueTarget: trueB.Id, TrueArgs: trueArgs,
		FalseTarget: falseB.Id, FalseArgs: falseArgs,
	}
	trueB.AddPred(bd.Block.Id)
	falseB.AddPred(bd.Block.Id)
}

// SetUnreachable marks the block as provably unreachable.
func (bd *Builder) SetUnreachable() {
	bd.Block.Terminator = Terminator{Kind: TUnreachable}
}
