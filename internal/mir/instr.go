package mir

import "github.com/darmie/rayzor/internal/ids"

// Op names a binary or unary operator carried by BinOp/UnOp/Cmp.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpNeg
	OpNot
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// InstrKind discriminates Instruction variants (§3.6).
type InstrKind int

const (
	IConst InstrKind = iota
	ICopy
	IMove
	IBinOp
	IUnOp
	ICmp
	ILoad
	IStore
	IAlloc
	IFree
	IGEP
	IPtrAdd
	ICast
	IBitCast
	ICallDirect
	ICallIndirect
	IMakeClosure
	IClosureFunc
	IClosureEnv
	IBorrow
	IEndBorrow
	IChannelNew
	IChannelSend
	IChannelReceive
	IThreadSpawn
	IThreadJoin
	IPushHandler
	IPopHandler
)

// Instruction is one MIR instruction. As with TypeKind (symtab), this is
// a flat tagged struct rather than an interface hierarchy, matching the
// spec's "closed sum type ... no deep hierarchies" guidance.
type Instruction struct {
	Kind InstrKind
	Dest ids.IrId // register this instruction defines; only meaningful
	// for register-producing kinds (everything except Store, Free,
	// ThreadJoin-as-effect, PushHandler, PopHandler, EndBorrow).
	HasDest bool

	Op   Op
	Args []ids.IrId

	// Const
	ConstType Type
	IntVal    int64
	FloatVal  float64
	BoolVal   bool

	// Load/Store/Alloc/Free/GEP/PtrAdd
	Ptr     ids.IrId
	Ty      Type
	Count   ids.IrId
	HasCount bool
	Indices []ids.IrId

	// Cast/BitCast
	From, To Type

	// CallDirect/CallIndirect
	Callee    ids.IrFunctionId
	FnPtr     ids.IrId
	TypeArgs  []Type
	ResultTy  Type

	// MakeClosure
	Captures []ids.IrId

	// Borrow
	Mutable bool

	// Side-effecting: true for Alloc, Store, Free, calls, and anything
	// touching a channel/thread/handler. Side-effecting instructions are
	// never removed by DCE and are not hoisted by LICM unless a specific
	// pass proves it safe (§4.8).
	SideEffect bool
}

// Terminator ends a basic block.
type Terminator struct {
	Kind TerminatorKind

	// Return
	HasValue bool
	Value    ids.IrId

	// Jump
	Target ids.IrBlockId
	Args   []ids.IrId

	// CondBranch
	Cond       ids.IrId
	TrueTarget  ids.IrBlockId
	TrueArgs    []ids.IrId
	FalseTarget ids.IrBlockId
	FalseArgs   []ids.IrId

	// Switch
	SwitchVal  ids.IrId
	Cases      []SwitchCase
	Default    ids.IrBlockId
	HasDefault bool
}

// SwitchCase is one arm of a Switch terminator.
type SwitchCase struct {
	Value  int64
	Target ids.IrBlockId
}

// TerminatorKind discriminates Terminator variants.
type TerminatorKind int

const (
	TReturn TerminatorKind = iota
	TJump
	TCondBranch
	TSwitch
	TUnreachable
	TNone // block under construction, no terminator yet
)

// Successors returns the blocks t can transfer control to.
func (t Terminator) Successors() []ids.IrBlockId {
	switch t.Kind {
	case TJump:
		return []ids.IrBlockId{t.Target}
	case TCondBranch:
		return []ids.IrBlockId{t.TrueTarget, t.FalseTarget}
	case TSwitch:
		out := make([]ids.IrBlockId, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			out = append(out, c.Target)
		}
		if t.HasDefault {
			out = append(out, t.Default)
		}
		return out
	default:
		return nil
	}
}
