// Package mir implements the mid-level IR (§3.6): SSA form, explicit
// basic blocks, and explicit types. MIR is produced by lowering HIR (C7)
// and consumed by the optimizer (C8), the backend interface (C11), and
// the bundle formats (C9).
package mir

import "github.com/darmie/rayzor/internal/ids"

// Type is MIR's own small type lattice: lower-level than symtab.TypeKind
// (pointers, explicit widths) but still symbolic enough for validation
// and backend lowering.
type Type int

const (
	TyVoid Type = iota
	TyBool
	TyI32
	TyI64
	TyF64
	TyPtr
	TyAny // type-erased generic storage (i64-backed, per HIR erasure)
)

// CallConv names a calling convention a function's signature declares.
type CallConv int

const (
	ConvDefault CallConv = iota
	ConvC
)

// Param is a function parameter: its register id and declared type.
type Param struct {
	Id   ids.IrId
	Type Type
}

// Signature is a function's calling contract.
type Signature struct {
	Params      []Param
	Return      Type
	Conv        CallConv
	CanThrow    bool
	TypeParams  []string // not-yet-monomorphized positions, if any
}

// Local records a register's type, mutability, and allocation hint.
type Local struct {
	Type           Type
	Mutable        bool
	AllocationHint AllocHint
}

// AllocHint advises the backend how to place a local; it's advisory only
// (the backend contract in §6.1 makes the final stack-vs-heap call for
// Alloc instructions specifically).
type AllocHint int

const (
	HintRegister AllocHint = iota
	HintStack
	HintHeap
)

// ExternFunction is an FFI declaration: a C ABI symbol name and the
// signature the compiler will call it with (§6.2).
type ExternFunction struct {
	Name      string
	Signature Signature
}

// Global is a module-level value.
type Global struct {
	Name string
	Type Type
}

// Function is one MIR function: signature, CFG, and the local type
// table every register-producing instruction must register into
// (§4.7 "Instruction emission rules").
type Function struct {
	Id        ids.IrFunctionId
	Name      string
	Signature Signature
	Entry     ids.IrBlockId
	Blocks    map[ids.IrBlockId]*Block
	blockArena ids.IrBlockArena
	regArena   ids.IrArena
	Locals    map[ids.IrId]Local
}

// NewFunction creates an empty function with one entry block.
func NewFunction(id ids.IrFunctionId, name string, sig Signature) *Function {
	f := &Function{
		Id:        id,
		Name:      name,
		Signature: sig,
		Blocks:    make(map[ids.IrBlockId]*Block),
		Locals:    make(map[ids.IrId]Local),
	}
	entry := f.NewBlock()
	f.Entry = entry.Id
	for _, p := range sig.Params {
		f.Locals[p.Id] = Local{Type: p.Type}
	}
	return f
}

// NewBlock allocates and registers a new, empty basic block.
func (f *Function) NewBlock() *Block {
	id := ids.IrBlockId(f.blockArena.Alloc())
	b := &Block{Id: id}
	f.Blocks[id] = b
	return b
}

// NewReg allocates a fresh SSA register id. Callers must register its
// type via SetLocal immediately — §4.7 calls out untracked
// register-producing instructions as a recurring bug source.
func (f *Function) NewReg() ids.IrId {
	return ids.IrId(f.regArena.Alloc())
}

// SetLocal records the type of a register-producing instruction's result.
func (f *Function) SetLocal(id ids.IrId, l Local) { f.Locals[id] = l }

// Block is a basic block: phi nodes, ordered instructions, a terminator,
// and its predecessor set.
type Block struct {
	Id           ids.IrBlockId
	Phis         []Phi
	Instructions []Instruction
	Terminator   Terminator
	Predecessors []ids.IrBlockId
	Comment      string
}

// AddPred records pred as a predecessor of b, if not already present.
func (b *Block) AddPred(pred ids.IrBlockId) {
	for _, p := range b.Predecessors {
		if p == pred {
			return
		}
	}
	b.Predecessors = append(b.Predecessors, pred)
}

// Phi is an SSA phi node: one incoming value per predecessor, in the
// same order as Block.Predecessors.
type Phi struct {
	Dest     ids.IrId
	Type     Type
	Incoming []PhiEdge
}

// PhiEdge names which predecessor block contributes which value.
type PhiEdge struct {
	Block ids.IrBlockId
	Value ids.IrId
}

// Module is an ordered collection of functions, globals, type
// definitions, and extern declarations (§3.6).
type Module struct {
	Name            string
	Functions       []*Function
	Globals         []Global
	ExternFunctions []ExternFunction
	functionArena   ids.IrFunctionArena
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// NewFunction allocates a fresh IrFunctionId and appends an empty
// function to the module, so recursive references resolve even before
// the body is lowered (§4.7 "skeleton pass").
func (m *Module) NewFunction(name string, sig Signature) *Function {
	id := ids.IrFunctionId(m.functionArena.Alloc())
	f := NewFunction(id, name, sig)
	m.Functions = append(m.Functions, f)
	return f
}

// FunctionByName returns the first function named name, if any.
func (m *Module) FunctionByName(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
