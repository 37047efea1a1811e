package ids

// SymbolArena allocates SymbolId values.
type SymbolArena struct{ a Arena }

func (s *SymbolArena) Alloc() SymbolId { return SymbolId(s.a.Alloc()) }
func (s *SymbolArena) Len() uint32     { return s.a.Len() }

// TypeArena allocates TypeId values.
type TypeArena struct{ a Arena }

func (t *TypeArena) Alloc() TypeId { return TypeId(t.a.Alloc()) }
func (t *TypeArena) Len() uint32   { return t.a.Len() }

// ScopeArena allocates ScopeId values.
type ScopeArena struct{ a Arena }

func (s *ScopeArena) Alloc() ScopeId { return ScopeId(s.a.Alloc()) }
func (s *ScopeArena) Len() uint32    { return s.a.Len() }

// IrFunctionArena allocates IrFunctionId values, monotone within a module.
type IrFunctionArena struct{ a Arena }

func (f *IrFunctionArena) Alloc() IrFunctionId { return IrFunctionId(f.a.Alloc()) }
func (f *IrFunctionArena) Len() uint32          { return f.a.Len() }

// IrBlockArena allocates IrBlockId values, monotone within a function.
type IrBlockArena struct{ a Arena }

func (b *IrBlockArena) Alloc() IrBlockId { return IrBlockId(b.a.Alloc()) }
func (b *IrBlockArena) Len() uint32      { return b.a.Len() }

// IrArena allocates IrId values (SSA registers), monotone within a
// function.
type IrArena struct{ a Arena }

func (r *IrArena) Alloc() IrId   { return IrId(r.a.Alloc()) }
func (r *IrArena) Len() uint32   { return r.a.Len() }

// PackageArena allocates PackageId values.
type PackageArena struct{ a Arena }

func (p *PackageArena) Alloc() PackageId { return PackageId(p.a.Alloc()) }

// LifetimeArena allocates LifetimeId values.
type LifetimeArena struct{ a Arena }

func (l *LifetimeArena) Alloc() LifetimeId { return LifetimeId(l.a.Alloc()) }

// RegionArena allocates RegionId values.
type RegionArena struct{ a Arena }

func (r *RegionArena) Alloc() RegionId { return RegionId(r.a.Alloc()) }
