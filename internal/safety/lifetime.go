// Package safety implements the lifetime solver, ownership analyzer,
// and escape analyzer (§4.5) that run over the semantic graphs
// internal/semgraph builds. Violations are reported as diag.Reports in
// the E03xx (Safety) taxonomy; callers treat a non-empty sink as a
// compilation failure unless the offending code carries an opt-in
// unsafe annotation (§4.5 "Failure semantics").
package safety

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/darmie/rayzor/internal/ids"
)

// ConstraintKind discriminates a lifetime constraint shape.
type ConstraintKind int

const (
	Outlives ConstraintKind = iota
	Equal
	BorrowConstraint
)

// Constraint is one lifetime relation the solver must satisfy.
type Constraint struct {
	Kind ConstraintKind
	A, B ids.LifetimeId
	Var  ids.SymbolId // BorrowConstraint's bound variable, else unused
}

// Solution assigns every lifetime a canonical representative: the
// lowest-numbered member of its equality class, after outlives cycles
// are collapsed via Tarjan SCC.
type Solution struct {
	Canonical map[ids.LifetimeId]ids.LifetimeId
	// Order lists canonical representatives in the topological order
	// Kahn's algorithm produced (outer/longer-lived lifetimes first),
	// the order the backend needs for region deallocation.
	Order []ids.LifetimeId
}

// cacheKey hashes a constraint set deterministically (sorted before
// hashing, so set order never affects the key) — the solver's own
// result cache, targeting the ≥85% incremental hit rate §4.5 calls for
// when only a handful of functions change between compiler runs.
func cacheKey(cs []Constraint) [32]byte {
	sorted := append([]Constraint(nil), cs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		if sorted[i].A != sorted[j].A {
			return sorted[i].A < sorted[j].A
		}
		return sorted[i].B < sorted[j].B
	})
	h := sha256.New()
	buf := make([]byte, 4)
	for _, c := range sorted {
		binary.LittleEndian.PutUint32(buf, uint32(c.Kind))
		h.Write(buf)
		binary.LittleEndian.PutUint32(buf, uint32(c.A))
		h.Write(buf)
		binary.LittleEndian.PutUint32(buf, uint32(c.B))
		h.Write(buf)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Solver caches solutions by constraint-set hash.
type Solver struct {
	cache map[[32]byte]*Solution
}

// NewSolver creates an empty, cache-backed Solver.
func NewSolver() *Solver {
	return &Solver{cache: make(map[[32]byte]*Solution)}
}

// Solve applies Equal constraints via union-find, builds the Outlives
// graph over the resulting equivalence classes, runs Tarjan's SCC to
// detect cycles (a non-singleton SCC is an unsatisfiable-lifetimes
// error, reported by the caller as E0305), then topologically sorts
// the condensation via Kahn's algorithm to produce a canonical
// deallocation order. Returns (solution, cyclic lifetimes, ok); ok is
// false only when a genuine cycle makes no solution possible.
func (s *Solver) Solve(cs []Constraint) (*Solution, []ids.LifetimeId, bool) {
	key := cacheKey(cs)
	if cached, ok := s.cache[key]; ok {
		return cached, nil, true
	}

	uf := newUnionFind()
	for _, c := range cs {
		if c.Kind == Equal {
			uf.union(c.A, c.B)
		}
	}

	// Outlives graph over equivalence-class representatives.
	outEdges := make(map[ids.LifetimeId]map[ids.LifetimeId]bool)
	nodes := make(map[ids.LifetimeId]bool)
	for _, c := range cs {
		a, b := uf.find(c.A), uf.find(c.B)
		nodes[a], nodes[b] = true, true
		if c.Kind == Outlives {
			if outEdges[a] == nil {
				outEdges[a] = make(map[ids.LifetimeId]bool)
			}
			outEdges[a][b] = true
		}
	}

	sccs := tarjanSCC(nodes, outEdges)
	for _, scc := range sccs {
		if len(scc) > 1 {
			return nil, scc, false
		}
	}

	order, ok := kahnTopoSort(nodes, outEdges)
	if !ok {
		// A self-loop Outlives(A, A) is its own singleton cycle, caught
		// here rather than by tarjanSCC (which only flags multi-node
		// SCCs) since a lifetime trivially outlives itself.
		return nil, nil, false
	}

	canonical := make(map[ids.LifetimeId]ids.LifetimeId)
	for n := range nodes {
		canonical[n] = uf.find(n)
	}
	sol := &Solution{Canonical: canonical, Order: order}
	s.cache[key] = sol
	return sol, nil, true
}

type unionFind struct{ parent map[ids.LifetimeId]ids.LifetimeId }

func newUnionFind() *unionFind { return &unionFind{parent: make(map[ids.LifetimeId]ids.LifetimeId)} }

func (u *unionFind) find(x ids.LifetimeId) ids.LifetimeId {
	p, ok := u.parent[x]
	if !ok {
		u.parent[x] = x
		return x
	}
	if p == x {
		return x
	}
	root := u.find(p)
	u.parent[x] = root
	return root
}

func (u *unionFind) union(a, b ids.LifetimeId) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// tarjanSCC returns every strongly connected component of the outlives
// graph restricted to nodes, in no particular order.
func tarjanSCC(nodes map[ids.LifetimeId]bool, edges map[ids.LifetimeId]map[ids.LifetimeId]bool) [][]ids.LifetimeId {
	index := 0
	indices := make(map[ids.LifetimeId]int)
	lowlink := make(map[ids.LifetimeId]int)
	onStack := make(map[ids.LifetimeId]bool)
	var stack []ids.LifetimeId
	var sccs [][]ids.LifetimeId

	var strongconnect func(v ids.LifetimeId)
	strongconnect = func(v ids.LifetimeId) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for w := range edges[v] {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []ids.LifetimeId
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	// Deterministic iteration order so results (and thus the cache, and
	// error messages) don't depend on Go's randomized map order.
	var ordered []ids.LifetimeId
	for n := range nodes {
		ordered = append(ordered, n)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	for _, v := range ordered {
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs
}

// kahnTopoSort orders nodes so that every Outlives(A, B) edge places A
// before B (A must be deallocated no earlier than B). Returns ok=false
// if a cycle remains (self-loops included).
func kahnTopoSort(nodes map[ids.LifetimeId]bool, edges map[ids.LifetimeId]map[ids.LifetimeId]bool) ([]ids.LifetimeId, bool) {
	indegree := make(map[ids.LifetimeId]int)
	for n := range nodes {
		indegree[n] = 0
	}
	for _, outs := range edges {
		for to := range outs {
			indegree[to]++
		}
	}

	var queue []ids.LifetimeId
	for n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	var order []ids.LifetimeId
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		var next []ids.LifetimeId
		for to := range edges[n] {
			indegree[to]--
			if indegree[to] == 0 {
				next = append(next, to)
			}
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		queue = append(queue, next...)
	}

	if len(order) != len(nodes) {
		return nil, false
	}
	return order, true
}
