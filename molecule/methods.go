// File: methods.go
// Role: Atom and bond lifecycle & queries.
// Determinism:
//   - Atoms(), Bonds(), Neighbors() and BondsOf() return results sorted by ID ascending.
// Ownership:
//   - No locking; callers own the graph exclusively (see package doc).

package molecule

import (
	"fmt"
	"sort"
)

// AddAtom inserts a new atom with atomic number z and returns its ID.
// Complexity: O(1) amortized.
func (g *Graph) AddAtom(z int, opts ...AtomOption) int {
	g.nextAtomID++
	a := &Atom{ID: g.nextAtomID, Number: z}
	for _, opt := range opts {
		opt(a)
	}
	g.atoms[a.ID] = a
	g.adjacency[a.ID] = make(map[int]int)

	return a.ID
}

// Atom returns the atom with the given ID, or nil if absent.
// Complexity: O(1).
func (g *Graph) Atom(id int) *Atom {
	return g.atoms[id]
}

// HasAtom reports whether an atom with the given ID exists.
func (g *Graph) HasAtom(id int) bool {
	_, ok := g.atoms[id]
	return ok
}

// RemoveAtom deletes the atom and all incident bonds.
// Returns ErrAtomNotFound if the atom does not exist.
// Complexity: O(deg(v)).
func (g *Graph) RemoveAtom(id int) error {
	nbrs, ok := g.adjacency[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrAtomNotFound, id)
	}
	for nbr, bid := range nbrs {
		delete(g.bonds, bid)
		delete(g.adjacency[nbr], id)
	}
	delete(g.adjacency, id)
	delete(g.atoms, id)

	return nil
}

// AddBond connects atoms a and b and returns the new bond ID.
//
// Returns ErrAtomNotFound, ErrSelfBond or ErrBondExists.
// Complexity: O(1).
func (g *Graph) AddBond(a, b int, order BondOrder, opts ...BondOption) (int, error) {
	if a == b {
		return 0, ErrSelfBond
	}
	if !g.HasAtom(a) {
		return 0, fmt.Errorf("%w: %d", ErrAtomNotFound, a)
	}
	if !g.HasAtom(b) {
		return 0, fmt.Errorf("%w: %d", ErrAtomNotFound, b)
	}
	if _, exists := g.adjacency[a][b]; exists {
		return 0, fmt.Errorf("%w: %d-%d", ErrBondExists, a, b)
	}
	g.nextBondID++
	bd := &Bond{ID: g.nextBondID, A: a, B: b, Order: order}
	for _, opt := range opts {
		opt(bd)
	}
	g.bonds[bd.ID] = bd
	g.adjacency[a][b] = bd.ID
	g.adjacency[b][a] = bd.ID

	return bd.ID, nil
}

// Bond returns the bond with the given ID, or nil if absent.
func (g *Graph) Bond(id int) *Bond {
	return g.bonds[id]
}

// BondBetween returns the bond connecting a and b, or nil.
// Complexity: O(1).
func (g *Graph) BondBetween(a, b int) *Bond {
	bid, ok := g.adjacency[a][b]
	if !ok {
		return nil
	}

	return g.bonds[bid]
}

// RemoveBond deletes the bond with the given ID.
// Returns ErrBondNotFound if it does not exist.
func (g *Graph) RemoveBond(id int) error {
	bd, ok := g.bonds[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrBondNotFound, id)
	}
	delete(g.adjacency[bd.A], bd.B)
	delete(g.adjacency[bd.B], bd.A)
	delete(g.bonds, id)

	return nil
}

// AtomCount returns the number of atoms.
func (g *Graph) AtomCount() int { return len(g.atoms) }

// BondCount returns the number of bonds.
func (g *Graph) BondCount() int { return len(g.bonds) }

// Empty reports whether the graph has no atoms.
func (g *Graph) Empty() bool { return len(g.atoms) == 0 }

// Atoms returns all atoms sorted by ID.
// Complexity: O(V log V).
func (g *Graph) Atoms() []*Atom {
	out := make([]*Atom, 0, len(g.atoms))
	for _, a := range g.atoms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// AtomIDs returns all atom IDs sorted ascending.
func (g *Graph) AtomIDs() []int {
	out := make([]int, 0, len(g.atoms))
	for id := range g.atoms {
		out = append(out, id)
	}
	sort.Ints(out)

	return out
}

// Bonds returns all bonds sorted by ID.
// Complexity: O(E log E).
func (g *Graph) Bonds() []*Bond {
	out := make([]*Bond, 0, len(g.bonds))
	for _, b := range g.bonds {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Neighbors returns the IDs of atoms bonded to id, sorted ascending.
// Unknown IDs yield nil.
// Complexity: O(d log d).
func (g *Graph) Neighbors(id int) []int {
	nbrs := g.adjacency[id]
	if len(nbrs) == 0 {
		return nil
	}
	out := make([]int, 0, len(nbrs))
	for nbr := range nbrs {
		out = append(out, nbr)
	}
	sort.Ints(out)

	return out
}

// BondsOf returns the bonds incident to id, sorted by bond ID.
func (g *Graph) BondsOf(id int) []*Bond {
	nbrs := g.adjacency[id]
	out := make([]*Bond, 0, len(nbrs))
	for _, bid := range nbrs {
		out = append(out, g.bonds[bid])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Degree returns the number of explicit bonds of id.
func (g *Graph) Degree(id int) int { return len(g.adjacency[id]) }

// BondOrderSum returns the valence used by explicit bonds of id. Unset bonds
// count as one, plus one extra if the atom is aromatic and carries any Unset
// aromatic bond (the Daylight convention for non-kekulised input).
func (g *Graph) BondOrderSum(id int) int {
	sum := 0
	for _, bid := range g.adjacency[id] {
		sum += g.bonds[bid].Order.Numeric()
	}
	if g.unsetAromatic(id) {
		sum++
	}

	return sum
}

// unsetAromatic reports whether id is aromatic and has an aromatic bond whose
// order is not yet assigned.
func (g *Graph) unsetAromatic(id int) bool {
	if a := g.atoms[id]; a == nil || !a.Aromatic {
		return false
	}
	for _, bid := range g.adjacency[id] {
		if bd := g.bonds[bid]; bd.Order == Unset && bd.Aromatic {
			return true
		}
	}

	return false
}

// MaxBondOrder returns the highest order among the bonds of id (Unset if none).
func (g *Graph) MaxBondOrder(id int) BondOrder {
	max := Unset
	for _, bid := range g.adjacency[id] {
		if o := g.bonds[bid].Order; o > max {
			max = o
		}
	}

	return max
}
