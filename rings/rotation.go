package rings

import (
	"sort"

	"github.com/katalvlaran/molscaf/molecule"
)

// canonicalCycle rotates a simple cycle so it starts at its smallest atom ID and
// runs towards the smaller of that atom's two ring neighbours. Atom IDs in a
// simple cycle are distinct, so the rotation is unique.
// Time Complexity: O(n).
func canonicalCycle(cycle []int) []int {
	n := len(cycle)
	if n == 0 {
		return nil
	}
	k := 0
	for i := 1; i < n; i++ {
		if cycle[i] < cycle[k] {
			k = i
		}
	}
	out := make([]int, n)
	next, prev := cycle[(k+1)%n], cycle[(k-1+n)%n]
	if next <= prev {
		for i := 0; i < n; i++ {
			out[i] = cycle[(k+i)%n]
		}
	} else {
		for i := 0; i < n; i++ {
			out[i] = cycle[(k-i+n)%n]
		}
	}

	return out
}

// newRing builds a Ring from a cyclic atom sequence of g.
func newRing(g *molecule.Graph, cycle []int) Ring {
	atoms := canonicalCycle(cycle)
	bonds := make([]int, 0, len(atoms))
	for i, a := range atoms {
		if b := g.BondBetween(a, atoms[(i+1)%len(atoms)]); b != nil {
			bonds = append(bonds, b.ID)
		}
	}
	sort.Ints(bonds)

	return Ring{Atoms: atoms, Bonds: bonds}
}

// compareSeq lexicographically compares two int slices, shorter first on a prefix tie.
func compareSeq(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}

	return 0
}

// sortRings orders rings by size, then by canonical atom sequence.
func sortRings(rs []Ring) {
	sort.SliceStable(rs, func(i, j int) bool {
		if len(rs[i].Atoms) != len(rs[j].Atoms) {
			return len(rs[i].Atoms) < len(rs[j].Atoms)
		}
		return compareSeq(rs[i].Atoms, rs[j].Atoms) < 0
	})
}

// cyclicCore returns the atoms that survive iterative pruning of atoms with at
// most one remaining neighbour. Only these atoms can lie on a cycle.
func cyclicCore(g *molecule.Graph) map[int]bool {
	core := make(map[int]bool, g.AtomCount())
	deg := make(map[int]int, g.AtomCount())
	for _, id := range g.AtomIDs() {
		core[id] = true
		deg[id] = g.Degree(id)
	}
	var stack []int
	for id, d := range deg {
		if d <= 1 {
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !core[id] {
			continue
		}
		delete(core, id)
		for _, nbr := range g.Neighbors(id) {
			if !core[nbr] {
				continue
			}
			deg[nbr]--
			if deg[nbr] == 1 {
				stack = append(stack, nbr)
			}
		}
	}

	return core
}

// coreNeighbors returns the neighbours of id restricted to core, ascending.
func coreNeighbors(g *molecule.Graph, core map[int]bool, id int) []int {
	var out []int
	for _, nbr := range g.Neighbors(id) {
		if core[nbr] {
			out = append(out, nbr)
		}
	}

	return out
}
