// File: methods_clone.go
// Role: Deep copies and induced views of molecular graphs.
// Determinism:
//   - Clone/Subgraph preserve atom and bond IDs and carry both ID counters, so IDs
//     assigned on a copy never collide with IDs that existed in the source lineage.

package molecule

// Clone returns a deep copy of the Graph: atoms, bonds, adjacency and ID counters.
//
// Complexity: O(V + E)
func (g *Graph) Clone() *Graph {
	clone := New()
	clone.nextAtomID = g.nextAtomID
	clone.nextBondID = g.nextBondID
	for id, a := range g.atoms {
		cp := *a
		clone.atoms[id] = &cp
		clone.adjacency[id] = make(map[int]int, len(g.adjacency[id]))
	}
	for id, b := range g.bonds {
		cp := *b
		clone.bonds[id] = &cp
		clone.adjacency[b.A][b.B] = id
		clone.adjacency[b.B][b.A] = id
	}

	return clone
}

// Subgraph returns a deep copy restricted to the atoms in keep and the bonds with
// both endpoints kept. Unknown IDs in keep are ignored. The source is not mutated.
//
// Complexity: O(V + E)
func (g *Graph) Subgraph(keep map[int]bool) *Graph {
	out := New()
	out.nextAtomID = g.nextAtomID
	out.nextBondID = g.nextBondID
	for id, a := range g.atoms {
		if !keep[id] {
			continue
		}
		cp := *a
		out.atoms[id] = &cp
		out.adjacency[id] = make(map[int]int)
	}
	for id, b := range g.bonds {
		if !keep[b.A] || !keep[b.B] {
			continue
		}
		cp := *b
		out.bonds[id] = &cp
		out.adjacency[b.A][b.B] = id
		out.adjacency[b.B][b.A] = id
	}

	return out
}

// Without returns a deep copy with the atoms in drop (and their bonds) removed.
func (g *Graph) Without(drop map[int]bool) *Graph {
	keep := make(map[int]bool, len(g.atoms))
	for id := range g.atoms {
		if !drop[id] {
			keep[id] = true
		}
	}

	return g.Subgraph(keep)
}
