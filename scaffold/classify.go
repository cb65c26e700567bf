package scaffold

import (
	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
)

// IsRingTerminal reports whether deleting every atom of r (exocyclic atoms
// included) leaves m connected. Rings bridging two parts of m are not terminal.
func (gen *Generator) IsRingTerminal(m *molecule.Graph, r rings.Ring) (bool, error) {
	if m == nil {
		return false, ErrNilMolecule
	}
	if len(r.Atoms) == 0 {
		return false, ErrNilRing
	}

	return isRingTerminal(m, r), nil
}

func isRingTerminal(m *molecule.Graph, r rings.Ring) bool {
	return m.ConnectedWithout(r.AtomSet(true))
}

// IsRingRemovable reports whether r may be removed given all rings of m:
//   - every ring atom of r also lying in another ring means r adds nothing and is
//     not removable;
//   - an aromatic r with at least three atoms shared with other rings, one of them
//     shared with more than one other ring, would leave a fused aromatic system
//     that cannot be repaired and is not removable.
func (gen *Generator) IsRingRemovable(r rings.Ring, all []rings.Ring, m *molecule.Graph) (bool, error) {
	if m == nil {
		return false, ErrNilMolecule
	}
	if len(r.Atoms) == 0 {
		return false, ErrNilRing
	}

	return isRingRemovable(r, all, m), nil
}

func isRingRemovable(r rings.Ring, all []rings.Ring, m *molecule.Graph) bool {
	others := make([]rings.Ring, 0, len(all))
	for _, o := range all {
		if !o.Same(r) {
			others = append(others, o)
		}
	}
	shared := rings.Membership(others)
	unique := false
	for _, id := range r.Atoms {
		if shared[id] == 0 {
			unique = true
			break
		}
	}
	if !unique {
		return false
	}
	if !r.IsAromatic(m) {
		return true
	}
	border, multi := 0, false
	for _, id := range r.Atoms {
		if shared[id] > 0 {
			border++
		}
		if shared[id] > 1 {
			multi = true
		}
	}

	return !(border >= 3 && multi)
}

// candidates filters rs down to rings that are both terminal and removable.
func candidates(m *molecule.Graph, rs []rings.Ring) []rings.Ring {
	var out []rings.Ring
	for _, r := range rs {
		if isRingTerminal(m, r) && isRingRemovable(r, rs, m) {
			out = append(out, r)
		}
	}

	return out
}
