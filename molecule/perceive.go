// File: perceive.go
// Role: Atom typing (hybridization) and implicit-hydrogen derivation.
// Policy:
//   - Both passes are pure functions of the explicit bond structure, charges and
//     aromatic flags, so they can be re-run after every structural edit.

package molecule

// ClearHybridization resets the hybridization of every atom to HybridUnset.
func ClearHybridization(g *Graph) {
	for _, a := range g.atoms {
		a.Hybridization = HybridUnset
	}
}

// Configure derives the hybridization of every atom from its bonds:
// aromatic → sp2; a triple bond or two double bonds → sp; one double bond → sp2;
// otherwise sp3.
//
// Complexity: O(V + E).
func Configure(g *Graph) {
	for id, a := range g.atoms {
		doubles, triple := 0, false
		for _, bid := range g.adjacency[id] {
			switch g.bonds[bid].Order {
			case Double:
				doubles++
			case Triple, Quadruple:
				triple = true
			}
		}
		switch {
		case a.Aromatic:
			a.Hybridization = SP2
		case triple || doubles >= 2:
			a.Hybridization = SP
		case doubles == 1:
			a.Hybridization = SP2
		default:
			a.Hybridization = SP3
		}
	}
}

// ImpliedHydrogens returns the number of hydrogens atom id needs to reach the
// smallest default valence not below its explicit bond order sum. An aromatic
// atom with unassigned aromatic bonds is only filled up to its lowest valence.
func ImpliedHydrogens(g *Graph, id int) int {
	a := g.atoms[id]
	if a == nil {
		return 0
	}
	sum := g.BondOrderSum(id)
	vs := Valences(a.Number, a.Charge)
	if g.unsetAromatic(id) {
		// Aromatic atoms of non-kekulised input only take their lowest valence:
		// s in thiophene and the three-connected n of N-methylpyrrole get none.
		if len(vs) == 0 || vs[0] < sum {
			return 0
		}
		return vs[0] - sum
	}
	for _, v := range vs {
		if v >= sum {
			return v - sum
		}
	}

	return 0
}

// AddImplicitHydrogens recomputes ImplicitH for every atom from default valences.
// Complexity: O(V + E).
func AddImplicitHydrogens(g *Graph) {
	for id, a := range g.atoms {
		a.ImplicitH = ImpliedHydrogens(g, id)
	}
}

// Perceive clears hybridization, re-derives it and recomputes implicit hydrogens.
// It is the normalisation step run after every structural edit.
func Perceive(g *Graph) {
	ClearHybridization(g)
	Configure(g)
	AddImplicitHydrogens(g)
}

// ValenceValid reports whether every atom has a non-negative hydrogen count and a
// total valence (bond orders plus implicit hydrogens) that is one of its allowed
// valences. Elements without valence data only need a non-negative count.
func ValenceValid(g *Graph) bool {
	for id, a := range g.atoms {
		if a.ImplicitH < 0 {
			return false
		}
		vals := Valences(a.Number, a.Charge)
		if vals == nil {
			continue
		}
		total, ok := g.BondOrderSum(id)+a.ImplicitH, false
		for _, v := range vals {
			if v == total {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	return true
}
