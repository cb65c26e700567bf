package smiles

import (
	"fmt"

	"github.com/katalvlaran/molscaf/molecule"
)

// Kekulize assigns single and double orders to every aromatic bond of g whose
// order is Unset. Atoms and bonds keep their aromatic flags.
//
// An aromatic atom needs a double bond when its smallest allowed valence exceeds
// its sigma bond count plus hydrogens by at least one. Those atoms are perfectly
// matched over Unset aromatic bonds by backtracking, always expanding the atom
// with the fewest remaining options first.
//
// Complexity: exponential in the worst case, linear for ordinary ring systems.
func Kekulize(g *molecule.Graph) error {
	if g == nil {
		return ErrGraphNil
	}

	return kekulize(g)
}

func kekulize(g *molecule.Graph) error {
	var need []int
	needs := make(map[int]bool)
	for _, a := range g.Atoms() {
		if a.Aromatic && hasUnsetAromatic(g, a.ID) && needsPi(g, a) {
			need = append(need, a.ID)
			needs[a.ID] = true
		}
	}
	m := &matcher{graph: g, need: need, needs: needs, matched: make(map[int]bool)}
	if !m.solve() {
		return fmt.Errorf("%w: %d atom(s) need a double bond", ErrKekulize, len(need))
	}
	for _, b := range g.Bonds() {
		if b.Aromatic && b.Order == molecule.Unset {
			b.Order = molecule.Single
		}
	}
	for _, id := range m.doubles {
		g.Bond(id).Order = molecule.Double
	}

	return nil
}

func hasUnsetAromatic(g *molecule.Graph, id int) bool {
	for _, b := range g.BondsOf(id) {
		if b.Aromatic && b.Order == molecule.Unset {
			return true
		}
	}

	return false
}

// needsPi reports whether atom a must take part in one double bond.
func needsPi(g *molecule.Graph, a *molecule.Atom) bool {
	sigma := a.ImplicitH
	for _, b := range g.BondsOf(a.ID) {
		sigma += b.Order.Numeric()
	}
	for _, v := range molecule.Valences(a.Number, a.Charge) {
		if v >= sigma {
			return v-sigma >= 1
		}
	}

	return false
}

// matcher searches a perfect matching of the atoms needing a double bond.
type matcher struct {
	graph   *molecule.Graph
	need    []int
	needs   map[int]bool
	matched map[int]bool
	doubles []int
}

// options lists the Unset aromatic bonds from id to unmatched atoms needing a double bond.
func (m *matcher) options(id int) []*molecule.Bond {
	var out []*molecule.Bond
	for _, b := range m.graph.BondsOf(id) {
		o := b.Other(id)
		if b.Aromatic && b.Order == molecule.Unset && m.needs[o] && !m.matched[o] {
			out = append(out, b)
		}
	}

	return out
}

func (m *matcher) solve() bool {
	best := -1
	var bestOpts []*molecule.Bond
	for _, id := range m.need {
		if m.matched[id] {
			continue
		}
		opts := m.options(id)
		if len(opts) == 0 {
			return false
		}
		if best == -1 || len(opts) < len(bestOpts) {
			best, bestOpts = id, opts
		}
	}
	if best == -1 {
		return true
	}
	for _, b := range bestOpts {
		o := b.Other(best)
		m.matched[best], m.matched[o] = true, true
		m.doubles = append(m.doubles, b.ID)
		if m.solve() {
			return true
		}
		m.doubles = m.doubles[:len(m.doubles)-1]
		m.matched[best], m.matched[o] = false, false
	}

	return false
}
