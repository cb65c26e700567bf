package scaffold

import (
	"fmt"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
)

// RemoveRing returns a copy of m without ring r, with valence and hybridization
// repaired. r must refer to atoms of m, for example a ring from Generator.Rings.
//
// Implementation:
//   - Stage 1: Count bonds k leaving r (exocyclic atoms included).
//   - Stage 2: k < 2 deletes every atom of r outright.
//   - Stage 3: Otherwise atoms shared with another ring are protected. A
//     three-membered ring with exactly one unprotected heteroatom loses only that
//     atom and its two ring neighbours become double bonded.
//   - Stage 4: Unprotected atoms are deleted. If r was aromatic, or sp2 repair is
//     enabled for all rings, former sp2 atoms of r left with only single bonds are
//     paired up into double bonds; unpaired carbons gain one hydrogen.
//   - Stage 5: Stereo of atoms that lost a neighbour is cleared and the graph is
//     normalised.
//
// Postcondition: molecule.ValenceValid holds for ordinary organic input.
func (gen *Generator) RemoveRing(m *molecule.Graph, r rings.Ring) (*molecule.Graph, error) {
	if m == nil {
		return nil, ErrNilMolecule
	}
	if len(r.Atoms) == 0 {
		return nil, ErrNilRing
	}
	for _, id := range r.AllAtoms() {
		if !m.HasAtom(id) {
			return nil, fmt.Errorf("%w: ring atom %d", molecule.ErrAtomNotFound, id)
		}
	}
	work := m.Clone()
	molecule.ClearHybridization(work)
	molecule.Configure(work)
	all, err := gen.findRings(work)
	if err != nil {
		return nil, err
	}
	if err := gen.removeRing(work, r, all); err != nil {
		return nil, err
	}

	return work, nil
}

// removeRing edits work in place. all holds the rings of work.
func (gen *Generator) removeRing(work *molecule.Graph, r rings.Ring, all []rings.Ring) error {
	member := r.AtomSet(true)
	k := 0
	for _, b := range work.Bonds() {
		if member[b.A] != member[b.B] {
			k++
		}
	}
	if k < 2 {
		lost := deleteAtoms(work, member)
		clearStereo(work, lost)
		return gen.normalize(work)
	}

	protected := make(map[int]bool)
	for _, other := range all {
		if other.Same(r) {
			continue
		}
		for _, id := range other.Atoms {
			if member[id] {
				protected[id] = true
			}
		}
	}

	if len(r.Atoms) == 3 {
		var hetero []int
		for _, id := range r.Atoms {
			if !protected[id] && molecule.IsHetero(work.Atom(id).Number) {
				hetero = append(hetero, id)
			}
		}
		if len(hetero) == 1 {
			var pair []int
			for _, id := range r.Atoms {
				if id != hetero[0] {
					pair = append(pair, id)
				}
			}
			lost := deleteAtoms(work, map[int]bool{hetero[0]: true})
			if b := work.BondBetween(pair[0], pair[1]); b != nil {
				b.Order = molecule.Double
				b.Aromatic = false
			}
			clearStereo(work, lost)
			return gen.normalize(work)
		}
	}

	aromatic := r.IsAromatic(work)
	wasSP2 := make(map[int]bool)
	for _, id := range r.Atoms {
		if protected[id] && work.Atom(id).Hybridization == molecule.SP2 {
			wasSP2[id] = true
		}
	}
	drop := make(map[int]bool)
	for id := range member {
		if !protected[id] {
			drop[id] = true
		}
	}
	lost := deleteAtoms(work, drop)

	if aromatic || !gen.opts.RetainOnlyAromaticHybridisations {
		repairSP2(work, wasSP2)
	}
	clearStereo(work, lost)

	return gen.normalize(work)
}

// deleteAtoms removes drop from g and returns the surviving atoms that lost a neighbour.
func deleteAtoms(g *molecule.Graph, drop map[int]bool) map[int]bool {
	lost := make(map[int]bool)
	for id := range drop {
		for _, nbr := range g.Neighbors(id) {
			if !drop[nbr] {
				lost[nbr] = true
			}
		}
	}
	for _, id := range g.AtomIDs() {
		if drop[id] {
			_ = g.RemoveAtom(id)
		}
	}

	return lost
}

// repairSP2 restores double bonds between former sp2 atoms left with single bonds
// only. Bonds are visited in ID order and each atom takes part at most once.
// Carbons that find no partner gain a hydrogen.
func repairSP2(g *molecule.Graph, wasSP2 map[int]bool) {
	pending := make(map[int]bool)
	for id := range wasSP2 {
		if g.HasAtom(id) && g.MaxBondOrder(id) <= molecule.Single {
			pending[id] = true
		}
	}
	for _, b := range g.Bonds() {
		if pending[b.A] && pending[b.B] {
			b.Order = molecule.Double
			delete(pending, b.A)
			delete(pending, b.B)
		}
	}
	for id := range pending {
		if a := g.Atom(id); a.Number == molecule.Carbon {
			a.ImplicitH++
		}
	}
}

// clearStereo drops chirality of atoms in lost and stereo marks on their bonds.
func clearStereo(g *molecule.Graph, lost map[int]bool) {
	for id := range lost {
		a := g.Atom(id)
		if a == nil {
			continue
		}
		a.Chirality = molecule.ChiralityNone
		for _, b := range g.BondsOf(id) {
			b.Stereo = molecule.StereoNone
		}
	}
}
