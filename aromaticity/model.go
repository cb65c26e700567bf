// Package aromaticity perceives aromatic atoms and bonds of a kekulised
// molecule.Graph.
//
// A Model combines an electron-donation rule with a rings.Finder. Apply clears all
// aromatic flags, asks the finder for candidate cycles and flags every cycle whose
// atoms all donate and whose electron total satisfies Hückel's 4n+2 rule.
//
// Donation rules:
//
//	Daylight - ring pi bonds give 1, lone pairs give 2, an exocyclic double bond to
//	           N, O or S gives 0, carbocations and neutral boron give 0.
//	CDK      - as Daylight, but any exocyclic double bond disqualifies the atom.
//	PiBonds  - only atoms with a ring pi bond qualify, each giving 1.
package aromaticity

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
)

// ErrGraphNil is returned when Apply receives a nil graph.
var ErrGraphNil = errors.New("aromaticity: graph is nil")

// Donation selects how atoms contribute pi electrons to a cycle.
type Donation int

const (
	// Daylight follows the Daylight toolkit conventions.
	Daylight Donation = iota
	// CDK disallows exocyclic pi bonds.
	CDK
	// PiBonds counts only cyclic pi bonds.
	PiBonds
)

// String implements fmt.Stringer.
func (d Donation) String() string {
	switch d {
	case Daylight:
		return "daylight"
	case CDK:
		return "cdk"
	case PiBonds:
		return "pibonds"
	default:
		return fmt.Sprintf("Donation(%d)", int(d))
	}
}

// ParseDonation resolves a donation name as printed by Donation.String.
func ParseDonation(s string) (Donation, error) {
	for _, d := range []Donation{Daylight, CDK, PiBonds} {
		if d.String() == s {
			return d, nil
		}
	}

	return Daylight, fmt.Errorf("aromaticity: unknown donation model %q", s)
}

// Model applies one donation rule over the cycles reported by a finder.
// A Model is immutable and safe for concurrent use on distinct graphs.
type Model struct {
	donation Donation
	finder   rings.Finder
}

// DefaultFinder returns all simple cycles, falling back to relevant cycles when
// enumeration is intractable.
func DefaultFinder() rings.Finder {
	return rings.Fallback(rings.All(rings.DefaultCycleLimit), rings.Relevant(rings.DefaultCycleLimit))
}

// New builds a Model. A nil finder selects DefaultFinder.
func New(d Donation, f rings.Finder) *Model {
	if f == nil {
		f = DefaultFinder()
	}

	return &Model{donation: d, finder: f}
}

// Default returns the Daylight model over DefaultFinder.
func Default() *Model { return New(Daylight, nil) }

// Donation reports the model's donation rule.
func (m *Model) Donation() Donation { return m.donation }

// Apply recomputes aromatic flags of g in place.
//
// Implementation:
//   - Stage 1: Clear every atom and bond aromatic flag.
//   - Stage 2: Find candidate cycles and mark all ring atoms.
//   - Stage 3: Sum donated electrons per cycle; flag cycles with 4n+2 electrons.
//
// Complexity: O(C·k) for C cycles of size up to k, plus the finder's cost.
func (m *Model) Apply(g *molecule.Graph) error {
	if g == nil {
		return ErrGraphNil
	}
	for _, a := range g.Atoms() {
		a.Aromatic = false
	}
	for _, b := range g.Bonds() {
		b.Aromatic = false
	}
	rs, err := m.finder.Find(g)
	if err != nil {
		return fmt.Errorf("aromaticity: %w", err)
	}
	inRing := rings.RingAtoms(rs)
	for _, r := range rs {
		if !m.aromatic(g, r, inRing) {
			continue
		}
		for _, id := range r.Atoms {
			g.Atom(id).Aromatic = true
		}
		for _, id := range r.Bonds {
			g.Bond(id).Aromatic = true
		}
	}

	return nil
}

// aromatic reports whether cycle r satisfies the donation rule and Hückel count.
func (m *Model) aromatic(g *molecule.Graph, r rings.Ring, inRing map[int]bool) bool {
	total := 0
	for _, id := range r.Atoms {
		e, ok := m.electrons(g, g.Atom(id), inRing)
		if !ok {
			return false
		}
		total += e
	}

	return total%4 == 2
}

// electrons returns the pi electrons atom a donates, or false if it cannot take
// part in an aromatic cycle.
func (m *Model) electrons(g *molecule.Graph, a *molecule.Atom, inRing map[int]bool) (int, bool) {
	ringPi, exoPi, exoPartner := 0, 0, 0
	for _, b := range g.BondsOf(a.ID) {
		switch b.Order {
		case molecule.Double:
		case molecule.Triple, molecule.Quadruple:
			return 0, false
		default:
			continue
		}
		other := b.Other(a.ID)
		if inRing[other] {
			ringPi++
		} else {
			exoPi++
			exoPartner = g.Atom(other).Number
		}
	}
	switch {
	case ringPi+exoPi > 1:
		return 0, false
	case ringPi == 1:
		return 1, true
	case exoPi == 1:
		if m.donation != Daylight || a.Number != molecule.Carbon {
			return 0, false
		}
		switch exoPartner {
		case molecule.Nitrogen, molecule.Oxygen, molecule.Sulfur:
			return 0, true
		}

		return 0, false
	case m.donation == PiBonds:
		return 0, false
	}

	return lonePair(g, a, m.donation)
}

// lonePair handles atoms without pi bonds.
func lonePair(g *molecule.Graph, a *molecule.Atom, d Donation) (int, bool) {
	conn := g.Degree(a.ID) + a.ImplicitH
	switch a.Number {
	case molecule.Nitrogen, molecule.Phosphorus, 33:
		switch {
		case a.Charge == 0 && conn == 3:
			return 2, true
		case a.Charge == -1 && conn == 2:
			return 2, true
		}
	case molecule.Oxygen, molecule.Sulfur, molecule.Selenium, 52:
		if a.Charge == 0 && conn == 2 {
			return 2, true
		}
	case molecule.Carbon:
		switch {
		case a.Charge == -1 && conn == 3:
			return 2, true
		case a.Charge == 1 && conn == 3 && d == Daylight:
			return 0, true
		}
	case molecule.Boron:
		if a.Charge == 0 && conn == 3 && d == Daylight {
			return 0, true
		}
	}

	return 0, false
}
