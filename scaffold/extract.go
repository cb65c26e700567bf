// File: extract.go
// Role: Normalisation after structural edits and reduction of a molecule to one
// of the five scaffold representations.
// Determinism:
//   - Pruning and mode conversion depend only on graph structure; atom IDs of the
//     input are preserved in the result.

package scaffold

import (
	"fmt"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
)

// normalize re-derives hybridization, implicit hydrogens and, if configured,
// aromaticity of g in place.
func (gen *Generator) normalize(g *molecule.Graph) error {
	molecule.ClearHybridization(g)
	molecule.Configure(g)
	if gen.opts.AddImplicitHydrogens {
		molecule.AddImplicitHydrogens(g)
	}
	if !gen.opts.DetermineAromaticity {
		return nil
	}
	if gen.opts.Aromaticity == nil {
		return fmt.Errorf("%w: %w", ErrStructuralAnalysis, ErrNoAromaticityModel)
	}
	if err := gen.opts.Aromaticity.Apply(g); err != nil {
		return fmt.Errorf("%w: %w", ErrStructuralAnalysis, err)
	}
	molecule.ClearHybridization(g)
	molecule.Configure(g)

	return nil
}

// findRings runs the configured finder, wrapping failures.
func (gen *Generator) findRings(g *molecule.Graph) ([]rings.Ring, error) {
	rs, err := gen.opts.RingFinder.Find(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructuralAnalysis, err)
	}

	return rs, nil
}

// ringsWithSubstituents returns the rings of g with exocyclic multiply bonded atoms.
func (gen *Generator) ringsWithSubstituents(g *molecule.Graph) ([]rings.Ring, error) {
	rs, err := gen.findRings(g)
	if err != nil {
		return nil, err
	}

	return rings.WithSubstituents(g, rs), nil
}

// prepared returns a normalised clone of m.
func (gen *Generator) prepared(m *molecule.Graph) (*molecule.Graph, error) {
	if m == nil {
		return nil, ErrNilMolecule
	}
	work := m.Clone()
	if err := gen.normalize(work); err != nil {
		return nil, err
	}

	return work, nil
}

// Scaffold returns the scaffold of m in the configured Mode. A molecule without
// rings yields an empty graph.
//
// Implementation:
//   - Stage 1: Clone and normalise m.
//   - Stage 2: Prune non-ring atoms with at most one remaining neighbour until
//     stable, leaving ring systems and the linkers between them.
//   - Stage 3: Convert the core according to the mode and normalise again.
func (gen *Generator) Scaffold(m *molecule.Graph) (*molecule.Graph, error) {
	work, err := gen.prepared(m)
	if err != nil {
		return nil, err
	}

	return gen.extract(work, gen.opts.Mode)
}

// extract reduces the normalised graph work to the scaffold of the given mode.
func (gen *Generator) extract(work *molecule.Graph, mode Mode) (*molecule.Graph, error) {
	core, err := gen.murckoCore(work)
	if err != nil {
		return nil, err
	}
	var out *molecule.Graph
	switch mode {
	case ModeScaffold:
		keep := make(map[int]bool, len(core))
		for id := range core {
			keep[id] = true
			for _, b := range work.BondsOf(id) {
				if b.Order >= molecule.Double {
					keep[b.Other(id)] = true
				}
			}
		}
		out = work.Subgraph(keep)
	case ModeMurckoFramework:
		out = work.Subgraph(core)
	case ModeBasicWireFrame:
		out = work.Subgraph(core)
		anonymizeAtoms(out)
		flattenBonds(out)
	case ModeElementalWireFrame:
		out = work.Subgraph(core)
		flattenBonds(out)
		for _, a := range out.Atoms() {
			a.Aromatic = false
		}
	case ModeBasicFramework:
		out = work.Subgraph(core)
		anonymizeAtoms(out)
	default:
		return nil, fmt.Errorf("%w: mode %d", ErrOptionViolation, int(mode))
	}
	if err := gen.normalize(out); err != nil {
		return nil, err
	}

	return out, nil
}

// murckoCore returns the ring atoms of g plus every atom on a path between them.
func (gen *Generator) murckoCore(g *molecule.Graph) (map[int]bool, error) {
	rs, err := gen.findRings(g)
	if err != nil {
		return nil, err
	}
	inRing := rings.RingAtoms(rs)
	core := make(map[int]bool, g.AtomCount())
	if len(inRing) == 0 {
		return core, nil
	}
	for _, id := range g.AtomIDs() {
		core[id] = true
	}
	for changed := true; changed; {
		changed = false
		for _, id := range g.AtomIDs() {
			if !core[id] || inRing[id] {
				continue
			}
			deg := 0
			for _, nbr := range g.Neighbors(id) {
				if core[nbr] {
					deg++
				}
			}
			if deg <= 1 {
				delete(core, id)
				changed = true
			}
		}
	}

	return core, nil
}

// anonymizeAtoms turns every atom into a neutral, unlabelled carbon.
func anonymizeAtoms(g *molecule.Graph) {
	for _, a := range g.Atoms() {
		a.Number = molecule.Carbon
		a.Charge = 0
		a.Isotope = 0
		a.Chirality = molecule.ChiralityNone
	}
}

// flattenBonds turns every bond into a plain single bond.
func flattenBonds(g *molecule.Graph) {
	for _, b := range g.Bonds() {
		b.Order = molecule.Single
		b.Aromatic = false
		b.Stereo = molecule.StereoNone
	}
	for _, a := range g.Atoms() {
		a.Aromatic = false
	}
}
