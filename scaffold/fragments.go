// File: fragments.go
// Role: Iterative ring removal (rule-driven and exhaustive) and the structural
// parts of a molecule: rings, side chains and linkers.
// Determinism:
//   - Rule-driven removal is fully determined by the thirteen rules.
//   - Exhaustive removal visits fragments breadth-first, candidates in ring order,
//     and reports each distinct key once in first-seen order.

package scaffold

import (
	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
)

// key serializes g with the configured Serializer.
func (gen *Generator) key(g *molecule.Graph) (string, error) {
	return gen.opts.Serializer.Serialize(g)
}

// Key returns the canonical key of m after normalisation. Batch operations use it
// as the origin recorded on every node.
func (gen *Generator) Key(m *molecule.Graph) (string, error) {
	work, err := gen.prepared(m)
	if err != nil {
		return "", err
	}

	return gen.key(work)
}

// SchuffenhauerFragments returns the scaffold of m followed by each fragment
// obtained by removing the ring picked by the Schuffenhauer rules, ending with a
// single ring (or the empty scaffold of an acyclic molecule).
//
// Implementation:
//   - Stage 1: Extract the scaffold.
//   - Stage 2: While more than one ring remains, keep terminal removable rings,
//     run the rule cascade and continue from the chosen fragment.
//
// Complexity: O(R · C · F) where R is the ring count, C the candidates per step
// and F the cost of one removal plus ring perception.
func (gen *Generator) SchuffenhauerFragments(m *molecule.Graph) ([]*molecule.Graph, error) {
	frag, err := gen.Scaffold(m)
	if err != nil {
		return nil, err
	}
	out := []*molecule.Graph{frag}
	prev := -1
	for {
		all, err := gen.ringsWithSubstituents(frag)
		if err != nil {
			return nil, err
		}
		if len(all) <= 1 || (prev >= 0 && len(all) >= prev) {
			break
		}
		rs := candidates(frag, all)
		if len(rs) == 0 {
			break
		}
		cs := make([]*candidate, len(rs))
		for i, r := range rs {
			cs[i] = &candidate{ring: r}
		}
		next, _, err := newPipeline(gen, frag, all).choose(cs)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		frag, prev = next, len(all)
	}

	return out, nil
}

// step describes one ring removal found while exploring.
type step struct {
	fromKey string
	to      *molecule.Graph
	toKey   string
	fresh   bool
}

// explore removes every terminal removable ring from start, breadth-first, and
// calls visit once per removal. Fragments are expanded once per distinct key.
func (gen *Generator) explore(start *molecule.Graph, startKey string, visit func(s step) error) error {
	type item struct {
		g   *molecule.Graph
		key string
	}
	seen := map[string]bool{startKey: true}
	queue := []item{{start, startKey}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		all, err := gen.ringsWithSubstituents(cur.g)
		if err != nil {
			return err
		}
		if len(all) <= 1 {
			continue
		}
		for _, r := range candidates(cur.g, all) {
			next, err := gen.reduce(cur.g, r, all)
			if err != nil {
				return err
			}
			k, err := gen.key(next)
			if err != nil {
				return err
			}
			fresh := !seen[k]
			if fresh {
				seen[k] = true
				queue = append(queue, item{next, k})
			}
			if err := visit(step{fromKey: cur.key, to: next, toKey: k, fresh: fresh}); err != nil {
				return err
			}
		}
	}

	return nil
}

// EnumerativeRemoval returns the scaffold of m followed by every distinct fragment
// reachable by removing terminal removable rings in any order.
func (gen *Generator) EnumerativeRemoval(m *molecule.Graph) ([]*molecule.Graph, error) {
	start, err := gen.Scaffold(m)
	if err != nil {
		return nil, err
	}
	startKey, err := gen.key(start)
	if err != nil {
		return nil, err
	}
	out := []*molecule.Graph{start}
	err = gen.explore(start, startKey, func(s step) error {
		if s.fresh {
			out = append(out, s.to)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Rings returns the rings of the normalised m, optionally with exocyclic multiply
// bonded atoms attached. Atom IDs refer to m.
func (gen *Generator) Rings(m *molecule.Graph, withSubstituents bool) ([]rings.Ring, error) {
	work, err := gen.prepared(m)
	if err != nil {
		return nil, err
	}
	if withSubstituents {
		return gen.ringsWithSubstituents(work)
	}

	return gen.findRings(work)
}

// SideChains returns the connected pieces of m that lie outside its scaffold
// (ModeScaffold, regardless of the configured mode). An acyclic molecule is one
// side chain.
func (gen *Generator) SideChains(m *molecule.Graph) ([]*molecule.Graph, error) {
	work, err := gen.prepared(m)
	if err != nil {
		return nil, err
	}
	scaf, err := gen.extract(work.Clone(), ModeScaffold)
	if err != nil {
		return nil, err
	}
	drop := make(map[int]bool, scaf.AtomCount())
	for _, id := range scaf.AtomIDs() {
		drop[id] = true
	}

	return gen.pieces(work.Without(drop))
}

// Linkers returns the acyclic pieces of the scaffold of m that connect its ring
// systems, with their multiply bonded substituents.
func (gen *Generator) Linkers(m *molecule.Graph) ([]*molecule.Graph, error) {
	work, err := gen.prepared(m)
	if err != nil {
		return nil, err
	}
	scaf, err := gen.extract(work, ModeScaffold)
	if err != nil {
		return nil, err
	}
	rs, err := gen.ringsWithSubstituents(scaf)
	if err != nil {
		return nil, err
	}
	drop := make(map[int]bool)
	for _, r := range rs {
		for id := range r.AtomSet(true) {
			drop[id] = true
		}
	}

	return gen.pieces(scaf.Without(drop))
}

// pieces splits g into normalised components.
func (gen *Generator) pieces(g *molecule.Graph) ([]*molecule.Graph, error) {
	parts := g.ComponentGraphs()
	for _, p := range parts {
		if err := gen.normalize(p); err != nil {
			return nil, err
		}
	}

	return parts, nil
}
