// File: rules.go
// Role: The thirteen-stage Schuffenhauer cascade that picks the next ring to
// remove from a set of terminal, removable candidates.
// Determinism:
//   - Candidates enter in ring order (size, then atom sequence); every stage keeps
//     that order, and stage 13 breaks any remaining tie by canonical string.

package scaffold

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
)

// candidate is one removable ring with its lazily computed successor fragment.
type candidate struct {
	ring rings.Ring

	done      bool
	frag      *molecule.Graph
	fragRings []rings.Ring
	key       string
	keyed     bool
	err       error
}

// pipeline evaluates rules for one fragment.
type pipeline struct {
	gen    *Generator
	graph  *molecule.Graph
	all    []rings.Ring
	inRing map[int]bool
	ringBd map[int]bool
	log    logr.Logger
}

// rule narrows a candidate list; returning an empty list leaves it unchanged.
type rule struct {
	name  string
	apply func(p *pipeline, cs []*candidate) ([]*candidate, error)
}

func newPipeline(gen *Generator, g *molecule.Graph, all []rings.Ring) *pipeline {
	return &pipeline{
		gen:    gen,
		graph:  g,
		all:    all,
		inRing: rings.RingAtoms(all),
		ringBd: rings.RingBonds(all),
		log:    gen.opts.Logger.WithName("rules"),
	}
}

// reduce removes r from a clone of g and re-extracts the scaffold.
func (gen *Generator) reduce(g *molecule.Graph, r rings.Ring, all []rings.Ring) (*molecule.Graph, error) {
	work := g.Clone()
	if err := gen.removeRing(work, r, all); err != nil {
		return nil, err
	}

	return gen.extract(work, gen.opts.Mode)
}

// fragment returns the candidate's successor fragment and its rings, computing
// them on first use.
func (p *pipeline) fragment(c *candidate) (*molecule.Graph, []rings.Ring, error) {
	if !c.done {
		c.done = true
		c.frag, c.err = p.gen.reduce(p.graph, c.ring, p.all)
		if c.err == nil {
			c.fragRings, c.err = p.gen.findRings(c.frag)
		}
	}

	return c.frag, c.fragRings, c.err
}

// key returns the canonical string of the candidate's fragment.
func (p *pipeline) key(c *candidate) (string, error) {
	if c.keyed {
		return c.key, nil
	}
	frag, _, err := p.fragment(c)
	if err != nil {
		return "", err
	}
	c.key, err = p.gen.key(frag)
	if err != nil {
		return "", err
	}
	c.keyed = true

	return c.key, nil
}

// stages returns the active rules in order.
func (p *pipeline) stages() []rule {
	out := []rule{
		{"rule 1: three-membered heterocycles", rule1},
		{"rule 2: no macrocycles", rule2},
		{"rule 3: longest acyclic linker", rule3},
		{"rule 4: maximal fusion delta", rule4},
		{"rule 5: positive fusion delta", rule5},
		{"rule 6: ring sizes 3, 5 and 6", rule6},
	}
	if p.gen.opts.DetermineAromaticity && p.gen.opts.ApplyRuleSeven {
		out = append(out, rule{"rule 7: keep aromatic systems", rule7})
	}

	return append(out,
		rule{"rule 8: fewest heteroatoms", rule8},
		rule{"rule 9: fewest N, O, S", rule9},
		rule{"rule 10: smallest ring", rule10},
		rule{"rule 11: aromatic first in mixed systems", rule11},
		rule{"rule 12: heteroatom at linker end", rule12},
		rule{"rule 13: canonical tie-break", rule13},
	)
}

// choose narrows cs to one candidate and returns its fragment.
func (p *pipeline) choose(cs []*candidate) (*molecule.Graph, rings.Ring, error) {
	for _, st := range p.stages() {
		if len(cs) == 1 {
			break
		}
		next, err := st.apply(p, cs)
		if err != nil {
			return nil, rings.Ring{}, fmt.Errorf("%s: %w", st.name, err)
		}
		if len(next) > 0 {
			cs = next
		}
		p.log.V(1).Info("applied", "rule", st.name, "remaining", len(cs))
	}
	frag, _, err := p.fragment(cs[0])

	return frag, cs[0].ring, err
}

// keepIf returns the candidates satisfying pred, or cs if none do.
func keepIf(cs []*candidate, pred func(c *candidate) bool) []*candidate {
	var out []*candidate
	for _, c := range cs {
		if pred(c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return cs
	}

	return out
}

// keepBest returns the candidates whose score is extremal (lowest when min).
func keepBest(cs []*candidate, min bool, score func(c *candidate) (int, error)) ([]*candidate, error) {
	var out []*candidate
	best := 0
	for i, c := range cs {
		s, err := score(c)
		if err != nil {
			return nil, err
		}
		better := (min && s < best) || (!min && s > best)
		switch {
		case i == 0 || better:
			best = s
			out = append(out[:0], c)
		case s == best:
			out = append(out, c)
		}
	}

	return out, nil
}

func rule1(p *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepIf(cs, func(c *candidate) bool {
		return c.ring.Size() == 3 && c.ring.HeteroCount(p.graph) > 0
	}), nil
}

func rule2(_ *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepIf(cs, func(c *candidate) bool { return c.ring.Size() < 12 }), nil
}

// rule3 keeps candidates whose removal leaves the fewest acyclic linker bonds.
func rule3(p *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepBest(cs, true, func(c *candidate) (int, error) {
		frag, fr, err := p.fragment(c)
		if err != nil {
			return 0, err
		}
		return linkerBondCount(frag, fr), nil
	})
}

// linkerBondCount counts non-ring bonds joining two non-terminal atoms.
func linkerBondCount(g *molecule.Graph, rs []rings.Ring) int {
	inRing := rings.RingBonds(rs)
	n := 0
	for _, b := range g.Bonds() {
		if !inRing[b.ID] && g.Degree(b.A) > 1 && g.Degree(b.B) > 1 {
			n++
		}
	}

	return n
}

// fusionDelta is nrrb − (nR − 1) of a fragment: positive for bridged systems,
// negative for spiro systems.
func (p *pipeline) fusionDelta(c *candidate) (int, error) {
	_, fr, err := p.fragment(c)
	if err != nil {
		return 0, err
	}

	return rings.FusedBondCount(fr) - (len(fr) - 1), nil
}

func rule4(p *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepBest(cs, false, func(c *candidate) (int, error) {
		d, err := p.fusionDelta(c)
		if d < 0 {
			d = -d
		}
		return d, err
	})
}

func rule5(p *pipeline, cs []*candidate) ([]*candidate, error) {
	var out []*candidate
	for _, c := range cs {
		d, err := p.fusionDelta(c)
		if err != nil {
			return nil, err
		}
		if d > 0 {
			out = append(out, c)
		}
	}

	return out, nil
}

func rule6(_ *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepIf(cs, func(c *candidate) bool {
		s := c.ring.Size()
		return s == 3 || s == 5 || s == 6
	}), nil
}

// rule7 rejects removals that lose more than one aromatic ring.
func rule7(p *pipeline, cs []*candidate) ([]*candidate, error) {
	before := aromaticRingCount(p.graph, p.all)
	var out []*candidate
	for _, c := range cs {
		frag, fr, err := p.fragment(c)
		if err != nil {
			return nil, err
		}
		if before-aromaticRingCount(frag, fr) <= 1 {
			out = append(out, c)
		}
	}

	return out, nil
}

func aromaticRingCount(g *molecule.Graph, rs []rings.Ring) int {
	n := 0
	for _, r := range rs {
		if r.IsAromatic(g) {
			n++
		}
	}

	return n
}

func rule8(p *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepBest(cs, true, func(c *candidate) (int, error) { return c.ring.HeteroCount(p.graph), nil })
}

func rule9(p *pipeline, cs []*candidate) ([]*candidate, error) {
	var err error
	for _, z := range []int{molecule.Nitrogen, molecule.Oxygen, molecule.Sulfur} {
		cs, err = keepBest(cs, true, func(c *candidate) (int, error) { return c.ring.CountElement(p.graph, z), nil })
		if err != nil {
			return nil, err
		}
	}

	return cs, nil
}

func rule10(_ *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepBest(cs, true, func(c *candidate) (int, error) { return c.ring.Size(), nil })
}

// rule11 removes aromatic rings first when aromatic and non-aromatic candidates mix.
func rule11(p *pipeline, cs []*candidate) ([]*candidate, error) {
	var aromatic []*candidate
	for _, c := range cs {
		if c.ring.IsAromatic(p.graph) {
			aromatic = append(aromatic, c)
		}
	}
	if len(aromatic) == len(cs) {
		return cs, nil
	}

	return aromatic, nil
}

func rule12(p *pipeline, cs []*candidate) ([]*candidate, error) {
	return keepIf(cs, p.heteroLinkerEnd), nil
}

// heteroLinkerEnd reports whether an acyclic linker leaving c's ring starts at a
// ring heteroatom or ends at one. Every branch of a linker counts as an end.
func (p *pipeline) heteroLinkerEnd(c *candidate) bool {
	own := c.ring.AtomSet(true)
	for _, a := range c.ring.Atoms {
		for _, b := range p.graph.BondsOf(a) {
			nbr := b.Other(a)
			if own[nbr] || p.ringBd[b.ID] {
				continue
			}
			if molecule.IsHetero(p.graph.Atom(a).Number) {
				return true
			}
			for _, end := range p.linkerEnds(a, nbr) {
				if molecule.IsHetero(p.graph.Atom(end).Number) {
					return true
				}
			}
		}
	}

	return false
}

// linkerEnds returns the ring atoms reached from ring atom from through the
// acyclic part of the graph entered at cur, in breadth-first order.
func (p *pipeline) linkerEnds(from, cur int) []int {
	if p.inRing[cur] {
		return []int{cur}
	}
	visited := map[int]bool{from: true, cur: true}
	queue := []int{cur}
	var ends []int
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, nbr := range p.graph.Neighbors(x) {
			if visited[nbr] {
				continue
			}
			visited[nbr] = true
			if p.inRing[nbr] {
				ends = append(ends, nbr)
				continue
			}
			queue = append(queue, nbr)
		}
	}

	return ends
}

// rule13 keeps the candidate whose fragment has the greatest canonical string.
func rule13(p *pipeline, cs []*candidate) ([]*candidate, error) {
	best, bestKey := -1, ""
	for i, c := range cs {
		k, err := p.key(c)
		if err != nil {
			return nil, err
		}
		if best < 0 || k > bestKey {
			best, bestKey = i, k
		}
	}

	return cs[best : best+1], nil
}
