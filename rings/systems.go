package rings

import (
	"errors"
	"sort"

	"github.com/katalvlaran/molscaf/molecule"
)

// CyclomaticNumber returns E - V + C, the size of any cycle basis of g.
func CyclomaticNumber(g *molecule.Graph) int {
	if g == nil || g.Empty() {
		return 0
	}

	return g.BondCount() - g.AtomCount() + len(g.Components())
}

// Fallback returns a Finder that asks primary first and switches to backup for
// this call only when primary reports ErrIntractable or finds fewer rings than
// the cyclomatic number of the graph. Other primary errors are returned as is.
func Fallback(primary, backup Finder) Finder {
	return FinderFunc(func(g *molecule.Graph) ([]Ring, error) {
		if g == nil {
			return nil, ErrGraphNil
		}
		rs, err := primary.Find(g)
		switch {
		case errors.Is(err, ErrIntractable):
			return backup.Find(g)
		case err != nil:
			return nil, err
		case len(rs) < CyclomaticNumber(g):
			return backup.Find(g)
		}

		return rs, nil
	})
}

// Default returns the finder used for scaffold ring perception: one minimum cycle
// basis, so a ring system of cyclomatic number n always yields exactly n rings and
// bridged systems such as adamantane stay decomposable.
func Default() Finder { return MCB() }

// WithSubstituents returns copies of rs whose Exocyclic field lists the non-ring
// atoms joined to a ring atom by a bond of order double or higher.
func WithSubstituents(g *molecule.Graph, rs []Ring) []Ring {
	out := make([]Ring, len(rs))
	for i, r := range rs {
		in := r.AtomSet(false)
		exo := make(map[int]bool)
		for _, id := range r.Atoms {
			for _, b := range g.BondsOf(id) {
				other := b.Other(id)
				if in[other] || b.Order < molecule.Double {
					continue
				}
				exo[other] = true
			}
		}
		ids := make([]int, 0, len(exo))
		for id := range exo {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out[i] = Ring{Atoms: r.Atoms, Bonds: r.Bonds, Exocyclic: ids}
	}

	return out
}

// Membership counts, for every atom ID, how many of rs contain it as a ring atom.
func Membership(rs []Ring) map[int]int {
	count := make(map[int]int)
	for _, r := range rs {
		for _, id := range r.Atoms {
			count[id]++
		}
	}

	return count
}

// FusedBondCount returns the number of bonds shared by at least two rings.
func FusedBondCount(rs []Ring) int {
	count := make(map[int]int)
	for _, r := range rs {
		for _, b := range r.Bonds {
			count[b]++
		}
	}
	n := 0
	for _, c := range count {
		if c > 1 {
			n++
		}
	}

	return n
}

// Systems groups ring indices into ring systems: rings sharing at least one atom
// (fused, bridged or spiro) end up in the same group. Groups are ordered by their
// smallest ring index.
func Systems(rs []Ring) [][]int {
	parent := make([]int, len(rs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	owner := make(map[int]int)
	for i, r := range rs {
		for _, id := range r.Atoms {
			if j, ok := owner[id]; ok {
				a, b := find(i), find(j)
				if a != b {
					if a < b {
						parent[b] = a
					} else {
						parent[a] = b
					}
				}
				continue
			}
			owner[id] = i
		}
	}
	groups := make(map[int][]int)
	var roots []int
	for i := range rs {
		root := find(i)
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], i)
	}
	out := make([][]int, 0, len(roots))
	for _, root := range roots {
		out = append(out, groups[root])
	}

	return out
}

// RingAtoms returns the union of ring atoms of rs.
func RingAtoms(rs []Ring) map[int]bool {
	set := make(map[int]bool)
	for _, r := range rs {
		for _, id := range r.Atoms {
			set[id] = true
		}
	}

	return set
}

// RingBonds returns the union of ring bonds of rs.
func RingBonds(rs []Ring) map[int]bool {
	set := make(map[int]bool)
	for _, r := range rs {
		for _, id := range r.Bonds {
			set[id] = true
		}
	}

	return set
}
