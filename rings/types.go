// Package rings perceives rings of a molecule.Graph.
//
// Three finders are provided behind the Finder interface:
//
//	All(limit)      - every simple cycle; used by aromaticity perception.
//	Relevant(limit) - cycles that are not a GF(2) sum of strictly shorter cycles.
//	MCB()           - one minimum cycle basis; always tractable. Default() for scaffolds.
//
// Fallback(primary, backup) combines two finders: the backup answers whenever the
// primary reports ErrIntractable or returns fewer rings than the cyclomatic number.
// Rings are returned in canonical form (rotation starting at the smallest atom ID,
// direction towards the smaller neighbour) sorted by size and then atom sequence.
package rings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/molscaf/molecule"
)

// Sentinel errors for ring perception.
var (
	// ErrIntractable is returned when a finder exceeds its cycle or step limit.
	ErrIntractable = errors.New("rings: cycle enumeration intractable")

	// ErrGraphNil is returned when a nil graph is passed to a finder.
	ErrGraphNil = errors.New("rings: graph is nil")
)

// Finder enumerates rings of a molecular graph.
type Finder interface {
	Find(g *molecule.Graph) ([]Ring, error)
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(g *molecule.Graph) ([]Ring, error)

// Find implements Finder.
func (f FinderFunc) Find(g *molecule.Graph) ([]Ring, error) { return f(g) }

// Ring is a simple cycle of a molecular graph.
type Ring struct {
	// Atoms is the cyclic atom ID sequence in canonical rotation.
	Atoms []int

	// Bonds holds the ring bond IDs sorted ascending.
	Bonds []int

	// Exocyclic holds IDs of non-ring atoms multiply bonded to a ring atom, sorted
	// ascending. Only populated by WithSubstituents.
	Exocyclic []int
}

// Size returns the number of ring atoms (exocyclic atoms excluded).
func (r Ring) Size() int { return len(r.Atoms) }

// Contains reports whether id is a ring atom (exocyclic atoms excluded).
func (r Ring) Contains(id int) bool {
	for _, a := range r.Atoms {
		if a == id {
			return true
		}
	}

	return false
}

// AllAtoms returns ring atoms followed by exocyclic atoms.
func (r Ring) AllAtoms() []int {
	out := make([]int, 0, len(r.Atoms)+len(r.Exocyclic))
	out = append(out, r.Atoms...)

	return append(out, r.Exocyclic...)
}

// AtomSet returns the ring atoms as a set; exocyclic atoms are included when
// withExocyclic is true.
func (r Ring) AtomSet(withExocyclic bool) map[int]bool {
	set := make(map[int]bool, len(r.Atoms)+len(r.Exocyclic))
	for _, a := range r.Atoms {
		set[a] = true
	}
	if withExocyclic {
		for _, a := range r.Exocyclic {
			set[a] = true
		}
	}

	return set
}

// Key returns a comma-joined signature of the canonical atom sequence.
func (r Ring) Key() string {
	parts := make([]string, len(r.Atoms))
	for i, a := range r.Atoms {
		parts[i] = strconv.Itoa(a)
	}

	return strings.Join(parts, ",")
}

// Same reports whether r and o describe the same cycle.
func (r Ring) Same(o Ring) bool { return r.Key() == o.Key() }

// String implements fmt.Stringer.
func (r Ring) String() string {
	if len(r.Exocyclic) == 0 {
		return fmt.Sprintf("ring[%s]", r.Key())
	}

	return fmt.Sprintf("ring[%s +%v]", r.Key(), r.Exocyclic)
}

// IsAromatic reports whether every ring atom of r is flagged aromatic in g.
func (r Ring) IsAromatic(g *molecule.Graph) bool {
	if len(r.Atoms) == 0 {
		return false
	}
	for _, id := range r.Atoms {
		a := g.Atom(id)
		if a == nil || !a.Aromatic {
			return false
		}
	}

	return true
}

// CountElement returns the number of ring atoms with atomic number z.
func (r Ring) CountElement(g *molecule.Graph, z int) int {
	n := 0
	for _, id := range r.Atoms {
		if a := g.Atom(id); a != nil && a.Number == z {
			n++
		}
	}

	return n
}

// HeteroCount returns the number of ring atoms that are neither C nor H.
func (r Ring) HeteroCount(g *molecule.Graph) int {
	n := 0
	for _, id := range r.Atoms {
		if a := g.Atom(id); a != nil && molecule.IsHetero(a.Number) {
			n++
		}
	}

	return n
}
