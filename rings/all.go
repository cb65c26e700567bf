package rings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/molscaf/molecule"
)

// DefaultCycleLimit bounds the number of cycles All and Relevant may report
// before giving up with ErrIntractable.
const DefaultCycleLimit = 1024

// stepsPerCycle scales the DFS step budget of All from its cycle limit.
const stepsPerCycle = 512

// All returns a Finder enumerating every simple cycle of the graph.
//
// Implementation:
//   - Stage 1: Restrict the search to the cyclic core (atoms surviving pruning).
//   - Stage 2: For each start atom s (ascending), extend simple paths over atoms with
//     ID > s; a path of length ≥ 3 returning to s closes a cycle.
//   - Stage 3: Canonicalise each cycle and drop the mirrored duplicate.
//
// Complexity: exponential in ring-system density; bounded by limit cycles and
// limit*stepsPerCycle DFS steps, beyond which ErrIntractable is returned.
// A non-positive limit selects DefaultCycleLimit.
func All(limit int) Finder {
	if limit <= 0 {
		limit = DefaultCycleLimit
	}

	return FinderFunc(func(g *molecule.Graph) ([]Ring, error) {
		if g == nil {
			return nil, ErrGraphNil
		}
		e := &enumerator{
			graph: g,
			core:  cyclicCore(g),
			limit: limit,
			steps: limit * stepsPerCycle,
			seen:  make(map[string]bool),
		}
		if err := e.run(); err != nil {
			return nil, err
		}
		sortRings(e.found)

		return e.found, nil
	})
}

// enumerator holds the mutable state of one simple-cycle enumeration.
type enumerator struct {
	graph *molecule.Graph
	core  map[int]bool
	limit int
	steps int
	seen  map[string]bool
	found []Ring

	start  int
	path   []int
	onPath map[int]bool
}

// run launches the path search from every core atom.
func (e *enumerator) run() error {
	for _, s := range e.graph.AtomIDs() {
		if !e.core[s] {
			continue
		}
		e.start = s
		e.path = append(e.path[:0], s)
		e.onPath = map[int]bool{s: true}
		if err := e.extend(s); err != nil {
			return err
		}
	}

	return nil
}

// extend grows the current path from cur, recording closed cycles.
func (e *enumerator) extend(cur int) error {
	for _, nbr := range coreNeighbors(e.graph, e.core, cur) {
		e.steps--
		if e.steps < 0 {
			return fmt.Errorf("%w: step budget exhausted", ErrIntractable)
		}
		if nbr == e.start && len(e.path) >= 3 {
			if err := e.record(); err != nil {
				return err
			}
			continue
		}
		if nbr <= e.start || e.onPath[nbr] {
			continue
		}
		e.path = append(e.path, nbr)
		e.onPath[nbr] = true
		if err := e.extend(nbr); err != nil {
			return err
		}
		e.onPath[nbr] = false
		e.path = e.path[:len(e.path)-1]
	}

	return nil
}

// record stores the current path as a cycle unless its mirror was already seen.
func (e *enumerator) record() error {
	canon := canonicalCycle(e.path)
	parts := make([]string, len(canon))
	for i, a := range canon {
		parts[i] = strconv.Itoa(a)
	}
	sig := strings.Join(parts, ",")
	if e.seen[sig] {
		return nil
	}
	e.seen[sig] = true
	if len(e.found) >= e.limit {
		return fmt.Errorf("%w: more than %d cycles", ErrIntractable, e.limit)
	}
	e.found = append(e.found, newRing(e.graph, canon))

	return nil
}
