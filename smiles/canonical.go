// File: canonical.go
// Role: Canonical atom ranking and rank-ordered SMILES writing.
// Determinism:
//   - Ranks depend only on atom and bond labels and the graph structure. The first
//     remaining tie is resolved by trying every member of the tied class and keeping
//     the smallest string; deeper ties are split on the lowest atom ID.

package smiles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/molscaf/molecule"
)

// Canonical serialises graphs to canonical SMILES. The zero value is ready to use.
type Canonical struct{}

// Serialize implements the scaffold serializer contract.
func (Canonical) Serialize(g *molecule.Graph) (string, error) { return Write(g) }

// Write returns the canonical SMILES of g. An empty graph yields "".
//
// Implementation:
//   - Stage 1: Rank atoms by invariants (degree, element, charge, hydrogens,
//     aromaticity, isotope) and refine with neighbour ranks and bond codes.
//   - Stage 2: Break the first tie every possible way and keep the smallest output.
//   - Stage 3: Write each component from its lowest-ranked atom and join the sorted
//     component strings with '.'.
//
// Complexity: O(k·V·(V+E)·log V) where k is the size of the first tied class.
func Write(g *molecule.Graph) (string, error) {
	if g == nil {
		return "", ErrGraphNil
	}
	if g.Empty() {
		return "", nil
	}
	for _, a := range g.Atoms() {
		if molecule.Symbol(a.Number) == "?" {
			return "", fmt.Errorf("%w: atomic number %d", ErrUnsupportedAtom, a.Number)
		}
	}
	rk := newRanker(g)
	ranks := rk.refine(rk.initial())
	cls := tiedClass(ranks)
	if cls == nil {
		return writeAll(g, ranks)
	}
	best := ""
	for i, id := range cls {
		s, err := writeAll(g, rk.finish(split(ranks, id)))
		if err != nil {
			return "", err
		}
		if i == 0 || s < best {
			best = s
		}
	}

	return best, nil
}

// ranker computes canonical atom ranks for one graph.
type ranker struct {
	graph *molecule.Graph
	ids   []int
}

func newRanker(g *molecule.Graph) *ranker { return &ranker{graph: g, ids: g.AtomIDs()} }

// initial ranks atoms by their label invariants.
func (r *ranker) initial() map[int]int {
	keys := make(map[int][]int, len(r.ids))
	for _, id := range r.ids {
		a := r.graph.Atom(id)
		arom := 0
		if a.Aromatic {
			arom = 1
		}
		keys[id] = []int{r.graph.Degree(id), a.Number, a.Charge, a.ImplicitH, arom, a.Isotope}
	}

	return denseRanks(r.ids, keys)
}

// refine repeats neighbour-signature ranking until the class count stops growing.
func (r *ranker) refine(ranks map[int]int) map[int]int {
	classes := countClasses(ranks)
	for {
		keys := make(map[int][]int, len(r.ids))
		for _, id := range r.ids {
			type nb struct{ rank, bond int }
			var nbs []nb
			for _, b := range r.graph.BondsOf(id) {
				nbs = append(nbs, nb{ranks[b.Other(id)], bondCode(b)})
			}
			sort.Slice(nbs, func(i, j int) bool {
				if nbs[i].rank != nbs[j].rank {
					return nbs[i].rank < nbs[j].rank
				}
				return nbs[i].bond < nbs[j].bond
			})
			key := []int{ranks[id]}
			for _, n := range nbs {
				key = append(key, n.rank, n.bond)
			}
			keys[id] = key
		}
		next := denseRanks(r.ids, keys)
		n := countClasses(next)
		if n == classes {
			return next
		}
		ranks, classes = next, n
	}
}

// finish refines and splits ties on the lowest atom ID until all ranks are distinct.
func (r *ranker) finish(ranks map[int]int) map[int]int {
	for {
		ranks = r.refine(ranks)
		cls := tiedClass(ranks)
		if cls == nil {
			return ranks
		}
		ranks = split(ranks, cls[0])
	}
}

// bondCode labels a bond for refinement; aromatic bonds share one code.
func bondCode(b *molecule.Bond) int {
	if b.Aromatic {
		return 5
	}

	return b.Order.Numeric()
}

// denseRanks sorts ids by key and assigns ranks 0..k-1, equal keys sharing a rank.
func denseRanks(ids []int, keys map[int][]int) map[int]int {
	order := append([]int(nil), ids...)
	sort.SliceStable(order, func(i, j int) bool { return compareKeys(keys[order[i]], keys[order[j]]) < 0 })
	ranks := make(map[int]int, len(ids))
	rank := 0
	for i, id := range order {
		if i > 0 && compareKeys(keys[order[i-1]], keys[id]) != 0 {
			rank++
		}
		ranks[id] = rank
	}

	return ranks
}

func compareKeys(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}

	return len(a) - len(b)
}

func countClasses(ranks map[int]int) int {
	seen := make(map[int]bool)
	for _, r := range ranks {
		seen[r] = true
	}

	return len(seen)
}

// tiedClass returns the atoms of the lowest rank shared by several atoms, sorted
// by ID, or nil when every rank is distinct.
func tiedClass(ranks map[int]int) []int {
	members := make(map[int][]int)
	for id, r := range ranks {
		members[r] = append(members[r], id)
	}
	lowest := -1
	for r, ids := range members {
		if len(ids) > 1 && (lowest == -1 || r < lowest) {
			lowest = r
		}
	}
	if lowest == -1 {
		return nil
	}
	cls := members[lowest]
	sort.Ints(cls)

	return cls
}

// split gives id a rank strictly below the rest of its class.
func split(ranks map[int]int, id int) map[int]int {
	out := make(map[int]int, len(ranks))
	for a, r := range ranks {
		out[a] = 2*r + 1
	}
	out[id] = 2 * ranks[id]

	return out
}

// writeAll writes every component of g and joins them in sorted order.
func writeAll(g *molecule.Graph, ranks map[int]int) (string, error) {
	var parts []string
	for _, comp := range g.Components() {
		start := comp[0]
		for _, id := range comp {
			if ranks[id] < ranks[start] {
				start = id
			}
		}
		w := newWriter(g, ranks)
		s, err := w.write(start)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	sort.Strings(parts)

	return strings.Join(parts, "."), nil
}

// closure is one ring-closure bond seen from one of its end atoms.
type closure struct {
	bond    int
	opening bool
}

// writer performs the two-pass depth-first SMILES output for one component.
type writer struct {
	graph    *molecule.Graph
	ranks    map[int]int
	visited  map[int]bool
	used     map[int]bool
	children map[int][]*molecule.Bond
	rings    map[int][]closure
	digits   map[int]int
	free     []bool
	sb       strings.Builder
}

func newWriter(g *molecule.Graph, ranks map[int]int) *writer {
	return &writer{
		graph:    g,
		ranks:    ranks,
		visited:  make(map[int]bool),
		used:     make(map[int]bool),
		children: make(map[int][]*molecule.Bond),
		rings:    make(map[int][]closure),
		digits:   make(map[int]int),
	}
}

func (w *writer) write(start int) (string, error) {
	w.plan(start, -1)
	if err := w.emit(start, nil); err != nil {
		return "", err
	}

	return w.sb.String(), nil
}

// plan is the first pass: it fixes tree edges and ring-closure bonds.
func (w *writer) plan(id, via int) {
	w.visited[id] = true
	bonds := w.graph.BondsOf(id)
	sort.SliceStable(bonds, func(i, j int) bool {
		return w.ranks[bonds[i].Other(id)] < w.ranks[bonds[j].Other(id)]
	})
	for _, b := range bonds {
		if b.ID == via || w.used[b.ID] {
			continue
		}
		nbr := b.Other(id)
		w.used[b.ID] = true
		if w.visited[nbr] {
			w.rings[nbr] = append(w.rings[nbr], closure{bond: b.ID, opening: true})
			w.rings[id] = append(w.rings[id], closure{bond: b.ID})
			continue
		}
		w.children[id] = append(w.children[id], b)
		w.plan(nbr, b.ID)
	}
}

// emit is the second pass: it writes atoms, ring digits and branches.
func (w *writer) emit(id int, via *molecule.Bond) error {
	if via != nil {
		w.sb.WriteString(w.bondSymbol(via))
	}
	w.sb.WriteString(w.atomSymbol(id))
	for _, c := range w.rings[id] {
		if c.opening {
			continue
		}
		d := w.digits[c.bond]
		w.free[d] = false
		w.sb.WriteString(ringDigit(d))
	}
	for _, c := range w.rings[id] {
		if !c.opening {
			continue
		}
		d, err := w.allocate()
		if err != nil {
			return err
		}
		w.digits[c.bond] = d
		w.sb.WriteString(w.bondSymbol(w.graph.Bond(c.bond)))
		w.sb.WriteString(ringDigit(d))
	}
	kids := w.children[id]
	for i, b := range kids {
		last := i == len(kids)-1
		if !last {
			w.sb.WriteByte('(')
		}
		if err := w.emit(b.Other(id), b); err != nil {
			return err
		}
		if !last {
			w.sb.WriteByte(')')
		}
	}

	return nil
}

// allocate returns the lowest ring digit not currently open.
func (w *writer) allocate() (int, error) {
	for d := 1; d < len(w.free); d++ {
		if !w.free[d] {
			w.free[d] = true
			return d, nil
		}
	}
	if len(w.free) == 0 {
		w.free = append(w.free, true) // digit 0 is never used
	}
	if len(w.free) > 99 {
		return 0, ErrTooManyRingClosures
	}
	w.free = append(w.free, true)

	return len(w.free) - 1, nil
}

func ringDigit(d int) string {
	if d < 10 {
		return strconv.Itoa(d)
	}

	return "%" + strconv.Itoa(d)
}

// writtenAromatic reports whether b is written as an implicit aromatic bond.
func (w *writer) writtenAromatic(b *molecule.Bond) bool {
	return b.Aromatic && w.graph.Atom(b.A).Aromatic && w.graph.Atom(b.B).Aromatic
}

func (w *writer) bondSymbol(b *molecule.Bond) string {
	if w.writtenAromatic(b) {
		return ""
	}
	switch b.Order {
	case molecule.Double:
		return "="
	case molecule.Triple:
		return "#"
	case molecule.Quadruple:
		return "$"
	}
	if w.graph.Atom(b.A).Aromatic && w.graph.Atom(b.B).Aromatic {
		return "-"
	}

	return ""
}

// organicSubset lists elements that may be written without brackets.
var organicSubset = map[int]bool{
	molecule.Boron: true, molecule.Carbon: true, molecule.Nitrogen: true, molecule.Oxygen: true,
	molecule.Phosphorus: true, molecule.Sulfur: true, molecule.Fluorine: true,
	molecule.Chlorine: true, molecule.Bromine: true, molecule.Iodine: true,
}

// aromaticSymbols lists elements with a lowercase aromatic form.
var aromaticSymbols = map[int]bool{
	molecule.Boron: true, molecule.Carbon: true, molecule.Nitrogen: true, molecule.Oxygen: true,
	molecule.Phosphorus: true, molecule.Sulfur: true, molecule.Selenium: true, 33: true, 52: true,
}

// readerHydrogens returns the hydrogen count a SMILES reader would imply for id
// as written without brackets.
func (w *writer) readerHydrogens(id int) int {
	a := w.graph.Atom(id)
	sum, arom := 0, false
	for _, b := range w.graph.BondsOf(id) {
		if w.writtenAromatic(b) {
			sum++
			arom = true
			continue
		}
		sum += b.Order.Numeric()
	}
	vs := molecule.Valences(a.Number, 0)
	if arom && a.Aromatic {
		sum++
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

func (w *writer) atomSymbol(id int) string {
	a := w.graph.Atom(id)
	sym := molecule.Symbol(a.Number)
	if a.Aromatic && aromaticSymbols[a.Number] {
		sym = strings.ToLower(sym)
	}
	plain := a.Charge == 0 && a.Isotope == 0
	switch {
	case a.Number == 0 && plain && a.ImplicitH == 0:
		return sym
	case organicSubset[a.Number] && plain && a.ImplicitH == w.readerHydrogens(id):
		return sym
	}
	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope != 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(sym)
	if a.ImplicitH > 0 {
		sb.WriteByte('H')
		if a.ImplicitH > 1 {
			sb.WriteString(strconv.Itoa(a.ImplicitH))
		}
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		sb.WriteString("+" + strconv.Itoa(a.Charge))
	case a.Charge < -1:
		sb.WriteString(strconv.Itoa(a.Charge))
	}
	sb.WriteByte(']')

	return sb.String()
}
