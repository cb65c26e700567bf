// File: basis.go
// Role: Horton candidate cycles, GF(2) elimination, minimum cycle basis and
// relevant cycles.
// Determinism:
//   - BFS trees visit neighbours in ascending ID order, candidates are sorted by
//     length and canonical atom sequence before elimination.

package rings

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/molscaf/molecule"
)

// bitset is a GF(2) vector over the indexed core bonds.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int) { b[i/64] |= 1 << (uint(i) % 64) }

func (b bitset) clone() bitset { return append(bitset(nil), b...) }

func (b bitset) key() string { return fmt.Sprint([]uint64(b)) }

func (b bitset) xor(o bitset) {
	for i := range b {
		b[i] ^= o[i]
	}
}

func (b bitset) lowest() int {
	for i, w := range b {
		if w == 0 {
			continue
		}
		for j := 0; j < 64; j++ {
			if w&(1<<uint(j)) != 0 {
				return i*64 + j
			}
		}
	}

	return -1
}

// gf2Basis is an incrementally built basis in echelon form keyed by pivot bit.
type gf2Basis struct {
	rows map[int]bitset
}

func newGF2Basis() *gf2Basis { return &gf2Basis{rows: make(map[int]bitset)} }

// reduce eliminates v against the basis and returns the residue.
func (gb *gf2Basis) reduce(v bitset) bitset {
	r := v.clone()
	for {
		p := r.lowest()
		if p < 0 {
			return r
		}
		row, ok := gb.rows[p]
		if !ok {
			return r
		}
		r.xor(row)
	}
}

// independent reports whether v is not in the span of the basis.
func (gb *gf2Basis) independent(v bitset) bool { return gb.reduce(v).lowest() >= 0 }

// insert adds v to the basis if it is independent and reports whether it did.
func (gb *gf2Basis) insert(v bitset) bool {
	r := gb.reduce(v)
	p := r.lowest()
	if p < 0 {
		return false
	}
	gb.rows[p] = r

	return true
}

func (gb *gf2Basis) size() int { return len(gb.rows) }

// candidate is one Horton cycle: atom sequence plus its bond vector.
type candidate struct {
	atoms []int
	vec   bitset
}

// hortonCandidates builds the Horton set of g: for every core atom v and every
// core bond (x,y), the cycle P(v,x) + (x,y) + P(y,v) whenever the two shortest
// paths meet only in v. Duplicates are removed and the result is sorted by length.
func hortonCandidates(g *molecule.Graph) ([]candidate, map[int]bool) {
	core := cyclicCore(g)
	if len(core) == 0 {
		return nil, core
	}
	bondIndex := make(map[int]int)
	var coreBonds []*molecule.Bond
	for _, b := range g.Bonds() {
		if core[b.A] && core[b.B] {
			bondIndex[b.ID] = len(coreBonds)
			coreBonds = append(coreBonds, b)
		}
	}
	seen := make(map[string]bool)
	var out []candidate
	for _, v := range g.AtomIDs() {
		if !core[v] {
			continue
		}
		parent := bfsTree(g, core, v)
		for _, b := range coreBonds {
			px, py := pathTo(parent, v, b.A), pathTo(parent, v, b.B)
			if px == nil || py == nil || !disjointPaths(px, py) {
				continue
			}
			// px runs v..x, py runs v..y; the cycle is v..x y..(v excluded).
			cycle := append([]int(nil), px...)
			for i := len(py) - 1; i >= 1; i-- {
				cycle = append(cycle, py[i])
			}
			if len(cycle) < 3 {
				continue
			}
			vec := newBitset(len(coreBonds))
			ok := true
			for i, a := range cycle {
				bd := g.BondBetween(a, cycle[(i+1)%len(cycle)])
				if bd == nil {
					ok = false
					break
				}
				vec.set(bondIndex[bd.ID])
			}
			if !ok {
				continue
			}
			k := vec.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, candidate{atoms: canonicalCycle(cycle), vec: vec})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].atoms) != len(out[j].atoms) {
			return len(out[i].atoms) < len(out[j].atoms)
		}
		return compareSeq(out[i].atoms, out[j].atoms) < 0
	})

	return out, core
}

// bfsTree returns BFS parent links over the core starting at root.
func bfsTree(g *molecule.Graph, core map[int]bool, root int) map[int]int {
	parent := map[int]int{root: root}
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nbr := range coreNeighbors(g, core, cur) {
			if _, ok := parent[nbr]; ok {
				continue
			}
			parent[nbr] = cur
			queue = append(queue, nbr)
		}
	}

	return parent
}

// pathTo reconstructs the tree path root..dest, or nil if dest is unreachable.
func pathTo(parent map[int]int, root, dest int) []int {
	if _, ok := parent[dest]; !ok {
		return nil
	}
	var rev []int
	for cur := dest; ; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == root {
			break
		}
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}

	return rev
}

// disjointPaths reports whether two root-anchored paths share only their root.
func disjointPaths(a, b []int) bool {
	onA := make(map[int]bool, len(a))
	for _, x := range a[1:] {
		onA[x] = true
	}
	for _, y := range b[1:] {
		if onA[y] {
			return false
		}
	}

	return true
}

// MCB returns a Finder producing one minimum cycle basis (an SSSR). The basis
// always has exactly CyclomaticNumber(g) rings, so this finder never fails on a
// valid graph.
func MCB() Finder {
	return FinderFunc(func(g *molecule.Graph) ([]Ring, error) {
		if g == nil {
			return nil, ErrGraphNil
		}
		cands, _ := hortonCandidates(g)
		want := CyclomaticNumber(g)
		basis := newGF2Basis()
		var out []Ring
		for _, c := range cands {
			if basis.size() == want {
				break
			}
			if basis.insert(c.vec) {
				out = append(out, newRing(g, c.atoms))
			}
		}
		sortRings(out)

		return out, nil
	})
}

// Relevant returns a Finder producing the relevant cycles reachable from the
// Horton set: a candidate is relevant when it is independent of all strictly
// shorter candidates. More than limit relevant cycles yield ErrIntractable; a
// non-positive limit selects DefaultCycleLimit.
func Relevant(limit int) Finder {
	if limit <= 0 {
		limit = DefaultCycleLimit
	}

	return FinderFunc(func(g *molecule.Graph) ([]Ring, error) {
		if g == nil {
			return nil, ErrGraphNil
		}
		cands, _ := hortonCandidates(g)
		shorter := newGF2Basis()
		var out []Ring
		for i := 0; i < len(cands); {
			j := i
			for j < len(cands) && len(cands[j].atoms) == len(cands[i].atoms) {
				j++
			}
			group := cands[i:j]
			for _, c := range group {
				if !shorter.independent(c.vec) {
					continue
				}
				if len(out) >= limit {
					return nil, fmt.Errorf("%w: more than %d relevant cycles", ErrIntractable, limit)
				}
				out = append(out, newRing(g, c.atoms))
			}
			for _, c := range group {
				shorter.insert(c.vec)
			}
			i = j
		}
		sortRings(out)

		return out, nil
	})
}
