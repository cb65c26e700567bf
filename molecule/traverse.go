// File: traverse.go
// Role: Breadth-first traversal, connected components and connectivity checks.
// Determinism:
//   - Start atoms and neighbours are visited in ascending ID order, so component
//     order and the order of IDs inside each component are reproducible.

package molecule

// walker holds the mutable state of one breadth-first traversal.
type walker struct {
	graph   *Graph
	queue   []int
	visited map[int]bool
	skip    func(id int) bool
}

// newWalker prepares traversal state; skip, if non-nil, hides atoms from the walk.
func newWalker(g *Graph, skip func(int) bool) *walker {
	return &walker{
		graph:   g,
		queue:   make([]int, 0, len(g.atoms)),
		visited: make(map[int]bool, len(g.atoms)),
		skip:    skip,
	}
}

// component runs BFS from start and returns the IDs reached, in visit order.
func (w *walker) component(start int) []int {
	w.visited[start] = true
	w.queue = append(w.queue[:0], start)
	var order []int
	for len(w.queue) > 0 {
		cur := w.queue[0]
		w.queue = w.queue[1:]
		order = append(order, cur)
		for _, nbr := range w.graph.Neighbors(cur) {
			if w.visited[nbr] || (w.skip != nil && w.skip(nbr)) {
				continue
			}
			w.visited[nbr] = true
			w.queue = append(w.queue, nbr)
		}
	}

	return order
}

// Components returns the connected components of g as lists of atom IDs.
//
// Implementation:
//   - Stage 1: Iterate atoms in ascending ID order.
//   - Stage 2: Launch BFS from every unvisited atom and collect its component.
//
// Complexity: O(V + E) plus neighbour sorting.
func (g *Graph) Components() [][]int {
	w := newWalker(g, nil)
	var out [][]int
	for _, id := range g.AtomIDs() {
		if w.visited[id] {
			continue
		}
		out = append(out, w.component(id))
	}

	return out
}

// IsConnected reports whether g has at most one connected component.
// The empty graph is connected.
func (g *Graph) IsConnected() bool {
	return len(g.Components()) <= 1
}

// ConnectedWithout reports whether g stays connected once the atoms in drop are
// hidden. The graph itself is not modified.
func (g *Graph) ConnectedWithout(drop map[int]bool) bool {
	w := newWalker(g, func(id int) bool { return drop[id] })
	seen := 0
	for _, id := range g.AtomIDs() {
		if drop[id] || w.visited[id] {
			continue
		}
		if seen > 0 {
			return false
		}
		w.component(id)
		seen++
	}

	return true
}

// ComponentGraphs splits g into one deep-copied graph per connected component.
func (g *Graph) ComponentGraphs() []*Graph {
	comps := g.Components()
	out := make([]*Graph, 0, len(comps))
	for _, comp := range comps {
		keep := make(map[int]bool, len(comp))
		for _, id := range comp {
			keep[id] = true
		}
		out = append(out, g.Subgraph(keep))
	}

	return out
}
