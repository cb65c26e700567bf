package hierarchy

import "fmt"

// Network is a collection of network nodes forming a DAG; smaller fragments are
// parents of the larger fragments they were derived from.
type Network struct {
	collection
}

// NewNetwork returns an empty network.
func NewNetwork() *Network { return &Network{collection: newCollection(KindNetwork)} }

// AddNode inserts n as an orphan.
func (nw *Network) AddNode(n *Node) (NodeID, error) { return nw.add(n) }

// AddParentEdge makes parent a parent of child. Repeated edges are ignored; an
// edge that would close a cycle fails with ErrCycle.
func (nw *Network) AddParentEdge(child, parent NodeID) error { return nw.link(parent, child) }

// Roots returns the orphan nodes in ID order.
func (nw *Network) Roots() []*Node { return nw.Orphans() }

// Merge folds other into nw: nodes with unseen keys are copied, nodes with known
// keys receive the other node's origins, and every parent edge of other is
// re-created between the resident counterparts. other is left unchanged.
//
// Implementation:
//   - Stage 1: Check node kinds and plan every edge by key, rejecting edges that
//     would close a cycle together with resident and already planned edges.
//   - Stage 2: Copy nodes, union origins and attach the planned edges. Nothing in
//     this stage can fail, so a rejected merge leaves nw untouched.
//
// Complexity: O(N + E·D) for N nodes and E edges of other, D the number of
// descendants visited per cycle check.
func (nw *Network) Merge(other *Network) error {
	if other == nil {
		return nil
	}
	type edge struct{ parent, child string }
	var edges []edge
	planned := make(map[string][]string)
	for _, on := range other.Nodes() {
		if on.kind != nw.kind {
			return fmt.Errorf("hierarchy: merge %q: %w", on.key, ErrKindMismatch)
		}
		for _, pid := range on.parents {
			op := other.node(pid)
			if op == nil {
				continue
			}
			if op.key == on.key {
				return fmt.Errorf("hierarchy: merge %q: %w", on.key, ErrSelfLink)
			}
			if nw.descends(on.key, op.key, planned) {
				return fmt.Errorf("hierarchy: merge %q -> %q: %w", op.key, on.key, ErrCycle)
			}
			planned[op.key] = append(planned[op.key], on.key)
			edges = append(edges, edge{op.key, on.key})
		}
	}

	for _, on := range other.Nodes() {
		if mine, ok := nw.NodeByKey(on.key); ok {
			mine.mergeOrigins(on)
			continue
		}
		nw.insert(on.copyDetached())
	}
	for _, e := range edges {
		parent, _ := nw.NodeByKey(e.parent)
		child, _ := nw.NodeByKey(e.child)
		nw.attach(parent.id, child.id)
	}

	return nil
}

// Matrix exports the network as a symmetric adjacency matrix.
func (nw *Network) Matrix() (*AdjacencyMatrix, error) {
	return newAdjacencyMatrix(&nw.collection), nil
}
