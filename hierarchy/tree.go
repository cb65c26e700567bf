package hierarchy

import "fmt"

// Tree is a collection of tree nodes. A valid tree has exactly one root and every
// node is reachable from it.
type Tree struct {
	collection
}

// NewTree returns an empty tree.
func NewTree() *Tree { return &Tree{collection: newCollection(KindTree)} }

// AddNode inserts n below parent; a nil parent adds n as an orphan.
func (t *Tree) AddNode(n, parent *Node) (NodeID, error) {
	if parent != nil && parent.owner != &t.collection {
		return -1, ErrForeignNode
	}
	id, err := t.add(n)
	if err != nil {
		return -1, err
	}
	if parent != nil {
		if err := t.link(parent.id, id); err != nil {
			return -1, err
		}
	}

	return id, nil
}

// Root returns the single orphan of the tree.
func (t *Tree) Root() (*Node, error) {
	roots := t.Orphans()
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: %d roots", ErrInvalidTree, len(roots))
	}

	return roots[0], nil
}

// IsValid reports whether the tree has one root from which every node is reachable.
func (t *Tree) IsValid() bool {
	root, err := t.Root()
	if err != nil {
		return false
	}
	seen := map[NodeID]bool{root.id: true}
	stack := []NodeID{root.id}
	for len(stack) > 0 {
		cur := t.node(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		for _, c := range cur.children {
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}

	return len(seen) == t.Len()
}

// Merge folds other into t and reports whether the roots matched.
//
// An empty t adopts a copy of other. Otherwise the roots must share a key; from
// there both trees are walked together breadth-first. A child of other whose key
// already exists anywhere in t is matched to that node (origins are unioned); any
// other child is copied below the current t node together with its subtree.
// The walk covers every node reachable in other, so overlap below a level without
// matches is still found. other is left unchanged.
//
// Complexity: O(N·k) for N nodes of other with k origin keys each.
func (t *Tree) Merge(other *Tree) (bool, error) {
	if other == nil || other.Len() == 0 {
		return true, nil
	}
	oRoot, err := other.Root()
	if err != nil {
		return false, err
	}
	var tRoot *Node
	if t.Len() == 0 {
		if tRoot, err = t.copyNode(oRoot); err != nil {
			return false, err
		}
	} else {
		if tRoot, err = t.Root(); err != nil {
			return false, err
		}
		if tRoot.key != oRoot.key {
			return false, nil
		}
		tRoot.mergeOrigins(oRoot)
	}

	type pair struct{ mine, theirs *Node }
	queue := []pair{{tRoot, oRoot}}
	visited := map[NodeID]bool{oRoot.id: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, cid := range cur.theirs.children {
			oc := other.node(cid)
			if oc == nil || visited[cid] {
				continue
			}
			visited[cid] = true
			if match, ok := t.NodeByKey(oc.key); ok {
				match.mergeOrigins(oc)
				queue = append(queue, pair{match, oc})
				continue
			}
			cp, err := t.copyNode(oc)
			if err != nil {
				return false, err
			}
			if err := t.link(cur.mine.id, cp.id); err != nil {
				return false, err
			}
			queue = append(queue, pair{cp, oc})
		}
	}

	return true, nil
}

// Matrix exports the tree as a symmetric adjacency matrix. The tree must be valid.
func (t *Tree) Matrix() (*AdjacencyMatrix, error) {
	if !t.IsValid() {
		return nil, ErrInvalidTree
	}

	return newAdjacencyMatrix(&t.collection), nil
}
