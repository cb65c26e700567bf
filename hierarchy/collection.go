// File: collection.go
// Role: Arena shared by Tree and Network: insertion, lookup, links, levels,
// origin queries and tombstone removal.
// Determinism:
//   - Every listing is returned in ascending NodeID order.

package hierarchy

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// collection is the arena embedded by Tree and Network.
type collection struct {
	kind  Kind
	nodes []*Node
	byKey map[string]NodeID
}

func newCollection(k Kind) collection {
	return collection{kind: k, byKey: make(map[string]NodeID)}
}

// node returns the live node with id, or nil.
func (c *collection) node(id NodeID) *Node {
	if id < 0 || int(id) >= len(c.nodes) {
		return nil
	}

	return c.nodes[id]
}

// add appends n to the arena and assigns its ID.
func (c *collection) add(n *Node) (NodeID, error) {
	switch {
	case n == nil:
		return -1, fmt.Errorf("%w: nil node", ErrNodeNotFound)
	case n.kind != c.kind:
		return -1, fmt.Errorf("%w: %s node in %s collection", ErrKindMismatch, n.kind, c.kind)
	case n.owner != nil:
		return -1, ErrForeignNode
	}
	if _, ok := c.byKey[n.key]; ok {
		return -1, fmt.Errorf("%w: %q", ErrDuplicateKey, n.key)
	}

	return c.insert(n), nil
}

// insert appends a node already checked by the caller.
func (c *collection) insert(n *Node) NodeID {
	n.id = NodeID(len(c.nodes))
	n.owner = c
	c.nodes = append(c.nodes, n)
	c.byKey[n.key] = n.id

	return n.id
}

// link records parent → child, enforcing the single-parent rule for trees and
// rejecting edges that would close a cycle.
func (c *collection) link(parent, child NodeID) error {
	p, ch := c.node(parent), c.node(child)
	if p == nil || ch == nil {
		return fmt.Errorf("%w: link %d -> %d", ErrNodeNotFound, parent, child)
	}
	if parent == child {
		return ErrSelfLink
	}
	if lo.Contains(ch.parents, parent) {
		return nil
	}
	if c.kind == KindTree && len(ch.parents) > 0 {
		return fmt.Errorf("%w: node %d", ErrParentAlreadySet, child)
	}
	if c.descends(ch.key, p.key, nil) {
		return fmt.Errorf("%w: %q -> %q", ErrCycle, p.key, ch.key)
	}
	c.attach(parent, child)

	return nil
}

// attach records parent → child unless the edge exists. Both IDs must be live.
func (c *collection) attach(parent, child NodeID) {
	p, ch := c.nodes[parent], c.nodes[child]
	if lo.Contains(ch.parents, parent) {
		return
	}
	ch.parents = append(ch.parents, parent)
	p.children = append(p.children, child)
}

// descends reports whether key to is from itself or lies below it, following
// child links plus the planned parent → children links keyed by parent key.
func (c *collection) descends(from, to string, planned map[string][]string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		var next []string
		if n, ok := c.NodeByKey(cur); ok {
			for _, id := range n.children {
				if ch := c.node(id); ch != nil {
					next = append(next, ch.key)
				}
			}
		}
		next = append(next, planned[cur]...)
		for _, k := range next {
			if !seen[k] {
				seen[k] = true
				stack = append(stack, k)
			}
		}
	}

	return false
}

// Node returns the live node with id.
func (c *collection) Node(id NodeID) (*Node, error) {
	n := c.node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	return n, nil
}

// NodeByKey returns the node whose fragment has the given canonical key.
func (c *collection) NodeByKey(key string) (*Node, bool) {
	id, ok := c.byKey[key]
	if !ok {
		return nil, false
	}

	return c.nodes[id], true
}

// Contains reports whether a node with key exists.
func (c *collection) Contains(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Len returns the number of live nodes.
func (c *collection) Len() int { return len(c.byKey) }

// Nodes returns all live nodes in ID order.
func (c *collection) Nodes() []*Node {
	return lo.Filter(c.nodes, func(n *Node, _ int) bool { return n != nil })
}

// Keys returns the keys of all live nodes, sorted.
func (c *collection) Keys() []string {
	keys := lo.Keys(c.byKey)
	sort.Strings(keys)

	return keys
}

// Levels groups live node IDs by level. Every live node appears exactly once.
func (c *collection) Levels() map[int][]NodeID {
	out := make(map[int][]NodeID)
	for _, n := range c.Nodes() {
		l := n.Level()
		out[l] = append(out[l], n.id)
	}

	return out
}

// NodesOnLevel returns the live nodes at level l in ID order.
func (c *collection) NodesOnLevel(l int) []*Node {
	return lo.Filter(c.Nodes(), func(n *Node, _ int) bool { return n.Level() == l })
}

// MaxLevel returns the deepest level, or -1 for an empty collection.
func (c *collection) MaxLevel() int {
	max := -1
	for _, n := range c.Nodes() {
		if l := n.Level(); l > max {
			max = l
		}
	}

	return max
}

// NodesByOrigin returns the live nodes derived from the molecule with key origin.
func (c *collection) NodesByOrigin(origin string) []*Node {
	return lo.Filter(c.Nodes(), func(n *Node, _ int) bool { return lo.Contains(n.origins, origin) })
}

// Orphans returns the live nodes without parents.
func (c *collection) Orphans() []*Node {
	return lo.Filter(c.Nodes(), func(n *Node, _ int) bool { return n.IsOrphan() })
}

// RemoveNode deletes a node and every link touching it. Its ID is not reused.
// Former children without other parents become orphans.
func (c *collection) RemoveNode(id NodeID) error {
	n := c.node(id)
	if n == nil {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	for _, pid := range n.parents {
		if p := c.node(pid); p != nil {
			p.children = lo.Without(p.children, id)
		}
	}
	for _, cid := range n.children {
		if ch := c.node(cid); ch != nil {
			ch.parents = lo.Without(ch.parents, id)
		}
	}
	delete(c.byKey, n.key)
	c.nodes[id] = nil
	n.owner = nil
	n.parents, n.children = nil, nil

	return nil
}

// copyNode inserts a detached copy of n and returns it.
func (c *collection) copyNode(n *Node) (*Node, error) {
	cp := n.copyDetached()
	if _, err := c.add(cp); err != nil {
		return nil, err
	}

	return cp, nil
}
