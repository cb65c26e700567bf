// Package hierarchy holds deduplicated collections of scaffold fragments.
//
// Nodes live in an arena owned by their collection and refer to each other by
// NodeID, never by pointer. Two collection kinds exist:
//
//	Tree    - every node has at most one parent; exactly one root when valid.
//	Network - nodes may have many parents (a DAG).
//
// A collection never holds two nodes with the same key (canonical string).
// Removing a node leaves a tombstone, so IDs of remaining nodes never change.
// Levels are derived: orphans are level 0, any other node sits one level below
// its first parent.
package hierarchy

import (
	"errors"

	"github.com/samber/lo"

	"github.com/katalvlaran/molscaf/molecule"
)

// Sentinel errors for collection mutation and validity.
var (
	// ErrKindMismatch indicates a tree node added to a network or vice versa.
	ErrKindMismatch = errors.New("hierarchy: node kind does not match collection")

	// ErrNodeNotFound indicates an unknown or removed NodeID.
	ErrNodeNotFound = errors.New("hierarchy: node not found")

	// ErrDuplicateKey indicates a second node with an existing key.
	ErrDuplicateKey = errors.New("hierarchy: duplicate node key")

	// ErrParentAlreadySet indicates a second parent for a tree node.
	ErrParentAlreadySet = errors.New("hierarchy: tree node already has a parent")

	// ErrForeignNode indicates a node owned by another collection.
	ErrForeignNode = errors.New("hierarchy: node belongs to another collection")

	// ErrSelfLink indicates an edge from a node to itself.
	ErrSelfLink = errors.New("hierarchy: node cannot be its own parent")

	// ErrCycle indicates an edge that would make a node its own ancestor.
	ErrCycle = errors.New("hierarchy: link would create a cycle")

	// ErrInvalidTree indicates a tree without a single root or with unreachable nodes.
	ErrInvalidTree = errors.New("hierarchy: tree is not single-rooted and connected")
)

// NodeID identifies a node within its collection.
type NodeID int

// Kind tags the two node variants.
type Kind uint8

const (
	// KindTree nodes have at most one parent.
	KindTree Kind = iota
	// KindNetwork nodes may have any number of parents.
	KindNetwork
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindTree {
		return "tree"
	}

	return "network"
}

// Linkable is the capability shared by both node variants.
type Linkable interface {
	IsOrphan() bool
	Level() int
	AddChild(child *Node) error
}

var _ Linkable = (*Node)(nil)

// Node is one fragment with its provenance and links.
type Node struct {
	id            NodeID
	kind          Kind
	fragment      *molecule.Graph
	key           string
	origins       []string
	directOrigins []string
	parents       []NodeID
	children      []NodeID
	owner         *collection
}

// NewTreeNode returns an unattached tree node for fragment identified by key.
func NewTreeNode(fragment *molecule.Graph, key string) *Node {
	return &Node{id: -1, kind: KindTree, fragment: fragment, key: key}
}

// NewNetworkNode returns an unattached network node for fragment identified by key.
func NewNetworkNode(fragment *molecule.Graph, key string) *Node {
	return &Node{id: -1, kind: KindNetwork, fragment: fragment, key: key}
}

// ID returns the node's ID, or -1 before it is added to a collection.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Fragment returns the node's graph. Callers must not mutate it.
func (n *Node) Fragment() *molecule.Graph { return n.fragment }

// Key returns the canonical string identifying the fragment.
func (n *Node) Key() string { return n.key }

// Origins returns the keys of all molecules the fragment derives from.
func (n *Node) Origins() []string { return append([]string(nil), n.origins...) }

// DirectOrigins returns the keys of molecules whose own scaffold is this fragment.
func (n *Node) DirectOrigins() []string { return append([]string(nil), n.directOrigins...) }

// Parents returns parent IDs in insertion order.
func (n *Node) Parents() []NodeID { return append([]NodeID(nil), n.parents...) }

// Children returns child IDs in insertion order.
func (n *Node) Children() []NodeID { return append([]NodeID(nil), n.children...) }

// AddOrigin records a molecule key; duplicates are ignored.
func (n *Node) AddOrigin(key string) {
	if !lo.Contains(n.origins, key) {
		n.origins = append(n.origins, key)
	}
}

// AddDirectOrigin records a direct molecule key; it is also added as an origin.
func (n *Node) AddDirectOrigin(key string) {
	n.AddOrigin(key)
	if !lo.Contains(n.directOrigins, key) {
		n.directOrigins = append(n.directOrigins, key)
	}
}

// IsOrphan reports whether the node has no parent.
func (n *Node) IsOrphan() bool { return len(n.parents) == 0 }

// Level returns 0 for orphans, otherwise the level of the first parent plus one.
func (n *Node) Level() int {
	level := 0
	seen := map[NodeID]bool{n.id: true}
	for cur := n; !cur.IsOrphan() && cur.owner != nil; level++ {
		next := cur.owner.node(cur.parents[0])
		if next == nil || seen[next.id] {
			break
		}
		seen[next.id] = true
		cur = next
	}

	return level
}

// AddChild links child below n. Both nodes must belong to the same collection.
func (n *Node) AddChild(child *Node) error {
	if n.owner == nil || child == nil || child.owner != n.owner {
		return ErrForeignNode
	}

	return n.owner.link(n.id, child.id)
}

// mergeOrigins unions the origin sets of o into n.
func (n *Node) mergeOrigins(o *Node) {
	for _, k := range o.origins {
		n.AddOrigin(k)
	}
	for _, k := range o.directOrigins {
		n.AddDirectOrigin(k)
	}
}

// copyDetached returns an unattached copy of n with a cloned fragment.
func (n *Node) copyDetached() *Node {
	c := &Node{
		id:            -1,
		kind:          n.kind,
		key:           n.key,
		origins:       append([]string(nil), n.origins...),
		directOrigins: append([]string(nil), n.directOrigins...),
	}
	if n.fragment != nil {
		c.fragment = n.fragment.Clone()
	}

	return c
}
