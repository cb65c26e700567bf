package scaffold

import (
	"github.com/katalvlaran/molscaf/hierarchy"
	"github.com/katalvlaran/molscaf/molecule"
)

// SchuffenhauerTree builds the single-branch tree of SchuffenhauerFragments(m):
// the last (smallest) fragment is the root and the scaffold of m is the leaf.
// Every node records the key of m as an origin; the leaf also records it as a
// direct origin.
func (gen *Generator) SchuffenhauerTree(m *molecule.Graph) (*hierarchy.Tree, error) {
	molKey, err := gen.Key(m)
	if err != nil {
		return nil, err
	}
	frags, err := gen.SchuffenhauerFragments(m)
	if err != nil {
		return nil, err
	}
	tree := hierarchy.NewTree()
	var parent *hierarchy.Node
	for i := len(frags) - 1; i >= 0; i-- {
		k, err := gen.key(frags[i])
		if err != nil {
			return nil, err
		}
		n := hierarchy.NewTreeNode(frags[i], k)
		n.AddOrigin(molKey)
		if i == 0 {
			n.AddDirectOrigin(molKey)
		}
		if _, err := tree.AddNode(n, parent); err != nil {
			return nil, err
		}
		parent = n
	}

	return tree, nil
}

// ScaffoldNetwork builds the network of EnumerativeRemoval(m). Each removal adds
// an edge from the smaller fragment (parent) to the fragment it came from
// (child). The scaffold of m carries its key as direct origin; every node carries
// it as origin.
func (gen *Generator) ScaffoldNetwork(m *molecule.Graph) (*hierarchy.Network, error) {
	molKey, err := gen.Key(m)
	if err != nil {
		return nil, err
	}
	start, err := gen.Scaffold(m)
	if err != nil {
		return nil, err
	}
	startKey, err := gen.key(start)
	if err != nil {
		return nil, err
	}
	net := hierarchy.NewNetwork()
	root := hierarchy.NewNetworkNode(start, startKey)
	root.AddDirectOrigin(molKey)
	if _, err := net.AddNode(root); err != nil {
		return nil, err
	}
	err = gen.explore(start, startKey, func(s step) error {
		if s.fresh {
			n := hierarchy.NewNetworkNode(s.to, s.toKey)
			n.AddOrigin(molKey)
			if _, err := net.AddNode(n); err != nil {
				return err
			}
		}
		child, _ := net.NodeByKey(s.fromKey)
		parent, _ := net.NodeByKey(s.toKey)
		return net.AddParentEdge(child.ID(), parent.ID())
	})
	if err != nil {
		return nil, err
	}

	return net, nil
}
