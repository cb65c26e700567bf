// File: batch.go
// Role: Corpus-level builders that merge per-molecule trees and networks.
// Determinism:
//   - Molecules are processed in input order; a failing molecule is skipped and
//     never affects the result of the others.

package scaffold

import (
	"fmt"
	"time"

	"github.com/katalvlaran/molscaf/hierarchy"
	"github.com/katalvlaran/molscaf/molecule"
)

// Operation labels reported to the Recorder.
const (
	OpForest  = "forest"
	OpNetwork = "network"
)

// SchuffenhauerForest builds one Schuffenhauer tree per molecule and merges it
// into the first existing tree whose root matches; otherwise it starts a new
// tree. Molecules that fail are logged, counted and skipped. A nil molecule is
// a caller error and aborts the batch.
func (gen *Generator) SchuffenhauerForest(ms []*molecule.Graph) ([]*hierarchy.Tree, error) {
	var forest []*hierarchy.Tree
	failed := 0
	for i, m := range ms {
		if m == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilMolecule, i)
		}
		started := time.Now()
		tree, err := gen.SchuffenhauerTree(m)
		if err == nil {
			forest, err = mergeIntoForest(forest, tree)
		}
		if err != nil {
			failed++
			gen.skip(OpForest, failed, i, m, err)
			continue
		}
		gen.opts.Recorder.MoleculeProcessed(OpForest)
		gen.opts.Recorder.FragmentsProduced(OpForest, tree.Len())
		gen.opts.Recorder.ObserveDuration(OpForest, time.Since(started))
	}

	return forest, nil
}

// mergeIntoForest merges tree into the first accepting tree of forest or appends it.
func mergeIntoForest(forest []*hierarchy.Tree, tree *hierarchy.Tree) ([]*hierarchy.Tree, error) {
	for _, t := range forest {
		ok, err := t.Merge(tree)
		if err != nil {
			return forest, err
		}
		if ok {
			return forest, nil
		}
	}

	return append(forest, tree), nil
}

// ScaffoldNetworks builds the network of every molecule and merges them into one
// shared network. Failures are handled as in SchuffenhauerForest.
func (gen *Generator) ScaffoldNetworks(ms []*molecule.Graph) (*hierarchy.Network, error) {
	shared := hierarchy.NewNetwork()
	failed := 0
	for i, m := range ms {
		if m == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilMolecule, i)
		}
		started := time.Now()
		net, err := gen.ScaffoldNetwork(m)
		if err == nil {
			err = shared.Merge(net)
		}
		if err != nil {
			failed++
			gen.skip(OpNetwork, failed, i, m, err)
			continue
		}
		gen.opts.Recorder.MoleculeProcessed(OpNetwork)
		gen.opts.Recorder.FragmentsProduced(OpNetwork, net.Len())
		gen.opts.Recorder.ObserveDuration(OpNetwork, time.Since(started))
	}

	return shared, nil
}

// skip logs a failed molecule by canonical key, or by index when the key itself
// cannot be produced.
func (gen *Generator) skip(op string, failed, index int, m *molecule.Graph, err error) {
	name, kerr := gen.Key(m)
	if kerr != nil {
		name = fmt.Sprintf("#%d", index)
	}
	gen.opts.Logger.Error(err, "skipping molecule", "operation", op, "failed", failed, "molecule", name)
	gen.opts.Recorder.MoleculeSkipped(op)
}
