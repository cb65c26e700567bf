package scaffold_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/scaffold"
	"github.com/katalvlaran/molscaf/smiles"
)

// TestSchuffenhauerTree builds a valid single-branch tree.
func TestSchuffenhauerTree(t *testing.T) {
	gen := newGen(t)
	in := "c1ccc(cc1)Cc1ccc2ccccc2c1"
	tree, err := gen.SchuffenhauerTree(smiles.MustParse(in))
	require.NoError(t, err)
	require.Equal(t, 3, tree.Len())
	assert.True(t, tree.IsValid())

	root, err := tree.Root()
	require.NoError(t, err)
	assert.Equal(t, keyOf(t, gen, "c1ccccc1"), root.Key())
	assert.Equal(t, 2, tree.MaxLevel())

	molKey := keyOf(t, gen, in)
	leaf := tree.NodesOnLevel(2)
	require.Len(t, leaf, 1)
	assert.Equal(t, []string{molKey}, leaf[0].DirectOrigins())
	for _, n := range tree.Nodes() {
		assert.Equal(t, []string{molKey}, n.Origins())
	}
	assert.Empty(t, root.DirectOrigins())

	m, err := tree.Matrix()
	require.NoError(t, err)
	assert.Len(t, m.Order, 3)
}

// TestScaffoldNetwork builds the multi-parent network of a three-ring molecule.
func TestScaffoldNetwork(t *testing.T) {
	gen := newGen(t)
	in := "c1ccc(cc1)Cc1ccc2ccccc2c1"
	net, err := gen.ScaffoldNetwork(smiles.MustParse(in))
	require.NoError(t, err)
	require.Equal(t, 4, net.Len())

	roots := net.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, keyOf(t, gen, "c1ccccc1"), roots[0].Key())

	start, ok := net.NodeByKey(keyOf(t, gen, in))
	require.True(t, ok)
	assert.Len(t, start.Parents(), 2)
	assert.Equal(t, []string{keyOf(t, gen, in)}, start.DirectOrigins())
	assert.Equal(t, 2, start.Level())

	benzene := roots[0]
	assert.Len(t, benzene.Children(), 2)
}

// TestSchuffenhauerForest merges trees that share a root.
func TestSchuffenhauerForest(t *testing.T) {
	gen := newGen(t)
	a, b := "Cc1ccccc1", "Oc1ccccc1"
	forest, err := gen.SchuffenhauerForest([]*molecule.Graph{
		smiles.MustParse(a),
		smiles.MustParse(b),
		smiles.MustParse("C1CCCCC1"),
	})
	require.NoError(t, err)
	require.Len(t, forest, 2)

	root, err := forest[0].Root()
	require.NoError(t, err)
	assert.Equal(t, keyOf(t, gen, "c1ccccc1"), root.Key())
	assert.ElementsMatch(t, []string{keyOf(t, gen, a), keyOf(t, gen, b)}, root.Origins())
	assert.Equal(t, 1, forest[0].Len())

	_, err = gen.SchuffenhauerForest([]*molecule.Graph{smiles.MustParse(a), nil})
	assert.ErrorIs(t, err, scaffold.ErrNilMolecule)
}

// TestSchuffenhauerForest_DeepMerge grafts a new branch below a shared root.
func TestSchuffenhauerForest_DeepMerge(t *testing.T) {
	gen := newGen(t)
	forest, err := gen.SchuffenhauerForest([]*molecule.Graph{
		smiles.MustParse("c1ccccc1-c1ccccc1"),
		smiles.MustParse("c1ccc2ccccc2c1"),
	})
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 3, forest[0].Len())
	assert.True(t, forest[0].IsValid())
	assert.Len(t, forest[0].NodesOnLevel(1), 2)
}

// TestScaffoldNetworks merges per-molecule networks into one.
func TestScaffoldNetworks(t *testing.T) {
	gen := newGen(t)
	net, err := gen.ScaffoldNetworks([]*molecule.Graph{
		smiles.MustParse("c1ccccc1-c1ccccc1"),
		smiles.MustParse("c1ccc(cc1)-c1ccncc1"),
	})
	require.NoError(t, err)
	// biphenyl, benzene, phenylpyridine, pyridine
	assert.Equal(t, 4, net.Len())
	benzene, ok := net.NodeByKey(keyOf(t, gen, "c1ccccc1"))
	require.True(t, ok)
	assert.Len(t, benzene.Origins(), 2)
	assert.Len(t, net.Roots(), 2)
}

// clFailing rejects any graph containing chlorine.
type clFailing struct{ smiles.Canonical }

var errChlorine = errors.New("chlorine not supported")

func (c clFailing) Serialize(g *molecule.Graph) (string, error) {
	for _, a := range g.Atoms() {
		if a.Number == molecule.Chlorine {
			return "", errChlorine
		}
	}

	return c.Canonical.Serialize(g)
}

// countingRecorder tallies Recorder calls.
type countingRecorder struct {
	processed, skipped, fragments int
}

func (r *countingRecorder) MoleculeProcessed(string) { r.processed++ }
func (r *countingRecorder) MoleculeSkipped(string) { r.skipped++ }
func (r *countingRecorder) FragmentsProduced(_ string, n int) { r.fragments += n }
func (r *countingRecorder) ObserveDuration(string, time.Duration) {}

// TestBatch_SkipsFailures logs, counts and skips failing molecules.
func TestBatch_SkipsFailures(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) { lines = append(lines, args) }, funcr.Options{})
	rec := &countingRecorder{}
	gen := newGen(t,
		scaffold.WithSerializer(clFailing{}),
		scaffold.WithLogger(logger),
		scaffold.WithRecorder(rec),
	)
	ms := []*molecule.Graph{
		smiles.MustParse("Cc1ccccc1"),
		smiles.MustParse("Clc1ccccc1"),
		smiles.MustParse("Oc1ccccc1"),
	}

	forest, err := gen.SchuffenhauerForest(ms)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 2, rec.processed)
	assert.Equal(t, 1, rec.skipped)
	assert.Equal(t, 2, rec.fragments)
	require.Len(t, lines, 1)
	assert.True(t, strings.Contains(lines[0], "skipping molecule"))
	assert.True(t, strings.Contains(lines[0], "#1"))

	net, err := gen.ScaffoldNetworks(ms)
	require.NoError(t, err)
	assert.Equal(t, 1, net.Len())
	assert.Equal(t, 2, rec.skipped)
}
