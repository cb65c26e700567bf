package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/hierarchy"
	"github.com/katalvlaran/molscaf/scaffold"
	"github.com/katalvlaran/molscaf/smiles"
	"github.com/katalvlaran/molscaf/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "molscaf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

// TestTree_RoundTrip saves and reloads a Schuffenhauer tree.
func TestTree_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	gen, err := scaffold.New()
	require.NoError(t, err)
	tree, err := gen.SchuffenhauerTree(smiles.MustParse("c1ccc(cc1)Cc1ccc2ccccc2c1"))
	require.NoError(t, err)

	require.NoError(t, s.SaveTree(ctx, "benzylnaphthalene", tree))
	got, err := s.LoadTree(ctx, "benzylnaphthalene")
	require.NoError(t, err)

	assert.True(t, got.IsValid())
	assert.Equal(t, tree.Keys(), got.Keys())
	for _, n := range tree.Nodes() {
		m, ok := got.NodeByKey(n.Key())
		require.True(t, ok)
		assert.Equal(t, n.Origins(), m.Origins())
		assert.Equal(t, n.DirectOrigins(), m.DirectOrigins())
		assert.Equal(t, n.Level(), m.Level())
		assert.Equal(t, n.Fragment().AtomCount(), m.Fragment().AtomCount())
	}

	_, err = s.LoadNetwork(ctx, "benzylnaphthalene")
	assert.ErrorIs(t, err, store.ErrKindMismatch)
	_, err = s.LoadTree(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestNetwork_RoundTrip keeps multi-parent edges and replaces by name.
func TestNetwork_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	gen, err := scaffold.New()
	require.NoError(t, err)
	nw, err := gen.ScaffoldNetwork(smiles.MustParse("c1ccc(cc1)Cc1ccc2ccccc2c1"))
	require.NoError(t, err)

	require.NoError(t, s.SaveNetwork(ctx, "net", nw))
	require.NoError(t, s.SaveNetwork(ctx, "net", nw))
	got, err := s.LoadNetwork(ctx, "net")
	require.NoError(t, err)

	assert.Equal(t, nw.Len(), got.Len())
	for _, n := range nw.Nodes() {
		m, ok := got.NodeByKey(n.Key())
		require.True(t, ok)
		assert.Len(t, m.Parents(), len(n.Parents()))
		assert.Len(t, m.Children(), len(n.Children()))
	}
	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"net"}, names)
}

// TestForest_SaveAndQuery stores trees under indexed names and queries origins.
func TestForest_SaveAndQuery(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	a := hierarchy.NewTree()
	root := hierarchy.NewTreeNode(nil, "c1ccccc1")
	root.AddDirectOrigin("Cc1ccccc1")
	_, err := a.AddNode(root, nil)
	require.NoError(t, err)
	b := hierarchy.NewTree()
	other := hierarchy.NewTreeNode(smiles.MustParse("C1CCCCC1"), "C1CCCCC1")
	other.AddOrigin("CC1CCCCC1")
	_, err = b.AddNode(other, nil)
	require.NoError(t, err)

	names, err := s.SaveForest(ctx, "run", []*hierarchy.Tree{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"run/0", "run/1"}, names)

	keys, err := s.ByOrigin(ctx, "Cc1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1ccccc1"}, keys)

	got, err := s.LoadTree(ctx, "run/0")
	require.NoError(t, err)
	r, err := got.Root()
	require.NoError(t, err)
	assert.Nil(t, r.Fragment())
	assert.Equal(t, []string{"Cc1ccccc1"}, r.DirectOrigins())

	require.NoError(t, s.Delete(ctx, "run/0"))
	keys, err = s.ByOrigin(ctx, "Cc1ccccc1")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
