package molecule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/molecule"
)

// chain builds a linear carbon chain of n atoms joined by single bonds.
func chain(t *testing.T, n int) (*molecule.Graph, []int) {
	t.Helper()
	g := molecule.New()
	ids := make([]int, n)
	for i := range ids {
		ids[i] = g.AddAtom(molecule.Carbon)
		if i > 0 {
			_, err := g.AddBond(ids[i-1], ids[i], molecule.Single)
			require.NoError(t, err)
		}
	}

	return g, ids
}

// TestAddBond_Errors verifies that invalid bonds are rejected.
func TestAddBond_Errors(t *testing.T) {
	g, ids := chain(t, 2)

	_, err := g.AddBond(ids[0], ids[0], molecule.Single)
	assert.ErrorIs(t, err, molecule.ErrSelfBond)

	_, err = g.AddBond(ids[0], 99, molecule.Single)
	assert.ErrorIs(t, err, molecule.ErrAtomNotFound)

	_, err = g.AddBond(ids[1], ids[0], molecule.Double)
	assert.ErrorIs(t, err, molecule.ErrBondExists)

	assert.ErrorIs(t, g.RemoveBond(42), molecule.ErrBondNotFound)
	assert.ErrorIs(t, g.RemoveAtom(42), molecule.ErrAtomNotFound)
}

// TestRemoveAtom_DropsIncidentBonds ensures adjacency stays consistent.
func TestRemoveAtom_DropsIncidentBonds(t *testing.T) {
	g, ids := chain(t, 3)
	require.NoError(t, g.RemoveAtom(ids[1]))

	assert.Equal(t, 2, g.AtomCount())
	assert.Equal(t, 0, g.BondCount())
	assert.Empty(t, g.Neighbors(ids[0]))
	assert.False(t, g.IsConnected())
}

// TestClone_PreservesIDsAndCounters checks that IDs survive cloning and are never reused.
func TestClone_PreservesIDsAndCounters(t *testing.T) {
	g, ids := chain(t, 3)
	require.NoError(t, g.RemoveAtom(ids[2]))

	c := g.Clone()
	assert.Equal(t, g.AtomIDs(), c.AtomIDs())
	assert.NotSame(t, g.Atom(ids[0]), c.Atom(ids[0]))

	fresh := c.AddAtom(molecule.Oxygen)
	assert.Greater(t, fresh, ids[2], "removed IDs must not be reused")

	c.Atom(ids[0]).Charge = 1
	assert.Zero(t, g.Atom(ids[0]).Charge, "clone must be deep")
}

// TestComponents_Deterministic covers BFS component extraction and connectivity queries.
func TestComponents_Deterministic(t *testing.T) {
	g, ids := chain(t, 5)
	comps := g.Components()
	require.Len(t, comps, 1)
	assert.Equal(t, ids, comps[0])

	assert.True(t, g.ConnectedWithout(map[int]bool{ids[0]: true}))
	assert.False(t, g.ConnectedWithout(map[int]bool{ids[2]: true}))

	parts := g.Without(map[int]bool{ids[2]: true}).ComponentGraphs()
	require.Len(t, parts, 2)
	assert.Equal(t, 2, parts[0].AtomCount())
}

// TestAddImplicitHydrogens covers neutral, charged and multiply bonded atoms.
func TestAddImplicitHydrogens(t *testing.T) {
	g := molecule.New()
	c := g.AddAtom(molecule.Carbon)
	o := g.AddAtom(molecule.Oxygen)
	n := g.AddAtom(molecule.Nitrogen, molecule.WithCharge(1))
	_, err := g.AddBond(c, o, molecule.Double)
	require.NoError(t, err)
	_, err = g.AddBond(c, n, molecule.Single)
	require.NoError(t, err)

	molecule.Perceive(g)
	assert.Equal(t, 1, g.Atom(c).ImplicitH)
	assert.Equal(t, 0, g.Atom(o).ImplicitH)
	assert.Equal(t, 3, g.Atom(n).ImplicitH, "N+ takes carbon valence")
	assert.Equal(t, molecule.SP2, g.Atom(c).Hybridization)
	assert.Equal(t, molecule.SP3, g.Atom(n).Hybridization)
	assert.True(t, molecule.ValenceValid(g))

	g.Atom(c).ImplicitH = 3
	assert.False(t, molecule.ValenceValid(g))
}

// TestElements covers the symbol table.
func TestElements(t *testing.T) {
	z, err := molecule.AtomicNumber("Cl")
	require.NoError(t, err)
	assert.Equal(t, molecule.Chlorine, z)
	assert.Equal(t, "Br", molecule.Symbol(molecule.Bromine))

	_, err = molecule.AtomicNumber("Xx")
	assert.ErrorIs(t, err, molecule.ErrUnknownElement)

	assert.Equal(t, []int{4}, molecule.Valences(molecule.Nitrogen, 1))
	assert.Equal(t, []int{1}, molecule.Valences(molecule.Oxygen, -1))
	assert.True(t, molecule.IsHetero(molecule.Sulfur))
	assert.False(t, molecule.IsHetero(molecule.Carbon))
}
