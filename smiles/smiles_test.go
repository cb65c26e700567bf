package smiles_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/smiles"
)

// canon parses s and writes it back canonically.
func canon(t *testing.T, s string) string {
	t.Helper()
	g, err := smiles.Parse(s)
	require.NoError(t, err, s)
	out, err := smiles.Write(g)
	require.NoError(t, err, s)

	return out
}

// TestParse_Benzene verifies kekulisation of an aromatic six-ring.
func TestParse_Benzene(t *testing.T) {
	g := smiles.MustParse("c1ccccc1")
	require.Equal(t, 6, g.AtomCount())
	require.Equal(t, 6, g.BondCount())

	doubles := 0
	for _, b := range g.Bonds() {
		assert.True(t, b.Aromatic)
		if b.Order == molecule.Double {
			doubles++
		}
	}
	assert.Equal(t, 3, doubles)
	for _, a := range g.Atoms() {
		assert.Equal(t, 1, a.ImplicitH)
		assert.Equal(t, molecule.SP2, a.Hybridization)
	}
	assert.True(t, molecule.ValenceValid(g))
}

// TestParse_BracketAtoms covers charges, isotopes and explicit hydrogen counts.
func TestParse_BracketAtoms(t *testing.T) {
	g := smiles.MustParse("[NH4+]")
	a := g.Atoms()[0]
	assert.Equal(t, molecule.Nitrogen, a.Number)
	assert.Equal(t, 1, a.Charge)
	assert.Equal(t, 4, a.ImplicitH)

	g = smiles.MustParse("[13CH3]O")
	assert.Equal(t, 13, g.Atoms()[0].Isotope)
	assert.Equal(t, 3, g.Atoms()[0].ImplicitH)

	g = smiles.MustParse("C[N+](C)(C)C")
	assert.Equal(t, 0, g.Atoms()[1].ImplicitH)

	g = smiles.MustParse("[O-]C=O")
	assert.Equal(t, -1, g.Atoms()[0].Charge)
}

// TestParse_ExplicitHydrogensFold verifies [H] atoms merge into their neighbour.
func TestParse_ExplicitHydrogensFold(t *testing.T) {
	g := smiles.MustParse("[H]C([H])([H])[H]")
	require.Equal(t, 1, g.AtomCount())
	assert.Equal(t, 4, g.Atoms()[0].ImplicitH)

	g = smiles.MustParse("[H][H]")
	assert.Equal(t, 2, g.AtomCount())
}

// TestParse_RingClosures covers digit and percent closures and closure bond orders.
func TestParse_RingClosures(t *testing.T) {
	for _, s := range []string{"C1CC1", "C%10CC%10", "C=1CC1", "C1CC=1"} {
		g, err := smiles.Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, 3, g.BondCount(), s)
	}
	g := smiles.MustParse("C1CC=1")
	assert.NotNil(t, g.BondBetween(1, 3))
	assert.Equal(t, molecule.Double, g.BondBetween(1, 3).Order)
}

// TestParse_Errors verifies malformed input is rejected with a sentinel.
func TestParse_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"C1CC", smiles.ErrUnclosedRing},
		{"C(C", smiles.ErrUnbalancedBranch},
		{"CC)", smiles.ErrUnbalancedBranch},
		{"c1cccc1", smiles.ErrKekulize},
		{"C?", smiles.ErrSyntax},
		{"C=", smiles.ErrSyntax},
		{"[C", smiles.ErrSyntax},
		{"=C", smiles.ErrSyntax},
	}
	for _, tc := range cases {
		_, err := smiles.Parse(tc.in)
		assert.ErrorIs(t, err, tc.want, tc.in)
	}
}

// TestParse_Stereo keeps chirality and directional bonds on the graph.
func TestParse_Stereo(t *testing.T) {
	g := smiles.MustParse("F/C=C/F")
	assert.Equal(t, molecule.StereoUp, g.BondBetween(1, 2).Stereo)

	g = smiles.MustParse("N[C@@H](C)C(=O)O")
	assert.Equal(t, molecule.Clockwise, g.Atom(2).Chirality)
}

// TestWrite_Simple pins a few canonical strings.
func TestWrite_Simple(t *testing.T) {
	assert.Equal(t, "CCO", canon(t, "OCC"))
	assert.Equal(t, "c1ccccc1", canon(t, "c1ccccc1"))
	assert.Equal(t, "C1CC1", canon(t, "C1CC1"))
	assert.Equal(t, "C=C", canon(t, "C=C"))

	empty, err := smiles.Write(molecule.New())
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	_, err = smiles.Write(nil)
	assert.ErrorIs(t, err, smiles.ErrGraphNil)
}

// TestWrite_InputOrderIndependent verifies equal molecules give equal strings.
func TestWrite_InputOrderIndependent(t *testing.T) {
	groups := [][]string{
		{"Cc1ccccc1", "c1ccc(C)cc1", "c1cc(C)ccc1"},
		{"c1ccc(-c2ccccc2)cc1", "c1ccccc1-c1ccccc1"},
		{"c1ccc2ccccc2c1", "c1cc2ccccc2cc1"},
		{"O=C1CCCCC1", "C1CCC(=O)CC1"},
		{"c1cc[nH]c1", "[nH]1cccc1"},
		{"C1CCC2(CC1)CCCC2", "C1CCCC21CCCCC2"},
		{"CCO.c1ccccc1", "c1ccccc1.OCC"},
	}
	for _, grp := range groups {
		want := canon(t, grp[0])
		for _, s := range grp[1:] {
			assert.Equal(t, want, canon(t, s), "%s vs %s", grp[0], s)
		}
	}
}

// TestWrite_RoundTrip verifies that canonical output re-parses to itself.
func TestWrite_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"c1ccc2c(c1)[nH]c1ccccc12",
		"O=C(Nc1ccccc1)c1ccncc1",
		"C1CC2CCC1C2",
		"c1ccc(cc1)[N+](=O)[O-]",
		"[13CH4]",
		"CC(C)(C)c1ccc(O)cc1",
		"c1ccc2c(c1)oc1ccccc12",
	} {
		once := canon(t, s)
		assert.Equal(t, once, canon(t, once), s)
	}
}

// hydrogens sums implicit hydrogens over every atom of g.
func hydrogens(g *molecule.Graph) int {
	n := 0
	for _, a := range g.Atoms() {
		n += a.ImplicitH
	}

	return n
}

// TestParse_AromaticHeteroatoms covers two-connected s and three-connected n,
// which take no implicit hydrogen in aromatic input.
func TestParse_AromaticHeteroatoms(t *testing.T) {
	cases := []struct {
		name  string
		smi   string
		atoms int
		h     int
	}{
		{"thiophene", "c1ccsc1", 5, 4},
		{"N-methylpyrrole", "Cn1cccc1", 6, 7},
		{"caffeine", "Cn1cnc2c1c(=O)n(C)c(=O)n2C", 14, 10},
		{"N-methylcarbazole", "Cn1c2ccccc2c2ccccc21", 14, 11},
		{"1-phenylimidazole", "c1ccc(cc1)n1ccnc1", 11, 8},
		{"1-methyl-1,2,4-triazole", "Cn1cncn1", 6, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := smiles.Parse(tc.smi)
			require.NoError(t, err)
			assert.Equal(t, tc.atoms, g.AtomCount())
			assert.Equal(t, tc.h, hydrogens(g))
			assert.True(t, molecule.ValenceValid(g))

			once := canon(t, tc.smi)
			assert.NotContains(t, once, "[")
			assert.Equal(t, once, canon(t, once))
		})
	}

	assert.Equal(t, canon(t, "c1ccsc1"), canon(t, "s1cccc1"))
}

// TestWrite_Brackets verifies bracket atoms appear only where needed.
func TestWrite_Brackets(t *testing.T) {
	assert.Contains(t, canon(t, "c1cc[nH]c1"), "[nH]")
	assert.Equal(t, "[NH4+]", canon(t, "[NH4+]"))
	assert.Equal(t, "C", canon(t, "[CH4]"))
	assert.Contains(t, canon(t, "c1ccccc1-c1ccccc1"), "-c")
}

func ExampleWrite() {
	g, _ := smiles.Parse("OCC")
	s, _ := smiles.Write(g)
	fmt.Println(s)
	// Output: CCO
}
