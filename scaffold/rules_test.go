package scaffold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/scaffold"
	"github.com/katalvlaran/molscaf/smiles"
)

// TestSchuffenhauerFragments_Scenarios checks the final fragment chosen for
// inputs where a specific rule decides.
func TestSchuffenhauerFragments_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"biphenyl", "c1ccccc1-c1ccccc1", []string{"c1ccccc1-c1ccccc1", "c1ccccc1"}},
		{"naphthalene", "c1ccc2ccccc2c1", []string{"c1ccc2ccccc2c1", "c1ccccc1"}},
		{"spiro keeps larger ring", "C1CCC2(CC1)CCCC2", []string{"C1CCC2(CC1)CCCC2", "C1CCCCC1"}},
		{"rule 1 removes epoxide first", "c1ccc(cc1)C1CO1", []string{"c1ccc(cc1)C1CO1", "c1ccccc1"}},
		{"rule 2 keeps macrocycles", "c1ccccc1C1CCCCCCCCCCC1",
			[]string{"c1ccccc1C1CCCCCCCCCCC1", "C1CCCCCCCCCCC1"}},
		{"rule 3 prefers shorter linkers", "c1ccc(cc1)Cc1ccc2ccccc2c1",
			[]string{"c1ccc(cc1)Cc1ccc2ccccc2c1", "c1ccc2ccccc2c1", "c1ccccc1"}},
		{"rule 4 keeps spiro over fused", "C13(CCCC3)CCC2CCCCC2C1",
			[]string{"C13(CCCC3)CCC2CCCCC2C1", "C1CCC2(CC1)CCCC2", "C1CCCCC1"}},
		{"rule 5 keeps bridged over spiro", "C13(CCCC3)CC2CCC1C2",
			[]string{"C13(CCCC3)CC2CCC1C2", "C1CC2CCC1C2", "C1CCCC1"}},
		{"rule 6 removes six-ring before seven-ring", "c1ccccc1C1CCCCCC1",
			[]string{"c1ccccc1C1CCCCCC1", "C1CCCCCC1"}},
		{"rule 8 keeps heteroatoms", "c1ccc(cc1)-c1ccncc1", []string{"c1ccc(cc1)-c1ccncc1", "c1ccncc1"}},
		{"rule 9 keeps oxygen over sulfur", "c1ccoc1-c1ccsc1", []string{"c1ccoc1-c1ccsc1", "c1ccoc1"}},
		{"rule 10 removes smaller ring", "C1CCC(CC1)C1CCCC1", []string{"C1CCC(CC1)C1CCCC1", "C1CCCCC1"}},
		{"rule 11 removes aromatic ring", "c1ccc(cc1)C1CCCCC1", []string{"c1ccc(cc1)C1CCCCC1", "C1CCCCC1"}},
		{"rule 12 removes N-linked ring", "C1CCN(C1)CC1CCC(CC1)CC1CCNC1",
			[]string{"C1CCN(C1)CC1CCC(CC1)CC1CCNC1", "C1CCC(CC1)CC1CCNC1", "C1CCNC1"}},
	}
	gen := newGen(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frags, err := gen.SchuffenhauerFragments(smiles.MustParse(tc.in))
			require.NoError(t, err)
			want := make([]string, len(tc.want))
			for i, s := range tc.want {
				want[i] = keyOf(t, gen, s)
			}
			assert.Equal(t, want, keysOf(t, gen, frags))
		})
	}
}

// TestSchuffenhauerFragments_Invariants checks shrink, valence and connectivity.
func TestSchuffenhauerFragments_Invariants(t *testing.T) {
	gen := newGen(t)
	for _, s := range []string{
		"c1ccc(cc1)Cc1ccc2ccccc2c1",
		"O=C(c1ccccc1)N1CCN(CC1)c1ncccn1",
		"c1ccc2c(c1)[nH]c1ccccc12",
		"CN1C(=O)CN=C(c2ccccc2)c2cc(Cl)ccc12",
		"C1C2CC3CC1CC(C2)C3",
		"c1ccccc1C1CC2CCC1CC2",
		"Cn1cnc2c1c(=O)n(C)c(=O)n2C",
	} {
		frags, err := gen.SchuffenhauerFragments(smiles.MustParse(s))
		require.NoError(t, err, s)
		require.NotEmpty(t, frags)

		prev := ringCount(t, gen, frags[0])
		for _, f := range frags[1:] {
			n := ringCount(t, gen, f)
			assert.Equal(t, prev-1, n, s)
			prev = n
			assert.True(t, f.IsConnected(), s)
			assert.True(t, molecule.ValenceValid(f), s)
		}
		assert.Equal(t, 1, prev, s)
	}
}

// TestSchuffenhauerFragments_BridgedSystems removes one ring per step from
// bridged systems down to a single ring.
func TestSchuffenhauerFragments_BridgedSystems(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"bicyclo[2.2.2]octane", "C1CC2CCC1CC2", []string{"C1CC2CCC1CC2", "C1CCCCC1"}},
		{"adamantane", "C1C2CC3CC1CC(C2)C3", []string{"C1C2CC3CC1CC(C2)C3", "C1CC2CCCC(C1)C2", "C1CCCCC1"}},
		{"phenyl bicyclooctane", "c1ccccc1C1CC2CCC1CC2", []string{"c1ccccc1C1CC2CCC1CC2", "C1CC2CCC1CC2", "C1CCCCC1"}},
	}
	gen := newGen(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frags, err := gen.SchuffenhauerFragments(smiles.MustParse(tc.in))
			require.NoError(t, err)
			want := make([]string, len(tc.want))
			for i, s := range tc.want {
				want[i] = keyOf(t, gen, s)
			}
			assert.Equal(t, want, keysOf(t, gen, frags))
			for i, f := range frags {
				assert.Equal(t, len(frags)-i, ringCount(t, gen, f))
			}
		})
	}
}

// TestSchuffenhauerFragments_RuleSevenToggle uses azulene fused to a
// cyclohexene. With rule 7 the cyclohexene goes first and azulene survives;
// without it rule 10 removes the five-ring and azulene is lost.
func TestSchuffenhauerFragments_RuleSevenToggle(t *testing.T) {
	in := smiles.MustParse("c12ccc3cccc3cc1CCCC2")

	on := newGen(t)
	frags, err := on.SchuffenhauerFragments(in)
	require.NoError(t, err)
	require.Len(t, frags, 3)
	azulene := keyOf(t, on, "c1ccc2cccc2cc1")
	assert.Equal(t, azulene, keysOf(t, on, frags)[1])

	off := newGen(t, scaffold.WithRuleSeven(false))
	frags, err = off.SchuffenhauerFragments(in)
	require.NoError(t, err)
	require.Len(t, frags, 3)
	second := keysOf(t, off, frags)[1]
	assert.NotEqual(t, azulene, second)
	assert.Equal(t, 2, ringCount(t, off, frags[1]))
	assert.NotContains(t, second, "c")

	for _, gen := range []*scaffold.Generator{
		newGen(t, scaffold.WithDetermineAromaticity(false)),
		newGen(t, scaffold.WithRetainOnlyAromaticHybridisations(true)),
	} {
		frags, err := gen.SchuffenhauerFragments(smiles.MustParse("c1ccc2c(c1)[nH]c1ccccc12"))
		require.NoError(t, err)
		assert.Len(t, frags, 3)
	}
}

// TestSchuffenhauerFragments_CanonicalTieBreak ties 1- and 2-benzylnaphthalene
// through rule 12; the fragment with the greater key is kept.
func TestSchuffenhauerFragments_CanonicalTieBreak(t *testing.T) {
	gen := newGen(t)
	frags, err := gen.SchuffenhauerFragments(smiles.MustParse("c1ccc2c(Cc3ccccc3)c(Cc3ccccc3)ccc2c1"))
	require.NoError(t, err)
	require.Greater(t, len(frags), 1)

	one := keyOf(t, gen, "c1ccc(cc1)Cc1cccc2ccccc12")
	two := keyOf(t, gen, "c1ccc(cc1)Cc1ccc2ccccc2c1")
	want := one
	if two > one {
		want = two
	}
	assert.Equal(t, want, keysOf(t, gen, frags)[1])
}

// TestEnumerativeRemoval lists every distinct fragment once.
func TestEnumerativeRemoval(t *testing.T) {
	gen := newGen(t)
	frags, err := gen.EnumerativeRemoval(smiles.MustParse("c1ccc(cc1)Cc1ccc2ccccc2c1"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		keyOf(t, gen, "c1ccc(cc1)Cc1ccc2ccccc2c1"),
		keyOf(t, gen, "c1ccc2ccccc2c1"),
		keyOf(t, gen, "c1ccc(cc1)Cc1ccccc1"),
		keyOf(t, gen, "c1ccccc1"),
	}, keysOf(t, gen, frags))

	frags, err = gen.EnumerativeRemoval(smiles.MustParse("c1ccccc1"))
	require.NoError(t, err)
	assert.Len(t, frags, 1)
}
