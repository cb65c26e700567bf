package aromaticity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/aromaticity"
	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/smiles"
)

func aromaticCount(t *testing.T, m *aromaticity.Model, s string) int {
	t.Helper()
	g := smiles.MustParse(s)
	require.NoError(t, m.Apply(g))
	n := 0
	for _, a := range g.Atoms() {
		if a.Aromatic {
			n++
		}
	}

	return n
}

// TestApply_Daylight checks the default model on common ring systems.
func TestApply_Daylight(t *testing.T) {
	m := aromaticity.Default()
	cases := []struct {
		name string
		smi  string
		want int
	}{
		{"benzene", "C1=CC=CC=C1", 6},
		{"pyrrole", "C1=CNC=C1", 5},
		{"furan", "C1=COC=C1", 5},
		{"pyridine", "C1=CC=NC=C1", 6},
		{"naphthalene", "C1=CC2=CC=CC=C2C=C1", 10},
		{"pyridone", "O=C1C=CC=CN1", 6},
		{"cyclohexane", "C1CCCCC1", 0},
		{"cyclooctatetraene", "C1=CC=CC=CC=C1", 0},
		{"cyclohexadiene", "C1=CCC=CC1", 0},
		{"biphenyl", "c1ccc(-c2ccccc2)cc1", 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, aromaticCount(t, m, tc.smi))
		})
	}
}

// TestApply_Models compares donation rules on borderline rings.
func TestApply_Models(t *testing.T) {
	cdk := aromaticity.New(aromaticity.CDK, nil)
	pi := aromaticity.New(aromaticity.PiBonds, nil)

	assert.Equal(t, 0, aromaticCount(t, cdk, "O=C1C=CC=CN1"))
	assert.Equal(t, 5, aromaticCount(t, cdk, "C1=CNC=C1"))
	assert.Equal(t, 0, aromaticCount(t, pi, "C1=CNC=C1"))
	assert.Equal(t, 6, aromaticCount(t, pi, "C1=CC=CC=C1"))
}

// TestApply_ClearsStaleFlags drops aromaticity that no longer holds.
func TestApply_ClearsStaleFlags(t *testing.T) {
	g := smiles.MustParse("c1ccccc1")
	for _, b := range g.Bonds() {
		if b.A == 1 || b.B == 1 {
			continue
		}
		b.Order = molecule.Single
	}
	require.NoError(t, aromaticity.Default().Apply(g))
	for _, b := range g.Bonds() {
		assert.False(t, b.Aromatic)
	}

	assert.ErrorIs(t, aromaticity.Default().Apply(nil), aromaticity.ErrGraphNil)
}

// TestParseDonation resolves names and rejects unknown ones.
func TestParseDonation(t *testing.T) {
	d, err := aromaticity.ParseDonation("cdk")
	require.NoError(t, err)
	assert.Equal(t, aromaticity.CDK, d)
	assert.Equal(t, aromaticity.CDK, aromaticity.New(d, nil).Donation())

	_, err = aromaticity.ParseDonation("huckel")
	assert.Error(t, err)
}
