package scaffold_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
	"github.com/katalvlaran/molscaf/scaffold"
	"github.com/katalvlaran/molscaf/smiles"
)

// newGen returns a Generator with default options plus opts.
func newGen(t *testing.T, opts ...scaffold.Option) *scaffold.Generator {
	t.Helper()
	gen, err := scaffold.New(opts...)
	require.NoError(t, err)

	return gen
}

// keyOf returns the normalised canonical key of a SMILES string.
func keyOf(t *testing.T, gen *scaffold.Generator, s string) string {
	t.Helper()
	k, err := gen.Key(smiles.MustParse(s))
	require.NoError(t, err, s)

	return k
}

// keysOf serializes each fragment.
func keysOf(t *testing.T, gen *scaffold.Generator, frags []*molecule.Graph) []string {
	t.Helper()
	out := make([]string, len(frags))
	for i, f := range frags {
		k, err := gen.Key(f)
		require.NoError(t, err)
		out[i] = k
	}

	return out
}

// ringCount returns the number of rings the generator perceives in g.
func ringCount(t *testing.T, gen *scaffold.Generator, g *molecule.Graph) int {
	t.Helper()
	rs, err := gen.Rings(g, false)
	require.NoError(t, err)

	return len(rs)
}

// ringOfSize returns the first ring of m with n atoms.
func ringOfSize(t *testing.T, rs []rings.Ring, n int) rings.Ring {
	t.Helper()
	for _, r := range rs {
		if r.Size() == n {
			return r
		}
	}
	require.Failf(t, "ring not found", "no ring of size %d", n)

	return rings.Ring{}
}
