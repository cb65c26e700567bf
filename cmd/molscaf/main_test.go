package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molscaf/store"
)

// run executes the CLI with args and returns standard output lines.
func run(t *testing.T, stdin string, args ...string) ([]string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()

	return strings.Split(strings.TrimSpace(out.String()), "\n"), err
}

// TestFragmentsCommand prints one key per fragment.
func TestFragmentsCommand(t *testing.T) {
	lines, err := run(t, "", "fragments", "CCc1ccc(cc1)-c1ccccc1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "c1ccccc1", lines[1])
}

// TestScaffoldCommand reads standard input and honours --mode.
func TestScaffoldCommand(t *testing.T) {
	lines, err := run(t, "CCC1CCCCC1=O first\n\n# comment\nc1ccncc1C second\n", "--mode", "basic-wire-frame", "scaffold", "--input", "-")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1CCCCC1", "C1CCCCC1"}, lines)

	_, err = run(t, "", "--mode", "bemis", "scaffold", "C1CC1")
	assert.Error(t, err)
	_, err = run(t, "", "scaffold")
	assert.ErrorIs(t, err, errNoInput)
}

// TestTreeCommand_SavesForest writes the forest into the database.
func TestTreeCommand_SavesForest(t *testing.T) {
	db := filepath.Join(t.TempDir(), "out.db")
	input := filepath.Join(t.TempDir(), "in.smi")
	require.NoError(t, os.WriteFile(input, []byte("Cc1ccccc1\nOc1ccccc1\nC1CCCCC1\n"), 0o600))

	lines, err := run(t, "", "tree", "--input", input, "--db", db, "--name", "run")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1ccccc1\t2", "C1CCCCC1\t1"}, lines)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	names, err := st.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"run/0", "run/1"}, names)
}

// TestNetworkCommand prints nodes by level.
func TestNetworkCommand(t *testing.T) {
	lines, err := run(t, "", "network", "c1ccccc1-c1ccncc1")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "0\t"))
	assert.True(t, strings.HasPrefix(lines[2], "1\t"))
}
