package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/molscaf/hierarchy"
	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/smiles"
)

var errNoInput = errors.New("molscaf: no molecules given")

// molecules parses the arguments or the --input file. Unparsable lines are
// logged and skipped.
func (a *app) molecules(cmd *cobra.Command, args []string) ([]*molecule.Graph, error) {
	lines := args
	if a.input != "" {
		var r io.Reader = cmd.InOrStdin()
		if a.input != "-" {
			f, err := os.Open(a.input)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}

	var out []*molecule.Graph
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		g, err := smiles.Parse(fields[0])
		if err != nil {
			a.log.Error(err, "skipping unparsable input", "line", i+1, "smiles", fields[0])
			continue
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		return nil, errNoInput
	}

	return out, nil
}

// printKeys writes one canonical key per fragment.
func (a *app) printKeys(w io.Writer, frags []*molecule.Graph) error {
	for _, f := range frags {
		k, err := a.gen.Key(f)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, k)
	}

	return nil
}

func newScaffoldCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold [smiles...]",
		Short: "Print the scaffold of each molecule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.molecules(cmd, args)
			if err != nil {
				return err
			}
			for _, m := range ms {
				s, err := a.gen.Scaffold(m)
				if err != nil {
					return err
				}
				if err := a.printKeys(cmd.OutOrStdout(), []*molecule.Graph{s}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newFragmentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fragments [smiles...]",
		Short: "Print the Schuffenhauer fragment sequence of each molecule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.molecules(cmd, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, m := range ms {
				frags, err := a.gen.SchuffenhauerFragments(m)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := a.printKeys(w, frags); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newEnumerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enumerate [smiles...]",
		Short: "Print every fragment reachable by removing terminal rings in any order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.molecules(cmd, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, m := range ms {
				frags, err := a.gen.EnumerativeRemoval(m)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := a.printKeys(w, frags); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newTreeCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "tree [smiles...]",
		Short: "Build the Schuffenhauer forest of all molecules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.molecules(cmd, args)
			if err != nil {
				return err
			}
			forest, err := a.gen.SchuffenhauerForest(ms)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, t := range forest {
				root, err := t.Root()
				if err != nil {
					return err
				}
				printTree(w, t, root, 0)
			}
			st, err := a.openStore()
			if err != nil || st == nil {
				return err
			}
			defer st.Close()
			names, err := st.SaveForest(cmd.Context(), name, forest)
			if err != nil {
				return err
			}
			a.log.Info("saved forest", "trees", len(names), "db", a.cfg.Database, "name", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "forest", "collection name prefix in --db")

	return cmd
}

func newNetworkCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "network [smiles...]",
		Short: "Build the scaffold network of all molecules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.molecules(cmd, args)
			if err != nil {
				return err
			}
			nw, err := a.gen.ScaffoldNetworks(ms)
			if err != nil {
				return err
			}
			printNetwork(cmd.OutOrStdout(), nw)
			st, err := a.openStore()
			if err != nil || st == nil {
				return err
			}
			defer st.Close()
			if err := st.SaveNetwork(cmd.Context(), name, nw); err != nil {
				return err
			}
			a.log.Info("saved network", "nodes", nw.Len(), "db", a.cfg.Database, "name", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "network", "collection name in --db")

	return cmd
}

// printTree writes root and its descendants, indented by depth, children sorted by key.
func printTree(w io.Writer, t *hierarchy.Tree, n *hierarchy.Node, depth int) {
	fmt.Fprintf(w, "%s%s\t%d\n", strings.Repeat("  ", depth), n.Key(), len(n.Origins()))
	var children []*hierarchy.Node
	for _, cid := range n.Children() {
		if c, err := t.Node(cid); err == nil {
			children = append(children, c)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Key() < children[j].Key() })
	for _, c := range children {
		printTree(w, t, c, depth+1)
	}
}

// printNetwork lists nodes by level: level, key, origin count and parent keys.
func printNetwork(w io.Writer, nw *hierarchy.Network) {
	for l := 0; l <= nw.MaxLevel(); l++ {
		nodes := nw.NodesOnLevel(l)
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Key() < nodes[j].Key() })
		for _, n := range nodes {
			var parents []string
			for _, pid := range n.Parents() {
				if p, err := nw.Node(pid); err == nil {
					parents = append(parents, p.Key())
				}
			}
			sort.Strings(parents)
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", l, n.Key(), len(n.Origins()), strings.Join(parents, ","))
		}
	}
}
