package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/katalvlaran/molscaf/hierarchy"
	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/smiles"
)

// storedNode is one row of nodes with its origins.
type storedNode struct {
	id       int
	key      string
	fragment sql.NullString
	origins  []string
	direct   []string
}

// LoadTree reads the tree stored under name.
func (s *Store) LoadTree(ctx context.Context, name string) (*hierarchy.Tree, error) {
	cid, nodes, edges, err := s.load(ctx, name, hierarchy.KindTree)
	if err != nil {
		return nil, err
	}
	parentOf := make(map[int]int, len(edges))
	for _, e := range edges {
		parentOf[e[1]] = e[0]
	}
	t := hierarchy.NewTree()
	byOld := make(map[int]*hierarchy.Node, len(nodes))
	for _, sn := range nodes {
		n, err := sn.node(hierarchy.NewTreeNode)
		if err != nil {
			return nil, fmt.Errorf("store: collection %d: %w", cid, err)
		}
		var parent *hierarchy.Node
		if pid, ok := parentOf[sn.id]; ok {
			if parent = byOld[pid]; parent == nil {
				return nil, fmt.Errorf("%w: parent %d of node %d precedes it", ErrCorrupt, pid, sn.id)
			}
		}
		if _, err := t.AddNode(n, parent); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		byOld[sn.id] = n
	}

	return t, nil
}

// LoadNetwork reads the network stored under name.
func (s *Store) LoadNetwork(ctx context.Context, name string) (*hierarchy.Network, error) {
	cid, nodes, edges, err := s.load(ctx, name, hierarchy.KindNetwork)
	if err != nil {
		return nil, err
	}
	nw := hierarchy.NewNetwork()
	byOld := make(map[int]hierarchy.NodeID, len(nodes))
	for _, sn := range nodes {
		n, err := sn.node(hierarchy.NewNetworkNode)
		if err != nil {
			return nil, fmt.Errorf("store: collection %d: %w", cid, err)
		}
		id, err := nw.AddNode(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		byOld[sn.id] = id
	}
	for _, e := range edges {
		parent, ok1 := byOld[e[0]]
		child, ok2 := byOld[e[1]]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: dangling edge %d->%d", ErrCorrupt, e[0], e[1])
		}
		if err := nw.AddParentEdge(child, parent); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	return nw, nil
}

// node builds a hierarchy node from the stored row.
func (sn storedNode) node(mk func(*molecule.Graph, string) *hierarchy.Node) (*hierarchy.Node, error) {
	var frag *molecule.Graph
	if sn.fragment.Valid {
		g, err := smiles.Parse(sn.fragment.String)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", sn.id, err)
		}
		frag = g
	}
	n := mk(frag, sn.key)
	for _, o := range sn.origins {
		n.AddOrigin(o)
	}
	for _, o := range sn.direct {
		n.AddDirectOrigin(o)
	}

	return n, nil
}

// load reads every row of collection name, checking its kind. Nodes are ordered
// by stored ID; edges are (parent, child) pairs.
func (s *Store) load(ctx context.Context, name string, kind hierarchy.Kind) (int64, []storedNode, [][2]int, error) {
	var (
		cid    int64
		stored string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, kind FROM collections WHERE name = ?`, name).Scan(&cid, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return 0, nil, nil, fmt.Errorf("store: load %q: %w", name, err)
	}
	if stored != kind.String() {
		return 0, nil, nil, fmt.Errorf("%w: %q is a %s", ErrKindMismatch, name, stored)
	}

	nodes, err := s.loadNodes(ctx, cid)
	if err != nil {
		return 0, nil, nil, err
	}
	edges, err := s.loadEdges(ctx, cid)
	if err != nil {
		return 0, nil, nil, err
	}

	return cid, nodes, edges, nil
}

func (s *Store) loadNodes(ctx context.Context, cid int64) ([]storedNode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT node_id, key, fragment FROM nodes WHERE collection_id = ? ORDER BY node_id`, cid)
	if err != nil {
		return nil, fmt.Errorf("store: nodes: %w", err)
	}
	var nodes []storedNode
	index := make(map[int]int)
	for rows.Next() {
		var sn storedNode
		if err := rows.Scan(&sn.id, &sn.key, &sn.fragment); err != nil {
			rows.Close()
			return nil, err
		}
		index[sn.id] = len(nodes)
		nodes = append(nodes, sn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT node_id, origin, direct FROM origins WHERE collection_id = ? ORDER BY node_id, rowid`, cid)
	if err != nil {
		return nil, fmt.Errorf("store: origins: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id     int
			origin string
			direct bool
		)
		if err := rows.Scan(&id, &origin, &direct); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: origin for unknown node %d", ErrCorrupt, id)
		}
		nodes[i].origins = append(nodes[i].origins, origin)
		if direct {
			nodes[i].direct = append(nodes[i].direct, origin)
		}
	}

	return nodes, rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, cid int64) ([][2]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT parent_id, child_id FROM edges WHERE collection_id = ? ORDER BY rowid`, cid)
	if err != nil {
		return nil, fmt.Errorf("store: edges: %w", err)
	}
	defer rows.Close()

	var out [][2]int
	for rows.Next() {
		var e [2]int
		if err := rows.Scan(&e[0], &e[1]); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
