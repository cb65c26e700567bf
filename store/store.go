// Package store persists scaffold trees and networks in SQLite.
//
// Each saved hierarchy is a named collection. Nodes are stored with their key,
// the SMILES of their fragment and their origin sets; parent edges are stored
// separately. Saving under an existing name replaces the previous collection.
// Loaded fragments are re-parsed from SMILES, so atom IDs are renumbered.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/katalvlaran/molscaf/hierarchy"
	"github.com/katalvlaran/molscaf/smiles"
)

// Sentinel errors for persistence.
var (
	// ErrNotFound is returned when no collection has the requested name.
	ErrNotFound = errors.New("store: collection not found")

	// ErrKindMismatch is returned when a tree is loaded as a network or vice versa.
	ErrKindMismatch = errors.New("store: collection kind mismatch")

	// ErrCorrupt is returned when stored rows do not form a valid hierarchy.
	ErrCorrupt = errors.New("store: stored hierarchy is inconsistent")
)

const schema = `
	CREATE TABLE IF NOT EXISTS collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS nodes (
		collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		node_id INTEGER NOT NULL,
		key TEXT NOT NULL,
		fragment TEXT,
		PRIMARY KEY (collection_id, node_id)
	);
	CREATE TABLE IF NOT EXISTS edges (
		collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		parent_id INTEGER NOT NULL,
		child_id INTEGER NOT NULL,
		PRIMARY KEY (collection_id, parent_id, child_id)
	);
	CREATE TABLE IF NOT EXISTS origins (
		collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		node_id INTEGER NOT NULL,
		origin TEXT NOT NULL,
		direct INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (collection_id, node_id, origin)
	);
	CREATE INDEX IF NOT EXISTS idx_origins_origin ON origins(origin);
`

// Store is a SQLite-backed hierarchy repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: setup schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

// SaveTree stores t under name.
func (s *Store) SaveTree(ctx context.Context, name string, t *hierarchy.Tree) error {
	return s.save(ctx, name, hierarchy.KindTree, t.Nodes())
}

// SaveNetwork stores nw under name.
func (s *Store) SaveNetwork(ctx context.Context, name string, nw *hierarchy.Network) error {
	return s.save(ctx, name, hierarchy.KindNetwork, nw.Nodes())
}

// SaveForest stores each tree as name/0, name/1, ... and returns the names used.
func (s *Store) SaveForest(ctx context.Context, name string, forest []*hierarchy.Tree) ([]string, error) {
	names := make([]string, 0, len(forest))
	for i, t := range forest {
		n := fmt.Sprintf("%s/%d", name, i)
		if err := s.SaveTree(ctx, n, t); err != nil {
			return nil, err
		}
		names = append(names, n)
	}

	return names, nil
}

// save replaces the collection name with nodes in one transaction.
func (s *Store) save(ctx context.Context, name string, kind hierarchy.Kind, nodes []*hierarchy.Node) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("store: replace %q: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO collections (name, kind) VALUES (?, ?)`, name, kind.String())
	if err != nil {
		return fmt.Errorf("store: insert %q: %w", name, err)
	}
	cid, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: insert %q: %w", name, err)
	}

	for _, n := range nodes {
		if err = insertNode(ctx, tx, cid, n); err != nil {
			return fmt.Errorf("store: node %q: %w", n.Key(), err)
		}
	}

	return tx.Commit()
}

func insertNode(ctx context.Context, tx *sql.Tx, cid int64, n *hierarchy.Node) error {
	var frag sql.NullString
	if g := n.Fragment(); g != nil {
		s, err := smiles.Write(g)
		if err != nil {
			return err
		}
		frag = sql.NullString{String: s, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO nodes (collection_id, node_id, key, fragment) VALUES (?, ?, ?, ?)`,
		cid, int(n.ID()), n.Key(), frag); err != nil {
		return err
	}
	for _, p := range n.Parents() {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO edges (collection_id, parent_id, child_id) VALUES (?, ?, ?)`,
			cid, int(p), int(n.ID())); err != nil {
			return err
		}
	}
	direct := make(map[string]bool)
	for _, o := range n.DirectOrigins() {
		direct[o] = true
	}
	for _, o := range n.Origins() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO origins (collection_id, node_id, origin, direct) VALUES (?, ?, ?, ?)`,
			cid, int(n.ID()), o, direct[o]); err != nil {
			return err
		}
	}

	return nil
}

// Names lists stored collection names in ascending order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}

	return out, rows.Err()
}

// Delete removes the collection name; a missing name is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name)

	return err
}

// ByOrigin returns the keys of stored nodes that record origin, across every
// collection, deduplicated and sorted.
func (s *Store) ByOrigin(ctx context.Context, origin string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT n.key FROM origins o
		JOIN nodes n ON n.collection_id = o.collection_id AND n.node_id = o.node_id
		WHERE o.origin = ?
		ORDER BY n.key
	`, origin)
	if err != nil {
		return nil, fmt.Errorf("store: by origin: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}

	return out, rows.Err()
}
