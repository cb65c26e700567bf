package hierarchy

import "fmt"

// AdjacencyMatrix is a dense, symmetric view of a collection's links.
//
// Algorithm:
//  1. Index live nodes in ID order: NodeID → row/column.
//  2. Allocate an N×N zero matrix.
//  3. For every parent link set Data[i][j] = Data[j][i] = 1.
//
// Time Complexity: O(N² + E). Memory: O(N²).
type AdjacencyMatrix struct {
	// Index maps NodeID → row/column index in Data.
	Index map[NodeID]int
	// Order lists NodeIDs by row.
	Order []NodeID
	// Data[i][j] is 1 when rows i and j are linked, 0 otherwise.
	Data [][]int
}

func newAdjacencyMatrix(c *collection) *AdjacencyMatrix {
	nodes := c.Nodes()
	n := len(nodes)
	m := &AdjacencyMatrix{Index: make(map[NodeID]int, n), Order: make([]NodeID, n), Data: make([][]int, n)}
	for i, node := range nodes {
		m.Index[node.id] = i
		m.Order[i] = node.id
		m.Data[i] = make([]int, n)
	}
	for _, node := range nodes {
		for _, pid := range node.parents {
			j, ok := m.Index[pid]
			if !ok {
				continue
			}
			i := m.Index[node.id]
			m.Data[i][j], m.Data[j][i] = 1, 1
		}
	}

	return m
}

// Linked reports whether nodes a and b share an edge.
func (m *AdjacencyMatrix) Linked(a, b NodeID) (bool, error) {
	i, ok := m.Index[a]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrNodeNotFound, a)
	}
	j, ok := m.Index[b]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrNodeNotFound, b)
	}

	return m.Data[i][j] != 0, nil
}

// Neighbors returns the IDs linked to id in row order.
func (m *AdjacencyMatrix) Neighbors(id NodeID) ([]NodeID, error) {
	i, ok := m.Index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	var out []NodeID
	for j, v := range m.Data[i] {
		if v != 0 {
			out = append(out, m.Order[j])
		}
	}

	return out, nil
}
