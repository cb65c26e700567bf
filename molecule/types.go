// Package molecule defines the central Graph, Atom and Bond types used by every
// other molscaf package, together with cloning, traversal, atom typing and
// implicit-hydrogen perception.
//
// Atoms carry a stable integer ID assigned by the owning Graph. IDs are unique
// within a graph lineage: Clone preserves them and carries the ID counter, so an
// atom can be re-identified across any number of clones of one decomposition run,
// and a deleted ID is never handed out again.
//
// A Graph is not safe for concurrent mutation. The ownership contract is that a
// graph is exclusively owned by its caller; transforms elsewhere in molscaf clone
// their input and return a new graph instead of mutating shared state.
//
// Errors:
//
//	ErrAtomNotFound   - requested atom does not exist.
//	ErrBondNotFound   - requested bond does not exist.
//	ErrSelfBond       - bond endpoints are the same atom.
//	ErrBondExists     - the two atoms are already bonded.
//	ErrUnknownElement - element symbol or atomic number is not in the table.
package molecule

import "errors"

// Sentinel errors for molecule graph operations.
var (
	// ErrAtomNotFound indicates an operation referenced a non-existent atom.
	ErrAtomNotFound = errors.New("molecule: atom not found")

	// ErrBondNotFound indicates an operation referenced a non-existent bond.
	ErrBondNotFound = errors.New("molecule: bond not found")

	// ErrSelfBond indicates an attempt to bond an atom to itself.
	ErrSelfBond = errors.New("molecule: atom cannot bond to itself")

	// ErrBondExists indicates a second bond between the same pair of atoms.
	ErrBondExists = errors.New("molecule: atoms already bonded")

	// ErrUnknownElement indicates an element symbol outside the periodic table.
	ErrUnknownElement = errors.New("molecule: unknown element")
)

// BondOrder is the multiplicity of a bond.
type BondOrder uint8

// Bond orders. Unset is used for aromatic bonds that were never kekulised.
const (
	Unset BondOrder = iota
	Single
	Double
	Triple
	Quadruple
)

// Numeric returns the bond order as a valence contribution (Unset counts as 1).
func (o BondOrder) Numeric() int {
	switch o {
	case Double:
		return 2
	case Triple:
		return 3
	case Quadruple:
		return 4
	default:
		return 1
	}
}

// String implements fmt.Stringer.
func (o BondOrder) String() string {
	switch o {
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	case Quadruple:
		return "quadruple"
	default:
		return "unset"
	}
}

// Hybridization of an atom as derived by Configure.
type Hybridization uint8

// Hybridization states.
const (
	HybridUnset Hybridization = iota
	SP
	SP2
	SP3
)

// String implements fmt.Stringer.
func (h Hybridization) String() string {
	switch h {
	case SP:
		return "sp"
	case SP2:
		return "sp2"
	case SP3:
		return "sp3"
	default:
		return "unset"
	}
}

// Chirality is a tetrahedral stereo descriptor relative to neighbour input order.
type Chirality uint8

// Tetrahedral descriptors as written in SMILES.
const (
	ChiralityNone Chirality = iota
	Anticlockwise           // @
	Clockwise               // @@
)

// BondStereo is a directional double-bond stereo marker.
type BondStereo uint8

// Directional bond markers as written in SMILES.
const (
	StereoNone BondStereo = iota
	StereoUp              // /
	StereoDown            // \
)

// Atom is a vertex of a molecular graph.
type Atom struct {
	// ID is assigned by the owning Graph and preserved by Clone.
	ID int

	// Number is the atomic number; 0 denotes a wildcard/pseudo atom.
	Number int

	// Charge is the formal charge.
	Charge int

	// Isotope is the mass number, 0 when unspecified.
	Isotope int

	// Aromatic is set by SMILES input or by an aromaticity model.
	Aromatic bool

	// ImplicitH is the number of implicit hydrogens.
	ImplicitH int

	// Hybridization is derived by Configure; HybridUnset when cleared.
	Hybridization Hybridization

	// Chirality is the tetrahedral descriptor, if any.
	Chirality Chirality
}

// Bond is an undirected edge between two atoms.
type Bond struct {
	// ID is assigned by the owning Graph and preserved by Clone.
	ID int

	// A and B are the endpoint atom IDs, A < B is not guaranteed.
	A, B int

	// Order is the bond multiplicity.
	Order BondOrder

	// Aromatic is set by SMILES input or by an aromaticity model.
	Aromatic bool

	// Stereo is the directional marker, if any.
	Stereo BondStereo
}

// Other returns the endpoint of b that is not id.
func (b *Bond) Other(id int) int {
	if b.A == id {
		return b.B
	}

	return b.A
}

// Has reports whether id is an endpoint of b.
func (b *Bond) Has(id int) bool { return b.A == id || b.B == id }

// AtomOption configures an atom when it is added.
type AtomOption func(*Atom)

// WithCharge sets the formal charge.
func WithCharge(q int) AtomOption { return func(a *Atom) { a.Charge = q } }

// WithAromatic marks the atom aromatic.
func WithAromatic() AtomOption { return func(a *Atom) { a.Aromatic = true } }

// WithImplicitH sets the implicit hydrogen count.
func WithImplicitH(n int) AtomOption { return func(a *Atom) { a.ImplicitH = n } }

// WithIsotope sets the mass number.
func WithIsotope(m int) AtomOption { return func(a *Atom) { a.Isotope = m } }

// WithChirality sets the tetrahedral descriptor.
func WithChirality(c Chirality) AtomOption { return func(a *Atom) { a.Chirality = c } }

// BondOption configures a bond when it is added.
type BondOption func(*Bond)

// WithAromaticBond marks the bond aromatic.
func WithAromaticBond() BondOption { return func(b *Bond) { b.Aromatic = true } }

// WithBondStereo sets the directional marker.
func WithBondStereo(s BondStereo) BondOption { return func(b *Bond) { b.Stereo = s } }

// Graph is an in-memory molecular graph.
//
// adjacency[a][b] holds the ID of the bond between atoms a and b; it is mirrored
// for both endpoints. nextAtomID and nextBondID are monotonic counters carried by
// Clone so that IDs are never reused within a lineage.
type Graph struct {
	nextAtomID int
	nextBondID int

	atoms map[int]*Atom
	bonds map[int]*Bond

	adjacency map[int]map[int]int
}

// New creates an empty Graph.
// Complexity: O(1)
func New() *Graph {
	return &Graph{
		atoms:     make(map[int]*Atom),
		bonds:     make(map[int]*Bond),
		adjacency: make(map[int]map[int]int),
	}
}
