// Package smiles reads and writes molecule.Graph values in SMILES notation.
//
// Parse accepts the organic subset, bracket atoms (isotope, chirality, hydrogen
// count, charge, atom class), bond symbols - = # $ : / \, branches, ring closures
// (including %nn) and dot-disconnected components. Aromatic (lowercase) input is
// kekulised: every aromatic bond receives a single or double order while atoms and
// bonds keep their aromatic flags.
//
// Canonical writes a unique SMILES string: atoms are ranked by iterative invariant
// refinement, ties are broken deterministically and the graph is written by a
// rank-ordered depth-first traversal. Stereo descriptors are not written.
package smiles

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/molscaf/molecule"
)

// Sentinel errors for SMILES processing.
var (
	// ErrSyntax indicates malformed SMILES input.
	ErrSyntax = errors.New("smiles: syntax error")

	// ErrUnclosedRing indicates a ring-closure digit that was opened but never closed.
	ErrUnclosedRing = errors.New("smiles: unclosed ring")

	// ErrUnbalancedBranch indicates mismatched parentheses.
	ErrUnbalancedBranch = errors.New("smiles: unbalanced branch")

	// ErrKekulize indicates aromatic input without a valid Kekulé structure.
	ErrKekulize = errors.New("smiles: cannot kekulise aromatic system")

	// ErrTooManyRingClosures indicates more than 100 simultaneously open ring bonds.
	ErrTooManyRingClosures = errors.New("smiles: too many open ring closures")

	// ErrUnsupportedAtom indicates an atom that has no SMILES symbol.
	ErrUnsupportedAtom = errors.New("smiles: unsupported atom")

	// ErrGraphNil is returned when a nil graph is serialised.
	ErrGraphNil = errors.New("smiles: graph is nil")
)

// bondSpec is a bond symbol waiting for its second atom.
type bondSpec struct {
	set      bool
	order    molecule.BondOrder
	aromatic bool
	stereo   molecule.BondStereo
}

// ringOpen remembers the atom and bond symbol of an open ring-closure digit.
type ringOpen struct {
	atom int
	bond bondSpec
}

// parser holds the mutable state of one Parse call.
type parser struct {
	src      string
	pos      int
	graph    *molecule.Graph
	prev     int
	branches []int
	pending  bondSpec
	rings    map[int]ringOpen
	fixedH   map[int]bool
}

// Parse reads a SMILES string into a new molecule.Graph with implicit hydrogens
// and hybridization perceived.
//
// Implementation:
//   - Stage 1: Scan atoms, bonds, branches and ring closures left to right.
//   - Stage 2: Fold explicit [H] atoms into their heavy neighbour.
//   - Stage 3: Derive implicit hydrogens of organic-subset atoms.
//   - Stage 4: Kekulise aromatic bonds and configure hybridization.
//
// Complexity: linear in input length except kekulisation, which backtracks over
// the aromatic subgraph.
func Parse(s string) (*molecule.Graph, error) {
	p := &parser{
		src:    s,
		graph:  molecule.New(),
		rings:  make(map[int]ringOpen),
		fixedH: make(map[int]bool),
	}
	if err := p.scan(); err != nil {
		return nil, err
	}
	p.foldHydrogens()
	p.deriveHydrogens()
	if err := kekulize(p.graph); err != nil {
		return nil, err
	}
	p.deriveHydrogens()
	molecule.Configure(p.graph)

	return p.graph, nil
}

// MustParse is like Parse but panics on error. Intended for tests and examples.
func MustParse(s string) *molecule.Graph {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return g
}

// scan tokenises the input and builds atoms and bonds.
func (p *parser) scan() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev == 0 {
				return p.errorf(ErrSyntax, "branch without atom")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.errorf(ErrUnbalancedBranch, "unexpected ')'")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '.':
			if p.pending.set {
				return p.errorf(ErrSyntax, "bond before '.'")
			}
			p.prev = 0
			p.pos++
		case isBondSymbol(c):
			if p.pending.set {
				return p.errorf(ErrSyntax, "two consecutive bond symbols")
			}
			p.pending = bondFromSymbol(c)
			p.pos++
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}
	if len(p.branches) > 0 {
		return p.errorf(ErrUnbalancedBranch, "missing ')'")
	}
	if len(p.rings) > 0 {
		return fmt.Errorf("%w: %d ring closure(s) left open", ErrUnclosedRing, len(p.rings))
	}
	if p.pending.set {
		return p.errorf(ErrSyntax, "dangling bond")
	}

	return nil
}

func (p *parser) errorf(kind error, msg string) error {
	return fmt.Errorf("%w at %d: %s", kind, p.pos, msg)
}

func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}

	return false
}

func bondFromSymbol(c byte) bondSpec {
	switch c {
	case '=':
		return bondSpec{set: true, order: molecule.Double}
	case '#':
		return bondSpec{set: true, order: molecule.Triple}
	case '$':
		return bondSpec{set: true, order: molecule.Quadruple}
	case ':':
		return bondSpec{set: true, order: molecule.Unset, aromatic: true}
	case '/':
		return bondSpec{set: true, order: molecule.Single, stereo: molecule.StereoUp}
	case '\\':
		return bondSpec{set: true, order: molecule.Single, stereo: molecule.StereoDown}
	default:
		return bondSpec{set: true, order: molecule.Single}
	}
}

// connect bonds a and b using spec, or the implicit bond when spec is unset.
func (p *parser) connect(a, b int, spec bondSpec) error {
	var opts []molecule.BondOption
	order := spec.order
	switch {
	case !spec.set:
		if p.graph.Atom(a).Aromatic && p.graph.Atom(b).Aromatic {
			order = molecule.Unset
			opts = append(opts, molecule.WithAromaticBond())
		} else {
			order = molecule.Single
		}
	case spec.aromatic:
		opts = append(opts, molecule.WithAromaticBond())
	}
	if spec.stereo != molecule.StereoNone {
		opts = append(opts, molecule.WithBondStereo(spec.stereo))
	}
	if _, err := p.graph.AddBond(a, b, order, opts...); err != nil {
		return fmt.Errorf("%w at %d: %v", ErrSyntax, p.pos, err)
	}

	return nil
}

// attach links a freshly created atom to the previous one.
func (p *parser) attach(id int) error {
	if p.prev != 0 {
		if err := p.connect(p.prev, id, p.pending); err != nil {
			return err
		}
	} else if p.pending.set {
		return p.errorf(ErrSyntax, "bond without preceding atom")
	}
	p.pending = bondSpec{}
	p.prev = id

	return nil
}

// ringClosure handles a single digit or a %nn closure.
func (p *parser) ringClosure() error {
	if p.prev == 0 {
		return p.errorf(ErrSyntax, "ring closure without atom")
	}
	var n int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.errorf(ErrSyntax, "malformed %nn ring closure")
		}
		n = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		n = int(p.src[p.pos] - '0')
		p.pos++
	}
	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = ringOpen{atom: p.prev, bond: p.pending}
		p.pending = bondSpec{}
		return nil
	}
	delete(p.rings, n)
	spec := p.pending
	if !spec.set {
		spec = open.bond
	}
	p.pending = bondSpec{}
	if open.atom == p.prev {
		return p.errorf(ErrSyntax, "ring closure to itself")
	}

	return p.connect(open.atom, p.prev, spec)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// organicAtom reads an organic-subset atom or a wildcard.
func (p *parser) organicAtom() error {
	rest := p.src[p.pos:]
	type organic struct {
		sym      string
		z        int
		aromatic bool
	}
	table := []organic{
		{"Cl", molecule.Chlorine, false}, {"Br", molecule.Bromine, false},
		{"B", molecule.Boron, false}, {"C", molecule.Carbon, false},
		{"N", molecule.Nitrogen, false}, {"O", molecule.Oxygen, false},
		{"P", molecule.Phosphorus, false}, {"S", molecule.Sulfur, false},
		{"F", molecule.Fluorine, false}, {"I", molecule.Iodine, false},
		{"b", molecule.Boron, true}, {"c", molecule.Carbon, true},
		{"n", molecule.Nitrogen, true}, {"o", molecule.Oxygen, true},
		{"p", molecule.Phosphorus, true}, {"s", molecule.Sulfur, true},
		{"*", 0, false},
	}
	for _, o := range table {
		if len(rest) < len(o.sym) || rest[:len(o.sym)] != o.sym {
			continue
		}
		p.pos += len(o.sym)
		var opts []molecule.AtomOption
		if o.aromatic {
			opts = append(opts, molecule.WithAromatic())
		}

		return p.attach(p.graph.AddAtom(o.z, opts...))
	}

	return p.errorf(ErrSyntax, fmt.Sprintf("unexpected character %q", rest[0]))
}

// bracketAtom reads [isotope? symbol chirality? hcount? charge? class?].
func (p *parser) bracketAtom() error {
	p.pos++ // '['
	isotope := p.readNumber()
	z, aromatic, err := p.bracketSymbol()
	if err != nil {
		return err
	}
	chir := molecule.ChiralityNone
	if p.peek() == '@' {
		p.pos++
		chir = molecule.Anticlockwise
		if p.peek() == '@' {
			p.pos++
			chir = molecule.Clockwise
		}
	}
	h := 0
	if p.peek() == 'H' {
		p.pos++
		h = 1
		if isDigit(p.peek()) {
			h = p.readNumber()
		}
	}
	charge := 0
	if c := p.peek(); c == '+' || c == '-' {
		sign := 1
		if c == '-' {
			sign = -1
		}
		p.pos++
		charge = sign
		switch {
		case isDigit(p.peek()):
			charge = sign * p.readNumber()
		default:
			for p.peek() == c {
				charge += sign
				p.pos++
			}
		}
	}
	if p.peek() == ':' {
		p.pos++
		p.readNumber()
	}
	if p.peek() != ']' {
		return p.errorf(ErrSyntax, "unterminated bracket atom")
	}
	p.pos++
	opts := []molecule.AtomOption{
		molecule.WithCharge(charge),
		molecule.WithIsotope(isotope),
		molecule.WithImplicitH(h),
		molecule.WithChirality(chir),
	}
	if aromatic {
		opts = append(opts, molecule.WithAromatic())
	}
	id := p.graph.AddAtom(z, opts...)
	p.fixedH[id] = true

	return p.attach(id)
}

// bracketSymbol reads an element symbol inside brackets.
func (p *parser) bracketSymbol() (int, bool, error) {
	rest := p.src[p.pos:]
	if rest == "" {
		return 0, false, p.errorf(ErrSyntax, "missing element")
	}
	if rest[0] == '*' {
		p.pos++
		return 0, false, nil
	}
	for _, sym := range []string{"se", "as", "te", "b", "c", "n", "o", "p", "s"} {
		if len(rest) >= len(sym) && rest[:len(sym)] == sym {
			p.pos += len(sym)
			z, err := molecule.AtomicNumber(string(sym[0]-'a'+'A') + sym[1:])
			return z, true, err
		}
	}
	if rest[0] < 'A' || rest[0] > 'Z' {
		return 0, false, p.errorf(ErrSyntax, "invalid element symbol")
	}
	if len(rest) >= 2 && rest[1] >= 'a' && rest[1] <= 'z' {
		if z, err := molecule.AtomicNumber(rest[:2]); err == nil {
			p.pos += 2
			return z, false, nil
		}
	}
	z, err := molecule.AtomicNumber(rest[:1])
	if err != nil {
		return 0, false, fmt.Errorf("%w at %d: %v", ErrSyntax, p.pos, err)
	}
	p.pos++

	return z, false, nil
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

// readNumber consumes a run of digits, returning 0 if there are none.
func (p *parser) readNumber() int {
	n := 0
	for isDigit(p.peek()) {
		n = n*10 + int(p.src[p.pos]-'0')
		p.pos++
	}

	return n
}

// foldHydrogens removes neutral, unlabelled [H] atoms with one heavy neighbour
// and adds them to that neighbour's hydrogen count.
func (p *parser) foldHydrogens() {
	for _, a := range p.graph.Atoms() {
		if a.Number != molecule.Hydrogen || a.Charge != 0 || a.Isotope != 0 || a.ImplicitH != 0 {
			continue
		}
		nbrs := p.graph.Neighbors(a.ID)
		if len(nbrs) != 1 || p.graph.Atom(nbrs[0]).Number == molecule.Hydrogen {
			continue
		}
		host := p.graph.Atom(nbrs[0])
		_ = p.graph.RemoveAtom(a.ID)
		if p.fixedH[host.ID] {
			host.ImplicitH++
		}
		delete(p.fixedH, a.ID)
	}
}

// deriveHydrogens sets implicit hydrogens of organic-subset atoms.
func (p *parser) deriveHydrogens() {
	for _, a := range p.graph.Atoms() {
		if !p.fixedH[a.ID] {
			a.ImplicitH = molecule.ImpliedHydrogens(p.graph, a.ID)
		}
	}
}
