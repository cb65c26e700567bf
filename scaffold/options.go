// Package scaffold decomposes molecules into nested ring scaffolds.
//
// A Generator reduces a molecule to one of five scaffold representations and then
// strips terminal rings one at a time. Which ring goes next is decided by the
// thirteen Schuffenhauer rules (SchuffenhauerFragments, SchuffenhauerTree,
// SchuffenhauerForest) or, exhaustively, by trying every removable ring
// (EnumerativeRemoval, ScaffoldNetwork, ScaffoldNetworks).
//
// Every operation clones its input; callers keep exclusive ownership of the graphs
// they pass in and receive freshly allocated graphs back. A Generator is immutable
// after New and may be shared between goroutines as long as each call works on its
// own molecules.
package scaffold

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/molscaf/aromaticity"
	"github.com/katalvlaran/molscaf/molecule"
	"github.com/katalvlaran/molscaf/rings"
	"github.com/katalvlaran/molscaf/smiles"
)

// Sentinel errors for scaffold generation.
var (
	// ErrNilMolecule is returned when a nil molecule is passed.
	ErrNilMolecule = errors.New("scaffold: molecule is nil")

	// ErrNilRing is returned when an empty ring is passed.
	ErrNilRing = errors.New("scaffold: ring is empty")

	// ErrStructuralAnalysis wraps ring or aromaticity perception failures.
	ErrStructuralAnalysis = errors.New("scaffold: structural analysis failed")

	// ErrNoAromaticityModel is wrapped by ErrStructuralAnalysis when aromaticity
	// must be determined but no model is configured.
	ErrNoAromaticityModel = errors.New("scaffold: no aromaticity model configured")

	// ErrOptionViolation is returned by New for invalid options.
	ErrOptionViolation = errors.New("scaffold: invalid option supplied")
)

// Mode selects the scaffold representation.
type Mode int

const (
	// ModeScaffold keeps the Murcko framework plus atoms multiply bonded to it.
	ModeScaffold Mode = iota
	// ModeMurckoFramework keeps ring systems and the linkers between them.
	ModeMurckoFramework
	// ModeBasicWireFrame reduces the framework to carbon atoms and single bonds.
	ModeBasicWireFrame
	// ModeElementalWireFrame keeps elements but makes every bond single.
	ModeElementalWireFrame
	// ModeBasicFramework keeps bond orders but makes every atom carbon.
	ModeBasicFramework
)

var modeNames = [...]string{"scaffold", "murcko", "basic-wire-frame", "elemental-wire-frame", "basic-framework"}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}

	return modeNames[m]
}

// ParseMode resolves a mode name as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}

	return ModeScaffold, fmt.Errorf("%w: unknown mode %q", ErrOptionViolation, s)
}

// Serializer produces the canonical string identifying a graph.
type Serializer interface {
	Serialize(g *molecule.Graph) (string, error)
}

// Aromaticity recomputes aromatic flags of a graph in place.
type Aromaticity interface {
	Apply(g *molecule.Graph) error
}

// Recorder receives per-molecule batch statistics; *metrics.Recorder implements it.
type Recorder interface {
	MoleculeProcessed(op string)
	MoleculeSkipped(op string)
	FragmentsProduced(op string, n int)
	ObserveDuration(op string, d time.Duration)
}

// Option configures a Generator.
type Option func(*Options)

// Options holds Generator configuration. It is copied by New and never changes
// afterwards.
type Options struct {
	// DetermineAromaticity re-applies Aromaticity after every structural edit.
	DetermineAromaticity bool

	// Aromaticity is the model used when DetermineAromaticity is set.
	Aromaticity Aromaticity

	// Serializer produces fragment keys.
	Serializer Serializer

	// ApplyRuleSeven enables rule 7 (requires DetermineAromaticity).
	ApplyRuleSeven bool

	// RetainOnlyAromaticHybridisations repairs sp2 atoms only after removing an
	// aromatic ring; when false non-aromatic rings are repaired too.
	RetainOnlyAromaticHybridisations bool

	// Mode selects the scaffold representation.
	Mode Mode

	// AddImplicitHydrogens recomputes implicit hydrogens after every edit.
	AddImplicitHydrogens bool

	// RingFinder perceives rings for extraction, classification and rules.
	RingFinder rings.Finder

	// Logger receives batch skip errors and rule traces at V(1).
	Logger logr.Logger

	// Recorder receives batch statistics; nil disables recording.
	Recorder Recorder

	err error
}

// DefaultOptions returns the standard configuration:
//   - aromaticity determined with the Daylight model, rule 7 on
//   - canonical SMILES keys
//   - sp2 repair after every ring removal
//   - ModeScaffold with implicit hydrogens
//   - minimum cycle basis for ring perception
//   - a discarding logger and no recorder.
func DefaultOptions() Options {
	return Options{
		DetermineAromaticity:             true,
		Aromaticity:                      aromaticity.Default(),
		Serializer:                       smiles.Canonical{},
		ApplyRuleSeven:                   true,
		RetainOnlyAromaticHybridisations: false,
		Mode:                             ModeScaffold,
		AddImplicitHydrogens:             true,
		RingFinder:                       rings.Default(),
		Logger:                           logr.Discard(),
	}
}

// WithDetermineAromaticity toggles aromaticity re-derivation.
func WithDetermineAromaticity(on bool) Option {
	return func(o *Options) { o.DetermineAromaticity = on }
}

// WithAromaticity sets the aromaticity model; nil is accepted and only fails
// once aromaticity must actually be determined.
func WithAromaticity(a Aromaticity) Option {
	return func(o *Options) { o.Aromaticity = a }
}

// WithSerializer sets the key serializer.
func WithSerializer(s Serializer) Option {
	return func(o *Options) {
		if s == nil {
			o.err = fmt.Errorf("%w: nil serializer", ErrOptionViolation)
			return
		}
		o.Serializer = s
	}
}

// WithRuleSeven toggles rule 7.
func WithRuleSeven(on bool) Option {
	return func(o *Options) { o.ApplyRuleSeven = on }
}

// WithRetainOnlyAromaticHybridisations limits sp2 repair to aromatic rings.
func WithRetainOnlyAromaticHybridisations(on bool) Option {
	return func(o *Options) { o.RetainOnlyAromaticHybridisations = on }
}

// WithMode sets the scaffold representation.
func WithMode(m Mode) Option {
	return func(o *Options) {
		if m < ModeScaffold || m > ModeBasicFramework {
			o.err = fmt.Errorf("%w: mode %d", ErrOptionViolation, int(m))
			return
		}
		o.Mode = m
	}
}

// WithImplicitHydrogens toggles implicit hydrogen recomputation.
func WithImplicitHydrogens(on bool) Option {
	return func(o *Options) { o.AddImplicitHydrogens = on }
}

// WithRingFinder sets the ring finder.
func WithRingFinder(f rings.Finder) Option {
	return func(o *Options) {
		if f == nil {
			o.err = fmt.Errorf("%w: nil ring finder", ErrOptionViolation)
			return
		}
		o.RingFinder = f
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithRecorder sets the batch statistics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Options) { o.Recorder = r }
}

// Generator runs scaffold decompositions with fixed Options.
type Generator struct {
	opts Options
}

// New builds a Generator from DefaultOptions and opts.
func New(opts ...Option) (*Generator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}

	return &Generator{opts: o}, nil
}

// Options returns a copy of the Generator's configuration.
func (gen *Generator) Options() Options { return gen.opts }

type nopRecorder struct{}

func (nopRecorder) MoleculeProcessed(string) {}
func (nopRecorder) MoleculeSkipped(string) {}
func (nopRecorder) FragmentsProduced(string, int) {}
func (nopRecorder) ObserveDuration(string, time.Duration) {}
