// Package config loads molscaf settings from an HCL file and MOLSCAF_*
// environment variables and maps them onto scaffold options.
//
// File layout (every block and attribute is optional):
//
//	scaffold {
//	  mode                                = "murcko"
//	  determine_aromaticity               = true
//	  aromaticity_model                   = "daylight"
//	  apply_rule_seven                    = true
//	  retain_only_aromatic_hybridisations = false
//	  implicit_hydrogens                  = true
//	  cycle_limit                         = 1024
//	}
//	log {
//	  level  = "info"
//	  format = "console"
//	}
//	store {
//	  path = "molscaf.db"
//	}
//	metrics {
//	  addr = ":9090"
//	}
//
// Precedence, lowest first: defaults, file, environment. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/katalvlaran/molscaf/aromaticity"
	"github.com/katalvlaran/molscaf/rings"
	"github.com/katalvlaran/molscaf/scaffold"
)

// ErrInvalid is returned for values that cannot be mapped onto options.
var ErrInvalid = errors.New("config: invalid value")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MOLSCAF_"

// Config is the resolved configuration.
type Config struct {
	Mode                             scaffold.Mode
	Donation                         aromaticity.Donation
	DetermineAromaticity             bool
	RuleSeven                        bool
	RetainOnlyAromaticHybridisations bool
	ImplicitHydrogens                bool
	// CycleLimit bounds cycle enumeration for aromaticity perception.
	CycleLimit                       int

	LogLevel  string
	LogFormat string

	Database    string
	MetricsAddr string
}

// Default mirrors scaffold.DefaultOptions with console logging at info level.
func Default() Config {
	o := scaffold.DefaultOptions()

	return Config{
		Mode:                             o.Mode,
		Donation:                         aromaticity.Daylight,
		DetermineAromaticity:             o.DetermineAromaticity,
		RuleSeven:                        o.ApplyRuleSeven,
		RetainOnlyAromaticHybridisations: o.RetainOnlyAromaticHybridisations,
		ImplicitHydrogens:                o.AddImplicitHydrogens,
		CycleLimit:                       rings.DefaultCycleLimit,
		LogLevel:                         "info",
		LogFormat:                        "console",
	}
}

// fileConfig is the HCL document shape. Pointers distinguish absent from zero.
type fileConfig struct {
	Scaffold *scaffoldBlock `hcl:"scaffold,block"`
	Log      *logBlock      `hcl:"log,block"`
	Store    *storeBlock    `hcl:"store,block"`
	Metrics  *metricsBlock  `hcl:"metrics,block"`
}

type scaffoldBlock struct {
	Mode                             *string `hcl:"mode,optional"`
	DetermineAromaticity             *bool   `hcl:"determine_aromaticity,optional"`
	AromaticityModel                 *string `hcl:"aromaticity_model,optional"`
	ApplyRuleSeven                   *bool   `hcl:"apply_rule_seven,optional"`
	RetainOnlyAromaticHybridisations *bool   `hcl:"retain_only_aromatic_hybridisations,optional"`
	ImplicitHydrogens                *bool   `hcl:"implicit_hydrogens,optional"`
	CycleLimit                       *int    `hcl:"cycle_limit,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type storeBlock struct {
	Path string `hcl:"path"`
}

type metricsBlock struct {
	Addr string `hcl:"addr"`
}

// Load returns defaults overlaid with the file at path (skipped when path is
// empty) and then with the process environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		var fc fileConfig
		if err := hclsimple.DecodeFile(path, nil, &fc); err != nil {
			return c, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if err := c.apply(fc); err != nil {
			return c, err
		}
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return c, err
	}

	return c, nil
}

// Parse overlays defaults with HCL source; filename must end in .hcl and is used
// in diagnostics.
func Parse(filename string, src []byte) (Config, error) {
	c := Default()
	var fc fileConfig
	if err := hclsimple.Decode(filename, src, nil, &fc); err != nil {
		return c, fmt.Errorf("config: decode %s: %w", filename, err)
	}

	return c, c.apply(fc)
}

func (c *Config) apply(fc fileConfig) error {
	if s := fc.Scaffold; s != nil {
		if s.Mode != nil {
			if err := c.SetMode(*s.Mode); err != nil {
				return err
			}
		}
		if s.AromaticityModel != nil {
			if err := c.SetDonation(*s.AromaticityModel); err != nil {
				return err
			}
		}
		setBool(&c.DetermineAromaticity, s.DetermineAromaticity)
		setBool(&c.RuleSeven, s.ApplyRuleSeven)
		setBool(&c.RetainOnlyAromaticHybridisations, s.RetainOnlyAromaticHybridisations)
		setBool(&c.ImplicitHydrogens, s.ImplicitHydrogens)
		if s.CycleLimit != nil {
			c.CycleLimit = *s.CycleLimit
		}
	}
	if l := fc.Log; l != nil {
		if l.Level != nil {
			c.LogLevel = *l.Level
		}
		if l.Format != nil {
			c.LogFormat = *l.Format
		}
	}
	if fc.Store != nil {
		c.Database = fc.Store.Path
	}
	if fc.Metrics != nil {
		c.MetricsAddr = fc.Metrics.Addr
	}

	return c.validate()
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ApplyEnv overlays MOLSCAF_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]func(string) error{
		"MODE":              c.SetMode,
		"AROMATICITY_MODEL": c.SetDonation,
		"LOG_LEVEL":         func(v string) error { c.LogLevel = v; return nil },
		"LOG_FORMAT":        func(v string) error { c.LogFormat = v; return nil },
		"DB":                func(v string) error { c.Database = v; return nil },
		"METRICS_ADDR":      func(v string) error { c.MetricsAddr = v; return nil },
		"CYCLE_LIMIT": func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: cycle limit %q", ErrInvalid, v)
			}
			c.CycleLimit = n
			return nil
		},
	}
	bools := map[string]*bool{
		"DETERMINE_AROMATICITY":               &c.DetermineAromaticity,
		"RULE_SEVEN":                          &c.RuleSeven,
		"RETAIN_ONLY_AROMATIC_HYBRIDISATIONS": &c.RetainOnlyAromaticHybridisations,
		"IMPLICIT_HYDROGENS":                  &c.ImplicitHydrogens,
	}
	for name, set := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			if err := set(v); err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
		}
	}
	for name, dst := range bools {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q", ErrInvalid, EnvPrefix, name, v)
			}
			*dst = b
		}
	}

	return c.validate()
}

// SetMode sets Mode from its name.
func (c *Config) SetMode(name string) error {
	m, err := scaffold.ParseMode(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	c.Mode = m

	return nil
}

// SetDonation sets the aromaticity donation model from its name.
func (c *Config) SetDonation(name string) error {
	d, err := aromaticity.ParseDonation(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	c.Donation = d

	return nil
}

func (c *Config) validate() error {
	if c.CycleLimit <= 0 {
		return fmt.Errorf("%w: cycle limit %d", ErrInvalid, c.CycleLimit)
	}

	return nil
}

// Options maps c onto scaffold options. Logger and recorder are left to the caller.
func (c Config) Options() []scaffold.Option {
	finder := rings.MCB()
	model := aromaticity.New(c.Donation, rings.Fallback(rings.All(c.CycleLimit), rings.Relevant(c.CycleLimit)))

	return []scaffold.Option{
		scaffold.WithMode(c.Mode),
		scaffold.WithDetermineAromaticity(c.DetermineAromaticity),
		scaffold.WithAromaticity(model),
		scaffold.WithRuleSeven(c.RuleSeven),
		scaffold.WithRetainOnlyAromaticHybridisations(c.RetainOnlyAromaticHybridisations),
		scaffold.WithImplicitHydrogens(c.ImplicitHydrogens),
		scaffold.WithRingFinder(finder),
	}
}
