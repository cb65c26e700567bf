package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/molscaf/config"
	"github.com/katalvlaran/molscaf/metrics"
	"github.com/katalvlaran/molscaf/scaffold"
	"github.com/katalvlaran/molscaf/store"
)

// app holds state shared by all subcommands for one invocation.
type app struct {
	configPath string
	input      string
	flags      config.Config

	cfg      config.Config
	log      logr.Logger
	gen      *scaffold.Generator
	registry *prometheus.Registry
	server   *http.Server
	sync     func() error
}

func newRootCmd() *cobra.Command {
	a := &app{flags: config.Default()}
	root := &cobra.Command{
		Use:   "molscaf",
		Short: "Decompose molecules into scaffold hierarchies",
		Long: `molscaf reduces molecules given as SMILES to their scaffolds and strips
terminal rings one at a time, either following the Schuffenhauer rules (fragments,
tree) or exhaustively (enumerate, network).

Molecules are read from the arguments or, with --input, from a file with one
SMILES per line ("-" reads standard input). Anything after the first whitespace
on a line is ignored.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "HCL configuration file")
	pf.StringVarP(&a.input, "input", "i", "", `file with one SMILES per line ("-" for stdin)`)
	pf.String("mode", a.flags.Mode.String(), "scaffold mode: scaffold, murcko, basic-wire-frame, elemental-wire-frame, basic-framework")
	pf.String("aromaticity", a.flags.Donation.String(), "aromaticity model: daylight, cdk, pibonds")
	pf.Bool("no-aromaticity", false, "do not determine aromaticity (also disables rule 7)")
	pf.Bool("no-rule-seven", false, "disable Schuffenhauer rule 7")
	pf.Bool("retain-only-aromatic", false, "repair sp2 atoms only after removing aromatic rings")
	pf.String("log-level", a.flags.LogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", a.flags.LogFormat, "log format: console or json")
	pf.String("db", "", "SQLite database for tree and network results")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newScaffoldCmd(a),
		newFragmentsCmd(a),
		newEnumerateCmd(a),
		newTreeCmd(a),
		newNetworkCmd(a),
	)

	return root
}

// setup resolves configuration (defaults, file, environment, flags) and builds
// the logger, metrics and generator.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := overlayFlags(cmd, &cfg); err != nil {
		return err
	}
	a.cfg = cfg

	if a.log, a.sync, err = newLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(a.registry)
	if err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		a.serveMetrics(cfg.MetricsAddr)
	}

	opts := append(cfg.Options(), scaffold.WithLogger(a.log), scaffold.WithRecorder(rec))
	if a.gen, err = scaffold.New(opts...); err != nil {
		return err
	}
	a.log.V(1).Info("configured", "mode", cfg.Mode.String(), "aromaticity", cfg.Donation.String(),
		"determineAromaticity", cfg.DetermineAromaticity, "ruleSeven", cfg.RuleSeven)

	return nil
}

// overlayFlags applies explicitly set flags on top of cfg.
func overlayFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("mode") {
		v, _ := f.GetString("mode")
		if err := cfg.SetMode(v); err != nil {
			return err
		}
	}
	if f.Changed("aromaticity") {
		v, _ := f.GetString("aromaticity")
		if err := cfg.SetDonation(v); err != nil {
			return err
		}
	}
	if v, _ := f.GetBool("no-aromaticity"); v {
		cfg.DetermineAromaticity = false
	}
	if v, _ := f.GetBool("no-rule-seven"); v {
		cfg.RuleSeven = false
	}
	if v, _ := f.GetBool("retain-only-aromatic"); v {
		cfg.RetainOnlyAromaticHybridisations = true
	}
	for flag, dst := range map[string]*string{
		"log-level":    &cfg.LogLevel,
		"log-format":   &cfg.LogFormat,
		"db":           &cfg.Database,
		"metrics-addr": &cfg.MetricsAddr,
	} {
		if f.Changed(flag) {
			*dst, _ = f.GetString(flag)
		}
	}

	return nil
}

// newLogger builds a zap-backed logr.Logger.
func newLogger(level, format string) (logr.Logger, func() error, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("log level: %w", err)
	}
	var zc zap.Config
	switch format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return logr.Discard(), nil, fmt.Errorf("log format %q: want console or json", format)
	}
	zc.Level = lvl
	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), nil, err
	}

	return zapr.NewLogger(zl).WithName("molscaf"), zl.Sync, nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(err, "metrics server stopped", "addr", addr)
		}
	}()
	a.log.Info("serving metrics", "addr", addr)
}

func (a *app) teardown() error {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.server.Shutdown(ctx)
	}
	if a.sync != nil {
		_ = a.sync()
	}

	return nil
}

// openStore opens the configured database, or returns nil when none is set.
func (a *app) openStore() (*store.Store, error) {
	if a.cfg.Database == "" {
		return nil, nil
	}

	return store.Open(a.cfg.Database)
}
