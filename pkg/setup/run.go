package setup

import (
	"context"
	"fmt"
	"regexp"

	"github.com/arthur-debert/aitk/pkg/config"
	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/filesystem"
	"github.com/arthur-debert/aitk/pkg/ledger"
	"github.com/arthur-debert/aitk/pkg/linker"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/manifest"
	"github.com/arthur-debert/aitk/pkg/paths"
	"github.com/arthur-debert/aitk/pkg/report"
	"github.com/arthur-debert/aitk/pkg/settings"
	"github.com/arthur-debert/aitk/pkg/types"
)

// FallbackNote is printed when junctions and hard links replace symlinks
const FallbackNote = "Note: Using junctions + hard links (symlinks not available)."

// RunOptions configures one invocation
type RunOptions struct {
	Mode     types.Mode
	DryRun   bool
	Config   *config.Config
	Paths    paths.Paths
	Reporter report.Reporter

	// FS performs every read and write of the run. Nil selects the OS, or
	// a read-only view of it for dry runs.
	FS types.FS
	// ProbeFS is where the link strategy is probed. Nil selects the OS.
	ProbeFS types.FS
	// Strategy skips probing when set
	Strategy types.LinkStrategy
}

// Summary describes a completed run
type Summary struct {
	Strategy types.LinkStrategy
	Settings settings.Result
	// Entries is the ledger size at the end of the run
	Entries int
}

// Run performs one install, uninstall or detach. Only setup failures are
// returned as errors; per-item problems are reported as warnings.
func Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	logger := logging.GetLogger("setup")
	if opts.Config == nil || opts.Paths == nil {
		return nil, errors.New(errors.ErrInvalidInput, "setup: config and paths are required")
	}
	if opts.Mode == "" {
		opts.Mode = types.ModeInstall
	}
	out := opts.Reporter
	if out == nil {
		out = report.Discard{}
	}
	fsys := opts.FS
	if fsys == nil {
		if opts.DryRun {
			fsys = filesystem.NewReadOnlyOS()
		} else {
			fsys = filesystem.NewOS()
		}
	}
	probeFS := opts.ProbeFS
	if probeFS == nil {
		probeFS = filesystem.NewOS()
	}
	p := opts.Paths

	logger.Debug().
		Str("tag", "INIT").
		Str("toolkit", p.ToolkitRoot()).
		Str("target", p.TargetDir()).
		Str("mode", string(opts.Mode)).
		Bool("dryRun", opts.DryRun).
		Msg("starting")

	out.Title(fmt.Sprintf("AI Toolkit Setup (%s)", runLabel(opts.DryRun)))

	manifestPath, ok := p.ManifestPath()
	if !ok {
		return nil, errors.Newf(errors.ErrManifestNotFound, "Manifest not found: %s", manifestPath).
			WithDetail("path", manifestPath)
	}

	if !opts.DryRun {
		if err := fsys.MkdirAll(p.TargetDir(), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", p.TargetDir())
		}
	}

	strategy := opts.Strategy
	if strategy == "" {
		var err error
		strategy, err = linker.DetectStrategy(probeFS, p.ScratchDir())
		if err != nil {
			return nil, err
		}
	}
	logger.Debug().Str("tag", "INIT").Str("strategy", string(strategy)).Msg("link strategy selected")
	if strategy == types.StrategyWindowsFallback {
		out.Message(FallbackNote)
		out.Message("")
	}

	m, err := manifest.Load(fsys, manifestPath)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun && opts.Config.Lock.Enabled {
		unlock, err := ledger.AcquireLock(ctx, p.LockPath(), opts.Config.Lock.Timeout)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	l := ledger.Load(fsys, p.LedgerPath())
	engine := NewEngine(EngineOptions{
		FS:       fsys,
		Paths:    p,
		Strategy: strategy,
		Ledger:   l,
		Reporter: out,
		DryRun:   opts.DryRun,
	})

	summary := &Summary{Strategy: strategy}

	managed, err := regexp.Compile(opts.Config.Settings.ManagedCommandPattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid settings.managed_command_pattern")
	}
	merger := settings.New(fsys, out, settings.Options{
		Path:          p.SettingsPath(),
		Managed:       managed,
		RewritePython: opts.Config.Settings.RewritePythonHere(),
		DryRun:        opts.DryRun,
	})

	switch opts.Mode {
	case types.ModeInstall:
		engine.Install(m)
		out.Section("Settings.json")
		summary.Settings, err = merger.Install(m.ExpectedHooks)
		out.EndSection()
	case types.ModeUninstall:
		engine.Uninstall()
		out.Section("Settings.json")
		summary.Settings, err = merger.Uninstall()
		out.EndSection()
	case types.ModeDetach:
		engine.Detach()
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown mode %q", opts.Mode)
	}
	if err != nil {
		logger.Debug().Err(err).Msg("settings merge did not complete")
	}
	logger.Debug().Str("tag", "SETTINGS").Stringer("result", summary.Settings).Msg("settings reconciled")

	if !opts.DryRun && (l.Dirty() || l.Len() == 0) {
		if err := l.Save(); err != nil {
			out.Message("WARNING: " + errors.Message(err))
		}
	}
	summary.Entries = l.Len()

	if !opts.DryRun {
		switch opts.Mode {
		case types.ModeUninstall:
			out.Message(fmt.Sprintf("Uninstall complete. Source repo at %s still exists.", p.ToolkitRoot()))
		case types.ModeDetach:
			out.Message(fmt.Sprintf("Detach complete. %s is no longer needed by %s.", p.ToolkitRoot(), p.TargetDir()))
		}
	}

	logger.Debug().Str("tag", "DONE").Int("entries", summary.Entries).Msg("finished")
	out.Message("Done.")
	return summary, nil
}

func runLabel(dryRun bool) string {
	if dryRun {
		return "dry run"
	}
	return "apply"
}
