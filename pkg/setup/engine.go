package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/filesystem"
	"github.com/arthur-debert/aitk/pkg/ledger"
	"github.com/arthur-debert/aitk/pkg/linker"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/paths"
	"github.com/arthur-debert/aitk/pkg/report"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/rs/zerolog"
)

// Engine decides and performs the per-item actions of one run
type Engine struct {
	fs       types.FS
	paths    paths.Paths
	linker   *linker.Operator
	ledger   *ledger.Ledger
	reporter report.Reporter
	dryRun   bool
	logger   zerolog.Logger
}

// EngineOptions wires an Engine
type EngineOptions struct {
	FS       types.FS
	Paths    paths.Paths
	Strategy types.LinkStrategy
	Ledger   *ledger.Ledger
	Reporter report.Reporter
	DryRun   bool
}

// NewEngine returns an Engine
func NewEngine(opts EngineOptions) *Engine {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.Discard{}
	}
	return &Engine{
		fs:       opts.FS,
		paths:    opts.Paths,
		linker:   linker.NewOperator(opts.FS, opts.Strategy, opts.Paths.ToolkitRoot()),
		ledger:   opts.Ledger,
		reporter: reporter,
		dryRun:   opts.DryRun,
		logger:   logging.GetLogger("setup"),
	}
}

// Install links every declared item of every catalog
func (e *Engine) Install(m *types.Manifest) {
	defer logging.LogOperationStart(e.logger, "install")()

	for _, c := range types.Catalogs {
		e.reporter.Section(c.Title())
		for _, item := range m.Items(c) {
			if !item.Install {
				continue
			}
			e.InstallItem(c, item.Name)
		}
		e.reporter.EndSection()
	}
}

// InstallItem links one item unless the target is foreign content
func (e *Engine) InstallItem(c types.Catalog, name string) types.Status {
	source := e.paths.SourcePath(c, name)
	target := e.paths.TargetPath(c, name)
	isDir := c.IsDir()

	if !e.sourcePresent(source, isDir) {
		e.warn("", errors.Newf(errors.ErrSourceNotFound, "source not found: %s", source).WithDetail("item", name))
		return types.StatusWarning
	}

	obs := e.observe(source, target)
	state := Classify(obs)
	e.logger.Debug().Str("tag", "LINK").Str("name", name).Stringer("state", state).Msg("classified")

	switch state {
	case StateLinked, StateRecorded:
		e.reporter.Report(report.Event{Status: types.StatusCurrent, Name: name})
		return types.StatusCurrent

	case StateLocal:
		e.reporter.Report(report.Event{
			Status: types.StatusLocal,
			Name:   name,
			Detail: fmt.Sprintf("regular %s — not managed", e.kindOf(target)),
		})
		return types.StatusLocal

	case StateStale:
		if e.dryRun {
			e.reporter.Report(report.Event{Status: types.StatusRelinked, Name: name, DryRun: true})
			return types.StatusRelinked
		}
		if err := e.linker.Remove(target); err != nil {
			e.warn(name, err)
			return types.StatusWarning
		}
		e.ledger.Remove(target)
		if !e.link(source, target, isDir, name) {
			return types.StatusWarning
		}
		e.reporter.Report(report.Event{Status: types.StatusRelinked, Name: name})
		return types.StatusRelinked

	default:
		if e.dryRun {
			e.reporter.Report(report.Event{Status: types.StatusCreated, Name: name, Source: source, DryRun: true})
			return types.StatusCreated
		}
		if !e.link(source, target, isDir, name) {
			return types.StatusWarning
		}
		e.reporter.Report(report.Event{Status: types.StatusCreated, Name: name})
		return types.StatusCreated
	}
}

// Uninstall removes every managed entry found under the catalog target
// directories, whether or not the manifest still declares it
func (e *Engine) Uninstall() {
	defer logging.LogOperationStart(e.logger, "uninstall")()

	for _, c := range types.Catalogs {
		e.reporter.Section(c.Title())
		for _, target := range e.liveTargets(c) {
			e.RemoveTarget(target)
		}
		e.reporter.EndSection()
	}
	e.pruneLedger()
}

// RemoveTarget removes target when it is managed
func (e *Engine) RemoveTarget(target string) types.Status {
	name := filepath.Base(target)

	if !e.linker.IsManaged(target, e.ledger) {
		e.logger.Debug().Str("tag", "LINK").Str("name", name).Msg("skip, not managed")
		e.reporter.Report(report.Event{Status: types.StatusSkip, Name: name, Detail: "not managed"})
		return types.StatusSkip
	}

	if e.dryRun {
		e.reporter.Report(report.Event{Status: types.StatusRemoved, Name: name, DryRun: true})
		return types.StatusRemoved
	}

	if err := e.linker.Remove(target); err != nil {
		e.warn(name, err)
		return types.StatusWarning
	}
	e.ledger.Remove(target)
	e.reporter.Report(report.Event{Status: types.StatusRemoved, Name: name})
	return types.StatusRemoved
}

// Detach replaces every managed link with an independent copy of its source
func (e *Engine) Detach() {
	defer logging.LogOperationStart(e.logger, "detach")()

	for _, c := range types.Catalogs {
		e.reporter.Section(c.Title())
		for _, target := range e.detachTargets(c) {
			e.DetachTarget(target)
		}
		e.reporter.EndSection()
	}
	e.pruneLedger()
}

// DetachTarget converts one managed target into a plain copy
func (e *Engine) DetachTarget(target string) types.Status {
	name := filepath.Base(target)

	if !e.linker.IsManaged(target, e.ledger) {
		e.reporter.Report(report.Event{Status: types.StatusSkip, Name: name, Detail: "not managed"})
		return types.StatusSkip
	}

	source, ok := e.detachSource(target)
	if !ok {
		e.warn(name, errors.New(errors.ErrDetachSource, "cannot locate source to detach from").WithDetail("target", target))
		return types.StatusWarning
	}
	if _, err := e.fs.Stat(source); err != nil {
		e.warn(name, errors.Newf(errors.ErrDetachSource, "source not found: %s", source).
			WithDetail("target", target).
			WithDetail("cause", err.Error()))
		return types.StatusWarning
	}

	// A recorded hard link that no longer shares the source's inode still
	// gets a fresh copy of the current source. Any other plain target has
	// nothing left to detach.
	entry, _ := e.ledger.Get(target)
	recordedHardlink := entry.Type == types.LinkHardlink
	if !recordedHardlink && !e.linker.IsLink(target) && !e.linker.SameInode(target, source) {
		e.ledger.Remove(target)
		e.reporter.Report(report.Event{Status: types.StatusDetached, Name: name, Detail: "already a copy", DryRun: e.dryRun})
		return types.StatusDetached
	}

	if e.dryRun {
		e.reporter.Report(report.Event{Status: types.StatusDetached, Name: name, DryRun: true})
		return types.StatusDetached
	}

	if err := e.replaceWithCopy(source, target); err != nil {
		e.warn(name, err)
		return types.StatusWarning
	}
	e.ledger.Remove(target)
	e.logger.Debug().Str("tag", "LINK").Str("name", name).Str("source", source).Msg("detached")
	e.reporter.Report(report.Event{Status: types.StatusDetached, Name: name})
	return types.StatusDetached
}

// replaceWithCopy copies source next to target, then swaps it in. The copy
// is written before the link goes away so a failed copy leaves the link.
func (e *Engine) replaceWithCopy(source, target string) error {
	tmp := filepath.Join(filepath.Dir(target), fmt.Sprintf(".%s.detach-%d", filepath.Base(target), os.Getpid()))
	if err := e.fs.RemoveAll(tmp); err != nil {
		return errors.Wrapf(err, errors.ErrDetachCopy, "cannot clear %s", tmp)
	}
	if err := filesystem.Copy(e.fs, source, tmp); err != nil {
		_ = e.fs.RemoveAll(tmp)
		return errors.Wrapf(err, errors.ErrDetachCopy, "cannot copy %s", source).WithDetail("target", target)
	}
	if err := e.linker.Remove(target); err != nil {
		_ = e.fs.RemoveAll(tmp)
		return err
	}
	if err := e.fs.Rename(tmp, target); err != nil {
		return errors.Wrapf(err, errors.ErrDetachCopy, "cannot move copy into place at %s", target)
	}
	return nil
}

func (e *Engine) detachSource(target string) (string, bool) {
	if e.linker.IsLink(target) {
		if resolved, err := e.linker.Resolve(target); err == nil {
			return resolved, true
		}
	}
	if entry, ok := e.ledger.Get(target); ok && entry.Source != "" {
		return entry.Source, true
	}
	return "", false
}

// detachTargets is the sorted union of live entries and ledger entries
// recorded under the catalog directory
func (e *Engine) detachTargets(c types.Catalog) []string {
	seen := make(map[string]bool)
	var targets []string
	for _, t := range e.liveTargets(c) {
		seen[t] = true
		targets = append(targets, t)
	}

	dir := e.paths.TargetSubdir(c)
	for _, entry := range e.ledger.Entries() {
		if seen[entry.Target] || filepath.Dir(entry.Target) != dir {
			continue
		}
		if !e.linker.Exists(entry.Target) {
			continue
		}
		seen[entry.Target] = true
		targets = append(targets, entry.Target)
	}
	sort.Strings(targets)
	return targets
}

func (e *Engine) liveTargets(c types.Catalog) []string {
	dir := e.paths.TargetSubdir(c)
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Warn().Err(err).Str("dir", dir).Msg("cannot list managed directory")
		}
		return nil
	}

	targets := make([]string, 0, len(entries))
	for _, entry := range entries {
		targets = append(targets, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(targets)
	return targets
}

// pruneLedger drops entries whose targets are gone
func (e *Engine) pruneLedger() {
	for _, entry := range e.ledger.Entries() {
		if e.linker.Exists(entry.Target) {
			continue
		}
		e.ledger.Remove(entry.Target)
		e.logger.Debug().Str("tag", "STATE").Str("target", entry.Target).Msg("pruned stale ledger entry")
	}
}

func (e *Engine) link(source, target string, isDir bool, name string) bool {
	linkType, err := e.linker.Create(source, target, isDir)
	if err != nil {
		e.warn(name, err)
		return false
	}
	e.ledger.Add(types.ManagedEntry{Type: linkType, Target: target, Source: source})
	return true
}

func (e *Engine) observe(source, target string) Observation {
	obs := Observation{
		Exists: e.linker.Exists(target),
		IsLink: e.linker.IsLink(target),
	}
	if obs.IsLink {
		obs.ResolvesIntoRoot = e.linker.ResolvesIntoRoot(target)
	}
	if entry, ok := e.ledger.Get(target); ok {
		obs.InLedger = true
		obs.RecordedHardlink = entry.Type == types.LinkHardlink
		if obs.RecordedHardlink {
			obs.SameInode = e.linker.SameInode(target, source)
		}
	}
	return obs
}

func (e *Engine) sourcePresent(source string, isDir bool) bool {
	info, err := e.fs.Stat(source)
	if err != nil {
		return false
	}
	return info.IsDir() == isDir
}

func (e *Engine) kindOf(target string) string {
	info, err := e.fs.Lstat(target)
	if err == nil && info.IsDir() {
		return "directory"
	}
	return "file"
}

func (e *Engine) warn(name string, err error) {
	msg := errors.Message(err)
	e.logger.Debug().Err(err).Str("tag", "LINK").Str("name", name).Str("code", string(errors.GetErrorCode(err))).Msg(msg)
	e.reporter.Report(report.Event{Status: types.StatusWarning, Name: name, Detail: msg})
}
