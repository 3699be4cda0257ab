// Package settings merges the toolkit's hook registrations into the shared
// settings.json and removes them again. Only the top-level "hooks" object is
// ever modified; every other key, and every hook entry the toolkit did not
// create, is written back unchanged and in its original order.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/jsondoc"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/report"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultManagedPattern matches the commands the toolkit registers
const DefaultManagedPattern = `^(bash|python3?) ~/\.claude/hooks/\S+\.(sh|py)$`

const hooksKey = "hooks"

// Options configures a Merger
type Options struct {
	// Path of settings.json
	Path string
	// Managed identifies toolkit-owned commands. Nil means DefaultManagedPattern.
	Managed *regexp.Regexp
	// RewritePython replaces "python3 " with "python " in expected entries
	RewritePython bool
	DryRun        bool
}

// Result summarizes one merge
type Result struct {
	Added   int
	Current int
	Removed int
	Written bool
}

// Changed reports whether the merge altered (or would alter) the document
func (r Result) Changed() bool {
	return r.Added > 0 || r.Removed > 0
}

// Merger reconciles settings.json with the expected hook registrations
type Merger struct {
	fs       types.FS
	reporter report.Reporter
	opts     Options
	logger   zerolog.Logger
}

// New returns a Merger
func New(fsys types.FS, reporter report.Reporter, opts Options) *Merger {
	if opts.Managed == nil {
		opts.Managed = regexp.MustCompile(DefaultManagedPattern)
	}
	return &Merger{fs: fsys, reporter: reporter, opts: opts, logger: logging.GetLogger("settings")}
}

// load returns the parsed document. A nil document with a nil error means
// the file is missing, which has already been reported.
func (m *Merger) load(missingMsg string, missingIsWarning bool) (*jsondoc.Object, error) {
	data, err := m.fs.ReadFile(m.opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if missingIsWarning {
				m.reporter.Report(report.Event{Status: types.StatusWarning, Detail: missingMsg})
			} else {
				m.reporter.Note(missingMsg)
			}
			return nil, nil
		}
		return nil, m.parseFailed(err)
	}

	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, m.parseFailed(err)
	}
	return doc, nil
}

// parseFailed reports an unusable settings.json and returns the coded error.
// The document is left untouched.
func (m *Merger) parseFailed(cause error) error {
	err := errors.Wrap(cause, errors.ErrSettingsParse, "could not parse settings.json").
		WithDetail("path", m.opts.Path)
	m.logger.Debug().Err(err).Str("tag", "SETTINGS").Str("path", m.opts.Path).Msg("settings.json unusable")
	m.reporter.Report(report.Event{Status: types.StatusWarning, Detail: err.Message + " — " + cause.Error()})
	return err
}

// hooksOf returns the hooks object, or an empty one when the key is absent.
// A non-object value is reported as a parse failure.
func (m *Merger) hooksOf(doc *jsondoc.Object) (*jsondoc.Object, bool, error) {
	hooks, present, err := doc.GetObject(hooksKey)
	if err != nil {
		return nil, true, m.parseFailed(fmt.Errorf("%q is not an object", hooksKey))
	}
	if !present {
		return jsondoc.NewObject(), false, nil
	}
	return hooks, true, nil
}

// Install appends every expected entry whose command is not yet registered
// for its event
func (m *Merger) Install(expected types.ExpectedHooks) (Result, error) {
	defer logging.LogOperationStart(m.logger, "settings.install")()
	var res Result

	doc, err := m.load("settings.json not found — skipping", true)
	if doc == nil {
		return res, err
	}
	hooks, _, err := m.hooksOf(doc)
	if err != nil {
		return res, err
	}

	for _, ev := range expected {
		entries, ok := m.eventEntries(hooks, ev.Event)
		if !ok {
			continue
		}

		existing := make(map[string]bool)
		for _, e := range entries {
			for _, cmd := range commandsOf(e) {
				existing[cmd] = true
			}
		}

		appended := false
		for _, entry := range ev.Entries {
			if m.opts.RewritePython {
				entry = rewritePython(entry)
			}
			cmds := commandsOf(entry)
			if len(cmds) == 0 {
				m.reporter.Report(report.Event{Status: types.StatusWarning, Name: ev.Event, Detail: "expected entry has no command"})
				continue
			}
			cmd := cmds[0]
			name := ev.Event + ":" + cmd

			if existing[cmd] {
				res.Current++
				m.reporter.Report(report.Event{Status: types.StatusCurrent, Name: name})
				continue
			}

			res.Added++
			existing[cmd] = true
			entries = append(entries, entry)
			appended = true
			m.reporter.Report(report.Event{Status: types.StatusAdded, Name: name, DryRun: m.opts.DryRun})
		}

		if appended {
			if err := setEntries(hooks, ev.Event, entries); err != nil {
				return res, errors.Wrap(err, errors.ErrInternal, "cannot encode hook entries")
			}
		}
	}

	if !res.Changed() {
		return res, nil
	}
	if err := doc.SetObject(hooksKey, hooks); err != nil {
		return res, errors.Wrap(err, errors.ErrInternal, "cannot encode hooks")
	}
	return m.write(doc, res)
}

// Uninstall drops every entry whose commands are all toolkit-managed. An
// entry mixing managed and foreign commands is left as it is.
func (m *Merger) Uninstall() (Result, error) {
	defer logging.LogOperationStart(m.logger, "settings.uninstall")()
	var res Result

	doc, err := m.load("No settings.json — nothing to do", false)
	if doc == nil {
		return res, err
	}
	hooks, present, err := m.hooksOf(doc)
	if err != nil {
		return res, err
	}
	if !present {
		m.reporter.Note("No managed entries found")
		return res, nil
	}

	for _, event := range hooks.Keys() {
		raw, _ := hooks.Get(event)
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			m.logger.Warn().Str("event", event).Msg("hook registrations are not a list, leaving untouched")
			continue
		}

		kept := make([]json.RawMessage, 0, len(entries))
		for _, entry := range entries {
			if !m.isManaged(entry) {
				kept = append(kept, entry)
				continue
			}
			res.Removed++
			m.reporter.Report(report.Event{
				Status: types.StatusRemoved,
				Name:   event + ":" + commandsOf(entry)[0],
				DryRun: m.opts.DryRun,
			})
		}

		if len(kept) == len(entries) {
			continue
		}
		if len(kept) == 0 {
			hooks.Delete(event)
			continue
		}
		if err := setEntries(hooks, event, kept); err != nil {
			return res, errors.Wrap(err, errors.ErrInternal, "cannot encode hook entries")
		}
	}

	if !res.Changed() {
		m.reporter.Note("No managed entries found")
		return res, nil
	}

	if hooks.Len() == 0 {
		doc.Delete(hooksKey)
	} else if err := doc.SetObject(hooksKey, hooks); err != nil {
		return res, errors.Wrap(err, errors.ErrInternal, "cannot encode hooks")
	}
	return m.write(doc, res)
}

// isManaged reports whether every command of entry is toolkit-owned
func (m *Merger) isManaged(entry json.RawMessage) bool {
	cmds := commandsOf(entry)
	if len(cmds) == 0 {
		return false
	}
	for _, cmd := range cmds {
		if !m.opts.Managed.MatchString(cmd) {
			return false
		}
	}
	return true
}

func (m *Merger) eventEntries(hooks *jsondoc.Object, event string) ([]json.RawMessage, bool) {
	raw, ok := hooks.Get(event)
	if !ok {
		return nil, true
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		m.reporter.Report(report.Event{Status: types.StatusWarning, Name: event, Detail: "hook registrations are not a list"})
		return nil, false
	}
	return entries, true
}

func (m *Merger) write(doc *jsondoc.Object, res Result) (Result, error) {
	if m.opts.DryRun {
		return res, nil
	}

	data, err := jsondoc.Format(doc)
	if err != nil {
		return res, errors.Wrap(err, errors.ErrSettingsWrite, "cannot encode settings.json")
	}
	if err := m.fs.WriteFileAtomic(m.opts.Path, data); err != nil {
		m.reporter.Report(report.Event{Status: types.StatusWarning, Detail: "could not write settings.json — " + err.Error()})
		return res, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot write %s", m.opts.Path).WithDetail("path", m.opts.Path)
	}

	res.Written = true
	m.logger.Debug().Str("tag", "SETTINGS").Str("path", m.opts.Path).Msg("settings written")
	m.reporter.Note("settings.json updated")
	return res, nil
}

func setEntries(hooks *jsondoc.Object, event string, entries []json.RawMessage) error {
	if entries == nil {
		entries = []json.RawMessage{}
	}
	raw, err := jsondoc.Marshal(entries)
	if err != nil {
		return err
	}
	hooks.Set(event, raw)
	return nil
}

type entryShape struct {
	Hooks []json.RawMessage `json:"hooks"`
}

// commandsOf lists the command of every hook in an entry. Hooks without a
// string command contribute an empty string so they still count as foreign.
func commandsOf(entry json.RawMessage) []string {
	var shape entryShape
	if err := json.Unmarshal(entry, &shape); err != nil {
		return nil
	}
	cmds := make([]string, 0, len(shape.Hooks))
	for _, h := range shape.Hooks {
		cmd, _ := jsondoc.Field(h, "command")
		cmds = append(cmds, cmd)
	}
	return cmds
}

func rewritePython(entry json.RawMessage) json.RawMessage {
	return bytes.ReplaceAll(entry, []byte("python3 "), []byte("python "))
}

// String is used in debug logs
func (r Result) String() string {
	return fmt.Sprintf("added=%d current=%d removed=%d written=%t", r.Added, r.Current, r.Removed, r.Written)
}
