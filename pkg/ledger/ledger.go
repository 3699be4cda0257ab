// Package ledger persists the set of targets aitk created, so later runs can
// tell managed entries apart from the user's own files even when the link
// itself carries no ownership information (hard links, copies).
package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/jsondoc"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/types"
)

type fileFormat struct {
	Entries []types.ManagedEntry `json:"entries"`
}

// Ledger is the ordered list of managed entries, unique by target
type Ledger struct {
	fs      types.FS
	path    string
	entries []types.ManagedEntry
	dirty   bool
}

// New returns an empty ledger bound to path
func New(fsys types.FS, path string) *Ledger {
	return &Ledger{fs: fsys, path: path}
}

// Load reads the ledger at path. A missing file is an empty ledger; so is a
// corrupt one, with a warning, since the live links remain the primary
// source of truth for symlinks and junctions.
func Load(fsys types.FS, path string) *Ledger {
	logger := logging.GetLogger("ledger")
	l := New(fsys, path)

	data, err := fsys.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", path).Msg("cannot read ledger, treating as empty")
		}
		return l
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("ledger is corrupt, treating as empty")
		return l
	}

	for _, e := range f.Entries {
		if e.Target == "" {
			continue
		}
		l.put(e)
	}
	l.dirty = false

	logger.Debug().Str("tag", "STATE").Int("entries", len(l.entries)).Str("path", path).Msg("ledger loaded")
	return l
}

// Path returns the file backing the ledger
func (l *Ledger) Path() string {
	return l.path
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in insertion order
func (l *Ledger) Entries() []types.ManagedEntry {
	out := make([]types.ManagedEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Has reports whether target is recorded
func (l *Ledger) Has(target string) bool {
	return l.index(target) >= 0
}

// Get returns the entry for target
func (l *Ledger) Get(target string) (types.ManagedEntry, bool) {
	i := l.index(target)
	if i < 0 {
		return types.ManagedEntry{}, false
	}
	return l.entries[i], true
}

// Add records an entry, replacing any previous entry for the same target
func (l *Ledger) Add(e types.ManagedEntry) {
	l.put(e)
}

// Remove erases the entry for target. Unknown targets are ignored.
func (l *Ledger) Remove(target string) bool {
	i := l.index(target)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	l.dirty = true
	return true
}

// Dirty reports whether the ledger changed since it was loaded or saved
func (l *Ledger) Dirty() bool {
	return l.dirty
}

// Save persists the ledger. An empty ledger deletes its file so an
// uninstalled configuration directory carries no trace of aitk.
func (l *Ledger) Save() error {
	logger := logging.GetLogger("ledger")

	if len(l.entries) == 0 {
		if err := l.fs.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrLedgerWrite, "cannot delete empty ledger %s", l.path)
		}
		l.dirty = false
		logger.Debug().Str("tag", "STATE").Str("path", l.path).Msg("empty ledger removed")
		return nil
	}

	data, err := jsondoc.Format(fileFormat{Entries: l.entries})
	if err != nil {
		return errors.Wrap(err, errors.ErrLedgerWrite, "cannot encode ledger")
	}

	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(l.path))
	}
	if err := l.fs.WriteFileAtomic(l.path, data); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerWrite, "cannot write ledger %s", l.path).WithDetail("path", l.path)
	}

	l.dirty = false
	logger.Debug().Str("tag", "STATE").Int("entries", len(l.entries)).Str("path", l.path).Msg("ledger saved")
	return nil
}

func (l *Ledger) put(e types.ManagedEntry) {
	e.Target = filepath.Clean(e.Target)
	if i := l.index(e.Target); i >= 0 {
		if l.entries[i] != e {
			l.entries[i] = e
			l.dirty = true
		}
		return
	}
	l.entries = append(l.entries, e)
	l.dirty = true
}

func (l *Ledger) index(target string) int {
	target = filepath.Clean(target)
	for i, e := range l.entries {
		if e.Target == target {
			return i
		}
	}
	return -1
}
