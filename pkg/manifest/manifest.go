// Package manifest reads the toolkit's environment manifest: which skills
// and hooks exist, whether each should be installed, and which settings.json
// hook registrations the toolkit expects. Only this package knows the
// manifest's textual shape. Markdown (environment.md) is the canonical
// format; YAML is accepted for toolkits generated by other tools.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/jsondoc"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/types"
)

// Reader turns manifest bytes into a Manifest
type Reader interface {
	Read(src []byte) (*types.Manifest, error)
}

// ReaderFor picks a reader by file extension. Anything that is not YAML is
// read as markdown.
func ReaderFor(path string) Reader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLReader{}
	default:
		return MarkdownReader{}
	}
}

// Load reads and parses the manifest at path
func Load(fsys types.FS, path string) (*types.Manifest, error) {
	src, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrManifestNotFound, "manifest not found: %s", path).WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "cannot read manifest %s", path).WithDetail("path", path)
	}

	m, err := ReaderFor(path).Read(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "cannot parse manifest %s", path).WithDetail("path", path)
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().
		Str("tag", "MANIFEST").
		Str("path", path).
		Int("skills", len(m.Skills)).
		Int("hooks", len(m.Hooks)).
		Int("settingsEntries", m.ExpectedHooks.Len()).
		Msg("manifest loaded")
	return m, nil
}

// installFlag interprets an Install cell: true iff it starts with "yes"
func installFlag(cell string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(cell)), "yes")
}

// expectedFromObject converts the "hooks" object of a settings fragment into
// ExpectedHooks, keeping event and entry order. Events whose value is not an
// array are skipped.
func expectedFromObject(hooks *jsondoc.Object) types.ExpectedHooks {
	logger := logging.GetLogger("manifest")
	var out types.ExpectedHooks
	for _, event := range hooks.Keys() {
		raw, _ := hooks.Get(event)
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			logger.Warn().Str("event", event).Msg("hook registrations are not a list, skipping event")
			continue
		}
		out = append(out, types.EventHooks{Event: event, Entries: entries})
	}
	return out
}
