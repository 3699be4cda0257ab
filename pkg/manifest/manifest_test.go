// pkg/manifest/manifest_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Memory FS
// PURPOSE: Test markdown and YAML manifest parsing

package manifest

import (
	"encoding/json"
	"testing"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/filesystem"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = "# Environment Manifest\n" +
	"\n" +
	"Prose the parser must ignore.\n" +
	"\n" +
	"## Skills\n" +
	"| Name | Install | Notes |\n" +
	"|------|---------|-------|\n" +
	"| review | yes | always |\n" +
	"| `draft` | Yes (recommended) | |\n" +
	"| experimental | no | later |\n" +
	"\n" +
	"## Hooks\n" +
	"| File | Install | Event | Matcher |\n" +
	"|------|---------|-------|---------|\n" +
	"| guard.py | yes | PreToolUse | Bash |\n" +
	"| format.sh | optional | PostToolUse | _(none)_ |\n" +
	"\n" +
	"## Other table\n" +
	"| Server | Port |\n" +
	"|--------|------|\n" +
	"| demo | 8080 |\n" +
	"\n" +
	"## Settings.json Hook Registrations\n" +
	"```json\n" +
	"{\n" +
	"  \"hooks\": {\n" +
	"    \"PreToolUse\": [\n" +
	"      {\"matcher\": \"Bash\", \"hooks\": [{\"type\": \"command\", \"command\": \"python3 ~/.claude/hooks/guard.py\"}]}\n" +
	"    ],\n" +
	"    \"PostToolUse\": [\n" +
	"      {\"hooks\": [{\"type\": \"command\", \"command\": \"bash ~/.claude/hooks/format.sh\"}]}\n" +
	"    ]\n" +
	"  }\n" +
	"}\n" +
	"```\n" +
	"\n" +
	"```json\n" +
	"{\"hooks\": {\"Ignored\": []}}\n" +
	"```\n"

func TestMarkdownReader(t *testing.T) {
	m, err := MarkdownReader{}.Read([]byte(sampleMarkdown))
	require.NoError(t, err)

	assert.Equal(t, []types.DeclaredItem{
		{Name: "review", Install: true},
		{Name: "draft", Install: true},
		{Name: "experimental", Install: false},
	}, m.Skills)

	assert.Equal(t, []types.DeclaredItem{
		{Name: "guard.py", Install: true, Event: "PreToolUse", Matcher: "Bash"},
		{Name: "format.sh", Install: false, Event: "PostToolUse", Matcher: "(none)"},
	}, m.Hooks)

	require.Len(t, m.ExpectedHooks, 2)
	assert.Equal(t, "PreToolUse", m.ExpectedHooks[0].Event)
	assert.Equal(t, "PostToolUse", m.ExpectedHooks[1].Event)
	require.Len(t, m.ExpectedHooks[0].Entries, 1)
	assert.JSONEq(t,
		`{"matcher": "Bash", "hooks": [{"type": "command", "command": "python3 ~/.claude/hooks/guard.py"}]}`,
		string(m.ExpectedHooks[0].Entries[0]))
}

func TestMarkdownReader_NoSettingsBlock(t *testing.T) {
	src := "| Name | Install |\n|---|---|\n| a | yes |\n"
	m, err := MarkdownReader{}.Read([]byte(src))
	require.NoError(t, err)
	assert.Len(t, m.Skills, 1)
	assert.Empty(t, m.Hooks)
	assert.Equal(t, 0, m.ExpectedHooks.Len())
}

func TestMarkdownReader_InvalidSettingsBlock(t *testing.T) {
	src := "```json\n{ not json\n```\n"
	m, err := MarkdownReader{}.Read([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 0, m.ExpectedHooks.Len())
}

func TestInstallFlag(t *testing.T) {
	tests := []struct {
		cell string
		want bool
	}{
		{"yes", true},
		{"YES", true},
		{" yes, by default", true},
		{"no", false},
		{"", false},
		{"maybe yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, installFlag(tt.cell))
		})
	}
}

const sampleYAML = `
skills:
  - name: review
    install: yes
  - name: experimental
    install: false
  - name: draft
    install: "Yes please"
hooks:
  - name: guard.py
    install: true
    event: PreToolUse
    matcher: Bash
settings:
  hooks:
    PreToolUse:
      - matcher: Bash
        hooks:
          - type: command
            command: python3 ~/.claude/hooks/guard.py
            timeout: 30
    Notification: []
`

func TestYAMLReader(t *testing.T) {
	m, err := YAMLReader{}.Read([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []types.DeclaredItem{
		{Name: "review", Install: true},
		{Name: "experimental", Install: false},
		{Name: "draft", Install: true},
	}, m.Skills)
	assert.Equal(t, []types.DeclaredItem{
		{Name: "guard.py", Install: true, Event: "PreToolUse", Matcher: "Bash"},
	}, m.Hooks)

	require.Len(t, m.ExpectedHooks, 2)
	assert.Equal(t, "PreToolUse", m.ExpectedHooks[0].Event)
	assert.Equal(t, "Notification", m.ExpectedHooks[1].Event)
	assert.Empty(t, m.ExpectedHooks[1].Entries)

	// mapping order survives the conversion
	assert.Equal(t,
		`{"matcher":"Bash","hooks":[{"type":"command","command":"python3 ~/.claude/hooks/guard.py","timeout":30}]}`,
		string(m.ExpectedHooks[0].Entries[0]))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(m.ExpectedHooks[0].Entries[0], &decoded))
}

func TestYAMLReader_Invalid(t *testing.T) {
	_, err := YAMLReader{}.Read([]byte("skills: [unclosed"))
	assert.Error(t, err)
}

func TestReaderFor(t *testing.T) {
	assert.IsType(t, YAMLReader{}, ReaderFor("/t/environment.yaml"))
	assert.IsType(t, YAMLReader{}, ReaderFor("/t/environment.YML"))
	assert.IsType(t, MarkdownReader{}, ReaderFor("/t/environment.md"))
	assert.IsType(t, MarkdownReader{}, ReaderFor("/t/environment"))
}

func TestLoad(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fsys.MkdirAll("/toolkit", 0755))
	require.NoError(t, fsys.WriteFile("/toolkit/environment.md", []byte(sampleMarkdown), 0644))
	require.NoError(t, fsys.WriteFile("/toolkit/environment.yaml", []byte("skills: [unclosed"), 0644))

	m, err := Load(fsys, "/toolkit/environment.md")
	require.NoError(t, err)
	assert.Len(t, m.Skills, 3)

	_, err = Load(fsys, "/toolkit/missing.md")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
	assert.True(t, errors.IsFatal(err))

	_, err = Load(fsys, "/toolkit/environment.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
}
