// pkg/types/types_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test link, catalog and status vocabulary

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkType_Valid(t *testing.T) {
	assert.True(t, LinkSymlink.Valid())
	assert.True(t, LinkJunction.Valid())
	assert.True(t, LinkHardlink.Valid())
	assert.False(t, LinkType("copy").Valid())
	assert.False(t, LinkType("").Valid())
}

func TestLinkStrategy_LinkTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		strategy LinkStrategy
		isDir    bool
		want     LinkType
	}{
		{"symlink dir", StrategySymlink, true, LinkSymlink},
		{"symlink file", StrategySymlink, false, LinkSymlink},
		{"fallback dir", StrategyWindowsFallback, true, LinkJunction},
		{"fallback file", StrategyWindowsFallback, false, LinkHardlink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.strategy.LinkTypeFor(tt.isDir))
		})
	}
}

func TestManagedEntry_JSONShape(t *testing.T) {
	entry := ManagedEntry{Type: LinkJunction, Target: "/h/.claude/skills/a", Source: "/t/skills/a"}

	data, err := json.Marshal(entry)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"junction","target":"/h/.claude/skills/a","source":"/t/skills/a"}`, string(data))
}

func TestCatalog(t *testing.T) {
	assert.True(t, CatalogSkills.IsDir())
	assert.False(t, CatalogHooks.IsDir())
	assert.Equal(t, "Skills", CatalogSkills.Title())
	assert.Equal(t, "Hooks", CatalogHooks.Title())
	assert.Equal(t, []Catalog{CatalogSkills, CatalogHooks}, Catalogs)
}

func TestManifest_Items(t *testing.T) {
	m := &Manifest{
		Skills: []DeclaredItem{{Name: "a", Install: true}},
		Hooks:  []DeclaredItem{{Name: "h.sh", Event: "Stop"}},
	}

	assert.Equal(t, m.Skills, m.Items(CatalogSkills))
	assert.Equal(t, m.Hooks, m.Items(CatalogHooks))
	assert.Nil(t, m.Items(Catalog("agents")))
}

func TestExpectedHooks_Len(t *testing.T) {
	hooks := ExpectedHooks{
		{Event: "Stop", Entries: []json.RawMessage{json.RawMessage(`{}`), json.RawMessage(`{}`)}},
		{Event: "PreToolUse", Entries: []json.RawMessage{json.RawMessage(`{}`)}},
	}
	assert.Equal(t, 3, hooks.Len())
	assert.Equal(t, 0, ExpectedHooks(nil).Len())
}

func TestStatus_Mutates(t *testing.T) {
	mutating := []Status{StatusCreated, StatusRelinked, StatusRemoved, StatusDetached, StatusAdded}
	for _, s := range mutating {
		assert.True(t, s.Mutates(), s)
	}

	quiet := []Status{StatusCurrent, StatusSkip, StatusLocal, StatusWarning}
	for _, s := range quiet {
		assert.False(t, s.Mutates(), s)
	}
}
