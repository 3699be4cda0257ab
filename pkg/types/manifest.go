package types

import (
	"encoding/json"
)

// Catalog names a kind of installable item
type Catalog string

const (
	CatalogSkills Catalog = "skills"
	CatalogHooks  Catalog = "hooks"
)

// Catalogs lists every catalog in processing order
var Catalogs = []Catalog{CatalogSkills, CatalogHooks}

// IsDir reports whether items of the catalog are directories
func (c Catalog) IsDir() bool {
	return c == CatalogSkills
}

// Title is the section heading used when reporting the catalog
func (c Catalog) Title() string {
	switch c {
	case CatalogSkills:
		return "Skills"
	case CatalogHooks:
		return "Hooks"
	default:
		return string(c)
	}
}

// DeclaredItem is one row of a manifest catalog
type DeclaredItem struct {
	Name    string
	Install bool

	// Event and Matcher are only present for hooks. They are carried
	// through from the manifest but never interpreted.
	Event   string
	Matcher string
}

// EventHooks holds the expected settings entries for one event, in
// manifest order. Entries are opaque JSON objects.
type EventHooks struct {
	Event   string
	Entries []json.RawMessage
}

// ExpectedHooks is the ordered set of settings entries the manifest declares
type ExpectedHooks []EventHooks

// Len returns the total number of entries across all events
func (e ExpectedHooks) Len() int {
	n := 0
	for _, ev := range e {
		n += len(ev.Entries)
	}
	return n
}

// Manifest is everything aitk consumes from the toolkit manifest
type Manifest struct {
	Skills        []DeclaredItem
	Hooks         []DeclaredItem
	ExpectedHooks ExpectedHooks
}

// Items returns the declared items of a catalog
func (m *Manifest) Items(c Catalog) []DeclaredItem {
	switch c {
	case CatalogSkills:
		return m.Skills
	case CatalogHooks:
		return m.Hooks
	default:
		return nil
	}
}
