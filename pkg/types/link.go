package types

// LinkType is the physical mechanism backing a managed target
type LinkType string

const (
	LinkSymlink  LinkType = "symlink"
	LinkJunction LinkType = "junction"
	LinkHardlink LinkType = "hardlink"
)

// Valid reports whether t is one of the known link types
func (t LinkType) Valid() bool {
	switch t {
	case LinkSymlink, LinkJunction, LinkHardlink:
		return true
	}
	return false
}

// LinkStrategy is the platform capability picked once per run
type LinkStrategy string

const (
	// StrategySymlink uses native symlinks for files and directories
	StrategySymlink LinkStrategy = "symlink"

	// StrategyWindowsFallback uses directory junctions for directories
	// and hard links for files
	StrategyWindowsFallback LinkStrategy = "windows-fallback"
)

// LinkTypeFor returns the mechanism the strategy uses for a given kind of target
func (s LinkStrategy) LinkTypeFor(isDir bool) LinkType {
	if s == StrategyWindowsFallback {
		if isDir {
			return LinkJunction
		}
		return LinkHardlink
	}
	return LinkSymlink
}

// ManagedEntry records one target created by aitk
type ManagedEntry struct {
	Type   LinkType `json:"type"`
	Target string   `json:"target"`
	Source string   `json:"source"`
}
