package linker

import (
	"github.com/arthur-debert/aitk/pkg/types"
)

// Mechanism is one physical way of exposing a source at a target path
type Mechanism interface {
	Type() types.LinkType
	Create(source, target string) error
	Remove(target string) error
}

type symlinkMechanism struct{ fs types.FS }

func (m symlinkMechanism) Type() types.LinkType { return types.LinkSymlink }

func (m symlinkMechanism) Create(source, target string) error {
	return m.fs.Symlink(source, target)
}

func (m symlinkMechanism) Remove(target string) error {
	return m.fs.Remove(target)
}

type junctionMechanism struct{ fs types.FS }

func (m junctionMechanism) Type() types.LinkType { return types.LinkJunction }

func (m junctionMechanism) Create(source, target string) error {
	return createJunction(source, target)
}

func (m junctionMechanism) Remove(target string) error {
	return removeJunction(m.fs, target)
}

type hardlinkMechanism struct{ fs types.FS }

func (m hardlinkMechanism) Type() types.LinkType { return types.LinkHardlink }

func (m hardlinkMechanism) Create(source, target string) error {
	return m.fs.Link(source, target)
}

// Remove unlinks the target name. The source keeps its inode.
func (m hardlinkMechanism) Remove(target string) error {
	return m.fs.Remove(target)
}

// MechanismFor returns the mechanism backing a link type
func MechanismFor(fs types.FS, t types.LinkType) Mechanism {
	switch t {
	case types.LinkJunction:
		return junctionMechanism{fs: fs}
	case types.LinkHardlink:
		return hardlinkMechanism{fs: fs}
	default:
		return symlinkMechanism{fs: fs}
	}
}
