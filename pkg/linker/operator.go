package linker

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/paths"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/rs/zerolog"
)

// Owner answers whether a target is recorded as managed
type Owner interface {
	Has(target string) bool
}

// Operator performs link operations for one strategy and toolkit root
type Operator struct {
	fs       types.FS
	strategy types.LinkStrategy
	root     string
	logger   zerolog.Logger
}

// NewOperator returns an Operator. root must be the resolved toolkit root.
func NewOperator(fsys types.FS, strategy types.LinkStrategy, root string) *Operator {
	return &Operator{fs: fsys, strategy: strategy, root: root, logger: logging.GetLogger("linker")}
}

// Create links target to source, creating the target's parent first. The
// returned type is what the caller records in the ledger.
func (o *Operator) Create(source, target string, isDir bool) (types.LinkType, error) {
	linkType := o.strategy.LinkTypeFor(isDir)

	if err := o.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(target))
	}

	if err := MechanismFor(o.fs, linkType).Create(source, target); err != nil {
		return "", errors.Wrapf(err, errors.ErrLinkCreate, "cannot create %s %s -> %s", linkType, target, source).
			WithDetail("target", target).
			WithDetail("source", source).
			WithDetail("type", string(linkType))
	}

	o.logger.Debug().
		Str("tag", "LINK").
		Str("type", string(linkType)).
		Str("source", source).
		Str("target", target).
		Msg("link created")
	return linkType, nil
}

// Remove deletes target. Links are removed as links and never followed.
// Regular directories are removed recursively. An absent target is not an
// error.
func (o *Operator) Remove(target string) error {
	info, err := o.fs.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrLinkRemove, "cannot inspect %s", target)
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		err = MechanismFor(o.fs, types.LinkSymlink).Remove(target)
	case isJunction(o.fs, target, info):
		err = MechanismFor(o.fs, types.LinkJunction).Remove(target)
	case info.IsDir():
		err = o.fs.RemoveAll(target)
	default:
		err = o.fs.Remove(target)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrLinkRemove, "cannot remove %s", target).WithDetail("target", target)
	}

	o.logger.Debug().Str("tag", "LINK").Str("target", target).Msg("removed")
	return nil
}

// Exists reports whether anything, including a dangling link, is at target
func (o *Operator) Exists(target string) bool {
	_, err := o.fs.Lstat(target)
	return err == nil
}

// IsLink reports whether target is a symlink or a junction
func (o *Operator) IsLink(target string) bool {
	info, err := o.fs.Lstat(target)
	if err != nil {
		return false
	}
	return info.Mode()&fs.ModeSymlink != 0 || isJunction(o.fs, target, info)
}

// Resolve returns the fully resolved path a link points at. A dangling link
// resolves as far as its existing ancestors allow.
func (o *Operator) Resolve(target string) (string, error) {
	info, err := o.fs.Lstat(target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrLinkResolve, "cannot inspect %s", target)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := o.fs.EvalSymlinks(target); err == nil {
			return resolved, nil
		}
	} else if !isJunction(o.fs, target, info) {
		return "", errors.Newf(errors.ErrLinkResolve, "%s is not a link", target)
	}

	dest, err := o.fs.Readlink(target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrLinkResolve, "cannot read link %s", target)
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(target), dest)
	}
	if resolved, err := o.fs.EvalSymlinks(dest); err == nil {
		return resolved, nil
	}
	if parent, err := o.fs.EvalSymlinks(filepath.Dir(dest)); err == nil {
		return filepath.Join(parent, filepath.Base(dest)), nil
	}
	return filepath.Clean(dest), nil
}

// ResolvesIntoRoot reports whether target is a link whose destination lies
// inside the toolkit root
func (o *Operator) ResolvesIntoRoot(target string) bool {
	if !o.IsLink(target) {
		return false
	}
	resolved, err := o.Resolve(target)
	if err != nil {
		return false
	}
	return paths.IsWithin(o.root, resolved)
}

// IsManaged is the gate for every destructive action: target is a link into
// the toolkit root or is recorded by owner
func (o *Operator) IsManaged(target string, owner Owner) bool {
	if o.ResolvesIntoRoot(target) {
		return true
	}
	return owner != nil && owner.Has(target)
}

// SameInode reports whether a and b are the same file
func (o *Operator) SameInode(a, b string) bool {
	ai, err := o.fs.Stat(a)
	if err != nil {
		return false
	}
	bi, err := o.fs.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// Health is the observed condition of a ledger entry
type Health string

const (
	HealthOK       Health = "ok"
	HealthMissing  Health = "missing"
	HealthBroken   Health = "broken"
	HealthReplaced Health = "replaced"
	HealthDrifted  Health = "drifted"
)

// Inspect compares a ledger entry with the filesystem
func (o *Operator) Inspect(entry types.ManagedEntry) Health {
	if !o.Exists(entry.Target) {
		return HealthMissing
	}

	if entry.Type == types.LinkHardlink {
		if o.IsLink(entry.Target) {
			return HealthReplaced
		}
		if _, err := o.fs.Stat(entry.Source); err != nil {
			return HealthBroken
		}
		if !o.SameInode(entry.Target, entry.Source) {
			return HealthDrifted
		}
		return HealthOK
	}

	if !o.IsLink(entry.Target) {
		return HealthReplaced
	}
	resolved, err := o.Resolve(entry.Target)
	if err != nil {
		return HealthBroken
	}
	if _, err := o.fs.Stat(resolved); err != nil {
		return HealthBroken
	}
	source := entry.Source
	if s, err := o.fs.EvalSymlinks(source); err == nil {
		source = s
	}
	if resolved != source {
		return HealthDrifted
	}
	return HealthOK
}
