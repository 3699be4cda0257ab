// pkg/linker/linker_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: Real filesystem
// PURPOSE: Test link creation, removal and ownership checks

package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/filesystem"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOwner map[string]bool

func (f fakeOwner) Has(target string) bool { return f[target] }

type fixture struct {
	root   string
	target string
	op     *Operator
}

func newFixture(t *testing.T, strategy types.LinkStrategy) fixture {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	target, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	probe := filepath.Join(target, "probe")
	if err := os.Symlink(root, probe); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Remove(probe))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "skills", "alpha"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skills", "alpha", "SKILL.md"), []byte("# alpha\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "hooks"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hooks", "guard.sh"), []byte("#!/bin/sh\n"), 0755))

	return fixture{
		root:   root,
		target: target,
		op:     NewOperator(filesystem.NewOS(), strategy, root),
	}
}

func TestCreate_Symlink(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	source := filepath.Join(f.root, "skills", "alpha")
	target := filepath.Join(f.target, "skills", "alpha")

	linkType, err := f.op.Create(source, target, true)
	require.NoError(t, err)
	assert.Equal(t, types.LinkSymlink, linkType)

	assert.True(t, f.op.IsLink(target))
	resolved, err := f.op.Resolve(target)
	require.NoError(t, err)
	assert.Equal(t, source, resolved)
	assert.True(t, f.op.ResolvesIntoRoot(target))

	data, err := os.ReadFile(filepath.Join(target, "SKILL.md"))
	require.NoError(t, err)
	assert.Equal(t, "# alpha\n", string(data))
}

func TestCreate_ExistingTargetFails(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	target := filepath.Join(f.target, "hooks", "guard.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte("mine"), 0644))

	_, err := f.op.Create(filepath.Join(f.root, "hooks", "guard.sh"), target, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLinkCreate))
	assert.False(t, errors.IsFatal(err))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestCreate_HardlinkFallback(t *testing.T) {
	f := newFixture(t, types.StrategyWindowsFallback)
	source := filepath.Join(f.root, "hooks", "guard.sh")
	target := filepath.Join(f.target, "hooks", "guard.sh")

	linkType, err := f.op.Create(source, target, false)
	require.NoError(t, err)
	assert.Equal(t, types.LinkHardlink, linkType)

	assert.False(t, f.op.IsLink(target), "hard links are not detected as links")
	assert.True(t, f.op.SameInode(source, target))
	assert.False(t, f.op.ResolvesIntoRoot(target))

	entry := types.ManagedEntry{Type: types.LinkHardlink, Target: target, Source: source}
	assert.Equal(t, HealthOK, f.op.Inspect(entry))

	// replacing the source breaks inode identity
	require.NoError(t, os.Remove(source))
	require.NoError(t, os.WriteFile(source, []byte("#!/bin/sh\necho new\n"), 0755))
	assert.False(t, f.op.SameInode(source, target))
	assert.Equal(t, HealthDrifted, f.op.Inspect(entry))
}

func TestRemove_LinkKeepsSource(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	source := filepath.Join(f.root, "skills", "alpha")
	target := filepath.Join(f.target, "skills", "alpha")
	_, err := f.op.Create(source, target, true)
	require.NoError(t, err)

	require.NoError(t, f.op.Remove(target))

	assert.False(t, f.op.Exists(target))
	_, err = os.Stat(filepath.Join(source, "SKILL.md"))
	assert.NoError(t, err, "source content must survive link removal")
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	assert.NoError(t, f.op.Remove(filepath.Join(f.target, "nothing", "here")))
}

func TestRemove_RealDirectory(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	dir := filepath.Join(f.target, "skills", "copied")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "x"), []byte("x"), 0644))

	require.NoError(t, f.op.Remove(dir))
	assert.False(t, f.op.Exists(dir))
}

func TestResolve_DanglingLink(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	gone := filepath.Join(f.root, "skills", "removed-skill")
	target := filepath.Join(f.target, "skills", "removed-skill")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.Symlink(gone, target))

	resolved, err := f.op.Resolve(target)
	require.NoError(t, err)
	assert.Equal(t, gone, resolved)
	assert.True(t, f.op.ResolvesIntoRoot(target), "dangling links into the toolkit are still ours")

	entry := types.ManagedEntry{Type: types.LinkSymlink, Target: target, Source: gone}
	assert.Equal(t, HealthBroken, f.op.Inspect(entry))
}

func TestResolve_NotALink(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	_, err := f.op.Resolve(filepath.Join(f.root, "hooks", "guard.sh"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLinkResolve))
}

func TestIsManaged(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)

	ours := filepath.Join(f.target, "skills", "alpha")
	_, err := f.op.Create(filepath.Join(f.root, "skills", "alpha"), ours, true)
	require.NoError(t, err)

	elsewhere := t.TempDir()
	foreign := filepath.Join(f.target, "skills", "foreign")
	require.NoError(t, os.Symlink(elsewhere, foreign))

	recorded := filepath.Join(f.target, "hooks", "copied.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(recorded), 0755))
	require.NoError(t, os.WriteFile(recorded, []byte("x"), 0644))

	owner := fakeOwner{recorded: true}

	assert.True(t, f.op.IsManaged(ours, owner))
	assert.False(t, f.op.IsManaged(foreign, owner))
	assert.True(t, f.op.IsManaged(recorded, owner))
	assert.False(t, f.op.IsManaged(filepath.Join(f.target, "absent"), nil))
}

func TestInspect(t *testing.T) {
	f := newFixture(t, types.StrategySymlink)
	source := filepath.Join(f.root, "skills", "alpha")
	target := filepath.Join(f.target, "skills", "alpha")
	entry := types.ManagedEntry{Type: types.LinkSymlink, Target: target, Source: source}

	assert.Equal(t, HealthMissing, f.op.Inspect(entry))

	_, err := f.op.Create(source, target, true)
	require.NoError(t, err)
	assert.Equal(t, HealthOK, f.op.Inspect(entry))

	require.NoError(t, os.Remove(target))
	require.NoError(t, os.Mkdir(target, 0755))
	assert.Equal(t, HealthReplaced, f.op.Inspect(entry))

	require.NoError(t, os.Remove(target))
	require.NoError(t, os.Symlink(t.TempDir(), target))
	assert.Equal(t, HealthDrifted, f.op.Inspect(entry))
}

func TestMechanismFor(t *testing.T) {
	fsys := filesystem.NewOS()
	assert.Equal(t, types.LinkSymlink, MechanismFor(fsys, types.LinkSymlink).Type())
	assert.Equal(t, types.LinkJunction, MechanismFor(fsys, types.LinkJunction).Type())
	assert.Equal(t, types.LinkHardlink, MechanismFor(fsys, types.LinkHardlink).Type())
}
