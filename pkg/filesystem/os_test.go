package filesystem

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("hello world")

	err := fs.WriteFile(testFile, testContent, 0644)
	require.NoError(t, err)

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())
	assert.Equal(t, int64(len(testContent)), info.Size())

	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	subDir := filepath.Join(tmpDir, "sub", "dir")
	err = fs.MkdirAll(subDir, 0755)
	require.NoError(t, err)

	entries, err := fs.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // test.txt and sub/

	err = fs.Remove(testFile)
	require.NoError(t, err)
	_, err = fs.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}

func TestOS_WriteFileAtomic(t *testing.T) {
	fs := NewOS()
	path := filepath.Join(t.TempDir(), "settings.json")

	require.NoError(t, fs.WriteFile(path, []byte("old"), 0644))
	require.NoError(t, fs.WriteFileAtomic(path, []byte("new")))

	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	// no temp files left behind
	entries, err := fs.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOS_Links(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need Developer Mode on windows")
	}

	fs := NewOS()
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.sh")
	require.NoError(t, fs.WriteFile(src, []byte("#!/bin/sh\n"), 0755))

	sym := filepath.Join(tmpDir, "sym.sh")
	require.NoError(t, fs.Symlink(src, sym))

	target, err := fs.Readlink(sym)
	require.NoError(t, err)
	assert.Equal(t, src, target)

	info, err := fs.Lstat(sym)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	resolved, err := fs.EvalSymlinks(sym)
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(src)
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)

	hard := filepath.Join(tmpDir, "hard.sh")
	require.NoError(t, fs.Link(src, hard))

	a, err := fs.Stat(src)
	require.NoError(t, err)
	b, err := fs.Stat(hard)
	require.NoError(t, err)
	assert.True(t, os.SameFile(a, b))
}
