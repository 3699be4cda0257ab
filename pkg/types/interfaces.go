package types

import (
	"io/fs"
)

// FS is the filesystem interface required for aitk operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// WriteFileAtomic replaces name with data through a temporary file in
	// the same directory followed by a rename. The previous content is
	// left untouched if the write fails.
	WriteFileAtomic(name string, data []byte) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Link operations
	Symlink(oldname, newname string) error
	Link(oldname, newname string) error
	Readlink(name string) (string, error)
	EvalSymlinks(path string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Lstat must not follow links. Implementations without link support
	// may fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)
}
