package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/aitk/pkg/types"
)

// Copy duplicates src at dst. Directories are copied recursively, files
// byte for byte with their permission bits. Links inside src are followed so
// the copy never points back at src. A link leading back into a directory
// being copied is an error.
func Copy(fsys types.FS, src, dst string) error {
	return copyPath(fsys, src, dst, make(map[string]bool))
}

// copyPath copies one entry. ancestors holds the resolved directories on
// the current copy path.
func copyPath(fsys types.FS, src, dst string, ancestors map[string]bool) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(fsys, src, dst, info.Mode().Perm())
	}

	resolved, err := fsys.EvalSymlinks(src)
	if err != nil {
		return err
	}
	if ancestors[resolved] {
		return fmt.Errorf("cannot copy %s: link cycle back to %s", src, resolved)
	}
	ancestors[resolved] = true
	defer delete(ancestors, resolved)

	return copyDir(fsys, src, dst, info.Mode().Perm(), ancestors)
}

func copyDir(fsys types.FS, src, dst string, perm fs.FileMode, ancestors map[string]bool) error {
	if err := fsys.MkdirAll(dst, perm|0700); err != nil {
		return err
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyPath(fsys, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()), ancestors); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(fsys types.FS, src, dst string, perm fs.FileMode) error {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	return fsys.WriteFile(dst, data, perm)
}
