package testutil

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

// FileTree maps relative paths to file contents. A FileTree value creates a
// directory.
type FileTree map[string]interface{}

// CreateFileTree writes tree below base. It fails the test on any error.
func CreateFileTree(t *testing.T, base string, tree FileTree) {
	t.Helper()

	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fullPath := filepath.Join(base, name)
		switch v := tree[name].(type) {
		case string:
			CreateFile(t, fullPath, v)
		case FileTree:
			if err := os.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			CreateFileTree(t, fullPath, v)
		default:
			t.Fatalf("Unsupported FileTree value for %s: %T", fullPath, v)
		}
	}
}

// CreateFile writes content at path, creating parent directories as needed
func CreateFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content at path
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// IsSymlink reports whether path is a symbolic link
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// SkipWithoutSymlinks skips tests that need unprivileged symlinks.
// Windows only grants them in developer mode.
func SkipWithoutSymlinks(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping: symlinks need developer mode on windows")
	}
}

// Snapshot fingerprints every entry below dir: links by destination, files
// by checksum and mode. Links are not followed.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			dest, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "link:" + dest
		case d.IsDir():
			out[rel] = "dir"
		default:
			info, err := d.Info()
			if err != nil {
				return err
			}
			sum, err := fileChecksum(path)
			if err != nil {
				return err
			}
			out[rel] = fmt.Sprintf("file:%s:%s", info.Mode().Perm(), sum)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", dir, err)
	}
	return out
}

func fileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
