//go:build windows

package linker

import (
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/arthur-debert/aitk/pkg/types"
)

// JunctionsSupported reports whether this platform can create directory junctions
const JunctionsSupported = true

func createJunction(source, target string) error {
	out, err := exec.Command("cmd", "/c", "mklink", "/J", target, source).CombinedOutput()
	if err != nil {
		return fmt.Errorf("mklink /J %s %s: %w: %s", target, source, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// removeJunction deletes the reparse point only. rmdir without /s never
// recurses into the junction's target.
func removeJunction(fsys types.FS, target string) error {
	if err := fsys.Remove(target); err == nil {
		return nil
	}
	out, err := exec.Command("cmd", "/c", "rmdir", target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("rmdir %s: %w: %s", target, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// isJunction reports mount points. Since Go 1.23 they carry ModeIrregular
// rather than ModeSymlink.
func isJunction(fsys types.FS, path string, info fs.FileInfo) bool {
	if info.Mode()&fs.ModeSymlink != 0 {
		return false
	}
	if info.Mode()&fs.ModeIrregular == 0 && !info.IsDir() {
		return false
	}
	_, err := fsys.Readlink(path)
	return err == nil
}
