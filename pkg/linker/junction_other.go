//go:build !windows

package linker

import (
	"fmt"
	"io/fs"

	"github.com/arthur-debert/aitk/pkg/types"
)

// JunctionsSupported reports whether this platform can create directory junctions
const JunctionsSupported = false

func createJunction(source, target string) error {
	return fmt.Errorf("junction %s -> %s: %w", target, source, ErrUnsupported)
}

func removeJunction(fsys types.FS, target string) error {
	return fsys.Remove(target)
}

func isJunction(types.FS, string, fs.FileInfo) bool {
	return false
}
