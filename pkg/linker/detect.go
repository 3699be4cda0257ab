package linker

import (
	"bytes"
	stderrors "errors"
	"path/filepath"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/types"
)

// ErrUnsupported is returned for mechanisms the platform lacks
var ErrUnsupported = stderrors.New("link mechanism not supported on this platform")

// DeveloperModeHint is shown when no link mechanism works
const DeveloperModeHint = "On Windows, enable Developer Mode in Settings > For Developers."

const probeContent = "aitk-probe"

// DetectStrategy probes scratch (a directory that must not exist yet) for a
// working link mechanism. Symlinks are preferred; junctions are tried only
// where the platform supports them. scratch is always removed.
func DetectStrategy(fsys types.FS, scratch string) (types.LinkStrategy, error) {
	return detectStrategy(fsys, scratch, JunctionsSupported, createJunction)
}

func detectStrategy(fsys types.FS, scratch string, junctions bool, junction func(source, target string) error) (types.LinkStrategy, error) {
	logger := logging.GetLogger("linker.detect")

	if err := fsys.MkdirAll(scratch, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrNoLinkMechanism, "cannot create probe directory %s", scratch).
			WithDetail("path", scratch)
	}
	defer func() {
		if err := fsys.RemoveAll(scratch); err != nil {
			logger.Warn().Err(err).Str("path", scratch).Msg("failed to remove probe directory")
		}
	}()

	err := probeSymlink(fsys, scratch)
	if err == nil {
		logger.Debug().Str("tag", "INIT").Str("strategy", string(types.StrategySymlink)).Msg("symlinks available")
		return types.StrategySymlink, nil
	}
	logger.Debug().Str("tag", "INIT").Err(err).Msg("symlink probe failed")

	if junctions {
		err = probeJunction(fsys, scratch, junction)
		if err == nil {
			logger.Debug().Str("tag", "INIT").Str("strategy", string(types.StrategyWindowsFallback)).Msg("falling back to junctions and hard links")
			return types.StrategyWindowsFallback, nil
		}
		logger.Debug().Str("tag", "INIT").Err(err).Msg("junction probe failed")
	}

	return "", errors.Newf(errors.ErrNoLinkMechanism, "cannot create symlinks or junctions. %s", DeveloperModeHint)
}

func probeSymlink(fsys types.FS, scratch string) error {
	file := filepath.Join(scratch, "probe.txt")
	if err := fsys.WriteFile(file, []byte(probeContent), 0644); err != nil {
		return err
	}
	link := filepath.Join(scratch, "probe-link")
	if err := fsys.Symlink(file, link); err != nil {
		return err
	}
	if _, err := fsys.Readlink(link); err != nil {
		return err
	}
	data, err := fsys.ReadFile(link)
	if err != nil {
		return err
	}
	if !bytes.Equal(data, []byte(probeContent)) {
		return stderrors.New("symlink does not resolve to probe file")
	}
	return nil
}

func probeJunction(fsys types.FS, scratch string, junction func(source, target string) error) error {
	dir := filepath.Join(scratch, "probe-dir")
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := fsys.WriteFile(filepath.Join(dir, "probe.txt"), []byte(probeContent), 0644); err != nil {
		return err
	}
	link := filepath.Join(scratch, "probe-junction")
	if err := junction(dir, link); err != nil {
		return err
	}
	data, err := fsys.ReadFile(filepath.Join(link, "probe.txt"))
	if err != nil {
		return err
	}
	if !bytes.Equal(data, []byte(probeContent)) {
		return stderrors.New("junction does not resolve to probe directory")
	}
	// Best effort, RemoveAll on the scratch dir unlinks it otherwise
	_ = removeJunction(fsys, link)
	return nil
}
