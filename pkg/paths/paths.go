package paths

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/aitk/pkg/config"
	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/types"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvStateDir overrides the XDG state directory for aitk
	EnvStateDir = "AITK_STATE_DIR"
)

// Fixed names that are not user-configurable
const (
	// AppDirName is the directory name for aitk-specific files
	AppDirName = "aitk"

	// LockFileName is the advisory lock guarding ledger mutations
	LockFileName = "setup.lock"

	// DebugLogName is the default --debug transcript, relative to the
	// working directory
	DebugLogName = "debug.log"

	// ScratchPrefix names the temporary probe directory in the toolkit root
	ScratchPrefix = ".setup-test-"
)

// Paths provides centralized path management for aitk
type Paths interface {
	ToolkitRoot() string
	HomeDir() string
	TargetDir() string
	SourceDir(c types.Catalog) string
	TargetSubdir(c types.Catalog) string
	SourcePath(c types.Catalog, name string) string
	TargetPath(c types.Catalog, name string) string
	LedgerPath() string
	SettingsPath() string
	ManifestPath() (string, bool)
	StateDir() string
	LockPath() string
	DebugLogPath() string
	ScratchDir() string
}

// Options configures New. Zero values fall back to the environment.
type Options struct {
	Config   *config.Config
	HomeDir  string
	StateDir string
	DebugLog string
}

type paths struct {
	cfg         *config.Config
	toolkitRoot string
	homeDir     string
	targetDir   string
	stateDir    string
	debugLog    string
}

// New resolves every location from the config
func New(opts Options) (Paths, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "paths: config is required")
	}
	cfg := opts.Config

	p := &paths{cfg: cfg}

	root, err := filepath.Abs(expandHome(cfg.Toolkit.Dir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for toolkit root")
	}
	// Links resolve to canonical paths, so the root has to be canonical too
	// for containment checks (macOS /var -> /private/var).
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	p.toolkitRoot = root

	home := opts.HomeDir
	if home == "" {
		home, err = resolveHome(os.Getenv, runtime.GOOS, cygpath)
		if err != nil {
			return nil, err
		}
	}
	p.homeDir = home

	if cfg.Target.Dir != "" {
		p.targetDir = expandHomeWith(cfg.Target.Dir, home)
	} else {
		p.targetDir = filepath.Join(home, cfg.Target.DirName)
	}
	p.targetDir, err = filepath.Abs(p.targetDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for target dir")
	}

	switch {
	case opts.StateDir != "":
		p.stateDir = expandHomeWith(opts.StateDir, home)
	case os.Getenv(EnvStateDir) != "":
		p.stateDir = expandHomeWith(os.Getenv(EnvStateDir), home)
	default:
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	if opts.DebugLog != "" {
		p.debugLog = expandHomeWith(opts.DebugLog, home)
	} else {
		p.debugLog = DebugLogName
	}
	if abs, err := filepath.Abs(p.debugLog); err == nil {
		p.debugLog = abs
	}

	return p, nil
}

// resolveHome reads HOME, falling back to the OS notion of the home
// directory. On windows a POSIX-style HOME (as exported by Git Bash) is
// translated to a native path when cygpath is available.
func resolveHome(getenv func(string) string, goos string, translate func(string) (string, error)) (string, error) {
	home := getenv(EnvHome)
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine home directory")
		}
		home = h
	}

	if goos == "windows" && strings.HasPrefix(home, "/") && translate != nil {
		if native, err := translate(home); err == nil && native != "" {
			home = native
		}
	}

	return home, nil
}

func cygpath(p string) (string, error) {
	out, err := exec.Command("cygpath", "-w", p).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}
	return expandHomeWith(path, homeDir)
}

func expandHomeWith(path, homeDir string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) == 1 {
		return homeDir
	}
	// Handle both ~/ and ~\
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~something (not the user's home)
	return path
}

func (p *paths) ToolkitRoot() string { return p.toolkitRoot }

func (p *paths) HomeDir() string { return p.homeDir }

func (p *paths) TargetDir() string { return p.targetDir }

func (p *paths) catalogDir(c types.Catalog) string {
	switch c {
	case types.CatalogSkills:
		return p.cfg.Target.SkillsDir
	case types.CatalogHooks:
		return p.cfg.Target.HooksDir
	default:
		return string(c)
	}
}

// SourceDir returns the toolkit directory holding a catalog's items
func (p *paths) SourceDir(c types.Catalog) string {
	return filepath.Join(p.toolkitRoot, p.catalogDir(c))
}

// TargetSubdir returns the configuration directory holding a catalog's links
func (p *paths) TargetSubdir(c types.Catalog) string {
	return filepath.Join(p.targetDir, p.catalogDir(c))
}

func (p *paths) SourcePath(c types.Catalog, name string) string {
	return filepath.Join(p.SourceDir(c), name)
}

func (p *paths) TargetPath(c types.Catalog, name string) string {
	return filepath.Join(p.TargetSubdir(c), name)
}

func (p *paths) LedgerPath() string {
	return filepath.Join(p.targetDir, p.cfg.Target.LedgerFile)
}

func (p *paths) SettingsPath() string {
	return filepath.Join(p.targetDir, p.cfg.Target.SettingsFile)
}

// ManifestPath returns the first manifest candidate present in the toolkit
// root. When none exists it returns the first candidate and false.
func (p *paths) ManifestPath() (string, bool) {
	names := p.cfg.Toolkit.Manifests
	for _, name := range names {
		candidate := filepath.Join(p.toolkitRoot, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return filepath.Join(p.toolkitRoot, names[0]), false
}

func (p *paths) StateDir() string { return p.stateDir }

func (p *paths) LockPath() string {
	return filepath.Join(p.stateDir, LockFileName)
}

func (p *paths) DebugLogPath() string { return p.debugLog }

// ScratchDir is the per-process probe directory used by strategy detection
func (p *paths) ScratchDir() string {
	return filepath.Join(p.toolkitRoot, fmt.Sprintf("%s%d", ScratchPrefix, os.Getpid()))
}

// IsWithin reports whether path equals root or lies below it
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
