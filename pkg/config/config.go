package config

import (
	"runtime"
	"time"
)

// Config is the effective aitk configuration
type Config struct {
	Target   Target   `koanf:"target" toml:"target"`
	Toolkit  Toolkit  `koanf:"toolkit" toml:"toolkit"`
	Settings Settings `koanf:"settings" toml:"settings"`
	Lock     Lock     `koanf:"lock" toml:"lock"`
}

// Target describes the user's configuration directory
type Target struct {
	Dir          string `koanf:"dir" toml:"dir"`
	DirName      string `koanf:"dir_name" toml:"dir_name"`
	LedgerFile   string `koanf:"ledger_file" toml:"ledger_file"`
	SettingsFile string `koanf:"settings_file" toml:"settings_file"`
	SkillsDir    string `koanf:"skills_dir" toml:"skills_dir"`
	HooksDir     string `koanf:"hooks_dir" toml:"hooks_dir"`
}

// Toolkit describes the checkout being installed
type Toolkit struct {
	Dir string `koanf:"dir" toml:"dir"`
	// Manifests are candidate manifest file names, first match wins
	Manifests []string `koanf:"manifests" toml:"manifests"`
}

// Python rewrite modes
const (
	RewriteAuto   = "auto"
	RewriteAlways = "always"
	RewriteNever  = "never"
)

// Settings controls the settings.json merge
type Settings struct {
	ManagedCommandPattern string `koanf:"managed_command_pattern" toml:"managed_command_pattern"`
	RewritePython         string `koanf:"rewrite_python" toml:"rewrite_python"`
}

// ShouldRewritePython resolves the rewrite mode for the given GOOS
func (s Settings) ShouldRewritePython(goos string) bool {
	switch s.RewritePython {
	case RewriteAlways:
		return true
	case RewriteNever:
		return false
	default:
		return goos == "windows"
	}
}

// RewritePythonHere resolves the rewrite mode for the running platform
func (s Settings) RewritePythonHere() bool {
	return s.ShouldRewritePython(runtime.GOOS)
}

// Lock controls the advisory lock around ledger mutations
type Lock struct {
	Enabled bool          `koanf:"enabled" toml:"enabled"`
	Timeout time.Duration `koanf:"timeout" toml:"-"`
}
