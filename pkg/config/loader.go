package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	aerrors "github.com/arthur-debert/aitk/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// FileName is the optional per-toolkit configuration file
const FileName = "aitk.toml"

// EnvPrefix prefixes every environment override
const EnvPrefix = "AITK_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Options tunes Load
type Options struct {
	// ToolkitRoot wins over AITK_TOOLKIT_DIR and the working directory
	ToolkitRoot string
	// Overrides are flat dotted keys applied last, typically from flags
	Overrides map[string]interface{}
}

// Load builds the effective configuration
func Load(opts Options) (*Config, error) {
	root, err := toolkitRoot(opts.ToolkitRoot)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, aerrors.Wrap(err, aerrors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Toolkit config if it exists
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, aerrors.Wrapf(err, aerrors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, aerrors.Wrap(err, aerrors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, aerrors.Wrap(err, aerrors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, aerrors.Wrap(err, aerrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	// 6. Post-process
	cfg.Toolkit.Dir = root
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the embedded defaults with the toolkit rooted at root
func Default(root string) (*Config, error) {
	return Load(Options{ToolkitRoot: root})
}

// envKey maps AITK_TARGET_DIR_NAME to target.dir_name. Only the first
// underscore separates the section.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func toolkitRoot(explicit string) (string, error) {
	root := explicit
	if root == "" {
		root = os.Getenv(EnvPrefix + "TOOLKIT_DIR")
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", aerrors.Wrap(err, aerrors.ErrConfigLoad, "cannot determine working directory")
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", aerrors.Wrapf(err, aerrors.ErrConfigInvalid, "invalid toolkit dir %q", root)
	}
	return abs, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"target.dir_name":      cfg.Target.DirName,
		"target.ledger_file":   cfg.Target.LedgerFile,
		"target.settings_file": cfg.Target.SettingsFile,
		"target.skills_dir":    cfg.Target.SkillsDir,
		"target.hooks_dir":     cfg.Target.HooksDir,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return aerrors.Newf(aerrors.ErrConfigInvalid, "%s must not be empty", key).WithDetail("key", key)
		}
	}

	if len(cfg.Toolkit.Manifests) == 0 {
		return aerrors.New(aerrors.ErrConfigInvalid, "toolkit.manifests must list at least one file name")
	}

	if _, err := regexp.Compile(cfg.Settings.ManagedCommandPattern); err != nil {
		return aerrors.Wrap(err, aerrors.ErrConfigInvalid, "settings.managed_command_pattern is not a valid regular expression")
	}

	switch cfg.Settings.RewritePython {
	case RewriteAuto, RewriteAlways, RewriteNever:
	default:
		return aerrors.Newf(aerrors.ErrConfigInvalid, "settings.rewrite_python must be one of auto, always, never (got %q)", cfg.Settings.RewritePython)
	}

	if cfg.Lock.Timeout < 0 {
		return aerrors.New(aerrors.ErrConfigInvalid, "lock.timeout must not be negative")
	}

	return nil
}
