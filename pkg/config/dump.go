package config

import (
	"github.com/pelletier/go-toml/v2"
)

type lockView struct {
	Enabled bool   `toml:"enabled"`
	Timeout string `toml:"timeout"`
}

// Dump renders cfg as TOML in the same shape aitk.toml accepts
func Dump(cfg *Config) ([]byte, error) {
	view := struct {
		Target   Target   `toml:"target"`
		Toolkit  Toolkit  `toml:"toolkit"`
		Settings Settings `toml:"settings"`
		Lock     lockView `toml:"lock"`
	}{
		Target:   cfg.Target,
		Toolkit:  cfg.Toolkit,
		Settings: cfg.Settings,
		Lock: lockView{
			Enabled: cfg.Lock.Enabled,
			Timeout: cfg.Lock.Timeout.String(),
		},
	}
	return toml.Marshal(view)
}
