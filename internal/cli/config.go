package cli

import (
	"github.com/arthur-debert/aitk/pkg/config"
	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long: `Config prints the configuration aitk would use, after layering the built-in
defaults, aitk.toml in the toolkit root, AITK_* environment variables and
flags. The output is valid aitk.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.environment()
			if err != nil {
				return err
			}
			data, err := config.Dump(cfg)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot render configuration")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
