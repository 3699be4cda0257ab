// Package cli builds the aitk command tree
package cli

import (
	"fmt"

	"github.com/arthur-debert/aitk/internal/version"
	"github.com/arthur-debert/aitk/pkg/config"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/paths"
	"github.com/arthur-debert/aitk/pkg/report"
	"github.com/arthur-debert/aitk/pkg/setup"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every command
type globalFlags struct {
	verbosity  int
	toolkitDir string
	targetDir  string
	format     string
}

// setupFlags select the mode of the root command
type setupFlags struct {
	apply     bool
	uninstall bool
	detach    bool
	debug     bool
	debugLog  string
}

type app struct {
	global   globalFlags
	setup    setupFlags
	closeLog func() error
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "aitk",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = a.finish() }()
			return a.runSetup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&a.global.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&a.global.toolkitDir, "toolkit-dir", "", MsgFlagToolkitDir)
	pf.StringVar(&a.global.targetDir, "target-dir", "", MsgFlagTargetDir)
	pf.StringVar(&a.global.format, "format", "auto", MsgFlagFormat)

	f := rootCmd.Flags()
	f.BoolVar(&a.setup.apply, "apply", false, MsgFlagApply)
	f.BoolVar(&a.setup.uninstall, "uninstall", false, MsgFlagUninstall)
	f.BoolVar(&a.setup.detach, "detach", false, MsgFlagDetach)
	f.BoolVar(&a.setup.debug, "debug", false, MsgFlagDebug)
	f.StringVar(&a.setup.debugLog, "debug-log", paths.DebugLogName, MsgFlagDebugLog)
	rootCmd.MarkFlagsMutuallyExclusive("uninstall", "detach")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newManifestCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

func (a *app) setupLogging(cmd *cobra.Command) error {
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	opts := logging.Options{
		Verbosity: a.global.verbosity,
		Console:   cmd.ErrOrStderr(),
		NoColor:   format == report.FormatText,
	}
	// Only the setup run itself writes a transcript
	if cmd == cmd.Root() && a.setup.debug {
		opts.DebugFile = a.setup.debugLog
	}

	closeLog, err := logging.SetupLogger(opts)
	if err != nil {
		return fmt.Errorf(MsgErrLogging, err)
	}
	a.closeLog = closeLog
	log.Debug().Str("command", cmd.Name()).Msg("Command started")
	return nil
}

func (a *app) finish() error {
	if a.closeLog == nil {
		return nil
	}
	closeLog := a.closeLog
	a.closeLog = nil
	return closeLog()
}

func (a *app) outputFormat(cmd *cobra.Command) (report.Format, error) {
	format, err := report.ParseFormat(a.global.format)
	if err != nil {
		return report.FormatAuto, fmt.Errorf(MsgErrFormat, err)
	}
	return format.Resolve(cmd.OutOrStdout()), nil
}

// environment loads the configuration and resolves every path
func (a *app) environment() (*config.Config, paths.Paths, error) {
	overrides := map[string]interface{}{}
	if a.global.targetDir != "" {
		overrides["target.dir"] = a.global.targetDir
	}

	cfg, err := config.Load(config.Options{
		ToolkitRoot: a.global.toolkitDir,
		Overrides:   overrides,
	})
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	p, err := paths.New(paths.Options{Config: cfg, DebugLog: a.setup.debugLog})
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	return cfg, p, nil
}

func (a *app) mode() types.Mode {
	switch {
	case a.setup.uninstall:
		return types.ModeUninstall
	case a.setup.detach:
		return types.ModeDetach
	default:
		return types.ModeInstall
	}
}

func (a *app) runSetup(cmd *cobra.Command) error {
	logger := logging.GetLogger("cli")

	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, p, err := a.environment()
	if err != nil {
		return err
	}

	logger.Info().
		Str("mode", string(a.mode())).
		Bool("apply", a.setup.apply).
		Str("toolkit", p.ToolkitRoot()).
		Str("target", p.TargetDir()).
		Msg("Starting setup")

	_, err = setup.Run(cmd.Context(), setup.RunOptions{
		Mode:     a.mode(),
		DryRun:   !a.setup.apply,
		Config:   cfg,
		Paths:    p,
		Reporter: report.NewConsole(cmd.OutOrStdout(), format),
	})
	return err
}
