package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort     = "Install an AI toolkit's skills and hooks into ~/.claude"
	MsgVersionShort  = "Print version information"
	MsgVersionLong   = "Print detailed version information including commit hash and build date"
	MsgStatusShort   = "Show what aitk manages and whether it is healthy"
	MsgManifestShort = "Render the toolkit manifest"
	MsgConfigShort   = "Print the effective configuration as TOML"
	MsgCompleteShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagApply      = "Make changes (default is a dry run)"
	MsgFlagUninstall  = "Remove every link and settings entry aitk created"
	MsgFlagDetach     = "Replace managed links with independent copies"
	MsgFlagDebug      = "Write a debug transcript of the run"
	MsgFlagDebugLog   = "Path of the debug transcript"
	MsgFlagToolkitDir = "Toolkit checkout to install from (default: $AITK_TOOLKIT_DIR or the current directory)"
	MsgFlagTargetDir  = "Configuration directory to install into (default: ~/.claude)"
	MsgFlagFormat     = "Output format: auto, term or text"

	// Status output
	MsgNoManagedEntries = "No managed entries."
	MsgStatusSummary    = "%d managed entries, %d need attention"

	// Version output
	MsgVersionFormat = "aitk version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrInitPaths  = "failed to initialize paths: %w"
	MsgErrLogging    = "failed to set up logging: %w"
	MsgErrFormat     = "invalid --format: %w"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")
)
