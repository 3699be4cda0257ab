// Package paths provides centralized path handling for aitk.
//
// All locations the engine touches are derived here from the effective
// config: the toolkit checkout (sources), the user's configuration
// directory (targets, ledger, settings.json) and the XDG state directory
// (lock file). Nothing else in the codebase joins path segments for these
// locations.
package paths
