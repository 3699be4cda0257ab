// Package style holds the terminal styles shared by the report and the
// status table. Status labels are colored by what they mean: green for
// changes made, cyan for no-ops, amber for things left alone on purpose,
// red for warnings.
package style

import (
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// StatusStyle returns the label style for a reported status
func StatusStyle(s types.Status) lipgloss.Style {
	switch s {
	case types.StatusCreated, types.StatusRelinked, types.StatusAdded, types.StatusDetached:
		return SuccessStyle
	case types.StatusRemoved:
		return WarningStyle
	case types.StatusCurrent:
		return InfoStyle
	case types.StatusLocal, types.StatusSkip:
		return MutedStyle
	case types.StatusWarning:
		return ErrorStyle
	default:
		return lipgloss.NewStyle()
	}
}

// LinkTypeStyle colors a link type in the status table
func LinkTypeStyle(t types.LinkType) *pterm.Style {
	switch t {
	case types.LinkSymlink:
		return pterm.NewStyle(pterm.FgCyan)
	case types.LinkJunction:
		return pterm.NewStyle(pterm.FgMagenta)
	case types.LinkHardlink:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// HealthStyle colors a ledger entry's observed health in the status table
func HealthStyle(health string) *pterm.Style {
	switch health {
	case "ok":
		return pterm.NewStyle(pterm.FgGreen)
	case "missing", "broken":
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case "replaced", "drifted":
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}
