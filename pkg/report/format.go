package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto detects the format from the terminal
	FormatAuto Format = iota
	// FormatTerminal renders colored labels
	FormatTerminal
	// FormatText renders plain text
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

type fdWriter interface {
	Fd() uintptr
}

// DetectFormat picks terminal output only for a color-capable TTY with
// NO_COLOR unset
func DetectFormat(out io.Writer) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	f, ok := out.(fdWriter)
	if !ok {
		return FormatText
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve turns FormatAuto into a concrete format for out
func (f Format) Resolve(out io.Writer) Format {
	if f == FormatAuto {
		return DetectFormat(out)
	}
	return f
}
