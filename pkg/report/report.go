// Package report prints one line per classified action, grouped in
// sections:
//
//	Skills:
//	  CREATED: review
//	  LOCAL: notes (regular directory — not managed)
//	  [dry-run] would create: draft -> /toolkit/skills/draft
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/aitk/pkg/style"
	"github.com/arthur-debert/aitk/pkg/types"
)

// Event is one classified action
type Event struct {
	Status types.Status
	Name   string
	// Detail is appended in parentheses. For WARNING it is the whole message.
	Detail string
	// Source is shown as "-> source" on planned creations
	Source string
	DryRun bool
}

var dryRunVerbs = map[types.Status]string{
	types.StatusCreated:  "create",
	types.StatusRelinked: "re-link",
	types.StatusRemoved:  "remove",
	types.StatusDetached: "detach",
	types.StatusAdded:    "add",
}

// Label returns the leading label of the line, without trailing colon
func (e Event) Label() string {
	if e.DryRun {
		if verb, ok := dryRunVerbs[e.Status]; ok {
			return "[dry-run] would " + verb
		}
	}
	if e.Status == types.StatusSkip && e.Detail != "" {
		return fmt.Sprintf("%s (%s)", e.Status, e.Detail)
	}
	return string(e.Status)
}

// Body returns the text after the label
func (e Event) Body() string {
	switch {
	case e.Status == types.StatusWarning:
		if e.Name != "" && e.Detail != "" {
			return fmt.Sprintf("%s (%s)", e.Detail, e.Name)
		}
		return e.Detail + e.Name
	case e.Status == types.StatusSkip:
		return e.Name
	case e.DryRun && e.Status == types.StatusCreated && e.Source != "":
		return fmt.Sprintf("%s -> %s", e.Name, e.Source)
	case e.Detail != "" && !(e.DryRun && e.Status.Mutates()):
		return fmt.Sprintf("%s (%s)", e.Name, e.Detail)
	default:
		return e.Name
	}
}

// String renders the event as a plain line
func (e Event) String() string {
	return e.Label() + ": " + e.Body()
}

// Reporter receives the run's output
type Reporter interface {
	// Title opens the run
	Title(text string)
	// Section starts a group such as "Skills"
	Section(title string)
	// Report prints one classified action inside the current section
	Report(e Event)
	// Note prints an indented free-form line inside the current section
	Note(msg string)
	// EndSection closes the current group
	EndSection()
	// Message prints a top-level line
	Message(msg string)
}

// Console writes to a terminal or pipe
type Console struct {
	out   io.Writer
	color bool
}

// NewConsole returns a Console. FormatAuto is resolved against out.
func NewConsole(out io.Writer, format Format) *Console {
	return &Console{out: out, color: format.Resolve(out) == FormatTerminal}
}

func (c *Console) render(s string, st interface{ Render(...string) string }) string {
	if !c.color {
		return s
	}
	return st.Render(s)
}

func (c *Console) Title(text string) {
	fmt.Fprintf(c.out, "\n%s\n%s\n", c.render(text, style.TitleStyle), strings.Repeat("=", 40))
}

func (c *Console) Section(title string) {
	fmt.Fprintln(c.out, c.render(title+":", style.SectionStyle))
}

func (c *Console) Report(e Event) {
	label := e.Label() + ":"
	if e.DryRun && e.Status.Mutates() {
		label = c.render(label, style.MutedStyle)
	} else {
		label = c.render(label, style.StatusStyle(e.Status))
	}
	fmt.Fprintf(c.out, "  %s %s\n", label, e.Body())
}

func (c *Console) Note(msg string) {
	fmt.Fprintf(c.out, "  %s\n", msg)
}

func (c *Console) EndSection() {
	fmt.Fprintln(c.out)
}

func (c *Console) Message(msg string) {
	fmt.Fprintln(c.out, msg)
}

// Recorder keeps everything in memory
type Recorder struct {
	Events   []Event
	Notes    []string
	Messages []string
	Sections []string
}

func (r *Recorder) Title(text string)    { r.Messages = append(r.Messages, text) }
func (r *Recorder) Section(title string) { r.Sections = append(r.Sections, title) }
func (r *Recorder) Report(e Event)       { r.Events = append(r.Events, e) }
func (r *Recorder) Note(msg string)      { r.Notes = append(r.Notes, msg) }
func (r *Recorder) EndSection()          {}
func (r *Recorder) Message(msg string)   { r.Messages = append(r.Messages, msg) }

// ByStatus returns the names of recorded events with status s
func (r *Recorder) ByStatus(s types.Status) []string {
	var names []string
	for _, e := range r.Events {
		if e.Status == s {
			names = append(names, e.Name)
		}
	}
	return names
}

// Count returns how many events carry status s
func (r *Recorder) Count(s types.Status) int {
	return len(r.ByStatus(s))
}

// Discard drops all output
type Discard struct{}

func (Discard) Title(string)    {}
func (Discard) Section(string)  {}
func (Discard) Report(Event)    {}
func (Discard) Note(string)     {}
func (Discard) EndSection()     {}
func (Discard) Message(string)  {}
