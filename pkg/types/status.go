package types

// Status is the outcome reported for a classified action
type Status string

const (
	StatusCurrent  Status = "CURRENT"
	StatusCreated  Status = "CREATED"
	StatusRelinked Status = "RE-LINKED"
	StatusRemoved  Status = "REMOVED"
	StatusSkip     Status = "SKIP"
	StatusLocal    Status = "LOCAL"
	StatusDetached Status = "DETACHED"
	StatusAdded    Status = "ADDED"
	StatusWarning  Status = "WARNING"
)

// Mutates reports whether the status describes a change to the filesystem
// or the settings file. Dry runs report these as planned actions.
func (s Status) Mutates() bool {
	switch s {
	case StatusCreated, StatusRelinked, StatusRemoved, StatusDetached, StatusAdded:
		return true
	}
	return false
}

// Mode selects which top-level operation a run performs
type Mode string

const (
	ModeInstall   Mode = "install"
	ModeUninstall Mode = "uninstall"
	ModeDetach    Mode = "detach"
)
