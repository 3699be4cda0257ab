package setup

// State is the classification of one declared target before install acts
type State int

const (
	// StateLinked is a link into the toolkit root
	StateLinked State = iota
	// StateStale is a link elsewhere, or a recorded hard link that no
	// longer shares the source's inode
	StateStale
	// StateLocal is content the user owns
	StateLocal
	// StateRecorded exists and is in the ledger
	StateRecorded
	// StateAbsent has nothing at the target
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StateLinked:
		return "linked"
	case StateStale:
		return "stale"
	case StateLocal:
		return "local"
	case StateRecorded:
		return "recorded"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Observation is what install inspects about a target
type Observation struct {
	Exists           bool
	IsLink           bool
	ResolvesIntoRoot bool
	InLedger         bool
	// RecordedHardlink is true when the ledger says the target is a hard
	// link. SameInode is only meaningful then.
	RecordedHardlink bool
	SameInode        bool
}

// Classify applies the install precedence. The ledger wins for hard links,
// live resolution wins for symlinks and junctions.
func Classify(o Observation) State {
	switch {
	case o.IsLink && o.ResolvesIntoRoot:
		return StateLinked
	case o.IsLink:
		return StateStale
	case o.Exists && o.InLedger && o.RecordedHardlink && !o.SameInode:
		return StateStale
	case o.Exists && !o.InLedger:
		return StateLocal
	case o.Exists && o.InLedger:
		return StateRecorded
	default:
		return StateAbsent
	}
}
