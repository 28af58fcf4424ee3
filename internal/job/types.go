package job

// State describes where a job is in its lifecycle.
type State int

const (
	Undefined State = iota
	Foreground
	Background
	Stopped
)

// Label returns the human-readable state name used by the jobs builtin.
// Background jobs read "Running" because that is what the user sees them doing.
func (s State) Label() string {
	switch s {
	case Foreground:
		return "Foreground"
	case Background:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Undefined"
	}
}

// Job is one tracked unit of spawned work: the leader process of a process
// group plus the shell's bookkeeping for it.
type Job struct {
	PID     int    // leader process id; 0 marks an empty registry slot
	JID     int    // shell-assigned job id
	State   State
	Cmdline string // the original text the user typed, retained for display
}
