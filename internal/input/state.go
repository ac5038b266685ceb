package input

// Phase represents the current pointer interaction
type Phase int

const (
	// PhaseIdle means no drag or resize is in progress
	PhaseIdle Phase = iota
	// PhaseDragging means the target window follows the pointer
	PhaseDragging
	// PhaseResizing means the target window's far corner follows the pointer
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// State holds the interaction state. Target is set only while dragging or
// resizing; Active is keyboard focus and outlives drags.
type State struct {
	Phase  Phase
	Target string
	Active string
}

// NewState creates an idle state with no focus
func NewState() *State {
	return &State{Phase: PhaseIdle}
}

// Reset ends any drag or resize. Focus is kept.
func (s *State) Reset() {
	s.Phase = PhaseIdle
	s.Target = ""
}
