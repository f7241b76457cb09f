package execute

// State is a step of one Execute call.
type State uint32

const (
	// Selecting is the state in which the next node is chosen.
	Selecting State = iota

	// Sending is the state in which a request is in flight.
	Sending

	// Classifying is the state in which the answer, or the transport fault,
	// decides what happens next.
	Classifying

	// Succeeded is the terminal state of a call that obtained an answer.
	Succeeded

	// Failed is the terminal state of a call that returned an error.
	Failed
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Selecting:
		return "Selecting"
	case Sending:
		return "Sending"
	case Classifying:
		return "Classifying"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}
