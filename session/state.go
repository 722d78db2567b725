package session

type State uint8

const (
	StateSetup State = iota
	StatePlaying
	StateSelected
	StateAwaitingAIMove
	StateCheckmate
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StatePlaying:
		return "playing"
	case StateSelected:
		return "selected"
	case StateAwaitingAIMove:
		return "awaiting-ai-move"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	default:
		return ""
	}
}

// IsTerminal reports whether no move is accepted until a new game starts.
func (s State) IsTerminal() bool {
	return s == StateCheckmate || s == StateStalemate
}

// CanStart reports whether a new game may be offered to the player.
func (s State) CanStart() bool {
	return s == StateSetup || s.IsTerminal()
}
