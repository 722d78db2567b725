package board

import "github.com/daystram/hybridchess/position"

// IsCheck reports whether any piece of the opposing side can reach the King
// of side s. Side s must have exactly one King-bearing piece.
func (b Board) IsCheck(s Side) bool {
	return b.isAttacked(b.King(s), s.Opposite())
}

// IsCheckmate reports whether side s is in check and no move of s escapes it.
func (b Board) IsCheckmate(s Side) bool {
	return b.IsCheck(s) && !b.HasLegalMove(s)
}

// IsStalemate reports whether side s is not in check but every move of s
// would put it in check.
func (b Board) IsStalemate(s Side) bool {
	return !b.IsCheck(s) && !b.HasLegalMove(s)
}

// HasLegalMove reports whether side s has at least one move that does not
// leave its own King in check.
func (b Board) HasLegalMove(s Side) bool {
	found := false
	b.EachPiece(s, func(from position.Pos, _ Piece) bool {
		dests, _ := b.MovesFrom(from)
		for _, to := range dests {
			if !b.Move(from, to).IsCheck(s) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// State returns the game state with side s to move.
func (b Board) State(s Side) State {
	check := b.IsCheck(s)
	canMove := b.HasLegalMove(s)
	switch {
	case check && !canMove:
		if s == SideWhite {
			return StateCheckmateWhite
		}
		return StateCheckmateBlack
	case !canMove:
		return StateStalemate
	case check:
		if s == SideWhite {
			return StateCheckWhite
		}
		return StateCheckBlack
	default:
		return StateRunning
	}
}

func (b Board) isAttacked(target position.Pos, by Side) bool {
	attacked := false
	b.EachPiece(by, func(from position.Pos, _ Piece) bool {
		dests, _ := b.MovesFrom(from)
		for _, to := range dests {
			if to == target {
				attacked = true
				return false
			}
		}
		return true
	})
	return attacked
}
