package board

import "github.com/daystram/hybridchess/position"

type Side uint8

const (
	SideUnknown Side = iota
	SideWhite
	SideBlack
)

// Sides lists the playable sides in turn order.
var Sides = [2]Side{SideWhite, SideBlack}

func (s Side) String() string {
	switch s {
	case SideWhite:
		return "White"
	case SideBlack:
		return "Black"
	default:
		return ""
	}
}

func (s Side) Opposite() Side {
	switch s {
	case SideWhite:
		return SideBlack
	case SideBlack:
		return SideWhite
	default:
		return SideUnknown
	}
}

// Forward returns the row delta a pawn of this side advances by.
func (s Side) Forward() position.Pos {
	if s == SideWhite {
		return -1
	}
	return 1
}

// PawnRow returns the row pawns of this side start from.
func (s Side) PawnRow() position.Pos {
	if s == SideWhite {
		return 6
	}
	return 1
}
