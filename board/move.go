package board

import "github.com/daystram/hybridchess/position"

type Move struct {
	From, To position.Pos
	Piece    Piece

	IsTurn    Side
	IsCapture bool
	IsMerge   bool
	IsCheck   bool
}

func (m Move) String() string {
	return m.Algebra()
}

// Algebra returns a long algebraic form of the move. Captures are marked
// with "x", merges with "&".
func (m Move) Algebra() string {
	nt := m.Piece.SymbolLayout()
	if m.Piece.Has(PiecePawn) && !m.Piece.IsHybrid() {
		nt = ""
	}
	if len(nt) == 1 && m.Piece.Side() == SideBlack {
		nt = string(nt[0] &^ 0x20)
	}
	nt += m.From.Notation()
	switch {
	case m.IsCapture:
		nt += "x"
	case m.IsMerge:
		nt += "&"
	default:
		nt += "-"
	}
	nt += m.To.Notation()
	if m.IsCheck {
		nt += "+"
	}
	return nt
}

func (m Move) UCI() string {
	return m.From.Notation() + m.To.Notation()
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To
}
