package board

import (
	"sort"

	"github.com/daystram/hybridchess/position"
)

type delta struct {
	dx, dy position.Pos
}

var (
	deltasLateral  = []delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	deltasDiagonal = []delta{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	deltasAll      = append(append([]delta{}, deltasLateral...), deltasDiagonal...)
	deltasKnight   = []delta{
		{1, 2}, {2, 1},
		{-1, 2}, {2, -1},
		{1, -2}, {-2, 1},
		{-1, -2}, {-2, -1},
	}
)

// MovesFrom returns the pseudo-legal destinations of the piece on pos,
// deduplicated and in ascending order, and false when pos is empty. The
// destinations include cells held by either side: landing on the opposing
// side captures, landing on the own side merges.
func (b Board) MovesFrom(pos position.Pos) ([]position.Pos, bool) {
	p := b.Piece(pos)
	if p.IsEmpty() {
		return nil, false
	}

	var seen [TotalCells]bool
	dests := make([]position.Pos, 0, 16)
	push := func(to position.Pos) {
		if !seen[to] {
			seen[to] = true
			dests = append(dests, to)
		}
	}
	p.Each(func(t Piece) {
		b.genDestinations(pos, p.Side(), t, push)
	})

	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })
	return dests, true
}

// genDestinations pushes the destinations of a single type flag t standing on
// from for side s.
func (b Board) genDestinations(from position.Pos, s Side, t Piece, push func(position.Pos)) {
	switch t {
	case PiecePawn:
		dy := s.Forward()
		if to, ok := from.D(0, dy); ok && b.cells[to].IsEmpty() {
			push(to)
			// no jumping over an occupied cell on the double step
			if from.Y() == s.PawnRow() {
				if to, ok := from.D(0, 2*dy); ok && b.cells[to].IsEmpty() {
					push(to)
				}
			}
		}
		for _, dx := range [2]position.Pos{-1, 1} {
			if to, ok := from.D(dx, dy); ok && !b.cells[to].IsEmpty() {
				push(to)
			}
		}
	case PieceRook:
		b.genSliding(from, deltasLateral, push)
	case PieceBishop:
		b.genSliding(from, deltasDiagonal, push)
	case PieceQueen:
		b.genSliding(from, deltasAll, push)
	case PieceKing:
		b.genStep(from, deltasAll, push)
	case PieceKnight:
		b.genStep(from, deltasKnight, push)
	}
}

func (b Board) genSliding(from position.Pos, ds []delta, push func(position.Pos)) {
	for _, d := range ds {
		pos := from
		for {
			to, ok := pos.D(d.dx, d.dy)
			if !ok {
				break
			}
			push(to)
			if !b.cells[to].IsEmpty() {
				break
			}
			pos = to
		}
	}
}

func (b Board) genStep(from position.Pos, ds []delta, push func(position.Pos)) {
	for _, d := range ds {
		if to, ok := from.D(d.dx, d.dy); ok {
			push(to)
		}
	}
}

// PseudoLegalMoves returns every (from, to) pair available to side s without
// regard to its own King safety.
func (b Board) PseudoLegalMoves(s Side) []Move {
	mvs := make([]Move, 0, 64)
	b.EachPiece(s, func(from position.Pos, _ Piece) bool {
		dests, _ := b.MovesFrom(from)
		for _, to := range dests {
			mvs = append(mvs, b.Describe(from, to))
		}
		return true
	})
	return mvs
}

// LegalMoves returns the pseudo-legal moves of side s that do not leave its
// King in check. IsCheck is set on moves that check the opponent when the
// opponent has a King.
func (b Board) LegalMoves(s Side) []Move {
	pseudo := b.PseudoLegalMoves(s)
	mvs := pseudo[:0]
	opponentHasKing := b.hasKing(s.Opposite())
	for _, mv := range pseudo {
		bb := b.Move(mv.From, mv.To)
		if bb.IsCheck(s) {
			continue
		}
		if opponentHasKing && bb.hasKing(s.Opposite()) {
			mv.IsCheck = bb.IsCheck(s.Opposite())
		}
		mvs = append(mvs, mv)
	}
	return mvs
}

// IsLegal reports whether moving from->to is pseudo-legal for the piece on
// from and does not leave its side in check.
func (b Board) IsLegal(from, to position.Pos) bool {
	dests, ok := b.MovesFrom(from)
	if !ok {
		return false
	}
	i := sort.Search(len(dests), func(i int) bool { return dests[i] >= to })
	if i == len(dests) || dests[i] != to {
		return false
	}
	return !b.Move(from, to).IsCheck(b.Piece(from).Side())
}

func (b Board) hasKing(s Side) bool {
	found := false
	b.EachPiece(s, func(_ position.Pos, p Piece) bool {
		found = p.Has(PieceKing)
		return !found
	})
	return found
}
