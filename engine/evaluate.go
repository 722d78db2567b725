package engine

import (
	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/position"
)

// PieceWeights holds the material weight of each type flag.
type PieceWeights struct {
	King, Queen, Rook, Bishop, Knight, Pawn int32
}

// HybridPenalty is subtracted from the weight of every piece carrying all of
// Types.
type HybridPenalty struct {
	Types board.Piece
	Score int32
}

type EvalConfig struct {
	Weights         PieceWeights
	HybridPenalties []HybridPenalty
}

var (
	DefaultPieceWeights = PieceWeights{
		King:   1000,
		Queen:  100,
		Rook:   70,
		Knight: 60,
		Bishop: 50,
		Pawn:   20,
	}

	// CombinationPenalties discourages stacking flags whose movement the Queen
	// already covers.
	CombinationPenalties = []HybridPenalty{
		{Types: board.PieceQueen | board.PieceRook, Score: 20},
		{Types: board.PieceQueen | board.PieceBishop, Score: 20},
		{Types: board.PieceQueen | board.PiecePawn, Score: 10},
	}

	DefaultEvalConfig = EvalConfig{
		Weights: DefaultPieceWeights,
	}
)

func (w PieceWeights) of(t board.Piece) int32 {
	switch t {
	case board.PieceKing:
		return w.King
	case board.PieceQueen:
		return w.Queen
	case board.PieceRook:
		return w.Rook
	case board.PieceBishop:
		return w.Bishop
	case board.PieceKnight:
		return w.Knight
	case board.PiecePawn:
		return w.Pawn
	default:
		return 0
	}
}

// ScorePiece returns the material value of p: the weight of every flag it
// carries, less the matching hybrid penalties.
func (cfg *EvalConfig) ScorePiece(p board.Piece) int32 {
	var score int32
	p.Each(func(t board.Piece) {
		score += cfg.Weights.of(t)
	})
	for _, pen := range cfg.HybridPenalties {
		if p.Has(pen.Types) {
			score -= pen.Score
		}
	}
	return score
}

// Evaluate returns the material balance of b from the point of view of s.
func (e *Engine) Evaluate(b board.Board, s board.Side) int32 {
	var score int32
	for pos := position.Pos(0); pos < board.TotalCells; pos++ {
		p := b.Piece(pos)
		switch p.Side() {
		case s:
			score += e.eval.ScorePiece(p)
		case s.Opposite():
			score -= e.eval.ScorePiece(p)
		}
	}
	return score
}
