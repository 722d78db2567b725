package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daystram/hybridchess/position"
)

const (
	Width      = position.MaxComponentScalar
	Height     = position.MaxComponentScalar
	TotalCells = position.TotalCells

	DefaultStartingPositionLayout = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w"
	EmptyLayout                   = "8/8/8/8/8/8/8/8 w"
)

var (
	ErrInvalidLayout = errors.New("invalid layout")
)

// Board is an immutable 8x8 mailbox. Every operation producing a different
// position returns a new Board value; the receiver is never modified. Board
// values are comparable.
type Board struct {
	cells [TotalCells]Piece
}

// PieceAt pairs a piece with the cell it stands on.
type PieceAt struct {
	Pos   position.Pos
	Piece Piece
}

type boardConfig struct {
	layout string
}

type BoardOption func(*boardConfig)

func WithLayout(layout string) BoardOption {
	return func(cfg *boardConfig) {
		cfg.layout = layout
	}
}

// NewBoard parses the configured layout, the standard opening by default,
// and returns the board with the side to move.
func NewBoard(opts ...BoardOption) (Board, Side, error) {
	cfg := &boardConfig{
		layout: DefaultStartingPositionLayout,
	}
	for _, f := range opts {
		f(cfg)
	}
	var b Board
	turn, err := UnmarshalLayout(cfg.layout, &b)
	if err != nil {
		return Board{}, SideUnknown, err
	}
	return b, turn, nil
}

// Fresh returns the standard opening position.
func Fresh() Board {
	b, _, err := NewBoard()
	if err != nil {
		panic(err)
	}
	return b
}

func (b Board) Piece(pos position.Pos) Piece {
	if !pos.Valid() {
		return PieceUnknown
	}
	return b.cells[pos]
}

// Cells returns a copy of every cell, indexed by position.
func (b Board) Cells() [TotalCells]Piece {
	return b.cells
}

// With returns a copy of the board with p placed at pos, replacing whatever
// stood there.
func (b Board) With(pos position.Pos, p Piece) Board {
	b.cells[pos] = p
	return b
}

// Move returns the board after moving the piece on from to to. A piece landing
// on a piece of its own side merges into it; landing on the opposing side
// replaces it. Moving from an empty cell panics.
func (b Board) Move(from, to position.Pos) Board {
	p := b.cells[from]
	if p.IsEmpty() {
		panic(fmt.Sprintf("board: move from empty cell %s", from))
	}
	b.cells[from] = PieceUnknown
	if target := b.cells[to]; !target.IsEmpty() && target.Side() == p.Side() {
		p = p.Merge(target)
	}
	b.cells[to] = p
	return b
}

// Describe returns the move metadata of from->to on this board.
func (b Board) Describe(from, to position.Pos) Move {
	p, target := b.cells[from], b.cells[to]
	return Move{
		From:      from,
		To:        to,
		Piece:     p,
		IsTurn:    p.Side(),
		IsCapture: !target.IsEmpty() && target.Side() != p.Side(),
		IsMerge:   !target.IsEmpty() && target.Side() == p.Side(),
	}
}

// EachPiece calls f for every piece of side s in ascending position order,
// stopping early when f returns false.
func (b Board) EachPiece(s Side, f func(pos position.Pos, p Piece) bool) {
	for pos := position.Pos(0); pos < TotalCells; pos++ {
		p := b.cells[pos]
		if p.IsEmpty() || p.Side() != s {
			continue
		}
		if !f(pos, p) {
			return
		}
	}
}

// Pieces returns every piece of side s in ascending position order.
func (b Board) Pieces(s Side) []PieceAt {
	var pieces []PieceAt
	b.EachPiece(s, func(pos position.Pos, p Piece) bool {
		pieces = append(pieces, PieceAt{Pos: pos, Piece: p})
		return true
	})
	return pieces
}

// King returns the position of the King-bearing piece of side s. It panics
// unless exactly one such piece exists.
func (b Board) King(s Side) position.Pos {
	kingPos, count := position.Pos(-1), 0
	b.EachPiece(s, func(pos position.Pos, p Piece) bool {
		if p.Has(PieceKing) {
			kingPos = pos
			count++
		}
		return true
	})
	if count != 1 {
		panic(fmt.Sprintf("board: expected one %s King, found %d", s, count))
	}
	return kingPos
}

// Material returns the number of pieces and the number of type flags side s
// has on the board.
func (b Board) Material(s Side) (pieces, flags int) {
	b.EachPiece(s, func(_ position.Pos, p Piece) bool {
		pieces++
		p.Each(func(Piece) { flags++ })
		return true
	})
	return pieces, flags
}

func (b Board) Dump() string {
	builder := strings.Builder{}
	for y := position.Pos(0); y < Height; y++ {
		_, _ = builder.WriteString("   +----+----+----+----+----+----+----+----+\n")
		_, _ = builder.WriteString(fmt.Sprintf(" %s |", y.NotationComponentY()))
		for x := position.Pos(0); x < Width; x++ {
			sym := b.cells[position.NewPos(x, y)].SymbolLayout()
			_, _ = builder.WriteString(fmt.Sprintf("%-4s|", strings.Trim(sym, "()")))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   +----+----+----+----+----+----+----+----+\n   ")
	for x := position.Pos(0); x < Width; x++ {
		_, _ = builder.WriteString(fmt.Sprintf("  %s  ", x.NotationComponentX()))
	}
	return builder.String()
}
