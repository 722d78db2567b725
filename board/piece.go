package board

import (
	"math/bits"
	"strings"
)

// Piece is a capability bitmask plus a color bit. Any subset of the type
// flags may be set at once; such a hybrid piece moves as the union of every
// flag it carries. The zero value is an empty cell.
type Piece uint8

const (
	PieceKing Piece = 1 << iota
	PieceQueen
	PieceRook
	PieceBishop
	PieceKnight
	PiecePawn
	_
	pieceWhite

	PieceUnknown Piece = 0

	maskPieceTypes = PieceKing | PieceQueen | PieceRook | PieceBishop | PieceKnight | PiecePawn
)

// PieceTypes lists every type flag, strongest first.
var PieceTypes = [6]Piece{PieceKing, PieceQueen, PieceRook, PieceBishop, PieceKnight, PiecePawn}

// NewPiece builds a piece of side s carrying every given type flag.
func NewPiece(s Side, types ...Piece) Piece {
	var p Piece
	for _, t := range types {
		p |= t & maskPieceTypes
	}
	if p == PieceUnknown {
		return PieceUnknown
	}
	if s == SideWhite {
		p |= pieceWhite
	}
	return p
}

func (p Piece) IsEmpty() bool {
	return p == PieceUnknown
}

func (p Piece) Side() Side {
	switch {
	case p.IsEmpty():
		return SideUnknown
	case p&pieceWhite != 0:
		return SideWhite
	default:
		return SideBlack
	}
}

// Types returns the type flags without the color bit.
func (p Piece) Types() Piece {
	return p & maskPieceTypes
}

// Has reports whether every flag of t is set on p.
func (p Piece) Has(t Piece) bool {
	t &= maskPieceTypes
	return t != 0 && p&t == t
}

func (p Piece) IsHybrid() bool {
	return bits.OnesCount8(uint8(p.Types())) > 1
}

// Merge combines two same-side pieces: capabilities are unioned, the side
// of p is kept.
func (p Piece) Merge(o Piece) Piece {
	return p | o.Types()
}

// Each calls f for each type flag set on p, strongest first.
func (p Piece) Each(f func(t Piece)) {
	for _, t := range PieceTypes {
		if p&t != 0 {
			f(t)
		}
	}
}

func (p Piece) String() string {
	if s := p.Side(); s != SideUnknown {
		return s.String() + " " + p.Name()
	}
	return ""
}

func (p Piece) Name() string {
	var names []string
	p.Each(func(t Piece) {
		names = append(names, t.typeName())
	})
	return strings.Join(names, "+")
}

func (p Piece) typeName() string {
	switch p.Types() {
	case PieceKing:
		return "King"
	case PieceQueen:
		return "Queen"
	case PieceRook:
		return "Rook"
	case PieceBishop:
		return "Bishop"
	case PieceKnight:
		return "Knight"
	case PiecePawn:
		return "Pawn"
	default:
		return ""
	}
}

func (p Piece) typeSymbol() rune {
	switch p.Types() {
	case PieceKing:
		return 'K'
	case PieceQueen:
		return 'Q'
	case PieceRook:
		return 'R'
	case PieceBishop:
		return 'B'
	case PieceKnight:
		return 'N'
	case PiecePawn:
		return 'P'
	default:
		return 0
	}
}

// SymbolLayout returns the layout symbol of the piece: a single letter for
// plain pieces, a parenthesised group for hybrids. Black is lowercase.
func (p Piece) SymbolLayout() string {
	if p.IsEmpty() {
		return ""
	}
	builder := strings.Builder{}
	p.Each(func(t Piece) {
		sym := t.typeSymbol()
		if p.Side() == SideBlack {
			sym |= 0x20 // lowercase is +32 uppercase
		}
		_, _ = builder.WriteRune(sym)
	})
	if p.IsHybrid() {
		return "(" + builder.String() + ")"
	}
	return builder.String()
}

// SymbolUnicode returns the figurine of the strongest flag of the piece.
func (p Piece) SymbolUnicode(invert bool) string {
	s := p.Side()
	if invert {
		s = s.Opposite()
	}
	var strongest Piece
	for _, t := range PieceTypes {
		if p&t != 0 {
			strongest = t
			break
		}
	}
	switch s {
	case SideWhite:
		switch strongest {
		case PiecePawn:
			return "♙"
		case PieceBishop:
			return "♗"
		case PieceKnight:
			return "♘"
		case PieceRook:
			return "♖"
		case PieceQueen:
			return "♕"
		case PieceKing:
			return "♔"
		default:
			return ""
		}
	case SideBlack:
		switch strongest {
		case PiecePawn:
			return "♟"
		case PieceBishop:
			return "♝"
		case PieceKnight:
			return "♞"
		case PieceRook:
			return "♜"
		case PieceQueen:
			return "♛"
		case PieceKing:
			return "♚"
		default:
			return ""
		}
	default:
		return ""
	}
}
