package board

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/daystram/hybridchess/position"
)

// UnmarshalLayout parses a layout into b and returns the side to move.
//
// A layout lists the rows from Black's back rank down to White's, separated
// by '/', followed by a space and the side to move ("w" or "b"). Within a
// row, digits skip empty cells, letters place plain pieces (uppercase for
// White) and a parenthesised group of letters of one case places a hybrid,
// e.g. "(QN)" for a White Queen+Knight.
func UnmarshalLayout(layout string, b *Board) (Side, error) {
	if b == nil {
		return SideUnknown, fmt.Errorf("invalid board")
	}
	segments := strings.Split(layout, " ")
	if len(segments) != 2 {
		return SideUnknown, fmt.Errorf("%w: incorrect number of segments", ErrInvalidLayout)
	}

	rows := strings.Split(segments[0], "/")
	if len(rows) != int(Height) {
		return SideUnknown, fmt.Errorf("%w: invalid board configuration", ErrInvalidLayout)
	}
	var cells [TotalCells]Piece
	for y := position.Pos(0); y < Height; y++ {
		row := rows[y]
		x := position.Pos(0)
		for i := 0; i < len(row); i++ {
			if x >= Width {
				return SideUnknown, fmt.Errorf("%w: too many cells in row %d", ErrInvalidLayout, y)
			}
			switch cell := rune(row[i]); {
			case cell != '0' && unicode.IsDigit(cell):
				x += position.Pos(cell - '0')
				if x > Width {
					return SideUnknown, fmt.Errorf("%w: too many cells in row %d", ErrInvalidLayout, y)
				}
			case cell == '(':
				end := strings.IndexByte(row[i:], ')')
				if end < 0 {
					return SideUnknown, fmt.Errorf("%w: unterminated hybrid in row %d", ErrInvalidLayout, y)
				}
				p, err := parseHybrid(row[i+1 : i+end])
				if err != nil {
					return SideUnknown, err
				}
				cells[position.NewPos(x, y)] = p
				x++
				i += end
			default:
				s, t, err := parseSymbol(cell)
				if err != nil {
					return SideUnknown, err
				}
				cells[position.NewPos(x, y)] = NewPiece(s, t)
				x++
			}
		}
		if x != Width {
			return SideUnknown, fmt.Errorf("%w: missing cells in row %d", ErrInvalidLayout, y)
		}
	}

	var turn Side
	switch segments[1] {
	case "w":
		turn = SideWhite
	case "b":
		turn = SideBlack
	default:
		return SideUnknown, fmt.Errorf("%w: invalid side to move", ErrInvalidLayout)
	}

	b.cells = cells
	return turn, nil
}

func parseHybrid(group string) (Piece, error) {
	if len(group) < 2 {
		return PieceUnknown, fmt.Errorf("%w: hybrid needs at least two types", ErrInvalidLayout)
	}
	var types Piece
	side := SideUnknown
	for _, cell := range group {
		s, t, err := parseSymbol(cell)
		if err != nil {
			return PieceUnknown, err
		}
		if side != SideUnknown && s != side {
			return PieceUnknown, fmt.Errorf("%w: hybrid mixes sides", ErrInvalidLayout)
		}
		if types&t != 0 {
			return PieceUnknown, fmt.Errorf("%w: repeated type in hybrid", ErrInvalidLayout)
		}
		side = s
		types |= t
	}
	return NewPiece(side, types), nil
}

func parseSymbol(cell rune) (Side, Piece, error) {
	s := SideWhite
	if unicode.IsLower(cell) {
		s = SideBlack
	}
	switch unicode.ToUpper(cell) {
	case 'K':
		return s, PieceKing, nil
	case 'Q':
		return s, PieceQueen, nil
	case 'R':
		return s, PieceRook, nil
	case 'B':
		return s, PieceBishop, nil
	case 'N':
		return s, PieceKnight, nil
	case 'P':
		return s, PiecePawn, nil
	default:
		return SideUnknown, PieceUnknown, fmt.Errorf("%w: unknown symbol %q", ErrInvalidLayout, cell)
	}
}

// Layout returns the layout of the board with turn to move.
func (b Board) Layout(turn Side) string {
	builder := strings.Builder{}
	for y := position.Pos(0); y < Height; y++ {
		empty := 0
		for x := position.Pos(0); x < Width; x++ {
			p := b.cells[position.NewPos(x, y)]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty != 0 {
				_, _ = builder.WriteString(fmt.Sprint(empty))
				empty = 0
			}
			_, _ = builder.WriteString(p.SymbolLayout())
		}
		if empty != 0 {
			_, _ = builder.WriteString(fmt.Sprint(empty))
		}
		if y < Height-1 {
			_, _ = builder.WriteRune('/')
		}
	}
	if turn == SideBlack {
		_, _ = builder.WriteString(" b")
	} else {
		_, _ = builder.WriteString(" w")
	}
	return builder.String()
}
