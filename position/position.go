package position

import (
	"errors"
)

const (
	// MaxComponentScalar is the maximum component scalar the position system supports.
	MaxComponentScalar Pos = 8

	// TotalCells is the number of addressable positions.
	TotalCells = MaxComponentScalar * MaxComponentScalar
)

var (
	// ErrInvalidNotation represents an invalid notation error.
	ErrInvalidNotation = errors.New("invalid notation")
)

// Pos is a rank-major cell index. Row 0 is the back rank of Black (rank 8),
// row 7 is the back rank of White (rank 1).
type Pos int8

func NewPos(x, y Pos) Pos {
	return y*MaxComponentScalar + x
}

func NewPosFromNotation(n string) (Pos, error) {
	x, y, err := notationToXY(n)
	if err != nil {
		return 0, err
	}
	return MaxComponentScalar*y + x, nil
}

func (p Pos) String() string {
	return p.Notation()
}

func (p Pos) Notation() string {
	if !p.Valid() {
		return ""
	}
	return p.X().NotationComponentX() + p.Y().NotationComponentY()
}

func (p Pos) Valid() bool {
	return p >= 0 && p < TotalCells
}

func (p Pos) X() Pos {
	return p % MaxComponentScalar
}

func (p Pos) Y() Pos {
	return p / MaxComponentScalar
}

// D returns the position offset by (dx, dy), and false when it falls off the board.
func (p Pos) D(dx, dy Pos) (Pos, bool) {
	nx, ny := p.X()+dx, p.Y()+dy
	if nx < 0 || nx >= MaxComponentScalar || ny < 0 || ny >= MaxComponentScalar {
		return 0, false
	}
	return NewPos(nx, ny), true
}

func notationToXY(n string) (Pos, Pos, error) {
	if len(n) != 2 {
		return 0, 0, ErrInvalidNotation
	}
	pX, err := notationToX(n[0])
	if err != nil {
		return 0, 0, err
	}
	pY, err := notationToY(n[1])
	if err != nil {
		return 0, 0, err
	}
	return pX, pY, nil
}

func notationToX(x byte) (Pos, error) {
	if x < 'a' || x >= 'a'+byte(MaxComponentScalar) {
		return 0, ErrInvalidNotation
	}
	return Pos(x - 'a'), nil
}

func notationToY(y byte) (Pos, error) {
	if y < '1' || y >= '1'+byte(MaxComponentScalar) {
		return 0, ErrInvalidNotation
	}
	return MaxComponentScalar - Pos(y-'0'), nil
}

func (p Pos) NotationComponentX() string {
	if p < 0 || MaxComponentScalar <= p {
		return ""
	}
	return string(rune('a' + p))
}

func (p Pos) NotationComponentY() string {
	if p < 0 || MaxComponentScalar <= p {
		return ""
	}
	return string(rune('0' + MaxComponentScalar - p))
}
