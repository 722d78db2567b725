package board

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/daystram/hybridchess/position"
)

var (
	colorCellLight  = color.New(color.FgBlack, color.BgHiGreen)
	colorCellDark   = color.New(color.FgBlack, color.BgGreen)
	colorCellMarked = color.New(color.FgBlack, color.BgHiYellow)
	colorCellHybrid = color.New(color.FgMagenta, color.Bold)
	colorLabel      = color.New(color.Bold)
)

// Draw renders the board for a terminal, marking the given cells. Hybrids are
// drawn with the figurine of their strongest flag followed by a '+'.
func (b Board) Draw(marked ...position.Pos) string {
	isMarked := make(map[position.Pos]bool, len(marked))
	for _, pos := range marked {
		isMarked[pos] = true
	}

	builder := strings.Builder{}
	for y := position.Pos(0); y < Height; y++ {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %s ", y.NotationComponentY()))
		for x := position.Pos(0); x < Width; x++ {
			pos := position.NewPos(x, y)
			p := b.cells[pos]
			sym, suffix := " ", " "
			if !p.IsEmpty() {
				sym = p.SymbolUnicode(false)
			}
			if p.IsHybrid() {
				suffix = colorCellHybrid.Sprint("+")
			}
			cell := colorCellLight
			switch {
			case isMarked[pos]:
				cell = colorCellMarked
			case x%2^y%2 == 1:
				cell = colorCellDark
			}
			_, _ = builder.WriteString(cell.Sprintf(" %s", sym) + cell.Sprint(suffix))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   ")
	for x := position.Pos(0); x < Width; x++ {
		_, _ = builder.WriteString(colorLabel.Sprint(fmt.Sprintf(" %s ", x.NotationComponentX())))
	}
	return builder.String()
}
