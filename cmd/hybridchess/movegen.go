package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/daystram/hybridchess/board"
)

func movegen(w io.Writer, layout string, draw bool) error {
	b, turn, err := board.NewBoard(board.WithLayout(layout))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "to move:", turn)
	fmt.Fprintln(w, b.Dump())
	fmt.Fprintln(w, b.Draw())
	fmt.Fprintln(w, b.State(turn))
	mvs := dumpMoves(w, b, turn)

	if draw {
		for _, mv := range mvs {
			bb := b.Move(mv.From, mv.To)
			fmt.Fprintln(w, mv)
			fmt.Fprintln(w, bb.Draw(mv.From, mv.To))
			fmt.Fprintln(w, bb.Layout(turn.Opposite()))
		}
	}
	return nil
}

func dumpMoves(w io.Writer, b board.Board, turn board.Side) []board.Move {
	mvs := b.LegalMoves(turn)
	for i, mv := range mvs {
		fmt.Fprintf(w, "option %*d: [%s] [%s] %s %s %s => %s (cap=%v) (mrg=%v) (chk=%v)\n",
			len(strconv.Itoa(len(mvs))), i+1, mv.UCI(), mv.Algebra(), mv.IsTurn, mv.Piece.Name(), mv.From, mv.To, mv.IsCapture, mv.IsMerge, mv.IsCheck)
	}
	return mvs
}
