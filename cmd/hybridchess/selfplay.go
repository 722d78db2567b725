package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/engine"
)

// selfplay pits the configured engine, playing the side to move first,
// against a random mover until the game ends or plies run out.
func selfplay(ctx context.Context, w io.Writer, cfg config, layout string, plies int) error {
	b, turn, err := board.NewBoard(board.WithLayout(layout))
	if err != nil {
		return err
	}
	players := map[board.Side]*engine.Engine{
		turn:            cfg.engine(cfg.strategy),
		turn.Opposite(): cfg.engine(engine.StrategyRandom),
	}
	fmt.Fprintln(w, b.Draw())
	fmt.Fprintln(w, b.Layout(turn))

	var history []board.Move
	st := b.State(turn)
	for ply := 0; ply < plies && st.IsRunning(); ply++ {
		mv, err := players[turn].ChooseMove(ctx, b, turn)
		if err != nil {
			return err
		}
		b = b.Move(mv.From, mv.To)
		turn = turn.Opposite()
		st = b.State(turn)
		mv.IsCheck = st.IsCheck() || st.IsCheckmate()
		history = append(history, mv)

		fmt.Fprintf(w, "\n>>> %s: %s\n", mv.IsTurn, mv)
		fmt.Fprintln(w, b.Layout(turn))
		fmt.Fprintln(w, b.Draw(mv.From, mv.To))
	}
	log.Println("=============== game ended:", st)
	dumpHistory(w, history)
	return nil
}

func dumpHistory(w io.Writer, mvs []board.Move) {
	for i, mv := range mvs {
		if i%2 == 0 {
			fmt.Fprintf(w, "%d.", i/2+1)
		}
		fmt.Fprintf(w, "%s ", mv)
	}
	fmt.Fprintln(w)
}
