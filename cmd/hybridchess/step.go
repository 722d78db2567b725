package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/engine"
)

const stepLimit = 5000

// step plays uniformly random legal moves and reports the average cost of
// move generation, application and classification.
func step(w io.Writer, layout string, seed uint64) error {
	fmt.Fprintln(w, "============ step")
	var (
		timesLegalMoves []time.Duration
		timesMove       []time.Duration
		timesState      []time.Duration
	)
	b, turn, err := board.NewBoard(board.WithLayout(layout))
	if err != nil {
		return err
	}
	r := rand.New(engine.NewPseudoRand(seed))
	st := b.State(turn)
stepLoop:
	for ply := 0; ply < stepLimit; ply++ {
		t1 := time.Now()
		mvs := b.LegalMoves(turn)
		t2 := time.Now()
		timesLegalMoves = append(timesLegalMoves, t2.Sub(t1))
		if len(mvs) == 0 {
			return fmt.Errorf("unexpected move exhaustion: state=%s", st)
		}
		mv := mvs[r.Intn(len(mvs))]

		t1 = time.Now()
		b = b.Move(mv.From, mv.To)
		turn = turn.Opposite()
		t2 = time.Now()
		timesMove = append(timesMove, t2.Sub(t1))

		t1 = time.Now()
		st = b.State(turn)
		t2 = time.Now()
		timesState = append(timesState, t2.Sub(t1))

		fmt.Fprintf(w, "\n===== [#%d] %s: %s\n", ply/2+1, mv.IsTurn, mv)
		fmt.Fprintln(w, b.Layout(turn))
		if !st.IsRunning() {
			break stepLoop
		}
	}

	avg := func(ds []time.Duration) time.Duration {
		if len(ds) == 0 {
			return 0
		}
		var s time.Duration
		for _, d := range ds {
			s += d
		}
		return s / time.Duration(len(ds))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st)
	fmt.Fprintln(w, "legal:", avg(timesLegalMoves))
	fmt.Fprintln(w, "move:", avg(timesMove))
	fmt.Fprintln(w, "state:", avg(timesState))
	return nil
}
