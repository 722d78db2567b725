package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/engine"
)

func TestMovegen(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	if err := movegen(out, board.DefaultStartingPositionLayout, true); err != nil {
		t.Fatal("unexpected error:", err)
	}
	got := out.String()
	for _, want := range []string{"to move: White", "option 40: ", "[Nb1&d2]", "rnbqkbnr/pppppppp/8/8/8/8/PPP(NP)PPPP/R1BQKBNR b"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing output %q", want)
		}
	}
	if err := movegen(out, "8/8 w", false); err == nil {
		t.Error("expected error for invalid layout")
	}
}

func TestPerft(t *testing.T) {
	t.Parallel()
	for _, parallel := range []bool{false, true} {
		out := &bytes.Buffer{}
		if err := perft(out, 1, board.DefaultStartingPositionLayout, parallel); err != nil {
			t.Fatal("unexpected error:", err)
		}
		if got := out.String(); !strings.Contains(got, "d=1 nodes=40 ") || !strings.Contains(got, "mrg=20") {
			t.Errorf("unexpected perft output:\n%s", got)
		}
	}
}

func TestStep(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	if err := step(out, "4k3/8/8/8/8/8/8/4K3 w", 1); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got := strings.Count(out.String(), "\n===== [#"); got != stepLimit {
		t.Errorf("unexpected plies: got=%d want=%d", got, stepLimit)
	}

	if err := step(out, "k7/8/8/8/8/8/8/QR6 b", 1); err == nil {
		t.Error("expected move exhaustion")
	}
}

func TestSelfplay(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	cfg := config{depth: 2, workers: 2, hash: 1024, seed: 1, strategy: engine.StrategyMinimax}
	if err := selfplay(context.Background(), out, cfg, "k7/8/8/8/8/4K3/1R6/2Q5 w", 10); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got, want := out.String(), "1.Qc1-a1+ \n"; !strings.HasSuffix(got, want) {
		t.Errorf("unexpected history: got=%q want suffix %q", got[max(0, len(got)-40):], want)
	}
}
