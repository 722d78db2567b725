package board

import (
	"math/rand"
	"testing"
)

func TestCheckScenarios(t *testing.T) {
	t.Parallel()
	blackKing := NewPiece(SideBlack, PieceKing)
	whiteQueen := NewPiece(SideWhite, PieceQueen)
	whiteRook := NewPiece(SideWhite, PieceRook)

	check := Board{}.With(0, blackKing).With(56, whiteQueen)
	if !check.IsCheck(SideBlack) {
		t.Error("expected check")
	}
	if check.IsCheckmate(SideBlack) {
		t.Error("unexpected checkmate")
	}
	if check.IsStalemate(SideBlack) {
		t.Error("unexpected stalemate")
	}

	mate := check.With(57, whiteRook)
	if !mate.IsCheckmate(SideBlack) {
		t.Error("expected checkmate")
	}
	if got := mate.State(SideBlack); got != StateCheckmateBlack {
		t.Errorf("unexpected state: got=%s want=%s", got, StateCheckmateBlack)
	}
	if got := mate.State(SideBlack).Winner(); got != SideWhite {
		t.Errorf("unexpected winner: got=%s want=%s", got, SideWhite)
	}

	stale := Board{}.With(0, blackKing).With(57, whiteQueen).With(15, whiteRook)
	if !stale.IsStalemate(SideBlack) {
		t.Error("expected stalemate")
	}
	if stale.IsCheck(SideBlack) || stale.IsCheckmate(SideBlack) {
		t.Error("unexpected check")
	}
	if got := stale.State(SideBlack); got != StateStalemate {
		t.Errorf("unexpected state: got=%s want=%s", got, StateStalemate)
	}
}

func TestState(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		layout string
		want   State
	}{
		{name: "opening", layout: DefaultStartingPositionLayout, want: StateRunning},
		{name: "white in check", layout: "4k3/8/8/8/8/8/8/r3K3 w", want: StateCheckWhite},
		{name: "hybrid blocked by own king", layout: "4k3/8/8/8/8/8/8/(RN)3K3 b", want: StateRunning},
		{name: "black in check by knight part of hybrid", layout: "4k3/8/3(BN)4/8/8/8/8/4K3 b", want: StateCheckBlack},
		{name: "king escapes by capturing", layout: "k7/Q7/8/8/8/8/8/4K3 b", want: StateCheckBlack},
		{name: "king escapes by merging out of the line", layout: "k7/1p6/8/8/8/8/8/R3K3 b", want: StateCheckBlack},
		{name: "smothered king escapes by merging", layout: "kr6/pp6/1N6/8/8/8/8/4K3 b", want: StateCheckBlack},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b, turn := mustBoard(t, tt.layout)
			if got := b.State(turn); got != tt.want {
				t.Errorf("unexpected state: got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestMergingCarriesKing(t *testing.T) {
	t.Parallel()
	b, _ := mustBoard(t, "k7/8/8/8/8/8/8/4KR2 w")
	merged := b.Move(mustPos(t, "e1"), mustPos(t, "f1"))
	if got := merged.King(SideWhite); got != mustPos(t, "f1") {
		t.Errorf("unexpected King position: got=%s want=%s", got, "f1")
	}
	if !merged.Piece(mustPos(t, "f1")).Has(PieceKing | PieceRook) {
		t.Errorf("unexpected merged piece: %s", merged.Piece(mustPos(t, "f1")))
	}
	// The merged King+Rook attacks along the file.
	if !merged.With(mustPos(t, "f8"), NewPiece(SideBlack, PieceKing)).With(0, PieceUnknown).IsCheck(SideBlack) {
		t.Error("expected rook part of merged King to give check")
	}
}

func TestRandomPlayoutInvariants(t *testing.T) {
	t.Parallel()
	for seed := int64(1); seed <= 4; seed++ {
		r := rand.New(rand.NewSource(seed))
		b, turn := Fresh(), SideWhite
		for ply := 0; ply < 80; ply++ {
			isCheck := b.IsCheck(turn)
			isMate := b.IsCheckmate(turn)
			isStale := b.IsStalemate(turn)
			if isMate && !isCheck {
				t.Fatalf("seed %d ply %d: checkmate without check\n%s", seed, ply, b.Layout(turn))
			}
			if isStale && isCheck {
				t.Fatalf("seed %d ply %d: stalemate while in check\n%s", seed, ply, b.Layout(turn))
			}
			mvs := b.LegalMoves(turn)
			if len(mvs) == 0 {
				if !isMate && !isStale {
					t.Fatalf("seed %d ply %d: no moves but not terminal\n%s", seed, ply, b.Layout(turn))
				}
				break
			}
			if isMate || isStale {
				t.Fatalf("seed %d ply %d: terminal with %d legal moves", seed, ply, len(mvs))
			}

			mv := mvs[r.Intn(len(mvs))]
			before := b
			next := b.Move(mv.From, mv.To)
			if b != before {
				t.Fatalf("seed %d ply %d: move modified its input", seed, ply)
			}
			if next.IsCheck(turn) {
				t.Fatalf("seed %d ply %d: legal move %s leaves mover in check", seed, ply, mv)
			}
			b, turn = next, turn.Opposite()
		}
	}
}
