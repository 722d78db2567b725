package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/daystram/hybridchess/engine"
	"github.com/daystram/hybridchess/position"
	"github.com/daystram/hybridchess/session"
)

func inline(task func()) {
	task()
}

func newTestInterface(out *bytes.Buffer) *Interface {
	return NewInterface(out, WithScheduler(inline), WithDepth(1), WithSeed(3))
}

func TestRun(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	i := newTestInterface(out)
	script := strings.Join([]string{
		"new human ai",
		"select e2",
		"select e4",
		"moves b1",
		"history",
		"bogus",
		"select z9",
		"quit",
		"select d2",
	}, "\n")

	if err := i.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"new game, White to move\n",
		"selected e2: e4 e3\n",
		"move e2-e4\n",
		session.StatusThinking + "\n",
		"b1 Knight: a3 c3 d2\n",
		"1. e2-e4 ",
		"error: unknown command: bogus\n",
		"error: invalid notation\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing output %q in:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "move "); n != 2 {
		t.Errorf("unexpected move lines: got=%d want=2", n)
	}
	if h := i.session.History(); len(h) != 2 {
		t.Errorf("unexpected history after quit: got=%d want=2", len(h))
	}
}

func TestExec(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cmd     string
		wantErr error
	}{
		{cmd: "", wantErr: nil},
		{cmd: "new", wantErr: ErrInvalidArgs},
		{cmd: "new maybe false", wantErr: ErrInvalidArgs},
		{cmd: "new 0 false", wantErr: nil},
		{cmd: "select", wantErr: ErrInvalidArgs},
		{cmd: "select 64", wantErr: position.ErrInvalidNotation},
		{cmd: "select 52", wantErr: nil},
		{cmd: "out", wantErr: nil},
		{cmd: "moves i9", wantErr: position.ErrInvalidNotation},
		{cmd: "setoption name depth value 0", wantErr: ErrInvalidArgs},
		{cmd: "setoption name strategy value clever", wantErr: ErrInvalidArgs},
		{cmd: "setoption name strategy value Greedy", wantErr: nil},
		{cmd: "setoption name hash value 1024", wantErr: nil},
		{cmd: "setoption name seed value -4", wantErr: ErrInvalidArgs},
		{cmd: "setoption name seed value 42", wantErr: nil},
		{cmd: "setoption name colour value red", wantErr: ErrInvalidArgs},
		{cmd: "castle", wantErr: ErrUnknownCommand},
	}

	i := newTestInterface(&bytes.Buffer{})
	if err := i.reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tt := range tests {
		err := i.Exec(context.Background(), tt.cmd)
		if tt.wantErr == nil && err != nil || !errors.Is(err, tt.wantErr) {
			t.Errorf("unexpected error for %q: got=%v want=%v", tt.cmd, err, tt.wantErr)
		}
	}
	if i.options.strategy != engine.StrategyGreedy || i.options.hashTableSize != 1024 {
		t.Errorf("unexpected options: strategy=%s hash=%d", i.options.strategy, i.options.hashTableSize)
	}
}

func TestSelectByIndex(t *testing.T) {
	t.Parallel()
	i := newTestInterface(&bytes.Buffer{})
	ctx := context.Background()
	if err := i.reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cmd := range []string{"new false false", "select 57", "select 51"} {
		if err := i.Exec(ctx, cmd); err != nil {
			t.Fatalf("unexpected error for %q: %v", cmd, err)
		}
	}
	h := i.session.History()
	if len(h) != 1 || !h[0].IsMerge || h[0].Algebra() != "Nb1&d2" {
		t.Errorf("unexpected history: %v", h)
	}

	out := &bytes.Buffer{}
	i.out = out
	if err := i.Exec(ctx, "layout"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := out.String(), "rnbqkbnr/pppppppp/8/8/8/8/PPP(NP)PPPP/R1BQKBNR b\n"; got != want {
		t.Errorf("unexpected layout: got=%q want=%q", got, want)
	}
}

func TestSelfPlay(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	var tasks []func()
	i := NewInterface(out, WithScheduler(func(task func()) { tasks = append(tasks, task) }), WithDepth(1), WithSeed(9))
	ctx := context.Background()
	if err := i.reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := i.Exec(ctx, "new ai ai"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// commands while the AI is thinking are swallowed by the session
	if err := i.Exec(ctx, "new human human"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for n := 0; n < 6 && len(tasks) > 0; n++ {
		task := tasks[0]
		tasks = tasks[1:]
		task()
	}
	if got := len(i.session.History()); got != 6 {
		t.Errorf("unexpected plies: got=%d want=6", got)
	}
	if n := strings.Count(out.String(), "move "); n != 6 {
		t.Errorf("unexpected move lines: got=%d want=6", n)
	}
}

func TestPerftAndLayoutOptions(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	i := NewInterface(out,
		WithScheduler(inline),
		WithDepth(1),
		WithSeed(3),
		WithStrategy(engine.StrategyGreedy),
		WithHashTableSize(64),
		WithStartingLayout("4k3/8/8/8/8/8/8/(QR)3K3 w"),
	)
	ctx := context.Background()
	if err := i.reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cmd := range []string{"new human human", "layout", "perft 1"} {
		if err := i.Exec(ctx, cmd); err != nil {
			t.Fatalf("unexpected error for %q: %v", cmd, err)
		}
	}

	got := out.String()
	for _, want := range []string{
		"4k3/8/8/8/8/8/8/(QR)3K3 w\n",
		"a1e1: 1\n",
		"d=1 nodes=23 ",
		"mrg=1 chk=5",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing output %q in:\n%s", want, got)
		}
	}

	for _, cmd := range []string{"perft", "perft -1", "perft deep"} {
		if err := i.Exec(ctx, cmd); !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("unexpected error for %q: got=%v want=%v", cmd, err, ErrInvalidArgs)
		}
	}
}

func TestDrawReportsMaterial(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	i := newTestInterface(out)
	ctx := context.Background()
	if err := i.reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cmd := range []string{"new human human", "select b1", "select d2", "d"} {
		if err := i.Exec(ctx, cmd); err != nil {
			t.Fatalf("unexpected error for %q: %v", cmd, err)
		}
	}
	// the merged Knight and Pawn share one cell and keep both flags
	if got, want := out.String(), "material white:15/16 black:16/16\n"; !strings.Contains(got, want) {
		t.Errorf("missing output %q in:\n%s", want, got)
	}
}

func TestNewGameWhileAIRenders(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	i := NewInterface(out, WithDepth(1), WithSeed(5))
	ctx := context.Background()
	if err := i.reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for n := 0; n < 20; n++ {
		for _, cmd := range []string{"new human ai", "select e2", "select e4", "new human human"} {
			if err := i.Exec(ctx, cmd); err != nil {
				t.Fatalf("unexpected error for %q: %v", cmd, err)
			}
		}
	}
	deadline := time.Now().Add(5 * time.Second)
	for i.session.State() == session.StateAwaitingAIMove {
		if time.Now().After(deadline) {
			t.Fatal("AI move did not complete")
		}
		time.Sleep(time.Millisecond)
	}
	i.outMu.Lock()
	defer i.outMu.Unlock()
	if !strings.Contains(out.String(), "new game, White to move\n") {
		t.Errorf("missing new game output in:\n%s", out.String())
	}
}
