package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/position"
)

const (
	StatusCheck     = "Check!"
	StatusStalemate = "Stalemate!"
	StatusThinking  = "AI is thinking..."
)

// Chooser picks a legal move for side s on b. engine.Engine satisfies it.
type Chooser interface {
	ChooseMove(ctx context.Context, b board.Board, s board.Side) (board.Move, error)
}

// Scheduler runs a unit of AI work. It may run task inline or on another
// goroutine; the session resumes once task returns.
type Scheduler func(task func())

// GoScheduler runs every task on its own goroutine.
func GoScheduler(task func()) {
	go task()
}

// Snapshot is a rendering of the session at one point in time.
type Snapshot struct {
	Board    board.Board
	Cells    [board.TotalCells]board.Piece
	Turn     board.Side
	State    State
	Winner   board.Side
	Check    bool
	Status   string
	CanStart bool

	// Selected is -1 unless State is StateSelected.
	Selected position.Pos
	Safe     []position.Pos
	Unsafe   []position.Pos

	LastMove board.Move
	HasLast  bool
	WhiteAI  bool
	BlackAI  bool
	Plies    int
}

type sessionConfig struct {
	schedule Scheduler
	render   func(Snapshot)
	logger   func(...any)
	ctx      context.Context
	layout   string
}

type SessionOption func(*sessionConfig)

func WithScheduler(schedule Scheduler) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.schedule = schedule
	}
}

// WithRenderer registers f to receive a snapshot after every transition.
// Snapshots are delivered in transition order. f must not issue commands on
// the session.
func WithRenderer(f func(Snapshot)) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.render = f
	}
}

func WithLogger(logger func(...any)) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.logger = logger
	}
}

// WithStartingLayout replaces the standard opening new games start from.
func WithStartingLayout(layout string) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.layout = layout
	}
}

// WithContext sets the context AI computations run under.
func WithContext(ctx context.Context) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.ctx = ctx
	}
}

// Session is the turn-taking state machine of one game. At most one AI
// computation is in flight; select, deselect and new game commands are
// ignored until it completes.
type Session struct {
	chooser  Chooser
	schedule Scheduler
	render   func(Snapshot)
	logger   func(...any)
	ctx      context.Context
	cancel   context.CancelFunc

	start     board.Board
	startTurn board.Side

	mu       sync.Mutex
	renderMu sync.Mutex

	state    State
	board    board.Board
	turn     board.Side
	winner   board.Side
	ai       [3]bool // indexed by board.Side
	selected position.Pos
	safe     []position.Pos
	unsafe   []position.Pos
	history  []board.Move
}

func New(chooser Chooser, opts ...SessionOption) (*Session, error) {
	cfg := &sessionConfig{
		schedule: GoScheduler,
		render:   func(Snapshot) {},
		logger:   func(...any) {},
		ctx:      context.Background(),
		layout:   board.DefaultStartingPositionLayout,
	}
	for _, f := range opts {
		f(cfg)
	}
	start, turn, err := board.NewBoard(board.WithLayout(cfg.layout))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(cfg.ctx)

	return &Session{
		chooser:   chooser,
		schedule:  cfg.schedule,
		render:    cfg.render,
		logger:    cfg.logger,
		ctx:       ctx,
		cancel:    cancel,
		start:     start,
		startTurn: turn,
		state:     StateSetup,
		turn:      turn,
		selected:  -1,
	}, nil
}

// NewGame resets to the starting position with the given sides under AI
// control. If the side to move is AI-controlled its first move is scheduled
// right away. It is ignored while an AI move is awaited.
func (s *Session) NewGame(whiteAI, blackAI bool) {
	s.mu.Lock()
	if s.state == StateAwaitingAIMove {
		s.mu.Unlock()
		return
	}
	s.board = s.start
	s.turn = s.startTurn
	s.winner = board.SideUnknown
	s.ai[board.SideWhite], s.ai[board.SideBlack] = whiteAI, blackAI
	s.history = nil
	s.clearSelection()
	s.advance()
	s.logger(fmt.Sprintf("new game white:%s black:%s", controller(whiteAI), controller(blackAI)))
	s.commit()
}

// Select handles a click on pos. Invalid clicks leave the session unchanged.
func (s *Session) Select(pos position.Pos) {
	if !pos.Valid() {
		return
	}
	s.mu.Lock()
	switch s.state {
	case StatePlaying:
		p := s.board.Piece(pos)
		if p.IsEmpty() || p.Side() != s.turn {
			s.mu.Unlock()
			return
		}
		dests, _ := s.board.MovesFrom(pos)
		s.selected, s.safe, s.unsafe = pos, nil, nil
		for _, to := range dests {
			if s.board.Move(pos, to).IsCheck(s.turn) {
				s.unsafe = append(s.unsafe, to)
			} else {
				s.safe = append(s.safe, to)
			}
		}
		s.state = StateSelected
	case StateSelected:
		if contains(s.safe, pos) {
			s.play(s.board.Describe(s.selected, pos))
		} else {
			s.clearSelection()
			s.state = StatePlaying
		}
	default:
		s.mu.Unlock()
		return
	}
	s.commit()
}

// DeselectOutside drops the current selection, if any.
func (s *Session) DeselectOutside() {
	s.mu.Lock()
	if s.state != StateSelected {
		s.mu.Unlock()
		return
	}
	s.clearSelection()
	s.state = StatePlaying
	s.commit()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns the moves played in the current game.
func (s *Session) History() []board.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]board.Move(nil), s.history...)
}

// Close cancels a pending AI computation. The session keeps awaiting it; a
// closed session accepts no further moves.
func (s *Session) Close() {
	s.cancel()
}

// commit must be called with s.mu held. It releases the lock, delivers the
// snapshot and schedules AI work when the new state awaits it.
func (s *Session) commit() {
	snap := s.snapshot()
	var task func()
	if s.state == StateAwaitingAIMove {
		task = s.aiTask(s.board, s.turn, len(s.history))
	}
	s.renderMu.Lock()
	s.mu.Unlock()
	s.render(snap)
	s.renderMu.Unlock()

	if task != nil {
		s.schedule(task)
	}
}

func (s *Session) aiTask(b board.Board, turn board.Side, ply int) func() {
	return func() {
		mv, err := s.chooser.ChooseMove(s.ctx, b, turn)
		if err != nil {
			s.logger(fmt.Sprintf("ai move for %s failed: %v", turn, err))
			return
		}

		s.mu.Lock()
		if s.state != StateAwaitingAIMove || len(s.history) != ply {
			s.mu.Unlock()
			return
		}
		if !containsMove(s.board.LegalMoves(turn), mv) {
			s.mu.Unlock()
			s.logger(fmt.Sprintf("ai move for %s rejected: %s is not legal", turn, mv.UCI()))
			return
		}
		s.play(mv)
		s.commit()
	}
}

// play applies mv and hands the turn over.
func (s *Session) play(mv board.Move) {
	s.board = s.board.Move(mv.From, mv.To)
	s.turn = s.turn.Opposite()
	s.history = append(s.history, mv)
	s.clearSelection()
	s.advance()
}

// advance classifies the position for the side to move.
func (s *Session) advance() {
	switch st := s.board.State(s.turn); {
	case st.IsCheckmate():
		s.state = StateCheckmate
		s.winner = st.Winner()
		s.logger(fmt.Sprintf("%s after %d plies", StatusCheckmate(s.winner), len(s.history)))
	case st.IsDraw():
		s.state = StateStalemate
		s.logger(fmt.Sprintf("%s after %d plies", StatusStalemate, len(s.history)))
	case s.ai[s.turn]:
		s.state = StateAwaitingAIMove
	default:
		s.state = StatePlaying
	}
}

func (s *Session) clearSelection() {
	s.selected, s.safe, s.unsafe = -1, nil, nil
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Board:    s.board,
		Cells:    s.board.Cells(),
		Turn:     s.turn,
		State:    s.state,
		Winner:   s.winner,
		CanStart: s.state.CanStart(),
		Selected: s.selected,
		Safe:     append([]position.Pos(nil), s.safe...),
		Unsafe:   append([]position.Pos(nil), s.unsafe...),
		WhiteAI:  s.ai[board.SideWhite],
		BlackAI:  s.ai[board.SideBlack],
		Plies:    len(s.history),
	}
	if n := len(s.history); n > 0 {
		snap.LastMove, snap.HasLast = s.history[n-1], true
	}
	if s.state != StateSetup {
		snap.Check = s.board.IsCheck(s.turn)
	}

	switch {
	case s.state == StateCheckmate:
		snap.Status = StatusCheckmate(s.winner)
	case s.state == StateStalemate:
		snap.Status = StatusStalemate
	case s.state == StateAwaitingAIMove:
		snap.Status = StatusThinking
	case snap.Check:
		snap.Status = StatusCheck
	}
	return snap
}

// StatusCheckmate returns the status line announcing winner.
func StatusCheckmate(winner board.Side) string {
	return fmt.Sprintf("Checkmate! %s wins", winner)
}

func containsMove(mvs []board.Move, mv board.Move) bool {
	for _, m := range mvs {
		if m.Equals(mv) {
			return true
		}
	}
	return false
}

func contains(ps []position.Pos, pos position.Pos) bool {
	for _, p := range ps {
		if p == pos {
			return true
		}
	}
	return false
}

func controller(ai bool) string {
	if ai {
		return "ai"
	}
	return "human"
}
