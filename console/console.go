package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/daystram/hybridchess/bench"
	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/engine"
	"github.com/daystram/hybridchess/position"
	"github.com/daystram/hybridchess/session"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")

	defaultOptions = options{
		debug:         false,
		depth:         engine.DefaultDepth,
		workers:       1,
		hashTableSize: 0,
		strategy:      engine.StrategyMinimax,
		schedule:      session.GoScheduler,
	}
)

type options struct {
	debug         bool
	depth         uint8
	workers       int
	hashTableSize int
	strategy      engine.Strategy
	seed          uint64
	layout        string
	schedule      session.Scheduler
}

type Option func(*options)

func WithDepth(depth uint8) Option {
	return func(o *options) {
		o.depth = depth
	}
}

func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

func WithHashTableSize(size int) Option {
	return func(o *options) {
		o.hashTableSize = size
	}
}

func WithStrategy(strategy engine.Strategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// WithStartingLayout makes new games start from layout instead of the
// standard opening.
func WithStartingLayout(layout string) Option {
	return func(o *options) {
		o.layout = layout
	}
}

func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithScheduler sets how AI moves are run, on a goroutine by default.
func WithScheduler(schedule session.Scheduler) Option {
	return func(o *options) {
		o.schedule = schedule
	}
}

func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// Interface drives a session with a line protocol. Every command is one line;
// AI moves are reported as they complete.
type Interface struct {
	out     io.Writer
	outMu   sync.Mutex
	options options

	session *session.Session
}

func NewInterface(out io.Writer, opts ...Option) *Interface {
	i := &Interface{
		out:     out,
		options: defaultOptions,
	}
	for _, f := range opts {
		f(&i.options)
	}
	return i
}

// Run reads commands from in until "quit" or the end of input.
func (i *Interface) Run(ctx context.Context, in io.Reader) error {
	if err := i.reset(ctx); err != nil {
		return err
	}
	defer func() { i.session.Close() }()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}
		if cmd == "quit" {
			return nil
		}
		if err := i.Exec(ctx, cmd); err != nil {
			i.println(fmt.Sprintf("error: %v", err))
		}
	}
	return scanner.Err()
}

// Exec runs a single command line.
func (i *Interface) Exec(ctx context.Context, cmd string) error {
	args := strings.Fields(cmd)
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "new":
		return i.commandNew(ctx, args[1:])
	case "select":
		return i.commandSelect(ctx, args[1:])
	case "out":
		i.session.DeselectOutside()
		return nil
	case "d":
		i.commandDraw(ctx)
		return nil
	case "moves":
		return i.commandMoves(ctx, args[1:])
	case "layout":
		snap := i.session.Snapshot()
		i.println(snap.Board.Layout(snap.Turn))
		return nil
	case "history":
		i.commandHistory(ctx)
		return nil
	case "setoption":
		return i.commandSetOption(ctx, args[1:])
	case "perft":
		return i.commandPerft(ctx, args[1:])
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

// commandPerft counts the legal move tree below the current position. Root
// moves are walked concurrently when more than one worker is configured.
func (i *Interface) commandPerft(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: perft <depth>", ErrInvalidArgs)
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return fmt.Errorf("%w: perft <depth>", ErrInvalidArgs)
	}

	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			i.println(s)
		}
	}()
	snap := i.session.Snapshot()
	_, err = bench.Perft(depth, snap.Board.Layout(snap.Turn), i.options.workers > 1, true, out)
	close(out)
	<-done
	return err
}

func (i *Interface) commandNew(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: new <whiteAI> <blackAI>", ErrInvalidArgs)
	}
	whiteAI, err := parseController(args[0])
	if err != nil {
		return err
	}
	blackAI, err := parseController(args[1])
	if err != nil {
		return err
	}
	if i.session.State() == session.StateAwaitingAIMove {
		return nil
	}
	if err := i.reset(ctx); err != nil {
		return err
	}
	i.session.NewGame(whiteAI, blackAI)
	return nil
}

func (i *Interface) commandSelect(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: select <square>", ErrInvalidArgs)
	}
	pos, err := parseSquare(args[0])
	if err != nil {
		return err
	}
	i.session.Select(pos)
	return nil
}

func (i *Interface) commandDraw(_ context.Context) {
	snap := i.session.Snapshot()
	marked := append([]position.Pos(nil), snap.Safe...)
	if snap.HasLast {
		marked = append(marked, snap.LastMove.From, snap.LastMove.To)
	}
	i.println(snap.Board.Draw(marked...))
	i.println(fmt.Sprintf("turn:%s state:%s status:%q", snap.Turn, snap.State, snap.Status))
	wp, wf := snap.Board.Material(board.SideWhite)
	bp, bf := snap.Board.Material(board.SideBlack)
	i.println(fmt.Sprintf("material white:%d/%d black:%d/%d", wp, wf, bp, bf))
}

// commandMoves lists the destinations of the piece on a square, split by
// whether they leave its side in check.
func (i *Interface) commandMoves(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: moves <square>", ErrInvalidArgs)
	}
	pos, err := parseSquare(args[0])
	if err != nil {
		return err
	}
	b := i.session.Snapshot().Board
	dests, ok := b.MovesFrom(pos)
	if !ok {
		i.println(fmt.Sprintf("%s: empty", pos))
		return nil
	}
	side := b.Piece(pos).Side()
	var safe, unsafe []string
	for _, to := range dests {
		if b.Move(pos, to).IsCheck(side) {
			unsafe = append(unsafe, to.Notation())
		} else {
			safe = append(safe, to.Notation())
		}
	}
	i.println(fmt.Sprintf("%s %s: %s", pos, b.Piece(pos).Name(), strings.Join(safe, " ")))
	if len(unsafe) > 0 {
		i.println(fmt.Sprintf("%s unsafe: %s", pos, strings.Join(unsafe, " ")))
	}
	return nil
}

func (i *Interface) commandHistory(_ context.Context) {
	builder := strings.Builder{}
	for n, mv := range i.session.History() {
		if n%2 == 0 {
			_, _ = builder.WriteString(fmt.Sprintf("%d. ", n/2+1))
		}
		_, _ = builder.WriteString(mv.Algebra())
		_, _ = builder.WriteString(" ")
	}
	i.println(strings.TrimSpace(builder.String()))
}

// commandSetOption takes effect on the next new game.
func (i *Interface) commandSetOption(_ context.Context, args []string) error {
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		return fmt.Errorf("%w: setoption name <name> value <value>", ErrInvalidArgs)
	}
	switch name, valueStr := strings.ToLower(args[1]), args[3]; name {
	case "debug":
		value, err := strconv.ParseBool(valueStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		i.options.debug = value
	case "depth":
		value, err := strconv.ParseUint(valueStr, 10, 8)
		if err != nil || value == 0 {
			return fmt.Errorf("%w: depth %s", ErrInvalidArgs, valueStr)
		}
		i.options.depth = uint8(value)
	case "workers":
		value, err := strconv.Atoi(valueStr)
		if err != nil || value < 1 {
			return fmt.Errorf("%w: workers %s", ErrInvalidArgs, valueStr)
		}
		i.options.workers = value
	case "hash":
		value, err := strconv.Atoi(valueStr)
		if err != nil || value < 0 || value > 1<<24 {
			return fmt.Errorf("%w: hash %s", ErrInvalidArgs, valueStr)
		}
		i.options.hashTableSize = value
	case "seed":
		value, err := strconv.ParseUint(valueStr, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: seed %s", ErrInvalidArgs, valueStr)
		}
		i.options.seed = value
	case "strategy":
		strategy, err := engine.ParseStrategy(valueStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		i.options.strategy = strategy
	default:
		return fmt.Errorf("%w: option %s", ErrInvalidArgs, name)
	}
	return nil
}

// reset replaces the session with a fresh one using the current options.
func (i *Interface) reset(ctx context.Context) error {
	if i.session != nil {
		i.session.Close()
	}
	logger := func(...any) {}
	if i.options.debug {
		logger = i.println
	}
	e := engine.NewEngine(&engine.EngineConfig{
		Depth:         i.options.depth,
		Strategy:      i.options.strategy,
		Workers:       i.options.workers,
		HashTableSize: i.options.hashTableSize,
		Seed:          i.options.seed,
		Logger:        logger,
	})
	opts := []session.SessionOption{
		session.WithContext(ctx),
		session.WithScheduler(i.options.schedule),
		session.WithRenderer(i.renderer()),
		session.WithLogger(logger),
	}
	if i.options.layout != "" {
		opts = append(opts, session.WithStartingLayout(i.options.layout))
	}
	s, err := session.New(e, opts...)
	if err != nil {
		return err
	}
	i.session = s
	return nil
}

// renderer returns the render callback of one session. The session delivers
// snapshots one at a time, so the ply count it tracks needs no lock.
func (i *Interface) renderer() func(session.Snapshot) {
	var plies int
	return func(snap session.Snapshot) {
		i.render(snap, plies)
		plies = snap.Plies
	}
}

// render reports played moves and status changes. plies is the ply count of
// the previous snapshot.
func (i *Interface) render(snap session.Snapshot, plies int) {
	if snap.Plies > plies && snap.HasLast {
		i.println(fmt.Sprintf("move %s", snap.LastMove.Algebra()))
	}
	switch snap.State {
	case session.StateSelected:
		dests := make([]string, 0, len(snap.Safe))
		for _, pos := range snap.Safe {
			dests = append(dests, pos.Notation())
		}
		i.println(fmt.Sprintf("selected %s: %s", snap.Selected, strings.Join(dests, " ")))
	case session.StatePlaying:
		if snap.Plies == 0 {
			i.println(fmt.Sprintf("new game, %s to move", snap.Turn))
		}
	}
	if snap.Status != "" {
		i.println(snap.Status)
	}
}

func (i *Interface) println(a ...any) {
	i.outMu.Lock()
	defer i.outMu.Unlock()
	fmt.Fprintln(i.out, a...)
}

// parseSquare accepts algebraic notation or a 0..63 index.
func parseSquare(s string) (position.Pos, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= int(board.TotalCells) {
			return 0, fmt.Errorf("%w: %s", position.ErrInvalidNotation, s)
		}
		return position.Pos(n), nil
	}
	return position.NewPosFromNotation(s)
}

func parseController(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "ai":
		return true, nil
	case "human":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: controller %s", ErrInvalidArgs, s)
	}
	return v, nil
}
