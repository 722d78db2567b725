package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/daystram/hybridchess/board"
	"golang.org/x/exp/constraints"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// ScoreWin and ScoreLoss are the checkmate sentinels. They do not depend
	// on the depth the mate is found at, so a faster mate is not preferred
	// over a slower one.
	ScoreWin  int32 = math.MaxInt32
	ScoreLoss int32 = math.MinInt32

	DefaultDepth uint8 = 3
)

type Strategy uint8

const (
	// StrategyMinimax scores every legal move with a fixed-depth alpha-beta
	// minimax.
	StrategyMinimax Strategy = iota

	// StrategyGreedy scores every legal move by the material right after it.
	StrategyGreedy

	// StrategyRandom picks any legal move.
	StrategyRandom
)

func (s Strategy) String() string {
	switch s {
	case StrategyMinimax:
		return "minimax"
	case StrategyGreedy:
		return "greedy"
	case StrategyRandom:
		return "random"
	default:
		return ""
	}
}

var ErrUnknownStrategy = errors.New("unknown strategy")

func ParseStrategy(s string) (Strategy, error) {
	for _, strategy := range []Strategy{StrategyMinimax, StrategyGreedy, StrategyRandom} {
		if strings.EqualFold(s, strategy.String()) {
			return strategy, nil
		}
	}
	return StrategyMinimax, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
}

func DefaultLogger(a ...any) {
	fmt.Println(a...)
}

// DiscardLogger drops every log line.
func DiscardLogger(...any) {}

type EngineConfig struct {
	Depth    uint8
	Strategy Strategy
	Eval     *EvalConfig

	// Workers is the number of root moves scored concurrently. Values below
	// two score sequentially.
	Workers int

	// HashTableSize is the number of entries each worker may cache. Zero
	// disables the table.
	HashTableSize int

	// Seed seeds the tie-break among equally scored moves. Zero seeds from the
	// clock.
	Seed uint64

	Logger func(...any)
}

// ScoredMove is a legal root move with its search score.
type ScoredMove struct {
	Move  board.Move
	Score int32
}

type Engine struct {
	depth         uint8
	strategy      Strategy
	eval          *EvalConfig
	workers       int
	hashTableSize int
	logger        func(...any)

	mu   sync.Mutex
	rand *rand.Rand

	nodes                      uint64
	ttHits, ttMisses, ttWrites uint64
}

func NewEngine(cfg *EngineConfig) *Engine {
	if cfg == nil {
		cfg = &EngineConfig{}
	}
	if cfg.Depth == 0 {
		cfg.Depth = DefaultDepth
	}
	if cfg.Eval == nil {
		cfg.Eval = &DefaultEvalConfig
	}
	if cfg.Logger == nil {
		cfg.Logger = DefaultLogger
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Engine{
		depth:         cfg.Depth,
		strategy:      cfg.Strategy,
		eval:          cfg.Eval,
		workers:       cfg.Workers,
		hashTableSize: cfg.HashTableSize,
		logger:        cfg.Logger,
		rand:          rand.New(NewPseudoRand(seed)),
	}
}

func (e *Engine) Depth() uint8 {
	return e.depth
}

// ChooseMove returns a legal move for side s on b. Among the moves sharing the
// best score one is picked uniformly at random. Side s must have a legal move;
// callers classify checkmate and stalemate beforehand.
func (e *Engine) ChooseMove(ctx context.Context, b board.Board, s board.Side) (board.Move, error) {
	startTime := time.Now()
	atomic.StoreUint64(&e.nodes, 0)
	atomic.StoreUint64(&e.ttHits, 0)
	atomic.StoreUint64(&e.ttMisses, 0)
	atomic.StoreUint64(&e.ttWrites, 0)

	scored, err := e.ScoreMoves(ctx, b, s)
	if err != nil {
		return board.Move{}, err
	}
	if len(scored) == 0 {
		panic(fmt.Sprintf("engine: no legal moves for %s", s))
	}

	bestScore := scored[0].Score
	for _, sm := range scored[1:] {
		bestScore = max(bestScore, sm.Score)
	}
	var best []board.Move
	for _, sm := range scored {
		if sm.Score == bestScore {
			best = append(best, sm.Move)
		}
	}
	e.mu.Lock()
	mv := best[e.rand.Intn(len(best))]
	e.mu.Unlock()

	elapsed := time.Since(startTime)
	nodes := atomic.LoadUint64(&e.nodes)
	hits, misses, writes := e.TranspositionStats()
	e.logger(message.NewPrinter(language.English).
		Sprintf("%s depth:%d side:%s candidates:%d ties:%d best:%s score:%s nodes:%d (%.0fn/s) tt:%d/%d/%d t:%s",
			e.strategy, e.depth, s, len(scored), len(best), mv, formatScore(bestScore), nodes, float64(nodes)/((elapsed + 1).Seconds()), hits, misses, writes, elapsed))

	return mv, nil
}

// ScoreMoves returns every legal move of side s on b with its score, in move
// generation order. The self-check filter is applied here only; deeper plies
// filter their own children.
func (e *Engine) ScoreMoves(ctx context.Context, b board.Board, s board.Side) ([]ScoredMove, error) {
	var candidates []ScoredMove
	var children []board.Board
	for _, mv := range b.PseudoLegalMoves(s) {
		child := b.Move(mv.From, mv.To)
		if child.IsCheck(s) {
			continue
		}
		candidates = append(candidates, ScoredMove{Move: mv})
		children = append(children, child)
	}

	score := func(sr *searcher, i int) {
		switch e.strategy {
		case StrategyGreedy:
			sr.nodes++
			candidates[i].Score = e.Evaluate(children[i], s)
		case StrategyRandom:
			candidates[i].Score = 0
		default:
			candidates[i].Score = sr.minimax(children[i], e.depth, ScoreLoss, ScoreWin, false, s)
		}
	}

	if e.workers < 2 || len(candidates) < 2 {
		sr := e.newSearcher()
		defer sr.flush()
		for i := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			score(sr, i)
		}
		return candidates, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(e.workers, len(candidates)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sr := e.newSearcher()
			defer sr.flush()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				score(sr, i)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// Minimax returns the minimax score of b for root with depth plies left.
// When maximizing, root is to move; otherwise its opponent is.
func (e *Engine) Minimax(b board.Board, depth uint8, alpha, beta int32, maximizing bool, root board.Side) int32 {
	sr := e.newSearcher()
	defer sr.flush()
	return sr.minimax(b, depth, alpha, beta, maximizing, root)
}

type searcher struct {
	e     *Engine
	tt    *TranspositionTable
	nodes uint64
}

func (e *Engine) newSearcher() *searcher {
	sr := &searcher{e: e}
	if e.hashTableSize > 0 {
		sr.tt = NewTranspositionTable(e.hashTableSize)
	}
	return sr
}

func (sr *searcher) flush() {
	atomic.AddUint64(&sr.e.nodes, sr.nodes)
	sr.nodes = 0
	if sr.tt != nil {
		hits, misses, writes := sr.tt.Stats()
		atomic.AddUint64(&sr.e.ttHits, uint64(hits))
		atomic.AddUint64(&sr.e.ttMisses, uint64(misses))
		atomic.AddUint64(&sr.e.ttWrites, uint64(writes))
		sr.tt.ResetStats()
	}
}

// TranspositionStats returns the table hits, misses and writes of the last
// ChooseMove, summed over its workers.
func (e *Engine) TranspositionStats() (hits, misses, writes uint64) {
	return atomic.LoadUint64(&e.ttHits), atomic.LoadUint64(&e.ttMisses), atomic.LoadUint64(&e.ttWrites)
}

func (sr *searcher) minimax(b board.Board, depth uint8, alpha, beta int32, maximizing bool, root board.Side) int32 {
	sr.nodes++

	// check if leaf reached
	if depth == 0 {
		return sr.e.Evaluate(b, root)
	}

	turn := root
	if !maximizing {
		turn = root.Opposite()
	}

	// check from TranspositionTable
	ttType, ttScore, ok := sr.tt.Get(b, depth, maximizing)
	if ok {
		switch {
		case ttType == EntryTypeExact:
			return ttScore
		case ttType == EntryTypeLowerBound && ttScore >= beta:
			return ttScore
		case ttType == EntryTypeUpperBound && ttScore <= alpha:
			return ttScore
		}
	}

	// legal successors; none left means checkmate or stalemate
	children := legalChildren(b, turn)
	if len(children) == 0 {
		score := int32(0)
		if b.IsCheck(turn) {
			score = ScoreWin
			if maximizing {
				score = ScoreLoss
			}
		}
		sr.tt.Set(EntryTypeExact, b, depth, maximizing, score)
		return score
	}

	alphaOrig, betaOrig := alpha, beta
	var value int32
	if maximizing {
		value = ScoreLoss
		for _, child := range children {
			value = max(value, sr.minimax(child, depth-1, alpha, beta, false, root))
			alpha = max(alpha, value)
			if alpha >= beta {
				break
			}
		}
	} else {
		value = ScoreWin
		for _, child := range children {
			value = min(value, sr.minimax(child, depth-1, alpha, beta, true, root))
			beta = min(beta, value)
			if alpha >= beta {
				break
			}
		}
	}

	// set TranspositionTable
	switch {
	case value <= alphaOrig:
		sr.tt.Set(EntryTypeUpperBound, b, depth, maximizing, value)
	case value >= betaOrig:
		sr.tt.Set(EntryTypeLowerBound, b, depth, maximizing, value)
	default:
		sr.tt.Set(EntryTypeExact, b, depth, maximizing, value)
	}

	return value
}

// legalChildren returns the boards reachable by s without leaving its King in
// check.
func legalChildren(b board.Board, s board.Side) []board.Board {
	var children []board.Board
	for _, mv := range b.PseudoLegalMoves(s) {
		child := b.Move(mv.From, mv.To)
		if !child.IsCheck(s) {
			children = append(children, child)
		}
	}
	return children
}

func max[T constraints.Ordered](x1, x2 T) T {
	if x1 > x2 {
		return x1
	}
	return x2
}

func min[T constraints.Ordered](x1, x2 T) T {
	if x1 < x2 {
		return x1
	}
	return x2
}

func formatScore(s int32) string {
	switch s {
	case ScoreWin:
		return "+inf"
	case ScoreLoss:
		return "-inf"
	}
	if s > 0 {
		return fmt.Sprintf("+%d", s)
	}
	return fmt.Sprint(s)
}
