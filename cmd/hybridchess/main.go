package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/console"
	"github.com/daystram/hybridchess/engine"
	"github.com/daystram/hybridchess/server"
)

const (
	exitOK = iota
	exitErr
)

var (
	profile = flag.Bool("profile", false, "serve pprof endpoint")

	serverRun  = flag.Bool("server", false, "run HTTP/WebSocket server mode")
	serverAddr = flag.String("server.addr", server.DefaultAddr, "listen address in server mode")

	movegenRun  = flag.Bool("movegen", false, "run movegen mode")
	movegenDraw = flag.Bool("movegen.draw", false, "draw applied moves in movegen mode")

	perftDepth    = flag.Int("perft", -1, "run perft mode to the given depth")
	perftParallel = flag.Bool("perft.parallel", true, "walk root moves concurrently in perft mode")

	stepRun = flag.Bool("step", false, "run step mode")

	selfplayRun   = flag.Bool("selfplay", false, "run selfplay mode")
	selfplayPlies = flag.Int("selfplay.plies", 200, "ply limit in selfplay mode")

	depth    = flag.Uint("depth", uint(engine.DefaultDepth), "search depth")
	workers  = flag.Int("workers", runtime.NumCPU(), "root moves scored concurrently")
	hash     = flag.Int("hash", 1<<16, "transposition table entries per worker, 0 disables")
	seed     = flag.Uint64("seed", 0, "tie-break seed, 0 seeds from the clock")
	strategy = flag.String("strategy", engine.StrategyMinimax.String(), "move choice: minimax, greedy or random")
	debug    = flag.Bool("debug", false, "log engine and session events")
)

func main() {
	flag.Parse()

	if *profile {
		runProfiler()
	}

	err := realMain(flag.Args())
	if err != nil {
		log.Println(err)
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func runProfiler() {
	go func() {
		addr := "localhost:6060"
		log.Printf("starting pprof endpoint: http://%s/debug/pprof\n", addr)
		_ = http.ListenAndServe(addr, nil)
	}()
}

type config struct {
	depth    uint8
	workers  int
	hash     int
	seed     uint64
	strategy engine.Strategy
	debug    bool
}

func configFromFlags() (config, error) {
	if *depth == 0 || *depth > 255 {
		return config{}, fmt.Errorf("invalid depth: %d", *depth)
	}
	st, err := engine.ParseStrategy(*strategy)
	if err != nil {
		return config{}, err
	}
	return config{
		depth:    uint8(*depth),
		workers:  *workers,
		hash:     *hash,
		seed:     *seed,
		strategy: st,
		debug:    *debug,
	}, nil
}

func (c config) logger() func(...any) {
	if c.debug {
		return func(a ...any) { log.Println(a...) }
	}
	return engine.DiscardLogger
}

func (c config) engine(st engine.Strategy) *engine.Engine {
	return engine.NewEngine(&engine.EngineConfig{
		Depth:         c.depth,
		Strategy:      st,
		Workers:       c.workers,
		HashTableSize: c.hash,
		Seed:          c.seed,
		Logger:        c.logger(),
	})
}

func realMain(args []string) error {
	layout := board.DefaultStartingPositionLayout
	if len(args) > 0 {
		layout = strings.Join(args, " ")
	}
	cfg, err := configFromFlags()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *movegenRun:
		return movegen(os.Stdout, layout, *movegenDraw)
	case *perftDepth >= 0:
		return perft(os.Stdout, *perftDepth, layout, *perftParallel)
	case *stepRun:
		return step(os.Stdout, layout, cfg.seed)
	case *selfplayRun:
		return selfplay(ctx, os.Stdout, cfg, layout, *selfplayPlies)
	case *serverRun:
		return runServer(ctx, cfg, layout, *serverAddr)
	}
	return runConsole(ctx, cfg, layout)
}

func runConsole(ctx context.Context, cfg config, layout string) error {
	i := console.NewInterface(os.Stdout,
		console.WithDepth(cfg.depth),
		console.WithWorkers(cfg.workers),
		console.WithHashTableSize(cfg.hash),
		console.WithStrategy(cfg.strategy),
		console.WithSeed(cfg.seed),
		console.WithStartingLayout(layout),
		console.WithDebug(cfg.debug),
	)
	return i.Run(ctx, os.Stdin)
}
