package bench

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/hybridchess/board"
)

// Counters tallies the leaf moves of a perft walk. Merges are moves onto a
// cell held by the mover's own side.
type Counters struct {
	Nodes    uint64
	Captures uint64
	Merges   uint64
	Checks   uint64
}

func Perft(depth int, layout string, parallel, verbose bool, out chan string) (Counters, error) {
	var c Counters
	b, turn, err := board.NewBoard(
		board.WithLayout(layout),
	)
	if err != nil {
		return c, err
	}

	var run perftFunc
	if parallel {
		run = runPerftParallel
	} else {
		run = runPerft
	}

	start := time.Now()
	run(b, turn, depth, true, verbose, out, &c)
	end := time.Now()

	out <- message.NewPrinter(language.English).
		Sprintf("d=%d nodes=%d rate=%dn/s cap=%d mrg=%d chk=%d (%.3fs elapsed)",
			depth, c.Nodes, int(float64(c.Nodes)/end.Sub(start).Seconds()), c.Captures, c.Merges, c.Checks, end.Sub(start).Seconds())

	return c, nil
}

type perftFunc func(b board.Board, turn board.Side, d int, root, verbose bool, out chan string, c *Counters) uint64

func runPerft(b board.Board, turn board.Side, d int, root, verbose bool, out chan string, c *Counters) uint64 {
	if d == 0 {
		c.Nodes++
		return 1
	}

	var sum uint64
	for _, mv := range b.LegalMoves(turn) {
		var child uint64
		if d != 1 {
			child = runPerft(b.Move(mv.From, mv.To), turn.Opposite(), d-1, false, verbose, out, c)
		} else {
			child = 1
			c.Nodes++
			if mv.IsCapture {
				c.Captures++
			}
			if mv.IsMerge {
				c.Merges++
			}
			if mv.IsCheck {
				c.Checks++
			}
		}
		if verbose && root {
			out <- fmt.Sprintf("%s: %d", mv.UCI(), child)
		}
		sum += child
	}
	return sum
}

func runPerftParallel(b board.Board, turn board.Side, d int, root, verbose bool, out chan string, c *Counters) uint64 {
	if d == 0 {
		atomic.AddUint64(&c.Nodes, 1)
		return 1
	}

	var sum uint64
	var wg sync.WaitGroup
	for _, mv := range b.LegalMoves(turn) {
		mv := mv
		wg.Add(1)
		go func() {
			defer wg.Done()
			var child uint64
			if d != 1 {
				child = runPerftParallel(b.Move(mv.From, mv.To), turn.Opposite(), d-1, false, verbose, out, c)
			} else {
				child = 1
				atomic.AddUint64(&c.Nodes, 1)
				if mv.IsCapture {
					atomic.AddUint64(&c.Captures, 1)
				}
				if mv.IsMerge {
					atomic.AddUint64(&c.Merges, 1)
				}
				if mv.IsCheck {
					atomic.AddUint64(&c.Checks, 1)
				}
			}
			if verbose && root {
				out <- fmt.Sprintf("%s: %d", mv.UCI(), child)
			}
			atomic.AddUint64(&sum, child)
		}()
	}
	wg.Wait()
	return sum
}
