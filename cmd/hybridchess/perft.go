package main

import (
	"fmt"
	"io"

	"github.com/daystram/hybridchess/bench"
)

func perft(w io.Writer, depth int, layout string, parallel bool) error {
	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			fmt.Fprintln(w, s)
		}
	}()
	fmt.Fprintf(w, "============ perft(%d)\n", depth)
	_, err := bench.Perft(depth, layout, parallel, true, out)
	close(out)
	<-done
	return err
}
