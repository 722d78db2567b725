package main

import (
	"context"
	"log"

	"github.com/daystram/hybridchess/server"
	"github.com/daystram/hybridchess/session"
)

func runServer(ctx context.Context, cfg config, layout, addr string) error {
	s, err := server.New(cfg.engine(cfg.strategy), func(a ...any) { log.Println(a...) },
		session.WithContext(ctx),
		session.WithStartingLayout(layout),
	)
	if err != nil {
		return err
	}
	return s.Listen(ctx, addr)
}
