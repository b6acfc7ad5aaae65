package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// sweepEvery removes expired shares on a fixed cadence until ctx is done.
func sweepEvery(ctx context.Context, s sweeper, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("share sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("share sweep")
			}
		}
	}
}
