package console

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Frame is one completed picture plus the audio collected while it was
// being rendered, handed off from the emulation goroutine to the host.
type Frame struct {
	Pixels []uint8
	Audio  []float32
}

// Run drives the system continuously, delivering one Frame per
// completed picture on frames until ctx is cancelled. The emulation
// step and the channel hand-off run under one errgroup so a blocked
// receiver (a host that stopped draining frames) cancels cleanly
// instead of leaking the goroutine, per the concurrency model's
// one-way channel hand-off requirement.
func (s *System) Run(ctx context.Context, frames chan<- Frame) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			pixels, audio := s.RunFrame()

			out := Frame{
				Pixels: append([]uint8(nil), pixels...),
				Audio:  audio,
			}

			select {
			case frames <- out:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	return g.Wait()
}
