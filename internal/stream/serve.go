package stream

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sphsim/internal/sim"
)

// Options control ListenAndServe.
type Options struct {
	Addr          string
	FrameInterval time.Duration
	StepInterval  time.Duration
	StepsPerTick  int
}

func DefaultOptions() Options {
	return Options{
		Addr:          "localhost:5000",
		FrameInterval: time.Second / 30,
		StepInterval:  time.Second / 60,
		StepsPerTick:  20,
	}
}

// ListenAndServe steps d in the background, broadcasts frames and serves
// clients until ctx is cancelled.
func ListenAndServe(ctx context.Context, d *sim.Driver, opts Options) error {
	s := NewServer(d, opts.FrameInterval)
	srv := &http.Server{Addr: opts.Addr, Handler: s.Handler()}
	// Shutdown does not track hijacked connections
	srv.RegisterOnShutdown(s.Close)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.Run(ctx, opts.StepInterval, opts.StepsPerTick) })
	g.Go(func() error { return s.Run(ctx) })
	g.Go(func() error {
		log.Printf("serving frames on ws://%s/ws", opts.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
