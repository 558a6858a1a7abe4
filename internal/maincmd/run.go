// File: internal/maincmd/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package maincmd

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/mna/mainer"

	"github.com/momentics/osthread/thread"
)

type worker struct {
	name  string
	th    *thread.Thread
	value atomic.Uint64
}

func (w *worker) load() float64 {
	return math.Float64frombits(w.value.Load())
}

// publish sleeps for d, or until ctx is done, then stores in into out.
func publish(ctx context.Context, out *atomic.Uint64, in float64, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	out.Store(math.Float64bits(in))
}

func (c *Cmd) startWorkers(ctx context.Context) ([]*worker, error) {
	workers := make([]*worker, 0, c.workers.threads)
	for i := 0; i < c.workers.threads; i++ {
		w := &worker{name: fmt.Sprintf("worker-%d", i)}
		opts := c.workers.opts.WithName(w.name).WithContext(ctx)
		th, err := thread.StartWithOptions(opts, publish, &w.value, float64(i+5), c.workers.sleep)
		if err != nil {
			for _, started := range workers {
				started.th.RequestStop()
				_ = started.th.Join()
			}
			return nil, err
		}
		w.th = th
		workers = append(workers, w)
	}
	return workers, nil
}

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if c.MetricsAddr != "" {
		stop, err := c.serveMetrics(stdio)
		if err != nil {
			return printError(stdio, err)
		}
		defer stop()
	}

	workers, err := c.startWorkers(ctx)
	if err != nil {
		return printError(stdio, err)
	}

	for _, w := range workers {
		for {
			ok, err := w.th.JoinTimeout(c.workers.poll)
			if err != nil {
				return printError(stdio, err)
			}
			if ok {
				break
			}
			fmt.Fprintf(stdio.Stdout, "%s (thread %s): still waiting... value is now: %g\n", w.name, w.th.ID(), w.load())
		}
		fmt.Fprintf(stdio.Stdout, "%s has now successfully joined, ended with value: %g\n", w.name, w.load())
	}
	return nil
}
