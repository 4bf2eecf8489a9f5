package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/arxiv-favorites/app/favorites"
)

type ProjectorInterface interface {
	Project() ([]favorites.Paper, error)
}

// Refresher keeps the favorites count gauge current by replaying the log on
// an interval. It is telemetry only: no handler or reader ever consumes its
// result, so the read path stays recompute-from-scratch.
type Refresher struct {
	projector ProjectorInterface
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewRefresher(projector ProjectorInterface, interval time.Duration) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Refresher{
		projector: projector,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (r *Refresher) Start() {
	if r.interval <= 0 {
		slog.Debug("Stats refresher disabled")
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.refresh()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.refresh()
			}
		}
	}()
}

func (r *Refresher) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Refresher) refresh() {
	started := time.Now()

	papers, err := r.projector.Project()
	if err != nil {
		slog.Warn("Stats refresh failed", "error", err)
		return
	}

	ObserveProjection(time.Since(started), len(papers))
	slog.Debug("Stats refreshed", "favorites", len(papers), "duration", time.Since(started).String())
}
