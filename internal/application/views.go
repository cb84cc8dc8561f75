package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"vn.io.arda/notice/internal/domain"
)

// ViewCounter absorbs per-request view increments in memory and drains the
// accumulated deltas to the database on a fixed period. Counts are
// approximate by contract: a crash loses at most one flush interval of views.
//
// Construct one instance per process and share it between the request path
// (Add) and the flush goroutine (Run).
type ViewCounter struct {
	repo domain.Repository

	mu      sync.Mutex
	pending map[int64]int64
}

// NewViewCounter creates a ViewCounter flushing through repo.
func NewViewCounter(repo domain.Repository) *ViewCounter {
	return &ViewCounter{
		repo:    repo,
		pending: make(map[int64]int64),
	}
}

// Add records one view for the notice. It never blocks on I/O and is safe
// for any number of concurrent callers.
func (v *ViewCounter) Add(noticeUID int64) {
	v.mu.Lock()
	v.pending[noticeUID]++
	v.mu.Unlock()
}

// Flush atomically takes the whole pending map and applies each delta with
// the repository's atomic add, one call per touched notice. The swap under
// the lock guarantees no concurrent Add is lost: increments landing after
// the swap go to the fresh map and are picked up next cycle.
//
// Flush runs on a single goroutine (Run), so invocations never overlap.
// A failed update drops that notice's delta for the cycle; re-queuing would
// pin a persistently failing row in memory and counts are approximate anyway.
func (v *ViewCounter) Flush(ctx context.Context) {
	v.mu.Lock()
	snapshot := v.pending
	v.pending = make(map[int64]int64, len(snapshot))
	v.mu.Unlock()

	for uid, delta := range snapshot {
		if err := v.repo.AddViews(ctx, uid, delta); err != nil {
			log.Warn().Err(err).
				Int64("notice", uid).
				Int64("delta", delta).
				Msg("view count flush failed, delta dropped for this cycle")
		}
	}
}

// Run flushes on every tick until ctx is cancelled, then performs one final
// flush so a clean shutdown loses nothing.
func (v *ViewCounter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			v.Flush(ctx)
		case <-ctx.Done():
			v.Flush(context.Background())
			return
		}
	}
}
