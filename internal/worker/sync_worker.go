package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
)

// SyncWorker refreshes the supplier product mirror on a long cadence so the
// admin dashboard stays current without manual syncs.
type SyncWorker struct {
	sync     *service.CatalogSyncService
	interval time.Duration
}

// NewSyncWorker constructs a SyncWorker.
func NewSyncWorker(sync *service.CatalogSyncService, interval time.Duration) *SyncWorker {
	return &SyncWorker{sync: sync, interval: interval}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *SyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog sync worker stopped")
			return
		}
	}
}

func (w *SyncWorker) run(ctx context.Context) {
	result, err := w.sync.SyncProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled product sync failed")
		return
	}
	log.Info().Int("synced", result.Synced).Int("categories", result.Categories).Msg("scheduled product sync complete")
}
