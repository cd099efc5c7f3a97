package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
)

// FulfillmentWorker drains paid orders into the supplier on a short cadence.
type FulfillmentWorker struct {
	fulfillment *service.FulfillmentService
	interval    time.Duration
}

// NewFulfillmentWorker constructs a FulfillmentWorker.
func NewFulfillmentWorker(fulfillment *service.FulfillmentService, interval time.Duration) *FulfillmentWorker {
	return &FulfillmentWorker{fulfillment: fulfillment, interval: interval}
}

// Start begins the fulfillment loop and listens for context cancellation.
func (w *FulfillmentWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting fulfillment worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			handled, err := w.fulfillment.ProcessOnce(ctx)
			if err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("fulfillment pass failed")
			} else if handled > 0 {
				log.Debug().Int("handled", handled).Msg("fulfillment pass complete")
			}
		case <-ctx.Done():
			log.Info().Msg("Fulfillment worker stopped")
			return
		}
	}
}
