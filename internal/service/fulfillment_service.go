package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/sse"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
)

// claimBatchSize bounds how many paid orders one pass picks up.
const claimBatchSize = 10

type fulfillmentStore interface {
	ClaimPaid(limit int) ([]models.Order, error)
	SetFulfillmentResult(id string, status models.OrderStatus, statusMessage string, g2bulkOrderID *string) error
	Requeue(id, statusMessage string) error
	FailExpired(maxAge time.Duration) (int64, error)
}

type g2bulkOrderer interface {
	CreateGameOrder(ctx context.Context, gameCode string, req g2bulk.OrderRequest) (*g2bulk.OrderResponse, error)
}

// FulfillmentService delivers paid orders through the supplier. Claiming
// moves an order to processing before any upstream call, so a crash between
// claim and result leaves the order visible as stuck-processing instead of
// silently retrying a possibly-delivered purchase.
type FulfillmentService struct {
	store    fulfillmentStore
	supplier g2bulkOrderer
	maxAge   time.Duration
	notifier sse.OrderNotifier
}

// NewFulfillmentService creates a FulfillmentService. maxAge bounds how long
// a paid order may be retried before it is failed.
func NewFulfillmentService(store fulfillmentStore, supplier g2bulkOrderer, maxAge time.Duration, notifier sse.OrderNotifier) *FulfillmentService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &FulfillmentService{store: store, supplier: supplier, maxAge: maxAge, notifier: notifier}
}

// ProcessOnce runs one fulfillment pass: expire overdue paid orders, then
// claim and deliver a batch. Returns the number of orders handled.
func (s *FulfillmentService) ProcessOnce(ctx context.Context) (int, error) {
	if expired, err := s.store.FailExpired(s.maxAge); err != nil {
		log.Error().Err(err).Msg("failed to expire overdue orders")
	} else if expired > 0 {
		log.Warn().Int64("count", expired).Msg("failed overdue paid orders")
	}

	orders, err := s.store.ClaimPaid(claimBatchSize)
	if err != nil {
		return 0, err
	}

	for i := range orders {
		if ctx.Err() != nil {
			return i, ctx.Err()
		}
		s.fulfill(ctx, &orders[i])
	}
	return len(orders), nil
}

// fulfill delivers one claimed order. Definitive supplier rejections fail
// the order; ambiguous transport errors requeue it for the next pass.
func (s *FulfillmentService) fulfill(ctx context.Context, order *models.Order) {
	gameCode := NormalizeGameName(order.GameName)
	req := g2bulk.OrderRequest{
		CatalogueName: order.PackageName,
		PlayerID:      order.PlayerID,
		Remark:        order.ID,
	}
	if order.ServerID != nil {
		req.ServerID = *order.ServerID
	}

	resp, err := s.supplier.CreateGameOrder(ctx, gameCode, req)
	if err != nil {
		msg := "Supplier unreachable, will retry"
		log.Warn().Err(err).Str("order_id", order.ID).Msg("fulfillment attempt failed, requeueing")
		if rerr := s.store.Requeue(order.ID, msg); rerr != nil {
			log.Error().Err(rerr).Str("order_id", order.ID).Msg("failed to requeue order")
		}
		return
	}

	if resp.Success {
		supplierID := resp.OrderID.String()
		msg := "Top-up delivered"
		if err := s.store.SetFulfillmentResult(order.ID, models.OrderCompleted, msg, &supplierID); err != nil {
			log.Error().Err(err).Str("order_id", order.ID).Msg("failed to record completed order")
			return
		}
		order.Status = models.OrderCompleted
		order.StatusMessage = &msg
		s.notifier.NotifyOrderStatusChanged(order)
		log.Info().Str("order_id", order.ID).Str("supplier_order_id", supplierID).Msg("order fulfilled")
		return
	}

	errText := resp.ErrorText()
	if g2bulk.IsNotFound(errText) || g2bulk.IsZoneRequired(errText) {
		// Bad player data cannot heal on retry.
		msg := fmt.Sprintf("Fulfillment rejected: %s", errText)
		if err := s.store.SetFulfillmentResult(order.ID, models.OrderFailed, msg, nil); err != nil {
			log.Error().Err(err).Str("order_id", order.ID).Msg("failed to record failed order")
			return
		}
		order.Status = models.OrderFailed
		order.StatusMessage = &msg
		s.notifier.NotifyOrderStatusChanged(order)
		log.Warn().Str("order_id", order.ID).Str("reason", errText).Msg("order failed")
		return
	}

	// Unclassified supplier error (out of stock, maintenance): retry until
	// the max age expires it.
	msg := "Supplier rejected attempt, will retry"
	log.Warn().Str("order_id", order.ID).Str("upstream_error", errText).Msg("ambiguous supplier error, requeueing")
	if err := s.store.Requeue(order.ID, msg); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to requeue order")
	}
}
