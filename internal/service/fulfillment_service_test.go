package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
)

type fakeFulfillmentStore struct {
	claimable []models.Order

	results  map[string]models.OrderStatus
	messages map[string]string
	requeued []string
	expired  int64
}

func newFakeFulfillmentStore(orders ...models.Order) *fakeFulfillmentStore {
	return &fakeFulfillmentStore{
		claimable: orders,
		results:   map[string]models.OrderStatus{},
		messages:  map[string]string{},
	}
}

func (f *fakeFulfillmentStore) ClaimPaid(limit int) ([]models.Order, error) {
	if len(f.claimable) > limit {
		out := f.claimable[:limit]
		f.claimable = f.claimable[limit:]
		return out, nil
	}
	out := f.claimable
	f.claimable = nil
	return out, nil
}

func (f *fakeFulfillmentStore) SetFulfillmentResult(id string, status models.OrderStatus, statusMessage string, g2bulkOrderID *string) error {
	f.results[id] = status
	f.messages[id] = statusMessage
	return nil
}

func (f *fakeFulfillmentStore) Requeue(id, statusMessage string) error {
	f.requeued = append(f.requeued, id)
	f.messages[id] = statusMessage
	return nil
}

func (f *fakeFulfillmentStore) FailExpired(maxAge time.Duration) (int64, error) {
	return f.expired, nil
}

type fakeSupplier struct {
	resp *g2bulk.OrderResponse
	err  error

	requests []g2bulk.OrderRequest
	codes    []string
}

func (f *fakeSupplier) CreateGameOrder(ctx context.Context, gameCode string, req g2bulk.OrderRequest) (*g2bulk.OrderResponse, error) {
	f.codes = append(f.codes, gameCode)
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func paidOrder(id string) models.Order {
	server := "9876"
	return models.Order{
		ID:          id,
		GameName:    "Mobile Legends",
		PackageName: "86 Diamonds",
		PlayerID:    "12345",
		ServerID:    &server,
		Status:      models.OrderPaid,
	}
}

func TestFulfillmentDeliversClaimedOrder(t *testing.T) {
	store := newFakeFulfillmentStore(paidOrder("o1"))
	supplier := &fakeSupplier{resp: &g2bulk.OrderResponse{Success: true, OrderID: "555"}}
	notifier := &recordingNotifier{}
	svc := NewFulfillmentService(store, supplier, 10*time.Minute, notifier)

	handled, err := svc.ProcessOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, handled)

	assert.Equal(t, models.OrderCompleted, store.results["o1"])
	assert.Equal(t, []string{"o1"}, notifier.changed)

	// The supplier call carries the normalized game code and the order id as
	// the idempotency remark.
	require.Len(t, supplier.requests, 1)
	assert.Equal(t, "mlbb", supplier.codes[0])
	assert.Equal(t, "86 Diamonds", supplier.requests[0].CatalogueName)
	assert.Equal(t, "12345", supplier.requests[0].PlayerID)
	assert.Equal(t, "9876", supplier.requests[0].ServerID)
	assert.Equal(t, "o1", supplier.requests[0].Remark)
}

func TestFulfillmentTransportErrorRequeues(t *testing.T) {
	store := newFakeFulfillmentStore(paidOrder("o1"))
	supplier := &fakeSupplier{err: errors.New("connection refused")}
	svc := NewFulfillmentService(store, supplier, 10*time.Minute, nil)

	_, err := svc.ProcessOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"o1"}, store.requeued)
	assert.NotContains(t, store.results, "o1", "ambiguous errors must not fail the order")
}

func TestFulfillmentDefinitiveRejectionFails(t *testing.T) {
	store := newFakeFulfillmentStore(paidOrder("o1"))
	supplier := &fakeSupplier{resp: &g2bulk.OrderResponse{Success: false, Message: "player not found"}}
	notifier := &recordingNotifier{}
	svc := NewFulfillmentService(store, supplier, 10*time.Minute, notifier)

	_, err := svc.ProcessOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.OrderFailed, store.results["o1"])
	assert.Contains(t, store.messages["o1"], "player not found")
	assert.Empty(t, store.requeued)
	assert.Equal(t, []string{"o1"}, notifier.changed)
}

func TestFulfillmentAmbiguousRejectionRequeues(t *testing.T) {
	store := newFakeFulfillmentStore(paidOrder("o1"))
	supplier := &fakeSupplier{resp: &g2bulk.OrderResponse{Success: false, Message: "temporarily out of stock"}}
	svc := NewFulfillmentService(store, supplier, 10*time.Minute, nil)

	_, err := svc.ProcessOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"o1"}, store.requeued)
	assert.NotContains(t, store.results, "o1")
}

func TestFulfillmentStopsOnCancelledContext(t *testing.T) {
	store := newFakeFulfillmentStore(paidOrder("o1"), paidOrder("o2"))
	supplier := &fakeSupplier{resp: &g2bulk.OrderResponse{Success: true, OrderID: "1"}}
	svc := NewFulfillmentService(store, supplier, 10*time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handled, err := svc.ProcessOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, handled)
	assert.Empty(t, supplier.requests, "no upstream calls after cancellation")
}
