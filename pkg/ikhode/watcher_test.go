package ikhode

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStatus serves a sequence of states, repeating the last one.
type scriptedStatus struct {
	mu     sync.Mutex
	states []OrderState
	calls  int
}

func (s *scriptedStatus) fetch(ctx context.Context) (OrderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	if idx >= len(s.states) {
		idx = len(s.states) - 1
	}
	s.calls++
	return s.states[idx], nil
}

func (s *scriptedStatus) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeConn feeds scripted websocket frames then blocks until closed.
type fakeConn struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn(frames ...[]byte) *fakeConn {
	ch := make(chan []byte, len(frames))
	for _, f := range frames {
		ch <- f
	}
	return &fakeConn{frames: ch, closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case f := <-c.frames:
		return 1, f, nil
	case <-c.closed:
		return 0, nil, errors.New("closed")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func fastConfig(orderID string) Config {
	return Config{
		OrderID:            orderID,
		PollInterval:       5 * time.Millisecond,
		CompletionAttempts: 3,
		CompletionDelay:    time.Millisecond,
	}
}

func pushFrame(t *testing.T, msg Message) []byte {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	return data
}

func TestWatcherDetectsPaymentViaPolling(t *testing.T) {
	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPending},
		{Status: StatusPaid},
		{Status: StatusCompleted, Message: "Top-up delivered"},
	}}
	w := NewWatcher(fastConfig("o1"), status.fetch)

	res, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, "Top-up delivered", res.Message)
	assert.Equal(t, StatusCompleted, w.Status())
}

func TestWatcherDetectsPaymentViaWebsocket(t *testing.T) {
	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPending},
		{Status: StatusCompleted},
	}}
	cfg := fastConfig("o1")
	cfg.WSURL = "ws://gateway.test/payments"
	cfg.PollInterval = time.Hour // only the websocket can detect payment

	w := NewWatcher(cfg, status.fetch)
	conn := newFakeConn(pushFrame(t, Message{Type: TypePaymentSuccess, TransactionID: "o1"}))
	w.dial = func(url string) (wsConn, error) { return conn, nil }

	res, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
}

func TestWatcherIgnoresForeignOrderPushes(t *testing.T) {
	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPending},
		{Status: StatusPaid},
		{Status: StatusCompleted},
	}}
	cfg := fastConfig("o1")
	cfg.WSURL = "ws://gateway.test/payments"

	w := NewWatcher(cfg, status.fetch)
	conn := newFakeConn(pushFrame(t, Message{Type: TypePaymentSuccess, TransactionID: "someone-else"}))
	w.dial = func(url string) (wsConn, error) { return conn, nil }

	// Polling still detects payment even though the push did not match.
	res, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
}

func TestWatcherPaidLatchFiresOnce(t *testing.T) {
	var mu sync.Mutex
	var transitions []Status

	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPaid}, // poll sees paid immediately
		{Status: StatusCompleted},
	}}
	cfg := fastConfig("o1")
	cfg.WSURL = "ws://gateway.test/payments"

	w := NewWatcher(cfg, status.fetch)
	// Race the websocket push against the first poll.
	conn := newFakeConn(pushFrame(t, Message{Type: TypePaymentConfirmed, OrderID: "o1"}))
	w.dial = func(url string) (wsConn, error) { return conn, nil }
	w.SetTransitionHook(func(s Status) {
		mu.Lock()
		transitions = append(transitions, s)
		mu.Unlock()
	})

	_, err := w.Run(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	paidCount := 0
	for _, s := range transitions {
		if s == StatusPaid {
			paidCount++
		}
	}
	assert.Equal(t, 1, paidCount, "paid must fire exactly once no matter which channel wins")
}

func TestWatcherCheckNowTriggersImmediatePoll(t *testing.T) {
	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPaid},
		{Status: StatusCompleted},
	}}
	cfg := fastConfig("o1")
	cfg.PollInterval = time.Hour // regular cadence never fires in this test

	w := NewWatcher(cfg, status.fetch)

	done := make(chan struct{})
	go func() {
		res, err := w.Run(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, OutcomeCompleted, res.Outcome)
		close(done)
	}()

	// Give Run a moment to start the poll loop, then press "I have paid".
	time.Sleep(10 * time.Millisecond)
	w.CheckNow()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("CheckNow did not trigger payment detection")
	}
}

func TestWatcherStillProcessingAfterBoundedWait(t *testing.T) {
	// Payment lands but fulfillment never reaches a terminal state.
	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPaid},
		{Status: StatusProcessing},
	}}
	w := NewWatcher(fastConfig("o1"), status.fetch)

	res, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStillProcessing, res.Outcome)
}

func TestWatcherFailedOutcomeCarriesMessage(t *testing.T) {
	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPaid},
		{Status: StatusFailed, Message: "Fulfillment rejected: player not found"},
	}}
	w := NewWatcher(fastConfig("o1"), status.fetch)

	res, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Message, "player not found")
}

func TestWatcherCancelledContext(t *testing.T) {
	status := &scriptedStatus{states: []OrderState{{Status: StatusPending}}}
	w := NewWatcher(fastConfig("o1"), status.fetch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatcherExpiryDoesNotStopDetection(t *testing.T) {
	status := &scriptedStatus{states: []OrderState{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusPaid},
		{Status: StatusCompleted},
	}}
	cfg := fastConfig("o1")
	cfg.ExpiresIn = time.Nanosecond // QR expires immediately

	w := NewWatcher(cfg, status.fetch)
	res, err := w.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, w.Expired(), "QR window lapsed")
	assert.Equal(t, OutcomeCompleted, res.Outcome, "expiry marks the QR stale but never cancels detection")
}
