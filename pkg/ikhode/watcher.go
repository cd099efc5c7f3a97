package ikhode

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Status mirrors the order lifecycle the watcher tracks.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Outcome is the terminal result of a watch.
type Outcome string

const (
	// OutcomeCompleted - fulfillment finished, show success.
	OutcomeCompleted Outcome = "completed"
	// OutcomeFailed - fulfillment failed, show the server message.
	OutcomeFailed Outcome = "failed"
	// OutcomeStillProcessing - payment confirmed but fulfillment did not
	// reach a terminal state inside the bounded wait. The caller should
	// redirect to the invoice page rather than block.
	OutcomeStillProcessing Outcome = "still_processing"
)

// Result is what Run returns once payment is detected and the bounded
// completion wait ends.
type Result struct {
	Outcome Outcome
	Message string
}

// OrderState is one observation of the order.
type OrderState struct {
	Status  Status
	Message string
}

// StatusFunc fetches the current order state.
type StatusFunc func(ctx context.Context) (OrderState, error)

// Config tunes a Watcher. Zero values take the documented defaults.
type Config struct {
	OrderID string

	// WSURL is the gateway push endpoint. Empty disables the websocket
	// channel; polling still detects payment.
	WSURL string

	// ExpiresIn is the QR validity window (default 5m). Expiry only marks
	// the QR stale; it does not cancel the order or stop detection.
	ExpiresIn time.Duration

	// PollInterval is the pending-state poll cadence (default 5s).
	PollInterval time.Duration

	// CompletionAttempts and CompletionDelay bound the post-payment wait
	// for a terminal status (defaults 30 x 2s).
	CompletionAttempts int
	CompletionDelay    time.Duration

	// CompletionDeadline is a hard ceiling on the post-payment wait,
	// guarding against misconfigured attempt/delay values. Default:
	// attempts*delay + 30s.
	CompletionDeadline time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.ExpiresIn <= 0 {
		out.ExpiresIn = 5 * time.Minute
	}
	if out.PollInterval <= 0 {
		out.PollInterval = 5 * time.Second
	}
	if out.CompletionAttempts <= 0 {
		out.CompletionAttempts = 30
	}
	if out.CompletionDelay <= 0 {
		out.CompletionDelay = 2 * time.Second
	}
	if out.CompletionDeadline <= 0 {
		out.CompletionDeadline = time.Duration(out.CompletionAttempts)*out.CompletionDelay + 30*time.Second
	}
	return out
}

// Watcher detects KHQR payment completion for one order by racing a gateway
// websocket push against periodic status polling, then waits (bounded) for
// fulfillment to reach a terminal state.
//
// The transition out of pending is guarded by a one-shot latch: whichever
// channel fires first wins and later signals are no-ops, so a push and a
// poll landing together cannot double-fire completion handling.
type Watcher struct {
	cfg   Config
	fetch StatusFunc

	// dial is swappable for tests.
	dial func(url string) (wsConn, error)

	mu        sync.Mutex
	status    Status
	paidCh    chan struct{}
	checkCh   chan chan struct{}
	expiresAt time.Time

	// onTransition, when set, observes every status change.
	onTransition func(Status)
}

// wsConn is the subset of *websocket.Conn the watcher needs.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	Close() error
}

// NewWatcher constructs a Watcher. fetch must be non-nil.
func NewWatcher(cfg Config, fetch StatusFunc) *Watcher {
	return &Watcher{
		cfg:     cfg.withDefaults(),
		fetch:   fetch,
		status:  StatusPending,
		paidCh:  make(chan struct{}),
		checkCh: make(chan chan struct{}, 1),
		dial: func(url string) (wsConn, error) {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			return conn, err
		},
	}
}

// SetTransitionHook registers a callback observing status changes. Must be
// called before Run.
func (w *Watcher) SetTransitionHook(fn func(Status)) { w.onTransition = fn }

// Status returns the current watcher status.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Expired reports whether the QR validity window has lapsed. Only meaningful
// once Run has started.
func (w *Watcher) Expired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.expiresAt.IsZero() && time.Now().After(w.expiresAt)
}

// CheckNow forces an immediate status poll outside the regular cadence (the
// "I have paid" button). It does not block for the result.
func (w *Watcher) CheckNow() {
	done := make(chan struct{})
	select {
	case w.checkCh <- done:
	default:
	}
}

// markPaid flips pending -> paid exactly once. Returns false if the watcher
// already left pending.
func (w *Watcher) markPaid(source string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != StatusPending {
		return false
	}
	w.status = StatusPaid
	close(w.paidCh)
	log.Debug().Str("order_id", w.cfg.OrderID).Str("source", source).Msg("payment detected")
	if w.onTransition != nil {
		w.onTransition(StatusPaid)
	}
	return true
}

func (w *Watcher) setStatus(s Status) {
	w.mu.Lock()
	w.status = s
	hook := w.onTransition
	w.mu.Unlock()
	if hook != nil {
		hook(s)
	}
}

// Run blocks until payment is detected and the bounded completion wait ends,
// or ctx is cancelled. All timers and the websocket are torn down before
// returning.
func (w *Watcher) Run(ctx context.Context) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.mu.Lock()
	w.expiresAt = time.Now().Add(w.cfg.ExpiresIn)
	w.mu.Unlock()

	if w.cfg.WSURL != "" {
		go w.listenWebsocket(ctx)
	}
	go w.pollPending(ctx)

	// Wait for either detection channel to latch the paid transition.
	select {
	case <-w.paidCh:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	w.setStatus(StatusProcessing)
	return w.waitForCompletion(ctx)
}

// listenWebsocket reads gateway pushes until a match, an error, or teardown.
func (w *Watcher) listenWebsocket(ctx context.Context) {
	conn, err := w.dial(w.cfg.WSURL)
	if err != nil {
		log.Warn().Err(err).Str("order_id", w.cfg.OrderID).Msg("websocket connect failed, relying on polling")
		return
	}

	// Close on teardown so ReadMessage unblocks.
	go func() {
		select {
		case <-ctx.Done():
		case <-w.paidCh:
		}
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("unparseable websocket message")
			continue
		}
		if msg.Matches(w.cfg.OrderID) {
			w.markPaid("websocket")
			return
		}
	}
}

// pollPending polls order status on a fixed cadence while pending, plus
// whenever CheckNow fires.
func (w *Watcher) pollPending(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	check := func() bool {
		state, err := w.fetch(ctx)
		if err != nil {
			log.Debug().Err(err).Str("order_id", w.cfg.OrderID).Msg("status poll failed")
			return false
		}
		if state.Status == StatusPaid || state.Status == StatusCompleted || state.Status == StatusProcessing {
			return w.markPaid("poll")
		}
		return false
	}

	for {
		select {
		case <-ticker.C:
			if check() {
				return
			}
		case done := <-w.checkCh:
			finished := check()
			close(done)
			if finished {
				return
			}
		case <-w.paidCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// waitForCompletion polls for a terminal status with both an attempt cap and
// an overall deadline.
func (w *Watcher) waitForCompletion(ctx context.Context) (Result, error) {
	deadline := time.Now().Add(w.cfg.CompletionDeadline)

	for attempt := 0; attempt < w.cfg.CompletionAttempts; attempt++ {
		if time.Now().After(deadline) {
			break
		}

		state, err := w.fetch(ctx)
		if err == nil {
			switch state.Status {
			case StatusCompleted:
				w.setStatus(StatusCompleted)
				return Result{Outcome: OutcomeCompleted, Message: state.Message}, nil
			case StatusFailed:
				w.setStatus(StatusFailed)
				return Result{Outcome: OutcomeFailed, Message: state.Message}, nil
			}
		} else {
			log.Debug().Err(err).Str("order_id", w.cfg.OrderID).Msg("completion poll failed")
		}

		select {
		case <-time.After(w.cfg.CompletionDelay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	// Attempts exhausted without a terminal state: hand off to the invoice
	// page instead of blocking indefinitely.
	return Result{Outcome: OutcomeStillProcessing}, nil
}
