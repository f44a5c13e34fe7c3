// Package cart keeps the local cart snapshot consistent with the server
// under asynchronous, possibly-failing mutation calls.
//
// Two update disciplines are in play. Quantity changes are optimistic:
// local state mutates first, then the server call goes out, and a failed
// call leaves the optimistic value in place until the next Fetch — an
// accepted eventual-consistency gap. Removals, clears and checkout are
// confirm-then-commit: local state changes only after the server said yes.
package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

// Gateway is the slice of the remote API the engine needs.
type Gateway interface {
	FetchCart(ctx context.Context) ([]domain.CartLine, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) error
	UpdateCartLine(ctx context.Context, lineID string, quantity int) error
	RemoveCartLine(ctx context.Context, lineID string) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) error
}

// DefaultAckWindow is how long a checkout receipt stays presentable.
const DefaultAckWindow = 5 * time.Second

// Receipt acknowledges a successful checkout. The view drops it once
// Expired reports true.
type Receipt struct {
	Total     float64
	ExpiresAt time.Time
}

func (r Receipt) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Engine owns the authoritative local view of the cart. It stays usable
// after any failed call; errors are surfaced, never retried, never fatal.
type Engine struct {
	gw        Gateway
	log       *zap.Logger
	now       func() time.Time
	ackWindow time.Duration

	mu      sync.Mutex
	lines   []domain.CartLine
	pending map[int64]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the receipt clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithAckWindow overrides the receipt lifetime.
func WithAckWindow(d time.Duration) Option {
	return func(e *Engine) { e.ackWindow = d }
}

func NewEngine(gw Gateway, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		gw:        gw,
		log:       log,
		now:       time.Now,
		ackWindow: DefaultAckWindow,
		pending:   make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fetch replaces the entire local snapshot with the server's. A
// successful fetch also retires the pending-add marks: from here on the
// snapshot itself answers cart membership, and a previously added (or
// since removed) product must be addable again. On failure the snapshot
// empties and the error is surfaced for user notification.
func (e *Engine) Fetch(ctx context.Context) error {
	lines, err := e.gw.FetchCart(ctx)
	e.mu.Lock()
	if err != nil {
		e.lines = nil
	} else {
		e.lines = lines
		e.pending = make(map[int64]struct{})
	}
	e.mu.Unlock()
	if err != nil {
		e.log.Warn("cart fetch failed", zap.Error(err))
		return err
	}
	return nil
}

// AddItem submits one unit of the product. A product already pending is
// a no-op, so rapid repeated clicks issue exactly one server call. No
// line is inserted locally: the server assigns line IDs, so the true
// line shape is unknown until the next Fetch. On failure the pending
// mark is dropped and the error surfaced so the view can offer retry;
// on success the mark stays, reading as "already in cart" until a Fetch.
func (e *Engine) AddItem(ctx context.Context, productID int64) error {
	e.mu.Lock()
	if _, inFlight := e.pending[productID]; inFlight {
		e.mu.Unlock()
		return nil
	}
	e.pending[productID] = struct{}{}
	e.mu.Unlock()

	if err := e.gw.AddCartItem(ctx, productID, 1); err != nil {
		e.mu.Lock()
		delete(e.pending, productID)
		e.mu.Unlock()
		e.log.Warn("add to cart failed", zap.Int64("product_id", productID), zap.Error(err))
		return err
	}
	return nil
}

// Pending reports whether an add for the product is in flight or has
// succeeded since the last Fetch.
func (e *Engine) Pending(productID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[productID]
	return ok
}

// Increment raises a line's quantity by one, optimistically. A line at
// its stock ceiling, or an unknown line ID, is a no-op.
func (e *Engine) Increment(ctx context.Context, lineID string) error {
	return e.adjustQuantity(ctx, lineID, +1)
}

// Decrement lowers a line's quantity by one, optimistically. A line at
// quantity 1, or an unknown line ID, is a no-op.
func (e *Engine) Decrement(ctx context.Context, lineID string) error {
	return e.adjustQuantity(ctx, lineID, -1)
}

func (e *Engine) adjustQuantity(ctx context.Context, lineID string, delta int) error {
	e.mu.Lock()
	idx := e.lineIndex(lineID)
	if idx < 0 {
		e.mu.Unlock()
		return nil
	}
	next := e.lines[idx].Quantity + delta
	if next < 1 || next > e.lines[idx].Product.Stock {
		e.mu.Unlock()
		return nil
	}
	e.lines[idx].Quantity = next
	e.mu.Unlock()

	if err := e.gw.UpdateCartLine(ctx, lineID, next); err != nil {
		// Local state keeps the optimistic value; the next Fetch
		// reconciles it with server truth.
		e.log.Warn("quantity update failed", zap.String("line_id", lineID), zap.Error(err))
		return err
	}
	return nil
}

// ConfirmedRemove drops a line after the view obtained an affirmative
// user response. The local line goes away only once the server agreed.
func (e *Engine) ConfirmedRemove(ctx context.Context, lineID string) error {
	if err := e.gw.RemoveCartLine(ctx, lineID); err != nil {
		e.log.Warn("remove failed", zap.String("line_id", lineID), zap.Error(err))
		return err
	}
	e.mu.Lock()
	if idx := e.lineIndex(lineID); idx >= 0 {
		e.lines = append(e.lines[:idx], e.lines[idx+1:]...)
	}
	e.mu.Unlock()
	return nil
}

// ConfirmedClear empties the cart after an affirmative user response,
// committing locally only on server success.
func (e *Engine) ConfirmedClear(ctx context.Context) error {
	if err := e.gw.ClearCart(ctx); err != nil {
		e.log.Warn("clear failed", zap.Error(err))
		return err
	}
	e.mu.Lock()
	e.lines = nil
	e.pending = make(map[int64]struct{})
	e.mu.Unlock()
	return nil
}

// Checkout finalizes the purchase. On success local state empties and
// the returned receipt stays presentable for the acknowledgement window;
// on failure state is untouched.
func (e *Engine) Checkout(ctx context.Context) (Receipt, error) {
	e.mu.Lock()
	total := domain.Subtotal(e.lines)
	e.mu.Unlock()

	if err := e.gw.Checkout(ctx); err != nil {
		e.log.Warn("checkout failed", zap.Error(err))
		return Receipt{}, err
	}

	e.mu.Lock()
	e.lines = nil
	e.pending = make(map[int64]struct{})
	e.mu.Unlock()
	return Receipt{Total: total, ExpiresAt: e.now().Add(e.ackWindow)}, nil
}

// Total is the current snapshot's subtotal; zero for an empty cart.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Subtotal(e.lines)
}

// Lines returns a copy of the current snapshot.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}

// Line returns the current snapshot's line with the given ID.
func (e *Engine) Line(lineID string) (domain.CartLine, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx := e.lineIndex(lineID); idx >= 0 {
		return e.lines[idx], true
	}
	return domain.CartLine{}, false
}

// lineIndex requires e.mu held.
func (e *Engine) lineIndex(lineID string) int {
	for i := range e.lines {
		if e.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}
