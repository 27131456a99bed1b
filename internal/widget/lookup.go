package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/roach88/ordersctl/internal/order"
)

// OrderLookup fetches a single order and can delete it.
type OrderLookup struct {
	api     OrderReader
	confirm Confirmer

	mu       sync.Mutex
	orderID  string
	current  *order.Order
	feedback Feedback
	busy     busyFlag
}

// NewOrderLookup returns an empty lookup widget.
func NewOrderLookup(api OrderReader, confirm Confirmer) *OrderLookup {
	return &OrderLookup{api: api, confirm: confirm}
}

// Order returns the fetched order, or nil.
func (l *OrderLookup) Order() *order.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	o := *l.current
	return &o
}

// OrderID returns the id input.
func (l *OrderLookup) OrderID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orderID
}

// SetOrderID fills the id input without fetching.
func (l *OrderLookup) SetOrderID(orderID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orderID = orderID
}

// Feedback returns the last message.
func (l *OrderLookup) Feedback() Feedback {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.feedback
}

// Busy reports whether a request is in flight.
func (l *OrderLookup) Busy() bool { return l.busy.busy() }

// Fetch loads the order with the given id. Any failure clears the
// previously shown order.
func (l *OrderLookup) Fetch(ctx context.Context, orderID string) (*order.Order, error) {
	if !l.busy.acquire() {
		return nil, ErrBusy
	}
	defer l.busy.release()

	l.mu.Lock()
	l.orderID = orderID
	l.feedback = Feedback{}
	l.mu.Unlock()

	id := strings.TrimSpace(orderID)
	if id == "" {
		err := invalid("Order ID is required")
		l.fail(err)
		return nil, err
	}

	o, err := l.api.GetOrder(ctx, id)
	if err != nil {
		l.fail(err)
		return nil, err
	}

	l.mu.Lock()
	l.current = o
	l.mu.Unlock()
	return o, nil
}

// Delete removes the shown order (or, when nothing is shown, the order named
// by the id input) after confirmation. Declining leaves the widget untouched
// and returns false with no error.
func (l *OrderLookup) Delete(ctx context.Context) (bool, error) {
	if !l.busy.acquire() {
		return false, ErrBusy
	}
	defer l.busy.release()

	l.mu.Lock()
	id := strings.TrimSpace(l.orderID)
	if l.current != nil {
		id = l.current.ID
	}
	l.mu.Unlock()

	if id == "" {
		err := invalid("Order ID is required")
		l.setFeedback(failure(err))
		return false, err
	}

	ok, err := l.confirm.Confirm(ctx, "Delete order "+id+"? This cannot be undone.")
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	msg, err := l.api.DeleteOrder(ctx, id)
	if err != nil {
		l.setFeedback(failure(err))
		return false, err
	}

	l.mu.Lock()
	l.current = nil
	l.orderID = ""
	l.feedback = success(msg.Message)
	l.mu.Unlock()
	return true, nil
}

// Clear drops the fetched order, the id input and any message.
func (l *OrderLookup) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = nil
	l.orderID = ""
	l.feedback = Feedback{}
}

func (l *OrderLookup) fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = nil
	l.feedback = failure(err)
}

func (l *OrderLookup) setFeedback(fb Feedback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.feedback = fb
}
