package widget

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/ordersctl/internal/order"
)

// OrderForm is the create-order widget.
type OrderForm struct {
	api       OrderCreator
	onCreated func(orderID string)

	mu       sync.Mutex
	draft    order.Draft
	feedback Feedback
	busy     busyFlag
}

// NewOrderForm returns a form with one blank item row. onCreated, if set,
// receives the id of every order the form creates.
func NewOrderForm(api OrderCreator, onCreated func(orderID string)) *OrderForm {
	return &OrderForm{api: api, onCreated: onCreated, draft: order.NewDraft()}
}

// Draft returns a copy of the current form input.
func (f *OrderForm) Draft() order.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyDraft(f.draft)
}

// Edit applies fn to the form input.
func (f *OrderForm) Edit(fn func(d *order.Draft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.draft)
}

// Feedback returns the last message.
func (f *OrderForm) Feedback() Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedback
}

// Busy reports whether a submission is in flight.
func (f *OrderForm) Busy() bool { return f.busy.busy() }

// Submit validates the draft and creates the order. Validation failures never
// reach the network. On success the form resets to a single blank row; on
// failure the input is kept so the user can retry.
func (f *OrderForm) Submit(ctx context.Context) (*order.Order, error) {
	if !f.busy.acquire() {
		return nil, ErrBusy
	}
	defer f.busy.release()

	f.mu.Lock()
	f.feedback = Feedback{}
	draft := copyDraft(f.draft)
	f.mu.Unlock()

	req, err := draft.Request()
	if err != nil {
		verr := &ValidationError{Err: err}
		f.setFeedback(failure(verr))
		return nil, verr
	}

	created, err := f.api.CreateOrder(ctx, req)
	if err != nil {
		slog.DebugContext(ctx, "create order failed", "customer", req.CustomerName, "error", err)
		f.setFeedback(failure(err))
		return nil, err
	}

	f.mu.Lock()
	f.draft = order.NewDraft()
	f.feedback = success("Order created successfully! Order ID: " + created.ID)
	f.mu.Unlock()

	if f.onCreated != nil {
		f.onCreated(created.ID)
	}
	return created, nil
}

func (f *OrderForm) setFeedback(fb Feedback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = fb
}

func copyDraft(d order.Draft) order.Draft {
	return order.Draft{
		CustomerName: d.CustomerName,
		Items:        append([]order.Item(nil), d.Items...),
	}
}
