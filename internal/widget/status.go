package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/roach88/ordersctl/internal/order"
)

// StatusUpdater changes the status of one order by id.
type StatusUpdater struct {
	api StatusSetter

	mu       sync.Mutex
	orderID  string
	status   order.Status
	feedback Feedback
	busy     busyFlag
}

// NewStatusUpdater returns an updater with "received" selected.
func NewStatusUpdater(api StatusSetter) *StatusUpdater {
	return &StatusUpdater{api: api, status: order.StatusReceived}
}

// Selected returns the id input and the selected status.
func (u *StatusUpdater) Selected() (string, order.Status) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.orderID, u.status
}

// Feedback returns the last message.
func (u *StatusUpdater) Feedback() Feedback {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.feedback
}

// Busy reports whether an update is in flight.
func (u *StatusUpdater) Busy() bool { return u.busy.busy() }

// Update sets the status of orderID. The status must be one of the
// selectable values. On success the id input is cleared; the selected status
// is kept.
func (u *StatusUpdater) Update(ctx context.Context, orderID, status string) (*order.Order, error) {
	if !u.busy.acquire() {
		return nil, ErrBusy
	}
	defer u.busy.release()

	u.mu.Lock()
	u.orderID = orderID
	u.feedback = Feedback{}
	u.mu.Unlock()

	id := strings.TrimSpace(orderID)
	if id == "" {
		err := invalid("Order ID is required")
		u.setFeedback(failure(err))
		return nil, err
	}
	st, err := order.ParseStatus(status)
	if err != nil {
		verr := &ValidationError{Err: err}
		u.setFeedback(failure(verr))
		return nil, verr
	}

	u.mu.Lock()
	u.status = st
	u.mu.Unlock()

	updated, err := u.api.UpdateOrderStatus(ctx, id, st)
	if err != nil {
		u.setFeedback(failure(err))
		return nil, err
	}

	u.mu.Lock()
	u.orderID = ""
	u.feedback = success("Order status updated successfully! New status: " + updated.Status.Upper())
	u.mu.Unlock()
	return updated, nil
}

// Clear resets the id input, the selection and any message.
func (u *StatusUpdater) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.orderID = ""
	u.status = order.StatusReceived
	u.feedback = Feedback{}
}

func (u *StatusUpdater) setFeedback(fb Feedback) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.feedback = fb
}
