package widget

import (
	"context"
	"sync"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/order"
)

// OrderList fetches all orders on demand and filters them locally.
type OrderList struct {
	api OrderLister

	mu       sync.Mutex
	page     api.ListOptions
	orders   []order.Order
	total    int
	filter   order.Filter
	feedback Feedback
	busy     busyFlag
}

// NewOrderList returns an empty list widget.
func NewOrderList(client OrderLister) *OrderList {
	return &OrderList{api: client}
}

// SetPage selects a page for the next fetch. The zero value fetches whatever
// the server returns by default.
func (l *OrderList) SetPage(page api.ListOptions) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = page
}

// Fetch replaces the held list with a fresh one from the server. On failure
// the list and total are emptied. Filters are kept.
func (l *OrderList) Fetch(ctx context.Context) error {
	if !l.busy.acquire() {
		return ErrBusy
	}
	defer l.busy.release()

	l.mu.Lock()
	l.feedback = Feedback{}
	page := l.page
	l.mu.Unlock()

	list, err := l.api.ListOrders(ctx, page)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.orders = nil
		l.total = 0
		l.feedback = failure(err)
		return err
	}
	l.orders = list.Orders
	l.total = list.Total
	return nil
}

// SetCustomerFilter sets the customer substring filter.
func (l *OrderList) SetCustomerFilter(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter.Customer = s
}

// SetStatusFilter sets the exact status filter; empty matches all.
func (l *OrderList) SetStatusFilter(s order.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter.Status = s
}

// Filter returns the current filter inputs.
func (l *OrderList) Filter() order.Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// Orders returns the fetched list, unfiltered.
func (l *OrderList) Orders() []order.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]order.Order(nil), l.orders...)
}

// Total returns the server-reported total of the last fetch.
func (l *OrderList) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Visible derives the filtered view. It is recomputed on every call.
func (l *OrderList) Visible() []order.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter.Apply(l.orders)
}

// Feedback returns the last message.
func (l *OrderList) Feedback() Feedback {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.feedback
}

// Busy reports whether a fetch is in flight.
func (l *OrderList) Busy() bool { return l.busy.busy() }

// Clear drops the fetched list and resets both filters.
func (l *OrderList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders = nil
	l.total = 0
	l.filter = order.Filter{}
	l.feedback = Feedback{}
}
