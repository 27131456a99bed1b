package widget

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/order"
)

// ErrBusy is returned when an action is attempted while the widget already
// has a request in flight.
var ErrBusy = errors.New("another request is already in progress")

// ValidationError is a client-side check that failed before any request.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Err: errors.New(msg)}
}

// IsValidation reports whether err was raised by client-side validation.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// FeedbackKind classifies a feedback message.
type FeedbackKind string

const (
	FeedbackNone    FeedbackKind = ""
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is the inline message a widget shows after an action.
type Feedback struct {
	Kind    FeedbackKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Message string       `json:"message,omitempty" yaml:"message,omitempty"`
}

func success(msg string) Feedback { return Feedback{Kind: FeedbackSuccess, Message: msg} }

func failure(err error) Feedback { return Feedback{Kind: FeedbackError, Message: err.Error()} }

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm answers yes without asking.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// API is the full set of remote calls used by the widgets. *api.Client
// satisfies it.
type API interface {
	OrderCreator
	OrderReader
	OrderLister
	StatusSetter
	AdminService
}

var _ API = (*api.Client)(nil)

// OrderCreator submits new orders.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req order.CreateRequest) (*order.Order, error)
}

// OrderReader fetches and deletes single orders.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	DeleteOrder(ctx context.Context, orderID string) (*order.Message, error)
}

// OrderLister fetches the order list.
type OrderLister interface {
	ListOrders(ctx context.Context, opts api.ListOptions) (*order.List, error)
}

// StatusSetter changes an order's status.
type StatusSetter interface {
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
}

// AdminService issues the password-protected bulk calls.
type AdminService interface {
	ResetOrders(ctx context.Context, password string) (*order.Message, error)
	SeedOrders(ctx context.Context, password string, count int) (*order.Message, error)
}

// busyFlag tracks the single outstanding request of a widget.
type busyFlag struct {
	v atomic.Bool
}

func (b *busyFlag) acquire() bool { return b.v.CompareAndSwap(false, true) }
func (b *busyFlag) release()      { b.v.Store(false) }
func (b *busyFlag) busy() bool    { return b.v.Load() }
