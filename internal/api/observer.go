package api

import (
	"context"
	"time"
)

// Call describes one completed request.
type Call struct {
	Op         Operation
	OrderID    string // empty for list and admin calls; set from the response on create
	RequestID  string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// OK reports whether the call succeeded.
func (c Call) OK() bool {
	return c.Err == nil
}

// Observer receives a Call after every request. Implementations must be
// safe for concurrent use; the load generator shares one client.
type Observer interface {
	Observe(ctx context.Context, call Call)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, call Call)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, call Call) {
	f(ctx, call)
}
