package loadgen

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/order"
)

// Client is the subset of the API exercised by virtual users.
type Client interface {
	CreateOrder(ctx context.Context, req order.CreateRequest) (*order.Order, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	ListOrders(ctx context.Context, opts api.ListOptions) (*order.List, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
	DeleteOrder(ctx context.Context, orderID string) (*order.Message, error)
}

var _ Client = (*api.Client)(nil)

// Runner executes a Profile.
type Runner struct {
	client  Client
	profile Profile
	ids     []string // preloaded, shared read-only by readers
	stats   *Stats
	names   func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithPreloadedIDs sets the ids readers pick from.
func WithPreloadedIDs(ids []string) Option {
	return func(r *Runner) { r.ids = ids }
}

// WithCustomerNames overrides the generator of customer names.
func WithCustomerNames(next func() string) Option {
	return func(r *Runner) { r.names = next }
}

// NewRunner creates a runner. The profile is assumed valid.
func NewRunner(client Client, p Profile, opts ...Option) *Runner {
	r := &Runner{
		client:  client,
		profile: p,
		stats:   NewStats(),
		names:   func() string { return "LoadUser_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats exposes the live collector, e.g. for progress output.
func (r *Runner) Stats() *Stats { return r.stats }

// Run starts every virtual user and blocks until the profile duration has
// elapsed or ctx is cancelled. All user goroutines have exited when Run
// returns.
func (r *Runner) Run(ctx context.Context) *Report {
	ctx, cancel := context.WithTimeout(ctx, r.profile.Duration)
	defer cancel()

	seed := uint64(r.profile.Seed)
	if seed == 0 {
		seed = rand.Uint64()
	}

	slog.InfoContext(ctx, "load run starting",
		"users", r.profile.Users, "readers", r.profile.Readers, "duration", r.profile.Duration)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < r.profile.Users; i++ {
		u := &shopper{
			runner: r,
			rng:    rand.New(rand.NewPCG(seed, uint64(i))),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.loop(ctx, u.rng, u.pick, r.profile.Shopper.MinWait, r.profile.Shopper.MaxWait)
		}()
	}
	for i := 0; i < r.profile.Readers; i++ {
		u := &reader{
			runner: r,
			rng:    rand.New(rand.NewPCG(seed, uint64(r.profile.Users+i))),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.loop(ctx, u.rng, u.pick, r.profile.Reader.MinWait, r.profile.Reader.MaxWait)
		}()
	}
	wg.Wait()

	report := &Report{
		Elapsed:  time.Since(start),
		Requests: r.stats.Snapshot(),
		Total:    r.stats.total(),
	}
	slog.InfoContext(ctx, "load run finished", "requests", report.Total.Requests, "failures", report.Total.Failures)
	return report
}

// loop runs one virtual user: pick a task, run it, wait, repeat.
func (r *Runner) loop(ctx context.Context, rng *rand.Rand, pick func() func(context.Context), minWait, maxWait time.Duration) {
	for ctx.Err() == nil {
		if task := pick(); task != nil {
			task(ctx)
		}
		if !sleep(ctx, between(rng, minWait, maxWait)) {
			return
		}
	}
}

// record times fn under name. Calls cut short by the end of the run are not
// counted.
func (r *Runner) record(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if err != nil && ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}
	r.stats.Record(name, time.Since(start), err != nil)
	return err
}

// between returns a uniform duration in [lo, hi].
func between(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// weighted picks an index with probability proportional to its weight.
// It returns -1 when every weight is zero.
func weighted(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return -1
	}
	n := rng.IntN(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return -1
}
