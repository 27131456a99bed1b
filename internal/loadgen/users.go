package loadgen

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/order"
)

// Menu is the fixed set of item names shoppers order from.
var Menu = []string{"Cheeseburger", "Fries", "Coke", "Chicken Sandwich", "Salad", "Milkshake"}

// shopper places orders and follows them through their lifecycle. Its state
// is owned by a single goroutine.
type shopper struct {
	runner  *Runner
	rng     *rand.Rand
	placed  []string // every order this user created and has not deleted
	pending []string // orders still to be processed
}

func (s *shopper) pick() func(context.Context) {
	w := s.runner.profile.Shopper.Weights
	tasks := []func(context.Context){s.browse, s.place, s.check, s.process, s.delete}
	i := weighted(s.rng, []int{w.Browse, w.Place, w.Check, w.Process, w.Delete})
	if i < 0 {
		return nil
	}
	return tasks[i]
}

func (s *shopper) browse(ctx context.Context) {
	_ = s.runner.record(ctx, NameBrowseAll, func() error {
		_, err := s.runner.client.ListOrders(ctx, api.ListOptions{})
		return err
	})
}

func (s *shopper) place(ctx context.Context) {
	req := s.newOrder()
	var created *order.Order
	err := s.runner.record(ctx, NamePlaceOrder, func() error {
		var err error
		created, err = s.runner.client.CreateOrder(ctx, req)
		return err
	})
	if err != nil || created.ID == "" {
		return
	}
	s.placed = append(s.placed, created.ID)
	s.pending = append(s.pending, created.ID)
}

// check fetches one of the user's orders. A 404 is retried after a delay and
// counted as a failure only on the final attempt, since a fresh write may not
// be visible yet.
func (s *shopper) check(ctx context.Context) {
	if len(s.placed) == 0 {
		return
	}
	id := s.placed[s.rng.IntN(len(s.placed))]
	attempts := s.runner.profile.NotFoundRetries

	for i := 0; i < attempts && ctx.Err() == nil; i++ {
		last := i == attempts-1
		start := time.Now()
		_, err := s.runner.client.GetOrder(ctx, id)
		elapsed := time.Since(start)

		switch {
		case err == nil:
			s.runner.stats.Record(NameCheckOrder, elapsed, false)
			return
		case ctx.Err() != nil:
			return
		case api.IsNotFound(err) && !last:
			s.runner.stats.Record(NameCheckOrder, elapsed, false)
			if !sleep(ctx, s.runner.profile.RetryDelay) {
				return
			}
		default:
			s.runner.stats.Record(NameCheckOrder, elapsed, true)
		}
	}
}

func (s *shopper) process(ctx context.Context) {
	if len(s.pending) == 0 {
		return
	}
	id := s.pending[0]
	s.pending = s.pending[1:]
	_ = s.runner.record(ctx, NameProcessOrder, func() error {
		_, err := s.runner.client.UpdateOrderStatus(ctx, id, s.runner.profile.ProcessStatus)
		return err
	})
}

func (s *shopper) delete(ctx context.Context) {
	if len(s.placed) == 0 {
		return
	}
	id := s.placed[0]
	s.placed = s.placed[1:]
	s.pending = slices.DeleteFunc(s.pending, func(p string) bool { return p == id })
	_ = s.runner.record(ctx, NameDeleteOrder, func() error {
		_, err := s.runner.client.DeleteOrder(ctx, id)
		return err
	})
}

// newOrder builds 1-3 items from the menu with quantity 1-2.
func (s *shopper) newOrder() order.CreateRequest {
	n := 1 + s.rng.IntN(3)
	items := make([]order.Item, n)
	for i := range items {
		items[i] = order.Item{
			Name:     Menu[s.rng.IntN(len(Menu))],
			Quantity: 1 + s.rng.IntN(2),
		}
	}
	return order.CreateRequest{CustomerName: s.runner.names(), Items: items}
}

// reader pages through the list and opens preloaded orders.
type reader struct {
	runner *Runner
	rng    *rand.Rand
}

func (r *reader) pick() func(context.Context) {
	w := r.runner.profile.Reader.Weights
	switch weighted(r.rng, []int{w.List, w.Detail}) {
	case 0:
		return r.list
	case 1:
		return r.detail
	}
	return nil
}

func (r *reader) list(ctx context.Context) {
	_ = r.runner.record(ctx, NameListPage, func() error {
		_, err := r.runner.client.ListOrders(ctx, api.ListOptions{Limit: r.runner.profile.Reader.PageSize})
		return err
	})
}

func (r *reader) detail(ctx context.Context) {
	ids := r.runner.ids
	if len(ids) == 0 {
		return
	}
	id := ids[r.rng.IntN(len(ids))]
	_ = r.runner.record(ctx, NameOrderDetail, func() error {
		_, err := r.runner.client.GetOrder(ctx, id)
		return err
	})
}
