package widget

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/apitest"
	"github.com/roach88/ordersctl/internal/order"
)

func newClient(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.NewServer(t)
	c, err := api.New(srv.URL)
	require.NoError(t, err)
	return srv, c
}

// recordingConfirmer answers with a fixed value and records prompts.
type recordingConfirmer struct {
	answer  bool
	prompts []string
}

func (r *recordingConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	r.prompts = append(r.prompts, prompt)
	return r.answer, nil
}

// blockingLister holds ListOrders open until release is closed.
type blockingLister struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingLister) ListOrders(ctx context.Context, _ api.ListOptions) (*order.List, error) {
	close(b.started)
	<-b.release
	return &order.List{}, nil
}

func TestBusyFlagRejectsOverlap(t *testing.T) {
	lister := &blockingLister{started: make(chan struct{}), release: make(chan struct{})}
	w := NewOrderList(lister)

	done := make(chan error, 1)
	go func() { done <- w.Fetch(context.Background()) }()

	<-lister.started
	assert.True(t, w.Busy())
	assert.ErrorIs(t, w.Fetch(context.Background()), ErrBusy)

	close(lister.release)
	require.NoError(t, <-done)
	assert.False(t, w.Busy())
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := error(&ValidationError{Err: order.ErrCustomerRequired})
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, order.ErrCustomerRequired)
	assert.False(t, IsValidation(errors.New("other")))
}
