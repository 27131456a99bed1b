package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordersctl/internal/order"
)

func TestOrderList_NotFetchedUntilAsked(t *testing.T) {
	srv, c := newClient(t)
	l := NewOrderList(c)
	assert.Empty(t, l.Visible())
	assert.Equal(t, 0, srv.RequestCount())
}

func TestOrderList_FilterByStatus(t *testing.T) {
	srv, c := newClient(t)
	srv.Put(order.Order{ID: "1", CustomerName: "Anna Lee", Status: order.StatusReady})
	srv.Put(order.Order{ID: "2", CustomerName: "Bob", Status: order.StatusCancelled})
	l := NewOrderList(c)

	require.NoError(t, l.Fetch(context.Background()))
	assert.Equal(t, 2, l.Total())

	l.SetStatusFilter(order.StatusReady)
	visible := l.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "1", visible[0].ID)
}

func TestOrderList_FilterIsLocal(t *testing.T) {
	srv, c := newClient(t)
	srv.Put(order.Order{ID: "1", CustomerName: "Anna Lee", Status: order.StatusReady})
	srv.Put(order.Order{ID: "2", CustomerName: "Bob", Status: order.StatusReady})
	l := NewOrderList(c)
	require.NoError(t, l.Fetch(context.Background()))
	requests := srv.RequestCount()

	for _, prefix := range []string{"A", "An", "Ann"} {
		l.SetCustomerFilter(prefix)
		visible := l.Visible()
		require.Len(t, visible, 1, prefix)
		assert.Equal(t, "Anna Lee", visible[0].CustomerName)
	}
	l.SetCustomerFilter("")
	assert.Len(t, l.Visible(), 2)
	assert.Equal(t, requests, srv.RequestCount())
}

func TestOrderList_FailureEmpties(t *testing.T) {
	srv, c := newClient(t)
	srv.Put(order.Order{ID: "1", CustomerName: "Ann"})
	l := NewOrderList(c)
	require.NoError(t, l.Fetch(context.Background()))
	require.Len(t, l.Orders(), 1)

	srv.FailNext(503, `{}`)
	err := l.Fetch(context.Background())
	require.Error(t, err)
	assert.Empty(t, l.Orders())
	assert.Equal(t, 0, l.Total())
	assert.Equal(t, "Failed to fetch orders", l.Feedback().Message)
}

func TestOrderList_ClearResetsListAndFilters(t *testing.T) {
	srv, c := newClient(t)
	srv.Put(order.Order{ID: "1", CustomerName: "Ann", Status: order.StatusReady})
	l := NewOrderList(c)
	require.NoError(t, l.Fetch(context.Background()))
	l.SetCustomerFilter("ann")
	l.SetStatusFilter(order.StatusReady)

	l.Clear()
	assert.Empty(t, l.Orders())
	assert.Equal(t, 0, l.Total())
	assert.True(t, l.Filter().IsZero())
}
