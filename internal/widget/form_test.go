package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordersctl/internal/order"
)

func TestOrderForm_EmptyCustomerNeverCallsNetwork(t *testing.T) {
	srv, c := newClient(t)
	form := NewOrderForm(c, nil)
	form.Edit(func(d *order.Draft) {
		d.CustomerName = "   "
		d.Items[0] = order.Item{Name: "Burger", Quantity: 1}
	})

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "Customer name is required", form.Feedback().Message)
	assert.Equal(t, FeedbackError, form.Feedback().Kind)
	assert.Equal(t, 0, srv.RequestCount())
}

func TestOrderForm_BlankItemBlocked(t *testing.T) {
	srv, c := newClient(t)
	form := NewOrderForm(c, nil)
	form.Edit(func(d *order.Draft) {
		d.CustomerName = "Ann"
		d.Items = []order.Item{{Name: "", Quantity: 1}}
	})

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrNoValidItems)
	assert.Equal(t, 0, srv.RequestCount())
	assert.Equal(t, "Ann", form.Draft().CustomerName, "input kept after failure")
}

func TestOrderForm_SuccessReportsAndResets(t *testing.T) {
	srv, c := newClient(t)
	srv.SetNextID(func() string { return "new-id" })

	var reported []string
	form := NewOrderForm(c, func(id string) { reported = append(reported, id) })
	form.Edit(func(d *order.Draft) {
		d.CustomerName = " Anna Lee "
		d.Items[0] = order.Item{Name: "Pizza", Quantity: 2}
		d.AddItem() // stays blank and is dropped
	})

	created, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
	assert.Equal(t, []string{"new-id"}, reported)
	assert.Equal(t, order.NewDraft(), form.Draft())
	assert.Equal(t, FeedbackSuccess, form.Feedback().Kind)
	assert.Contains(t, form.Feedback().Message, "new-id")

	stored, ok := srv.Order("new-id")
	require.True(t, ok)
	assert.Equal(t, "Anna Lee", stored.CustomerName)
	assert.Equal(t, []order.Item{{Name: "Pizza", Quantity: 2}}, stored.Items)
}

func TestOrderForm_ServerErrorKeepsDraft(t *testing.T) {
	srv, c := newClient(t)
	srv.FailNext(500, `{"error":"database unavailable"}`)

	form := NewOrderForm(c, nil)
	form.Edit(func(d *order.Draft) {
		d.CustomerName = "Bob"
		d.Items[0] = order.Item{Name: "Fries", Quantity: 1}
	})

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Equal(t, "database unavailable", form.Feedback().Message)
	assert.Equal(t, "Bob", form.Draft().CustomerName)
}

func TestOrderForm_DraftIsCopied(t *testing.T) {
	_, c := newClient(t)
	form := NewOrderForm(c, nil)
	d := form.Draft()
	d.Items[0].Name = "mutated"
	assert.Empty(t, form.Draft().Items[0].Name)
}
