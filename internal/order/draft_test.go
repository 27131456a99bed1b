package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRequest_EmptyCustomer(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		d := Draft{CustomerName: name, Items: []Item{{Name: "Burger", Quantity: 1}}}
		_, err := d.Request()
		assert.ErrorIs(t, err, ErrCustomerRequired, "name %q", name)
	}
}

func TestDraftRequest_TrimsCustomer(t *testing.T) {
	d := Draft{CustomerName: "  Anna Lee ", Items: []Item{{Name: "Pizza", Quantity: 2}}}
	req, err := d.Request()
	require.NoError(t, err)
	assert.Equal(t, "Anna Lee", req.CustomerName)
	assert.Equal(t, []Item{{Name: "Pizza", Quantity: 2}}, req.Items)
}

func TestDraftRequest_BlankItemFilteredOut(t *testing.T) {
	d := Draft{CustomerName: "Ann", Items: []Item{{Name: "", Quantity: 1}}}
	_, err := d.Request()
	assert.ErrorIs(t, err, ErrNoValidItems)
}

func TestDraftRequest_DropsInvalidRows(t *testing.T) {
	d := Draft{
		CustomerName: "Ann",
		Items: []Item{
			{Name: "", Quantity: 1},
			{Name: "Fries", Quantity: 0},
			{Name: "Coke", Quantity: -3},
			{Name: "  ", Quantity: 4},
			{Name: "Burger", Quantity: 2},
		},
	}
	req, err := d.Request()
	require.NoError(t, err)
	assert.Equal(t, []Item{{Name: "Burger", Quantity: 2}}, req.Items)
}

func TestDraftRequest_NoItems(t *testing.T) {
	_, err := Draft{CustomerName: "Ann"}.Request()
	assert.ErrorIs(t, err, ErrNoValidItems)
}

func TestNewDraft(t *testing.T) {
	d := NewDraft()
	assert.Empty(t, d.CustomerName)
	assert.Equal(t, []Item{{Quantity: 1}}, d.Items)
}

func TestDraftRows(t *testing.T) {
	d := NewDraft()
	d.AddItem()
	d.AddItem()
	require.Len(t, d.Items, 3)

	assert.True(t, d.SetItem(1, Item{Name: "Salad", Quantity: 3}))
	assert.False(t, d.SetItem(7, Item{Name: "x", Quantity: 1}))

	assert.True(t, d.RemoveItem(0))
	assert.Equal(t, Item{Name: "Salad", Quantity: 3}, d.Items[0])
	assert.True(t, d.RemoveItem(1))
	assert.False(t, d.RemoveItem(0), "last row must stay")
	assert.Len(t, d.Items, 1)
}
