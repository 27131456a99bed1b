package order

import (
	"errors"
	"strings"
)

// Validation messages shown by the create-order form.
var (
	ErrCustomerRequired = errors.New("Customer name is required")
	ErrNoValidItems     = errors.New("At least one valid item is required")
)

// Draft is the editable state of the create-order form.
type Draft struct {
	CustomerName string
	Items        []Item
}

// NewDraft returns an empty form with a single blank row of quantity 1.
func NewDraft() Draft {
	return Draft{Items: []Item{{Quantity: 1}}}
}

// AddItem appends a blank row.
func (d *Draft) AddItem() {
	d.Items = append(d.Items, Item{Quantity: 1})
}

// RemoveItem drops the row at index. The last remaining row is never removed.
func (d *Draft) RemoveItem(index int) bool {
	if len(d.Items) <= 1 || index < 0 || index >= len(d.Items) {
		return false
	}
	d.Items = append(d.Items[:index:index], d.Items[index+1:]...)
	return true
}

// SetItem replaces the row at index.
func (d *Draft) SetItem(index int, item Item) bool {
	if index < 0 || index >= len(d.Items) {
		return false
	}
	d.Items[index] = item
	return true
}

// Request validates the draft and builds the create-order body.
// The customer name is trimmed; rows with a blank name or a non-positive
// quantity are dropped. Item names are sent as entered.
func (d Draft) Request() (CreateRequest, error) {
	name := strings.TrimSpace(d.CustomerName)
	if name == "" {
		return CreateRequest{}, ErrCustomerRequired
	}

	valid := make([]Item, 0, len(d.Items))
	for _, item := range d.Items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 {
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return CreateRequest{}, ErrNoValidItems
	}

	return CreateRequest{CustomerName: name, Items: valid}, nil
}
