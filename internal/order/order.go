package order

import "strconv"

// Item is one line of an order.
type Item struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// String renders the item as "name × quantity".
func (i Item) String() string {
	return i.Name + " × " + strconv.Itoa(i.Quantity)
}

// Order is a customer's purchase record as returned by the server.
type Order struct {
	ID           string `json:"order_id" yaml:"order_id"`
	CustomerName string `json:"customer_name" yaml:"customer_name"`
	Items        []Item `json:"items" yaml:"items"`
	Status       Status `json:"status" yaml:"status"`
	CreatedAt    string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// CreateRequest is the body of POST /orders.
type CreateRequest struct {
	CustomerName string `json:"customer_name" yaml:"customer_name"`
	Items        []Item `json:"items" yaml:"items"`
}

// List is a fetched page of orders with the server-reported total.
type List struct {
	Total  int     `json:"total_orders" yaml:"total_orders"`
	Orders []Order `json:"orders" yaml:"orders"`
}

// Message is the body of responses that only carry a human-readable message
// (delete, admin reset, admin seed).
type Message struct {
	Message string `json:"message" yaml:"message"`
}
