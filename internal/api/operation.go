package api

// Operation names a remote call.
type Operation string

// Remote operations.
const (
	OpCreateOrder       Operation = "createOrder"
	OpGetOrder          Operation = "getOrder"
	OpListOrders        Operation = "getAllOrders"
	OpUpdateOrderStatus Operation = "updateOrderStatus"
	OpDeleteOrder       Operation = "deleteOrder"
	OpResetOrders       Operation = "resetOrders"
	OpSeedOrders        Operation = "seedOrders"
)

// Fallback is the message used when a failed response carries no "error".
func (op Operation) Fallback() string {
	switch op {
	case OpCreateOrder:
		return "Failed to create order"
	case OpGetOrder:
		return "Failed to fetch order"
	case OpListOrders:
		return "Failed to fetch orders"
	case OpUpdateOrderStatus:
		return "Failed to update order status"
	case OpDeleteOrder:
		return "Failed to delete order"
	case OpResetOrders:
		return "Failed to reset orders."
	case OpSeedOrders:
		return "Failed to seed orders."
	default:
		return "Request failed"
	}
}
