// Package api is the HTTP client for the remote order service.
//
// The client exposes the seven operations the console issues:
//
//	CreateOrder        POST   /orders
//	GetOrder           GET    /orders/{order_id}
//	ListOrders         GET    /orders
//	UpdateOrderStatus  PATCH  /orders/{order_id}/status
//	DeleteOrder        DELETE /orders/{order_id}
//	ResetOrders        POST   /admin/reset   (X-Admin-Password)
//	SeedOrders         POST   /admin/seed    (X-Admin-Password)
//
// # Failure model
//
// Every failure is terminal for the call that produced it. Non-2xx
// responses and transport errors both surface as *Error. The message is the
// server's JSON "error" field when present, otherwise a fixed per-operation
// fallback. The client never retries and sets no timeout of its own;
// cancellation comes only from the caller's context.
//
// # Observation
//
// Each request carries an X-Request-ID. An optional Observer receives a Call
// record after every request, success or failure.
package api
