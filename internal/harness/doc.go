// Package harness runs scripted console sessions against a fake order
// service and checks what happened.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: create_and_fetch
//	description: "What this scenario validates"
//	env:
//	  ORDERS_ADMIN_PASSWORD: secret
//	setup:
//	  orders:
//	    - order_id: a1
//	      customer_name: Anna Lee
//	      status: ready
//	      items: [{ name: Burger, quantity: 2 }]
//	script:
//	  - create Bob
//	  - item set 1 1 Fries
//	  - submit
//	  - fetch order-1
//	assertions:
//	  - type: output_contains
//	    text: "Order created successfully! Order ID: order-1"
//	  - type: request_order
//	    requests: ["POST /orders", "GET /orders/order-1"]
//	  - type: final_state
//	    order_id: order-1
//	    expect: { status: received }
//
// Script lines are fed to the shell command one per line; answers to y/N
// prompts are script lines too.
//
// # Assertion Types
//
//   - output_contains: the session transcript contains text
//   - request_order: requests appear in this order (others may interleave)
//   - request_count: a request appears exactly count times
//   - final_state: the order exists with the expected fields, or is absent
//
// # Deterministic Testing
//
// The fake service assigns ids order-1, order-2, ... in creation order, and
// the trace omits request ids, so traces compare byte for byte against
// golden files in testdata/golden.
package harness
