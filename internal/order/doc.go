// Package order defines the order records exchanged with the remote order
// API and the client-side rules applied to them before and after a request.
//
// # Records
//
// Orders are created and owned by the server. The console only ever holds
// transient copies: the result of the last fetch, dropped on the next fetch
// or on an explicit clear.
//
// # Client-side rules
//
//   - Draft.Request validates a create-order form: a trimmed non-empty
//     customer name and at least one item with a non-empty name and a
//     positive quantity. Blank rows are dropped, not rejected.
//   - ParseStatus enforces the closed set offered by the status updater.
//     Decoded orders are never checked against it; the server is trusted to
//     reject unknown values and may return statuses outside the set.
//   - Filter narrows an already-fetched list by customer substring (Unicode
//     case folding) and exact status. Filtering is purely local.
package order
