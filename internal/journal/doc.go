// Package journal keeps a SQLite audit trail of the API calls issued by
// ordersctl.
//
// Every completed call is appended as one row. Rows are ordered by seq, a
// logical clock resumed from the highest stored value on Open; recorded_at is
// informational only and never used for ordering.
//
// The journal never caches order contents. The only derived view is the set
// of order ids this console created and has not since deleted or reset,
// which seeds the load generator.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package journal
