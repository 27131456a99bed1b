// Package loadgen drives synthetic traffic against the order API.
//
// Two kinds of virtual user run as goroutines until the profile's duration
// elapses or the context is cancelled:
//
//   - shoppers browse the full list, place orders, re-check their own orders
//     (tolerating a few 404s while the write settles), advance them to a final
//     status and delete them;
//   - readers page through the list and open random orders from a preloaded
//     id set (the journal or the backend's SQLite file).
//
// Every request is timed under a stable name and summarised per name with
// min/avg/max and p50/p95 latencies.
package loadgen
