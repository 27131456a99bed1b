// Package apitest provides an in-memory fake of the remote order service for
// tests. It serves the same routes and JSON shapes as the real service and
// records every request it receives.
package apitest
