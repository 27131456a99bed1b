// Package render formats orders and widget feedback as plain text for the
// terminal. Layout follows the order cards of the web console: one block per
// order with the customer, the upper-cased status and one line per item.
package render
