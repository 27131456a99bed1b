package order

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Filter narrows a fetched order list. Zero-valued fields match everything.
type Filter struct {
	// Customer matches as a case-insensitive substring of the customer name.
	Customer string
	// Status matches exactly.
	Status Status
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Customer == "" && f.Status == ""
}

// Apply returns the orders matching f in their original order.
// The input slice is never modified.
func (f Filter) Apply(orders []Order) []Order {
	needle := fold(f.Customer)
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if needle != "" && !strings.Contains(fold(o.CustomerName), needle) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// fold normalises s to NFC and applies Unicode case folding.
// A new Caser is built per call; Casers are not safe for concurrent use.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(s))
}
