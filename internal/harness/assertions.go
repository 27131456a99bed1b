package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/ordersctl/internal/order"
)

// OrderSource looks up the service's final state. *apitest.Server
// implements it.
type OrderSource interface {
	Order(id string) (order.Order, bool)
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, event.Request())
	}

	return buf.String()
}

// assertOutputContains checks the transcript for a substring.
func assertOutputContains(result *Result, assertion Assertion) error {
	if strings.Contains(result.Output, assertion.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("output containing %q", assertion.Text),
		Actual:   fmt.Sprintf("output:\n%s", result.Output),
		Trace:    result.Trace,
	}
}

// assertRequestOrder checks that requests appear in the specified order.
// Requests don't need to be consecutive (intervening requests are allowed),
// and each expected entry consumes one matching request.
func assertRequestOrder(trace []TraceEvent, assertion Assertion) error {
	pos := 0
	for i, want := range assertion.Requests {
		found := false
		for pos < len(trace) {
			got := trace[pos].Request()
			pos++
			if got == want {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertRequestOrder,
				Expected: fmt.Sprintf("requests in order: %v", assertion.Requests),
				Actual:   fmt.Sprintf("no %q after the first %d expected requests", want, i),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertRequestCount checks if the request appears exactly the specified number of times.
func assertRequestCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Request() == assertion.Request {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertRequestCount,
			Expected: fmt.Sprintf("%s appears %d times", assertion.Request, assertion.Count),
			Actual:   fmt.Sprintf("%s appears %d times", assertion.Request, count),
			Trace:    trace,
		}
	}

	return nil
}

// assertFinalState checks the stored order against expected field values
// (by JSON name, subset semantics), or that it no longer exists.
func assertFinalState(src OrderSource, trace []TraceEvent, assertion Assertion) error {
	o, ok := src.Order(assertion.OrderID)
	if assertion.Absent {
		if ok {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("order %s absent", assertion.OrderID),
				Actual:   fmt.Sprintf("order %s exists with status %s", o.ID, o.Status),
				Trace:    trace,
			}
		}
		return nil
	}
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("order %s with %v", assertion.OrderID, assertion.Expect),
			Actual:   "order not found",
			Trace:    trace,
		}
	}

	actual, err := normalize(o)
	if err != nil {
		return fmt.Errorf("final_state: %w", err)
	}
	expected, err := normalize(assertion.Expect)
	if err != nil {
		return fmt.Errorf("final_state: %w", err)
	}

	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, present := actual[k]
		if !present || !reflect.DeepEqual(got, expected[k]) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("order %s %s = %v", assertion.OrderID, k, expected[k]),
				Actual:   fmt.Sprintf("order %s %s = %v", assertion.OrderID, k, got),
				Trace:    trace,
			}
		}
	}
	return nil
}

// normalize round-trips v through JSON so YAML ints and JSON float64s
// compare equal.
func normalize(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// src provides the service state for final_state assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, src OrderSource) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertOutputContains:
			err = assertOutputContains(result, assertion)
		case AssertRequestOrder:
			err = assertRequestOrder(result.Trace, assertion)
		case AssertRequestCount:
			err = assertRequestCount(result.Trace, assertion)
		case AssertFinalState:
			if src == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires an order source", i)
			} else {
				err = assertFinalState(src, result.Trace, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
