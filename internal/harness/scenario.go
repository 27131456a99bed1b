package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ordersctl/internal/order"
)

// Scenario is one scripted console session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Env is the whole environment the console sees.
	Env map[string]string `yaml:"env,omitempty"`

	// Setup establishes the service's state before the script runs.
	Setup Setup `yaml:"setup,omitempty"`

	// Script is fed to the shell one line per entry.
	Script []string `yaml:"script"`

	// Assertions validate the transcript, the trace and the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Setup describes the fake service before the session starts.
type Setup struct {
	// Password replaces the service's admin password when set.
	Password string `yaml:"password,omitempty"`

	// Orders are stored in this order before the session starts.
	Orders []order.Order `yaml:"orders,omitempty"`

	// Paged switches the list endpoint to the {count, next_offset} shape.
	Paged bool `yaml:"paged,omitempty"`
}

// Assertion validates one aspect of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Text is the expected substring (output_contains).
	Text string `yaml:"text,omitempty"`

	// Request is "METHOD /path" (request_count).
	Request string `yaml:"request,omitempty"`

	// Count is the expected number of occurrences (request_count).
	Count int `yaml:"count,omitempty"`

	// Requests is the expected order (request_order).
	Requests []string `yaml:"requests,omitempty"`

	// OrderID selects the order (final_state).
	OrderID string `yaml:"order_id,omitempty"`

	// Expect holds expected order fields by JSON name (final_state).
	// Subset match: only listed fields are compared.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Absent asserts the order no longer exists (final_state).
	Absent bool `yaml:"absent,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertRequestOrder   = "request_order"
	AssertRequestCount   = "request_count"
	AssertFinalState     = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Script) == 0 {
		return fmt.Errorf("script list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Setup.Orders))
	for i, o := range s.Setup.Orders {
		if o.ID == "" {
			return fmt.Errorf("setup.orders[%d]: order_id is required", i)
		}
		if seen[o.ID] {
			return fmt.Errorf("setup.orders[%d]: duplicate order_id %q", i, o.ID)
		}
		seen[o.ID] = true
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	case AssertRequestOrder:
		if len(a.Requests) == 0 {
			return fmt.Errorf("assertions[%d]: requests list is required for request_order", index)
		}
	case AssertRequestCount:
		if a.Request == "" {
			return fmt.Errorf("assertions[%d]: request is required for request_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for request_count", index)
		}
	case AssertFinalState:
		if a.OrderID == "" {
			return fmt.Errorf("assertions[%d]: order_id is required for final_state", index)
		}
		if a.Absent == (len(a.Expect) > 0) {
			return fmt.Errorf("assertions[%d]: final_state needs exactly one of expect or absent", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
