package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: valid
description: "A valid scenario"
env:
  ORDERS_ADMIN_PASSWORD: secret
setup:
  orders:
    - order_id: a1
      customer_name: Anna
      status: ready
      items: [{ name: Coke, quantity: 1 }]
script:
  - fetch a1
assertions:
  - type: final_state
    order_id: a1
    expect: { status: ready }
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "valid", s.Name)
	assert.Equal(t, "secret", s.Env["ORDERS_ADMIN_PASSWORD"])
	require.Len(t, s.Setup.Orders, 1)
	assert.Equal(t, "a1", s.Setup.Orders[0].ID)
	assert.Equal(t, 1, s.Setup.Orders[0].Items[0].Quantity)
	assert.Equal(t, []string{"fetch a1"}, s.Script)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled key"
script: [list]
assertion:
  - type: output_contains
    text: x
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestValidateScenario(t *testing.T) {
	base := func() Scenario {
		return Scenario{
			Name:        "s",
			Description: "d",
			Script:      []string{"list"},
			Assertions:  []Assertion{{Type: AssertOutputContains, Text: "Total"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(s *Scenario)
		want   string
	}{
		{"ok", func(s *Scenario) {}, ""},
		{"no_name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"no_description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no_script", func(s *Scenario) { s.Script = nil }, "script list is required"},
		{"no_assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"missing_type", func(s *Scenario) { s.Assertions[0].Type = "" }, "type is required"},
		{"unknown_type", func(s *Scenario) { s.Assertions[0].Type = "trace_contains" }, "unknown assertion type"},
		{"output_no_text", func(s *Scenario) { s.Assertions[0].Text = "" }, "text is required"},
		{
			"order_no_requests",
			func(s *Scenario) { s.Assertions[0] = Assertion{Type: AssertRequestOrder} },
			"requests list is required",
		},
		{
			"count_no_request",
			func(s *Scenario) { s.Assertions[0] = Assertion{Type: AssertRequestCount, Count: 1} },
			"request is required",
		},
		{
			"count_negative",
			func(s *Scenario) {
				s.Assertions[0] = Assertion{Type: AssertRequestCount, Request: "GET /orders", Count: -1}
			},
			"count must be non-negative",
		},
		{
			"state_no_id",
			func(s *Scenario) { s.Assertions[0] = Assertion{Type: AssertFinalState, Absent: true} },
			"order_id is required",
		},
		{
			"state_both",
			func(s *Scenario) {
				s.Assertions[0] = Assertion{Type: AssertFinalState, OrderID: "a", Absent: true, Expect: map[string]interface{}{"status": "ready"}}
			},
			"exactly one of expect or absent",
		},
		{
			"state_neither",
			func(s *Scenario) { s.Assertions[0] = Assertion{Type: AssertFinalState, OrderID: "a"} },
			"exactly one of expect or absent",
		},
		{
			"duplicate_order",
			func(s *Scenario) {
				s.Setup.Orders = append(s.Setup.Orders, orderWithID("a"), orderWithID("a"))
			},
			"duplicate order_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			err := validateScenario(&s)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
