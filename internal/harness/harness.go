package harness

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/roach88/ordersctl/internal/apitest"
	"github.com/roach88/ordersctl/internal/cli"
	"github.com/roach88/ordersctl/internal/testutil"
)

// Run executes a scenario: it starts a fresh fake service, applies the
// setup, feeds the script to `ordersctl shell` and evaluates assertions.
//
// An error means the session itself could not run; failed assertions are
// reported in Result.Errors.
func Run(t testing.TB, scenario *Scenario) (*Result, error) {
	t.Helper()

	srv := apitest.NewServer(t)
	srv.SetNextID(testutil.NewIDSequence("order").Next)
	if scenario.Setup.Password != "" {
		srv.SetPassword(scenario.Setup.Password)
	}
	srv.SetPaged(scenario.Setup.Paged)
	for _, o := range scenario.Setup.Orders {
		srv.Put(o)
	}

	env := scenario.Env
	opts := &cli.RootOptions{Getenv: func(key string) string { return env[key] }}
	cmd := cli.NewRootCommandWithOptions(opts)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(strings.Join(scenario.Script, "\n") + "\n"))
	cmd.SetArgs([]string{"--api-url", srv.URL, "shell"})

	if err := cmd.Execute(); err != nil {
		return nil, fmt.Errorf("shell session failed: %w", err)
	}

	result := NewResult()
	result.Output = out.String()
	for i, rec := range srv.Requests() {
		result.Trace = append(result.Trace, TraceEvent{
			Seq:    i + 1,
			Method: rec.Method,
			Path:   rec.Path,
			Body:   string(rec.Body),
			Admin:  rec.Password != "",
		})
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, srv) {
		result.AddError(errMsg)
	}

	return result, nil
}
