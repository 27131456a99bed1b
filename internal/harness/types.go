package harness

// TraceEvent is one request the console sent to the service.
type TraceEvent struct {
	Seq    int    `json:"seq"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Body   string `json:"body,omitempty"`
	Admin  bool   `json:"admin,omitempty"` // admin password header present
}

// Request renders the event as "METHOD /path", the form assertions use.
func (e TraceEvent) Request() string {
	return e.Method + " " + e.Path
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Output is the full shell transcript.
	Output string `json:"output"`

	// Trace holds every request in the order the service received them.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failed assertion messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
