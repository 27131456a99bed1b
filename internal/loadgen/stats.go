package loadgen

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"text/tabwriter"
	"time"
)

// Request names, as shown in the report.
const (
	NameBrowseAll    = "GET /orders (all)"
	NamePlaceOrder   = "POST /orders"
	NameCheckOrder   = "GET /orders/[id]"
	NameProcessOrder = "PATCH /orders/[id]/status"
	NameDeleteOrder  = "DELETE /orders/[id]"
	NameListPage     = "GET /orders"
	NameOrderDetail  = "GET /orders/:id"
)

// Stats collects latencies per request name. Safe for concurrent use.
type Stats struct {
	mu     sync.Mutex
	series map[string]*series
}

type series struct {
	latencies []time.Duration
	failures  int
}

// NewStats returns an empty collector.
func NewStats() *Stats {
	return &Stats{series: make(map[string]*series)}
}

// Record adds one request outcome.
func (s *Stats) Record(name string, latency time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sr, ok := s.series[name]
	if !ok {
		sr = &series{}
		s.series[name] = sr
	}
	sr.latencies = append(sr.latencies, latency)
	if failed {
		sr.failures++
	}
}

// RequestStats summarises one request name.
type RequestStats struct {
	Name     string        `json:"name" yaml:"name"`
	Requests int           `json:"requests" yaml:"requests"`
	Failures int           `json:"failures" yaml:"failures"`
	Min      time.Duration `json:"min" yaml:"min"`
	Avg      time.Duration `json:"avg" yaml:"avg"`
	Max      time.Duration `json:"max" yaml:"max"`
	P50      time.Duration `json:"p50" yaml:"p50"`
	P95      time.Duration `json:"p95" yaml:"p95"`
}

// Report is the outcome of a run.
type Report struct {
	Elapsed  time.Duration  `json:"elapsed" yaml:"elapsed"`
	Requests []RequestStats `json:"requests" yaml:"requests"`
	Total    RequestStats   `json:"total" yaml:"total"`
}

// Snapshot summarises everything recorded so far, sorted by name.
func (s *Stats) Snapshot() []RequestStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RequestStats, 0, len(s.series))
	for name, sr := range s.series {
		out = append(out, summarise(name, sr.latencies, sr.failures))
	}
	slices.SortFunc(out, func(a, b RequestStats) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// total aggregates every series into one row named "Aggregated".
func (s *Stats) total() RequestStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []time.Duration
	failures := 0
	for _, sr := range s.series {
		all = append(all, sr.latencies...)
		failures += sr.failures
	}
	return summarise("Aggregated", all, failures)
}

func summarise(name string, latencies []time.Duration, failures int) RequestStats {
	rs := RequestStats{Name: name, Requests: len(latencies), Failures: failures}
	if len(latencies) == 0 {
		return rs
	}
	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	rs.Min = sorted[0]
	rs.Max = sorted[len(sorted)-1]
	rs.Avg = sum / time.Duration(len(sorted))
	rs.P50 = percentile(sorted, 0.50)
	rs.P95 = percentile(sorted, 0.95)
	return rs
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// WriteText renders the report as an aligned table.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREQS\tFAILS\tMIN\tAVG\tMAX\tP50\tP95")
	for _, rs := range append(slices.Clone(r.Requests), r.Total) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			rs.Name, rs.Requests, rs.Failures,
			ms(rs.Min), ms(rs.Avg), ms(rs.Max), ms(rs.P50), ms(rs.P95))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "elapsed %s\n", r.Elapsed.Round(time.Millisecond))
	return err
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}
