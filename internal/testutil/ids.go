package testutil

import (
	"strconv"
	"sync/atomic"
)

// IDSequence hands out prefix-1, prefix-2, ... so tests can predict the ids
// a fake service assigns.
//
// Thread-safety: safe for concurrent use.
type IDSequence struct {
	prefix string
	n      atomic.Int64
}

// NewIDSequence creates a sequence. An empty prefix yields "id-1", "id-2", ...
func NewIDSequence(prefix string) *IDSequence {
	if prefix == "" {
		prefix = "id"
	}
	return &IDSequence{prefix: prefix}
}

// Next returns the next id.
func (s *IDSequence) Next() string {
	return s.prefix + "-" + strconv.FormatInt(s.n.Add(1), 10)
}

// Reset restarts the sequence at 1.
func (s *IDSequence) Reset() {
	s.n.Store(0)
}
