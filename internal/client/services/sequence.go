package services

import (
	"errors"
	"sync"
)

// ErrStaleResponse is returned when a newer request for the same query was
// issued while this one was in flight. The response is discarded.
var ErrStaleResponse = errors.New("stale response discarded")

// sequencer stamps requests per logical query so that only the response to
// the latest issued request is applied.
type sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func newSequencer() *sequencer {
	return &sequencer{latest: make(map[string]uint64)}
}

func (s *sequencer) next(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[key]++
	return s.latest[key]
}

func (s *sequencer) isLatest(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == seq
}
