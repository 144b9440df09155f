package logging

import (
	"sync"
	"time"
)

// LogEntry is one record kept for GET /api/logs.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer keeps the most recent log entries. Safe for concurrent use.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	written uint64
}

// NewRingBuffer creates a buffer holding at most size entries.
func NewRingBuffer(size int) *RingBuffer {
	if size < 1 {
		size = 1
	}
	return &RingBuffer{entries: make([]LogEntry, size)}
}

// Write stores entry, dropping the oldest one when full.
func (rb *RingBuffer) Write(entry LogEntry) {
	rb.mu.Lock()
	rb.entries[rb.written%uint64(len(rb.entries))] = entry
	rb.written++
	rb.mu.Unlock()
}

// ReadAll returns every stored entry, oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	return rb.Tail(0)
}

// Tail returns up to n of the newest entries, oldest first. n <= 0
// returns everything stored.
func (rb *RingBuffer) Tail(n int) []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	stored := rb.count()
	if n <= 0 || n > stored {
		n = stored
	}
	if n == 0 {
		return nil
	}

	size := uint64(len(rb.entries))
	result := make([]LogEntry, n)
	start := rb.written - uint64(n)
	for i := range result {
		result[i] = rb.entries[(start+uint64(i))%size]
	}
	return result
}

// Count returns the number of stored entries.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count()
}

func (rb *RingBuffer) count() int {
	if rb.written < uint64(len(rb.entries)) {
		return int(rb.written)
	}
	return len(rb.entries)
}
