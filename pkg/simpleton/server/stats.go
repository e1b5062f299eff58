package server

import (
	"sync/atomic"
	"time"
)

// Stats represents server statistics
type Stats struct {
	// Total number of connections accepted
	TotalConnections atomic.Uint64

	// Current number of active connections
	ActiveConnections atomic.Int64

	// Total number of requests dispatched through the handler chain
	TotalRequests atomic.Uint64

	// Total number of response body bytes written
	BytesWritten atomic.Uint64

	// Number of failed Accept calls
	AcceptErrors atomic.Uint64

	// Number of connections dropped before dispatch (read or parse failure)
	DroppedConnections atomic.Uint64

	// Number of handler panics recovered
	Panics atomic.Uint64

	// Server start time
	StartTime time.Time
}

// Duration returns the time since the server started
func (s *Stats) Duration() time.Duration {
	return time.Since(s.StartTime)
}

// RequestsPerSecond returns the average requests per second
func (s *Stats) RequestsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.TotalRequests.Load()) / duration
}
