package observability

import (
	"strconv"
	"sync"
	"time"
)

type routeStats struct {
	count    int64
	duration time.Duration
}

// Metrics keeps in-memory per-route counters for the wallet API. There is
// no exporter; the request logger is the read side.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*routeStats
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*routeStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest accumulates count and latency for a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := counterKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &routeStats{}
		m.requests[key] = stats
	}
	stats.count++
	stats.duration += duration
}

// RecordError increments the counter for a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[counterKey(path, method, code)]++
}

func counterKey(path, method, tail string) string {
	return path + "|" + method + "|" + tail
}
