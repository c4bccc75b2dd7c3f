package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// GetAverageLatency returns the mean latency recorded for an operation,
// or zero if the operation has never been recorded.
func (mc *MetricsCollector) GetAverageLatency(operationName string) time.Duration {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	times, exists := mc.operationTimes[operationName]
	if !exists || len(times) == 0 {
		return 0
	}

	var total int64
	for _, t := range times {
		total += t
	}
	return time.Duration(total / int64(len(times)))
}

// Uptime returns how long the collector (and so the process) has been alive.
func (mc *MetricsCollector) Uptime() time.Duration {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return time.Since(mc.systemStartTime)
}

// Counts returns the total request and error counts.
func (mc *MetricsCollector) Counts() (requests uint64, errors uint64) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.requestCount, mc.errorCount
}
