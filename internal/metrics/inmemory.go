package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	GenerationsCreated        uint64
	GenerationsFailed         uint64
	InsufficientCredits       uint64
	CreditsSpent              uint64
	GenerationDurationCount   uint64
	GenerationDurationTotalNs int64
	AuthCacheHits             uint64
	AuthCacheMisses           uint64
	UsageEventsPublished      uint64
	UsageEventsDropped        uint64
	UsageEventsProcessed      uint64
	UsageEventsFailed         uint64
	UsageEventsSkipped        uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	generationsCreated        uint64
	generationsFailed         uint64
	insufficientCredits       uint64
	creditsSpent              uint64
	generationDurationCount   uint64
	generationDurationTotalNs int64
	authCacheHits             uint64
	authCacheMisses           uint64
	usageEventsPublished      uint64
	usageEventsDropped        uint64
	usageEventsProcessed      uint64
	usageEventsFailed         uint64
	usageEventsSkipped        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		GenerationsCreated:        atomic.LoadUint64(&m.generationsCreated),
		GenerationsFailed:         atomic.LoadUint64(&m.generationsFailed),
		InsufficientCredits:       atomic.LoadUint64(&m.insufficientCredits),
		CreditsSpent:              atomic.LoadUint64(&m.creditsSpent),
		GenerationDurationCount:   atomic.LoadUint64(&m.generationDurationCount),
		GenerationDurationTotalNs: atomic.LoadInt64(&m.generationDurationTotalNs),
		AuthCacheHits:             atomic.LoadUint64(&m.authCacheHits),
		AuthCacheMisses:           atomic.LoadUint64(&m.authCacheMisses),
		UsageEventsPublished:      atomic.LoadUint64(&m.usageEventsPublished),
		UsageEventsDropped:        atomic.LoadUint64(&m.usageEventsDropped),
		UsageEventsProcessed:      atomic.LoadUint64(&m.usageEventsProcessed),
		UsageEventsFailed:         atomic.LoadUint64(&m.usageEventsFailed),
		UsageEventsSkipped:        atomic.LoadUint64(&m.usageEventsSkipped),
	}
}

// IncGenerationCreated increments the completed generation counter.
func (m *InMemoryRecorder) IncGenerationCreated() {
	atomic.AddUint64(&m.generationsCreated, 1)
}

// IncGenerationFailed increments the failed generation counter.
func (m *InMemoryRecorder) IncGenerationFailed() {
	atomic.AddUint64(&m.generationsFailed, 1)
}

// IncInsufficientCredits increments the rejected-for-balance counter.
func (m *InMemoryRecorder) IncInsufficientCredits() {
	atomic.AddUint64(&m.insufficientCredits, 1)
}

// AddCreditsSpent adds to the total credits spent counter.
func (m *InMemoryRecorder) AddCreditsSpent(n int) {
	if n > 0 {
		atomic.AddUint64(&m.creditsSpent, uint64(n))
	}
}

// ObserveGenerationDuration records end-to-end generation duration.
func (m *InMemoryRecorder) ObserveGenerationDuration(duration time.Duration) {
	atomic.AddUint64(&m.generationDurationCount, 1)
	atomic.AddInt64(&m.generationDurationTotalNs, duration.Nanoseconds())
}

// IncAuthCacheHit increments the auth cache hit counter.
func (m *InMemoryRecorder) IncAuthCacheHit() {
	atomic.AddUint64(&m.authCacheHits, 1)
}

// IncAuthCacheMiss increments the auth cache miss counter.
func (m *InMemoryRecorder) IncAuthCacheMiss() {
	atomic.AddUint64(&m.authCacheMisses, 1)
}

// IncUsageEventPublished counts publish attempts by status.
func (m *InMemoryRecorder) IncUsageEventPublished(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.usageEventsPublished, 1)
	case "dropped":
		atomic.AddUint64(&m.usageEventsDropped, 1)
	}
}

// IncUsageEventProcessed counts consumed events by status.
func (m *InMemoryRecorder) IncUsageEventProcessed(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.usageEventsProcessed, 1)
	case "failed":
		atomic.AddUint64(&m.usageEventsFailed, 1)
	case "skipped":
		atomic.AddUint64(&m.usageEventsSkipped, 1)
	}
}

// ObserveUsageBatchSize is a no-op for the in-memory recorder.
func (m *InMemoryRecorder) ObserveUsageBatchSize(size int) {}

// ObserveUsageBatchDuration is a no-op for the in-memory recorder.
func (m *InMemoryRecorder) ObserveUsageBatchDuration(duration time.Duration) {}

// SetUsageQueueDepth is a no-op for the in-memory recorder.
func (m *InMemoryRecorder) SetUsageQueueDepth(depth int64) {}

// ObserveUsageIngestLag is a no-op for the in-memory recorder.
func (m *InMemoryRecorder) ObserveUsageIngestLag(lag time.Duration) {}
