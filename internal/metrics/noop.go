package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncGenerationCreated is a no-op.
func (n *NoopRecorder) IncGenerationCreated() {}

// IncGenerationFailed is a no-op.
func (n *NoopRecorder) IncGenerationFailed() {}

// IncInsufficientCredits is a no-op.
func (n *NoopRecorder) IncInsufficientCredits() {}

// AddCreditsSpent is a no-op.
func (n *NoopRecorder) AddCreditsSpent(count int) {}

// ObserveGenerationDuration is a no-op.
func (n *NoopRecorder) ObserveGenerationDuration(duration time.Duration) {}

// IncAuthCacheHit is a no-op.
func (n *NoopRecorder) IncAuthCacheHit() {}

// IncAuthCacheMiss is a no-op.
func (n *NoopRecorder) IncAuthCacheMiss() {}

// IncUsageEventPublished is a no-op.
func (n *NoopRecorder) IncUsageEventPublished(status string) {}

// IncUsageEventProcessed is a no-op.
func (n *NoopRecorder) IncUsageEventProcessed(status string) {}

// ObserveUsageBatchSize is a no-op.
func (n *NoopRecorder) ObserveUsageBatchSize(size int) {}

// ObserveUsageBatchDuration is a no-op.
func (n *NoopRecorder) ObserveUsageBatchDuration(duration time.Duration) {}

// SetUsageQueueDepth is a no-op.
func (n *NoopRecorder) SetUsageQueueDepth(depth int64) {}

// ObserveUsageIngestLag is a no-op.
func (n *NoopRecorder) ObserveUsageIngestLag(lag time.Duration) {}
