package port

import (
	"context"
	"time"
)

// StateSample - точка телеметрии симулятора, снимаемая после каждого перехода
type StateSample struct {
	Timestamp         time.Time
	SystemStatus      string
	Transition        string
	ActivePods        int
	TotalPods         int
	AverageLatencyMs  float64
	SimulationRunning bool
	RecoverySeconds   int // > 0 только для завершенного восстановления
}

// MetricsPublisher defines the interface for publishing simulator metrics to external observability platforms.
type MetricsPublisher interface {
	// PublishBatch publishes multiple samples in a single operation.
	// Implementations should handle batching constraints (e.g., CloudWatch's 1000 metrics/request limit).
	PublishBatch(ctx context.Context, samples []StateSample) error

	// PublishSingle publishes a single sample immediately.
	PublishSingle(ctx context.Context, sample StateSample) error

	// Flush forces immediate publication of any buffered samples.
	// Should be called during graceful shutdown to prevent data loss.
	Flush(ctx context.Context) error
}
