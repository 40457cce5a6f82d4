package valueobject

import "errors"

// EventType представляет тип события в журнале инцидентов (Value Object)
type EventType string

const (
	EventPodKilled         EventType = "Pod Killed"
	EventAutoRestart       EventType = "Auto-Restart"
	EventHighLatency       EventType = "High Latency"
	EventMemorySpike       EventType = "Memory Spike"
	EventNetworkError      EventType = "Network Error"
	EventHealthCheckFailed EventType = "Health Check Failed"
)

// Validate проверяет валидность типа события
func (t EventType) Validate() error {
	switch t {
	case EventPodKilled, EventAutoRestart, EventHighLatency,
		EventMemorySpike, EventNetworkError, EventHealthCheckFailed:
		return nil
	default:
		return errors.New("invalid event type")
	}
}

// String возвращает строковое представление типа события
func (t EventType) String() string {
	return string(t)
}

// AllEventTypes возвращает список всех допустимых типов событий
func AllEventTypes() []EventType {
	return []EventType{
		EventPodKilled,
		EventAutoRestart,
		EventHighLatency,
		EventMemorySpike,
		EventNetworkError,
		EventHealthCheckFailed,
	}
}
