package service

import (
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
)

// TotalPods - фиксированный размер ростера
const TotalPods = 3

// InitialLatency - стартовая средняя задержка, мс
const InitialLatency valueobject.Latency = 45

// InitialState возвращает стартовое состояние дашборда: три работающих pod'а
// и seed-журнал из шести исторических событий относительно now
func InitialState(now time.Time) entity.DashboardState {
	pods := make([]entity.Pod, 0, TotalPods)
	for _, p := range []struct{ id, name string }{
		{"1", "pod-1"},
		{"2", "pod-2"},
		{"3", "pod-3"},
	} {
		pod, _ := entity.NewPod(p.id, p.name, valueobject.PodRunning)
		pods = append(pods, pod)
	}

	return entity.DashboardState{
		SystemStatus:     valueobject.StatusHealthy,
		Pods:             pods,
		ActivePods:       TotalPods,
		TotalPods:        TotalPods,
		AverageLatency:   InitialLatency,
		PredictionStatus: valueobject.PredictionStable,
		Events:           SeedEvents(now),
		EventLogVersion:  1,
	}
}

// SeedEvents возвращает демонстрационный журнал (новые записи первыми)
func SeedEvents(now time.Time) []entity.Event {
	return []entity.Event{
		entity.ReconstructEvent("1", now.Add(-5*time.Minute),
			valueobject.EventPodKilled, "microservice-pod-1", 12, valueobject.SeverityHigh),
		entity.ReconstructEvent("2", now.Add(-5*time.Minute+15*time.Second),
			valueobject.EventAutoRestart, "microservice-pod-1", 8, valueobject.SeverityMedium),
		entity.ReconstructEvent("3", now.Add(-15*time.Minute),
			valueobject.EventHighLatency, "microservice-pod-2", 45, valueobject.SeverityMedium),
		entity.ReconstructEvent("4", now.Add(-30*time.Minute),
			valueobject.EventMemorySpike, "microservice-pod-3", 23, valueobject.SeverityHigh),
		entity.ReconstructEvent("5", now.Add(-45*time.Minute),
			valueobject.EventNetworkError, "microservice-pod-1", 67, valueobject.SeverityCritical),
		entity.ReconstructEvent("6", now.Add(-60*time.Minute),
			valueobject.EventHealthCheckFailed, "microservice-pod-2", 34, valueobject.SeverityMedium),
	}
}
