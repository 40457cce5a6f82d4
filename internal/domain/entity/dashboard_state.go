package entity

import (
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
)

// DashboardState - агрегат состояния дашборда (Aggregate Root)
// Состояние заменяется целиком на каждом переходе; срезы не изменяются на месте
type DashboardState struct {
	SystemStatus       valueobject.SystemStatus
	Pods               []Pod
	ActivePods         int
	TotalPods          int
	AverageLatency     valueobject.Latency
	PredictionStatus   valueobject.PredictionStatus
	Events             []Event // новые записи первыми
	SimulationRunning  bool
	LastSimulationTime time.Time // zero - симуляций еще не было
	EventLogVersion    uint64
}

// Clone возвращает глубокую копию состояния
func (s DashboardState) Clone() DashboardState {
	clone := s
	clone.Pods = append([]Pod(nil), s.Pods...)
	clone.Events = append([]Event(nil), s.Events...)
	return clone
}

// RunningPods возвращает pod'ы в статусе running
func (s DashboardState) RunningPods() []Pod {
	return s.PodsWithStatus(valueobject.PodRunning)
}

// PodsWithStatus возвращает pod'ы с указанным статусом (в исходном порядке)
func (s DashboardState) PodsWithStatus(status valueobject.PodStatus) []Pod {
	var result []Pod
	for _, pod := range s.Pods {
		if pod.Status() == status {
			result = append(result, pod)
		}
	}
	return result
}

// CountRunning возвращает количество работающих pod'ов
func (s DashboardState) CountRunning() int {
	return len(s.RunningPods())
}

// HasLastSimulation проверяет, запускалась ли симуляция
func (s DashboardState) HasLastSimulation() bool {
	return !s.LastSimulationTime.IsZero()
}

// IsHealthy проверяет, что система в штатном состоянии
func (s DashboardState) IsHealthy() bool {
	return s.SystemStatus == valueobject.StatusHealthy
}
