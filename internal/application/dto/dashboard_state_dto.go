package dto

import (
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
)

// PodDTO представляет pod для отображения в сетке
type PodDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// DashboardStateDTO представляет snapshot состояния дашборда
// Используется для JSON API и рассылки через WebSocket
type DashboardStateDTO struct {
	Timestamp          time.Time  `json:"timestamp"`
	SystemStatus       string     `json:"system_status"`
	StatusLabel        string     `json:"status_label"`
	Pods               []PodDTO   `json:"pods"`
	ActivePods         int        `json:"active_pods"`
	TotalPods          int        `json:"total_pods"`
	AverageLatencyMs   float64    `json:"average_latency_ms"`
	LatencyRounded     int        `json:"latency_rounded"`
	LatencyLevel       string     `json:"latency_level"`
	PredictionStatus   string     `json:"prediction_status"`
	PredictionLabel    string     `json:"prediction_label"`
	PredictionBadge    string     `json:"prediction_badge"`
	SimulationRunning  bool       `json:"simulation_running"`
	LastSimulationTime *time.Time `json:"last_simulation_time,omitempty"`
	EventLogVersion    uint64     `json:"event_log_version"`
	Events             []EventDTO `json:"events,omitempty"`
}

// NewDashboardStateDTO создает snapshot из агрегата состояния
func NewDashboardStateDTO(state entity.DashboardState, at time.Time, withEvents bool) *DashboardStateDTO {
	pods := make([]PodDTO, len(state.Pods))
	for i, pod := range state.Pods {
		pods[i] = PodDTO{
			ID:     pod.ID(),
			Name:   pod.Name(),
			Status: pod.Status().String(),
		}
	}

	snapshot := &DashboardStateDTO{
		Timestamp:         at,
		SystemStatus:      state.SystemStatus.String(),
		StatusLabel:       state.SystemStatus.Label(),
		Pods:              pods,
		ActivePods:        state.ActivePods,
		TotalPods:         state.TotalPods,
		AverageLatencyMs:  state.AverageLatency.Ms(),
		LatencyRounded:    state.AverageLatency.Rounded(),
		LatencyLevel:      string(state.AverageLatency.Level()),
		PredictionStatus:  state.PredictionStatus.String(),
		PredictionLabel:   state.PredictionStatus.Label(),
		PredictionBadge:   state.PredictionStatus.Badge(),
		SimulationRunning: state.SimulationRunning,
		EventLogVersion:   state.EventLogVersion,
	}

	if state.HasLastSimulation() {
		last := state.LastSimulationTime
		snapshot.LastSimulationTime = &last
	}

	if withEvents {
		snapshot.Events = ToEventDTOs(state.Events)
	}

	return snapshot
}

// IncidentDTO представляет шаг жизненного цикла инцидента для клиентов и брокера
type IncidentDTO struct {
	Timestamp       time.Time `json:"timestamp"`
	Stage           string    `json:"stage"` // "triggered", "recovering", "recovered"
	SystemStatus    string    `json:"system_status"`
	TargetPod       string    `json:"target_pod,omitempty"`
	RecoverySeconds int       `json:"recovery_seconds,omitempty"`
	ActivePods      int       `json:"active_pods"`
	Message         string    `json:"message"`
}

// TriggerResultDTO - ответ на запрос запуска симуляции
type TriggerResultDTO struct {
	Triggered bool               `json:"triggered"`
	State     *DashboardStateDTO `json:"state"`
}
