package service

import (
	"math"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
)

const (
	// LatencySpike - прирост задержки при падении pod'а, мс
	LatencySpike = 50.0
	// LatencyRecoveryDrop - снижение задержки после восстановления, мс
	LatencyRecoveryDrop = 40.0
	// LatencyJitter - амплитуда фонового шума задержки, мс
	LatencyJitter = 5.0
	// FallbackRecoverySeconds используется, если время старта симуляции неизвестно
	FallbackRecoverySeconds = 15
)

// RandomSource - источник случайных чисел (*rand.Rand удовлетворяет интерфейсу)
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// IncidentReducer реализует переходы машины состояний инцидента (Domain Service)
// Каждый метод чистый: принимает состояние и возвращает новое.
// Второй результат false означает недопустимый переход (no-op), состояние не меняется.
type IncidentReducer struct {
	maxEvents int
}

// NewIncidentReducer создает reducer. maxEvents <= 0 - журнал без ограничения
func NewIncidentReducer(maxEvents int) *IncidentReducer {
	return &IncidentReducer{maxEvents: maxEvents}
}

// TriggerSimulation "роняет" случайный работающий pod: healthy -> crash-detected
func (r *IncidentReducer) TriggerSimulation(
	state entity.DashboardState,
	rnd RandomSource,
	now time.Time,
) (entity.DashboardState, bool) {
	if state.SimulationRunning || !state.IsHealthy() {
		return state, false
	}

	running := state.RunningPods()
	if len(running) == 0 {
		return state, false
	}

	target := running[rnd.Intn(len(running))]

	crashEvent, err := entity.NewEvent(
		valueobject.EventPodKilled,
		target.Name(),
		0, // заполняется при завершении восстановления
		valueobject.SeverityHigh,
		now,
	)
	if err != nil {
		return state, false
	}

	next := state.Clone()
	for i, pod := range next.Pods {
		if pod.ID() == target.ID() {
			next.Pods[i] = pod.WithStatus(valueobject.PodCrashed)
		}
	}

	next.SystemStatus = valueobject.StatusCrashDetected
	next.ActivePods = next.CountRunning()
	next.AverageLatency = state.AverageLatency.Add(LatencySpike)
	next.PredictionStatus = valueobject.PredictionWarning
	next.SimulationRunning = true
	next.LastSimulationTime = now
	next.Events = r.prepend(crashEvent, state.Events)
	next.EventLogVersion++

	return next, true
}

// StartRecovery переводит упавшие pod'ы в restarting: crash-detected -> recovering
func (r *IncidentReducer) StartRecovery(state entity.DashboardState) (entity.DashboardState, bool) {
	if len(state.PodsWithStatus(valueobject.PodCrashed)) == 0 {
		return state, false
	}

	next := state.Clone()
	for i, pod := range next.Pods {
		if pod.Status() == valueobject.PodCrashed {
			next.Pods[i] = pod.WithStatus(valueobject.PodRestarting)
		}
	}
	next.SystemStatus = valueobject.StatusRecovering

	return next, true
}

// CompleteRecovery возвращает pod'ы в running: recovering -> healthy
func (r *IncidentReducer) CompleteRecovery(
	state entity.DashboardState,
	now time.Time,
) (entity.DashboardState, bool) {
	restarting := state.PodsWithStatus(valueobject.PodRestarting)
	if len(restarting) == 0 {
		return state, false
	}

	recoverySeconds := RecoverySeconds(state, now)

	recoveryEvent, err := entity.NewEvent(
		valueobject.EventAutoRestart,
		restarting[0].Name(),
		recoverySeconds,
		valueobject.SeverityMedium,
		now,
	)
	if err != nil {
		return state, false
	}

	next := state.Clone()
	for i, pod := range next.Pods {
		if pod.Status() == valueobject.PodRestarting {
			next.Pods[i] = pod.WithStatus(valueobject.PodRunning)
		}
	}

	// Back-fill только самой новой записи "Pod Killed" с placeholder длительностью
	for i, event := range next.Events {
		if event.IsPendingCrash() {
			next.Events[i] = event.WithRecoveryDuration(recoverySeconds)
			break
		}
	}

	next.SystemStatus = valueobject.StatusHealthy
	next.ActivePods = next.CountRunning()
	next.AverageLatency = state.AverageLatency.Add(-LatencyRecoveryDrop).Floor(valueobject.MinLatency)
	next.PredictionStatus = valueobject.PredictionStable
	next.SimulationRunning = false
	next.Events = r.prepend(recoveryEvent, next.Events)
	next.EventLogVersion++

	return next, true
}

// UpdateLatency смещает задержку на delta с ограничением [30, 100].
// Пока идет симуляция, фоновые изменения игнорируются.
func (r *IncidentReducer) UpdateLatency(state entity.DashboardState, delta float64) (entity.DashboardState, bool) {
	if state.SimulationRunning {
		return state, false
	}

	next := state.Clone()
	next.AverageLatency = state.AverageLatency.Add(delta).Clamp(valueobject.MinLatency, valueobject.MaxLatency)

	return next, true
}

// LatencyDelta возвращает равномерно распределенное смещение в [-5, +5]
func LatencyDelta(rnd RandomSource) float64 {
	return (rnd.Float64() - 0.5) * 2 * LatencyJitter
}

// RecoverySeconds вычисляет длительность восстановления с момента старта симуляции
func RecoverySeconds(state entity.DashboardState, now time.Time) int {
	if !state.HasLastSimulation() {
		return FallbackRecoverySeconds
	}

	elapsed := math.Round(now.Sub(state.LastSimulationTime).Seconds())
	if elapsed < 0 {
		return 0
	}
	return int(elapsed)
}

// prepend добавляет запись в начало журнала, отбрасывая самые старые сверх лимита
func (r *IncidentReducer) prepend(event entity.Event, events []entity.Event) []entity.Event {
	size := len(events) + 1
	if r.maxEvents > 0 && size > r.maxEvents {
		size = r.maxEvents
	}

	result := make([]entity.Event, 0, size)
	result = append(result, event)
	for _, e := range events {
		if len(result) == size {
			break
		}
		result = append(result, e)
	}
	return result
}
