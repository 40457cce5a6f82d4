package service

import (
	"testing"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
)

type fixedRandom struct {
	index int
	value float64
}

func (r fixedRandom) Intn(n int) int {
	if r.index >= n {
		return n - 1
	}
	return r.index
}

func (r fixedRandom) Float64() float64 {
	return r.value
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestInitialState(t *testing.T) {
	state := InitialState(t0)

	if state.SystemStatus != valueobject.StatusHealthy {
		t.Fatalf("expected healthy, got %s", state.SystemStatus)
	}
	if state.ActivePods != 3 || state.TotalPods != 3 || state.CountRunning() != 3 {
		t.Fatalf("expected 3/3 running pods, got active=%d total=%d", state.ActivePods, state.TotalPods)
	}
	if state.AverageLatency != 45 {
		t.Fatalf("expected latency 45, got %v", state.AverageLatency)
	}
	if len(state.Events) != 6 {
		t.Fatalf("expected 6 seed events, got %d", len(state.Events))
	}
	if state.HasLastSimulation() || state.SimulationRunning {
		t.Fatal("fresh state must not have simulation history")
	}

	// Seed в порядке журнала: запись 2 (Auto-Restart) на 15s новее записи 1
	ages := []time.Duration{
		5 * time.Minute,
		5*time.Minute - 15*time.Second,
		15 * time.Minute,
		30 * time.Minute,
		45 * time.Minute,
		60 * time.Minute,
	}
	for i, age := range ages {
		event := state.Events[i]
		if got := t0.Sub(event.Timestamp()); got != age {
			t.Fatalf("seed event %s: expected age %v, got %v", event.ID(), age, got)
		}
	}
	if state.Events[0].Type() != valueobject.EventPodKilled || state.Events[1].Type() != valueobject.EventAutoRestart {
		t.Fatalf("unexpected head of seed log: %s, %s", state.Events[0].Type(), state.Events[1].Type())
	}
}

func TestTriggerSimulation(t *testing.T) {
	reducer := NewIncidentReducer(0)
	state := InitialState(t0)
	now := t0.Add(time.Minute)

	next, applied := reducer.TriggerSimulation(state, fixedRandom{index: 1}, now)
	if !applied {
		t.Fatal("expected trigger to apply")
	}

	if next.SystemStatus != valueobject.StatusCrashDetected {
		t.Fatalf("expected crash-detected, got %s", next.SystemStatus)
	}
	if next.Pods[1].Status() != valueobject.PodCrashed {
		t.Fatalf("expected pod-2 crashed, got %s", next.Pods[1].Status())
	}
	if next.ActivePods != 2 {
		t.Fatalf("expected 2 active pods, got %d", next.ActivePods)
	}
	if next.AverageLatency != 95 {
		t.Fatalf("expected latency 95, got %v", next.AverageLatency)
	}
	if next.PredictionStatus != valueobject.PredictionWarning {
		t.Fatalf("expected warning prediction, got %s", next.PredictionStatus)
	}
	if !next.SimulationRunning || !next.LastSimulationTime.Equal(now) {
		t.Fatal("expected running simulation stamped with trigger time")
	}
	if len(next.Events) != 7 {
		t.Fatalf("expected 7 events, got %d", len(next.Events))
	}
	head := next.Events[0]
	if head.Type() != valueobject.EventPodKilled || head.TargetPod() != "pod-2" ||
		head.RecoveryDuration() != 0 || head.Severity() != valueobject.SeverityHigh {
		t.Fatalf("unexpected crash event: %+v", head)
	}
	if next.EventLogVersion != state.EventLogVersion+1 {
		t.Fatalf("expected version bump, got %d", next.EventLogVersion)
	}

	// исходное состояние не изменилось
	if state.Pods[1].Status() != valueobject.PodRunning || len(state.Events) != 6 {
		t.Fatal("trigger must not mutate the input state")
	}
}

func TestTriggerSimulationIgnored(t *testing.T) {
	reducer := NewIncidentReducer(0)
	crashed, _ := reducer.TriggerSimulation(InitialState(t0), fixedRandom{}, t0)

	tests := []struct {
		name  string
		state entity.DashboardState
	}{
		{name: "simulation running", state: crashed},
		{name: "recovering", state: func() entity.DashboardState {
			s, _ := reducer.StartRecovery(crashed)
			s.SimulationRunning = false
			return s
		}()},
		{name: "no running pods", state: func() entity.DashboardState {
			s := InitialState(t0)
			for i, pod := range s.Pods {
				s.Pods[i] = pod.WithStatus(valueobject.PodCrashed)
			}
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, applied := reducer.TriggerSimulation(tt.state, fixedRandom{}, t0)
			if applied {
				t.Fatal("expected trigger to be ignored")
			}
			if len(next.Events) != len(tt.state.Events) || next.SystemStatus != tt.state.SystemStatus {
				t.Fatal("ignored trigger must return state unchanged")
			}
		})
	}
}

func TestFullIncidentLifecycle(t *testing.T) {
	reducer := NewIncidentReducer(0)
	state := InitialState(t0)

	crashed, _ := reducer.TriggerSimulation(state, fixedRandom{index: 0}, t0)

	recovering, applied := reducer.StartRecovery(crashed)
	if !applied {
		t.Fatal("expected StartRecovery to apply")
	}
	if recovering.SystemStatus != valueobject.StatusRecovering {
		t.Fatalf("expected recovering, got %s", recovering.SystemStatus)
	}
	if recovering.Pods[0].Status() != valueobject.PodRestarting {
		t.Fatalf("expected pod-1 restarting, got %s", recovering.Pods[0].Status())
	}
	if recovering.ActivePods != 2 {
		t.Fatalf("active pods must stay 2 while restarting, got %d", recovering.ActivePods)
	}

	healthy, applied := reducer.CompleteRecovery(recovering, t0.Add(4*time.Second))
	if !applied {
		t.Fatal("expected CompleteRecovery to apply")
	}
	if healthy.SystemStatus != valueobject.StatusHealthy || healthy.ActivePods != 3 {
		t.Fatalf("expected healthy with 3 pods, got %s/%d", healthy.SystemStatus, healthy.ActivePods)
	}
	if healthy.SimulationRunning {
		t.Fatal("simulation flag must be cleared")
	}
	if healthy.PredictionStatus != valueobject.PredictionStable {
		t.Fatalf("expected stable prediction, got %s", healthy.PredictionStatus)
	}
	if healthy.AverageLatency != 55 {
		t.Fatalf("expected latency 45+50-40=55, got %v", healthy.AverageLatency)
	}
	if len(healthy.Events) != 8 {
		t.Fatalf("expected 8 events, got %d", len(healthy.Events))
	}

	restart := healthy.Events[0]
	if restart.Type() != valueobject.EventAutoRestart || restart.TargetPod() != "pod-1" ||
		restart.RecoveryDuration() != 4 || restart.Severity() != valueobject.SeverityMedium {
		t.Fatalf("unexpected recovery event: type=%s target=%s duration=%d",
			restart.Type(), restart.TargetPod(), restart.RecoveryDuration())
	}
	if healthy.Events[1].Type() != valueobject.EventPodKilled || healthy.Events[1].RecoveryDuration() != 4 {
		t.Fatalf("expected back-filled crash event, got duration %d", healthy.Events[1].RecoveryDuration())
	}
	if healthy.EventLogVersion != state.EventLogVersion+2 {
		t.Fatalf("expected two version bumps, got %d", healthy.EventLogVersion)
	}
}

func TestCompleteRecoveryPatchesOnlyNewestPendingCrash(t *testing.T) {
	reducer := NewIncidentReducer(0)
	pod, _ := entity.NewPod("1", "pod-1", valueobject.PodRestarting)
	state := entity.DashboardState{
		SystemStatus:       valueobject.StatusRecovering,
		Pods:               []entity.Pod{pod},
		TotalPods:          1,
		AverageLatency:     60,
		SimulationRunning:  true,
		LastSimulationTime: t0,
		Events: []entity.Event{
			entity.ReconstructEvent("new", t0, valueobject.EventPodKilled, "pod-1", 0, valueobject.SeverityHigh),
			entity.ReconstructEvent("old", t0.Add(-time.Hour), valueobject.EventPodKilled, "pod-1", 0, valueobject.SeverityHigh),
		},
	}

	next, _ := reducer.CompleteRecovery(state, t0.Add(3*time.Second))

	if next.Events[1].ID() != "new" || next.Events[1].RecoveryDuration() != 3 {
		t.Fatalf("expected newest crash patched to 3s, got %s=%d", next.Events[1].ID(), next.Events[1].RecoveryDuration())
	}
	if next.Events[2].RecoveryDuration() != 0 {
		t.Fatal("older pending crash must stay untouched")
	}
}

func TestCompleteRecoveryFallbackAndFloor(t *testing.T) {
	reducer := NewIncidentReducer(0)
	pod, _ := entity.NewPod("1", "pod-1", valueobject.PodRestarting)
	state := entity.DashboardState{
		SystemStatus:   valueobject.StatusRecovering,
		Pods:           []entity.Pod{pod},
		TotalPods:      1,
		AverageLatency: 50,
	}

	next, applied := reducer.CompleteRecovery(state, t0)
	if !applied {
		t.Fatal("expected CompleteRecovery to apply")
	}
	if next.Events[0].RecoveryDuration() != FallbackRecoverySeconds {
		t.Fatalf("expected fallback duration %d, got %d", FallbackRecoverySeconds, next.Events[0].RecoveryDuration())
	}
	if next.AverageLatency != 30 {
		t.Fatalf("expected latency floored at 30, got %v", next.AverageLatency)
	}
}

func TestRecoveryStepsIgnoredWithoutMatchingPods(t *testing.T) {
	reducer := NewIncidentReducer(0)
	state := InitialState(t0)

	if _, applied := reducer.StartRecovery(state); applied {
		t.Fatal("StartRecovery must be a no-op without crashed pods")
	}
	if _, applied := reducer.CompleteRecovery(state, t0); applied {
		t.Fatal("CompleteRecovery must be a no-op without restarting pods")
	}
}

func TestUpdateLatency(t *testing.T) {
	reducer := NewIncidentReducer(0)
	state := InitialState(t0)

	tests := []struct {
		name    string
		latency valueobject.Latency
		delta   float64
		want    valueobject.Latency
	}{
		{name: "within bounds", latency: 45, delta: 3, want: 48},
		{name: "clamped high", latency: 98, delta: 5, want: 100},
		{name: "clamped low", latency: 32, delta: -5, want: 30},
		{name: "pulled into range", latency: 140, delta: -1, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.Clone()
			s.AverageLatency = tt.latency
			next, applied := reducer.UpdateLatency(s, tt.delta)
			if !applied {
				t.Fatal("expected latency update")
			}
			if next.AverageLatency != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, next.AverageLatency)
			}
		})
	}

	running := state.Clone()
	running.SimulationRunning = true
	running.AverageLatency = 95
	next, applied := reducer.UpdateLatency(running, -5)
	if applied || next.AverageLatency != 95 {
		t.Fatal("latency tick must be ignored while a simulation runs")
	}
}

func TestLatencyDeltaRange(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 0.999} {
		delta := LatencyDelta(fixedRandom{value: v})
		if delta < -LatencyJitter || delta > LatencyJitter {
			t.Fatalf("delta %v out of range for %v", delta, v)
		}
	}
	if LatencyDelta(fixedRandom{value: 0}) != -5 {
		t.Fatal("expected -5 for lowest random value")
	}
}

func TestEventCap(t *testing.T) {
	reducer := NewIncidentReducer(6)
	state := InitialState(t0)

	next, _ := reducer.TriggerSimulation(state, fixedRandom{}, t0)
	if len(next.Events) != 6 {
		t.Fatalf("expected log capped at 6, got %d", len(next.Events))
	}
	if next.Events[0].Type() != valueobject.EventPodKilled {
		t.Fatal("newest event must survive the cap")
	}
	if next.Events[5].ID() != "5" {
		t.Fatalf("expected oldest seed entry dropped, last id %s", next.Events[5].ID())
	}
}
