package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/internal/application/port"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

func TestPublishTransitionFanOut(t *testing.T) {
	sim, c := newTestSimulator(t)
	notifier := &fakeNotifier{}
	events := &fakeEventPublisher{}
	metrics := &fakeMetricsPublisher{}
	cache := newFakeCache()

	uc := NewPublishTransitionUseCase(notifier, events, []port.MetricsPublisher{metrics, nil}, cache, logger.New("error"))
	sim.Subscribe(uc.Handle)

	sim.Trigger()
	c.Advance(4 * time.Second)

	if len(notifier.states) != 3 {
		t.Fatalf("expected 3 state broadcasts, got %d", len(notifier.states))
	}
	if notifier.states[2].SystemStatus != "healthy" {
		t.Fatalf("last broadcast must be healthy, got %s", notifier.states[2].SystemStatus)
	}

	wantStages := []string{StageTriggered, StageRecovering, StageRecovered}
	if len(notifier.incidents) != len(wantStages) {
		t.Fatalf("expected %d incidents, got %d", len(wantStages), len(notifier.incidents))
	}
	for i, stage := range wantStages {
		if notifier.incidents[i].Stage != stage {
			t.Fatalf("incident %d: expected %s, got %s", i, stage, notifier.incidents[i].Stage)
		}
		if notifier.incidents[i].TargetPod != "pod-1" {
			t.Fatalf("incident %d: expected pod-1, got %q", i, notifier.incidents[i].TargetPod)
		}
	}
	if notifier.incidents[2].RecoverySeconds != 4 || notifier.incidents[2].Message != "Pod pod-1 recovered in 4s" {
		t.Fatalf("unexpected recovery incident: %+v", notifier.incidents[2])
	}

	wantSubjects := []string{port.SubjectIncidentTriggered, port.SubjectIncidentRecovering, port.SubjectIncidentRecovered}
	if len(events.events) != len(wantSubjects) {
		t.Fatalf("expected %d published events, got %d", len(wantSubjects), len(events.events))
	}
	for i, subject := range wantSubjects {
		if events.events[i].subject != subject {
			t.Fatalf("event %d: expected %s, got %s", i, subject, events.events[i].subject)
		}
		if _, ok := events.events[i].event.(*dto.IncidentDTO); !ok {
			t.Fatalf("event %d: expected IncidentDTO payload", i)
		}
	}

	if len(metrics.samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(metrics.samples))
	}
	if metrics.samples[0].ActivePods != 2 || metrics.samples[0].AverageLatencyMs != 95 {
		t.Fatalf("unexpected crash sample: %+v", metrics.samples[0])
	}
	if metrics.samples[2].RecoverySeconds != 4 {
		t.Fatalf("expected recovery sample with 4s, got %d", metrics.samples[2].RecoverySeconds)
	}

	// trigger и complete меняют журнал, start-recovery - нет
	waitFor(t, cache.deleted)
	waitFor(t, cache.deleted)
	select {
	case p := <-cache.deleted:
		t.Fatalf("unexpected extra invalidation %s", p)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishTransitionTickOnlyBroadcastsState(t *testing.T) {
	sim, _ := newTestSimulator(t)
	notifier := &fakeNotifier{}
	events := &fakeEventPublisher{}
	metrics := &fakeMetricsPublisher{}

	uc := NewPublishTransitionUseCase(notifier, events, []port.MetricsPublisher{metrics}, nil, logger.New("error"))
	sim.Subscribe(uc.Handle)

	sim.Tick()

	if len(notifier.states) != 1 || len(notifier.incidents) != 0 {
		t.Fatalf("tick must broadcast state only, got %d states %d incidents", len(notifier.states), len(notifier.incidents))
	}
	if len(events.events) != 0 {
		t.Fatal("tick must not publish incident events")
	}
	if len(metrics.samples) != 1 || metrics.samples[0].Transition != "tick" {
		t.Fatalf("expected one tick sample, got %+v", metrics.samples)
	}
}

func TestPublishTransitionSinkErrorsDoNotStopBroadcast(t *testing.T) {
	sim, _ := newTestSimulator(t)
	notifier := &fakeNotifier{}
	events := &fakeEventPublisher{err: errors.New("broker down")}
	metrics := &fakeMetricsPublisher{err: errors.New("throttled")}

	uc := NewPublishTransitionUseCase(notifier, events, []port.MetricsPublisher{metrics}, nil, logger.New("error"))
	sim.Subscribe(uc.Handle)

	if !sim.Trigger() {
		t.Fatal("sink failures must not block transitions")
	}
	if len(notifier.incidents) != 1 {
		t.Fatalf("expected incident broadcast despite sink errors, got %d", len(notifier.incidents))
	}
}
