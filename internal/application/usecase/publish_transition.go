package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/internal/application/port"
	"github.com/dreschagin/chaos-dashboard/internal/application/simulator"
	"github.com/dreschagin/chaos-dashboard/internal/domain/service"
	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// Стадии инцидента для клиентов и брокера
const (
	StageTriggered  = "triggered"
	StageRecovering = "recovering"
	StageRecovered  = "recovered"
)

const defaultSinkTimeout = 5 * time.Second

// PublishTransitionUseCase рассылает переходы симулятора: WebSocket клиентам,
// в брокер событий, в publisher'ы метрик и в лог
type PublishTransitionUseCase struct {
	notifier    port.NotificationService
	events      port.EventPublisher
	metrics     []port.MetricsPublisher
	cache       port.Cache
	logger      *logger.Logger
	sinkTimeout time.Duration
}

// NewPublishTransitionUseCase создает новый use case.
// events, cache и элементы metrics могут быть nil (интеграция отключена).
func NewPublishTransitionUseCase(
	notifier port.NotificationService,
	events port.EventPublisher,
	metrics []port.MetricsPublisher,
	cache port.Cache,
	logger *logger.Logger,
) *PublishTransitionUseCase {
	if notifier == nil {
		panic("usecase: notification service is required")
	}

	enabled := make([]port.MetricsPublisher, 0, len(metrics))
	for _, m := range metrics {
		if m != nil {
			enabled = append(enabled, m)
		}
	}

	return &PublishTransitionUseCase{
		notifier:    notifier,
		events:      events,
		metrics:     enabled,
		cache:       cache,
		logger:      logger,
		sinkTimeout: defaultSinkTimeout,
	}
}

// Handle обрабатывает один переход. Ошибки интеграций логируются и не прерывают рассылку.
func (uc *PublishTransitionUseCase) Handle(tr simulator.Transition) {
	// 1. Snapshot для всех подключенных клиентов
	uc.notifier.BroadcastState(dto.NewDashboardStateDTO(tr.State, tr.At, false))

	ctx, cancel := context.WithTimeout(context.Background(), uc.sinkTimeout)
	defer cancel()

	// 2. Метрики (на каждом переходе, включая тики задержки)
	sample := newStateSample(tr)
	for _, publisher := range uc.metrics {
		if err := publisher.PublishBatch(ctx, []port.StateSample{sample}); err != nil {
			uc.logger.Error("Failed to publish state sample", err, "transition", tr.Command)
		}
	}

	// 3. Шаги жизненного цикла инцидента
	incident, subject := newIncident(tr)
	if incident == nil {
		return
	}

	uc.logger.Info(incident.Message,
		"stage", incident.Stage,
		"pod", incident.TargetPod,
		"status", incident.SystemStatus,
		"active_pods", incident.ActivePods,
	)

	uc.notifier.BroadcastIncident(incident)

	if uc.events != nil {
		if err := uc.events.PublishEvent(ctx, subject, incident); err != nil {
			uc.logger.Warn("Failed to publish incident event", "subject", subject, "error", err.Error())
		}
	}

	// 4. Кешированные выборки журнала устарели
	if uc.cache != nil && tr.State.EventLogVersion != tr.Previous.EventLogVersion {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), uc.sinkTimeout)
			defer cancel()
			if err := uc.cache.DeletePattern(ctx, redis.StaleVersionsPattern()); err != nil {
				uc.logger.Warn("Failed to invalidate event log cache", "error", err.Error())
			}
		}()
	}
}

// newStateSample снимает точку телеметрии после перехода
func newStateSample(tr simulator.Transition) port.StateSample {
	return port.StateSample{
		Timestamp:         tr.At,
		SystemStatus:      tr.State.SystemStatus.String(),
		Transition:        string(tr.Command),
		ActivePods:        tr.State.ActivePods,
		TotalPods:         tr.State.TotalPods,
		AverageLatencyMs:  tr.State.AverageLatency.Ms(),
		SimulationRunning: tr.State.SimulationRunning,
		RecoverySeconds:   tr.RecoverySeconds(),
	}
}

// newIncident строит сообщение о шаге инцидента; nil для тиков задержки
func newIncident(tr simulator.Transition) (*dto.IncidentDTO, string) {
	incident := &dto.IncidentDTO{
		Timestamp:    tr.At,
		SystemStatus: tr.State.SystemStatus.String(),
		TargetPod:    tr.TargetPod(),
		ActivePods:   tr.State.ActivePods,
	}

	var subject string
	switch tr.Command {
	case simulator.CommandTrigger:
		incident.Stage = StageTriggered
		incident.Message = fmt.Sprintf("Pod %s killed by chaos simulation", incident.TargetPod)
		subject = port.SubjectIncidentTriggered
	case simulator.CommandStartRecovery:
		incident.Stage = StageRecovering
		incident.Message = fmt.Sprintf("Pod %s restarting", incident.TargetPod)
		subject = port.SubjectIncidentRecovering
	case simulator.CommandCompleteRecovery:
		incident.Stage = StageRecovered
		incident.RecoverySeconds = tr.RecoverySeconds()
		incident.Message = fmt.Sprintf("Pod %s recovered in %s",
			incident.TargetPod, service.FormatDuration(incident.RecoverySeconds))
		subject = port.SubjectIncidentRecovered
	default:
		return nil, ""
	}

	return incident, subject
}
