package entity

import (
	"errors"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// Event представляет запись журнала инцидентов
// Запись иммутабельна после добавления; единственное исключение -
// back-fill длительности восстановления у последнего "Pod Killed"
type Event struct {
	id               string
	timestamp        time.Time
	eventType        valueobject.EventType
	targetPod        string
	recoveryDuration int
	severity         valueobject.Severity
}

// NewEvent создает новую запись журнала (Factory Method)
func NewEvent(
	eventType valueobject.EventType,
	targetPod string,
	recoveryDuration int,
	severity valueobject.Severity,
	at time.Time,
) (Event, error) {
	if err := eventType.Validate(); err != nil {
		return Event{}, err
	}
	if err := severity.Validate(); err != nil {
		return Event{}, err
	}
	if recoveryDuration < 0 {
		return Event{}, errors.New("recovery duration cannot be negative")
	}

	return Event{
		id:               uuid.NewString(),
		timestamp:        at,
		eventType:        eventType,
		targetPod:        targetPod,
		recoveryDuration: recoveryDuration,
		severity:         severity,
	}, nil
}

// ReconstructEvent восстанавливает запись с известным идентификатором (seed, тесты)
func ReconstructEvent(
	id string,
	at time.Time,
	eventType valueobject.EventType,
	targetPod string,
	recoveryDuration int,
	severity valueobject.Severity,
) Event {
	return Event{
		id:               id,
		timestamp:        at,
		eventType:        eventType,
		targetPod:        targetPod,
		recoveryDuration: recoveryDuration,
		severity:         severity,
	}
}

// ID возвращает идентификатор записи
func (e Event) ID() string {
	return e.id
}

// Timestamp возвращает время события
func (e Event) Timestamp() time.Time {
	return e.timestamp
}

// Type возвращает тип события
func (e Event) Type() valueobject.EventType {
	return e.eventType
}

// TargetPod возвращает имя затронутого pod'а
func (e Event) TargetPod() string {
	return e.targetPod
}

// RecoveryDuration возвращает длительность восстановления в секундах
func (e Event) RecoveryDuration() int {
	return e.recoveryDuration
}

// Severity возвращает уровень важности
func (e Event) Severity() valueobject.Severity {
	return e.severity
}

// IsPendingCrash проверяет, что это "Pod Killed" с placeholder длительностью
func (e Event) IsPendingCrash() bool {
	return e.eventType == valueobject.EventPodKilled && e.recoveryDuration == 0
}

// WithRecoveryDuration возвращает копию записи с измеренной длительностью
func (e Event) WithRecoveryDuration(seconds int) Event {
	if seconds < 0 {
		seconds = 0
	}
	e.recoveryDuration = seconds
	return e
}
