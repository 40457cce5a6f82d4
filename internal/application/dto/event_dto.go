package dto

import (
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
	"github.com/dreschagin/chaos-dashboard/internal/domain/service"
)

// EventDTO представляет запись журнала для передачи между слоями
type EventDTO struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	EventType        string    `json:"event_type"`
	TargetPod        string    `json:"target_pod"`
	RecoveryDuration int       `json:"recovery_duration"`
	// Computed fields
	RecoveryDurationText string `json:"recovery_duration_text"`
	Severity             string `json:"severity"`
}

// FromEvent конвертирует Domain Entity в DTO
func FromEvent(event entity.Event) EventDTO {
	return EventDTO{
		ID:                   event.ID(),
		Timestamp:            event.Timestamp(),
		EventType:            event.Type().String(),
		TargetPod:            event.TargetPod(),
		RecoveryDuration:     event.RecoveryDuration(),
		RecoveryDurationText: service.FormatDuration(event.RecoveryDuration()),
		Severity:             event.Severity().String(),
	}
}

// ToEventDTOs конвертирует слайс Entity в слайс DTO
func ToEventDTOs(events []entity.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = FromEvent(e)
	}
	return dtos
}

// EventQueryDTO - параметры запроса к журналу в нормализованном виде
type EventQueryDTO struct {
	Search    string `json:"search"`
	EventType string `json:"event_type"`
	Severity  string `json:"severity"`
	SortField string `json:"sort_field"`
	SortOrder string `json:"sort_order"`
}

// EventLogPageDTO - результат запроса к журналу
type EventLogPageDTO struct {
	Query   EventQueryDTO `json:"query"`
	Version uint64        `json:"version"`
	Total   int           `json:"total"`
	Matched int           `json:"matched"`
	Events  []EventDTO    `json:"events"`
}
