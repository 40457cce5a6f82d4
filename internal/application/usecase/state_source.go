package usecase

import (
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
)

// StateSource - источник snapshot'ов состояния (реализуется simulator.Simulator)
type StateSource interface {
	Snapshot() entity.DashboardState
}

// IncidentTrigger - команда запуска симуляции (реализуется simulator.Simulator)
type IncidentTrigger interface {
	StateSource
	Trigger() bool
}

// Clock - источник текущего времени для DTO
type Clock interface {
	Now() time.Time
}
