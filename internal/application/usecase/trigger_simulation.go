package usecase

import (
	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// TriggerSimulationUseCase запускает симуляцию падения pod'а
type TriggerSimulationUseCase struct {
	simulator IncidentTrigger
	clock     Clock
	logger    *logger.Logger
}

// NewTriggerSimulationUseCase создает новый use case
func NewTriggerSimulationUseCase(simulator IncidentTrigger, clock Clock, logger *logger.Logger) *TriggerSimulationUseCase {
	if simulator == nil {
		panic("usecase: simulator is required")
	}
	return &TriggerSimulationUseCase{
		simulator: simulator,
		clock:     clock,
		logger:    logger,
	}
}

// Execute запускает симуляцию. Triggered=false - запрос проигнорирован
// (инцидент уже в процессе или система не в штатном состоянии).
func (uc *TriggerSimulationUseCase) Execute() *dto.TriggerResultDTO {
	triggered := uc.simulator.Trigger()
	state := uc.simulator.Snapshot()

	if triggered {
		uc.logger.Info("Chaos simulation triggered", "active_pods", state.ActivePods)
	} else {
		uc.logger.Debug("Chaos simulation request ignored",
			"status", state.SystemStatus,
			"simulation_running", state.SimulationRunning)
	}

	return &dto.TriggerResultDTO{
		Triggered: triggered,
		State:     dto.NewDashboardStateDTO(state, uc.clock.Now(), false),
	}
}
