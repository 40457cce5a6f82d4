package usecase

import (
	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// GetDashboardStateUseCase возвращает текущий snapshot дашборда
type GetDashboardStateUseCase struct {
	source StateSource
	clock  Clock
	logger *logger.Logger
}

// NewGetDashboardStateUseCase создает новый use case
func NewGetDashboardStateUseCase(source StateSource, clock Clock, logger *logger.Logger) *GetDashboardStateUseCase {
	if source == nil {
		panic("usecase: state source is required")
	}
	return &GetDashboardStateUseCase{
		source: source,
		clock:  clock,
		logger: logger,
	}
}

// Execute возвращает snapshot; withEvents добавляет журнал целиком
func (uc *GetDashboardStateUseCase) Execute(withEvents bool) *dto.DashboardStateDTO {
	state := uc.source.Snapshot()
	uc.logger.Debug("Dashboard state requested", "status", state.SystemStatus, "events", len(state.Events))
	return dto.NewDashboardStateDTO(state, uc.clock.Now(), withEvents)
}
