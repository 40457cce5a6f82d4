package handler

import (
	"errors"
	"net/http"

	"github.com/dreschagin/chaos-dashboard/internal/application/usecase"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// SimulationAPIHandler обрабатывает JSON API симулятора
type SimulationAPIHandler struct {
	getStateUC *usecase.GetDashboardStateUseCase
	triggerUC  *usecase.TriggerSimulationUseCase
	queryLogUC *usecase.QueryEventLogUseCase
	logger     *logger.Logger
}

// NewSimulationAPIHandler создает новый handler
func NewSimulationAPIHandler(
	getStateUC *usecase.GetDashboardStateUseCase,
	triggerUC *usecase.TriggerSimulationUseCase,
	queryLogUC *usecase.QueryEventLogUseCase,
	logger *logger.Logger,
) *SimulationAPIHandler {
	return &SimulationAPIHandler{
		getStateUC: getStateUC,
		triggerUC:  triggerUC,
		queryLogUC: queryLogUC,
		logger:     logger,
	}
}

// GetState возвращает snapshot дашборда вместе с журналом
func (h *SimulationAPIHandler) GetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.getStateUC.Execute(true), h.logger)
}

// TriggerSimulation запускает симуляцию.
// 202 - инцидент запущен, 200 - запрос проигнорирован (инцидент уже в процессе).
func (h *SimulationAPIHandler) TriggerSimulation(w http.ResponseWriter, _ *http.Request) {
	result := h.triggerUC.Execute()

	status := http.StatusOK
	if result.Triggered {
		status = http.StatusAccepted
	}
	writeJSON(w, status, result, h.logger)
}

// GetEvents возвращает отфильтрованный и отсортированный журнал
func (h *SimulationAPIHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	page, err := h.queryLogUC.Execute(r.Context(), eventQueryFromRequest(r))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidQuery) {
			writeJSONError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		h.logger.Error("Failed to query event log", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to query events", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page, h.logger)
}
