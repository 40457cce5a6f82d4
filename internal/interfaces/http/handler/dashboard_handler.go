package handler

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dreschagin/chaos-dashboard/internal/application/usecase"
	"github.com/dreschagin/chaos-dashboard/internal/interfaces/view"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// DashboardHandler обрабатывает запросы к страницам dashboard
type DashboardHandler struct {
	getStateUC *usecase.GetDashboardStateUseCase
	queryLogUC *usecase.QueryEventLogUseCase
	triggerUC  *usecase.TriggerSimulationUseCase
	logger     *logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(
	getStateUC *usecase.GetDashboardStateUseCase,
	queryLogUC *usecase.QueryEventLogUseCase,
	triggerUC *usecase.TriggerSimulationUseCase,
	logger *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		getStateUC: getStateUC,
		queryLogUC: queryLogUC,
		triggerUC:  triggerUC,
		logger:     logger,
	}
}

// ShowOverview отображает главную страницу
func (h *DashboardHandler) ShowOverview(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.Overview(h.getStateUC.Execute(false)))
}

// ShowLogs отображает журнал событий с фильтрами
func (h *DashboardHandler) ShowLogs(w http.ResponseWriter, r *http.Request) {
	page, err := h.queryLogUC.Execute(r.Context(), eventQueryFromRequest(r))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to query event log", err)
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}

	h.render(w, r, view.Logs(page))
}

// ShowCharts отображает графики и панель chaos-симуляции
func (h *DashboardHandler) ShowCharts(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.Charts(h.getStateUC.Execute(false)))
}

// TriggerFromForm запускает симуляцию из формы и возвращает на страницу графиков
func (h *DashboardHandler) TriggerFromForm(w http.ResponseWriter, r *http.Request) {
	h.triggerUC.Execute()
	http.Redirect(w, r, "/charts", http.StatusSeeOther)
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render page", err, "path", r.URL.Path)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
