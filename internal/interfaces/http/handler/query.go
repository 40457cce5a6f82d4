package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// eventQueryFromRequest читает параметры журнала: q, type, severity, sort, order
func eventQueryFromRequest(r *http.Request) dto.EventQueryDTO {
	values := r.URL.Query()
	return dto.EventQueryDTO{
		Search:    values.Get("q"),
		EventType: values.Get("type"),
		Severity:  values.Get("severity"),
		SortField: values.Get("sort"),
		SortOrder: values.Get("order"),
	}
}

// writeJSON отправляет payload как JSON с заданным статусом
func writeJSON(w http.ResponseWriter, status int, payload any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode JSON response", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string, log *logger.Logger) {
	writeJSON(w, status, map[string]string{"error": message}, log)
}
