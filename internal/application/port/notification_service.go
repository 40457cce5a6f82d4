package port

import "github.com/dreschagin/chaos-dashboard/internal/application/dto"

// NotificationService определяет интерфейс для отправки уведомлений (Port)
// Реализация в Infrastructure слое (WebSocket Hub)
type NotificationService interface {
	// BroadcastState отправляет snapshot состояния всем подключенным клиентам
	BroadcastState(snapshot *dto.DashboardStateDTO)

	// BroadcastIncident отправляет шаг жизненного цикла инцидента
	BroadcastIncident(incident *dto.IncidentDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
