package port

import (
	"context"
	"time"
)

// LogLevel - уровень записи для внешней системы логов
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// LogEntry - структурированная запись лога
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
	Fields    map[string]interface{} // пары key/value из вызова logger'а
}

// LogPublisher отправляет логи во внешнюю систему (CloudWatch Logs).
// Реализация буферизует записи; Flush вызывается при graceful shutdown.
type LogPublisher interface {
	Publish(ctx context.Context, entry LogEntry) error

	// PublishBatch учитывает лимиты внешней системы на размер запроса
	PublishBatch(ctx context.Context, entries []LogEntry) error

	Flush(ctx context.Context) error
}
