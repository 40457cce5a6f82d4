package valueobject

import "errors"

// SystemStatus представляет глобальный статус системы (Value Object)
// Выводится из агрегированного состояния pod'ов, напрямую не устанавливается
type SystemStatus string

const (
	StatusHealthy       SystemStatus = "healthy"
	StatusCrashDetected SystemStatus = "crash-detected"
	StatusRecovering    SystemStatus = "recovering"
)

// Validate проверяет валидность статуса
func (s SystemStatus) Validate() error {
	switch s {
	case StatusHealthy, StatusCrashDetected, StatusRecovering:
		return nil
	default:
		return errors.New("invalid system status")
	}
}

// String возвращает строковое представление статуса
func (s SystemStatus) String() string {
	return string(s)
}

// Label возвращает короткую подпись для status card
func (s SystemStatus) Label() string {
	switch s {
	case StatusCrashDetected:
		return "CRITICAL"
	case StatusRecovering:
		return "HEALING"
	default:
		return "STABLE"
	}
}
