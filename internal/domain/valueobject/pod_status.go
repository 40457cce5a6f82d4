package valueobject

import "errors"

// PodStatus представляет состояние жизненного цикла pod'а (Value Object)
type PodStatus string

const (
	PodRunning    PodStatus = "running"
	PodCrashed    PodStatus = "crashed"
	PodRestarting PodStatus = "restarting"
)

// Validate проверяет валидность статуса pod'а
func (s PodStatus) Validate() error {
	switch s {
	case PodRunning, PodCrashed, PodRestarting:
		return nil
	default:
		return errors.New("invalid pod status")
	}
}

// String возвращает строковое представление статуса
func (s PodStatus) String() string {
	return string(s)
}
