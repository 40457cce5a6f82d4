package valueobject

// PredictionStatus - косметический флаг "Failure Prediction".
// Переключается вместе с crash/healthy и не выводится ни из какой модели.
type PredictionStatus string

const (
	PredictionStable  PredictionStatus = "stable"
	PredictionWarning PredictionStatus = "warning"
)

// String возвращает строковое представление
func (p PredictionStatus) String() string {
	return string(p)
}

// Label возвращает заголовок карточки
func (p PredictionStatus) Label() string {
	if p == PredictionWarning {
		return "Warning"
	}
	return "Stable"
}

// Badge возвращает текст бейджа под заголовком
func (p PredictionStatus) Badge() string {
	if p == PredictionWarning {
		return "Monitoring Closely"
	}
	return "All Systems Normal"
}
