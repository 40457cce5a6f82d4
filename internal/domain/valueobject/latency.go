package valueobject

import "math"

// Границы синтетической задержки, мс
const (
	MinLatency = 30.0
	MaxLatency = 100.0
)

// LatencyLevel - цветовой уровень карточки "Average Latency"
type LatencyLevel string

const (
	LatencyOK       LatencyLevel = "ok"
	LatencyWarning  LatencyLevel = "warning"
	LatencyCritical LatencyLevel = "critical"
)

// Latency представляет среднюю задержку в миллисекундах (Value Object)
// Иммутабельный объект
type Latency float64

// Ms возвращает числовое значение
func (l Latency) Ms() float64 {
	return float64(l)
}

// Add возвращает задержку, смещенную на delta
func (l Latency) Add(delta float64) Latency {
	return Latency(float64(l) + delta)
}

// Clamp ограничивает значение диапазоном [min, max]
func (l Latency) Clamp(min, max float64) Latency {
	return Latency(math.Max(min, math.Min(max, float64(l))))
}

// Floor ограничивает значение снизу
func (l Latency) Floor(min float64) Latency {
	return Latency(math.Max(min, float64(l)))
}

// Rounded возвращает значение, округленное до целых миллисекунд
func (l Latency) Rounded() int {
	return int(math.Round(float64(l)))
}

// Level возвращает уровень: <100 ok, <200 warning, иначе critical
func (l Latency) Level() LatencyLevel {
	switch {
	case l < 100:
		return LatencyOK
	case l < 200:
		return LatencyWarning
	default:
		return LatencyCritical
	}
}
