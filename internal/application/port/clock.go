package port

import "time"

// Timer - отложенный вызов, который можно отменить
type Timer interface {
	// Stop отменяет вызов; false, если он уже выполнен или отменен
	Stop() bool
}

// Clock определяет источник времени и планировщик таймеров (Port)
// Реальная реализация использует time.AfterFunc, тестовая - виртуальное время
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
