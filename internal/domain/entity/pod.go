package entity

import "github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"

// Pod представляет симулированный вычислительный юнит со статусом жизненного цикла
// Набор pod'ов фиксируется при инициализации, создания/удаления в runtime нет
type Pod struct {
	id     string
	name   string
	status valueobject.PodStatus
}

// NewPod создает pod (Factory Method)
func NewPod(id, name string, status valueobject.PodStatus) (Pod, error) {
	if err := status.Validate(); err != nil {
		return Pod{}, err
	}
	return Pod{id: id, name: name, status: status}, nil
}

// ID возвращает идентификатор pod'а
func (p Pod) ID() string {
	return p.id
}

// Name возвращает отображаемое имя
func (p Pod) Name() string {
	return p.name
}

// Status возвращает текущий статус
func (p Pod) Status() valueobject.PodStatus {
	return p.status
}

// IsRunning проверяет, работает ли pod
func (p Pod) IsRunning() bool {
	return p.status == valueobject.PodRunning
}

// WithStatus возвращает копию pod'а с новым статусом
func (p Pod) WithStatus(status valueobject.PodStatus) Pod {
	p.status = status
	return p
}
