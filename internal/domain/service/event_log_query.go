package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
)

// FilterAll - значение фильтра "без ограничения"
const FilterAll = "all"

// SortField - колонка сортировки журнала
type SortField string

const (
	SortByTimestamp        SortField = "timestamp"
	SortByEventType        SortField = "eventType"
	SortByTargetPod        SortField = "targetPod"
	SortByRecoveryDuration SortField = "recoveryDuration"
	SortBySeverity         SortField = "severity"
)

// SortOrder - направление сортировки
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)

// ParseSortField разбирает имя колонки; пустая строка - timestamp
func ParseSortField(raw string) (SortField, error) {
	switch field := SortField(raw); field {
	case "":
		return SortByTimestamp, nil
	case SortByTimestamp, SortByEventType, SortByTargetPod, SortByRecoveryDuration, SortBySeverity:
		return field, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, raw)
	}
}

// ParseSortOrder разбирает направление; пустая строка - desc
func ParseSortOrder(raw string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(raw)); order {
	case "":
		return SortDesc, nil
	case SortAsc, SortDesc:
		return order, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, raw)
	}
}

// EventFilter - параметры фильтрации таблицы событий
type EventFilter struct {
	Search    string
	EventType string
	Severity  string
}

// EventSort - параметры сортировки таблицы событий
type EventSort struct {
	Field SortField
	Order SortOrder
}

// DefaultEventSort - сортировка по умолчанию: новые записи первыми
func DefaultEventSort() EventSort {
	return EventSort{Field: SortByTimestamp, Order: SortDesc}
}

// Toggle возвращает сортировку после клика по колонке field:
// та же колонка меняет направление, новая начинается с desc
func (s EventSort) Toggle(field SortField) EventSort {
	if s.Field == field {
		if s.Order == SortAsc {
			return EventSort{Field: field, Order: SortDesc}
		}
		return EventSort{Field: field, Order: SortAsc}
	}
	return EventSort{Field: field, Order: SortDesc}
}

// EventLogQuery - чистая функция представления журнала (Domain Service)
type EventLogQuery struct{}

// NewEventLogQuery создает сервис запросов к журналу
func NewEventLogQuery() *EventLogQuery {
	return &EventLogQuery{}
}

// Apply фильтрует и сортирует журнал. Исходный срез не изменяется.
func (q *EventLogQuery) Apply(events []entity.Event, filter EventFilter, order EventSort) []entity.Event {
	result := make([]entity.Event, 0, len(events))
	for _, event := range events {
		if matches(event, filter) {
			result = append(result, event)
		}
	}

	if order.Field == "" {
		order = DefaultEventSort()
	}

	less := comparator(order.Field)
	desc := order.Order == SortDesc
	sort.SliceStable(result, func(i, j int) bool {
		if desc {
			return less(result[j], result[i])
		}
		return less(result[i], result[j])
	})

	return result
}

func matches(event entity.Event, filter EventFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(event.TargetPod()), needle) &&
			!strings.Contains(strings.ToLower(event.Type().String()), needle) {
			return false
		}
	}
	if filter.EventType != "" && filter.EventType != FilterAll &&
		event.Type().String() != filter.EventType {
		return false
	}
	if filter.Severity != "" && filter.Severity != FilterAll &&
		event.Severity().String() != filter.Severity {
		return false
	}
	return true
}

func comparator(field SortField) func(a, b entity.Event) bool {
	switch field {
	case SortByEventType:
		return func(a, b entity.Event) bool {
			return strings.ToLower(a.Type().String()) < strings.ToLower(b.Type().String())
		}
	case SortByTargetPod:
		return func(a, b entity.Event) bool {
			return strings.ToLower(a.TargetPod()) < strings.ToLower(b.TargetPod())
		}
	case SortByRecoveryDuration:
		return func(a, b entity.Event) bool {
			return a.RecoveryDuration() < b.RecoveryDuration()
		}
	case SortBySeverity:
		return func(a, b entity.Event) bool {
			return a.Severity().Rank() < b.Severity().Rank()
		}
	default:
		return func(a, b entity.Event) bool {
			return a.Timestamp().Before(b.Timestamp())
		}
	}
}

// FormatDuration форматирует длительность: "45s" или "1m 7s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
