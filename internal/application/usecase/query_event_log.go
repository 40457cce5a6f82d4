package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/internal/application/port"
	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
	"github.com/dreschagin/chaos-dashboard/internal/domain/service"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// ErrInvalidQuery возвращается для некорректных параметров фильтра или сортировки
var ErrInvalidQuery = errors.New("invalid event log query")

// QueryEventLogUseCase фильтрует и сортирует журнал событий с кешированием
type QueryEventLogUseCase struct {
	source StateSource
	query  *service.EventLogQuery
	cache  port.Cache
	logger *logger.Logger
}

// NewQueryEventLogUseCase создает use case. cache может быть nil.
func NewQueryEventLogUseCase(
	source StateSource,
	query *service.EventLogQuery,
	cache port.Cache,
	logger *logger.Logger,
) *QueryEventLogUseCase {
	if source == nil {
		panic("usecase: state source is required")
	}
	if query == nil {
		query = service.NewEventLogQuery()
	}
	return &QueryEventLogUseCase{
		source: source,
		query:  query,
		cache:  cache,
		logger: logger,
	}
}

// Execute выполняет запрос к журналу
func (uc *QueryEventLogUseCase) Execute(ctx context.Context, raw dto.EventQueryDTO) (*dto.EventLogPageDTO, error) {
	filter, sort, err := normalize(raw)
	if err != nil {
		return nil, err
	}

	state := uc.source.Snapshot()
	normalized := dto.EventQueryDTO{
		Search:    filter.Search,
		EventType: filter.EventType,
		Severity:  filter.Severity,
		SortField: string(sort.Field),
		SortOrder: string(sort.Order),
	}

	// Если кеш не настроен, считаем напрямую
	if uc.cache == nil {
		return uc.executeWithoutCache(state, normalized, filter, sort), nil
	}

	cacheKey := redis.EventQueryKey(state.EventLogVersion,
		filter.Search, filter.EventType, filter.Severity, string(sort.Field), string(sort.Order))

	var cached dto.EventLogPageDTO
	err = uc.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		uc.logger.Debug("Cache hit for event log query", "version", state.EventLogVersion, "matched", cached.Matched)
		return &cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		uc.logger.Warn("Event log cache read failed", "error", err.Error())
	}

	page := uc.executeWithoutCache(state, normalized, filter, sort)

	// Сохраняем в кеш (асинхронно, не блокируем ответ)
	go func() {
		if err := uc.cache.Set(context.Background(), cacheKey, page); err != nil {
			uc.logger.Warn("Failed to cache event log query", "error", err.Error())
		}
	}()

	return page, nil
}

// executeWithoutCache применяет фильтр и сортировку к snapshot'у журнала
func (uc *QueryEventLogUseCase) executeWithoutCache(
	state entity.DashboardState,
	normalized dto.EventQueryDTO,
	filter service.EventFilter,
	sort service.EventSort,
) *dto.EventLogPageDTO {
	events := uc.query.Apply(state.Events, filter, sort)

	return &dto.EventLogPageDTO{
		Query:   normalized,
		Version: state.EventLogVersion,
		Total:   len(state.Events),
		Matched: len(events),
		Events:  dto.ToEventDTOs(events),
	}
}

// normalize проверяет параметры запроса и приводит их к доменным типам
func normalize(raw dto.EventQueryDTO) (service.EventFilter, service.EventSort, error) {
	field, err := service.ParseSortField(strings.TrimSpace(raw.SortField))
	if err != nil {
		return service.EventFilter{}, service.EventSort{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	order, err := service.ParseSortOrder(strings.TrimSpace(raw.SortOrder))
	if err != nil {
		return service.EventFilter{}, service.EventSort{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	eventType := strings.TrimSpace(raw.EventType)
	if eventType == "" {
		eventType = service.FilterAll
	}
	if eventType != service.FilterAll {
		if err := valueobject.EventType(eventType).Validate(); err != nil {
			return service.EventFilter{}, service.EventSort{}, fmt.Errorf("%w: %v %q", ErrInvalidQuery, err, eventType)
		}
	}

	severity := strings.TrimSpace(raw.Severity)
	if severity == "" {
		severity = service.FilterAll
	}
	if severity != service.FilterAll {
		if err := valueobject.Severity(severity).Validate(); err != nil {
			return service.EventFilter{}, service.EventSort{}, fmt.Errorf("%w: %v %q", ErrInvalidQuery, err, severity)
		}
	}

	filter := service.EventFilter{
		Search:    strings.TrimSpace(raw.Search),
		EventType: eventType,
		Severity:  severity,
	}
	return filter, service.EventSort{Field: field, Order: order}, nil
}
