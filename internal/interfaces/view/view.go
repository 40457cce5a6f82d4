package view

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"fmt"
	"net/url"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/internal/domain/service"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
)

// Page - пункт навигации
type Page string

const (
	PageOverview Page = "overview"
	PageLogs     Page = "logs"
	PageCharts   Page = "charts"
)

type navItem struct {
	page  Page
	href  string
	title string
}

var navigation = []navItem{
	{PageOverview, "/", "Overview"},
	{PageLogs, "/logs", "Event Logs"},
	{PageCharts, "/charts", "Charts & Chaos"},
}

// Trend - направление изменения показателя на графике
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// ChartCard - заглушка графика с текущим значением
type ChartCard struct {
	Title string
	Value string
	Trend Trend
}

// ChartCards возвращает синтетические карточки графиков.
// Request Rate падает, пока обнаружено падение pod'а.
func ChartCards(state *dto.DashboardStateDTO) []ChartCard {
	requestTrend := TrendStable
	if state.SystemStatus == valueobject.StatusCrashDetected.String() {
		requestTrend = TrendDown
	}

	return []ChartCard{
		{Title: "CPU Usage", Value: "45%", Trend: TrendStable},
		{Title: "Memory Usage", Value: "1.2GB", Trend: TrendUp},
		{Title: "Request Rate", Value: "1,247", Trend: requestTrend},
	}
}

type logColumn struct {
	field service.SortField
	title string
}

var logColumns = []logColumn{
	{service.SortByTimestamp, "Timestamp"},
	{service.SortByEventType, "Event Type"},
	{service.SortByTargetPod, "Target Pod"},
	{service.SortByRecoveryDuration, "Recovery Duration"},
	{service.SortBySeverity, "Severity"},
}

type selectOption struct {
	value string
	title string
}

func eventTypeOptions() []selectOption {
	options := []selectOption{{service.FilterAll, "All Events"}}
	for _, t := range valueobject.AllEventTypes() {
		options = append(options, selectOption{t.String(), t.String()})
	}
	return options
}

func severityOptions() []selectOption {
	options := []selectOption{{service.FilterAll, "All Severities"}}
	for _, s := range valueobject.AllSeverities() {
		options = append(options, selectOption{s.String(), s.String()})
	}
	return options
}

func currentSort(query dto.EventQueryDTO) service.EventSort {
	return service.EventSort{
		Field: service.SortField(query.SortField),
		Order: service.SortOrder(query.SortOrder),
	}
}

// sortLink строит ссылку заголовка колонки с сохранением поиска и фильтров
func sortLink(query dto.EventQueryDTO, next service.EventSort) string {
	values := url.Values{}
	if query.Search != "" {
		values.Set("q", query.Search)
	}
	if query.EventType != "" && query.EventType != service.FilterAll {
		values.Set("type", query.EventType)
	}
	if query.Severity != "" && query.Severity != service.FilterAll {
		values.Set("severity", query.Severity)
	}
	values.Set("sort", string(next.Field))
	values.Set("order", string(next.Order))
	return "/logs?" + values.Encode()
}

func sortArrow(current service.EventSort, field service.SortField) string {
	if current.Field != field {
		return ""
	}
	if current.Order == service.SortAsc {
		return " ▲"
	}
	return " ▼"
}

func podRatio(active, total int) string {
	return fmt.Sprintf("%d/%d", active, total)
}

func latencyText(ms int) string {
	return fmt.Sprintf("%dms", ms)
}
