package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/domain/entity"
	"github.com/dreschagin/chaos-dashboard/internal/domain/valueobject"
)

func ids(events []entity.Event) []string {
	result := make([]string, 0, len(events))
	for _, e := range events {
		result = append(result, e.ID())
	}
	return result
}

func equalIDs(got []entity.Event, want ...string) bool {
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		return false
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			return false
		}
	}
	return true
}

func TestEventLogQueryFilters(t *testing.T) {
	query := NewEventLogQuery()
	events := SeedEvents(t0)

	tests := []struct {
		name   string
		filter EventFilter
		want   []string
	}{
		{name: "no filter", filter: EventFilter{}, want: []string{"2", "1", "3", "4", "5", "6"}},
		{name: "all keyword", filter: EventFilter{EventType: "all", Severity: "all"}, want: []string{"2", "1", "3", "4", "5", "6"}},
		{name: "critical only", filter: EventFilter{Severity: "critical"}, want: []string{"5"}},
		{name: "search by pod", filter: EventFilter{Search: "pod-2"}, want: []string{"3", "6"}},
		{name: "search case insensitive", filter: EventFilter{Search: "LATENCY"}, want: []string{"3"}},
		{name: "by type", filter: EventFilter{EventType: "Auto-Restart"}, want: []string{"2"}},
		{name: "combined", filter: EventFilter{Search: "pod-1", Severity: "high"}, want: []string{"1"}},
		{name: "no match", filter: EventFilter{Search: "pod-9"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.Apply(events, tt.filter, DefaultEventSort())
			if !equalIDs(got, tt.want...) {
				t.Fatalf("expected %v, got %v", tt.want, ids(got))
			}
		})
	}
}

func TestEventLogQuerySort(t *testing.T) {
	query := NewEventLogQuery()
	events := SeedEvents(t0)

	tests := []struct {
		name string
		sort EventSort
		want []string
	}{
		{name: "timestamp asc", sort: EventSort{SortByTimestamp, SortAsc}, want: []string{"6", "5", "4", "3", "1", "2"}},
		{name: "timestamp desc", sort: EventSort{SortByTimestamp, SortDesc}, want: []string{"2", "1", "3", "4", "5", "6"}},
		{name: "duration asc", sort: EventSort{SortByRecoveryDuration, SortAsc}, want: []string{"2", "1", "4", "6", "3", "5"}},
		{name: "duration desc", sort: EventSort{SortByRecoveryDuration, SortDesc}, want: []string{"5", "3", "6", "4", "1", "2"}},
		{name: "severity desc stable", sort: EventSort{SortBySeverity, SortDesc}, want: []string{"5", "1", "4", "2", "3", "6"}},
		{name: "target asc stable", sort: EventSort{SortByTargetPod, SortAsc}, want: []string{"1", "2", "5", "3", "6", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.Apply(events, EventFilter{}, tt.sort)
			if !equalIDs(got, tt.want...) {
				t.Fatalf("expected %v, got %v", tt.want, ids(got))
			}
		})
	}
}

func TestEventLogQueryStableForEqualKeys(t *testing.T) {
	query := NewEventLogQuery()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []entity.Event{
		entity.ReconstructEvent("a", at, valueobject.EventHighLatency, "pod-1", 5, valueobject.SeverityLow),
		entity.ReconstructEvent("b", at, valueobject.EventHighLatency, "pod-1", 5, valueobject.SeverityLow),
		entity.ReconstructEvent("c", at, valueobject.EventHighLatency, "pod-1", 5, valueobject.SeverityLow),
	}

	for _, order := range []SortOrder{SortAsc, SortDesc} {
		got := query.Apply(events, EventFilter{}, EventSort{Field: SortByRecoveryDuration, Order: order})
		if !equalIDs(got, "a", "b", "c") {
			t.Fatalf("%s: equal keys must keep log order, got %v", order, ids(got))
		}
	}
}

func TestEventLogQueryDoesNotMutateInput(t *testing.T) {
	events := SeedEvents(t0)
	NewEventLogQuery().Apply(events, EventFilter{}, EventSort{SortByTimestamp, SortAsc})
	if events[0].ID() != "1" {
		t.Fatal("input slice must not be reordered")
	}
}

func TestEventSortToggle(t *testing.T) {
	s := DefaultEventSort()

	s = s.Toggle(SortByTimestamp)
	if s.Field != SortByTimestamp || s.Order != SortAsc {
		t.Fatalf("same field must flip order, got %+v", s)
	}
	s = s.Toggle(SortByTimestamp)
	if s.Order != SortDesc {
		t.Fatalf("second toggle must flip back, got %+v", s)
	}
	s = s.Toggle(SortBySeverity)
	if s.Field != SortBySeverity || s.Order != SortDesc {
		t.Fatalf("new field must start descending, got %+v", s)
	}
}

func TestParseSort(t *testing.T) {
	if f, err := ParseSortField(""); err != nil || f != SortByTimestamp {
		t.Fatalf("empty field must default to timestamp, got %q %v", f, err)
	}
	if _, err := ParseSortField("podName"); !errors.Is(err, ErrInvalidSortField) {
		t.Fatalf("expected ErrInvalidSortField, got %v", err)
	}
	if o, err := ParseSortOrder("ASC"); err != nil || o != SortAsc {
		t.Fatalf("expected asc, got %q %v", o, err)
	}
	if _, err := ParseSortOrder("up"); !errors.Is(err, ErrInvalidSortOrder) {
		t.Fatalf("expected ErrInvalidSortOrder, got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{0: "0s", 45: "45s", 59: "59s", 60: "1m 0s", 67: "1m 7s", 125: "2m 5s"}
	for seconds, want := range tests {
		if got := FormatDuration(seconds); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", seconds, got, want)
		}
	}
}
