package view

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func testState(status string, running bool) *dto.DashboardStateDTO {
	return &dto.DashboardStateDTO{
		SystemStatus:      status,
		StatusLabel:       "STABLE",
		ActivePods:        2,
		TotalPods:         3,
		LatencyRounded:    95,
		LatencyLevel:      "ok",
		PredictionStatus:  "warning",
		PredictionLabel:   "Warning",
		PredictionBadge:   "Monitoring Closely",
		SimulationRunning: running,
		Pods: []dto.PodDTO{
			{ID: "1", Name: "pod-1", Status: "running"},
			{ID: "2", Name: "pod-<2>", Status: "crashed"},
		},
	}
}

func TestOverviewRendersMetricsAndEscapesNames(t *testing.T) {
	html := renderString(t, Overview(testState("healthy", false)))

	for _, want := range []string{
		`<title>Overview | Chaos Dashboard</title>`,
		`class="nav-link active" href="/"`,
		`>2/3<`,
		`>95ms<`,
		`Monitoring Closely`,
		`pod-&lt;2&gt;`,
		`class="card pod pod-crashed"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("overview missing %q", want)
		}
	}
	if strings.Contains(html, "pod-<2>") {
		t.Error("pod name must be escaped")
	}
}

func TestChaosControlPanelDisabledWhileRunning(t *testing.T) {
	idle := renderString(t, ChaosControlPanel(testState("healthy", false)))
	if strings.Contains(idle, "disabled") || !strings.Contains(idle, "Trigger Pod Failure") {
		t.Fatalf("idle panel must be enabled: %s", idle)
	}

	running := renderString(t, ChaosControlPanel(testState("crash-detected", true)))
	if !strings.Contains(running, `type="submit" disabled>`) {
		t.Fatalf("running panel must be disabled: %s", running)
	}
}

func TestChartCardsRequestRateTrend(t *testing.T) {
	tests := []struct {
		status string
		want   Trend
	}{
		{"healthy", TrendStable},
		{"crash-detected", TrendDown},
		{"recovering", TrendStable},
	}

	for _, tt := range tests {
		cards := ChartCards(testState(tt.status, false))
		if cards[2].Title != "Request Rate" || cards[2].Trend != tt.want {
			t.Errorf("status %s: request rate card = %+v, want trend %s", tt.status, cards[2], tt.want)
		}
		if cards[0].Value != "45%" || cards[1].Trend != TrendUp {
			t.Errorf("static cards changed: %+v", cards)
		}
	}
}

func TestLogsPageSortLinksToggle(t *testing.T) {
	page := &dto.EventLogPageDTO{
		Query: dto.EventQueryDTO{
			Search:    "pod-1",
			EventType: "all",
			Severity:  "high",
			SortField: "timestamp",
			SortOrder: "desc",
		},
		Total:   6,
		Matched: 1,
		Events: []dto.EventDTO{{
			ID:                   "1",
			Timestamp:            time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
			EventType:            "Pod Killed",
			TargetPod:            "microservice-pod-1",
			RecoveryDurationText: "12s",
			Severity:             "high",
		}},
	}

	html := renderString(t, Logs(page))

	for _, want := range []string{
		// та же колонка переключает направление
		`href="/logs?order=asc&amp;q=pod-1&amp;severity=high&amp;sort=timestamp"`,
		// новая колонка начинается с desc
		`href="/logs?order=desc&amp;q=pod-1&amp;severity=high&amp;sort=severity"`,
		`Showing 1 of 6 events`,
		`<option value="high" selected>`,
		`microservice-pod-1`,
		`12s`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("logs page missing %q", want)
		}
	}
}

func TestEventTableEmptyState(t *testing.T) {
	html := renderString(t, EventTable(&dto.EventLogPageDTO{
		Query: dto.EventQueryDTO{SortField: "timestamp", SortOrder: "desc"},
		Total: 6,
	}))
	if !strings.Contains(html, "No events match the current filters") {
		t.Fatalf("expected empty state row: %s", html)
	}
}

func TestLayoutWrapsChildrenAndMarksActivePage(t *testing.T) {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>content</p>")
		return err
	})
	var buf bytes.Buffer
	if err := Layout("Event Logs", PageLogs).Render(templ.WithChildren(context.Background(), body), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	if !strings.HasPrefix(html, "<!doctype html>") {
		t.Errorf("layout must start with doctype: %.40s", html)
	}
	if !strings.Contains(html, "<main><p>content</p></main>") {
		t.Errorf("children must render inside main: %s", html)
	}
	if !strings.Contains(html, `class="nav-link active" href="/logs"`) {
		t.Errorf("logs link must be active: %s", html)
	}
	if strings.Count(html, "nav-link active") != 1 {
		t.Errorf("exactly one nav link must be active")
	}
}
