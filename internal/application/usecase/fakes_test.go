package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/application/dto"
	"github.com/dreschagin/chaos-dashboard/internal/application/port"
	"github.com/dreschagin/chaos-dashboard/internal/application/simulator"
	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/clock"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedRandom struct{}

func (fixedRandom) Intn(int) int     { return 0 }
func (fixedRandom) Float64() float64 { return 0.5 }

func newTestSimulator(t *testing.T) (*simulator.Simulator, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(testStart)
	sim := simulator.New(c, fixedRandom{}, simulator.DefaultConfig(), logger.New("error"))
	t.Cleanup(sim.Close)
	return sim, c
}

type fakeNotifier struct {
	mu        sync.Mutex
	states    []*dto.DashboardStateDTO
	incidents []*dto.IncidentDTO
}

func (n *fakeNotifier) BroadcastState(snapshot *dto.DashboardStateDTO) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, snapshot)
}

func (n *fakeNotifier) BroadcastIncident(incident *dto.IncidentDTO) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.incidents = append(n.incidents, incident)
}

func (n *fakeNotifier) ClientCount() int { return 0 }

type publishedEvent struct {
	subject string
	event   interface{}
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakeEventPublisher) PublishEvent(_ context.Context, subject string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, event: event})
	return p.err
}

func (p *fakeEventPublisher) Close() error { return nil }

type fakeMetricsPublisher struct {
	mu      sync.Mutex
	samples []port.StateSample
	err     error
}

func (p *fakeMetricsPublisher) PublishBatch(_ context.Context, samples []port.StateSample) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples = append(p.samples, samples...)
	return p.err
}

func (p *fakeMetricsPublisher) PublishSingle(ctx context.Context, sample port.StateSample) error {
	return p.PublishBatch(ctx, []port.StateSample{sample})
}

func (p *fakeMetricsPublisher) Flush(context.Context) error { return nil }

// fakeCache хранит JSON как Redis-реализация
type fakeCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	sets     chan string
	patterns []string
	deleted  chan string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		data:    make(map[string][]byte),
		sets:    make(chan string, 16),
		deleted: make(chan string, 16),
	}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	c.sets <- key
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	c.patterns = append(c.patterns, pattern)
	c.mu.Unlock()
	c.deleted <- pattern
	return nil
}

func (c *fakeCache) Close() error { return nil }

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async cache call")
		return ""
	}
}
