package cloudwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	applicationPort "github.com/dreschagin/chaos-dashboard/internal/application/port"
)

type fakeCloudWatch struct {
	mu       sync.Mutex
	inputs   []*cloudwatch.PutMetricDataInput
	failures int
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("throttled")
	}
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func testSample() applicationPort.StateSample {
	return applicationPort.StateSample{
		Timestamp:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		SystemStatus:      "healthy",
		Transition:        "complete-recovery",
		ActivePods:        3,
		TotalPods:         3,
		AverageLatencyMs:  55,
		SimulationRunning: false,
		RecoverySeconds:   4,
	}
}

func TestConvertToData(t *testing.T) {
	p := newMetricsPublisher(&fakeCloudWatch{}, MetricsPublisherConfig{
		Namespace: "Test/Namespace",
		DefaultDimensions: map[string]string{
			"Environment": "test",
		},
		StorageResolution: 60,
		BufferSize:        10,
	}, nil)

	data := p.convertToData(testSample())
	if len(data) != 4 {
		t.Fatalf("expected 4 datums with recovery duration, got %d", len(data))
	}

	values := map[string]float64{}
	units := map[string]types.StandardUnit{}
	for _, datum := range data {
		values[*datum.MetricName] = *datum.Value
		units[*datum.MetricName] = datum.Unit

		if datum.StorageResolution == nil || *datum.StorageResolution != 60 {
			t.Errorf("%s: expected StorageResolution=60", *datum.MetricName)
		}
		if len(datum.Dimensions) != 2 {
			t.Errorf("%s: expected 2 dimensions, got %d", *datum.MetricName, len(datum.Dimensions))
		}
	}

	if values[MetricActivePods] != 3 || units[MetricActivePods] != types.StandardUnitCount {
		t.Errorf("unexpected ActivePods datum: %v %v", values[MetricActivePods], units[MetricActivePods])
	}
	if values[MetricAverageLatency] != 55 || units[MetricAverageLatency] != types.StandardUnitMilliseconds {
		t.Errorf("unexpected AverageLatency datum: %v %v", values[MetricAverageLatency], units[MetricAverageLatency])
	}
	if values[MetricRecoveryDuration] != 4 || units[MetricRecoveryDuration] != types.StandardUnitSeconds {
		t.Errorf("unexpected RecoveryDuration datum: %v %v", values[MetricRecoveryDuration], units[MetricRecoveryDuration])
	}

	sample := testSample()
	sample.RecoverySeconds = 0
	if got := len(p.convertToData(sample)); got != 3 {
		t.Fatalf("expected 3 datums without recovery, got %d", got)
	}
}

func TestPublishBatchAutoFlush(t *testing.T) {
	client := &fakeCloudWatch{}
	p := newMetricsPublisher(client, MetricsPublisherConfig{Namespace: "Test", BufferSize: 2}, nil)
	ctx := context.Background()

	if err := p.PublishBatch(ctx, []applicationPort.StateSample{testSample()}); err != nil {
		t.Fatalf("PublishBatch() error = %v", err)
	}
	if len(client.inputs) != 0 {
		t.Fatal("expected sample to stay buffered")
	}

	if err := p.PublishBatch(ctx, []applicationPort.StateSample{testSample()}); err != nil {
		t.Fatalf("PublishBatch() error = %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("expected auto-flush when buffer is full, got %d requests", len(client.inputs))
	}
	if *client.inputs[0].Namespace != "Test" || len(client.inputs[0].MetricData) != 8 {
		t.Fatalf("unexpected request: namespace=%s datums=%d", *client.inputs[0].Namespace, len(client.inputs[0].MetricData))
	}

	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatal("flushing an empty buffer must not call CloudWatch")
	}
}

func TestPublishSingleRetries(t *testing.T) {
	client := &fakeCloudWatch{failures: 2}
	p := newMetricsPublisher(client, MetricsPublisherConfig{Namespace: "Test", BufferSize: 10}, nil)

	if err := p.PublishSingle(context.Background(), testSample()); err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("expected one successful request, got %d", len(client.inputs))
	}

	client.failures = maxRetries
	if err := p.PublishSingle(context.Background(), testSample()); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestNormalizeMetricsConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    MetricsPublisherConfig
		expectErr bool
	}{
		{name: "valid config", config: MetricsPublisherConfig{Namespace: "Test/Namespace", Region: "us-east-1"}},
		{name: "missing namespace", config: MetricsPublisherConfig{Region: "us-east-1"}, expectErr: true},
		{name: "missing region", config: MetricsPublisherConfig{Namespace: "Test/Namespace"}, expectErr: true},
		{name: "invalid storage resolution", config: MetricsPublisherConfig{Namespace: "Test", Region: "us-east-1", StorageResolution: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := normalizeMetricsConfig(&cfg)
			if (err != nil) != tt.expectErr {
				t.Fatalf("normalizeMetricsConfig() error = %v, expectErr %v", err, tt.expectErr)
			}
			if err != nil {
				return
			}
			if cfg.BufferSize != 100 || cfg.FlushInterval != 10*time.Second {
				t.Errorf("defaults not applied: %+v", cfg)
			}
			if cfg.StorageResolution != 60 {
				t.Errorf("expected storage resolution 60, got %d", cfg.StorageResolution)
			}
		})
	}
}
