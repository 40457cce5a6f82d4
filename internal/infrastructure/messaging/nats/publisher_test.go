package nats

import (
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

type fakeJetStream struct {
	nats.JetStreamContext

	infoErr error
	added   *nats.StreamConfig
	addErr  error
}

func (f *fakeJetStream) StreamInfo(stream string, _ ...nats.JSOpt) (*nats.StreamInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return &nats.StreamInfo{Config: nats.StreamConfig{Name: stream}}, nil
}

func (f *fakeJetStream) AddStream(cfg *nats.StreamConfig, _ ...nats.JSOpt) (*nats.StreamInfo, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = cfg
	return &nats.StreamInfo{Config: *cfg}, nil
}

func TestEnsureStreamExisting(t *testing.T) {
	js := &fakeJetStream{}
	if err := ensureStream(js, Config{StreamName: DefaultStreamName, StreamSubject: DefaultStreamSubject}); err != nil {
		t.Fatalf("ensureStream() error = %v", err)
	}
	if js.added != nil {
		t.Fatalf("stream should not be created when it exists")
	}
}

func TestEnsureStreamCreatesMissing(t *testing.T) {
	js := &fakeJetStream{infoErr: nats.ErrStreamNotFound}
	cfg := Config{StreamName: "INCIDENTS", StreamSubject: "chaos.incident.>", MaxAge: time.Hour}

	if err := ensureStream(js, cfg); err != nil {
		t.Fatalf("ensureStream() error = %v", err)
	}
	if js.added == nil {
		t.Fatalf("expected stream to be created")
	}
	if js.added.Name != "INCIDENTS" || len(js.added.Subjects) != 1 || js.added.Subjects[0] != "chaos.incident.>" {
		t.Fatalf("unexpected stream config: %+v", js.added)
	}
	if js.added.Storage != nats.MemoryStorage || js.added.MaxAge != time.Hour {
		t.Fatalf("unexpected storage settings: %+v", js.added)
	}
}

func TestEnsureStreamLookupFailure(t *testing.T) {
	lookupErr := errors.New("timeout")
	js := &fakeJetStream{infoErr: lookupErr}

	err := ensureStream(js, Config{StreamName: DefaultStreamName})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
	if js.added != nil {
		t.Fatalf("stream should not be created after lookup failure")
	}
}

func TestEnsureStreamCreateFailure(t *testing.T) {
	createErr := errors.New("insufficient resources")
	js := &fakeJetStream{infoErr: nats.ErrStreamNotFound, addErr: createErr}

	if err := ensureStream(js, Config{StreamName: DefaultStreamName}); !errors.Is(err, createErr) {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
}
