package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/chaos-dashboard/pkg/logger"
	"github.com/nats-io/nats.go"
)

// Defaults for the incident stream
const (
	DefaultStreamName    = "CHAOS_INCIDENTS"
	DefaultStreamSubject = "chaos.incident.>"
)

const ackWait = 5 * time.Second

// Config holds NATS connection and stream settings.
type Config struct {
	URL           string
	StreamName    string
	StreamSubject string
	MaxAge        time.Duration
}

// NATSPublisher implements port.EventPublisher for NATS JetStream
type NATSPublisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewNATSPublisher connects to NATS and makes sure the incident stream exists.
func NewNATSPublisher(cfg Config, log *logger.Logger) (*NATSPublisher, error) {
	if cfg.StreamName == "" {
		cfg.StreamName = DefaultStreamName
	}
	if cfg.StreamSubject == "" {
		cfg.StreamSubject = DefaultStreamSubject
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("chaos-dashboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	if err := ensureStream(js, cfg); err != nil {
		nc.Close()
		return nil, err
	}

	log.Info("Connected to NATS", "url", cfg.URL, "stream", cfg.StreamName)

	return &NATSPublisher{
		nc:     nc,
		js:     js,
		logger: log,
	}, nil
}

// ensureStream creates the incident stream when it is missing.
func ensureStream(js nats.JetStreamContext, cfg Config) error {
	_, err := js.StreamInfo(cfg.StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", cfg.StreamName, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.StreamSubject},
		Storage:  nats.MemoryStorage,
		MaxAge:   cfg.MaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

// PublishEvent publishes an event to JetStream (async)
func (p *NATSPublisher) PublishEvent(ctx context.Context, subject string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")

	// Async publish (fire-and-forget), ack errors are only logged
	future, err := p.js.PublishMsgAsync(msg)
	if err != nil {
		p.logger.Error("Failed to publish event", err, "subject", subject)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	go func() {
		select {
		case <-future.Ok():
		case err := <-future.Err():
			p.logger.Warn("Event was not acknowledged", "subject", subject, "error", err.Error())
		case <-time.After(ackWait):
			p.logger.Warn("Timed out waiting for event ack", "subject", subject)
		}
	}()

	p.logger.Debug("Event published", "subject", subject, "size", len(data))

	return nil
}

// Close drains pending publishes and closes the NATS connection
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}

	p.logger.Info("Closing NATS connection")
	select {
	case <-p.js.PublishAsyncComplete():
	case <-time.After(2 * time.Second):
		p.logger.Warn("Timed out waiting for pending NATS acks")
	}
	p.nc.Close()
	return nil
}
