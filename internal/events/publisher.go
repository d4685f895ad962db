// Package events publishes transcript events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"stt-gateway/internal/models"
	"stt-gateway/internal/observability/metrics"
	"stt-gateway/internal/schema"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// topic pairs a writer with the topic and event kind it carries. The writer
// is nil in log-only mode.
type topic struct {
	name   string
	kind   string
	writer MessageWriter
}

// Publisher emits partial and final transcripts on separate topics, keyed
// by session id so a session's events stay ordered within one partition.
type Publisher struct {
	partial   topic
	final     topic
	principal string
	metrics   *metrics.Metrics
	validator *schema.Validator
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers      []string
	TopicPartial string
	TopicFinal   string
	Principal    string
	Enabled      bool
	// WriteTimeout and BatchTimeout default to 10s and 10ms.
	WriteTimeout time.Duration
	BatchTimeout time.Duration
	// Metrics defaults to metrics.DefaultMetrics.
	Metrics *metrics.Metrics
}

// New creates a publisher. With Kafka disabled, or no brokers, events are
// validated and logged but not written.
func New(cfg *Config) *Publisher {
	if cfg == nil {
		cfg = &Config{}
	}
	p := newPublisher(cfg)

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return p
	}

	// longer dial timeout for DNS resolution in Kubernetes
	transport := &kafka.Transport{
		Dial: (&kafka.Dialer{Timeout: 10 * time.Second, DualStack: true}).DialFunc,
	}
	p.partial.writer = newWriter(cfg, cfg.TopicPartial, transport)
	p.final.writer = newWriter(cfg, cfg.TopicFinal, transport)

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicPartial", cfg.TopicPartial).
		Str("topicFinal", cfg.TopicFinal).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")
	return p
}

// NewWithWriters creates a publisher that writes through the given writers
// instead of dialing brokers. cfg supplies topics, principal and metrics.
func NewWithWriters(cfg *Config, partial, final MessageWriter) *Publisher {
	if cfg == nil {
		cfg = &Config{}
	}
	p := newPublisher(cfg)
	p.partial.writer = partial
	p.final.writer = final
	return p
}

func newPublisher(cfg *Config) *Publisher {
	p := &Publisher{
		partial:   topic{name: cfg.TopicPartial, kind: "partial"},
		final:     topic{name: cfg.TopicFinal, kind: "final"},
		principal: cfg.Principal,
		metrics:   cfg.Metrics,
		validator: schema.New(),
	}
	if p.metrics == nil {
		p.metrics = metrics.DefaultMetrics
	}
	return p
}

func newWriter(cfg *Config, name string, transport *kafka.Transport) *kafka.Writer {
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        name,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}
}

// Enabled reports whether events are written to Kafka.
func (p *Publisher) Enabled() bool {
	return p != nil && p.partial.writer != nil && p.final.writer != nil
}

// PublishPartial publishes an interim hypothesis.
func (p *Publisher) PublishPartial(ctx context.Context, event models.TranscriptPartial) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.partial, event.SessionID, event.Provider, event)
}

// PublishFinal publishes a final transcript.
func (p *Publisher) PublishFinal(ctx context.Context, event models.TranscriptFinal) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.final, event.SessionID, event.Provider, event)
}

func (p *Publisher) publish(ctx context.Context, t topic, sessionID, provider string, event any) error {
	start := time.Now()

	if err := p.validator.Validate(event); err != nil {
		log.Warn().Err(err).Str("topic", t.name).Str("sessionId", sessionID).Msg("Dropping invalid event")
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", t.name).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("topic", t.name).
		Str("sessionId", sessionID).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if t.writer == nil {
		p.metrics.RecordKafkaPublish(t.name, t.kind, nil, time.Since(start).Seconds())
		return nil
	}

	err = t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(t.kind)},
			{Key: "principal", Value: []byte(p.principal)},
			{Key: "sttProvider", Value: []byte(provider)},
		},
	})
	p.metrics.RecordKafkaPublish(t.name, t.kind, err, time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Str("topic", t.name).Str("sessionId", sessionID).Msg("Failed to write to Kafka")
		return err
	}
	return nil
}

// Close flushes and closes both writers.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, t := range []topic{p.partial, p.final} {
		if t.writer == nil {
			continue
		}
		if err := t.writer.Close(); err != nil {
			log.Error().Err(err).Str("topic", t.name).Msg("Error closing Kafka writer")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
