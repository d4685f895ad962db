package bridge

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"stt-gateway/internal/events"
	"stt-gateway/internal/models"
	"stt-gateway/internal/observability/metrics"
)

const (
	// publishTimeout bounds a single Kafka write.
	publishTimeout = 2 * time.Second
	// publishQueueSize is how many events a session may have waiting for Kafka
	// before new ones are dropped.
	publishQueueSize = 32
)

// eventQueue hands transcript events to a per-session goroutine so a slow
// broker never holds up egestion. Events keep their order; when the queue
// is full new events are dropped.
type eventQueue struct {
	publisher *events.Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	items  chan any
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newEventQueue(p *events.Publisher, m *metrics.Metrics, logger zerolog.Logger) *eventQueue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &eventQueue{
		publisher: p,
		metrics:   m,
		logger:    logger,
		items:     make(chan any, publishQueueSize),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *eventQueue) run() {
	defer close(q.done)
	defer q.cancel()
	for item := range q.items {
		ctx, cancel := context.WithTimeout(q.ctx, publishTimeout)
		var err error
		switch ev := item.(type) {
		case models.TranscriptPartial:
			err = q.publisher.PublishPartial(ctx, ev)
		case models.TranscriptFinal:
			err = q.publisher.PublishFinal(ctx, ev)
		}
		cancel()
		if err != nil {
			q.logger.Warn().Err(err).Msg("Failed to publish transcript event")
		}
	}
}

// offer queues ev without blocking and reports whether it was accepted.
func (q *eventQueue) offer(ev any, kind string) bool {
	select {
	case q.items <- ev:
		return true
	default:
		q.metrics.RecordKafkaDropped(kind)
		q.logger.Debug().Str("eventType", kind).Msg("Publish queue full, dropping event")
		return false
	}
}

// close stops accepting events. Queued events get up to flush to reach
// Kafka; anything still pending after that is abandoned.
func (q *eventQueue) close(flush time.Duration) {
	close(q.items)
	time.AfterFunc(flush, q.cancel)
}
