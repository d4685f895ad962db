// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stt_gateway"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// RPC metrics
	RPCsTotal   *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// Session metrics
	SessionsTotal    prometheus.Counter
	SessionsActive   prometheus.Gauge
	SessionsWaiting  prometheus.Gauge
	SessionsEnded    *prometheus.CounterVec
	SessionDuration  prometheus.Histogram
	SessionsRejected *prometheus.CounterVec

	// Transcript metrics
	TranscriptsPartial   prometheus.Counter
	TranscriptsFinal     prometheus.Counter
	TranscriptsDiscarded *prometheus.CounterVec

	// Audio metrics
	AudioBytesReceived  prometheus.Counter
	AudioFramesReceived prometheus.Counter
	AudioFramesSent     prometheus.Counter
	BufferDepth         prometheus.Histogram

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
	KafkaPublishDropped *prometheus.CounterVec

	// Backend metrics
	BackendConnectLatency *prometheus.HistogramVec
	BackendErrors         *prometheus.CounterVec
	BackendFinalLatency   prometheus.Histogram

	// Backpressure metrics
	BackpressureExceeded prometheus.Counter
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all metrics and registers them with reg. Tests pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// RPC metrics
		RPCsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_calls_total",
			Help:      "Total number of gRPC calls, by method and status code",
		}, []string{"method", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_call_duration_seconds",
			Help:      "Duration of gRPC calls in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"method"}),

		// Session metrics
		SessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of transcription sessions started",
		}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions currently bridging audio",
		}),
		SessionsWaiting: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_waiting",
			Help:      "Number of streams waiting for a free worker",
		}),
		SessionsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Total number of sessions ended, by terminal state",
		}, []string{"state"}),
		SessionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of transcription sessions in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		SessionsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_rejected_total",
			Help:      "Total number of sessions rejected before streaming",
		}, []string{"reason"}),

		// Transcript metrics
		TranscriptsPartial: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_partial_total",
			Help:      "Total number of partial hypotheses received from the backend",
		}),
		TranscriptsFinal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_final_total",
			Help:      "Total number of final transcripts forwarded to callers",
		}),
		TranscriptsDiscarded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_discarded_total",
			Help:      "Total number of backend messages not forwarded",
		}, []string{"kind"}),

		// Audio metrics
		AudioBytesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_received_total",
			Help:      "Total audio bytes received from callers",
		}),
		AudioFramesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_received_total",
			Help:      "Total audio frames received from callers",
		}),
		AudioFramesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_sent_total",
			Help:      "Total audio frames forwarded to the backend",
		}),
		BufferDepth: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "buffer_depth_frames",
			Help:      "Frames pending in the session buffer after each enqueue",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),

		// Kafka publish metrics
		KafkaPublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
		KafkaPublishDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_dropped_total",
			Help:      "Transcript events dropped because the session publish queue was full",
		}, []string{"event_type"}),

		// Backend metrics
		BackendConnectLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_connect_latency_seconds",
			Help:      "Time to open a backend connection and send its config",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider"}),
		BackendErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Total number of backend errors",
		}, []string{"provider", "error_type"}),
		BackendFinalLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_final_latency_seconds",
			Help:      "Time from the last audio send to a final transcript",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		}),

		// Backpressure metrics
		BackpressureExceeded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backpressure_exceeded_total",
			Help:      "Total number of sessions failed because the buffer stayed full",
		}),
	}
}

// RecordRPC records a completed gRPC call.
func (m *Metrics) RecordRPC(method, code string, durationSeconds float64) {
	m.RPCsTotal.WithLabelValues(method, code).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordSessionStart records a new session starting.
func (m *Metrics) RecordSessionStart() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session reaching a terminal state.
func (m *Metrics) RecordSessionEnd(state string, durationSeconds float64) {
	m.SessionsActive.Dec()
	m.SessionDuration.Observe(durationSeconds)
	m.SessionsEnded.WithLabelValues(state).Inc()
}

// RecordSessionRejected records a stream refused before it started bridging.
func (m *Metrics) RecordSessionRejected(reason string) {
	m.SessionsRejected.WithLabelValues(reason).Inc()
}

// RecordWaiting adjusts the number of streams queued for a worker.
func (m *Metrics) RecordWaiting(delta float64) {
	m.SessionsWaiting.Add(delta)
}

// RecordPartialTranscript records a partial hypothesis received.
func (m *Metrics) RecordPartialTranscript() {
	m.TranscriptsPartial.Inc()
}

// RecordFinalTranscript records a final transcript forwarded.
func (m *Metrics) RecordFinalTranscript() {
	m.TranscriptsFinal.Inc()
}

// RecordDiscarded records a backend message that was not forwarded.
func (m *Metrics) RecordDiscarded(kind string) {
	m.TranscriptsDiscarded.WithLabelValues(kind).Inc()
}

// RecordAudioReceived records audio bytes and frames received.
func (m *Metrics) RecordAudioReceived(bytes int) {
	m.AudioBytesReceived.Add(float64(bytes))
	m.AudioFramesReceived.Inc()
}

// RecordAudioSent records a frame forwarded to the backend.
func (m *Metrics) RecordAudioSent() {
	m.AudioFramesSent.Inc()
}

// RecordBufferDepth records the buffer depth after an enqueue.
func (m *Metrics) RecordBufferDepth(depth int) {
	m.BufferDepth.Observe(float64(depth))
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordKafkaDropped records an event dropped before it reached the publisher.
func (m *Metrics) RecordKafkaDropped(eventType string) {
	m.KafkaPublishDropped.WithLabelValues(eventType).Inc()
}

// RecordBackendConnect records a backend connect attempt.
func (m *Metrics) RecordBackendConnect(provider string, latencySeconds float64) {
	m.BackendConnectLatency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordBackendError records a backend error.
func (m *Metrics) RecordBackendError(provider, errorType string) {
	m.BackendErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordFinalLatency records the delay between the last audio send and a final.
func (m *Metrics) RecordFinalLatency(seconds float64) {
	m.BackendFinalLatency.Observe(seconds)
}

// RecordBackpressure records a session failed for backpressure.
func (m *Metrics) RecordBackpressure() {
	m.BackpressureExceeded.Inc()
}
