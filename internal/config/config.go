// Package config loads gateway configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full gateway configuration.
type Config struct {
	Service       ServiceConfig
	STT           STTConfig
	Session       SessionConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds process identity and bind addresses.
type ServiceConfig struct {
	Principal     string
	GRPCHost      string
	GRPCPort      string
	ShutdownGrace time.Duration
}

// GRPCAddr returns the host:port the gRPC server binds to.
func (s ServiceConfig) GRPCAddr() string {
	return s.GRPCHost + ":" + s.GRPCPort
}

// STTConfig selects and configures the recognition backend.
type STTConfig struct {
	Provider        string // vosk, google, mock
	VoskURI         string
	SampleRateHz    int32
	LanguageCode    string
	InterimResults  bool
	AudioEncoding   string
	CredentialsFile string
	ConnectTimeout  time.Duration
	WriteTimeout    time.Duration
}

// SessionConfig bounds each session and the number running at once.
type SessionConfig struct {
	MaxConcurrent      int
	BufferFrames       int
	EnqueueTimeout     time.Duration
	EnqueueCeiling     time.Duration
	AudioPoll          time.Duration
	EventPoll          time.Duration
	DrainTimeout       time.Duration
	BackendLossIsError bool
}

// KafkaConfig holds transcript event publishing settings.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicPartial string
	TopicFinal   string
	Principal    string
}

// ObservabilityConfig holds logging and HTTP settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
	LogDir    string
	HTTPAddr  string
}

// LoadEnvFile loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads configuration from the environment. Invalid values fall back
// to defaults.
func Load() *Config {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-stt-gateway")

	return &Config{
		Service: ServiceConfig{
			Principal:     principal,
			GRPCHost:      envOrDefault("GRPC_HOST", ""),
			GRPCPort:      envOrDefault("GRPC_PORT", "50051"),
			ShutdownGrace: envOrDefaultDuration("SHUTDOWN_GRACE", 5*time.Second),
		},
		STT: STTConfig{
			Provider:        strings.ToLower(envOrDefault("STT_PROVIDER", "vosk")),
			VoskURI:         envOrDefault("VOSK_URI", "ws://localhost:2700"),
			SampleRateHz:    int32(envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000)),
			LanguageCode:    envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			InterimResults:  envOrDefaultBool("STT_INTERIM_RESULTS", true),
			AudioEncoding:   envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
			CredentialsFile: envOrDefault("GOOGLE_CREDENTIALS_FILE", ""),
			ConnectTimeout:  envOrDefaultDuration("BACKEND_CONNECT_TIMEOUT", 10*time.Second),
			WriteTimeout:    envOrDefaultDuration("BACKEND_WRITE_TIMEOUT", 5*time.Second),
		},
		Session: SessionConfig{
			MaxConcurrent:      envOrDefaultInt("SESSION_MAX_CONCURRENT", 10),
			BufferFrames:       envOrDefaultInt("SESSION_BUFFER_FRAMES", 256),
			EnqueueTimeout:     envOrDefaultDuration("SESSION_ENQUEUE_TIMEOUT", 100*time.Millisecond),
			EnqueueCeiling:     envOrDefaultDuration("SESSION_ENQUEUE_CEILING", 5*time.Second),
			AudioPoll:          envOrDefaultDuration("SESSION_AUDIO_POLL", 100*time.Millisecond),
			EventPoll:          envOrDefaultDuration("SESSION_EVENT_POLL", 50*time.Millisecond),
			DrainTimeout:       envOrDefaultDuration("SESSION_DRAIN_TIMEOUT", 10*time.Second),
			BackendLossIsError: strings.EqualFold(envOrDefault("SESSION_BACKEND_LOSS_POLICY", "close"), "error"),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      splitList(envOrDefault("KAFKA_BROKERS", "")),
			TopicPartial: envOrDefault("KAFKA_TOPIC_PARTIAL", "stt.transcript.partial"),
			TopicFinal:   envOrDefault("KAFKA_TOPIC_FINAL", "stt.transcript.final"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
			LogDir:    envOrDefault("LOG_DIR", ""),
			HTTPAddr:  envOrDefault("HTTP_ADDR", ":9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
