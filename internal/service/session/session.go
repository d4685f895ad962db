package session

import (
	"github.com/google/uuid"
)

// Defaults used when a caller opens a stream without sending a config.
const (
	DefaultSampleRateHz = 16000
	DefaultChannels     = 1
	DefaultEncoding     = "LINEAR16"
)

// Config is the immutable audio format of a session, fixed at creation and
// sent once to the backend.
type Config struct {
	SessionID    string
	SampleRateHz int32
	Channels     int32
	Encoding     string
}

// DefaultConfig returns the config synthesised for callers that skip the
// config message.
func DefaultConfig(sampleRateHz int32) Config {
	if sampleRateHz <= 0 {
		sampleRateHz = DefaultSampleRateHz
	}
	return Config{
		SessionID:    NewID(),
		SampleRateHz: sampleRateHz,
		Channels:     DefaultChannels,
		Encoding:     DefaultEncoding,
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults(sampleRateHz int32) Config {
	def := DefaultConfig(sampleRateHz)
	if c.SessionID == "" {
		c.SessionID = def.SessionID
	}
	if c.SampleRateHz == 0 {
		c.SampleRateHz = def.SampleRateHz
	}
	if c.Channels == 0 {
		c.Channels = def.Channels
	}
	if c.Encoding == "" {
		c.Encoding = def.Encoding
	}
	return c
}

// AudioFrame is one chunk of PCM16 audio. Seq is monotonic per session and
// only used for diagnostics; ordering comes from the buffer's FIFO order.
type AudioFrame struct {
	Seq  uint64
	Data []byte
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}
