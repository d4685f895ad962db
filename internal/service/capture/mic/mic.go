// Package mic captures microphone audio through PortAudio. It needs cgo and
// the PortAudio headers, so it is kept apart from the pure-Go sources.
package mic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/service/capture"
)

// Config selects the microphone and its format.
type Config struct {
	SampleRate      float64
	Channels        int
	FramesPerBuffer int
	// Device is a numeric device index or a substring of the device name.
	// Empty selects the default input device.
	Device string
}

// DefaultConfig returns a 16 kHz mono config on the default device.
func DefaultConfig() Config {
	return Config{
		SampleRate:      capture.DefaultSampleRate,
		Channels:        capture.DefaultChannels,
		FramesPerBuffer: capture.DefaultFramesPerBuffer,
	}
}

// Source captures float32 samples from an input device and emits
// them as PCM16 frames.
type Source struct {
	config Config
	stream *portaudio.Stream
	buffer []float32
	device *portaudio.DeviceInfo
	logger zerolog.Logger
}

var _ capture.Source = (*Source)(nil)

// NewSource initialises PortAudio and opens the input stream.
// Close releases both.
func NewSource(config Config) (*Source, error) {
	if config.Channels <= 0 {
		config.Channels = capture.DefaultChannels
	}
	if config.FramesPerBuffer <= 0 {
		config.FramesPerBuffer = capture.DefaultFramesPerBuffer
	}
	if config.SampleRate <= 0 {
		config.SampleRate = capture.DefaultSampleRate
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialise portaudio: %w", err)
	}

	device, err := inputDevice(config.Device)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	s := &Source{
		config: config,
		buffer: make([]float32, config.FramesPerBuffer*config.Channels),
		device: device,
		logger: logging.WithComponent("mic"),
	}

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = config.Channels
	params.SampleRate = config.SampleRate
	params.FramesPerBuffer = config.FramesPerBuffer

	stream, err := portaudio.OpenStream(params, s.buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream on %q: %w", device.Name, err)
	}
	s.stream = stream

	s.logger.Info().
		Str("device", device.Name).
		Float64("sampleRate", config.SampleRate).
		Int("channels", config.Channels).
		Msg("Microphone opened")
	return s, nil
}

// Start reads the device until ctx is cancelled.
func (s *Source) Start(ctx context.Context, frames chan<- []byte) error {
	if s.stream == nil {
		return errors.New("mic: stream not opened")
	}
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("start input stream: %w", err)
	}
	defer s.stream.Stop()

	for ctx.Err() == nil {
		if err := s.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				s.logger.Debug().Msg("Input overflowed")
			} else {
				s.logger.Warn().Err(err).Msg("Error reading audio")
			}
			continue
		}
		if !capture.Deliver(ctx, frames, capture.Int16ToBytes(capture.Float32ToPCM16(s.buffer))) {
			break
		}
	}
	return nil
}

// Close closes the stream and terminates PortAudio.
func (s *Source) Close() error {
	var err error
	if s.stream != nil {
		err = s.stream.Close()
		s.stream = nil
	}
	portaudio.Terminate()
	return err
}

func inputDevice(selector string) (*portaudio.DeviceInfo, error) {
	if selector == "" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
		return device, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return selectDevice(devices, selector)
}

// selectDevice resolves a numeric index or a case-insensitive name
// substring to an input-capable device.
func selectDevice(devices []*portaudio.DeviceInfo, selector string) (*portaudio.DeviceInfo, error) {
	if idx, err := strconv.Atoi(selector); err == nil {
		for _, d := range devices {
			if d.Index == idx {
				if d.MaxInputChannels == 0 {
					return nil, fmt.Errorf("device %d (%s) has no input channels", idx, d.Name)
				}
				return d, nil
			}
		}
		return nil, fmt.Errorf("no device with index %d", idx)
	}

	want := strings.ToLower(selector)
	var matches []*portaudio.DeviceInfo
	for _, d := range devices {
		if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), want) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no input device matching %q", selector)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("multiple input devices match %q", selector)
	}
}

// ListDevices prints every device PortAudio knows about.
func ListDevices(w io.Writer) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialise portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}
	writeDevices(w, devices)
	return nil
}

func writeDevices(w io.Writer, devices []*portaudio.DeviceInfo) {
	for _, d := range devices {
		host := ""
		if d.HostApi != nil {
			host = d.HostApi.Name
		}
		fmt.Fprintf(w, "%3d %s, %s (%d in, %d out) %.0f Hz\n",
			d.Index, d.Name, host, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
}
