package capture

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// WAVFormat is the format chunk of a PCM WAV file.
type WAVFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

var ErrNotWAV = errors.New("capture: not a RIFF/WAVE file")

// ReadWAVHeader consumes r up to the first byte of the data chunk and
// returns the format and the data length. Chunks other than fmt and data
// are skipped.
func ReadWAVHeader(r io.Reader) (WAVFormat, uint32, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return WAVFormat{}, 0, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return WAVFormat{}, 0, ErrNotWAV
	}

	var (
		format  WAVFormat
		haveFmt bool
		chunk   [8]byte
	)
	for {
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return WAVFormat{}, 0, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return WAVFormat{}, 0, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return WAVFormat{}, 0, fmt.Errorf("read fmt chunk: %w", err)
			}
			format = WAVFormat{
				AudioFormat:   binary.LittleEndian.Uint16(body[0:2]),
				Channels:      binary.LittleEndian.Uint16(body[2:4]),
				SampleRate:    binary.LittleEndian.Uint32(body[4:8]),
				BitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
			}
			haveFmt = true
			if size%2 == 1 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return WAVFormat{}, 0, err
				}
			}
		case "data":
			if !haveFmt {
				return WAVFormat{}, 0, errors.New("data chunk before fmt chunk")
			}
			return format, size, nil
		default:
			// chunks are word aligned
			if _, err := io.CopyN(io.Discard, r, int64(size+size%2)); err != nil {
				return WAVFormat{}, 0, fmt.Errorf("skip %q chunk: %w", id, err)
			}
		}
	}
}

// WAVSource streams the data chunk of a 16-bit PCM WAV file.
type WAVSource struct {
	r      io.Reader
	closer io.Closer
	format WAVFormat

	framesPerBuffer int
	realtime        bool
}

// OpenWAV opens path and validates that it holds 16-bit PCM. Frames are
// paced at the file's sample rate so the gateway sees live-like traffic.
func OpenWAV(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := NewWAVSource(f, true)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.closer = f
	return s, nil
}

// NewWAVSource reads the header from r. With realtime false frames are
// emitted as fast as the receiver takes them.
func NewWAVSource(r io.Reader, realtime bool) (*WAVSource, error) {
	format, size, err := ReadWAVHeader(r)
	if err != nil {
		return nil, err
	}
	if format.AudioFormat != 1 {
		return nil, fmt.Errorf("unsupported audio format %d, only PCM is supported", format.AudioFormat)
	}
	if format.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported sample width %d bits, only 16-bit is supported", format.BitsPerSample)
	}
	if format.Channels == 0 {
		return nil, errors.New("wav declares zero channels")
	}
	return &WAVSource{
		r:               io.LimitReader(r, int64(size)),
		format:          format,
		framesPerBuffer: DefaultFramesPerBuffer,
		realtime:        realtime,
	}, nil
}

// Format returns the file's format.
func (s *WAVSource) Format() WAVFormat { return s.format }

// Start emits the file in frames and returns nil at the end of the data.
func (s *WAVSource) Start(ctx context.Context, frames chan<- []byte) error {
	frameBytes := s.framesPerBuffer * int(s.format.Channels) * 2

	var tick <-chan time.Time
	if s.realtime {
		ticker := time.NewTicker(frameDuration(s.framesPerBuffer, int(s.format.SampleRate)))
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		frame := make([]byte, frameBytes)
		n, err := io.ReadFull(s.r, frame)
		if n > 0 {
			if !Deliver(ctx, frames, frame[:n]) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read wav data: %w", err)
		}

		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Close closes the underlying file, if any.
func (s *WAVSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
