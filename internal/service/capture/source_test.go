package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// buildWAV writes a minimal RIFF/WAVE file, optionally with a LIST chunk
// between fmt and data.
func buildWAV(format WAVFormat, data []byte, withList bool) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian

	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	body.WriteString("fmt ")
	binary.Write(body, le, uint32(16))
	binary.Write(body, le, format.AudioFormat)
	binary.Write(body, le, format.Channels)
	binary.Write(body, le, format.SampleRate)
	blockAlign := format.Channels * format.BitsPerSample / 8
	binary.Write(body, le, format.SampleRate*uint32(blockAlign))
	binary.Write(body, le, blockAlign)
	binary.Write(body, le, format.BitsPerSample)

	if withList {
		body.WriteString("LIST")
		binary.Write(body, le, uint32(3))
		body.Write([]byte{'a', 'b', 'c', 0}) // odd size plus pad byte
	}

	body.WriteString("data")
	binary.Write(body, le, uint32(len(data)))
	body.Write(data)

	b.WriteString("RIFF")
	binary.Write(&b, le, uint32(body.Len()))
	b.Write(body.Bytes())
	return b.Bytes()
}

func pcmFormat() WAVFormat {
	return WAVFormat{AudioFormat: 1, Channels: 1, SampleRate: 16000, BitsPerSample: 16}
}

func collect(t *testing.T, src Source) [][]byte {
	t.Helper()
	frames := make(chan []byte, 1024)
	if err := src.Start(context.Background(), frames); err != nil {
		t.Fatalf("start: %v", err)
	}
	close(frames)
	var out [][]byte
	for f := range frames {
		out = append(out, f)
	}
	return out
}

func TestReadWAVHeader(t *testing.T) {
	for _, withList := range []bool{false, true} {
		raw := buildWAV(pcmFormat(), make([]byte, 100), withList)
		format, size, err := ReadWAVHeader(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("withList=%v: %v", withList, err)
		}
		if format != pcmFormat() {
			t.Errorf("withList=%v: format = %+v", withList, format)
		}
		if size != 100 {
			t.Errorf("withList=%v: data size = %d", withList, size)
		}
	}
}

func TestReadWAVHeader_NotWAV(t *testing.T) {
	_, _, err := ReadWAVHeader(bytes.NewReader([]byte("OggS\x00\x00\x00\x00vorbis")))
	if !errors.Is(err, ErrNotWAV) {
		t.Fatalf("expected ErrNotWAV, got %v", err)
	}
}

func TestNewWAVSource_RejectsNonPCM16(t *testing.T) {
	tests := []struct {
		name   string
		format WAVFormat
	}{
		{"float", WAVFormat{AudioFormat: 3, Channels: 1, SampleRate: 16000, BitsPerSample: 32}},
		{"8 bit", WAVFormat{AudioFormat: 1, Channels: 1, SampleRate: 8000, BitsPerSample: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := buildWAV(tt.format, make([]byte, 64), false)
			if _, err := NewWAVSource(bytes.NewReader(raw), false); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestWAVSource_EmitsDataInOrder(t *testing.T) {
	data := make([]byte, 2*DefaultFramesPerBuffer*2+100)
	for i := range data {
		data[i] = byte(i)
	}
	src, err := NewWAVSource(bytes.NewReader(buildWAV(pcmFormat(), data, true)), false)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	frames := collect(t, src)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if len(frames[0]) != DefaultFramesPerBuffer*2 || len(frames[2]) != 100 {
		t.Errorf("unexpected frame sizes %d, %d", len(frames[0]), len(frames[2]))
	}
	if got := bytes.Join(frames, nil); !bytes.Equal(got, data) {
		t.Error("frames do not reassemble to the data chunk")
	}
}

func TestWAVSource_StopsOnCancel(t *testing.T) {
	src, err := NewWAVSource(bytes.NewReader(buildWAV(pcmFormat(), make([]byte, 1<<16), false)), true)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan []byte, 1)

	done := make(chan error, 1)
	go func() { done <- src.Start(ctx, frames) }()

	<-frames
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("source did not stop after cancel")
	}
}

func TestToneSource_Duration(t *testing.T) {
	src := &ToneSource{Frequency: 440, Amplitude: 0.5, SampleRate: 16000, Duration: 100 * time.Millisecond}

	frames := collect(t, src)
	total := 0
	for _, f := range frames {
		total += len(f)
	}
	if total != 1600*2 {
		t.Fatalf("expected %d bytes of audio, got %d", 1600*2, total)
	}

	var peak int16
	for _, f := range frames {
		for i := 0; i+1 < len(f); i += 2 {
			if v := int16(binary.LittleEndian.Uint16(f[i:])); v > peak {
				peak = v
			}
		}
	}
	if peak < 16000 || peak > 16384 {
		t.Errorf("peak sample %d does not match amplitude 0.5", peak)
	}
}

func TestToneSource_StereoDuplicatesChannels(t *testing.T) {
	src := &ToneSource{Frequency: 1000, Amplitude: 0.2, SampleRate: 8000, Channels: 2, FramesPerBuffer: 80, Duration: 10 * time.Millisecond}

	frames := collect(t, src)
	if len(frames) != 1 || len(frames[0]) != 80*2*2 {
		t.Fatalf("unexpected frames: %d", len(frames))
	}
	f := frames[0]
	for i := 0; i+3 < len(f); i += 4 {
		if f[i] != f[i+2] || f[i+1] != f[i+3] {
			t.Fatalf("channels differ at sample %d", i/4)
		}
	}
}
