package capture

import (
	"context"
	"math"
	"time"
)

// ToneSource synthesises a sine wave. It stands in for a microphone in
// smoke tests and on machines without audio devices.
type ToneSource struct {
	Frequency       float64
	Amplitude       float64 // 0..1
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	// Duration bounds the tone; zero runs until ctx is cancelled.
	Duration time.Duration
	// Realtime paces frames at the sample rate.
	Realtime bool
}

// NewToneSource returns a real-time 440 Hz tone at sampleRate.
func NewToneSource(sampleRate int, duration time.Duration) *ToneSource {
	return &ToneSource{
		Frequency:       440,
		Amplitude:       0.3,
		SampleRate:      sampleRate,
		Channels:        DefaultChannels,
		FramesPerBuffer: DefaultFramesPerBuffer,
		Duration:        duration,
		Realtime:        true,
	}
}

func (t *ToneSource) Start(ctx context.Context, frames chan<- []byte) error {
	if t.SampleRate <= 0 {
		t.SampleRate = DefaultSampleRate
	}
	if t.Channels <= 0 {
		t.Channels = DefaultChannels
	}
	if t.FramesPerBuffer <= 0 {
		t.FramesPerBuffer = DefaultFramesPerBuffer
	}

	total := -1
	if t.Duration > 0 {
		total = int(t.Duration.Seconds() * float64(t.SampleRate))
	}

	var tick <-chan time.Time
	if t.Realtime {
		ticker := time.NewTicker(frameDuration(t.FramesPerBuffer, t.SampleRate))
		defer ticker.Stop()
		tick = ticker.C
	}

	step := 2 * math.Pi * t.Frequency / float64(t.SampleRate)
	n := 0
	for total < 0 || n < total {
		count := t.FramesPerBuffer
		if total >= 0 && total-n < count {
			count = total - n
		}
		samples := make([]float32, count*t.Channels)
		for i := 0; i < count; i++ {
			v := float32(t.Amplitude * math.Sin(step*float64(n+i)))
			for c := 0; c < t.Channels; c++ {
				samples[i*t.Channels+c] = v
			}
		}
		n += count

		if !Deliver(ctx, frames, Int16ToBytes(Float32ToPCM16(samples))) {
			return nil
		}
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return nil
			}
		}
	}
	return nil
}

func (t *ToneSource) Close() error { return nil }
