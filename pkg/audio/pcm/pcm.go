package pcm

import (
	"fmt"
	"time"
)

// Format names one of the fixed L16 PCM layouts the recognition engines
// accept. All of them are 16-bit mono; only the sample rate differs.
type Format int

const (
	L16Mono16K Format = iota // audio/L16; rate=16000; channels=1
	L16Mono24K               // audio/L16; rate=24000; channels=1
	L16Mono48K               // audio/L16; rate=48000; channels=1
)

var sampleRates = [...]int{16000, 24000, 48000}

// SampleRate returns the sample rate in Hz.
func (f Format) SampleRate() int {
	if f < 0 || int(f) >= len(sampleRates) {
		panic("pcm: invalid format")
	}
	return sampleRates[f]
}

// Channels returns the channel count, 1 for every supported format.
func (f Format) Channels() int { return 1 }

// Depth returns the bit depth, 16 for every supported format.
func (f Format) Depth() int { return 16 }

// frameBytes is the size of one sample frame: depth/8 * channels.
func (f Format) frameBytes() int64 {
	return int64(f.Depth()/8) * int64(f.Channels())
}

// Samples returns how many samples the given byte count holds.
func (f Format) Samples(bytes int64) int64 {
	return bytes / f.frameBytes()
}

// SamplesInDuration returns how many samples play in d.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(d) * int64(f.SampleRate()) / int64(time.Second)
}

// BytesInDuration returns how many PCM bytes play in d.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * f.frameBytes()
}

// Duration returns the play time of the given byte count.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Samples(bytes) * int64(time.Second) / int64(f.SampleRate()))
}

// String renders the format in the MIME style audio endpoints use.
func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate(), f.Channels())
}

// Buffer holds decoded audio as normalized float32 samples in [-1, 1].
// Interleaved when Channels > 1. Buffers are treated as immutable once
// constructed; the recognition engines only ever read them.
type Buffer struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// NewBuffer creates a buffer over the given samples.
func NewBuffer(samples []float32, sampleRate, channels int) *Buffer {
	return &Buffer{Samples: samples, SampleRate: sampleRate, Channels: channels}
}

// FromInt16 creates a buffer from 16-bit PCM samples.
func FromInt16(samples []int16, sampleRate, channels int) *Buffer {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768.0
	}
	return &Buffer{Samples: out, SampleRate: sampleRate, Channels: channels}
}

// FromBytes creates a buffer from little-endian 16-bit PCM bytes.
// A trailing odd byte is ignored.
func FromBytes(data []byte, sampleRate, channels int) *Buffer {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		out[i] = float32(s) / 32768.0
	}
	return &Buffer{Samples: out, SampleRate: sampleRate, Channels: channels}
}

// Empty reports whether the buffer holds no samples.
func (b *Buffer) Empty() bool {
	return b == nil || len(b.Samples) == 0
}

// Duration returns the play time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 || b.Channels <= 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// Int16 converts the samples to 16-bit PCM, clamping out-of-range values.
func (b *Buffer) Int16() []int16 {
	out := make([]int16, len(b.Samples))
	for i, s := range b.Samples {
		out[i] = sampleToInt16(s)
	}
	return out
}

// Bytes converts the samples to little-endian 16-bit PCM bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.Samples)*2)
	for i, s := range b.Samples {
		v := uint16(sampleToInt16(s))
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

func sampleToInt16(s float32) int16 {
	v := s * 32767.0
	if v > 32767.0 {
		v = 32767.0
	} else if v < -32768.0 {
		v = -32768.0
	}
	return int16(v)
}

// Int16ToBytes converts 16-bit samples to little-endian bytes.
// Used by the streaming pipeline, which carries raw sample chunks.
func Int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[2*i] = byte(uint16(s))
		out[2*i+1] = byte(uint16(s) >> 8)
	}
	return out
}
