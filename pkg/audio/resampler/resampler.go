package resampler

import (
	"fmt"
	"io"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Stream converts 16-bit PCM read from src between sample rates and channel
// layouts. It implements io.ReadCloser; Read is not safe for concurrent use.
type Stream struct {
	src  *frameReader
	from Format
	to   Format

	// conv 采样率转换器，源和目标采样率一致时为 nil
	conv    resampling.Resampler
	srcBuf  []byte
	pending []byte
	closed  bool
}

// New builds a Stream that reads 16-bit PCM in the from format and yields it
// in the to format. Rate conversion runs through a pure Go polyphase
// resampler; channel conversion (mono↔stereo) is done inline.
func New(src io.Reader, from, to Format) (*Stream, error) {
	s := &Stream{
		src:  newFrameReader(src, from.frameBytes()),
		from: from,
		to:   to,
	}

	if from.SampleRate != to.SampleRate {
		conv, err := resampling.New(&resampling.Config{
			InputRate:  float64(from.SampleRate),
			OutputRate: float64(to.SampleRate),
			Channels:   to.channels(),
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("resampler: %w", err)
		}
		s.conv = conv
	}

	return s, nil
}

// Read fills p with converted audio, always a whole number of destination
// frames. Destinations smaller than one frame fail with io.ErrShortBuffer.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) < s.to.frameBytes() {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/s.to.frameBytes()*s.to.frameBytes()]

	if len(s.pending) > 0 {
		n := copy(p, s.pending)
		s.pending = s.pending[n:]
		return n, nil
	}

	if s.closed {
		return 0, fmt.Errorf("resampler: %w", io.ErrClosedPipe)
	}

	if s.conv == nil {
		// 仅声道转换，不动采样率
		n, err := s.fetch(len(p))
		if n == 0 {
			return 0, err
		}
		copy(p, s.srcBuf[:n])
		return n, err
	}
	return s.convert(p)
}

// convert pulls source audio, runs it through the rate converter and copies
// the result into p, stashing any overflow for the next Read.
func (s *Stream) convert(p []byte) (int, error) {
	// 按速率比估算本轮需要的源数据量，多取几帧避免凑不满一块
	ratio := float64(s.from.SampleRate) / float64(s.to.SampleRate)
	want := int(float64(len(p))*ratio) + 4*s.from.frameBytes()

	n, readErr := s.fetch(want)
	if n == 0 {
		if readErr != nil {
			return 0, readErr
		}
		return 0, io.EOF
	}

	samples := make([]float64, n/2)
	for i := range samples {
		v := int16(s.srcBuf[2*i]) | int16(s.srcBuf[2*i+1])<<8
		samples[i] = float64(v) / 32768.0
	}

	out, err := s.conv.Process(samples)
	if err != nil {
		return 0, fmt.Errorf("resampler: %w", err)
	}
	if len(out) == 0 {
		// 转换器在吃进更多输入前可能暂时不产出
		return 0, readErr
	}

	frame := s.to.frameBytes()
	encoded := make([]byte, len(out)*2/frame*frame)
	for i := 0; i < len(encoded)/2; i++ {
		v := out[i]
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		smp := uint16(int16(v * 32767.0))
		encoded[2*i] = byte(smp)
		encoded[2*i+1] = byte(smp >> 8)
	}

	copied := copy(p, encoded)
	if copied < len(encoded) {
		s.pending = append(s.pending, encoded[copied:]...)
	}
	return copied, readErr
}

// fetch reads up to dstLen bytes of source audio into srcBuf, already
// converted to the destination channel layout. Returns the byte count in
// destination-layout terms.
func (s *Stream) fetch(dstLen int) (int, error) {
	switch {
	case s.from.Stereo && !s.to.Stereo:
		// 立体声下混单声道：源数据要读双倍
		s.grow(dstLen * 2)
		n, err := s.src.Read(s.srcBuf[:dstLen*2])
		if n == 0 {
			return 0, err
		}
		return downmix(s.srcBuf[:n]), err

	case !s.from.Stereo && s.to.Stereo:
		// 单声道上混立体声：源数据减半，原地翻倍
		s.grow(dstLen)
		n, err := s.src.Read(s.srcBuf[:dstLen/2])
		if n == 0 {
			return 0, err
		}
		return upmix(s.srcBuf[:n*2]), err

	default:
		s.grow(dstLen)
		return s.src.Read(s.srcBuf[:dstLen])
	}
}

func (s *Stream) grow(n int) {
	if cap(s.srcBuf) < n {
		s.srcBuf = make([]byte, n)
	}
	s.srcBuf = s.srcBuf[:cap(s.srcBuf)]
}

// Close releases the converter. Reads after Close drain any pending output
// and then fail with io.ErrClosedPipe.
func (s *Stream) Close() error {
	s.closed = true
	s.conv = nil
	return nil
}

// downmix averages interleaved L/R pairs into mono in place and returns the
// mono byte count.
func downmix(b []byte) int {
	frames := len(b) / 4
	for i := 0; i < frames; i++ {
		l := int16(b[4*i]) | int16(b[4*i+1])<<8
		r := int16(b[4*i+2]) | int16(b[4*i+3])<<8
		m := uint16(int16((int32(l) + int32(r)) / 2))
		b[2*i] = byte(m)
		b[2*i+1] = byte(m >> 8)
	}
	return frames * 2
}

// upmix duplicates each mono sample into an L/R pair in place. b covers the
// stereo length; only its first half holds source samples. Walks backwards so
// nothing is overwritten before it is read.
func upmix(b []byte) int {
	for i := len(b)/4 - 1; i >= 0; i-- {
		lo, hi := b[2*i], b[2*i+1]
		b[4*i], b[4*i+1] = lo, hi
		b[4*i+2], b[4*i+3] = lo, hi
	}
	return len(b)
}
