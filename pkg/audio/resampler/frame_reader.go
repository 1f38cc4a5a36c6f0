package resampler

import "io"

// frameReader aligns reads from an arbitrary byte stream to whole frames.
// The underlying reader may return any byte count; frameReader carries the
// incomplete tail over to the next call so callers always see a multiple of
// the frame size, except at end of stream.
type frameReader struct {
	src  io.Reader
	size int

	// tail 不满一帧的残留字节，最多 size-1 个
	tail []byte
}

func newFrameReader(src io.Reader, frameSize int) *frameReader {
	return &frameReader{src: src, size: frameSize}
}

// Read fills p with a whole number of frames. A destination smaller than one
// frame is an io.ErrShortBuffer; a stream that ends inside a frame is an
// io.ErrUnexpectedEOF carrying the dangling bytes.
func (fr *frameReader) Read(p []byte) (int, error) {
	if len(p) < fr.size {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/fr.size*fr.size]

	n := copy(p, fr.tail)
	fr.tail = fr.tail[:0]

	rn, err := fr.src.Read(p[n:])
	n += rn
	if err != nil {
		if err == io.EOF && n%fr.size != 0 {
			return n, io.ErrUnexpectedEOF
		}
		return n, err
	}

	if rem := n % fr.size; rem != 0 {
		n -= rem
		fr.tail = append(fr.tail, p[n:n+rem]...)
	}
	return n, nil
}
