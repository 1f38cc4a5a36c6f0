package pcm

import (
	"encoding/binary"
	"fmt"
)

const wavHeaderSize = 44

// EncodeWAV encodes the buffer as a 16-bit PCM WAV file.
func EncodeWAV(b *Buffer) []byte {
	data := b.Bytes()
	out := make([]byte, wavHeaderSize+len(data))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(data)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(b.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(b.SampleRate))
	byteRate := b.SampleRate * b.Channels * 2
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(b.Channels*2))
	binary.LittleEndian.PutUint16(out[34:36], 16)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(data)))
	copy(out[44:], data)
	return out
}

// DecodeWAV parses a 16-bit PCM WAV file into a buffer.
// Unknown chunks between fmt and data are skipped.
func DecodeWAV(data []byte) (*Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("pcm: not a RIFF/WAVE file")
	}

	var (
		sampleRate int
		channels   int
		bits       int
		haveFmt    bool
	)

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("pcm: truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("pcm: fmt chunk too short (%d bytes)", size)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, fmt.Errorf("pcm: unsupported WAV format code %d (want PCM)", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("pcm: data chunk before fmt chunk")
			}
			if bits != 16 {
				return nil, fmt.Errorf("pcm: unsupported bit depth %d (want 16)", bits)
			}
			if channels <= 0 || sampleRate <= 0 {
				return nil, fmt.Errorf("pcm: invalid fmt chunk (rate=%d channels=%d)", sampleRate, channels)
			}
			return FromBytes(data[body:body+size], sampleRate, channels), nil
		}

		// Chunks are word-aligned.
		off = body + size
		if size%2 == 1 {
			off++
		}
	}
	return nil, fmt.Errorf("pcm: no data chunk found")
}
