// Package pcm handles raw L16 audio: the fixed formats the recognition
// engines accept, duration and byte geometry on those formats, an immutable
// sample buffer, and a WAV codec.
//
// A Format converts between wall time and wire size:
//
//	n := pcm.L16Mono16K.BytesInDuration(20 * time.Millisecond) // 640
//
// Buffer holds decoded samples as normalized float32 values. DecodeWAV and
// EncodeWAV move between WAV bytes and Buffer:
//
//	buf, err := pcm.DecodeWAV(data)
//	wav := pcm.EncodeWAV(buf)
package pcm
