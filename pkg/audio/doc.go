// Package audio is the umbrella for audio handling sub-packages:
//
//   - pcm: PCM sample buffers, format geometry, and WAV encode/decode
//   - resampler: sample-rate and channel conversion for PCM16 streams
//
// Recognition engines consume 16kHz mono PCM; these packages take arbitrary
// WAV input there:
//
//	buf, err := pcm.DecodeWAV(wavBytes)
//	rs, err := resampler.New(bytes.NewReader(buf.Bytes()),
//	    resampler.Format{SampleRate: buf.SampleRate, Stereo: buf.Channels == 2},
//	    resampler.Format{SampleRate: 16000})
package audio
