// Package resampler converts 16-bit PCM audio between sample rates and
// channel layouts as a streaming io.ReadCloser.
//
// Speech engines in this repo want 16 kHz mono; recordings arrive as
// whatever the capture device produced. Stream bridges the two:
//
//	rs, err := resampler.New(file,
//	    resampler.Format{SampleRate: 44100, Stereo: true},
//	    resampler.Format{SampleRate: 16000})
//	if err != nil {
//	    return err
//	}
//	defer rs.Close()
//	pcm, err := io.ReadAll(rs)
//
// Rate conversion runs through a polyphase filter; mono/stereo conversion
// is a plain average or duplicate. Reads always return whole frames.
package resampler
