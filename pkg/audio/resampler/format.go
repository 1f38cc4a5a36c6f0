package resampler

// Format describes one side of a conversion. Samples are always 16-bit
// signed little-endian; rate and channel layout are the only variables.
type Format struct {
	// SampleRate in Hz (16000, 44100, 48000, ...).
	SampleRate int

	// Stereo selects two interleaved channels; false means mono.
	Stereo bool
}

func (f Format) channels() int {
	if f.Stereo {
		return 2
	}
	return 1
}

// frameBytes is the size of one frame: all channels of one sample instant.
func (f Format) frameBytes() int {
	return 2 * f.channels()
}
