package audio

import (
	"fmt"
	"io"

	wav "github.com/youpy/go-wav"
)

// RenderWAV pulls the engine offline for the given duration and writes the
// result as a 16-bit stereo WAV. The engine must not be playing through the
// audio device at the same time.
func RenderWAV(e *Engine, w io.Writer, seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("duration must be positive: %v", seconds)
	}
	numSamples := uint32(seconds * sampleRate)
	writer := wav.NewWriter(w, numSamples, channelNum, sampleRate, bitDepthInBytes*8)

	buf := make([]float64, samplesPerCycle)
	samples := make([]wav.Sample, 0, samplesPerCycle)
	remaining := int(numSamples)
	for remaining > 0 {
		n := len(buf)
		if remaining < n {
			n = remaining
		}
		e.render(buf[:n])
		samples = samples[:0]
		for _, value := range buf[:n] {
			value *= masterGain
			if value > 1 {
				value = 1
			} else if value < -1 {
				value = -1
			}
			v := int(value * 32767)
			samples = append(samples, wav.Sample{Values: [2]int{v, v}})
		}
		if err := writer.WriteSamples(samples); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}
