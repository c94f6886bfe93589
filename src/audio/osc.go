package audio

import (
	"math"
	"math/rand"
)

// ----- Wave Kind ----- //

const (
	waveSine = iota
	waveTriangle
	waveSquare
	wavePulse
	waveSaw
	waveSawRev
	waveNoise
)

func waveKindFromString(s string) int {
	switch s {
	case "triangle":
		return waveTriangle
	case "square":
		return waveSquare
	case "pulse":
		return wavePulse
	case "saw":
		return waveSaw
	case "saw-rev":
		return waveSawRev
	case "noise":
		return waveNoise
	default:
		return waveSine
	}
}

func waveKindToString(kind int) string {
	switch kind {
	case waveTriangle:
		return "triangle"
	case waveSquare:
		return "square"
	case wavePulse:
		return "pulse"
	case waveSaw:
		return "saw"
	case waveSawRev:
		return "saw-rev"
	case waveNoise:
		return "noise"
	default:
		return "sine"
	}
}

// ----- OSC ----- //

// osc generates one bipolar sample per step at the given frequency. The
// frequency comes from outside each sample, so glides and ratio coupling
// happen at the control layer, not here.
type osc struct {
	kind  int
	phase float64
}

func newOsc(kind int) *osc {
	return &osc{kind: kind, phase: rand.Float64() * 2.0 * math.Pi}
}

func (o *osc) step(freq float64) float64 {
	phase := o.phase
	value := 0.0
	switch o.kind {
	case waveSine:
		value = math.Sin(phase)
	case waveTriangle:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			value = p*4 - 1
		} else {
			value = p*(-4) + 3
		}
	case waveSquare:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			value = 1
		} else {
			value = -1
		}
	case wavePulse:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		if p < 0.25 {
			value = 1
		} else {
			value = -1
		}
	case waveSaw:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		value = p*2 - 1
	case waveSawRev:
		p := positiveMod(phase/(2.0*math.Pi), 1)
		value = p*(-2) + 1
	case waveNoise:
		value = rand.Float64()*2 - 1
	}
	o.phase += 2.0 * math.Pi * freq / float64(sampleRate)
	if o.phase > 2.0*math.Pi {
		o.phase -= 2.0 * math.Pi
	}
	return value
}
