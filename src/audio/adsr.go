package audio

import "math"

// ----- ADSR ----- //

const (
	phaseNone = iota
	phaseAttack
	phaseDecay
	phaseSustain
	phaseRelease
)

/*
  p +    x
    |   / \
    |  /   \
  s + /     x------x
    |/              \
    |                \
  b +-----+--+------+---
    |a    |d |      |r |
*/
type adsr struct {
	attack         float64 // ms
	decay          float64 // ms
	sustain        float64 // 0-1
	release        float64 // ms
	base           float64 // 0-1
	peak           float64 // 0-1
	value          float64
	phase          int
	phasePos       int
	valueAtNoteOn  float64
	valueAtNoteOff float64
}

func (a *adsr) setParams(p *EnvelopeParams) {
	a.base = 0
	a.attack = p.Attack
	a.decay = p.Decay
	a.sustain = p.Sustain
	a.release = p.Release
}

// noteOn starts the attack phase from the current value; peak scales the
// whole envelope, so velocity-sensitive callers pass it here.
func (a *adsr) noteOn(peak float64) {
	a.peak = peak
	a.phase = phaseAttack
	a.phasePos = 0
	a.valueAtNoteOn = a.value
}

func (a *adsr) noteOff() {
	a.phase = phaseRelease
	a.phasePos = 0
	a.valueAtNoteOff = a.value
}

func (a *adsr) idle() bool {
	return a.phase == phaseNone
}

func (a *adsr) step() {
	phaseTime := float64(a.phasePos) * secPerSample * 1000 // ms
	switch a.phase {
	case phaseAttack:
		if phaseTime >= float64(a.attack) {
			a.phase = phaseDecay
			a.phasePos = 0
			a.value = a.peak
		} else {
			t := phaseTime / float64(a.attack)
			a.value = t*a.peak + (1-t)*a.valueAtNoteOn
			a.phasePos++
		}
	case phaseDecay:
		ended := false
		sustain := a.sustain * a.peak
		if a.decay == 0 {
			ended = true
		} else {
			t := phaseTime / float64(a.decay)
			a.value = setTargetAtTime(a.peak, sustain, t)
			if math.Abs(a.value-sustain) < 0.001 {
				ended = true
			}
		}
		if ended {
			a.phase = phaseSustain
			a.phasePos = 0
			a.value = sustain
		} else {
			a.phasePos++
		}
	case phaseSustain:
		a.value = a.sustain * a.peak
	case phaseRelease:
		ended := false
		if a.release == 0 {
			ended = true
		} else {
			t := phaseTime / float64(a.release)
			a.value = setTargetAtTime(a.valueAtNoteOff, a.base, t)
			if math.Abs(a.value-a.base) < 0.001 {
				ended = true
			}
		}
		if ended {
			a.phase = phaseNone
			a.phasePos = 0
			a.value = a.base
		} else {
			a.phasePos++
		}
	default:
		a.value = a.base
	}
}

// ----- Filter Envelope ----- //

// freqEnv maps an ADSR onto a cutoff frequency, sweeping exponentially
// between min and max Hz.
type freqEnv struct {
	adsr
	min float64 // Hz
	max float64 // Hz
}

func (f *freqEnv) setParams(p *FilterEnvelopeParams) {
	f.adsr.setParams(&EnvelopeParams{
		Attack:  p.Attack,
		Decay:   p.Decay,
		Sustain: p.Sustain,
		Release: p.Release,
	})
	f.min = p.Min
	f.max = p.Max
}

func (f *freqEnv) cutoff() float64 {
	if f.min <= 0 || f.min == f.max {
		return f.max
	}
	return f.min * math.Pow(f.max/f.min, f.value)
}
