package audio

import "math"

// ----- Graph Roles ----- //

// node is an audio-rate source, pulled once per sample.
type node interface {
	step() float64
}

// signalSource is a control-rate value that can be read continuously.
type signalSource interface {
	value() float64
}

// ----- Transition Kind ----- //

const (
	transitionNone = iota
	transitionLinear
	transitionExponential
)

// ----- Signal ----- //

// signal is a smoothly-settable control value. Immediate sets cancel any
// running transition; ramps start from the current value.
type signal struct {
	kind         int
	duration     float64 // ms
	endThreshold float64
	initialValue float64
	targetValue  float64
	current      float64
	pos          int
}

func newSignal(value float64) *signal {
	return &signal{current: value}
}

func (s *signal) value() float64 {
	return s.current
}

func (s *signal) setValue(value float64) {
	s.kind = transitionNone
	s.duration = 0
	s.endThreshold = 0
	s.initialValue = 0
	s.targetValue = 0
	s.current = value
	s.pos = 0
}

func (s *signal) linearRampTo(targetValue float64, duration float64) {
	s.kind = transitionLinear
	s.duration = duration
	s.endThreshold = 0
	s.pos = 0
	s.initialValue = s.current
	s.targetValue = targetValue
}

func (s *signal) exponentialRampTo(targetValue float64, duration float64, endThreshold float64) {
	s.kind = transitionExponential
	s.duration = duration
	s.endThreshold = endThreshold
	s.pos = 0
	s.initialValue = s.current
	s.targetValue = targetValue
}

func (s *signal) step() bool {
	ended := false
	switch s.kind {
	case transitionLinear:
		phaseTime := float64(s.pos) * secPerSample * 1000 // ms
		if phaseTime >= float64(s.duration) {
			s.end()
			ended = true
		} else {
			t := phaseTime / float64(s.duration)
			s.current = t*s.targetValue + (1-t)*s.initialValue
			s.pos++
		}
	case transitionExponential:
		phaseTime := float64(s.pos) * secPerSample * 1000 // ms
		t := phaseTime / float64(s.duration)
		s.current = setTargetAtTime(s.initialValue, s.targetValue, t)
		if math.Abs(s.current-s.targetValue) < s.endThreshold {
			s.end()
			ended = true
		} else {
			s.pos++
		}
	case transitionNone:

	}
	return ended
}

func (s *signal) end() {
	s.kind = transitionNone
	s.current = s.targetValue
	s.pos = 0
}

// 63% closer to target when pos=1.0
func setTargetAtTime(initialValue float64, targetValue float64, pos float64) float64 {
	return targetValue + (initialValue-targetValue)*math.Exp(-pos)
}

// ----- Multiply ----- //

// multiply reads one signal and scales it by a settable factor.
type multiply struct {
	input  signalSource
	factor *signal
}

func newMultiply(input signalSource, factor float64) *multiply {
	return &multiply{input: input, factor: newSignal(factor)}
}

func (m *multiply) value() float64 {
	return m.input.value() * m.factor.value()
}

// ----- AudioToGain ----- //

// audioToGain remaps a bipolar audio signal to a unipolar [0,1] gain
// control: y = (x + 1) * 0.5. A gain stage cannot take negative gain, so
// the remap is mandatory for amplitude modulation.
type audioToGain struct {
	input node
}

func (a *audioToGain) step() float64 {
	return (a.input.step() + 1) * 0.5
}

// ----- Gain ----- //

// gain is an audio-rate multiplier: the signal input scaled by the control
// input, sample by sample.
type gain struct {
	input node
	ctrl  node
}

func (g *gain) step() float64 {
	return g.input.step() * g.ctrl.step()
}
