package audio

import "strconv"

// ----- Monophonic Base ----- //

// monoBase is the shared plumbing of a monophonic source: the frequency
// signal for its single note, portamento glide, and trigger-time
// resolution. AMSynth and voice both embed one and delegate explicitly.
type monoBase struct {
	engine     *Engine
	frequency  *signal
	portamento float64 // ms
}

func newMonoBase(e *Engine, freq float64, portamento float64) *monoBase {
	return &monoBase{
		engine:     e,
		frequency:  newSignal(freq),
		portamento: portamento,
	}
}

func (m *monoBase) resolve(t Time) int64 {
	return m.engine.Resolve(t)
}

// tick advances the frequency ramp by one sample.
func (m *monoBase) tick() {
	m.frequency.step()
}

// setFrequency moves the frequency signal to freq, gliding over the
// portamento time when one is set.
func (m *monoBase) setFrequency(freq float64) {
	if m.portamento > 0 {
		m.frequency.exponentialRampTo(freq, m.portamento, 0.001)
	} else {
		m.frequency.setValue(freq)
	}
}

// set handles the base-voice keys; reports whether the key was recognized.
func (m *monoBase) set(key string, value string) (bool, error) {
	switch key {
	case "portamento":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return true, err
		}
		m.portamento = value
		return true, nil
	case "frequency":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return true, err
		}
		m.setFrequency(value)
		return true, nil
	}
	return false, nil
}
