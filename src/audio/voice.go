package audio

import (
	"encoding/json"
	"fmt"
)

// ----- Collaborator Roles ----- //

// envelopeTrigger schedules attack/release transitions for one envelope.
type envelopeTrigger interface {
	triggerAttack(at int64, velocity float64)
	triggerRelease(at int64)
}

// modVoice is the capability a sub-voice must offer to be wired into the
// AM topology.
type modVoice interface {
	node
	connectFrequency(src signalSource)
	envelope() envelopeTrigger
	filterEnvelope() envelopeTrigger
	triggerRelease(at int64)
	set(path ...string) error
	applyJSON(data json.RawMessage)
	dispose()
}

// ----- ADSR Trigger ----- //

type adsrTrigger struct {
	engine *Engine
	env    *adsr
}

func (t *adsrTrigger) triggerAttack(at int64, velocity float64) {
	env := t.env
	t.engine.schedule(at, func() {
		env.noteOn(velocity)
	})
}

func (t *adsrTrigger) triggerRelease(at int64) {
	env := t.env
	t.engine.schedule(at, func() {
		env.noteOff()
	})
}

// ----- Voice ----- //

// voice is a self-contained monophonic instrument: one oscillator, an
// amplitude ADSR and a filter whose cutoff is swept by its own envelope.
// Its frequency input is a signal it owns until a parent connects one.
type voice struct {
	*monoBase
	params   VoiceParams
	ownsFreq bool
	freq     signalSource
	osc      *osc
	amp      *adsr
	fenv     *freqEnv
	filter   *filter
}

var _ modVoice = (*voice)(nil)

func newVoice(e *Engine, p VoiceParams) *voice {
	base := newMonoBase(e, baseFreq, p.Portamento)
	v := &voice{
		monoBase: base,
		params:   p,
		ownsFreq: true,
		freq:     base.frequency,
		osc:      newOsc(waveKindFromString(p.Oscillator)),
		amp:      &adsr{},
		fenv:     &freqEnv{},
		filter:   newFilter(&p.Filter),
	}
	v.amp.setParams(&p.Envelope)
	v.fenv.setParams(&p.FilterEnvelope)
	return v
}

func (v *voice) connectFrequency(src signalSource) {
	v.freq = src
	v.ownsFreq = false
}

func (v *voice) envelope() envelopeTrigger {
	return &adsrTrigger{engine: v.engine, env: v.amp}
}

func (v *voice) filterEnvelope() envelopeTrigger {
	return &adsrTrigger{engine: v.engine, env: &v.fenv.adsr}
}

// triggerAttack starts both envelopes at the same resolved time; velocity
// scales the amplitude envelope only.
func (v *voice) triggerAttack(t Time, velocity float64) {
	at := v.resolve(t)
	v.envelope().triggerAttack(at, velocity)
	v.filterEnvelope().triggerAttack(at, defaultVelocity)
}

func (v *voice) triggerRelease(at int64) {
	v.envelope().triggerRelease(at)
	v.filterEnvelope().triggerRelease(at)
}

func (v *voice) step() float64 {
	if v.ownsFreq {
		v.monoBase.tick()
	}
	v.amp.step()
	v.fenv.step()
	value := v.osc.step(v.freq.value())
	value = v.filter.step(value, v.fenv.cutoff())
	return value * v.amp.value
}

func (v *voice) idle() bool {
	return v.amp.idle()
}

func (v *voice) applyParams() {
	v.osc.kind = waveKindFromString(v.params.Oscillator)
	v.portamento = v.params.Portamento
	v.amp.setParams(&v.params.Envelope)
	v.fenv.setParams(&v.params.FilterEnvelope)
	v.filter.setParams(&v.params.Filter)
}

func (v *voice) applyJSON(data json.RawMessage) {
	v.params.applyJSON(data)
	v.applyParams()
}

func (v *voice) set(path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("empty key")
	}
	switch path[0] {
	case "oscillator":
		if len(path) != 2 {
			return fmt.Errorf("oscillator needs a kind")
		}
		v.params.Oscillator = path[1]
		v.osc.kind = waveKindFromString(path[1])
	case "envelope":
		if len(path) != 3 {
			return fmt.Errorf("envelope needs a key-value pair")
		}
		if err := v.params.Envelope.set(path[1], path[2]); err != nil {
			return err
		}
		v.amp.setParams(&v.params.Envelope)
	case "filterEnvelope":
		if len(path) != 3 {
			return fmt.Errorf("filterEnvelope needs a key-value pair")
		}
		if err := v.params.FilterEnvelope.set(path[1], path[2]); err != nil {
			return err
		}
		v.fenv.setParams(&v.params.FilterEnvelope)
	case "filter":
		if len(path) != 3 {
			return fmt.Errorf("filter needs a key-value pair")
		}
		if err := v.params.Filter.set(path[1], path[2]); err != nil {
			return err
		}
		v.filter.setParams(&v.params.Filter)
	default:
		if len(path) == 2 {
			handled, err := v.monoBase.set(path[0], path[1])
			if handled {
				if err == nil {
					v.params.Portamento = v.portamento
				}
				return err
			}
		}
		// unrecognized keys are ignored
	}
	return nil
}

func (v *voice) dispose() {
	v.monoBase = nil
	v.freq = nil
	v.osc = nil
	v.amp = nil
	v.fenv = nil
	v.filter = nil
}
