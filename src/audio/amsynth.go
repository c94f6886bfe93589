package audio

import (
	"encoding/json"
	"log"
	"strconv"
)

// ----- AM Synth ----- //

// AMSynth is a monophonic amplitude-modulation voice: a modulator
// sub-voice whose output, remapped to a unipolar gain, modulates a carrier
// sub-voice. One frequency signal feeds the carrier directly and the
// modulator through the harmonicity multiplier, so the two stay locked to
// a fixed ratio at every instant.
//
//	frequency ─────────────────────► carrier.frequency
//	     │
//	     └──► multiply (× harmonicity) ──► modulator.frequency
//
//	modulator ──► audioToGain ──► gain.ctrl
//	carrier ─────────────────► gain.input ──► output
//
// The wiring is fixed for the lifetime of the instance.
type AMSynth struct {
	*monoBase
	params      Params
	harmonicity *multiply
	carrier     modVoice
	modulator   modVoice
	modScale    *audioToGain
	modNode     *gain
}

var _ node = (*AMSynth)(nil)

// NewAMSynth ...
func NewAMSynth(e *Engine, p Params) *AMSynth {
	p = p.withDefaults()
	return newAMSynthWith(e, p, newVoice(e, p.Carrier), newVoice(e, p.Modulator))
}

func newAMSynthWith(e *Engine, p Params, carrier modVoice, modulator modVoice) *AMSynth {
	s := &AMSynth{
		monoBase:  newMonoBase(e, p.Frequency, p.Portamento),
		params:    p,
		carrier:   carrier,
		modulator: modulator,
	}
	s.harmonicity = newMultiply(s.frequency, p.Harmonicity)
	s.carrier.connectFrequency(s.frequency)
	s.modulator.connectFrequency(s.harmonicity)
	s.modScale = &audioToGain{input: s.modulator}
	s.modNode = &gain{input: s.carrier, ctrl: s.modScale}
	return s
}

func (s *AMSynth) step() float64 {
	s.monoBase.tick()
	s.harmonicity.factor.step()
	return s.modNode.step()
}

// ----- Triggers ----- //

// TriggerAttack starts a note. All four envelope attacks (amplitude and
// filter, on both sub-voices) are scheduled at the same resolved time so
// the envelopes stay phase-locked; velocity scales the carrier's
// amplitude envelope only.
func (s *AMSynth) TriggerAttack(t Time, velocity float64) {
	at := s.resolve(t)
	s.carrier.envelope().triggerAttack(at, velocity)
	s.modulator.envelope().triggerAttack(at, defaultVelocity)
	s.carrier.filterEnvelope().triggerAttack(at, defaultVelocity)
	s.modulator.filterEnvelope().triggerAttack(at, defaultVelocity)
}

// TriggerRelease signals both sub-voices to begin release at the same
// resolved time. Their envelopes decay independently from there.
func (s *AMSynth) TriggerRelease(t Time) {
	at := s.resolve(t)
	s.carrier.triggerRelease(at)
	s.modulator.triggerRelease(at)
}

// ----- Parameters ----- //

// SetHarmonicity updates the modulator:carrier ratio. It takes effect on
// the running modulator frequency immediately, no retrigger needed.
func (s *AMSynth) SetHarmonicity(ratio float64) {
	s.harmonicity.factor.setValue(ratio)
	s.params.Harmonicity = ratio
}

// Harmonicity ...
func (s *AMSynth) Harmonicity() float64 {
	return s.harmonicity.factor.value()
}

// SetFrequency moves the note's fundamental, gliding over the portamento
// time when one is set. Both sub-voices follow continuously.
func (s *AMSynth) SetFrequency(freq float64) {
	s.setFrequency(freq)
}

// Frequency ...
func (s *AMSynth) Frequency() float64 {
	return s.frequency.value()
}

// SetNote ...
func (s *AMSynth) SetNote(note int) {
	s.SetFrequency(noteToFreq(note))
}

// set routes a key path: harmonicity here, carrier/modulator keys to the
// owning sub-voice, base keys to the mono base. Unrecognized keys are
// ignored, not errors.
func (s *AMSynth) set(path ...string) error {
	if len(path) == 0 {
		return nil
	}
	switch path[0] {
	case "harmonicity":
		if len(path) != 2 {
			return nil
		}
		ratio, err := strconv.ParseFloat(path[1], 64)
		if err != nil {
			return err
		}
		s.SetHarmonicity(ratio)
	case "carrier":
		return s.carrier.set(path[1:]...)
	case "modulator":
		return s.modulator.set(path[1:]...)
	default:
		if len(path) == 2 {
			handled, err := s.monoBase.set(path[0], path[1])
			if handled {
				if err == nil {
					s.params.Portamento = s.portamento
				}
				return err
			}
		}
		// unrecognized keys are ignored
	}
	return nil
}

type synthJSON struct {
	Frequency   *float64        `json:"frequency"`
	Harmonicity *float64        `json:"harmonicity"`
	Portamento  *float64        `json:"portamento"`
	Carrier     json.RawMessage `json:"carrier"`
	Modulator   json.RawMessage `json:"modulator"`
}

// ApplyJSON applies a partial patch. Nested carrier/modulator objects are
// forwarded verbatim to the sub-voices' own bulk setters.
func (s *AMSynth) ApplyJSON(data []byte) {
	var j synthJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to AMSynth")
		return
	}
	if j.Frequency != nil {
		s.SetFrequency(*j.Frequency)
	}
	if j.Harmonicity != nil {
		s.SetHarmonicity(*j.Harmonicity)
	}
	if j.Portamento != nil {
		s.portamento = *j.Portamento
		s.params.Portamento = *j.Portamento
	}
	if j.Carrier != nil {
		s.carrier.applyJSON(j.Carrier)
	}
	if j.Modulator != nil {
		s.modulator.applyJSON(j.Modulator)
	}
}

// ToJSON ...
func (s *AMSynth) ToJSON() []byte {
	p := s.params
	p.Frequency = s.Frequency()
	bytes, err := json.Marshal(&p)
	if err != nil {
		panic(err)
	}
	return bytes
}

// ----- Disposal ----- //

// Dispose tears down both sub-voices and drops every owned reference,
// detaching the synth from the engine. The instance must not be used
// afterwards. Safe against a concurrently rendering engine.
func (s *AMSynth) Dispose() {
	if s.monoBase == nil {
		return
	}
	if e := s.engine; e != nil {
		e.mu.Lock()
		if e.synth == s {
			e.synth = nil
		}
		e.mu.Unlock()
	}
	s.carrier.dispose()
	s.modulator.dispose()
	s.carrier = nil
	s.modulator = nil
	s.harmonicity = nil
	s.modScale = nil
	s.modNode = nil
	s.monoBase = nil
}
