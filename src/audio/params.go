package audio

import (
	"encoding/json"
	"log"
	"strconv"
)

const defaultVelocity = 1.0

// ----- Envelope Params ----- //

// EnvelopeParams is an ADSR shape: times in ms, sustain 0-1.
type EnvelopeParams struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

type envelopeJSON struct {
	Attack  *float64 `json:"attack"`
	Decay   *float64 `json:"decay"`
	Sustain *float64 `json:"sustain"`
	Release *float64 `json:"release"`
}

func (p *EnvelopeParams) applyJSON(data json.RawMessage) {
	var j envelopeJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to EnvelopeParams")
		return
	}
	if j.Attack != nil {
		p.Attack = *j.Attack
	}
	if j.Decay != nil {
		p.Decay = *j.Decay
	}
	if j.Sustain != nil {
		p.Sustain = *j.Sustain
	}
	if j.Release != nil {
		p.Release = *j.Release
	}
}
func (p *EnvelopeParams) set(key string, value string) error {
	switch key {
	case "attack":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Attack = value
	case "decay":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Decay = value
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Sustain = value
	case "release":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Release = value
	}
	return nil
}

// ----- Filter Envelope Params ----- //

// FilterEnvelopeParams is an ADSR sweeping the filter cutoff between Min
// and Max Hz. Min == Max pins the cutoff (a wide-open filter when both sit
// at the top of the audible range).
type FilterEnvelopeParams struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type filterEnvelopeJSON struct {
	Attack  *float64 `json:"attack"`
	Decay   *float64 `json:"decay"`
	Sustain *float64 `json:"sustain"`
	Release *float64 `json:"release"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

func (p *FilterEnvelopeParams) applyJSON(data json.RawMessage) {
	var j filterEnvelopeJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to FilterEnvelopeParams")
		return
	}
	if j.Attack != nil {
		p.Attack = *j.Attack
	}
	if j.Decay != nil {
		p.Decay = *j.Decay
	}
	if j.Sustain != nil {
		p.Sustain = *j.Sustain
	}
	if j.Release != nil {
		p.Release = *j.Release
	}
	if j.Min != nil {
		p.Min = *j.Min
	}
	if j.Max != nil {
		p.Max = *j.Max
	}
}
func (p *FilterEnvelopeParams) set(key string, value string) error {
	switch key {
	case "attack":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Attack = value
	case "decay":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Decay = value
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Sustain = value
	case "release":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Release = value
	case "min":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Min = value
	case "max":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Max = value
	}
	return nil
}

// ----- Filter Params ----- //

// FilterParams ...
type FilterParams struct {
	Kind string  `json:"kind"`
	Q    float64 `json:"q"`
}

type filterJSON struct {
	Kind *string  `json:"kind"`
	Q    *float64 `json:"q"`
}

func (p *FilterParams) applyJSON(data json.RawMessage) {
	var j filterJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to FilterParams")
		return
	}
	if j.Kind != nil {
		p.Kind = *j.Kind
	}
	if j.Q != nil {
		p.Q = *j.Q
	}
}
func (p *FilterParams) set(key string, value string) error {
	switch key {
	case "kind":
		p.Kind = value
	case "q":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Q = value
	}
	return nil
}

// ----- Voice Params ----- //

// VoiceParams configures one sub-voice. Copied by value at construction so
// a live voice never aliases the caller's struct.
type VoiceParams struct {
	Oscillator     string               `json:"oscillator"`
	Portamento     float64              `json:"portamento"` // ms
	Envelope       EnvelopeParams       `json:"envelope"`
	FilterEnvelope FilterEnvelopeParams `json:"filterEnvelope"`
	Filter         FilterParams         `json:"filter"`
}

type voiceJSON struct {
	Oscillator     *string         `json:"oscillator"`
	Portamento     *float64        `json:"portamento"`
	Envelope       json.RawMessage `json:"envelope"`
	FilterEnvelope json.RawMessage `json:"filterEnvelope"`
	Filter         json.RawMessage `json:"filter"`
}

func (p *VoiceParams) applyJSON(data json.RawMessage) {
	var j voiceJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to VoiceParams")
		return
	}
	if j.Oscillator != nil {
		p.Oscillator = *j.Oscillator
	}
	if j.Portamento != nil {
		p.Portamento = *j.Portamento
	}
	if j.Envelope != nil {
		p.Envelope.applyJSON(j.Envelope)
	}
	if j.FilterEnvelope != nil {
		p.FilterEnvelope.applyJSON(j.FilterEnvelope)
	}
	if j.Filter != nil {
		p.Filter.applyJSON(j.Filter)
	}
}

// ----- Synth Params ----- //

// Params configures an AMSynth. Zero fields fall back to the documented
// defaults at construction. A modulationIndex key in patch data is
// tolerated and ignored: it has no consumer in the AM topology.
type Params struct {
	Frequency   float64     `json:"frequency"`   // Hz
	Harmonicity float64     `json:"harmonicity"` // modulator:carrier ratio
	Portamento  float64     `json:"portamento"`  // ms
	Carrier     VoiceParams `json:"carrier"`
	Modulator   VoiceParams `json:"modulator"`
}

// DefaultParams is the documented default patch: a fast sine carrier with a
// wide-open filter, amplitude-modulated by a slow square modulator with a
// narrow sweeping filter.
func DefaultParams() Params {
	return Params{
		Frequency:   440,
		Harmonicity: 3,
		Portamento:  0,
		Carrier: VoiceParams{
			Oscillator: "sine",
			Envelope:   EnvelopeParams{Attack: 10, Decay: 10, Sustain: 1, Release: 500},
			FilterEnvelope: FilterEnvelopeParams{
				Attack: 10, Decay: 0, Sustain: 1, Release: 500,
				Min: 20000, Max: 20000,
			},
			Filter: FilterParams{Kind: "lowpass", Q: 1},
		},
		Modulator: VoiceParams{
			Oscillator: "square",
			Envelope:   EnvelopeParams{Attack: 2000, Decay: 0, Sustain: 1, Release: 500},
			FilterEnvelope: FilterEnvelopeParams{
				Attack: 4000, Decay: 200, Sustain: 0.5, Release: 500,
				Min: 20, Max: 1500,
			},
			Filter: FilterParams{Kind: "lowpass", Q: 1},
		},
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Frequency <= 0 {
		p.Frequency = d.Frequency
	}
	if p.Harmonicity == 0 {
		p.Harmonicity = d.Harmonicity
	}
	p.Carrier = p.Carrier.withDefaults(d.Carrier)
	p.Modulator = p.Modulator.withDefaults(d.Modulator)
	return p
}

func (p VoiceParams) withDefaults(d VoiceParams) VoiceParams {
	if p.Oscillator == "" {
		p.Oscillator = d.Oscillator
	}
	if p.Envelope == (EnvelopeParams{}) {
		p.Envelope = d.Envelope
	}
	if p.FilterEnvelope == (FilterEnvelopeParams{}) {
		p.FilterEnvelope = d.FilterEnvelope
	}
	if p.Filter.Kind == "" {
		p.Filter.Kind = d.Filter.Kind
	}
	if p.Filter.Q == 0 {
		p.Filter.Q = d.Filter.Q
	}
	return p
}
