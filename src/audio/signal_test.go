package audio

import (
	"math"
	"testing"
)

type constNode struct {
	v float64
}

func (c *constNode) step() float64 {
	return c.v
}

func almost(a float64, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSignalSetValueCancelsRamp(t *testing.T) {
	s := newSignal(0)
	s.linearRampTo(10, 100)
	for i := 0; i < 10; i++ {
		s.step()
	}
	s.setValue(3)
	for i := 0; i < 100; i++ {
		s.step()
	}
	if !almost(s.value(), 3) {
		t.Errorf("expected 3, but got: %v", s.value())
	}
}

func TestSignalLinearRamp(t *testing.T) {
	s := newSignal(0)
	s.linearRampTo(10, 10) // 10ms = 480 samples
	for i := 0; i < 241; i++ {
		s.step()
	}
	if !almost(s.value(), 5) {
		t.Errorf("expected 5 at the midpoint, but got: %v", s.value())
	}
	for i := 0; i < 1000; i++ {
		s.step()
	}
	if !almost(s.value(), 10) {
		t.Errorf("expected 10 at the end, but got: %v", s.value())
	}
}

func TestSignalExponentialRamp(t *testing.T) {
	s := newSignal(440)
	s.exponentialRampTo(880, 100, 0.001)
	for i := 0; i < 100; i++ {
		s.step()
	}
	if s.value() <= 440 || s.value() >= 880 {
		t.Errorf("expected a value between 440 and 880, but got: %v", s.value())
	}
	for i := 0; i < 200000; i++ {
		if s.step() {
			break
		}
	}
	if !almost(s.value(), 880) {
		t.Errorf("expected 880 at the end, but got: %v", s.value())
	}
}

func TestMultiplyTracksInput(t *testing.T) {
	freq := newSignal(440)
	m := newMultiply(freq, 3)
	if !almost(m.value(), 1320) {
		t.Errorf("expected 1320, but got: %v", m.value())
	}
	freq.setValue(200)
	if !almost(m.value(), 600) {
		t.Errorf("expected 600, but got: %v", m.value())
	}
	m.factor.setValue(2)
	if !almost(m.value(), 400) {
		t.Errorf("expected 400, but got: %v", m.value())
	}
}

func TestAudioToGainRemap(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{-0.5, 0.25},
		{0, 0.5},
		{0.5, 0.75},
		{1, 1},
	}
	for _, c := range cases {
		a := &audioToGain{input: &constNode{v: c.in}}
		got := a.step()
		if !almost(got, c.want) {
			t.Errorf("expected %v for input %v, but got: %v", c.want, c.in, got)
		}
	}
}

type oscNode struct {
	o    *osc
	freq float64
}

func (n *oscNode) step() float64 {
	return n.o.step(n.freq)
}

func TestAudioToGainStaysUnipolar(t *testing.T) {
	kinds := []int{waveSine, waveTriangle, waveSquare, waveSaw, waveNoise}
	for _, kind := range kinds {
		a := &audioToGain{input: &oscNode{o: newOsc(kind), freq: 440}}
		for i := 0; i < sampleRate; i++ {
			got := a.step()
			if got < 0 || got > 1 {
				t.Fatalf("expected a value in [0,1] for kind %v, but got: %v", kind, got)
			}
		}
	}
}

func TestGainMultiplies(t *testing.T) {
	g := &gain{input: &constNode{v: 0.8}, ctrl: &constNode{v: 0.5}}
	if !almost(g.step(), 0.4) {
		t.Errorf("expected 0.4, but got: %v", g.step())
	}
}
