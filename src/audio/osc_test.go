package audio

import "testing"

func TestOscStaysBipolar(t *testing.T) {
	kinds := []int{waveSine, waveTriangle, waveSquare, wavePulse, waveSaw, waveSawRev, waveNoise}
	for _, kind := range kinds {
		o := newOsc(kind)
		for i := 0; i < sampleRate; i++ {
			v := o.step(440)
			if v < -1 || v > 1 {
				t.Fatalf("expected a value in [-1,1] for kind %v, but got: %v", kind, v)
			}
		}
	}
}

func TestOscSquareIsBinary(t *testing.T) {
	o := newOsc(waveSquare)
	for i := 0; i < 1000; i++ {
		v := o.step(440)
		if v != 1 && v != -1 {
			t.Fatalf("expected -1 or 1, but got: %v", v)
		}
	}
}

func TestWaveKindRoundTrip(t *testing.T) {
	names := []string{"sine", "triangle", "square", "pulse", "saw", "saw-rev", "noise"}
	for _, name := range names {
		if got := waveKindToString(waveKindFromString(name)); got != name {
			t.Errorf("expected %v, but got: %v", name, got)
		}
	}
	if waveKindFromString("whatever") != waveSine {
		t.Errorf("expected an unknown kind to fall back to sine")
	}
}

func TestNoteToFreq(t *testing.T) {
	if !almost(noteToFreq(69), 440) {
		t.Errorf("expected 440, but got: %v", noteToFreq(69))
	}
	if !almost(noteToFreq(57), 220) {
		t.Errorf("expected 220, but got: %v", noteToFreq(57))
	}
	if !almost(noteToFreq(81), 880) {
		t.Errorf("expected 880, but got: %v", noteToFreq(81))
	}
}
