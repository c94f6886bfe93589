package audio

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"sync"
	"sync/atomic"
	"testing"
)

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}

func TestResolve(t *testing.T) {
	e := NewEngine(Params{})
	if got := e.Resolve(Now); got != 0 {
		t.Errorf("expected 0, but got: %v", got)
	}
	if got := e.Resolve(Time(0.5)); got != sampleRate/2 {
		t.Errorf("expected %v, but got: %v", sampleRate/2, got)
	}
	if got := e.Resolve(Time(2.0)); got != 2*sampleRate {
		t.Errorf("expected %v, but got: %v", 2*sampleRate, got)
	}
	for i := 0; i < 10; i++ {
		e.step()
	}
	if got := e.Resolve(Now); got != 10 {
		t.Errorf("expected 10, but got: %v", got)
	}
	// times in the past resolve to the current position
	if got := e.Resolve(Time(0)); got != 10 {
		t.Errorf("expected 10, but got: %v", got)
	}
}

func TestScheduleFiresAtExactSample(t *testing.T) {
	e := NewEngine(Params{})
	fired := int64(-1)
	e.schedule(5, func() {
		fired = atomic.LoadInt64(&e.pos)
	})
	for i := 0; i < 10; i++ {
		e.step()
	}
	if fired != 5 {
		t.Errorf("expected the event to fire at sample 5, but got: %v", fired)
	}
}

func TestScheduleKeepsOrder(t *testing.T) {
	e := NewEngine(Params{})
	var order []int
	e.schedule(7, func() { order = append(order, 2) })
	e.schedule(3, func() { order = append(order, 1) })
	e.schedule(7, func() { order = append(order, 3) })
	for i := 0; i < 10; i++ {
		e.step()
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected events in schedule order, but got: %v", order)
	}
}

func TestUpdateCommands(t *testing.T) {
	e := NewEngine(Params{})
	expectNoError(t, e.update([]string{"set", "harmonicity", "2"}))
	if !almost(e.Synth().Harmonicity(), 2) {
		t.Errorf("expected 2, but got: %v", e.Synth().Harmonicity())
	}
	expectNoError(t, e.update([]string{"note_on", "69", "0.8"}))
	if !almost(e.Synth().Frequency(), 440) {
		t.Errorf("expected 440 for note 69, but got: %v", e.Synth().Frequency())
	}
	expectNoError(t, e.update([]string{"note_off"}))
	if err := e.update([]string{"set", "harmonicity"}); err == nil {
		t.Errorf("expected an error for a set without a value")
	}
	if err := e.update([]string{"explode"}); err == nil {
		t.Errorf("expected an error for an unknown command")
	}
	if err := e.update([]string{}); err == nil {
		t.Errorf("expected an error for an empty command")
	}
}

func TestReadProducesAudio(t *testing.T) {
	e := NewEngine(Params{})
	expectNoError(t, e.update([]string{"note_on", "69"}))
	buf := make([]byte, bufferSizeInBytes)
	silent := true
	for i := 0; i < 4; i++ {
		n, err := e.Read(buf)
		expectNoError(t, err)
		if n != len(buf) {
			t.Fatalf("expected %v bytes, but got: %v", len(buf), n)
		}
		for _, b := range buf {
			if b != 0 {
				silent = false
				break
			}
		}
	}
	if silent {
		t.Errorf("expected audible output after note_on")
	}
}

func TestCommandsDuringRender(t *testing.T) {
	e := NewEngine(Params{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		out := make([]float64, samplesPerCycle)
		for i := 0; i < 50; i++ {
			e.render(out)
		}
	}()
	for i := 0; i < 50; i++ {
		expectNoError(t, e.update([]string{"note_on", "69", "0.5"}))
		expectNoError(t, e.update([]string{"set", "frequency", "220"}))
		expectNoError(t, e.update([]string{"note_off"}))
	}
	e.Synth().Dispose()
	wg.Wait()
	if e.Synth() != nil {
		t.Errorf("expected the engine to detach the disposed synth")
	}
}

func TestPresetCommands(t *testing.T) {
	dir := t.TempDir()
	expectNoError(t, ioutil.WriteFile(dir+"/_list.json", []byte(`{"items":[{"name":"warm"}]}`), 0644))
	expectNoError(t, ioutil.WriteFile(dir+"/warm.json", []byte(`{"harmonicity":2,"carrier":{"oscillator":"triangle"}}`), 0644))
	e := NewEngine(Params{})
	if err := e.update([]string{"preset", "warm"}); err == nil {
		t.Errorf("expected an error before a preset directory is configured")
	}
	e.SetPresetDir(dir)
	expectNoError(t, e.update([]string{"preset", "list"}))
	list, err := e.presets.getList()
	expectNoError(t, err)
	if len(list) != 1 || list[0].name != "warm" {
		t.Errorf("expected the warm preset in the list, but got: %v", list)
	}
	expectNoError(t, e.update([]string{"preset", "warm"}))
	if !almost(e.Synth().Harmonicity(), 2) {
		t.Errorf("expected 2, but got: %v", e.Synth().Harmonicity())
	}
	if e.Synth().carrier.(*voice).osc.kind != waveTriangle {
		t.Errorf("expected the triangle oscillator on the carrier")
	}
	if err := e.update([]string{"preset", "missing"}); err == nil {
		t.Errorf("expected an error for a missing preset")
	}
}

func TestGetCommandReportsParams(t *testing.T) {
	e := NewEngine(Params{})
	expectNoError(t, e.update([]string{"set", "harmonicity", "2.5"}))
	expectNoError(t, e.update([]string{"get"}))
	var p Params
	expectNoError(t, json.Unmarshal(e.Synth().ToJSON(), &p))
	if !almost(p.Harmonicity, 2.5) {
		t.Errorf("expected 2.5, but got: %v", p.Harmonicity)
	}
	if !almost(p.Frequency, 440) {
		t.Errorf("expected 440, but got: %v", p.Frequency)
	}
}

func TestAddMidiEvent(t *testing.T) {
	e := NewEngine(Params{})
	e.AddMidiEvent([]byte{0x90, 57, 100})
	if !almost(e.Synth().Frequency(), 220) {
		t.Errorf("expected 220 for note 57, but got: %v", e.Synth().Frequency())
	}
	e.AddMidiEvent([]byte{0x80, 57, 0})
	e.AddMidiEvent([]byte{0x90}) // too short, ignored
}

func TestRenderWAV(t *testing.T) {
	e := NewEngine(Params{})
	e.Synth().TriggerAttack(Now, 1)
	e.Synth().TriggerRelease(Time(0.1))
	var out bytes.Buffer
	expectNoError(t, RenderWAV(e, &out, 0.2))
	wantSamples := int(0.2 * sampleRate)
	want := 44 + wantSamples*bytesPerSample
	if out.Len() != want {
		t.Errorf("expected %v bytes of WAV, but got: %v", want, out.Len())
	}
	if err := RenderWAV(e, &out, 0); err == nil {
		t.Errorf("expected an error for a zero duration")
	}
}
