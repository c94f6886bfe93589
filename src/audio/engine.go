package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/oto"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate
const baseFreq = 440.0
const masterGain = 0.5

// ----- Utility ----- //

func positiveMod(a float64, b float64) float64 {
	if b < 0 {
		panic("b should not be negative")
	}
	for a < 0 {
		a += b
	}
	return math.Mod(a, b)
}
func noteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}

// ----- Time ----- //

// Time is a point on the engine's sample clock, in seconds.
// Now resolves to the current clock position.
type Time float64

// Now ...
const Now Time = -1

// ----- Scheduler ----- //

type scheduled struct {
	at int64 // absolute sample index
	fn func()
}

// ----- Engine ----- //

// Engine renders the signal graph at a fixed sample rate and fires
// scheduled events at their exact sample frame. Events scheduled for the
// same resolved time fire in the same frame.
type Engine struct {
	mu        sync.Mutex // guards the graph during render and mutation
	schedMu   sync.Mutex // guards pending
	pending   []scheduled
	pos       int64 // read with atomic, advanced by the render loop
	ctx       context.Context
	otoCtx    *oto.Context
	CommandCh chan []string
	synth     *AMSynth
	presets   *presetManager
}

var _ io.Reader = (*Engine)(nil)

// NewEngine ...
func NewEngine(p Params) *Engine {
	commandCh := make(chan []string, 256)
	e := &Engine{
		ctx:       context.Background(),
		CommandCh: commandCh,
	}
	e.synth = NewAMSynth(e, p)
	go processCommands(e, commandCh)
	return e
}

// Synth ...
func (e *Engine) Synth() *AMSynth {
	return e.synth
}

// SetPresetDir ...
func (e *Engine) SetPresetDir(dir string) {
	e.presets = newPresetManager(dir)
}

// Resolve turns a Time into an absolute sample index, never in the past.
func (e *Engine) Resolve(t Time) int64 {
	pos := atomic.LoadInt64(&e.pos)
	if t < 0 {
		return pos
	}
	at := int64(float64(t)*sampleRate + 0.5)
	if at < pos {
		at = pos
	}
	return at
}

func (e *Engine) schedule(at int64, fn func()) {
	e.schedMu.Lock()
	i := len(e.pending)
	for i > 0 && e.pending[i-1].at > at {
		i--
	}
	e.pending = append(e.pending, scheduled{})
	copy(e.pending[i+1:], e.pending[i:])
	e.pending[i] = scheduled{at: at, fn: fn}
	e.schedMu.Unlock()
}

// step advances the clock by one sample: due events fire first, then the
// graph is pulled once.
func (e *Engine) step() float64 {
	pos := atomic.LoadInt64(&e.pos)
	e.schedMu.Lock()
	for len(e.pending) > 0 && e.pending[0].at <= pos {
		fn := e.pending[0].fn
		e.pending = e.pending[1:]
		fn()
	}
	e.schedMu.Unlock()
	value := 0.0
	if e.synth != nil {
		value = e.synth.step()
	}
	atomic.StoreInt64(&e.pos, pos+1)
	return value
}

func (e *Engine) render(out []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range out {
		out[i] = e.step()
	}
}

func (e *Engine) Read(buf []byte) (int, error) {
	select {
	case <-e.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		e.mu.Lock()
		defer e.mu.Unlock()
		sampleLength := len(buf) / bytesPerSample
		for i := 0; i < sampleLength; i++ {
			writeFrame(buf, i, e.step()*masterGain)
		}
		return len(buf), nil
	}
}

func writeFrame(buf []byte, i int, value float64) {
	if value > 1 {
		value = 1
	} else if value < -1 {
		value = -1
	}
	const max = 32767
	b := int16(value * max)
	for ch := 0; ch < channelNum; ch++ {
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Start opens the audio device and blocks until ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	otoCtx, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return err
	}
	e.otoCtx = otoCtx
	p := otoCtx.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	e.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, e, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// Close ...
func (e *Engine) Close() error {
	log.Println("Closing Engine...")
	close(e.CommandCh)
	if e.otoCtx != nil {
		return e.otoCtx.Close()
	}
	return nil
}

// ----- Commands ----- //

func processCommands(e *Engine, commandCh <-chan []string) {
	for command := range commandCh {
		if err := e.update(command); err != nil {
			log.Printf("command %v failed: %v", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

func (e *Engine) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "set":
		if len(command) < 3 {
			return fmt.Errorf("set needs a key and a value")
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.synth.set(command[1:]...)
	case "note_on":
		if len(command) < 2 {
			return fmt.Errorf("note_on needs a note number")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		velocity := defaultVelocity
		if len(command) >= 3 {
			velocity, err = strconv.ParseFloat(command[2], 64)
			if err != nil {
				return err
			}
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		e.synth.SetNote(int(note))
		e.synth.TriggerAttack(Now, velocity)
		return nil
	case "note_off":
		e.mu.Lock()
		defer e.mu.Unlock()
		e.synth.TriggerRelease(Now)
		return nil
	case "get":
		e.mu.Lock()
		defer e.mu.Unlock()
		log.Printf("%s\n", e.synth.ToJSON())
		return nil
	case "preset":
		if len(command) < 2 {
			return fmt.Errorf("preset needs a name")
		}
		if e.presets == nil {
			return fmt.Errorf("no preset directory configured")
		}
		if command[1] == "list" {
			list, err := e.presets.getList()
			if err != nil {
				return err
			}
			for _, item := range list {
				log.Println(item.name)
			}
			return nil
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.presets.applyToSynth(command[1], e.synth)
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
}
