package audio

import (
	"context"
	"log"

	"gitlab.com/gomidi/rtmididrv"
)

// ListenToMidiIn opens the first MIDI input port and streams raw messages
// until ctx is cancelled. Without a port the channel simply stays silent.
func ListenToMidiIn(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("midi: driver init failed: %v\n", err)
			return
		}
		defer func() {
			if err := drv.Close(); err != nil {
				log.Printf("midi: closing driver failed: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("midi: listing inputs failed: %v\n", err)
			return
		}
		if len(ins) == 0 {
			log.Println("midi: no input ports, MIDI control disabled")
			return
		}
		in := ins[0]
		if err := in.Open(); err != nil {
			log.Printf("midi: opening %v failed: %v\n", in, err)
			return
		}
		defer func() {
			if err := in.Close(); err != nil {
				log.Printf("midi: closing input failed: %v\n", err)
			}
		}()
		log.Printf("midi: listening on %v\n", in)
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			ch <- data
		}); err != nil {
			log.Printf("midi: setting listener failed: %v\n", err)
		}
		defer func() {
			if err := in.StopListening(); err != nil {
				log.Printf("midi: stop listening failed: %v\n", err)
			}
		}()
		defer close(ch)
		<-ctx.Done()
	}()
	return ch
}

// AddMidiEvent translates a raw MIDI message into synth triggers.
// Note-on with zero velocity counts as note-off.
func (e *Engine) AddMidiEvent(data []byte) {
	if len(data) < 2 {
		return
	}
	switch data[0] & 0xf0 {
	case 0x90:
		if len(data) < 3 || data[2] == 0 {
			e.synth.TriggerRelease(Now)
			return
		}
		e.mu.Lock()
		e.synth.SetNote(int(data[1]))
		e.synth.TriggerAttack(Now, float64(data[2])/127)
		e.mu.Unlock()
	case 0x80:
		e.synth.TriggerRelease(Now)
	}
}
