package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/mnkd/amsynth/src/audio"
	"golang.org/x/sync/errgroup"
)

var (
	presetDir  = flag.String("preset-dir", "", "directory of preset JSON files")
	presetName = flag.String("preset", "", "preset to load at startup")
	renderPath = flag.String("render", "", "render to a WAV file instead of playing")
	renderDur  = flag.Float64("dur", 3.0, "render duration in seconds")
	renderNote = flag.Int("note", 69, "note number for offline render")
	renderVel  = flag.Float64("vel", 1.0, "velocity for offline render")
	renderGate = flag.Float64("gate", 2.0, "note-off time in seconds for offline render")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := audio.NewEngine(audio.DefaultParams())
	defer engine.Close()
	if *presetDir != "" {
		engine.SetPresetDir(*presetDir)
	}
	if *presetName != "" {
		engine.CommandCh <- []string{"preset", *presetName}
	}

	if *renderPath != "" {
		if err := renderToFile(engine); err != nil {
			log.Fatalf("error: %v\n", err)
		}
		return
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Start(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return repl(ctx, engine.CommandCh)
	})
	g.Go(func() error {
		return receiveMidi(ctx, engine)
	})
	if err := g.Wait(); err != nil && err != io.EOF {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func renderToFile(engine *audio.Engine) error {
	synth := engine.Synth()
	synth.SetNote(*renderNote)
	synth.TriggerAttack(audio.Now, *renderVel)
	if *renderGate < *renderDur {
		synth.TriggerRelease(audio.Time(*renderGate))
	}
	f, err := os.Create(*renderPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := audio.RenderWAV(engine, f, *renderDur); err != nil {
		return err
	}
	log.Printf("rendered %.1fs to %s\n", *renderDur, *renderPath)
	return nil
}

func repl(ctx context.Context, commandCh chan<- []string) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	go func() {
		<-ctx.Done()
		rl.Close()
	}()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			log.Println("repl() ended.")
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		command := strings.Fields(line)
		select {
		case commandCh <- command:
		case <-ctx.Done():
			return nil
		default:
			fmt.Println("command queue is full")
		}
	}
}

func receiveMidi(ctx context.Context, engine *audio.Engine) error {
	midiCh := audio.ListenToMidiIn(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("receiveMidi() ended.")
			return nil
		case data, ok := <-midiCh:
			if !ok {
				return nil
			}
			engine.AddMidiEvent(data)
		}
	}
}
