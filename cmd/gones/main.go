// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"gones/internal/audio"
	"gones/internal/console"
	"gones/internal/graphics"
	"gones/internal/hostconfig"
)

func main() {
	cfg := hostconfig.Default()

	romFile := flag.String("rom", "", "path to an iNES ROM file")
	flag.BoolVar(&cfg.Headless, "nogui", false, "run headless: clock a fixed number of frames and dump a screenshot")
	frames := flag.Int("frames", 120, "frames to run in -nogui mode before dumping a screenshot")
	flag.BoolVar(&cfg.AudioOn, "audio", cfg.AudioOn, "enable square/triangle audio synthesis")
	flag.IntVar(&cfg.WindowScale, "scale", cfg.WindowScale, "window scale factor (GUI mode only)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gones - Go NES Emulator (%s)\n", runtime.Version())
		return
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "gones: -rom is required")
		flag.PrintDefaults()
		os.Exit(2)
	}
	cfg.ROMPath = *romFile

	rom, err := os.ReadFile(cfg.ROMPath)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}

	if cfg.Headless {
		if err := runHeadless(rom, *frames); err != nil {
			log.Fatalf("headless run: %v", err)
		}
		return
	}

	if err := runGUI(rom, cfg); err != nil {
		log.Fatalf("gui run: %v", err)
	}
}

func runGUI(rom []byte, cfg hostconfig.Config) error {
	sink := graphics.NewSink()

	var audioSink audio.Sink = audio.NoOp{}
	if cfg.AudioOn {
		ctx := ebitenaudio.NewContext(graphics.SampleRate)
		sound, err := graphics.NewAudioSink(ctx)
		if err != nil {
			return fmt.Errorf("initializing audio: %w", err)
		}
		audioSink = sound
	}

	con := console.New(sink, audioSink)
	if err := con.Load(rom); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	if err := con.Reset(); err != nil {
		return fmt.Errorf("resetting console: %w", err)
	}

	game := graphics.NewGame(con, sink)
	ebiten.SetWindowSize(256*cfg.WindowScale, 240*cfg.WindowScale)
	ebiten.SetWindowTitle("gones")
	return ebiten.RunGame(game)
}

// runHeadless clocks the console for a fixed number of frames with no
// windowing system and writes the final frame to screenshot.png, useful
// for scripted smoke tests of a ROM.
func runHeadless(rom []byte, frames int) error {
	sink := graphics.NewSink()
	con := console.New(sink, audio.NoOp{})
	if err := con.Load(rom); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	if err := con.Reset(); err != nil {
		return fmt.Errorf("resetting console: %w", err)
	}

	const cyclesPerFrame = 29780
	for f := 0; f < frames; f++ {
		for i := 0; i < cyclesPerFrame; i++ {
			if err := con.Clock(); err != nil {
				return fmt.Errorf("clock: %w", err)
			}
		}
	}

	img := image.NewRGBA(sink.Bounds())
	copy(img.Pix, sink.Pixels())
	out, err := os.Create("screenshot.png")
	if err != nil {
		return fmt.Errorf("creating screenshot: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encoding screenshot: %w", err)
	}
	fmt.Printf("wrote screenshot.png after %d frames\n", frames)
	return nil
}
