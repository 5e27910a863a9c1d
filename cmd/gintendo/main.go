// Command gintendo plays an iNES ROM in an ebiten window.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/console"
	"github.com/bdwalton/nesgo/mappers"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	romFile = flag.String("nes_rom", "", "Path to NES ROM to run.")
	debug   = flag.Bool("debug", false, "Drop into the terminal debugger instead of opening a window.")
)

func main() {
	flag.Parse()

	rom, err := cartridge.New(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		log.Fatalf("Couldn't Get() mapper: %v", err)
	}

	sys := console.New(m)

	if *debug {
		console.NewDebugger(sys).Run(context.Background())
		os.Exit(0)
	}

	g := newGame(sys)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := sys.Run(ctx, g.frames); err != nil && ctx.Err() == nil {
			log.Printf("emulation stopped: %v", err)
		}
	}()

	ebiten.SetWindowSize(512, 480)
	ebiten.SetWindowTitle("Gintendo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}

	cancel()
	os.Exit(0)
}
