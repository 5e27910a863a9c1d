package main

import (
	"github.com/bdwalton/nesgo/console"
	"github.com/bdwalton/nesgo/ppu"
	"github.com/hajimehoshi/ebiten/v2"
)

// padKeys maps one controller port's buttons to host keys, in the bit
// order defined by console.Button*.
var padKeys = [2][8]ebiten.Key{
	{ // port 0
		ebiten.KeyZ, ebiten.KeyX, ebiten.KeySpace, ebiten.KeyEnter,
		ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	},
	{ // port 1
		ebiten.KeyK, ebiten.KeyJ, ebiten.Key7, ebiten.Key8,
		ebiten.KeyW, ebiten.KeyS, ebiten.KeyA, ebiten.KeyD,
	},
}

// game adapts a console.System to ebiten.Game: it receives completed
// frames over a channel from the emulation goroutine (see main.go) and
// polls host input into the system's two controller ports.
type game struct {
	sys    *console.System
	frames chan console.Frame

	screen *ebiten.Image
	latest console.Frame
}

func newGame(sys *console.System) *game {
	return &game{
		sys:    sys,
		frames: make(chan console.Frame, 2),
		screen: ebiten.NewImage(ppu.Width, ppu.Height),
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

func (g *game) Update() error {
	g.pollInput()

	select {
	case f := <-g.frames:
		g.latest = f
	default:
	}
	return nil
}

func (g *game) pollInput() {
	for port := 0; port < 2; port++ {
		var buttons uint8
		for bit, key := range padKeys[port] {
			if ebiten.IsKeyPressed(key) {
				buttons |= 1 << bit
			}
		}
		g.sys.Controller(port).SetButtons(buttons)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	if len(g.latest.Pixels) == ppu.Width*ppu.Height*3 {
		rgba := make([]byte, ppu.Width*ppu.Height*4)
		for i := 0; i < ppu.Width*ppu.Height; i++ {
			rgba[i*4+0] = g.latest.Pixels[i*3+0]
			rgba[i*4+1] = g.latest.Pixels[i*3+1]
			rgba[i*4+2] = g.latest.Pixels[i*3+2]
			rgba[i*4+3] = 0xFF
		}
		g.screen.ReplacePixels(rgba)
	}
	screen.DrawImage(g.screen, nil)
}
