package main

import (
	"context"
	"errors"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	dark "github.com/thiagokokada/dark-mode-go"
)

const initialWindowW, initialWindowH = 1280, 960
const infoMargin = 12

var (
	darkBackground  = color.RGBA{0x10, 0x10, 0x14, 0xff}
	lightBackground = color.RGBA{0xe8, 0xe8, 0xe8, 0xff}
)

// Game adapts the viewer to ebiten.
type Game struct {
	ctx context.Context
	v   *Viewer
	bg  color.Color
}

// backgroundFor resolves the configured theme, asking the OS when unset.
func backgroundFor(theme string) color.Color {
	switch strings.ToLower(theme) {
	case "dark":
		return darkBackground
	case "light":
		return lightBackground
	}
	isDark, err := dark.IsDarkMode()
	if err != nil {
		logDebug("dark mode detection: %v", err)
		return darkBackground
	}
	if isDark {
		return darkBackground
	}
	return lightBackground
}

var panKeys = []struct {
	key    ebiten.Key
	dx, dy int
}{
	{ebiten.KeyArrowRight, 1, 0},
	{ebiten.KeyArrowLeft, -1, 0},
	{ebiten.KeyArrowDown, 0, 1},
	{ebiten.KeyArrowUp, 0, -1},
	{ebiten.KeyD, 1, 0},
	{ebiten.KeyA, -1, 0},
	{ebiten.KeyS, 0, 1},
	{ebiten.KeyW, 0, -1},
}

var aestheticKeys = [numGridAesthetics]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return errors.New("shutdown")
	default:
	}

	step := 1
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		step = 10
	}
	for _, k := range panKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.v.Pan(k.dx*step, k.dy*step)
		}
	}
	for i, k := range aestheticKeys {
		if inpututil.IsKeyJustPressed(k) {
			setGridAesthetic(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		toggleIntegerBoxSizes()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	maybeSavePrefs(time.Now())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)
	st := g.v.Snapshot()
	if st == nil || !st.Ready {
		msg := "Waiting for the engine..."
		if e := lastErrorLine(); e != "" {
			msg += "\n\n" + e
		}
		ebitenutil.DebugPrintAt(screen, msg, infoMargin, infoMargin)
		return
	}

	offX, offY := g.v.Offset()
	canvas := drawScene(screen, st, offX, offY, prefs)

	lines := infoLines(st, g.v.Signature(), g.v.Backlog(), g.v.Uptime(), prefs)
	if e := lastErrorLine(); e != "" {
		lines = append(lines, "", e)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), canvas+infoMargin, infoMargin)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// runGame opens the window and blocks until it is closed or ctx ends. It
// must be called from the main goroutine.
func runGame(ctx context.Context, v *Viewer, s Settings) {
	ebiten.SetWindowTitle("haliteview")
	ebiten.SetWindowSize(initialWindowW, initialWindowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &Game{ctx: ctx, v: v, bg: backgroundFor(s.Theme)}
	if err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{}); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Printf("ebiten: %v", err)
	}
	if prefsDirty {
		savePrefs()
		prefsDirty = false
	}
}
