package main

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"haliteview/gamestate"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var playerColours = []color.RGBA{
	{0xc5, 0xec, 0x98, 0xff},
	{0xff, 0x99, 0x99, 0xff},
	{0xff, 0xbe, 0x00, 0xff},
	{0x66, 0xcc, 0xcc, 0xff},
}

var (
	titleCaser    = cases.Title(language.English)
	shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")
)

const (
	shipRadius   = 0.35
	fullCargo    = 1000
	shipStrokePx = 1
)

func playerColour(owner int) color.RGBA {
	if owner < 0 {
		return color.RGBA{0x80, 0x80, 0x80, 0xff}
	}
	return playerColours[owner%len(playerColours)]
}

// wrap reduces v into [0, n) for negative v too.
func wrap(v, n int) int {
	return (v%n + n) % n
}

// offsetAdjust maps a cell to its on-screen cell under the pan offset, or
// back again when undo is set. The map is a torus.
func offsetAdjust(x, y, offX, offY, w, h int, undo bool) (int, int) {
	if w <= 0 || h <= 0 {
		return x, y
	}
	if !undo {
		x += offX
		y += offY
	} else {
		x -= offX
		y -= offY
	}
	return wrap(x, w), wrap(y, h)
}

// canvasSize picks the side of the square canvas for a window of the given
// height. With integer box sizes every cell gets the same whole number of
// pixels.
func canvasSize(windowH, mapH int, integer bool) int {
	if mapH <= 0 {
		return max(1, windowH-1)
	}
	if !integer {
		return max(mapH, windowH-1)
	}
	return mapH * max(1, (windowH-1)/mapH)
}

func boxSize(canvas, cells int) float64 {
	if cells <= 0 {
		return 1
	}
	return math.Max(1, float64(canvas)/float64(cells))
}

// gridShade maps a cell's resource amount to a grey level.
func gridShade(aesthetic, v int) uint8 {
	var val float64
	switch aesthetic {
	case gridLinear:
		val = float64(v) / 4
	case gridSqrt2048:
		val = 255 * math.Sqrt(math.Max(0, float64(v))/2048)
	case gridSqrt1024:
		val = 255 * math.Sqrt(math.Max(0, float64(v))/1024)
	}
	val = math.Floor(val)
	return uint8(math.Min(255, math.Max(0, val)))
}

// cargoAlpha is the fill opacity of a ship carrying cargo.
func cargoAlpha(cargo int) uint8 {
	a := float64(cargo) / fullCargo
	return uint8(math.Round(255 * math.Min(1, math.Max(0, a))))
}

// drawScene renders the grid, structures and ships of st into screen and
// returns the side of the canvas used.
func drawScene(screen *ebiten.Image, st *gamestate.State, offX, offY int, p Preferences) int {
	canvas := canvasSize(screen.Bounds().Dy(), st.Height, p.IntegerBoxSizes)
	bw := boxSize(canvas, st.Width)
	bh := boxSize(canvas, st.Height)

	cell := func(x, y int) (float32, float32) {
		i, j := offsetAdjust(x, y, offX, offY, st.Width, st.Height, false)
		return float32(float64(i) * bw), float32(float64(j) * bh)
	}

	for x := 0; x < st.Width; x++ {
		for y := 0; y < st.Height; y++ {
			g := gridShade(p.GridAesthetic, st.Grid[x][y])
			px, py := cell(x, y)
			vector.DrawFilledRect(screen, px, py, float32(bw), float32(bh), color.RGBA{g, g, g, 0xff}, false)
		}
	}

	for _, s := range st.Structures {
		px, py := cell(s.X, s.Y)
		vector.DrawFilledRect(screen, px, py, float32(bw), float32(bh), playerColour(s.Owner), false)
	}

	r := float32(shipRadius * bw)
	for _, sh := range st.Ships {
		px, py := cell(sh.X, sh.Y)
		cx, cy := px+float32(bw/2), py+float32(bh/2)
		c := playerColour(sh.Owner)
		vector.DrawFilledCircle(screen, cx, cy, r, color.Black, true)
		vector.DrawFilledCircle(screen, cx, cy, r, color.NRGBA{c.R, c.G, c.B, cargoAlpha(sh.Cargo)}, true)
		vector.StrokeCircle(screen, cx, cy, r, shipStrokePx, c, true)
	}
	return canvas
}

func formatUptime(d time.Duration) string {
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).Format(shortUnits)
}

// infoLines is the text shown beside the map.
func infoLines(st *gamestate.State, sig string, backlog int, uptime time.Duration, p Preferences) []string {
	lines := []string{
		fmt.Sprintf("Turn %d", st.Turn),
		fmt.Sprintf("Map %dx%d  %s", st.Width, st.Height, sig),
		"",
	}
	for _, f := range st.Factories() {
		mark := " "
		if f.Owner == st.SelfID {
			mark = "*"
		}
		drops := 0
		for _, d := range st.Dropoffs() {
			if d.Owner == f.Owner {
				drops++
			}
		}
		lines = append(lines, fmt.Sprintf("%sP%d  budget %s  ships %d  dropoffs %d",
			mark, f.Owner, humanize.Comma(int64(st.Budgets[f.Owner])), len(st.ShipsOf(f.Owner)), drops))
	}
	grid := titleCaser.String(gridAestheticNames[p.GridAesthetic])
	if p.IntegerBoxSizes {
		grid += ", integer boxes"
	}
	lines = append(lines,
		"",
		"Halite on map: "+humanize.Comma(int64(st.TotalResource())),
		"Grid: "+grid,
		"Backlog: "+humanize.Comma(int64(backlog))+" tokens",
		"Uptime: "+formatUptime(uptime),
	)
	return lines
}
