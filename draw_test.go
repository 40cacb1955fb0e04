package main

import (
	"strings"
	"testing"
	"time"

	"haliteview/gamestate"
)

func TestOffsetAdjustWraps(t *testing.T) {
	tests := []struct {
		x, y, offX, offY int
		wantX, wantY     int
	}{
		{0, 0, 0, 0, 0, 0},
		{3, 4, 2, 1, 5, 5},
		{7, 7, 1, 1, 0, 0},
		{0, 0, -1, -3, 7, 5},
		{2, 2, -17, 25, 1, 3},
	}
	for _, tt := range tests {
		x, y := offsetAdjust(tt.x, tt.y, tt.offX, tt.offY, 8, 8, false)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("offsetAdjust(%d,%d off %d,%d) = %d,%d want %d,%d", tt.x, tt.y, tt.offX, tt.offY, x, y, tt.wantX, tt.wantY)
		}
		bx, by := offsetAdjust(x, y, tt.offX, tt.offY, 8, 8, true)
		if bx != tt.x || by != tt.y {
			t.Errorf("undo of %d,%d = %d,%d", tt.x, tt.y, bx, by)
		}
	}
	if x, y := offsetAdjust(5, 6, 1, 1, 0, 0, false); x != 5 || y != 6 {
		t.Errorf("empty map should pass through, got %d,%d", x, y)
	}
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		windowH, mapH int
		integer       bool
		want          int
	}{
		{961, 64, false, 960},
		{961, 64, true, 960},
		{900, 64, true, 896},
		{30, 64, false, 64},
		{30, 64, true, 64},
		{500, 0, false, 499},
	}
	for _, tt := range tests {
		if got := canvasSize(tt.windowH, tt.mapH, tt.integer); got != tt.want {
			t.Errorf("canvasSize(%d, %d, %v) = %d, want %d", tt.windowH, tt.mapH, tt.integer, got, tt.want)
		}
	}
}

func TestBoxSize(t *testing.T) {
	if got := boxSize(640, 32); got != 20 {
		t.Fatalf("boxSize = %v", got)
	}
	if got := boxSize(10, 32); got != 1 {
		t.Fatalf("small canvas should clamp to 1, got %v", got)
	}
	if got := boxSize(640, 0); got != 1 {
		t.Fatalf("empty map = %v", got)
	}
}

func TestGridShade(t *testing.T) {
	tests := []struct {
		aesthetic, v int
		want         uint8
	}{
		{gridFlat, 1000, 0},
		{gridLinear, 400, 100},
		{gridLinear, 5000, 255},
		{gridLinear, 3, 0},
		{gridSqrt2048, 2048, 255},
		{gridSqrt2048, 512, 127},
		{gridSqrt1024, 256, 127},
		{gridSqrt1024, 4096, 255},
		{gridSqrt1024, -5, 0},
	}
	for _, tt := range tests {
		if got := gridShade(tt.aesthetic, tt.v); got != tt.want {
			t.Errorf("gridShade(%d, %d) = %d, want %d", tt.aesthetic, tt.v, got, tt.want)
		}
	}
}

func TestCargoAlpha(t *testing.T) {
	if cargoAlpha(0) != 0 || cargoAlpha(1000) != 255 || cargoAlpha(5000) != 255 || cargoAlpha(500) != 128 {
		t.Fatalf("cargoAlpha wrong: %d %d %d", cargoAlpha(0), cargoAlpha(1000), cargoAlpha(500))
	}
}

func TestPlayerColour(t *testing.T) {
	if playerColour(4) != playerColour(0) {
		t.Fatalf("colours should cycle")
	}
	if playerColour(1) == playerColour(2) {
		t.Fatalf("players share a colour")
	}
}

func TestInfoLines(t *testing.T) {
	st := gamestate.New()
	st.PlayerCount = 2
	st.SelfID = 1
	st.InitGrid(2, 2)
	st.Grid[0][0] = 12000
	st.AddFactory(0, 0, 0)
	st.AddFactory(1, 1, 1)
	st.AddDropoff(1, 0, 1)
	st.AddShip(gamestate.Ship{Owner: 1, ID: 3})
	st.Budgets[0] = 5000
	st.Budgets[1] = 12345
	st.Turn = 17

	text := strings.Join(infoLines(st, "abcd", 2500, 90*time.Second, Preferences{GridAesthetic: gridSqrt2048, IntegerBoxSizes: true}), "\n")
	for _, want := range []string{
		"Turn 17",
		"Map 2x2  abcd",
		" P0  budget 5,000  ships 0  dropoffs 0",
		"*P1  budget 12,345  ships 1  dropoffs 1",
		"Halite on map: 12,000",
		"Grid: Sqrt 2048, integer boxes",
		"Backlog: 2,500 tokens",
		"Uptime: 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("info missing %q:\n%s", want, text)
		}
	}
}
