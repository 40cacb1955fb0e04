package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"haliteview/decoder"
	"haliteview/gamestate"
)

// sampleGame is a 2-player 3x2 map followed by three turns, split across
// lines the way the engine might print it.
var sampleGame = []string{
	`{"protocol":"halite"}`,
	"2 0",
	"0 0 0",
	"1 2 1",
	"3 2",
	"10 20 30",
	"40 50 60",
	"1",
	"0 1 0 4000 7 1 0 0",
	"1 0 0 5000",
	"1 1 0 0",
	"2 0 2 0 3900 7 1 1 25 8 2 1 0",
	"1 0 1 4800 42 0 1",
	"0",
	"3 0 1 0 3900 7 2 1 40 1 0 1 4800 43 2 1 1 0 0 11",
}

func writeGameFile(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func runAttached(t *testing.T, lines []string) (*Viewer, []*gamestate.State, error) {
	t.Helper()
	v := newViewer(time.Millisecond)
	var seen []*gamestate.State
	v.onTurn = func(st *gamestate.State) { seen = append(seen, st) }

	path := writeGameFile(t, lines)
	go func() {
		if err := attachInput(path, v); err != nil {
			t.Errorf("attachInput: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	err := v.Run(ctx)
	return v, seen, err
}

func TestViewerDecodesAttachedGame(t *testing.T) {
	v, seen, err := runAttached(t, sampleGame)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.Turns() != 3 || len(seen) != 3 {
		t.Fatalf("turns=%d seen=%d", v.Turns(), len(seen))
	}
	st := v.Snapshot()
	if st == nil || !st.Ready || st.Turn != 3 {
		t.Fatalf("snapshot = %+v", st)
	}
	if st.Grid[0][0] != 11 || st.Grid[2][1] != 60 {
		t.Fatalf("grid = %v", st.Grid)
	}
	if len(st.Ships) != 1 || st.Ships[0] != (gamestate.Ship{Owner: 0, ID: 7, X: 2, Y: 1, Cargo: 40}) {
		t.Fatalf("ships = %+v", st.Ships)
	}
	if d := st.Dropoffs(); len(d) != 1 || d[0].Owner != 1 || d[0].X != 2 || d[0].Y != 1 {
		t.Fatalf("dropoffs = %+v", d)
	}
	if v.Signature() == "" {
		t.Fatalf("no map signature")
	}
	if v.Backlog() != 0 {
		t.Fatalf("backlog = %d", v.Backlog())
	}
}

func TestViewerSnapshotsAreIndependent(t *testing.T) {
	_, seen, err := runAttached(t, sampleGame)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	first := seen[0]
	if first.Turn != 1 || len(first.Ships) != 1 || first.Ships[0].Cargo != 0 {
		t.Fatalf("first snapshot mutated: %+v", first)
	}
	if first.Budgets[1] != 5000 || first.Grid[0][0] != 10 {
		t.Fatalf("first snapshot mutated: budgets=%v grid=%v", first.Budgets, first.Grid)
	}
	if len(seen[1].Dropoffs()) != 1 || seen[1].Dropoffs()[0].X != 0 {
		t.Fatalf("second snapshot = %+v", seen[1].Structures)
	}
}

func TestViewerStopsOnFault(t *testing.T) {
	lines := append(append([]string(nil), sampleGame[:11]...), "2 0 bad 0 3900 1 0 0 4800 0")
	v, _, err := runAttached(t, lines)
	if !errors.Is(err, decoder.ErrFault) {
		t.Fatalf("err = %v", err)
	}
	if st := v.Snapshot(); st == nil || st.Turn != 1 {
		t.Fatalf("last good snapshot lost: %+v", st)
	}
	if lastErrorLine() == "" {
		t.Fatalf("fault was not logged")
	}
}

func TestViewerWaitsForMoreInput(t *testing.T) {
	v := newViewer(time.Millisecond)
	for _, l := range sampleGame[:9] {
		v.Receive(l)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := v.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v", err)
	}
	if v.Snapshot() != nil {
		t.Fatalf("published a partial turn")
	}
	if v.Backlog() == 0 {
		t.Fatalf("partial frame was consumed")
	}
}

func TestViewerReady(t *testing.T) {
	v := newViewer(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go v.Run(ctx)
	select {
	case <-v.Ready():
		t.Fatalf("ready before settle delay")
	default:
	}
	select {
	case <-v.Ready():
	case <-time.After(2 * time.Second):
		t.Fatalf("never became ready")
	}
}

func TestViewerPan(t *testing.T) {
	v := newViewer(0)
	v.Pan(3, -1)
	v.Pan(-10, 4)
	if x, y := v.Offset(); x != -7 || y != 3 {
		t.Fatalf("Offset() = %d,%d", x, y)
	}
}
