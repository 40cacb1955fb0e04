package gamestate

import (
	"reflect"
	"testing"
)

func TestInitGridZeroFills(t *testing.T) {
	s := New()
	s.InitGrid(3, 2)
	if len(s.Grid) != 3 {
		t.Fatalf("grid width %d, want 3", len(s.Grid))
	}
	for x, col := range s.Grid {
		if len(col) != 2 {
			t.Fatalf("column %d height %d, want 2", x, len(col))
		}
		for y, v := range col {
			if v != 0 {
				t.Fatalf("cell %d,%d = %d", x, y, v)
			}
		}
	}
	// Columns must not alias each other.
	s.Grid[0][1] = 9
	if s.Grid[1][0] != 0 {
		t.Fatalf("column write leaked into neighbour")
	}
	s.Grid[2] = append(s.Grid[2], 5)
	if s.Grid[0][0] != 0 || s.Grid[1][0] != 0 {
		t.Fatalf("append on last column clobbered grid")
	}
}

func TestResetTurnCollectionsKeepsFactories(t *testing.T) {
	s := New()
	s.PlayerCount = 2
	s.AddFactory(0, 1, 1)
	s.AddFactory(1, 8, 8)
	s.AddDropoff(0, 3, 3)
	s.AddDropoff(1, 4, 4)
	s.AddShip(Ship{Owner: 0, ID: 1})

	s.ResetTurnCollections()

	if len(s.Ships) != 0 {
		t.Fatalf("ships not cleared: %v", s.Ships)
	}
	want := []Structure{
		{Owner: 0, X: 1, Y: 1, Factory: true},
		{Owner: 1, X: 8, Y: 8, Factory: true},
	}
	if !reflect.DeepEqual(s.Structures, want) {
		t.Fatalf("structures = %v, want %v", s.Structures, want)
	}
	if len(s.Dropoffs()) != 0 || len(s.Factories()) != 2 {
		t.Fatalf("factories=%d dropoffs=%d", len(s.Factories()), len(s.Dropoffs()))
	}
}

func TestShipsOfAndTotals(t *testing.T) {
	s := New()
	s.InitGrid(2, 2)
	s.Grid[0][0] = 10
	s.Grid[1][1] = 32
	s.AddShip(Ship{Owner: 0, ID: 1})
	s.AddShip(Ship{Owner: 1, ID: 2})
	s.AddShip(Ship{Owner: 0, ID: 3})

	if got := s.TotalResource(); got != 42 {
		t.Fatalf("TotalResource() = %d", got)
	}
	mine := s.ShipsOf(0)
	if len(mine) != 2 || mine[0].ID != 1 || mine[1].ID != 3 {
		t.Fatalf("ShipsOf(0) = %v", mine)
	}
	if !s.InBounds(1, 1) || s.InBounds(2, 0) || s.InBounds(0, -1) {
		t.Fatalf("InBounds wrong")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New()
	s.PlayerCount = 1
	s.InitGrid(2, 2)
	s.AddFactory(0, 0, 0)
	s.AddShip(Ship{Owner: 0, ID: 7, Cargo: 100})
	s.Budgets[0] = 5000
	s.Turn = 3
	s.Ready = true

	c := s.Clone()
	if !reflect.DeepEqual(s, c) {
		t.Fatalf("clone differs:\n%+v\n%+v", s, c)
	}

	s.Grid[1][1] = 99
	s.Ships[0].Cargo = 0
	s.Structures[0].X = 4
	s.Budgets[0] = 1
	if c.Grid[1][1] != 0 || c.Ships[0].Cargo != 100 || c.Structures[0].X != 0 || c.Budgets[0] != 5000 {
		t.Fatalf("clone shares memory with source: %+v", c)
	}
}
