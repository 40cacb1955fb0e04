package gamestate

// Structure is a factory or dropoff owned by a player.
type Structure struct {
	Owner   int
	X, Y    int
	Factory bool
}

// Ship is one ship as reported in a turn frame.
type Ship struct {
	Owner int
	ID    int
	X, Y  int
	Cargo int
}

// State is the snapshot the decoder fills in and the renderer reads.
//
// Structures always begins with PlayerCount permanent factories; anything
// after that prefix is a dropoff and is rebuilt every turn. Ships is
// replaced wholesale every turn.
type State struct {
	PlayerCount int
	SelfID      int
	Width       int
	Height      int

	// Grid is indexed [x][y].
	Grid [][]int

	Structures []Structure
	Ships      []Ship
	Budgets    map[int]int

	Turn  int
	Ready bool
}

// New returns an empty state.
func New() *State {
	return &State{Budgets: make(map[int]int)}
}

// InitGrid allocates a zero-filled Width x Height grid.
func (s *State) InitGrid(width, height int) {
	s.Width = width
	s.Height = height
	cells := make([]int, width*height)
	s.Grid = make([][]int, width)
	for x := range s.Grid {
		s.Grid[x] = cells[x*height : (x+1)*height : (x+1)*height]
	}
}

// ResetTurnCollections drops last turn's ships and dropoffs, keeping the
// factory prefix.
func (s *State) ResetTurnCollections() {
	clear(s.Ships)
	s.Ships = s.Ships[:0]
	n := min(s.PlayerCount, len(s.Structures))
	clear(s.Structures[n:])
	s.Structures = s.Structures[:n]
}

// AddFactory appends a permanent factory.
func (s *State) AddFactory(owner, x, y int) {
	s.Structures = append(s.Structures, Structure{Owner: owner, X: x, Y: y, Factory: true})
}

// AddDropoff appends a per-turn dropoff.
func (s *State) AddDropoff(owner, x, y int) {
	s.Structures = append(s.Structures, Structure{Owner: owner, X: x, Y: y})
}

// AddShip appends a ship for the current turn.
func (s *State) AddShip(sh Ship) {
	s.Ships = append(s.Ships, sh)
}

// InBounds reports whether x,y lies on the grid.
func (s *State) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// Factories returns the permanent factory prefix of Structures.
func (s *State) Factories() []Structure {
	return s.Structures[:min(s.PlayerCount, len(s.Structures))]
}

// Dropoffs returns this turn's dropoffs.
func (s *State) Dropoffs() []Structure {
	return s.Structures[min(s.PlayerCount, len(s.Structures)):]
}

// ShipsOf returns the ships owned by owner, in frame order.
func (s *State) ShipsOf(owner int) []Ship {
	var out []Ship
	for _, sh := range s.Ships {
		if sh.Owner == owner {
			out = append(out, sh)
		}
	}
	return out
}

// TotalResource sums every cell of the grid.
func (s *State) TotalResource() int {
	total := 0
	for _, col := range s.Grid {
		for _, v := range col {
			total += v
		}
	}
	return total
}

// Clone returns a deep copy that shares no memory with s.
func (s *State) Clone() *State {
	c := *s
	if s.Grid != nil {
		c.Grid = make([][]int, len(s.Grid))
		cells := make([]int, s.Width*s.Height)
		for x, col := range s.Grid {
			c.Grid[x] = cells[x*s.Height : (x+1)*s.Height : (x+1)*s.Height]
			copy(c.Grid[x], col)
		}
	}
	c.Structures = append([]Structure(nil), s.Structures...)
	c.Ships = append([]Ship(nil), s.Ships...)
	c.Budgets = make(map[int]int, len(s.Budgets))
	for k, v := range s.Budgets {
		c.Budgets[k] = v
	}
	return &c
}
