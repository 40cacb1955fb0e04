package decoder

import (
	"errors"
	"fmt"

	"haliteview/gamestate"
	"haliteview/tokens"
)

// ErrFault marks a decode that cannot continue. Once returned, every later
// Step returns the same error.
var ErrFault = errors.New("decode fault")

// Phase is the decoder's position in the stream grammar.
type Phase int

const (
	PhaseHeader Phase = iota
	PhaseCounts
	PhaseFactories
	PhaseDimensions
	PhaseGrid
	PhaseTurn
	PhaseFaulted
)

var phaseNames = [...]string{
	PhaseHeader:     "header",
	PhaseCounts:     "counts",
	PhaseFactories:  "factories",
	PhaseDimensions: "dimensions",
	PhaseGrid:       "grid",
	PhaseTurn:       "turn",
	PhaseFaulted:    "faulted",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Progress reports what a single Step accomplished.
type Progress int

const (
	// Suspended means not enough tokens were buffered; nothing was consumed.
	Suspended Progress = iota
	// Advanced means one init stage completed.
	Advanced
	// TurnDecoded means a full turn frame was applied to the state.
	TurnDecoded
)

const (
	playerHeaderTokens = 4 // owner, ships, dropoffs, budget
	shipTokens         = 4 // id, x, y, cargo
	dropoffTokens      = 3 // id, x, y
	factoryTokens      = 3 // owner, x, y
	updateTokens       = 3 // x, y, value
)

// Decoder reassembles game states from a token stream. It owns the live
// state; Step must only be called from one goroutine.
type Decoder struct {
	stream *tokens.Stream
	state  *gamestate.State
	phase  Phase
	err    error

	// need is the token count the last suspended step was waiting for.
	need int

	// OnTurn, when set, is called after each decoded turn frame.
	OnTurn func(*gamestate.State)
}

// New returns a decoder reading from stream into a fresh state.
func New(stream *tokens.Stream) *Decoder {
	return &Decoder{stream: stream, state: gamestate.New()}
}

// State returns the live state. It is only safe to read between Steps on
// the decoding goroutine.
func (d *Decoder) State() *gamestate.State { return d.state }

// Phase returns the current phase.
func (d *Decoder) Phase() Phase { return d.phase }

// Err returns the fault that stopped decoding, if any.
func (d *Decoder) Err() error { return d.err }

// Need reports how many buffered tokens the current phase is waiting for.
// It is only meaningful after Step returned Suspended.
func (d *Decoder) Need() int { return d.need }

// Step attempts the current phase once. It either consumes nothing and
// returns Suspended, or completes exactly one phase.
func (d *Decoder) Step() (Progress, error) {
	if d.err != nil {
		return Suspended, d.err
	}
	var (
		p   Progress
		err error
	)
	switch d.phase {
	case PhaseHeader:
		p, err = d.stepHeader()
	case PhaseCounts:
		p, err = d.stepCounts()
	case PhaseFactories:
		p, err = d.stepFactories()
	case PhaseDimensions:
		p, err = d.stepDimensions()
	case PhaseGrid:
		p, err = d.stepGrid()
	case PhaseTurn:
		p, err = d.stepTurn()
	default:
		err = fmt.Errorf("unknown phase %v", d.phase)
	}
	if err != nil {
		d.err = fmt.Errorf("%w: %v: %w", ErrFault, d.phase, err)
		d.phase = PhaseFaulted
		return Suspended, d.err
	}
	return p, nil
}

// wait reports whether fewer than n tokens are buffered.
func (d *Decoder) wait(n int) bool {
	if d.stream.Count() < n {
		d.need = n
		return true
	}
	d.need = 0
	return false
}

func (d *Decoder) stepHeader() (Progress, error) {
	if d.wait(1) {
		return Suspended, nil
	}
	d.stream.Next()
	d.phase = PhaseCounts
	return Advanced, nil
}

func (d *Decoder) stepCounts() (Progress, error) {
	if d.wait(2) {
		return Suspended, nil
	}
	players, err := d.stream.NextInt()
	if err != nil {
		return Suspended, err
	}
	self, err := d.stream.NextInt()
	if err != nil {
		return Suspended, err
	}
	if players < 0 {
		return Suspended, fmt.Errorf("negative player count %d", players)
	}
	d.state.PlayerCount = players
	d.state.SelfID = self
	d.phase = PhaseFactories
	return Advanced, nil
}

func (d *Decoder) stepFactories() (Progress, error) {
	if d.wait(d.state.PlayerCount * factoryTokens) {
		return Suspended, nil
	}
	for range d.state.PlayerCount {
		v, err := d.ints(factoryTokens)
		if err != nil {
			return Suspended, err
		}
		d.state.AddFactory(v[0], v[1], v[2])
	}
	d.phase = PhaseDimensions
	return Advanced, nil
}

func (d *Decoder) stepDimensions() (Progress, error) {
	if d.wait(2) {
		return Suspended, nil
	}
	v, err := d.ints(2)
	if err != nil {
		return Suspended, err
	}
	if v[0] <= 0 || v[1] <= 0 {
		return Suspended, fmt.Errorf("bad map size %dx%d", v[0], v[1])
	}
	d.state.InitGrid(v[0], v[1])
	d.phase = PhaseGrid
	return Advanced, nil
}

func (d *Decoder) stepGrid() (Progress, error) {
	w, h := d.state.Width, d.state.Height
	if d.wait(w * h) {
		return Suspended, nil
	}
	for y := range h {
		for x := range w {
			v, err := d.stream.NextInt()
			if err != nil {
				return Suspended, err
			}
			d.state.Grid[x][y] = v
		}
	}
	d.phase = PhaseTurn
	return Advanced, nil
}

// frameSize returns the exact token length of the turn frame at the head of
// the stream, or ok=false if the buffered tokens cannot cover it yet. The
// bound is refined player by player using peeks only.
func (d *Decoder) frameSize() (need int, ok bool, err error) {
	players := d.state.PlayerCount
	need = 1 + players*playerHeaderTokens + 1
	if d.wait(need) {
		return need, false, nil
	}
	off := 1
	for range players {
		ships, err := d.peekCount(off + 1)
		if err != nil {
			return need, false, err
		}
		drops, err := d.peekCount(off + 2)
		if err != nil {
			return need, false, err
		}
		body := ships*shipTokens + drops*dropoffTokens
		need += body
		if d.wait(need) {
			return need, false, nil
		}
		off += playerHeaderTokens + body
	}
	updates, err := d.peekCount(off)
	if err != nil {
		return need, false, err
	}
	need += updates * updateTokens
	if d.wait(need) {
		return need, false, nil
	}
	return need, true, nil
}

func (d *Decoder) stepTurn() (Progress, error) {
	if _, ok, err := d.frameSize(); err != nil || !ok {
		return Suspended, err
	}

	st := d.state
	st.ResetTurnCollections()

	turn, err := d.stream.NextInt()
	if err != nil {
		return Suspended, err
	}
	st.Turn = turn

	for range st.PlayerCount {
		hdr, err := d.ints(playerHeaderTokens)
		if err != nil {
			return Suspended, err
		}
		owner, ships, drops := hdr[0], hdr[1], hdr[2]
		st.Budgets[owner] = hdr[3]
		for range ships {
			v, err := d.ints(shipTokens)
			if err != nil {
				return Suspended, err
			}
			st.AddShip(gamestate.Ship{Owner: owner, ID: v[0], X: v[1], Y: v[2], Cargo: v[3]})
		}
		for range drops {
			v, err := d.ints(dropoffTokens)
			if err != nil {
				return Suspended, err
			}
			st.AddDropoff(owner, v[1], v[2])
		}
	}

	updates, err := d.stream.NextInt()
	if err != nil {
		return Suspended, err
	}
	for range updates {
		v, err := d.ints(updateTokens)
		if err != nil {
			return Suspended, err
		}
		x, y := v[0], v[1]
		if !st.InBounds(x, y) {
			return Suspended, fmt.Errorf("turn %d: map update %d,%d outside %dx%d", turn, x, y, st.Width, st.Height)
		}
		st.Grid[x][y] = v[2]
	}

	st.Ready = true
	if d.OnTurn != nil {
		d.OnTurn(st)
	}
	return TurnDecoded, nil
}

// peekCount reads a count field ahead of the head. Negative counts would
// shrink the frame bound and are rejected.
func (d *Decoder) peekCount(offset int) (int, error) {
	n, err := d.stream.PeekInt(offset)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d at offset %d", n, offset)
	}
	return n, nil
}

// ints consumes n integers. Callers have already confirmed n are buffered.
func (d *Decoder) ints(n int) ([4]int, error) {
	var v [4]int
	for i := range n {
		x, err := d.stream.NextInt()
		if err != nil {
			return v, err
		}
		v[i] = x
	}
	return v, nil
}
