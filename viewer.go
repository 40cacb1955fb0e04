package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"haliteview/decoder"
	"haliteview/gamestate"
	"haliteview/tokens"

	"golang.org/x/time/rate"
)

// readyDelay gives the window time to settle before announcing readiness.
const readyDelay = 200 * time.Millisecond

// Viewer owns the token stream and decoder, drives decoding, and publishes
// a copy of the state after every turn for the renderer.
type Viewer struct {
	stream *tokens.Stream
	dec    *decoder.Decoder
	snap   atomic.Pointer[gamestate.State]

	poll    time.Duration
	ready   chan struct{}
	eof     chan struct{}
	eofOnce sync.Once

	offMu      sync.Mutex
	offX, offY int

	start     time.Time
	turns     atomic.Int64
	signature atomic.Value

	stallLog *rate.Limiter

	// onTurn is called on the decoding goroutine with the published copy.
	onTurn func(*gamestate.State)
}

func newViewer(poll time.Duration) *Viewer {
	if poll <= 0 {
		poll = defaultPollInterval
	}
	v := &Viewer{
		stream:   tokens.New(),
		poll:     poll,
		ready:    make(chan struct{}),
		eof:      make(chan struct{}),
		start:    time.Now(),
		stallLog: rate.NewLimiter(rate.Every(5*time.Second), 1),
	}
	v.dec = decoder.New(v.stream)
	v.dec.OnTurn = v.publish
	return v
}

// Receive hands one raw line of engine output to the token stream.
func (v *Viewer) Receive(line string) {
	v.stream.Receive(line)
}

// EndOfInput marks that no more lines will arrive.
func (v *Viewer) EndOfInput() {
	v.eofOnce.Do(func() { close(v.eof) })
}

// Ready is closed once the viewer has settled after startup.
func (v *Viewer) Ready() <-chan struct{} { return v.ready }

// Snapshot returns the latest fully decoded turn, or nil before the first.
func (v *Viewer) Snapshot() *gamestate.State { return v.snap.Load() }

// Pan moves the view by dx, dy cells.
func (v *Viewer) Pan(dx, dy int) {
	v.offMu.Lock()
	v.offX += dx
	v.offY += dy
	v.offMu.Unlock()
}

// Offset returns the current pan offset.
func (v *Viewer) Offset() (int, int) {
	v.offMu.Lock()
	defer v.offMu.Unlock()
	return v.offX, v.offY
}

// Backlog reports how many tokens are buffered but not yet decoded.
func (v *Viewer) Backlog() int { return v.stream.Count() }

// Turns reports how many turn frames have been decoded.
func (v *Viewer) Turns() int64 { return v.turns.Load() }

// Uptime is the time since the viewer was created.
func (v *Viewer) Uptime() time.Duration { return time.Since(v.start) }

// Signature is the map signature, available once the grid has loaded.
func (v *Viewer) Signature() string {
	s, _ := v.signature.Load().(string)
	return s
}

func (v *Viewer) publish(st *gamestate.State) {
	cp := st.Clone()
	v.snap.Store(cp)
	v.turns.Add(1)
	if v.onTurn != nil {
		v.onTurn(cp)
	}
}

// pump steps the decoder until it suspends or faults and returns how many
// turns were decoded.
func (v *Viewer) pump() (int, error) {
	turns := 0
	for {
		p, err := v.dec.Step()
		if err != nil {
			return turns, err
		}
		switch p {
		case decoder.Suspended:
			return turns, nil
		case decoder.TurnDecoded:
			turns++
		case decoder.Advanced:
			if v.dec.Phase() == decoder.PhaseTurn {
				st := v.dec.State()
				sig := mapSignature(st)
				v.signature.Store(sig)
				logDebug("map loaded: %dx%d, %d players, signature %s", st.Width, st.Height, st.PlayerCount, sig)
			}
		}
	}
}

// Run decodes until ctx is cancelled, the decoder faults, or input has
// ended and everything buffered has been decoded.
func (v *Viewer) Run(ctx context.Context) error {
	go func() {
		select {
		case <-time.After(readyDelay):
			close(v.ready)
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(v.poll)
	defer ticker.Stop()
	for {
		if _, err := v.pump(); err != nil {
			logError("decoding stopped after %d turns: %v", v.Turns(), err)
			return err
		}
		select {
		case <-v.eof:
			// The producer is done, so one final pump sees everything.
			if _, err := v.pump(); err != nil {
				logError("decoding stopped after %d turns: %v", v.Turns(), err)
				return err
			}
			if n := v.stream.Count(); n > 0 {
				logDebug("input ended with %d undecoded tokens in %v phase", n, v.dec.Phase())
			}
			return nil
		default:
		}
		if n := v.stream.Count(); n > 0 && v.stallLog.Allow() {
			logDebug("waiting in %v phase: %d of %d tokens buffered", v.dec.Phase(), n, v.dec.Need())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
