package main

import (
	"encoding/binary"
	"encoding/hex"

	"haliteview/gamestate"

	"golang.org/x/crypto/blake2b"
)

// mapSignature fingerprints the map as loaded at init: dimensions, factory
// placement and every cell value. Two runs on the same seed and size give
// the same signature.
func mapSignature(st *gamestate.State) string {
	buf := make([]byte, 0, 8*(2+3*st.PlayerCount+st.Width*st.Height))
	put := func(v int) { buf = binary.BigEndian.AppendUint64(buf, uint64(int64(v))) }

	put(st.Width)
	put(st.Height)
	for _, f := range st.Factories() {
		put(f.Owner)
		put(f.X)
		put(f.Y)
	}
	for y := 0; y < st.Height; y++ {
		for x := 0; x < st.Width; x++ {
			put(st.Grid[x][y])
		}
	}
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:8])
}
