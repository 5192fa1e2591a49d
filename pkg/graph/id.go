package graph

import (
	"crypto/rand"
	"fmt"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const idLength = 6

// NewSyntheticID generates a random identifier for a group or relation
// node. Element ids in the input are short letter-digit codes, so a
// six-character random id keeps the namespaces apart; a collision with an
// existing node re-rolls.
func (g *Graph) NewSyntheticID() string {
	for {
		id := randomID()
		if !g.HasNode(id) {
			return id
		}
	}
}

func randomID() string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}
