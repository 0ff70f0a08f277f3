package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 4
)

// RandomRoomCode generates a 4 uppercase letter room code. Uniqueness against
// live rooms is the caller's responsibility.
func RandomRoomCode(rng *rand.Rand) string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// NewSeededRand returns a math/rand generator seeded from crypto/rand.
func NewSeededRand() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto source unavailable, fall back to a fixed seed
		return rand.New(rand.NewSource(1))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}
