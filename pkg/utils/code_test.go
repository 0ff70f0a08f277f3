package utils

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomRoomCodeFormat(t *testing.T) {
	format := regexp.MustCompile(`^[A-Z]{4}$`)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		code := RandomRoomCode(rng)
		assert.Regexp(t, format, code)
	}
}

func TestRandomRoomCodeVaries(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[RandomRoomCode(rng)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestNewSeededRand(t *testing.T) {
	rng := NewSeededRand()
	if assert.NotNil(t, rng) {
		n := rng.Intn(26)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 26)
	}
}
