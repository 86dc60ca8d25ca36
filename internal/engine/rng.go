package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
)

// Source yields uniform floats in [0, 1). Every stochastic decision in the
// simulation draws from a single Source supplied by the caller, so a whole
// run is reproducible from its seeds.
type Source interface {
	Next01() float64
}

// ByteGenerator produces a deterministic byte stream using HMAC-SHA256 and
// exposes it as a float Source.
type ByteGenerator struct {
	serverSeed   string
	clientSeed   string
	round        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator creates a generator positioned at the given cursor within
// the stream identified by (serverSeed, clientSeed, round).
func NewByteGenerator(serverSeed, clientSeed string, round uint64, cursor uint64) *ByteGenerator {
	bg := &ByteGenerator{
		serverSeed:   serverSeed,
		clientSeed:   clientSeed,
		round:        round,
		currentRound: cursor / 32,
		currentPos:   int(cursor % 32),
	}

	// Always generate the initial round
	bg.generateRound()

	return bg
}

// Next returns the next byte from the stream.
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= 32 {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}

	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// Next01 consumes exactly 4 bytes and returns a float in [0, 1).
func (bg *ByteGenerator) Next01() float64 {
	b0 := bg.Next()
	b1 := bg.Next()
	b2 := bg.Next()
	b3 := bg.Next()

	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.serverSeed))
	message := fmt.Sprintf("%s:%d:%d", bg.clientSeed, bg.round, bg.currentRound)
	h.Write([]byte(message))
	copy(bg.buffer[:], h.Sum(nil))
}

// bytesToFloat converts exactly 4 bytes to a float64 in [0, 1), most
// significant byte first.
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// Floats generates the specified number of floats starting from the given cursor.
func Floats(serverSeed, clientSeed string, round uint64, cursor uint64, count int) []float64 {
	bg := NewByteGenerator(serverSeed, clientSeed, round, cursor)
	floats := make([]float64, count)

	for i := 0; i < count; i++ {
		floats[i] = bg.Next01()
	}

	return floats
}
