// Package random provides Random implementations.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/calcstack/calcd/ports"
)

// Real uses crypto/rand for secure randomness.
type Real struct{}

// Bytes generates n cryptographically secure random bytes.
func (Real) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Uint32s generates n bias-free unsigned 32-bit draws.
func (r Real) Uint32s(n int) ([]uint32, error) {
	b, err := r.Bytes(n * 4)
	if err != nil {
		return nil, err
	}
	draws := make([]uint32, n)
	for i := range draws {
		draws[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	return draws, nil
}

// Fake provides deterministic randomness for testing.
type Fake struct {
	mu      sync.Mutex
	counter int
	draws   []uint32 // Preset draws to return
	index   int
}

// NewFake creates a fake random source.
func NewFake() *Fake {
	return &Fake{}
}

// WithDraws sets preset uint32 draws to return.
func (f *Fake) WithDraws(draws ...uint32) *Fake {
	f.draws = draws
	f.index = 0
	return f
}

// Bytes returns deterministic bytes based on a counter.
func (f *Fake) Bytes(n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counter++
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte((f.counter + i) % 256)
	}
	return b, nil
}

// Uint32s returns preset draws, falling back to a deterministic sequence.
func (f *Fake) Uint32s(n int) ([]uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	draws := make([]uint32, n)
	for i := range draws {
		if f.index < len(f.draws) {
			draws[i] = f.draws[f.index]
			f.index++
			continue
		}
		f.counter++
		draws[i] = uint32(f.counter)
	}
	return draws, nil
}

// Reset resets the fake to initial state.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter = 0
	f.index = 0
}

// Ensure interface compliance.
var (
	_ ports.Random = Real{}
	_ ports.Random = (*Fake)(nil)
)
