package nonce

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"sync"
)

// Size is the width of a serialized nonce.
const Size = 8

// seedSpace bounds the random starting point so a session has ample headroom
// before the counter would reach math.MaxUint32.
const seedSpace = 1 << 24

// ErrExhausted is returned by Next once the counter reaches math.MaxUint32.
var ErrExhausted = errors.New("nonce: counter exhausted")

// Sequencer issues strictly increasing request nonces for one session.
type Sequencer struct {
	mu  sync.Mutex
	cur uint32
}

// New returns a Sequencer seeded with a random value in [0, 2^24).
func New() *Sequencer {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return NewFrom(0)
	}
	return NewFrom(binary.LittleEndian.Uint32(b[:]) % seedSpace)
}

// NewFrom returns a Sequencer whose first Next call yields seed+1.
func NewFrom(seed uint32) *Sequencer { return &Sequencer{cur: seed} }

// Next advances the counter and returns the new value.
func (s *Sequencer) Next() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == math.MaxUint32 {
		return 0, ErrExhausted
	}
	s.cur++
	return s.cur, nil
}

// Current returns the last issued value without advancing.
func (s *Sequencer) Current() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Restore sets the last issued value, e.g. when reloading persisted state.
func (s *Sequencer) Restore(v uint32) {
	s.mu.Lock()
	s.cur = v
	s.mu.Unlock()
}

// Encode writes v little-endian into an 8-byte buffer; the high bytes stay zero.
func Encode(v uint32) []byte {
	b := make([]byte, Size)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
