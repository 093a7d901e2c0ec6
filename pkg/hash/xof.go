// Package hash provides the SHAKE-based functions of the scheme: the noise
// PRF and the XOF used to expand uniform polynomials from a public seed.
package hash

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"kyberpoly/pkg/params"
)

// SHAKE-128 rate in bytes
const shake128Rate = 168

// PRFFunc fills out with pseudorandom bytes derived from seed and nonce.
// PRF is the production implementation; tests substitute fixed streams.
type PRFFunc func(out, seed []byte, nonce byte)

// PRF fills out with SHAKE-256(seed || nonce). seed must be params.SymBytes long.
func PRF(out, seed []byte, nonce byte) {
	if len(seed) != params.SymBytes {
		panic(fmt.Sprintf("hash: PRF seed must be %d bytes, got %d", params.SymBytes, len(seed)))
	}
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{nonce})
	h.Read(out)
}

// H returns SHAKE-256 output of specified length.
func H(msg []byte, length int) []byte {
	h := sha3.NewShake256()
	h.Write(msg)
	out := make([]byte, length)
	h.Read(out)
	return out
}

// StreamingXOF128 provides incremental SHAKE-128 output for seed || x || y.
type StreamingXOF128 struct {
	h   sha3.ShakeHash
	buf [shake128Rate]byte
	pos int
	end int
}

// NewStreamingXOF128 creates a streaming XOF for seed || x || y.
func NewStreamingXOF128(seed []byte, x, y byte) *StreamingXOF128 {
	s := NewStreamingXOF128Reusable()
	s.Reset(seed, x, y)
	return s
}

// NewStreamingXOF128Reusable creates a reusable streaming XOF; call Reset before reading.
func NewStreamingXOF128Reusable() *StreamingXOF128 {
	return &StreamingXOF128{h: sha3.NewShake128()}
}

// Reset reinitializes the XOF for a new seed || x || y.
func (s *StreamingXOF128) Reset(seed []byte, x, y byte) {
	s.h.Reset()
	s.h.Write(seed)
	s.h.Write([]byte{x, y})
	s.pos = 0
	s.end = 0
}

// Read3 returns the next 3 bytes from the XOF.
func (s *StreamingXOF128) Read3() (b0, b1, b2 byte) {
	s.refill(3)
	b0, b1, b2 = s.buf[s.pos], s.buf[s.pos+1], s.buf[s.pos+2]
	s.pos += 3
	return
}

// Read fills p from the XOF. It never fails.
func (s *StreamingXOF128) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		s.refill(1)
		c := copy(p[n:], s.buf[s.pos:s.end])
		s.pos += c
		n += c
	}
	return n, nil
}

// refill guarantees at least need buffered bytes.
func (s *StreamingXOF128) refill(need int) {
	if s.pos+need <= s.end {
		return
	}
	// Copy leftover bytes to beginning
	leftover := s.end - s.pos
	if leftover > 0 {
		copy(s.buf[:leftover], s.buf[s.pos:s.end])
	}
	n, _ := s.h.Read(s.buf[leftover:])
	s.pos = 0
	s.end = leftover + n
}

// SeedClonableXOF128 absorbs the seed once and restarts from that state for
// every matrix position, avoiding re-hashing the seed. Before the first
// SetIndex it reads SHAKE-128(seed).
type SeedClonableXOF128 struct {
	seedState sha3.ShakeHash // state after absorbing seed
	stream    StreamingXOF128
}

// clonable interface for sha3.ShakeHash
type clonable interface {
	Clone() sha3.ShakeHash
}

// NewSeedClonableXOF128 creates an XOF with seed pre-absorbed.
func NewSeedClonableXOF128(seed []byte) *SeedClonableXOF128 {
	h := sha3.NewShake128()
	h.Write(seed)
	return &SeedClonableXOF128{
		seedState: h.(clonable).Clone(),
		stream:    StreamingXOF128{h: h},
	}
}

// SetIndex restores the seed state and absorbs x || y.
func (s *SeedClonableXOF128) SetIndex(x, y byte) {
	s.stream.h = s.seedState.(clonable).Clone()
	s.stream.h.Write([]byte{x, y})
	s.stream.pos = 0
	s.stream.end = 0
}

// Read3 returns the next 3 bytes from the XOF.
func (s *SeedClonableXOF128) Read3() (b0, b1, b2 byte) {
	return s.stream.Read3()
}

// Read fills p from the XOF. It never fails.
func (s *SeedClonableXOF128) Read(p []byte) (int, error) {
	return s.stream.Read(p)
}
