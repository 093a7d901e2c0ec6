// Package sampling provides the samplers of the scheme: centered binomial
// noise derived from a seed and nonce, and uniform polynomials expanded
// from an XOF.
package sampling

import (
	"encoding/binary"
	"fmt"

	"kyberpoly/pkg/field"
	"kyberpoly/pkg/hash"
	"kyberpoly/pkg/params"
	"kyberpoly/pkg/poly"
)

// CBDFunc fills r from a uniformly random buffer.
type CBDFunc func(r *poly.Poly, buf []byte)

func checkLen(op string, b []byte, n int) {
	if len(b) < n {
		panic(fmt.Sprintf("sampling: %s needs %d bytes, got %d", op, n, len(b)))
	}
}

// CBD2 samples coefficients in [-2, 2] from 128 bytes: each coefficient is
// the difference of two sums of 2 bits.
func CBD2(r *poly.Poly, buf []byte) {
	checkLen("CBD2", buf, 2*field.N/4)
	for i := 0; i < field.N/8; i++ {
		t := binary.LittleEndian.Uint32(buf[4*i:])
		d := t & 0x55555555
		d += (t >> 1) & 0x55555555
		for j := 0; j < 8; j++ {
			a := int16((d >> (4 * j)) & 3)
			b := int16((d >> (4*j + 2)) & 3)
			r[8*i+j] = a - b
		}
	}
}

// CBD3 samples coefficients in [-3, 3] from 192 bytes: each coefficient is
// the difference of two sums of 3 bits.
func CBD3(r *poly.Poly, buf []byte) {
	checkLen("CBD3", buf, 3*field.N/4)
	for i := 0; i < field.N/4; i++ {
		t := uint32(buf[3*i]) | uint32(buf[3*i+1])<<8 | uint32(buf[3*i+2])<<16
		d := t & 0x00249249
		d += (t >> 1) & 0x00249249
		d += (t >> 2) & 0x00249249
		for j := 0; j < 4; j++ {
			a := int16((d >> (6 * j)) & 7)
			b := int16((d >> (6*j + 3)) & 7)
			r[4*i+j] = a - b
		}
	}
}

// cbdFor returns the sampler for eta.
func cbdFor(eta int) CBDFunc {
	switch eta {
	case 2:
		return CBD2
	case 3:
		return CBD3
	}
	panic(fmt.Sprintf("sampling: unsupported eta %d", eta))
}

// CBDEta1 samples with eta = params.Eta1 from params.Eta1Bytes bytes.
func CBDEta1(r *poly.Poly, buf []byte) {
	cbdFor(params.Eta1)(r, buf)
}

// CBDEta2 samples with eta = params.Eta2 from params.Eta2Bytes bytes.
func CBDEta2(r *poly.Poly, buf []byte) {
	cbdFor(params.Eta2)(r, buf)
}

// Noise derives noise polynomials from a seed and a nonce. The zero value is
// not usable; use NewNoise or set every field.
type Noise struct {
	PRF  hash.PRFFunc
	CBD1 CBDFunc
	CBD2 CBDFunc
}

// NewNoise returns a Noise backed by SHAKE-256 and the samplers of the
// parameter set.
func NewNoise() *Noise {
	return &Noise{PRF: hash.PRF, CBD1: CBDEta1, CBD2: CBDEta2}
}

var defaultNoise = NewNoise()

// Eta1 fills r with noise of parameter eta1 for (seed, nonce).
func (n *Noise) Eta1(r *poly.Poly, seed []byte, nonce byte) {
	var buf [params.Eta1Bytes]byte
	n.PRF(buf[:], seed, nonce)
	n.CBD1(r, buf[:])
}

// Eta2 fills r with noise of parameter eta2 for (seed, nonce).
func (n *Noise) Eta2(r *poly.Poly, seed []byte, nonce byte) {
	var buf [params.Eta2Bytes]byte
	n.PRF(buf[:], seed, nonce)
	n.CBD2(r, buf[:])
}

// GetNoiseEta1 fills r with eta1 noise for (seed, nonce). The output is a
// deterministic function of its inputs; callers must not reuse a nonce
// under the same seed for independent samples.
func GetNoiseEta1(r *poly.Poly, seed []byte, nonce byte) {
	defaultNoise.Eta1(r, seed, nonce)
}

// GetNoiseEta2 fills r with eta2 noise for (seed, nonce).
func GetNoiseEta2(r *poly.Poly, seed []byte, nonce byte) {
	defaultNoise.Eta2(r, seed, nonce)
}

// ByteStream is a source of XOF output read three bytes at a time.
// hash.StreamingXOF128 and hash.SeedClonableXOF128 implement it.
type ByteStream interface {
	Read3() (b0, b1, b2 byte)
}

// SampleUniform samples a polynomial with coefficients uniform in [0, Q) by
// rejection on 12-bit values. The result is interpreted as an NTT-domain
// polynomial.
func SampleUniform(xof ByteStream) poly.NTTPoly {
	var cs poly.NTTPoly
	i := 0
	for i < field.N {
		b0, b1, b2 := xof.Read3()
		d1 := (uint16(b0) | uint16(b1)<<8) & 0xFFF
		d2 := uint16(b1)>>4 | uint16(b2)<<4
		if d1 < field.Q {
			cs[i] = int16(d1)
			i++
		}
		if d2 < field.Q && i < field.N {
			cs[i] = int16(d2)
			i++
		}
	}
	return cs
}
