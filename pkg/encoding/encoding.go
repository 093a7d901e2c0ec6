// Package encoding provides the byte encodings of polynomials: lossless
// 12-bit packing, lossy compression to 4 or 5 bits per coefficient, and
// message embedding.
//
// Buffers are caller-owned. A buffer shorter than the format requires is a
// programming error and panics.
package encoding

import (
	"fmt"

	"kyberpoly/pkg/field"
	"kyberpoly/pkg/params"
	"kyberpoly/pkg/poly"
)

// compressedBits is the width used by Compress and Decompress, fixed by the
// parameter set. Resolving it here makes a bad build fail at program start.
var compressedBits = params.PolyCompressedBits()

// CompressedSize returns the size in bytes of a polynomial compressed to d bits.
func CompressedSize(d int) int {
	checkBits(d)
	return field.N * d / 8
}

func checkBits(d int) {
	if d != 4 && d != 5 {
		panic(fmt.Sprintf("encoding: unsupported compression width %d bits, need 4 or 5", d))
	}
}

func checkLen(op string, b []byte, n int) {
	if len(b) < n {
		panic(fmt.Sprintf("encoding: %s needs %d bytes, got %d", op, n, len(b)))
	}
}

// ToBytes packs a polynomial into params.PolyBytes bytes, two coefficients
// per 3 bytes, little-endian. Coefficients must be in (-Q, Q); they are
// mapped to [0, Q) first.
func ToBytes(out []byte, a *poly.Poly) {
	checkLen("ToBytes", out, params.PolyBytes)
	for i := 0; i < field.N/2; i++ {
		t0 := uint16(field.Positive(a[2*i]))
		t1 := uint16(field.Positive(a[2*i+1]))
		out[3*i] = byte(t0)
		out[3*i+1] = byte(t0>>8) | byte(t1<<4)
		out[3*i+2] = byte(t1 >> 4)
	}
}

// FromBytes unpacks params.PolyBytes bytes into a polynomial; inverse of ToBytes.
// Values are taken as 12-bit integers and not reduced.
func FromBytes(r *poly.Poly, in []byte) {
	checkLen("FromBytes", in, params.PolyBytes)
	for i := 0; i < field.N/2; i++ {
		r[2*i] = int16((uint16(in[3*i]) | uint16(in[3*i+1])<<8) & 0xFFF)
		r[2*i+1] = int16((uint16(in[3*i+1])>>4 | uint16(in[3*i+2])<<4) & 0xFFF)
	}
}

// PackPoly packs a polynomial into a new slice.
func PackPoly(a *poly.Poly) []byte {
	out := make([]byte, params.PolyBytes)
	ToBytes(out, a)
	return out
}

// Compress rounds and packs a polynomial at the width of the parameter set
// into params.PolyCompressedBytes bytes.
func Compress(out []byte, a *poly.Poly) {
	CompressBits(out, a, compressedBits)
}

// Decompress is the approximate inverse of Compress.
func Decompress(r *poly.Poly, in []byte) {
	DecompressBits(r, in, compressedBits)
}

// compressCoeff returns round(u * 2^d / Q) mod 2^d for u in (-Q, Q).
// Division by the constant Q compiles to a multiply and shift.
func compressCoeff(u int16, d uint) byte {
	t := uint32(field.Positive(u))
	return byte((((t << d) + field.Q/2) / field.Q) & (1<<d - 1))
}

// decompressCoeff returns round(t * Q / 2^d).
func decompressCoeff(t byte, d uint) int16 {
	return int16((uint32(t)&(1<<d-1)*field.Q + 1<<(d-1)) >> d)
}

// CompressBits compresses to d bits per coefficient, d in {4, 5}.
// d = 4 packs two coefficients per byte (128 bytes);
// d = 5 packs eight coefficients per 5 bytes (160 bytes).
func CompressBits(out []byte, a *poly.Poly, d int) {
	checkBits(d)
	checkLen("Compress", out, CompressedSize(d))

	var t [8]byte
	switch d {
	case 4:
		for i := 0; i < field.N/8; i++ {
			for j := range t {
				t[j] = compressCoeff(a[8*i+j], 4)
			}
			k := 4 * i
			out[k] = t[0] | t[1]<<4
			out[k+1] = t[2] | t[3]<<4
			out[k+2] = t[4] | t[5]<<4
			out[k+3] = t[6] | t[7]<<4
		}
	case 5:
		for i := 0; i < field.N/8; i++ {
			for j := range t {
				t[j] = compressCoeff(a[8*i+j], 5)
			}
			k := 5 * i
			out[k] = t[0] | t[1]<<5
			out[k+1] = t[1]>>3 | t[2]<<2 | t[3]<<7
			out[k+2] = t[3]>>1 | t[4]<<4
			out[k+3] = t[4]>>4 | t[5]<<1 | t[6]<<6
			out[k+4] = t[6]>>2 | t[7]<<3
		}
	}
}

// DecompressBits is the approximate inverse of CompressBits; coefficients
// land in [0, Q).
func DecompressBits(r *poly.Poly, in []byte, d int) {
	checkBits(d)
	checkLen("Decompress", in, CompressedSize(d))

	switch d {
	case 4:
		for i := 0; i < field.N/2; i++ {
			r[2*i] = decompressCoeff(in[i]&15, 4)
			r[2*i+1] = decompressCoeff(in[i]>>4, 4)
		}
	case 5:
		var t [8]byte
		for i := 0; i < field.N/8; i++ {
			k := 5 * i
			t[0] = in[k]
			t[1] = in[k]>>5 | in[k+1]<<3
			t[2] = in[k+1] >> 2
			t[3] = in[k+1]>>7 | in[k+2]<<1
			t[4] = in[k+2]>>4 | in[k+3]<<4
			t[5] = in[k+3] >> 1
			t[6] = in[k+3]>>6 | in[k+4]<<2
			t[7] = in[k+4] >> 3
			for j := range t {
				r[8*i+j] = decompressCoeff(t[j], 5)
			}
		}
	}
}

// FromMsg maps each bit of a params.MsgBytes message to a coefficient:
// 0 for a zero bit, (Q+1)/2 for a one bit.
func FromMsg(r *poly.Poly, msg []byte) {
	checkLen("FromMsg", msg, params.MsgBytes)
	for i := 0; i < params.MsgBytes; i++ {
		for j := 0; j < 8; j++ {
			mask := -int16((msg[i] >> j) & 1)
			r[8*i+j] = mask & ((field.Q + 1) / 2)
		}
	}
}

// ToMsg decodes each coefficient to the bit whose encoding is nearest
// modulo Q; inverse of FromMsg up to noise below Q/4.
func ToMsg(msg []byte, a *poly.Poly) {
	checkLen("ToMsg", msg, params.MsgBytes)
	for i := 0; i < params.MsgBytes; i++ {
		msg[i] = 0
		for j := 0; j < 8; j++ {
			t := uint32(field.Positive(a[8*i+j]))
			t = (((t << 1) + field.Q/2) / field.Q) & 1
			msg[i] |= byte(t << j)
		}
	}
}
