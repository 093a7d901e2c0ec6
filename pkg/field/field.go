// Package field provides the modular reduction primitives for Z_Q with
// Q = 3329 on signed 16-bit coefficients.
//
// Values are kept as int16 representatives and reduced lazily. The functions
// applied to coefficients are branch-free: none of them looks at the value of
// its input to decide which instructions to run. Exp and Brv7 only take public
// table indices and constants and are used to derive the twiddle table.
package field

import "kyberpoly/pkg/params"

const (
	// Q is the prime modulus
	Q = params.Q

	// N is the polynomial degree (ring is Z_Q[x]/<x^256+1>)
	N = params.N

	// QInv is Q^(-1) mod 2^16
	QInv = 62209

	// MontR is the Montgomery radix R = 2^16 mod Q
	MontR = 2285

	// MontR2 is 2^32 mod Q, the factor FromMont multiplies by before reducing
	MontR2 = 1353

	// Zeta is a primitive 256th root of unity in Z_Q
	Zeta = 17

	// InvNTTScale is R^2 / 128 mod Q, applied at the end of the inverse NTT
	InvNTTScale = 1441

	// MontRange bounds the input of MontgomeryReduce: |a| < 2^15 * Q
	MontRange = (1 << 15) * Q

	// barrettV is floor(2^26 / Q) + 1
	barrettV = (1<<26)/Q + 1
)

// MontgomeryReduce returns a * R^(-1) mod Q as a signed representative in
// (-Q, Q), for a in (-MontRange, MontRange).
//
// The product a*QInv wraps: only its low 16 bits are used. Inputs outside the
// range give a wrong but well-defined result.
func MontgomeryReduce(a int32) int16 {
	t := int16(a * QInv)
	return int16((a - int32(t)*Q) >> 16)
}

// BarrettReduce returns a representative of a mod Q in (-Q, Q). For every
// int16 input the result actually lies in [-(Q-1)/2, (Q-1)/2].
func BarrettReduce(a int16) int16 {
	t := (barrettV*int32(a) + 1<<25) >> 26
	t *= Q
	return a - int16(t)
}

// FqMul multiplies in the Montgomery domain: FqMul(a, b) = a*b*R^(-1) mod Q.
// If one operand carries a factor R the result is the plain product.
func FqMul(a, b int16) int16 {
	return MontgomeryReduce(int32(a) * int32(b))
}

// FromMont multiplies by 2^32 mod Q and Montgomery-reduces, which gives r*R mod Q.
// It cancels the R^(-1) left behind by a Montgomery product such as FqMul or
// the NTT-domain base multiplication.
func FromMont(r int32) int16 {
	return MontgomeryReduce(r * MontR2)
}

// ToNormal removes a factor R: ToNormal(a*R) = a mod Q.
// Use it on values in Montgomery form, e.g. the output of the inverse NTT.
func ToNormal(a int16) int16 {
	return MontgomeryReduce(int32(a))
}

// Positive maps a signed representative in (-Q, Q) to [0, Q).
func Positive(a int16) int16 {
	return a + (a>>15)&Q
}

// Exp returns a^e mod Q using binary exponentiation.
// Not constant time in e; only used on public constants.
func Exp(a uint32, e uint32) uint32 {
	result := uint32(1)
	base := a % Q
	for e > 0 {
		if e&1 == 1 {
			result = (result * base) % Q
		}
		base = (base * base) % Q
		e >>= 1
	}
	return result
}

// Brv7 reverses the low 7 bits of x (bit reversal for the 128-entry twiddle table).
func Brv7(x uint8) uint8 {
	x = (x&0xF0)>>4 | (x&0x0F)<<4
	x = (x&0xCC)>>2 | (x&0x33)<<2
	x = (x&0xAA)>>1 | (x&0x55)<<1
	return x >> 1
}

// Centered maps a value in [0, Q) to (-Q/2, Q/2].
func Centered(a uint32) int16 {
	c := int16(a % Q)
	c -= Q & ((Q/2 - c) >> 15)
	return c
}
