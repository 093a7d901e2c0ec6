// Package poly provides polynomial operations over Z_Q[x]/<x^256+1>.
//
// Poly holds coefficients in the normal domain and NTTPoly holds them in the
// transform domain, so a missing conversion is a type error. The Montgomery
// factor is not part of the type: BaseMul leaves R^(-1) on its output and
// InvNTTToMont multiplies by R, so NTT, BaseMul, InvNTTToMont yields a plain
// product. FromMont and ToNormal convert explicitly where that is not the case.
//
// No operation reduces implicitly except where documented. Coefficients are
// signed and may drift outside (-Q, Q) after Add or Sub; call Reduce before
// the headroom of int16 runs out.
package poly

import (
	"kyberpoly/pkg/field"
	"kyberpoly/pkg/ntt"
)

// Poly represents a polynomial in Z_Q[x]/<x^256+1>, coefficients in standard order.
type Poly [field.N]int16

// NTTPoly represents a polynomial in NTT domain, coefficients in bit-reversed order.
type NTTPoly [field.N]int16

// Element is satisfied by both domains; coefficient-wise operations accept either.
type Element interface {
	~[field.N]int16
}

// Add computes r += b componentwise, without reduction.
func Add[T Element](r, b *T) {
	for i := range *r {
		(*r)[i] += (*b)[i]
	}
}

// Sub computes r = a - r componentwise, without reduction.
// Note the operand order: r is the subtrahend.
func Sub[T Element](r, a *T) {
	for i := range *r {
		(*r)[i] = (*a)[i] - (*r)[i]
	}
}

// Reduce applies Barrett reduction to every coefficient; afterwards |c| < Q.
func Reduce[T Element](r *T) {
	for i := range *r {
		(*r)[i] = field.BarrettReduce((*r)[i])
	}
}

// FromMont converts every coefficient with field.FromMont, cancelling the
// R^(-1) left by a Montgomery product.
func FromMont[T Element](r *T) {
	for i := range *r {
		(*r)[i] = field.FromMont(int32((*r)[i]))
	}
}

// ToNormal removes a factor R from every coefficient.
func ToNormal[T Element](r *T) {
	for i := range *r {
		(*r)[i] = field.ToNormal((*r)[i])
	}
}

// Normalize maps every coefficient from (-Q, Q) to [0, Q).
func Normalize[T Element](r *T) {
	for i := range *r {
		(*r)[i] = field.Positive((*r)[i])
	}
}

// NTT returns the transform of p with every coefficient Barrett-reduced.
// p must have |c| < Q.
func (p *Poly) NTT() NTTPoly {
	r := NTTPoly(*p)
	ntt.NTT((*[field.N]int16)(&r))
	Reduce(&r)
	return r
}

// InvNTTToMont returns the inverse transform of p, multiplied by R. Input
// coefficients need |c| < 2^14, which BaseMul output satisfies.
func (p *NTTPoly) InvNTTToMont() Poly {
	r := Poly(*p)
	ntt.InvNTT((*[field.N]int16)(&r))
	return r
}

// BaseMul computes r = a * b for polynomials in NTT domain.
// The result carries a factor R^(-1).
func BaseMul(r, a, b *NTTPoly) {
	ntt.PolyBaseMul((*[field.N]int16)(r), (*[field.N]int16)(a), (*[field.N]int16)(b))
}

// Mul computes the product a*b in the ring through the NTT.
// Inputs need |c| < Q; the output is reduced to |c| < Q.
func Mul(a, b *Poly) Poly {
	aHat := a.NTT()
	bHat := b.NTT()
	var rHat NTTPoly
	BaseMul(&rHat, &aHat, &bHat)
	r := rHat.InvNTTToMont()
	Reduce(&r)
	return r
}

// SchoolbookMul computes a * b using schoolbook multiplication.
// Returns (quotient, remainder) where a * b = quotient * (x^256 + 1) + remainder,
// both with coefficients in [0, Q).
func SchoolbookMul(a, b *Poly) (q, r Poly) {
	var s [2 * field.N]int64
	for i := 0; i < field.N; i++ {
		for j := 0; j < field.N; j++ {
			s[i+j] += int64(a[i]) * int64(b[j])
		}
	}

	for i := 0; i < field.N; i++ {
		q[i] = int16(mod(s[field.N+i]))
		// x^256 = -1
		r[i] = int16(mod(s[i] - s[field.N+i]))
	}
	return q, r
}

// Equal returns true if two polynomials have identical coefficients.
// Not constant time.
func Equal[T Element](a, b *T) bool {
	return *a == *b
}

// Congruent returns true if a and b agree coefficient-wise modulo Q.
// Not constant time.
func Congruent[T Element](a, b *T) bool {
	for i := range *a {
		if mod(int64((*a)[i])-int64((*b)[i])) != 0 {
			return false
		}
	}
	return true
}

func mod(x int64) int64 {
	x %= field.Q
	if x < 0 {
		x += field.Q
	}
	return x
}
