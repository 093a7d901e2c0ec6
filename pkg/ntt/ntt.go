// Package ntt provides the negacyclic Number Theoretic Transform over
// Z_Q[x]/<x^256+1> and the base multiplication of transformed polynomials.
//
// Q = 3329 has a 256th but no 512th root of unity, so the transform stops
// after 7 layers and leaves 128 degree-1 residues modulo x^2 - zeta^(2*brv(i)+1).
// Products in that domain are computed pairwise by BaseMul.
package ntt

import "kyberpoly/pkg/field"

// Zetas contains the twiddle factors in Montgomery form, centered:
// Zetas[i] = 17^brv7(i) * R mod Q.
//
// The table is read-only and shared by NTT, InvNTT and PolyBaseMul.
var Zetas = [128]int16{
	-1044, -758, -359, -1517, 1493, 1422, 287, 202,
	-171, 622, 1577, 182, 962, -1202, -1474, 1468,
	573, -1325, 264, 383, -829, 1458, -1602, -130,
	-681, 1017, 732, 608, -1542, 411, -205, -1571,
	1223, 652, -552, 1015, -1293, 1491, -282, -1544,
	516, -8, -320, -666, -1618, -1162, 126, 1469,
	-853, -90, -271, 830, 107, -1421, -247, -951,
	-398, 961, -1508, -725, 448, -1065, 677, -1275,
	-1103, 430, 555, 843, -1251, 871, 1550, 105,
	422, 587, 177, -235, -291, -460, 1574, 1653,
	-246, 778, 1159, -147, -777, 1483, -602, 1119,
	-1590, 644, -872, 349, 418, 329, -156, -75,
	817, 1097, 603, 610, 1322, -1285, -1465, 384,
	-1215, -136, 1218, -1335, -874, 220, -1187, -1659,
	-1185, -1530, -1278, 794, -1510, -854, -870, 478,
	-108, -308, 996, 991, 958, -1460, 1522, 1628,
}

// NTT computes the forward transform in place.
// Input: coefficients in standard order, |c| < Q.
// Output: coefficients in bit-reversed order, |c| < 8Q, not reduced.
func NTT(cs *[field.N]int16) {
	k := 1
	for layer := 128; layer >= 2; layer >>= 1 {
		for offset := 0; offset < field.N; offset += 2 * layer {
			z := Zetas[k]
			k++

			lo := cs[offset : offset+layer]
			hi := cs[offset+layer : offset+2*layer]
			for j := range lo {
				t := field.FqMul(z, hi[j])
				hi[j] = lo[j] - t
				lo[j] = lo[j] + t
			}
		}
	}
}

// InvNTT computes the inverse transform in place and multiplies by the
// Montgomery factor R: the output is in Montgomery form with |c| < Q.
// Input: coefficients in bit-reversed order, |c| < 2^14. The first layer's
// sums and differences then fit in int16, so PolyBaseMul output (|c| < 2Q)
// needs no reduction.
func InvNTT(cs *[field.N]int16) {
	k := 127
	for layer := 2; layer <= 128; layer <<= 1 {
		for offset := 0; offset < field.N; offset += 2 * layer {
			z := Zetas[k]
			k--

			lo := cs[offset : offset+layer]
			hi := cs[offset+layer : offset+2*layer]
			for j := range lo {
				t := lo[j]
				lo[j] = field.BarrettReduce(t + hi[j])
				hi[j] = field.FqMul(z, hi[j]-t)
			}
		}
	}

	for j := range cs {
		cs[j] = field.FqMul(cs[j], field.InvNTTScale)
	}
}

// BaseMul multiplies a0 + a1*x by b0 + b1*x modulo x^2 - zeta in the
// Montgomery domain. zeta carries the factor R; the products carry R^(-1).
func BaseMul(a0, a1, b0, b1, zeta int16) (r0, r1 int16) {
	r0 = field.FqMul(field.FqMul(a1, b1), zeta)
	r0 += field.FqMul(a0, b0)
	r1 = field.FqMul(a0, b1)
	r1 += field.FqMul(a1, b0)
	return r0, r1
}

// PolyBaseMul computes the product of two polynomials in NTT domain.
// The result carries a factor R^(-1) and |c| < 2Q; reduce before
// accumulating many products.
func PolyBaseMul(r, a, b *[field.N]int16) {
	for i := 0; i < field.N/4; i++ {
		z := Zetas[64+i]
		r[4*i], r[4*i+1] = BaseMul(a[4*i], a[4*i+1], b[4*i], b[4*i+1], z)
		r[4*i+2], r[4*i+3] = BaseMul(a[4*i+2], a[4*i+3], b[4*i+2], b[4*i+3], -z)
	}
}
