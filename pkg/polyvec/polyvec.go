// Package polyvec provides vectors of params.K polynomials and the matrix
// of uniform polynomials expanded from a public seed.
//
// Operations on the K entries are independent; the transforms and samplers
// run them concurrently.
package polyvec

import (
	"fmt"

	"kyberpoly/pkg/encoding"
	"kyberpoly/pkg/hash"
	"kyberpoly/pkg/params"
	"kyberpoly/pkg/poly"
	"kyberpoly/pkg/sampling"
)

// Bytes is the packed size of a vector.
const Bytes = params.K * params.PolyBytes

// Vec is a vector of polynomials in the normal domain.
type Vec [params.K]poly.Poly

// NTTVec is a vector of polynomials in the NTT domain.
type NTTVec [params.K]poly.NTTPoly

// Matrix is a K x K matrix of NTT-domain polynomials, stored by rows.
type Matrix [params.K]NTTVec

// NTT transforms every entry; the result is reduced.
func (v *Vec) NTT() NTTVec {
	var r NTTVec
	Batch(params.K, func(i int) {
		r[i] = v[i].NTT()
	})
	return r
}

// InvNTTToMont inverse-transforms every entry; the result carries a factor R.
func (v *NTTVec) InvNTTToMont() Vec {
	var r Vec
	Batch(params.K, func(i int) {
		r[i] = v[i].InvNTTToMont()
	})
	return r
}

// Reduce applies Barrett reduction to every coefficient.
func (v *Vec) Reduce() {
	for i := range v {
		poly.Reduce(&v[i])
	}
}

// Reduce applies Barrett reduction to every coefficient.
func (v *NTTVec) Reduce() {
	for i := range v {
		poly.Reduce(&v[i])
	}
}

// Add computes v += b entrywise, without reduction.
func (v *Vec) Add(b *Vec) {
	for i := range v {
		poly.Add(&v[i], &b[i])
	}
}

// Add computes v += b entrywise, without reduction.
func (v *NTTVec) Add(b *NTTVec) {
	for i := range v {
		poly.Add(&v[i], &b[i])
	}
}

// BaseMulAcc computes the inner product of a and b in the NTT domain and
// reduces it. Like poly.BaseMul, the result carries a factor R^(-1).
func BaseMulAcc(r *poly.NTTPoly, a, b *NTTVec) {
	poly.BaseMul(r, &a[0], &b[0])
	var t poly.NTTPoly
	for i := 1; i < params.K; i++ {
		poly.BaseMul(&t, &a[i], &b[i])
		poly.Add(r, &t)
	}
	poly.Reduce(r)
}

// Mul computes A * v in the NTT domain, reducing each row. Rows carry R^(-1).
func (m *Matrix) Mul(v *NTTVec) NTTVec {
	var r NTTVec
	Batch(params.K, func(i int) {
		BaseMulAcc(&r[i], &m[i], v)
	})
	return r
}

// ToBytes packs the vector into Bytes bytes.
func (v *Vec) ToBytes(out []byte) {
	if len(out) < Bytes {
		panic(fmt.Sprintf("polyvec: ToBytes needs %d bytes, got %d", Bytes, len(out)))
	}
	for i := range v {
		encoding.ToBytes(out[i*params.PolyBytes:], &v[i])
	}
}

// FromBytes unpacks Bytes bytes into the vector.
func (v *Vec) FromBytes(in []byte) {
	if len(in) < Bytes {
		panic(fmt.Sprintf("polyvec: FromBytes needs %d bytes, got %d", Bytes, len(in)))
	}
	for i := range v {
		encoding.FromBytes(&v[i], in[i*params.PolyBytes:])
	}
}

// ExpandMatrix samples the matrix from seed. Entry (i, j) is drawn from
// SHAKE-128(seed || j || i), or SHAKE-128(seed || i || j) when transposed.
func ExpandMatrix(seed []byte, transposed bool) Matrix {
	var a Matrix
	xofs := make([]*hash.SeedClonableXOF128, workers(params.K*params.K))
	for i := range xofs {
		xofs[i] = hash.NewSeedClonableXOF128(seed)
	}
	p := newPool(xofs)
	for i := 0; i < params.K; i++ {
		for j := 0; j < params.K; j++ {
			p.Run(func(xof *hash.SeedClonableXOF128) {
				if transposed {
					xof.SetIndex(byte(i), byte(j))
				} else {
					xof.SetIndex(byte(j), byte(i))
				}
				a[i][j] = sampling.SampleUniform(xof)
			})
		}
	}
	p.Wait()
	return a
}

// NoiseEta1 samples a vector of eta1 noise with nonces nonce, ..., nonce+K-1.
func NoiseEta1(seed []byte, nonce byte) Vec {
	var v Vec
	Batch(params.K, func(i int) {
		sampling.GetNoiseEta1(&v[i], seed, nonce+byte(i))
	})
	return v
}

// NoiseEta2 samples a vector of eta2 noise with nonces nonce, ..., nonce+K-1.
func NoiseEta2(seed []byte, nonce byte) Vec {
	var v Vec
	Batch(params.K, func(i int) {
		sampling.GetNoiseEta2(&v[i], seed, nonce+byte(i))
	})
	return v
}
