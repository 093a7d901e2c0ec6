package poly

import (
	"math/rand/v2"
	"testing"

	"kyberpoly/pkg/field"
)

func randomPoly(rng *rand.Rand) Poly {
	var p Poly
	for i := range p {
		p[i] = int16(rng.IntN(2*field.Q-1) - (field.Q - 1))
	}
	return p
}

// Test schoolbook multiplication result first 8 (a = range, b = range + 256)
func TestSchoolbookMulResultFirst8(t *testing.T) {
	var a, b Poly
	for i := 0; i < field.N; i++ {
		a[i] = int16(i)
		b[i] = int16(i + 256)
	}

	_, r := SchoolbookMul(&a, &b)

	expected := []int16{150, 1568, 427, 58, 463, 1644, 274, 3013}
	for i, want := range expected {
		if r[i] != want {
			t.Errorf("SchoolbookMul result[%d] = %d, want %d", i, r[i], want)
		}
	}
}

// Test multiply by 1 returns original
func TestSchoolbookMulByOne(t *testing.T) {
	var a, one Poly
	for i := 0; i < field.N; i++ {
		a[i] = int16(i)
	}
	one[0] = 1

	q, r := SchoolbookMul(&a, &one)

	if !Equal(&r, &a) {
		t.Error("Multiplying by 1 does not return original")
	}
	var zero Poly
	if !Equal(&q, &zero) {
		t.Error("Quotient of a*1 is not zero")
	}
}

// Test NTT multiplication matches schoolbook (catches incorrect implementations)
func TestNTTMulMatchesSchoolbook(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for trial := 0; trial < 10; trial++ {
		a := randomPoly(rng)
		b := randomPoly(rng)

		_, want := SchoolbookMul(&a, &b)
		got := Mul(&a, &b)

		if !Congruent(&got, &want) {
			t.Fatal("NTT multiplication does not match schoolbook")
		}
	}
}

// Every pair of monomials x^i * x^j = +-x^((i+j) mod 256)
func TestMulMonomials(t *testing.T) {
	for _, i := range []int{0, 1, 2, 3, 127, 128, 200, 255} {
		for _, j := range []int{0, 1, 5, 128, 254, 255} {
			var a, b Poly
			a[i] = 1
			b[j] = 1

			got := Mul(&a, &b)

			var want Poly
			if i+j < field.N {
				want[i+j] = 1
			} else {
				want[i+j-field.N] = -1
			}
			if !Congruent(&got, &want) {
				t.Errorf("x^%d * x^%d does not match", i, j)
			}
		}
	}
}

func TestBaseMulLeavesInverseR(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	a := randomPoly(rng)
	b := randomPoly(rng)
	_, want := SchoolbookMul(&a, &b)

	aHat := a.NTT()
	bHat := b.NTT()
	var rHat NTTPoly
	BaseMul(&rHat, &aHat, &bHat)
	// cancel R^(-1) in the transform domain, then strip the R from the inverse
	FromMont(&rHat)
	r := rHat.InvNTTToMont()
	ToNormal(&r)

	if !Congruent(&r, &want) {
		t.Error("FromMont before InvNTTToMont + ToNormal does not give the product")
	}
}

func TestNTTRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(15, 16))
	p := randomPoly(rng)

	pHat := p.NTT()
	for i, c := range pHat {
		if c <= -field.Q || c >= field.Q {
			t.Fatalf("NTT output [%d] = %d not reduced", i, c)
		}
	}
	r := pHat.InvNTTToMont()
	ToNormal(&r)

	if !Congruent(&r, &p) {
		t.Error("InvNTTToMont(NTT(p)) * R^(-1) != p")
	}
}

// Test polynomial addition
func TestPolyAdd(t *testing.T) {
	var r, b Poly
	for i := 0; i < field.N; i++ {
		r[i] = 1
		b[i] = 2
	}

	Add(&r, &b)

	for i := 0; i < field.N; i++ {
		if r[i] != 3 {
			t.Errorf("Add result[%d] = %d, want 3", i, r[i])
		}
	}
}

// Sub computes a - r, not r - a
func TestPolySubOperandOrder(t *testing.T) {
	var r, a Poly
	for i := 0; i < field.N; i++ {
		r[i] = 2
		a[i] = 5
	}

	Sub(&r, &a)

	for i := 0; i < field.N; i++ {
		if r[i] != 3 {
			t.Errorf("Sub result[%d] = %d, want 3", i, r[i])
		}
	}
}

func TestSubInNTTDomain(t *testing.T) {
	var r, a NTTPoly
	r[0], a[0] = 100, -100
	Sub(&r, &a)
	if r[0] != -200 {
		t.Errorf("Sub = %d, want -200", r[0])
	}
}

func TestReduce(t *testing.T) {
	var p Poly
	for i := range p {
		p[i] = int16(i*127 - 16000)
	}
	orig := p

	Reduce(&p)

	for i := range p {
		if p[i] <= -field.Q || p[i] >= field.Q {
			t.Errorf("Reduce[%d] = %d out of range", i, p[i])
		}
	}
	if !Congruent(&p, &orig) {
		t.Error("Reduce changed residues")
	}
}

// Accumulating reduced values then reducing stays congruent
func TestAddAccumulateReduce(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 18))
	var acc Poly
	var want [field.N]int64
	for k := 0; k < 8; k++ {
		p := randomPoly(rng)
		Reduce(&p)
		Add(&acc, &p)
		for i := range p {
			want[i] += int64(p[i])
		}
	}
	Reduce(&acc)
	for i := range acc {
		if mod(int64(acc[i])-want[i]) != 0 {
			t.Fatalf("[%d] = %d, want %d mod Q", i, acc[i], want[i])
		}
	}
}

func TestFromMont(t *testing.T) {
	var p Poly
	for i := range p {
		p[i] = int16(i - 128)
	}
	orig := p

	FromMont(&p)

	for i := range p {
		if mod(int64(p[i])) != mod(int64(orig[i])*(1<<16)) {
			t.Errorf("FromMont[%d] = %d, want %d*R", i, p[i], orig[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	var p Poly
	p[0], p[1], p[2] = -1, -(field.Q - 1), field.Q-1
	Normalize(&p)
	if p[0] != field.Q-1 || p[1] != 1 || p[2] != field.Q-1 {
		t.Errorf("Normalize = %v", p[:3])
	}
}

func BenchmarkMul(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	x := randomPoly(rng)
	y := randomPoly(rng)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Mul(&x, &y)
	}
}
