package ntt

import (
	"math/rand/v2"
	"testing"

	"kyberpoly/internal/ctcheck"
	"kyberpoly/pkg/field"
)

func mod(x int64) int64 {
	x %= field.Q
	if x < 0 {
		x += field.Q
	}
	return x
}

// Test Zetas are computed correctly (catches typos in the table)
func TestZetasComputed(t *testing.T) {
	for i := 0; i < 128; i++ {
		plain := field.Exp(field.Zeta, uint32(field.Brv7(uint8(i))))
		want := field.Centered(plain * field.MontR % field.Q)
		if Zetas[i] != want {
			t.Errorf("Zetas[%d] = %d, want %d", i, Zetas[i], want)
		}
	}
}

func TestZetasFirst16(t *testing.T) {
	expected := []int16{
		-1044, -758, -359, -1517, 1493, 1422, 287, 202,
		-171, 622, 1577, 182, 962, -1202, -1474, 1468,
	}
	for i, want := range expected {
		if Zetas[i] != want {
			t.Errorf("Zetas[%d] = %d, want %d", i, Zetas[i], want)
		}
	}
}

// NTT of [1, 0, 0, ...] is 1 + 0*x in every quotient ring
func TestNTTOfOne(t *testing.T) {
	var cs [field.N]int16
	cs[0] = 1

	NTT(&cs)

	for i := 0; i < field.N; i++ {
		want := int16(1 - i%2)
		if cs[i] != want {
			t.Errorf("NTT([1,0,...])[%d] = %d, want %d", i, cs[i], want)
		}
	}
}

func reduce(cs *[field.N]int16) {
	for i := range cs {
		cs[i] = field.BarrettReduce(cs[i])
	}
}

func rangePoly() [field.N]int16 {
	var cs [field.N]int16
	for i := range cs {
		cs[i] = int16(i)
	}
	return cs
}

func TestNTTOfRangeFirst16(t *testing.T) {
	cs := rangePoly()
	NTT(&cs)

	expected := []int16{
		5758, -484, 3754, -2534, 5194, -1973, 7282, 31,
		2483, 2197, 2725, -661, 2707, 3846, 4817, 2194,
	}
	for i, want := range expected {
		if cs[i] != want {
			t.Errorf("NTT(range)[%d] = %d, want %d", i, cs[i], want)
		}
	}
}

func TestNTTOfRangeLast16(t *testing.T) {
	cs := rangePoly()
	NTT(&cs)

	expected := []int16{
		-2555, 70, -2327, 3194, -2401, 987, -3941, 3005,
		-7104, -3180, -4064, -224, -827, 2134, -3941, -1026,
	}
	for i, want := range expected {
		if cs[field.N-16+i] != want {
			t.Errorf("NTT(range)[%d] = %d, want %d", field.N-16+i, cs[field.N-16+i], want)
		}
	}
}

func TestInvNTTOfRangeFirst8(t *testing.T) {
	cs := rangePoly()
	InvNTT(&cs)

	expected := []int16{572, -472, 249, 249, -837, -837, 1401, 1401}
	for i, want := range expected {
		if cs[i] != want {
			t.Errorf("InvNTT(range)[%d] = %d, want %d", i, cs[i], want)
		}
	}
}

// NTT -> reduce -> InvNTT returns the input multiplied by R
func TestNTTRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for trial := 0; trial < 20; trial++ {
		var original, cs [field.N]int16
		for i := range original {
			original[i] = int16(rng.IntN(2*field.Q-1) - (field.Q - 1))
		}
		cs = original

		NTT(&cs)
		reduce(&cs)
		InvNTT(&cs)

		for i := range cs {
			if cs[i] <= -field.Q || cs[i] >= field.Q {
				t.Fatalf("InvNTT output [%d] = %d out of (-Q, Q)", i, cs[i])
			}
			got := field.ToNormal(cs[i])
			if mod(int64(got)) != mod(int64(original[i])) {
				t.Fatalf("Roundtrip failed at [%d]: got %d, want %d", i, got, original[i])
			}
		}
	}
}

// InvNTT of unreduced input agrees with InvNTT of the reduced input
func TestInvNTTUnreducedInput(t *testing.T) {
	const bound = 1<<14 - 1
	rng := rand.New(rand.NewPCG(11, 12))
	for trial := 0; trial < 22; trial++ {
		var cs, reduced [field.N]int16
		for i := range cs {
			switch trial {
			case 0:
				cs[i] = bound
			case 1:
				cs[i] = -bound
			default:
				cs[i] = int16(rng.IntN(2*bound+1) - bound)
			}
		}
		reduced = cs
		reduce(&reduced)

		InvNTT(&cs)
		InvNTT(&reduced)

		for i := range cs {
			if cs[i] <= -field.Q || cs[i] >= field.Q {
				t.Fatalf("trial %d: InvNTT output [%d] = %d out of (-Q, Q)", trial, i, cs[i])
			}
			if mod(int64(cs[i])) != mod(int64(reduced[i])) {
				t.Fatalf("trial %d: [%d] = %d, reduced input gives %d", trial, i, cs[i], reduced[i])
			}
		}
	}
}

// PolyBaseMul output goes straight into InvNTT
func TestInvNTTOfBaseMulOutput(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	var a, b, r [field.N]int16
	for i := range a {
		a[i] = int16(rng.IntN(2*field.Q-1) - (field.Q - 1))
		b[i] = int16(rng.IntN(2*field.Q-1) - (field.Q - 1))
	}
	PolyBaseMul(&r, &a, &b)
	for i, c := range r {
		if c <= -2*field.Q || c >= 2*field.Q {
			t.Fatalf("PolyBaseMul output [%d] = %d out of (-2Q, 2Q)", i, c)
		}
	}
	reduced := r
	reduce(&reduced)

	InvNTT(&r)
	InvNTT(&reduced)
	for i := range r {
		if mod(int64(r[i])) != mod(int64(reduced[i])) {
			t.Fatalf("[%d] = %d, reduced input gives %d", i, r[i], reduced[i])
		}
	}
}

// Test NTT linearity: NTT(a + b) = NTT(a) + NTT(b)
func TestNTTLinearity(t *testing.T) {
	var a, b, sum [field.N]int16
	for i := 0; i < field.N; i++ {
		a[i] = int16(i % 1000)
		b[i] = int16(-2 * i)
		sum[i] = a[i] + b[i]
	}

	NTT(&sum)
	NTT(&a)
	NTT(&b)

	for i := 0; i < field.N; i++ {
		if mod(int64(sum[i])) != mod(int64(a[i])+int64(b[i])) {
			t.Errorf("NTT not linear at [%d]: NTT(a+b)=%d, NTT(a)+NTT(b)=%d", i, sum[i], a[i]+b[i])
		}
	}
}

func TestBaseMul(t *testing.T) {
	tests := []struct {
		a0, a1, b0, b1, zeta int16
		r0, r1               int16
	}{
		{1, 2, 3, 4, Zetas[64], 188, 1690},
		{100, -200, 300, -400, -Zetas[64], 751, 1333},
	}
	for _, tc := range tests {
		r0, r1 := BaseMul(tc.a0, tc.a1, tc.b0, tc.b1, tc.zeta)
		if r0 != tc.r0 || r1 != tc.r1 {
			t.Errorf("BaseMul(%d,%d,%d,%d,%d) = (%d, %d), want (%d, %d)",
				tc.a0, tc.a1, tc.b0, tc.b1, tc.zeta, r0, r1, tc.r0, tc.r1)
		}
	}
}

// x * x^255 = x^256 = -1 in the negacyclic ring
func TestPolyBaseMulOneHot(t *testing.T) {
	var a, b, r [field.N]int16
	a[1] = 1
	b[255] = 1

	NTT(&a)
	NTT(&b)
	reduce(&a)
	reduce(&b)
	PolyBaseMul(&r, &a, &b)
	InvNTT(&r)

	for i := range r {
		want := int64(0)
		if i == 0 {
			want = field.Q - 1
		}
		if mod(int64(r[i])) != want {
			t.Errorf("x*x^255 [%d] = %d, want %d", i, mod(int64(r[i])), want)
		}
	}
}

func TestBaseMulTiming(t *testing.T) {
	if !ctcheck.Enabled() {
		t.Skipf("set %s=1 to run timing checks", ctcheck.EnvVar)
	}
	rng := rand.New(rand.NewPCG(7, 8))
	type pair struct{ a0, a1 int16 }
	fn := func(p pair) int16 {
		r0, r1 := BaseMul(p.a0, p.a1, 1234, -567, Zetas[64])
		return r0 ^ r1
	}
	random := func() pair {
		return pair{int16(rng.IntN(2*field.Q) - field.Q), int16(rng.IntN(2*field.Q) - field.Q)}
	}
	r := ctcheck.Test(fn, pair{}, random, 200000)
	t.Logf("BaseMul: t = %.2f (%v)", r.T, r.Samples)
	if r.Leak() {
		t.Errorf("BaseMul timing depends on input: t = %.2f", r.T)
	}
}

// Benchmark NTT
func BenchmarkNTT(b *testing.B) {
	cs := rangePoly()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NTT(&cs)
		reduce(&cs)
	}
}

// Benchmark InvNTT
func BenchmarkInvNTT(b *testing.B) {
	cs := rangePoly()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		InvNTT(&cs)
	}
}

func BenchmarkPolyBaseMul(b *testing.B) {
	x := rangePoly()
	y := rangePoly()
	var r [field.N]int16
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PolyBaseMul(&r, &x, &y)
	}
}
