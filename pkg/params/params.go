// Package params holds the fixed sizes of the ring and the parameter set
// selected at build time.
//
// The default build is Kyber768. Build with -tags kyber512 or -tags kyber1024
// for the other sets.
package params

const (
	// N is the polynomial degree (ring is Z_Q[x]/<x^256+1>)
	N = 256

	// Q is the prime modulus
	Q = 3329

	// SymBytes is the size of seeds and shared secrets
	SymBytes = 32

	// MsgBytes is the size of a message embedded in one polynomial
	MsgBytes = N / 8

	// PolyBytes is the size of a polynomial packed at 12 bits per coefficient
	PolyBytes = 384

	// Eta2 is the noise parameter shared by every parameter set
	Eta2 = 2
)

// Eta1Bytes and Eta2Bytes are the PRF output lengths consumed by the
// centered binomial sampler: eta*N/4.
const (
	Eta1Bytes = Eta1 * N / 4
	Eta2Bytes = Eta2 * N / 4
)

// PolyCompressedBits returns the bits per coefficient of the compressed
// polynomial format. Only 128 and 160 byte outputs have a defined wire format;
// any other size is a build misconfiguration and panics.
func PolyCompressedBits() int {
	return compressedBits(PolyCompressedBytes)
}

func compressedBits(size int) int {
	switch size {
	case 128:
		return 4
	case 160:
		return 5
	}
	panic("params: PolyCompressedBytes needs to be one of (128, 160)")
}
