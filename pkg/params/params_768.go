//go:build !kyber512 && !kyber1024

package params

const (
	Name                = "Kyber768"
	K                   = 3
	Eta1                = 2
	PolyCompressedBytes = 128
)
