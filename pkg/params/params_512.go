//go:build kyber512

package params

const (
	Name                = "Kyber512"
	K                   = 2
	Eta1                = 3
	PolyCompressedBytes = 128
)
