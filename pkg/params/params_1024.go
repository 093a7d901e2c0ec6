//go:build kyber1024

package params

const (
	Name                = "Kyber1024"
	K                   = 4
	Eta1                = 2
	PolyCompressedBytes = 160
)
