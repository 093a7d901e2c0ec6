package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"kyberpoly/pkg/encoding"
	"kyberpoly/pkg/hash"
	"kyberpoly/pkg/params"
	"kyberpoly/pkg/poly"
	"kyberpoly/pkg/sampling"
)

func usage() {
	fmt.Printf(`usage: polytool <noise|compress|decompress|msg|uniform|report> [options]

Parameter set: %s (k=%d, eta1=%d, eta2=%d, compressed poly %d bytes)

Subcommands:
  noise       Sample a noise polynomial and print it packed as hex
              Flags:
                -seed   <hex>   32-byte seed (default: zeros)
                -nonce  <int>   nonce byte (default: 0)
                -eta    <1|2>   which noise parameter (default: 1)
                -coeffs         print coefficients instead of packed bytes

  compress    Compress a packed polynomial
              Flags:
                -in     <hex>   384-byte packed polynomial (required)
                -bits   <4|5>   bits per coefficient (default: parameter set)

  decompress  Decompress to a packed polynomial
              Flags:
                -in     <hex>   compressed polynomial (required)
                -bits   <4|5>   bits per coefficient (default: parameter set)

  msg         Embed a 32-byte message, print the packed polynomial and the decoded message
              Flags:
                -in     <hex>   message (required)

  uniform     Sample a uniform polynomial from SHAKE-128(seed || x || y)
              Flags:
                -seed   <hex>   32-byte seed (default: zeros)
                -x, -y  <int>   index bytes (default: 0)
                -raw    <int>   print this many raw XOF bytes instead (max 65536)

  report      Write an HTML page of compression error and noise histograms
              Flags:
                -out     <file> output path (default: polytool_report.html)
                -samples <int>  noise polynomials per histogram (default: 256)
`, params.Name, params.K, params.Eta1, params.Eta2, params.PolyCompressedBytes)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "noise":
		err = runNoise(args, os.Stdout)
	case "compress":
		err = runCompress(args, os.Stdout)
	case "decompress":
		err = runDecompress(args, os.Stdout)
	case "msg":
		err = runMsg(args, os.Stdout)
	case "uniform":
		err = runUniform(args, os.Stdout)
	case "report":
		err = runReport(args, os.Stdout)
	default:
		usage()
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func decodeHex(name, s string, n int) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if n > 0 && len(b) != n {
		return nil, fmt.Errorf("%s: need %d bytes, got %d", name, n, len(b))
	}
	return b, nil
}

func parseSeed(s string) ([]byte, error) {
	if s == "" {
		return make([]byte, params.SymBytes), nil
	}
	return decodeHex("seed", s, params.SymBytes)
}

func checkByte(name string, v int) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("%s: %d does not fit in a byte", name, v)
	}
	return nil
}

const maxRawBytes = 1 << 16

func checkBits(bits int) error {
	if bits != 4 && bits != 5 {
		return fmt.Errorf("bits: %d is not 4 or 5", bits)
	}
	return nil
}

func runNoise(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("noise", flag.ContinueOnError)
	seedHex := fs.String("seed", "", "32-byte seed as hex")
	nonce := fs.Int("nonce", 0, "nonce byte")
	eta := fs.Int("eta", 1, "noise parameter: 1 for eta1, 2 for eta2")
	coeffs := fs.Bool("coeffs", false, "print coefficients")
	if err := fs.Parse(args); err != nil {
		return err
	}

	seed, err := parseSeed(*seedHex)
	if err != nil {
		return err
	}
	if err := checkByte("nonce", *nonce); err != nil {
		return err
	}

	var p poly.Poly
	switch *eta {
	case 1:
		sampling.GetNoiseEta1(&p, seed, byte(*nonce))
	case 2:
		sampling.GetNoiseEta2(&p, seed, byte(*nonce))
	default:
		return fmt.Errorf("eta: %d is not 1 or 2", *eta)
	}

	if *coeffs {
		return printCoeffs(w, &p)
	}
	_, err = fmt.Fprintln(w, hex.EncodeToString(encoding.PackPoly(&p)))
	return err
}

func printCoeffs(w io.Writer, p *poly.Poly) error {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = fmt.Sprint(c)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

func runCompress(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	in := fs.String("in", "", "packed polynomial as hex")
	bits := fs.Int("bits", params.PolyCompressedBits(), "bits per coefficient: 4 or 5")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkBits(*bits); err != nil {
		return err
	}
	b, err := decodeHex("in", *in, params.PolyBytes)
	if err != nil {
		return err
	}

	var p poly.Poly
	encoding.FromBytes(&p, b)
	for i, c := range p {
		if c >= params.Q {
			return fmt.Errorf("in: coefficient %d = %d is not below %d", i, c, params.Q)
		}
	}
	out := make([]byte, encoding.CompressedSize(*bits))
	encoding.CompressBits(out, &p, *bits)
	_, err = fmt.Fprintln(w, hex.EncodeToString(out))
	return err
}

func runDecompress(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("decompress", flag.ContinueOnError)
	in := fs.String("in", "", "compressed polynomial as hex")
	bits := fs.Int("bits", params.PolyCompressedBits(), "bits per coefficient: 4 or 5")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkBits(*bits); err != nil {
		return err
	}
	b, err := decodeHex("in", *in, encoding.CompressedSize(*bits))
	if err != nil {
		return err
	}

	var p poly.Poly
	encoding.DecompressBits(&p, b, *bits)
	_, err = fmt.Fprintln(w, hex.EncodeToString(encoding.PackPoly(&p)))
	return err
}

func runMsg(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("msg", flag.ContinueOnError)
	in := fs.String("in", "", "32-byte message as hex")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := decodeHex("in", *in, params.MsgBytes)
	if err != nil {
		return err
	}

	var p poly.Poly
	encoding.FromMsg(&p, msg)
	back := make([]byte, params.MsgBytes)
	encoding.ToMsg(back, &p)
	_, err = fmt.Fprintf(w, "poly %s\nmsg  %s\n", hex.EncodeToString(encoding.PackPoly(&p)), hex.EncodeToString(back))
	return err
}

func runUniform(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("uniform", flag.ContinueOnError)
	seedHex := fs.String("seed", "", "32-byte seed as hex")
	x := fs.Int("x", 0, "first index byte")
	y := fs.Int("y", 0, "second index byte")
	raw := fs.Int("raw", 0, "print this many raw XOF bytes instead of the polynomial")
	if err := fs.Parse(args); err != nil {
		return err
	}
	seed, err := parseSeed(*seedHex)
	if err != nil {
		return err
	}
	if err := errors.Join(checkByte("x", *x), checkByte("y", *y)); err != nil {
		return err
	}
	if *raw < 0 || *raw > maxRawBytes {
		return fmt.Errorf("raw: %d is not in 0..%d", *raw, maxRawBytes)
	}

	xof := hash.NewStreamingXOF128(seed, byte(*x), byte(*y))
	if *raw > 0 {
		buf := make([]byte, *raw)
		if _, err := xof.Read(buf); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, hex.EncodeToString(buf))
		return err
	}
	a := sampling.SampleUniform(xof)
	p := poly.Poly(a)
	_, err = fmt.Fprintln(w, hex.EncodeToString(encoding.PackPoly(&p)))
	return err
}
