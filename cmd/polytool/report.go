package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"kyberpoly/pkg/encoding"
	"kyberpoly/pkg/field"
	"kyberpoly/pkg/hash"
	"kyberpoly/pkg/params"
	"kyberpoly/pkg/poly"
	"kyberpoly/pkg/sampling"
)

type summaryStats struct {
	Count int
	Mean  float64
	Std   float64
	Min   int
	Max   int
}

func computeStats(vals []int) summaryStats {
	st := summaryStats{Count: len(vals)}
	if len(vals) == 0 {
		return st
	}
	st.Min, st.Max = slices.Min(vals), slices.Max(vals)
	var sum, sumSq float64
	for _, v := range vals {
		sum += float64(v)
		sumSq += float64(v) * float64(v)
	}
	n := float64(len(vals))
	st.Mean = sum / n
	st.Std = math.Sqrt(max(0, sumSq/n-st.Mean*st.Mean))
	return st
}

// compressionErrors returns Decompress(Compress(u)) - u, centered modulo Q,
// for every u in [0, Q).
func compressionErrors(d int) []int {
	errs := make([]int, 0, field.Q)
	buf := make([]byte, encoding.CompressedSize(d))
	for base := 0; base < field.Q; base += field.N {
		var p, r poly.Poly
		for i := range p {
			p[i] = int16((base + i) % field.Q)
		}
		encoding.CompressBits(buf, &p, d)
		encoding.DecompressBits(&r, buf, d)
		for i := range p {
			if base+i >= field.Q {
				break
			}
			e := (int(r[i]) - int(p[i]) + field.Q) % field.Q
			if e > field.Q/2 {
				e -= field.Q
			}
			errs = append(errs, e)
		}
	}
	return errs
}

// noiseValues returns the coefficients of samples noise polynomials drawn
// with nonces 0, ..., samples-1.
func noiseValues(seed []byte, eta, samples int) []int {
	vals := make([]int, 0, samples*field.N)
	for nonce := 0; nonce < samples; nonce++ {
		var p poly.Poly
		if eta == 1 {
			sampling.GetNoiseEta1(&p, seed, byte(nonce))
		} else {
			sampling.GetNoiseEta2(&p, seed, byte(nonce))
		}
		for _, c := range p {
			vals = append(vals, int(c))
		}
	}
	return vals
}

// intHistogram counts every integer between the minimum and maximum of vals.
func intHistogram(vals []int) (labels []string, counts []int) {
	if len(vals) == 0 {
		return nil, nil
	}
	lo, hi := slices.Min(vals), slices.Max(vals)
	counts = make([]int, hi-lo+1)
	labels = make([]string, hi-lo+1)
	for i := range labels {
		labels[i] = fmt.Sprint(lo + i)
	}
	for _, v := range vals {
		counts[v-lo]++
	}
	return labels, counts
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, vals []int) *charts.Bar {
	labels, counts := intHistogram(vals)
	st := computeStats(vals)
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, min=%d, max=%d", st.Count, st.Mean, st.Std, st.Min, st.Max)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func buildReport(samples int) *components.Page {
	seed := hash.H([]byte("polytool report"), params.SymBytes)

	page := components.NewPage().SetPageTitle("polytool report (" + params.Name + ")")
	page.AddCharts(
		newHistogramChart("compression error, 4 bits", compressionErrors(4)),
		newHistogramChart("compression error, 5 bits", compressionErrors(5)),
		newHistogramChart(fmt.Sprintf("noise eta1 = %d", params.Eta1), noiseValues(seed, 1, samples)),
		newHistogramChart(fmt.Sprintf("noise eta2 = %d", params.Eta2), noiseValues(seed, 2, samples)),
	)
	return page
}

func runReport(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	out := fs.String("out", "polytool_report.html", "output HTML file")
	samples := fs.Int("samples", 256, "noise polynomials per histogram (1..256)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *samples < 1 || *samples > 256 {
		return fmt.Errorf("samples: %d is not in 1..256", *samples)
	}

	page := buildReport(*samples)
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create html: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err = fmt.Fprintln(w, "Histogram page:", *out)
	return err
}
