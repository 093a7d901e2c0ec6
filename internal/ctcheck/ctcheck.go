// Package ctcheck is a differential timing harness for branch-free code.
//
// It times a function on two classes of inputs, one fixed value and fresh
// random values, interleaved in random order, and compares the two timing
// distributions with Welch's t-test. A |t| above Threshold means the running
// time depends on the input.
package ctcheck

import (
	"math"
	"math/rand/v2"
	"os"
	"time"
)

// Threshold is the |t| value above which a leak is reported.
const Threshold = 4.5

// EnvVar enables timing tests. Wall-clock measurements are too noisy to run
// on every test invocation.
const EnvVar = "KYBERPOLY_CTCHECK"

// batch is the number of calls timed together per measurement.
const batch = 64

// Enabled reports whether timing tests were requested.
func Enabled() bool {
	return os.Getenv(EnvVar) == "1"
}

// Result holds the outcome of a timing comparison.
type Result struct {
	T       float64
	Samples [2]int
}

// Leak reports whether the two classes are distinguishable.
func (r Result) Leak() bool {
	return math.Abs(r.T) > Threshold
}

var sink int16

// Test times fn on the fixed input against inputs drawn from random,
// for the given number of measurements.
func Test[T any](fn func(T) int16, fixed T, random func() T, rounds int) Result {
	var st [2]welford
	inputs := make([]T, batch)
	for i := 0; i < rounds; i++ {
		class := rand.IntN(2)
		for j := range inputs {
			if class == 0 {
				inputs[j] = fixed
			} else {
				inputs[j] = random()
			}
		}
		start := time.Now()
		var acc int16
		for _, in := range inputs {
			acc ^= fn(in)
		}
		elapsed := time.Since(start)
		sink ^= acc
		st[class].add(float64(elapsed.Nanoseconds()))
	}
	return Result{
		T:       welchT(&st[0], &st[1]),
		Samples: [2]int{st[0].n, st[1].n},
	}
}

// welford accumulates mean and variance in one pass.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func (w *welford) add(x float64) {
	w.n++
	d := x - w.mean
	w.mean += d / float64(w.n)
	w.m2 += d * (x - w.mean)
}

func (w *welford) variance() float64 {
	if w.n < 2 {
		return 0
	}
	return w.m2 / float64(w.n-1)
}

func welchT(a, b *welford) float64 {
	if a.n < 2 || b.n < 2 {
		return 0
	}
	den := math.Sqrt(a.variance()/float64(a.n) + b.variance()/float64(b.n))
	if den == 0 {
		return 0
	}
	return (a.mean - b.mean) / den
}
