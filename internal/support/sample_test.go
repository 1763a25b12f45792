package support

import (
	"math/rand/v2"
	"testing"
)

func TestPackQuartet(t *testing.T) {
	testCases := []struct {
		name       string
		a, b, c, d int
	}{
		{name: "zeros", a: 0, b: 0, c: 0, d: 0},
		{name: "small", a: 1, b: 2, c: 3, d: 4},
		{name: "large", a: 65535, b: 1, c: 65534, d: 40000},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, b, c, d := packQuartet(tc.a, tc.b, tc.c, tc.d).taxa()
			if a != tc.a || b != tc.b || c != tc.c || d != tc.d {
				t.Errorf("round trip gave (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					a, b, c, d, tc.a, tc.b, tc.c, tc.d)
			}
		})
	}
}

func TestPackQuartetPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for taxon index beyond 16 bits")
		}
	}()
	packQuartet(0, 1<<taxonShift, 0, 0)
}

func TestEvalExact(t *testing.T) {
	m := quartetMatrix(t)
	testCases := []struct {
		name     string
		colors   []uint8
		expected float64
	}{
		// d(A,B)+d(C,D) = 16 beats both 24s
		{name: "supporting", colors: []uint8{setA, setB, setC, setD}, expected: 1},
		// pairing A with C puts the short split on the wrong side
		{name: "non supporting", colors: []uint8{setA, setC, setB, setD}, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalExact(m, tc.colors); got != tc.expected {
				t.Errorf("evalExact = %f, want %f", got, tc.expected)
			}
		})
	}
}

func TestEvalSampledFallsBackToExact(t *testing.T) {
	m := pathMatrix(t, 5, 0.01)
	colors := []uint8{setA, setA, setB, setC, setD}
	// only 2 quartets exist, far fewer than requested
	rng := rand.New(rand.NewPCG(1, 1))
	if got, want := evalSampled(m, colors, 10, rng), evalExact(m, colors); got != want {
		t.Errorf("evalSampled = %f, want exact value %f", got, want)
	}
}

func TestEvalSampledCoversPopulation(t *testing.T) {
	// k equal to the population size forces every distinct quartet to be
	// drawn, so the sampled ratio is the exact one
	m := pathMatrix(t, 8, 0.01)
	colors := []uint8{setA, setA, setB, setB, setC, setC, setD, setD}
	rng := rand.New(rand.NewPCG(2, 7))
	if got, want := evalSampled(m, colors, 16, rng), evalExact(m, colors); got != want {
		t.Errorf("evalSampled = %f, want exact value %f", got, want)
	}
}
