// Package implementing pairwise comparison statistics between distance
// matrices
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/jsdoublel/matnj/internal/dist"
)

var ErrTooFewCommonNames = errors.New("too few common names")

// Treats two matrices as vectors over the unordered pairs of their common
// names and computes the Manhattan distance.
func P1Norm(a, b *dist.Matrix) (float64, error) {
	names, err := commonNames(a, b)
	if err != nil {
		return 0, err
	}
	var sum float64
	eachPair(names, func(n1, n2 string) {
		sum += math.Abs(a.EntryByName(n1, n2) - b.EntryByName(n1, n2))
	})
	return sum, nil
}

// Root mean square difference over the unordered pairs of common names. To
// avoid errors from different name arrangements, both matrices are
// addressed by name rather than position.
func P2Norm(a, b *dist.Matrix) (float64, error) {
	names, err := commonNames(a, b)
	if err != nil {
		return 0, err
	}
	var sum float64
	eachPair(names, func(n1, n2 string) {
		d := a.EntryByName(n1, n2) - b.EntryByName(n1, n2)
		sum += d * d
	})
	return math.Sqrt(sum / float64(numPairs(len(names)))), nil
}

// Mean relative difference |2(d1-d2)/(d1+d2)| over the unordered pairs of
// common names.
func Rel(a, b *dist.Matrix) (float64, error) {
	names, err := commonNames(a, b)
	if err != nil {
		return 0, err
	}
	var sum float64
	eachPair(names, func(n1, n2 string) {
		d1, d2 := a.EntryByName(n1, n2), b.EntryByName(n1, n2)
		sum += math.Abs(2 * (d1 - d2) / (d1 + d2))
	})
	return sum / float64(numPairs(len(names))), nil
}

// Builds the full pairwise comparison matrix over all input matrices, with
// synthetic names M1..Mn, using the given symmetric statistic.
func FullMatrix(matrices []*dist.Matrix, statistic func(a, b *dist.Matrix) (float64, error)) (*dist.Matrix, error) {
	n := len(matrices)
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("M%d", i+1)
	}
	full := dist.New(names, make([]float64, n*n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v, err := statistic(matrices[i], matrices[j])
			if err != nil {
				return nil, fmt.Errorf("comparing matrix %d and %d: %w", i+1, j+1, err)
			}
			full.Set(i, j, v)
			full.Set(j, i, v)
		}
	}
	return full, nil
}

func commonNames(a, b *dist.Matrix) ([]string, error) {
	names := dist.CommonNames(a.Names(), b.Names())
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: %d shared taxa", ErrTooFewCommonNames, len(names))
	}
	return names, nil
}

func eachPair(names []string, fn func(n1, n2 string)) {
	for i := 0; i < len(names)-1; i++ {
		for j := i + 1; j < len(names); j++ {
			fn(names[i], names[j])
		}
	}
}

func numPairs(n int) int { return n * (n - 1) / 2 }
