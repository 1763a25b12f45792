package stats

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/jsdoublel/matnj/internal/dist"
)

// Default number of Monte-Carlo permutations for the Mantel test.
const DefaultMantelRuns = 100000

// Mantel runs a permutation test for the correlation of two distance
// matrices. The observed statistic is the RMSD over the common-name
// submatrices; its one-sided p-value is estimated against runs random
// permutations of one matrix's index order. With normalize, both
// submatrices are first centered and scaled by their lower-triangle mean
// and standard deviation. A seed of 0 draws one from entropy; any other
// seed makes the permutations reproducible.
func Mantel(a, b *dist.Matrix, normalize bool, runs int, seed uint64) (float64, error) {
	names, err := commonNames(a, b)
	if err != nil {
		return 0, err
	}
	subA, subB := a.Sub(names), b.Sub(names)
	if normalize {
		subA = normalized(subA)
		subB = normalized(subB)
	}
	orig := rmsd(subA, subB)

	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	size := len(names)
	perm := make([]int, size)
	for i := range perm {
		perm[i] = i
	}
	count := float64(numPairs(size))
	greater := 0
	for run := 0; run < runs; run++ {
		rng.Shuffle(size, func(i, j int) {
			perm[i], perm[j] = perm[j], perm[i]
		})
		var sum float64
		for i := 0; i < size-1; i++ {
			for j := i + 1; j < size; j++ {
				d := subA.Entry(i, j) - subB.Entry(perm[i], perm[j])
				sum += d * d
			}
		}
		if math.Sqrt(sum/count) >= orig {
			greater++
		}
	}
	return float64(greater) / float64(runs), nil
}

// Root mean square difference of two equally arranged matrices over the
// strict lower triangle.
func rmsd(a, b *dist.Matrix) float64 {
	var sum float64
	size := a.Size()
	for i := 0; i < size-1; i++ {
		for j := i + 1; j < size; j++ {
			d := a.Entry(i, j) - b.Entry(i, j)
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(numPairs(size)))
}

// Centers and scales every cell by the mean and standard deviation of the
// strict lower triangle.
func normalized(m *dist.Matrix) *dist.Matrix {
	tri := lowerTriangle(m)
	avg := stat.Mean(tri, nil)
	sd := stat.StdDev(tri, nil)
	ret := m.Clone()
	for i := 0; i < ret.Size(); i++ {
		row := ret.Row(i)
		for j := range row {
			row[j] = (row[j] - avg) / sd
		}
	}
	return ret
}

func lowerTriangle(m *dist.Matrix) []float64 {
	tri := make([]float64, 0, numPairs(m.Size()))
	for i := 1; i < m.Size(); i++ {
		tri = append(tri, m.Row(i)[:i]...)
	}
	return tri
}
