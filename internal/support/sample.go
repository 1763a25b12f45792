package support

import (
	"fmt"
	"math/rand/v2"

	"github.com/jsdoublel/matnj/internal/dist"
)

// One taxon index from each of the four sets, packed into 16-bit fields so
// sampled quartets can be deduplicated through a plain map key.
type quartet uint64

const taxonShift = 16

func packQuartet(a, b, c, d int) quartet {
	max := 1 << taxonShift
	if a >= max || b >= max || c >= max || d >= max {
		panic(fmt.Sprintf("taxon index out of quartet range: %d %d %d %d", a, b, c, d))
	}
	return quartet(uint64(a) | uint64(b)<<taxonShift | uint64(c)<<(2*taxonShift) | uint64(d)<<(3*taxonShift))
}

func (q quartet) taxa() (a, b, c, d int) {
	mask := quartet(1<<taxonShift - 1)
	return int(q & mask), int(q >> taxonShift & mask), int(q >> (2 * taxonShift) & mask), int(q >> (3 * taxonShift) & mask)
}

// Draws k distinct quartets uniformly at random (by rejection) and computes
// the support ratio from the sample. When there are fewer than k quartets
// overall, sampling could neither save work nor produce k distinct draws,
// so the exact evaluation runs instead.
func evalSampled(m *dist.Matrix, colors []uint8, k int, rng *rand.Rand) float64 {
	var setSizes [4]int
	for _, c := range colors {
		setSizes[c]++
	}
	total := uint64(setSizes[setA]) * uint64(setSizes[setB]) *
		uint64(setSizes[setC]) * uint64(setSizes[setD])
	if total < uint64(k) {
		return evalExact(m, colors)
	}

	// taxon indices making up each set
	var indices [4][]int
	for i := range indices {
		indices[i] = make([]int, 0, setSizes[i])
	}
	for taxon, c := range colors {
		indices[c] = append(indices[c], taxon)
	}

	seen := make(map[quartet]struct{}, k)
	sample := make([]quartet, 0, k)
	for len(sample) < k {
		q := packQuartet(
			indices[setA][rng.IntN(setSizes[setA])],
			indices[setB][rng.IntN(setSizes[setB])],
			indices[setC][rng.IntN(setSizes[setC])],
			indices[setD][rng.IntN(setSizes[setD])],
		)
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		sample = append(sample, q)
	}

	var nonSupporting int
	for _, q := range sample {
		a, b, c, d := q.taxa()
		dABCD := m.Entry(a, b) + m.Entry(c, d)
		if m.Entry(a, c)+m.Entry(b, d) < dABCD ||
			m.Entry(a, d)+m.Entry(b, c) < dABCD {
			nonSupporting++
		}
	}
	return 1 - float64(nonSupporting)/float64(k)
}
