// Package containing the pairwise distance matrix type along with its
// phylip-style reader and writer
package dist

import (
	"fmt"
	"slices"
)

// Square matrix of pairwise distances indexed by taxon name. Values are
// stored flat in row-major order; Row returns an aliasing slice so that
// algorithms (like neighbor joining) can mutate entries in place.
type Matrix struct {
	names  []string
	values []float64
	index  map[string]int // name -> row/column index
}

// Makes a matrix from a list of names and size*size row-major values.
// Panics if the dimensions don't line up, since that means there is a bug
// in the caller, not bad user input.
func New(names []string, values []float64) *Matrix {
	if len(names)*len(names) != len(values) {
		panic(fmt.Sprintf("matrix dimension mismatch: %d names, %d values", len(names), len(values)))
	}
	return &Matrix{names: names, values: values, index: makeIndexMap(names)}
}

func makeIndexMap(names []string) map[string]int {
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return index
}

func (m *Matrix) Size() int { return len(m.names) }

// Read-only list of taxon names in matrix order.
func (m *Matrix) Names() []string { return m.names }

func (m *Matrix) Entry(i, j int) float64 { return m.values[i*len(m.names)+j] }

func (m *Matrix) Set(i, j int, v float64) { m.values[i*len(m.names)+j] = v }

// Row i as a slice aliasing the underlying storage.
func (m *Matrix) Row(i int) []float64 {
	n := len(m.names)
	return m.values[i*n : (i+1)*n]
}

// Entry addressed by taxon names; panics on an unknown name.
func (m *Matrix) EntryByName(ni, nj string) float64 {
	return m.Entry(m.Index(ni), m.Index(nj))
}

func (m *Matrix) Index(name string) int {
	i, ok := m.index[name]
	if !ok {
		panic(fmt.Sprintf("no taxon named %q in matrix", name))
	}
	return i
}

// Deep copy; the neighbor joining reduction mutates its working matrix and
// must never alias the caller's copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		names:  slices.Clone(m.names),
		values: slices.Clone(m.values),
		index:  makeIndexMap(m.names),
	}
}

// Submatrix containing only the given names, in the given order.
func (m *Matrix) Sub(names []string) *Matrix {
	values := make([]float64, len(names)*len(names))
	sub := New(slices.Clone(names), values)
	for i, ni := range names {
		for j, nj := range names {
			sub.Set(i, j, m.EntryByName(ni, nj))
		}
	}
	return sub
}

// Sorted intersection of two name lists.
func CommonNames(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, name := range b {
		set[name] = true
	}
	common := make([]string, 0, min(len(a), len(b)))
	for _, name := range a {
		if set[name] {
			common = append(common, name)
		}
	}
	slices.Sort(common)
	return common
}
