package dist

import (
	"regexp"

	"github.com/bits-and-blooms/bitset"
)

// Subsamples the matrix down to the names matching pattern, preserving
// their original order. With invert, the non-matching names are kept
// instead.
func Grep(m *Matrix, pattern *regexp.Regexp, invert bool) *Matrix {
	keep := bitset.New(uint(m.Size()))
	for i, name := range m.Names() {
		if pattern.MatchString(name) != invert {
			keep.Set(uint(i))
		}
	}
	names := make([]string, 0, keep.Count())
	for i, name := range m.Names() {
		if keep.Test(uint(i)) {
			names = append(names, name)
		}
	}
	return m.Sub(names)
}
