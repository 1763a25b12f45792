package dist

import (
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
)

// Default relative tolerance used when deciding whether two cells are
// close enough to count as equal (asymmetry repair, zero detection).
const DefaultPrecision = 0.05

var (
	ErrDuplicateName      = errors.New("duplicate name")
	ErrZeroEntry          = errors.New("zero entry beyond the main diagonal")
	ErrNaNEntry           = errors.New("not a number entry")
	ErrTriangleInequality = errors.New("violation of triangle inequality")
)

func closeEnough(a, b, precision float64) bool {
	return a*(1.0-precision) <= b && b <= a*(1.0+precision)
}

// Prints the matrix in phylip format. separator goes in between cells,
// specifier is a printf-style verb for a single float64. The default
// specifier ("%9.3e") displays four significant digits with right-aligned
// NaNs. With truncate, names are cut to ten characters like classic phylip
// tools expect.
func Format(m *Matrix, separator byte, specifier string, truncate bool) string {
	var sb strings.Builder
	size := m.Size()
	sb.Grow(size*10 + size*size*10 + size)
	fmt.Fprintf(&sb, "%d\n", size)
	for i, name := range m.Names() {
		if truncate {
			fmt.Fprintf(&sb, "%-10.10s", name)
		} else {
			fmt.Fprintf(&sb, "%-10s", name)
		}
		for j := 0; j < size; j++ {
			sb.WriteByte(separator)
			fmt.Fprintf(&sb, specifier, m.Entry(i, j))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m *Matrix) String() string {
	return Format(m, ' ', "%9.3e", false)
}

// Rearranges the matrix by sorted names.
func Sort(m *Matrix) *Matrix {
	names := slices.Clone(m.Names())
	slices.Sort(names)
	return m.Sub(names)
}

// Repairs recoverable defects in place of erroring: negative cells are
// clamped to zero, the main diagonal is zeroed, and asymmetric cell pairs
// are averaged. Every repair is logged.
func Fix(m *Matrix, precision float64) *Matrix {
	fixed := m.Clone()
	size := fixed.Size()
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if fixed.Entry(i, j) < 0 {
				log.Printf("fixed entry (%d,%d); was negative: %f, now 0", i, j, fixed.Entry(i, j))
				fixed.Set(i, j, 0)
			}
		}
	}
	for i := 0; i < size; i++ {
		if fixed.Entry(i, i) != 0 {
			log.Printf("fixed entry (%d,%d); was %f, now is 0", i, i, fixed.Entry(i, i))
			fixed.Set(i, i, 0)
		}
	}
	for i := 0; i < size; i++ {
		for j := 0; j < i; j++ {
			if !closeEnough(fixed.Entry(i, j), fixed.Entry(j, i), precision) {
				log.Printf("fixed asymmetric cells (%d,%d) and (%d,%d); entries are now averaged", i, j, j, i)
				avg := (fixed.Entry(i, j) + fixed.Entry(j, i)) / 2.0
				fixed.Set(i, j, avg)
				fixed.Set(j, i, avg)
			}
		}
	}
	return fixed
}

// Checks for non-recoverable defects: duplicate names (at full length, or
// truncated to ten characters when truncate is set), zero or NaN entries
// beyond the main diagonal, and triangle inequality violations.
func Validate(m *Matrix, truncate bool, precision float64) error {
	names := slices.Clone(m.Names())
	if truncate {
		for i, name := range names {
			if len(name) > 10 {
				names[i] = name[:10]
			}
		}
	}
	slices.Sort(names)
	for i := 0; i+1 < len(names); i++ {
		if names[i] == names[i+1] {
			return fmt.Errorf("%w, the name %s appears twice", ErrDuplicateName, names[i])
		}
	}
	size := m.Size()
	for i := 0; i < size; i++ {
		for j := 0; j < i; j++ {
			if closeEnough(m.Entry(i, j), 0, precision) {
				return fmt.Errorf("%w (%d,%d)", ErrZeroEntry, i, j)
			}
			if math.IsNaN(m.Entry(i, j)) {
				return fmt.Errorf("%w (%d,%d)", ErrNaNEntry, i, j)
			}
		}
	}
	for i := 0; i < size; i++ {
		for j := 0; j < i; j++ {
			for k := 0; k < j; k++ {
				indirect := m.Entry(i, k) + m.Entry(j, k)
				if m.Entry(i, j) > indirect && !closeEnough(m.Entry(i, j), indirect, precision) {
					return fmt.Errorf("%w for (%d,%d) and (%d,%d)+(%d,%d)",
						ErrTriangleInequality, i, j, i, k, k, j)
				}
			}
		}
	}
	return nil
}
