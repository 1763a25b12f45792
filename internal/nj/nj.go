package nj

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/jsdoublel/matnj/internal/dist"
)

// Builds a neighbor joining tree from the distance matrix. The matrix must
// hold at least four taxa; the caller is expected to have validated this, so
// smaller input is treated as a bug and panics. The reduction works on a
// private copy of the matrix, shrinking the active submatrix in place by one
// row per merge; m itself is left untouched for later support computation.
//
// Branch lengths follow the plain NJ formulas. On noisy, non-additive input
// they can come out slightly negative; they are passed through unclamped on
// purpose.
func Build(m *dist.Matrix) *Tree {
	size := m.Size()
	if size < 4 {
		panic(fmt.Sprintf("neighbor joining needs at least four taxa, got %d", size))
	}
	t := &Tree{Size: size, Nodes: make([]Node, size, 2*size-2)}

	// active[i] is the arena slot currently occupying matrix row i
	active := make([]int, size)
	for i := 0; i < size; i++ {
		t.Nodes[i] = Node{Index: i, Left: None, Right: None}
		active[i] = i
	}

	work := m.Clone()
	r := make([]float64, size)
	rowK := make([]float64, size)

	n := size
	for n > 3 {
		// net divergence per active row
		for i := 0; i < n; i++ {
			r[i] = floats.Sum(work.Row(i)[:n]) / float64(n-2)
		}

		// pair minimizing the agglomeration criterion; on exact ties the
		// first pair in row-major scan order wins, which keeps results
		// reproducible
		minI, minJ := 0, 1
		minValue := work.Entry(0, 1) - r[0] - r[1]
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				value := work.Entry(i, j) - r[i] - r[j]
				if value < minValue {
					minI, minJ = i, j
					minValue = value
				}
			}
		}
		if minJ < minI {
			minI, minJ = minJ, minI
		}

		dij := work.Entry(minI, minJ)
		id := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{
			Index:     -1,
			Left:      active[minI],
			Right:     active[minJ],
			LeftDist:  (dij + r[minI] - r[minJ]) / 2.0,
			RightDist: (dij - r[minI] + r[minJ]) / 2.0,
		})
		active[minI] = id
		active[minJ] = active[n-1]

		// distances from the merged node to every other active node
		for k := 0; k < n; k++ {
			if k == minI || k == minJ {
				continue
			}
			rowK[k] = (work.Entry(minI, k) + work.Entry(minJ, k) - dij) / 2.0
		}
		rowK[minI] = 0.0
		rowK[minJ] = rowK[n-1]

		// slot minI now holds the merged node's row; slot minJ is recycled
		// for whatever occupied the last active slot
		copy(work.Row(minI)[:n], rowK[:n])
		copy(work.Row(minJ)[:n], work.Row(n-1)[:n])
		work.Set(minI, minI, 0.0)
		work.Set(minJ, minJ, 0.0)

		// restore symmetry; minI's column first, since minJ's row still
		// holds a stale entry in that column
		for i := 0; i < n; i++ {
			work.Set(i, minI, work.Entry(minI, i))
		}
		for i := 0; i < n; i++ {
			work.Set(i, minJ, work.Entry(minJ, i))
		}

		n--
	}

	// join the three remaining nodes into the trifurcating root
	d01 := work.Entry(0, 1)
	d02 := work.Entry(0, 2)
	d12 := work.Entry(1, 2)
	t.Root = Root{
		Node: Node{
			Index:     -1,
			Left:      active[0],
			Right:     active[1],
			LeftDist:  (d01 + d02 - d12) / 2.0,
			RightDist: (d01 + d12 - d02) / 2.0,
		},
		Extra:     active[2],
		ExtraDist: (d02 + d12 - d01) / 2.0,
	}

	return t
}
