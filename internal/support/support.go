// Package implementing quartet support values for neighbor joining trees
//
// For every internal branch the taxa are split into four sets relative to
// the branch:
//
//	A -left--             -right- C
//	         \           /
//	          --left-- node
//	         /           \
//	B -right-             -far--- D
//
// A and B are the leaves under the two children on the near side, C the
// leaves of the sibling subtree, D everything else. A quartet (a,b,c,d)
// supports the branch when d(a,b)+d(c,d) is strictly smaller than both
// alternative pairings; the support value is the fraction of supporting
// quartets among those examined.
package support

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jsdoublel/matnj/internal/dist"
	"github.com/jsdoublel/matnj/internal/nj"
)

// leaf color classes; the zero value is D so a fresh buffer starts there
const (
	setD uint8 = iota
	setA
	setB
	setC
)

var ErrNegativeSampleSize = errors.New("negative sample size")

type Options struct {
	SampleSize int    // quartets to sample per branch; 0 computes every quartet
	Seed       uint64 // sampling seed; 0 derives one from entropy
	NProcs     int    // parallel processes; <= 0 uses GOMAXPROCS
}

// Computes a support value for every internal branch of the tree, writing
// the results into the tree's support fields. The matrix must be the one
// the tree was built from and is only read. Branches adjacent to a leaf or
// a cherry have no meaningful quartet decomposition and are skipped.
//
// Branch computations are independent (each writes only its own node's
// fields), so they fan out over NProcs goroutines. Each branch draws its
// sampling randomness from its own PCG stream keyed on the seed and the
// branch's position, which makes a fixed nonzero seed reproducible no
// matter how the goroutines are scheduled.
func Annotate(t *nj.Tree, m *dist.Matrix, opts Options) error {
	if opts.SampleSize < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSampleSize, opts.SampleSize)
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}
	if opts.NProcs <= 0 {
		opts.NProcs = runtime.GOMAXPROCS(0)
	}
	a := annotator{t: t, m: m, opts: opts}
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(opts.NProcs)
	for i := t.Size; i < len(t.Nodes); i++ {
		g.Go(func() error {
			a.annotateNode(&t.Nodes[i], uint64(i))
			return nil
		})
	}
	g.Go(func() error {
		root := &t.Root
		rootID := uint64(len(t.Nodes))
		a.annotateNode(&root.Node, rootID)
		if s, ok := a.branch(root.Extra, root.Left, 2*rootID+2); ok {
			root.ExtraSupport = s
		}
		return nil
	})
	return g.Wait()
}

type annotator struct {
	t    *nj.Tree
	m    *dist.Matrix
	opts Options
}

func (a *annotator) annotateNode(n *nj.Node, id uint64) {
	if n.Leaf() {
		return
	}
	if s, ok := a.branch(n.Left, n.Right, 2*id); ok {
		n.LeftSupport = s
	}
	if s, ok := a.branch(n.Right, n.Left, 2*id+1); ok {
		n.RightSupport = s
	}
}

// Support for the branch leading to child, with far being the sibling
// subtree on the other side. Reports false when child is a leaf, since the
// near side then yields no A/B split.
func (a *annotator) branch(child, far int, stream uint64) (float64, bool) {
	near := &a.t.Nodes[child]
	if near.Leaf() {
		return 0, false
	}
	colors := make([]uint8, a.m.Size())
	a.colorize(near.Left, colors, setA)
	a.colorize(near.Right, colors, setB)
	a.colorize(far, colors, setC)
	if a.opts.SampleSize == 0 {
		return evalExact(a.m, colors), true
	}
	rng := rand.New(rand.NewPCG(a.opts.Seed, stream))
	return evalSampled(a.m, colors, a.opts.SampleSize, rng), true
}

// Tags every leaf below id with the given color.
func (a *annotator) colorize(id int, colors []uint8, color uint8) {
	a.t.EachLeaf(id, func(taxon int) {
		colors[taxon] = color
	})
}

// Examines the full Cartesian product of the four sets.
func evalExact(m *dist.Matrix, colors []uint8) float64 {
	size := m.Size()
	var total, nonSupporting uint64
	for a := 0; a < size; a++ {
		if colors[a] != setA {
			continue
		}
		for b := 0; b < size; b++ {
			if colors[b] != setB {
				continue
			}
			for c := 0; c < size; c++ {
				if colors[c] != setC {
					continue
				}
				for d := 0; d < size; d++ {
					if colors[d] != setD {
						continue
					}
					total++
					dABCD := m.Entry(a, b) + m.Entry(c, d)
					if m.Entry(a, c)+m.Entry(b, d) < dABCD ||
						m.Entry(a, d)+m.Entry(b, c) < dABCD {
						nonSupporting++
					}
				}
			}
		}
	}
	return 1 - float64(nonSupporting)/float64(total)
}
