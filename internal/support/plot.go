package support

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jsdoublel/matnj/internal/nj"
)

const (
	plotH = 4 * vg.Inch
	plotW = 6 * vg.Inch

	histBins = 20
)

var ErrNoSupportValues = errors.New("no support values")

// Writes a histogram of the tree's annotated branch support values to
// prefix.png. Only branches that actually carry a support value (both sides
// non-trivial) are included.
func WriteSupportHistogram(t *nj.Tree, prefix string) error {
	values := plotter.Values(Values(t))
	if len(values) == 0 {
		return fmt.Errorf("%w, tree has no annotatable branch", ErrNoSupportValues)
	}
	p := plot.New()
	p.X.Label.Text = "Quartet Support"
	p.Y.Label.Text = "Number of Branches"
	p.X.Min = 0
	p.X.Max = 1
	hist, err := plotter.NewHist(values, histBins)
	if err != nil {
		return err
	}
	p.Add(hist)
	return p.Save(plotW, plotH, fmt.Sprintf("%s.png", prefix))
}

// Support values of all annotatable branches, pool order, left before
// right, root last (left, right, extra).
func Values(t *nj.Tree) []float64 {
	values := make([]float64, 0, 2*len(t.Nodes))
	collect := func(n *nj.Node) {
		if n.Leaf() {
			return
		}
		if !t.Nodes[n.Left].Leaf() {
			values = append(values, n.LeftSupport)
		}
		if !t.Nodes[n.Right].Leaf() {
			values = append(values, n.RightSupport)
		}
	}
	for i := t.Size; i < len(t.Nodes); i++ {
		collect(&t.Nodes[i])
	}
	collect(&t.Root.Node)
	if !t.Nodes[t.Root.Extra].Leaf() {
		values = append(values, t.Root.ExtraSupport)
	}
	return values
}
