package nj

import (
	"fmt"
	"strings"
)

// Renders the tree as a Newick string. names maps taxon indices to labels
// (normally the matrix's name list). Internal branches carry their support
// as an integer percentage, except on branches leading to a leaf or a cherry
// where no quartet support is defined; branch lengths are printed in
// scientific notation. The root trifurcation is emitted left, right, extra.
func (t *Tree) Newick(names []string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	t.writeSubtree(&sb, t.Root.Left, names)
	t.writeBranch(&sb, t.Root.Left, t.Root.LeftDist, t.Root.LeftSupport)
	sb.WriteByte(',')
	t.writeSubtree(&sb, t.Root.Right, names)
	t.writeBranch(&sb, t.Root.Right, t.Root.RightDist, t.Root.RightSupport)
	sb.WriteByte(',')
	t.writeSubtree(&sb, t.Root.Extra, names)
	t.writeBranch(&sb, t.Root.Extra, t.Root.ExtraDist, t.Root.ExtraSupport)
	sb.WriteString(");")
	return sb.String()
}

func (t *Tree) writeSubtree(sb *strings.Builder, id int, names []string) {
	n := &t.Nodes[id]
	if n.Leaf() {
		sb.WriteString(names[n.Index])
		return
	}
	sb.WriteByte('(')
	t.writeSubtree(sb, n.Left, names)
	t.writeBranch(sb, n.Left, n.LeftDist, n.LeftSupport)
	sb.WriteByte(',')
	t.writeSubtree(sb, n.Right, names)
	t.writeBranch(sb, n.Right, n.RightDist, n.RightSupport)
	sb.WriteByte(')')
}

// Appends the support label (only meaningful when the child subtree itself
// has children) and the branch length.
func (t *Tree) writeBranch(sb *strings.Builder, child int, dist, support float64) {
	if !t.Nodes[child].Leaf() {
		fmt.Fprintf(sb, "%d", int(support*100))
	}
	fmt.Fprintf(sb, ":%.4e", dist)
}
