// Package implementing neighbor joining tree construction over a pairwise
// distance matrix
package nj

// Child index sentinel meaning "no child"; leaves carry it on both sides.
const None = -1

// A node in the tree arena: either a leaf (Index is the taxon's row in the
// original matrix) or a merge node (Index is -1, both children set). Children
// are arena positions, never pointers, so the pool can be allocated up front
// to its final size. Support values stay zero until the support engine runs.
type Node struct {
	Index        int
	Left, Right  int
	LeftDist     float64
	RightDist    float64
	LeftSupport  float64
	RightSupport float64
}

func (n *Node) Leaf() bool { return n.Left == None }

// The unrooted trifurcation finishing a neighbor joining tree. It has the
// shape of a Node plus a third branch; forcing it into a two-way rooted
// shape would misrepresent the tree.
type Root struct {
	Node
	Extra        int
	ExtraDist    float64
	ExtraSupport float64
}

// Tree owns a pool of nodes: slots [0,Size) are the leaves in matrix order,
// the remaining slots are merge nodes in creation order. All nodes share the
// lifetime of the Tree. Including the root there are exactly Size-2 internal
// nodes.
type Tree struct {
	Size  int
	Nodes []Node
	Root  Root
}

// Depth-first traversal of the subtree at id. pre fires before the left
// subtree, mid in between the children, post after the right subtree; any of
// the three may be nil.
func (t *Tree) Walk(id int, pre, mid, post func(n *Node)) {
	n := &t.Nodes[id]
	if pre != nil {
		pre(n)
	}
	if n.Left != None {
		t.Walk(n.Left, pre, mid, post)
	}
	if mid != nil {
		mid(n)
	}
	if n.Right != None {
		t.Walk(n.Right, pre, mid, post)
	}
	if post != nil {
		post(n)
	}
}

// Calls fn with the taxon index of every leaf below id (id included if it
// is itself a leaf).
func (t *Tree) EachLeaf(id int, fn func(taxon int)) {
	t.Walk(id, nil, func(n *Node) {
		if n.Leaf() {
			fn(n.Index)
		}
	}, nil)
}

// Matrix of leaf-to-leaf path length sums implied by the branch lengths.
// For exactly additive input this reproduces the original distances.
func (t *Tree) LeafDistances() [][]float64 {
	d := make([][]float64, t.Size)
	for i := range d {
		d[i] = make([]float64, t.Size)
	}
	cross := func(a, b []leafDepth) {
		for _, x := range a {
			for _, y := range b {
				d[x.taxon][y.taxon] = x.depth + y.depth
				d[y.taxon][x.taxon] = x.depth + y.depth
			}
		}
	}
	var gather func(id int) []leafDepth
	gather = func(id int) []leafDepth {
		n := &t.Nodes[id]
		if n.Leaf() {
			return []leafDepth{{taxon: n.Index}}
		}
		left := lift(gather(n.Left), n.LeftDist)
		right := lift(gather(n.Right), n.RightDist)
		cross(left, right)
		return append(left, right...)
	}
	groups := [][]leafDepth{
		lift(gather(t.Root.Left), t.Root.LeftDist),
		lift(gather(t.Root.Right), t.Root.RightDist),
		lift(gather(t.Root.Extra), t.Root.ExtraDist),
	}
	for gi := 0; gi < len(groups); gi++ {
		for gj := gi + 1; gj < len(groups); gj++ {
			cross(groups[gi], groups[gj])
		}
	}
	return d
}

// depth of a leaf below the subtree it was gathered from
type leafDepth struct {
	taxon int
	depth float64
}

func lift(leaves []leafDepth, branch float64) []leafDepth {
	for i := range leaves {
		leaves[i].depth += branch
	}
	return leaves
}
