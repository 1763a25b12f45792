package nj

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/evolbioinfo/gotree/io/newick"
)

func TestNewick(t *testing.T) {
	m := quartetMatrix(t)
	tre := Build(m)
	tre.Root.LeftSupport = 1.0

	expected := "((A:2.0000e+00,B:3.0000e+00)100:4.0000e+00,D:6.0000e+00,C:5.0000e+00);"
	if got := tre.Newick(m.Names()); got != expected {
		t.Errorf("Newick = %q, want %q", got, expected)
	}
}

func TestNewickOmitsLeafSupport(t *testing.T) {
	m := caterpillarMatrix(t)
	tre := Build(m)
	out := tre.Newick(m.Names())
	// every leaf label is followed directly by its branch length
	for _, name := range m.Names() {
		if !strings.Contains(out, name+":") {
			t.Errorf("leaf %s should carry no support label: %q", name, out)
		}
	}
}

func TestNewickRoundTrip(t *testing.T) {
	m := caterpillarMatrix(t)
	tre := Build(m)
	out := tre.Newick(m.Names())

	parsed, err := newick.NewParser(strings.NewReader(out)).Parse()
	if err != nil {
		t.Fatalf("output did not parse as newick: %v", err)
	}
	if err := parsed.UpdateTipIndex(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tips := parsed.AllTipNames()
	sort.Strings(tips)
	names := append([]string(nil), m.Names()...)
	sort.Strings(names)
	if len(tips) != len(names) {
		t.Fatalf("parsed tree has %d tips, want %d", len(tips), len(names))
	}
	for i, name := range names {
		if tips[i] != name {
			t.Errorf("tip %d = %s, want %s", i, tips[i], name)
		}
	}

	// total branch length should survive serialization
	var total float64
	for _, e := range parsed.Edges() {
		total += e.Length()
	}
	var expected float64
	for id := range tre.Nodes {
		n := &tre.Nodes[id]
		if !n.Leaf() {
			expected += n.LeftDist + n.RightDist
		}
	}
	expected += tre.Root.LeftDist + tre.Root.RightDist + tre.Root.ExtraDist
	if math.Abs(total-expected) > 1e-3 {
		t.Errorf("total branch length = %f, want %f", total, expected)
	}
}
