package dist

import (
	"reflect"
	"regexp"
	"testing"
)

func TestGrep(t *testing.T) {
	m := New(
		[]string{"Eco_1", "Sau_1", "Eco_2", "Bsu_1"},
		[]float64{
			0, 1, 2, 3,
			1, 0, 4, 5,
			2, 4, 0, 6,
			3, 5, 6, 0,
		},
	)
	testCases := []struct {
		name     string
		pattern  string
		invert   bool
		expected []string
	}{
		{name: "prefix", pattern: "^Eco", expected: []string{"Eco_1", "Eco_2"}},
		{name: "invert", pattern: "^Eco", invert: true, expected: []string{"Sau_1", "Bsu_1"}},
		{name: "all", pattern: "_1$|_2$", expected: []string{"Eco_1", "Sau_1", "Eco_2", "Bsu_1"}},
		{name: "none", pattern: "missing", expected: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub := Grep(m, regexp.MustCompile(tc.pattern), tc.invert)
			if !reflect.DeepEqual(sub.Names(), tc.expected) {
				t.Errorf("names = %v, want %v", sub.Names(), tc.expected)
			}
		})
	}
	sub := Grep(m, regexp.MustCompile("^Eco"), false)
	if got := sub.EntryByName("Eco_1", "Eco_2"); got != 2 {
		t.Errorf("entry (Eco_1,Eco_2) = %f, want 2", got)
	}
}
