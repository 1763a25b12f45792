package dist

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	expected := []float64{
		0, 1, 2,
		1, 0, 3,
		2, 3, 0,
	}
	testCases := []struct {
		name  string
		input string
	}{
		{
			name: "full",
			input: "3\n" +
				"A 0 1 2\n" +
				"B 1 0 3\n" +
				"C 2 3 0\n",
		},
		{
			name: "lower triangle",
			input: "3\n" +
				"A\n" +
				"B 1\n" +
				"C 2 3\n",
		},
		{
			name: "lower triangle with diagonal",
			input: "3\n" +
				"A 0\n" +
				"B 1 0\n" +
				"C 2 3 0\n",
		},
		{
			name: "tolerant whitespace",
			input: "3\n\n" +
				"A   0  1.0   2\n" +
				"B\t1 0 3\n" +
				"C 2 3 0.0\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(tc.input), "test")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(m.Names(), []string{"A", "B", "C"}) {
				t.Errorf("names = %v", m.Names())
			}
			for i := range 3 {
				for j := range 3 {
					if m.Entry(i, j) != expected[i*3+j] {
						t.Errorf("entry (%d,%d) = %f, want %f", i, j, m.Entry(i, j), expected[i*3+j])
					}
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "empty", input: "", expected: ErrInvalidFormat},
		{name: "no size", input: "A 0 1\nB 1 0\n", expected: ErrInvalidFormat},
		{name: "size zero", input: "0\n", expected: ErrInvalidFile},
		{name: "negative size", input: "-2\n", expected: ErrInvalidFile},
		{name: "truncated", input: "3\nA 0 1 2\nB 1 0 3\n", expected: ErrInvalidFormat},
		{name: "too many values", input: "2\nA 0 1 2\nB 1 0\n", expected: ErrInvalidFormat},
		{name: "bad value", input: "2\nA 0 x\nB 1 0\n", expected: ErrInvalidFormat},
		{name: "short row", input: "3\nA 0 1 2\nB 1 0\nC 2 3 0\n", expected: ErrInvalidFormat},
		{name: "duplicate name", input: "2\nA 0 1\nA 1 0\n", expected: ErrInvalidFile},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input), "test")
			if !errors.Is(err, tc.expected) {
				t.Errorf("error = %v, want %v", err, tc.expected)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	m := testMatrix(t)
	parsed, err := Parse(strings.NewReader(m.String()), "round trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(parsed.Names(), m.Names()) {
		t.Errorf("names = %v, want %v", parsed.Names(), m.Names())
	}
	for i := range m.Size() {
		for j := range m.Size() {
			if got, want := parsed.Entry(i, j), m.Entry(i, j); got != want {
				t.Errorf("entry (%d,%d) = %f, want %f", i, j, got, want)
			}
		}
	}
}
