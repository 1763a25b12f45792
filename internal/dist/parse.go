package dist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidFormat = errors.New("invalid format")
)

// Parses the first distance matrix from r. The phylip distance matrix is a
// poorly defined format existing in full, lower triangle, and lower triangle
// with diagonal variations; all three are accepted here (upper triangle is
// barely used in the wild and ignored). The first data row decides which
// variation applies. Lower triangle input is mirrored onto the upper
// triangle. source is only used for error messages.
func Parse(r io.Reader, source string) (*Matrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	sizeLine, err := nextLine(scanner, source)
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(strings.TrimSpace(sizeLine))
	if err != nil {
		return nil, fmt.Errorf("%w, %s: matrix size expected on first line: %s", ErrInvalidFormat, source, err.Error())
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w, %s: matrix of size %d", ErrInvalidFile, source, size)
	}
	names := make([]string, 0, size)
	values := make([]float64, size*size)

	// The first row is special; its value count determines the format.
	name, row, err := parseRow(scanner, source, size)
	if err != nil {
		return nil, err
	}
	lowerTriangle := len(row) < size
	diagonal := len(row) == 1
	names = append(names, name)
	copy(values, row)

	for i := 1; i < size; i++ {
		expected := size
		if lowerTriangle {
			expected = i
			if diagonal {
				expected++
			}
		}
		name, row, err := parseRow(scanner, source, expected)
		if err != nil {
			return nil, err
		}
		if len(row) != expected {
			return nil, fmt.Errorf("%w, %s: row %q has %d values, expected %d",
				ErrInvalidFormat, source, name, len(row), expected)
		}
		names = append(names, name)
		copy(values[i*size:], row)
	}

	m := New(names, values)
	if lowerTriangle {
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				m.Set(i, j, m.Entry(j, i))
			}
		}
	}
	if dup := firstDuplicate(names); dup != "" {
		return nil, fmt.Errorf("%w, %s: the name %s appears twice", ErrInvalidFile, source, dup)
	}
	return m, nil
}

// Reads one matrix row: a name followed by at most max values.
func parseRow(scanner *bufio.Scanner, source string, max int) (string, []float64, error) {
	line, err := nextLine(scanner, source)
	if err != nil {
		return "", nil, err
	}
	fields := strings.Fields(line)
	name := fields[0]
	if len(fields)-1 > max {
		return "", nil, fmt.Errorf("%w, %s: row %q has more than %d values",
			ErrInvalidFormat, source, name, max)
	}
	row := make([]float64, 0, len(fields)-1)
	for _, field := range fields[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w, %s: row %q: %s", ErrInvalidFormat, source, name, err.Error())
		}
		row = append(row, v)
	}
	return name, row, nil
}

func nextLine(scanner *bufio.Scanner, source string) (string, error) {
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading %s: %w", source, err)
	}
	return "", fmt.Errorf("%w, %s: unexpected end of input", ErrInvalidFormat, source)
}

func firstDuplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name
		}
		seen[name] = true
	}
	return ""
}

// Reads one matrix from every given file; "-" (or no files at all) reads
// from stdin.
func ParseFiles(files []string) ([]*Matrix, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	matrices := make([]*Matrix, 0, len(files))
	for _, name := range files {
		m, err := parseFile(name)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, m)
	}
	return matrices, nil
}

func parseFile(name string) (*Matrix, error) {
	if name == "-" {
		return Parse(os.Stdin, "stdin")
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("error opening %s, %w", name, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(fmt.Sprintf("could not close file %s, %s", name, err))
		}
	}()
	return Parse(file, name)
}
