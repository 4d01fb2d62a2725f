package windowing

import (
	"fmt"
	"sort"
)

// PadValue fills label cells that carry no sample. It is never a real class.
const PadValue = -42

// LabelMatrix is a dense rows × cols matrix of integer labels, one row per
// window.
type LabelMatrix struct {
	rows int
	cols int
	data []int
}

func newLabelMatrix(rows, cols, fill int) *LabelMatrix {
	m := &LabelMatrix{rows: rows, cols: cols, data: make([]int, rows*cols)}
	if fill != 0 {
		for i := range m.data {
			m.data[i] = fill
		}
	}
	return m
}

// IsRagged reports whether the label sequences in y differ in length.
// An empty or single-window collection is never ragged.
func IsRagged(y [][]int) bool {
	for _, row := range y[min(1, len(y)):] {
		if len(row) != len(y[0]) {
			return true
		}
	}
	return false
}

// StackLabels copies equal-length label sequences into a LabelMatrix. It
// returns ErrShapeMismatch if y is ragged; use PadLabels for that case.
func StackLabels(y [][]int) (*LabelMatrix, error) {
	if IsRagged(y) {
		return nil, fmt.Errorf("%w: label sequences have differing lengths", ErrShapeMismatch)
	}
	cols := 0
	if len(y) > 0 {
		cols = len(y[0])
	}
	m := newLabelMatrix(len(y), cols, 0)
	for i, row := range y {
		copy(m.data[i*cols:], row)
	}
	return m, nil
}

// PadLabels left-aligns each sequence into a matrix as wide as the longest
// one, filling the remaining cells with pad.
func PadLabels(y [][]int, pad int) *LabelMatrix {
	cols := 0
	for _, row := range y {
		cols = max(cols, len(row))
	}
	m := newLabelMatrix(len(y), cols, pad)
	for i, row := range y {
		copy(m.data[i*cols:], row)
	}
	return m
}

// Shape returns (rows, cols).
func (m *LabelMatrix) Shape() (int, int) { return m.rows, m.cols }

// Len returns the number of rows.
func (m *LabelMatrix) Len() int { return m.rows }

// At returns the label at row i, column j.
func (m *LabelMatrix) At(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("windowing: label index (%d, %d) out of range %s", i, j, m))
	}
	return m.data[i*m.cols+j]
}

// Row returns a copy of row i, padding included.
func (m *LabelMatrix) Row(i int) []int {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("windowing: label row %d out of range [0, %d)", i, m.rows))
	}
	out := make([]int, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// Rows returns a copy of the matrix as nested slices.
func (m *LabelMatrix) Rows() [][]int {
	out := make([][]int, m.rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Counts returns the number of cells per class, ignoring cells equal to pad.
func (m *LabelMatrix) Counts(pad int) map[int]int {
	counts := make(map[int]int)
	for _, v := range m.data {
		if v != pad {
			counts[v]++
		}
	}
	return counts
}

// String formats the shape as (rows, cols).
func (m *LabelMatrix) String() string {
	return fmt.Sprintf("(%d, %d)", m.rows, m.cols)
}

// CountLabels returns the number of samples per class across all sequences.
func CountLabels(y [][]int) map[int]int {
	counts := make(map[int]int)
	for _, row := range y {
		for _, v := range row {
			counts[v]++
		}
	}
	return counts
}

// SortedClasses returns the keys of counts in ascending order.
func SortedClasses(counts map[int]int) []int {
	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}
