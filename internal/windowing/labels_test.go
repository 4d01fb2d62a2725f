package windowing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRagged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		y    [][]int
		want bool
	}{
		{"nil", nil, false},
		{"single", [][]int{{1, 2}}, false},
		{"uniform", [][]int{{1, 2}, {3, 4}, {5, 6}}, false},
		{"uniform empty rows", [][]int{{}, {}}, false},
		{"ragged", [][]int{{1, 2, 3}, {4, 5}}, true},
		{"ragged late", [][]int{{1}, {2}, {3, 4}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRagged(tt.y))
		})
	}
}

func TestStackLabels(t *testing.T) {
	t.Parallel()

	m, err := StackLabels([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, "(2, 2)", m.String())
	assert.Equal(t, 3, m.At(1, 0))

	_, err = StackLabels([][]int{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPadLabels(t *testing.T) {
	t.Parallel()

	y := [][]int{{1, 2, 3}, {4, 5}, {}}
	m := PadLabels(y, PadValue)

	rows, cols := m.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	want := [][]int{{1, 2, 3}, {4, 5, -42}, {-42, -42, -42}}
	if diff := cmp.Diff(want, m.Rows()); diff != "" {
		t.Errorf("PadLabels mismatch (-want +got):\n%s", diff)
	}

	// the input rows are untouched
	assert.Equal(t, []int{4, 5}, y[1])
}

func TestPadLabels_Empty(t *testing.T) {
	t.Parallel()

	m := PadLabels(nil, PadValue)
	assert.Equal(t, "(0, 0)", m.String())
}

func TestLabelMatrix_Counts(t *testing.T) {
	t.Parallel()

	m := PadLabels([][]int{{1, 1, 2}, {2}}, PadValue)
	assert.Equal(t, map[int]int{1: 2, 2: 2}, m.Counts(PadValue))
	assert.Equal(t, map[int]int{1: 2, 2: 2, PadValue: 2}, m.Counts(0))
}

func TestCountLabels(t *testing.T) {
	t.Parallel()

	counts := CountLabels([][]int{{3, 1}, {1}, {}})
	assert.Equal(t, map[int]int{1: 2, 3: 1}, counts)
	assert.Equal(t, []int{1, 3}, SortedClasses(counts))
}

func TestLabelMatrix_OutOfRangePanics(t *testing.T) {
	t.Parallel()

	m := PadLabels([][]int{{1}}, PadValue)
	assert.Panics(t, func() { m.At(0, 1) })
	assert.Panics(t, func() { m.Row(1) })
}
