package windowing

import (
	"testing"

	"github.com/banshee-data/windowclean/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func fixtureBatch(n, steps, channels int) Batch[string] {
	xc := make([]string, n)
	y := make([][]int, n)
	for i := range xc {
		xc[i] = string(rune('a' + i))
		y[i] = make([]int, steps)
		for j := range y[i] {
			y[i][j] = i
		}
	}
	return Batch[string]{Xt: testutil.Windows(n, steps, channels), Xc: xc, Y: y}
}

func TestRemoveByIndices(t *testing.T) {
	t.Parallel()

	c, rec := recordingCleaner(DefaultConfig())
	b := fixtureBatch(5, 3, 2)

	got, err := RemoveByIndices(c, b, []int{3, 1, 3})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 4}, got.Kept)
	assert.Equal(t, []string{"a", "c", "e"}, got.Xc)
	assert.Equal(t, "(3, 3, 2)", got.Xt.String())
	assert.Equal(t, "(3, 3)", got.Y.String())
	assert.False(t, got.Padded)
	assert.Equal(t, [][]int{{0, 0, 0}, {2, 2, 2}, {4, 4, 4}}, got.Y.Rows())

	// surviving windows keep their content and relative order
	for i, k := range got.Kept {
		assert.True(t, mat.Equal(b.Xt[k], got.Xt.Window(i)), "window %d", k)
	}

	assert.Equal(t, []string{
		"[INFO] Xt shape: (3, 3, 2)",
		"[INFO] y shape after processing: (3, 3)",
	}, rec.Lines())
}

func TestRemoveByIndices_NoRemovalMatchesOriginal(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := fixtureBatch(4, 2, 3)

	got, err := RemoveByIndices(c, b, nil)
	require.NoError(t, err)

	want, err := NewTensor(b.Xt)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Xt.Data())
	assert.Equal(t, b.Xc, got.Xc)

	stacked, err := StackLabels(b.Y)
	require.NoError(t, err)
	if diff := cmp.Diff(stacked.Rows(), got.Y.Rows()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveByIndices_OutOfRangeIgnored(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := fixtureBatch(3, 2, 1)

	got, err := RemoveByIndices(c, b, []int{-1, 3, 100})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got.Kept)
	assert.Equal(t, 3, got.Xt.Len())
}

func TestRemoveByIndices_CountInvariant(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := fixtureBatch(6, 2, 2)

	for _, remove := range [][]int{
		nil,
		{0},
		{5, 5, 5},
		{-2, 0, 2, 4, 6},
		{0, 1, 2, 3, 4, 5},
	} {
		got, err := RemoveByIndices(c, b, remove)
		require.NoError(t, err)
		valid := NewIndexSet(b.Len(), remove...).Len()
		assert.Equal(t, b.Len(), got.Xt.Len()+valid, "remove=%v", remove)
		assert.Equal(t, got.Xt.Len(), len(got.Xc))
		assert.Equal(t, got.Xt.Len(), got.Y.Len())
	}
}

func TestRemoveByIndices_RaggedFallback(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := Batch[int]{
		Xt: testutil.Windows(2, 3, 1),
		Xc: []int{10, 20},
		Y:  [][]int{{1, 2, 3}, {4, 5}},
	}

	got, err := RemoveByIndices(c, b, nil)
	require.NoError(t, err)
	assert.True(t, got.Padded)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, -42}}, got.Y.Rows())
}

func TestRemoveByIndices_RaggedWidthFromSurvivors(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := Batch[int]{
		Xt: testutil.Windows(3, 2, 1),
		Xc: []int{0, 1, 2},
		Y:  [][]int{{1, 1, 1, 1, 1}, {2, 2}, {3}},
	}

	// removing the only long row narrows the padded matrix
	got, err := RemoveByIndices(c, b, []int{0})
	require.NoError(t, err)
	assert.True(t, got.Padded)
	assert.Equal(t, [][]int{{2, 2}, {3, -42}}, got.Y.Rows())

	// a ragged row among the removed ones still forces the padded path
	got, err = RemoveByIndices(c, Batch[int]{
		Xt: b.Xt, Xc: b.Xc, Y: [][]int{{1, 1}, {2, 2}, {3}},
	}, []int{2})
	require.NoError(t, err)
	assert.True(t, got.Padded)
	assert.Equal(t, [][]int{{1, 1}, {2, 2}}, got.Y.Rows())
}

func TestRemoveByIndices_CustomPad(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(Config{PadValue: -1})
	b := Batch[int]{
		Xt: testutil.Windows(2, 1, 1),
		Xc: []int{0, 1},
		Y:  [][]int{{7}, {}},
	}
	got, err := RemoveByIndices(c, b, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{7}, {-1}}, got.Y.Rows())
}

func TestRemoveByIndices_RemoveAll(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := fixtureBatch(2, 4, 3)

	got, err := RemoveByIndices(c, b, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "(0, 4, 3)", got.Xt.String())
	assert.Equal(t, "(0, 4)", got.Y.String())
	assert.Empty(t, got.Kept)
}

func TestRemoveByIndices_EmptyBatch(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	got, err := RemoveByIndices(c, Batch[int]{}, []int{0})
	require.NoError(t, err)
	assert.Equal(t, "(0, 0, 0)", got.Xt.String())
	assert.Equal(t, "(0, 0)", got.Y.String())
}

func TestRemoveByIndices_Errors(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())

	t.Run("length mismatch", func(t *testing.T) {
		b := fixtureBatch(3, 2, 2)
		b.Xc = b.Xc[:2]
		_, err := RemoveByIndices(c, b, nil)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("non-uniform windows", func(t *testing.T) {
		b := fixtureBatch(2, 2, 2)
		b.Xt[1] = testutil.Window(1, 3, 2)
		_, err := RemoveByIndices(c, b, []int{1})
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestRemoveByIndices_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := Batch[int]{
		Xt: testutil.Windows(2, 2, 1),
		Xc: []int{1, 2},
		Y:  [][]int{{1, 2}, {3}},
	}
	remove := []int{1, 0, 1}

	got, err := RemoveByIndices(c, b, remove)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, remove)
	assert.Equal(t, [][]int{{1, 2}, {3}}, b.Y)
	assert.Equal(t, "(0, 0)", got.Y.String())
}
