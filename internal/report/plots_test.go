package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDominanceHistogram(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteDominanceHistogram(&buf, []float64{0.5, 0.5, 0.75, 1, 1, 1}, 0.5)
	require.NoError(t, err)

	data := buf.Bytes()
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8])
}

func TestWriteDominanceHistogram_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteDominanceHistogram(&buf, nil, 0.5), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestRenderLabelChart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := RenderLabelChart(&buf, "ACC labels", map[int]int{0: 40, 3: 12}, map[int]int{0: 30, 7: 1})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "ACC labels")
	assert.Contains(t, html, "before")
	assert.Contains(t, html, "after")
	assert.Contains(t, html, "removed samples=21")
}

func TestRenderLabelChart_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.ErrorIs(t, RenderLabelChart(&buf, "x", nil, map[int]int{}), ErrNoData)
	assert.Zero(t, buf.Len())
}
