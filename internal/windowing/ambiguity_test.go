package windowing

import (
	"testing"

	"github.com/banshee-data/windowclean/internal/monitoring"
	"github.com/banshee-data/windowclean/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingCleaner(cfg Config) (*Cleaner, *monitoring.Recorder) {
	rec := &monitoring.Recorder{}
	cfg.Logf = rec.Logf
	return NewCleaner(cfg), rec
}

func TestFindAmbiguous(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		y    [][]int
		want []int
	}{
		{"no windows", nil, []int{}},
		{"single class never ambiguous", [][]int{{4, 4, 4}, {7}}, []int{}},
		{"strict majority kept", [][]int{{1, 1, 2}, {3, 3, 3, 1}}, []int{}},
		{"exact half is ambiguous", [][]int{{1, 2}, {1, 1, 2, 2}}, []int{0, 1}},
		{"three-way split", [][]int{{1, 2, 3}}, []int{0}},
		{"majority of plurality below half", [][]int{{1, 1, 2, 2, 3}}, []int{0}},
		{"empty window has no majority", [][]int{{1}, {}}, []int{1}},
		{"mixed", [][]int{{0, 0, 0}, {0, 1}, {2, 2, 1}, {5, 6, 7, 5}}, []int{1, 3}},
		{"negative classes", [][]int{{-1, -1, 0}}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := recordingCleaner(DefaultConfig())
			assert.Equal(t, tt.want, c.FindAmbiguous("ACC", tt.y))
		})
	}
}

func TestFindAmbiguous_Logs(t *testing.T) {
	t.Parallel()

	c, rec := recordingCleaner(DefaultConfig())
	c.FindAmbiguous("GYR", [][]int{{1, 2}, {1, 1}, {3, 4}})
	assert.Equal(t, []string{
		"[GYR] Checking for ambiguous windows...",
		"[GYR] Found 2 ambiguous windows.",
	}, rec.Lines())
}

func TestFindAmbiguous_Threshold(t *testing.T) {
	t.Parallel()

	y := [][]int{{1, 1, 2}, {1, 1, 1, 2}}

	c, _ := recordingCleaner(Config{DominanceThreshold: 0.7, PadValue: PadValue})
	assert.Equal(t, []int{0}, c.FindAmbiguous("ACC", y), "2/3 <= 0.7, 3/4 > 0.7")

	c, _ = recordingCleaner(Config{DominanceThreshold: -1, PadValue: PadValue})
	assert.Equal(t, DefaultDominanceThreshold, c.Threshold())
}

func TestFindAmbiguous_NilCleaner(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	rec := &monitoring.Recorder{}
	monitoring.SetLogger(rec.Logf)

	var c *Cleaner
	assert.Equal(t, []int{0}, c.FindAmbiguous("ACC", [][]int{{1, 2}}))
	assert.Len(t, rec.Lines(), 2, "nil cleaner logs through monitoring.Logf")
	assert.Equal(t, PadValue, c.PadValue())
}

func TestFindAmbiguous_DoesNotMutate(t *testing.T) {
	t.Parallel()

	y := [][]int{{2, 1, 2}, {1, 2}}
	c, _ := recordingCleaner(DefaultConfig())
	c.FindAmbiguous("ACC", y)
	assert.Equal(t, [][]int{{2, 1, 2}, {1, 2}}, y)
}

func TestFindAmbiguousWindows(t *testing.T) {
	t.Parallel()

	c, _ := recordingCleaner(DefaultConfig())
	b := Batch[int]{
		Xt: testutil.Windows(3, 2, 1),
		Y:  [][]int{{1, 1}, {1, 2}, {2, 2}},
	}
	got, err := FindAmbiguousWindows(c, b, "ACC")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	b.Y = b.Y[:2]
	_, err = FindAmbiguousWindows(c, b, "ACC")
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDominanceRatios(t *testing.T) {
	t.Parallel()

	got := DominanceRatios([][]int{{1, 1, 2, 2}, {3, 3, 3, 1}, {}, {9}})
	assert.InDeltaSlice(t, []float64{0.5, 0.75, 0, 1}, got, 1e-12)
}
