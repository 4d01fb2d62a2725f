package windowing

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// FindAmbiguous returns, in ascending order, the indices of windows whose most
// frequent label covers no more than the dominance threshold of the window's
// samples. At the default 0.5 an exact two-way split is ambiguous and a window
// holding a single class never is. An empty window has no majority class and
// is reported as ambiguous.
//
// name tags the two log lines, usually with the modality ("ACC", "GYR").
func (c *Cleaner) FindAmbiguous(name string, y [][]int) []int {
	c = c.orDefault()
	c.logf("[%s] Checking for ambiguous windows...", name)

	ambiguous := []int{}
	var scratch []float64
	for i, labels := range y {
		var top int
		top, scratch = majorityCount(labels, scratch)
		if float64(top) <= c.threshold*float64(len(labels)) {
			ambiguous = append(ambiguous, i)
		}
	}

	c.logf("[%s] Found %d ambiguous windows.", name, len(ambiguous))
	return ambiguous
}

// FindAmbiguousWindows runs FindAmbiguous on b.Y after checking that every
// sensor window has a label sequence. Xc is not inspected.
func FindAmbiguousWindows[C any](c *Cleaner, b Batch[C], name string) ([]int, error) {
	if len(b.Xt) != len(b.Y) {
		return nil, fmt.Errorf("%w: %d windows, %d label sequences", ErrLengthMismatch, len(b.Xt), len(b.Y))
	}
	return c.FindAmbiguous(name, b.Y), nil
}

// DominanceRatios returns the share of each window taken by its most frequent
// label. Empty windows report 0.
func DominanceRatios(y [][]int) []float64 {
	ratios := make([]float64, len(y))
	var scratch []float64
	for i, labels := range y {
		if len(labels) == 0 {
			continue
		}
		var top int
		top, scratch = majorityCount(labels, scratch)
		ratios[i] = float64(top) / float64(len(labels))
	}
	return ratios
}

// majorityCount returns the frequency of the most common value in labels.
// buf is reused across calls to avoid one allocation per window.
func majorityCount(labels []int, buf []float64) (int, []float64) {
	if len(labels) == 0 {
		return 0, buf
	}
	buf = buf[:0]
	for _, v := range labels {
		buf = append(buf, float64(v))
	}
	_, count := stat.Mode(buf, nil)
	return int(count), buf
}
