// Package testutil provides shared fixtures for window and CSV tests.
//
// Fixture values are deterministic so tests can check that a window's content
// survives filtering and round trips exactly.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/banshee-data/windowclean/internal/fsutil"
	"gonum.org/v1/gonum/mat"
)

// Value is the fixture value of channel c at step s of window w.
func Value(w, s, c int) float64 {
	return float64(w*100000 + s*100 + c)
}

// Window returns one steps × channels window filled with Value(w, ·, ·).
func Window(w, steps, channels int) *mat.Dense {
	m := mat.NewDense(steps, channels, nil)
	for s := 0; s < steps; s++ {
		for c := 0; c < channels; c++ {
			m.Set(s, c, Value(w, s, c))
		}
	}
	return m
}

// Windows returns n fixture windows.
func Windows(n, steps, channels int) []*mat.Dense {
	out := make([]*mat.Dense, n)
	for w := range out {
		out[w] = Window(w, steps, channels)
	}
	return out
}

// Labels returns n label sequences of the given length, all set to class.
func Labels(n, length, class int) [][]int {
	out := make([][]int, n)
	for i := range out {
		row := make([]int, length)
		for j := range row {
			row[j] = class
		}
		out[i] = row
	}
	return out
}

// CombinedCSV renders a flat data table and a label table in the export
// layout: one row per sample, channels as columns, header row first. Window
// w's label is w % classes.
func CombinedCSV(windows, samples, channels, classes int) (data, labels string) {
	var d strings.Builder
	for c := 0; c < channels; c++ {
		if c > 0 {
			d.WriteByte(',')
		}
		fmt.Fprintf(&d, "%d", c)
	}
	d.WriteByte('\n')
	for w := 0; w < windows; w++ {
		for s := 0; s < samples; s++ {
			for c := 0; c < channels; c++ {
				if c > 0 {
					d.WriteByte(',')
				}
				fmt.Fprintf(&d, "%g", Value(w, s, c))
			}
			d.WriteByte('\n')
		}
	}

	var l strings.Builder
	l.WriteString("label\n")
	for w := 0; w < windows; w++ {
		fmt.Fprintf(&l, "%d\n", w%classes)
	}
	return d.String(), l.String()
}

// WriteFile stores content in fsys, failing the test on error.
func WriteFile(t testing.TB, fsys fsutil.FileSystem, name, content string) {
	t.Helper()
	if err := fsys.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}
