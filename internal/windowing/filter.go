package windowing

import "fmt"

// Cleaned is the result of RemoveByIndices. All fields are newly allocated.
type Cleaned[C any] struct {
	Xt *Tensor
	Xc []C
	Y  *LabelMatrix
	// Kept lists the original index of each surviving window.
	Kept []int
	// Padded is set when the original labels were ragged and Y carries pad
	// cells (or may, for the shorter rows).
	Padded bool
}

// RemoveByIndices drops the windows at the given positions and returns dense
// copies of the rest in their original order. remove may be unsorted and hold
// duplicates; positions outside [0, b.Len()) are ignored.
//
// Labels are stacked directly when every original sequence has the same
// length, even those being removed. Otherwise the kept sequences are padded
// with the cleaner's pad value to the longest kept length.
func RemoveByIndices[C any](c *Cleaner, b Batch[C], remove []int) (*Cleaned[C], error) {
	c = c.orDefault()

	n := len(b.Xt)
	if len(b.Xc) != n || len(b.Y) != n {
		return nil, fmt.Errorf("%w: Xt=%d Xc=%d Y=%d", ErrLengthMismatch, n, len(b.Xc), len(b.Y))
	}
	steps, channels, err := windowShape(b.Xt)
	if err != nil {
		return nil, err
	}

	kept := NewIndexSet(n, remove...).Complement()

	out := &Cleaned[C]{
		Xt:   gather(b.Xt, kept, steps, channels),
		Xc:   make([]C, len(kept)),
		Kept: kept,
	}
	rows := make([][]int, len(kept))
	for i, k := range kept {
		out.Xc[i] = b.Xc[k]
		rows[i] = b.Y[k]
	}

	if IsRagged(b.Y) {
		out.Y = PadLabels(rows, c.pad)
		out.Padded = true
	} else {
		cols := 0
		if n > 0 {
			cols = len(b.Y[0])
		}
		out.Y = newLabelMatrix(len(rows), cols, 0)
		for i, row := range rows {
			copy(out.Y.data[i*cols:], row)
		}
	}

	c.logf("[INFO] Xt shape: %s", out.Xt)
	c.logf("[INFO] y shape after processing: %s", out.Y)
	return out, nil
}
