package windowing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense windows × steps × channels array stored row-major, so the
// samples of one window are contiguous and each sample's channels are
// contiguous within it.
type Tensor struct {
	windows  int
	steps    int
	channels int
	data     []float64
}

// NewTensor stacks windows into a Tensor. Every window must have the same
// dimensions; the values are copied.
func NewTensor(windows []*mat.Dense) (*Tensor, error) {
	steps, channels, err := windowShape(windows)
	if err != nil {
		return nil, err
	}
	all := make([]int, len(windows))
	for i := range all {
		all[i] = i
	}
	return gather(windows, all, steps, channels), nil
}

// Reshape wraps a flat row-major buffer as a Tensor without copying. The
// element count must match exactly: a buffer that only happens to be
// divisible would silently scramble windows.
func Reshape(data []float64, windows, steps, channels int) (*Tensor, error) {
	if windows < 0 || steps < 0 || channels < 0 {
		return nil, fmt.Errorf("%w: negative dimension (%d, %d, %d)", ErrShapeMismatch, windows, steps, channels)
	}
	if want := windows * steps * channels; len(data) != want {
		return nil, fmt.Errorf("%w: cannot reshape %d elements into (%d, %d, %d) (need %d)",
			ErrShapeMismatch, len(data), windows, steps, channels, want)
	}
	return &Tensor{windows: windows, steps: steps, channels: channels, data: data}, nil
}

// windowShape returns the common (steps, channels) of ws, or (0, 0) when ws is
// empty.
func windowShape(ws []*mat.Dense) (int, int, error) {
	if len(ws) == 0 {
		return 0, 0, nil
	}
	if ws[0] == nil {
		return 0, 0, fmt.Errorf("%w: window 0 is nil", ErrShapeMismatch)
	}
	steps, channels := ws[0].Dims()
	for i, w := range ws[1:] {
		if w == nil {
			return 0, 0, fmt.Errorf("%w: window %d is nil", ErrShapeMismatch, i+1)
		}
		if r, c := w.Dims(); r != steps || c != channels {
			return 0, 0, fmt.Errorf("%w: window %d is %dx%d, window 0 is %dx%d",
				ErrShapeMismatch, i+1, r, c, steps, channels)
		}
	}
	return steps, channels, nil
}

// gather copies ws[idx...] into a new Tensor of the given window shape.
func gather(ws []*mat.Dense, idx []int, steps, channels int) *Tensor {
	t := &Tensor{
		windows:  len(idx),
		steps:    steps,
		channels: channels,
		data:     make([]float64, len(idx)*steps*channels),
	}
	off := 0
	for _, i := range idx {
		for r := 0; r < steps; r++ {
			// RawRowView respects the stride of sliced matrices.
			off += copy(t.data[off:], ws[i].RawRowView(r))
		}
	}
	return t
}

// Shape returns (windows, steps, channels).
func (t *Tensor) Shape() (int, int, int) {
	return t.windows, t.steps, t.channels
}

// Len returns the number of windows.
func (t *Tensor) Len() int { return t.windows }

// At returns the value of channel c at step s of window w.
func (t *Tensor) At(w, s, c int) float64 {
	if w < 0 || w >= t.windows || s < 0 || s >= t.steps || c < 0 || c >= t.channels {
		panic(fmt.Sprintf("windowing: index (%d, %d, %d) out of range %s", w, s, c, t))
	}
	return t.data[(w*t.steps+s)*t.channels+c]
}

// Window returns window i as a steps × channels matrix sharing the tensor's
// storage. Writes through the matrix are visible in the tensor.
func (t *Tensor) Window(i int) *mat.Dense {
	if i < 0 || i >= t.windows {
		panic(fmt.Sprintf("windowing: window %d out of range [0, %d)", i, t.windows))
	}
	size := t.steps * t.channels
	return mat.NewDense(t.steps, t.channels, t.data[i*size:(i+1)*size:(i+1)*size])
}

// Windows returns every window as a view, see Window.
func (t *Tensor) Windows() []*mat.Dense {
	out := make([]*mat.Dense, t.windows)
	for i := range out {
		out[i] = t.Window(i)
	}
	return out
}

// Data returns the flat row-major backing slice.
func (t *Tensor) Data() []float64 { return t.data }

// String formats the shape as (windows, steps, channels).
func (t *Tensor) String() string {
	return fmt.Sprintf("(%d, %d, %d)", t.windows, t.steps, t.channels)
}
