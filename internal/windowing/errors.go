package windowing

import "errors"

var (
	// ErrShapeMismatch indicates windows of differing shape, or a flat buffer
	// whose element count does not match the requested tensor shape.
	ErrShapeMismatch = errors.New("windowing: shape mismatch")
	// ErrLengthMismatch indicates Xt, Xc and Y are not index-aligned.
	ErrLengthMismatch = errors.New("windowing: collection lengths differ")
)
