// Package windowing cleans collections of fixed-length sensor windows.
//
// A Batch holds three index-aligned collections: the sensor windows (Xt), an
// opaque per-window context (Xc) and the per-sample labels of each window (Y).
// FindAmbiguous flags windows whose labels have no strict majority class, and
// RemoveByIndices drops a set of windows and returns freshly allocated,
// rectangular copies of what is left:
//
//	c := windowing.NewCleaner(windowing.DefaultConfig())
//	drop := c.FindAmbiguous("ACC", batch.Y)
//	clean, err := windowing.RemoveByIndices(c, batch, drop)
//
// Label sequences may be ragged. When they are, the surviving rows are
// left-aligned into a matrix padded with PadValue (-42), which consumers must
// treat as "no label". Inputs are never mutated.
package windowing
