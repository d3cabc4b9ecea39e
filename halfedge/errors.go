package halfedge

import "errors"

// ErrNonManifoldInput is returned when building a mesh from an indexed
// triangle list would require the same directed half-edge twice.
var ErrNonManifoldInput = errors.New("halfedge: non-manifold input")

// ErrDegenerateTriangle is returned when a triangle's two edge vectors are
// parallel (zero-area face).
var ErrDegenerateTriangle = errors.New("halfedge: degenerate triangle")

// ErrMissingEdge is returned when an internal consistency check during
// CollapseEdge cannot locate an expected half-edge. It signals a bug in the
// caller's topology bookkeeping, not a user input error.
var ErrMissingEdge = errors.New("halfedge: missing edge")
