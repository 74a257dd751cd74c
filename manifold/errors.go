package manifold

import "errors"

var (
	// ErrShapeMismatch reports longitude and latitude inputs of different lengths.
	ErrShapeMismatch = errors.New("longitude and latitude counts differ")
	// ErrCornerCount reports a bounding box that is not 4 open or 5 closed corners.
	ErrCornerCount = errors.New("bad corner count")
	// ErrGeodesic reports a failure computing a geodesic or its ellipsoid.
	ErrGeodesic = errors.New("geodesic failed")
	// ErrSubdivision reports a subdivision count outside [1, MaxSubdivision].
	ErrSubdivision = errors.New("bad subdivision")
	// ErrRadius reports an output radius that is not finite and positive.
	ErrRadius = errors.New("bad radius")
	// ErrIndexRange reports an endpoint index outside the coordinate arrays.
	ErrIndexRange = errors.New("index out of range")

	// errGrid marks a broken build order; callers never see it unless the
	// builder itself is wrong.
	errGrid = errors.New("index grid")
)
