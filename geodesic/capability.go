package geodesic

// Output bits for lengths and genInverse. Each carries the series it needs
// in its low bits; outMask strips those.

const (
	capNone = 0
	capC1   = 1 << 0
	capC2   = 1 << 2
)

const (
	outMask = 0xFF80

	azimuth       = 1<<9 | capNone
	distance      = 1<<10 | capC1
	reducedLength = 1<<12 | capC1 | capC2
	geodesicScale = 1<<13 | capC1 | capC2
)
