package geodesic

import "math"

func sq(x float64) float64 {
	return x * x
}

// cbrt is the real cube root; math.Cbrt already handles negative input.
func cbrt(x float64) float64 {
	return math.Cbrt(x)
}

func polyval(n int, p []float64, s int, x float64) float64 {
	// Horner evaluation of p[s:s+n+1]
	if n < 0 {
		return 0
	}
	y := p[s]
	for ; n > 0; n-- {
		s++
		y = y*x + p[s]
	}
	return y
}

func sum(u, v float64) (s, t float64) {
	// error free transformation: u + v = s + t
	s = u + v
	up := s - v
	vpp := s - up
	up -= u
	vpp -= v
	t = -(up + vpp)
	return s, t
}

func remainder(x, y float64) float64 {
	// x mod y, reduced to [-y/2, y/2)
	z := math.NaN()
	if !math.IsInf(x, 0) {
		z = math.Mod(x, y)
	}
	switch {
	case z < -y/2:
		return z + y
	case z < y/2:
		return z
	default:
		return z - y
	}
}

// angNormalize reduces an angle in degrees to (-180, 180].
func angNormalize(x float64) float64 {
	y := remainder(x, 360)
	if y == -180 {
		return 180
	}
	return y
}

func angDiff(x, y float64) (float64, float64) {
	// y - x reduced to [-180, 180] with its rounding error
	d, t := sum(angNormalize(-x), angNormalize(y))
	d = angNormalize(d)
	if d == 180 && t > 0 {
		return sum(-180, t)
	}
	return sum(d, t)
}

func angRound(x float64) float64 {
	// Coarsen tiny angles so they underflow to zero; the smallest step near
	// zero becomes 1/2^57 degree (about 0.7 pm on the earth).
	const z = 1 / 16.0
	if x == 0 {
		return 0
	}
	y := math.Abs(x)
	if y < z {
		y = z - (z - y)
	}
	if x < 0 {
		return -y
	}
	return y
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func atan2d(y, x float64) float64 {
	// atan2 in degrees, reduced to the first octant first for accuracy
	q := 0
	if math.Abs(y) > math.Abs(x) {
		q = 2
		x, y = y, x
	}
	if x < 0 {
		q++
		x = -x
	}
	ang := degrees(math.Atan2(y, x))
	switch q {
	case 1:
		if y >= 0 {
			ang = 180 - ang
		} else {
			ang = -180 - ang
		}
	case 2:
		ang = 90 - ang
	case 3:
		ang = -90 + ang
	}
	return ang
}

func norm(x, y float64) (float64, float64) {
	r := math.Hypot(x, y)
	return x / r, y / r
}

func latFix(x float64) float64 {
	if math.Abs(x) > 90 {
		return math.NaN()
	}
	return x
}

// sincosd returns the sine and cosine of x degrees, exact at multiples of 90.
func sincosd(x float64) (s, c float64) {
	r := math.NaN()
	if !math.IsInf(x, 0) {
		r = math.Mod(x, 360)
	}
	q := 0
	if !math.IsNaN(r) {
		q = int(math.Round(r / 90))
	}
	r -= float64(90 * q)
	s, c = math.Sincos(radians(r))
	// quadrant must be non-negative; Go's % keeps the sign of q
	switch ((q % 4) + 4) % 4 {
	case 1:
		s, c = c, -s
	case 2:
		s, c = -s, -c
	case 3:
		s, c = -c, s
	}
	if x == 0 {
		return x, c
	}
	return s + 0, c + 0
}

// Wrap maps x into the half-open interval [base, base+period).
func Wrap(x, base, period float64) float64 {
	y := math.Mod(x-base, period)
	if y < 0 {
		y += period
	}
	y += base
	if y >= base+period {
		// x-base a hair below a multiple of period rounds up to period
		y = base
	}
	return y
}

// WrapLon maps a longitude in degrees into [-180, 180).
func WrapLon(lon float64) float64 {
	return Wrap(lon, -180, 360)
}

// WrapLonRadians maps a longitude in radians into [-π, π).
func WrapLonRadians(lon float64) float64 {
	return Wrap(lon, -math.Pi, 2*math.Pi)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
