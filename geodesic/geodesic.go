// Package geodesic solves geodesic problems on an ellipsoid of revolution.
//
// The series and iteration follow GeographicLib (C. F. F. Karney,
// "Algorithms for geodesics", J. Geodesy 87, 43-55, 2013). A Geodesic is
// immutable once constructed and may be shared between goroutines.
package geodesic

import (
	"errors"
	"fmt"
	"math"
)

const order = 6
const nA1 = order
const nC1 = order
const nC1p = order
const nA2 = order
const nC2 = order
const nA3 = order
const nA3x = nA3
const nC3 = order
const nC3x = (nC3 * (nC3 - 1)) / 2
const digits = 53
const maxIt1 = 20
const maxIt2 = maxIt1 + digits + 10

var (
	// ErrInvalidEllipsoid reports semi-axes that are not finite and positive.
	ErrInvalidEllipsoid = errors.New("invalid ellipsoid")
	// ErrUnknownEllipsoid reports a name missing from the ellipsoid registry.
	ErrUnknownEllipsoid = errors.New("unknown ellipsoid")
	// ErrInvalidCoordinate reports endpoints the solver cannot work with.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Geodesic is an ellipsoid model with its precomputed series coefficients.
type Geodesic struct {
	name                                                       string
	a, f, f1, e2, ep2, n, b, etol2, tol0, tol1, tolb, xthresh, tiny float64
	a3x, c3x                                                   []float64
}

// InverseResult is the solution of the inverse problem. Angles are degrees,
// S12 is metres along the ellipsoid.
type InverseResult struct {
	Lat1, Lon1, Lat2, Lon2 float64
	Azi1, Azi2             float64
	S12, A12               float64

	salp1, calp1 float64
}

// New builds the model for equatorial radius a (metres) and flattening f.
func New(a, f float64) (*Geodesic, error) {
	b := a * (1 - f)
	if !(finite(a) && a > 0) {
		return nil, fmt.Errorf("%w: equatorial radius %v is not positive", ErrInvalidEllipsoid, a)
	}
	if !(finite(b) && b > 0) {
		return nil, fmt.Errorf("%w: polar semi-axis %v is not positive", ErrInvalidEllipsoid, b)
	}

	tol0 := math.Pow(2.0, 1-digits)
	tol2 := math.Sqrt(tol0)
	e2 := f * (2 - f)

	geod := &Geodesic{
		a:   a,
		f:   f,
		f1:  1 - f,
		e2:  e2,
		ep2: e2 / sq(1-f),
		n:   f / (2 - f),
		b:   b,
		// sig12 threshold for "really short" lines; 0.1 is a safety factor and
		// max(0.001, |f|) keeps it bounded for nearly spherical models
		etol2: 0.1 * tol2 / math.Sqrt(math.Max(0.001, math.Abs(f))*
			math.Min(1.0, 1-f/2)/2),
		a3x:     make([]float64, nA3x),
		c3x:     make([]float64, nC3x),
		tol0:    tol0,
		tol1:    200 * tol0,
		tolb:    tol0 * tol2,
		xthresh: 1000 * tol2,
		tiny:    math.Sqrt(math.Pow(2.0, -1022)),
	}
	geod.a3Coeff()
	geod.c3Coeff()
	return geod, nil
}

// Name is the registry name of the model, empty for ad hoc ellipsoids.
func (geod *Geodesic) Name() string { return geod.name }

// EquatorialRadius is the semi-major axis in metres.
func (geod *Geodesic) EquatorialRadius() float64 { return geod.a }

// Flattening is (a-b)/a.
func (geod *Geodesic) Flattening() float64 { return geod.f }

func (geod *Geodesic) String() string {
	if geod.name != "" {
		return geod.name
	}
	return fmt.Sprintf("ellipsoid(a=%g, f=%g)", geod.a, geod.f)
}

func (geod *Geodesic) a3Coeff() {
	coeff := []float64{-3, 128, -2, -3, 64, -1, -3, -1, 16, 3, -1, -2, 8, 1, -1, 2, 1, 1}
	o, k := 0, 0
	for j := nA3 - 1; j >= 0; j-- { // coeff of eps^j
		m := min(nA3-j-1, j) // order of polynomial in n
		geod.a3x[k] = polyval(m, coeff, o, geod.n) / coeff[o+m+1]
		k++
		o += m + 2
	}
}

func (geod *Geodesic) c3Coeff() {
	coeff := []float64{3, 128, 2, 5, 128, -1, 3, 3, 64, -1, 0, 1, 8, -1, 1, 4, 5, 256, 1, 3, 128, -3, -2, 3, 64, 1, -3, 2, 32, 7, 512, -10, 9, 384, 5, -9, 5, 192, 7, 512, -14, 7, 512, 21, 2560}
	o, k := 0, 0
	for l := 1; l < nC3; l++ {
		for j := nC3 - 1; j >= l; j-- {
			m := min(nC3-j-1, j)
			geod.c3x[k] = polyval(m, coeff, o, geod.n) / coeff[o+m+1]
			k++
			o += m + 2
		}
	}
}

// Inverse solves for the shortest path between (lat1, lon1) and (lat2, lon2).
// Callers are expected to have validated the coordinates; NaN in gives NaN out.
func (geod *Geodesic) Inverse(lat1, lon1, lat2, lon2 float64) InverseResult {
	a12, s12, salp1, calp1, salp2, calp2 := geod.genInverse(lat1, lon1, lat2, lon2, distance|azimuth)
	return InverseResult{
		Lat1:  latFix(lat1),
		Lon1:  angNormalize(lon1),
		Lat2:  latFix(lat2),
		Lon2:  angNormalize(lon2),
		Azi1:  atan2d(salp1, calp1),
		Azi2:  atan2d(salp2, calp2),
		S12:   s12,
		A12:   a12,
		salp1: salp1,
		calp1: calp1,
	}
}

func (geod *Geodesic) a3f(eps float64) float64 {
	return polyval(nA3-1, geod.a3x, 0, eps)
}

func (geod *Geodesic) c3f(eps float64, c []float64) {
	// sets c[1] .. c[nC3-1]
	mult := 1.0
	o := 0
	for l := 1; l < nC3; l++ {
		m := nC3 - l - 1 // order of polynomial in eps
		mult *= eps
		c[l] = mult * polyval(m, geod.c3x, o, eps)
		o += m + 1
	}
}

// lengths returns s12b = distance/b, m12b = reduced length/b, m0 and the
// geodesic scales, each only when requested by outmask.
func (geod *Geodesic) lengths(eps, sig12, ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2 float64,
	outmask int, C1a, C2a []float64) (s12b, m12b, m0, M12, M21 float64) {
	outmask &= outMask
	s12b, m12b, m0, M12, M21 = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
	A1, A2, m0x, J12 := math.NaN(), math.NaN(), math.NaN(), math.NaN()

	if outmask&(distance|reducedLength|geodesicScale) != 0 {
		A1 = a1m1f(eps)
		c1f(eps, C1a)
		if outmask&(reducedLength|geodesicScale) != 0 {
			A2 = a2m1f(eps)
			c2f(eps, C2a)
			m0x = A1 - A2
			A2 = 1 + A2
		}
		A1 = 1 + A1
	}
	if outmask&distance != 0 {
		B1 := sinCosSeries(true, ssig2, csig2, C1a) -
			sinCosSeries(true, ssig1, csig1, C1a)
		s12b = A1 * (sig12 + B1)
		if outmask&(reducedLength|geodesicScale) != 0 {
			B2 := sinCosSeries(true, ssig2, csig2, C2a) -
				sinCosSeries(true, ssig1, csig1, C2a)
			J12 = m0x*sig12 + (A1*B1 - A2*B2)
		}
	} else if outmask&(reducedLength|geodesicScale) != 0 {
		// nC1 >= nC2
		for l := 1; l < nC2; l++ {
			C2a[l] = A1*C1a[l] - A2*C2a[l]
		}
		J12 = m0x*sig12 + (sinCosSeries(true, ssig2, csig2, C2a) -
			sinCosSeries(true, ssig1, csig1, C2a))
	}
	if outmask&reducedLength != 0 {
		m0 = m0x
		// parenthesised products keep cancellation accurate for coincident points
		m12b = dn2*(csig1*ssig2) - dn1*(ssig1*csig2) - csig1*csig2*J12
	}
	if outmask&geodesicScale != 0 {
		csig12 := csig1*csig2 + ssig1*ssig2
		t := geod.ep2 * (cbet1 - cbet2) * (cbet1 + cbet2) / (dn1 + dn2)
		M12 = csig12 + (t*ssig2-csig2*J12)*ssig1/dn1
		M21 = csig12 - (t*ssig1-csig1*J12)*ssig2/dn2
	}
	return
}

// inverseStart returns a starting azimuth for Newton's method. sig12 is -1
// unless the line is short enough to be solved directly, in which case
// salp2, calp2 and dnm are also set.
func (geod *Geodesic) inverseStart(sbet1, cbet1, dn1, sbet2, cbet2, dn2,
	lam12, slam12, clam12 float64, C1a, C2a []float64) (sig12, salp1, calp1, salp2, calp2, dnm float64) {
	sig12 = -1
	salp2, calp2, dnm = math.NaN(), math.NaN(), math.NaN()

	// bet12 = bet2 - bet1 in [0, pi); bet12a = bet2 + bet1 in (-pi, 0]
	sbet12 := sbet2*cbet1 - cbet2*sbet1
	cbet12 := cbet2*cbet1 + sbet2*sbet1
	sbet12a := sbet2 * cbet1
	sbet12a += cbet2 * sbet1

	var somg12, comg12 float64
	shortline := cbet12 >= 0 && sbet12 < 0.5 && cbet2*lam12 < 0.5
	if shortline {
		// sin((bet1+bet2)/2)^2
		sbetm2 := sq(sbet1 + sbet2)
		sbetm2 /= sbetm2 + sq(cbet1+cbet2)
		dnm = math.Sqrt(1 + geod.ep2*sbetm2)
		omg12 := lam12 / (geod.f1 * dnm)
		somg12, comg12 = math.Sincos(omg12)
	} else {
		somg12, comg12 = slam12, clam12
	}

	salp1 = cbet2 * somg12
	if comg12 >= 0 {
		calp1 = sbet12 + cbet2*sbet1*sq(somg12)/(1+comg12)
	} else {
		calp1 = sbet12a - cbet2*sbet1*sq(somg12)/(1-comg12)
	}
	ssig12 := math.Hypot(salp1, calp1)
	csig12 := sbet1*sbet2 + cbet1*cbet2*comg12

	switch {
	case shortline && ssig12 < geod.etol2:
		// really short lines
		salp2 = cbet1 * somg12
		mult := 1 - comg12
		if comg12 >= 0 {
			mult = sq(somg12) / (1 + comg12)
		}
		calp2 = sbet12 - cbet1*sbet2*mult
		salp2, calp2 = norm(salp2, calp2)
		sig12 = math.Atan2(ssig12, csig12)
	case math.Abs(geod.n) >= 0.1 || csig12 >= 0 ||
		ssig12 >= 6*math.Abs(geod.n)*math.Pi*sq(cbet1):
		// zeroth order spherical approximation is good enough
	default:
		// Scale lam12 and bet2 to an x, y plane where the antipode is at the
		// origin and the singular point at (-1, 0).
		var x, y, lamscale float64
		lam12x := math.Atan2(-slam12, -clam12)
		if geod.f >= 0 {
			// x = dlong, y = dlat
			k2 := sq(sbet1) * geod.ep2
			eps := k2 / (2*(1+math.Sqrt(1+k2)) + k2)
			lamscale = geod.f * cbet1 * geod.a3f(eps) * math.Pi
			betscale := lamscale * cbet1
			x = lam12x / lamscale
			y = sbet12a / betscale
		} else {
			// x = dlat, y = dlong
			cbet12a := cbet2*cbet1 - sbet2*sbet1
			bet12a := math.Atan2(sbet12a, cbet12a)
			_, m12b, m0, _, _ := geod.lengths(
				geod.n, math.Pi+bet12a, sbet1, -cbet1, dn1, sbet2, cbet2, dn2,
				cbet1, cbet2, reducedLength, C1a, C2a)
			x = -1 + m12b/(cbet1*cbet2*m0*math.Pi)
			betscale := -geod.f * sq(cbet1) * math.Pi
			if x < -0.01 {
				betscale = sbet12a / x
			}
			lamscale = betscale / cbet1
			y = lam12x / lamscale
		}

		if y > -geod.tol1 && x > -1-geod.xthresh {
			// strip near cut
			if geod.f >= 0 {
				salp1 = math.Min(1.0, -x)
				calp1 = -math.Sqrt(1 - sq(salp1))
			} else {
				if x > -geod.tol1 {
					calp1 = math.Max(0.0, x)
				} else {
					calp1 = math.Max(-1.0, x)
				}
				salp1 = math.Sqrt(1 - sq(calp1))
			}
		} else {
			// Solve the astroid problem for omg12 near pi and take alp1 from
			// the spherical formula; fewer Newton steps than estimating alp1
			// directly. Work with omg12a = pi - omg12.
			k := astroid(x, y)
			omg12a := lamscale * (-y * (1 + k) / k)
			if geod.f >= 0 {
				omg12a = lamscale * (-x * k / (1 + k))
			}
			somg12 = math.Sin(omg12a)
			comg12 = -math.Cos(omg12a)
			salp1 = cbet2 * somg12
			calp1 = sbet12a - cbet2*sbet1*sq(somg12)/(1-comg12)
		}
	}

	// sanity check on the guess; the inverted test lets NaN through
	if !(salp1 <= 0) {
		salp1, calp1 = norm(salp1, calp1)
	} else {
		salp1, calp1 = 1, 0
	}
	return
}

// lambda12 solves the hybrid problem: given alp1, find where the geodesic
// reaches latitude bet2 and the longitude difference there.
func (geod *Geodesic) lambda12(sbet1, cbet1, dn1, sbet2, cbet2, dn2, salp1, calp1,
	slam120, clam120 float64, diffp bool, C1a, C2a, C3a []float64) (lam12, salp2, calp2, sig12, ssig1, csig1, ssig2, csig2, eps, domg12, dlam12 float64) {
	if sbet1 == 0 && calp1 == 0 {
		// break degeneracy of equatorial line
		calp1 = -geod.tiny
	}
	// sin(alp1) * cos(bet1) = sin(alp0)
	salp0 := salp1 * cbet1
	calp0 := math.Hypot(calp1, salp1*sbet1) // > 0

	// tan(bet1) = tan(sig1) * cos(alp1)
	// tan(omg1) = sin(alp0) * tan(sig1)
	ssig1 = sbet1
	somg1 := salp0 * sbet1
	csig1 = calp1 * cbet1
	comg1 := csig1
	ssig1, csig1 = norm(ssig1, csig1)

	// Enforce symmetries when |bet2| = -bet1 to keep Newton away from a
	// singularity.
	salp2 = salp1
	if cbet2 != cbet1 {
		salp2 = salp0 / cbet2
	}
	if cbet2 != cbet1 || math.Abs(sbet2) != -sbet1 {
		if cbet1 < -sbet1 {
			calp2 = math.Sqrt(sq(calp1*cbet1)+(cbet2-cbet1)*(cbet1+cbet2)) / cbet2
		} else {
			calp2 = math.Sqrt(sq(calp1*cbet1)+(sbet1-sbet2)*(sbet1+sbet2)) / cbet2
		}
	} else {
		calp2 = math.Abs(calp1)
	}

	ssig2 = sbet2
	somg2 := salp0 * sbet2
	csig2 = calp2 * cbet2
	comg2 := csig2
	ssig2, csig2 = norm(ssig2, csig2)

	// sig12 = sig2 - sig1 in [0, pi]
	sig12 = math.Atan2(math.Max(0.0, csig1*ssig2-ssig1*csig2),
		csig1*csig2+ssig1*ssig2)
	// omg12 = omg2 - omg1 in [0, pi]
	somg12 := math.Max(0.0, comg1*somg2-somg1*comg2)
	comg12 := comg1*comg2 + somg1*somg2
	// eta = omg12 - lam120
	eta := math.Atan2(somg12*clam120-comg12*slam120,
		comg12*clam120+somg12*slam120)

	k2 := sq(calp0) * geod.ep2
	eps = k2 / (2*(1+math.Sqrt(1+k2)) + k2)
	geod.c3f(eps, C3a)
	B312 := sinCosSeries(true, ssig2, csig2, C3a) -
		sinCosSeries(true, ssig1, csig1, C3a)
	domg12 = -geod.f * geod.a3f(eps) * salp0 * (sig12 + B312)
	lam12 = eta + domg12

	dlam12 = math.NaN()
	if diffp {
		if calp2 == 0 {
			dlam12 = -2 * geod.f1 * dn1 / sbet1
		} else {
			_, dlam12, _, _, _ = geod.lengths(
				eps, sig12, ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2,
				reducedLength, C1a, C2a)
			dlam12 *= geod.f1 / (calp2 * cbet2)
		}
	}
	return
}

func (geod *Geodesic) genInverse(lat1, lon1, lat2, lon2 float64, outmask int) (a12, s12, salp1, calp1, salp2, calp2 float64) {
	a12, s12 = math.NaN(), math.NaN()
	outmask &= outMask

	// lon12 in [-180, 180]; -180 only for west-going geodesics
	lon12, lon12s := angDiff(lon1, lon2)
	lonsign := 1.0
	if lon12 < 0 {
		lonsign = -1
	}
	// snap to the same half-meridian when very close
	lon12 = lonsign * angRound(lon12)
	lon12s = angRound((180 - lon12) - lonsign*lon12s)
	lam12 := radians(lon12)
	var slam12, clam12 float64
	if lon12 > 90 {
		slam12, clam12 = sincosd(lon12s)
		clam12 = -clam12
	} else {
		slam12, clam12 = sincosd(lon12)
	}

	// treat near-equator latitudes as on the equator
	lat1 = angRound(latFix(lat1))
	lat2 = angRound(latFix(lat2))
	// point 1 gets the larger |lat|; a NaN latitude ends up in lat1
	swapp := 1.0
	if math.Abs(lat1) < math.Abs(lat2) {
		swapp = -1
		lonsign *= -1
		lat1, lat2 = lat2, lat1
	}
	// make lat1 <= 0
	latsign := 1.0
	if lat1 >= 0 {
		latsign = -1
	}
	lat1 *= latsign
	lat2 *= latsign
	// Canonical form now holds:
	//   0 <= lon12 <= 180, -90 <= lat1 <= 0, lat1 <= lat2 <= -lat1
	// and lonsign, swapp, latsign record how to undo it.

	sbet1, cbet1 := sincosd(lat1)
	sbet1 *= geod.f1
	sbet1, cbet1 = norm(sbet1, cbet1)
	cbet1 = math.Max(geod.tiny, cbet1) // +epsilon at poles
	sbet2, cbet2 := sincosd(lat2)
	sbet2 *= geod.f1
	sbet2, cbet2 = norm(sbet2, cbet2)
	cbet2 = math.Max(geod.tiny, cbet2)

	// Force bet2 = +/-bet1 exactly when the sensitive measure of
	// |bet1| - |bet2| vanishes; lambda12 relies on it.
	if cbet1 < -sbet1 {
		if cbet2 == cbet1 {
			if sbet2 < 0 {
				sbet2 = sbet1
			} else {
				sbet2 = -sbet1
			}
		}
	} else if math.Abs(sbet2) == -sbet1 {
		cbet2 = cbet1
	}

	dn1 := math.Sqrt(1 + geod.ep2*sq(sbet1))
	dn2 := math.Sqrt(1 + geod.ep2*sq(sbet2))

	// index zero of the series arrays is unused
	C1a := make([]float64, nC1+1)
	C2a := make([]float64, nC2+1)
	C3a := make([]float64, nC3)

	var sig12, s12x float64

	meridian := lat1 == -90 || slam12 == 0
	if meridian {
		// Both ends on one full meridian: the geodesic may follow it.
		calp1, salp1 = clam12, slam12 // head to the target longitude
		calp2, salp2 = 1.0, 0.0       // heading north at the target

		// tan(bet) = tan(sig) * cos(alp)
		ssig1, csig1 := sbet1, calp1*cbet1
		ssig2, csig2 := sbet2, calp2*cbet2
		sig12 = math.Atan2(math.Max(0.0, csig1*ssig2-ssig1*csig2),
			csig1*csig2+ssig1*ssig2)

		var m12x float64
		s12x, m12x, _, _, _ = geod.lengths(
			geod.n, sig12, ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2,
			outmask|distance|reducedLength, C1a, C2a)
		// sig12 > pi/2 with m12 < 0 is not a shortest path (prolate case
		// near antipodal); fall through to the general solution then.
		if sig12 < 1 || m12x >= 0 {
			if sig12 < 3*geod.tiny {
				sig12, s12x = 0, 0
			}
			s12x *= geod.b
			a12 = degrees(sig12)
		} else {
			meridian = false
		}
	}

	switch {
	case meridian:
	case sbet1 == 0 && (geod.f <= 0 || lon12s >= geod.f*180):
		// geodesic runs along the equator
		calp1, calp2 = 0, 0
		salp1, salp2 = 1, 1
		s12x = geod.a * lam12
		sig12 = lam12 / geod.f1
		a12 = lon12 / geod.f1
	default:
		// neither meridional nor equatorial
		var dnm float64
		sig12, salp1, calp1, salp2, calp2, dnm = geod.inverseStart(
			sbet1, cbet1, dn1, sbet2, cbet2, dn2, lam12, slam12, clam12, C1a, C2a)
		if sig12 >= 0 {
			// short line, solved by inverseStart
			s12x = sig12 * geod.b * dnm
			a12 = degrees(sig12)
			break
		}

		// Newton on f(alp1) = lambda12(alp1) - lam12 with a bracket
		// (alp1a, alp1b) that shrinks at every evaluation. f has a single
		// root in (0, pi) with positive slope there, so when Newton steps
		// outside the bracket or the slope is not positive we bisect.
		numit := 0
		tripn, tripb := false, false
		salp1a, calp1a := geod.tiny, 1.0
		salp1b, calp1b := geod.tiny, -1.0
		var v, ssig1, csig1, ssig2, csig2, eps, dv float64
		for ; numit < maxIt2; numit++ {
			v, salp2, calp2, sig12, ssig1, csig1, ssig2, csig2,
				eps, _, dv = geod.lambda12(
				sbet1, cbet1, dn1, sbet2, cbet2, dn2,
				salp1, calp1, slam12, clam12, numit < maxIt1,
				C1a, C2a, C3a)
			// 2*tol0 is about 1 ulp in [0, pi]; inverted test escapes on NaN
			mult := 1.0
			if tripn {
				mult = 8
			}
			if tripb || !(math.Abs(v) >= mult*geod.tol0) {
				break
			}
			if v > 0 && (numit > maxIt1 || calp1/salp1 > calp1b/salp1b) {
				salp1b, calp1b = salp1, calp1
			} else if v < 0 && (numit > maxIt1 || calp1/salp1 < calp1a/salp1a) {
				salp1a, calp1a = salp1, calp1
			}
			if numit < maxIt1-1 && dv > 0 {
				dalp1 := -v / dv
				sdalp1, cdalp1 := math.Sincos(dalp1)
				nsalp1 := salp1*cdalp1 + calp1*sdalp1
				if nsalp1 > 0 && math.Abs(dalp1) < math.Pi {
					calp1 = calp1*cdalp1 - salp1*sdalp1
					salp1 = nsalp1
					salp1, calp1 = norm(salp1, calp1)
					// slope can go to zero, so converge on epsilon rather
					// than sqrt(epsilon)
					tripn = math.Abs(v) <= 16*geod.tol0
					continue
				}
			}
			// bisect the bracket
			salp1 = (salp1a + salp1b) / 2
			calp1 = (calp1a + calp1b) / 2
			salp1, calp1 = norm(salp1, calp1)
			tripn = false
			tripb = math.Abs(salp1a-salp1)+(calp1a-calp1) < geod.tolb ||
				math.Abs(salp1-salp1b)+(calp1-calp1b) < geod.tolb
		}
		s12x, _, _, _, _ = geod.lengths(
			eps, sig12, ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2,
			outmask|distance, C1a, C2a)
		s12x *= geod.b
		a12 = degrees(sig12)
	}

	if outmask&distance != 0 {
		s12 = 0.0 + s12x // -0 to 0
	}

	// undo the canonical transformation
	if swapp < 0 {
		salp1, salp2 = salp2, salp1
		calp1, calp2 = calp2, calp1
	}
	salp1 *= swapp * lonsign
	calp1 *= swapp * latsign
	salp2 *= swapp * lonsign
	calp2 *= swapp * latsign
	return a12, s12, salp1, calp1, salp2, calp2
}

// sinCosSeries evaluates, by Clenshaw summation,
//
//	sinp:  sum(c[i] * sin(2*i*x), i, 1, n)
//	!sinp: sum(c[i] * cos((2*i+1)*x), i, 0, n-1)
//
// c[0] is unused for the sine series.
func sinCosSeries(sinp bool, sinx, cosx float64, c []float64) float64 {
	k := len(c)
	n := k
	if sinp {
		n--
	}
	ar := 2 * (cosx - sinx) * (cosx + sinx) // 2 * cos(2 * x)
	y0, y1 := 0.0, 0.0
	if n&1 != 0 {
		k--
		y0 = c[k]
	}
	// n is even now; unroll by two so the accumulators swap back
	for n /= 2; n > 0; n-- {
		k--
		y1 = ar*y0 - y1 + c[k]
		k--
		y0 = ar*y1 - y0 + c[k]
	}
	if sinp {
		return 2 * sinx * cosx * y0 // sin(2 * x) * y0
	}
	return cosx * (y0 - y1)
}

// astroid returns the positive root k of
// k^4 + 2k^3 - (x^2 + y^2 - 1)k^2 - 2y^2k - y^2 = 0.
func astroid(x, y float64) float64 {
	p := sq(x)
	q := sq(y)
	r := (p + q - 1) / 6
	if q == 0 && r <= 0 {
		// y = 0 with |x| <= 1
		return 0
	}
	// s and t are scaled by r^3 and r to avoid dividing by r = 0
	S := p * q / 4
	r2 := sq(r)
	r3 := r * r2
	// zero on the evolute p^(1/3) + q^(1/3) = 1
	disc := S * (S + 2*r3)
	u := r
	if disc >= 0 {
		// sign of the sqrt maximises |T3| to limit cancellation
		T3 := S + r3
		if T3 < 0 {
			T3 -= math.Sqrt(disc)
		} else {
			T3 += math.Sqrt(disc)
		}
		T := cbrt(T3)
		u += T
		if T != 0 {
			u += r2 / T
		}
	} else {
		// complex T, real u; take the cube root that avoids cancellation
		ang := math.Atan2(math.Sqrt(-disc), -(S + r3))
		u += 2 * r * math.Cos(ang/3)
	}
	v := math.Sqrt(sq(u) + q) // > 0
	uv := u + v
	if u < 0 {
		uv = q / (v - u)
	}
	w := (uv - q) / (2 * v)
	return uv / (math.Sqrt(uv+sq(w)) + w)
}

func a1m1f(eps float64) float64 {
	// A1 - 1
	coeff := []float64{1, 4, 64, 0, 256}
	m := nA1 / 2
	t := polyval(m, coeff, 0, sq(eps)) / coeff[m+1]
	return (t + eps) / (1 - eps)
}

func c1f(eps float64, c []float64) {
	coeff := []float64{-1, 6, -16, 32, -9, 64, -128, 2048, 9, -16, 768, 3, -5, 512, -7, 1280, -7, 2048}
	seriesEven(eps, nC1, coeff, c)
}

func c1pf(eps float64, c []float64) {
	coeff := []float64{205, -432, 768, 1536, 4005, -4736, 3840, 12288, -225, 116, 384, -7173, 2695, 7680, 3467, 7680, 38081, 61440}
	seriesEven(eps, nC1p, coeff, c)
}

func a2m1f(eps float64) float64 {
	// A2 - 1
	coeff := []float64{-11, -28, -192, 0, 256}
	m := nA2 / 2
	t := polyval(m, coeff, 0, sq(eps)) / coeff[m+1]
	return (t - eps) / (1 + eps)
}

func c2f(eps float64, c []float64) {
	coeff := []float64{1, 2, 16, 32, 35, 64, 384, 2048, 15, 80, 768, 7, 35, 512, 63, 1280, 77, 2048}
	seriesEven(eps, nC2, coeff, c)
}

// seriesEven fills c[1..n] with eps^l times a polynomial in eps^2, the
// shape shared by the C1, C1p and C2 coefficient tables.
func seriesEven(eps float64, n int, coeff, c []float64) {
	eps2 := sq(eps)
	d := eps
	o := 0
	for l := 1; l <= n; l++ {
		m := (n - l) / 2 // order of polynomial in eps^2
		c[l] = d * polyval(m, coeff, o, eps2) / coeff[o+m+1]
		o += m + 2
		d *= eps
	}
}
