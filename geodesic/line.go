package geodesic

import "math"

// Position is a point reached along a geodesic. Angles are degrees.
type Position struct {
	Lat, Lon, Azi float64
	S12           float64
}

// Line is a geodesic starting at a fixed point with a fixed azimuth.
// Positions along it are cheap once the line is built.
type Line struct {
	f, b, f1, tiny float64

	lat1, lon1, azi1 float64
	salp1, calp1     float64

	salp0, calp0             float64
	ssig1, csig1             float64
	somg1, comg1             float64
	stau1, ctau1             float64
	k2, a1m1, b11, a3c, b31 float64
	c1a, c1pa, c3a           []float64

	// s13 is the distance to the second point for lines built by InverseLine
	s13 float64
}

// Line returns the geodesic leaving (lat1, lon1) with azimuth azi1.
func (geod *Geodesic) Line(lat1, lon1, azi1 float64) *Line {
	azi1 = angNormalize(azi1)
	salp1, calp1 := sincosd(angRound(azi1))
	return geod.newLine(lat1, lon1, azi1, salp1, calp1)
}

// InverseLine returns the geodesic through both points. Distance() is the
// length of the segment between them.
func (geod *Geodesic) InverseLine(lat1, lon1, lat2, lon2 float64) *Line {
	inv := geod.Inverse(lat1, lon1, lat2, lon2)
	l := geod.newLine(lat1, lon1, inv.Azi1, inv.salp1, inv.calp1)
	l.s13 = inv.S12
	return l
}

func (geod *Geodesic) newLine(lat1, lon1, azi1, salp1, calp1 float64) *Line {
	l := &Line{
		tiny:  geod.tiny,
		f:     geod.f,
		b:     geod.b,
		f1:    geod.f1,
		lat1:  latFix(lat1),
		lon1:  lon1,
		azi1:  azi1,
		salp1: salp1,
		calp1: calp1,
		c1a:   make([]float64, nC1+1),
		c1pa:  make([]float64, nC1p+1),
		c3a:   make([]float64, nC3),
		s13:   math.NaN(),
	}

	sbet1, cbet1 := sincosd(angRound(l.lat1))
	sbet1 *= geod.f1
	sbet1, cbet1 = norm(sbet1, cbet1)
	cbet1 = math.Max(geod.tiny, cbet1) // +epsilon at poles

	// sin(alp1) * cos(bet1) = sin(alp0), alp0 in [0, pi/2 - |bet1|]
	l.salp0 = salp1 * cbet1
	l.calp0 = math.Hypot(calp1, salp1*sbet1)

	// tan(bet1) = tan(sig1) * cos(alp1), tan(omg1) = sin(alp0) * tan(sig1);
	// sig = 0 is the nearest northward equator crossing
	l.ssig1 = sbet1
	l.somg1 = l.salp0 * sbet1
	l.csig1 = 1
	if sbet1 != 0 || calp1 != 0 {
		l.csig1 = cbet1 * calp1
	}
	l.comg1 = l.csig1
	l.ssig1, l.csig1 = norm(l.ssig1, l.csig1)

	l.k2 = sq(l.calp0) * geod.ep2
	eps := l.k2 / (2*(1+math.Sqrt(1+l.k2)) + l.k2)

	l.a1m1 = a1m1f(eps)
	c1f(eps, l.c1a)
	l.b11 = sinCosSeries(true, l.ssig1, l.csig1, l.c1a)
	s, c := math.Sincos(l.b11)
	// tau1 = sig1 + B11
	l.stau1 = l.ssig1*c + l.csig1*s
	l.ctau1 = l.csig1*c - l.ssig1*s

	c1pf(eps, l.c1pa)

	geod.c3f(eps, l.c3a)
	l.a3c = -geod.f * l.salp0 * geod.a3f(eps)
	l.b31 = sinCosSeries(true, l.ssig1, l.csig1, l.c3a)
	return l
}

// Azimuth is the azimuth at the start of the line in degrees.
func (l *Line) Azimuth() float64 { return l.azi1 }

// Distance is the length of an InverseLine segment in metres, NaN otherwise.
func (l *Line) Distance() float64 { return l.s13 }

// Position returns the point at distance s12 metres along the line.
func (l *Line) Position(s12 float64) Position {
	tau12 := s12 / (l.b * (1 + l.a1m1))
	if !finite(tau12) {
		tau12 = math.NaN()
	}
	s, c := math.Sincos(tau12)
	// tau2 = tau1 + tau12
	b12 := -sinCosSeries(true,
		l.stau1*c+l.ctau1*s,
		l.ctau1*c-l.stau1*s,
		l.c1pa)
	sig12 := tau12 - (b12 - l.b11)
	ssig12, csig12 := math.Sincos(sig12)
	if math.Abs(l.f) > 0.01 {
		// the reverted series loses accuracy for |f| > 1/100; one Newton
		// step on sig12 recovers it
		ssig2 := l.ssig1*csig12 + l.csig1*ssig12
		csig2 := l.csig1*csig12 - l.ssig1*ssig12
		b12 = sinCosSeries(true, ssig2, csig2, l.c1a)
		serr := (1+l.a1m1)*(sig12+(b12-l.b11)) - s12/l.b
		sig12 -= serr / math.Sqrt(1+l.k2*sq(ssig2))
		ssig12, csig12 = math.Sincos(sig12)
	}

	// sig2 = sig1 + sig12
	ssig2 := l.ssig1*csig12 + l.csig1*ssig12
	csig2 := l.csig1*csig12 - l.ssig1*ssig12
	// sin(bet2) = cos(alp0) * sin(sig2)
	sbet2 := l.calp0 * ssig2
	cbet2 := math.Hypot(l.salp0, l.calp0*csig2)
	if cbet2 == 0 {
		// salp0 = 0 and csig2 = 0; break the degeneracy
		cbet2 = l.tiny
		csig2 = cbet2
	}
	// tan(alp0) = cos(sig2) * tan(alp2)
	salp2 := l.salp0
	calp2 := l.calp0 * csig2

	// tan(omg2) = sin(alp0) * tan(sig2)
	somg2 := l.salp0 * ssig2
	comg2 := csig2
	omg12 := math.Atan2(somg2*l.comg1-comg2*l.somg1,
		comg2*l.comg1+somg2*l.somg1)
	lam12 := omg12 + l.a3c*(sig12+
		(sinCosSeries(true, ssig2, csig2, l.c3a)-l.b31))
	lon12 := degrees(lam12)

	return Position{
		Lat: atan2d(sbet2, l.f1*cbet2),
		Lon: angNormalize(angNormalize(l.lon1) + angNormalize(lon12)),
		Azi: atan2d(salp2, calp2),
		S12: s12,
	}
}

// Direct returns the point s12 metres from (lat1, lon1) along azimuth azi1.
func (geod *Geodesic) Direct(lat1, lon1, azi1, s12 float64) Position {
	return geod.Line(lat1, lon1, azi1).Position(s12)
}
