package geodesic

import (
	"fmt"
	"sort"
	"strings"
)

type ellipsoid struct {
	a, f float64
}

// reference ellipsoids, keyed by the PROJ "ellps" names
var ellipsoids = map[string]ellipsoid{
	"WGS84":  {a: 6378137, f: 1 / 298.257223563},
	"GRS80":  {a: 6378137, f: 1 / 298.257222101},
	"WGS72":  {a: 6378135, f: 1 / 298.26},
	"GRS67":  {a: 6378160, f: 1 / 298.2471674270},
	"clrk66": {a: 6378206.4, f: 1 - 6356583.8/6378206.4},
	"clrk80": {a: 6378249.145, f: 1 / 293.4663},
	"intl":   {a: 6378388, f: 1 / 297},
	"bessel": {a: 6377397.155, f: 1 / 299.1528128},
	"airy":   {a: 6377563.396, f: 1 - 6356256.910/6377563.396},
	"krass":  {a: 6378245, f: 1 / 298.3},
	"sphere": {a: 6370997, f: 0},
}

// WGS84 returns a new model of the WGS84 ellipsoid.
func WGS84() *Geodesic {
	e := ellipsoids["WGS84"]
	geod, err := New(e.a, e.f)
	if err != nil {
		// constants above are valid
		panic(err)
	}
	geod.name = "WGS84"
	return geod
}

// Named returns a new model of a reference ellipsoid. Names match
// case-insensitively.
func Named(name string) (*Geodesic, error) {
	for key, e := range ellipsoids {
		if !strings.EqualFold(key, name) {
			continue
		}
		geod, err := New(e.a, e.f)
		if err != nil {
			return nil, err
		}
		geod.name = key
		return geod, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownEllipsoid, name, strings.Join(Ellipsoids(), ", "))
}

// Ellipsoids lists the registered names in sorted order.
func Ellipsoids() []string {
	names := make([]string, 0, len(ellipsoids))
	for key := range ellipsoids {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}
