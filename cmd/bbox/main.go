// Command bbox builds a geodesic bounding-box mesh and writes it to stdout
// as mesh JSON or GeoJSON.
//
//	bbox -wkt 'POLYGON((-10 10, 10 10, 10 -10, -10 -10, -10 10))' -c 16
//	bbox -lons=-10,10,10,-10 -lats=10,10,-10,-10 -tri -format geojson
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lazylynx/gmanifold/internal/logging"
	"github.com/lazylynx/gmanifold/manifold"
)

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bbox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	wktPtr := fs.String("wkt", "", "corners as a WKT POLYGON")
	lonsPtr := fs.String("lons", "", "comma separated corner longitudes (degrees)")
	latsPtr := fs.String("lats", "", "comma separated corner latitudes (degrees)")
	ellpsPtr := fs.String("ellps", manifold.DefaultEllipsoid, "ellipsoid name")
	radiusPtr := fs.Float64("radius", manifold.DefaultRadius, "radius of the output points")
	cPtr := fs.Int("c", manifold.DefaultSubdivision, "faces along each side")
	triPtr := fs.Bool("tri", false, "triangulate the quads")
	projPtr := fs.String("projection", "spherical", "spherical or ellipsoidal")
	formatPtr := fs.String("format", "json", "output format (json, geojson)")
	verbosePtr := fs.Bool("v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *formatPtr != "json" && *formatPtr != "geojson" {
		return fmt.Errorf("unknown format %q", *formatPtr)
	}

	var lons, lats []float64
	var err error
	switch {
	case *wktPtr != "" && (*lonsPtr != "" || *latsPtr != ""):
		return errors.New("give -wkt or -lons/-lats, not both")
	case *wktPtr != "":
		lons, lats, err = manifold.CornersFromWKT(*wktPtr)
	default:
		if lons, err = parseFloats(*lonsPtr); err == nil {
			lats, err = parseFloats(*latsPtr)
		}
	}
	if err != nil {
		return err
	}

	proj, err := manifold.ParseProjection(*projPtr)
	if err != nil {
		return err
	}
	level := "info"
	if *verbosePtr {
		level = "debug"
	}

	mesh, err := manifold.BBox(lons, lats, manifold.Config{
		Ellipsoid:   *ellpsPtr,
		Radius:      *radiusPtr,
		C:           *cPtr,
		Triangulate: *triPtr,
		Projection:  proj,
		Logger:      logging.New(stderr, level, "text"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if *formatPtr == "geojson" {
		return enc.Encode(mesh.GeoJSON())
	}
	return enc.Encode(mesh)
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
