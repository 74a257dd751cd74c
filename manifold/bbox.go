package manifold

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/lazylynx/gmanifold/geodesic"
)

const (
	// DefaultEllipsoid names the model used when none is configured.
	DefaultEllipsoid = "WGS84"
	// DefaultNPts is the customary number of points along a standalone curve.
	DefaultNPts = 64
	// DefaultSubdivision gives DefaultSubdivision^2 faces.
	DefaultSubdivision = 128
	// MaxSubdivision caps c; the mesh holds (c+1)^2 points.
	MaxSubdivision = 2048
	// DefaultRadius keeps the manifold just above a unit sphere.
	DefaultRadius = 1.1
	// ClosureTolerance is the absolute tolerance in degrees, per axis, for
	// the last of 5 corners to close the ring on the first.
	ClosureTolerance = 1e-8
)

// Projection selects how geodetic vertices become Cartesian points.
type Projection int

const (
	// Spherical places vertices on a sphere of the configured radius.
	Spherical Projection = iota
	// Ellipsoidal places vertices on the ellipsoid scaled to the radius.
	Ellipsoidal
)

func (p Projection) String() string {
	switch p {
	case Spherical:
		return "spherical"
	case Ellipsoidal:
		return "ellipsoidal"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// ParseProjection accepts "spherical" (or empty) and "ellipsoidal".
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(s) {
	case "", "spherical", "sphere":
		return Spherical, nil
	case "ellipsoidal", "ellipsoid":
		return Ellipsoidal, nil
	}
	return 0, fmt.Errorf("unknown projection %q", s)
}

// Config controls BBox. Zero values select the defaults.
type Config struct {
	// Ellipsoid is a registry name, used when Geod is nil.
	Ellipsoid string
	// Geod is a prebuilt model shared across builds.
	Geod *geodesic.Geodesic
	// Radius of the output points.
	Radius float64
	// C is the number of faces along each side.
	C           int
	Triangulate bool
	Projection  Projection
	Logger      *slog.Logger
}

func (cfg Config) subdivision() (int, error) {
	switch {
	case cfg.C == 0:
		return DefaultSubdivision, nil
	case cfg.C < 0 || cfg.C > MaxSubdivision:
		return 0, fmt.Errorf("%w: c=%d not in [1, %d]", ErrSubdivision, cfg.C, MaxSubdivision)
	}
	return cfg.C, nil
}

func (cfg Config) radius() (float64, error) {
	switch {
	case cfg.Radius == 0:
		return DefaultRadius, nil
	case math.IsNaN(cfg.Radius) || math.IsInf(cfg.Radius, 0) || cfg.Radius < 0:
		return 0, fmt.Errorf("%w: %v is not finite and positive", ErrRadius, cfg.Radius)
	}
	return cfg.Radius, nil
}

func (cfg Config) geod() (*geodesic.Geodesic, error) {
	if cfg.Geod != nil {
		return cfg.Geod, nil
	}
	name := cfg.Ellipsoid
	if name == "" {
		name = DefaultEllipsoid
	}
	geod, err := geodesic.Named(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeodesic, err)
	}
	return geod, nil
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// openCorners validates the corner arrays and returns the 4 open corners
// in new slices.
func openCorners(lons, lats []float64) ([]float64, []float64, error) {
	n := len(lons)
	if n != len(lats) {
		return nil, nil, fmt.Errorf("%w: %d longitudes, %d latitudes", ErrShapeMismatch, n, len(lats))
	}
	switch {
	case n < 4:
		return nil, nil, fmt.Errorf("%w: insufficient corners, need 4 (open) or 5 (closed), got %d", ErrCornerCount, n)
	case n > 5:
		return nil, nil, fmt.Errorf("%w: ambiguous open/closed geometry, need 4 (open) or 5 (closed), got %d", ErrCornerCount, n)
	case n == 5 && !closes(lons, lats):
		return nil, nil, fmt.Errorf("%w: 5 corners but the last (%v, %v) does not close on the first (%v, %v)",
			ErrCornerCount, lons[4], lats[4], lons[0], lats[0])
	}
	return append([]float64(nil), lons[:4]...), append([]float64(nil), lats[:4]...), nil
}

func closes(lons, lats []float64) bool {
	last := len(lons) - 1
	dlon := math.Abs(geodesic.WrapLon(lons[0]) - geodesic.WrapLon(lons[last]))
	dlat := math.Abs(lats[0] - lats[last])
	return dlon <= ClosureTolerance && dlat <= ClosureTolerance
}

// BBox builds the mesh spanning the quadrilateral with corners 0..3 given
// by lons and lats. A fifth corner equal to the first closes the ring and
// is dropped.
//
// The (c+1)x(c+1) vertex grid is filled border first: row 0 from corner 0
// to 1, row c from corner 3 to 2, column 0 from corner 0 to 3 and column c
// from corner 1 to 2. Each interior row is then the geodesic between its
// resolved ends. Face (i, j) joins grid cells (i,j), (i,j+1), (i+1,j+1)
// and (i+1,j).
func BBox(lons, lats []float64, cfg Config) (*Mesh, error) {
	lons, lats, err := openCorners(lons, lats)
	if err != nil {
		return nil, err
	}
	c, err := cfg.subdivision()
	if err != nil {
		return nil, err
	}
	radius, err := cfg.radius()
	if err != nil {
		return nil, err
	}
	geod, err := cfg.geod()
	if err != nil {
		return nil, err
	}
	if cfg.Projection != Spherical && cfg.Projection != Ellipsoidal {
		return nil, fmt.Errorf("unknown projection %v", cfg.Projection)
	}
	logger := cfg.logger()
	logger.Debug("bbox", "c", c, "n_faces", c*c, "grid", fmt.Sprintf("%dx%d", c+1, c+1), "ellipsoid", geod.String())

	b := &builder{
		c:    c,
		geod: geod,
		grid: newIndexGrid(c),
		buf:  newVertexBuffer((c + 1) * (c + 1)),
	}
	for i := range lons {
		lons[i] = geodesic.WrapLon(lons[i])
	}
	b.buf.extend(lons, lats)
	if err := b.fill(); err != nil {
		return nil, err
	}

	mesh := b.mesh(radius, cfg.Projection)
	logger.Debug("bbox", "n_faces", mesh.NFaces(), "n_points", mesh.NPoints())
	if cfg.Triangulate {
		mesh.Triangulate()
		logger.Debug("bbox", "n_faces", mesh.NFaces(), "n_points", mesh.NPoints(), "triangulated", true)
	}
	return mesh, nil
}

type builder struct {
	c    int
	geod *geodesic.Geodesic
	grid *indexGrid
	buf  *vertexBuffer
}

// corner indices in the vertex buffer
const (
	corner0 = iota
	corner1
	corner2
	corner3
)

func (b *builder) fill() error {
	c := b.c
	edges := []struct {
		from, to    int
		row, col    int
		dr, dc      int
		includeEnds bool
	}{
		{corner0, corner1, 0, 0, 0, 1, true},  // top row
		{corner3, corner2, c, 0, 0, 1, true},  // bottom row
		{corner0, corner3, 1, 0, 1, 0, false}, // left column
		{corner1, corner2, 1, c, 1, 0, false}, // right column
	}
	for _, e := range edges {
		idxs, err := b.edge(e.from, e.to)
		if err != nil {
			return err
		}
		if !e.includeEnds {
			// corner cells belong to the rows
			idxs = idxs[1:c]
		}
		if err := b.grid.assign(e.row, e.col, e.dr, e.dc, idxs); err != nil {
			return err
		}
	}

	for row := 1; row < c; row++ {
		from, err := b.grid.at(row, 0)
		if err != nil {
			return err
		}
		to, err := b.grid.at(row, c)
		if err != nil {
			return err
		}
		idxs, err := b.edge(from, to)
		if err != nil {
			return err
		}
		if err := b.grid.assign(row, 1, 0, 1, idxs[1:c]); err != nil {
			return err
		}
	}
	return b.grid.complete()
}

// edge appends the c-1 points strictly between two buffered vertices and
// returns the vertex indices of the whole edge, ends included.
func (b *builder) edge(from, to int) ([]int, error) {
	lons, lats, err := GeodesicByIdx(b.buf.lons, b.buf.lats, from, to, b.c-1, CurveOptions{Geod: b.geod})
	if err != nil {
		return nil, err
	}
	first := b.buf.extend(lons, lats)
	idxs := make([]int, 0, len(lons)+2)
	idxs = append(idxs, from)
	for k := range lons {
		idxs = append(idxs, first+k)
	}
	return append(idxs, to), nil
}

func (b *builder) mesh(radius float64, proj Projection) *Mesh {
	project := geodesic.Spherical
	if proj == Ellipsoidal {
		project = b.geod.Ellipsoidal
	}
	points := make([]r3.Vector, b.buf.len())
	for i := range points {
		points[i] = project(b.buf.lons[i], b.buf.lats[i], radius)
	}

	c := b.c
	faces := make([][]int, 0, c*c)
	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			faces = append(faces, []int{
				b.cell(i, j),
				b.cell(i, j+1),
				b.cell(i+1, j+1),
				b.cell(i+1, j),
			})
		}
	}
	return &Mesh{
		Points: points,
		Faces:  faces,
		Lons:   b.buf.lons,
		Lats:   b.buf.lats,
	}
}

// cell reads a grid cell already checked by complete.
func (b *builder) cell(row, col int) int {
	return b.grid.cells[row*b.grid.side+col]
}
