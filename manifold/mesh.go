package manifold

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Mesh is a polygon mesh with the geodetic position of every point.
// Faces index into Points, Lons and Lats alike.
type Mesh struct {
	Points []r3.Vector
	Faces  [][]int
	Lons   []float64
	Lats   []float64
}

func (m *Mesh) NPoints() int { return len(m.Points) }

func (m *Mesh) NFaces() int { return len(m.Faces) }

// Triangulate splits every quad (a, b, c, d) into (a, b, c) and (a, c, d).
// Points are untouched.
func (m *Mesh) Triangulate() {
	faces := make([][]int, 0, 2*len(m.Faces))
	for _, f := range m.Faces {
		if len(f) != 4 {
			faces = append(faces, f)
			continue
		}
		faces = append(faces,
			[]int{f[0], f[1], f[2]},
			[]int{f[0], f[2], f[3]})
	}
	m.Faces = faces
}

// FaceArray flattens the faces as n, i0, ..., in-1 per face, the layout
// VTK and PyVista expect for polydata connectivity.
func (m *Mesh) FaceArray() []int {
	size := 0
	for _, f := range m.Faces {
		size += len(f) + 1
	}
	out := make([]int, 0, size)
	for _, f := range m.Faces {
		out = append(out, len(f))
		out = append(out, f...)
	}
	return out
}

// GeoJSON returns one polygon feature per face in lon/lat, with the face
// number in the "face" property.
func (m *Mesh) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, f := range m.Faces {
		ring := make(orb.Ring, 0, len(f)+1)
		for _, idx := range f {
			ring = append(ring, orb.Point{m.Lons[idx], m.Lats[idx]})
		}
		ring = append(ring, ring[0])
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["face"] = i
		fc.Append(feature)
	}
	return fc
}

type meshJSON struct {
	NPoints int          `json:"n_points"`
	NFaces  int          `json:"n_faces"`
	Points  [][3]float64 `json:"points"`
	Faces   [][]int      `json:"faces"`
	Lons    []float64    `json:"lons"`
	Lats    []float64    `json:"lats"`
}

// MarshalJSON writes points as [x, y, z] triples.
func (m *Mesh) MarshalJSON() ([]byte, error) {
	points := make([][3]float64, len(m.Points))
	for i, p := range m.Points {
		points[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return json.Marshal(meshJSON{
		NPoints: m.NPoints(),
		NFaces:  m.NFaces(),
		Points:  points,
		Faces:   m.Faces,
		Lons:    m.Lons,
		Lats:    m.Lats,
	})
}

func (m *Mesh) UnmarshalJSON(data []byte) error {
	var raw meshJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Points = make([]r3.Vector, len(raw.Points))
	for i, p := range raw.Points {
		m.Points[i] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	m.Faces = raw.Faces
	m.Lons = raw.Lons
	m.Lats = raw.Lats
	return nil
}
