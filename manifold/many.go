package manifold

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Tile is the corner set of one bounding box.
type Tile struct {
	Lons []float64 `json:"lons"`
	Lats []float64 `json:"lats"`
}

// BBoxMany builds one mesh per tile with at most workers builds in flight
// (unbounded when workers <= 0). The ellipsoid is resolved once and shared.
// The first failure cancels the rest; meshes are returned in tile order.
func BBoxMany(ctx context.Context, tiles []Tile, cfg Config, workers int) ([]*Mesh, error) {
	geod, err := cfg.geod()
	if err != nil {
		return nil, err
	}
	cfg.Geod = geod

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	meshes := make([]*Mesh, len(tiles))
	for i, tile := range tiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mesh, err := BBox(tile.Lons, tile.Lats, cfg)
			if err != nil {
				return fmt.Errorf("tile %d: %w", i, err)
			}
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}
