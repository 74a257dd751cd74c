package manifold

import "fmt"

const unresolved = -1

// indexGrid maps (row, col) of a (c+1)x(c+1) lattice to vertex indices.
// Each cell is written once; reads of unwritten cells fail.
type indexGrid struct {
	side  int
	cells []int
}

func newIndexGrid(c int) *indexGrid {
	side := c + 1
	cells := make([]int, side*side)
	for i := range cells {
		cells[i] = unresolved
	}
	return &indexGrid{side: side, cells: cells}
}

func (g *indexGrid) at(row, col int) (int, error) {
	idx := g.cells[row*g.side+col]
	if idx == unresolved {
		return 0, fmt.Errorf("%w: cell (%d, %d) read before it was assigned", errGrid, row, col)
	}
	return idx, nil
}

// assign writes idxs to consecutive cells from (row, col), stepping by
// (dr, dc).
func (g *indexGrid) assign(row, col, dr, dc int, idxs []int) error {
	for _, idx := range idxs {
		cell := &g.cells[row*g.side+col]
		if *cell != unresolved {
			return fmt.Errorf("%w: cell (%d, %d) assigned twice", errGrid, row, col)
		}
		*cell = idx
		row += dr
		col += dc
	}
	return nil
}

func (g *indexGrid) complete() error {
	for i, idx := range g.cells {
		if idx == unresolved {
			return fmt.Errorf("%w: cell (%d, %d) never assigned", errGrid, i/g.side, i%g.side)
		}
	}
	return nil
}

// vertexBuffer is the append-only list of geodetic vertices.
type vertexBuffer struct {
	lons, lats []float64
}

func newVertexBuffer(capacity int) *vertexBuffer {
	return &vertexBuffer{
		lons: make([]float64, 0, capacity),
		lats: make([]float64, 0, capacity),
	}
}

// extend appends the points and returns the index of the first one.
func (b *vertexBuffer) extend(lons, lats []float64) int {
	first := len(b.lons)
	b.lons = append(b.lons, lons...)
	b.lats = append(b.lats, lats...)
	return first
}

func (b *vertexBuffer) len() int { return len(b.lons) }
