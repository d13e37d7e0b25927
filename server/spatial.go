package main

// SpatialCellSize matches the asteroid separation threshold so a query
// rarely spans more than a 3x3 block.
const SpatialCellSize = 125.0

// SpatialGrid is a uniform grid over the arena for broad-phase queries.
// Entities are stored by index at the cell holding their centre; anything
// outside the arena is filed in the nearest edge cell.
type SpatialGrid struct {
	cols, rows int
	cells      [][]int
}

// NewSpatialGrid sizes a grid to cover the arena
func NewSpatialGrid(arena Arena) *SpatialGrid {
	cols := int(arena.Width/SpatialCellSize) + 1
	rows := int(arena.Height/SpatialCellSize) + 1
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]int, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) cellCoords(x, y float64) (int, int) {
	cx := int(x / SpatialCellSize)
	cy := int(y / SpatialCellSize)
	if x < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if y < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

// Insert files idx under the cell containing (x, y)
func (g *SpatialGrid) Insert(x, y float64, idx int) {
	cx, cy := g.cellCoords(x, y)
	i := cy*g.cols + cx
	g.cells[i] = append(g.cells[i], idx)
}

// QueryBuf appends every index whose cell overlaps the square of the given
// radius around (x, y), padded by one cell, and returns the extended slice.
// Each index appears at most once.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []int) []int {
	minCX, minCY := g.cellCoords(x-radius, y-radius)
	maxCX, maxCY := g.cellCoords(x+radius, y+radius)
	minCX = max(minCX-1, 0)
	minCY = max(minCY-1, 0)
	maxCX = min(maxCX+1, g.cols-1)
	maxCY = min(maxCY+1, g.rows-1)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}
