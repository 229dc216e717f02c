package raster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GridDef describes a regular analysis grid in the projected plane:
// column/row/layer counts, the west and south edge coordinates in
// projection meters, and the cell dimensions. Row 1 is the
// southernmost row and column 1 the westernmost column.
type GridDef struct {
	Columns int
	Rows    int
	Layers  int

	WestEdge  float64
	SouthEdge float64

	CellWidth  float64
	CellHeight float64
}

// NewGridDef validates and returns a grid description.
func NewGridDef(columns, rows, layers int, westEdge, southEdge,
	cellWidth, cellHeight float64) (GridDef, error) {
	g := GridDef{
		Columns:    columns,
		Rows:       rows,
		Layers:     layers,
		WestEdge:   westEdge,
		SouthEdge:  southEdge,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}
	if columns <= 0 || rows <= 0 || layers <= 0 {
		return GridDef{}, fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", layers, rows, columns)
	}
	if !(cellWidth > 0) || !(cellHeight > 0) || math.IsInf(cellWidth, 0) || math.IsInf(cellHeight, 0) {
		return GridDef{}, fmt.Errorf("cell dimensions must be positive and finite, got %gx%g", cellWidth, cellHeight)
	}
	if math.IsNaN(westEdge) || math.IsInf(westEdge, 0) || math.IsNaN(southEdge) || math.IsInf(southEdge, 0) {
		return GridDef{}, fmt.Errorf("grid edges must be finite, got west=%g south=%g", westEdge, southEdge)
	}
	return g, nil
}

// Bounds returns the grid's extent in the projected plane.
func (g GridDef) Bounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{g.WestEdge, g.SouthEdge},
		Max: orb.Point{
			g.WestEdge + float64(g.Columns)*g.CellWidth,
			g.SouthEdge + float64(g.Rows)*g.CellHeight,
		},
	}
}

// Size returns the length of the flat buffer covering the grid,
// layers*rows*columns.
func (g GridDef) Size() int { return g.Layers * g.Rows * g.Columns }

// Cell returns the 1-based row and column of a projected point, or
// ok=false if the point falls outside the grid. Points exactly on the
// east or north edge belong to the last column or row.
func (g GridDef) Cell(pt orb.Point) (row, col int, ok bool) {
	if !g.Bounds().Contains(pt) {
		return 0, 0, false
	}
	col = int(math.Floor((pt.X()-g.WestEdge)/g.CellWidth)) + 1
	row = int(math.Floor((pt.Y()-g.SouthEdge)/g.CellHeight)) + 1
	if col > g.Columns {
		col = g.Columns
	}
	if row > g.Rows {
		row = g.Rows
	}
	return row, col, true
}

// CellCenter returns the projected coordinate of the center of a
// 1-based grid cell.
func (g GridDef) CellCenter(row, col int) orb.Point {
	return orb.Point{
		g.WestEdge + (float64(col)-0.5)*g.CellWidth,
		g.SouthEdge + (float64(row)-0.5)*g.CellHeight,
	}
}

// Locate maps a batch of projected points to 1-based grid locations.
// inside[i] is false for points outside the grid, whose row/column
// slots are zero.
func (g GridDef) Locate(pts []orb.Point) (rows, cols []int, inside []bool) {
	rows = make([]int, len(pts))
	cols = make([]int, len(pts))
	inside = make([]bool, len(pts))
	for i, pt := range pts {
		rows[i], cols[i], inside[i] = g.Cell(pt)
	}
	return rows, cols, inside
}
