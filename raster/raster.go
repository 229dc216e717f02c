// Package raster scatters sparse, irregularly located point
// measurements into the dense (layer, row, column) grid buffers that
// air-quality model writers consume. Cells no input point touches hold
// a documented missing-value sentinel, never NaN.
package raster

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/golang/geo/s2"

	"github.com/tzneal/geoproj"
)

// Missing-data sentinels: finite, large-magnitude, and distinct from
// any legitimate value. Missing marks real-valued cells, IMissing
// integer-valued cells.
const (
	Missing  = -9.999e36
	IMissing = int32(-9999)
)

// Scatter2D scatters point values into a dense layers x rows x columns
// grid. rows and cols are parallel 1-based grid locations; each value
// is scaled by scale and written into its cell on every layer. Cells
// with no point hold Missing; when several points share a cell the
// last one in input order wins.
func Scatter2D(rows, cols []int, values []float64, scale float64,
	layers, nrows, ncols int) (*sparse.DenseArray, error) {
	if err := checkScatterArgs(rows, cols, nil, len(values), scale, layers, nrows, ncols); err != nil {
		return nil, err
	}
	if err := checkFinite(values); err != nil {
		return nil, err
	}

	grid := newMissingGrid(layers, nrows, ncols)
	layerStride := nrows * ncols
	for i := range rows {
		cell := (rows[i]-1)*ncols + (cols[i] - 1)
		v := values[i] * scale
		for l := 0; l < layers; l++ {
			grid.Elements[l*layerStride+cell] = v
		}
	}
	return grid, nil
}

// Scatter3D is Scatter2D for points that carry their own 1-based layer
// index: each value lands in exactly one (layer, row, column) cell.
func Scatter3D(rows, cols, lays []int, values []float64, scale float64,
	layers, nrows, ncols int) (*sparse.DenseArray, error) {
	if err := checkScatterArgs(rows, cols, lays, len(values), scale, layers, nrows, ncols); err != nil {
		return nil, err
	}
	if err := checkFinite(values); err != nil {
		return nil, err
	}

	grid := newMissingGrid(layers, nrows, ncols)
	layerStride := nrows * ncols
	for i := range rows {
		cell := (lays[i]-1)*layerStride + (rows[i]-1)*ncols + (cols[i] - 1)
		grid.Elements[cell] = values[i] * scale
	}
	return grid, nil
}

// ScatterInt2D is the integer-valued form of Scatter2D. The result is
// a flat row-major (layer, row, column) buffer with unvisited cells
// holding IMissing; values are written unscaled.
func ScatterInt2D(rows, cols []int, values []int32,
	layers, nrows, ncols int) ([]int32, error) {
	if err := checkScatterArgs(rows, cols, nil, len(values), 1, layers, nrows, ncols); err != nil {
		return nil, err
	}

	grid := make([]int32, layers*nrows*ncols)
	for i := range grid {
		grid[i] = IMissing
	}
	layerStride := nrows * ncols
	for i := range rows {
		cell := (rows[i]-1)*ncols + (cols[i] - 1)
		for l := 0; l < layers; l++ {
			grid[l*layerStride+cell] = values[i]
		}
	}
	return grid, nil
}

// Regrid composes the whole sparse-to-grid pipeline: project the
// geodetic points onto g's plane, locate them in the grid, and scatter
// the values of the points that fall inside. Points outside the grid
// are dropped.
func Regrid(p geoproj.Projector, g GridDef, lls []s2.LatLng,
	values []float64, scale float64) (*sparse.DenseArray, error) {
	if len(lls) != len(values) {
		return nil, fmt.Errorf("point count %d does not match value count %d", len(lls), len(values))
	}
	pts, err := geoproj.ProjectBatch(p, lls)
	if err != nil {
		return nil, err
	}
	rows, cols, inside := g.Locate(pts)

	krows := make([]int, 0, len(rows))
	kcols := make([]int, 0, len(cols))
	kvals := make([]float64, 0, len(values))
	for i := range inside {
		if !inside[i] {
			continue
		}
		krows = append(krows, rows[i])
		kcols = append(kcols, cols[i])
		kvals = append(kvals, values[i])
	}
	return Scatter2D(krows, kcols, kvals, scale, g.Layers, g.Rows, g.Columns)
}

// RegridLocations projects geodetic points and returns their 1-based
// grid locations, for callers that apply their own multi-point cell
// policy before scattering.
func RegridLocations(p geoproj.Projector, g GridDef, lls []s2.LatLng) (rows, cols []int, inside []bool, err error) {
	pts, err := geoproj.ProjectBatch(p, lls)
	if err != nil {
		return nil, nil, nil, err
	}
	rows, cols, inside = g.Locate(pts)
	return rows, cols, inside, nil
}

func newMissingGrid(layers, nrows, ncols int) *sparse.DenseArray {
	grid := sparse.ZerosDense(layers, nrows, ncols)
	for i := range grid.Elements {
		grid.Elements[i] = Missing
	}
	return grid
}

func checkScatterArgs(rows, cols, lays []int, nvalues int, scale float64,
	layers, nrows, ncols int) error {
	if layers <= 0 || nrows <= 0 || ncols <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", layers, nrows, ncols)
	}
	if len(rows) != len(cols) || len(rows) != nvalues {
		return fmt.Errorf("parallel arrays disagree: %d rows, %d columns, %d values",
			len(rows), len(cols), nvalues)
	}
	if lays != nil && len(lays) != len(rows) {
		return fmt.Errorf("parallel arrays disagree: %d rows, %d layers", len(rows), len(lays))
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("scale must be finite, got %g", scale)
	}
	for i := range rows {
		if rows[i] < 1 || rows[i] > nrows {
			return fmt.Errorf("point %d: row %d outside [1, %d]", i, rows[i], nrows)
		}
		if cols[i] < 1 || cols[i] > ncols {
			return fmt.Errorf("point %d: column %d outside [1, %d]", i, cols[i], ncols)
		}
		if lays != nil && (lays[i] < 1 || lays[i] > layers) {
			return fmt.Errorf("point %d: layer %d outside [1, %d]", i, lays[i], layers)
		}
	}
	return nil
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("point %d: value %g is not finite", i, v)
		}
	}
	return nil
}
