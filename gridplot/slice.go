/*
 * slice.go, part of molgrid.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package gridplot renders slices of molgrid grids as heat maps, to check by eye
what the network will see.*/
package gridplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rmera/molgrid/grid"
)

var axisNames = [3]string{"x", "y", "z"}

//Slice is a plane of a grid perpendicular to one of the axes.
//It implements plotter.GridXYZ.
type Slice struct {
	D     grid.Dims
	G     *grid.Grid
	Axis  int //0, 1 or 2 for x, y or z
	Index int //voxel index along Axis
}

//the two axes that span the plane.
func (S *Slice) axes() (int, int) {
	switch S.Axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}

func (S *Slice) voxel(c, r int) (i, j, k int) {
	var idx [3]int
	a, b := S.axes()
	idx[S.Axis] = S.Index
	idx[a] = c
	idx[b] = r
	return idx[0], idx[1], idx[2]
}

//Dims returns the number of columns and rows of the slice.
func (S *Slice) Dims() (c, r int) { return S.G.N, S.G.N }

//Z returns the grid value at column c, row r.
func (S *Slice) Z(c, r int) float64 {
	return float64(S.G.At(S.voxel(c, r)))
}

//X returns the coordinate of column c.
func (S *Slice) X(c int) float64 {
	a, _ := S.axes()
	return S.D.Coord(a, c)
}

//Y returns the coordinate of row r.
func (S *Slice) Y(r int) float64 {
	_, b := S.axes()
	return S.D.Coord(b, r)
}

//Plot returns a heat map plot of the slice.
func (S *Slice) Plot(title string) (*plot.Plot, error) {
	if S.Axis < 0 || S.Axis > 2 {
		return nil, fmt.Errorf("gridplot: invalid axis %d", S.Axis)
	}
	if S.Index < 0 || S.Index >= S.G.N {
		return nil, fmt.Errorf("gridplot: slice %d out of a grid with %d voxels per side", S.Index, S.G.N)
	}
	if S.D.N() != S.G.N {
		return nil, fmt.Errorf("gridplot: grid of size %d with dimensions of size %d", S.G.N, S.D.N())
	}
	p := plot.New()
	p.Title.Text = title
	a, b := S.axes()
	p.X.Label.Text = axisNames[a] + " (A)"
	p.Y.Label.Text = axisNames[b] + " (A)"
	h := plotter.NewHeatMap(S, palette.Heat(32, 1))
	//a constant slice, typically all zeros, would give the palette no range.
	if h.Min == h.Max {
		h.Max = h.Min + 1
	}
	p.Add(h)
	return p, nil
}

//SaveSlice saves a PNG (or any other format gonum/plot infers from the extension of fname)
//heat map of the plane Index along Axis of g.
func SaveSlice(fname string, D grid.Dims, g *grid.Grid, axis, index int, title string) error {
	S := &Slice{D: D, G: g, Axis: axis, Index: index}
	p, err := S.Plot(title)
	if err != nil {
		return err
	}
	return p.Save(12*vg.Centimeter, 12*vg.Centimeter, fname)
}
