/*
 * dims.go, part of molgrid.
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

/*Package grid holds the geometry of the cubic boxes molgrid rasterizes into,
and the dense voxel grids themselves.*/
package grid

import (
	"fmt"
	"math"
)

//Tolerance used to decide whether a dimension is a multiple of the resolution.
const multipleTol = 1e-6

//Dim is one axis of a grid box. N is the number of voxels (points) along the axis,
//the first one at Begin and the last one at End.
type Dim struct {
	Begin, End float64
	N          int
}

//Dims is the geometry of a cubic box.
type Dims struct {
	Axis       [3]Dim
	Resolution float64
}

//NewDims returns the geometry of a cube of side dimension, centered at center,
//with voxels separated by resolution. dimension must be a multiple of resolution.
func NewDims(center [3]float64, dimension, resolution float64) (Dims, error) {
	var D Dims
	if resolution <= 0 || math.IsNaN(resolution) {
		return D, Error{fmt.Sprintf("Resolution must be positive, got %g", resolution), []string{"NewDims"}, true}
	}
	if dimension <= 0 || math.IsNaN(dimension) {
		return D, Error{fmt.Sprintf("Dimension must be positive, got %g", dimension), []string{"NewDims"}, true}
	}
	steps, err := Steps(dimension, resolution)
	if err != nil {
		return D, errDecorate(err, "NewDims")
	}
	for i, c := range center {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return D, Error{fmt.Sprintf("Invalid center coordinate %d: %g", i, c), []string{"NewDims"}, true}
		}
	}
	D.Resolution = resolution
	half := float64(steps) * resolution / 2
	for i := 0; i < 3; i++ {
		D.Axis[i] = Dim{Begin: center[i] - half, End: center[i] + half, N: steps + 1}
	}
	return D, nil
}

//Steps returns the number of resolution-sized intervals in length, or an error if length
//is not (within a small tolerance) a multiple of resolution.
func Steps(length, resolution float64) (int, error) {
	q := length / resolution
	r := math.Round(q)
	if r < 1 || math.Abs(q-r) > multipleTol*math.Max(1, q) {
		return 0, Error{fmt.Sprintf("%g is not a multiple of the resolution %g", length, resolution), []string{"Steps"}, true}
	}
	return int(r), nil
}

//N returns the number of voxels per axis.
func (D Dims) N() int {
	return D.Axis[0].N
}

//Volume returns the number of voxels in the box.
func (D Dims) Volume() int {
	n := D.N()
	return n * n * n
}

//Dimension returns the side of the cube in Angstroms.
func (D Dims) Dimension() float64 {
	return D.Axis[0].End - D.Axis[0].Begin
}

//Center returns the center of the box.
func (D Dims) Center() [3]float64 {
	var c [3]float64
	for i, d := range D.Axis {
		c[i] = (d.Begin + d.End) / 2
	}
	return c
}

//Origin returns the coordinates of the first voxel.
func (D Dims) Origin() [3]float64 {
	return [3]float64{D.Axis[0].Begin, D.Axis[1].Begin, D.Axis[2].Begin}
}

//Coord returns the coordinate, along axis, of the voxel with index i.
func (D Dims) Coord(axis, i int) float64 {
	return D.Axis[axis].Begin + float64(i)*D.Resolution
}

//Range returns the range [lo,hi) of voxel indexes along axis that a sphere
//of radius r centered at c can touch.
func (D Dims) Range(axis int, c, r float64) (lo, hi int) {
	d := D.Axis[axis]
	low := c - r - d.Begin
	if low > 0 {
		lo = int(math.Floor(low / D.Resolution))
	}
	high := c + r - d.Begin
	if high > 0 {
		hi = int(math.Ceil(high / D.Resolution))
		if hi > d.N {
			hi = d.N
		}
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

//Outside returns how far a sphere of radius r centered in p lies outside
//of the box. The value is zero or negative if the sphere touches the box.
func (D Dims) Outside(p [3]float64, r float64) float64 {
	var out float64
	for i, d := range D.Axis {
		var o float64
		if p[i] < d.Begin {
			o = d.Begin - p[i]
		} else if p[i] > d.End {
			o = p[i] - d.End
		}
		out += o * o
	}
	return math.Sqrt(out) - r
}

//Sub returns the geometry of the cube of n voxels per side whose first
//voxel is the voxel (i,j,k) of D.
func (D Dims) Sub(i, j, k, n int) Dims {
	var S Dims
	S.Resolution = D.Resolution
	for a, o := range [3]int{i, j, k} {
		b := D.Coord(a, o)
		S.Axis[a] = Dim{Begin: b, End: b + float64(n-1)*D.Resolution, N: n}
	}
	return S
}

//String returns a short description of the box.
func (D Dims) String() string {
	c := D.Center()
	return fmt.Sprintf("%d^3 voxels, resolution %g, center (%.3f, %.3f, %.3f)", D.N(), D.Resolution, c[0], c[1], c[2])
}
