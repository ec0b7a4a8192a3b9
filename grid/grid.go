/*
 * grid.go, part of molgrid.
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

package grid

import "fmt"

//Grid is a dense cube of voxel values, stored in a flat slice.
//The x index changes slowest and the z index fastest.
type Grid struct {
	N    int
	Data []float32
}

//New returns a zero-filled grid with n voxels per side.
func New(n int) *Grid {
	if n <= 0 {
		panic("grid: non-positive grid size")
	}
	return &Grid{N: n, Data: make([]float32, n*n*n)}
}

//Idx returns the index in Data of the voxel (i,j,k).
func (G *Grid) Idx(i, j, k int) int {
	return (i*G.N+j)*G.N + k
}

//Coords returns the i,j,k voxel indexes from a Data index.
func (G *Grid) Coords(idx int) (i, j, k int) {
	k = idx % G.N
	j = (idx / G.N) % G.N
	i = idx / (G.N * G.N)
	return i, j, k
}

//BoundsCheck returns true if the given indexes are within the Grid.
func (G *Grid) BoundsCheck(i, j, k int) bool {
	return i >= 0 && j >= 0 && k >= 0 && i < G.N && j < G.N && k < G.N
}

func (G *Grid) At(i, j, k int) float32 {
	return G.Data[G.Idx(i, j, k)]
}

func (G *Grid) Set(i, j, k int, v float32) {
	G.Data[G.Idx(i, j, k)] = v
}

//Zero sets every voxel to 0.
func (G *Grid) Zero() {
	clear(G.Data)
}

//Copy copies the voxels of A into the receiver. Both must have the same size.
func (G *Grid) Copy(A *Grid) {
	if A.N != G.N {
		panic(fmt.Sprintf("grid: can't copy a grid of size %d into one of size %d", A.N, G.N))
	}
	copy(G.Data, A.Data)
}

//Clone returns a copy of G.
func (G *Grid) Clone() *Grid {
	ret := New(G.N)
	ret.Copy(G)
	return ret
}

//Equal returns true if both grids have exactly the same values.
func (G *Grid) Equal(A *Grid) bool {
	if A.N != G.N {
		return false
	}
	for i, v := range G.Data {
		if A.Data[i] != v {
			return false
		}
	}
	return true
}

//IsZero returns true if every voxel is 0.
func (G *Grid) IsZero() bool {
	for _, v := range G.Data {
		if v != 0 {
			return false
		}
	}
	return true
}

//Extract copies into dest the cube of dest.N voxels per side whose
//first voxel is the voxel (i,j,k) of G.
func (G *Grid) Extract(dest *Grid, i, j, k int) {
	if i+dest.N > G.N || j+dest.N > G.N || k+dest.N > G.N {
		panic("grid: extracted subgrid out of bounds")
	}
	n := dest.N
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			src := G.Idx(i+a, j+b, k)
			copy(dest.Data[dest.Idx(a, b, 0):dest.Idx(a, b, 0)+n], G.Data[src:src+n])
		}
	}
}
