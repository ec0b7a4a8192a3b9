/*
 * kernel.go, part of molgrid.
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

/*Package gridmaker rasterizes atoms into voxel grids.

There are two implementations of the same algorithm: a sequential one that runs
on the host (SetAtomsCPU) and a data-parallel one that works on device
buffers with atomic accumulation (SetAtomsGPU). Both call rasterAtom, so they
only differ in the order in which the contributions of different atoms to the
same voxel are added.*/
package gridmaker

import (
	"math"

	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/transform"
	"gonum.org/v1/gonum/spatial/r3"
)

//1/e^2, the value of the Gaussian part at dist==radius.
var invE2 = math.Exp(-2)

//Density returns the contribution of an atom of the given radius to a voxel
//at distance dist from it. Up to the radius the density is a Gaussian
//exp(-2d^2/r^2). Between r and 1.5r it is the quadratic that matches the
//value and slope of the Gaussian at r and goes to zero at 1.5r. Nothing
//beyond radius*radiusMultiple is touched. In binary mode, every voxel within
//radius*radiusMultiple is occupied.
func Density(dist, radius, radiusMultiple float64, binary bool) float32 {
	if radius <= 0 || dist >= radius*radiusMultiple {
		return 0
	}
	if binary {
		return 1
	}
	if dist <= radius {
		return float32(math.Exp(-2 * dist * dist / (radius * radius)))
	}
	if dist >= 1.5*radius {
		return 0
	}
	dr := dist / radius
	q := (4*dr*dr - 12*dr + 9) * invE2
	if q < 0 {
		return 0
	}
	return float32(q)
}

//AtomInfo is an atom as the rasterizer sees it.
type AtomInfo struct {
	X, Y, Z float32
	Radius  float32
	Channel int16
}

//Pos returns the position of the atom.
func (A AtomInfo) Pos() r3.Vec {
	return r3.Vec{X: float64(A.X), Y: float64(A.Y), Z: float64(A.Z)}
}

//Maker holds what the rasterizer needs to know about the grids it writes to.
type Maker struct {
	Dims           grid.Dims
	RadiusMultiple float64
	Binary         bool
}

//rasterAtom transforms a, and calls emit with the index and value of each voxel it contributes to.
func (G *Maker) rasterAtom(a AtomInfo, center r3.Vec, T transform.Transform, emit func(idx int, v float32)) {
	p := T.Apply(a.Pos(), center)
	r := float64(a.Radius)
	ar := r * G.RadiusMultiple
	n := G.Dims.N()
	xlo, xhi := G.Dims.Range(0, p.X, ar)
	ylo, yhi := G.Dims.Range(1, p.Y, ar)
	zlo, zhi := G.Dims.Range(2, p.Z, ar)
	for i := xlo; i < xhi; i++ {
		dx := G.Dims.Coord(0, i) - p.X
		for j := ylo; j < yhi; j++ {
			dy := G.Dims.Coord(1, j) - p.Y
			for k := zlo; k < zhi; k++ {
				dz := G.Dims.Coord(2, k) - p.Z
				v := Density(math.Sqrt(dx*dx+dy*dy+dz*dz), r, G.RadiusMultiple, G.Binary)
				if v != 0 {
					emit((i*n+j)*n+k, v)
				}
			}
		}
	}
}

func (G *Maker) checkGrids(atoms []AtomInfo, grids []*grid.Grid) {
	n := G.Dims.N()
	for _, g := range grids {
		if g.N != n {
			panic("gridmaker: grid size doesn't match the Maker's dimensions")
		}
	}
	for _, a := range atoms {
		if a.Channel < 0 || int(a.Channel) >= len(grids) {
			panic("gridmaker: atom channel out of range")
		}
	}
}

//SetAtomsCPU zeroes grids and then rasterizes atoms into them sequentially, each atom
//into grids[atom.Channel], after applying T about center.
func (G *Maker) SetAtomsCPU(atoms []AtomInfo, center r3.Vec, T transform.Transform, grids []*grid.Grid) {
	G.checkGrids(atoms, grids)
	for _, g := range grids {
		g.Zero()
	}
	for _, a := range atoms {
		data := grids[a.Channel].Data
		if G.Binary {
			G.rasterAtom(a, center, T, func(idx int, v float32) {
				if v > data[idx] {
					data[idx] = v
				}
			})
			continue
		}
		G.rasterAtom(a, center, T, func(idx int, v float32) {
			data[idx] += v
		})
	}
}
