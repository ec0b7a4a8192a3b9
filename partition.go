/*
 * partition.go, part of molgrid.
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

package molgrid

import (
	"github.com/rmera/molgrid/grid"
)

//Part is one of the grids a box is split into.
type Part struct {
	Dims   grid.Dims
	Offset [3]int //voxel indexes, in the full box, of the first voxel of the part
}

//Partitioner splits the full box into the grids that are rasterized.
type Partitioner interface {
	Partition(D grid.Dims) ([]Part, error)
}

//Whole doesn't split the box.
type Whole struct{}

//Partition returns the full box as the only part.
func (W Whole) Partition(D grid.Dims) ([]Part, error) {
	return []Part{{Dims: D}}, nil
}

//Subgrids tiles the box with cubes of Dim A per side. Neighboring subgrids
//share Overlap planes of voxels. The parts are returned with x changing slowest
//and z fastest.
type Subgrids struct {
	Dim     float64
	Overlap int
}

//Partition splits D. The subgrids need to tile D exactly.
func (S Subgrids) Partition(D grid.Dims) ([]Part, error) {
	nsub, err := grid.Steps(S.Dim, D.Resolution)
	if err != nil {
		return nil, configError("Subgrids.Partition", err, "bad subgrid dimension")
	}
	nsub++
	n := D.N()
	stride := nsub - S.Overlap
	switch {
	case nsub > n:
		return nil, configError("Subgrids.Partition", nil, "subgrids of %d voxels don't fit in a box of %d", nsub, n)
	case S.Overlap < 0 || stride <= 0:
		return nil, configError("Subgrids.Partition", nil, "overlap %d too large for subgrids of %d voxels", S.Overlap, nsub)
	case (n-nsub)%stride != 0:
		return nil, configError("Subgrids.Partition", nil, "subgrids of %d voxels with an overlap of %d don't tile a box of %d voxels", nsub, S.Overlap, n)
	}
	per := (n-nsub)/stride + 1
	parts := make([]Part, 0, per*per*per)
	for gx := 0; gx < per; gx++ {
		for gy := 0; gy < per; gy++ {
			for gz := 0; gz < per; gz++ {
				o := [3]int{gx * stride, gy * stride, gz * stride}
				parts = append(parts, Part{Dims: D.Sub(o[0], o[1], o[2], nsub), Offset: o})
			}
		}
	}
	return parts, nil
}

func partitioner(O Options) Partitioner {
	if O.SubgridDim > 0 {
		return Subgrids{Dim: O.SubgridDim, Overlap: O.SubgridOverlap}
	}
	return Whole{}
}
