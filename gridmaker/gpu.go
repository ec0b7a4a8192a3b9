/*
 * gpu.go, part of molgrid.
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

package gridmaker

import (
	"math"
	"sync/atomic"

	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/transform"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	atomInfoSize = 4*4 + 2
	voxelSize    = 4
)

//DeviceGrids holds the device-resident copy of one set of atoms and of the grids
//they are rasterized into. Its buffers are sized on the first use and then only
//reallocated when the number of atoms or channels changes.
type DeviceGrids struct {
	dev     *Device
	atoms   *Buffer[AtomInfo]
	voxels  *Buffer[uint32]
	staging []float32
}

//NewDeviceGrids returns an empty set of device buffers on dev.
func NewDeviceGrids(dev *Device) *DeviceGrids {
	return &DeviceGrids{
		dev:    dev,
		atoms:  &Buffer[AtomInfo]{dev: dev, elemSize: atomInfoSize},
		voxels: &Buffer[uint32]{dev: dev, elemSize: voxelSize},
	}
}

//Allocs returns how many times the atom and the voxel buffers have been allocated.
func (D *DeviceGrids) Allocs() (atoms, voxels int) {
	return D.atoms.Allocs(), D.voxels.Allocs()
}

//Close frees the device memory.
func (D *DeviceGrids) Close() {
	if D == nil {
		return
	}
	D.atoms.Close()
	D.voxels.Close()
	D.staging = nil
}

//Upload copies atoms to the device, resizing the atom buffer if needed.
func (D *DeviceGrids) Upload(atoms []AtomInfo) error {
	if err := D.atoms.Ensure(len(atoms)); err != nil {
		return err
	}
	copy(D.atoms.data, atoms)
	return nil
}

//SetAtomsGPU does the same as SetAtomsCPU, on dev. The atoms must have been uploaded to
//dg with Upload. Every device buffer is reused if the number of atoms and channels didn't change.
func (G *Maker) SetAtomsGPU(dg *DeviceGrids, center r3.Vec, T transform.Transform, grids []*grid.Grid) error {
	dev := dg.dev
	atoms := dg.atoms.data
	G.checkGrids(atoms, grids)
	vol := G.Dims.Volume()
	if err := dg.voxels.Ensure(vol * len(grids)); err != nil {
		return err
	}
	voxels := dg.voxels.data
	clear(voxels)
	if len(atoms) > 0 {
		var eg errgroup.Group
		eg.SetLimit(dev.Workers())
		chunk := (len(atoms) + dev.Workers() - 1) / dev.Workers()
		for lo := 0; lo < len(atoms); lo += chunk {
			lo := lo
			hi := min(lo+chunk, len(atoms))
			eg.Go(func() error {
				for _, a := range atoms[lo:hi] {
					dst := voxels[int(a.Channel)*vol : int(a.Channel+1)*vol]
					if G.Binary {
						G.rasterAtom(a, center, T, func(idx int, v float32) { atomicMaxFloat32(&dst[idx], v) })
					} else {
						G.rasterAtom(a, center, T, func(idx int, v float32) { atomicAddFloat32(&dst[idx], v) })
					}
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	s := dg.copyToHost(grids, vol)
	s.Synchronize()
	return nil
}

//copyToHost copies the device voxels into the host grids. With pinned memory the copy
//goes straight into the grids, asynchronously. Otherwise it goes through a
//staging buffer, and the returned stream is already complete.
func (D *DeviceGrids) copyToHost(grids []*grid.Grid, vol int) *Stream {
	s := new(Stream)
	voxels := D.voxels.data
	if D.dev.Pinned() {
		for c, g := range grids {
			src := voxels[c*vol : (c+1)*vol]
			data := g.Data
			s.launch(func() {
				for i, v := range src {
					data[i] = math.Float32frombits(v)
				}
			})
		}
		return s
	}
	if len(D.staging) != vol {
		D.staging = make([]float32, vol)
	}
	for c, g := range grids {
		for i, v := range voxels[c*vol : (c+1)*vol] {
			D.staging[i] = math.Float32frombits(v)
		}
		copy(g.Data, D.staging)
	}
	return s
}

func atomicAddFloat32(addr *uint32, v float32) {
	for {
		old := atomic.LoadUint32(addr)
		nv := math.Float32bits(math.Float32frombits(old) + v)
		if atomic.CompareAndSwapUint32(addr, old, nv) {
			return
		}
	}
}

func atomicMaxFloat32(addr *uint32, v float32) {
	for {
		old := atomic.LoadUint32(addr)
		if math.Float32frombits(old) >= v {
			return
		}
		if atomic.CompareAndSwapUint32(addr, old, math.Float32bits(v)) {
			return
		}
	}
}
