/*
 * gridder.go, part of molgrid.
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
	"errors"
	"math"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/molgrid/atomtype"
	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/gridio"
	"github.com/rmera/molgrid/gridmaker"
	"github.com/rmera/molgrid/mol"
	"github.com/rmera/molgrid/transform"
)

//user grids must agree on their centers within this tolerance, in A.
const userCenterTol = 1e-4

//Gridder turns models into multi-channel grids: receptor channels, then ligand
//channels, then user channels, for each part of the box. A Gridder is not safe
//for concurrent use.
type Gridder struct {
	opt            Options
	log            logrus.FieldLogger
	recMap, ligMap *atomtype.Map
	part           Partitioner

	dims  grid.Dims
	parts []Part
	//[part][channel]
	rec, lig, user [][]*grid.Grid
	userFull       []*grid.Grid
	userNames      []string
	fixedBox       bool //the box doesn't follow the ligand

	recAtoms, ligAtoms []gridmaker.AtomInfo
	recIdx, ligIdx     []int //index in the molecule of each AtomInfo
	recUsed, ligUsed   []gridmaker.AtomInfo

	gen      *transform.Generator
	T        transform.Transform
	invalid  bool //all grids need to be recomputed
	modelSet bool

	dev            *gridmaker.Device
	recDev, ligDev []*gridmaker.DeviceGrids //one per part

	gridIdx int
}

//New returns a Gridder with the given options. If log is nil, the standard logrus
//logger is used.
func New(opt Options, log logrus.FieldLogger) (*Gridder, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := opt.CheckInit(); err != nil {
		return nil, errDecorate(err, "New")
	}
	G := &Gridder{opt: opt, log: log, part: partitioner(opt), T: transform.Identity()}
	var err error
	G.recMap, err = typeMap(opt.ReceptorMap, opt.ReceptorTypes, atomtype.DefaultReceptorMap)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	G.ligMap, err = typeMap(opt.LigandMap, opt.LigandTypes, atomtype.DefaultLigandMap)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	center := opt.Center
	G.fixedBox = opt.HasCenter
	if len(opt.UserGrids) > 0 {
		center, err = G.readUserGrids()
		if err != nil {
			return nil, errDecorate(err, "New")
		}
		G.fixedBox = true
	}
	if opt.GPU {
		G.dev = gridmaker.NewDevice(gridmaker.DeviceConfig{
			Enabled:     true,
			Workers:     opt.Workers,
			MemoryLimit: opt.DeviceMemory,
			Pinned:      opt.Pinned,
		})
	}
	if err := G.setDims(center); err != nil {
		return nil, errDecorate(err, "New")
	}
	G.gen = transform.NewGenerator(opt.Seed, opt.RandRotate, opt.RandTranslate)
	G.log.WithFields(logrus.Fields{
		"box":         G.dims.String(),
		"subgrids":    len(G.parts),
		"channels":    G.NChannels(),
		"device":      opt.GPU,
		"binary":      opt.Binary,
		"augmented":   G.gen.Enabled(),
		"auto-center": !G.fixedBox,
	}).Info("molgrid: gridder initialized")
	return G, nil
}

func typeMap(fname string, given *atomtype.Map, def func() *atomtype.Map) (*atomtype.Map, error) {
	switch {
	case fname != "":
		m, err := atomtype.ReadMap(fname)
		if err != nil {
			return nil, configError("typeMap", err, "can't read type map %s", fname)
		}
		return m, nil
	case given != nil:
		return given, nil
	}
	return def(), nil
}

//readUserGrids reads the OpenDX user grids, which have to share their geometry.
//It returns the center of the box, and sets the resolution and dimension.
func (G *Gridder) readUserGrids() ([3]float64, error) {
	var center [3]float64
	for i, fname := range G.opt.UserGrids {
		f, err := gridio.Open(fname)
		if err != nil {
			return center, configError("readUserGrids", err, "can't open user grid")
		}
		dx, err := gridio.ReadDX(f)
		f.Close()
		if err != nil {
			return center, configError("readUserGrids", err, "can't read user grid %s", fname)
		}
		if i == 0 {
			center = dx.Center
			G.opt.Resolution = dx.Resolution
			G.opt.Dimension = float64(dx.Grid.N-1) * dx.Resolution
		} else {
			same := dx.Grid.N == G.userFull[0].N && math.Abs(dx.Resolution-G.opt.Resolution) < 1e-6
			for j := range center {
				same = same && math.Abs(dx.Center[j]-center[j]) < userCenterTol
			}
			if !same {
				return center, configError("readUserGrids", nil, "user grid %s doesn't match the geometry of %s", fname, G.opt.UserGrids[0])
			}
		}
		G.userFull = append(G.userFull, dx.Grid)
		base := filepath.Base(fname)
		for _, ext := range []string{".gz", ".zst", ".dx"} {
			base = strings.TrimSuffix(base, ext)
		}
		G.userNames = append(G.userNames, base)
	}
	return center, nil
}

//setDims sets the box for the given center, splits it and allocates the grids
//if needed. Nothing is invalidated if the box doesn't change.
func (G *Gridder) setDims(center [3]float64) error {
	D, err := grid.NewDims(center, G.opt.Dimension, G.opt.Resolution)
	if err != nil {
		return configError("setDims", err, "invalid box")
	}
	if G.parts != nil && D == G.dims {
		return nil
	}
	parts, err := G.part.Partition(D)
	if err != nil {
		return errDecorate(err, "setDims")
	}
	realloc := len(parts) != len(G.parts) || parts[0].Dims.N() != G.parts[0].Dims.N()
	G.dims = D
	G.parts = parts
	G.invalid = true
	if !realloc {
		return nil
	}
	n := parts[0].Dims.N()
	alloc := func(nch int) [][]*grid.Grid {
		ret := make([][]*grid.Grid, len(parts))
		for p := range ret {
			ret[p] = make([]*grid.Grid, nch)
			for c := range ret[p] {
				ret[p][c] = grid.New(n)
			}
		}
		return ret
	}
	G.rec = alloc(G.recMap.NChannels())
	G.lig = alloc(G.ligMap.NChannels())
	G.user = alloc(len(G.userFull))
	for p, part := range parts {
		for u, full := range G.userFull {
			if len(parts) == 1 {
				G.user[p][u] = full
				continue
			}
			full.Extract(G.user[p][u], part.Offset[0], part.Offset[1], part.Offset[2])
		}
	}
	if G.dev != nil {
		G.closeDevice()
		G.recDev = make([]*gridmaker.DeviceGrids, len(parts))
		G.ligDev = make([]*gridmaker.DeviceGrids, len(parts))
		for p := range parts {
			G.recDev[p] = gridmaker.NewDeviceGrids(G.dev)
			G.ligDev[p] = gridmaker.NewDeviceGrids(G.dev)
		}
	}
	if G.gridIdx >= len(parts) {
		G.gridIdx = 0
	}
	return nil
}

//SetCenter moves the box so it is centered at (x,y,z). All the grids
//are recomputed on the next call to SetModel. The box stops following the ligand.
func (G *Gridder) SetCenter(x, y, z float64) error {
	if len(G.userFull) > 0 {
		return configError("SetCenter", nil, "the box is fixed by the user grids")
	}
	c := [3]float64{x, y, z}
	if err := G.setDims(c); err != nil {
		return errDecorate(err, "SetCenter")
	}
	G.opt.Center, G.opt.HasCenter = c, true
	G.fixedBox = true
	G.invalid = true
	return nil
}

//atomInfo returns the rasterizer atoms for the atoms in m that M maps to a channel,
//and their indexes in m.
func (G *Gridder) atomInfo(m *mol.Molecule, M *atomtype.Map, which string) ([]gridmaker.AtomInfo, []int) {
	n := m.Len()
	atoms := make([]gridmaker.AtomInfo, 0, n)
	idx := make([]int, 0, n)
	untyped := 0
	for i := 0; i < n; i++ {
		t := m.Atom(i).Type
		if !t.Valid() {
			untyped++
			continue
		}
		ch := M.Channel(t)
		if ch < 0 {
			continue
		}
		p := m.Pos(i)
		atoms = append(atoms, gridmaker.AtomInfo{
			X:       float32(p.X),
			Y:       float32(p.Y),
			Z:       float32(p.Z),
			Radius:  float32(t.Radius(G.opt.UseCovalentRadius)),
			Channel: int16(ch),
		})
		idx = append(idx, i)
	}
	if untyped > 0 {
		G.log.WithFields(logrus.Fields{"molecule": which, "untyped": untyped}).Debug("molgrid: skipped untyped atoms")
	}
	return atoms, idx
}

func (G *Gridder) center() r3.Vec {
	c := G.dims.Center()
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}

//inBox returns the atoms whose influence sphere, after the current transform, touches the box
//(within the tolerance), and appends the others to outside.
func (G *Gridder) inBox(atoms []gridmaker.AtomInfo, idx []int, ligand bool, outside []OutsideAtom) ([]gridmaker.AtomInfo, []OutsideAtom) {
	c := G.center()
	var in []gridmaker.AtomInfo
	for i, a := range atoms {
		p := G.T.Apply(a.Pos(), c)
		d := G.dims.Outside([3]float64{p.X, p.Y, p.Z}, float64(a.Radius)*G.opt.RadiusMultiple)
		if d > G.opt.OutsideTolerance {
			if in == nil {
				in = make([]gridmaker.AtomInfo, i, len(atoms))
				copy(in, atoms[:i])
			}
			outside = append(outside, OutsideAtom{Ligand: ligand, Index: idx[i], Distance: d})
			continue
		}
		if in != nil {
			in = append(in, a)
		}
	}
	if in == nil {
		return atoms, outside
	}
	return in, outside
}

//SetModel grids the model m. The receptor and ligand atoms are re-read from m on the first call
//and when reinitReceptor or reinitLigand are set, respectively. A new random transform
//is applied, if augmentation is on. The receptor is only rasterized again if it was re-read,
//the box changed or the transform is not the identity. The ligand is always rasterized.
//Atoms outside of the box are dropped, and reported in a *GeometryError once the grids are complete.
//If SetModel fails, all the grids are recomputed on the next call.
func (G *Gridder) SetModel(m Model, reinitLigand, reinitReceptor bool) error {
	fail := func(err error) error {
		G.invalid = true
		return errDecorate(err, "SetModel")
	}
	first := !G.modelSet
	recChanged := false
	if reinitReceptor || first {
		G.recAtoms, G.recIdx = G.atomInfo(m.Receptor(), G.recMap, "receptor")
		recChanged = true
	}
	if reinitLigand || first {
		lig := m.Ligand()
		G.ligAtoms, G.ligIdx = G.atomInfo(lig, G.ligMap, "ligand")
		if !G.fixedBox && lig.Len() > 0 {
			c := lig.Center()
			if err := G.setDims([3]float64{c.X, c.Y, c.Z}); err != nil {
				return fail(err)
			}
		}
	}
	G.T = G.gen.Next()
	doRec := recChanged || G.invalid || !G.T.IsIdentity()
	var outside []OutsideAtom
	G.ligUsed, outside = G.inBox(G.ligAtoms, G.ligIdx, true, outside)
	G.recUsed = G.recAtoms
	if G.opt.CheckReceptorBounds {
		G.recUsed, outside = G.inBox(G.recAtoms, G.recIdx, false, outside)
	}
	for p := range G.parts {
		if doRec {
			if err := G.rasterize(p, G.recUsed, G.rec[p], G.recDev); err != nil {
				return fail(err)
			}
		}
		if err := G.rasterize(p, G.ligUsed, G.lig[p], G.ligDev); err != nil {
			return fail(err)
		}
	}
	G.invalid = false
	G.modelSet = true
	if len(outside) > 0 {
		G.log.WithFields(logrus.Fields{"dropped": len(outside), "box": G.dims.String()}).Debug("molgrid: atoms outside of the box")
		return &GeometryError{Atoms: outside, deco: deco{"SetModel"}}
	}
	return nil
}

//rasterize grids atoms into the grids of part p, on the device if there is one.
func (G *Gridder) rasterize(p int, atoms []gridmaker.AtomInfo, grids []*grid.Grid, devs []*gridmaker.DeviceGrids) error {
	mk := &gridmaker.Maker{Dims: G.parts[p].Dims, RadiusMultiple: G.opt.RadiusMultiple, Binary: G.opt.Binary}
	if G.dev == nil {
		mk.SetAtomsCPU(atoms, G.center(), G.T, grids)
		return nil
	}
	if err := devs[p].Upload(atoms); err != nil {
		return allocError(err, "rasterize")
	}
	if err := mk.SetAtomsGPU(devs[p], G.center(), G.T, grids); err != nil {
		return allocError(err, "rasterize")
	}
	return nil
}

func allocError(err error, caller string) error {
	var ae *gridmaker.AllocError
	if errors.As(err, &ae) {
		return &AllocationError{Err: ae, deco: deco{caller}}
	}
	return err
}

//NChannels returns the number of channels per grid: receptor, ligand and user channels.
func (G *Gridder) NChannels() int {
	return G.recMap.NChannels() + G.ligMap.NChannels() + len(G.userFull)
}

//ChannelNames returns the names of all channels, in output order.
func (G *Gridder) ChannelNames() []string {
	ret := make([]string, 0, G.NChannels())
	for c := 0; c < G.recMap.NChannels(); c++ {
		ret = append(ret, "rec_"+G.recMap.Name(c))
	}
	for c := 0; c < G.ligMap.NChannels(); c++ {
		ret = append(ret, "lig_"+G.ligMap.Name(c))
	}
	return append(ret, G.userNames...)
}

//Dims returns the geometry of the full box.
func (G *Gridder) Dims() grid.Dims { return G.dims }

//PartDims returns the geometry of the grid idx.
func (G *Gridder) PartDims(idx int) grid.Dims { return G.parts[idx].Dims }

//Transform returns the transform applied in the last call to SetModel.
func (G *Gridder) Transform() transform.Transform { return G.T }

//NGrids returns the number of grids (subgrids) the box is split into.
func (G *Gridder) NGrids() int { return len(G.parts) }

//SetGridIdx selects the grid returned by Channel.
func (G *Gridder) SetGridIdx(idx int) error {
	if idx < 0 || idx >= len(G.parts) {
		return configError("SetGridIdx", nil, "grid index %d out of range [0,%d)", idx, len(G.parts))
	}
	G.gridIdx = idx
	return nil
}

//GridIdx returns the currently selected grid.
func (G *Gridder) GridIdx() int { return G.gridIdx }

//Grid returns the channel ch of the grid idx. Channels are numbered as in ChannelNames.
//It panics if either index is out of range.
func (G *Gridder) Grid(idx, ch int) *grid.Grid {
	nrec, nlig := len(G.rec[idx]), len(G.lig[idx])
	switch {
	case ch < nrec:
		return G.rec[idx][ch]
	case ch < nrec+nlig:
		return G.lig[idx][ch-nrec]
	}
	return G.user[idx][ch-nrec-nlig]
}

//Channel returns the channel ch of the selected grid.
func (G *Gridder) Channel(ch int) *grid.Grid {
	return G.Grid(G.gridIdx, ch)
}

func (G *Gridder) closeDevice() {
	for p := range G.recDev {
		G.recDev[p].Close()
		G.ligDev[p].Close()
	}
}

//Close frees the device memory held by the Gridder. After Close, the
//Gridder only uses the host path.
func (G *Gridder) Close() {
	G.closeDevice()
	G.recDev, G.ligDev = nil, nil
	G.dev = nil
}
