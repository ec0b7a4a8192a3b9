/*
 * options.go, part of molgrid.
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
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/rmera/molgrid/atomtype"
)

//Options holds everything that defines a Gridder. Use DefaultOptions
//to get a usable set of values.
type Options struct {
	Resolution     float64 //voxel side, in A
	Dimension      float64 //box side, in A
	RadiusMultiple float64 //atoms touch voxels up to Radius*RadiusMultiple from them

	//Box center. If HasCenter is false, the box is centered on each new ligand.
	Center    [3]float64
	HasCenter bool

	Binary            bool //occupancy instead of densities
	UseCovalentRadius bool //covalent radii instead of the XS ones

	//Files with the receptor and ligand type maps. If empty,
	//ReceptorTypes and LigandTypes are used, and if those are nil, the defaults.
	ReceptorMap, LigandMap     string
	ReceptorTypes, LigandTypes *atomtype.Map

	//OpenDX files with grids that are added, unchanged, after the molecular
	//channels. They set the box center and resolution.
	UserGrids []string

	RandRotate    bool
	RandTranslate float64 //maximum random translation, in A
	Seed          int64

	GPU          bool  //use the device path
	Workers      int   //device workers, 0 means one per CPU
	DeviceMemory int64 //bytes, 0 means no limit
	Pinned       bool  //asynchronous device to host copies

	//If SubgridDim > 0, the box is split into cubic subgrids with
	//sides of SubgridDim A that share SubgridOverlap planes of voxels.
	SubgridDim     float64
	SubgridOverlap int

	//Atoms whose influence sphere is further than OutsideTolerance A
	//from the box are dropped and reported. Receptor atoms are only
	//checked if CheckReceptorBounds is set.
	OutsideTolerance    float64
	CheckReceptorBounds bool

	//Tolerances for CPUSetModelCheck
	AbsEpsilon, RelEpsilon float64

	Timeit bool //log the time taken by each model
}

//DefaultOptions returns the default options: a 24 A box with 0.5 A resolution.
func DefaultOptions() Options {
	return Options{
		Resolution:     0.5,
		Dimension:      24,
		RadiusMultiple: 1.5,
		Seed:           1,
		SubgridOverlap: 1,
		AbsEpsilon:     1e-5,
		RelEpsilon:     1e-4,
	}
}

//CheckInit checks that the options are consistent.
func (O *Options) CheckInit() error {
	switch {
	case O.Resolution <= 0:
		return configError("CheckInit", nil, "resolution must be positive, not %g", O.Resolution)
	case O.Dimension <= 0 && len(O.UserGrids) == 0:
		return configError("CheckInit", nil, "dimension must be positive, not %g", O.Dimension)
	case O.RadiusMultiple <= 0:
		return configError("CheckInit", nil, "radius multiple must be positive, not %g", O.RadiusMultiple)
	case O.RandTranslate < 0:
		return configError("CheckInit", nil, "negative random translation %g", O.RandTranslate)
	case O.SubgridDim < 0:
		return configError("CheckInit", nil, "negative subgrid dimension %g", O.SubgridDim)
	case O.SubgridOverlap < 0:
		return configError("CheckInit", nil, "negative subgrid overlap %d", O.SubgridOverlap)
	case O.OutsideTolerance < 0:
		return configError("CheckInit", nil, "negative outside tolerance %g", O.OutsideTolerance)
	case O.AbsEpsilon < 0 || O.RelEpsilon < 0:
		return configError("CheckInit", nil, "negative consistency tolerances")
	case O.Workers < 0 || O.DeviceMemory < 0:
		return configError("CheckInit", nil, "negative device workers or memory")
	}
	return nil
}

//ExampleConfigFile is a documented configuration file with the default values.
const ExampleConfigFile = `[Grid]
# Side of each voxel, in A.
Resolution = 0.5
# Side of the box, in A. Must be a multiple of Resolution.
Dimension = 24
# Atoms affect the voxels up to RadiusMultiple times their radius.
RadiusMultiple = 1.5
# Box center. If not given, the box is centered on each ligand.
# Center = 10.2 -3.5 22.0
# Binary = true
# UseCovalentRadius = true
# Atoms further than this from the box are reported and dropped.
# OutsideTolerance = 0
# CheckReceptorBounds = true
# Timeit = true

[Maps]
# Atom type maps, one channel per line. The gnina defaults are used if not given.
# Receptor = path/to/rec.map
# Ligand = path/to/lig.map
# OpenDX grids added as extra channels. Can be repeated.
# UserGrid = path/to/grid.dx

[Augment]
# RandomRotation = true
# RandomTranslate = 2
Seed = 1

[Device]
# GPU = true
# Workers = 8
# Memory = 1073741824
# Pinned = true
AbsEpsilon = 1e-5
RelEpsilon = 1e-4

[Subgrid]
# Dimension = 6
Overlap = 1
`

type gridConfig struct {
	Resolution, Dimension, RadiusMultiple float64
	Center                                string
	Binary, UseCovalentRadius             bool
	OutsideTolerance                      float64
	CheckReceptorBounds, Timeit           bool
}

type mapsConfig struct {
	Receptor, Ligand string
	UserGrid         []string
}

type augmentConfig struct {
	RandomRotation  bool
	RandomTranslate float64
	Seed            int64
}

type deviceConfig struct {
	GPU, Pinned            bool
	Workers                int
	Memory                 int64
	AbsEpsilon, RelEpsilon float64
}

type subgridConfig struct {
	Dimension float64
	Overlap   int
}

//configWrapper mirrors the sections of a configuration file.
type configWrapper struct {
	Grid    gridConfig
	Maps    mapsConfig
	Augment augmentConfig
	Device  deviceConfig
	Subgrid subgridConfig
}

func defaultWrapper() *configWrapper {
	o := DefaultOptions()
	return &configWrapper{
		Grid:    gridConfig{Resolution: o.Resolution, Dimension: o.Dimension, RadiusMultiple: o.RadiusMultiple},
		Augment: augmentConfig{Seed: o.Seed},
		Device:  deviceConfig{AbsEpsilon: o.AbsEpsilon, RelEpsilon: o.RelEpsilon},
		Subgrid: subgridConfig{Overlap: o.SubgridOverlap},
	}
}

//ParseCenter reads a box center given as "x y z" or "x,y,z".
func ParseCenter(s string) ([3]float64, error) {
	var c [3]float64
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return c, fmt.Errorf("center needs 3 coordinates, got %q", s)
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return c, err
		}
		c[i] = v
	}
	return c, nil
}

func (W *configWrapper) options() (Options, error) {
	O := DefaultOptions()
	g := W.Grid
	O.Resolution, O.Dimension, O.RadiusMultiple = g.Resolution, g.Dimension, g.RadiusMultiple
	if strings.TrimSpace(g.Center) != "" {
		c, err := ParseCenter(g.Center)
		if err != nil {
			return O, configError("options", err, "bad [Grid] Center")
		}
		O.Center, O.HasCenter = c, true
	}
	O.Binary, O.UseCovalentRadius = g.Binary, g.UseCovalentRadius
	O.OutsideTolerance, O.CheckReceptorBounds, O.Timeit = g.OutsideTolerance, g.CheckReceptorBounds, g.Timeit
	O.ReceptorMap, O.LigandMap, O.UserGrids = W.Maps.Receptor, W.Maps.Ligand, W.Maps.UserGrid
	O.RandRotate, O.RandTranslate, O.Seed = W.Augment.RandomRotation, W.Augment.RandomTranslate, W.Augment.Seed
	d := W.Device
	O.GPU, O.Pinned, O.Workers, O.DeviceMemory = d.GPU, d.Pinned, d.Workers, d.Memory
	O.AbsEpsilon, O.RelEpsilon = d.AbsEpsilon, d.RelEpsilon
	O.SubgridDim, O.SubgridOverlap = W.Subgrid.Dimension, W.Subgrid.Overlap
	if err := O.CheckInit(); err != nil {
		return O, errDecorate(err, "options")
	}
	return O, nil
}

//ReadConfig reads options from a configuration file in git-config syntax.
//Values not given in the file keep their defaults.
func ReadConfig(fname string) (Options, error) {
	W := defaultWrapper()
	if err := gcfg.ReadFileInto(W, fname); err != nil {
		return DefaultOptions(), configError("ReadConfig", err, "can't read config file %s", fname)
	}
	O, err := W.options()
	return O, errDecorate(err, "ReadConfig")
}

//ParseConfig is like ReadConfig, but takes the contents of the configuration file.
func ParseConfig(text string) (Options, error) {
	W := defaultWrapper()
	if err := gcfg.ReadStringInto(W, text); err != nil {
		return DefaultOptions(), configError("ParseConfig", err, "can't parse config")
	}
	O, err := W.options()
	return O, errDecorate(err, "ParseConfig")
}
