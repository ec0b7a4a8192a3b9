/*
 * check.go, part of molgrid.
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

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/gridmaker"
)

//ConsistencyReport summarizes a comparison between the host and device paths.
type ConsistencyReport struct {
	Voxels      int     //voxels compared
	Mismatches  int     //voxels beyond the tolerance
	MaxAbsDiff  float64 //largest absolute difference
	MeanAbsDiff float64 //mean absolute difference
}

//CPUSetModelCheck grids m on the device, exactly as SetModel does, and then grids the same atoms,
//with the same transform, on the host, comparing every voxel. Values differ if
//|cpu-gpu| > max(AbsEpsilon, RelEpsilon*|cpu|). The first voxel that differs is returned
//as a *ConsistencyMismatch. Otherwise, the error from SetModel, if any, is returned. The device
//grids are kept. It is meant for debugging, and requires the device.
func (G *Gridder) CPUSetModelCheck(m Model, reinitLigand, reinitReceptor bool) (*ConsistencyReport, error) {
	if G.dev == nil {
		return nil, configError("CPUSetModelCheck", nil, "the consistency check needs the device")
	}
	setErr := G.SetModel(m, reinitLigand, reinitReceptor)
	var geo *GeometryError
	if setErr != nil && !errors.As(setErr, &geo) {
		return nil, errDecorate(setErr, "CPUSetModelCheck")
	}
	names := G.ChannelNames()
	rep := new(ConsistencyReport)
	var first *ConsistencyMismatch
	var means, weights []float64
	for p, part := range G.parts {
		mk := &gridmaker.Maker{Dims: part.Dims, RadiusMultiple: G.opt.RadiusMultiple, Binary: G.opt.Binary}
		n := part.Dims.N()
		for _, set := range []struct {
			atoms  []gridmaker.AtomInfo
			device []*grid.Grid
			offset int
		}{
			{G.recUsed, G.rec[p], 0},
			{G.ligUsed, G.lig[p], len(G.rec[p])},
		} {
			host := make([]*grid.Grid, len(set.device))
			for i := range host {
				host[i] = grid.New(n)
			}
			mk.SetAtomsCPU(set.atoms, G.center(), G.T, host)
			for c := range host {
				diffs := make([]float64, len(host[c].Data))
				for i, cpu := range host[c].Data {
					gpu := set.device[c].Data[i]
					d := math.Abs(float64(cpu) - float64(gpu))
					diffs[i] = d
					if d <= math.Max(G.opt.AbsEpsilon, G.opt.RelEpsilon*math.Abs(float64(cpu))) {
						continue
					}
					rep.Mismatches++
					if first == nil {
						ii, jj, kk := host[c].Coords(i)
						ch := set.offset + c
						first = &ConsistencyMismatch{Channel: ch, Name: names[ch], Subgrid: p, I: ii, J: jj, K: kk, CPU: cpu, GPU: gpu, deco: deco{"CPUSetModelCheck"}}
					}
				}
				rep.Voxels += len(diffs)
				rep.MaxAbsDiff = math.Max(rep.MaxAbsDiff, floats.Max(diffs))
				means = append(means, stat.Mean(diffs, nil))
				weights = append(weights, float64(len(diffs)))
			}
		}
	}
	if len(means) > 0 {
		rep.MeanAbsDiff = stat.Mean(means, weights)
	}
	fields := logrus.Fields{"voxels": rep.Voxels, "mismatches": rep.Mismatches, "maxdiff": rep.MaxAbsDiff, "meandiff": rep.MeanAbsDiff}
	if first != nil {
		G.log.WithFields(fields).WithField("first", first.Error()).Warn("molgrid: host and device grids differ")
		return rep, first
	}
	G.log.WithFields(fields).Debug("molgrid: host and device grids agree")
	return rep, setErr
}
