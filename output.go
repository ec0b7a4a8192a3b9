/*
 * output.go, part of molgrid.
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
	"io"

	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/gridio"
)

//OutputMem copies all the grids into out, which is resized (reallocated only if too small)
//and returned. For each grid of the partition, the receptor channels come first,
//then the ligand channels, then the user channels. The length of the result is
//NGrids()*NChannels()*N^3.
func (G *Gridder) OutputMem(out []float32) []float32 {
	vol := G.parts[0].Dims.Volume()
	total := len(G.parts) * G.NChannels() * vol
	if cap(out) < total {
		out = make([]float32, total)
	}
	out = out[:total]
	off := 0
	for p := range G.parts {
		for _, set := range [][]*grid.Grid{G.rec[p], G.lig[p], G.user[p]} {
			for _, g := range set {
				copy(out[off:off+vol], g.Data)
				off += vol
			}
		}
	}
	return out
}

//selected returns the grids of part p that are written when outputRec and outputLig are given.
//User grids are written together with the receptor.
func (G *Gridder) selected(p int, outputRec, outputLig bool) []*grid.Grid {
	var ret []*grid.Grid
	if outputRec {
		ret = append(ret, G.rec[p]...)
	}
	if outputLig {
		ret = append(ret, G.lig[p]...)
	}
	if outputRec {
		ret = append(ret, G.user[p]...)
	}
	return ret
}

//OutputBIN writes the grids as raw little-endian float32, in the order of OutputMem.
//Receptor (and user) channels are only written if outputRec is true, ligand channels
//only if outputLig is true.
func (G *Gridder) OutputBIN(w io.Writer, outputRec, outputLig bool) error {
	var grids []*grid.Grid
	for p := range G.parts {
		grids = append(grids, G.selected(p, outputRec, outputLig)...)
	}
	if err := gridio.WriteBIN(w, grids); err != nil {
		return fmt.Errorf("molgrid: OutputBIN: %w", err)
	}
	return nil
}

//ParamString returns "<N>.<channels>", the voxels per side and the number of channels
//OutputBIN writes with the same flags.
func (G *Gridder) ParamString(outputRec, outputLig bool) string {
	n := 0
	if outputRec {
		n += G.recMap.NChannels() + len(G.userFull)
	}
	if outputLig {
		n += G.ligMap.NChannels()
	}
	return fmt.Sprintf("%d.%d", G.parts[0].Dims.N(), n)
}

//fileName returns the name of the file for channel ch of part p.
func (G *Gridder) fileName(base string, p int, name, ext string) string {
	if len(G.parts) > 1 {
		return fmt.Sprintf("%s_%d_%s.%s", base, p, name, ext)
	}
	return fmt.Sprintf("%s_%s.%s", base, name, ext)
}

//output writes one file per channel and part, with write.
func (G *Gridder) output(base, ext, caller string, write func(io.Writer, grid.Dims, *grid.Grid) error) error {
	names := G.ChannelNames()
	for p, part := range G.parts {
		for ch, name := range names {
			fname := G.fileName(base, p, name, ext)
			f, err := gridio.Create(fname)
			if err != nil {
				return fmt.Errorf("molgrid: %s: %w", caller, err)
			}
			err = write(f, part.Dims, G.Grid(p, ch))
			if err2 := f.Close(); err == nil {
				err = err2
			}
			if err != nil {
				return fmt.Errorf("molgrid: %s: writing %s: %w", caller, fname, err)
			}
		}
	}
	return nil
}

//OutputMAP writes one AutoDock4 map per channel (and grid), named <base>_<channel name>.map,
//or <base>_<grid index>_<channel name>.map if the box is split.
func (G *Gridder) OutputMAP(base string) error {
	return G.output(base, "map", "OutputMAP", gridio.WriteMAP)
}

//OutputDX does the same as OutputMAP, but writes OpenDX files with the .dx extension.
func (G *Gridder) OutputDX(base string) error {
	return G.output(base, "dx", "OutputDX", gridio.WriteDX)
}
