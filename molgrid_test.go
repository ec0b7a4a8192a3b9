/*
 * molgrid_test.go, part of molgrid.
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
	"bytes"
	"errors"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/molgrid/atomtype"
	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/gridio"
	"github.com/rmera/molgrid/mol"
	v3 "github.com/rmera/molgrid/v3"
)

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testMol(Te *testing.T, types []atomtype.Type, pos ...r3.Vec) *mol.Molecule {
	atoms := make([]*mol.Atom, len(types))
	for i, t := range types {
		atoms[i] = &mol.Atom{Type: t, Symbol: t.Info().Symbol}
	}
	var coords *v3.Matrix
	if len(pos) > 0 {
		coords = v3.FromVecs(pos)
	}
	m, err := mol.NewMolecule(atoms, coords)
	require.NoError(Te, err)
	return m
}

//randMol returns n atoms of assorted types within side/2 A from the origin.
func randMol(Te *testing.T, n int, side float64, seed int64) *mol.Molecule {
	rng := rand.New(rand.NewSource(seed))
	kinds := []atomtype.Type{
		atomtype.AliphaticCarbonXSHydrophobe,
		atomtype.AromaticCarbonXSHydrophobe,
		atomtype.NitrogenXSAcceptor,
		atomtype.OxygenXSAcceptor,
		atomtype.Sulfur,
		atomtype.Zinc,
	}
	types := make([]atomtype.Type, n)
	pos := make([]r3.Vec, n)
	for i := range types {
		types[i] = kinds[rng.Intn(len(kinds))]
		pos[i] = r3.Vec{X: (rng.Float64() - 0.5) * side, Y: (rng.Float64() - 0.5) * side, Z: (rng.Float64() - 0.5) * side}
	}
	return testMol(Te, types, pos...)
}

func centered(opt Options) Options {
	opt.HasCenter = true
	opt.Center = [3]float64{0, 0, 0}
	return opt
}

var carbon = atomtype.AliphaticCarbonXSHydrophobe

func TestCenterAtom(Te *testing.T) {
	G, err := New(centered(DefaultOptions()), quiet())
	require.NoError(Te, err)
	defer G.Close()
	require.Equal(Te, 49, G.Dims().N())
	lig := testMol(Te, []atomtype.Type{carbon}, r3.Vec{})
	require.NoError(Te, G.SetModel(&mol.Model{Lig: lig}, true, true))
	ch := atomtype.DefaultReceptorMap().NChannels() + atomtype.DefaultLigandMap().Channel(carbon)
	g := G.Grid(0, ch)
	assert.Equal(Te, float32(1), g.At(24, 24, 24))
	max := float32(0)
	for _, v := range g.Data {
		if v > max {
			max = v
		}
	}
	assert.Equal(Te, float32(1), max)
	//r*rm = 2.85 A
	assert.NotZero(Te, g.At(29, 24, 24)) //2.5 A
	assert.Zero(Te, g.At(30, 24, 24))    //3 A
	assert.Zero(Te, g.At(28, 28, 25))    //2.87 A
	assert.NotZero(Te, g.At(26, 26, 24))
	D := G.Dims()
	for i, v := range g.Data {
		if v == 0 {
			continue
		}
		a, b, c := g.Coords(i)
		d := math.Sqrt(math.Pow(D.Coord(0, a), 2) + math.Pow(D.Coord(1, b), 2) + math.Pow(D.Coord(2, c), 2))
		assert.Less(Te, d, 1.9*1.5)
	}
	for c := 0; c < G.NChannels(); c++ {
		if c != ch {
			assert.True(Te, G.Grid(0, c).IsZero(), "channel %d", c)
		}
	}
}

func TestReceptorCache(Te *testing.T) {
	G, err := New(centered(DefaultOptions()), quiet())
	require.NoError(Te, err)
	rec := randMol(Te, 300, 20, 1)
	lig1 := randMol(Te, 20, 6, 2)
	lig2 := randMol(Te, 25, 6, 3)
	require.NoError(Te, G.SetModel(&mol.Model{Rec: rec, Lig: lig1}, true, true))
	first := G.OutputMem(nil)
	require.NoError(Te, G.SetModel(&mol.Model{Rec: rec, Lig: lig2}, true, false))
	second := G.OutputMem(nil)
	nrec := atomtype.DefaultReceptorMap().NChannels() * G.Dims().Volume()
	assert.Equal(Te, first[:nrec], second[:nrec])
	assert.NotEqual(Te, first[nrec:], second[nrec:])

	//a new receptor is only seen if asked for.
	require.NoError(Te, G.SetModel(&mol.Model{Rec: randMol(Te, 300, 20, 4), Lig: lig2}, false, false))
	assert.Equal(Te, second, G.OutputMem(nil))
	require.NoError(Te, G.SetModel(&mol.Model{Rec: randMol(Te, 300, 20, 4), Lig: lig2}, false, true))
	assert.NotEqual(Te, second[:nrec], G.OutputMem(nil)[:nrec])
}

func TestIdentityTwice(Te *testing.T) {
	G, err := New(centered(DefaultOptions()), quiet())
	require.NoError(Te, err)
	m := &mol.Model{Rec: randMol(Te, 100, 20, 5), Lig: randMol(Te, 10, 5, 6)}
	require.NoError(Te, G.SetModel(m, true, true))
	a := G.OutputMem(nil)
	require.NoError(Te, G.SetModel(m, true, true))
	b := G.OutputMem(nil)
	assert.Equal(Te, a, b)
	assert.True(Te, G.Transform().IsIdentity())
}

func TestOutputMem(Te *testing.T) {
	opt := centered(DefaultOptions())
	opt.LigandTypes, _ = atomtype.NewMap([][]atomtype.Type{{atomtype.OxygenXSAcceptor, atomtype.OxygenXSDonorAcceptor}})
	G, err := New(opt, quiet())
	require.NoError(Te, err)
	nrec := atomtype.DefaultReceptorMap().NChannels()
	require.Equal(Te, nrec+1, G.NChannels())
	lig := testMol(Te, []atomtype.Type{carbon, atomtype.Nitrogen}, r3.Vec{}, r3.Vec{X: 1})
	require.NoError(Te, G.SetModel(&mol.Model{Lig: lig}, true, true))
	out := G.OutputMem(make([]float32, 3))
	require.Len(Te, out, G.NChannels()*49*49*49)
	for _, v := range out {
		require.Zero(Te, v)
	}
	buf := make([]float32, 10, len(out)+5)
	out2 := G.OutputMem(buf)
	assert.Same(Te, &buf[0], &out2[0], "big enough buffers are reused")
	assert.Equal(Te, "49.17", G.ParamString(true, true))
	assert.Equal(Te, "49.1", G.ParamString(false, true))
	assert.Equal(Te, []string{"rec_AliphaticCarbonXSHydrophobe", "lig_OxygenXSAcceptor_OxygenXSDonorAcceptor"},
		[]string{G.ChannelNames()[0], G.ChannelNames()[nrec]})
}

func TestOutsideAtom(Te *testing.T) {
	G, err := New(centered(DefaultOptions()), quiet())
	require.NoError(Te, err)
	lig := testMol(Te, []atomtype.Type{carbon, carbon}, r3.Vec{X: 100}, r3.Vec{X: 1, Y: 2})
	err = G.SetModel(&mol.Model{Lig: lig}, true, true)
	var geo *GeometryError
	require.True(Te, errors.As(err, &geo))
	assert.False(Te, geo.Critical())
	require.Len(Te, geo.Atoms, 1)
	assert.True(Te, geo.Atoms[0].Ligand)
	assert.Equal(Te, 0, geo.Atoms[0].Index)
	assert.InDelta(Te, 100-12-2.85, geo.Atoms[0].Distance, 1e-5)
	got := G.OutputMem(nil)

	ref, err := New(centered(DefaultOptions()), quiet())
	require.NoError(Te, err)
	require.NoError(Te, ref.SetModel(&mol.Model{Lig: testMol(Te, []atomtype.Type{carbon}, r3.Vec{X: 1, Y: 2})}, true, true))
	assert.Equal(Te, ref.OutputMem(nil), got)

	//receptor atoms are only checked on request.
	rec := testMol(Te, []atomtype.Type{carbon}, r3.Vec{Z: -50})
	require.NoError(Te, ref.SetModel(&mol.Model{Rec: rec}, true, true))
	opt := centered(DefaultOptions())
	opt.CheckReceptorBounds = true
	opt.OutsideTolerance = 0.5
	G, err = New(opt, quiet())
	require.NoError(Te, err)
	err = G.SetModel(&mol.Model{Rec: rec}, true, true)
	require.True(Te, errors.As(err, &geo))
	assert.False(Te, geo.Atoms[0].Ligand)
	//within the tolerance
	near := testMol(Te, []atomtype.Type{carbon}, r3.Vec{X: 12 + 2.85 + 0.4})
	require.NoError(Te, G.SetModel(&mol.Model{Rec: near}, true, true))
}

func TestAugmentation(Te *testing.T) {
	opt := centered(DefaultOptions())
	opt.RandRotate = true
	opt.RandTranslate = 2
	opt.Seed = 42
	var ts [2][3]r3.Vec
	m := &mol.Model{Rec: randMol(Te, 50, 10, 7), Lig: randMol(Te, 10, 5, 8)}
	var outs [2][]float32
	for i := range ts {
		G, err := New(opt, quiet())
		require.NoError(Te, err)
		for j := 0; j < 3; j++ {
			require.NoError(Te, G.SetModel(m, true, j == 0))
			T := G.Transform()
			assert.False(Te, T.IsIdentity())
			assert.LessOrEqual(Te, r3.Norm(T.T), 2.0)
			ts[i][j] = r3.Vec{X: T.Q.Imag, Y: T.Q.Jmag, Z: T.Q.Kmag}
		}
		outs[i] = G.OutputMem(nil)
	}
	assert.Equal(Te, ts[0], ts[1])
	assert.Equal(Te, outs[0], outs[1])
	assert.NotEqual(Te, ts[0][0], ts[0][1])
}

func TestAutoCenter(Te *testing.T) {
	G, err := New(DefaultOptions(), quiet())
	require.NoError(Te, err)
	lig := testMol(Te, []atomtype.Type{carbon, carbon}, r3.Vec{X: 4, Y: 5, Z: 6}, r3.Vec{X: 6, Y: 5, Z: 6})
	require.NoError(Te, G.SetModel(&mol.Model{Lig: lig}, true, true))
	assert.Equal(Te, [3]float64{5, 5, 6}, G.Dims().Center())
	require.NoError(Te, G.SetCenter(1, 1, 1))
	require.NoError(Te, G.SetModel(&mol.Model{Lig: lig}, true, false))
	assert.Equal(Te, [3]float64{1, 1, 1}, G.Dims().Center())
}

func TestSubgrids(Te *testing.T) {
	opt := centered(DefaultOptions())
	opt.Dimension = 4
	opt.SubgridDim = 2
	G, err := New(opt, quiet())
	require.NoError(Te, err)
	require.Equal(Te, 8, G.NGrids())
	full := G.Dims()
	for p := 0; p < 8; p++ {
		D := G.PartDims(p)
		assert.Equal(Te, 5, D.N())
		gx, gy, gz := p/4, (p/2)%2, p%2
		assert.Equal(Te, full.Coord(0, 4*gx), D.Axis[0].Begin)
		assert.Equal(Te, full.Coord(1, 4*gy), D.Axis[1].Begin)
		assert.Equal(Te, full.Coord(2, 4*gz), D.Axis[2].Begin)
	}
	//an atom on the shared plane x=0 shows up the same in both neighbors.
	lig := testMol(Te, []atomtype.Type{carbon}, r3.Vec{X: 0, Y: -1, Z: -1})
	require.NoError(Te, G.SetModel(&mol.Model{Lig: lig}, true, true))
	ch := atomtype.DefaultReceptorMap().NChannels() + atomtype.DefaultLigandMap().Channel(carbon)
	a, b := G.Grid(0, ch), G.Grid(4, ch)
	for j := 0; j < 5; j++ {
		for k := 0; k < 5; k++ {
			assert.Equal(Te, a.At(4, j, k), b.At(0, j, k))
		}
	}
	assert.Equal(Te, float32(1), a.At(4, 2, 2))
	assert.Len(Te, G.OutputMem(nil), 8*G.NChannels()*125)
	require.NoError(Te, G.SetGridIdx(4))
	assert.Same(Te, b, G.Channel(ch))
	assert.Error(Te, G.SetGridIdx(8))

	opt.SubgridDim = 1.5
	_, err = New(opt, quiet())
	var cerr *ConfigurationError
	assert.True(Te, errors.As(err, &cerr))
}

func TestDeviceAgrees(Te *testing.T) {
	m := &mol.Model{Rec: randMol(Te, 400, 22, 9), Lig: randMol(Te, 30, 8, 10)}
	for _, binary := range []bool{false, true} {
		for _, pinned := range []bool{false, true} {
			opt := centered(DefaultOptions())
			opt.Binary = binary
			opt.RandRotate = true
			opt.RandTranslate = 1
			cpu, err := New(opt, quiet())
			require.NoError(Te, err)
			opt.GPU = true
			opt.Pinned = pinned
			opt.Workers = 4
			gpu, err := New(opt, quiet())
			require.NoError(Te, err)
			require.NoError(Te, cpu.SetModel(m, true, true))
			require.NoError(Te, gpu.SetModel(m, true, true))
			a, b := cpu.OutputMem(nil), gpu.OutputMem(nil)
			require.Equal(Te, len(a), len(b))
			for i := range a {
				if math.Abs(float64(a[i]-b[i])) > 1e-5 {
					Te.Fatalf("binary %t pinned %t: voxel %d differs: %g %g", binary, pinned, i, a[i], b[i])
				}
			}
			rep, err := gpu.CPUSetModelCheck(m, true, false)
			require.NoError(Te, err)
			assert.Zero(Te, rep.Mismatches)
			assert.Equal(Te, (gpu.NChannels())*gpu.Dims().Volume(), rep.Voxels)
			assert.Less(Te, rep.MaxAbsDiff, 1e-5)
			gpu.Close()
		}
	}
	G, err := New(centered(DefaultOptions()), quiet())
	require.NoError(Te, err)
	_, err = G.CPUSetModelCheck(m, true, true)
	var cerr *ConfigurationError
	assert.True(Te, errors.As(err, &cerr))
}

func TestAllocationError(Te *testing.T) {
	opt := centered(DefaultOptions())
	opt.GPU = true
	opt.DeviceMemory = 1000
	G, err := New(opt, quiet())
	require.NoError(Te, err)
	err = G.SetModel(&mol.Model{Lig: randMol(Te, 5, 4, 11)}, true, true)
	var aerr *AllocationError
	require.True(Te, errors.As(err, &aerr))
	assert.True(Te, aerr.Critical())
	assert.EqualValues(Te, 1000, aerr.Err.Limit)
}

//A receptor that didn't fit on the device must not leave the previous
//receptor's grids behind.
func TestAllocationErrorRetry(Te *testing.T) {
	opt := centered(DefaultOptions())
	opt.Dimension = 2
	opt.ReceptorTypes, _ = atomtype.NewMap([][]atomtype.Type{{carbon}})
	opt.LigandTypes, _ = atomtype.NewMap([][]atomtype.Type{{carbon}})
	opt.GPU = true
	opt.DeviceMemory = 2000
	G, err := New(opt, quiet())
	require.NoError(Te, err)
	defer G.Close()
	lig := testMol(Te, []atomtype.Type{carbon}, r3.Vec{X: 0.5})
	small := make([]atomtype.Type, 10)
	smallPos := make([]r3.Vec, 10)
	for i := range small {
		small[i], smallPos[i] = carbon, r3.Vec{X: -1, Y: -1, Z: -1 + 0.2*float64(i)}
	}
	require.NoError(Te, G.SetModel(&mol.Model{Rec: testMol(Te, small, smallPos...), Lig: lig}, true, true))
	big := make([]atomtype.Type, 2000)
	bigPos := make([]r3.Vec, 2000)
	for i := range big {
		big[i], bigPos[i] = carbon, r3.Vec{X: 1, Y: 1, Z: 1 - 0.001*float64(i)}
	}
	m := &mol.Model{Rec: testMol(Te, big, bigPos...), Lig: lig}
	err = G.SetModel(m, true, true)
	var aerr *AllocationError
	require.True(Te, errors.As(err, &aerr))
	//retry on the host, without re-reading the receptor
	G.Close()
	require.NoError(Te, G.SetModel(m, true, false))
	opt.GPU = false
	H, err := New(opt, quiet())
	require.NoError(Te, err)
	require.NoError(Te, H.SetModel(m, true, true))
	assert.True(Te, G.Grid(0, 0).Equal(H.Grid(0, 0)))
	assert.False(Te, G.Grid(0, 0).IsZero())
}

func TestOutputFiles(Te *testing.T) {
	opt := centered(DefaultOptions())
	opt.Dimension = 2
	opt.ReceptorTypes, _ = atomtype.NewMap([][]atomtype.Type{{carbon}})
	opt.LigandTypes, _ = atomtype.NewMap([][]atomtype.Type{{carbon}, {atomtype.OxygenXSAcceptor}})
	G, err := New(opt, quiet())
	require.NoError(Te, err)
	lig := testMol(Te, []atomtype.Type{carbon}, r3.Vec{})
	require.NoError(Te, G.SetModel(&mol.Model{Lig: lig}, true, true))
	var b bytes.Buffer
	require.NoError(Te, G.OutputBIN(&b, true, true))
	assert.Equal(Te, 3*125*4, b.Len())
	b.Reset()
	require.NoError(Te, G.OutputBIN(&b, false, true))
	assert.Equal(Te, 2*125*4, b.Len())
	dir := Te.TempDir()
	base := filepath.Join(dir, "out")
	require.NoError(Te, G.OutputMAP(base))
	require.NoError(Te, G.OutputDX(base))
	for _, name := range []string{"rec_AliphaticCarbonXSHydrophobe", "lig_AliphaticCarbonXSHydrophobe", "lig_OxygenXSAcceptor"} {
		_, err := os.Stat(base + "_" + name + ".map")
		assert.NoError(Te, err)
	}
	f, err := os.Open(base + "_lig_AliphaticCarbonXSHydrophobe.dx")
	require.NoError(Te, err)
	defer f.Close()
	dx, err := gridio.ReadDX(f)
	require.NoError(Te, err)
	assert.Equal(Te, float32(1), dx.Grid.At(2, 2, 2))
	assert.InDelta(Te, G.Grid(0, 1).At(1, 2, 3), dx.Grid.At(1, 2, 3), 1e-4)
}

func TestUserGrids(Te *testing.T) {
	D, err := grid.NewDims([3]float64{3, 4, 5}, 4, 1)
	require.NoError(Te, err)
	g := grid.New(D.N())
	for i := range g.Data {
		g.Data[i] = float32(i)
	}
	fname := filepath.Join(Te.TempDir(), "elec.dx")
	f, err := os.Create(fname)
	require.NoError(Te, err)
	require.NoError(Te, gridio.WriteDX(f, D, g))
	require.NoError(Te, f.Close())

	opt := DefaultOptions()
	opt.UserGrids = []string{fname}
	G, err := New(opt, quiet())
	require.NoError(Te, err)
	assert.Equal(Te, [3]float64{3, 4, 5}, G.Dims().Center())
	assert.Equal(Te, 1.0, G.Dims().Resolution)
	names := G.ChannelNames()
	assert.Equal(Te, "elec", names[len(names)-1])
	require.NoError(Te, G.SetModel(&mol.Model{Lig: testMol(Te, []atomtype.Type{carbon}, r3.Vec{X: 3, Y: 4, Z: 5})}, true, true))
	//the box doesn't follow the ligand
	assert.Equal(Te, [3]float64{3, 4, 5}, G.Dims().Center())
	out := G.OutputMem(nil)
	assert.Equal(Te, g.Data, out[len(out)-125:])
	assert.Error(Te, G.SetCenter(0, 0, 0))

	opt.SubgridDim = 2
	G, err = New(opt, quiet())
	require.NoError(Te, err)
	require.Equal(Te, 8, G.NGrids())
	last := G.Grid(7, G.NChannels()-1)
	assert.Equal(Te, g.At(2, 2, 2), last.At(0, 0, 0))
	assert.Equal(Te, g.At(4, 4, 4), last.At(2, 2, 2))
}

func TestConfig(Te *testing.T) {
	O, err := ParseConfig(ExampleConfigFile)
	require.NoError(Te, err)
	assert.Equal(Te, DefaultOptions(), O)
	text := `[Grid]
Resolution = 0.375
Dimension = 12
Center = 1.5, -2, 3
Binary = true

[Maps]
UserGrid = a.dx
UserGrid = b.dx

[Augment]
RandomRotation
RandomTranslate = 2.5
Seed = 7

[Device]
GPU = true
Memory = 1048576

[Subgrid]
Dimension = 3
Overlap = 0
`
	O, err = ParseConfig(text)
	require.NoError(Te, err)
	assert.Equal(Te, 0.375, O.Resolution)
	assert.Equal(Te, [3]float64{1.5, -2, 3}, O.Center)
	assert.True(Te, O.HasCenter)
	assert.True(Te, O.Binary)
	assert.Equal(Te, []string{"a.dx", "b.dx"}, O.UserGrids)
	assert.True(Te, O.RandRotate)
	assert.Equal(Te, 2.5, O.RandTranslate)
	assert.EqualValues(Te, 7, O.Seed)
	assert.True(Te, O.GPU)
	assert.EqualValues(Te, 1048576, O.DeviceMemory)
	assert.Equal(Te, 3.0, O.SubgridDim)
	assert.Equal(Te, 0, O.SubgridOverlap)
	assert.Equal(Te, 1.5, O.RadiusMultiple)

	for _, bad := range []string{"[Grid]\nResolution = -1\n", "[Grid]\nCenter = 1 2\n", "[Grid]\nColor = red\n"} {
		_, err = ParseConfig(bad)
		var cerr *ConfigurationError
		assert.True(Te, errors.As(err, &cerr), bad)
	}
	fname := filepath.Join(Te.TempDir(), "molgrid.cfg")
	require.NoError(Te, os.WriteFile(fname, []byte(text), 0644))
	O2, err := ReadConfig(fname)
	require.NoError(Te, err)
	assert.Equal(Te, O, O2)
}

type sliceGetter struct {
	models []*mol.Model
}

func (S *sliceGetter) Next() (*mol.Model, error) {
	if len(S.models) == 0 {
		return nil, io.EOF
	}
	m := S.models[0]
	S.models = S.models[1:]
	return m, nil
}

func TestMolsGridder(Te *testing.T) {
	rec := randMol(Te, 100, 20, 12)
	other := randMol(Te, 100, 20, 13)
	getter := &sliceGetter{[]*mol.Model{
		{Rec: rec, Lig: randMol(Te, 10, 4, 14)},
		{Rec: other, Lig: randMol(Te, 10, 4, 15)},
	}}
	opt := centered(DefaultOptions())
	opt.Timeit = true
	M, err := NewMolsGridder(opt, getter, quiet())
	require.NoError(Te, err)
	require.NoError(Te, M.ReadMolecule())
	first := M.OutputMem(nil)
	require.NoError(Te, M.ReadMolecule())
	second := M.OutputMem(nil)
	nrec := atomtype.DefaultReceptorMap().NChannels() * M.Dims().Volume()
	assert.Equal(Te, first[:nrec], second[:nrec], "the receptor is only read once")
	assert.Equal(Te, io.EOF, M.ReadMolecule())
	assert.Equal(Te, 2, M.Read())
}

func TestTrace(Te *testing.T) {
	opt := DefaultOptions()
	opt.Resolution = 0.7
	_, err := New(opt, quiet())
	var cerr *ConfigurationError
	require.True(Te, errors.As(err, &cerr))
	assert.True(Te, cerr.Critical())
	assert.Equal(Te, "setDims <- New", Trace(err))
	assert.Equal(Te, "", Trace(io.EOF))
}
