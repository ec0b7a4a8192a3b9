/*
 * gridio_test.go, part of molgrid.
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

package gridio

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/molgrid/grid"
)

func testGrid(Te *testing.T) (grid.Dims, *grid.Grid) {
	D, err := grid.NewDims([3]float64{1, 2, 3}, 2, 1)
	require.NoError(Te, err)
	g := grid.New(D.N())
	for i := range g.Data {
		g.Data[i] = float32(i) / 4
	}
	return D, g
}

func TestWriteMAP(Te *testing.T) {
	D, g := testGrid(Te)
	var b bytes.Buffer
	require.NoError(Te, WriteMAP(&b, D, g))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(Te, lines, 6+27)
	assert.Equal(Te, "GRID_PARAMETER_FILE", lines[0])
	assert.Equal(Te, "SPACING 1", lines[3])
	assert.Equal(Te, "NELEMENTS 2 2 2", lines[4])
	assert.Equal(Te, "CENTER 1 2 3", lines[5])
	//x fastest: the second value is voxel (1,0,0)
	assert.Equal(Te, "0", lines[6])
	assert.Equal(Te, "2.25", lines[7])
	assert.Equal(Te, "0.25", lines[6+9])
}

func TestDXRoundTrip(Te *testing.T) {
	D, g := testGrid(Te)
	var b bytes.Buffer
	require.NoError(Te, WriteDX(&b, D, g))
	text := b.String()
	assert.True(Te, strings.HasPrefix(text, "object 1 class gridpositions counts 3 3 3\norigin 0 1 2\n"))
	assert.Contains(Te, text, "object 3 class array type double rank 0 items 27 data follows\n0 0.25 0.5\n")
	assert.Contains(Te, text, "component \"data\" value 3\n")
	dx, err := ReadDX(strings.NewReader(text))
	require.NoError(Te, err)
	assert.Equal(Te, [3]float64{1, 2, 3}, dx.Center)
	assert.Equal(Te, 1.0, dx.Resolution)
	assert.True(Te, g.Equal(dx.Grid))
}

func TestReadDXErrors(Te *testing.T) {
	bad := []string{
		"",
		"object 1 class gridpositions counts 3 3 4\n",
		"object 1 class gridpositions counts 2 2 2\norigin 0 0 0\ndelta 1 0 0\ndelta 0 1 0\ndelta 0 0 1\nobject 3 class array type double rank 0 items 8 data follows\n1 2 3\n",
		"object 1 class gridpositions counts 2 2 2\norigin 0 0 0\ndelta 1 0 0\ndelta 0 2 0\ndelta 0 0 1\nobject 3 class array type double rank 0 items 8 data follows\n1 2 3\n4 5 6\n7 8\n",
	}
	for i, v := range bad {
		_, err := ReadDX(strings.NewReader(v))
		assert.Error(Te, err, "case %d", i)
	}
}

func TestBIN(Te *testing.T) {
	_, g := testGrid(Te)
	g2 := g.Clone()
	g2.Data[5] = -1
	dir := Te.TempDir()
	for _, name := range []string{"g.bin", "g.bin.zst", "g.bin.gz"} {
		fname := filepath.Join(dir, name)
		w, err := Create(fname)
		require.NoError(Te, err)
		require.NoError(Te, WriteBIN(w, []*grid.Grid{g, g2}))
		require.NoError(Te, w.Close())
		data, err := ReadBIN(fname)
		require.NoError(Te, err, name)
		require.Len(Te, data, 54)
		grids, err := SplitGrids(data, 3)
		require.NoError(Te, err)
		assert.True(Te, g.Equal(grids[0]))
		assert.True(Te, g2.Equal(grids[1]))
	}
	st, err := os.Stat(filepath.Join(dir, "g.bin"))
	require.NoError(Te, err)
	assert.EqualValues(Te, 54*4, st.Size())
	_, err = SplitGrids(make([]float32, 10), 3)
	assert.Error(Te, err)
}

func TestOpenPlain(Te *testing.T) {
	fname := filepath.Join(Te.TempDir(), "x.txt")
	require.NoError(Te, os.WriteFile(fname, []byte("hello\n"), 0644))
	r, err := Open(fname)
	require.NoError(Te, err)
	defer r.Close()
	s := bufio.NewScanner(r)
	require.True(Te, s.Scan())
	assert.Equal(Te, "hello", s.Text())
}
