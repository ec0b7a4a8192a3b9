/*
 * slice_test.go, part of molgrid.
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

package gridplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/molgrid/grid"
)

func TestSlice(Te *testing.T) {
	D, err := grid.NewDims([3]float64{0, 0, 0}, 4, 0.5)
	require.NoError(Te, err)
	g := grid.New(D.N())
	g.Set(1, 2, 3, 5)
	S := &Slice{D: D, G: g, Axis: 0, Index: 1}
	c, r := S.Dims()
	assert.Equal(Te, 9, c)
	assert.Equal(Te, 9, r)
	assert.Equal(Te, 5.0, S.Z(2, 3))
	assert.Equal(Te, -1.0, S.X(2))
	assert.Equal(Te, -0.5, S.Y(3))
	S.Axis = 2
	S.Index = 3
	assert.Equal(Te, 5.0, S.Z(1, 2))

	fname := filepath.Join(Te.TempDir(), "slice.png")
	require.NoError(Te, SaveSlice(fname, D, g, 2, 3, "test"))
	st, err := os.Stat(fname)
	require.NoError(Te, err)
	assert.NotZero(Te, st.Size())
	//all-zero planes can still be drawn.
	require.NoError(Te, SaveSlice(fname, D, g, 2, 0, "zeros"))
	assert.Error(Te, SaveSlice(fname, D, g, 3, 0, ""))
	assert.Error(Te, SaveSlice(fname, D, g, 0, 9, ""))
}
