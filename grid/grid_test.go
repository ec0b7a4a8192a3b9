/*
 * grid_test.go, part of molgrid.
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

package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDims(Te *testing.T) {
	table := []struct {
		dim, res float64
		n        int
		ok       bool
	}{
		{24, 0.5, 49, true},
		{24, 0.375, 65, true},
		{23.5, 0.5, 48, true},
		{24, 0.7, 0, false},
		{0, 0.5, 0, false},
		{24, 0, 0, false},
		{24, -0.5, 0, false},
		{-24, 0.5, 0, false},
	}
	for i, test := range table {
		D, err := NewDims([3]float64{1, 2, 3}, test.dim, test.res)
		if !test.ok {
			assert.Error(Te, err, "%d) dim %g res %g should fail", i, test.dim, test.res)
			continue
		}
		require.NoError(Te, err, "%d)", i)
		assert.Equal(Te, test.n, D.N(), "%d)", i)
		assert.InDelta(Te, test.dim, D.Dimension(), 1e-9, "%d)", i)
		c := D.Center()
		assert.InDelta(Te, 1.0, c[0], 1e-9)
		assert.InDelta(Te, 2.0, c[1], 1e-9)
		assert.InDelta(Te, 3.0, c[2], 1e-9)
	}
}

func TestRange(Te *testing.T) {
	D, err := NewDims([3]float64{0, 0, 0}, 24, 0.5)
	require.NoError(Te, err)
	// an atom at the center, influence radius 1.5
	lo, hi := D.Range(0, 0, 1.5)
	assert.Equal(Te, 21, lo)
	assert.Equal(Te, 27, hi)
	// clipped at the low end
	lo, hi = D.Range(1, -12.5, 1)
	assert.Equal(Te, 0, lo)
	assert.Equal(Te, 1, hi)
	// clipped at the high end
	lo, hi = D.Range(2, 12, 2)
	assert.Equal(Te, 44, lo)
	assert.Equal(Te, 49, hi)
	// completely outside
	lo, hi = D.Range(0, 40, 2)
	assert.Equal(Te, lo, hi)
	lo, hi = D.Range(0, -40, 2)
	assert.Equal(Te, 0, lo)
	assert.Equal(Te, 0, hi)
}

func TestOutside(Te *testing.T) {
	D, err := NewDims([3]float64{0, 0, 0}, 24, 0.5)
	require.NoError(Te, err)
	assert.Less(Te, D.Outside([3]float64{0, 0, 0}, 1), 0.0)
	assert.InDelta(Te, 10-2.0, D.Outside([3]float64{22, 0, 0}, 2), 1e-12)
	assert.LessOrEqual(Te, D.Outside([3]float64{13, 0, 0}, 1.5), 0.0)
}

func TestGridIndexing(Te *testing.T) {
	G := New(5)
	for idx := range G.Data {
		i, j, k := G.Coords(idx)
		assert.Equal(Te, idx, G.Idx(i, j, k))
	}
	G.Set(1, 2, 3, 7)
	assert.Equal(Te, float32(7), G.Data[(1*5+2)*5+3])
	assert.False(Te, G.BoundsCheck(5, 0, 0))
	assert.True(Te, G.BoundsCheck(4, 4, 4))
	C := G.Clone()
	assert.True(Te, C.Equal(G))
	C.Zero()
	assert.True(Te, C.IsZero())
	assert.False(Te, C.Equal(G))
}

func TestExtract(Te *testing.T) {
	G := New(5)
	for idx := range G.Data {
		G.Data[idx] = float32(idx)
	}
	S := New(3)
	G.Extract(S, 2, 1, 2)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				assert.Equal(Te, G.At(2+i, 1+j, 2+k), S.At(i, j, k))
			}
		}
	}
	D, err := NewDims([3]float64{0, 0, 0}, 2, 0.5)
	require.NoError(Te, err)
	sub := D.Sub(2, 1, 2, 3)
	assert.InDelta(Te, 0.0, sub.Axis[0].Begin, 1e-12)
	assert.InDelta(Te, 1.0, sub.Axis[0].End, 1e-12)
	assert.InDelta(Te, -0.5, sub.Axis[1].Begin, 1e-12)
	assert.Equal(Te, 3, sub.N())
}
