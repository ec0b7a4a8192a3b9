/*
 * v3_test.go, part of molgrid.
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestVecs(Te *testing.T) {
	A := FromVecs([]r3.Vec{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}})
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, r3.Vec{X: 4, Y: 5, Z: 6}, A.Vec(1))
	A.SetVec(0, r3.Vec{X: 7, Y: 8, Z: 9})
	assert.Equal(Te, 7.0, A.At(0, 0))
	assert.Panics(Te, func() { A.Vec(2) })
	assert.Panics(Te, func() { A.SetVec(2, r3.Vec{}) })
}

func TestCenter(Te *testing.T) {
	A := FromVecs([]r3.Vec{{X: 1, Y: 0, Z: -2}, {X: 3, Y: 4, Z: 2}})
	c := A.Center()
	assert.InDelta(Te, 2.0, c.X, 1e-12)
	assert.InDelta(Te, 2.0, c.Y, 1e-12)
	assert.InDelta(Te, 0.0, c.Z, 1e-12)
}
