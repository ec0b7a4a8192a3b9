/*
 * transform_test.go, part of molgrid.
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

package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestIdentity(Te *testing.T) {
	T := Identity()
	assert.True(Te, T.IsIdentity())
	p := r3.Vec{X: 1.5, Y: -2, Z: 3.25}
	c := r3.Vec{X: 10, Y: 10, Z: 10}
	assert.Equal(Te, p, T.Apply(p, c))
	G := NewGenerator(1, false, 0)
	assert.False(Te, G.Enabled())
	for i := 0; i < 5; i++ {
		assert.True(Te, G.Next().IsIdentity())
	}
}

func TestSeedReproducible(Te *testing.T) {
	G1 := NewGenerator(42, true, 2)
	G2 := NewGenerator(42, true, 2)
	for i := 0; i < 20; i++ {
		assert.Equal(Te, G1.Next(), G2.Next())
	}
	G3 := NewGenerator(43, true, 2)
	assert.NotEqual(Te, NewGenerator(42, true, 2).Next(), G3.Next())
}

func TestRandomTransforms(Te *testing.T) {
	G := NewGenerator(7, true, 4)
	c := r3.Vec{X: 1, Y: 2, Z: 3}
	p := r3.Vec{X: 4, Y: -1, Z: 0.5}
	for i := 0; i < 200; i++ {
		T := G.Next()
		assert.InDelta(Te, 1.0, quat.Abs(T.Q), 1e-12, "quaternion must be unit")
		assert.LessOrEqual(Te, r3.Norm(T.T), 4.0+1e-12)
		rot := T
		rot.T = r3.Vec{}
		// a rotation about c preserves the distance to c
		assert.InDelta(Te, r3.Norm(r3.Sub(p, c)), r3.Norm(r3.Sub(rot.Apply(p, c), c)), 1e-9)
	}
}

func TestRotationAxis(Te *testing.T) {
	// 90 degrees about z
	h := math.Sqrt(0.5)
	T := Transform{Q: quat.Number{Real: h, Kmag: h}}
	out := T.Apply(r3.Vec{X: 1}, r3.Vec{})
	assert.InDelta(Te, 0.0, out.X, 1e-12)
	assert.InDelta(Te, 1.0, out.Y, 1e-12)
	assert.InDelta(Te, 0.0, out.Z, 1e-12)
	T.T = r3.Vec{Z: 2}
	out = T.Apply(r3.Vec{X: 2, Y: 1}, r3.Vec{X: 1, Y: 1})
	assert.InDelta(Te, 1.0, out.X, 1e-12)
	assert.InDelta(Te, 2.0, out.Y, 1e-12)
	assert.InDelta(Te, 2.0, out.Z, 1e-12)
}
