/*
 * transform.go, part of molgrid.
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

/*Package transform implements the rigid transformations (a rotation about the
grid center followed by a translation) that molgrid applies to atoms before
gridding them, and a seedable generator of random ones.*/
package transform

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Transform is a rotation, given by the unit quaternion Q, and a translation T.
type Transform struct {
	Q quat.Number
	T r3.Vec
}

//Identity returns the transformation that leaves every point where it is.
func Identity() Transform {
	return Transform{Q: quat.Number{Real: 1}}
}

//IsIdentity returns true if applying T has no effect.
func (T Transform) IsIdentity() bool {
	return T.Q == quat.Number{Real: 1} && T.T == r3.Vec{}
}

//Apply rotates p about center and then translates it.
func (T Transform) Apply(p, center r3.Vec) r3.Vec {
	if T.Q != (quat.Number{Real: 1}) {
		p = r3.Add(rotate(T.Q, r3.Sub(p, center)), center)
	}
	return r3.Add(p, T.T)
}

//rotate returns q p q*.
func rotate(q quat.Number, p r3.Vec) r3.Vec {
	pq := quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}
	r := quat.Mul(quat.Mul(q, pq), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

func (T Transform) String() string {
	return fmt.Sprintf("Q=(%.5f, %.5f, %.5f, %.5f) T=(%.5f, %.5f, %.5f)",
		T.Q.Real, T.Q.Imag, T.Q.Jmag, T.Q.Kmag, T.T.X, T.T.Y, T.T.Z)
}

//Generator produces random transformations. The sequence produced
//depends only on the seed and the options.
type Generator struct {
	rotate       bool
	maxTranslate float64
	rng          *rand.Rand
}

//NewGenerator returns a generator that draws uniformly random rotations if rotate is
//true, and translations of magnitude up to maxTranslate.
func NewGenerator(seed int64, rotate bool, maxTranslate float64) *Generator {
	if maxTranslate < 0 || math.IsNaN(maxTranslate) {
		panic("transform: negative or NaN maximum translation")
	}
	return &Generator{
		rotate:       rotate,
		maxTranslate: maxTranslate,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

//Enabled returns true if the generator produces anything other than the identity.
func (G *Generator) Enabled() bool {
	return G.rotate || G.maxTranslate > 0
}

//Next returns the next transformation in the sequence. If neither rotation
//nor translation are enabled, it returns the identity and the random
//state is not touched.
func (G *Generator) Next() Transform {
	T := Identity()
	if G.rotate {
		T.Q = G.randomQuaternion()
	}
	if G.maxTranslate > 0 {
		T.T = G.randomTranslation()
	}
	return T
}

//randomQuaternion returns a unit quaternion distributed uniformly over SO(3)
//(K. Shoemake, Uniform random rotations, Graphics Gems III, 1992).
func (G *Generator) randomQuaternion() quat.Number {
	u1 := G.rng.Float64()
	u2 := 2 * math.Pi * G.rng.Float64()
	u3 := 2 * math.Pi * G.rng.Float64()
	a := math.Sqrt(1 - u1)
	b := math.Sqrt(u1)
	q := quat.Number{Real: b * math.Cos(u3), Imag: a * math.Sin(u2), Jmag: a * math.Cos(u2), Kmag: b * math.Sin(u3)}
	return quat.Scale(1/quat.Abs(q), q)
}

//randomTranslation returns a vector with a uniformly random direction and a
//length uniformly distributed in [0, maxTranslate].
func (G *Generator) randomTranslation() r3.Vec {
	z := 2*G.rng.Float64() - 1
	phi := 2 * math.Pi * G.rng.Float64()
	s := math.Sqrt(1 - z*z)
	dir := r3.Vec{X: s * math.Cos(phi), Y: s * math.Sin(phi), Z: z}
	return r3.Scale(G.maxTranslate*G.rng.Float64(), dir)
}
