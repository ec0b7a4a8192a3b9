/*
 * types.go, part of molgrid.
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

/*Package atomtype contains the table of atom types that molgrid knows about
(the smina/X-Score types used by gnina), their radii, and the maps that
assign each type to a grid channel.*/
package atomtype

//Type is the index of an atom type in the type table.
type Type int

//Unknown is the type given to atoms that could not be typed.
//Unknown atoms are never gridded.
const Unknown Type = -1

const (
	Hydrogen Type = iota
	PolarHydrogen
	AliphaticCarbonXSHydrophobe
	AliphaticCarbonXSNonHydrophobe
	AromaticCarbonXSHydrophobe
	AromaticCarbonXSNonHydrophobe
	Nitrogen
	NitrogenXSDonor
	NitrogenXSDonorAcceptor
	NitrogenXSAcceptor
	Oxygen
	OxygenXSDonor
	OxygenXSDonorAcceptor
	OxygenXSAcceptor
	Sulfur
	SulfurAcceptor
	Phosphorus
	Fluorine
	Chlorine
	Bromine
	Iodine
	Magnesium
	Manganese
	Zinc
	Calcium
	Iron
	GenericMetal
	Boron
	NumTypes
)

//Info holds the per-type data.
type Info struct {
	Name           string
	Symbol         string
	CovalentRadius float64
	XSRadius       float64
}

//Covalent radii follow smina. XS radii are the X-Score ones, with 1.2 A for metals.
var table = [NumTypes]Info{
	{"Hydrogen", "H", 0.37, 0.37},
	{"PolarHydrogen", "H", 0.37, 0.37},
	{"AliphaticCarbonXSHydrophobe", "C", 0.77, 1.9},
	{"AliphaticCarbonXSNonHydrophobe", "C", 0.77, 1.9},
	{"AromaticCarbonXSHydrophobe", "C", 0.77, 1.9},
	{"AromaticCarbonXSNonHydrophobe", "C", 0.77, 1.9},
	{"Nitrogen", "N", 0.75, 1.8},
	{"NitrogenXSDonor", "N", 0.75, 1.8},
	{"NitrogenXSDonorAcceptor", "N", 0.75, 1.8},
	{"NitrogenXSAcceptor", "N", 0.75, 1.8},
	{"Oxygen", "O", 0.73, 1.7},
	{"OxygenXSDonor", "O", 0.73, 1.7},
	{"OxygenXSDonorAcceptor", "O", 0.73, 1.7},
	{"OxygenXSAcceptor", "O", 0.73, 1.7},
	{"Sulfur", "S", 1.02, 2.0},
	{"SulfurAcceptor", "S", 1.02, 2.0},
	{"Phosphorus", "P", 1.06, 2.1},
	{"Fluorine", "F", 0.71, 1.5},
	{"Chlorine", "Cl", 0.99, 1.8},
	{"Bromine", "Br", 1.14, 2.0},
	{"Iodine", "I", 1.33, 2.2},
	{"Magnesium", "Mg", 1.30, 1.2},
	{"Manganese", "Mn", 1.39, 1.2},
	{"Zinc", "Zn", 1.31, 1.2},
	{"Calcium", "Ca", 1.74, 1.2},
	{"Iron", "Fe", 1.25, 1.2},
	{"GenericMetal", "M", 1.75, 1.2},
	{"Boron", "B", 0.90, 1.92},
}

var byName map[string]Type

func init() {
	byName = make(map[string]Type, NumTypes)
	for i, v := range table {
		byName[v.Name] = Type(i)
	}
}

//Valid returns true if T is one of the types in the table.
func (T Type) Valid() bool {
	return T >= 0 && T < NumTypes
}

//Info returns the table entry for T. Panics for invalid types.
func (T Type) Info() Info {
	if !T.Valid() {
		panic("atomtype: invalid atom type")
	}
	return table[T]
}

func (T Type) String() string {
	if !T.Valid() {
		return "Unknown"
	}
	return table[T].Name
}

//Radius returns the covalent radius of T if covalent is true,
//and the XS radius otherwise.
func (T Type) Radius(covalent bool) float64 {
	if covalent {
		return T.Info().CovalentRadius
	}
	return T.Info().XSRadius
}

//ByName returns the type with the given name.
func ByName(name string) (Type, bool) {
	t, ok := byName[name]
	if !ok {
		return Unknown, false
	}
	return t, true
}
