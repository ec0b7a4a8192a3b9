/*
 * mol.go, part of molgrid.
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

/*Package mol contains the molecules that molgrid grids: atoms with a chemical
element and an atom type, coordinates, readers for PDB, XYZ and gninatypes files,
a simple distance-based bond assignment and the heuristics that assign
atom types.*/
package mol

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/molgrid/atomtype"
	v3 "github.com/rmera/molgrid/v3"
)

//Atom contains the information of one atom, except for its coordinates.
type Atom struct {
	Name    string //PDB name
	ID      int    //serial number in the input file
	Index   int    //position in the molecule, set by the molecule
	Molname string //residue name
	Chain   string
	MolID   int //residue number
	Het     bool
	Symbol  string
	Type    atomtype.Type
	Bonds   []*Bond
}

//Copy returns a copy of the atom without its bonds.
func (A *Atom) Copy() *Atom {
	ret := *A
	ret.Bonds = nil
	return &ret
}

//Neighbors returns the atoms bonded to A.
func (A *Atom) Neighbors() []*Atom {
	ret := make([]*Atom, 0, len(A.Bonds))
	for _, b := range A.Bonds {
		ret = append(ret, b.Cross(A))
	}
	return ret
}

//Bonded returns the number of atoms bonded to A whose symbol is one of sym.
func (A *Atom) Bonded(sym ...string) int {
	n := 0
	for _, b := range A.Bonds {
		s := b.Cross(A).Symbol
		for _, v := range sym {
			if s == v {
				n++
				break
			}
		}
	}
	return n
}

//Molecule is a set of atoms with one set of coordinates.
//An empty molecule has nil coordinates.
type Molecule struct {
	Atoms  []*Atom
	Coords *v3.Matrix
}

//NewMolecule returns a molecule with the given atoms and coordinates.
//Both need to be of the same length. The Index field of each atom is set.
func NewMolecule(atoms []*Atom, coords *v3.Matrix) (*Molecule, error) {
	n := 0
	if coords != nil {
		n = coords.NVecs()
	}
	if len(atoms) != n {
		return nil, Error{fmt.Sprintf("%d atoms but %d coordinates", len(atoms), n), []string{"NewMolecule"}, true}
	}
	for i, a := range atoms {
		a.Index = i
	}
	return &Molecule{Atoms: atoms, Coords: coords}, nil
}

//Len returns the number of atoms in the molecule. A nil molecule has no atoms.
func (M *Molecule) Len() int {
	if M == nil {
		return 0
	}
	return len(M.Atoms)
}

//Atom returns the ith atom.
func (M *Molecule) Atom(i int) *Atom {
	return M.Atoms[i]
}

//Pos returns the position of the ith atom.
func (M *Molecule) Pos(i int) r3.Vec {
	return M.Coords.Vec(i)
}

//Center returns the geometric center of the molecule.
func (M *Molecule) Center() r3.Vec {
	if M.Len() == 0 {
		return r3.Vec{}
	}
	return M.Coords.Center()
}

//Untyped returns the indexes of the atoms with unknown type.
func (M *Molecule) Untyped() []int {
	var ret []int
	for i, a := range M.Atoms {
		if !a.Type.Valid() {
			ret = append(ret, i)
		}
	}
	return ret
}

//Error is the error type for the mol package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err Error) Critical() bool { return err.critical }

type errorInt interface {
	Error() string
	Critical() bool
	Decorate(string) []string
}

func errDecorate(err error, caller string) error {
	if err2, ok := err.(errorInt); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
