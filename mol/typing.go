/*
 * typing.go, part of molgrid.
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

package mol

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/molgrid/atomtype"
)

//side chain nitrogens that carry hydrogens in proteins.
var pdbNDonors = map[string]bool{
	"LYS NZ": true, "ARG NE": true, "ARG NH1": true, "ARG NH2": true,
	"ASN ND2": true, "GLN NE2": true, "TRP NE1": true,
	"HIS ND1": true, "HIS NE2": true,
}

//oxygens in hydroxyl groups and water.
var pdbODonors = map[string]bool{
	"SER OG": true, "THR OG1": true, "TYR OH": true,
	"HOH O": true, "WAT O": true,
}

//AssignTypes assigns bonds to M and then an atom type to each of its atoms,
//using the element, the bonded neighbors and, for molecules without hydrogens,
//the residue and atom names. Atoms that can't be typed get atomtype.Unknown.
func AssignTypes(M *Molecule) {
	AssignBonds(M)
	noH := true
	for _, a := range M.Atoms {
		if a.Symbol == "H" {
			noH = false
			break
		}
	}
	for _, a := range M.Atoms {
		a.Type = atomType(M, a, noH)
	}
}

func atomType(M *Molecule, a *Atom, noH bool) atomtype.Type {
	switch a.Symbol {
	case "H":
		if a.Bonded("N", "O") > 0 {
			return atomtype.PolarHydrogen
		}
		return atomtype.Hydrogen
	case "C":
		hetero := a.Bonded("N", "O") > 0
		switch {
		case aromatic(M, a) && hetero:
			return atomtype.AromaticCarbonXSNonHydrophobe
		case aromatic(M, a):
			return atomtype.AromaticCarbonXSHydrophobe
		case hetero:
			return atomtype.AliphaticCarbonXSNonHydrophobe
		}
		return atomtype.AliphaticCarbonXSHydrophobe
	case "N":
		key := a.Molname + " " + a.Name
		donor := a.Bonded("H") > 0
		if noH {
			donor = pdbNDonors[key] || (a.Name == "N" && a.Molname != "PRO")
		}
		acceptor := !donor && len(a.Bonds) < 3
		if noH && a.Molname == "HIS" && donor {
			acceptor = true
		}
		switch {
		case donor && acceptor:
			return atomtype.NitrogenXSDonorAcceptor
		case donor:
			return atomtype.NitrogenXSDonor
		case acceptor:
			return atomtype.NitrogenXSAcceptor
		}
		return atomtype.Nitrogen
	case "O":
		donor := a.Bonded("H") > 0
		if noH {
			donor = pdbODonors[a.Molname+" "+a.Name]
		}
		if donor {
			return atomtype.OxygenXSDonorAcceptor
		}
		return atomtype.OxygenXSAcceptor
	case "S":
		return atomtype.Sulfur
	case "P":
		return atomtype.Phosphorus
	case "F":
		return atomtype.Fluorine
	case "Cl":
		return atomtype.Chlorine
	case "Br":
		return atomtype.Bromine
	case "I":
		return atomtype.Iodine
	case "B":
		return atomtype.Boron
	case "Mg":
		return atomtype.Magnesium
	case "Mn":
		return atomtype.Manganese
	case "Zn":
		return atomtype.Zinc
	case "Ca":
		return atomtype.Calcium
	case "Fe":
		return atomtype.Iron
	}
	if metals[a.Symbol] {
		return atomtype.GenericMetal
	}
	return atomtype.Unknown
}

//maximum distance, in A, of a ring atom to the mean plane of an aromatic ring.
const planarTol = 0.15

//aromatic returns true if a is part of a planar 5 or 6-membered ring
//of sp2-like C, N, O or S atoms.
func aromatic(M *Molecule, a *Atom) bool {
	for _, ring := range rings(a, 6) {
		if len(ring) < 5 {
			continue
		}
		ok := true
		for _, r := range ring {
			maxb := 3
			if r.Symbol == "O" || r.Symbol == "S" {
				maxb = 2
			}
			if (r.Symbol != "C" && r.Symbol != "N" && r.Symbol != "O" && r.Symbol != "S") || len(r.Bonds) > maxb {
				ok = false
				break
			}
		}
		if ok && planar(M, ring) {
			return true
		}
	}
	return false
}

//rings returns the simple cycles through a with at most max atoms.
//Each cycle is found twice, once per direction, which doesn't matter here.
func rings(a *Atom, max int) [][]*Atom {
	var ret [][]*Atom
	path := []*Atom{a}
	var walk func(at *Atom)
	walk = func(at *Atom) {
		for _, n := range at.Neighbors() {
			if n == a && len(path) >= 3 {
				ring := make([]*Atom, len(path))
				copy(ring, path)
				ret = append(ret, ring)
				continue
			}
			if len(path) >= max || inPath(path, n) {
				continue
			}
			path = append(path, n)
			walk(n)
			path = path[:len(path)-1]
		}
	}
	walk(a)
	return ret
}

func inPath(path []*Atom, at *Atom) bool {
	for _, v := range path {
		if v == at {
			return true
		}
	}
	return false
}

//planar returns true if all the ring atoms lie within planarTol of
//the ring's mean plane.
func planar(M *Molecule, ring []*Atom) bool {
	ps := make([]r3.Vec, len(ring))
	var c r3.Vec
	for i, at := range ring {
		ps[i] = M.Pos(at.Index)
		c = r3.Add(c, ps[i])
	}
	c = r3.Scale(1/float64(len(ps)), c)
	var n r3.Vec
	for i := range ps {
		n = r3.Add(n, r3.Cross(r3.Sub(ps[i], c), r3.Sub(ps[(i+1)%len(ps)], c)))
	}
	if r3.Norm(n) == 0 {
		return false
	}
	n = r3.Unit(n)
	for _, p := range ps {
		if math.Abs(r3.Dot(r3.Sub(p, c), n)) > planarTol {
			return false
		}
	}
	return true
}
