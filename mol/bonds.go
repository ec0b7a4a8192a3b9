/*
 * bonds.go, part of molgrid.
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
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
var symbolCovrad = map[string]float64{
	"H":  0.4, //longer than the real one, extra bonds are pruned later.
	"B":  0.84,
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  // hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//Maximum number of bonds for an element. 0 means that the element
//is not checked.
var symbolMaxBonds = map[string]int{
	"H":  1,
	"C":  4,
	"O":  2,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

//Metals are not bonded, they are gridded as ions.
var metals = map[string]bool{
	"Na": true, "K": true, "Mg": true, "Ca": true, "Mn": true, "Fe": true,
	"Co": true, "Ni": true, "Cu": true, "Zn": true, "Cr": true, "Cd": true,
	"Hg": true, "Al": true, "Sr": true, "Ba": true, "Li": true,
}

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

//Bond is a covalent bond between two atoms.
type Bond struct {
	At1  *Atom
	At2  *Atom
	Dist float64
}

//Cross returns the atom bonded to origin through B.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("mol: trying to cross a bond from an atom that is not in it")
}

func removeBond(at *Atom, b *Bond) {
	for i, v := range at.Bonds {
		if v == b {
			at.Bonds = append(at.Bonds[:i], at.Bonds[i+1:]...)
			return
		}
	}
}

//cell returns the integer cell of a position in a cubic cell list.
func cell(p r3.Vec, side float64) [3]int {
	return [3]int{int(math.Floor(p.X / side)), int(math.Floor(p.Y / side)), int(math.Floor(p.Z / side))}
}

//AssignBonds assigns bonds to a molecule based on a simple distance
//criterium, similar to that described in DOI:10.1186/1758-2946-3-33
//Candidate pairs are taken from a cell list, so it also works for
//macromolecules. Any previous bond is removed. Metals and elements
//without a known covalent radius are left unbonded.
func AssignBonds(M *Molecule) {
	tot := M.Len()
	maxcov := 0.0
	for i := 0; i < tot; i++ {
		at := M.Atom(i)
		at.Bonds = nil
		if bondable(at.Symbol) {
			maxcov = math.Max(maxcov, symbolCovrad[at.Symbol])
		}
	}
	side := 2*maxcov + bondtol
	cells := make(map[[3]int][]int, tot)
	for i := 0; i < tot; i++ {
		if bondable(M.Atom(i).Symbol) {
			c := cell(M.Pos(i), side)
			cells[c] = append(cells[c], i)
		}
	}
	for i := 0; i < tot; i++ {
		at1 := M.Atom(i)
		if !bondable(at1.Symbol) {
			continue
		}
		p1 := M.Pos(i)
		c := cell(p1, side)
		cov1 := symbolCovrad[at1.Symbol]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, j := range cells[[3]int{c[0] + dx, c[1] + dy, c[2] + dz}] {
						if j <= i {
							continue
						}
						at2 := M.Atom(j)
						d := r3.Norm(r3.Sub(M.Pos(j), p1))
						if d < cov1+symbolCovrad[at2.Symbol]+bondtol && d > tooclose {
							b := &Bond{At1: at1, At2: at2, Dist: d}
							at1.Bonds = append(at1.Bonds, b)
							at2.Bonds = append(at2.Bonds, b)
						}
					}
				}
			}
		}
	}
	//Now we check that no atom has too many bonds.
	for i := 0; i < tot; i++ {
		at := M.Atom(i)
		max := symbolMaxBonds[at.Symbol]
		if max == 0 {
			continue
		}
		sort.Slice(at.Bonds, func(i, j int) bool { return at.Bonds[i].Dist < at.Bonds[j].Dist })
		for len(at.Bonds) > max {
			b := at.Bonds[len(at.Bonds)-1] //the longest bond goes
			removeBond(b.At1, b)
			removeBond(b.At2, b)
		}
	}
}

func bondable(sym string) bool {
	return !metals[sym] && symbolCovrad[sym] > 0
}

//This tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
//It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", Error{"empty atom name", []string{"symbolFromName"}, true}
	}
	switch name {
	case "CU", "CO", "CL", "NA", "SE", "ZN", "MG", "MN", "FE", "CA", "BR":
		if name == "CA" {
			break //alpha carbon, not calcium
		}
		return name[:1] + strings.ToLower(name[1:]), nil
	}
	name = strings.TrimLeft(name, "0123456789") //1HB, 2HG and so on.
	if name == "" {
		return "", Error{"numeric atom name", []string{"symbolFromName"}, true}
	}
	switch name[0] {
	case 'H', 'C', 'N', 'O', 'P', 'S', 'F', 'I', 'B':
		if len(name) >= 2 && name[:2] == "BR" {
			return "Br", nil
		}
		return name[:1], nil
	}
	return "", Error{fmt.Sprintf("couldn't guess symbol from PDB name %s", name), []string{"symbolFromName"}, true}
}

//normalize returns the element symbol with the usual capitalization.
func normalize(sym string) string {
	sym = strings.TrimSpace(sym)
	if len(sym) == 0 {
		return sym
	}
	return strings.ToUpper(sym[:1]) + strings.ToLower(sym[1:])
}
