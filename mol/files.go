/*
 * files.go, part of molgrid.
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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/molgrid/atomtype"
	"github.com/rmera/molgrid/gridio"
	v3 "github.com/rmera/molgrid/v3"
)

//builder accumulates atoms and coordinates for one molecule.
type builder struct {
	atoms []*Atom
	pos   []r3.Vec
}

func (B *builder) add(a *Atom, p r3.Vec) {
	B.atoms = append(B.atoms, a)
	B.pos = append(B.pos, p)
}

func (B *builder) len() int { return len(B.atoms) }

func (B *builder) molecule() (*Molecule, error) {
	var coords *v3.Matrix
	if len(B.pos) > 0 {
		coords = v3.FromVecs(B.pos)
	}
	return NewMolecule(B.atoms, coords)
}

//Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
//object with the info except for the coordinates, which are returned
//separately.
func readPDBLine(line string) (*Atom, r3.Vec, error) {
	var p r3.Vec
	if len(line) < 54 {
		return nil, p, fmt.Errorf("ATOM/HETATM line too short")
	}
	err := make([]error, 4) //accumulate errors to check at the end of the line.
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.Molname = strings.TrimSpace(line[17:20])
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.MolID, _ = strconv.Atoi(strings.TrimSpace(line[22:26]))
	p.X, err[1] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	p.Y, err[2] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	p.Z, err[3] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	if len(line) >= 78 {
		atom.Symbol = normalize(line[76:78])
	}
	for _, e := range err {
		if e != nil {
			return nil, p, e
		}
	}
	//Guess the symbol from the atom name, if it was not given.
	//Atoms without a symbol are left untyped.
	if atom.Symbol == "" {
		atom.Symbol, _ = symbolFromName(atom.Name)
	}
	atom.Type = atomtype.Unknown
	return atom, p, nil
}

//ReadPDB reads the ATOM and HETATM records of a PDB file. Each MODEL
//becomes a separate molecule. The atoms are not typed.
func ReadPDB(r io.Reader) ([]*Molecule, error) {
	var ret []*Molecule
	b := new(builder)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	flush := func() error {
		if b.len() == 0 {
			return nil
		}
		m, err := b.molecule()
		if err != nil {
			return err
		}
		ret = append(ret, m)
		b = new(builder)
		return nil
	}
	for s.Scan() {
		line++
		l := strings.TrimRight(s.Text(), "\r")
		switch {
		case strings.HasPrefix(l, "ATOM") || strings.HasPrefix(l, "HETATM"):
			a, p, err := readPDBLine(l)
			if err != nil {
				return nil, Error{fmt.Sprintf("line %d: %s", line, err.Error()), []string{"ReadPDB"}, true}
			}
			b.add(a, p)
		case strings.HasPrefix(l, "ENDMDL"), strings.HasPrefix(l, "MODEL"):
			if err := flush(); err != nil {
				return nil, errDecorate(err, "ReadPDB")
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, errDecorate(err, "ReadPDB")
	}
	if len(ret) == 0 {
		return nil, Error{"no atoms in PDB file", []string{"ReadPDB"}, true}
	}
	return ret, nil
}

//ReadXYZ reads all the frames of an XYZ file. The second line of each
//frame (the comment) is ignored. The atoms are not typed.
func ReadXYZ(r io.Reader) ([]*Molecule, error) {
	var ret []*Molecule
	s := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		ok := s.Scan()
		line++
		return strings.TrimSpace(s.Text()), ok
	}
	for {
		l, ok := next()
		if !ok {
			break
		}
		if l == "" {
			continue
		}
		natoms, err := strconv.Atoi(l)
		if err != nil {
			return nil, Error{fmt.Sprintf("line %d: expected the number of atoms, got %q", line, l), []string{"ReadXYZ"}, true}
		}
		next() //comment
		b := new(builder)
		for i := 0; i < natoms; i++ {
			l, ok = next()
			fields := strings.Fields(l)
			if !ok || len(fields) < 4 {
				return nil, Error{fmt.Sprintf("line %d: malformed or missing atom line", line), []string{"ReadXYZ"}, true}
			}
			var c [3]float64
			for j := range c {
				c[j], err = strconv.ParseFloat(fields[j+1], 64)
				if err != nil {
					return nil, Error{fmt.Sprintf("line %d: %s", line, err), []string{"ReadXYZ"}, true}
				}
			}
			a := &Atom{Name: fields[0], ID: i + 1, Symbol: normalize(fields[0]), Type: atomtype.Unknown}
			b.add(a, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
		}
		m, err := b.molecule()
		if err != nil {
			return nil, errDecorate(err, "ReadXYZ")
		}
		ret = append(ret, m)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, Error{"no frames in XYZ file", []string{"ReadXYZ"}, true}
	}
	return ret, nil
}

//gninatypes records are 3 float32 coordinates followed by an int32 type.
const gninatypesRecord = 16

//ReadGninatypes reads a gninatypes file: a sequence of little-endian records of
//x, y, z (float32) and the atom type (int32). The atoms come already typed.
func ReadGninatypes(r io.Reader) (*Molecule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%gninatypesRecord != 0 {
		return nil, Error{fmt.Sprintf("gninatypes data of %d bytes is not a whole number of records", len(data)), []string{"ReadGninatypes"}, true}
	}
	b := new(builder)
	le := binary.LittleEndian
	for i := 0; i < len(data); i += gninatypesRecord {
		var p r3.Vec
		p.X = float64(math.Float32frombits(le.Uint32(data[i:])))
		p.Y = float64(math.Float32frombits(le.Uint32(data[i+4:])))
		p.Z = float64(math.Float32frombits(le.Uint32(data[i+8:])))
		t := atomtype.Type(int32(le.Uint32(data[i+12:])))
		a := &Atom{ID: b.len() + 1, Type: atomtype.Unknown}
		if t.Valid() {
			a.Type = t
			a.Symbol = t.Info().Symbol
			a.Name = a.Symbol
		}
		b.add(a, p)
	}
	m, err := b.molecule()
	return m, errDecorate(err, "ReadGninatypes")
}

//WriteGninatypes writes the typed atoms of M in the gninatypes format.
//Untyped atoms are written with type -1.
func WriteGninatypes(w io.Writer, M *Molecule) error {
	bw := bufio.NewWriter(w)
	le := binary.LittleEndian
	rec := make([]byte, gninatypesRecord)
	for i, a := range M.Atoms {
		p := M.Pos(i)
		le.PutUint32(rec[0:], math.Float32bits(float32(p.X)))
		le.PutUint32(rec[4:], math.Float32bits(float32(p.Y)))
		le.PutUint32(rec[8:], math.Float32bits(float32(p.Z)))
		le.PutUint32(rec[12:], uint32(int32(a.Type)))
		if _, err := bw.Write(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

//format returns the molecule format of fname from its extension,
//ignoring a trailing compression extension.
func format(fname string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(fname, ".gz"), ".zst")
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
}

//ReadFile reads all the molecules in fname, which can be a PDB, XYZ or
//gninatypes file, optionally compressed with gzip or zstd. Molecules read from
//PDB or XYZ files are typed with AssignTypes.
func ReadFile(fname string) ([]*Molecule, error) {
	f, err := gridio.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var mols []*Molecule
	switch format(fname) {
	case "pdb", "ent":
		mols, err = ReadPDB(f)
	case "xyz":
		mols, err = ReadXYZ(f)
	case "gninatypes":
		m, err := ReadGninatypes(f)
		if err != nil {
			return nil, errDecorate(err, "ReadFile "+fname)
		}
		return []*Molecule{m}, nil
	default:
		return nil, Error{fmt.Sprintf("unknown molecule format for %s", fname), []string{"ReadFile"}, true}
	}
	if err != nil {
		return nil, errDecorate(err, "ReadFile "+fname)
	}
	for _, m := range mols {
		AssignTypes(m)
	}
	return mols, nil
}
