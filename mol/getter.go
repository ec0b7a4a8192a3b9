/*
 * getter.go, part of molgrid.
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
	"io"
)

//Model is a receptor-ligand pair. Either molecule can be nil.
type Model struct {
	Rec *Molecule
	Lig *Molecule
}

//Receptor returns the receptor of the model.
func (M *Model) Receptor() *Molecule { return M.Rec }

//Ligand returns the ligand of the model.
func (M *Model) Ligand() *Molecule { return M.Lig }

//Getter produces models with one receptor and, in turn, each ligand (each MODEL
//or frame) in a list of files. The files are read lazily, one at a time.
type Getter struct {
	rec     *Molecule
	files   []string
	current []*Molecule
	reader  func(string) ([]*Molecule, error)
	read    int
}

//NewGetter reads the receptor, if recfile is not empty, and returns a Getter that
//pairs it with the ligands in ligfiles. Without ligand files, the Getter returns
//one model with only the receptor.
func NewGetter(recfile string, ligfiles ...string) (*Getter, error) {
	G := &Getter{files: ligfiles, reader: ReadFile}
	if len(ligfiles) == 0 {
		G.current = []*Molecule{nil}
	}
	if recfile != "" {
		recs, err := ReadFile(recfile)
		if err != nil {
			return nil, errDecorate(err, "NewGetter")
		}
		G.rec = recs[0]
	}
	return G, nil
}

//Receptor returns the receptor shared by all the models.
func (G *Getter) Receptor() *Molecule { return G.rec }

//Read returns the number of models returned so far.
func (G *Getter) Read() int { return G.read }

//Next returns the next model. It returns io.EOF when no ligands are left.
func (G *Getter) Next() (*Model, error) {
	for len(G.current) == 0 {
		if len(G.files) == 0 {
			return nil, io.EOF
		}
		mols, err := G.reader(G.files[0])
		if err != nil {
			return nil, errDecorate(err, "Getter.Next")
		}
		G.files = G.files[1:]
		G.current = mols
	}
	lig := G.current[0]
	G.current = G.current[1:]
	G.read++
	return &Model{Rec: G.rec, Lig: lig}, nil
}
