/*
 * interfaces.go, part of molgrid.
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

package molgrid

import "github.com/rmera/molgrid/mol"

//Model is a receptor-ligand pair to be gridded. Either molecule can be nil
//or empty.
type Model interface {
	//Receptor returns the receptor. Its grids are cached between calls
	//to SetModel unless they need to be recomputed.
	Receptor() *mol.Molecule

	//Ligand returns the ligand, which is gridded on every call to SetModel.
	Ligand() *mol.Molecule
}

//MolGetter produces a sequence of models. Next returns io.EOF when there are
//no more models.
type MolGetter interface {
	Next() (*mol.Model, error)
}

//Errors

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it just returns the current value.
	Critical() bool
}
