/*
 * molsgridder.go, part of molgrid.
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

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

//MolsGridder is a Gridder that gets its models from a MolGetter.
type MolsGridder struct {
	*Gridder
	getter MolGetter
	read   int
}

//NewMolsGridder returns a MolsGridder that grids the models produced by getter.
func NewMolsGridder(opt Options, getter MolGetter, log logrus.FieldLogger) (*MolsGridder, error) {
	G, err := New(opt, log)
	if err != nil {
		return nil, errDecorate(err, "NewMolsGridder")
	}
	return &MolsGridder{Gridder: G, getter: getter}, nil
}

//ReadMolecule grids the next model from the getter. The receptor is
//only read from the first model. It returns io.EOF when the getter has
//no more models. A *GeometryError means that the model was gridded, but
//some atoms were dropped.
func (M *MolsGridder) ReadMolecule() error {
	start := time.Now()
	m, err := M.getter.Next()
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return errDecorate(err, "ReadMolecule")
	}
	read := time.Since(start)
	err = M.SetModel(m, true, M.read == 0)
	M.read++
	if M.opt.Timeit {
		M.log.WithFields(logrus.Fields{
			"model": M.read,
			"read":  read,
			"grid":  time.Since(start) - read,
		}).Debug("molgrid: model gridded")
	}
	return errDecorate(err, "ReadMolecule")
}

//Read returns the number of models gridded so far.
func (M *MolsGridder) Read() int { return M.read }
