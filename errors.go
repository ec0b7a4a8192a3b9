/*
 * errors.go, part of molgrid.
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
	"fmt"
	"strings"

	"github.com/rmera/molgrid/gridmaker"
)

//deco implements the decoration part of the Error interface.
type deco []string

func (D *deco) decorate(dec string) []string {
	if dec == "" {
		return *D
	}
	*D = append(*D, dec)
	return *D
}

//ConfigurationError is returned when the options, or the files they point to,
//don't describe a valid set of grids.
type ConfigurationError struct {
	Message string
	Err     error //the cause, if any
	deco
}

func (err *ConfigurationError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("molgrid: %s: %s", err.Message, err.Err.Error())
	}
	return "molgrid: " + err.Message
}

func (err *ConfigurationError) Decorate(dec string) []string { return err.deco.decorate(dec) }

func (err *ConfigurationError) Critical() bool { return true }

func (err *ConfigurationError) Unwrap() error { return err.Err }

func configError(caller string, err error, format string, a ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, a...), Err: err, deco: deco{caller}}
}

//OutsideAtom is an atom whose influence sphere lies outside the grid box.
type OutsideAtom struct {
	Ligand   bool    //false for receptor atoms
	Index    int     //index of the atom in its molecule
	Distance float64 //distance from the sphere to the box, in A
}

//GeometryError reports the atoms that were dropped because they fell outside of
//the box. It is not critical: the grids are complete when it is returned.
type GeometryError struct {
	Atoms []OutsideAtom
	deco
}

func (err *GeometryError) Error() string {
	var lig, rec int
	for _, v := range err.Atoms {
		if v.Ligand {
			lig++
		} else {
			rec++
		}
	}
	return fmt.Sprintf("molgrid: %d ligand and %d receptor atoms outside the grid box", lig, rec)
}

func (err *GeometryError) Decorate(dec string) []string { return err.deco.decorate(dec) }

func (err *GeometryError) Critical() bool { return false }

//AllocationError is returned when the device can't provide the memory for the grids.
type AllocationError struct {
	Err *gridmaker.AllocError
	deco
}

func (err *AllocationError) Error() string { return "molgrid: " + err.Err.Error() }

func (err *AllocationError) Decorate(dec string) []string { return err.deco.decorate(dec) }

func (err *AllocationError) Critical() bool { return true }

func (err *AllocationError) Unwrap() error { return err.Err }

//ConsistencyMismatch is the first voxel where the host and device paths disagree.
type ConsistencyMismatch struct {
	Channel  int
	Name     string
	Subgrid  int
	I, J, K  int
	CPU, GPU float32
	deco
}

func (err *ConsistencyMismatch) Error() string {
	return fmt.Sprintf("molgrid: host and device grids differ at channel %d (%s), subgrid %d, voxel (%d,%d,%d): %g vs %g",
		err.Channel, err.Name, err.Subgrid, err.I, err.J, err.K, err.CPU, err.GPU)
}

func (err *ConsistencyMismatch) Decorate(dec string) []string { return err.deco.decorate(dec) }

func (err *ConsistencyMismatch) Critical() bool { return false }

//errDecorate adds caller to the decorations of err, if err is one of the library's errors.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
	}
	return err
}

//Trace returns the chain of calls recorded in err's decorations, or the empty string
//if err is not one of the library's errors.
func Trace(err error) string {
	if err2, ok := err.(Error); ok {
		return strings.Join(err2.Decorate(""), " <- ")
	}
	return ""
}
