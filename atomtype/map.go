/*
 * map.go, part of molgrid.
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

package atomtype

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

//Map assigns each atom type to a grid channel, or to -1 if atoms of that
//type are not to be gridded. Several types can share a channel.
type Map struct {
	channel [NumTypes]int
	groups  [][]Type
}

//NewMap returns a map with one channel per element of groups. All the types in a
//group are assigned to the same channel. Types not present in any group are excluded.
func NewMap(groups [][]Type) (*Map, error) {
	M := new(Map)
	for i := range M.channel {
		M.channel[i] = -1
	}
	for ch, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("molgrid/atomtype.NewMap: channel %d has no types", ch)
		}
		for _, t := range g {
			if !t.Valid() {
				return nil, fmt.Errorf("molgrid/atomtype.NewMap: invalid type %d in channel %d", t, ch)
			}
			if M.channel[t] >= 0 {
				return nil, fmt.Errorf("molgrid/atomtype.NewMap: type %s assigned to channels %d and %d", t, M.channel[t], ch)
			}
			M.channel[t] = ch
		}
		M.groups = append(M.groups, append([]Type(nil), g...))
	}
	return M, nil
}

//ParseMap reads a map from r. Each non-empty line defines one channel, and
//contains the whitespace-separated names of the types that go into it.
//Everything after a '#' is ignored.
func ParseMap(r io.Reader) (*Map, error) {
	groups := make([][]Type, 0, 20)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		l := s.Text()
		if i := strings.IndexByte(l, '#'); i >= 0 {
			l = l[:i]
		}
		fields := strings.Fields(l)
		if len(fields) == 0 {
			continue
		}
		g := make([]Type, 0, len(fields))
		for _, f := range fields {
			t, ok := ByName(f)
			if !ok {
				return nil, fmt.Errorf("molgrid/atomtype.ParseMap: unknown atom type %q in line %d", f, line)
			}
			g = append(g, t)
		}
		groups = append(groups, g)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return NewMap(groups)
}

//ReadMap reads a map from the file fname. See ParseMap.
func ReadMap(fname string) (*Map, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	M, err := ParseMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return M, nil
}

//Channel returns the channel for atoms of type t, or -1 if they are excluded.
func (M *Map) Channel(t Type) int {
	if !t.Valid() {
		return -1
	}
	return M.channel[t]
}

//NChannels returns the number of channels in the map.
func (M *Map) NChannels() int {
	return len(M.groups)
}

//Types returns the types assigned to channel ch.
func (M *Map) Types(ch int) []Type {
	return append([]Type(nil), M.groups[ch]...)
}

//Name returns a string representation of the types in channel ch.
func (M *Map) Name(ch int) string {
	names := make([]string, len(M.groups[ch]))
	for i, t := range M.groups[ch] {
		names[i] = t.String()
	}
	return strings.Join(names, "_")
}

//String returns the map in the format read by ParseMap.
func (M *Map) String() string {
	var b strings.Builder
	for _, g := range M.groups {
		for i, t := range g {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func singletons(ts ...Type) [][]Type {
	g := make([][]Type, len(ts))
	for i, t := range ts {
		g[i] = []Type{t}
	}
	return g
}

//DefaultReceptorMap returns the receptor map gnina uses when none is given.
func DefaultReceptorMap() *Map {
	M, err := NewMap(singletons(
		AliphaticCarbonXSHydrophobe,
		AliphaticCarbonXSNonHydrophobe,
		AromaticCarbonXSHydrophobe,
		AromaticCarbonXSNonHydrophobe,
		Calcium,
		Iron,
		Magnesium,
		Nitrogen,
		NitrogenXSAcceptor,
		NitrogenXSDonor,
		NitrogenXSDonorAcceptor,
		OxygenXSAcceptor,
		OxygenXSDonorAcceptor,
		Phosphorus,
		Sulfur,
		Zinc,
	))
	if err != nil {
		panic(err.Error())
	}
	return M
}

//DefaultLigandMap returns the ligand map gnina uses when none is given.
func DefaultLigandMap() *Map {
	M, err := NewMap(singletons(
		AliphaticCarbonXSHydrophobe,
		AliphaticCarbonXSNonHydrophobe,
		AromaticCarbonXSHydrophobe,
		AromaticCarbonXSNonHydrophobe,
		Bromine,
		Chlorine,
		Fluorine,
		Nitrogen,
		NitrogenXSAcceptor,
		NitrogenXSDonor,
		NitrogenXSDonorAcceptor,
		Oxygen,
		OxygenXSAcceptor,
		OxygenXSDonorAcceptor,
		Phosphorus,
		Sulfur,
		SulfurAcceptor,
		Iodine,
		Boron,
	))
	if err != nil {
		panic(err.Error())
	}
	return M
}
