/*
 * formats.go, part of molgrid.
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

package gridio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rmera/molgrid/grid"
)

//5 significant digits, as the AutoDock tools write them.
func ff(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

func checkShape(D grid.Dims, g *grid.Grid) {
	if g.N != D.N() {
		panic(fmt.Sprintf("gridio: grid of size %d doesn't match dimensions of size %d", g.N, D.N()))
	}
}

//WriteMAP writes g, with the geometry D, in the AutoDock4 grid map format.
//The values are written with x changing fastest and z slowest.
func WriteMAP(w io.Writer, D grid.Dims, g *grid.Grid) error {
	checkShape(D, g)
	bw := bufio.NewWriter(w)
	n := g.N
	c := D.Center()
	fmt.Fprintf(bw, "GRID_PARAMETER_FILE\nGRID_DATA_FILE\nMACROMOLECULE\n")
	fmt.Fprintf(bw, "SPACING %s\n", ff(D.Resolution))
	fmt.Fprintf(bw, "NELEMENTS %d %d %d\n", n-1, n-1, n-1)
	fmt.Fprintf(bw, "CENTER %s %s %s\n", ff(c[0]), ff(c[1]), ff(c[2]))
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				bw.WriteString(ff(float64(g.At(i, j, k))))
				bw.WriteByte('\n')
			}
		}
	}
	return bw.Flush()
}

//WriteDX writes g, with the geometry D, in the OpenDX format.
//The values are written with z changing fastest, 3 per line.
func WriteDX(w io.Writer, D grid.Dims, g *grid.Grid) error {
	checkShape(D, g)
	bw := bufio.NewWriter(w)
	n := g.N
	o := D.Origin()
	r := ff(D.Resolution)
	fmt.Fprintf(bw, "object 1 class gridpositions counts %d %d %d\n", n, n, n)
	fmt.Fprintf(bw, "origin %s %s %s\n", ff(o[0]), ff(o[1]), ff(o[2]))
	fmt.Fprintf(bw, "delta %s 0 0\ndelta 0 %s 0\ndelta 0 0 %s\n", r, r, r)
	fmt.Fprintf(bw, "object 2 class gridconnections counts %d %d %d\n", n, n, n)
	fmt.Fprintf(bw, "object 3 class array type double rank 0 items %d data follows\n", n*n*n)
	total := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				bw.WriteString(ff(float64(g.At(i, j, k))))
				total++
				if total%3 == 0 {
					bw.WriteByte('\n')
				} else {
					bw.WriteByte(' ')
				}
			}
		}
	}
	if total%3 != 0 {
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "\nattribute \"dep\" string \"positions\"\n")
	fmt.Fprintf(bw, "object \"Example grid\" class field\n")
	fmt.Fprintf(bw, "component \"positions\" value 1\n")
	fmt.Fprintf(bw, "component \"connections\" value 2\n")
	fmt.Fprintf(bw, "component \"data\" value 3\n")
	return bw.Flush()
}

//DXGrid is a grid read from an OpenDX file.
type DXGrid struct {
	Center     [3]float64
	Resolution float64
	Grid       *grid.Grid
}

//ReadDX reads a cubic grid with equal spacing along every axis from an OpenDX file.
func ReadDX(r io.Reader) (*DXGrid, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	var (
		n       int
		origin  [3]float64
		deltas  [3][3]float64
		ndelta  int
		items   int
		ret     = new(DXGrid)
		line    int
		inData  bool
		read    int
		haveOri bool
	)
	fail := func(format string, a ...interface{}) (*DXGrid, error) {
		return nil, fmt.Errorf("molgrid/gridio.ReadDX: line %d: %s", line, fmt.Sprintf(format, a...))
	}
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if inData {
			if fields[0] == "attribute" || fields[0] == "object" {
				inData = false
			} else {
				for _, f := range fields {
					if read >= items {
						return fail("more than %d values", items)
					}
					v, err := strconv.ParseFloat(f, 64)
					if err != nil {
						return fail("%s", err)
					}
					i, j, k := ret.Grid.Coords(read)
					ret.Grid.Set(i, j, k, float32(v))
					read++
				}
				continue
			}
		}
		switch {
		case fields[0] == "object" && strings.Contains(s.Text(), "gridpositions"):
			if len(fields) < 8 {
				return fail("malformed gridpositions")
			}
			var c [3]int
			for i := 0; i < 3; i++ {
				v, err := strconv.Atoi(fields[len(fields)-3+i])
				if err != nil {
					return fail("%s", err)
				}
				c[i] = v
			}
			if c[0] != c[1] || c[0] != c[2] || c[0] < 2 {
				return fail("only cubic grids are supported, got %v", c)
			}
			n = c[0]
		case fields[0] == "origin":
			if len(fields) != 4 {
				return fail("malformed origin")
			}
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return fail("%s", err)
				}
				origin[i] = v
			}
			haveOri = true
		case fields[0] == "delta":
			if len(fields) != 4 || ndelta >= 3 {
				return fail("malformed delta")
			}
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return fail("%s", err)
				}
				deltas[ndelta][i] = v
			}
			ndelta++
		case fields[0] == "object" && strings.Contains(s.Text(), "data follows"):
			if n == 0 || !haveOri || ndelta != 3 {
				return fail("data found before the grid geometry")
			}
			for i, f := range fields {
				if f == "items" && i+1 < len(fields) {
					v, err := strconv.Atoi(fields[i+1])
					if err != nil {
						return fail("%s", err)
					}
					items = v
				}
			}
			if items != n*n*n {
				return fail("%d items for a %d^3 grid", items, n)
			}
			ret.Grid = grid.New(n)
			inData = true
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if ret.Grid == nil || read != items {
		return nil, fmt.Errorf("molgrid/gridio.ReadDX: expected %d values, read %d", items, read)
	}
	res := deltas[0][0]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if (i == j && deltas[i][j] != res) || (i != j && deltas[i][j] != 0) {
				return nil, fmt.Errorf("molgrid/gridio.ReadDX: only equal, axis-aligned spacings are supported")
			}
		}
	}
	if res <= 0 {
		return nil, fmt.Errorf("molgrid/gridio.ReadDX: non-positive spacing %g", res)
	}
	ret.Resolution = res
	for i := 0; i < 3; i++ {
		ret.Center[i] = origin[i] + float64(n-1)*res/2
	}
	return ret, nil
}
