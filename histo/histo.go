/*
 * histo.go, part of molgrid.
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

//Package histo builds histograms of voxel values, one per channel and subgrid.
package histo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rmera/molgrid/grid"
	"gonum.org/v1/gonum/floats"
)

//Data is a histogram with fixed dividers. A value v goes to bin i if
//dividers[i] <= v < dividers[i+1]; values outside are counted in Total only.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

//NewData returns an empty histogram with the given dividers, which must be sorted.
//If an ID is given it is set, otherwise the ID is -1.
func NewData(dividers []float64, ID ...int) *Data {
	if len(dividers) < 2 || !sort.Float64sAreSorted(dividers) {
		panic("molgrid/histo.NewData: dividers must be at least 2 sorted values")
	}
	d := &Data{id: -1, dividers: append([]float64(nil), dividers...), histo: make([]float64, len(dividers)-1)}
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

//ID returns the ID of the histogram
func (D *Data) ID() int { return D.id }

//Total returns the number of points added, including those outside the dividers.
func (D *Data) Total() int { return D.total }

//View returns the bins. Modifying it modifies the histogram.
func (D *Data) View() []float64 { return D.histo }

//Dividers returns a copy of the dividers.
func (D *Data) Dividers() []float64 { return append([]float64(nil), D.dividers...) }

//Normalized returns true if the histogram is normalized
func (D *Data) Normalized() bool { return D.normalized }

func (D *Data) bin(v float64) int {
	//first divider strictly greater than v
	i := sort.SearchFloat64s(D.dividers, v)
	if i < len(D.dividers) && D.dividers[i] == v {
		i++
	}
	if i == 0 || i == len(D.dividers) {
		return -1
	}
	return i - 1
}

//AddData adds the given data points to the histogram
func (D *Data) AddData(points ...float64) {
	norma := D.normalized
	if norma {
		D.normaunnorma(false)
	}
	for _, v := range points {
		if b := D.bin(v); b >= 0 {
			D.histo[b]++
		}
	}
	D.total += len(points)
	if norma {
		D.Normalize()
	}
}

//AddGrid adds every voxel of g, or only the non-zero ones if nonZero is true.
func (D *Data) AddGrid(g *grid.Grid, nonZero bool) {
	points := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if nonZero && v == 0 {
			continue
		}
		points = append(points, float64(v))
	}
	D.AddData(points...)
}

//Normalize divides the bins by the number of points added.
func (D *Data) Normalize() { D.normaunnorma(true) }

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

//Sum returns the sum of the bins.
func (D *Data) Sum() float64 { return floats.Sum(D.histo) }

//String returns the dividers of each bin in one line and the bin values in the next.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + strings.Join(d, " ") + "\n" + strings.Join(h, " ")
}

type jsonData struct {
	ID         int       `json:"id"`
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{D.id, D.normalized, D.total, D.dividers, D.histo})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("molgrid/histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.id, D.normalized, D.total, D.dividers, D.histo = a.ID, a.Normalized, a.Total, a.Dividers, a.Histo
	return nil
}

//Matrix holds one histogram per subgrid (row) and channel (column), all
//with the same dividers.
type Matrix struct {
	rows, cols int
	names      []string
	d          []*Data //row-major
}

//NewMatrix returns a matrix of empty histograms. names, if not nil, labels the columns.
func NewMatrix(r, c int, dividers []float64, names []string) *Matrix {
	if names != nil && len(names) != c {
		panic("molgrid/histo.NewMatrix: one name per column is needed")
	}
	M := &Matrix{rows: r, cols: c, names: names, d: make([]*Data, r*c)}
	for i := range M.d {
		M.d[i] = NewData(dividers, i%c)
	}
	return M
}

func (M *Matrix) Dims() (int, int) { return M.rows, M.cols }

func (M *Matrix) rc2i(r, c int) int {
	if r < 0 || r >= M.rows || c < 0 || c >= M.cols {
		panic(fmt.Sprintf("molgrid/histo.Matrix: %d,%d out of range for a %dx%d matrix", r, c, M.rows, M.cols))
	}
	return M.cols*r + c
}

//View returns the histogram in the r,c position
func (M *Matrix) View(r, c int) *Data { return M.d[M.rc2i(r, c)] }

//AddGrid adds the voxels of g to the histogram in the r,c position.
func (M *Matrix) AddGrid(r, c int, g *grid.Grid, nonZero bool) {
	M.d[M.rc2i(r, c)].AddGrid(g, nonZero)
}

//NormalizeAll normalizes all the histograms in the matrix
func (M *Matrix) NormalizeAll() {
	for _, v := range M.d {
		v.Normalize()
	}
}

func (M *Matrix) String() string {
	t := make([]string, 0, len(M.d))
	for i, v := range M.d {
		s := v.String()
		if M.names != nil {
			s = fmt.Sprintf("%d %s ", i/M.cols, M.names[i%M.cols]) + s
		}
		t = append(t, s)
	}
	return fmt.Sprintf("rows:%d cols:%d\n", M.rows, M.cols) + strings.Join(t, "\n\n")
}

type jsonMatrix struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Names []string `json:"names,omitempty"`
	D     []*Data  `json:"data"`
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMatrix{M.rows, M.cols, M.names, M.d})
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a jsonMatrix
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.D) != a.Rows*a.Cols {
		return fmt.Errorf("molgrid/histo: %d histograms for a %dx%d matrix", len(a.D), a.Rows, a.Cols)
	}
	M.rows, M.cols, M.names, M.d = a.Rows, a.Cols, a.Names, a.D
	return nil
}
