/*
 * bin.go, part of molgrid.
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

/*Package gridio reads and writes voxel grids: raw binary dumps (optionally
compressed), AutoDock4 maps and OpenDX files.*/
package gridio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rmera/molgrid/grid"
)

var end = binary.LittleEndian

//WriteBIN writes the voxels of each grid, in order, as raw little-endian float32, without any header.
func WriteBIN(w io.Writer, grids []*grid.Grid) error {
	bw := bufio.NewWriter(w)
	for _, g := range grids {
		if err := binary.Write(bw, end, g.Data); err != nil {
			return err
		}
	}
	return bw.Flush()
}

//WriteFloats writes data as raw little-endian float32.
func WriteFloats(w io.Writer, data []float32) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, end, data); err != nil {
		return err
	}
	return bw.Flush()
}

//compressed file, the encoder has to be closed before the file.
type compWriter struct {
	enc io.WriteCloser
	f   *os.File
}

func (C *compWriter) Write(p []byte) (int, error) {
	return C.enc.Write(p)
}

func (C *compWriter) Close() error {
	err := C.enc.Close()
	if err2 := C.f.Close(); err == nil {
		err = err2
	}
	return err
}

//Create creates the file fname for writing. Files ending in .zst are compressed
//with zstd, files ending in .gz are gzipped.
func Create(fname string) (io.WriteCloser, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(fname, ".zst"):
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &compWriter{enc: enc, f: f}, nil
	case strings.HasSuffix(fname, ".gz"):
		return &compWriter{enc: gzip.NewWriter(f), f: f}, nil
	}
	return f, nil
}

type zstdReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (Z *zstdReadCloser) Close() error {
	Z.Decoder.Close()
	return Z.f.Close()
}

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (G *gzipReadCloser) Close() error {
	err := G.Reader.Close()
	if err2 := G.f.Close(); err == nil {
		err = err2
	}
	return err
}

//Open opens fname for reading, decompressing it if its name ends in .zst or .gz.
func Open(fname string) (io.ReadCloser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(fname, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &zstdReadCloser{dec, f}, nil
	case strings.HasSuffix(fname, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &gzipReadCloser{gz, f}, nil
	}
	return f, nil
}

//ReadBIN reads back a binary dump. Uncompressed files are memory-mapped.
//The shape of the data is not stored in the file, it is up to the caller.
func ReadBIN(fname string) ([]float32, error) {
	if strings.HasSuffix(fname, ".zst") || strings.HasSuffix(fname, ".gz") {
		r, err := Open(fname)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return decodeFloats(b)
	}
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		return []float32{}, nil
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer mm.Unmap()
	return decodeFloats(mm)
}

func decodeFloats(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("molgrid/gridio: binary grid data of %d bytes is not a whole number of float32", len(b))
	}
	ret := make([]float32, len(b)/4)
	for i := range ret {
		ret[i] = math.Float32frombits(end.Uint32(b[4*i:]))
	}
	return ret, nil
}

//SplitGrids splits flat binary data into grids of n voxels per side.
func SplitGrids(data []float32, n int) ([]*grid.Grid, error) {
	vol := n * n * n
	if vol == 0 || len(data)%vol != 0 {
		return nil, fmt.Errorf("molgrid/gridio: %d values can't be split into grids of %d^3 voxels", len(data), n)
	}
	grids := make([]*grid.Grid, len(data)/vol)
	for i := range grids {
		grids[i] = grid.New(n)
		copy(grids[i].Data, data[i*vol:(i+1)*vol])
	}
	return grids, nil
}
