/*
 * device.go, part of molgrid.
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

package gridmaker

import (
	"fmt"
	"runtime"
	"sync"
)

//DeviceConfig is resolved once, when the device is created.
type DeviceConfig struct {
	//If false, the device can't be used, and every allocation fails.
	Enabled bool
	//Number of concurrent workers in a kernel launch. 0 means runtime.NumCPU().
	Workers int
	//Maximum number of bytes of device memory. 0 means no limit.
	MemoryLimit int64
	//If true, device-to-host copies go directly to page-locked host memory
	//and run asynchronously until synchronized. Otherwise they go through
	//a staging buffer and are synchronous.
	Pinned bool
}

//Device is the data-parallel executor of the device path, and the owner of
//the accounting for its memory. A Device must only be used from one goroutine
//at a time.
type Device struct {
	cfg  DeviceConfig
	used int64
}

//NewDevice returns a device configured with cfg.
func NewDevice(cfg DeviceConfig) *Device {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Device{cfg: cfg}
}

func (D *Device) Enabled() bool { return D != nil && D.cfg.Enabled }

func (D *Device) Workers() int { return D.cfg.Workers }

func (D *Device) Pinned() bool { return D.cfg.Pinned }

//Used returns the number of bytes currently allocated on the device.
func (D *Device) Used() int64 { return D.used }

//AllocError is returned when the device can't provide the requested memory.
type AllocError struct {
	Requested, Used, Limit int64
	Disabled               bool
}

func (err *AllocError) Error() string {
	if err.Disabled {
		return "molgrid/gridmaker: device not available"
	}
	return fmt.Sprintf("molgrid/gridmaker: can't allocate %d bytes of device memory (%d in use, limit %d)", err.Requested, err.Used, err.Limit)
}

func (D *Device) reserve(bytes int64) error {
	if !D.Enabled() {
		return &AllocError{Requested: bytes, Disabled: true}
	}
	if D.cfg.MemoryLimit > 0 && D.used+bytes > D.cfg.MemoryLimit {
		return &AllocError{Requested: bytes, Used: D.used, Limit: D.cfg.MemoryLimit}
	}
	D.used += bytes
	return nil
}

func (D *Device) release(bytes int64) {
	D.used -= bytes
	if D.used < 0 {
		panic("gridmaker: device memory accounting went negative")
	}
}

//Buffer is a handle to device memory holding elements of type T. The memory is
//reserved when the buffer is created, and released by Close. Ensure only
//reallocates when the number of elements changes.
type Buffer[T any] struct {
	dev      *Device
	data     []T
	elemSize int64
	allocs   int
}

//Alloc returns a buffer of n elements of elemSize bytes each, on dev.
func Alloc[T any](dev *Device, n int, elemSize int64) (*Buffer[T], error) {
	B := &Buffer[T]{dev: dev, elemSize: elemSize}
	if err := B.Ensure(n); err != nil {
		return nil, err
	}
	return B, nil
}

//Ensure makes sure the buffer holds exactly n elements. The memory is only freed and
//reallocated if n is different from the current size. On failure, the buffer
//is left empty.
func (B *Buffer[T]) Ensure(n int) error {
	if B.data != nil && len(B.data) == n {
		return nil
	}
	B.free()
	if err := B.dev.reserve(int64(n) * B.elemSize); err != nil {
		return err
	}
	B.data = make([]T, n)
	B.allocs++
	return nil
}

func (B *Buffer[T]) free() {
	if B.data == nil {
		return
	}
	B.dev.release(int64(len(B.data)) * B.elemSize)
	B.data = nil
}

//Close releases the device memory. The buffer can be reused after calling Ensure.
func (B *Buffer[T]) Close() {
	if B == nil {
		return
	}
	B.free()
}

func (B *Buffer[T]) Len() int { return len(B.data) }

//Allocs returns how many times the buffer memory has been allocated.
func (B *Buffer[T]) Allocs() int { return B.allocs }

//Stream is an in-flight asynchronous operation.
type Stream struct {
	wg sync.WaitGroup
}

//Synchronize blocks until every operation issued on S is complete.
func (S *Stream) Synchronize() {
	S.wg.Wait()
}

func (S *Stream) launch(f func()) {
	S.wg.Add(1)
	go func() {
		defer S.wg.Done()
		f()
	}()
}
