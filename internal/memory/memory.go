/*
 * memsim - Simulated physical memory.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package memory models the flat byte-addressed simulated physical
// memory that backs the page tables and the cache hierarchy's final
// level. Unlike the teacher's fixed 4M-word global array, capacity is
// established once at load time and owned by the Memory value itself.
package memory

import (
	"encoding/binary"

	"github.com/rcornwell/memsim/internal/simerr"
)

// PageSize is the byte size of one page-table page.
const PageSize = 4096

// Memory is an owned, contiguous, byte-addressed buffer.
type Memory struct {
	buf []byte
}

// New allocates a zero-initialized buffer of the given size in bytes.
func New(size int) *Memory {
	return &Memory{buf: make([]byte, size)}
}

// Size returns the capacity of the buffer in bytes.
func (m *Memory) Size() int {
	return len(m.buf)
}

func (m *Memory) checkRange(addr uint32, n int) error {
	if int64(addr)+int64(n) > int64(len(m.buf)) {
		return simerr.Wrap(simerr.Mem, "access [%#x, %#x) exceeds capacity %#x", addr, uint64(addr)+uint64(n), len(m.buf))
	}
	return nil
}

// ReadWord reads the little-endian 32-bit word at addr.
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	if err := m.checkRange(addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.buf[addr : addr+4]), nil
}

// WriteWord stores word as little-endian at addr.
func (m *Memory) WriteWord(addr uint32, word uint32) error {
	if err := m.checkRange(addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.buf[addr:addr+4], word)
	return nil
}

// ReadBytes returns a copy of n contiguous bytes starting at addr.
func (m *Memory) ReadBytes(addr uint32, n int) ([]byte, error) {
	if err := m.checkRange(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.buf[addr:int(addr)+n])
	return out, nil
}

// WriteBytes copies data into the buffer starting at addr.
func (m *Memory) WriteBytes(addr uint32, data []byte) error {
	if err := m.checkRange(addr, len(data)); err != nil {
		return err
	}
	copy(m.buf[addr:int(addr)+len(data)], data)
	return nil
}

// ReadByte returns the single byte at addr.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	if err := m.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m.buf[addr], nil
}

// WriteByte stores a single byte at addr.
func (m *Memory) WriteByte(addr uint32, b byte) error {
	if err := m.checkRange(addr, 1); err != nil {
		return err
	}
	m.buf[addr] = b
	return nil
}

// LoadPage copies an exactly PageSize-byte page into the buffer at the
// given physical offset. Used by the (external) memory-image loader;
// the core never calls this itself.
func (m *Memory) LoadPage(offset uint32, page []byte) error {
	if len(page) != PageSize {
		return simerr.Wrap(simerr.Size, "page must be exactly %d bytes, got %d", PageSize, len(page))
	}
	return m.WriteBytes(offset, page)
}
