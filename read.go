/*
 * memsim - Simulator read path.
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

package memsim

import (
	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/addr"
)

// ReadWord translates vaddr (a raw 64-bit virtual address) and delivers
// the 32-bit word at the resulting physical address through the cache
// hierarchy. access selects the split L1 (instruction fetches must use
// access.Instruction).
func (s *Simulator) ReadWord(vaddr uint64, acc access.Kind) (uint32, error) {
	va := addr.DecodeVirtual(vaddr)
	paddr, err := s.translate(va, acc)
	if err != nil {
		return 0, err
	}
	word, err := s.cache.Read(s.mem, paddr.ToUint32(), acc)
	if err != nil {
		s.log.Error("read failed", "vaddr", vaddr, "access", acc.String(), "error", err)
		return 0, err
	}
	return word, nil
}

// ReadByte is ReadWord's single-byte counterpart; the containing word
// is fetched through the same cache path and the requested byte
// extracted little-endian.
func (s *Simulator) ReadByte(vaddr uint64, acc access.Kind) (byte, error) {
	va := addr.DecodeVirtual(vaddr)
	paddr, err := s.translate(va, acc)
	if err != nil {
		return 0, err
	}
	b, err := s.cache.ReadByte(s.mem, paddr.ToUint32(), acc)
	if err != nil {
		s.log.Error("read byte failed", "vaddr", vaddr, "access", acc.String(), "error", err)
		return 0, err
	}
	return b, nil
}
