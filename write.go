/*
 * memsim - Simulator write path.
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

// WriteWord translates vaddr and write-through's word to the resulting
// physical address. Writes are always data references — the command
// layer rejects WRITE+INSTRUCTION before a Simulator ever sees it — so
// translation always probes the data-side TLB/cache.
func (s *Simulator) WriteWord(vaddr uint64, word uint32) error {
	va := addr.DecodeVirtual(vaddr)
	paddr, err := s.translate(va, access.Data)
	if err != nil {
		return err
	}
	if err := s.cache.Write(s.mem, paddr.ToUint32(), word); err != nil {
		s.log.Error("write failed", "vaddr", vaddr, "error", err)
		return err
	}
	return nil
}

// WriteByte is WriteWord's single-byte counterpart: a read-modify-write
// of the containing word.
func (s *Simulator) WriteByte(vaddr uint64, b byte) error {
	va := addr.DecodeVirtual(vaddr)
	paddr, err := s.translate(va, access.Data)
	if err != nil {
		return err
	}
	if err := s.cache.WriteByte(s.mem, paddr.ToUint32(), b); err != nil {
		s.log.Error("write byte failed", "vaddr", vaddr, "error", err)
		return err
	}
	return nil
}
