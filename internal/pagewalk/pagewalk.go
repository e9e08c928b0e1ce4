/*
 * memsim - Four-level page-table walker.
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

// Package pagewalk implements the radix page-table walk: PGD -> PUD ->
// PMD -> PTE -> frame, four 32-bit little-endian word reads over the
// simulated memory, PGD always at offset 0. Grounded on the teacher's
// own single-level DAT walk (emu/cpu/cpu.go: transAddr) generalized to
// four levels, matching the original simulator's page_walk.c.
package pagewalk

import (
	"github.com/rcornwell/memsim/internal/addr"
	"github.com/rcornwell/memsim/internal/simerr"
)

const bytesPerEntry = 4

// Memory is the minimal read surface the walker needs; satisfied by
// *internal/memory.Memory.
type Memory interface {
	ReadWord(addr uint32) (uint32, error)
}

// Walk translates a virtual address to a physical address by walking
// the four page-table levels rooted at byte offset 0 of mem. A zero
// entry at any level is a fatal, unrecoverable address error: this
// simulator never faults pages in. The final (PTE) entry is the byte
// offset of the physical frame's base; the low 12 bits of that offset
// are the frame's page alignment and are discarded, matching the
// original simulator's init_phy_addr.
func Walk(mem Memory, vaddr addr.Virtual) (addr.Physical, error) {
	cursor := uint32(0) // PGD always resides at offset 0.

	for _, index := range [4]uint16{vaddr.PGD, vaddr.PUD, vaddr.PMD, vaddr.PTE} {
		entry, err := mem.ReadWord(cursor + uint32(index)*bytesPerEntry)
		if err != nil {
			return addr.Physical{}, err
		}
		if entry == 0 {
			return addr.Physical{}, simerr.Wrap(simerr.Addr, "absent mapping for vpn %#x", vaddr.VPN())
		}
		cursor = entry
	}

	return addr.EncodePhysical(cursor>>addr.OffsetBits, vaddr.Offset)
}
