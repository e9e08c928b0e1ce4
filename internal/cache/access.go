/*
 * memsim - cache_read / cache_write orchestration with victim install.
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

package cache

import (
	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/simerr"
)

// installWithVictim finds the oldest-or-empty way of l1level's set for
// paddr. If empty, it installs entry directly. Otherwise it reads the
// current occupant, installs entry in its place, then relocates the
// victim into L2 (overwriting L2's own oldest-or-empty way), since L2
// never holds a line simultaneously resident in L1.
func (h *Hierarchy) installWithVictim(l1level Level, paddr uint32, entry line) error {
	set, _ := setIndexTag(l1level, paddr)
	way, empty, err := h.findOldestWay(l1level, set)
	if err != nil {
		return err
	}
	if empty {
		return h.Insert(l1level, set, way, entry)
	}

	victim := h.grid(l1level)[set][way]
	if err := h.Insert(l1level, set, way, entry); err != nil {
		return err
	}

	victimBase := reconstructBase(l1level, set, victim.tag)
	l2set, l2tag := setIndexTag(L2, victimBase)
	l2way, _, err := h.findOldestWay(L2, l2set)
	if err != nil {
		return err
	}
	victim.tag = l2tag
	return h.Insert(L2, l2set, l2way, victim)
}

func (h *Hierarchy) writeLineToMem(mem Memory, ln line, paddr uint32) error {
	base := lineBaseAddr(paddr)
	for i, w := range ln.words {
		if err := mem.WriteWord(base+uint32(i*4), w); err != nil {
			return err
		}
	}
	return nil
}

func checkAligned(paddr uint32) error {
	if paddr%4 != 0 {
		return simerr.Wrap(simerr.BadParam, "unaligned word access at %#x", paddr)
	}
	return nil
}

// Read implements cache_read: probe the L1 matching acc, then L2; on an
// L2 hit the whole line moves up to L1 and the L2 slot is invalidated;
// on a full miss the line is fetched from mem and installed into L1
// only. paddr must be word-aligned.
func (h *Hierarchy) Read(mem Memory, paddr uint32, acc access.Kind) (uint32, error) {
	if err := checkAligned(paddr); err != nil {
		return 0, err
	}
	l1level := l1For(acc)

	if set, way, hit, err := h.Hit(l1level, paddr); err != nil {
		return 0, err
	} else if hit {
		return h.grid(l1level)[set][way].words[wordIndex(paddr)], nil
	}

	if set, way, hit, err := h.Hit(L2, paddr); err != nil {
		return 0, err
	} else if hit {
		ln := h.grid(L2)[set][way]
		word := ln.words[wordIndex(paddr)]
		removeLine(h.grid(L2)[set], way)
		if err := h.installWithVictim(l1level, paddr, ln); err != nil {
			return 0, err
		}
		return word, nil
	}

	entry, err := entryInit(l1level, mem, paddr)
	if err != nil {
		return 0, err
	}
	if err := h.installWithVictim(l1level, paddr, entry); err != nil {
		return 0, err
	}
	return entry.words[wordIndex(paddr)], nil
}

// Write implements cache_write: always targets L1-data (a write is
// always a data reference; WRITE+INSTRUCTION is rejected at the
// command layer before reaching the cache). Every path write-through's
// the modified line to mem. paddr must be word-aligned.
func (h *Hierarchy) Write(mem Memory, paddr uint32, word uint32) error {
	if err := checkAligned(paddr); err != nil {
		return err
	}

	if set, way, hit, err := h.Hit(L1Data, paddr); err != nil {
		return err
	} else if hit {
		h.l1d[set][way].words[wordIndex(paddr)] = word
		return h.writeLineToMem(mem, h.l1d[set][way], paddr)
	}

	if set, way, hit, err := h.Hit(L2, paddr); err != nil {
		return err
	} else if hit {
		h.l2[set][way].words[wordIndex(paddr)] = word
		ln := h.l2[set][way]
		removeLine(h.l2[set], way)
		if err := h.installWithVictim(L1Data, paddr, ln); err != nil {
			return err
		}
		return h.writeLineToMem(mem, ln, paddr)
	}

	entry, err := entryInit(L1Data, mem, paddr)
	if err != nil {
		return err
	}
	entry.words[wordIndex(paddr)] = word
	if err := h.installWithVictim(L1Data, paddr, entry); err != nil {
		return err
	}
	return h.writeLineToMem(mem, entry, paddr)
}

// ReadByte word-aligns paddr, reads the word via Read, and extracts the
// little-endian byte at paddr mod 4.
func (h *Hierarchy) ReadByte(mem Memory, paddr uint32, acc access.Kind) (byte, error) {
	aligned := paddr &^ 3
	word, err := h.Read(mem, aligned, acc)
	if err != nil {
		return 0, err
	}
	shift := (paddr % 4) * 8
	return byte(word >> shift), nil
}

// WriteByte performs a read-modify-write: fetch the containing word via
// Read (as a data access), splice in the new byte, then Write it back.
func (h *Hierarchy) WriteByte(mem Memory, paddr uint32, b byte) error {
	aligned := paddr &^ 3
	word, err := h.Read(mem, aligned, access.Data)
	if err != nil {
		return err
	}
	shift := (paddr % 4) * 8
	mask := uint32(0xFF) << shift
	word = (word &^ mask) | uint32(b)<<shift
	return h.Write(mem, aligned, word)
}
