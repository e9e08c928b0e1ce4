/*
 * memsim - Fully-associative reference-mode TLB.
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

// Package tlb implements both TLB models described for this simulator:
// a 128-entry fully-associative reference TLB with true LRU (this
// file), and a direct-mapped split L1I/L1D plus unified L2 hierarchy
// (hierarchical.go). Grounded on the teacher's single-array software
// TLB (emu/cpu/cpu_system.go: cpu.tlb, PTLB) generalized to a real
// associative structure backed by internal/lrulist.
package tlb

import (
	"github.com/rcornwell/memsim/internal/addr"
	"github.com/rcornwell/memsim/internal/lrulist"
	"github.com/rcornwell/memsim/internal/pagewalk"
	"github.com/rcornwell/memsim/internal/simerr"
)

// NumSlots is the number of entries in the fully-associative TLB.
const NumSlots = 128

// Entry is one fully-associative TLB slot.
type Entry struct {
	Valid bool
	Tag   uint64
	Frame uint32
}

// FullyAssoc is the 128-entry fully-associative TLB with a true LRU
// replacement queue.
type FullyAssoc struct {
	entries  [NumSlots]Entry
	lru      *lrulist.List
	slotNode [NumSlots]lrulist.Node
}

// NewFullyAssoc builds an empty TLB with the LRU queue seeded with all
// 128 slot indices in order, front (LRU) to back (MRU), as the search
// algorithm expects.
func NewFullyAssoc() *FullyAssoc {
	values := make([]uint32, NumSlots)
	for i := range values {
		values[i] = uint32(i)
	}
	t := &FullyAssoc{lru: lrulist.New(values)}

	n, ok := t.lru.Front()
	for ok {
		t.slotNode[t.lru.Value(n)] = n
		n, ok = t.lru.Next(n)
	}
	return t
}

// Flush invalidates every slot, leaving LRU order untouched.
func (t *FullyAssoc) Flush() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
}

// EntryInit builds the entry that a successful page walk installs.
func (t *FullyAssoc) EntryInit(vaddr addr.Virtual, paddr addr.Physical) Entry {
	return Entry{Valid: true, Tag: vaddr.VPN(), Frame: paddr.Frame}
}

// Insert overwrites the given slot.
func (t *FullyAssoc) Insert(index int, e Entry) error {
	if index < 0 || index >= NumSlots {
		return simerr.Wrap(simerr.BadParam, "tlb slot %d out of range", index)
	}
	t.entries[index] = e
	return nil
}

// Hit scans the LRU queue back to front (most-recently-used first); the
// first valid entry whose tag matches vaddr's VPN is a hit. A hit moves
// that slot's node to the back of the queue.
func (t *FullyAssoc) Hit(vaddr addr.Virtual) (addr.Physical, bool, error) {
	vpn := vaddr.VPN()

	n, ok := t.lru.Back()
	for ok {
		slot := t.lru.Value(n)
		e := t.entries[slot]
		if e.Valid && e.Tag == vpn {
			paddr, err := addr.EncodePhysical(e.Frame, vaddr.Offset)
			if err != nil {
				return addr.Physical{}, false, err
			}
			t.lru.MoveBack(n)
			return paddr, true, nil
		}
		n, ok = t.lru.Prev(n)
	}
	return addr.Physical{}, false, nil
}

// Search probes the TLB and, on miss, walks the page table, installs
// the translation into the least-recently-used slot, and marks that
// slot most-recently-used.
func (t *FullyAssoc) Search(mem pagewalk.Memory, vaddr addr.Virtual) (addr.Physical, bool, error) {
	if paddr, hit, err := t.Hit(vaddr); err != nil || hit {
		return paddr, hit, err
	}

	paddr, err := pagewalk.Walk(mem, vaddr)
	if err != nil {
		return addr.Physical{}, false, err
	}

	front, _ := t.lru.Front()
	slot := int(t.lru.Value(front))
	if err := t.Insert(slot, t.EntryInit(vaddr, paddr)); err != nil {
		return addr.Physical{}, false, err
	}
	t.lru.MoveBack(front)
	return paddr, false, nil
}
