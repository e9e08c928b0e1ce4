/*
 * memsim - Direct-mapped split L1I/L1D plus unified L2 TLB hierarchy.
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

package tlb

import (
	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/addr"
	"github.com/rcornwell/memsim/internal/pagewalk"
	"github.com/rcornwell/memsim/internal/simerr"
)

// Level names one of the three direct-mapped TLBs.
type Level int

const (
	L1Instruction Level = iota
	L1Data
	L2
)

const (
	// L1Lines is the line count of each split L1 TLB.
	L1Lines = 16
	// L2Lines is the line count of the unified L2 TLB.
	L2Lines = 64
)

// line is one direct-mapped TLB slot.
type line struct {
	valid bool
	tag   uint64
	frame uint32
}

// Hierarchy is the direct-mapped split-L1/unified-L2 TLB.
type Hierarchy struct {
	l1i []line
	l1d []line
	l2  []line
}

// NewHierarchy builds an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		l1i: make([]line, L1Lines),
		l1d: make([]line, L1Lines),
		l2:  make([]line, L2Lines),
	}
}

func (h *Hierarchy) lines(level Level) []line {
	switch level {
	case L1Instruction:
		return h.l1i
	case L1Data:
		return h.l1d
	case L2:
		return h.l2
	default:
		return nil
	}
}

func otherL1(level Level) Level {
	if level == L1Instruction {
		return L1Data
	}
	return L1Instruction
}

func l1For(acc access.Kind) Level {
	if acc == access.Instruction {
		return L1Instruction
	}
	return L1Data
}

// Flush invalidates every line of the selected TLB.
func (h *Hierarchy) Flush(level Level) {
	ls := h.lines(level)
	for i := range ls {
		ls[i] = line{}
	}
}

// indexTag splits a VPN into its (index, tag) pair for a TLB with n
// lines: index = VPN mod n, tag = VPN div n.
func indexTag(vpn uint64, n int) (index uint64, tag uint64) {
	return vpn % uint64(n), vpn / uint64(n)
}

// EntryInit builds the line a page walk or an L2 hit installs.
func (h *Hierarchy) EntryInit(level Level, vpn uint64, frame uint32) line {
	_, tag := indexTag(vpn, len(h.lines(level)))
	return line{valid: true, tag: tag, frame: frame}
}

// Insert overwrites the line at lineIndex.
func (h *Hierarchy) Insert(level Level, lineIndex int, e line) error {
	ls := h.lines(level)
	if ls == nil {
		return simerr.Wrap(simerr.BadParam, "unknown tlb level %d", level)
	}
	if lineIndex < 0 || lineIndex >= len(ls) {
		return simerr.Wrap(simerr.BadParam, "tlb line %d out of range for level %d", lineIndex, level)
	}
	ls[lineIndex] = e
	return nil
}

// Hit probes the slot VPN mod n of the selected level.
func (h *Hierarchy) Hit(level Level, vaddr addr.Virtual) (addr.Physical, bool, error) {
	ls := h.lines(level)
	if ls == nil {
		return addr.Physical{}, false, simerr.Wrap(simerr.BadParam, "unknown tlb level %d", level)
	}
	vpn := vaddr.VPN()
	index, tag := indexTag(vpn, len(ls))
	e := ls[index]
	if !e.valid || e.tag != tag {
		return addr.Physical{}, false, nil
	}
	paddr, err := addr.EncodePhysical(e.frame, vaddr.Offset)
	if err != nil {
		return addr.Physical{}, false, err
	}
	return paddr, true, nil
}

// Search implements the two-level direct-mapped lookup: probe the L1
// matching access, then L2; on a full miss, evict from the sibling L1
// if the L2 slot's occupant resolves there (maintaining L1 subset L2
// inclusion), walk the page table, and install into both L2 and the
// matching L1.
func (h *Hierarchy) Search(mem pagewalk.Memory, vaddr addr.Virtual, acc access.Kind) (addr.Physical, bool, error) {
	l1level := l1For(acc)

	if paddr, hit, err := h.Hit(l1level, vaddr); err != nil || hit {
		return paddr, hit, err
	}

	if paddr, hit, err := h.Hit(L2, vaddr); err != nil {
		return addr.Physical{}, false, err
	} else if hit {
		vpn := vaddr.VPN()
		l1index, _ := indexTag(vpn, len(h.lines(l1level)))
		if err := h.Insert(l1level, int(l1index), h.EntryInit(l1level, vpn, paddr.Frame)); err != nil {
			return addr.Physical{}, false, err
		}
		return paddr, true, nil
	}

	vpn := vaddr.VPN()
	l2n := len(h.l2)
	l2index, _ := indexTag(vpn, l2n)
	if old := h.l2[l2index]; old.valid {
		oldVPN := old.tag*uint64(l2n) + l2index
		sibling := otherL1(l1level)
		siblingLines := h.lines(sibling)
		sibIndex, sibTag := indexTag(oldVPN, len(siblingLines))
		if siblingLines[sibIndex].valid && siblingLines[sibIndex].tag == sibTag {
			siblingLines[sibIndex] = line{}
		}
	}

	paddr, err := pagewalk.Walk(mem, vaddr)
	if err != nil {
		return addr.Physical{}, false, err
	}

	h.l2[l2index] = h.EntryInit(L2, vpn, paddr.Frame)
	l1index, _ := indexTag(vpn, len(h.lines(l1level)))
	if err := h.Insert(l1level, int(l1index), h.EntryInit(l1level, vpn, paddr.Frame)); err != nil {
		return addr.Physical{}, false, err
	}
	return paddr, false, nil
}
