/*
 * memsim - Set-associative split L1I/L1D plus unified L2 data cache.
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

// Package cache implements the two-level set-associative cache
// hierarchy: split L1I/L1D (128 sets x 4 ways) over a unified L2 (512
// sets x 8 ways), 16-byte lines, write-through to simulated memory,
// with victim/exclusive inclusion (a line evicted from L1 moves into
// L2; L2 never holds a line also resident in L1). Grounded on the
// teacher's own cache-less direct memory model (emu/memory/memory.go)
// generalized with a real set-associative replacement scheme, in the
// spirit of the teacher's single-array software TLB
// (emu/cpu/cpu_system.go).
package cache

import (
	"math/bits"

	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/simerr"
)

const (
	// LineBytes is the size of one cache line.
	LineBytes = 16
	// WordsPerLine is LineBytes/4.
	WordsPerLine = LineBytes / 4

	// L1Sets and L1Ways size each split L1 cache.
	L1Sets = 128
	L1Ways = 4

	// L2Sets and L2Ways size the unified L2 cache.
	L2Sets = 512
	L2Ways = 8
)

// Memory is the minimal read/write surface the cache needs; satisfied
// by *internal/memory.Memory.
type Memory interface {
	ReadWord(addr uint32) (uint32, error)
	WriteWord(addr uint32, word uint32) error
}

// Level names one of the three cache arrays.
type Level int

const (
	L1Instruction Level = iota
	L1Data
	L2
)

// line is one cache entry: a tag, an LRU age, and the 4 words it holds.
type line struct {
	valid bool
	age   int
	tag   uint64
	words [WordsPerLine]uint32
}

// Hierarchy is the full two-level cache.
type Hierarchy struct {
	l1i [][]line
	l1d [][]line
	l2  [][]line
}

func buildGrid(sets, ways int) [][]line {
	g := make([][]line, sets)
	for i := range g {
		g[i] = make([]line, ways)
	}
	return g
}

// NewHierarchy builds an empty (all-invalid) cache hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		l1i: buildGrid(L1Sets, L1Ways),
		l1d: buildGrid(L1Sets, L1Ways),
		l2:  buildGrid(L2Sets, L2Ways),
	}
}

func dims(level Level) (sets, ways int) {
	switch level {
	case L1Instruction, L1Data:
		return L1Sets, L1Ways
	case L2:
		return L2Sets, L2Ways
	default:
		return 0, 0
	}
}

func (h *Hierarchy) grid(level Level) [][]line {
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

func l1For(acc access.Kind) Level {
	if acc == access.Instruction {
		return L1Instruction
	}
	return L1Data
}

func log2(n int) int {
	return bits.Len(uint(n)) - 1
}

// tagShift returns the number of low bits a physical address for this
// level carries below the tag: log2(LineBytes) + log2(sets).
func tagShift(level Level) int {
	sets, _ := dims(level)
	return log2(LineBytes) + log2(sets)
}

// setIndexTag computes (set, tag) for paddr at the given level.
func setIndexTag(level Level, paddr uint32) (set int, tag uint64) {
	sets, _ := dims(level)
	set = int((paddr / LineBytes) % uint32(sets))
	tag = uint64(paddr) >> tagShift(level)
	return set, tag
}

// reconstructBase recovers one physical address mapping to (level,
// set, tag) — used to relocate an L1 victim into L2.
func reconstructBase(level Level, set int, tag uint64) uint32 {
	return uint32(tag<<tagShift(level)) | uint32(set)<<log2(LineBytes)
}

func wordIndex(paddr uint32) int { return int((paddr / 4) % WordsPerLine) }

func lineBaseAddr(paddr uint32) uint32 { return paddr &^ (LineBytes - 1) }

// Flush invalidates every line at the selected level.
func (h *Hierarchy) Flush(level Level) {
	grid := h.grid(level)
	for _, ways := range grid {
		for i := range ways {
			ways[i] = line{}
		}
	}
}

// touch applies the hit-update LRU rule: the hit way's old age becomes
// T; every other way whose age was below T is bumped by one.
func touch(ways []line, way int) {
	t := ways[way].age
	ways[way].age = 0
	for i := range ways {
		if i == way {
			continue
		}
		if ways[i].valid && ways[i].age < t {
			ways[i].age++
		}
	}
}

// removeLine invalidates ways[way] and renormalizes every remaining
// valid way whose age was older than the removed entry's, so ages stay
// a permutation of 0..k-1 for the shrunk valid count k. Used when a
// line leaves L2 on its way up to L1 (not a normal eviction, so it
// can't go through Insert's cold-insert rule).
func removeLine(ways []line, way int) {
	removedAge := ways[way].age
	ways[way] = line{}
	for i := range ways {
		if ways[i].valid && ways[i].age > removedAge {
			ways[i].age--
		}
	}
}

// Hit scans every way of the set for paddr's tag. Invalid ways are
// skipped rather than ending the scan, because removeLine can leave an
// invalid way in front of valid ones in L2. A hit applies the LRU
// touch rule before returning.
func (h *Hierarchy) Hit(level Level, paddr uint32) (set, way int, hit bool, err error) {
	grid := h.grid(level)
	if grid == nil {
		return 0, 0, false, simerr.Wrap(simerr.BadParam, "unknown cache level %d", level)
	}
	set, tag := setIndexTag(level, paddr)
	ways := grid[set]
	for w := range ways {
		if !ways[w].valid {
			continue
		}
		if ways[w].tag == tag {
			touch(ways, w)
			return set, w, true, nil
		}
	}
	return set, 0, false, nil
}

// findOldestWay returns the first invalid way (empty=true), or else the
// way whose age equals ways-1 (the true LRU victim).
func (h *Hierarchy) findOldestWay(level Level, set int) (way int, empty bool, err error) {
	grid := h.grid(level)
	if grid == nil {
		return 0, false, simerr.Wrap(simerr.BadParam, "unknown cache level %d", level)
	}
	ways := grid[set]
	for i, l := range ways {
		if !l.valid {
			return i, true, nil
		}
	}
	maxAge := len(ways) - 1
	for i, l := range ways {
		if l.age == maxAge {
			return i, false, nil
		}
	}
	return 0, false, simerr.Wrap(simerr.BadParam, "set has no way at max age, ages not a permutation")
}

// entryInit fills a new entry with 16 bytes read from mem starting at
// paddr's line base.
func entryInit(level Level, mem Memory, paddr uint32) (line, error) {
	_, tag := setIndexTag(level, paddr)
	base := lineBaseAddr(paddr)
	var words [WordsPerLine]uint32
	for i := range words {
		w, err := mem.ReadWord(base + uint32(i*4))
		if err != nil {
			return line{}, err
		}
		words[i] = w
	}
	return line{valid: true, age: 0, tag: tag, words: words}, nil
}

// Insert overwrites ways[way] with entry, applying the cold-insert age
// rule: entry's age becomes 0 and every other currently-valid way's age
// is bumped by one, capped at ways-1.
func (h *Hierarchy) Insert(level Level, set, way int, entry line) error {
	grid := h.grid(level)
	if grid == nil {
		return simerr.Wrap(simerr.BadParam, "unknown cache level %d", level)
	}
	if set < 0 || set >= len(grid) {
		return simerr.Wrap(simerr.BadParam, "cache set %d out of range", set)
	}
	ways := grid[set]
	if way < 0 || way >= len(ways) {
		return simerr.Wrap(simerr.BadParam, "cache way %d out of range", way)
	}
	maxAge := len(ways) - 1
	for i := range ways {
		if i == way {
			continue
		}
		if ways[i].valid && ways[i].age < maxAge {
			ways[i].age++
		}
	}
	entry.age = 0
	ways[way] = entry
	return nil
}
