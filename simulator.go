/*
 * memsim - Top-level memory-hierarchy simulator.
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

// Package memsim wires the page-walker, TLB, and cache hierarchies
// into one end-to-end address-translation-and-access pipeline: command
// -> TLB (on miss -> page-walker -> memory) -> physical address ->
// cache (on miss -> memory) -> delivered word/byte. Grounded on the
// teacher's own transAddr/cpu memory-access orchestration
// (emu/cpu/cpu_system.go), which likewise composes a TLB probe with a
// fall-through table walk ahead of the actual memory reference.
package memsim

import (
	"log/slog"

	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/addr"
	"github.com/rcornwell/memsim/internal/cache"
	"github.com/rcornwell/memsim/internal/memory"
	"github.com/rcornwell/memsim/internal/simlog"
	"github.com/rcornwell/memsim/internal/tlb"
)

// TLBMode selects which of the two TLB models (spec §4.4 vs §4.5) a
// Simulator uses.
type TLBMode int

const (
	// FullyAssociative is the 128-slot reference/simple mode (§4.4).
	FullyAssociative TLBMode = iota
	// Hierarchical is the direct-mapped split L1I/L1D + unified L2
	// mode (§4.5).
	Hierarchical
)

// Simulator is the full memory hierarchy: one simulated physical
// memory, one TLB (in either mode), and one cache hierarchy.
type Simulator struct {
	mem   *memory.Memory
	cache *cache.Hierarchy

	mode    TLBMode
	fullTLB *tlb.FullyAssoc
	hierTLB *tlb.Hierarchy
	log     *slog.Logger
}

// New builds a Simulator over mem in the given TLB mode. A nil logger
// defaults to simlog.Default(), which writes to stderr at Info level.
func New(mem *memory.Memory, mode TLBMode, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = simlog.Default()
	}
	s := &Simulator{mem: mem, cache: cache.NewHierarchy(), mode: mode, log: logger}
	switch mode {
	case Hierarchical:
		s.hierTLB = tlb.NewHierarchy()
	default:
		s.fullTLB = tlb.NewFullyAssoc()
	}
	return s
}

// Memory returns the simulator's backing simulated physical memory,
// for use by an external loader.
func (s *Simulator) Memory() *memory.Memory {
	return s.mem
}

// FlushTLB invalidates the active TLB (all slots/lines in every level).
func (s *Simulator) FlushTLB() {
	switch s.mode {
	case Hierarchical:
		s.hierTLB.Flush(tlb.L1Instruction)
		s.hierTLB.Flush(tlb.L1Data)
		s.hierTLB.Flush(tlb.L2)
	default:
		s.fullTLB.Flush()
	}
}

// FlushCache invalidates every level of the cache hierarchy.
func (s *Simulator) FlushCache() {
	s.cache.Flush(cache.L1Instruction)
	s.cache.Flush(cache.L1Data)
	s.cache.Flush(cache.L2)
}

// translate resolves a virtual address through the active TLB, falling
// through to the page-walker on miss. Fatal address errors are logged
// at Error; everything else is traced at Debug.
func (s *Simulator) translate(vaddr addr.Virtual, acc access.Kind) (addr.Physical, error) {
	var (
		paddr addr.Physical
		hit   bool
		err   error
	)
	switch s.mode {
	case Hierarchical:
		paddr, hit, err = s.hierTLB.Search(s.mem, vaddr, acc)
	default:
		paddr, hit, err = s.fullTLB.Search(s.mem, vaddr)
	}
	if err != nil {
		s.log.Error("address translation failed", "vpn", vaddr.VPN(), "access", acc.String(), "error", err)
		return addr.Physical{}, err
	}
	s.log.Debug("tlb search", "vpn", vaddr.VPN(), "access", acc.String(), "hit", hit, "frame", paddr.Frame)
	return paddr, nil
}
