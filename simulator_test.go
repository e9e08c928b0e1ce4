package memsim

import (
	"testing"

	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/addr"
	"github.com/rcornwell/memsim/internal/memory"
)

// buildIdentityMapped builds a memory image with a PGD/PUD/PMD/PTE
// chain mapping the single given virtual address to frame, in an
// 8-page memory (4 pages beyond the translation pages), so frame must
// be below 8.
func buildIdentityMapped(t *testing.T, vaddr addr.Virtual, frame uint32) *memory.Memory {
	t.Helper()
	m := memory.New(8 * memory.PageSize)

	pud := uint32(memory.PageSize)
	pmd := uint32(2 * memory.PageSize)
	pte := uint32(3 * memory.PageSize)

	write := func(offset, val uint32) {
		if err := m.WriteWord(offset, val); err != nil {
			t.Fatalf("setup write failed: %v", err)
		}
	}
	write(uint32(vaddr.PGD)*4, pud)
	write(pud+uint32(vaddr.PUD)*4, pmd)
	write(pmd+uint32(vaddr.PMD)*4, pte)
	write(pte+uint32(vaddr.PTE)*4, frame<<addr.OffsetBits)
	return m
}

func mustVirtual(t *testing.T, pgd, pud, pmd, pte, offset uint16) addr.Virtual {
	t.Helper()
	raw, err := addr.EncodeVirtual(pgd, pud, pmd, pte, offset)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return addr.DecodeVirtual(raw)
}

func TestSimulatorReadWriteRoundTripFullyAssociative(t *testing.T) {
	va := mustVirtual(t, 1, 1, 1, 1, 0x40)
	frame := uint32(4) // frame 4 => physical base 4*4096 = 0x4000, within 8-page memory.
	m := buildIdentityMapped(t, va, frame)

	sim := New(m, FullyAssociative, nil)

	if err := sim.WriteWord(va.ToUint64(), 0xDEADBEEF); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := sim.ReadWord(va.ToUint64(), access.Data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %#x want 0xDEADBEEF", got)
	}

	// The write-through policy means the underlying memory reflects it
	// directly, independent of the cache.
	physByte := frame<<addr.OffsetBits + uint32(va.Offset)
	raw, err := m.ReadWord(physByte)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != 0xDEADBEEF {
		t.Errorf("underlying memory got %#x want 0xDEADBEEF", raw)
	}
}

func TestSimulatorReadWriteRoundTripHierarchical(t *testing.T) {
	va := mustVirtual(t, 2, 2, 2, 2, 0x10)
	frame := uint32(5)
	m := buildIdentityMapped(t, va, frame)

	sim := New(m, Hierarchical, nil)

	if err := sim.WriteWord(va.ToUint64(), 0x12345678); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := sim.ReadWord(va.ToUint64(), access.Data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0x12345678 {
		t.Errorf("got %#x want 0x12345678", got)
	}
}

func TestSimulatorReadByteWriteByte(t *testing.T) {
	va := mustVirtual(t, 3, 3, 3, 3, 0x8)
	frame := uint32(6)
	m := buildIdentityMapped(t, va, frame)
	sim := New(m, FullyAssociative, nil)

	if err := sim.WriteByte(va.ToUint64(), 0x7A); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := sim.ReadByte(va.ToUint64(), access.Data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != 0x7A {
		t.Errorf("got %#x want 0x7a", b)
	}
}

func TestSimulatorUnmappedAddressIsFatal(t *testing.T) {
	m := memory.New(4 * memory.PageSize)
	sim := New(m, FullyAssociative, nil)

	va := mustVirtual(t, 7, 7, 7, 7, 0)
	if _, err := sim.ReadWord(va.ToUint64(), access.Instruction); err == nil {
		t.Error("expected error for unmapped virtual address")
	}
}

func TestSimulatorFlushTLBAndCache(t *testing.T) {
	va := mustVirtual(t, 1, 1, 1, 1, 0)
	frame := uint32(4)
	m := buildIdentityMapped(t, va, frame)
	sim := New(m, FullyAssociative, nil)

	if _, err := sim.ReadWord(va.ToUint64(), access.Data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim.FlushTLB()
	sim.FlushCache()

	// Still resolvable after flush — the page tables themselves are
	// untouched, only the caching structures are cleared.
	if _, err := sim.ReadWord(va.ToUint64(), access.Data); err != nil {
		t.Fatalf("unexpected error after flush: %v", err)
	}
}
