package tlb

import (
	"testing"

	"github.com/rcornwell/memsim/internal/addr"
	"github.com/rcornwell/memsim/internal/memory"
)

func buildWalkableMemory(t *testing.T, vaddr addr.Virtual, frame uint32) *memory.Memory {
	t.Helper()
	m := memory.New(4 * memory.PageSize)

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

func mustDecode(t *testing.T, pgd, pud, pmd, pte, offset uint16) addr.Virtual {
	t.Helper()
	raw, err := addr.EncodeVirtual(pgd, pud, pmd, pte, offset)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return addr.DecodeVirtual(raw)
}

func TestFullyAssocMissThenHit(t *testing.T) {
	va := mustDecode(t, 1, 2, 3, 4, 0x10)
	m := buildWalkableMemory(t, va, 0x1234)
	tlb := NewFullyAssoc()

	paddr, hit, err := tlb.Search(m, va)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("expected cold miss on first search")
	}
	if paddr.Frame != 0x1234 || paddr.Offset != 0x10 {
		t.Errorf("got %+v", paddr)
	}

	paddr2, hit2, err := tlb.Search(m, va)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit2 {
		t.Error("expected hit on second search")
	}
	if paddr2 != paddr {
		t.Errorf("hit paddr %+v != miss paddr %+v", paddr2, paddr)
	}
}

func TestFullyAssocEvictsLeastRecentlyUsed(t *testing.T) {
	tlb := NewFullyAssoc()

	// Fill every slot with a distinct VPN via Insert directly, oldest
	// (slot 0, currently the LRU front) first.
	for i := 0; i < NumSlots; i++ {
		va := mustDecode(t, uint16(i), 0, 0, 0, 0)
		e := tlb.EntryInit(va, addr.Physical{Frame: uint32(i), Offset: 0})
		if err := tlb.Insert(i, e); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	firstVA := mustDecode(t, 0, 0, 0, 0, 0)
	if _, hit, err := tlb.Hit(firstVA); err != nil || !hit {
		t.Fatalf("expected hit on pre-seeded entry 0, got hit=%v err=%v", hit, err)
	}

	// Seeding via Insert alone does not touch the LRU queue, and the hit
	// above moved slot 0 to the back, so slot 1 is now the front
	// (least-recently-used). Search a brand-new VPN: it misses and must
	// be installed into slot 1, replacing that slot's translation.
	newVA := mustDecode(t, 5, 5, 5, 5, 0)
	m := buildWalkableMemory(t, newVA, 0xBEEF)
	paddr, hit, err := tlb.Search(m, newVA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("expected miss: new VPN was never installed")
	}
	if paddr.Frame != 0xBEEF {
		t.Errorf("got frame %#x want 0xBEEF", paddr.Frame)
	}

	if _, hit, err := tlb.Hit(newVA); err != nil || !hit {
		t.Fatalf("expected new VPN now resident, hit=%v err=%v", hit, err)
	}
	if _, hit, err := tlb.Hit(mustDecode(t, 1, 0, 0, 0, 0)); err != nil || hit {
		t.Errorf("expected slot 1's (least-recently-used) VPN evicted, hit=%v err=%v", hit, err)
	}
	if _, hit, err := tlb.Hit(firstVA); err != nil || !hit {
		t.Errorf("expected recently used slot 0's VPN still resident, hit=%v err=%v", hit, err)
	}
}

func TestFullyAssocFlushInvalidatesAll(t *testing.T) {
	va := mustDecode(t, 1, 1, 1, 1, 0)
	m := buildWalkableMemory(t, va, 0x10)
	tlb := NewFullyAssoc()
	if _, _, err := tlb.Search(m, va); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tlb.Flush()

	if _, hit, err := tlb.Hit(va); err != nil || hit {
		t.Errorf("expected miss after flush, hit=%v err=%v", hit, err)
	}
}
