package memory

import (
	"errors"
	"testing"

	"github.com/rcornwell/memsim/internal/simerr"
)

func TestReadWriteWordRoundTrip(t *testing.T) {
	m := New(4096)

	if err := m.WriteWord(0x100, 0xDEADBEEF); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.ReadWord(0x100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %#x want %#x", got, 0xDEADBEEF)
	}

	b, err := m.ReadBytes(0x100, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("byte %d: got %#x want %#x (little-endian)", i, b[i], want[i])
		}
	}
}

func TestOutOfRangeIsErrMem(t *testing.T) {
	m := New(16)

	if _, err := m.ReadWord(20); !errors.Is(err, simerr.Mem) {
		t.Errorf("expected ErrMem, got %v", err)
	}
	if err := m.WriteWord(20, 0); !errors.Is(err, simerr.Mem) {
		t.Errorf("expected ErrMem, got %v", err)
	}
	if _, err := m.ReadBytes(10, 16); !errors.Is(err, simerr.Mem) {
		t.Errorf("expected ErrMem, got %v", err)
	}
}

func TestLoadPageRequiresExactSize(t *testing.T) {
	m := New(PageSize * 2)

	if err := m.LoadPage(0, make([]byte, PageSize-1)); !errors.Is(err, simerr.Size) {
		t.Errorf("expected ErrSize, got %v", err)
	}

	page := make([]byte, PageSize)
	page[0] = 0x42
	if err := m.LoadPage(PageSize, page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.ReadByte(PageSize)
	if err != nil || b != 0x42 {
		t.Errorf("got (%v, %v) want (0x42, nil)", b, err)
	}
}
