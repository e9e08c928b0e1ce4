package cache

import (
	"strings"
	"testing"

	"github.com/rcornwell/memsim/internal/access"
)

func TestDumpMarksInvalidAndValidLines(t *testing.T) {
	m := seedMemory(t, 256)
	h := NewHierarchy()
	if _, err := h.Read(m, 0x10, access.Data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf strings.Builder
	if err := h.Dump(&buf, L1Data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "1: 0: ") {
		t.Errorf("expected a valid, age-0 line in dump, got:\n%s", out)
	}
	if strings.Count(out, "-: -: -: -") == 0 {
		t.Error("expected at least one dashed invalid line in dump")
	}
}
