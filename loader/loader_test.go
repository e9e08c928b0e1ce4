package loader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcornwell/memsim/internal/memory"
)

func page(fill func([]byte)) []byte {
	p := make([]byte, memory.PageSize)
	if fill != nil {
		fill(p)
	}
	return p
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadSingleTranslationAndDataPage(t *testing.T) {
	dir := t.TempDir()

	pgd := page(func(p []byte) {
		binary.LittleEndian.PutUint32(p[0:4], memory.PageSize) // pgd[0] -> pud page at offset 4096
	})
	pud := page(func(p []byte) {
		binary.LittleEndian.PutUint32(p[0:4], 2*memory.PageSize)
	})
	pmd := page(func(p []byte) {
		binary.LittleEndian.PutUint32(p[0:4], 3*memory.PageSize)
	})
	pte := page(func(p []byte) {
		binary.LittleEndian.PutUint32(p[0:4], 0xAB000) // frame base
	})
	data := page(func(p []byte) {
		binary.LittleEndian.PutUint32(p[0:4], 0xCAFEBABE)
	})

	pgdPath := writeFile(t, dir, "pgd.bin", pgd)
	pudPath := writeFile(t, dir, "pud.bin", pud)
	pmdPath := writeFile(t, dir, "pmd.bin", pmd)
	ptePath := writeFile(t, dir, "pte.bin", pte)
	dataPath := writeFile(t, dir, "data.bin", data)

	descLines := []string{
		"1048576",
		pgdPath,
		"3",
		"0x1000 " + pudPath,
		"0x2000 " + pmdPath,
		"0x3000 " + ptePath,
		"0x0000000000000000 " + dataPath,
	}
	descPath := writeFile(t, dir, "desc.txt", []byte(strings.Join(descLines, "\n")+"\n"))

	mem, err := Load(descPath, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := mem.ReadWord(0xAB000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Errorf("expected 0xCAFEBABE at resolved frame, got %#x", got)
	}
}

func TestLoadMissingSizeLine(t *testing.T) {
	dir := t.TempDir()
	descPath := writeFile(t, dir, "desc.txt", []byte(""))
	if _, err := Load(descPath, false); err == nil {
		t.Fatal("expected error for empty description file")
	}
}

func TestLoadBadPageSize(t *testing.T) {
	dir := t.TempDir()
	pgdPath := writeFile(t, dir, "pgd.bin", []byte{1, 2, 3})
	descPath := writeFile(t, dir, "desc.txt", []byte("4096\n"+pgdPath+"\n0\n"))
	if _, err := Load(descPath, false); err == nil {
		t.Fatal("expected error for undersized PGD page file")
	}
}
