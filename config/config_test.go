package config

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/rcornwell/memsim/internal/simerr"
)

func TestLoadDefaultsBuiltIn(t *testing.T) {
	os.Unsetenv("MEMSIM_LOG_LEVEL")
	os.Unsetenv("MEMSIM_MEM_SIZE")

	d := LoadDefaults()
	if d.LogLevel != slog.LevelInfo {
		t.Errorf("expected default log level info, got %v", d.LogLevel)
	}
	if d.MemSize != 1<<20 {
		t.Errorf("expected default mem size %d, got %d", 1<<20, d.MemSize)
	}
}

func TestLoadDefaultsEnvOverride(t *testing.T) {
	t.Setenv("MEMSIM_LOG_LEVEL", "debug")
	t.Setenv("MEMSIM_MEM_SIZE", "4096")

	d := LoadDefaults()
	if d.LogLevel != slog.LevelDebug {
		t.Errorf("expected overridden log level debug, got %v", d.LogLevel)
	}
	if d.MemSize != 4096 {
		t.Errorf("expected overridden mem size 4096, got %d", d.MemSize)
	}
}

func TestOptionLineParseHexPath(t *testing.T) {
	l := NewOptionLine("0x1000 /tmp/page0.bin")
	v, path, err := l.ParseHexPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x1000 {
		t.Errorf("expected 0x1000, got %#x", v)
	}
	if path != "/tmp/page0.bin" {
		t.Errorf("expected /tmp/page0.bin, got %q", path)
	}
}

func TestOptionLineMissingPath(t *testing.T) {
	l := NewOptionLine("0x1000")
	if _, _, err := l.ParseHexPath(); !errors.Is(err, simerr.BadParam) {
		t.Fatalf("expected BadParam error, got %v", err)
	}
}

func TestOptionLineInvalidHex(t *testing.T) {
	l := NewOptionLine("0xZZZZ /tmp/page0.bin")
	if _, _, err := l.ParseHexPath(); err == nil {
		t.Fatal("expected error for invalid hex digit")
	}
}
