/*
 * memsim - Run-time defaults and memory-description option parsing.
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

// Package config holds run-time defaults (read from the environment,
// in the style the teacher's config/configparser reads its device
// models from a file) and the memory-description option-line parser
// the loader package consumes. Grounded on the teacher's
// config/configparser: a cursor-based optionLine rather than a
// regex/scanner-combinator, adapted here for the much smaller §6
// option-line grammar (a hex offset or virtual address followed by a
// page-file path).
package config

import (
	"log/slog"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/rcornwell/memsim/internal/simerr"
)

// Defaults holds the run-time parameters overridable from the
// environment.
type Defaults struct {
	LogLevel slog.Level
	MemSize  int
}

// LoadDefaults returns the built-in defaults overridden by
// MEMSIM_LOG_LEVEL (debug/info/warn/error) and MEMSIM_MEM_SIZE (bytes),
// the way the xyproto-vibe67 code generator reads its own tuning
// parameters from the environment via the same library.
func LoadDefaults() Defaults {
	d := Defaults{LogLevel: slog.LevelInfo, MemSize: 1 << 20}

	switch strings.ToLower(env.Str("MEMSIM_LOG_LEVEL", "info")) {
	case "debug":
		d.LogLevel = slog.LevelDebug
	case "warn":
		d.LogLevel = slog.LevelWarn
	case "error":
		d.LogLevel = slog.LevelError
	default:
		d.LogLevel = slog.LevelInfo
	}

	d.MemSize = env.Int("MEMSIM_MEM_SIZE", d.MemSize)
	return d
}

// OptionLine is a §6 memory-description option line cursor: either
// "<hex offset> <path>" (a translation page) or "<hex vaddr> <path>"
// (a data page), depending on which section of the file it appears in.
type OptionLine struct {
	line string
	pos  int
}

// NewOptionLine wraps a single already-read line for parsing.
func NewOptionLine(line string) *OptionLine {
	return &OptionLine{line: line}
}

func (l *OptionLine) skipSpace() {
	for l.pos < len(l.line) && (l.line[l.pos] == ' ' || l.line[l.pos] == '\t') {
		l.pos++
	}
}

func (l *OptionLine) isEOL() bool {
	return l.pos >= len(l.line)
}

// ParseHexPath splits a line into its leading "0x..."-prefixed hex
// field and trailing path field.
func (l *OptionLine) ParseHexPath() (hexValue uint64, path string, err error) {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && l.line[l.pos] != ' ' && l.line[l.pos] != '\t' {
		l.pos++
	}
	field := l.line[start:l.pos]
	field = strings.TrimPrefix(field, "0x")
	field = strings.TrimPrefix(field, "0X")
	if field == "" {
		return 0, "", simerr.Wrap(simerr.BadParam, "missing hex field")
	}

	var v uint64
	for _, c := range field {
		digit, ok := hexDigit(byte(c))
		if !ok {
			return 0, "", simerr.Wrap(simerr.BadParam, "invalid hex digit %q", c)
		}
		v = v<<4 | uint64(digit)
	}

	l.skipSpace()
	if l.isEOL() {
		return 0, "", simerr.Wrap(simerr.BadParam, "missing path field")
	}
	path = strings.TrimRight(l.line[l.pos:], " \t\r\n")
	return v, path, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
