/*
 * memsim - Command-script text format.
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

// Package command parses the §6 command-script text format into
// Command values the core's Simulator can replay. One command per
// line: an order token (R/W), a type/size token (I/DW/DB), an
// optional "0x..." data token for writes, and an "@0x..." 16-hex-digit
// virtual address token. This is an external consumer of the core,
// never imported by it, and tokenizes with the teacher's
// config/configparser cursor style rather than a regexp.
package command

import (
	"bufio"
	"io"
	"strings"

	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/simerr"
)

// Order is the command's read/write direction.
type Order int

const (
	Read Order = iota
	Write
)

// Command is one parsed line of a command script.
type Command struct {
	Order    Order
	Access   access.Kind
	DataSize int // 1 or 4
	WriteVal uint32
	Vaddr    uint64
}

// line is a cursor over a single already-read command line, in the
// style of config's OptionLine.
type line struct {
	text string
	pos  int
}

func (l *line) skipSpace() {
	for l.pos < len(l.text) && (l.text[l.pos] == ' ' || l.text[l.pos] == '\t') {
		l.pos++
	}
}

func (l *line) isEOL() bool {
	return l.pos >= len(l.text)
}

func (l *line) token() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && l.text[l.pos] != ' ' && l.text[l.pos] != '\t' {
		l.pos++
	}
	return l.text[start:l.pos]
}

// Parse decodes one non-blank, non-comment command line.
func Parse(text string) (Command, error) {
	l := &line{text: text}

	orderTok := l.token()
	if orderTok == "" {
		return Command{}, simerr.Wrap(simerr.BadParam, "missing order token")
	}

	var cmd Command
	switch orderTok {
	case "R":
		cmd.Order = Read
	case "W":
		cmd.Order = Write
	default:
		return Command{}, simerr.Wrap(simerr.BadParam, "unknown order token %q", orderTok)
	}

	typeTok := l.token()
	switch typeTok {
	case "I":
		if cmd.Order == Write {
			return Command{}, simerr.Wrap(simerr.BadParam, "write of instruction access is rejected")
		}
		cmd.Access = access.Instruction
		cmd.DataSize = 4
	case "DW":
		cmd.Access = access.Data
		cmd.DataSize = 4
	case "DB":
		cmd.Access = access.Data
		cmd.DataSize = 1
	default:
		return Command{}, simerr.Wrap(simerr.BadParam, "unknown type token %q", typeTok)
	}

	if cmd.Order == Write {
		dataTok := l.token()
		v, err := parseHexToken(dataTok, "0x", 8)
		if err != nil {
			return Command{}, err
		}
		cmd.WriteVal = uint32(v)
	}

	addrTok := l.token()
	vaddr, err := parseAddrToken(addrTok)
	if err != nil {
		return Command{}, err
	}
	cmd.Vaddr = vaddr

	if cmd.DataSize == 4 && cmd.Vaddr%4 != 0 {
		return Command{}, simerr.Wrap(simerr.BadParam, "word address %#x is not 4-byte aligned", cmd.Vaddr)
	}

	return cmd, nil
}

func parseHexToken(tok, prefix string, maxDigits int) (uint64, error) {
	if !strings.HasPrefix(tok, prefix) {
		return 0, simerr.Wrap(simerr.BadParam, "expected %s-prefixed token, got %q", prefix, tok)
	}
	digits := tok[len(prefix):]
	if digits == "" || len(digits) > maxDigits {
		return 0, simerr.Wrap(simerr.BadParam, "token %q has invalid digit count", tok)
	}
	var v uint64
	for _, c := range digits {
		d, ok := hexDigit(byte(c))
		if !ok {
			return 0, simerr.Wrap(simerr.BadParam, "invalid hex digit %q in %q", c, tok)
		}
		v = v<<4 | uint64(d)
	}
	return v, nil
}

func parseAddrToken(tok string) (uint64, error) {
	if !strings.HasPrefix(tok, "@0x") {
		return 0, simerr.Wrap(simerr.BadParam, "expected @0x-prefixed address token, got %q", tok)
	}
	digits := tok[len("@0x"):]
	if len(digits) != 16 {
		return 0, simerr.Wrap(simerr.BadParam, "address token %q must have exactly 16 hex digits", tok)
	}
	var v uint64
	for _, c := range digits {
		d, ok := hexDigit(byte(c))
		if !ok {
			return 0, simerr.Wrap(simerr.BadParam, "invalid hex digit %q in %q", c, tok)
		}
		v = v<<4 | uint64(d)
	}
	return v, nil
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

// ParseScript reads a full command script, skipping blank lines and
// lines starting with '#'.
func ParseScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := Parse(text)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, simerr.Wrap(simerr.IO, "reading command script: %v", err)
	}
	return cmds, nil
}
