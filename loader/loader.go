/*
 * memsim - Memory-description image loader.
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

// Package loader materializes simulated physical memory from a §6
// memory-description file: a total size, a PGD page file, N
// translation pages at explicit physical offsets, then virtual-
// address-keyed data pages resolved through the page walker. This is
// an external consumer of the core — it builds a *memory.Memory and
// hands it to the Simulator, but the core never imports it. Grounded
// on config/configparser's line-by-line bufio parsing style, extended
// with a schollz/progressbar/v3 bar the way the tinyrange-cc sandbox
// runner shows file-transfer progress.
package loader

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/rcornwell/memsim/config"
	"github.com/rcornwell/memsim/internal/addr"
	"github.com/rcornwell/memsim/internal/memory"
	"github.com/rcornwell/memsim/internal/pagewalk"
	"github.com/rcornwell/memsim/internal/simerr"
)

// translationPage is one of the N explicit physical-offset page
// entries in the description file's second section.
type translationPage struct {
	offset uint32
	path   string
}

// dataPage is one of the remaining virtual-address-keyed page entries.
type dataPage struct {
	vaddr uint64
	path  string
}

// descriptor is the fully-parsed memory-description file, before any
// page file has been read from disk.
type descriptor struct {
	size         int
	pgdPath      string
	translations []translationPage
	data         []dataPage
}

// Load reads the memory-description file at path, then the PGD and
// every page file it names, and returns a populated *memory.Memory
// ready for the Simulator. showProgress enables a progress bar across
// the page-file loads, matching the loader's "potentially slow,
// one-shot" profile called out for this dependency.
func Load(path string, showProgress bool) (*memory.Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.Wrap(simerr.IO, "opening memory description %q: %v", path, err)
	}
	defer f.Close()

	desc, err := parseDescriptor(f)
	if err != nil {
		return nil, err
	}

	mem := memory.New(desc.size)

	total := 1 + len(desc.translations) + len(desc.data)
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(total), "loading memory image")
	}
	step := func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if err := loadPageFile(mem, 0, desc.pgdPath); err != nil {
		return nil, err
	}
	step()

	for _, tp := range desc.translations {
		if tp.offset%memory.PageSize != 0 {
			return nil, simerr.Wrap(simerr.BadParam, "translation page offset %#x is not 4KiB-aligned", tp.offset)
		}
		if err := loadPageFile(mem, tp.offset, tp.path); err != nil {
			return nil, err
		}
		step()
	}

	for _, dp := range desc.data {
		vaddr := addr.DecodeVirtual(dp.vaddr)
		paddr, err := pagewalk.Walk(mem, vaddr)
		if err != nil {
			return nil, simerr.Wrap(simerr.Addr, "resolving data page for vaddr %#x: %v", dp.vaddr, err)
		}
		offset := paddr.ToUint32() &^ (memory.PageSize - 1)
		if err := loadPageFile(mem, offset, dp.path); err != nil {
			return nil, err
		}
		step()
	}

	return mem, nil
}

func loadPageFile(mem *memory.Memory, offset uint32, path string) error {
	page, err := os.ReadFile(path)
	if err != nil {
		return simerr.Wrap(simerr.IO, "reading page file %q: %v", path, err)
	}
	if len(page) != memory.PageSize {
		return simerr.Wrap(simerr.Size, "page file %q must be exactly %d bytes, got %d", path, memory.PageSize, len(page))
	}
	return mem.LoadPage(offset, page)
}

func parseDescriptor(r io.Reader) (descriptor, error) {
	scanner := bufio.NewScanner(r)

	next := func() (string, bool) {
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			return text, true
		}
		return "", false
	}

	var desc descriptor

	sizeLine, ok := next()
	if !ok {
		return descriptor{}, simerr.Wrap(simerr.BadParam, "missing total size line")
	}
	size, err := strconv.Atoi(sizeLine)
	if err != nil || size <= 0 {
		return descriptor{}, simerr.Wrap(simerr.BadParam, "invalid total size %q", sizeLine)
	}
	desc.size = size

	pgdLine, ok := next()
	if !ok {
		return descriptor{}, simerr.Wrap(simerr.BadParam, "missing PGD file line")
	}
	desc.pgdPath = pgdLine

	countLine, ok := next()
	if !ok {
		return descriptor{}, simerr.Wrap(simerr.BadParam, "missing translation page count line")
	}
	n, err := strconv.Atoi(countLine)
	if err != nil || n < 0 {
		return descriptor{}, simerr.Wrap(simerr.BadParam, "invalid translation page count %q", countLine)
	}

	for i := 0; i < n; i++ {
		l, ok := next()
		if !ok {
			return descriptor{}, simerr.Wrap(simerr.BadParam, "expected %d translation page lines, got %d", n, i)
		}
		offset, path, err := config.NewOptionLine(l).ParseHexPath()
		if err != nil {
			return descriptor{}, err
		}
		desc.translations = append(desc.translations, translationPage{offset: uint32(offset), path: path})
	}

	for {
		l, ok := next()
		if !ok {
			break
		}
		vaddr, path, err := config.NewOptionLine(l).ParseHexPath()
		if err != nil {
			return descriptor{}, err
		}
		desc.data = append(desc.data, dataPage{vaddr: vaddr, path: path})
	}

	if err := scanner.Err(); err != nil {
		return descriptor{}, simerr.Wrap(simerr.IO, "reading memory description: %v", err)
	}
	return desc, nil
}
