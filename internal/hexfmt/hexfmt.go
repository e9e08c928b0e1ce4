/*
 * memsim - Hex formatting helpers for dump output.
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

// Package hexfmt renders the hexadecimal columns of the cache/TLB dump
// format directly into a strings.Builder, the way the teacher's
// util/hex package renders instruction-dump fields: no fmt verbs, one
// nibble written at a time.
package hexfmt

import "strings"

const hexDigits = "0123456789ABCDEF"

// Word appends an 8-digit uppercase hex word, followed by a space.
func Word(b *strings.Builder, w uint32) {
	for shift := 28; shift >= 0; shift -= 4 {
		b.WriteByte(hexDigits[(w>>shift)&0xf])
	}
	b.WriteByte(' ')
}

// Words appends every word in line via Word.
func Words(b *strings.Builder, line []uint32) {
	for _, w := range line {
		Word(b, w)
	}
}

// Byte appends a 2-digit uppercase hex byte.
func Byte(b *strings.Builder, v byte) {
	b.WriteByte(hexDigits[(v>>4)&0xf])
	b.WriteByte(hexDigits[v&0xf])
}

// Uint64 appends an n-digit uppercase hex value, zero-padded to width
// digits.
func Uint64(b *strings.Builder, v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		shift := uint(i) * 4
		b.WriteByte(hexDigits[(v>>shift)&0xf])
	}
}

// Dashes appends n '-' characters, used for invalid-line columns.
func Dashes(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte('-')
	}
}
