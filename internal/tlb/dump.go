/*
 * memsim - TLB dump output.
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

package tlb

import (
	"fmt"
	"io"
)

// Dump writes one line per slot of the fully-associative TLB to w:
// "SLOT: V: TAG: FRAME", dashes for invalid slots.
func (t *FullyAssoc) Dump(w io.Writer) error {
	for slot, e := range t.entries {
		if !e.Valid {
			if _, err := fmt.Fprintf(w, "%d: -: -: -\n", slot); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%d: 1: %#x: %#x\n", slot, e.Tag, e.Frame); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes one line per line of the selected direct-mapped level to
// w: "LINE: V: TAG: FRAME", dashes for invalid lines.
func (h *Hierarchy) Dump(w io.Writer, level Level) error {
	ls := h.lines(level)
	for i, e := range ls {
		if !e.valid {
			if _, err := fmt.Fprintf(w, "%d: -: -: -\n", i); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%d: 1: %#x: %#x\n", i, e.tag, e.frame); err != nil {
			return err
		}
	}
	return nil
}
