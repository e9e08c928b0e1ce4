/*
 * memsim - Cache hierarchy dump output.
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

package cache

import (
	"fmt"
	"io"
	"strings"

	"github.com/rcornwell/memsim/internal/hexfmt"
	"github.com/rcornwell/memsim/internal/simerr"
)

// Dump writes one line per set/way of level to w: "SET/WAY: V: AGE:
// TAG: WORDS", dashes for invalid ways.
func (h *Hierarchy) Dump(w io.Writer, level Level) error {
	grid := h.grid(level)
	if grid == nil {
		return simerr.Wrap(simerr.BadParam, "unknown cache level %d", level)
	}
	for set, ways := range grid {
		for way, ln := range ways {
			if !ln.valid {
				if _, err := fmt.Fprintf(w, "%d/%d: -: -: -: -\n", set, way); err != nil {
					return err
				}
				continue
			}
			var words strings.Builder
			hexfmt.Words(&words, ln.words[:])
			if _, err := fmt.Fprintf(w, "%d/%d: 1: %d: %#x: %s\n",
				set, way, ln.age, ln.tag, strings.TrimRight(words.String(), " ")); err != nil {
				return err
			}
		}
	}
	return nil
}
