/*
 * memsim - Simulator dump wiring.
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

package memsim

import (
	"io"

	"github.com/rcornwell/memsim/internal/cache"
	"github.com/rcornwell/memsim/internal/tlb"
)

// DumpCache writes the §6 dump format for the selected cache level to
// w, for external callers (the interactive REPL, mainly) that want to
// show the result of the access they just made.
func (s *Simulator) DumpCache(w io.Writer, level cache.Level) error {
	return s.cache.Dump(w, level)
}

// DumpTLB writes the §6 dump format for the active TLB to w. level is
// ignored in FullyAssociative mode, which has a single flat dump.
func (s *Simulator) DumpTLB(w io.Writer, level tlb.Level) error {
	switch s.mode {
	case Hierarchical:
		return s.hierTLB.Dump(w, level)
	default:
		return s.fullTLB.Dump(w)
	}
}
