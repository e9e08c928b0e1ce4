/*
 * memsim - Virtual and physical address encoding.
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

// Package addr implements the 64-bit virtual / 32-bit physical address
// layouts: 16 reserved bits, four 9-bit page-table indices and a 12-bit
// offset for virtual addresses; a 20-bit frame and a 12-bit offset for
// physical addresses.
package addr

import (
	"github.com/rcornwell/memsim/internal/simerr"
)

const (
	OffsetBits = 12
	PTEBits    = 9
	PMDBits    = 9
	PUDBits    = 9
	PGDBits    = 9
	FrameBits  = 20

	maxOffset = 1<<OffsetBits - 1
	max9Bit   = 1<<PTEBits - 1
	maxFrame  = 1<<FrameBits - 1

	pteShift = OffsetBits
	pmdShift = pteShift + PTEBits
	pudShift = pmdShift + PMDBits
	pgdShift = pudShift + PUDBits

	// ReservedMask isolates the top 16 bits that must be zero on encode.
	ReservedMask uint64 = 0xFFFF << (pgdShift + PGDBits)
	// VPNMask is the low 48 bits that a round trip through decode/encode
	// preserves.
	VPNMask uint64 = 1<<(pgdShift+PGDBits) - 1
)

// Virtual is a decoded 64-bit virtual address.
type Virtual struct {
	PGD, PUD, PMD, PTE uint16
	Offset             uint16
}

// Physical is a decoded 32-bit physical address.
type Physical struct {
	Frame  uint32
	Offset uint16
}

// EncodeVirtual validates each field against its bit width and packs
// them into a 64-bit virtual address. The 16 high reserved bits are
// always zero.
func EncodeVirtual(pgd, pud, pmd, pte, offset uint16) (uint64, error) {
	switch {
	case pgd > max9Bit:
		return 0, simerr.Wrap(simerr.BadParam, "pgd entry %#x exceeds 9 bits", pgd)
	case pud > max9Bit:
		return 0, simerr.Wrap(simerr.BadParam, "pud entry %#x exceeds 9 bits", pud)
	case pmd > max9Bit:
		return 0, simerr.Wrap(simerr.BadParam, "pmd entry %#x exceeds 9 bits", pmd)
	case pte > max9Bit:
		return 0, simerr.Wrap(simerr.BadParam, "pte entry %#x exceeds 9 bits", pte)
	case offset > maxOffset:
		return 0, simerr.Wrap(simerr.BadParam, "offset %#x exceeds 12 bits", offset)
	}

	v := uint64(pgd)
	v = v<<PUDBits | uint64(pud)
	v = v<<PMDBits | uint64(pmd)
	v = v<<PTEBits | uint64(pte)
	v = v<<OffsetBits | uint64(offset)
	return v, nil
}

// DecodeVirtual splits a raw 64-bit value into its fields, silently
// dropping the reserved high 16 bits.
func DecodeVirtual(v uint64) Virtual {
	v &= VPNMask
	return Virtual{
		Offset: uint16(v & maxOffset),
		PTE:    uint16((v >> pteShift) & max9Bit),
		PMD:    uint16((v >> pmdShift) & max9Bit),
		PUD:    uint16((v >> pudShift) & max9Bit),
		PGD:    uint16((v >> pgdShift) & max9Bit),
	}
}

// ToUint64 re-packs a decoded virtual address, identity with
// DecodeVirtual on the low 48 bits.
func (v Virtual) ToUint64() uint64 {
	packed, _ := EncodeVirtual(v.PGD, v.PUD, v.PMD, v.PTE, v.Offset)
	return packed
}

// VPN returns the 36-bit virtual page number: the pgd/pud/pmd/pte fields
// concatenated, without the offset.
func (v Virtual) VPN() uint64 {
	return v.ToUint64() >> OffsetBits
}

// EncodePhysical validates the offset and packs a 20-bit frame number
// with a 12-bit offset into a 32-bit physical address.
func EncodePhysical(frame uint32, offset uint16) (Physical, error) {
	if frame > maxFrame {
		return Physical{}, simerr.Wrap(simerr.BadParam, "frame %#x exceeds 20 bits", frame)
	}
	if offset > maxOffset {
		return Physical{}, simerr.Wrap(simerr.BadParam, "offset %#x exceeds 12 bits", offset)
	}
	return Physical{Frame: frame, Offset: offset}, nil
}

// ToUint32 packs a physical address into its 32-bit wire form.
func (p Physical) ToUint32() uint32 {
	return (p.Frame << OffsetBits) | uint32(p.Offset)
}
