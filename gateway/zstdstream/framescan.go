package zstdstream

import (
	"encoding/binary"
	"errors"
)

const (
	frameMagic         = 0xFD2FB528
	skippableMagicBase = 0x184D2A50
	skippableMagicMask = 0xFFFFFFF0
)

var (
	errPrefixUnknown   = errors.New("unknown frame magic")
	errReservedBlock   = errors.New("reserved block type")
	errReservedFHDBit  = errors.New("reserved frame header bit set")
	errFrameSizeBounds = errors.New("declared frame content size exceeds limit")
)

// frameExtent measures the first frame in b without decoding it, walking
// the frame header and block headers per the frame format. It returns
// the total wire length of the frame, or 0 when b holds only a prefix of
// it and more input is needed. Skippable frames are recognized and
// measured the same way.
func frameExtent(b []byte) (n int, skippable bool, err error) {
	if len(b) < 4 {
		return 0, false, nil
	}
	magic := binary.LittleEndian.Uint32(b)

	if magic&skippableMagicMask == skippableMagicBase {
		if len(b) < 8 {
			return 0, true, nil
		}
		size := binary.LittleEndian.Uint32(b[4:])
		total := 8 + int(size)
		if len(b) < total {
			return 0, true, nil
		}
		return total, true, nil
	}

	if magic != frameMagic {
		return 0, false, errPrefixUnknown
	}
	if len(b) < 5 {
		return 0, false, nil
	}

	fhd := b[4]
	if fhd&0x08 != 0 {
		return 0, false, errReservedFHDBit
	}
	singleSegment := fhd&0x20 != 0
	hasChecksum := fhd&0x04 != 0

	headerLen := 5
	if !singleSegment {
		headerLen++ // window descriptor
	}
	headerLen += [4]int{0, 1, 2, 4}[fhd&0x03] // dictionary ID

	fcsLen := [4]int{0, 2, 4, 8}[fhd>>6]
	if fhd>>6 == 0 && singleSegment {
		fcsLen = 1
	}
	fcsOff := headerLen
	headerLen += fcsLen
	if len(b) < headerLen {
		return 0, false, nil
	}

	if size, known := contentSize(b[fcsOff:headerLen]); known && size > MaxFrameSize {
		return 0, false, errFrameSizeBounds
	}

	off := headerLen
	for {
		if len(b) < off+3 {
			return 0, false, nil
		}
		bh := uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16
		off += 3

		switch (bh >> 1) & 3 {
		case 0, 2: // raw or compressed: size is the wire length
			off += int(bh >> 3)
		case 1: // RLE: one byte on the wire regardless of declared size
			off++
		case 3:
			return 0, false, errReservedBlock
		}
		if bh&1 != 0 {
			break
		}
	}

	if hasChecksum {
		off += 4
	}
	if len(b) < off {
		return 0, false, nil
	}
	return off, false, nil
}

// contentSize decodes the frame content size field. The two-byte form
// carries an offset of 256 per the frame format.
func contentSize(fcs []byte) (uint64, bool) {
	switch len(fcs) {
	case 1:
		return uint64(fcs[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(fcs)) + 256, true
	case 4:
		return uint64(binary.LittleEndian.Uint32(fcs)), true
	case 8:
		return binary.LittleEndian.Uint64(fcs), true
	default:
		return 0, false
	}
}
