// Package fatbin decodes the header of multi-architecture Mach-O
// containers. Slice contents are treated as opaque byte ranges.
package fatbin

import "encoding/binary"

// Container magic numbers, big-endian on disk.
const (
	Magic32 uint32 = 0xcafebabe
	Magic64 uint32 = 0xcafebabf
)

// Mach-O CPU type tags for the architectures eligible for slice
// extraction.
const (
	CPUTypeX86_64 uint32 = 0x01000007
	CPUTypeARM64  uint32 = 0x0100000c
)

// Slice is one architecture's sub-image within a fat container.
type Slice struct {
	CPUType    uint32
	CPUSubtype uint32
	Offset     uint64
	Size       uint64
}

// Slices decodes a fat container header, trying the 32-bit variant
// first and the 64-bit variant second. ok is false when data is not a
// well-formed fat container of either width.
func Slices(data []byte) (slices []Slice, ok bool) {
	if s, ok := parse(data, Magic32); ok {
		return s, true
	}
	if s, ok := parse(data, Magic64); ok {
		return s, true
	}
	return nil, false
}

func parse(data []byte, magic uint32) ([]Slice, bool) {
	if len(data) < 8 || binary.BigEndian.Uint32(data) != magic {
		return nil, false
	}
	count := binary.BigEndian.Uint32(data[4:])
	recLen := uint64(20)
	if magic == Magic64 {
		recLen = 32
	}
	if uint64(len(data)) < 8+uint64(count)*recLen {
		return nil, false
	}
	out := make([]Slice, 0, count)
	for i := uint64(0); i < uint64(count); i++ {
		rec := data[8+i*recLen:]
		s := Slice{
			CPUType:    binary.BigEndian.Uint32(rec),
			CPUSubtype: binary.BigEndian.Uint32(rec[4:]),
		}
		if magic == Magic64 {
			s.Offset = binary.BigEndian.Uint64(rec[8:])
			s.Size = binary.BigEndian.Uint64(rec[16:])
		} else {
			s.Offset = uint64(binary.BigEndian.Uint32(rec[8:]))
			s.Size = uint64(binary.BigEndian.Uint32(rec[12:]))
		}
		out = append(out, s)
	}
	return out, true
}
