// Package testutil builds tiny binary fixtures for archive tests.
package testutil

import (
	"bytes"
	"encoding/binary"

	"github.com/meigma/ar/internal/fatbin"
)

// ELFWithSection returns a minimal 64-bit relocatable ELF object whose
// only content is one named section holding content.
func ELFWithSection(section string, content []byte) []byte {
	shstrtab := []byte("\x00" + section + "\x00.shstrtab\x00")
	contentOff := uint64(64)
	strtabOff := contentOff + uint64(len(content))
	shoff := (strtabOff + uint64(len(shstrtab)) + 7) &^ 7

	var buf bytes.Buffer
	le := binary.LittleEndian
	put := func(v any) {
		_ = binary.Write(&buf, le, v)
	}

	// ELF header: 64-bit, little-endian, relocatable, x86-64.
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	put(uint16(1))    // e_type ET_REL
	put(uint16(0x3e)) // e_machine EM_X86_64
	put(uint32(1))    // e_version
	put(uint64(0))    // e_entry
	put(uint64(0))    // e_phoff
	put(shoff)        // e_shoff
	put(uint32(0))    // e_flags
	put(uint16(64))   // e_ehsize
	put(uint16(0))    // e_phentsize
	put(uint16(0))    // e_phnum
	put(uint16(64))   // e_shentsize
	put(uint16(3))    // e_shnum
	put(uint16(2))    // e_shstrndx

	buf.Write(content)
	buf.Write(shstrtab)
	for uint64(buf.Len()) < shoff {
		buf.WriteByte(0)
	}

	shdr := func(nameOff, typ uint32, off, size uint64) {
		put(nameOff)
		put(typ)
		put(uint64(0)) // sh_flags
		put(uint64(0)) // sh_addr
		put(off)
		put(size)
		put(uint32(0)) // sh_link
		put(uint32(0)) // sh_info
		put(uint64(1)) // sh_addralign
		put(uint64(0)) // sh_entsize
	}
	buf.Write(make([]byte, 64)) // null section header
	shdr(1, 1, contentOff, uint64(len(content)))
	shdr(uint32(2+len(section)), 3, strtabOff, uint64(len(shstrtab)))

	return buf.Bytes()
}

// FatSlice is one architecture payload for FatContainer32/64.
type FatSlice struct {
	CPUType uint32
	Data    []byte
}

// FatContainer32 assembles a 32-bit fat container from slices, laid out
// in order immediately after the header.
func FatContainer32(slices ...FatSlice) []byte {
	var buf bytes.Buffer
	be := binary.BigEndian
	put := func(v any) {
		_ = binary.Write(&buf, be, v)
	}
	put(fatbin.Magic32)
	put(uint32(len(slices)))
	off := uint32(8 + 20*len(slices))
	for _, s := range slices {
		put(s.CPUType)
		put(uint32(0)) // cpusubtype
		put(off)
		put(uint32(len(s.Data)))
		put(uint32(0)) // align
		off += uint32(len(s.Data))
	}
	for _, s := range slices {
		buf.Write(s.Data)
	}
	return buf.Bytes()
}

// FatContainer64 is FatContainer32 for the 64-bit header variant.
func FatContainer64(slices ...FatSlice) []byte {
	var buf bytes.Buffer
	be := binary.BigEndian
	put := func(v any) {
		_ = binary.Write(&buf, be, v)
	}
	put(fatbin.Magic64)
	put(uint32(len(slices)))
	off := uint64(8 + 32*len(slices))
	for _, s := range slices {
		put(s.CPUType)
		put(uint32(0)) // cpusubtype
		put(off)
		put(uint64(len(s.Data)))
		put(uint32(0)) // align
		put(uint32(0)) // reserved
		off += uint64(len(s.Data))
	}
	for _, s := range slices {
		buf.Write(s.Data)
	}
	return buf.Bytes()
}
