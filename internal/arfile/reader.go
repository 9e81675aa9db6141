// Package arfile parses ar archive containers: classic System V and
// BSD variants behind the !<arch> magic, and AIX big archives.
package arfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrFormat reports a malformed archive container.
var ErrFormat = errors.New("ar: malformed archive")

// Member is one archive member. Offset and Size locate the member's
// data within the contents passed to NewReader. Name is raw bytes; ar
// places no encoding constraint on it.
type Member struct {
	Name   []byte
	Offset uint64
	Size   uint64
}

// Reader iterates the members of an in-memory archive. Symbol table
// and long-name table members are consumed internally and never
// yielded.
type Reader struct {
	data []byte

	// classic layout cursor
	off    uint64
	strtab []byte

	// big archive cursor: offset of the next member header, 0 at end
	big     bool
	bigNext uint64
}

const (
	classicMagic = "!<arch>\n"
	bigMagic     = "<bigaf>\n"

	classicHeaderLen = 60
	bigHeaderLen     = 112
)

// NewReader checks the global header and prepares member iteration.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: truncated global header", ErrFormat)
	}
	switch string(data[:8]) {
	case classicMagic:
		return &Reader{data: data, off: 8}, nil
	case bigMagic:
		first, err := bigFixedField(data, 3) // offset of the first member
		if err != nil {
			return nil, err
		}
		return &Reader{data: data, big: true, bigNext: first}, nil
	}
	return nil, fmt.Errorf("%w: bad global header", ErrFormat)
}

// Next returns the next member. It returns io.EOF after the last one.
func (r *Reader) Next() (*Member, error) {
	if r.big {
		return r.nextBig()
	}
	return r.nextClassic()
}

// Data returns the member's body bytes, bounds-checked against the
// archive contents.
func (r *Reader) Data(m *Member) ([]byte, error) {
	end := m.Offset + m.Size
	if end < m.Offset || end > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: member %q data out of range", ErrFormat, m.Name)
	}
	return r.data[m.Offset:end], nil
}

func (r *Reader) nextClassic() (*Member, error) {
	for {
		n := uint64(len(r.data))
		if r.off == n {
			return nil, io.EOF
		}
		if r.off > n {
			return nil, fmt.Errorf("%w: member extends past end of archive", ErrFormat)
		}
		if n-r.off < classicHeaderLen {
			return nil, fmt.Errorf("%w: truncated member header", ErrFormat)
		}
		hdr := r.data[r.off : r.off+classicHeaderLen]
		if hdr[58] != '`' || hdr[59] != '\n' {
			return nil, fmt.Errorf("%w: bad member header terminator", ErrFormat)
		}
		size, err := parseDec(hdr[48:58])
		if err != nil {
			return nil, err
		}
		name := bytes.TrimRight(hdr[:16], " ")
		dataOff := r.off + classicHeaderLen

		// Advance past the body and its even-offset pad. A missing pad
		// byte at the very end of the file is tolerated.
		r.off = dataOff + size
		if size%2 == 1 && r.off < n {
			r.off++
		}

		m, err := r.classicMember(name, dataOff, size)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue // metadata member, not yielded
		}
		return m, nil
	}
}

// classicMember resolves a raw header name. It returns nil for symbol
// table and long-name table members.
func (r *Reader) classicMember(name []byte, dataOff, size uint64) (*Member, error) {
	switch {
	case bytes.Equal(name, []byte("/")), bytes.Equal(name, []byte("/SYM64/")):
		return nil, nil

	case bytes.Equal(name, []byte("//")):
		end := dataOff + size
		if end > uint64(len(r.data)) {
			return nil, fmt.Errorf("%w: truncated long-name table", ErrFormat)
		}
		r.strtab = r.data[dataOff:end]
		return nil, nil

	case bytes.HasPrefix(name, []byte("#1/")):
		nlen, err := parseDec(name[3:])
		if err != nil {
			return nil, err
		}
		if nlen > size || dataOff+nlen > uint64(len(r.data)) {
			return nil, fmt.Errorf("%w: inline member name out of range", ErrFormat)
		}
		inline := bytes.TrimRight(r.data[dataOff:dataOff+nlen], "\x00")
		if isSymdef(inline) {
			return nil, nil
		}
		return &Member{Name: inline, Offset: dataOff + nlen, Size: size - nlen}, nil

	case len(name) > 1 && name[0] == '/':
		off, err := parseDec(name[1:])
		if err != nil {
			return nil, err
		}
		long, err := r.longName(off)
		if err != nil {
			return nil, err
		}
		return &Member{Name: long, Offset: dataOff, Size: size}, nil

	default:
		if isSymdef(name) {
			return nil, nil
		}
		name = bytes.TrimSuffix(name, []byte("/"))
		return &Member{Name: name, Offset: dataOff, Size: size}, nil
	}
}

// longName resolves an offset into the // table. Entries end with
// "/\n"; a null terminator is tolerated for COFF-style tables.
func (r *Reader) longName(off uint64) ([]byte, error) {
	if r.strtab == nil {
		return nil, fmt.Errorf("%w: long name without long-name table", ErrFormat)
	}
	if off >= uint64(len(r.strtab)) {
		return nil, fmt.Errorf("%w: long name offset out of range", ErrFormat)
	}
	rest := r.strtab[off:]
	if i := bytes.IndexAny(rest, "\n\x00"); i >= 0 {
		rest = rest[:i]
	}
	return bytes.TrimSuffix(rest, []byte("/")), nil
}

func isSymdef(name []byte) bool {
	return bytes.HasPrefix(name, []byte("__.SYMDEF"))
}

func (r *Reader) nextBig() (*Member, error) {
	if r.bigNext == 0 {
		return nil, io.EOF
	}
	off := r.bigNext
	n := uint64(len(r.data))
	if off >= n || n-off < bigHeaderLen {
		return nil, fmt.Errorf("%w: truncated member header", ErrFormat)
	}
	hdr := r.data[off : off+bigHeaderLen]
	size, err := parseDec(hdr[0:20])
	if err != nil {
		return nil, err
	}
	next, err := parseDec(hdr[20:40])
	if err != nil {
		return nil, err
	}
	namlen, err := parseDec(hdr[108:112])
	if err != nil {
		return nil, err
	}

	nameOff := off + bigHeaderLen
	termOff := nameOff + namlen + namlen%2
	if termOff+2 > n {
		return nil, fmt.Errorf("%w: truncated member name", ErrFormat)
	}
	if r.data[termOff] != '`' || r.data[termOff+1] != '\n' {
		return nil, fmt.Errorf("%w: bad member header terminator", ErrFormat)
	}
	if next != 0 && next <= off {
		return nil, fmt.Errorf("%w: member chain not monotonic", ErrFormat)
	}
	r.bigNext = next
	return &Member{
		Name:   r.data[nameOff : nameOff+namlen],
		Offset: termOff + 2,
		Size:   size,
	}, nil
}

// bigFixedField reads the i-th decimal field of the big archive fixed
// header.
func bigFixedField(data []byte, i int) (uint64, error) {
	start := 8 + i*20
	if len(data) < start+20 {
		return 0, fmt.Errorf("%w: truncated fixed header", ErrFormat)
	}
	return parseDec(data[start : start+20])
}

// parseDec decodes a space-padded ASCII decimal header field. A blank
// field reads as zero.
func parseDec(b []byte) (uint64, error) {
	s := string(bytes.TrimRight(b, " \x00"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad numeric field %q", ErrFormat, s)
	}
	return v, nil
}
