// Package arwriter encodes ar archive containers in the layouts native
// linkers consume.
package arwriter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Member is one file to be placed in the archive. Data is written
// verbatim; the metadata fields land in the member header untouched.
type Member struct {
	Name    string
	Data    []byte
	ModTime int64
	UID     int
	GID     int
	Mode    uint32
}

const (
	classicMagic = "!<arch>\n"
	bigMagic     = "<bigaf>\n"

	// maxClassicSize is the largest value the ten-digit size field of a
	// classic member header can hold.
	maxClassicSize = 9999999999
)

// Write encodes members into w using the given layout kind, preserving
// member order. No symbol index is emitted; ec marks an Arm64EC
// archive, which only affects the symbol index, so it does not change
// the output.
func Write(w io.Writer, members []Member, kind Kind, ec bool) error {
	bw := bufio.NewWriter(w)
	var err error
	switch kind {
	case KindGNU, KindCOFF:
		err = writeSysV(bw, members)
	case KindBSD, KindDarwin:
		err = writeBSD(bw, members)
	case KindAIXBig:
		err = writeBig(bw, members)
	default:
		return &UnknownKindError{Kind: kind.String()}
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// writeClassicHeader emits one 60-byte member header. The numeric
// fields arrive preformatted so special members can leave them blank.
func writeClassicHeader(w *bufio.Writer, name, mtime, uid, gid, mode string, size uint64) error {
	_, err := fmt.Fprintf(w, "%-16s%-12s%-6s%-6s%-8s%-10d`\n", name, mtime, uid, gid, mode, size)
	return err
}

func memberHeader(w *bufio.Writer, name string, m Member, size uint64) error {
	return writeClassicHeader(w, name,
		strconv.FormatInt(m.ModTime, 10),
		strconv.Itoa(m.UID),
		strconv.Itoa(m.GID),
		strconv.FormatUint(uint64(m.Mode), 8),
		size)
}

// writeBody writes data followed by the newline pad that keeps the next
// header on an even offset.
func writeBody(w *bufio.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data)%2 == 1 {
		return w.WriteByte('\n')
	}
	return nil
}

func writeSysV(w *bufio.Writer, members []Member) error {
	if _, err := w.WriteString(classicMagic); err != nil {
		return err
	}

	// Names that do not fit the 16-byte field, or that contain the
	// slash terminator, move to the // long-name table.
	longNames := make(map[int]int)
	var table []byte
	for i, m := range members {
		if len(m.Name) > 15 || strings.Contains(m.Name, "/") {
			longNames[i] = len(table)
			table = append(table, m.Name...)
			table = append(table, '/', '\n')
		}
	}
	if len(table) > 0 {
		if err := writeClassicHeader(w, "//", "", "", "", "", uint64(len(table))); err != nil {
			return err
		}
		if err := writeBody(w, table); err != nil {
			return err
		}
	}

	for i, m := range members {
		if uint64(len(m.Data)) > maxClassicSize {
			return fmt.Errorf("archive member %s too large", m.Name)
		}
		name := m.Name + "/"
		if off, ok := longNames[i]; ok {
			name = "/" + strconv.Itoa(off)
		}
		if err := memberHeader(w, name, m, uint64(len(m.Data))); err != nil {
			return err
		}
		if err := writeBody(w, m.Data); err != nil {
			return err
		}
	}
	return nil
}

func writeBSD(w *bufio.Writer, members []Member) error {
	if _, err := w.WriteString(classicMagic); err != nil {
		return err
	}

	pos := uint64(len(classicMagic))
	for _, m := range members {
		// Every name is stored inline at the front of the member data,
		// null padded so the object bytes that follow start 8-byte
		// aligned.
		nameEnd := pos + 60 + uint64(len(m.Name))
		pad := int((8 - nameEnd%8) % 8)
		nlen := len(m.Name) + pad
		size := uint64(nlen) + uint64(len(m.Data))
		if size > maxClassicSize {
			return fmt.Errorf("archive member %s too large", m.Name)
		}
		if err := memberHeader(w, "#1/"+strconv.Itoa(nlen), m, size); err != nil {
			return err
		}
		if _, err := w.WriteString(m.Name); err != nil {
			return err
		}
		for i := 0; i < pad; i++ {
			if err := w.WriteByte(0); err != nil {
				return err
			}
		}
		if err := writeBody(w, m.Data); err != nil {
			return err
		}
		pos += 60 + size + size%2
	}
	return nil
}

const (
	bigFixedHeaderLen  = 120
	bigMemberHeaderLen = 112
)

func bigMemberLen(m Member) uint64 {
	nlen := uint64(len(m.Name))
	dlen := uint64(len(m.Data))
	return bigMemberHeaderLen + nlen + nlen%2 + 2 + dlen + dlen%2
}

func writeBigMemberHeader(w *bufio.Writer, name string, size, next, prev uint64, mtime int64, uid, gid int, mode uint32) error {
	_, err := fmt.Fprintf(w, "%-20d%-20d%-20d%-12d%-12d%-12d%-12o%-4d", size, next, prev, mtime, uid, gid, mode, len(name))
	if err != nil {
		return err
	}
	if _, err := w.WriteString(name); err != nil {
		return err
	}
	if len(name)%2 == 1 {
		if err := w.WriteByte(0); err != nil {
			return err
		}
	}
	_, err = w.WriteString("`\n")
	return err
}

// writeBig emits the AIX big archive layout: a fixed-length header with
// decimal offset fields, doubly linked member headers, and a trailing
// member table locating every member by offset and name.
func writeBig(w *bufio.Writer, members []Member) error {
	if _, err := w.WriteString(bigMagic); err != nil {
		return err
	}
	if len(members) == 0 {
		_, err := fmt.Fprintf(w, "%-20d%-20d%-20d%-20d%-20d%-20d", 0, 0, 0, 0, 0, 0)
		return err
	}

	offsets := make([]uint64, len(members))
	pos := uint64(len(bigMagic) + bigFixedHeaderLen)
	for i, m := range members {
		offsets[i] = pos
		pos += bigMemberLen(m)
	}
	tableOff := pos
	last := offsets[len(offsets)-1]

	table := fmt.Appendf(nil, "%-20d", len(members))
	for _, off := range offsets {
		table = fmt.Appendf(table, "%-20d", off)
	}
	for _, m := range members {
		table = append(table, m.Name...)
		table = append(table, 0)
	}

	// Fixed header: member table, global symbol tables (none), first
	// and last member, free list (none).
	if _, err := fmt.Fprintf(w, "%-20d%-20d%-20d%-20d%-20d%-20d",
		tableOff, 0, 0, offsets[0], last, 0); err != nil {
		return err
	}

	for i, m := range members {
		var next, prev uint64
		if i+1 < len(members) {
			next = offsets[i+1]
		}
		if i > 0 {
			prev = offsets[i-1]
		}
		if err := writeBigMemberHeader(w, m.Name, uint64(len(m.Data)), next, prev, m.ModTime, m.UID, m.GID, m.Mode); err != nil {
			return err
		}
		if _, err := w.Write(m.Data); err != nil {
			return err
		}
		if len(m.Data)%2 == 1 {
			if err := w.WriteByte(0); err != nil {
				return err
			}
		}
	}

	if err := writeBigMemberHeader(w, "", uint64(len(table)), 0, last, 0, 0, 0, 0); err != nil {
		return err
	}
	if _, err := w.Write(table); err != nil {
		return err
	}
	if len(table)%2 == 1 {
		return w.WriteByte(0)
	}
	return nil
}
