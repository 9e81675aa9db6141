// Package objfile locates named sections inside object files without
// caring which object format they use.
package objfile

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"strings"
)

// ErrNotObject reports bytes no supported object format recognizes.
var ErrNotObject = errors.New("objfile: not an object file")

// ErrNoSection reports an object missing the requested section.
var ErrNoSection = errors.New("objfile: section not found")

// Section returns the contents of the named section. ELF and PE use the
// name verbatim; Mach-O translates a leading dot to the
// double-underscore convention (".bundled_lib" becomes "__bundled_lib").
func Section(data []byte, name string) ([]byte, error) {
	r := bytes.NewReader(data)

	if f, err := elf.NewFile(r); err == nil {
		s := f.Section(name)
		if s == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoSection, name)
		}
		return sectionData(name, s.Data)
	}
	if f, err := macho.NewFile(r); err == nil {
		mname := machoName(name)
		s := f.Section(mname)
		if s == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoSection, mname)
		}
		return sectionData(mname, s.Data)
	}
	if f, err := pe.NewFile(r); err == nil {
		s := f.Section(name)
		if s == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoSection, name)
		}
		return sectionData(name, s.Data)
	}
	return nil, ErrNotObject
}

func sectionData(name string, read func() ([]byte, error)) ([]byte, error) {
	data, err := read()
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", name, err)
	}
	return data, nil
}

func machoName(name string) string {
	if strings.HasPrefix(name, ".") {
		return "__" + name[1:]
	}
	return name
}
