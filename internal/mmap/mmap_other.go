//go:build !unix

package mmap

import (
	"io"
	"os"
)

// Open reads the file at path into memory.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Map reads an open file into memory. The caller keeps ownership of f.
func Map(f *os.File) (*File, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Close releases the contents. It is safe to call more than once.
func (f *File) Close() error {
	f.data = nil
	return nil
}
