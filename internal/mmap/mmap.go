// Package mmap provides read-only memory-mapped file access with a
// plain-read fallback for platforms without mmap.
package mmap

// File is a read-only view of a file's contents.
//
// On unix builds the view is a shared memory mapping; it must be
// released with Close before the backing file can be replaced on
// platforms that forbid renaming over mapped files. Other builds hold
// a copy of the file in memory.
type File struct {
	data   []byte
	mapped bool
}

// Data returns the contents. The slice is invalid after Close.
func (f *File) Data() []byte { return f.data }
