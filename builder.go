package ar

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/meigma/ar/internal/arfile"
	"github.com/meigma/ar/internal/mmap"
)

// SkipFunc reports whether an archive member should be omitted when its
// parent archive is appended with AddArchive.
type SkipFunc func(name string) bool

// ArchiveBuilder assembles a static archive from object files and the
// members of existing archives.
type ArchiveBuilder interface {
	// AddFile appends a single object file. The member is named after
	// the file's base name. The file is not read until Build.
	AddFile(path string)

	// AddArchive appends the members of an existing archive in order,
	// omitting those for which skip returns true. On error the builder
	// is unchanged.
	AddArchive(path string, skip SkipFunc) error

	// Build writes the archive to output and reports whether it has any
	// members. Errors are fatal: Build invokes the builder's fatal
	// handler and does not return normally. The builder must not be
	// used again afterwards.
	Build(output string) bool
}

// Target describes the link target the archive is built for.
type Target struct {
	// Triple is the full target triple, e.g. "x86_64-unknown-linux-gnu".
	Triple string

	// Arch is the architecture component of the triple.
	Arch string

	// Format names the archive kind to emit. See ParseKind for the
	// accepted values.
	Format string
}

// Builder is the ArchiveBuilder implementation. Create one with
// NewBuilder.
type Builder struct {
	target Target
	logger *slog.Logger
	fatal  func(error)
	encode encodeFunc

	entries     []entry
	srcArchives []srcArchive
	consumed    bool
}

var _ ArchiveBuilder = (*Builder)(nil)

// entry is one future archive member. When src >= 0 the data is the
// byte range [offset, offset+size) of srcArchives[src]; otherwise path
// names a standalone object file read at Build time.
type entry struct {
	name         string
	src          int
	offset, size uint64
	path         string
}

type srcArchive struct {
	path string
	m    *mmap.File
}

// NewBuilder returns a Builder that assembles an archive for target.
func NewBuilder(target Target, opts ...Option) *Builder {
	b := &Builder{target: target}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.logger
}

func (b *Builder) checkUsable() {
	if b.consumed {
		panic("ar: Builder used after Build")
	}
}

// AddFile appends a single object file to the archive being built.
func (b *Builder) AddFile(path string) {
	b.checkUsable()
	b.entries = append(b.entries, entry{
		name: filepath.Base(path),
		src:  -1,
		path: path,
	})
	b.log().Debug("added object file", "path", path)
}

// AddArchive appends the members of the archive at path, omitting those
// for which skip returns true. For Mach-O universal targets the slice
// matching the target architecture is extracted first and its members
// are appended instead. The archive is mapped once and stays mapped
// until Build; adding the same archive again is a no-op.
func (b *Builder) AddArchive(path string, skip SkipFunc) error {
	b.checkUsable()

	effective := path
	if strings.Contains(b.target.Triple, "-apple-macosx") {
		slice, ok, err := ExtractFatSlice(path, b.target.Arch)
		if err != nil {
			return err
		}
		if ok {
			effective = slice
			b.log().Debug("extracted fat slice", "path", path, "slice", slice)
		}
	}

	for _, src := range b.srcArchives {
		if src.path == effective {
			return nil
		}
	}

	m, err := mmap.Open(effective)
	if err != nil {
		return err
	}
	staged, err := b.stageMembers(m.Data(), effective, skip, len(b.srcArchives))
	if err != nil {
		_ = m.Close()
		return err
	}
	b.srcArchives = append(b.srcArchives, srcArchive{path: effective, m: m})
	b.entries = append(b.entries, staged...)
	b.log().Debug("added archive", "path", path, "members", len(staged))
	return nil
}

// stageMembers parses the archive data and returns the entries to
// append. Nothing is committed to the builder until the whole archive
// parses, so a failure midway leaves no partial state behind.
func (b *Builder) stageMembers(data []byte, path string, skip SkipFunc, src int) ([]entry, error) {
	rd, err := arfile.NewReader(data)
	if err != nil {
		return nil, fmt.Errorf("parse archive %s: %w", path, err)
	}
	var staged []entry
	for {
		m, err := rd.Next()
		if err == io.EOF {
			return staged, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse archive %s: %w", path, err)
		}
		if !utf8.Valid(m.Name) {
			return nil, fmt.Errorf("archive %s: %w: %q", path, ErrMemberName, m.Name)
		}
		name := string(m.Name)
		if skip != nil && skip(name) {
			continue
		}
		staged = append(staged, entry{
			name:   name,
			src:    src,
			offset: m.Offset,
			size:   m.Size,
		})
	}
}
