package ar

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meigma/ar/internal/arwriter"
	"github.com/meigma/ar/internal/mmap"
)

// encodeFunc matches arwriter.Write. It exists so tests can substitute
// a failing encoder.
type encodeFunc func(w io.Writer, members []arwriter.Member, kind arwriter.Kind, ec bool) error

// Build writes the assembled archive to output and reports whether it
// has any members. On error Build invokes the fatal handler and does
// not return normally. The builder must not be used again afterwards.
func (b *Builder) Build(output string) bool {
	any, err := b.build(output)
	if err != nil {
		if b.fatal != nil {
			b.fatal(err)
			// The handler must not return.
			panic(err)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	return any
}

func (b *Builder) build(output string) (bool, error) {
	b.checkUsable()
	b.consumed = true

	var standalone []*mmap.File
	release := func() {
		for _, m := range standalone {
			_ = m.Close()
		}
		for _, src := range b.srcArchives {
			_ = src.m.Close()
		}
	}
	defer release()

	kind, err := arwriter.ParseKind(b.target.Format)
	if err != nil {
		return false, err
	}

	members := make([]arwriter.Member, 0, len(b.entries))
	for _, e := range b.entries {
		data, m, err := b.resolve(e)
		if err != nil {
			return false, &BuildError{Path: output, Err: err}
		}
		if m != nil {
			standalone = append(standalone, m)
		}
		members = append(members, arwriter.Member{
			Name: e.name,
			Data: data,
			Mode: 0o644,
		})
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(output), "*.temp-archive")
	if err != nil {
		return false, &BuildError{Path: output, Err: fmt.Errorf("create temp directory: %w", err)}
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.RemoveAll(tmpDir)
		}
	}()

	tmpPath := filepath.Join(tmpDir, "tmp.a")
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return false, &BuildError{Path: output, Err: fmt.Errorf("create temp file: %w", err)}
	}

	encode := b.encode
	if encode == nil {
		encode = arwriter.Write
	}
	ec := b.target.Arch == "arm64ec"
	if err := encode(f, members, kind, ec); err != nil {
		_ = f.Close()
		return false, &BuildError{Path: output, Err: fmt.Errorf("write archive: %w", err)}
	}
	if err := f.Close(); err != nil {
		return false, &BuildError{Path: output, Err: err}
	}

	// Unmap every input before the rename so the output path may
	// coincide with one of the input archives.
	release()

	if err := os.Rename(tmpPath, output); err != nil {
		return false, &BuildError{Path: output, Err: err}
	}
	renamed = true
	if err := os.Remove(tmpDir); err != nil {
		return false, &BuildError{Path: output, Err: fmt.Errorf("remove temp directory: %w", err)}
	}

	b.log().Debug("built archive", "output", output, "kind", kind.String(), "members", len(members))
	return len(members) > 0, nil
}

// resolve returns the member data for e. For standalone object files it
// also returns the mapping, which the caller must close.
func (b *Builder) resolve(e entry) ([]byte, *mmap.File, error) {
	if e.src < 0 {
		m, err := mmap.Open(e.path)
		if err != nil {
			return nil, nil, fmt.Errorf("object file %s: %w", e.path, err)
		}
		return m.Data(), m, nil
	}
	src := b.srcArchives[e.src]
	data := src.m.Data()
	end := e.offset + e.size
	if end < e.offset || end > uint64(len(data)) {
		return nil, nil, fmt.Errorf("member %s out of range in %s", e.name, src.path)
	}
	return data[e.offset:end], nil, nil
}
