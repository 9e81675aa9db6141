package ar

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/ar/internal/arfile"
	"github.com/meigma/ar/internal/arwriter"
)

func linuxTarget() Target {
	return Target{Triple: "x86_64-unknown-linux-gnu", Arch: "x86_64", Format: "gnu"}
}

func member(name, data string) arwriter.Member {
	return arwriter.Member{Name: name, Data: []byte(data), Mode: 0o644}
}

func writeTestArchive(t *testing.T, path string, members ...arwriter.Member) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, arwriter.Write(&buf, members, arwriter.KindGNU, false))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeObject(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

type archiveMember struct {
	name string
	data string
}

func readArchive(t *testing.T, path string) []archiveMember {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rd, err := arfile.NewReader(data)
	require.NoError(t, err)
	var members []archiveMember
	for {
		m, err := rd.Next()
		if err == io.EOF {
			return members
		}
		require.NoError(t, err)
		body, err := rd.Data(m)
		require.NoError(t, err)
		members = append(members, archiveMember{name: string(m.Name), data: string(body)})
	}
}

func TestBuilderOrderPreserved(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	objA := writeObject(t, dir, "a.o", "object a")
	objC := writeObject(t, dir, "c.o", "object c")
	lib := filepath.Join(dir, "lib.a")
	writeTestArchive(t, lib, member("m1.o", "first"), member("m2.o", "second"))

	b := NewBuilder(linuxTarget())
	b.AddFile(objA)
	require.NoError(t, b.AddArchive(lib, nil))
	b.AddFile(objC)

	out := filepath.Join(dir, "out.a")
	any, err := b.build(out)
	require.NoError(t, err)
	assert.True(t, any)

	want := []archiveMember{
		{"a.o", "object a"},
		{"m1.o", "first"},
		{"m2.o", "second"},
		{"c.o", "object c"},
	}
	assert.Equal(t, want, readArchive(t, out))
}

func TestAddArchiveIdempotent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lib := filepath.Join(dir, "lib.a")
	writeTestArchive(t, lib, member("m1.o", "first"), member("m2.o", "second"))

	b := NewBuilder(linuxTarget())
	require.NoError(t, b.AddArchive(lib, nil))
	require.NoError(t, b.AddArchive(lib, nil))

	// The second add is a no-op: the archive stays mapped once and
	// contributes its members once.
	assert.Len(t, b.srcArchives, 1)

	out := filepath.Join(dir, "out.a")
	any, err := b.build(out)
	require.NoError(t, err)
	assert.True(t, any)

	want := []archiveMember{
		{"m1.o", "first"},
		{"m2.o", "second"},
	}
	assert.Equal(t, want, readArchive(t, out))
}

func TestAddArchiveSkip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lib := filepath.Join(dir, "lib.a")
	writeTestArchive(t, lib,
		member("m1.o", "first"),
		member("m2.o", "second"),
		member("m3.o", "third"),
	)

	b := NewBuilder(linuxTarget())
	require.NoError(t, b.AddArchive(lib, func(name string) bool {
		return name == "m2.o"
	}))

	out := filepath.Join(dir, "out.a")
	_, err := b.build(out)
	require.NoError(t, err)

	want := []archiveMember{
		{"m1.o", "first"},
		{"m3.o", "third"},
	}
	assert.Equal(t, want, readArchive(t, out))
}

func TestAddArchiveMalformed(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lib := filepath.Join(dir, "lib.a")
	require.NoError(t, os.WriteFile(lib, []byte("not an archive at all"), 0o644))

	b := NewBuilder(linuxTarget())
	err := b.AddArchive(lib, nil)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Empty(t, b.entries)
	assert.Empty(t, b.srcArchives)
}

func TestAddArchiveInvalidName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lib := filepath.Join(dir, "lib.a")
	writeTestArchive(t, lib, member("\xff\xfe", "data"))

	b := NewBuilder(linuxTarget())
	err := b.AddArchive(lib, nil)
	assert.ErrorIs(t, err, ErrMemberName)
	assert.Empty(t, b.entries)
	assert.Empty(t, b.srcArchives)

	// Names are validated before the skip filter sees them.
	err = b.AddArchive(lib, func(string) bool { return true })
	assert.ErrorIs(t, err, ErrMemberName)
	assert.Empty(t, b.entries)
}

func TestAddArchivePartialFailure(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	good := filepath.Join(dir, "good.a")
	writeTestArchive(t, good, member("m1.o", "first"))
	bad := filepath.Join(dir, "bad.a")
	writeTestArchive(t, bad, member("ok.o", "fine"), member("\xff\xfe", "data"))

	b := NewBuilder(linuxTarget())
	require.NoError(t, b.AddArchive(good, nil))
	require.Error(t, b.AddArchive(bad, nil))

	// The failed archive contributes nothing, not even its valid
	// leading members.
	out := filepath.Join(dir, "out.a")
	_, err := b.build(out)
	require.NoError(t, err)
	assert.Equal(t, []archiveMember{{"m1.o", "first"}}, readArchive(t, out))
}

func TestBuilderConsumed(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "out.a")

	b := NewBuilder(linuxTarget())
	_, err := b.build(out)
	require.NoError(t, err)

	assert.Panics(t, func() { b.AddFile("x.o") })
	assert.Panics(t, func() { _ = b.AddArchive("x.a", nil) })
	assert.Panics(t, func() { b.Build(out) })
}

func TestBuilderLogging(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	obj := writeObject(t, dir, "a.o", "object a")
	lib := filepath.Join(dir, "lib.a")
	writeTestArchive(t, lib, member("m1.o", "first"))

	b := NewBuilder(linuxTarget(), WithLogger(logger))
	b.AddFile(obj)
	require.NoError(t, b.AddArchive(lib, nil))
	_, err := b.build(filepath.Join(dir, "out.a"))
	require.NoError(t, err)

	logs := logBuf.String()
	assert.Contains(t, logs, "added object file")
	assert.Contains(t, logs, "added archive")
	assert.Contains(t, logs, "built archive")
}

func TestBuildEmptyArchive(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.a")
	b := NewBuilder(linuxTarget())
	any, err := b.build(out)
	require.NoError(t, err)
	assert.False(t, any)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "!<arch>\n", string(data))
}
