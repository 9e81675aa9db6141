package ar

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/meigma/ar/internal/arfile"
	"github.com/meigma/ar/internal/mmap"
	"github.com/meigma/ar/internal/objfile"
)

// bundledLibSection holds a library bundled whole into an object file.
const bundledLibSection = ".bundled_lib"

// ExtractStage identifies where ExtractBundledLibs failed.
type ExtractStage uint8

const (
	StageOpen ExtractStage = iota
	StageMap
	StageParse
	StageEntry
	StageMemberData
	StageName
	StageSection
	StageWrite
)

func (s ExtractStage) String() string {
	switch s {
	case StageOpen:
		return "open file"
	case StageMap:
		return "map file"
	case StageParse:
		return "parse archive"
	case StageEntry:
		return "read entry"
	case StageMemberData:
		return "read member data"
	case StageName:
		return "decode member name"
	case StageSection:
		return "extract section"
	case StageWrite:
		return "write file"
	}
	return "unknown stage"
}

// ExtractError reports a failure while extracting bundled libraries.
type ExtractError struct {
	Stage   ExtractStage
	Archive string
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to %s in %s: %v", e.Stage, e.Archive, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// ExtractBundledLibs writes the bundled library section of each named
// member of archive into outDir, one file per member, keeping the
// member name.
func ExtractBundledLibs(archive, outDir string, names []string) error {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	f, err := os.Open(archive)
	if err != nil {
		return &ExtractError{Stage: StageOpen, Archive: archive, Err: err}
	}
	defer f.Close()

	m, err := mmap.Map(f)
	if err != nil {
		return &ExtractError{Stage: StageMap, Archive: archive, Err: err}
	}
	defer m.Close()

	rd, err := arfile.NewReader(m.Data())
	if err != nil {
		return &ExtractError{Stage: StageParse, Archive: archive, Err: err}
	}
	for {
		member, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ExtractError{Stage: StageEntry, Archive: archive, Err: err}
		}
		data, err := rd.Data(member)
		if err != nil {
			return &ExtractError{Stage: StageMemberData, Archive: archive, Err: err}
		}
		if !utf8.Valid(member.Name) {
			return &ExtractError{Stage: StageName, Archive: archive, Err: fmt.Errorf("%w: %q", ErrMemberName, member.Name)}
		}
		name := string(member.Name)
		if !want[name] {
			continue
		}
		section, err := objfile.Section(data, bundledLibSection)
		if err != nil {
			return &ExtractError{Stage: StageSection, Archive: archive, Err: err}
		}
		if err := os.WriteFile(filepath.Join(outDir, name), section, 0o666); err != nil {
			return &ExtractError{Stage: StageWrite, Archive: archive, Err: err}
		}
	}
}
