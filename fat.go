package ar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meigma/ar/internal/fatbin"
)

// ExtractFatSlice extracts the slice matching arch from the Mach-O
// universal binary at path into a temporary file and returns its name.
// It returns ok=false without error when arch has no known CPU type,
// the file is not a universal binary, or no slice matches. The
// temporary file is not removed: it must outlive the link step that
// consumes it.
func ExtractFatSlice(path, arch string) (slice string, ok bool, err error) {
	cpu, ok := cpuType(arch)
	if !ok {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	slices, ok := fatbin.Slices(data)
	if !ok {
		return "", false, nil
	}
	for _, s := range slices {
		if s.CPUType != cpu {
			continue
		}
		end := s.Offset + s.Size
		if end < s.Offset || end > uint64(len(data)) {
			return "", false, fmt.Errorf("fat container %s: slice out of range", path)
		}
		name, err := writeSliceTemp(filepath.Base(path), data[s.Offset:end])
		if err != nil {
			return "", false, err
		}
		return name, true, nil
	}
	return "", false, nil
}

func cpuType(arch string) (uint32, bool) {
	switch arch {
	case "aarch64":
		return fatbin.CPUTypeARM64, true
	case "x86_64":
		return fatbin.CPUTypeX86_64, true
	}
	return 0, false
}

func writeSliceTemp(base string, data []byte) (string, error) {
	f, err := os.CreateTemp("", "fat-*-"+base)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
