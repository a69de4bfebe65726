// Package corpus prepares and discovers the benchmark input files. Fixtures
// are plain text files named after their approximate size, "<N>MB.txt".
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

const (
	sizeSuffix = "MB"
	fixtureExt = ".txt"
	// MB is the byte size of one size-key unit.
	MB = 1024 * 1024
)

// Fixture is one benchmark input file.
type Fixture struct {
	Path      string `json:"path" yaml:"path"`
	SizeMB    int    `json:"size_mb" yaml:"size_mb"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

// Name returns the file name without directories.
func (f Fixture) Name() string {
	return filepath.Base(f.Path)
}

// FixtureName returns the file name used for a fixture of sizeMB.
func FixtureName(sizeMB int) string {
	return fmt.Sprintf("%d%s%s", sizeMB, sizeSuffix, fixtureExt)
}

// ParseSizeKey extracts N from a "<N>MB" file stem. Only the stem is
// inspected, so "16MB.txt" and "16MB.text" both yield 16.
func ParseSizeKey(name string) (int, bool) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	digits, ok := strings.CutSuffix(stem, sizeSuffix)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Discover lists the fixtures in dir sorted by size key, then by name.
// Files whose stem is not "<N>MB" are ignored.
func Discover(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("listing %s", dir))
	}

	var fixtures []Fixture
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		size, ok := ParseSizeKey(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("stat %s", e.Name()))
		}
		fixtures = append(fixtures, Fixture{
			Path:      filepath.Join(dir, e.Name()),
			SizeMB:    size,
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(fixtures, func(i, j int) bool {
		if fixtures[i].SizeMB != fixtures[j].SizeMB {
			return fixtures[i].SizeMB < fixtures[j].SizeMB
		}
		return fixtures[i].Path < fixtures[j].Path
	})
	return fixtures, nil
}

// FromPaths builds fixtures for explicitly named files, keeping their
// order. Files without a size key get SizeMB rounded from their byte size.
func FromPaths(paths []string) ([]Fixture, error) {
	fixtures := make([]Fixture, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("stat %s", p))
		}
		size, ok := ParseSizeKey(p)
		if !ok {
			size = int((info.Size() + MB/2) / MB)
		}
		fixtures = append(fixtures, Fixture{Path: p, SizeMB: size, SizeBytes: info.Size()})
	}
	return fixtures, nil
}
