package corpus

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dtnitsch/wordbench/pkg/caching"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestParseSizeKey(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"16MB.txt", 16, true},
		{"/data/1MB.txt", 1, true},
		{"512MB", 512, true},
		{"16MB.text", 16, true},
		{"MB.txt", 0, false},
		{"16mb.txt", 0, false},
		{"notes.txt", 0, false},
		{"-1MB.txt", 0, false},
		{"1.5MB.txt", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseSizeKey(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSizeKey(%q) = %d, %v, want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFixtureName(t *testing.T) {
	if got := FixtureName(64); got != "64MB.txt" {
		t.Errorf("FixtureName(64) = %q, want %q", got, "64MB.txt")
	}
}

func TestDiscover_SortsBySize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "16MB.txt", "sixteen")
	writeFile(t, dir, "2MB.txt", "two")
	writeFile(t, dir, "128MB.txt", "big")
	writeFile(t, dir, "README.md", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "4MB.txt"), 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	fixtures, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"2MB.txt", "16MB.txt", "128MB.txt"}
	if len(fixtures) != len(want) {
		t.Fatalf("Discover() returned %d fixtures, want %d", len(fixtures), len(want))
	}
	for i, f := range fixtures {
		if f.Name() != want[i] {
			t.Errorf("fixtures[%d] = %q, want %q", i, f.Name(), want[i])
		}
	}
	if fixtures[0].SizeBytes != 3 {
		t.Errorf("fixtures[0].SizeBytes = %d, want 3", fixtures[0].SizeBytes)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, apperrors.ErrIO) {
		t.Errorf("Discover() error = %v, want ErrIO", err)
	}
}

func TestFromPaths(t *testing.T) {
	dir := t.TempDir()
	sized := writeFile(t, dir, "8MB.txt", "x")
	plain := writeFile(t, dir, "book.txt", "y")

	fixtures, err := FromPaths([]string{plain, sized})
	if err != nil {
		t.Fatalf("FromPaths() error = %v", err)
	}
	if fixtures[0].Path != plain || fixtures[0].SizeMB != 0 {
		t.Errorf("fixtures[0] = %+v, want %s with size 0", fixtures[0], plain)
	}
	if fixtures[1].SizeMB != 8 {
		t.Errorf("fixtures[1].SizeMB = %d, want 8", fixtures[1].SizeMB)
	}

	if _, err := FromPaths([]string{filepath.Join(dir, "nope.txt")}); !errors.Is(err, apperrors.ErrIO) {
		t.Errorf("FromPaths() error = %v, want ErrIO", err)
	}
}

func TestReadEbookIDs(t *testing.T) {
	csv := `Title,Author,Link,Bookshelf
"Moby Dick; Or, The Whale","Melville, Herman",http://www.gutenberg.org/ebooks/2701,Best Books Ever Listings
Pride and Prejudice,"Austen, Jane",http://www.gutenberg.org/ebooks/1342/,Harvard Classics
Short row
Emma,"Austen, Jane",http://www.gutenberg.org/ebooks/158,
Moby Dick again,"Melville, Herman",http://www.gutenberg.org/ebooks/2701,
`
	ids, err := ReadEbookIDs(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadEbookIDs() error = %v", err)
	}
	want := []string{"2701", "1342", "158"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ReadEbookIDs() = %v, want %v", ids, want)
	}
}

func TestLoadEbookIDs_MissingFile(t *testing.T) {
	_, err := LoadEbookIDs(filepath.Join(t.TempDir(), "metadata.csv"))
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Errorf("LoadEbookIDs() error = %v, want ErrConfig", err)
	}
}

func TestNewLanguageFilter(t *testing.T) {
	f, err := NewLanguageFilter("")
	if err != nil {
		t.Fatalf("NewLanguageFilter(\"\") error = %v", err)
	}
	if !f.Accept([]byte("anything at all")) {
		t.Error("empty language filter rejected text")
	}

	if _, err := NewLanguageFilter("klingon"); !errors.Is(err, apperrors.ErrConfig) {
		t.Errorf("NewLanguageFilter(klingon) error = %v, want ErrConfig", err)
	}
}

func TestManifest_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		Language: "english",
		Fixtures: []FixtureEntry{{
			Fixture: Fixture{Path: filepath.Join(dir, "1MB.txt"), SizeMB: 1, SizeBytes: 1048600},
			BookIDs: []string{"11", "84"},
		}},
		Skipped: []SkippedBook{{ID: "99", Reason: "language"}},
	}
	if err := WriteManifest(dir, m); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if len(got.Fixtures) != 1 || got.Fixtures[0].SizeMB != 1 || got.Fixtures[0].SizeBytes != 1048600 {
		t.Errorf("ReadManifest() fixtures = %+v", got.Fixtures)
	}
	if len(got.Fixtures[0].BookIDs) != 2 || got.Fixtures[0].BookIDs[1] != "84" {
		t.Errorf("ReadManifest() book ids = %v, want [11 84]", got.Fixtures[0].BookIDs)
	}
	if len(got.Skipped) != 1 || got.Skipped[0].Reason != "language" {
		t.Errorf("ReadManifest() skipped = %+v", got.Skipped)
	}
}

// fakeSource serves generated books and counts downloads.
type fakeSource struct {
	mu    sync.Mutex
	books map[string][]byte
	calls int
}

func (s *fakeSource) GetBook(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := s.books[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrFetch, "book %s: status 404", id)
	}
	return data, nil
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type rejectFrench struct{}

func (rejectFrench) Accept(text []byte) bool {
	return !bytes.HasPrefix(text, []byte("bonjour"))
}

// book returns roughly 660KB of text, so two books exceed 1MB.
func book(word string) []byte {
	return bytes.Repeat([]byte(word+" beta\n"), 60000)
}

func newFakeSource() *fakeSource {
	return &fakeSource{books: map[string][]byte{
		"1": book("alpha"),
		"3": book("bonjour"),
		"4": book("gamma"),
		"5": book("delta"),
	}}
}

func TestPrepare_BuildsFixturesAndSkipsBooks(t *testing.T) {
	dir := t.TempDir()
	source := newFakeSource()
	p := &Preparer{Source: source, Filter: rejectFrench{}, Workers: 3, Language: "english"}

	m, err := p.Prepare(context.Background(), dir, []string{"1", "2", "3", "4", "5"}, []int{4, 1})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(m.Fixtures) != 1 {
		t.Fatalf("Prepare() wrote %d fixtures, want 1", len(m.Fixtures))
	}
	fx := m.Fixtures[0]
	if fx.Name() != "1MB.txt" {
		t.Errorf("fixture name = %q, want 1MB.txt", fx.Name())
	}
	if strings.Join(fx.BookIDs, ",") != "1,4" {
		t.Errorf("fixture books = %v, want [1 4]", fx.BookIDs)
	}

	data, err := os.ReadFile(fx.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := append(book("alpha"), book("gamma")...)
	if !bytes.Equal(data, want) {
		t.Errorf("fixture content has %d bytes, want %d", len(data), len(want))
	}
	if fx.SizeBytes != int64(len(want)) {
		t.Errorf("fixture SizeBytes = %d, want %d", fx.SizeBytes, len(want))
	}

	if _, err := os.Stat(filepath.Join(dir, "4MB.txt")); !os.IsNotExist(err) {
		t.Errorf("4MB.txt should not exist, stat error = %v", err)
	}

	if len(m.Skipped) != 2 {
		t.Fatalf("skipped = %+v, want 2 entries", m.Skipped)
	}
	if m.Skipped[0].ID != "2" || m.Skipped[0].Reason != apperrors.TypeFetch {
		t.Errorf("skipped[0] = %+v, want book 2 fetch_error", m.Skipped[0])
	}
	if m.Skipped[1].ID != "3" || m.Skipped[1].Reason != "language" {
		t.Errorf("skipped[1] = %+v, want book 3 language", m.Skipped[1])
	}

	onDisk, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if onDisk.Language != "english" || len(onDisk.Fixtures) != 1 {
		t.Errorf("manifest on disk = %+v", onDisk)
	}

	fixtures, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(fixtures) != 1 {
		t.Errorf("Discover() found %d fixtures, want 1 (temp files must be gone)", len(fixtures))
	}
}

func TestPrepare_StopsAfterLargestSize(t *testing.T) {
	source := newFakeSource()
	p := &Preparer{Source: source, Workers: 1}

	m, err := p.Prepare(context.Background(), t.TempDir(), []string{"1", "4", "5"}, []int{1})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if strings.Join(m.Fixtures[0].BookIDs, ",") != "1,4" {
		t.Errorf("fixture books = %v, want [1 4]", m.Fixtures[0].BookIDs)
	}
}

func TestPrepare_UsesCache(t *testing.T) {
	cache, err := caching.NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	ids := []string{"1", "4"}

	first := newFakeSource()
	p := &Preparer{Source: first, Cache: cache, Workers: 2}
	if _, err := p.Prepare(context.Background(), t.TempDir(), ids, []int{1}); err != nil {
		t.Fatalf("Prepare() first run error = %v", err)
	}
	if first.Calls() != 2 {
		t.Errorf("first run downloads = %d, want 2", first.Calls())
	}

	second := newFakeSource()
	p.Source = second
	if _, err := p.Prepare(context.Background(), t.TempDir(), ids, []int{1}); err != nil {
		t.Fatalf("Prepare() second run error = %v", err)
	}
	if second.Calls() != 0 {
		t.Errorf("second run downloads = %d, want 0", second.Calls())
	}
}

func TestPrepare_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Preparer{Source: newFakeSource(), Workers: 2}
	_, err := p.Prepare(ctx, t.TempDir(), []string{"1", "4"}, []int{1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Prepare() error = %v, want context.Canceled", err)
	}
}
