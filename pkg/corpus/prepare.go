package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/wordbench/pkg/caching"
	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// DefaultSizesMB are the fixture sizes built when none are given.
var DefaultSizesMB = []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512}

// BookSource downloads the text of one ebook.
type BookSource interface {
	GetBook(ctx context.Context, id string) ([]byte, error)
}

// Preparer concatenates downloaded books into fixtures of growing size.
// Each fixture holds every accepted book up to the point where the corpus
// reached its size, so fixture N+1 always starts with the content of N.
type Preparer struct {
	Source  BookSource
	Cache   *caching.Cache
	Filter  LanguageFilter
	Workers int
	Logger  *slog.Logger
	// Language is only recorded in the manifest.
	Language string
}

type download struct {
	data []byte
	err  error
}

// Prepare downloads ids in order and writes one "<N>MB.txt" per size into
// dir. Books that fail to download or are rejected by the filter are
// skipped and listed in the manifest. Downloading stops once the largest
// size is written; sizes the books could not fill are not written.
func (p *Preparer) Prepare(ctx context.Context, dir string, ids []string, sizesMB []int) (*Manifest, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	filter := p.Filter
	if filter == nil {
		filter = acceptAll{}
	}
	workers := max(p.Workers, 1)

	sizes := slices.Clone(sizesMB)
	if len(sizes) == 0 {
		sizes = slices.Clone(DefaultSizesMB)
	}
	slices.Sort(sizes)
	sizes = slices.Compact(sizes)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("creating %s", dir))
	}
	acc, err := os.CreateTemp(dir, ".corpus-*")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, "creating accumulator")
	}
	defer func() {
		acc.Close()
		os.Remove(acc.Name())
	}()

	dctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// downloads run ahead of the writer by at most 2*workers books
	slots := make([]chan download, len(ids))
	for i := range slots {
		slots[i] = make(chan download, 1)
	}
	window := make(chan struct{}, 2*workers)
	g, gctx := errgroup.WithContext(dctx)
	g.SetLimit(workers)
	fed := make(chan struct{})
	go func() {
		defer close(fed)
		for i, id := range ids {
			select {
			case window <- struct{}{}:
			case <-gctx.Done():
				return
			}
			g.Go(func() error {
				data, err := p.fetch(gctx, id)
				slots[i] <- download{data: data, err: err}
				return nil
			})
		}
	}()
	defer func() {
		cancel()
		<-fed
		_ = g.Wait()
	}()

	manifest := &Manifest{GeneratedAt: time.Now().UTC(), Language: p.Language}
	var total int64
	var included []string
	next := 0

	for i, id := range ids {
		if next == len(sizes) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var d download
		select {
		case d = <-slots[i]:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		<-window

		if d.err != nil {
			logger.Warn("Skipping book, download failed", "book_id", id, "error", d.err)
			manifest.Skipped = append(manifest.Skipped, SkippedBook{ID: id, Reason: apperrors.ErrorType(d.err)})
			continue
		}
		if !filter.Accept(d.data) {
			logger.Info("Skipping book, language mismatch", "book_id", id)
			manifest.Skipped = append(manifest.Skipped, SkippedBook{ID: id, Reason: "language"})
			continue
		}

		n, err := appendBook(acc, d.data)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrIO, err, "appending book")
		}
		total += n
		included = append(included, id)
		logger.Info("Book added", "book", i+1, "of", len(ids), "book_id", id, "corpus_mb", fmt.Sprintf("%.2f", float64(total)/MB))

		for next < len(sizes) && total >= int64(sizes[next])*MB {
			fx, err := writeFixture(acc, total, dir, sizes[next])
			if err != nil {
				return nil, err
			}
			logger.Info("Fixture written", "file", fx.Path, "size_bytes", fx.SizeBytes, "books", len(included))
			manifest.Fixtures = append(manifest.Fixtures, FixtureEntry{Fixture: fx, BookIDs: slices.Clone(included)})
			next++
		}
	}

	if next < len(sizes) {
		logger.Warn("Ran out of books before filling every size", "written", next, "requested", len(sizes), "corpus_bytes", total)
	}
	if err := WriteManifest(dir, manifest); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err, "writing manifest")
	}
	return manifest, nil
}

func (p *Preparer) fetch(ctx context.Context, id string) ([]byte, error) {
	if p.Cache == nil {
		return p.Source.GetBook(ctx, id)
	}
	data, _, err := p.Cache.GetOrFetch(ctx, id, func(ctx context.Context) ([]byte, error) {
		return p.Source.GetBook(ctx, id)
	})
	return data, err
}

// appendBook writes data and, if it lacks one, a trailing newline so the
// last word of a book never fuses with the first word of the next.
func appendBook(w io.Writer, data []byte) (int64, error) {
	n, err := w.Write(data)
	if err != nil {
		return int64(n), err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		m, err := w.Write([]byte{'\n'})
		return int64(n + m), err
	}
	return int64(n), nil
}

// writeFixture copies the first size bytes of acc into dir/<sizeMB>MB.txt.
func writeFixture(acc io.ReaderAt, size int64, dir string, sizeMB int) (Fixture, error) {
	path := filepath.Join(dir, FixtureName(sizeMB))
	tmp, err := os.CreateTemp(dir, ".fixture-*")
	if err != nil {
		return Fixture{}, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("creating %s", path))
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, io.NewSectionReader(acc, 0, size)); err != nil {
		tmp.Close()
		return Fixture{}, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("writing %s", path))
	}
	if err := tmp.Close(); err != nil {
		return Fixture{}, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("writing %s", path))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Fixture{}, apperrors.Wrap(apperrors.ErrIO, err, fmt.Sprintf("renaming %s", path))
	}
	return Fixture{Path: path, SizeMB: sizeMB, SizeBytes: size}, nil
}
