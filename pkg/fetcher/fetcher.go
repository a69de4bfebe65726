package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
	"github.com/dtnitsch/wordbench/pkg/parser"
)

const defaultTimeout = 2 * time.Minute

// BookURLPattern is the plain text location of a Gutenberg ebook; both %s
// are replaced by the ebook id.
const BookURLPattern = "https://www.gutenberg.org/cache/epub/%s/pg%s.txt"

type Fetcher struct {
	client *http.Client
	// URLPattern overrides BookURLPattern, mainly for tests.
	URLPattern string
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		URLPattern: BookURLPattern,
	}
}

// BookURL returns the download URL of an ebook.
func (f *Fetcher) BookURL(id string) string {
	return fmt.Sprintf(f.URLPattern, id, id)
}

// GetBook downloads an ebook as text. HTML responses are reduced to their
// readable text so the corpus never contains markup.
func (f *Fetcher) GetBook(ctx context.Context, id string) ([]byte, error) {
	url := f.BookURL(id)
	body, contentType, err := f.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return body, nil
	}

	text, err := parser.ExtractText(url, string(body))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetch, err, fmt.Sprintf("extracting text from %s", url))
	}
	return []byte(text), nil
}

// GetBytes fetches url and returns the body and its Content-Type.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrFetch, err, "building request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrFetch, err, fmt.Sprintf("requesting %s", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apperrors.Newf(apperrors.ErrFetch, "fetching %s: status code %d", url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrFetch, err, fmt.Sprintf("reading body of %s", url))
	}
	return bodyBytes, strings.TrimSpace(resp.Header.Get("Content-Type")), nil
}
