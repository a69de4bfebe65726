package corpus

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

const languageSampleSize = 16 * 1024

// LanguageFilter decides whether a downloaded book belongs in the corpus.
type LanguageFilter interface {
	Accept(text []byte) bool
}

type linguaFilter struct {
	want     lingua.Language
	detector lingua.LanguageDetector
}

// NewLanguageFilter returns a filter that keeps books detected as the named
// language (e.g. "english", case insensitive). An empty name keeps every book.
func NewLanguageFilter(name string) (LanguageFilter, error) {
	if strings.TrimSpace(name) == "" {
		return acceptAll{}, nil
	}
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.String(), strings.TrimSpace(name)) {
			detector := lingua.NewLanguageDetectorBuilder().
				FromAllSpokenLanguages().
				WithLowAccuracyMode().
				Build()
			return &linguaFilter{want: lang, detector: detector}, nil
		}
	}
	return nil, apperrors.Newf(apperrors.ErrConfig, "unknown language %q", name)
}

// Accept samples the middle of the text, away from the license boilerplate
// at both ends of a Gutenberg book.
func (f *linguaFilter) Accept(text []byte) bool {
	sample := text
	if len(text) > languageSampleSize {
		start := (len(text) - languageSampleSize) / 2
		sample = text[start : start+languageSampleSize]
	}
	lang, ok := f.detector.DetectLanguageOf(string(sample))
	return ok && lang == f.want
}

type acceptAll struct{}

func (acceptAll) Accept([]byte) bool { return true }
