package analytics

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	zeroWidthNonJoiner = '\u200c'
	zeroWidthJoiner    = '\u200d'
)

// IsWordChar reports whether r belongs to a token.
//
// The definition is pinned rather than delegated to a regexp engine: letters
// (L), marks (M), decimal digits (Nd), letter numbers (Nl), connector
// punctuation (Pc, which includes '_') and the two join controls. This is the
// Unicode "\w" of UTS #18 minus Other_Alphabetic code points outside those
// categories. Everything else, including U+00A0 and U+FFFD, separates tokens.
func IsWordChar(r rune) bool {
	if r < utf8.RuneSelf {
		return r == '_' ||
			('a' <= r && r <= 'z') ||
			('A' <= r && r <= 'Z') ||
			('0' <= r && r <= '9')
	}
	if r == zeroWidthNonJoiner || r == zeroWidthJoiner {
		return true
	}
	return unicode.In(r, unicode.L, unicode.M, unicode.Nd, unicode.Nl, unicode.Pc)
}

// Tokens yields the lowercase word tokens of chunk. Each rune is case folded
// before it is classified. The end of chunk terminates the last token, so a
// chunk boundary behaves like whitespace. Ranging over the sequence twice
// scans chunk twice and yields the same tokens.
func Tokens(chunk []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		var b strings.Builder
		for i := 0; i < len(chunk); {
			r, size := utf8.DecodeRune(chunk[i:])
			i += size
			r = unicode.ToLower(r)
			if IsWordChar(r) {
				b.WriteRune(r)
				continue
			}
			if b.Len() > 0 {
				if !yield(b.String()) {
					return
				}
				b.Reset()
			}
		}
		if b.Len() > 0 {
			yield(b.String())
		}
	}
}

// StripPunctuation lowercases text and replaces every non-word rune with a
// space, leaving whitespace splitting to the caller. It is the whole-text
// counterpart of Tokens used by the naive backend.
func StripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if IsWordChar(r) {
			return r
		}
		return ' '
	}, text)
}

// Normalize returns every token of text in order.
func Normalize(text string) []string {
	return strings.Fields(StripPunctuation(text))
}
