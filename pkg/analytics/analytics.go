package analytics

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// BuiltinName selects the embedded English list instead of a stopword file.
const BuiltinName = "builtin"

// commonWords is the embedded English stopword list.
// Contractions are absent on purpose: the apostrophe is a separator, so
// "don't" reaches the filter as "don" and "t".
var commonWords = []string{
	"a", "about", "above", "across", "after", "afterwards",
	"again", "against", "all", "almost", "alone", "along",
	"already", "also", "although", "always", "am", "among",
	"amongst", "amount", "an", "and", "another", "any",
	"anyhow", "anyone", "anything", "anyway", "anywhere",
	"are", "around", "as", "at",

	"back", "be", "became", "because", "become", "becomes",
	"becoming", "been", "before", "beforehand", "behind",
	"being", "below", "beside", "besides", "between",
	"beyond", "both", "but", "by",

	"can", "cannot", "could",

	"did", "do", "does", "doing", "done", "down", "during",

	"each", "either", "else", "elsewhere", "enough",
	"entirely", "especially", "etc", "even", "ever",
	"every", "everyone", "everything", "everywhere",

	"few", "for", "former", "formerly", "from", "further",

	"had", "has", "have", "having", "he", "hence",
	"her", "here", "hereafter", "hereby", "herein",
	"hereupon", "hers", "herself", "him",
	"himself", "his", "how", "however",

	"i", "if", "in", "indeed", "into", "is", "it", "its", "itself",

	"just", "keep",

	"last", "latter", "latterly", "least", "less", "let", "like", "likely",

	"made", "make", "many", "may", "maybe", "me",
	"meanwhile", "might", "mine", "more", "moreover",
	"most", "mostly", "much", "must", "my", "myself",

	"neither", "never", "nevertheless", "next", "no",
	"nobody", "none", "noone", "nor", "not",
	"nothing", "now", "nowhere",

	"of", "off", "often", "on", "once", "one",
	"only", "onto", "or", "other", "others",
	"otherwise", "our", "ours", "ourselves", "out",
	"over", "own",

	"part", "per", "perhaps", "please", "put",

	"rather", "re", "same", "see", "seem", "seemed",
	"seeming", "seems", "several", "she", "should", "since",
	"so", "some", "somehow", "someone", "something",
	"sometime", "sometimes", "somewhere", "still", "such",

	"take", "than", "that", "the",
	"their", "theirs", "them", "themselves", "then",
	"thence", "there", "thereafter", "thereby",
	"therefore", "therein", "thereupon",
	"these", "they", "this", "those", "through", "throughout",
	"thru", "thus", "to", "together", "too", "toward", "towards",

	"under", "until", "up", "upon", "us", "use",

	"very", "via",

	"was", "we", "well", "were",
	"what", "whatever", "when", "whence",
	"whenever", "where", "whereafter", "whereas",
	"whereby", "wherein", "whereupon",
	"wherever", "whether", "which", "while", "whither",
	"who", "whoever", "whose", "why", "with", "within", "without",
	"would",

	"yet", "you", "your", "yours", "yourself", "yourselves",
}

// StopwordSet is an immutable set of lowercase tokens excluded from counting.
// A nil *StopwordSet means no set was supplied; an empty set filters nothing.
type StopwordSet struct {
	words map[string]struct{}
	// Source is the file path the set was loaded from, or BuiltinName.
	Source string
}

// NewStopwordSet builds a set from the given words, trimming and lowercasing
// each one. Blank entries are skipped.
func NewStopwordSet(words ...string) *StopwordSet {
	set := &StopwordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set.words[w] = struct{}{}
	}
	return set
}

// BuiltinStopwords returns the embedded English stopword list.
func BuiltinStopwords() *StopwordSet {
	set := NewStopwordSet(commonWords...)
	set.Source = BuiltinName
	return set
}

// LoadStopwords reads one stopword per line. A missing or unreadable file is
// a configuration error; an empty file yields an empty set.
func LoadStopwords(path string) (*StopwordSet, error) {
	if path == BuiltinName {
		return BuiltinStopwords(), nil
	}
	if path == "" {
		return nil, apperrors.New(apperrors.ErrConfig, "no stopword source given")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfig, err, fmt.Sprintf("opening stopword file %s", path))
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfig, err, fmt.Sprintf("reading stopword file %s", path))
	}

	set := NewStopwordSet(words...)
	set.Source = path
	return set, nil
}

// Contains reports whether token is a stopword. Safe on a nil set.
func (s *StopwordSet) Contains(token string) bool {
	if s == nil {
		return false
	}
	_, exists := s.words[token]
	return exists
}

// Len returns the number of distinct stopwords.
func (s *StopwordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
