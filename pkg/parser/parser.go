// Package parser turns HTML ebook pages into plain text.
package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ExtractText uses go-readability to isolate the main content of html and
// goquery to flatten it into text, one block per line.
func ExtractText(rawURL, html string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url %s: %w", rawURL, err)
	}

	content := html
	readabilityParser := readability.NewParser()
	if article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL); err == nil && article.Content != "" {
		content = article.Content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var b strings.Builder
	doc.Find("h1,h2,h3,h4,h5,h6,p,li,pre,blockquote").Each(func(i int, s *goquery.Selection) {
		// nested blocks are emitted by their innermost match only
		if s.Find("p,li,pre,blockquote").Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
	})

	if b.Len() == 0 {
		// no block structure, fall back to the document text
		for _, line := range strings.Split(doc.Text(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
