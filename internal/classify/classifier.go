package classify

import (
	"fmt"
	"regexp"

	"github.com/nao1215/wikigraph/internal/model"
)

// Classifier decides whether an article belongs in the graph. The
// crawl engine treats the decision as opaque: it never inspects how a
// verdict was reached.
type Classifier interface {
	// Classify returns true when the article should be accepted.
	Classify(article *model.Article) bool
}

// PatternClassifier accepts an article when any configured pattern
// matches one of its categories or its plain text body. Classification
// is a pure function of the article, so racing cache writers for the
// same identity are harmless.
type PatternClassifier struct {
	patterns []*regexp.Regexp
}

// DefaultPatterns reproduce the original project's intent: accept
// articles about members of the music industry.
var DefaultPatterns = []string{
	`(?i)\bmusicians?\b`,
	`(?i)\bmusical (?:artists?|groups?|duos|trios)\b`,
	`(?i)\bsingers?\b`,
	`(?i)\bsongwriters?\b`,
	`(?i)\bbands?\b`,
	`(?i)\{\{\s*infobox musical artist\b`,
}

// NewPatternClassifier compiles the given expressions. Empty input
// falls back to DefaultPatterns. A malformed expression fails loudly
// at construction time rather than surprising mid-crawl.
func NewPatternClassifier(exprs []string) (*PatternClassifier, error) {
	if len(exprs) == 0 {
		exprs = DefaultPatterns
	}

	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid classifier pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}

	return &PatternClassifier{patterns: patterns}, nil
}

// Classify reports whether any pattern matches the article's
// categories or plain text. Categories are checked first; they are
// short and settle most verdicts without scanning the body.
func (c *PatternClassifier) Classify(article *model.Article) bool {
	if article == nil {
		return false
	}

	for _, re := range c.patterns {
		for _, category := range article.Categories {
			if re.MatchString(category) {
				return true
			}
		}
	}
	for _, re := range c.patterns {
		if re.MatchString(article.PlainText) {
			return true
		}
	}
	return false
}
