package wikitext

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/wikigraph/internal/model"
)

// categoryPrefix is the namespace prefix of category membership links.
const categoryPrefix = "category"

// skippedNamespaces are link-target namespaces that never denote
// articles: media, project pages, templates, and so on. Targets in
// these namespaces are dropped from the outgoing link list.
var skippedNamespaces = map[string]bool{
	"file":      true,
	"image":     true,
	"media":     true,
	"special":   true,
	"wikipedia": true,
	"wikt":      true,
	"template":  true,
	"help":      true,
	"portal":    true,
	"draft":     true,
	"mediawiki": true,
}

// wikiLinkPattern matches internal links of the form [[Target]] or
// [[Target|label]]. Nested brackets never occur in link targets.
var wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// interlanguagePattern matches interlanguage prefixes such as "fr:" or
// "nds:" at the start of a link target.
var interlanguagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]+)?:`)

// Parser turns a reconstructed document into a structured article
// record: title, identity, outgoing links in emission order, category
// memberships, and an HTML-stripped plain text body.
//
// The crawl engine depends on this type only through its interface;
// nothing in the engine knows about wikitext.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// pageEnvelope is the subset of the <page> element the parser reads.
type pageEnvelope struct {
	Title    string `xml:"title"`
	ID       string `xml:"id"`
	Redirect struct {
		Title string `xml:"title,attr"`
	} `xml:"redirect"`
	Revision struct {
		Text string `xml:"text"`
	} `xml:"revision"`
}

// Parse converts a document's reconstructed XML into an Article.
func (p *Parser) Parse(doc model.ExtractedDocument) (*model.Article, error) {
	var page pageEnvelope
	if err := xml.Unmarshal([]byte(doc.RawText), &page); err != nil {
		return nil, fmt.Errorf("failed to decode document envelope: %w", err)
	}

	article := &model.Article{
		PageID:     page.ID,
		Title:      page.Title,
		RedirectTo: page.Redirect.Title,
	}
	if article.PageID == "" {
		article.PageID = doc.PageID
	}

	links, categories := extractLinks(page.Revision.Text)
	article.OutgoingLinks = links
	article.Categories = categories
	article.PlainText = stripMarkup(page.Revision.Text)

	return article, nil
}

// extractLinks walks the wikitext for [[...]] links, returning article
// link targets in emission order (first occurrence wins; duplicates
// are dropped) and category names separately.
func extractLinks(wikitext string) (links, categories []string) {
	seen := make(map[string]bool)

	for _, match := range wikiLinkPattern.FindAllStringSubmatch(wikitext, -1) {
		target := match[1]

		// [[Target|label]]: the target is everything before the pipe.
		if i := strings.IndexByte(target, '|'); i >= 0 {
			target = target[:i]
		}
		// [[Target#Section]]: sections are within-document.
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}

		if i := strings.IndexByte(target, ':'); i > 0 {
			ns := strings.ToLower(strings.TrimSpace(target[:i]))
			if ns == categoryPrefix {
				name := strings.TrimSpace(target[i+1:])
				if name != "" && !seen[categoryPrefix+":"+strings.ToLower(name)] {
					seen[categoryPrefix+":"+strings.ToLower(name)] = true
					categories = append(categories, name)
				}
				continue
			}
			if skippedNamespaces[ns] || interlanguagePattern.MatchString(strings.ToLower(target)) {
				continue
			}
		}

		if !seen[target] {
			seen[target] = true
			links = append(links, target)
		}
	}

	return links, categories
}

// stripMarkup removes embedded HTML-style markup (<ref>, <br>, HTML
// comments) from wikitext, keeping only text content. Template braces
// and their contents survive: infobox names inside {{...}} are exactly
// what classifiers match against.
//
// The HTML tokenizer is deliberately lenient; wikitext is full of
// stray angle brackets that a strict parser would choke on.
func stripMarkup(wikitext string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(wikitext))

	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
