package archive

import (
	"encoding/xml"
	"io"
	"strings"
)

// Element names of the document envelope.
const (
	// documentTag delimits one logical document within a block.
	documentTag = "page"

	// identifierTag carries a document identifier. Only the first one
	// directly inside the document boundary is the document's own id;
	// nested ones (e.g. a revision id) must not overwrite it.
	identifierTag = "id"
)

// docScanner reconstructs one document's text out of a stream of tag
// and text events without building a parse tree. A decompressed block
// can hold dozens of documents; accumulating only the current
// candidate keeps memory proportional to one document.
//
// All state is local to one scan invocation. The scanner is a plain
// value created per call, never shared.
type docScanner struct {
	// targetID is the identifier of the wanted document.
	targetID string

	// lines accumulates the re-serialized events of the current
	// candidate document.
	lines []string

	// observedID is the candidate's identifier, once seen.
	observedID string

	// idRecorded distinguishes "no identifier yet" from an empty one,
	// and locks the first identifier in place.
	idRecorded bool

	// awaitingID is armed between an identifier start tag and its end
	// tag while no identifier has been recorded.
	awaitingID bool

	// depth is the number of currently open elements; docDepth is the
	// depth of the current document boundary element. An identifier
	// field counts only when it opens at docDepth+1, i.e. directly
	// inside the boundary.
	depth    int
	docDepth int
}

// scanForDocument scans a decompressed block for the document with the
// given identifier and returns its reconstructed text. The boolean is
// false when the block holds no matching document; callers must treat
// that as not-found, never as an empty document.
//
// Identifiers compare as strings: "042" and "42" are different
// documents, and numeric conversion would hide that.
func scanForDocument(block io.Reader, targetID string) (string, bool) {
	s := docScanner{targetID: targetID}
	dec := xml.NewDecoder(block)

	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF is the normal end of the block. Anything else is
			// a truncated or malformed trailing fragment; by contract
			// the wanted document would already have been matched, so
			// either way the scan is over.
			return "", false
		}

		switch t := tok.(type) {
		case xml.StartElement:
			s.handleStart(t)
		case xml.CharData:
			s.handleText(string(t))
		case xml.EndElement:
			if done, text := s.handleEnd(t); done {
				return text, true
			}
		}
	}
}

// handleStart processes a start tag. A document boundary discards the
// previous candidate: only a document collected from its own boundary
// tag onward counts.
func (s *docScanner) handleStart(t xml.StartElement) {
	s.depth++

	switch t.Name.Local {
	case documentTag:
		s.lines = s.lines[:0]
		s.observedID = ""
		s.idRecorded = false
		s.awaitingID = false
		s.docDepth = s.depth
	case identifierTag:
		if !s.idRecorded && s.docDepth > 0 && s.depth == s.docDepth+1 {
			s.awaitingID = true
		}
	}

	s.lines = append(s.lines, serializeStartTag(t))
}

// handleText processes literal text. While the identifier flag is
// armed, the first text becomes the candidate's observed identifier.
func (s *docScanner) handleText(text string) {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(text)) //nolint:errcheck // strings.Builder never fails
	s.lines = append(s.lines, b.String())

	if s.awaitingID && !s.idRecorded {
		s.observedID = text
		s.idRecorded = true
	}
}

// handleEnd processes an end tag. Closing the document boundary with a
// matching observed identifier finishes the scan.
func (s *docScanner) handleEnd(t xml.EndElement) (bool, string) {
	s.lines = append(s.lines, "</"+t.Name.Local+">")
	s.depth--

	switch t.Name.Local {
	case identifierTag:
		s.awaitingID = false
	case documentTag:
		if s.idRecorded && s.observedID == s.targetID {
			return true, strings.Join(s.lines, "")
		}
		s.docDepth = 0
	}
	return false, ""
}

// serializeStartTag rebuilds a start tag with its attributes in
// original order and stable double-quoting. The reconstruction
// round-trips for well-formed input; whitespace between tags outside
// text nodes is the only thing lost.
func serializeStartTag(t xml.StartElement) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.Name.Local)
	for _, attr := range t.Attr {
		b.WriteByte(' ')
		b.WriteString(attrName(attr.Name))
		b.WriteString(`="`)
		_ = xml.EscapeText(&b, []byte(attr.Value)) //nolint:errcheck // strings.Builder never fails
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// attrName renders an attribute name, keeping namespace prefixes that
// the decoder resolved into the Space field.
func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	return n.Space + ":" + n.Local
}
