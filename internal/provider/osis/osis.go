// Package osis loads a corpus from an OSIS XML document.
//
// Books are the <div type="book"> elements in document order. Verses may be
// containers (<verse osisID="Gen.1.1">text</verse>) or milestone pairs
// (<verse sID="x" osisID="Gen.1.1"/>text<verse eID="x"/>). Notes are left out
// of the verse text and whitespace is collapsed.
package osis

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/errors"
)

var (
	bookExpr      = xpath.MustCompile(`//*[local-name()='div'][@type='book']`)
	verseExpr     = xpath.MustCompile(`.//*[local-name()='verse'][@osisID]`)
	skippedInText = map[string]bool{"note": true, "title": true}
)

// Options controls how OSIS identifiers become corpus titles.
type Options struct {
	// Titles maps OSIS book IDs to short titles. Nil means DefaultTitles.
	Titles map[string]string
}

func (o Options) title(id string) string {
	titles := o.Titles
	if titles == nil {
		titles = DefaultTitles
	}
	if t, ok := titles[id]; ok {
		return t
	}
	return id
}

// Load parses an OSIS document into an in-memory corpus.
func Load(r io.Reader, opts Options) (*corpus.StaticProvider, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewCorpusIntegrity("osis", "parse: "+err.Error())
	}

	p := &corpus.StaticProvider{}
	for _, div := range xmlquery.QuerySelectorAll(doc, bookExpr) {
		bookID := div.SelectAttr("osisID")
		if bookID == "" {
			return nil, errors.NewCorpusIntegrity("osis", "book div without osisID")
		}
		title := opts.title(bookID)
		p.Books = append(p.Books, title)

		for _, v := range xmlquery.QuerySelectorAll(div, verseExpr) {
			if v.SelectAttr("eID") != "" {
				continue
			}
			ref, err := parseOsisID(v.SelectAttr("osisID"), opts)
			if err != nil {
				return nil, err
			}
			if ref.Book != title {
				return nil, errors.NewCorpusIntegrity("osis", ref.String()+" found inside book "+bookID)
			}

			var text string
			if sid := v.SelectAttr("sID"); sid != "" {
				text = milestoneText(v, sid)
			} else {
				text = containerText(v)
			}
			p.Verses = append(p.Verses, corpus.Verse{
				Reference: ref,
				Text:      text,
				Length:    corpus.TextLength(text),
			})
		}
	}
	if len(p.Books) == 0 {
		return nil, errors.NewCorpusIntegrity("osis", "no book divisions")
	}
	return p, nil
}

// Open loads the OSIS file at path.
func Open(path string, opts Options) (*corpus.StaticProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	return Load(f, opts)
}

// parseOsisID parses "Book.C.V"; when several IDs are listed the first is used.
func parseOsisID(id string, opts Options) (corpus.Reference, error) {
	if fields := strings.Fields(id); len(fields) > 0 {
		id = fields[0]
	}
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return corpus.Reference{}, errors.NewCorpusIntegrity("osis", "malformed verse osisID "+strconv.Quote(id))
	}
	chapter, err1 := strconv.Atoi(parts[1])
	verse, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return corpus.Reference{}, errors.NewCorpusIntegrity("osis", "malformed verse osisID "+strconv.Quote(id))
	}
	return corpus.Reference{Book: opts.title(parts[0]), Chapter: chapter, Verse: verse}, nil
}

// containerText collects the text inside a container verse.
func containerText(v *xmlquery.Node) string {
	var sb strings.Builder
	for n := v.FirstChild; n != nil; n = n.NextSibling {
		writeText(&sb, n)
	}
	return collapse(sb.String())
}

// milestoneText collects the text between a verse start milestone and the
// matching end milestone, which may sit in a different parent element.
func milestoneText(start *xmlquery.Node, sid string) string {
	var sb strings.Builder
	for n := following(start); n != nil; n = following(n) {
		if n.Type == xmlquery.ElementNode && n.Data == "verse" {
			if n.SelectAttr("eID") == sid || n.SelectAttr("sID") != "" {
				break
			}
		}
		if n.Type == xmlquery.ElementNode && skippedInText[n.Data] {
			continue
		}
		if n.Type == xmlquery.TextNode || n.Type == xmlquery.CharDataNode {
			sb.WriteString(n.Data)
		}
	}
	return collapse(sb.String())
}

// following returns the next node in document order after n, skipping n's
// subtree when n is an element excluded from verse text.
func following(n *xmlquery.Node) *xmlquery.Node {
	if n.FirstChild != nil && !(n.Type == xmlquery.ElementNode && skippedInText[n.Data]) {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func writeText(sb *strings.Builder, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		sb.WriteString(n.Data)
	case xmlquery.ElementNode:
		if skippedInText[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(sb, c)
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
