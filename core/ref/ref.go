// Package ref parses human-typed verse references such as "John 3:16",
// "1 John 4:8" or the dotted form "1John.4.8".
package ref

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/errors"
)

// refGrammar matches a numeric book prefix, one or more book name words, then
// chapter and verse separated by ':' or '.'.
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Prefix  string   `parser:"@Int?"`
	Words   []string `parser:"@Ident+"`
	Chapter int      `parser:"\".\"? @Int"`
	Verse   int      `parser:"( \":\" | \".\" ) @Int"`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `\p{L}[\p{L}'-]*`},
	{Name: "Punct", Pattern: `[:.]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses s into a Reference. Book words are Unicode letters and may
// contain apostrophes or hyphens after the first letter. The book is returned as typed (words joined
// by single spaces, a numeric prefix separated by a space); use
// corpus.Index.CanonicalBook or Resolve to map it onto a corpus title.
func Parse(s string) (corpus.Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return corpus.Reference{}, errors.NewValidation("reference", "empty reference")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return corpus.Reference{}, &errors.ValidationError{
			Field:   "reference",
			Value:   s,
			Message: fmt.Sprintf("expected \"Book chapter:verse\", got %q (%v)", s, err),
		}
	}

	book := strings.Join(parsed.Words, " ")
	if parsed.Prefix != "" {
		book = parsed.Prefix + " " + book
	}
	if parsed.Chapter < 1 || parsed.Verse < 1 {
		return corpus.Reference{}, errors.NewValidation("reference", fmt.Sprintf("chapter and verse must be positive in %q", s))
	}
	return corpus.Reference{Book: book, Chapter: parsed.Chapter, Verse: parsed.Verse}, nil
}

// MustParse is like Parse but panics on error. It is intended for tests and
// fixed tables.
func MustParse(s string) corpus.Reference {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}
