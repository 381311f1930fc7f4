// Package distance measures how far a guessed verse lies from an answer verse.
//
// Two families of metric are provided. TextPercent is global: the share of the
// corpus text lying strictly between the two verses. The scoped metrics count
// books, chapters or verses between the two and normalize by the size of the
// answer's enclosing unit, so a caller can report distance at the coarsest level
// the guess got wrong.
package distance

import (
	"fmt"

	"github.com/FocuswithJustin/versedistance/core/corpus"
)

// Direction tells whether the guess lies before or after the answer.
type Direction string

// Direction constants.
const (
	DirectionLower  Direction = "lower"
	DirectionHigher Direction = "higher"
	DirectionEqual  Direction = "equal"
)

// Unit names the unit a ScopedDistance counts.
type Unit string

// Unit constants.
const (
	UnitBooks    Unit = "books"
	UnitChapters Unit = "chapters"
	UnitVerses   Unit = "verses"
)

// TextDistance is the global text-percentage metric.
type TextDistance struct {
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
}

// ScopedDistance is a count of units between two verses and that count as a
// percentage of the answer's enclosing scope.
type ScopedDistance struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Unit    Unit    `json:"unit"`
}

// Method selects how a Report is rendered.
type Method int

// Method constants.
const (
	TextPercentage Method = iota + 1
	ScopedPercentage
	ScopedCount
)

var methodNames = map[Method]string{
	TextPercentage:   "text-percentage",
	ScopedPercentage: "scoped-percentage",
	ScopedCount:      "scoped-count",
}

// String returns the method's flag spelling.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod parses a method name as produced by Method.String.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown distance method %q (want text-percentage, scoped-percentage or scoped-count)", s)
}

// Report is the full comparison of a guess against an answer.
type Report struct {
	Answer   corpus.Reference `json:"answer"`
	Guess    corpus.Reference `json:"guess"`
	Text     TextDistance     `json:"text"`
	Books    ScopedDistance   `json:"books"`
	Chapters ScopedDistance   `json:"chapters"`
	Verses   ScopedDistance   `json:"verses"`

	BookFound    bool `json:"book_found"`
	ChapterFound bool `json:"chapter_found"`
	VerseFound   bool `json:"verse_found"`
}

// Exact reports whether the guess is the answer.
func (r *Report) Exact() bool {
	return r.BookFound && r.ChapterFound && r.VerseFound
}

// Describe renders the distance hint for method, e.g. " (50% chapters in book away)".
// Scoped methods report the coarsest unit the guess has not matched yet.
// An exact guess renders as the empty string.
func (r *Report) Describe(method Method) string {
	if r.Exact() {
		return ""
	}
	if method == TextPercentage {
		return fmt.Sprintf(" (%0.3f%% away)", r.Text.Percent)
	}

	scoped, label := r.Verses, "verses in chapter"
	switch {
	case !r.BookFound:
		scoped, label = r.Books, "books"
	case !r.ChapterFound:
		scoped, label = r.Chapters, "chapters in book"
	}

	if method == ScopedCount {
		return fmt.Sprintf(" (%d %s away)", scoped.Count, label)
	}
	return fmt.Sprintf(" (%.0f%% %s away)", scoped.Percent, label)
}
