// Package corpustest provides small corpora for tests.
package corpustest

import (
	"fmt"

	"github.com/FocuswithJustin/versedistance/core/corpus"
)

// Scenario returns the nine-verse corpus used throughout the tests:
//
//	A 1:1-3, A 2:1-2, B 1:1-4
//
// Every verse has length 10, so the total text length is 90.
func Scenario() *corpus.StaticProvider {
	p := &corpus.StaticProvider{Books: []string{"A", "B"}}
	add := func(book string, chapter, verses int) {
		for v := 1; v <= verses; v++ {
			p.Verses = append(p.Verses, corpus.Verse{
				Reference: corpus.Reference{Book: book, Chapter: chapter, Verse: v},
				Text:      fmt.Sprintf("%-10s", fmt.Sprintf("%s %d:%d", book, chapter, v)),
				Length:    10,
			})
		}
	}
	add("A", 1, 3)
	add("A", 2, 2)
	add("B", 1, 4)
	return p
}

// Sample returns a small excerpt of real scripture spanning three books, with
// lengths measured by corpus.TextLength.
func Sample() *corpus.StaticProvider {
	rows := []struct {
		book    string
		chapter int
		verse   int
		text    string
	}{
		{"Genesis", 1, 1, "In the beginning God created the heaven and the earth."},
		{"Genesis", 1, 2, "And the earth was without form, and void; and darkness was upon the face of the deep."},
		{"Genesis", 1, 3, "And God said, Let there be light: and there was light."},
		{"Genesis", 2, 1, "Thus the heavens and the earth were finished, and all the host of them."},
		{"Genesis", 2, 2, "And on the seventh day God ended his work which he had made."},
		{"John", 3, 15, "That whosoever believeth in him should not perish, but have eternal life."},
		{"John", 3, 16, "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
		{"John", 3, 17, "For God sent not his Son into the world to condemn the world; but that the world through him might be saved."},
		{"1 John", 4, 7, "Beloved, let us love one another: for love is of God."},
		{"1 John", 4, 8, "He that loveth not knoweth not God; for God is love."},
	}

	p := &corpus.StaticProvider{Books: []string{"Genesis", "Exodus", "John", "1 John"}}
	for _, r := range rows {
		p.Verses = append(p.Verses, corpus.Verse{
			Reference: corpus.Reference{Book: r.book, Chapter: r.chapter, Verse: r.verse},
			Text:      r.text,
			Length:    corpus.TextLength(r.text),
		})
	}
	return p
}

// Ref is shorthand for building a corpus.Reference.
func Ref(book string, chapter, verse int) corpus.Reference {
	return corpus.Reference{Book: book, Chapter: chapter, Verse: verse}
}
