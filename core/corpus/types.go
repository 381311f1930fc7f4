package corpus

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Ordinal is a verse's 1-based position in the corpus reading order.
type Ordinal int

// Reference identifies a verse by book short title, chapter and verse number.
// A Reference is not guaranteed to exist in any corpus.
type Reference struct {
	Book    string `json:"book" yaml:"book"`
	Chapter int    `json:"chapter" yaml:"chapter"`
	Verse   int    `json:"verse" yaml:"verse"`
}

// String renders the reference as "Book C:V".
func (r Reference) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// SameBook reports whether both references name the same book.
func (r Reference) SameBook(other Reference) bool {
	return r.Book == other.Book
}

// SameChapter reports whether both references name the same book and chapter.
func (r Reference) SameChapter(other Reference) bool {
	return r.Book == other.Book && r.Chapter == other.Chapter
}

// Verse is a single verse with its text and length.
type Verse struct {
	Reference
	Text   string `json:"text"`
	Length int    `json:"len"`
}

// Book describes one book of the corpus.
type Book struct {
	// Title is the short title used in references (e.g., "Genesis", "1 John").
	Title string `json:"title"`

	// Order is the book's position in reading order (dense, 1-indexed).
	Order int `json:"order"`

	// Chapters is the number of distinct chapters in the book.
	Chapters int `json:"chapters"`

	// First and Last are the ordinals of the book's first and last verses.
	First Ordinal `json:"first"`
	Last  Ordinal `json:"last"`
}

// Provider supplies a corpus in canonical reading order.
// Implementations may be backed by files or databases, so both calls take a context.
type Provider interface {
	// AllVerses returns every verse in reading order.
	AllVerses(ctx context.Context) ([]Verse, error)

	// BookOrder returns book short titles in reading order.
	BookOrder(ctx context.Context) ([]string, error)
}

// StaticProvider serves a corpus held in memory.
type StaticProvider struct {
	Books  []string
	Verses []Verse
}

// AllVerses implements Provider.
func (p *StaticProvider) AllVerses(ctx context.Context) ([]Verse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Verse, len(p.Verses))
	copy(out, p.Verses)
	return out, nil
}

// BookOrder implements Provider.
func (p *StaticProvider) BookOrder(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(p.Books))
	copy(out, p.Books)
	return out, nil
}

// TextLength returns the length of a verse text in Unicode code points.
// Providers whose source carries no stored length use it.
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}
