package corpus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/FocuswithJustin/versedistance/core/errors"
)

// entry is one indexed verse plus its precomputed sequence numbers.
type entry struct {
	verse      Verse
	bookSeq    int // 1-based position of the verse's book among indexed books
	chapterSeq int // 1-based position of the verse's (book, chapter) in reading order
}

// Index is an immutable, gap-free ordinal index over a corpus.
// All methods are safe for concurrent use.
type Index struct {
	entries []entry
	prefix  []int64 // prefix[i] is the summed length of ordinals 1..i
	byRef   map[Reference]Ordinal
	books   []Book
	byTitle map[string]int    // title -> position in books
	byKey   map[string]string // normalized title -> title
}

// Build loads a corpus from p and indexes it.
func Build(ctx context.Context, p Provider) (*Index, error) {
	order, err := p.BookOrder(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading book order")
	}
	verses, err := p.AllVerses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading verses")
	}
	return NewIndex(order, verses)
}

// NewIndex indexes verses given in reading order. bookOrder lists every book
// short title in reading order; books without verses are left out of the index.
//
// The verses must be sorted consistently with bookOrder, chapters must not
// decrease within a book and verses must strictly increase within a chapter.
// Violations are reported as *errors.CorpusIntegrityError.
func NewIndex(bookOrder []string, verses []Verse) (*Index, error) {
	if len(verses) == 0 {
		return nil, errors.NewCorpusIntegrity("verse_count", "corpus has no verses")
	}

	position := make(map[string]int, len(bookOrder))
	for i, title := range bookOrder {
		if _, dup := position[title]; dup {
			return nil, errors.NewCorpusIntegrity("book_order", fmt.Sprintf("book %q listed twice", title))
		}
		position[title] = i
	}

	idx := &Index{
		entries: make([]entry, len(verses)),
		prefix:  make([]int64, len(verses)+1),
		byRef:   make(map[Reference]Ordinal, len(verses)),
		byTitle: make(map[string]int),
		byKey:   make(map[string]string),
	}

	prevPos, prevChapter, prevVerse := -1, 0, 0
	bookSeq, chapterSeq := 0, 0

	for i, v := range verses {
		ord := Ordinal(i + 1)
		pos, ok := position[v.Book]
		if !ok {
			return nil, errors.NewCorpusIntegrity("book_order",
				fmt.Sprintf("verse %s names a book missing from the book order", v.Reference))
		}
		if v.Chapter < 1 || v.Verse < 1 {
			return nil, errors.NewCorpusIntegrity("numbering",
				fmt.Sprintf("verse %s has a non-positive chapter or verse number", v.Reference))
		}
		if v.Length < 0 {
			return nil, errors.NewCorpusIntegrity("length",
				fmt.Sprintf("verse %s has negative length %d", v.Reference, v.Length))
		}

		switch {
		case pos < prevPos:
			return nil, errors.NewCorpusIntegrity("ordering",
				fmt.Sprintf("verse %s appears after a later book", v.Reference))
		case pos > prevPos:
			if bookSeq > 0 {
				idx.books[bookSeq-1].Last = ord - 1
			}
			bookSeq++
			chapterSeq++
			idx.byTitle[v.Book] = len(idx.books)
			idx.books = append(idx.books, Book{Title: v.Book, Order: bookSeq, Chapters: 1, First: ord})
		case v.Chapter < prevChapter:
			return nil, errors.NewCorpusIntegrity("ordering",
				fmt.Sprintf("verse %s appears after a later chapter", v.Reference))
		case v.Chapter > prevChapter:
			chapterSeq++
			idx.books[bookSeq-1].Chapters++
		case v.Verse <= prevVerse:
			return nil, errors.NewCorpusIntegrity("ordering",
				fmt.Sprintf("verse %s is duplicated or out of order", v.Reference))
		}

		idx.entries[i] = entry{verse: v, bookSeq: bookSeq, chapterSeq: chapterSeq}
		idx.prefix[i+1] = idx.prefix[i] + int64(v.Length)
		idx.byRef[v.Reference] = ord
		prevPos, prevChapter, prevVerse = pos, v.Chapter, v.Verse
	}
	idx.books[len(idx.books)-1].Last = Ordinal(len(verses))

	for _, b := range idx.books {
		key := bookKey(b.Title)
		if other, clash := idx.byKey[key]; clash {
			return nil, errors.NewCorpusIntegrity("book_titles",
				fmt.Sprintf("books %q and %q are indistinguishable", other, b.Title))
		}
		idx.byKey[key] = b.Title
	}

	return idx, nil
}

// bookKey normalizes a book title for lenient matching: case, spaces and dots are ignored.
func bookKey(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		if r == ' ' || r == '.' || r == '\t' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Len returns the number of verses (the highest ordinal).
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Contains reports whether o is a valid ordinal.
func (idx *Index) Contains(o Ordinal) bool {
	return o >= 1 && int(o) <= len(idx.entries)
}

// Resolve returns the ordinal of ref. The book may be given in any casing or
// spacing that CanonicalBook accepts.
func (idx *Index) Resolve(ref Reference) (Ordinal, error) {
	if ord, ok := idx.byRef[ref]; ok {
		return ord, nil
	}
	if title, ok := idx.CanonicalBook(ref.Book); ok && title != ref.Book {
		canonical := Reference{Book: title, Chapter: ref.Chapter, Verse: ref.Verse}
		if ord, ok := idx.byRef[canonical]; ok {
			return ord, nil
		}
	}
	return 0, errors.NewReferenceNotFound(ref.String())
}

// VerseAt returns the verse at ordinal o.
func (idx *Index) VerseAt(o Ordinal) (Verse, error) {
	if !idx.Contains(o) {
		return Verse{}, ordinalNotFound(o)
	}
	return idx.entries[o-1].verse, nil
}

// LengthOf returns the length of the verse at ordinal o.
func (idx *Index) LengthOf(o Ordinal) (int, error) {
	if !idx.Contains(o) {
		return 0, ordinalNotFound(o)
	}
	return idx.entries[o-1].verse.Length, nil
}

func ordinalNotFound(o Ordinal) error {
	return errors.NewReferenceNotFound(fmt.Sprintf("ordinal %d", o))
}

// LengthBetween sums verse lengths over the open interval (lo, hi).
// The bounds may be given in either order; equal or adjacent ordinals yield 0.
func (idx *Index) LengthBetween(lo, hi Ordinal) (int64, error) {
	lo, hi, err := idx.bounds(lo, hi)
	if err != nil {
		return 0, err
	}
	if hi-lo < 2 {
		return 0, nil
	}
	// prefix[hi-1] covers ordinals 1..hi-1, prefix[lo] covers 1..lo.
	return idx.prefix[hi-1] - idx.prefix[lo], nil
}

// DistinctBooks counts the books touched by ordinals in [lo, hi).
func (idx *Index) DistinctBooks(lo, hi Ordinal) (int, error) {
	lo, hi, err := idx.bounds(lo, hi)
	if err != nil || lo == hi {
		return 0, err
	}
	return idx.entries[hi-2].bookSeq - idx.entries[lo-1].bookSeq + 1, nil
}

// DistinctChapters counts the (book, chapter) pairs touched by ordinals in [lo, hi).
func (idx *Index) DistinctChapters(lo, hi Ordinal) (int, error) {
	lo, hi, err := idx.bounds(lo, hi)
	if err != nil || lo == hi {
		return 0, err
	}
	return idx.entries[hi-2].chapterSeq - idx.entries[lo-1].chapterSeq + 1, nil
}

// DistinctVerses counts the verses in [lo, hi).
func (idx *Index) DistinctVerses(lo, hi Ordinal) (int, error) {
	lo, hi, err := idx.bounds(lo, hi)
	if err != nil {
		return 0, err
	}
	return int(hi - lo), nil
}

// bounds validates both ordinals and returns them ascending.
func (idx *Index) bounds(a, b Ordinal) (Ordinal, Ordinal, error) {
	if !idx.Contains(a) {
		return 0, 0, ordinalNotFound(a)
	}
	if !idx.Contains(b) {
		return 0, 0, ordinalNotFound(b)
	}
	if a > b {
		a, b = b, a
	}
	return a, b, nil
}

// Books returns the indexed books in reading order.
func (idx *Index) Books() []Book {
	out := make([]Book, len(idx.books))
	copy(out, idx.books)
	return out
}

// Book returns the book with the given title (see CanonicalBook for accepted spellings).
func (idx *Index) Book(title string) (Book, error) {
	if i, ok := idx.byTitle[title]; ok {
		return idx.books[i], nil
	}
	if canonical, ok := idx.CanonicalBook(title); ok {
		return idx.books[idx.byTitle[canonical]], nil
	}
	return Book{}, errors.NewUnknownBook(title)
}

// CanonicalBook maps a user-supplied book name onto the corpus title,
// ignoring case, spaces and dots ("1john" and "1 John" match "1 John").
func (idx *Index) CanonicalBook(name string) (string, bool) {
	if _, ok := idx.byTitle[name]; ok {
		return name, true
	}
	title, ok := idx.byKey[bookKey(name)]
	return title, ok
}

// Chapters returns the distinct chapter numbers of a book in ascending order.
func (idx *Index) Chapters(book string) ([]int, error) {
	b, err := idx.Book(book)
	if err != nil {
		return nil, err
	}
	chapters := make([]int, 0, b.Chapters)
	for o := b.First; o <= b.Last; o++ {
		ch := idx.entries[o-1].verse.Chapter
		if n := len(chapters); n == 0 || chapters[n-1] != ch {
			chapters = append(chapters, ch)
		}
	}
	return chapters, nil
}

// Verses returns the verse numbers of a chapter in ascending order.
func (idx *Index) Verses(book string, chapter int) ([]int, error) {
	b, err := idx.Book(book)
	if err != nil {
		return nil, err
	}
	first, last, ok := idx.chapterRange(b, chapter)
	if !ok {
		return nil, errors.NewUnknownChapter(b.Title, chapter)
	}
	verses := make([]int, 0, int(last-first)+1)
	for o := first; o <= last; o++ {
		verses = append(verses, idx.entries[o-1].verse.Verse)
	}
	return verses, nil
}

// chapterRange finds the first and last ordinals of a chapter within book b.
func (idx *Index) chapterRange(b Book, chapter int) (Ordinal, Ordinal, bool) {
	span := int(b.Last-b.First) + 1
	start := sort.Search(span, func(i int) bool {
		return idx.entries[int(b.First)-1+i].verse.Chapter >= chapter
	})
	if start == span || idx.entries[int(b.First)-1+start].verse.Chapter != chapter {
		return 0, 0, false
	}
	end := sort.Search(span, func(i int) bool {
		return idx.entries[int(b.First)-1+i].verse.Chapter > chapter
	})
	return b.First + Ordinal(start), b.First + Ordinal(end) - 1, true
}

// Range returns the verses with ordinals in [from, to], clipped to the corpus.
func (idx *Index) Range(from, to Ordinal) []Verse {
	if from < 1 {
		from = 1
	}
	if int(to) > len(idx.entries) {
		to = Ordinal(len(idx.entries))
	}
	if from > to {
		return nil
	}
	out := make([]Verse, 0, int(to-from)+1)
	for o := from; o <= to; o++ {
		out = append(out, idx.entries[o-1].verse)
	}
	return out
}
