package distance

import (
	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/errors"
)

// Engine computes distances over an indexed corpus. It holds no mutable state
// of its own and is safe for concurrent use.
type Engine struct {
	idx *corpus.Index
	agg *corpus.Aggregates
}

// NewEngine creates an engine over idx, normalizing with agg.
func NewEngine(idx *corpus.Index, agg *corpus.Aggregates) *Engine {
	return &Engine{idx: idx, agg: agg}
}

// TextPercent returns the share of corpus text strictly between answer a and guess g.
// Neither endpoint's own length is counted.
func (e *Engine) TextPercent(a, g corpus.Ordinal) (TextDistance, error) {
	delta, err := e.idx.LengthBetween(a, g)
	if err != nil {
		return TextDistance{}, err
	}
	total, err := e.agg.TotalTextLength()
	if err != nil {
		return TextDistance{}, err
	}

	dir := DirectionEqual
	switch {
	case g > a:
		dir = DirectionHigher
	case g < a:
		dir = DirectionLower
	}
	return TextDistance{Percent: percent(float64(delta), float64(total)), Direction: dir}, nil
}

// BetweenBooks counts the books crossed between a and g. Distinct books in
// [lo, hi) are counted and the starting book is not; two verses in the same
// book are 0 apart. The percentage is of the corpus book count.
func (e *Engine) BetweenBooks(a, g corpus.Ordinal) (ScopedDistance, error) {
	n, err := e.idx.DistinctBooks(a, g)
	if err != nil {
		return ScopedDistance{}, err
	}
	total, err := e.agg.TotalBookCount()
	if err != nil {
		return ScopedDistance{}, err
	}
	count := excludeStart(n)
	return ScopedDistance{Count: count, Percent: scopedPercent(count, total), Unit: UnitBooks}, nil
}

// BetweenChapters counts the chapters crossed between a and g with the same rule
// as BetweenBooks, as a percentage of the chapters in book (the answer's book).
func (e *Engine) BetweenChapters(a, g corpus.Ordinal, book string) (ScopedDistance, error) {
	n, err := e.idx.DistinctChapters(a, g)
	if err != nil {
		return ScopedDistance{}, err
	}
	total, err := e.agg.ChapterCount(book)
	if err != nil {
		return ScopedDistance{}, err
	}
	count := excludeStart(n)
	return ScopedDistance{Count: count, Percent: scopedPercent(count, total), Unit: UnitChapters}, nil
}

// BetweenVerses counts the verses in [lo, hi) as a percentage of the highest
// verse number in the answer's chapter. Unlike books and chapters, the starting
// verse is counted, so adjacent verses are 1 apart.
func (e *Engine) BetweenVerses(a, g corpus.Ordinal, book string, chapter int) (ScopedDistance, error) {
	count, err := e.idx.DistinctVerses(a, g)
	if err != nil {
		return ScopedDistance{}, err
	}
	total, err := e.agg.MaxVerse(book, chapter)
	if err != nil {
		return ScopedDistance{}, err
	}
	return ScopedDistance{Count: count, Percent: scopedPercent(count, total), Unit: UnitVerses}, nil
}

// Compare resolves both references and computes every metric. Scoped metrics are
// normalized by the answer's book and chapter.
func (e *Engine) Compare(answer, guess corpus.Reference) (*Report, error) {
	a, err := e.idx.Resolve(answer)
	if err != nil {
		return nil, errors.Wrap(err, "answer")
	}
	g, err := e.idx.Resolve(guess)
	if err != nil {
		return nil, errors.Wrap(err, "guess")
	}

	// Work with the corpus spelling of both references.
	av, err := e.idx.VerseAt(a)
	if err != nil {
		return nil, err
	}
	gv, err := e.idx.VerseAt(g)
	if err != nil {
		return nil, err
	}
	answer, guess = av.Reference, gv.Reference

	r := &Report{Answer: answer, Guess: guess}
	if r.Text, err = e.TextPercent(a, g); err != nil {
		return nil, err
	}
	if r.Books, err = e.BetweenBooks(a, g); err != nil {
		return nil, err
	}
	if r.Chapters, err = e.BetweenChapters(a, g, answer.Book); err != nil {
		return nil, err
	}
	if r.Verses, err = e.BetweenVerses(a, g, answer.Book, answer.Chapter); err != nil {
		return nil, err
	}

	r.BookFound = answer.SameBook(guess)
	r.ChapterFound = answer.SameChapter(guess)
	r.VerseFound = r.ChapterFound && answer.Verse == guess.Verse
	return r, nil
}

// excludeStart turns a distinct-unit count over [lo, hi) into the number of units
// crossed: the unit containing lo is not counted.
func excludeStart(n int) int {
	if n <= 1 {
		return 0
	}
	return n - 1
}

func percent(part, whole float64) float64 {
	return part / whole * 100
}

// scopedPercent normalizes count against the enclosing scope, capped at 100.
// The cap applies when the guess lies outside the answer's scope.
func scopedPercent(count, scope int) float64 {
	p := percent(float64(count), float64(scope))
	if p > 100 {
		return 100
	}
	return p
}
